// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/tidwall/btree"

	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/internal/interval"
	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

// Result is a finalized compilation unit: its top-level nodes, the
// diagnostics produced while building them, and where each node came from.
//
// A Result is immutable. It is the value that the incremental engine caches
// per unit; see [Result.Update] and [Result.Mark].
type Result struct {
	ctx      *Context
	path     string
	topLevel []*Node
	report   *report.Report

	// Source spans, ordered by ID.
	locations *btree.BTreeG[location]

	byID struct {
		once  sync.Once
		nodes map[ID]*Node
	}
	byOffset struct {
		once  sync.Once
		files map[*source.File]*interval.Intersect[int, ID]
	}
}

// location is an entry in a Result's location table.
type location struct {
	id   ID
	span source.Span
}

func newLocations() *btree.BTreeG[location] {
	return btree.NewBTreeGOptions(
		func(a, b location) bool { return a.id.Compare(b.id) < 0 },
		btree.Options{NoLocks: true},
	)
}

// indexLocations fills the location table from a builder's notes. Notes for
// nodes that did not end up in the tree are dropped.
func (r *Result) indexLocations(notes map[*Node]source.Span) {
	r.locations = newLocations()
	for n := range r.Nodes() {
		if span, ok := notes[n]; ok {
			r.locations.Set(location{n.id, span})
		}
	}
}

// Context returns the context this result's names are interned in.
func (r *Result) Context() *Context {
	return r.ctx
}

// Path returns the path of the compilation unit.
func (r *Result) Path() string {
	return r.path
}

// TopLevel returns the top-level nodes of the unit, in the order they were
// added to the [Builder]. The returned slice must not be modified.
func (r *Result) TopLevel() []*Node {
	return r.topLevel
}

// Report returns the diagnostics produced while building the unit. The
// returned report must not be modified.
func (r *Result) Report() *report.Report {
	return r.report
}

// Diagnostics is shorthand for r.Report().Diagnostics.
func (r *Result) Diagnostics() []report.Diagnostic {
	return r.report.Diagnostics
}

// Nodes returns an iterator over every node in the unit, in depth-first
// pre-order.
func (r *Result) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range r.topLevel {
			for n := range Walk(n) {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Location returns the source span of the node with the given ID.
func (r *Result) Location(id ID) (source.Span, bool) {
	loc, ok := r.locations.Get(location{id: id})
	return loc.span, ok
}

// LocationOf returns the source span of n, or the zero span if n is not
// part of this unit or has no recorded location.
func (r *Result) LocationOf(n *Node) source.Span {
	if r.Find(n.ID()) != n {
		return source.Span{}
	}
	span, _ := r.Location(n.ID())
	return span
}

// Locations returns an iterator over every location record, ordered by ID.
func (r *Result) Locations() iter.Seq2[ID, source.Span] {
	return func(yield func(ID, source.Span) bool) {
		r.locations.Scan(func(loc location) bool {
			return yield(loc.id, loc.span)
		})
	}
}

// NumLocations returns the number of location records.
func (r *Result) NumLocations() int {
	return r.locations.Len()
}

// Find returns the node in this unit with the given ID, or nil.
func (r *Result) Find(id ID) *Node {
	r.byID.once.Do(func() {
		r.byID.nodes = make(map[ID]*Node)
		for n := range r.Nodes() {
			r.byID.nodes[n.id] = n
		}
	})
	return r.byID.nodes[id]
}

// NodesAt returns every node of this unit whose span in file contains the
// given byte offset, innermost first.
func (r *Result) NodesAt(file *source.File, offset int) []*Node {
	r.byOffset.once.Do(func() {
		r.byOffset.files = make(map[*source.File]*interval.Intersect[int, ID])
		// Outermost first, so that a parent sorts before a child with an
		// identical span.
		for n := range r.Nodes() {
			span, ok := r.Location(n.id)
			if !ok || span.Len() == 0 {
				continue
			}
			tree := r.byOffset.files[span.File]
			if tree == nil {
				tree = new(interval.Intersect[int, ID])
				r.byOffset.files[span.File] = tree
			}
			tree.Insert(span.Start, span.End-1, n.id)
		}
	})

	tree := r.byOffset.files[file]
	if tree == nil {
		return nil
	}
	ids := tree.Get(offset).Value
	nodes := make([]*Node, 0, len(ids))
	for _, id := range slices.Backward(ids) {
		nodes = append(nodes, r.Find(id))
	}
	return nodes
}

// Update decides whether a freshly built result for the same unit can be
// discarded in favor of r.
//
// If fresh's top level is structurally equal to r's, the returned result
// keeps r's nodes (and their IDs) along with fresh's diagnostics and
// locations, and changed is false. Otherwise, fresh is returned as-is and
// changed is true. Locations are never merged: they are always taken from
// fresh in their entirety.
//
// Neither r nor fresh is modified.
func (r *Result) Update(fresh *Result) (kept *Result, changed bool) {
	switch {
	case r == nil:
		return fresh, true
	case fresh == nil:
		return r, false
	case r.ctx.table != fresh.ctx.table:
		return fresh, true
	case r.path != fresh.path:
		panic(fmt.Sprintf("dyno/ast: update of %q with a result for %q", r.path, fresh.path))
	case !MatchSlices(r.topLevel, fresh.topLevel):
		return fresh, true
	}

	return &Result{
		ctx:       r.ctx,
		path:      r.path,
		topLevel:  r.topLevel,
		report:    fresh.report,
		locations: fresh.locations,
	}, false
}

// Mark marks every interned name reachable from this result as live.
//
// Panics if m was not created by this result's interning table.
func (r *Result) Mark(m *intern.Marker) {
	if r == nil {
		return
	}
	if m.Table() != r.ctx.table {
		panic("dyno/ast: marking a result with a marker for a different table")
	}
	for _, n := range r.topLevel {
		n.mark(m)
	}
}
