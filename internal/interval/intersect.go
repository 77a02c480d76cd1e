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

// Package interval provides an interval map keyed by integer points, used
// to find every span in a file that covers a given offset.
package interval

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Intersect maps points to the intervals that contain them.
//
// Internally, inserted intervals are cut into disjoint pieces, each of which
// records every inserted value whose interval covers it, in insertion order.
//
// A zero value is ready to use.
type Intersect[K Endpoint, V any] struct {
	// Pieces, keyed by their (inclusive) end.
	tree    btree.Map[K, *Entry[K, []V]]
	scratch []*Entry[K, []V]
}

// Entry is a piece of an [Intersect]: a maximal range of points which are
// all covered by the same intervals.
type Entry[K Endpoint, V any] struct {
	Start, End K // Inclusive.
	Value      V
}

// Contains returns whether an entry contains a given point.
func (e Entry[K, V]) Contains(point K) bool {
	return e.Start <= point && point <= e.End
}

// Get returns the piece containing point. Its values are those of every
// interval containing point, in insertion order.
//
// If no interval contains point, the returned Value is nil.
func (m *Intersect[K, V]) Get(point K) Entry[K, []V] {
	it := m.tree.Iter()
	if !it.Seek(point) || point < it.Value().Start {
		return Entry[K, []V]{}
	}
	return *it.Value()
}

// Entries returns an iterator over the pieces of this map, in order.
func (m *Intersect[K, V]) Entries() iter.Seq[Entry[K, []V]] {
	return func(yield func(Entry[K, []V]) bool) {
		it := m.tree.Iter()
		for more := it.First(); more; more = it.Next() {
			if !yield(*it.Value()) {
				return
			}
		}
	}
}

// Insert adds the interval [start, end] with the given value.
//
// Returns whether the interval was disjoint from everything inserted
// before it.
func (m *Intersect[K, V]) Insert(start, end K, value V) (disjoint bool) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	// Holes in [start, end] not covered by any piece become new pieces
	// holding only value.
	hole := func(a, b K) {
		m.scratch = append(m.scratch, &Entry[K, []V]{Start: a, End: b, Value: []V{value}})
	}

	var prev *Entry[K, []V]
	for piece := range m.overlapping(start, end) {
		switch {
		case prev == nil && start < piece.Start:
			hole(start, piece.Start-1)
		case prev != nil && prev.End+1 < piece.Start:
			hole(prev.End+1, piece.Start-1)
		}

		// Values slices may share backing arrays between pieces that were
		// split from one another, so never append to one in place.
		values := slices.Clip(piece.Value)

		if end < piece.End {
			// Split off the part of piece past end. It keeps its key in the
			// tree, so the part inside [start, end] is the new piece.
			inside := &Entry[K, []V]{Start: piece.Start, End: end, Value: values}
			piece.Start = end + 1
			m.scratch = append(m.scratch, inside)
			piece = inside
		}
		if piece.Start < start {
			// Split off the part of piece before start.
			m.scratch = append(m.scratch, &Entry[K, []V]{Start: piece.Start, End: start - 1, Value: values})
			piece.Start = start
		}

		piece.Value = append(values, value)
		prev = piece
	}

	switch {
	case prev == nil:
		hole(start, end)
	case prev.End < end:
		hole(prev.End+1, end)
	}

	for _, piece := range m.scratch {
		m.tree.Set(piece.End, piece)
	}
	clear(m.scratch)
	m.scratch = m.scratch[:0]

	return prev == nil
}

// Format implements [fmt.Formatter].
func (m *Intersect[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	for piece := range m.Entries() {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false

		if piece.Start == piece.End {
			fmt.Fprintf(s, "%#v: ", piece.Start)
		} else {
			fmt.Fprintf(s, "[%#v, %#v]: ", piece.Start, piece.End)
		}
		fmt.Fprintf(s, fmt.FormatString(s, v), piece.Value)
	}
	fmt.Fprint(s, "}")
}

// overlapping returns an iterator over the pieces that intersect
// [start, end], in order.
func (m *Intersect[K, V]) overlapping(start, end K) iter.Seq[*Entry[K, []V]] {
	return func(yield func(*Entry[K, []V]) bool) {
		// Seeking to start finds the first piece whose end is at least start;
		// from there, pieces overlap until one begins after end.
		it := m.tree.Iter()
		for more := it.Seek(start); more; more = it.Next() {
			if end < it.Value().Start || !yield(it.Value()) {
				return
			}
		}
	}
}
