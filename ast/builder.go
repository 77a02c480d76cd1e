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
	"os"

	"github.com/petermattis/goid"

	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

var debugMode = os.Getenv("DYNO_DEBUG") != ""

// Builder accumulates the syntax tree of one compilation unit.
//
// A Builder has two states: accumulating, and empty. Calls to
// [Builder.AddTopLevel], [Builder.AddError], and [Builder.NoteLocation]
// accumulate; [Builder.Result] hands everything accumulated so far to the
// caller and returns the Builder to empty. It may then be reused for another
// parse of the same unit.
//
// None of the bookkeeping operations can fail. Problems with the input are
// recorded as diagnostics, and problems with how the Builder is being driven
// cause panics.
//
// A Builder must only be used by one goroutine at a time. When the
// DYNO_DEBUG environment variable is set, this is checked.
type Builder struct {
	ctx  *Context
	path string

	topLevel  []*Node
	report    report.Report
	locations map[*Node]source.Span

	owner int64 // Only set in debug mode.
}

// NewBuilder returns a new, empty builder for the compilation unit with the
// given path.
func NewBuilder(ctx *Context, path string) *Builder {
	if ctx == nil {
		panic("dyno/ast: nil Context")
	}
	return &Builder{ctx: ctx, path: path}
}

// Context returns the context this builder interns names into.
func (b *Builder) Context() *Context {
	return b.ctx
}

// Path returns the path of the compilation unit being built.
func (b *Builder) Path() string {
	return b.path
}

// Report returns the report that diagnostics are accumulated into.
//
// The report is handed to the [Result], so it must not be retained past the
// next call to [Builder.Result].
func (b *Builder) Report() *report.Report {
	b.checkOwner()
	return &b.report
}

// AddTopLevel appends n to the top level of the unit.
//
// Top-level nodes are kept in the order they were added, and that order is
// what disambiguates top-level declarations with the same name.
func (b *Builder) AddTopLevel(n *Node) {
	b.checkOwner()
	if n == nil {
		panic("dyno/ast: nil top-level node")
	}
	b.topLevel = append(b.topLevel, n)
}

// AddError appends a diagnostic to the unit.
func (b *Builder) AddError(d report.Diagnostic) {
	b.checkOwner()
	b.report.Push(d)
}

// Errorf is shorthand for pushing an error diagnostic at span.
func (b *Builder) Errorf(span source.Span, format string, args ...any) *report.Diagnostic {
	b.checkOwner()
	return b.report.Errorf(format, args...).Apply(report.Snippet(span))
}

// NoteLocation records where in the source n came from.
//
// The Build* functions call this for every node they build, so parsers only
// need to call it to correct a span. If a node's location is noted more than
// once, the last one wins. Zero spans are ignored.
func (b *Builder) NoteLocation(n *Node, span source.Span) {
	b.checkOwner()
	if n == nil || span.IsZero() {
		return
	}
	if b.locations == nil {
		b.locations = make(map[*Node]source.Span)
	}
	b.locations[n] = span
}

// Result finalizes the unit: it assigns an [ID] to every node reachable from
// the top level and returns everything accumulated since the last call.
//
// Afterwards, b is empty. Calling Result again without adding anything
// returns an empty Result.
func (b *Builder) Result() *Result {
	b.checkOwner()

	r := &Result{
		ctx:      b.ctx,
		path:     b.path,
		topLevel: b.topLevel,
		report:   new(report.Report),
	}
	*r.report = b.report
	assignIDs(b.ctx, b.path, r.topLevel)
	r.indexLocations(b.locations)

	*b = Builder{ctx: b.ctx, path: b.path, owner: b.owner}
	return r
}

// checkOwner panics if this builder is being used from more than one
// goroutine. Does nothing outside of debug mode.
func (b *Builder) checkOwner() {
	if !debugMode {
		return
	}
	id := goid.Get()
	switch b.owner {
	case 0:
		b.owner = id
	case id:
	default:
		panic(fmt.Sprintf("dyno/ast: builder for %q used from goroutine %d, but it belongs to goroutine %d", b.path, id, b.owner))
	}
}
