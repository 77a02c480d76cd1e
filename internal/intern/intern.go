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

// Package intern provides an interning table for identifiers and symbol
// paths, with liveness marking so that long-lived tables can be collected.
package intern

import (
	"fmt"
	"strings"
	"sync"

	"github.com/parlang/dyno/internal/ext/mapsx"
)

// ID is an interned string in a particular [Table].
//
// IDs can be compared very cheaply. The zero value of ID always
// corresponds to the empty string.
//
// # Representation
//
// If the high bit is cleared, then this is an index into the stored strings
// inside of the [Table] that created it.
//
// Otherwise, it is up to five characters drawn from the [LLVM char6 encoding],
// represented in-line using the bits of the ID. Inlined IDs are never
// collected, because they do not occupy space in the table.
//
// [LLVM char6 encoding]: https://llvm.org/docs/BitCodeFormat.html#bit-characters
type ID int32

// String implements [fmt.Stringer].
//
// Note that this will not convert the ID back into a string; to do that, you
// must call [Table.Value].
func (id ID) String() string {
	if id == 0 {
		return `intern.ID("")`
	}
	if id < 0 {
		return fmt.Sprintf("intern.ID(%q)", unpack(id))
	}
	return fmt.Sprintf("intern.ID(%d)", int(id))
}

// GoString implements [fmt.GoStringer].
func (id ID) GoString() string {
	return id.String()
}

// Inlined returns whether this ID stores its string in-line.
//
// The empty string counts as inlined.
func (id ID) Inlined() bool {
	return id <= 0
}

// Table is an interning table.
//
// A table can be used to convert strings into [ID]s and back again.
//
// The zero value of Table is empty and ready to use.
type Table struct {
	mu    sync.RWMutex
	index map[string]ID
	table []slot
	live  int
}

type slot struct {
	value string
	dead  bool
}

// Intern interns the given string into this table.
//
// This function may be called by multiple goroutines concurrently.
func (t *Table) Intern(s string) ID {
	// Fast path for strings that have already been interned. We take only a
	// read lock, which keeps concurrent parsers from serializing on the table.
	if id, ok := t.Query(s); ok {
		return id
	}

	return t.internSlow(s)
}

// Query will query whether s has already been interned.
//
// If s has never been interned, returns false. This is useful for e.g. querying
// an intern-keyed map using a string: a failed query indicates that the string
// has never been seen before, so searching the map will be futile.
//
// If s is small enough to be inlined in an ID, it is treated as always being
// interned.
func (t *Table) Query(s string) (ID, bool) {
	if packed, ok := inline(s); ok {
		// This also handles s == "".
		return packed, true
	}

	t.mu.RLock()
	id, ok := t.index[s]
	t.mu.RUnlock()

	return id, ok
}

func (t *Table) internSlow(s string) ID {
	// Intern tables are expected to be long-lived. Avoid holding onto a larger
	// buffer that s is an internal pointer to by cloning it.
	s = strings.Clone(s)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Someone may have raced us between RUnlock and Lock.
	if id, ok := t.index[s]; ok {
		return id
	}

	t.table = append(t.table, slot{value: s})
	t.live++

	// The first ID will have value 1. ID 0 is reserved for "".
	id := ID(len(t.table))
	if id < 0 {
		panic(fmt.Sprintf("dyno/intern: %d interning IDs exhausted", len(t.table)))
	}

	if t.index == nil {
		t.index = make(map[string]ID)
	}
	t.index[s] = id

	return id
}

// Value converts an [ID] back into its corresponding string.
//
// If id was created by a different [Table], the results are unspecified,
// including potentially a panic. Panics if id has been collected by
// [Table.Sweep]; that indicates that some value holding id was never marked.
//
// This function may be called by multiple goroutines concurrently.
func (t *Table) Value(id ID) string {
	if id == 0 {
		return ""
	}

	if id < 0 {
		return unpack(id)
	}

	return t.getSlow(id)
}

func (t *Table) getSlow(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.table[int(id)-1]
	if s.dead {
		panic(fmt.Sprintf("dyno/intern: use of collected %v", id))
	}
	return s.value
}

// Len returns the number of strings currently held by the table, excluding
// inlined strings and collected strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// NewMarker returns a new, empty [Marker] for this table.
func (t *Table) NewMarker() *Marker {
	return &Marker{table: t, live: make(Set)}
}

// Sweep collects every string in this table whose ID was not marked by m.
//
// Collected IDs are never reused: a later call to [Table.Intern] with the
// same string produces a new ID. Returns the number of strings collected.
//
// Panics if m was created by a different table.
func (t *Table) Sweep(m *Marker) (collected int) {
	if m.table != t {
		panic("dyno/intern: swept table with a marker from another table")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.table {
		s := &t.table[i]
		if s.dead || m.live.ContainsID(ID(i+1)) {
			continue
		}

		delete(t.index, s.value)
		*s = slot{dead: true}
		collected++
	}

	t.live -= collected
	return collected
}

// Marker records which IDs of a [Table] are still reachable from some
// long-lived value, such as a cached compilation result.
//
// A Marker is not safe for concurrent use.
type Marker struct {
	table *Table
	live  Set
}

// Table returns the table this marker was created for.
func (m *Marker) Table() *Table {
	return m.table
}

// Mark records each of ids as live. Inlined IDs are ignored.
func (m *Marker) Mark(ids ...ID) {
	for _, id := range ids {
		if !id.Inlined() {
			m.live.AddID(id)
		}
	}
}

// Marked returns whether id has been marked. Inlined IDs are always marked.
func (m *Marker) Marked(id ID) bool {
	return id.Inlined() || m.live.ContainsID(id)
}

// Len returns the number of distinct non-inlined IDs marked so far.
func (m *Marker) Len() int {
	return len(m.live)
}

// Set is a set of intern IDs.
type Set map[ID]struct{}

// ContainsID returns whether s contains the given ID.
func (s Set) ContainsID(id ID) bool {
	_, ok := s[id]
	return ok
}

// Contains returns whether s contains the given string.
func (s Set) Contains(table *Table, key string) bool {
	k, ok := table.Query(key)
	if !ok {
		return false
	}
	_, ok = s[k]
	return ok
}

// AddID adds an ID to s, and returns whether it was added.
func (s Set) AddID(id ID) (inserted bool) {
	return mapsx.AddZero(s, id)
}

// Add adds a string to s, and returns whether it was added.
func (s Set) Add(table *Table, key string) (inserted bool) {
	return s.AddID(table.Intern(key))
}
