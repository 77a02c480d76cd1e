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
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/parlang/dyno/internal/intern"
)

// ID is the identity of a [Node] within one compilation unit.
//
// Declarations are identified by their symbol path and an ordinal which
// distinguishes declarations that share a path, in the order they were
// given to the [Builder]. Every other node is identified by the path and
// ordinal of its nearest enclosing declaration, plus its post-order position
// among the non-declaration nodes of that declaration.
//
// IDs are computed from the shape of the tree alone, so two builds of
// byte-identical source produce identical IDs.
//
// The zero ID means "not yet assigned".
type ID struct {
	// The symbol path of this declaration, or of the enclosing declaration.
	Path intern.ID
	// Disambiguates declarations with the same path.
	Ordinal int32
	// Post-order position within the enclosing declaration, or -1 for a
	// declaration.
	Index int32
	// The number of non-declaration nodes beneath this node in the same
	// declaration.
	Descendants int32
}

// IsZero returns whether this ID has not been assigned.
func (id ID) IsZero() bool {
	return id.Path == 0
}

// IsDecl returns whether this ID identifies a declaration.
func (id ID) IsDecl() bool {
	return !id.IsZero() && id.Index < 0
}

// Scope returns the ID of the declaration that id lies within; for a
// declaration, that is id itself.
func (id ID) Scope() ID {
	if id.IsDecl() {
		return id
	}
	return ID{Path: id.Path, Ordinal: id.Ordinal, Index: -1}
}

// Contains returns whether other identifies a node beneath id within the
// same declaration.
//
// Nested declarations have paths of their own, so a declaration does not
// contain the declarations nested inside it in this sense.
func (id ID) Contains(other ID) bool {
	if id.IsZero() || other.IsZero() || other.Index < 0 ||
		id.Path != other.Path || id.Ordinal != other.Ordinal {
		return false
	}
	if id.Index < 0 {
		return other.Index < id.Descendants
	}
	return other.Index < id.Index && other.Index >= id.Index-id.Descendants
}

// Compare orders IDs by path handle, then ordinal, then index.
//
// The order is deterministic within one interning table, but it is not
// lexicographic by path.
func (id ID) Compare(other ID) int {
	return cmp.Or(
		cmp.Compare(id.Path, other.Path),
		cmp.Compare(id.Ordinal, other.Ordinal),
		cmp.Compare(id.Index, other.Index),
	)
}

// Describe formats this ID as a human-readable string: "Color.Red" for a
// declaration, "f#1" for the second declaration named f in its scope, and
// "Color@2" for a non-declaration node.
func (id ID) Describe(table *intern.Table) string {
	if id.IsZero() {
		return "<no id>"
	}

	var buf strings.Builder
	buf.WriteString(scopePath(table.Value(id.Path), id.Ordinal))
	if !id.IsDecl() {
		buf.WriteByte('@')
		buf.WriteString(strconv.Itoa(int(id.Index)))
	}
	return buf.String()
}

// String implements [fmt.Stringer].
//
// Use [ID.Describe] to see the path.
func (id ID) String() string {
	if id.IsZero() {
		return "ast.ID(<nil>)"
	}
	if id.IsDecl() {
		return fmt.Sprintf("ast.ID(%v#%d)", id.Path, id.Ordinal)
	}
	return fmt.Sprintf("ast.ID(%v#%d@%d)", id.Path, id.Ordinal, id.Index)
}

// scopePath returns the path that declarations nested within the declaration
// (path, ordinal) are qualified with.
func scopePath(path string, ordinal int32) string {
	if ordinal == 0 {
		return path
	}
	return path + "#" + strconv.Itoa(int(ordinal))
}
