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

	"fortio.org/safecast"

	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/source"
)

// Node is a node in a syntax tree.
//
// A nil *Node is a valid "absent" node: it has [KindInvalid], no children,
// and the zero [ID]. Nodes cannot be constructed directly; use one of the
// Build* functions of this package.
type Node struct {
	id       ID
	children []*Node
	raw      payload
}

// ChildNum is an offset into the children of a [Node], used by payloads to
// refer to children that play a particular role.
type ChildNum int32

// NoChild is the [ChildNum] of an optional child that is absent.
const NoChild ChildNum = -1

// payload is the kind-specific data of a [Node].
//
// Each kind has exactly one payload type, and it must be comparable: match
// is implemented with == via [matchRaw], so the payload may only contain
// scalar fields, interned names, and [ChildNum]s.
type payload interface {
	kind() Kind

	// match reports whether this payload is structurally equal to that.
	match(that payload) bool

	// mark records every interned name held by this payload.
	mark(m *intern.Marker)
}

// matchRaw implements payload.match for a comparable payload type.
func matchRaw[R interface {
	comparable
	payload
}](r R, that payload) bool {
	other, ok := that.(R)
	return ok && r == other
}

// IsDecl returns whether nodes of this kind are declarations.
func (k Kind) IsDecl() bool {
	return k >= KindVariable && int(k) < NumKinds
}

// Kind returns this node's kind.
func (n *Node) Kind() Kind {
	if n == nil || n.raw == nil {
		return KindInvalid
	}
	return n.raw.kind()
}

// ID returns this node's identity.
//
// Returns the zero ID if the node has not been finalized by
// [Builder.Result].
func (n *Node) ID() ID {
	if n == nil {
		return ID{}
	}
	return n.id
}

// IsDecl returns whether this node is a declaration.
func (n *Node) IsDecl() bool {
	return n.Kind().IsDecl()
}

// NumChildren returns the number of children of this node.
func (n *Node) NumChildren() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns the ith child of this node.
//
// Panics if i is out of range.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns an iterator over the children of this node.
func (n *Node) Children() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		if n == nil {
			return
		}
		for i, c := range n.children {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Match returns whether n and m are structurally equal: they have the same
// kind and payload, and their children match pairwise.
//
// IDs, source locations, and node identity are not compared.
func (n *Node) Match(m *Node) bool {
	switch {
	case n == m:
		return true
	case n == nil || m == nil:
		return false
	}
	return n.raw.match(m.raw) && MatchSlices(n.children, m.children)
}

// MatchSlices returns whether two sequences of nodes match element by
// element; see [Node.Match].
func MatchSlices(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Match(b[i]) {
			return false
		}
	}
	return true
}

// String implements [fmt.Stringer].
func (n *Node) String() string {
	if n == nil {
		return "ast.Node(<nil>)"
	}
	return fmt.Sprintf("ast.Node(%v, %v)", n.Kind(), n.id)
}

// childAt resolves a child offset from a payload. Returns nil for [NoChild].
//
// Panics if c is neither NoChild nor a valid offset, which indicates a
// corrupt payload.
func (n *Node) childAt(c ChildNum) *Node {
	if n == nil || c == NoChild {
		return nil
	}
	if c < 0 || int(c) >= len(n.children) {
		panic(fmt.Sprintf("dyno/ast: child offset %d out of range for %v with %d children", c, n.Kind(), len(n.children)))
	}
	return n.children[c]
}

// tail returns the children of n starting at offset c.
func (n *Node) tail(c ChildNum) []*Node {
	if n == nil || c == NoChild {
		return nil
	}
	if c < 0 || int(c) > len(n.children) {
		panic(fmt.Sprintf("dyno/ast: child offset %d out of range for %v with %d children", c, n.Kind(), len(n.children)))
	}
	return n.children[c:]
}

// mark records every interned name reachable from n, including the paths in
// its ID.
func (n *Node) mark(m *intern.Marker) {
	if n == nil {
		return
	}
	m.Mark(n.id.Path)
	n.raw.mark(m)
	for _, c := range n.children {
		c.mark(m)
	}
}

// children accumulates the children of a node under construction, handing
// out the offsets that its payload records.
type children struct {
	what  Kind
	nodes []*Node
}

// opt appends an optional child, returning [NoChild] if it is absent.
func (c *children) opt(n *Node) ChildNum {
	if n == nil {
		return NoChild
	}
	off := c.offset()
	c.nodes = append(c.nodes, n)
	return off
}

// req appends a child which must be present.
func (c *children) req(role string, n *Node) ChildNum {
	if n == nil {
		panic(fmt.Sprintf("dyno/ast: %v requires a %s", c.what, role))
	}
	return c.opt(n)
}

// optOf is like opt, but also checks the kind of the child.
func (c *children) optOf(role string, want Kind, n *Node) ChildNum {
	if n != nil && n.Kind() != want {
		panic(fmt.Sprintf("dyno/ast: %s of %v must be %v, got %v", role, c.what, want, n.Kind()))
	}
	return c.opt(n)
}

// rest appends a variable-length tail of children, returning the offset of
// its first element. If want is not KindInvalid, every element must have that
// kind.
func (c *children) rest(role string, want Kind, ns []*Node) ChildNum {
	off := c.offset()
	for _, n := range ns {
		switch {
		case n == nil:
			panic(fmt.Sprintf("dyno/ast: nil %s in %v", role, c.what))
		case want != KindInvalid && n.Kind() != want:
			panic(fmt.Sprintf("dyno/ast: %s of %v must be %v, got %v", role, c.what, want, n.Kind()))
		}
	}
	c.nodes = append(c.nodes, ns...)
	return off
}

// offset returns the offset the next child will have.
func (c *children) offset() ChildNum {
	off, err := safecast.Conv[int32](len(c.nodes))
	if err != nil {
		panic(fmt.Sprintf("dyno/ast: too many children for %v: %v", c.what, err))
	}
	return ChildNum(off)
}

// build finishes a node, recording its span with the builder.
func build(b *Builder, span source.Span, raw payload, c children) *Node {
	if c.what != raw.kind() {
		panic(fmt.Sprintf("dyno/ast: built %v with children for %v", raw.kind(), c.what))
	}
	for _, child := range c.nodes {
		if child.id != (ID{}) {
			panic(fmt.Sprintf("dyno/ast: %v is already part of a finalized tree", child))
		}
	}
	n := &Node{children: c.nodes, raw: raw}
	b.NoteLocation(n, span)
	return n
}
