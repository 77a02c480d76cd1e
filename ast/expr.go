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
	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/source"
)

// Identifier is a reference to a name.
type Identifier struct{ *Node }

type rawIdentifier struct {
	name intern.ID
}

// BuildIdentifier builds a new [Identifier] referencing name.
func BuildIdentifier(b *Builder, span source.Span, name string) Identifier {
	if name == "" {
		panic("dyno/ast: identifier with empty name")
	}
	raw := rawIdentifier{name: b.ctx.Intern(name)}
	return Identifier{build(b, span, raw, children{what: KindIdentifier})}
}

// AsIdentifier converts n into an [Identifier], if that is its kind.
func (n *Node) AsIdentifier() Identifier {
	if n.Kind() != KindIdentifier {
		return Identifier{}
	}
	return Identifier{n}
}

// IsZero returns whether this is the zero view.
func (i Identifier) IsZero() bool { return i.Node == nil }

// Name returns the referenced name.
func (i Identifier) Name() intern.ID {
	return i.raw.(rawIdentifier).name
}

func (r rawIdentifier) kind() Kind              { return KindIdentifier }
func (r rawIdentifier) match(that payload) bool { return matchRaw(r, that) }
func (r rawIdentifier) mark(m *intern.Marker)   { m.Mark(r.name) }

// Call is a call expression: a callee followed by zero or more actuals.
type Call struct{ *Node }

type rawCall struct{}

// BuildCall builds a new [Call].
func BuildCall(b *Builder, span source.Span, callee *Node, actuals ...*Node) Call {
	c := children{what: KindCall}
	c.req("callee", callee)
	c.rest("actual", KindInvalid, actuals)
	return Call{build(b, span, rawCall{}, c)}
}

// AsCall converts n into a [Call], if that is its kind.
func (n *Node) AsCall() Call {
	if n.Kind() != KindCall {
		return Call{}
	}
	return Call{n}
}

// IsZero returns whether this is the zero view.
func (c Call) IsZero() bool { return c.Node == nil }

// Callee returns the expression being called.
func (c Call) Callee() *Node {
	return c.childAt(0)
}

// Actuals returns the arguments of the call.
func (c Call) Actuals() []*Node {
	return c.tail(1)
}

func (r rawCall) kind() Kind              { return KindCall }
func (r rawCall) match(that payload) bool { return matchRaw(r, that) }
func (r rawCall) mark(*intern.Marker)     {}

// OpCall is an application of a built-in operator, such as a + b or !x.
type OpCall struct{ *Node }

type rawOpCall struct {
	op intern.ID
}

// BuildOpCall builds a new [OpCall] of op applied to one or more operands.
func BuildOpCall(b *Builder, span source.Span, op string, operands ...*Node) OpCall {
	if op == "" || len(operands) == 0 {
		panic("dyno/ast: operator call requires an operator and at least one operand")
	}
	c := children{what: KindOpCall}
	c.rest("operand", KindInvalid, operands)
	return OpCall{build(b, span, rawOpCall{op: b.ctx.Intern(op)}, c)}
}

// AsOpCall converts n into an [OpCall], if that is its kind.
func (n *Node) AsOpCall() OpCall {
	if n.Kind() != KindOpCall {
		return OpCall{}
	}
	return OpCall{n}
}

// IsZero returns whether this is the zero view.
func (o OpCall) IsZero() bool { return o.Node == nil }

// Op returns the operator being applied.
func (o OpCall) Op() intern.ID {
	return o.raw.(rawOpCall).op
}

// IsUnary returns whether this operator has a single operand.
func (o OpCall) IsUnary() bool {
	return o.NumChildren() == 1
}

// Operands returns the operands, in source order.
func (o OpCall) Operands() []*Node {
	return o.children
}

func (r rawOpCall) kind() Kind              { return KindOpCall }
func (r rawOpCall) match(that payload) bool { return matchRaw(r, that) }
func (r rawOpCall) mark(m *intern.Marker)   { m.Mark(r.op) }

// Erroneous stands in for a construct that could not be parsed.
//
// The diagnostic explaining why is recorded with the [Builder] separately.
type Erroneous struct{ *Node }

type rawErroneous struct{}

// BuildErroneous builds a new [Erroneous] node.
func BuildErroneous(b *Builder, span source.Span) Erroneous {
	return Erroneous{build(b, span, rawErroneous{}, children{what: KindErroneous})}
}

// AsErroneous converts n into an [Erroneous], if that is its kind.
func (n *Node) AsErroneous() Erroneous {
	if n.Kind() != KindErroneous {
		return Erroneous{}
	}
	return Erroneous{n}
}

func (r rawErroneous) kind() Kind              { return KindErroneous }
func (r rawErroneous) match(that payload) bool { return matchRaw(r, that) }
func (r rawErroneous) mark(*intern.Marker)     {}
