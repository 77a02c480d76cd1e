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

// Decl is any declaration: a node which introduces a name into its
// enclosing scope.
//
// Every declaration view embeds Decl.
type Decl struct{ *Node }

// declBase is the part of the payload shared by all declarations.
type declBase struct {
	name       intern.ID
	visibility Visibility
	attrs      ChildNum
}

type declPayload interface {
	payload
	base() declBase
}

func (d declBase) base() declBase { return d }

// declare starts the children and payload of a declaration. The attribute
// group, if any, is always the first child.
func declare(b *Builder, what Kind, name string, vis Visibility, attrs AttributeGroup) (children, declBase) {
	if name == "" {
		panic("dyno/ast: " + what.String() + " with empty name")
	}

	c := children{what: what}
	base := declBase{
		name:       b.ctx.Intern(name),
		visibility: vis,
		attrs:      c.opt(attrs.Node),
	}
	return c, base
}

// AsDecl converts n into a [Decl], if it is any kind of declaration.
func (n *Node) AsDecl() Decl {
	if !n.IsDecl() {
		return Decl{}
	}
	return Decl{n}
}

// IsZero returns whether this is the zero view.
func (d Decl) IsZero() bool { return d.Node == nil }

// Name returns the name this declaration introduces.
func (d Decl) Name() intern.ID {
	return d.base().name
}

// Visibility returns the declared visibility.
func (d Decl) Visibility() Visibility {
	return d.base().visibility
}

// Attributes returns the attributes of this declaration, if it has any.
func (d Decl) Attributes() AttributeGroup {
	return d.childAt(d.base().attrs).AsAttributeGroup()
}

func (d Decl) base() declBase {
	if d.Node == nil {
		return declBase{attrs: NoChild}
	}
	return d.raw.(declPayload).base()
}

// Variable is a variable declaration. This includes constants, params,
// refs, and loop index variables.
type Variable struct{ Decl }

type rawVariable struct {
	declBase
	varKind   VariableKind
	typ, init ChildNum
}

// VariableArgs is arguments for [BuildVariable].
type VariableArgs struct {
	Name       string
	Visibility Visibility
	Attributes AttributeGroup
	Kind       VariableKind
	Type       *Node // Optional.
	Init       *Node // Optional.
}

// BuildVariable builds a new [Variable].
func BuildVariable(b *Builder, span source.Span, args VariableArgs) Variable {
	c, base := declare(b, KindVariable, args.Name, args.Visibility, args.Attributes)
	raw := rawVariable{declBase: base, varKind: args.Kind}
	raw.typ = c.opt(args.Type)
	raw.init = c.opt(args.Init)
	return Variable{Decl{build(b, span, raw, c)}}
}

// AsVariable converts n into a [Variable], if that is its kind.
func (n *Node) AsVariable() Variable {
	if n.Kind() != KindVariable {
		return Variable{}
	}
	return Variable{Decl{n}}
}

// VarKind returns the storage kind of this variable.
func (v Variable) VarKind() VariableKind {
	return v.raw.(rawVariable).varKind
}

// TypeExpression returns the declared type, if there is one.
func (v Variable) TypeExpression() *Node {
	return v.childAt(v.raw.(rawVariable).typ)
}

// InitExpression returns the initializer, if there is one.
func (v Variable) InitExpression() *Node {
	return v.childAt(v.raw.(rawVariable).init)
}

func (r rawVariable) kind() Kind              { return KindVariable }
func (r rawVariable) match(that payload) bool { return matchRaw(r, that) }
func (r rawVariable) mark(m *intern.Marker)   { m.Mark(r.name) }

// Formal is a formal parameter of a [Function].
type Formal struct{ Decl }

type rawFormal struct {
	declBase
	intent    Intent
	typ, init ChildNum
}

// FormalArgs is arguments for [BuildFormal].
type FormalArgs struct {
	Name       string
	Attributes AttributeGroup
	Intent     Intent
	Type       *Node // Optional.
	Default    *Node // Optional.
}

// BuildFormal builds a new [Formal].
func BuildFormal(b *Builder, span source.Span, args FormalArgs) Formal {
	c, base := declare(b, KindFormal, args.Name, DefaultVisibility, args.Attributes)
	raw := rawFormal{declBase: base, intent: args.Intent}
	raw.typ = c.opt(args.Type)
	raw.init = c.opt(args.Default)
	return Formal{Decl{build(b, span, raw, c)}}
}

// AsFormal converts n into a [Formal], if that is its kind.
func (n *Node) AsFormal() Formal {
	if n.Kind() != KindFormal {
		return Formal{}
	}
	return Formal{Decl{n}}
}

// Intent returns the intent this formal was declared with.
func (f Formal) Intent() Intent {
	return f.raw.(rawFormal).intent
}

// TypeExpression returns the declared type, if there is one.
func (f Formal) TypeExpression() *Node {
	return f.childAt(f.raw.(rawFormal).typ)
}

// DefaultExpression returns the default value, if there is one.
func (f Formal) DefaultExpression() *Node {
	return f.childAt(f.raw.(rawFormal).init)
}

func (r rawFormal) kind() Kind              { return KindFormal }
func (r rawFormal) match(that payload) bool { return matchRaw(r, that) }
func (r rawFormal) mark(m *intern.Marker)   { m.Mark(r.name) }

// Function is a procedure, iterator, or operator declaration.
//
// Its children are, in order: the attribute group, the formals, the return
// type, and the body, of which all but the formals are optional.
type Function struct{ Decl }

type rawFunction struct {
	declBase
	funcKind           FunctionKind
	formals, ret, body ChildNum
}

// FunctionArgs is arguments for [BuildFunction].
type FunctionArgs struct {
	Name       string
	Visibility Visibility
	Attributes AttributeGroup
	Kind       FunctionKind
	Formals    []Formal
	Return     *Node // Optional.
	Body       Block // Optional; absent for a prototype.
}

// BuildFunction builds a new [Function].
func BuildFunction(b *Builder, span source.Span, args FunctionArgs) Function {
	c, base := declare(b, KindFunction, args.Name, args.Visibility, args.Attributes)
	raw := rawFunction{declBase: base, funcKind: args.Kind}

	formals := make([]*Node, len(args.Formals))
	for i, f := range args.Formals {
		formals[i] = f.Node
	}
	raw.formals = c.rest("formal", KindFormal, formals)
	raw.ret = c.opt(args.Return)
	raw.body = c.opt(args.Body.Node)
	return Function{Decl{build(b, span, raw, c)}}
}

// AsFunction converts n into a [Function], if that is its kind.
func (n *Node) AsFunction() Function {
	if n.Kind() != KindFunction {
		return Function{}
	}
	return Function{Decl{n}}
}

// FuncKind returns which flavor of function this is.
func (f Function) FuncKind() FunctionKind {
	return f.raw.(rawFunction).funcKind
}

// NumFormals returns the number of formals.
func (f Function) NumFormals() int {
	raw := f.raw.(rawFunction)
	end := len(f.children)
	switch {
	case raw.ret != NoChild:
		end = int(raw.ret)
	case raw.body != NoChild:
		end = int(raw.body)
	}
	return end - int(raw.formals)
}

// Formal returns the nth formal.
func (f Function) Formal(n int) Formal {
	if n < 0 || n >= f.NumFormals() {
		panic("dyno/ast: formal index out of range")
	}
	return f.tail(f.raw.(rawFunction).formals)[n].AsFormal()
}

// ReturnType returns the declared return type, if there is one.
func (f Function) ReturnType() *Node {
	return f.childAt(f.raw.(rawFunction).ret)
}

// Body returns the body of this function. It is absent for prototypes.
func (f Function) Body() Block {
	return f.childAt(f.raw.(rawFunction).body).AsBlock()
}

func (r rawFunction) kind() Kind              { return KindFunction }
func (r rawFunction) match(that payload) bool { return matchRaw(r, that) }
func (r rawFunction) mark(m *intern.Marker)   { m.Mark(r.name) }

// Record is a record, class, or union declaration.
type Record struct{ Decl }

type rawRecord struct {
	declBase
	recKind RecordKind
	members ChildNum
}

// RecordArgs is arguments for [BuildRecord].
type RecordArgs struct {
	Name       string
	Visibility Visibility
	Attributes AttributeGroup
	Kind       RecordKind
	Members    []*Node
}

// BuildRecord builds a new [Record].
func BuildRecord(b *Builder, span source.Span, args RecordArgs) Record {
	c, base := declare(b, KindRecord, args.Name, args.Visibility, args.Attributes)
	raw := rawRecord{declBase: base, recKind: args.Kind}
	raw.members = c.rest("member", KindInvalid, args.Members)
	return Record{Decl{build(b, span, raw, c)}}
}

// AsRecord converts n into a [Record], if that is its kind.
func (n *Node) AsRecord() Record {
	if n.Kind() != KindRecord {
		return Record{}
	}
	return Record{Decl{n}}
}

// RecKind returns which flavor of record this is.
func (r Record) RecKind() RecordKind {
	return r.raw.(rawRecord).recKind
}

// Members returns the fields, methods, and other members of this record.
func (r Record) Members() []*Node {
	return r.tail(r.raw.(rawRecord).members)
}

func (r rawRecord) kind() Kind              { return KindRecord }
func (r rawRecord) match(that payload) bool { return matchRaw(r, that) }
func (r rawRecord) mark(m *intern.Marker)   { m.Mark(r.name) }

// Enum is an enum declaration.
type Enum struct{ Decl }

type rawEnum struct {
	declBase
	elems ChildNum
}

// EnumArgs is arguments for [BuildEnum].
type EnumArgs struct {
	Name       string
	Visibility Visibility
	Attributes AttributeGroup
	Elements   []EnumElement
}

// BuildEnum builds a new [Enum].
func BuildEnum(b *Builder, span source.Span, args EnumArgs) Enum {
	c, base := declare(b, KindEnum, args.Name, args.Visibility, args.Attributes)

	elems := make([]*Node, len(args.Elements))
	for i, e := range args.Elements {
		elems[i] = e.Node
	}
	raw := rawEnum{declBase: base}
	raw.elems = c.rest("element", KindEnumElement, elems)
	return Enum{Decl{build(b, span, raw, c)}}
}

// AsEnum converts n into an [Enum], if that is its kind.
func (n *Node) AsEnum() Enum {
	if n.Kind() != KindEnum {
		return Enum{}
	}
	return Enum{Decl{n}}
}

// NumElements returns the number of elements in this enum.
func (e Enum) NumElements() int {
	return len(e.tail(e.raw.(rawEnum).elems))
}

// Element returns the nth element.
func (e Enum) Element(n int) EnumElement {
	return e.tail(e.raw.(rawEnum).elems)[n].AsEnumElement()
}

func (r rawEnum) kind() Kind              { return KindEnum }
func (r rawEnum) match(that payload) bool { return matchRaw(r, that) }
func (r rawEnum) mark(m *intern.Marker)   { m.Mark(r.name) }

// EnumElement is one of the named constants of an [Enum], with an optional
// attribute group and an optional initializer:
//
//	@attrs Name = init
type EnumElement struct{ Decl }

type rawEnumElement struct {
	declBase
	init ChildNum
}

// EnumElementArgs is arguments for [BuildEnumElement].
type EnumElementArgs struct {
	Name       string
	Attributes AttributeGroup
	Init       *Node // Optional.
}

// BuildEnumElement builds a new [EnumElement].
func BuildEnumElement(b *Builder, span source.Span, args EnumElementArgs) EnumElement {
	c, base := declare(b, KindEnumElement, args.Name, DefaultVisibility, args.Attributes)
	raw := rawEnumElement{declBase: base}
	raw.init = c.opt(args.Init)
	return EnumElement{Decl{build(b, span, raw, c)}}
}

// AsEnumElement converts n into an [EnumElement], if that is its kind.
func (n *Node) AsEnumElement() EnumElement {
	if n.Kind() != KindEnumElement {
		return EnumElement{}
	}
	return EnumElement{Decl{n}}
}

// InitExpression returns the value this element was initialized to, if it
// has one.
func (e EnumElement) InitExpression() *Node {
	return e.childAt(e.raw.(rawEnumElement).init)
}

func (r rawEnumElement) kind() Kind              { return KindEnumElement }
func (r rawEnumElement) match(that payload) bool { return matchRaw(r, that) }
func (r rawEnumElement) mark(m *intern.Marker)   { m.Mark(r.name) }

// Module is a module declaration.
type Module struct{ Decl }

type rawModule struct {
	declBase
	modKind ModuleKind
	stmts   ChildNum
}

// ModuleArgs is arguments for [BuildModule].
type ModuleArgs struct {
	Name       string
	Visibility Visibility
	Attributes AttributeGroup
	Kind       ModuleKind
	Stmts      []*Node
}

// BuildModule builds a new [Module].
func BuildModule(b *Builder, span source.Span, args ModuleArgs) Module {
	c, base := declare(b, KindModule, args.Name, args.Visibility, args.Attributes)
	raw := rawModule{declBase: base, modKind: args.Kind}
	raw.stmts = c.rest("statement", KindInvalid, args.Stmts)
	return Module{Decl{build(b, span, raw, c)}}
}

// AsModule converts n into a [Module], if that is its kind.
func (n *Node) AsModule() Module {
	if n.Kind() != KindModule {
		return Module{}
	}
	return Module{Decl{n}}
}

// ModKind returns how this module came to exist.
func (m Module) ModKind() ModuleKind {
	return m.raw.(rawModule).modKind
}

// Stmts returns the statements in the body of this module.
func (m Module) Stmts() []*Node {
	return m.tail(m.raw.(rawModule).stmts)
}

func (r rawModule) kind() Kind              { return KindModule }
func (r rawModule) match(that payload) bool { return matchRaw(r, that) }
func (r rawModule) mark(m *intern.Marker)   { m.Mark(r.name) }
