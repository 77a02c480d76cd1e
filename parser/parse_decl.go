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

package parser

import (
	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/internal/ext/mapsx"
)

// declStarts are the keywords that can begin a declaration, or a statement
// that can carry attributes.
var declStarts = mapsx.Set(
	"public", "private",
	"module", "prototype",
	"proc", "iter", "operator",
	"record", "class", "union", "enum",
	"var", "const", "param", "ref",
	"foreach",
)

var (
	funcKinds = map[string]ast.FunctionKind{
		"proc":     ast.Proc,
		"iter":     ast.Iter,
		"operator": ast.Operator,
	}
	recordKinds = map[string]ast.RecordKind{
		"record": ast.RecordKindRecord,
		"class":  ast.RecordKindClass,
		"union":  ast.RecordKindUnion,
	}
)

// stmts parses statements until EOF or, if not at the top level, a "}".
// Top-level statements are handed to the builder as soon as they are parsed
// and are not returned.
func (p *parser) stmts(top bool) []*ast.Node {
	var out []*ast.Node
	add := func(n *ast.Node) {
		if top {
			p.b.AddTopLevel(n)
			return
		}
		out = append(out, n)
	}

	for {
		tok := p.peekRaw()
		if tok.kind == tokComment {
			p.cursor++
			p.last = tok.end
			add(ast.BuildComment(p.b, p.span(tok), tok.text).Node)
			continue
		}
		if tok.kind == tokEOF || (!top && tok.is("}")) {
			return out
		}

		start := p.cursor
		if n := p.stmt(); n != nil {
			add(n)
		}
		if p.cursor == start {
			// Everything in stmt consumes at least one token, but an infinite
			// loop here would be a very bad failure mode.
			tok := p.next()
			add(ast.BuildErroneous(p.b, p.span(tok)).Node)
		}
	}
}

// stmt parses a single statement. Returns nil for an empty statement.
func (p *parser) stmt() *ast.Node {
	tok := p.peek()
	switch {
	case tok.is(";"):
		p.next()
		return nil

	case tok.is("{"):
		return p.block().Node

	case tok.is("}"), tok.is(")"), tok.is("]"), tok.is(","):
		p.next()
		p.errorf(tok, "unexpected %s", tok.describe())
		return ast.BuildErroneous(p.b, p.span(tok)).Node

	case tok.is("@"), tok.kind == tokIdent && mapsx.Contains(declStarts, tok.text):
		return p.decl()
	}

	expr := p.expr("in statement")
	p.expect(";", "after expression")
	return expr
}

// block parses a { }-delimited block.
func (p *parser) block() ast.Block {
	open := p.next()
	stmts := p.stmts(false)
	if _, ok := p.accept("}"); !ok {
		p.errorf(open, "unclosed `{`")
	}
	return ast.BuildBlock(p.b, p.spanFrom(open), ast.ExplicitBlock, stmts...)
}

// body parses the { }-delimited body of a module or record.
func (p *parser) body(where string) []*ast.Node {
	open := p.peek()
	if !p.expect("{", where) {
		return nil
	}
	stmts := p.stmts(false)
	if _, ok := p.accept("}"); !ok {
		p.errorf(open, "unclosed `{` %s", where)
	}
	return stmts
}

// attributes parses zero or more @attributes.
func (p *parser) attributes() ast.AttributeGroup {
	start := p.peek()
	var attrs []ast.Attribute
	for {
		at, ok := p.accept("@")
		if !ok {
			break
		}
		name, ok := p.ident("after `@`")
		if !ok {
			continue
		}

		var args []*ast.Node
		if p.peek().is("(") {
			args = p.actuals("in attribute arguments")
		}
		attrs = append(attrs, ast.BuildAttribute(p.b, p.spanFrom(at), name.text, args...))
	}

	if len(attrs) == 0 {
		return ast.AttributeGroup{}
	}
	return ast.BuildAttributeGroup(p.b, p.spanFrom(start), attrs...)
}

// decl parses a declaration, or a foreach loop, with its attributes and
// visibility.
func (p *parser) decl() *ast.Node {
	start := p.peek()
	attrs := p.attributes()

	vis := ast.DefaultVisibility
	visTok := p.peek()
	switch {
	case visTok.isKeyword("public"):
		p.next()
		vis = ast.Public
	case visTok.isKeyword("private"):
		p.next()
		vis = ast.Private
	}

	kw := p.peek()
	switch {
	case kw.isKeyword("foreach"):
		if vis != ast.DefaultVisibility {
			p.errorf(visTok, "a foreach loop cannot be %s", vis)
		}
		return p.foreach(start, attrs).Node

	case kw.isKeyword("module"), kw.isKeyword("prototype"):
		return p.module(start, attrs, vis)

	case kw.kind == tokIdent && mapsx.Contains(funcKinds, kw.text):
		return p.function(start, attrs, vis)

	case kw.kind == tokIdent && mapsx.Contains(recordKinds, kw.text):
		p.next()
		name, ok := p.ident("in " + kw.text + " declaration")
		if !ok {
			return p.resync(start)
		}
		members := p.body("in " + kw.text + " body")
		return ast.BuildRecord(p.b, p.spanFrom(start), ast.RecordArgs{
			Name:       name.text,
			Visibility: vis,
			Attributes: attrs,
			Kind:       recordKinds[kw.text],
			Members:    members,
		}).Node

	case kw.isKeyword("enum"):
		return p.enum(start, attrs, vis)

	case kw.kind == tokIdent:
		if kind, ok := ast.VariableKindFromKeyword(kw.text); ok {
			return p.variable(start, attrs, vis, kind)
		}
	}

	p.errorf(kw, "unexpected %s, expected declaration", kw.describe())
	return p.resync(start)
}

func (p *parser) module(start token, attrs ast.AttributeGroup, vis ast.Visibility) *ast.Node {
	kind := ast.DefaultModule
	if _, ok := p.acceptKeyword("prototype"); ok {
		kind = ast.PrototypeModule
	}
	if _, ok := p.acceptKeyword("module"); !ok {
		p.errorf(p.peek(), "unexpected %s after `prototype`, expected `module`", p.peek().describe())
		return p.resync(start)
	}

	name, ok := p.ident("in module declaration")
	if !ok {
		return p.resync(start)
	}
	stmts := p.body("in module body")
	return ast.BuildModule(p.b, p.spanFrom(start), ast.ModuleArgs{
		Name:       name.text,
		Visibility: vis,
		Attributes: attrs,
		Kind:       kind,
		Stmts:      stmts,
	}).Node
}

func (p *parser) function(start token, attrs ast.AttributeGroup, vis ast.Visibility) *ast.Node {
	kw := p.next()
	kind := funcKinds[kw.text]

	var name token
	if next := p.peek(); kind == ast.Operator && next.kind == tokPunct && !next.is("(") {
		name = p.next()
	} else {
		var ok bool
		if name, ok = p.ident("in " + kw.text + " declaration"); !ok {
			return p.resync(start)
		}
	}

	var formals []ast.Formal
	if p.expect("(", "after "+kw.text+" name") {
		formals = p.formals()
	}

	var ret *ast.Node
	if _, ok := p.accept(":"); ok {
		ret = p.expr("in return type")
	}

	var body ast.Block
	if p.peek().is("{") {
		body = p.block()
	} else {
		p.expect(";", "after "+kw.text+" declaration")
	}

	return ast.BuildFunction(p.b, p.spanFrom(start), ast.FunctionArgs{
		Name:       name.text,
		Visibility: vis,
		Attributes: attrs,
		Kind:       kind,
		Formals:    formals,
		Return:     ret,
		Body:       body,
	}).Node
}

// formals parses a formal list, after the opening "(".
func (p *parser) formals() []ast.Formal {
	var formals []ast.Formal
	if _, ok := p.accept(")"); ok {
		return nil
	}

	for {
		if f, ok := p.formal(); ok {
			formals = append(formals, f)
		}
		if _, ok := p.accept(","); ok {
			continue
		}
		if _, ok := p.accept(")"); !ok {
			p.errorf(p.peek(), "unexpected %s in formals, expected `,` or `)`", p.peek().describe())
			p.skipTo(")", "{", ";")
			p.accept(")")
		}
		return formals
	}
}

func (p *parser) formal() (ast.Formal, bool) {
	start := p.peek()
	attrs := p.attributes()

	intent := ast.DefaultIntent
	if tok := p.peek(); tok.kind == tokIdent {
		if i, ok := ast.IntentFromKeyword(tok.text); ok {
			p.next()
			intent = i
		}
	}

	name, ok := p.ident("in formal")
	if !ok {
		p.skipTo(",", ")", "{", ";")
		return ast.Formal{}, false
	}

	var typ, def *ast.Node
	if _, ok := p.accept(":"); ok {
		typ = p.expr("in formal type")
	}
	if _, ok := p.accept("="); ok {
		def = p.expr("in default value")
	}

	return ast.BuildFormal(p.b, p.spanFrom(start), ast.FormalArgs{
		Name:       name.text,
		Attributes: attrs,
		Intent:     intent,
		Type:       typ,
		Default:    def,
	}), true
}

func (p *parser) enum(start token, attrs ast.AttributeGroup, vis ast.Visibility) *ast.Node {
	p.next()
	name, ok := p.ident("in enum declaration")
	if !ok {
		return p.resync(start)
	}

	var elems []ast.EnumElement
	open := p.peek()
	if p.expect("{", "in enum declaration") {
		for !p.peek().is("}") && p.peek().kind != tokEOF {
			start := p.peek()
			attrs := p.attributes()
			name, ok := p.ident("in enum body")
			if !ok {
				if closing(p.peek()) && !p.peek().is(",") {
					break
				}
				p.next()
				continue
			}

			var init *ast.Node
			if _, ok := p.accept("="); ok {
				init = p.expr("in enum element value")
			}
			elems = append(elems, ast.BuildEnumElement(p.b, p.spanFrom(start), ast.EnumElementArgs{
				Name:       name.text,
				Attributes: attrs,
				Init:       init,
			}))

			if _, ok := p.accept(","); !ok {
				break
			}
		}
		if _, ok := p.accept("}"); !ok {
			p.errorf(open, "unclosed `{` in enum body")
			p.skipTo("}")
			p.accept("}")
		}
	}

	return ast.BuildEnum(p.b, p.spanFrom(start), ast.EnumArgs{
		Name:       name.text,
		Visibility: vis,
		Attributes: attrs,
		Elements:   elems,
	}).Node
}

func (p *parser) variable(start token, attrs ast.AttributeGroup, vis ast.Visibility, kind ast.VariableKind) *ast.Node {
	kw := p.next()
	name, ok := p.ident("in " + kw.text + " declaration")
	if !ok {
		return p.resync(start)
	}

	var typ, init *ast.Node
	if _, ok := p.accept(":"); ok {
		typ = p.expr("in variable type")
	}
	if _, ok := p.accept("="); ok {
		init = p.expr("in variable initializer")
	}
	p.expect(";", "after "+kw.text+" declaration")

	return ast.BuildVariable(p.b, p.spanFrom(start), ast.VariableArgs{
		Name:       name.text,
		Visibility: vis,
		Attributes: attrs,
		Kind:       kind,
		Type:       typ,
		Init:       init,
	}).Node
}

// foreach parses a foreach loop:
//
//	foreach [index in] iterand [with (intents...)] { body }
//	foreach [index in] iterand [with (intents...)] do stmt
func (p *parser) foreach(start token, attrs ast.AttributeGroup) ast.Foreach {
	p.next()

	var index ast.Variable
	if tok, in := p.peek(), p.peekN(1); tok.kind == tokIdent && !isKeyword(tok.text) && in.isKeyword("in") {
		p.next()
		p.next()
		index = ast.BuildVariable(p.b, p.span(tok), ast.VariableArgs{
			Name: tok.text,
			Kind: ast.IndexVariable,
		})
	}

	iterand := p.expr("in foreach iterand")

	var with ast.WithClause
	if kw, ok := p.acceptKeyword("with"); ok {
		with = p.with(kw)
	}

	var body ast.Block
	if do, ok := p.acceptKeyword("do"); ok {
		stmt := p.stmt()
		if stmt == nil {
			p.errorf(do, "expected statement after `do`")
			stmt = ast.BuildErroneous(p.b, p.span(do)).Node
		}
		body = ast.BuildBlock(p.b, p.spanFrom(do), ast.ImplicitBlock, stmt)
	} else if p.peek().is("{") {
		body = p.block()
	} else {
		tok := p.peek()
		p.errorf(tok, "unexpected %s, expected loop body", tok.describe())
		body = ast.BuildBlock(p.b, p.span(tok), ast.ImplicitBlock, p.resync(tok))
	}

	return ast.BuildForeach(p.b, p.spanFrom(start), ast.ForeachArgs{
		Attributes: attrs,
		Index:      index,
		Iterand:    iterand,
		With:       with,
		Body:       body,
	})
}

// with parses a with clause after the `with` keyword. Each entry is an
// expression, optionally preceded by an intent, which is represented as a
// unary operator.
func (p *parser) with(kw token) ast.WithClause {
	var exprs []*ast.Node
	if p.expect("(", "after `with`") {
		for {
			intent := p.peek()
			_, hasIntent := ast.IntentFromKeyword(intent.text)
			hasIntent = hasIntent && intent.kind == tokIdent
			if hasIntent {
				p.next()
			}

			expr := p.expr("in with clause")
			if hasIntent {
				expr = ast.BuildOpCall(p.b, p.spanFrom(intent), intent.text, expr).Node
			}
			exprs = append(exprs, expr)

			if _, ok := p.accept(","); !ok {
				break
			}
		}
		p.expect(")", "to close with clause")
	}

	if len(exprs) == 0 {
		exprs = append(exprs, ast.BuildErroneous(p.b, p.span(kw)).Node)
	}
	return ast.BuildWithClause(p.b, p.spanFrom(kw), exprs...)
}

// skipTo skips tokens until one of the given punctuation tokens, at the
// current nesting depth, is next. The token itself is not consumed.
func (p *parser) skipTo(puncts ...string) {
	depth := 0
	for {
		tok := p.peek()
		if tok.kind == tokEOF {
			return
		}
		if depth == 0 {
			for _, s := range puncts {
				if tok.is(s) {
					return
				}
			}
		}
		switch {
		case tok.is("(") || tok.is("[") || tok.is("{"):
			depth++
		case tok.is(")") || tok.is("]") || tok.is("}"):
			if depth == 0 {
				return
			}
			depth--
		}
		p.next()
	}
}
