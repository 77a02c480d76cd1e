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

// Package parser is a small reference parser that produces [ast.Result]s.
//
// It understands enough of the language to build every kind of node in
// package ast: modules, procedures and their formals, records, enums,
// variables, foreach loops, attributes, and a conventional expression
// grammar. It recovers from syntax errors by producing [ast.Erroneous] nodes
// and diagnostics rather than failing.
package parser

import (
	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

// Parse parses file into a new [ast.Result], interning names into ctx.
//
// Parse never fails: syntax errors are reported as diagnostics in the
// result's report. If the parser itself breaks, the result holds every
// top-level statement parsed up to that point plus an ICE.
func Parse(ctx *ast.Context, file *source.File) (result *ast.Result) {
	p := &parser{
		b:    ast.NewBuilder(ctx, file.Path()),
		file: file,
	}

	defer func() {
		if r := recover(); r != nil {
			d := report.NewDiagnostic(report.ICE, "parser panicked: %v", r)
			d.Apply(report.InFile(file.Path()))
			p.b.AddError(d)
			result = p.b.Result()
		}
	}()

	p.tokens = lex(p)
	p.stmts(true)
	return p.b.Result()
}

// parser is a recursive-descent parser over a token slice.
type parser struct {
	b      *ast.Builder
	file   *source.File
	tokens []token
	cursor int
	// End offset of the last token consumed.
	last int
}

// errorf reports an error at tok.
func (p *parser) errorf(tok token, format string, args ...any) *report.Diagnostic {
	return p.b.Errorf(p.span(tok), format, args...)
}

func (p *parser) span(tok token) source.Span {
	return p.file.Span(tok.start, tok.end)
}

// spanFrom returns the span from the start of tok to the end of the last
// token consumed.
func (p *parser) spanFrom(tok token) source.Span {
	return p.file.Span(tok.start, max(tok.end, p.last))
}

// peekRaw returns the next token, including comments.
func (p *parser) peekRaw() token {
	return p.tokens[p.cursor]
}

// peek returns the next non-comment token. Comments other than those in
// statement position are discarded.
func (p *parser) peek() token {
	for p.tokens[p.cursor].kind == tokComment {
		p.cursor++
	}
	return p.tokens[p.cursor]
}

// peekN returns the n-th non-comment token after the next one, without
// discarding anything.
func (p *parser) peekN(n int) token {
	i := p.cursor
	for {
		for p.tokens[i].kind == tokComment {
			i++
		}
		if n == 0 || p.tokens[i].kind == tokEOF {
			return p.tokens[i]
		}
		n--
		i++
	}
}

// next consumes and returns the next non-comment token. The EOF token is
// never consumed.
func (p *parser) next() token {
	tok := p.peek()
	if tok.kind != tokEOF {
		p.cursor++
		p.last = tok.end
	}
	return tok
}

// accept consumes the next token if it is the given punctuation.
func (p *parser) accept(punct string) (token, bool) {
	if tok := p.peek(); tok.is(punct) {
		return p.next(), true
	}
	return token{}, false
}

// acceptKeyword consumes the next token if it is the given keyword.
func (p *parser) acceptKeyword(kw string) (token, bool) {
	if tok := p.peek(); tok.isKeyword(kw) {
		return p.next(), true
	}
	return token{}, false
}

// expect consumes the given punctuation, or reports an error without
// consuming anything.
func (p *parser) expect(punct, where string) bool {
	if _, ok := p.accept(punct); ok {
		return true
	}
	p.errorf(p.peek(), "unexpected %s %s, expected `%s`", p.peek().describe(), where, punct)
	return false
}

// ident consumes an identifier that is not a keyword.
func (p *parser) ident(where string) (token, bool) {
	tok := p.peek()
	if tok.kind == tokIdent && !isKeyword(tok.text) {
		return p.next(), true
	}
	p.errorf(tok, "unexpected %s %s, expected identifier", tok.describe(), where)
	return token{}, false
}

// closing reports whether tok ends some enclosing construct, and thus
// should not be consumed by error recovery.
func closing(tok token) bool {
	return tok.kind == tokEOF || tok.is("}") || tok.is(")") || tok.is("]") || tok.is(";") || tok.is(",")
}

// resync skips tokens up to and including the next ";", or up to a "}"
// at the current nesting depth, and returns an [ast.Erroneous] node covering
// what was skipped.
func (p *parser) resync(start token) *ast.Node {
	depth := 0
loop:
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokEOF:
			break loop
		case tok.is("{") || tok.is("(") || tok.is("["):
			depth++
		case tok.is("}") || tok.is(")") || tok.is("]"):
			if depth == 0 {
				break loop
			}
			depth--
		case tok.is(";") && depth == 0:
			p.next()
			break loop
		}
		p.next()
	}

	return ast.BuildErroneous(p.b, p.spanFrom(start)).Node
}
