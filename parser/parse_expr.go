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
	"errors"
	"strconv"
	"strings"

	"github.com/parlang/dyno/ast"
)

// binaryPrec is the precedence of each binary operator. Higher binds
// tighter. All of these are left-associative; ** is handled separately.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6,
	"!=": 6,
	"<":  7,
	"<=": 7,
	">":  7,
	">=": 7,
	"..": 8,
	"+":  9,
	"-":  9,
	"*":  10,
	"/":  10,
	"%":  10,
}

// expr parses an expression. where describes the context, for diagnostics.
func (p *parser) expr(where string) *ast.Node {
	return p.binary(where, 1)
}

// binary parses a chain of binary operators with at least the given
// precedence, by precedence climbing.
func (p *parser) binary(where string, minPrec int) *ast.Node {
	start := p.peek()
	lhs := p.unary(where)
	for {
		op := p.peek()
		prec, ok := binaryPrec[op.text]
		if op.kind != tokPunct || !ok || prec < minPrec {
			return lhs
		}
		p.next()
		rhs := p.binary(where, prec+1)
		lhs = ast.BuildOpCall(p.b, p.spanFrom(start), op.text, lhs, rhs).Node
	}
}

func (p *parser) unary(where string) *ast.Node {
	if op := p.peek(); op.is("-") || op.is("+") || op.is("!") || op.is("~") {
		p.next()
		operand := p.unary(where)
		return ast.BuildOpCall(p.b, p.spanFrom(op), op.text, operand).Node
	}
	return p.power(where)
}

// power parses **, which is right-associative and binds tighter than unary
// operators on its left: -2**2 is -(2**2).
func (p *parser) power(where string) *ast.Node {
	start := p.peek()
	base := p.postfix(where)
	if _, ok := p.accept("**"); ok {
		exp := p.unary(where)
		return ast.BuildOpCall(p.b, p.spanFrom(start), "**", base, exp).Node
	}
	return base
}

// postfix parses calls and member accesses.
func (p *parser) postfix(where string) *ast.Node {
	start := p.peek()
	n := p.primary(where)
	for {
		switch tok := p.peek(); {
		case tok.is("("):
			args := p.actuals(where)
			n = ast.BuildCall(p.b, p.spanFrom(start), n, args...).Node

		case tok.is("."):
			p.next()
			name, ok := p.ident("after `.`")
			if !ok {
				return n
			}
			field := ast.BuildIdentifier(p.b, p.span(name), name.text).Node
			n = ast.BuildOpCall(p.b, p.spanFrom(start), ".", n, field).Node

		default:
			return n
		}
	}
}

// actuals parses a parenthesized argument list.
func (p *parser) actuals(where string) []*ast.Node {
	p.next()
	if _, ok := p.accept(")"); ok {
		return nil
	}

	var args []*ast.Node
	for {
		args = append(args, p.expr(where))
		if _, ok := p.accept(","); ok {
			continue
		}
		if !p.expect(")", "to close argument list") {
			p.skipTo(")")
			p.accept(")")
		}
		return args
	}
}

func (p *parser) primary(where string) *ast.Node {
	tok := p.peek()
	switch tok.kind {
	case tokIdent:
		switch {
		case tok.text == "true" || tok.text == "false":
			p.next()
			return ast.BuildBoolLiteral(p.b, p.span(tok), tok.text == "true").Node
		case !isKeyword(tok.text):
			p.next()
			return ast.BuildIdentifier(p.b, p.span(tok), tok.text).Node
		}

	case tokInt:
		p.next()
		return p.intLiteral(tok)
	case tokReal:
		p.next()
		return p.realLiteral(tok)
	case tokString:
		p.next()
		return p.stringLiteral(tok)

	case tokUnrecognized:
		// Already diagnosed by the lexer.
		p.next()
		return ast.BuildErroneous(p.b, p.span(tok)).Node

	case tokPunct:
		if tok.is("(") {
			p.next()
			inner := p.expr(where)
			p.expect(")", "to close parenthesized expression")
			return inner
		}
	}

	p.errorf(tok, "unexpected %s %s, expected expression", tok.describe(), where)
	if !closing(tok) {
		p.next()
	}
	return ast.BuildErroneous(p.b, p.span(tok)).Node
}

func (p *parser) intLiteral(tok token) *ast.Node {
	digits := strings.ReplaceAll(tok.text, "_", "")
	base := 10
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXbBoO", rune(digits[1])) {
		// Base zero makes strconv understand the prefix.
		base = 0
	}

	v, err := strconv.ParseUint(digits, base, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		p.errorf(tok, "integer literal out of range")
	case err != nil:
		p.errorf(tok, "invalid integer literal")
	}
	return ast.BuildIntLiteral(p.b, p.span(tok), v, tok.text).Node
}

func (p *parser) realLiteral(tok token) *ast.Node {
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok.text, "_", ""), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.errorf(tok, "invalid real literal")
		v = 0
	}
	return ast.BuildRealLiteral(p.b, p.span(tok), v, tok.text).Node
}

func (p *parser) stringLiteral(tok token) *ast.Node {
	style, delim := ast.DoubleQuotes, `"`
	switch {
	case strings.HasPrefix(tok.text, `"""`):
		style, delim = ast.TripleDoubleQuotes, `"""`
	case strings.HasPrefix(tok.text, `'''`):
		style, delim = ast.TripleSingleQuotes, `'''`
	case strings.HasPrefix(tok.text, `'`):
		style, delim = ast.SingleQuotes, `'`
	}

	body := tok.text[len(delim):]
	if !tok.open {
		body = body[:len(body)-len(delim)]
	}

	// Triple-quoted strings are taken literally.
	value := body
	if len(delim) == 1 {
		value = p.unescape(tok.start+len(delim), body)
	}
	return ast.BuildStringLiteral(p.b, p.span(tok), value, style).Node
}

// unescape decodes the escape sequences in s, which begins at offset in the
// file.
func (p *parser) unescape(offset int, s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			buf.WriteByte(c)
			continue
		}

		i++
		switch esc := s[i]; esc {
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		case '0':
			buf.WriteByte(0)
		case '\\', '\'', '"':
			buf.WriteByte(esc)
		case 'x':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				v, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
				buf.WriteByte(byte(v))
				i += 2
				continue
			}
			fallthrough
		default:
			p.errorf(token{start: offset + i - 1, end: offset + i + 1}, "unknown escape sequence `\\%c`", esc)
			buf.WriteByte(esc)
		}
	}
	return buf.String()
}

func isHex(c byte) bool {
	return isDigit(rune(c)) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
