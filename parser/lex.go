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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/parlang/dyno/internal/ext/mapsx"
)

type tokenKind int8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokReal
	tokString
	tokPunct
	tokComment
	tokUnrecognized
)

// token is a lexed token. Its text is a substring of the file.
type token struct {
	kind       tokenKind
	start, end int
	text       string

	// Set for a string literal that is missing its closing quote.
	open bool
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokIdent && t.text == kw
}

// describe returns a description of t for use in diagnostics.
func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokIdent:
		if isKeyword(t.text) {
			return "keyword `" + t.text + "`"
		}
		return "identifier `" + t.text + "`"
	case tokInt, tokReal:
		return "number `" + t.text + "`"
	case tokString:
		return "string literal"
	case tokComment:
		return "comment"
	default:
		return "`" + t.text + "`"
	}
}

var keywords = mapsx.Set(
	"module", "prototype",
	"proc", "iter", "operator",
	"record", "class", "union", "enum",
	"var", "const", "param", "ref",
	"in", "out", "inout",
	"foreach", "with", "do",
	"public", "private",
	"true", "false",
)

func isKeyword(s string) bool {
	return mapsx.Contains(keywords, s)
}

// puncts is every punctuation token, longest first.
var puncts = []string{
	"...",
	"..", "**", "&&", "||", "==", "!=", "<=", ">=",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~",
	"(", ")", "{", "}", "[", "]", ",", ";", ":", ".", "@", "?", "#",
}

// lexer converts a file into tokens.
type lexer struct {
	p      *parser
	text   string
	cursor int
	tokens []token
}

// lex performs lexical analysis on p's file. Comments are kept as tokens and
// whitespace is dropped. The last token is always tokEOF.
func lex(p *parser) []token {
	l := &lexer{p: p, text: p.file.Text()}
	for l.cursor < len(l.text) {
		start := l.cursor
		rest := l.text[l.cursor:]
		r, n := utf8.DecodeRuneInString(rest)

		switch {
		case unicode.IsSpace(r):
			l.cursor += n

		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			l.cursor += len(strings.TrimRight(rest[:end], "\r"))
			l.push(tokComment, start)

		case strings.HasPrefix(rest, "/*"):
			l.blockComment()

		case r == '"' || r == '\'':
			l.stringLit(rest[:1])

		case r == '.' && len(rest) > 1 && isDigit(rune(rest[1])):
			l.number()
		case isDigit(r):
			l.number()

		case isIdentStart(r):
			l.cursor += len(l.takeWhile(isIdentContinue))
			l.push(tokIdent, start)

		default:
			if punct, ok := matchPunct(rest); ok {
				l.cursor += len(punct)
				l.push(tokPunct, start)
				continue
			}

			l.cursor += n
			tok := l.push(tokUnrecognized, start)
			l.p.errorf(tok, "unrecognized character %q", r)
		}
	}

	l.tokens = append(l.tokens, token{kind: tokEOF, start: len(l.text), end: len(l.text)})
	return l.tokens
}

func (l *lexer) push(kind tokenKind, start int) token {
	tok := token{kind: kind, start: start, end: l.cursor, text: l.text[start:l.cursor]}
	l.tokens = append(l.tokens, tok)
	return tok
}

func (l *lexer) takeWhile(f func(rune) bool) string {
	rest := l.text[l.cursor:]
	end := strings.IndexFunc(rest, func(r rune) bool { return !f(r) })
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

// blockComment lexes a /* */ comment. Block comments nest.
func (l *lexer) blockComment() {
	start := l.cursor
	l.cursor += len("/*")
	depth := 1
	for depth > 0 && l.cursor < len(l.text) {
		rest := l.text[l.cursor:]
		switch {
		case strings.HasPrefix(rest, "/*"):
			depth++
			l.cursor += 2
		case strings.HasPrefix(rest, "*/"):
			depth--
			l.cursor += 2
		default:
			l.cursor++
		}
	}

	l.push(tokComment, start)
	if depth > 0 {
		l.p.errorf(token{start: start, end: start + len("/*")}, "unterminated block comment")
	}
}

// stringLit lexes a quoted string, which may be triple-quoted. The token's
// text includes the quotes; escapes are decoded by the parser.
func (l *lexer) stringLit(quote string) {
	start := l.cursor
	delim := quote
	if triple := strings.Repeat(quote, 3); strings.HasPrefix(l.text[l.cursor:], triple) {
		delim = triple
	}
	l.cursor += len(delim)

	for l.cursor < len(l.text) {
		rest := l.text[l.cursor:]
		switch {
		case strings.HasPrefix(rest, delim):
			l.cursor += len(delim)
			l.push(tokString, start)
			return
		case len(delim) == 1 && rest[0] == '\n':
			l.unterminated(start)
			return
		case len(delim) == 1 && rest[0] == '\\' && len(rest) > 1:
			l.cursor += 2
		default:
			l.cursor++
		}
	}
	l.unterminated(start)
}

func (l *lexer) unterminated(start int) {
	tok := l.push(tokString, start)
	l.tokens[len(l.tokens)-1].open = true
	l.p.errorf(tok, "unterminated string literal")
}

// number lexes an integer or real literal. A "." only continues a number if
// it is followed by a digit, so that 1..10 is a range.
func (l *lexer) number() {
	start := l.cursor
	rest := l.text[l.cursor:]
	if len(rest) > 1 && rest[0] == '0' && strings.ContainsRune("xXbBoO", rune(rest[1])) {
		l.cursor += 2
		l.cursor += len(l.takeWhile(isIdentContinue))
		l.push(tokInt, start)
		return
	}

	kind := tokInt
	l.cursor += len(l.takeWhile(isDigitOrUnderscore))
	if l.peekByte(0) == '.' && isDigit(rune(l.peekByte(1))) {
		kind = tokReal
		l.cursor++
		l.cursor += len(l.takeWhile(isDigitOrUnderscore))
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		exp := 1
		if c := l.peekByte(exp); c == '+' || c == '-' {
			exp++
		}
		if isDigit(rune(l.peekByte(exp))) {
			kind = tokReal
			l.cursor += exp
			l.cursor += len(l.takeWhile(isDigitOrUnderscore))
		}
	}
	l.push(kind, start)
}

// peekByte returns the byte n bytes past the cursor, or zero past the end.
func (l *lexer) peekByte(n int) byte {
	if l.cursor+n >= len(l.text) {
		return 0
	}
	return l.text[l.cursor+n]
}

func matchPunct(s string) (string, bool) {
	for _, p := range puncts {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDigitOrUnderscore(r rune) bool { return isDigit(r) || r == '_' }

// isIdentStart reports whether r can begin an identifier: an underscore or a
// rune with the XID_Start property.
func isIdentStart(r rune) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return r >= utf8.RuneSelf &&
		unicode.In(r, unicode.Letter, unicode.Nl, unicode.Other_ID_Start) &&
		!unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// isIdentContinue reports whether r can continue an identifier: a "$" or a
// rune with the XID_Continue property.
func isIdentContinue(r rune) bool {
	if r == '$' || isIdentStart(r) || isDigit(r) {
		return true
	}
	return r >= utf8.RuneSelf &&
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Cf, unicode.Other_ID_Continue) &&
		!unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}
