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
	"math"

	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/source"
)

// BoolLiteral is the literal true or false.
type BoolLiteral struct{ *Node }

type rawBoolLiteral struct {
	value bool
}

// BuildBoolLiteral builds a new [BoolLiteral].
func BuildBoolLiteral(b *Builder, span source.Span, value bool) BoolLiteral {
	return BoolLiteral{build(b, span, rawBoolLiteral{value}, children{what: KindBoolLiteral})}
}

// AsBoolLiteral converts n into a [BoolLiteral], if that is its kind.
func (n *Node) AsBoolLiteral() BoolLiteral {
	if n.Kind() != KindBoolLiteral {
		return BoolLiteral{}
	}
	return BoolLiteral{n}
}

// Value returns the value of this literal.
func (l BoolLiteral) Value() bool {
	return l.raw.(rawBoolLiteral).value
}

func (r rawBoolLiteral) kind() Kind              { return KindBoolLiteral }
func (r rawBoolLiteral) match(that payload) bool { return matchRaw(r, that) }
func (r rawBoolLiteral) mark(*intern.Marker)     {}

// IntLiteral is an integer literal.
//
// Both the value and the spelling are part of the literal, so 0x10 and 16
// do not match.
type IntLiteral struct{ *Node }

type rawIntLiteral struct {
	value uint64
	text  string
}

// BuildIntLiteral builds a new [IntLiteral] spelled as text.
func BuildIntLiteral(b *Builder, span source.Span, value uint64, text string) IntLiteral {
	return IntLiteral{build(b, span, rawIntLiteral{value, text}, children{what: KindIntLiteral})}
}

// AsIntLiteral converts n into an [IntLiteral], if that is its kind.
func (n *Node) AsIntLiteral() IntLiteral {
	if n.Kind() != KindIntLiteral {
		return IntLiteral{}
	}
	return IntLiteral{n}
}

// Value returns the value of this literal.
func (l IntLiteral) Value() uint64 {
	return l.raw.(rawIntLiteral).value
}

// Text returns the literal as spelled in the source.
func (l IntLiteral) Text() string {
	return l.raw.(rawIntLiteral).text
}

func (r rawIntLiteral) kind() Kind              { return KindIntLiteral }
func (r rawIntLiteral) match(that payload) bool { return matchRaw(r, that) }
func (r rawIntLiteral) mark(*intern.Marker)     {}

// RealLiteral is a floating-point literal.
type RealLiteral struct{ *Node }

type rawRealLiteral struct {
	value float64
	text  string
}

// BuildRealLiteral builds a new [RealLiteral] spelled as text.
func BuildRealLiteral(b *Builder, span source.Span, value float64, text string) RealLiteral {
	if math.IsNaN(value) {
		panic("dyno/ast: real literal cannot be NaN")
	}
	return RealLiteral{build(b, span, rawRealLiteral{value, text}, children{what: KindRealLiteral})}
}

// AsRealLiteral converts n into a [RealLiteral], if that is its kind.
func (n *Node) AsRealLiteral() RealLiteral {
	if n.Kind() != KindRealLiteral {
		return RealLiteral{}
	}
	return RealLiteral{n}
}

// Value returns the value of this literal.
func (l RealLiteral) Value() float64 {
	return l.raw.(rawRealLiteral).value
}

// Text returns the literal as spelled in the source.
func (l RealLiteral) Text() string {
	return l.raw.(rawRealLiteral).text
}

func (r rawRealLiteral) kind() Kind              { return KindRealLiteral }
func (r rawRealLiteral) match(that payload) bool { return matchRaw(r, that) }
func (r rawRealLiteral) mark(*intern.Marker)     {}

// StringLiteral is a quoted string.
type StringLiteral struct{ *Node }

type rawStringLiteral struct {
	value  string
	quotes QuoteStyle
}

// BuildStringLiteral builds a new [StringLiteral] with the given unescaped
// value.
func BuildStringLiteral(b *Builder, span source.Span, value string, quotes QuoteStyle) StringLiteral {
	return StringLiteral{build(b, span, rawStringLiteral{value, quotes}, children{what: KindStringLiteral})}
}

// AsStringLiteral converts n into a [StringLiteral], if that is its kind.
func (n *Node) AsStringLiteral() StringLiteral {
	if n.Kind() != KindStringLiteral {
		return StringLiteral{}
	}
	return StringLiteral{n}
}

// Value returns the unescaped contents of this literal.
func (l StringLiteral) Value() string {
	return l.raw.(rawStringLiteral).value
}

// Quotes returns the quote style this literal was written with.
func (l StringLiteral) Quotes() QuoteStyle {
	return l.raw.(rawStringLiteral).quotes
}

func (r rawStringLiteral) kind() Kind              { return KindStringLiteral }
func (r rawStringLiteral) match(that payload) bool { return matchRaw(r, that) }
func (r rawStringLiteral) mark(*intern.Marker)     {}
