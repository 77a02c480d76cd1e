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

// Comment is a comment that appears in statement position.
type Comment struct{ *Node }

type rawComment struct {
	text string
}

// BuildComment builds a new [Comment], including its delimiters.
func BuildComment(b *Builder, span source.Span, text string) Comment {
	return Comment{build(b, span, rawComment{text}, children{what: KindComment})}
}

// AsComment converts n into a [Comment], if that is its kind.
func (n *Node) AsComment() Comment {
	if n.Kind() != KindComment {
		return Comment{}
	}
	return Comment{n}
}

// Text returns the text of the comment.
func (c Comment) Text() string {
	return c.raw.(rawComment).text
}

func (r rawComment) kind() Kind              { return KindComment }
func (r rawComment) match(that payload) bool { return matchRaw(r, that) }
func (r rawComment) mark(*intern.Marker)     {}

// Block is a sequence of statements.
type Block struct{ *Node }

type rawBlock struct {
	style BlockStyle
}

// BuildBlock builds a new [Block].
func BuildBlock(b *Builder, span source.Span, style BlockStyle, stmts ...*Node) Block {
	c := children{what: KindBlock}
	c.rest("statement", KindInvalid, stmts)
	if style == ImplicitBlock && len(stmts) != 1 {
		panic("dyno/ast: implicit block must contain exactly one statement")
	}
	return Block{build(b, span, rawBlock{style}, c)}
}

// AsBlock converts n into a [Block], if that is its kind.
func (n *Node) AsBlock() Block {
	if n.Kind() != KindBlock {
		return Block{}
	}
	return Block{n}
}

// IsZero returns whether this is the zero view.
func (b Block) IsZero() bool { return b.Node == nil }

// Style returns how this block was spelled.
func (b Block) Style() BlockStyle {
	return b.raw.(rawBlock).style
}

// Stmts returns the statements in this block.
func (b Block) Stmts() []*Node {
	if b.Node == nil {
		return nil
	}
	return b.children
}

func (r rawBlock) kind() Kind              { return KindBlock }
func (r rawBlock) match(that payload) bool { return matchRaw(r, that) }
func (r rawBlock) mark(*intern.Marker)     {}

// WithClause is the with (...) clause of a loop, listing task intents and
// reductions.
type WithClause struct{ *Node }

type rawWithClause struct{}

// BuildWithClause builds a new [WithClause].
func BuildWithClause(b *Builder, span source.Span, exprs ...*Node) WithClause {
	if len(exprs) == 0 {
		panic("dyno/ast: empty with clause")
	}
	c := children{what: KindWithClause}
	c.rest("expression", KindInvalid, exprs)
	return WithClause{build(b, span, rawWithClause{}, c)}
}

// AsWithClause converts n into a [WithClause], if that is its kind.
func (n *Node) AsWithClause() WithClause {
	if n.Kind() != KindWithClause {
		return WithClause{}
	}
	return WithClause{n}
}

// IsZero returns whether this is the zero view.
func (w WithClause) IsZero() bool { return w.Node == nil }

// Exprs returns the expressions in this clause.
func (w WithClause) Exprs() []*Node {
	if w.Node == nil {
		return nil
	}
	return w.children
}

func (r rawWithClause) kind() Kind              { return KindWithClause }
func (r rawWithClause) match(that payload) bool { return matchRaw(r, that) }
func (r rawWithClause) mark(*intern.Marker)     {}

// Foreach is an order-independent loop:
//
//	@attrs foreach index in iterand with (...) { body }
type Foreach struct{ *Node }

type rawForeach struct {
	attrs, index, iterand, with, body ChildNum
}

// ForeachArgs is arguments for [BuildForeach].
type ForeachArgs struct {
	// Optional.
	Attributes AttributeGroup
	// Optional. If present, must be a [Variable] of kind [IndexVariable].
	Index Variable
	// Required.
	Iterand *Node
	// Optional.
	With WithClause
	// Required.
	Body Block
}

// BuildForeach builds a new [Foreach].
func BuildForeach(b *Builder, span source.Span, args ForeachArgs) Foreach {
	if !args.Index.IsZero() && args.Index.VarKind() != IndexVariable {
		panic("dyno/ast: foreach index must be an index variable")
	}

	c := children{what: KindForeach}
	var raw rawForeach
	raw.attrs = c.opt(args.Attributes.Node)
	raw.index = c.opt(args.Index.Node)
	raw.iterand = c.req("iterand", args.Iterand)
	raw.with = c.opt(args.With.Node)
	raw.body = c.req("body", args.Body.Node)
	return Foreach{build(b, span, raw, c)}
}

// AsForeach converts n into a [Foreach], if that is its kind.
func (n *Node) AsForeach() Foreach {
	if n.Kind() != KindForeach {
		return Foreach{}
	}
	return Foreach{n}
}

// Attributes returns the attributes of this loop, if it has any.
func (f Foreach) Attributes() AttributeGroup {
	return f.childAt(f.raw.(rawForeach).attrs).AsAttributeGroup()
}

// Index returns the loop's index variable, if it has one.
func (f Foreach) Index() Variable {
	return f.childAt(f.raw.(rawForeach).index).AsVariable()
}

// Iterand returns the expression being iterated over.
func (f Foreach) Iterand() *Node {
	return f.childAt(f.raw.(rawForeach).iterand)
}

// With returns the loop's with clause, if it has one.
func (f Foreach) With() WithClause {
	return f.childAt(f.raw.(rawForeach).with).AsWithClause()
}

// Body returns the loop's body.
func (f Foreach) Body() Block {
	return f.childAt(f.raw.(rawForeach).body).AsBlock()
}

func (r rawForeach) kind() Kind              { return KindForeach }
func (r rawForeach) match(that payload) bool { return matchRaw(r, that) }
func (r rawForeach) mark(*intern.Marker)     {}
