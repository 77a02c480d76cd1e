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

package ast_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/source"
)

// color builds enum Color { names... }.
func color(ctx *ast.Context, names ...string) *ast.Result {
	text := "enum Color { " + strings.Join(names, ", ") + " }"
	file := source.NewFile("color.chpl", text)
	b := ast.NewBuilder(ctx, file.Path())

	offset := strings.Index(text, "{") + 2
	elems := make([]ast.EnumElement, 0, len(names))
	for _, name := range names {
		span := file.Span(offset, offset+len(name))
		elems = append(elems, ast.BuildEnumElement(b, span, ast.EnumElementArgs{Name: name}))
		offset += len(name) + len(", ")
	}

	enum := ast.BuildEnum(b, file.Span(0, len(text)), ast.EnumArgs{
		Name:     "Color",
		Elements: elems,
	})
	b.AddTopLevel(enum.Node)
	return b.Result()
}

func describeAll(ctx *ast.Context, r *ast.Result) []string {
	var ids []string
	for n := range r.Nodes() {
		ids = append(ids, ctx.Describe(n.ID()))
	}
	return ids
}

func TestColor(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	r := color(ctx, "Red", "Green", "Blue")
	require.Len(t, r.TopLevel(), 1)
	enum := r.TopLevel()[0].AsEnum()
	require.False(t, enum.IsZero())
	assert.Equal(t, "Color", ctx.Value(enum.Name()))
	require.Equal(t, 3, enum.NumElements())

	for i, name := range []string{"Red", "Green", "Blue"} {
		elem := enum.Element(i)
		assert.Equal(t, name, ctx.Value(elem.Name()))
		assert.Equal(t, "Color."+name, ctx.Describe(elem.ID()))
		assert.Equal(t, int32(0), elem.ID().Ordinal)
		assert.True(t, elem.ID().IsDecl())

		span, ok := r.Location(elem.ID())
		require.True(t, ok)
		assert.Equal(t, name, span.Text())
	}
	assert.Equal(t, 4, r.NumLocations())
	assert.Empty(t, r.Diagnostics())

	again := color(ctx, "Red", "Green", "Blue")
	kept, changed := r.Update(again)
	assert.False(t, changed)
	assert.Same(t, r.TopLevel()[0], kept.TopLevel()[0])
	assert.Equal(t, describeAll(ctx, r), describeAll(ctx, kept))
}

func TestColorGrows(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	old := color(ctx, "Red", "Green")
	fresh := color(ctx, "Red", "Green", "Blue")

	kept, changed := old.Update(fresh)
	assert.True(t, changed)
	assert.Same(t, fresh, kept)

	blue := kept.TopLevel()[0].AsEnum().Element(2)
	assert.Equal(t, "Color.Blue", ctx.Describe(blue.ID()))
	assert.Equal(t, int32(0), blue.ID().Ordinal)
}

func TestDisambiguation(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	r := color(ctx, "Red", "Crimson", "Red", "Red")
	enum := r.TopLevel()[0].AsEnum()

	first, second, third := enum.Element(0).ID(), enum.Element(2).ID(), enum.Element(3).ID()
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Path, third.Path)
	assert.Equal(t, int32(0), first.Ordinal)
	assert.Equal(t, int32(1), second.Ordinal)
	assert.Equal(t, int32(2), third.Ordinal)
	assert.Equal(t, "Color.Red#1", ctx.Describe(second))

	assert.Equal(t, int32(0), enum.Element(1).ID().Ordinal)
	assert.NotEqual(t, first.Path, enum.Element(1).ID().Path)
}

func TestEnumElementOptionalChildren(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		attrs, init bool
	}{
		{name: "neither"},
		{name: "attrs", attrs: true},
		{name: "init", init: true},
		{name: "both", attrs: true, init: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := ast.NewContext(nil)
			b := ast.NewBuilder(ctx, "e.chpl")

			args := ast.EnumElementArgs{Name: "Red"}
			var attr ast.Attribute
			var init *ast.Node
			if tt.attrs {
				attr = ast.BuildAttribute(b, source.Span{}, "deprecated")
				args.Attributes = ast.BuildAttributeGroup(b, source.Span{}, attr)
			}
			if tt.init {
				init = ast.BuildIntLiteral(b, source.Span{}, 1, "1").Node
				args.Init = init
			}
			elem := ast.BuildEnumElement(b, source.Span{}, args)

			want := 0
			if tt.attrs {
				want++
			}
			if tt.init {
				want++
			}
			assert.Equal(t, want, elem.NumChildren())

			if tt.attrs {
				require.False(t, elem.Attributes().IsZero())
				assert.Same(t, attr.Node, elem.Attributes().At(0).Node)
			} else {
				assert.True(t, elem.Attributes().IsZero())
			}
			if tt.init {
				assert.Same(t, init, elem.InitExpression())
			} else {
				assert.Nil(t, elem.InitExpression())
			}
		})
	}
}

// sample builds a unit exercising every kind of node:
//
//	writeln("hi");
//	module M {
//	  @unstable proc f(ref x: int, y = 2) {
//	    foreach i in 1..10 with (ref x) { g(i + 1); }
//	  }
//	  // fields
//	  record R { var a; var a; }
//	  var v: int = f(1, 2.5) && true;
//	}
//	proc f() {}
//	proc f() {}
func sample(ctx *ast.Context) *ast.Result {
	var s source.Span
	b := ast.NewBuilder(ctx, "path/to/sample.chpl")
	id := func(name string) *ast.Node { return ast.BuildIdentifier(b, s, name).Node }
	lit := func(v uint64) *ast.Node { return ast.BuildIntLiteral(b, s, v, strconv.FormatUint(v, 10)).Node }

	b.AddTopLevel(ast.BuildCall(b, s, id("writeln"),
		ast.BuildStringLiteral(b, s, "hi", ast.DoubleQuotes).Node).Node)

	loop := ast.BuildForeach(b, s, ast.ForeachArgs{
		Index:   ast.BuildVariable(b, s, ast.VariableArgs{Name: "i", Kind: ast.IndexVariable}),
		Iterand: ast.BuildOpCall(b, s, "..", lit(1), lit(10)).Node,
		With:    ast.BuildWithClause(b, s, ast.BuildOpCall(b, s, "ref", id("x")).Node),
		Body: ast.BuildBlock(b, s, ast.ExplicitBlock,
			ast.BuildCall(b, s, id("g"), ast.BuildOpCall(b, s, "+", id("i"), lit(1)).Node).Node),
	})
	f := ast.BuildFunction(b, s, ast.FunctionArgs{
		Name:       "f",
		Attributes: ast.BuildAttributeGroup(b, s, ast.BuildAttribute(b, s, "unstable")),
		Formals: []ast.Formal{
			ast.BuildFormal(b, s, ast.FormalArgs{Name: "x", Intent: ast.RefIntent, Type: id("int")}),
			ast.BuildFormal(b, s, ast.FormalArgs{Name: "y", Default: lit(2)}),
		},
		Body: ast.BuildBlock(b, s, ast.ExplicitBlock, loop.Node),
	})
	record := ast.BuildRecord(b, s, ast.RecordArgs{
		Name: "R",
		Members: []*ast.Node{
			ast.BuildVariable(b, s, ast.VariableArgs{Name: "a"}).Node,
			ast.BuildVariable(b, s, ast.VariableArgs{Name: "a"}).Node,
		},
	})
	v := ast.BuildVariable(b, s, ast.VariableArgs{
		Name: "v",
		Type: id("int"),
		Init: ast.BuildOpCall(b, s, "&&",
			ast.BuildCall(b, s, id("f"), lit(1), ast.BuildRealLiteral(b, s, 2.5, "2.5").Node).Node,
			ast.BuildBoolLiteral(b, s, true).Node,
		).Node,
	})
	b.AddTopLevel(ast.BuildModule(b, s, ast.ModuleArgs{
		Name:  "M",
		Stmts: []*ast.Node{f.Node, ast.BuildComment(b, s, "// fields").Node, record.Node, v.Node},
	}).Node)

	for range 2 {
		b.AddTopLevel(ast.BuildFunction(b, s, ast.FunctionArgs{
			Name: "f",
			Body: ast.BuildBlock(b, s, ast.ExplicitBlock),
		}).Node)
	}

	return b.Result()
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	a, b := sample(ctx), sample(ctx)
	assert.True(t, ast.MatchSlices(a.TopLevel(), b.TopLevel()))

	var idsA, idsB []ast.ID
	for n := range a.Nodes() {
		idsA = append(idsA, n.ID())
	}
	for n := range b.Nodes() {
		idsB = append(idsB, n.ID())
	}
	assert.Empty(t, cmp.Diff(idsA, idsB))

	seen := make(map[ast.ID]bool)
	for _, id := range idsA {
		assert.False(t, id.IsZero())
		assert.False(t, seen[id], "duplicate ID %s", ctx.Describe(id))
		seen[id] = true
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	r := sample(ctx)
	var decls []string
	for n := range r.Nodes() {
		if n.IsDecl() {
			decls = append(decls, ctx.Describe(n.ID()))
		}
	}
	assert.Equal(t, []string{
		"M", "M.f", "M.f.x", "M.f.y", "M.f.i", "M.R", "M.R.a", "M.R.a#1", "M.v",
		"f", "f#1",
	}, decls)

	// Top-level statements live in the implicit module.
	call := r.TopLevel()[0]
	assert.Equal(t, "sample@2", ctx.Describe(call.ID()))
	assert.Equal(t, "sample@0", ctx.Describe(call.Child(0).ID()))
	assert.Equal(t, "sample@1", ctx.Describe(call.Child(1).ID()))
}

func TestContains(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	r := sample(ctx)
	f := r.TopLevel()[1].AsModule().Stmts()[0].AsFunction()
	loop := f.Body().Stmts()[0].AsForeach()
	iterand := loop.Iterand()
	call := loop.Body().Stmts()[0]

	assert.True(t, f.ID().Contains(iterand.ID()))
	assert.True(t, f.ID().Contains(call.ID()))
	assert.True(t, loop.ID().Contains(call.ID()))
	assert.True(t, loop.ID().Contains(iterand.ID()))
	assert.False(t, call.ID().Contains(loop.ID()))
	assert.False(t, iterand.ID().Contains(call.ID()))
	assert.False(t, loop.ID().Contains(loop.ID()))

	// Declarations are their own scopes.
	assert.False(t, f.ID().Contains(loop.Index().ID()))
	assert.False(t, r.TopLevel()[1].ID().Contains(call.ID()))

	assert.Same(t, call, r.Find(call.ID()))
	assert.Same(t, loop.Index().Node, r.Find(loop.Index().ID()))
	assert.Nil(t, r.Find(ast.ID{}))
}

func TestUpdateNestedLiteral(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	build := func(value uint64) *ast.Result {
		b := ast.NewBuilder(ctx, "lit.chpl")
		x := ast.BuildVariable(b, source.Span{}, ast.VariableArgs{
			Name: "x",
			Init: ast.BuildOpCall(b, source.Span{}, "+",
				ast.BuildIntLiteral(b, source.Span{}, 1, "1").Node,
				ast.BuildIntLiteral(b, source.Span{}, value, "x").Node,
			).Node,
		})
		b.AddTopLevel(ast.BuildModule(b, source.Span{}, ast.ModuleArgs{
			Name:  "lit",
			Stmts: []*ast.Node{x.Node},
		}).Node)
		return b.Result()
	}

	old := build(2)
	kept, changed := old.Update(build(2))
	assert.False(t, changed)
	assert.Same(t, old.TopLevel()[0], kept.TopLevel()[0])

	fresh := build(3)
	kept, changed = old.Update(fresh)
	assert.True(t, changed)
	assert.Same(t, fresh, kept)
}

func TestUpdateRefreshesDiagnostics(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)

	build := func(text string, warn bool) *ast.Result {
		file := source.NewFile("w.chpl", text)
		b := ast.NewBuilder(ctx, file.Path())
		start := strings.Index(text, "x")
		x := ast.BuildVariable(b, file.Span(start, start+1), ast.VariableArgs{Name: "x"})
		b.AddTopLevel(x.Node)
		if warn {
			b.Report().Warnf("x is unused")
		}
		return b.Result()
	}

	old := build("var x;", false)
	kept, changed := old.Update(build("  var x;", true))
	assert.False(t, changed)
	assert.Same(t, old.TopLevel()[0], kept.TopLevel()[0])
	require.Len(t, kept.Diagnostics(), 1)
	assert.Equal(t, "x is unused", kept.Diagnostics()[0].Message())

	span, ok := kept.Location(kept.TopLevel()[0].ID())
	require.True(t, ok)
	assert.Equal(t, 6, span.Start)

	// The old result is not touched.
	assert.Empty(t, old.Diagnostics())
	span, _ = old.Location(old.TopLevel()[0].ID())
	assert.Equal(t, 4, span.Start)
}

func TestUpdateAcrossContexts(t *testing.T) {
	t.Parallel()

	old := color(ast.NewContext(nil), "Red")
	fresh := color(ast.NewContext(nil), "Red")
	kept, changed := old.Update(fresh)
	assert.True(t, changed)
	assert.Same(t, fresh, kept)
}

func TestBuilderReset(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	file := source.NewFile("reset.chpl", "x")
	b := ast.NewBuilder(ctx, file.Path())

	b.AddTopLevel(ast.BuildIdentifier(b, file.Span(0, 1), "x").Node)
	b.Errorf(file.Span(0, 1), "unexpected %s", "x")

	first := b.Result()
	assert.Len(t, first.TopLevel(), 1)
	assert.Len(t, first.Diagnostics(), 1)
	assert.Equal(t, 1, first.NumLocations())

	second := b.Result()
	assert.Empty(t, second.TopLevel())
	assert.Empty(t, second.Diagnostics())
	assert.Equal(t, 0, second.NumLocations())

	// The first result is unaffected by reuse of the builder.
	b.AddTopLevel(ast.BuildIdentifier(b, source.Span{}, "y").Node)
	assert.Len(t, first.TopLevel(), 1)
	assert.Len(t, first.Diagnostics(), 1)
}

func TestErrorsOnly(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	file := source.NewFile("bad.chpl", "}")
	b := ast.NewBuilder(ctx, file.Path())
	b.Errorf(file.Span(0, 1), "unexpected }")

	r := b.Result()
	assert.Empty(t, r.TopLevel())
	assert.True(t, r.Report().HasErrors())
	assert.Equal(t, "bad.chpl", r.Diagnostics()[0].Path())
}

func TestContractViolations(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	b := ast.NewBuilder(ctx, "panic.chpl")
	var s source.Span

	assert.Panics(t, func() {
		ast.BuildEnumElement(b, s, ast.EnumElementArgs{})
	}, "empty name")
	assert.Panics(t, func() {
		ast.BuildCall(b, s, nil)
	}, "nil callee")
	assert.Panics(t, func() {
		ast.BuildForeach(b, s, ast.ForeachArgs{Body: ast.BuildBlock(b, s, ast.ExplicitBlock)})
	}, "nil iterand")
	assert.Panics(t, func() {
		ast.BuildForeach(b, s, ast.ForeachArgs{
			Index:   ast.BuildVariable(b, s, ast.VariableArgs{Name: "i"}),
			Iterand: ast.BuildIdentifier(b, s, "xs").Node,
			Body:    ast.BuildBlock(b, s, ast.ExplicitBlock),
		})
	}, "index must be an index variable")
	assert.Panics(t, func() {
		ast.BuildBlock(b, s, ast.ImplicitBlock)
	}, "empty implicit block")
	assert.Panics(t, func() {
		ast.BuildRecord(b, s, ast.RecordArgs{Name: "R", Members: []*ast.Node{nil}})
	}, "nil member")
	assert.Panics(t, func() {
		ast.BuildOpCall(b, s, "+")
	}, "no operands")
	assert.Panics(t, func() {
		ast.BuildAttributeGroup(b, s, ast.Attribute{})
	}, "zero attribute")

	// A node can only appear in a tree once.
	x := ast.BuildIdentifier(b, s, "x").Node
	b.AddTopLevel(x)
	b.AddTopLevel(x)
	assert.Panics(t, func() { b.Result() })

	// Nodes from a finalized tree cannot be reused.
	b2 := ast.NewBuilder(ctx, "reuse.chpl")
	b2.AddTopLevel(ast.BuildIdentifier(b2, s, "y").Node)
	y := b2.Result().TopLevel()[0]
	assert.Panics(t, func() { ast.BuildCall(b2, s, y) })
}

func TestManyChildren(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	b := ast.NewBuilder(ctx, "many.chpl")
	var s source.Span

	formals := make([]ast.Formal, 300)
	for i := range formals {
		formals[i] = ast.BuildFormal(b, s, ast.FormalArgs{Name: "x"})
	}

	// Optional children after a long variable-length tail stay addressable.
	ret := ast.BuildIdentifier(b, s, "int").Node
	body := ast.BuildBlock(b, s, ast.ExplicitBlock)
	f := ast.BuildFunction(b, s, ast.FunctionArgs{
		Name:    "f",
		Formals: formals,
		Return:  ret,
		Body:    body,
	})
	assert.Equal(t, 300, f.NumFormals())
	assert.Same(t, formals[299].Node, f.Formal(299).Node)
	assert.Same(t, ret, f.ReturnType())
	assert.Same(t, body.Node, f.Body().Node)
}

func TestFunctionAccessors(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	b := ast.NewBuilder(ctx, "fn.chpl")
	var s source.Span

	ret := ast.BuildIdentifier(b, s, "int").Node
	f := ast.BuildFunction(b, s, ast.FunctionArgs{
		Name: "f",
		Kind: ast.Iter,
		Formals: []ast.Formal{
			ast.BuildFormal(b, s, ast.FormalArgs{Name: "a"}),
			ast.BuildFormal(b, s, ast.FormalArgs{Name: "b", Intent: ast.ConstIntent}),
		},
		Return: ret,
	})

	assert.Equal(t, ast.Iter, f.FuncKind())
	assert.Equal(t, 2, f.NumFormals())
	assert.Equal(t, "b", ctx.Value(f.Formal(1).Name()))
	assert.Equal(t, ast.ConstIntent, f.Formal(1).Intent())
	assert.Same(t, ret, f.ReturnType())
	assert.True(t, f.Body().IsZero())
	assert.True(t, f.Attributes().IsZero())
	assert.Panics(t, func() { f.Formal(2) })

	// Views of the wrong kind are zero.
	assert.True(t, f.AsEnum().IsZero())
	assert.True(t, ret.AsDecl().IsZero())
	assert.False(t, f.AsDecl().IsZero())
}

func TestImplicitModuleName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"foo.chpl":         "foo",
		"dir/foo.bar.chpl": "foo_bar",
		"my-file.chpl":     "my_file",
		"123.chpl":         "_123",
		"noext":            "noext",
		".chpl":            "unit",
		"":                 "unit",
	}
	for path, want := range tests {
		assert.Equal(t, want, ast.ImplicitModuleName(path), "path %q", path)
	}

	// The implicit module is a path, not a kind of module node.
	assert.Equal(t, "ModuleKind(2)", ast.ModuleKind(2).String())
}

func TestImplicitModuleCollision(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	b := ast.NewBuilder(ctx, "x.chpl")
	var s source.Span

	b.AddTopLevel(ast.BuildVariable(b, s, ast.VariableArgs{Name: "x"}).Node)
	b.AddTopLevel(ast.BuildCall(b, s, ast.BuildIdentifier(b, s, "f").Node).Node)
	r := b.Result()

	assert.Equal(t, "x#1", ctx.Describe(r.TopLevel()[0].ID()))
	assert.Equal(t, "x@1", ctx.Describe(r.TopLevel()[1].ID()))
}

func TestMatch(t *testing.T) {
	t.Parallel()
	ctx := ast.NewContext(nil)
	b := ast.NewBuilder(ctx, "m.chpl")
	var s source.Span

	str := func(v string, q ast.QuoteStyle) *ast.Node { return ast.BuildStringLiteral(b, s, v, q).Node }
	assert.True(t, str("a", ast.DoubleQuotes).Match(str("a", ast.DoubleQuotes)))
	assert.False(t, str("a", ast.DoubleQuotes).Match(str("a", ast.SingleQuotes)))
	assert.False(t, str("a", ast.DoubleQuotes).Match(str("b", ast.DoubleQuotes)))
	assert.False(t, str("a", ast.DoubleQuotes).Match(ast.BuildIdentifier(b, s, "a").Node))

	// An attribute group and an initializer in the same position do not match.
	withAttrs := ast.BuildEnumElement(b, s, ast.EnumElementArgs{
		Name:       "E",
		Attributes: ast.BuildAttributeGroup(b, s, ast.BuildAttribute(b, s, "a")),
	})
	withInit := ast.BuildEnumElement(b, s, ast.EnumElementArgs{
		Name: "E",
		Init: ast.BuildAttributeGroup(b, s, ast.BuildAttribute(b, s, "a")).Node,
	})
	assert.False(t, withAttrs.Match(withInit.Node))

	var nilNode *ast.Node
	assert.True(t, nilNode.Match(nil))
	assert.False(t, nilNode.Match(withInit.Node))
	assert.False(t, ast.MatchSlices([]*ast.Node{withInit.Node}, nil))
}
