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
package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/internal/corpora"
	"github.com/parlang/dyno/parser"
	"github.com/parlang/dyno/source"
)

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "DYNO_REFRESH",
		Extension: "chpl",
		Outputs: []corpora.Output{
			{Extension: "outline.txt"},
			{Extension: "stderr.txt"},
		},
		Test: func(t *testing.T, path, text string) []string {
			r := parser.Parse(ast.NewContext(nil), source.NewFile(path, text))

			var outline strings.Builder
			require.NoError(t, ast.FormatOutline(&outline, r.Outline(ast.OutlineOptions{})))

			var stderr strings.Builder
			for _, d := range r.Diagnostics() {
				fmt.Fprintln(&stderr, d.Error())
			}
			return []string{outline.String(), stderr.String()}
		},
	}
	corpus.Run(t)
}

func parse(t *testing.T, text string) (*ast.Result, []string) {
	t.Helper()
	r := parser.Parse(ast.NewContext(nil), source.NewFile("test.chpl", text))
	var errs []string
	for _, d := range r.Diagnostics() {
		errs = append(errs, d.Message())
	}
	return r, errs
}

// sexpr renders an expression in prefix form.
func sexpr(ctx *ast.Context, n *ast.Node) string {
	list := func(head string, ns []*ast.Node) string {
		parts := []string{head}
		for _, n := range ns {
			parts = append(parts, sexpr(ctx, n))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}

	switch n.Kind() {
	case ast.KindIdentifier:
		return ctx.Value(n.AsIdentifier().Name())
	case ast.KindIntLiteral:
		return n.AsIntLiteral().Text()
	case ast.KindOpCall:
		call := n.AsOpCall()
		return list(ctx.Value(call.Op()), call.Operands())
	case ast.KindCall:
		call := n.AsCall()
		return list("call "+sexpr(ctx, call.Callee()), call.Actuals())
	default:
		return n.Kind().String()
	}
}

func TestPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr, want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"-2 ** 2", "(- (** 2 2))"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"2 ** -1", "(** 2 (- 1))"},
		{"1..n+1", "(.. 1 (+ n 1))"},
		{"a || b && c == d", "(|| a (&& b (== c d)))"},
		{"a < b == c >= d", "(== (< a b) (>= c d))"},
		{"!a & b | c ^ d", "(| (& (! a) b) (^ c d))"},
		{"a.b(c)", "(call (. a b) c)"},
		{"f()(1)", "(call (call f) 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			r, errs := parse(t, tt.expr+";")
			require.Empty(t, errs)
			require.Len(t, r.TopLevel(), 1)
			assert.Equal(t, tt.want, sexpr(r.Context(), r.TopLevel()[0]))
		})
	}
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	r, errs := parse(t, `
var a = 0x1F;
var b = 1_000;
var c = 'it\'s';
var d = """raw\n""";
var e = "\x41\t\\";
var f = true;
var g = .5;
var h = 2e-3;
`)
	require.Empty(t, errs)

	inits := make(map[string]*ast.Node)
	for _, n := range r.TopLevel() {
		v := n.AsVariable()
		inits[r.Context().Value(v.Name())] = v.InitExpression()
	}

	assert.Equal(t, uint64(31), inits["a"].AsIntLiteral().Value())
	assert.Equal(t, "0x1F", inits["a"].AsIntLiteral().Text())
	assert.Equal(t, uint64(1000), inits["b"].AsIntLiteral().Value())

	c := inits["c"].AsStringLiteral()
	assert.Equal(t, "it's", c.Value())
	assert.Equal(t, ast.SingleQuotes, c.Quotes())

	d := inits["d"].AsStringLiteral()
	assert.Equal(t, `raw\n`, d.Value())
	assert.Equal(t, ast.TripleDoubleQuotes, d.Quotes())

	assert.Equal(t, "A\t\\", inits["e"].AsStringLiteral().Value())
	assert.True(t, inits["f"].AsBoolLiteral().Value())
	assert.InDelta(t, 0.5, inits["g"].AsRealLiteral().Value(), 1e-9)
	assert.InDelta(t, 0.002, inits["h"].AsRealLiteral().Value(), 1e-9)
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text string
		want       []string
	}{
		{
			name: "overflow",
			text: "var a = 99999999999999999999;",
			want: []string{"integer literal out of range"},
		},
		{
			name: "bad-digits",
			text: "var a = 0b102;",
			want: []string{"invalid integer literal"},
		},
		{
			name: "open-string",
			text: "var s = \"abc",
			want: []string{
				"unterminated string literal",
				"unexpected end of file after var declaration, expected `;`",
			},
		},
		{
			name: "open-comment",
			text: "var s; /* /* */",
			want: []string{"unterminated block comment"},
		},
		{
			name: "unrecognized",
			text: "var x = $;",
			want: []string{"unrecognized character '$'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, errs := parse(t, tt.text)
			if diff := cmp.Diff(tt.want, errs); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	// Errors in one declaration do not prevent parsing the next.
	r, errs := parse(t, `
proc f( { }
record R { var x: ; }
var ok = 1;
`)
	assert.NotEmpty(t, errs)

	var names []string
	for n := range r.Nodes() {
		if d := n.AsDecl(); !d.IsZero() {
			names = append(names, r.Context().Describe(n.ID()))
		}
	}
	assert.Contains(t, names, "ok")
	assert.Contains(t, names, "R.x")
}

func TestManyFormals(t *testing.T) {
	t.Parallel()

	names := make([]string, 200)
	for i := range names {
		names[i] = fmt.Sprintf("a%d", i)
	}
	r, errs := parse(t, "proc f("+strings.Join(names, ", ")+"): int { }\nvar y = 1;\n")
	require.Empty(t, errs)
	require.Len(t, r.TopLevel(), 2)

	f := r.TopLevel()[0].AsFunction()
	assert.Equal(t, 200, f.NumFormals())
	assert.Equal(t, "a199", r.Context().Value(f.Formal(199).Name()))
	assert.NotNil(t, f.ReturnType())
	assert.NotNil(t, f.Body().Node)
	assert.Equal(t, "y", r.Context().Describe(r.TopLevel()[1].ID()))
}

func TestTruncatedStatement(t *testing.T) {
	t.Parallel()

	// An unfinished final statement does not take its predecessors with it.
	r, errs := parse(t, "var a = 1;\nvar b = 2;\nvar c = ")
	assert.NotEmpty(t, errs)
	assert.GreaterOrEqual(t, len(r.TopLevel()), 2)
	assert.Equal(t, "a", r.Context().Describe(r.TopLevel()[0].ID()))
	assert.Equal(t, "b", r.Context().Describe(r.TopLevel()[1].ID()))
}

func TestOperatorName(t *testing.T) {
	t.Parallel()

	r, errs := parse(t, "operator +(a, b) { } iter these(): int;")
	require.Empty(t, errs)
	require.Len(t, r.TopLevel(), 2)

	plus := r.TopLevel()[0].AsFunction()
	assert.Equal(t, ast.Operator, plus.FuncKind())
	assert.Equal(t, "+", r.Context().Value(plus.Name()))
	assert.Equal(t, 2, plus.NumFormals())

	these := r.TopLevel()[1].AsFunction()
	assert.Equal(t, ast.Iter, these.FuncKind())
	assert.True(t, these.Body().IsZero())
	assert.Equal(t, ast.KindIdentifier, these.ReturnType().Kind())
}

func TestSpans(t *testing.T) {
	t.Parallel()

	file := source.NewFile("test.chpl", "prototype module P { var x = 1; }")
	r := parser.Parse(ast.NewContext(nil), file)
	require.Empty(t, r.Diagnostics())

	var buf strings.Builder
	require.NoError(t, ast.FormatOutline(&buf, r.Outline(ast.OutlineOptions{Spans: true})))
	assert.Equal(t, `module P prototype [P] test.chpl:1:1-34
  variable x var [P.x] test.chpl:1:22-32
    init: int-literal 1 [P.x@0] test.chpl:1:30-31
`, buf.String())

	var kinds []ast.Kind
	for _, n := range r.NodesAt(file, 29) {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []ast.Kind{ast.KindIntLiteral, ast.KindVariable, ast.KindModule}, kinds)
}

func TestReparse(t *testing.T) {
	t.Parallel()

	ctx := ast.NewContext(nil)
	old := parser.Parse(ctx, source.NewFile("test.chpl", "var x = 1;"))

	// Whitespace changes keep the old tree.
	kept, changed := old.Update(parser.Parse(ctx, source.NewFile("test.chpl", "var  x = 1;  ")))
	assert.False(t, changed)
	assert.Same(t, old.TopLevel()[0], kept.TopLevel()[0])
	span, ok := kept.Location(kept.TopLevel()[0].ID())
	require.True(t, ok)
	assert.Equal(t, "test.chpl:1:1-12", span.String())

	_, changed = old.Update(parser.Parse(ctx, source.NewFile("test.chpl", "var x = 2;")))
	assert.True(t, changed)
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	r, errs := parse(t, "var größe; var x$1; var _日本;")
	require.Empty(t, errs)

	var names []string
	for _, n := range r.TopLevel() {
		names = append(names, r.Context().Value(n.AsDecl().Name()))
	}
	assert.Equal(t, []string{"größe", "x$1", "_日本"}, names)
}
