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
package queries_test

import (
	"context"
	"io/fs"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/incremental"
	"github.com/parlang/dyno/incremental/queries"
	"github.com/parlang/dyno/source"
)

// Decls counts the top-level nodes of a file, and how often it runs.
type Decls struct {
	AST  queries.AST
	runs *atomic.Int32
}

func (d Decls) Key() any { return d }

func (d Decls) Execute(t *incremental.Task) (int, error) {
	d.runs.Add(1)
	r, err := incremental.Resolve(t, d.AST)
	if err != nil {
		return 0, err
	}
	if r[0].Fatal != nil {
		return 0, r[0].Fatal
	}
	return len(r[0].Value.TopLevel()), nil
}

func TestAST(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	exec := incremental.New()

	files := source.NewMap()
	files.Add("a.chpl", "var counter = 1;")
	file := queries.File{Opener: files, Path: "a.chpl"}
	tree := queries.AST{Opener: files, Path: "a.chpl"}
	decls := Decls{AST: tree, runs: new(atomic.Int32)}

	run := func() (*ast.Result, bool) {
		t.Helper()
		asts, rep, err := incremental.Run(ctx, exec, tree)
		require.NoError(t, err)
		require.NoError(t, asts[0].Fatal)
		assert.Zero(t, rep.Len())

		counts, _, err := incremental.Run(ctx, exec, decls)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[0].Value)
		return asts[0].Value, asts[0].Changed
	}

	first, changed := run()
	assert.True(t, changed)
	assert.Equal(t, int32(1), decls.runs.Load())

	// Reformatting keeps the tree, so the dependent query is reused.
	files.Add("a.chpl", "var  counter =  1;\n")
	exec.Invalidate(file)
	second, changed := run()
	assert.False(t, changed)
	assert.Same(t, first.TopLevel()[0], second.TopLevel()[0])
	assert.Equal(t, int32(1), decls.runs.Load())

	// Without an invalidation nothing runs again.
	third, changed := run()
	assert.False(t, changed)
	assert.Same(t, second, third)

	files.Add("a.chpl", "var renamed = 1;")
	exec.Invalidate(file)
	fourth, changed := run()
	assert.True(t, changed)
	assert.Equal(t, "renamed", fourth.Context().Value(fourth.TopLevel()[0].AsDecl().Name()))
	assert.Equal(t, int32(2), decls.runs.Load())

	// The old name is no longer used by any cached tree.
	assert.Positive(t, exec.Collect())
	_, ok := exec.Table().Query("counter")
	assert.False(t, ok)
	_, ok = exec.Table().Query("renamed")
	assert.True(t, ok)
}

func TestASTDiagnostics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	exec := incremental.New()

	files := source.NewMap()
	files.Add("bad.chpl", "var x = ;")
	asts, rep, err := incremental.Run(ctx, exec, queries.AST{Opener: files, Path: "bad.chpl"})
	require.NoError(t, err)
	require.NoError(t, asts[0].Fatal)
	require.Equal(t, 1, rep.Len())
	assert.Equal(t,
		"bad.chpl:1:9: error: unexpected `;` in variable initializer, expected expression",
		rep.Diagnostics[0].Error())

	// The tree is still produced.
	assert.Len(t, asts[0].Value.TopLevel(), 1)
}

func TestMissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	exec := incremental.New()

	files := source.NewMap()
	asts, rep, err := incremental.Run(ctx, exec, queries.AST{Opener: files, Path: "missing.chpl"})
	require.NoError(t, err)
	require.ErrorIs(t, asts[0].Fatal, fs.ErrNotExist)
	require.Equal(t, 1, rep.Len())
	assert.Equal(t, "missing.chpl: error: file does not exist", rep.Diagnostics[0].Error())

	// Adding the file and invalidating its query recovers.
	files.Add("missing.chpl", "proc main() {}")
	exec.Invalidate(queries.File{Opener: files, Path: "missing.chpl"})
	asts, rep, err = incremental.Run(ctx, exec, queries.AST{Opener: files, Path: "missing.chpl"})
	require.NoError(t, err)
	require.NoError(t, asts[0].Fatal)
	assert.Zero(t, rep.Len())
	assert.True(t, asts[0].Changed)
}

func TestKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	exec := incremental.New()

	files := source.NewMap()
	files.Add("k.chpl", "")
	_, _, err := incremental.Run(ctx, exec, queries.AST{Opener: files, Path: "k.chpl"})
	require.NoError(t, err)

	// The reporting and silent variants of File are separate queries.
	keys := exec.Keys()
	assert.Len(t, keys, 3)
	assert.Contains(t, keys, "ast:k.chpl")
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "ast:") || strings.HasPrefix(k, "file:"), k)
	}
}
