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
package queries

import (
	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/incremental"
	"github.com/parlang/dyno/parser"
	"github.com/parlang/dyno/source"
)

// AST is an [incremental.Query] for the syntax tree of a file.
//
// Names are interned into the executor's table. Because [ast.Result]
// implements [incremental.Updater], re-parsing a file into a structurally
// identical tree keeps the cached nodes and their IDs, and queries that
// depend on the tree are not re-executed.
type AST struct {
	source.Opener // Must be comparable.
	Path          string
}

var _ incremental.Query[*ast.Result] = AST{}

// Key implements [incremental.Query].
func (a AST) Key() any {
	return a
}

// String implements [fmt.Stringer].
func (a AST) String() string {
	return "ast:" + a.Path
}

// Execute implements [incremental.Query].
func (a AST) Execute(t *incremental.Task) (*ast.Result, error) {
	t.Report().Stage = stageAST

	r, err := incremental.Resolve(t, File{
		Opener:      a.Opener,
		Path:        a.Path,
		ReportError: true,
	})
	if err != nil {
		return nil, err
	}
	if r[0].Fatal != nil {
		return nil, r[0].Fatal
	}

	result := parser.Parse(ast.NewContext(t.Table()), r[0].Value)
	t.Report().Append(result.Report())
	t.Logger().WithField("diagnostics", len(result.Diagnostics())).Debug("parsed file")
	return result, nil
}
