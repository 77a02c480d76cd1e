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
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/parlang/dyno/ast"
)

func write(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	if args == nil {
		// Otherwise cobra falls back to os.Args.
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDump(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "var x = 1;")

	stdout, stderr, err := execute(path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "variable x var [x]\n  init: int-literal 1 [x@0]\n", stdout)
}

func TestDumpMany(t *testing.T) {
	t.Parallel()
	a := write(t, "a.chpl", "var x;")
	b := write(t, "b.chpl", "f();")

	stdout, _, err := execute("-j", "2", a, b)
	require.NoError(t, err)
	assert.Equal(t, "# "+a+"\nvariable x var [x]\n# "+b+"\ncall [b@1]\n  callee: identifier f [b@0]\n", stdout)
}

func TestYAML(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "var x = 1;")

	stdout, _, err := execute("--format", "yaml", "--spans", path)
	require.NoError(t, err)

	var units []struct {
		Path  string        `yaml:"path"`
		Nodes []ast.Outline `yaml:"nodes"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &units))
	require.Len(t, units, 1)
	assert.Equal(t, path, units[0].Path)
	require.Len(t, units[0].Nodes, 1)

	v := units[0].Nodes[0]
	assert.Equal(t, "variable", v.Kind)
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, path+":1:1-11", v.Span)
	require.Len(t, v.Children, 1)
	assert.Equal(t, "init", v.Children[0].Role)
	assert.Equal(t, "x@0", v.Children[0].ID)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()
	path := write(t, "bad.chpl", "var x = ;")

	stdout, stderr, err := execute("--compact", "--color", "off", path)
	require.ErrorIs(t, err, errDiagnostics)
	assert.Equal(t, path+":1:9: error: unexpected `;` in variable initializer, expected expression\n", stderr)
	// The tree is printed regardless.
	assert.Contains(t, stdout, "erroneous [x@0]")
}

func TestMissingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing.chpl")

	stdout, stderr, err := execute("--compact", path)
	require.ErrorIs(t, err, errDiagnostics)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, path+": error: ")
}

func TestReparse(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "proc f() {}")

	_, stderr, err := execute("--reparse", path)
	require.NoError(t, err)
	assert.Equal(t, "reparse "+path+": kept\n", stderr)
}

func TestReparseParsesAgain(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "var x = 1;")

	_, stderr, err := execute("--log-level", "debug", "--reparse", path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stderr, `msg="parsed file"`), stderr)
	assert.Contains(t, stderr, "reparse "+path+": kept\n")
}

func TestConfig(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "var x;")
	config := write(t, "uastdump.toml", `
format = "yaml"

[log]
level = "debug"
`)

	stdout, stderr, err := execute("--config", config, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "kind: variable")
	assert.Contains(t, stderr, `msg="executed query"`)
	assert.Contains(t, stderr, `query="ast:`+path+`"`)

	// Flags win over the file.
	stdout, _, err = execute("--config", config, "--format", "text", "--log-level", "error", path)
	require.NoError(t, err)
	assert.Equal(t, "variable x var [x]\n", stdout)
}

func TestBadConfig(t *testing.T) {
	t.Parallel()
	path := write(t, "a.chpl", "var x;")

	config := write(t, "uastdump.toml", "colour = \"on\"\n")
	_, stderr, err := execute("--config", config, path)
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown keys: colour")

	_, stderr, err = execute("--format", "xml", path)
	require.Error(t, err)
	assert.Contains(t, stderr, `invalid format "xml", expected one of text, yaml`)

	_, _, err = execute()
	require.Error(t, err)
}
