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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const config = `
- name: Color
  type: int8
  docs: A color.
  total: NumColors
  methods:
  - kind: string
  - kind: from-string
    name: ColorFromName
    skip: [NoColor]
  values:
  - {name: NoColor, string: none}
  - {name: Red, string: red, docs: "Like a rose."}
  - {name: Green, string: green, docs: "Like grass."}
`

func TestRender(t *testing.T) {
	t.Parallel()

	in := input{Binary: "enum", Package: "paint", Config: "colors.yaml"}
	require.NoError(t, yaml.Unmarshal([]byte(config), &in.YAML))
	src, err := render(in)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "// Code generated by enum. DO NOT EDIT.\n")
	assert.Contains(t, out, "package paint\n")
	assert.Contains(t, out, "// A color.\ntype Color int8\n")
	assert.Regexp(t, `\tNoColor\s+Color = iota\n`, out)
	assert.Regexp(t, `\tRed\s+// Like a rose\.\n`, out)
	assert.Regexp(t, `\tNumColors\s+int = iota\n`, out)
	assert.Contains(t, out, "func (v Color) String() string {")
	assert.Contains(t, out, "func ColorFromName(s string) (Color, bool) {")
	assert.Regexp(t, `"green":\s+Green,`, out)
	assert.NotRegexp(t, `"none":\s+NoColor`, out)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	dup := input{Package: "p", YAML: []Enum{{
		Name:    "E",
		Type:    "int",
		Values_: []Value{{Name: "A"}, {Name: "A"}},
	}}}
	_, err := render(dup)
	require.EqualError(t, err, "E: duplicate value A")

	unnamed := input{Package: "p", YAML: []Enum{{
		Name:    "E",
		Type:    "int",
		Methods: []Method{{Kind: MethodFromString}},
		Values_: []Value{{Name: "A"}},
	}}}
	_, err = render(unnamed)
	require.ErrorContains(t, err, "missing name")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "colors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))
	require.NoError(t, generate(path, "paint", "enum"))

	src, err := os.ReadFile(filepath.Join(dir, "colors.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "// source: colors.yaml\n")

	assert.Error(t, generate(filepath.Join(dir, "colors.yml"), "paint", "enum"))
}
