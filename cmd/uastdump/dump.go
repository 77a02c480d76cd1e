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
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parlang/dyno/ast"
	"github.com/parlang/dyno/incremental"
	"github.com/parlang/dyno/incremental/queries"
	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

// diskOpener opens files from the local file system.
type diskOpener struct{}

func (*diskOpener) Open(path string) (*source.File, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.NewFile(path, string(text)), nil
}

// unit is the YAML form of one file's tree.
type unit struct {
	Path  string         `yaml:"path"`
	Nodes []*ast.Outline `yaml:"nodes"`
}

func (c *rootCommand) dump(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := incremental.New(
		incremental.WithParallelism(c.cfg.Parallelism),
		incremental.WithLogger(c.logger),
	)

	opener := new(diskOpener)
	trees := make([]queries.AST, len(paths))
	for i, path := range paths {
		trees[i] = queries.AST{Opener: opener, Path: path}
	}

	results, rep, err := incremental.Run(ctx, exec, trees...)
	if err != nil {
		return err
	}

	renderer := report.Renderer{
		Compact:  c.cfg.Compact,
		Colorize: c.colorize(),
	}
	errs, _, err := renderer.Render(rep, c.stderr)
	if err != nil {
		return err
	}

	opts := ast.OutlineOptions{Spans: c.cfg.Spans}
	var units []unit
	var text strings.Builder
	for i, r := range results {
		if r.Fatal != nil {
			continue
		}
		outline := r.Value.Outline(opts)
		switch c.cfg.Format {
		case "yaml":
			units = append(units, unit{Path: paths[i], Nodes: outline})
		default:
			if len(paths) > 1 {
				fmt.Fprintf(&text, "# %s\n", paths[i])
			}
			if err := ast.FormatOutline(&text, outline); err != nil {
				return err
			}
		}
	}

	if c.cfg.Format == "yaml" {
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(units); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if _, err := fmt.Fprint(c.stdout, text.String()); err != nil {
		return err
	}

	if c.cfg.Reparse {
		if err := c.reparse(ctx, exec, opener, trees); err != nil {
			return err
		}
	}

	if errs > 0 {
		return errDiagnostics
	}
	return nil
}

// reparse re-reads and re-parses every file, and prints whether the cached
// tree survived.
func (c *rootCommand) reparse(ctx context.Context, exec *incremental.Executor, opener source.Opener, trees []queries.AST) error {
	// Both the read and the parse re-run; Result.Update decides what is kept.
	keys := make([]any, 0, 2*len(trees))
	for _, tree := range trees {
		keys = append(keys, queries.File{Opener: opener, Path: tree.Path}, tree.Key())
	}
	exec.Invalidate(keys...)

	results, _, err := incremental.Run(ctx, exec, trees...)
	if err != nil {
		return err
	}
	for i, r := range results {
		state := "kept"
		switch {
		case r.Fatal != nil:
			state = "failed"
		case r.Changed:
			state = "changed"
		}
		fmt.Fprintf(c.stderr, "reparse %s: %s\n", trees[i].Path, state)
	}
	return nil
}
