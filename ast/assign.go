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
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/parlang/dyno/internal/intern"
)

// assigner is the working state of ID assignment for one unit.
//
// Declarations are visited in the order they appear in the tree, so the
// ordinal of a declaration is the number of declarations with the same path
// that were visited before it.
type assigner struct {
	ctx *Context

	// Number of declarations seen so far, per fully-qualified path.
	counts map[string]int32

	// The implicit module that top-level statements belong to.
	module string

	// The current scope: declarations visited now are qualified with prefix,
	// and other nodes are numbered within scope.
	prefix string
	scope  intern.ID
	ord    int32
	next   int32
}

type assignerFrame struct {
	prefix string
	scope  intern.ID
	ord    int32
	next   int32
}

// assignIDs stamps every node reachable from topLevel with its ID.
func assignIDs(ctx *Context, unit string, topLevel []*Node) {
	a := &assigner{
		ctx:    ctx,
		counts: make(map[string]int32),
		module: ImplicitModuleName(unit),
	}

	for _, n := range topLevel {
		if !n.IsDecl() {
			// Reserve the implicit module's path.
			a.counts[a.module] = 1
			break
		}
	}

	var next int32
	for _, n := range topLevel {
		if n.IsDecl() {
			a.visit(n)
		} else {
			a.visitTopLevel(n, &next)
		}
	}
}

// visitTopLevel visits a top-level statement in the implicit module's scope.
// Top-level statements share one numbering, which next tracks.
func (a *assigner) visitTopLevel(n *Node, next *int32) {
	defer a.pop(a.push(a.module, a.module, 0))
	a.next = *next
	a.visit(n)
	*next = a.next
}

// push enters a new scope, returning the scope being left.
func (a *assigner) push(prefix, path string, ord int32) assignerFrame {
	saved := assignerFrame{a.prefix, a.scope, a.ord, a.next}
	a.prefix = prefix
	a.scope = a.ctx.Intern(path)
	a.ord = ord
	a.next = 0
	return saved
}

// pop returns to a scope previously left by push.
func (a *assigner) pop(f assignerFrame) {
	a.prefix, a.scope, a.ord, a.next = f.prefix, f.scope, f.ord, f.next
}

func (a *assigner) visit(n *Node) {
	if n.id != (ID{}) {
		panic(fmt.Sprintf("dyno/ast: %v appears more than once in the tree", n))
	}

	if n.IsDecl() {
		a.declare(n)
		return
	}

	start := a.next
	for _, c := range n.children {
		a.visit(c)
	}
	n.id = ID{
		Path:        a.scope,
		Ordinal:     a.ord,
		Index:       a.next,
		Descendants: a.next - start,
	}
	a.next++
}

func (a *assigner) declare(n *Node) {
	path := a.ctx.Value(n.AsDecl().Name())
	if a.prefix != "" {
		path = a.prefix + "." + path
	}
	ord := a.counts[path]
	a.counts[path] = ord + 1

	defer a.pop(a.push(scopePath(path, ord), path, ord))
	for _, c := range n.children {
		a.visit(c)
	}
	n.id = ID{
		Path:        a.scope,
		Ordinal:     ord,
		Index:       -1,
		Descendants: a.next,
	}
}

// ImplicitModuleName returns the name of the module that top-level
// statements of the unit at path belong to: the base name of the file
// without its extension, with characters that cannot appear in an
// identifier replaced by underscores.
func ImplicitModuleName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "unit"
	}

	name = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
	if unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}
