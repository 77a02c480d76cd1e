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
	"io"
	"strconv"
	"strings"
)

// Outline is a simplified, serializable rendering of a syntax tree, used for
// debugging output and golden tests.
type Outline struct {
	Kind     string     `yaml:"kind"`
	Role     string     `yaml:"role,omitempty"`
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name,omitempty"`
	Detail   string     `yaml:"detail,omitempty"`
	Span     string     `yaml:"span,omitempty"`
	Children []*Outline `yaml:"children,omitempty"`
}

// OutlineOptions configures [Result.Outline].
type OutlineOptions struct {
	// If set, include the source span of each node.
	Spans bool
}

// Outline renders the top level of this unit as a list of outlines.
func (r *Result) Outline(opts OutlineOptions) []*Outline {
	out := make([]*Outline, len(r.topLevel))
	for i, n := range r.topLevel {
		out[i] = r.outline(n, "", opts)
	}
	return out
}

func (r *Result) outline(n *Node, role string, opts OutlineOptions) *Outline {
	o := &Outline{
		Kind: n.Kind().String(),
		Role: role,
		ID:   n.id.Describe(r.ctx.table),
	}
	o.Name, o.Detail = r.describe(n)
	if opts.Spans {
		if span, ok := r.Location(n.id); ok {
			o.Span = span.String()
		}
	}

	roles := childRoles(n)
	for i, c := range n.children {
		o.Children = append(o.Children, r.outline(c, roles[i], opts))
	}
	return o
}

// describe returns the name and the remaining payload of n, formatted.
func (r *Result) describe(n *Node) (name, detail string) {
	var details []string
	add := func(show bool, s fmt.Stringer) {
		if show {
			details = append(details, s.String())
		}
	}

	if d := n.AsDecl(); !d.IsZero() {
		name = r.ctx.Value(d.Name())
		add(d.Visibility() != DefaultVisibility, d.Visibility())
	}

	switch n.Kind() {
	case KindComment:
		details = append(details, strconv.Quote(n.AsComment().Text()))
	case KindIdentifier:
		name = r.ctx.Value(n.AsIdentifier().Name())
	case KindBoolLiteral:
		details = append(details, strconv.FormatBool(n.AsBoolLiteral().Value()))
	case KindIntLiteral:
		details = append(details, n.AsIntLiteral().Text())
	case KindRealLiteral:
		details = append(details, n.AsRealLiteral().Text())
	case KindStringLiteral:
		lit := n.AsStringLiteral()
		details = append(details, strconv.Quote(lit.Value()))
		add(lit.Quotes() != DoubleQuotes, lit.Quotes())
	case KindOpCall:
		name = r.ctx.Value(n.AsOpCall().Op())
	case KindBlock:
		add(true, n.AsBlock().Style())
	case KindAttribute:
		name = "@" + r.ctx.Value(n.AsAttribute().Name())
	case KindVariable:
		add(true, n.AsVariable().VarKind())
	case KindFormal:
		add(n.AsFormal().Intent() != DefaultIntent, n.AsFormal().Intent())
	case KindFunction:
		add(true, n.AsFunction().FuncKind())
	case KindRecord:
		add(true, n.AsRecord().RecKind())
	case KindModule:
		add(n.AsModule().ModKind() != DefaultModule, n.AsModule().ModKind())
	}

	return name, strings.Join(details, " ")
}

// childRoles names the children of n that play a particular role.
func childRoles(n *Node) map[int]string {
	roles := make(map[int]string)
	set := func(c ChildNum, role string) {
		if c != NoChild {
			roles[int(c)] = role
		}
	}

	if n.IsDecl() {
		set(n.AsDecl().base().attrs, "attributes")
	}
	switch raw := n.raw.(type) {
	case rawCall:
		set(0, "callee")
	case rawForeach:
		set(raw.attrs, "attributes")
		set(raw.index, "index")
		set(raw.iterand, "iterand")
		set(raw.with, "with")
		set(raw.body, "body")
	case rawVariable:
		set(raw.typ, "type")
		set(raw.init, "init")
	case rawFormal:
		set(raw.typ, "type")
		set(raw.init, "default")
	case rawFunction:
		set(raw.ret, "return")
		set(raw.body, "body")
	case rawEnumElement:
		set(raw.init, "init")
	}
	return roles
}

// FormatOutline writes outlines to w as an indented listing, one node per
// line.
func FormatOutline(w io.Writer, outlines []*Outline) error {
	var buf strings.Builder
	var format func(o *Outline, depth int)
	format = func(o *Outline, depth int) {
		buf.WriteString(strings.Repeat("  ", depth))
		if o.Role != "" {
			buf.WriteString(o.Role)
			buf.WriteString(": ")
		}
		buf.WriteString(o.Kind)
		for _, s := range []string{o.Name, o.Detail} {
			if s != "" {
				buf.WriteByte(' ')
				buf.WriteString(s)
			}
		}
		fmt.Fprintf(&buf, " [%s]", o.ID)
		if o.Span != "" {
			fmt.Fprintf(&buf, " %s", o.Span)
		}
		buf.WriteByte('\n')

		for _, c := range o.Children {
			format(c, depth+1)
		}
	}

	for _, o := range outlines {
		format(o, 0)
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
