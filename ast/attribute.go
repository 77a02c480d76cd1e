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

// AttributeGroup is the list of attributes attached to a declaration or
// statement, such as @deprecated("use g") @unstable.
type AttributeGroup struct{ *Node }

type rawAttributeGroup struct{}

// BuildAttributeGroup builds a new [AttributeGroup].
func BuildAttributeGroup(b *Builder, span source.Span, attrs ...Attribute) AttributeGroup {
	nodes := make([]*Node, len(attrs))
	for i, a := range attrs {
		nodes[i] = a.Node
	}

	c := children{what: KindAttributeGroup}
	c.rest("attribute", KindAttribute, nodes)
	return AttributeGroup{build(b, span, rawAttributeGroup{}, c)}
}

// AsAttributeGroup converts n into an [AttributeGroup], if that is its kind.
func (n *Node) AsAttributeGroup() AttributeGroup {
	if n.Kind() != KindAttributeGroup {
		return AttributeGroup{}
	}
	return AttributeGroup{n}
}

// IsZero returns whether this is the zero view.
func (g AttributeGroup) IsZero() bool { return g.Node == nil }

// Len returns the number of attributes in this group.
func (g AttributeGroup) Len() int {
	return g.NumChildren()
}

// At returns the nth attribute.
func (g AttributeGroup) At(n int) Attribute {
	return g.Child(n).AsAttribute()
}

// Lookup returns the first attribute with the given name.
func (g AttributeGroup) Lookup(name intern.ID) Attribute {
	for _, c := range g.Children() {
		if a := c.AsAttribute(); a.Name() == name {
			return a
		}
	}
	return Attribute{}
}

func (r rawAttributeGroup) kind() Kind              { return KindAttributeGroup }
func (r rawAttributeGroup) match(that payload) bool { return matchRaw(r, that) }
func (r rawAttributeGroup) mark(*intern.Marker)     {}

// Attribute is a single attribute, with optional arguments.
type Attribute struct{ *Node }

type rawAttribute struct {
	name intern.ID
}

// BuildAttribute builds a new [Attribute]. Its name should be given without
// the leading @.
func BuildAttribute(b *Builder, span source.Span, name string, actuals ...*Node) Attribute {
	if name == "" {
		panic("dyno/ast: attribute with empty name")
	}
	c := children{what: KindAttribute}
	c.rest("actual", KindInvalid, actuals)
	return Attribute{build(b, span, rawAttribute{b.ctx.Intern(name)}, c)}
}

// AsAttribute converts n into an [Attribute], if that is its kind.
func (n *Node) AsAttribute() Attribute {
	if n.Kind() != KindAttribute {
		return Attribute{}
	}
	return Attribute{n}
}

// IsZero returns whether this is the zero view.
func (a Attribute) IsZero() bool { return a.Node == nil }

// Name returns the name of this attribute.
func (a Attribute) Name() intern.ID {
	return a.raw.(rawAttribute).name
}

// Actuals returns the arguments to this attribute.
func (a Attribute) Actuals() []*Node {
	if a.Node == nil {
		return nil
	}
	return a.children
}

func (r rawAttribute) kind() Kind              { return KindAttribute }
func (r rawAttribute) match(that payload) bool { return matchRaw(r, that) }
func (r rawAttribute) mark(m *intern.Marker)   { m.Mark(r.name) }
