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

// Package ast is the immutable syntax tree of a compilation unit, together
// with the [Builder] that constructs it.
//
// # Nodes
//
// Every node is a [*Node]. A node's kind-specific data is reached through a
// view type with the same name as its [Kind], such as [EnumElement] for
// [KindEnumElement]; the view for a node is obtained with one of the As*
// methods, which return the zero view if the node has a different kind.
//
// A node exclusively owns its children. Optional children, such as the
// attributes of a declaration or the initializer of a variable, are recorded
// as a [ChildNum] offset into the children, with [NoChild] meaning "absent".
// Once built, a tree is never mutated.
//
// # Identity
//
// Nodes have no stable identity until [Builder.Result] is called. At that
// point every node reachable from the unit's top level is given an [ID]
// derived only from the shape of the tree, so that building byte-identical
// source twice produces identical IDs node for node.
//
// # Equality
//
// [Node.Match] compares two trees structurally: kinds, children, and payload,
// but not IDs, allocation identity, or source locations. It is the basis on
// which [Result.Update] decides whether a freshly parsed unit can be
// discarded in favor of a cached one.
//go:generate go run github.com/parlang/dyno/internal/enum enums.yaml
package ast
