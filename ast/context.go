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

import "github.com/parlang/dyno/internal/intern"

// Context is shared state for building and comparing syntax trees.
//
// Trees built under different Contexts must not be compared with one
// another: interned names are compared by handle, and handles are only
// meaningful within a single table.
//
// A Context is safe for concurrent use, so independent [Builder]s running in
// parallel may share one.
type Context struct {
	table *intern.Table
}

// NewContext returns a new Context that interns strings into table.
//
// If table is nil, a fresh table is allocated.
func NewContext(table *intern.Table) *Context {
	if table == nil {
		table = new(intern.Table)
	}
	return &Context{table: table}
}

// Table returns this context's interning table.
func (c *Context) Table() *intern.Table {
	return c.table
}

// Intern interns s into this context's table.
func (c *Context) Intern(s string) intern.ID {
	return c.table.Intern(s)
}

// Value returns the string for an interned ID.
func (c *Context) Value(id intern.ID) string {
	return c.table.Value(id)
}

// Describe formats id using this context's table.
func (c *Context) Describe(id ID) string {
	return id.Describe(c.table)
}
