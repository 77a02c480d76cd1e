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

package incremental

import (
	"fmt"
	"strings"
)

// ErrCycle is returned as the fatal error of a query that depends on
// itself, directly or transitively.
type ErrCycle struct {
	// The keys of the queries in the cycle, starting and ending with the
	// same query.
	Cycle []any
}

// Error implements [error].
func (e *ErrCycle) Error() string {
	var buf strings.Builder
	buf.WriteString("cycle detected: ")
	for i, key := range e.Cycle {
		if i > 0 {
			buf.WriteString(" -> ")
		}
		buf.WriteString(describe(key))
	}
	return buf.String()
}

// ErrPanic is returned by [Run] if any query panics.
type ErrPanic struct {
	Query     any // The key of the query that panicked.
	Panic     any // The recovered value.
	Backtrace string
}

// Error implements [error].
func (e *ErrPanic) Error() string {
	return fmt.Sprintf("panic in query %s: %v\n%s", describe(e.Query), e.Panic, e.Backtrace)
}

// Unwrap returns the panic value, if it is an error.
func (e *ErrPanic) Unwrap() error {
	err, _ := e.Panic.(error)
	return err
}

// describe formats a query key for humans.
func describe(key any) string {
	if s, ok := key.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%#v", key)
}
