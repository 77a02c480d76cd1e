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

// Package incremental is a caching, dependency-tracking query engine.
//
// A [Query] is a unit of work identified by a key. Running a query on an
// [Executor] memoizes its result; any queries it resolves while executing
// are recorded as its dependencies. After some inputs are marked as changed
// with [Executor.Invalidate], the next [Run] re-verifies cached results from
// the bottom up, re-executing only queries whose dependencies actually
// changed.
//
// Whether a re-executed query "actually changed" is decided by [Update]: a
// value that implements [Updater] can declare that a freshly computed value
// is equivalent to the cached one, in which case the cached value is kept
// and its dependents are not re-executed.
package incremental

// Query represents an incremental computation.
//
// Types which implement Query can be executed by an [Executor], which
// automatically caches the results of a query.
type Query[T any] interface {
	// Returns a comparable value that uniquely identifies this query.
	//
	// Two queries with equal keys must be interchangeable: the executor will
	// only ever run one of them. The executor does not interpret keys beyond
	// comparing them; keys that implement [fmt.Stringer] are shown using it
	// in logs and errors.
	Key() any

	// Executes this query. This function is only called if the result of
	// this query is not in the [Executor]'s cache, or if it is out of date.
	//
	// The returned error is the query's fatal error; see [Result].
	Execute(t *Task) (T, error)
}

// Result is the result of executing a query on an [Executor], either via
// [Run] or [Resolve].
type Result[T any] struct {
	Value T

	// Errors recorded with [Task.NonFatal]. When returned by [Run], this
	// includes the non-fatal errors of every transitive dependency.
	NonFatal []error

	// The error returned by the query's Execute method. This may be an
	// [*ErrCycle] if the query depends on itself.
	Fatal error

	// Whether this result was computed or changed in the current revision
	// of the executor, rather than being reused.
	Changed bool
}
