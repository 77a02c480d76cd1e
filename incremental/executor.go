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
	"context"
	"io"
	"runtime"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/parlang/dyno/internal/ext/mapsx"
	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/report"
)

// Executor is a caching executor for incremental queries.
//
// See [New], [Run], [Executor.Invalidate], and [Executor.Evict].
type Executor struct {
	// Held for reading by every call to [Run], and for writing by operations
	// that modify the cache wholesale.
	dirty sync.RWMutex

	mu       sync.Mutex
	tasks    map[any]*task
	revision uint64
	// Which tasks are blocked waiting for which others, for detecting
	// cycles across goroutines.
	waits map[*task]map[*task]int

	sema  *semaphore.Weighted
	log   logrus.FieldLogger
	table *intern.Table
}

// Option is an option for [New].
type Option func(*Executor)

// New constructs a new executor.
func New(options ...Option) *Executor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Executor{
		tasks:    make(map[any]*task),
		waits:    make(map[*task]map[*task]int),
		revision: 1,
		log:      discard,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.sema == nil {
		e.sema = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	}
	if e.table == nil {
		e.table = new(intern.Table)
	}
	return e
}

// WithParallelism sets the maximum number of queries that can execute in
// parallel. Zero or negative means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Executor) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		e.sema = semaphore.NewWeighted(int64(n))
	}
}

// WithLogger sets the logger that the executor reports its decisions to.
// Everything is logged at debug level. By default, nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithInternTable sets the interning table that [Executor.Collect] sweeps.
// Queries that intern names should use [Executor.Table].
func WithInternTable(table *intern.Table) Option {
	return func(e *Executor) {
		e.table = table
	}
}

// Table returns the interning table that cached values are expected to
// intern their names into.
func (e *Executor) Table() *intern.Table {
	return e.table
}

// Revision returns the current revision, which [Executor.Invalidate]
// increments.
func (e *Executor) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}

// Keys returns a snapshot of the keys of the queries that have a cached
// result, formatted as strings.
//
// The returned slice is sorted.
func (e *Executor) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.tasks))
	for key, t := range e.tasks {
		if t.computed.Load() {
			keys = append(keys, describe(key))
		}
	}
	slices.Sort(keys)
	return keys
}

// Run executes a set of queries on this executor in parallel.
//
// This function only returns an error if ctx is cancelled during execution,
// or if a query panics, in which case the error is an [*ErrPanic].
//
// Errors that occur during each query are contained within the returned
// results. Unlike [Resolve], the non-fatal errors of each result include
// those of its transitive dependencies. The returned report contains the
// diagnostics of every query that was needed, sorted.
func Run[T any](ctx context.Context, e *Executor, queries ...Query[T]) ([]Result[T], *report.Report, error) {
	e.dirty.RLock()
	defer e.dirty.RUnlock()

	root := &Task{ctx: ctx, exec: e}
	results, err := Resolve(root, queries...)
	if err != nil {
		return nil, nil, err
	}

	rep := new(report.Report)
	seen := make(map[*task]struct{})
	for i, q := range queries {
		results[i].NonFatal = nil
		for _, dep := range e.closure(e.lookup(q.Key())) {
			dep.mu.Lock()
			results[i].NonFatal = append(results[i].NonFatal, dep.nonFatal...)
			if mapsx.AddZero(seen, dep) {
				rep.Append(&dep.report)
			}
			dep.mu.Unlock()
		}
	}
	rep.Sort()

	return results, rep, nil
}

// Invalidate marks the queries with the given keys as changed, so that the
// next [Run] that needs them executes them again. Queries that depend on
// them are re-verified, but are only executed again if an invalidated query
// produces a different result; see [Update].
//
// Keys that are not cached are ignored. This function cannot execute in
// parallel with calls to [Run].
func (e *Executor) Invalidate(keys ...any) {
	e.dirty.Lock()
	defer e.dirty.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.revision++
	for _, key := range keys {
		if t, ok := e.tasks[key]; ok {
			t.dirty = true
		}
	}
	e.log.WithFields(logrus.Fields{
		"revision": e.revision,
		"keys":     len(keys),
	}).Debug("invalidated queries")
}

// Evict removes the queries with the given keys from the cache, along with
// every query that depends on them.
//
// Keys that are not cached are ignored. This function cannot execute in
// parallel with calls to [Run].
func (e *Executor) Evict(keys ...any) {
	e.dirty.Lock()
	defer e.dirty.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	var queue []*task
	for _, key := range keys {
		if t, ok := e.tasks[key]; ok {
			queue = append(queue, t)
		}
	}

	evicted := make(map[*task]struct{})
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if !mapsx.AddZero(evicted, next) {
			continue
		}
		delete(e.tasks, next.key)
		for down := range next.downstream {
			queue = append(queue, down)
		}
	}

	// Unlink everything that survived from what was evicted.
	for _, t := range e.tasks {
		for down := range t.downstream {
			if mapsx.Contains(evicted, down) {
				delete(t.downstream, down)
			}
		}
	}

	e.log.WithField("evicted", len(evicted)).Debug("evicted queries")
}

// Collect removes every interned name from [Executor.Table] that is not
// used by a cached value, as reported by [Mark]. Returns the number of
// names collected.
//
// Values that do not implement [Marker] are assumed to hold no interned
// names. This function cannot execute in parallel with calls to [Run].
func (e *Executor) Collect() int {
	e.dirty.Lock()
	defer e.dirty.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.table.NewMarker()
	for _, t := range e.tasks {
		if t.computed.Load() {
			Mark(t.value, m)
		}
	}
	collected := e.table.Sweep(m)

	e.log.WithFields(logrus.Fields{
		"live":      m.Len(),
		"collected": collected,
	}).Debug("collected interned names")
	return collected
}

// lookup returns the task for key, which must exist.
func (e *Executor) lookup(key any) *task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks[key]
}

// getTask returns (and creates if necessary) the task for q.
func getTask[T any](e *Executor, q Query[T]) *task {
	key := q.Key()

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.tasks[key]; ok {
		return t
	}

	t := &task{
		key: key,
		execute: func(t *Task) (any, error) {
			return q.Execute(t)
		},
		update: func(cached, fresh any) (any, bool) {
			c, _ := cached.(T)
			f, _ := fresh.(T)
			return Update(c, f)
		},
		downstream: make(map[*task]struct{}),
	}
	e.tasks[key] = t
	return t
}

// wait records that caller is about to block on target, unless doing so
// would deadlock, in which case it returns the cycle.
func (e *Executor) wait(caller, target *task) *ErrCycle {
	if caller == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if path := e.findPath(target, caller, make(map[*task]bool)); path != nil {
		cycle := &ErrCycle{Cycle: make([]any, 0, len(path)+1)}
		for _, t := range path {
			cycle.Cycle = append(cycle.Cycle, t.key)
		}
		cycle.Cycle = append(cycle.Cycle, target.key)
		return cycle
	}

	edges := e.waits[caller]
	if edges == nil {
		edges = make(map[*task]int)
		e.waits[caller] = edges
	}
	edges[target]++
	return nil
}

// unwait removes an edge added by wait.
func (e *Executor) unwait(caller, target *task) {
	if caller == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	edges := e.waits[caller]
	if edges[target]--; edges[target] <= 0 {
		delete(edges, target)
	}
	if len(edges) == 0 {
		delete(e.waits, caller)
	}
}

// findPath searches the wait graph for a path from "from" to "to".
func (e *Executor) findPath(from, to *task, visited map[*task]bool) []*task {
	if from == to {
		return []*task{from}
	}
	if visited[from] {
		return nil
	}
	visited[from] = true

	for next := range e.waits[from] {
		if path := e.findPath(next, to, visited); path != nil {
			return append([]*task{from}, path...)
		}
	}
	return nil
}
