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
	"cmp"
	"context"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/parlang/dyno/internal/ext/mapsx"
	"github.com/parlang/dyno/internal/intern"
	"github.com/parlang/dyno/report"
)

// Task represents a query that is currently being executed.
//
// Values of type Task are passed to [Query]. The main use of a Task is to
// be passed to [Resolve] to resolve dependencies. A Task is not safe for
// concurrent use, and must not be retained after Execute returns.
type Task struct {
	// All of the queries resolved by one call to [Run] must observe the same
	// context, so it is carried by the task rather than passed to Execute.
	ctx  context.Context //nolint:containedctx
	exec *Executor
	task *task // Nil for the root task created by Run.

	// Whether this task holds one of the executor's parallelism slots.
	held bool
	// Set once a dependency fails in a way that means this task's result
	// must be discarded.
	abort error

	deps     []*task
	nonFatal []error
	report   report.Report
}

// Context returns the cancellation context for this task.
func (t *Task) Context() context.Context {
	return t.ctx
}

// Report returns the diagnostic report for this task. Diagnostics pushed
// onto it are cached along with the query's result, and are returned by
// [Run] for every query that needs this one.
func (t *Task) Report() *report.Report {
	return &t.report
}

// NonFatal records errors that do not prevent the current query from
// producing a value. They are propagated to every query that depends on
// this one when returned by [Run].
func (t *Task) NonFatal(errs ...error) {
	t.nonFatal = append(t.nonFatal, errs...)
}

// Table returns the interning table of the executor running this task.
func (t *Task) Table() *intern.Table {
	return t.exec.table
}

// Logger returns a logger with the current query's key attached.
func (t *Task) Logger() logrus.FieldLogger {
	if t.task == nil {
		return t.exec.log
	}
	return t.exec.log.WithField("query", describe(t.task.key))
}

// Resolve executes a set of queries in parallel, as dependencies of caller.
//
// The returned error is non-nil only if the context of the [Run] that spawned
// caller is cancelled, or if a dependency panicked. In that case, the result
// of caller is discarded regardless of what its Execute method returns, so
// it may return immediately.
//
// Non-fatal errors for each result are only those that the query recorded
// itself, and do not include that query's transitive errors. This is unlike
// the behavior of [Run].
func Resolve[T any](caller *Task, queries ...Query[T]) ([]Result[T], error) {
	if caller.abort != nil {
		return nil, caller.abort
	}

	e := caller.exec
	deps := make([]*task, len(queries))
	for i, q := range queries {
		deps[i] = getTask(e, q)
		if !slices.Contains(caller.deps, deps[i]) {
			caller.deps = append(caller.deps, deps[i])
		}
	}

	// Give up our slot while we wait, so that the dependencies can use it.
	released := caller.held
	if released {
		e.sema.Release(1)
		caller.held = false
	}

	var err error
	outcomes := make([]outcome, len(deps))
	if len(deps) == 1 {
		outcomes[0], err = e.ensure(caller.ctx, caller.task, deps[0])
	} else {
		g, ctx := errgroup.WithContext(caller.ctx)
		for i, dep := range deps {
			g.Go(func() error {
				var err error
				outcomes[i], err = e.ensure(ctx, caller.task, dep)
				return err
			})
		}
		err = g.Wait()
	}

	if released {
		if acquireErr := e.sema.Acquire(caller.ctx, 1); acquireErr != nil {
			err = cmp.Or(err, acquireErr)
		} else {
			caller.held = true
		}
	}

	if err != nil {
		caller.abort = err
		return nil, err
	}

	results := make([]Result[T], len(queries))
	for i, o := range outcomes {
		if o.value != nil {
			// This only fails if two queries of different types share a key,
			// which violates the contract of [Query.Key].
			results[i].Value = o.value.(T) //nolint:errcheck
		}
		results[i].NonFatal = o.nonFatal
		results[i].Fatal = o.fatal
		results[i].Changed = o.changed
	}
	return results, nil
}

// task is book-keeping information for a memoized query in an [Executor].
type task struct {
	key any

	// Created by getTask, which knows the query's result type.
	execute func(*Task) (any, error)
	update  func(cached, fresh any) (any, bool)

	// Held while this task is being verified or executed.
	mu       sync.Mutex
	value    any
	fatal    error
	nonFatal []error
	report   report.Report

	// The revision in which value last changed, and the revision in which
	// it was last confirmed to be up to date.
	changedAt, verifiedAt uint64
	computed              atomic.Bool
	dirty                 bool

	// Guarded by Executor.mu.
	deps       []*task
	downstream map[*task]struct{}
}

// outcome is a snapshot of a task's result, as observed by a dependent.
type outcome struct {
	value     any
	fatal     error
	nonFatal  []error
	changed   bool
	changedAt uint64

	// Set when the task could not be waited on without deadlocking.
	cycle bool
}

func (t *task) snapshot(rev uint64) outcome {
	return outcome{
		value:     t.value,
		fatal:     t.fatal,
		nonFatal:  t.nonFatal,
		changed:   t.changedAt == rev,
		changedAt: t.changedAt,
	}
}

// ensure makes sure that t is up to date in the current revision, executing
// it if necessary, and returns a snapshot of its result.
//
// caller is the task on whose behalf t is needed, or nil for a root query.
// A non-nil error means that the result had to be discarded.
func (e *Executor) ensure(ctx context.Context, caller, t *task) (outcome, error) {
	if cycle := e.wait(caller, t); cycle != nil {
		return outcome{fatal: cycle, cycle: true}, nil
	}
	defer e.unwait(caller, t)

	t.mu.Lock()
	defer t.mu.Unlock()

	rev := e.Revision()
	if t.verifiedAt == rev {
		return t.snapshot(rev), nil
	}

	if t.computed.Load() && !t.dirty {
		stale := false
		for _, dep := range e.depsOf(t) {
			o, err := e.ensure(ctx, t, dep)
			if err != nil {
				return outcome{}, err
			}
			if o.cycle || o.changedAt > t.verifiedAt {
				stale = true
				break
			}
		}

		if !stale {
			t.verifiedAt = rev
			e.log.WithFields(logrus.Fields{
				"query":    describe(t.key),
				"revision": rev,
			}).Debug("reused cached query")
			return t.snapshot(rev), nil
		}
	}

	return e.execute(ctx, t, rev)
}

// execute runs t's query and commits its result. t.mu must be held.
func (e *Executor) execute(ctx context.Context, t *task, rev uint64) (outcome, error) {
	if err := e.sema.Acquire(ctx, 1); err != nil {
		return outcome{}, err
	}

	callee := &Task{ctx: ctx, exec: e, task: t, held: true}
	value, fatal, abort := callee.run()
	if callee.held {
		e.sema.Release(1)
	}

	log := e.log.WithFields(logrus.Fields{
		"query":    describe(t.key),
		"revision": rev,
	})
	if abort != nil {
		// Leave the task as it was, so that the next attempt executes it
		// again.
		t.dirty = true
		log.WithError(abort).Debug("aborted query")
		return outcome{}, abort
	}

	kept, changed := value, true
	if t.computed.Load() {
		switch {
		case t.fatal == nil && fatal == nil:
			kept, changed = t.update(t.value, value)
		case t.fatal != nil && fatal != nil:
			changed = t.fatal.Error() != fatal.Error()
		}
		if !sameErrors(t.nonFatal, callee.nonFatal) {
			changed = true
		}
	}

	t.value = kept
	t.fatal = fatal
	t.nonFatal = callee.nonFatal
	t.report = callee.report
	if changed {
		t.changedAt = rev
	}
	t.verifiedAt = rev
	t.dirty = false
	t.computed.Store(true)
	e.commitDeps(t, callee.deps)

	log.WithField("changed", changed).Debug("executed query")
	return t.snapshot(rev), nil
}

// run calls the query's Execute method, converting panics into aborts.
func (t *Task) run() (value any, fatal, abort error) {
	defer func() {
		if r := recover(); r != nil {
			value, fatal = nil, nil
			abort = &ErrPanic{
				Query:     t.task.key,
				Panic:     r,
				Backtrace: string(debug.Stack()),
			}
		}
	}()

	value, fatal = t.task.execute(t)
	return value, fatal, t.abort
}

// depsOf returns a snapshot of t's dependencies, in the order they were
// first resolved.
func (e *Executor) depsOf(t *task) []*task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(t.deps)
}

// commitDeps replaces t's dependencies with deps.
func (e *Executor) commitDeps(t *task, deps []*task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, old := range t.deps {
		if !slices.Contains(deps, old) {
			delete(old.downstream, t)
		}
	}
	for _, dep := range deps {
		dep.downstream[t] = struct{}{}
	}
	t.deps = deps
}

// closure returns t and every task it transitively depends on, each exactly
// once.
func (e *Executor) closure(t *task) []*task {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*task
	seen := make(map[*task]struct{})
	var visit func(*task)
	visit = func(t *task) {
		if !mapsx.AddZero(seen, t) {
			return
		}
		out = append(out, t)
		for _, dep := range t.deps {
			visit(dep)
		}
	}
	visit(t)
	return out
}

func sameErrors(a, b []error) bool {
	return slices.EqualFunc(a, b, func(a, b error) bool {
		return a.Error() == b.Error()
	})
}
