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

package report

import (
	"cmp"
	"fmt"
	"os"
	"runtime"
	"slices"
)

var debugMode = os.Getenv("DYNO_DEBUG") != ""

// Report is a collection of diagnostics.
//
// The zero value is empty and ready to use. A Report is not safe for
// concurrent use.
type Report struct {
	// The stage recorded on every diagnostic pushed onto this report. Later
	// stages sort after earlier ones within a file; see [Report.Sort].
	Stage int

	Diagnostics []Diagnostic
}

// Errorf pushes an error diagnostic onto this report; analogous to
// [fmt.Errorf].
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(Error, fmt.Sprintf(format, args...))
}

// Warnf pushes a warning diagnostic onto this report.
func (r *Report) Warnf(format string, args ...any) *Diagnostic {
	return r.push(Warning, fmt.Sprintf(format, args...))
}

// Remarkf pushes a remark diagnostic onto this report.
func (r *Report) Remarkf(format string, args ...any) *Diagnostic {
	return r.push(Remark, fmt.Sprintf(format, args...))
}

// SoftPanic pushes an internal compiler error built from a recovered panic
// value onto this report.
func (r *Report) SoftPanic(recovered any) *Diagnostic {
	return r.push(ICE, fmt.Sprint(recovered))
}

// Push appends an already-constructed diagnostic to this report. The
// diagnostic's stage is replaced with this report's stage.
func (r *Report) Push(d Diagnostic) *Diagnostic {
	d.stage = r.Stage
	r.Diagnostics = append(r.Diagnostics, d)
	return &r.Diagnostics[len(r.Diagnostics)-1]
}

// Append appends copies of every diagnostic in other to r, keeping their
// stages.
func (r *Report) Append(other *Report) {
	if other == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Len returns the number of diagnostics in this report.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Diagnostics)
}

// Count returns how many diagnostics in this report have the given level.
func (r *Report) Count(level Level) int {
	if r == nil {
		return 0
	}
	var n int
	for i := range r.Diagnostics {
		if r.Diagnostics[i].level == level {
			n++
		}
	}
	return n
}

// HasErrors returns whether this report has any diagnostics at level [Error]
// or [ICE].
func (r *Report) HasErrors() bool {
	return r.Count(Error)+r.Count(ICE) > 0
}

// Sort canonicalizes this report's diagnostic order: by file, then stage,
// then position, then severity. Diagnostics that compare equal keep their
// relative order.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Path(), b.Path()),
			cmp.Compare(a.stage, b.stage),
			cmp.Compare(a.span.Start, b.span.Start),
			cmp.Compare(a.span.End, b.span.End),
			cmp.Compare(a.level, b.level),
		)
	})
}

// push is the core "make me a diagnostic" function.
func (r *Report) push(level Level, message string) *Diagnostic {
	d := r.Push(Diagnostic{level: level, message: message})
	d.trace = captureTrace(3)
	return d
}

// captureTrace returns the stack above its caller's caller, if debug mode is
// on.
func captureTrace(skip int) []runtime.Frame {
	if !debugMode {
		return nil
	}

	pc := make([]uintptr, 64)
	pc = pc[:runtime.Callers(skip+1, pc)]

	var trace []runtime.Frame
	frames := runtime.CallersFrames(pc)
	for {
		next, more := frames.Next()
		trace = append(trace, next)
		if !more {
			break
		}
	}
	return trace
}
