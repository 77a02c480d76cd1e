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
	"fmt"
	"runtime"
	"strings"

	"github.com/parlang/dyno/source"
)

// Level represents the severity of a diagnostic message.
type Level int8

const (
	// Internal compiler error. Indicates a panic within the compiler.
	ICE Level = 1 + iota
	// Red. Indicates a problem that prevents the program from compiling.
	Error
	// Yellow. Indicates something that probably should not be ignored.
	Warning
	// Cyan. This is the diagnostics version of "info".
	Remark
)

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case ICE:
		return "internal compiler error"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("report.Level(%d)", int(l))
	}
}

// Tag is a diagnostic tag: a machine-readable identification for a diagnostic.
//
// Tags should be lowercase identifiers separated by dashes, e.g. my-error-tag.
// If a package generates diagnostics with tags, it should expose those tags as
// constants.
type Tag string

// Apply implements [DiagnosticOption].
func (t Tag) Apply(d *Diagnostic) {
	if d.tag != "" {
		panic("dyno/report: set diagnostic tag more than once")
	}
	d.tag = t
}

// Diagnostic is a message about a user's source code: an error, a warning,
// or a remark.
//
// To construct a diagnostic, create one using a function like [Report.Errorf].
// Then, call [Diagnostic.Apply] to attach a span, notes, and so on.
type Diagnostic struct {
	tag     Tag
	message string
	level   Level

	// The stage of compilation that produced this diagnostic. See [Report.Sort].
	stage int

	// The primary span for this diagnostic. If zero, inFile names the file
	// instead; this is used for errors like "file not found" that cannot be
	// given a snippet.
	span   source.Span
	inFile string

	notes, help []string

	// Only populated in debug mode.
	trace []runtime.Frame
}

// NewDiagnostic constructs a diagnostic outside of any [Report]. It is
// intended for code that accumulates diagnostics in its own storage, such as
// a syntax tree builder.
func NewDiagnostic(level Level, format string, args ...any) Diagnostic {
	d := Diagnostic{level: level, message: fmt.Sprintf(format, args...)}
	d.trace = captureTrace(2)
	return d
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
//
// Nil values passed to [Diagnostic.Apply] are ignored.
type DiagnosticOption interface {
	Apply(*Diagnostic)
}

// Apply applies the given options to this diagnostic, and returns it.
func (d *Diagnostic) Apply(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option.Apply(d)
		}
	}
	return d
}

// Message returns this diagnostic's message.
func (d *Diagnostic) Message() string {
	return d.message
}

// Level returns this diagnostic's level.
func (d *Diagnostic) Level() Level {
	return d.level
}

// Is checks whether this diagnostic has a particular tag.
func (d *Diagnostic) Is(tag Tag) bool {
	return d.tag == tag
}

// Primary returns this diagnostic's primary span. May be zero.
func (d *Diagnostic) Primary() source.Span {
	return d.span
}

// Path returns the path of the file this diagnostic refers to.
func (d *Diagnostic) Path() string {
	if !d.span.IsZero() {
		return d.span.Path()
	}
	return d.inFile
}

// Notes returns the notes attached to this diagnostic.
func (d *Diagnostic) Notes() []string {
	return d.notes
}

// Help returns the help messages attached to this diagnostic.
func (d *Diagnostic) Help() []string {
	return d.help
}

// Error implements [error].
func (d *Diagnostic) Error() string {
	var buf strings.Builder
	switch {
	case !d.span.IsZero():
		fmt.Fprintf(&buf, "%s:%v: ", d.span.Path(), d.span.StartLoc())
	case d.inFile != "":
		fmt.Fprintf(&buf, "%s: ", d.inFile)
	}
	fmt.Fprintf(&buf, "%v: %s", d.level, d.message)
	return buf.String()
}

// Snippet returns a DiagnosticOption that sets the primary span of a
// diagnostic.
//
// If at is nil or has a zero span, this returns nil.
func Snippet(at source.Spanner) DiagnosticOption {
	if at == nil {
		return nil
	}
	span := at.Span()
	if span.IsZero() {
		return nil
	}
	return snippet(span)
}

// InFile is a DiagnosticOption that causes a diagnostic without a primary
// span to mention the given file.
type InFile string

// Apply implements [DiagnosticOption].
func (f InFile) Apply(d *Diagnostic) {
	if d.inFile != "" {
		panic("dyno/report: set diagnostic path more than once")
	}
	d.inFile = string(f)
}

// Note returns a DiagnosticOption that provides the user with context about the
// diagnostic, after the snippet.
func Note(format string, args ...any) DiagnosticOption {
	return note(fmt.Sprintf(format, args...))
}

// Help returns a DiagnosticOption that provides the user with a helpful prose
// suggestion for resolving the diagnostic.
func Help(format string, args ...any) DiagnosticOption {
	return help(fmt.Sprintf(format, args...))
}

type (
	snippet source.Span
	note    string
	help    string
)

func (s snippet) Apply(d *Diagnostic) {
	if !d.span.IsZero() {
		panic("dyno/report: set diagnostic span more than once")
	}
	d.span = source.Span(s)
}

func (n note) Apply(d *Diagnostic) { d.notes = append(d.notes, string(n)) }
func (h help) Apply(d *Diagnostic) { d.help = append(d.help, string(h)) }
