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

package source

import "fmt"

// Span is a byte range within a [File].
//
// The zero Span has no file and is used to mean "no location".
type Span struct {
	// The file this span refers into.
	File *File

	// The start (inclusive) and end (exclusive) byte offsets for this span.
	Start, End int
}

// Spanner is any type that has a [Span].
type Spanner interface {
	Span() Span
}

// IsZero returns whether this is the zero span.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Span implements [Spanner].
func (s Span) Span() Span {
	return s
}

// Text returns the text this span covers.
func (s Span) Text() string {
	if s.IsZero() {
		return ""
	}
	return s.File.Text()[s.Start:s.End]
}

// Path returns the path of the file this span is in.
func (s Span) Path() string {
	return s.File.Path()
}

// StartLoc returns the location of the start of this span, with columns
// measured in bytes.
func (s Span) StartLoc() Location {
	return s.File.Location(s.Start, Bytes)
}

// EndLoc returns the location of the end of this span, with columns
// measured in bytes.
func (s Span) EndLoc() Location {
	return s.File.Location(s.End, Bytes)
}

// Len returns the length of this span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Join returns the smallest span that contains every non-zero span in spans.
//
// Panics if the non-zero spans do not all share a file.
func Join(spans ...Span) Span {
	var joined Span
	for _, span := range spans {
		switch {
		case span.IsZero():
			continue
		case joined.IsZero():
			joined = span
		case joined.File != span.File:
			panic(fmt.Sprintf("dyno/source: joined spans from %q and %q", joined.Path(), span.Path()))
		default:
			joined.Start = min(joined.Start, span.Start)
			joined.End = max(joined.End, span.End)
		}
	}
	return joined
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	if s.IsZero() {
		return "<no location>"
	}
	start, end := s.StartLoc(), s.EndLoc()
	if start.Line == end.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Path(), start.Line, start.Column, end.Column)
	}
	return fmt.Sprintf("%s:%v-%v", s.Path(), start, end)
}
