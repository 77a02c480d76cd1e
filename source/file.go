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

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/rivo/uniseg"
)

// File is the text of one source file, together with an index of its line
// starts. Files are immutable.
//
// A nil *File is an empty file whose path is "".
type File struct {
	path, text string

	// Byte offsets at which each line begins, computed on first use.
	starts func() []int
}

// NewFile returns a file with the given path and contents.
func NewFile(path, text string) *File {
	f := &File{path: path, text: text}
	f.starts = sync.OnceValue(func() []int { return lineStarts(text) })
	return f
}

// Path returns the file's path. It need not exist on disk; it names the
// file's implicit module and keys spans.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns the file's contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Update reports whether fresh differs from f in path or text. If it does
// not, f is kept, so that spans into f remain valid.
func (f *File) Update(fresh *File) (kept *File, changed bool) {
	if f != nil && fresh != nil && f.path == fresh.path && f.text == fresh.text {
		return f, false
	}
	return fresh, true
}

// Span returns the span of f between two byte offsets.
func (f *File) Span(start, end int) Span {
	if f == nil {
		return Span{}
	}
	return Span{File: f, Start: start, End: end}
}

// Location resolves a byte offset into a line and column, with the column
// measured in units. Lookup is a binary search over line starts.
func (f *File) Location(offset int, units Unit) Location {
	loc := Location{Offset: offset, Line: 1, Column: 1}
	if f == nil || offset <= 0 {
		loc.Offset = 0
		return loc
	}

	starts := f.lines()
	// Index of the last line starting at or before offset.
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	loc.Line = line + 1
	loc.Column += width(f.text[starts[line]:offset], units)
	return loc
}

// Line returns the text of a 1-indexed line, including its newline.
func (f *File) Line(line int) string {
	start, end := f.LineOffsets(line)
	return f.Text()[start:end]
}

// LineOffsets returns the byte range of a 1-indexed line, including its
// newline.
func (f *File) LineOffsets(line int) (start, end int) {
	starts := f.lines()
	start = starts[line-1]
	if line < len(starts) {
		return start, starts[line]
	}
	return start, len(f.Text())
}

func (f *File) lines() []int {
	if f == nil || f.starts == nil {
		return lineStarts(f.Text())
	}
	return f.starts()
}

// lineStarts returns the offset of each line in text. A trailing newline
// starts an empty final line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; ; {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			return starts
		}
		i += nl + 1
		starts = append(starts, i)
	}
}

// width measures chunk in units.
func width(chunk string, units Unit) int {
	switch units {
	case Runes:
		n := 0
		for range chunk {
			n++
		}
		return n
	case UTF16:
		n := 0
		for _, r := range chunk {
			n += utf16.RuneLen(r)
		}
		return n
	case TermWidth:
		return uniseg.StringWidth(chunk)
	default:
		return len(chunk)
	}
}
