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
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rivo/uniseg"
)

// Renderer configures a diagnostic rendering operation.
type Renderer struct {
	// If set, uses a compact one-line format for each diagnostic.
	Compact bool

	// If set, rendering results are enriched with ANSI color escapes.
	Colorize bool

	// Skips rendering remarks.
	HideRemarks bool

	// Includes the creation stack trace of each diagnostic, if one was
	// captured in debug mode.
	ShowTraces bool
}

// Render renders every diagnostic in r to out.
//
// Returns the number of errors and warnings rendered, and the first write
// error encountered, if any.
func (r Renderer) Render(report *Report, out io.Writer) (errors, warnings int, err error) {
	var buf strings.Builder
	ss := r.styles()
	for i := range report.Diagnostics {
		d := &report.Diagnostics[i]
		switch d.level {
		case Remark:
			if r.HideRemarks {
				continue
			}
		case Warning:
			warnings++
		default:
			errors++
		}

		if r.Compact {
			buf.WriteString(ss.level(d.level).Sprint(d.Error()))
			buf.WriteByte('\n')
		} else {
			r.diagnostic(&buf, ss, d)
		}
	}

	_, err = io.WriteString(out, buf.String())
	return errors, warnings, err
}

// RenderString is a helper for calling [Renderer.Render] with a
// [strings.Builder].
func (r Renderer) RenderString(report *Report) string {
	var buf strings.Builder
	_, _, _ = r.Render(report, &buf)
	return buf.String()
}

func (r Renderer) diagnostic(buf *strings.Builder, ss styleSheet, d *Diagnostic) {
	level := ss.level(d.level)
	fmt.Fprintf(buf, "%s%s\n", level.Sprintf("%v:", d.level), ss.bold.Sprintf(" %s", d.message))

	span := d.Primary()
	if span.IsZero() {
		if d.inFile != "" {
			fmt.Fprintf(buf, " %s %s\n", ss.frame.Sprint("-->"), d.inFile)
		}
	} else {
		start, end := span.StartLoc(), span.EndLoc()
		gutter := strings.Repeat(" ", len(strconv.Itoa(start.Line)))
		fmt.Fprintf(buf, "%s%s %s:%v\n", gutter, ss.frame.Sprint("-->"), span.Path(), start)
		fmt.Fprintf(buf, "%s %s\n", gutter, ss.frame.Sprint("|"))

		line := strings.TrimRight(span.File.Line(start.Line), "\r\n")
		fmt.Fprintf(buf, "%s %s %s\n", ss.frame.Sprint(start.Line), ss.frame.Sprint("|"), line)

		// Only the first line of a multi-line span is underlined.
		lineStart, _ := span.File.LineOffsets(start.Line)
		underlineEnd := span.End
		if end.Line != start.Line {
			underlineEnd = lineStart + len(line)
		}
		pad := uniseg.StringWidth(span.File.Text()[lineStart:span.Start])
		width := max(1, uniseg.StringWidth(span.File.Text()[span.Start:underlineEnd]))
		fmt.Fprintf(buf, "%s %s %s%s\n",
			gutter, ss.frame.Sprint("|"),
			strings.Repeat(" ", pad), level.Sprint(strings.Repeat("^", width)))
	}

	for _, note := range d.notes {
		fmt.Fprintf(buf, " %s %s %s\n", ss.frame.Sprint("="), ss.bold.Sprint("note:"), note)
	}
	for _, help := range d.help {
		fmt.Fprintf(buf, " %s %s %s\n", ss.frame.Sprint("="), ss.bold.Sprint("help:"), help)
	}
	if r.ShowTraces {
		for _, frame := range d.trace {
			fmt.Fprintf(buf, "   at %s\n      %s:%d\n", frame.Function, frame.File, frame.Line)
		}
	}
	buf.WriteByte('\n')
}

type styleSheet struct {
	ice, err, warning, remark, frame, bold *color.Color
}

func (r Renderer) styles() styleSheet {
	ss := styleSheet{
		ice:     color.New(color.FgHiMagenta, color.Bold),
		err:     color.New(color.FgHiRed, color.Bold),
		warning: color.New(color.FgHiYellow, color.Bold),
		remark:  color.New(color.FgHiCyan, color.Bold),
		frame:   color.New(color.FgHiBlue),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{ss.ice, ss.err, ss.warning, ss.remark, ss.frame, ss.bold} {
		if r.Colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return ss
}

func (ss styleSheet) level(l Level) *color.Color {
	switch l {
	case ICE:
		return ss.ice
	case Warning:
		return ss.warning
	case Remark:
		return ss.remark
	default:
		return ss.err
	}
}
