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

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

func TestRender(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.chpl", "var x = ;\n")

	var r report.Report
	r.Errorf("expected expression").Apply(
		report.Snippet(file.Span(8, 9)),
		report.Help("add an initializer after %q", "="),
	)
	r.Warnf("file is empty").Apply(report.InFile("b.chpl"))
	r.Remarkf("parsed %d declarations", 1).Apply(report.Snippet(file.Span(0, 3)))

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.Count(report.Warning))

	renderer := report.Renderer{HideRemarks: true}
	assert.Equal(t, ""+
		"error: expected expression\n"+
		" --> a.chpl:1:9\n"+
		"  |\n"+
		"1 | var x = ;\n"+
		"  |         ^\n"+
		" = help: add an initializer after \"=\"\n"+
		"\n"+
		"warning: file is empty\n"+
		" --> b.chpl\n"+
		"\n",
		renderer.RenderString(&r),
	)

	compact := report.Renderer{Compact: true}
	assert.Equal(t, ""+
		"a.chpl:1:9: error: expected expression\n"+
		"b.chpl: warning: file is empty\n"+
		"a.chpl:1:1: remark: parsed 1 declarations\n",
		compact.RenderString(&r),
	)
}

func TestSort(t *testing.T) {
	t.Parallel()

	a := source.NewFile("a.chpl", "var x = 1; var y = 2;")
	b := source.NewFile("b.chpl", "var z;")

	var r report.Report
	r.Stage = 10
	r.Errorf("late").Apply(report.Snippet(a.Span(0, 3)))
	r.Stage = 0
	r.Errorf("second").Apply(report.Snippet(a.Span(11, 14)))
	r.Errorf("third").Apply(report.Snippet(b.Span(0, 3)))
	r.Warnf("first").Apply(report.Snippet(a.Span(0, 3)))
	r.Sort()

	var got []string
	for i := range r.Diagnostics {
		got = append(got, r.Diagnostics[i].Message())
	}
	assert.Equal(t, []string{"first", "second", "late", "third"}, got)
}

func TestDiagnosticOptions(t *testing.T) {
	t.Parallel()

	d := report.NewDiagnostic(report.Error, "bad %s", "thing")
	d.Apply(report.Tag("bad-thing"), report.Note("context"), nil, report.Snippet(source.Span{}))
	assert.True(t, d.Is("bad-thing"))
	assert.Equal(t, "bad thing", d.Message())
	assert.Equal(t, []string{"context"}, d.Notes())
	assert.True(t, d.Primary().IsZero())
	assert.Panics(t, func() { d.Apply(report.Tag("again")) })
}
