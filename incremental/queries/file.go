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
package queries

import (
	"github.com/parlang/dyno/incremental"
	"github.com/parlang/dyno/report"
	"github.com/parlang/dyno/source"
)

// File is an [incremental.Query] for the contents of a file as provided
// by a [source.Opener].
//
// File queries with different Openers are distinct.
type File struct {
	source.Opener // Must be comparable.
	Path          string

	// If set, an error opening the file is also reported as a diagnostic.
	ReportError bool
}

var _ incremental.Query[*source.File] = File{}

// Key implements [incremental.Query].
//
// The key is the query itself, so Openers should have pointer receivers so
// that they compare by identity.
func (f File) Key() any {
	return f
}

// String implements [fmt.Stringer].
func (f File) String() string {
	return "file:" + f.Path
}

// Execute implements [incremental.Query].
func (f File) Execute(t *incremental.Task) (*source.File, error) {
	if !f.ReportError {
		return f.Open(f.Path)
	}

	// Opening is shared with the silent variant of this query, so that
	// callers that do and do not want a diagnostic agree on the contents.
	t.Report().Stage = stageFile
	f.ReportError = false
	r, err := incremental.Resolve(t, f)
	if err != nil {
		return nil, err
	}
	if err := r[0].Fatal; err != nil {
		t.Report().Errorf("%v", err).Apply(report.InFile(f.Path))
		return nil, err
	}
	return r[0].Value, nil
}
