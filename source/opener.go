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
	"errors"
	"io/fs"
	"sync"
)

// Opener is a mechanism for opening files.
//
// Opener implementations are used as parts of cache keys, so they must be
// comparable. It is sufficient to always ensure that the implementation uses
// a pointer receiver.
type Opener interface {
	// Open opens a file, potentially returning an error.
	//
	// A return value of [fs.ErrNotExist] is given special treatment by some
	// Opener adapters, such as [Openers].
	Open(path string) (*File, error)
}

// Map implements [Opener] via lookup of an in-memory map. It is intended
// for editors and tests, which replace file contents and then invalidate
// the corresponding queries.
//
// Missing entries result in [fs.ErrNotExist]. A Map is safe for concurrent
// use.
type Map struct {
	mu    sync.RWMutex
	files map[string]*File
}

// NewMap creates a new [Map] containing the given files.
func NewMap(files ...*File) *Map {
	m := &Map{files: make(map[string]*File, len(files))}
	for _, f := range files {
		m.files[f.Path()] = f
	}
	return m
}

// Add adds a new file to this map, replacing any file that was previously
// present at path.
func (m *Map) Add(path, text string) *File {
	f := NewFile(path, text)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string]*File)
	}
	m.files[path] = f
	return f
}

// Remove removes the file at path, if present.
func (m *Map) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// Open implements [Opener].
func (m *Map) Open(path string) (*File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// FS opens files from an [fs.FS].
type FS struct {
	fs.FS

	// Rewrites paths before they are looked up, if set. The original path
	// is the one recorded in the returned file.
	PathMapper func(string) string
}

// Open implements [Opener].
func (f *FS) Open(path string) (*File, error) {
	name := path
	if f.PathMapper != nil {
		name = f.PathMapper(path)
	}

	text, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, err
	}
	return NewFile(path, string(text)), nil
}

// Openers wraps a sequence of [Opener]s.
//
// When calling Open, it calls each Opener in sequence until one does not return
// [fs.ErrNotExist].
type Openers []Opener

// Open implements [Opener].
func (o *Openers) Open(path string) (*File, error) {
	for _, opener := range *o {
		file, err := opener.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return file, err
	}
	return nil, fs.ErrNotExist
}
