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
	"reflect"

	"github.com/parlang/dyno/internal/intern"
)

// Updater is implemented by query values that can decide whether a freshly
// computed value for the same query makes any difference to the queries
// that depend on them.
//
// Update returns the value to cache, which is either the receiver or a
// value derived from it and fresh, and whether dependents must be
// re-executed. It must not modify the receiver.
type Updater[T any] interface {
	Update(fresh T) (kept T, changed bool)
}

// Marker is implemented by query values that hold interned names, so that
// [Executor.Collect] does not collect names that a cached value still uses.
type Marker interface {
	Mark(m *intern.Marker)
}

// Update decides whether fresh replaces cached.
//
// If cached implements [Updater], it decides. Otherwise, values of
// comparable type are kept if they compare equal, and all other values are
// replaced.
func Update[T any](cached, fresh T) (kept T, changed bool) {
	if u, ok := any(cached).(Updater[T]); ok {
		return u.Update(fresh)
	}

	a, b := any(cached), any(fresh)
	if a != nil && b != nil && reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() && a == b {
		return cached, false
	}
	return fresh, true
}

// Mark marks the interned names in v, if it implements [Marker].
func Mark(v any, m *intern.Marker) {
	if mk, ok := v.(Marker); ok {
		mk.Mark(m)
	}
}
