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

// Package report provides a robust diagnostics framework. It offers diagnostic
// construction, sorting, and rendering.
//
// Diagnostics are data, not control flow: problems in the user's source code
// are collected into a [Report] and returned alongside whatever result could
// be produced. Bugs in the compiler itself are panics.
//
// Setting the environment variable DYNO_DEBUG to a non-empty value causes
// every diagnostic to record the stack trace of the code that created it.
package report
