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
package intern

import "strings"

// Short identifiers are packed into the bits of a negative ID, six bits per
// character, instead of being stored in a table. Characters are drawn from
// the LLVM char6 alphabet.
const (
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_."
	inlineLen = 5
)

// inline packs s into an ID, if it is short enough and uses only characters
// from the alphabet. Unused sextets decode as '.', so s must not end in one.
func inline(s string) (ID, bool) {
	switch {
	case s == "":
		return 0, true
	case len(s) > inlineLen, s[len(s)-1] == '.':
		return 0, false
	}

	// All ones: the sign bit stays set, and padding reads as '.'.
	packed := ID(-1)
	for i := len(s) - 1; i >= 0; i-- {
		c := strings.IndexByte(alphabet, s[i])
		if c < 0 {
			return 0, false
		}
		packed = packed<<6 | ID(c)
	}
	return packed, true
}

// unpack is the inverse of inline.
func unpack(id ID) string {
	var buf [inlineLen]byte
	n := 0
	for i := range buf {
		buf[i] = alphabet[id&0o77]
		if buf[i] != '.' {
			n = i + 1
		}
		id >>= 6
	}
	return string(buf[:n])
}
