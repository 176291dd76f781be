// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// lowerCamel lowers the leading upper-case run of s,
// keeping the last capital of a run that starts the next word:
// NewBar → newBar, URL → url, URLParser → urlParser.
func lowerCamel(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// varName returns a one-letter local variable name for a value of type typ.
func varName(typ string) string {
	r, _ := utf8.DecodeRuneInString(lowerCamel(typ))
	if r == '_' || !unicode.IsLetter(r) {
		return "x"
	}
	return string(r)
}

// uniquify returns base, or base followed by the smallest number
// from 2 up, such that taken reports false.
func uniquify(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		name := base + strconv.Itoa(i)
		if !taken(name) && !token.IsKeyword(name) {
			return name
		}
	}
}
