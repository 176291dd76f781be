// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Migratevet runs the obsoletemigrate analyzer as a standalone vet tool.
//
// Usage:
//
//	migratevet -rules=migrator.json [-fix] packages...
//
// With -fix, migratevet applies the suggested rewrites.
// The migrator command applies them one at a time instead,
// re-checking the package in between, and is preferred when
// several calls in one type need the same new field.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/obsoletemigrator/migrator/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
