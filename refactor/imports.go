// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// deleteUnusedImports removes the imports in text that a rewrite
// left without references. nameOf reports the package name for an
// unnamed import path, or "" if it is unknown, in which case the
// import is kept. Blank, dot and cgo imports are always kept.
// It returns text unchanged if text does not parse or nothing is removed.
func deleteUnusedImports(text []byte, nameOf func(path string) string) []byte {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "out.go", text, parser.ParseComments)
	if err != nil {
		return text
	}

	// Unresolved identifiers used as a selector operand
	// are references to imported packages.
	used := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok && id.Obj == nil {
				used[id.Name] = true
			}
		}
		return true
	})

	deleted := false
	for _, spec := range append([]*ast.ImportSpec(nil), file.Imports...) {
		path := importPath(spec)
		name := importName(spec)
		switch {
		case name == "_", name == ".", path == "C", path == "":
			continue
		case name == "":
			if name = nameOf(path); name == "" {
				continue
			}
		}
		if used[name] {
			continue
		}
		if astutil.DeleteNamedImport(fset, file, importName(spec), path) {
			deleted = true
		}
	}
	if !deleted {
		return text
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return text
	}
	return buf.Bytes()
}

// importName returns the name of s,
// or "" if the import is not named.
func importName(s *ast.ImportSpec) string {
	if s.Name == nil {
		return ""
	}
	return s.Name.Name
}

// importPath returns the unquoted import path of s,
// or "" if the path is not properly quoted.
func importPath(s *ast.ImportSpec) string {
	t, err := strconv.Unquote(s.Path.Value)
	if err != nil {
		return ""
	}
	return t
}
