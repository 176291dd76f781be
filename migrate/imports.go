// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Import placement adapted from gofix's import insertion code.

package migrate

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"
	"unicode"
)

// qualifier returns the name by which file refers to the package
// with the given import path, and the edits that import it if the
// file does not already. It returns "" for the package itself and
// for dot imports.
func (s *Synthesizer) qualifier(file *ast.File, pkgPath string) (string, []Edit) {
	if pkgPath == s.Pkg.Path() {
		return "", nil
	}
	for _, imp := range file.Imports {
		if importPath(imp) != pkgPath {
			continue
		}
		switch name := s.importLocalName(imp); name {
		case "_":
			continue
		case ".":
			return "", nil
		default:
			return name, nil
		}
	}

	want, explicit := s.packageName(pkgPath)
	name := want
	for i := 0; s.nameInUse(file, name); i++ {
		switch i {
		case 0:
			name = want + "pkg"
		case 1:
			name = want + "_"
		default:
			name = want + "pkg" + strconv.Itoa(i)
		}
		explicit = true
	}
	line := strconv.Quote(pkgPath)
	if explicit {
		line = name + " " + line
	}
	return name, []Edit{s.addImport(file, pkgPath, line)}
}

// importLocalName returns the name imp binds in its file.
func (s *Synthesizer) importLocalName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	if pn, ok := s.Info.Implicits[imp].(*types.PkgName); ok {
		return pn.Imported().Name()
	}
	if p := s.lookupPackage(importPath(imp)); p != nil {
		return p.Name()
	}
	name, _ := guessName(importPath(imp))
	return name
}

// packageName returns the name to import pkgPath under, and whether
// the import needs an explicit name to bind it.
func (s *Synthesizer) packageName(pkgPath string) (string, bool) {
	if p := s.lookupPackage(pkgPath); p != nil {
		return p.Name(), false
	}
	return guessName(pkgPath)
}

// guessName derives a package name from an import path,
// reporting whether it differs from the final path element.
func guessName(pkgPath string) (string, bool) {
	elem := path.Base(pkgPath)
	name := elem
	if dir := path.Dir(pkgPath); dir != "." && isMajorVersion(name) {
		name = path.Base(dir)
	}
	name = strings.TrimPrefix(name, "go-")
	if i := strings.IndexAny(name, ".-"); i > 0 {
		name = name[:i]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
	if !token.IsIdentifier(name) {
		name = "pkg"
	}
	return name, name != elem
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	n, err := strconv.Atoi(elem[1:])
	return err == nil && n >= 2
}

// nameInUse reports whether name is declared at package scope
// or bound by an import of file.
func (s *Synthesizer) nameInUse(file *ast.File, name string) bool {
	if token.IsKeyword(name) || s.Pkg.Scope().Lookup(name) != nil {
		return true
	}
	for _, imp := range file.Imports {
		if s.importLocalName(imp) == name {
			return true
		}
	}
	return false
}

// addImport returns the edit adding the import spec line to file.
// The line goes next to the existing import with the longest
// matching path, or into a new group of the first import declaration,
// or into a new declaration after the package clause.
func (s *Synthesizer) addImport(file *ast.File, pkgPath, line string) Edit {
	var (
		first     *ast.GenDecl
		bestMatch = -1
		bestSpec  *ast.ImportSpec
		bestDecl  *ast.GenDecl
	)
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT {
			break
		}
		// Do not add to import "C", to avoid disrupting the
		// association with its doc comment, breaking cgo.
		if declImports(gd, "C") {
			continue
		}
		if first == nil {
			first = gd
		}
		for _, spec := range gd.Specs {
			spec := spec.(*ast.ImportSpec)
			if n := matchLen(importPath(spec), pkgPath); n > bestMatch {
				bestMatch, bestSpec, bestDecl = n, spec, gd
			}
		}
	}

	switch {
	case bestSpec != nil && bestDecl.Lparen.IsValid():
		return Edit{bestSpec.Pos(), bestSpec.Pos(), line + "\n\t"}
	case bestSpec != nil:
		return s.makeBlock(bestDecl, line)
	case first != nil && first.Lparen.IsValid():
		return Edit{first.Rparen, first.Rparen, "\n\t" + line + "\n"}
	case first != nil:
		return s.makeBlock(first, line)
	}
	return Edit{file.Name.End(), file.Name.End(), "\n\nimport " + line}
}

// makeBlock returns the edit turning the single import gd
// into a parenthesized block that also imports line.
func (s *Synthesizer) makeBlock(gd *ast.GenDecl, line string) Edit {
	spec := s.text(gd.Specs[0])
	return Edit{gd.Pos(), gd.End(), "import (\n\t" + spec + "\n\t" + line + "\n)"}
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

// declImports reports whether gen contains an import of path.
func declImports(gen *ast.GenDecl, path string) bool {
	if gen.Tok != token.IMPORT {
		return false
	}
	for _, spec := range gen.Specs {
		if importPath(spec.(*ast.ImportSpec)) == path {
			return true
		}
	}
	return false
}

// matchLen returns the length of the longest prefix shared by x and y.
func matchLen(x, y string) int {
	if pathKind(x) != pathKind(y) {
		return -1
	}
	i := 0
	for i < len(x) && i < len(y) && x[i] == y[i] {
		i++
	}
	return i
}

// pathKind classifies an import path as standard library (0),
// cmd (1), or other (2).
func pathKind(x string) int {
	first, _, _ := strings.Cut(x, "/")
	if strings.Contains(first, ".") {
		return 2
	}
	if first == "cmd" {
		return 1
	}
	return 0
}
