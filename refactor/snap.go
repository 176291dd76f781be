// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/obsoletemigrator/migrator/edit"
	"github.com/obsoletemigrator/migrator/rules"
)

// A Snapshot is a set of loaded packages and their parsed source files,
// plus a set of pending edits to be made to those files.
type Snapshot struct {
	r        *Refactor
	parent   *Snapshot
	fset     *token.FileSet
	packages []*Package

	// files contains the contents of files before any edits in this Snapshot,
	// keyed by File.Name.
	files map[string]*File

	// edits contains pending edits, keyed by File.Name.
	edits map[string]*fileEdit

	// imported holds type information of dependencies outside the
	// snapshot's packages, keyed by package path. It is shared by
	// a snapshot and the snapshots derived from it.
	imported map[string]*types.Package

	Errors *ErrorList
}

// A Package is a loaded, type-checked package.
type Package struct {
	Name      string
	ID        string
	PkgPath   string
	Dir       string
	Files     []*File
	Imports   []string          // package paths, sorted
	ImportMap map[string]string // import path → package path, where they differ
	Cgo       bool              // package uses cgo; its files are not editable

	Types     *types.Package
	TypesInfo *types.Info
	Errors    []error // load and type errors
}

func (p *Package) String() string { return p.PkgPath }

// Syntax returns the parsed files of p.
func (p *Package) Syntax() []*ast.File {
	list := make([]*ast.File, len(p.Files))
	for i, f := range p.Files {
		list[i] = f.Syntax
	}
	return list
}

// File represents a source file, including both its text and parsed forms.
type File struct {
	Name   string // absolute path
	Text   []byte
	Syntax *ast.File // parsed form of Text
}

type fileEdit struct {
	file *File
	buf  *edit.Buffer
}

func (s *Snapshot) Fset() *token.FileSet { return s.fset }
func (s *Snapshot) Packages() []*Package { return s.packages }

// ErrorAt returns an error at pos about a call matched by the rule key.
func (s *Snapshot) ErrorAt(pos token.Pos, key rules.Key, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	msg = strings.TrimRight(msg, "\n")
	msg = strings.ReplaceAll(msg, "\n", "\n\t")
	return &Error{Pos: s.ShortPosition(pos), Msg: msg, Rule: key}
}

// Apply returns a new snapshot with the pending edits applied.
// Edited files are formatted, stripped of unused imports and re-parsed.
// Edited packages and the packages importing them are type-checked again;
// their type errors are recorded in Package.Errors.
func (oldS *Snapshot) Apply() (*Snapshot, error) {
	s := &Snapshot{
		r:        oldS.r,
		parent:   oldS,
		fset:     oldS.fset,
		files:    make(map[string]*File),
		edits:    make(map[string]*fileEdit),
		imported: oldS.imported,
		Errors:   oldS.Errors,
	}

	// New file versions.
	changed := make(map[string]bool)
	newFiles := make(map[string]*File)
	for name, ed := range oldS.edits {
		if err := ed.buf.Check(); err != nil {
			return nil, fmt.Errorf("%s: %v", s.r.shortPath(name), err)
		}
		text := oldS.gofmt(ed.file, ed.buf.Bytes())
		syntax, err := parser.ParseFile(s.fset, name, text, parser.AllErrors|parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("rewritten %s does not parse: %v", s.r.shortPath(name), err)
		}
		newFiles[name] = &File{Name: name, Text: text, Syntax: syntax}
	}
	for _, p := range oldS.packages {
		for _, f := range p.Files {
			if newFiles[f.Name] != nil {
				changed[p.PkgPath] = true
			}
		}
	}

	// New packages: copies of the edited ones and their importers.
	stale := newPkgGraph(oldS.packages).importers(changed)
	for _, oldP := range oldS.packages {
		p := oldP
		if stale[oldP.PkgPath] {
			p = &Package{
				Name:      oldP.Name,
				ID:        oldP.ID,
				PkgPath:   oldP.PkgPath,
				Dir:       oldP.Dir,
				ImportMap: oldP.ImportMap,
				Cgo:       oldP.Cgo,
			}
			for _, f := range oldP.Files {
				if nf := newFiles[f.Name]; nf != nil {
					f = nf
				}
				p.Files = append(p.Files, f)
			}
			p.Imports = importsOf(p)
		}
		s.packages = append(s.packages, p)
		for _, f := range p.Files {
			s.files[f.Name] = f
		}
	}

	g := newPkgGraph(s.packages)
	err := g.visitBottomUp(func(p *Package) {
		if stale[p.PkgPath] {
			s.check(g, p)
		}
	})
	if err != nil {
		return nil, err
	}
	s.r.Log.Debug("applied edits", "files", len(newFiles), "rechecked", len(stale))
	return s, nil
}

// importsOf returns the package paths imported by the files of p.
func importsOf(p *Package) []string {
	have := make(map[string]bool)
	var list []string
	for _, f := range p.Files {
		for _, spec := range f.Syntax.Imports {
			path := importPath(spec)
			if path == "" || path == "C" {
				continue
			}
			if path1, ok := p.ImportMap[path]; ok {
				path = path1
			}
			if !have[path] {
				have[path] = true
				list = append(list, path)
			}
		}
	}
	sort.Strings(list)
	return list
}

type snapImporter struct {
	s *Snapshot
	g *pkgGraph
	p *Package
}

func (imp *snapImporter) Import(importPath string) (*types.Package, error) {
	if importPath == "unsafe" {
		return types.Unsafe, nil
	}
	path := importPath
	if path1, ok := imp.p.ImportMap[importPath]; ok {
		path = path1
	}
	if p := imp.g.byPath(path); p != nil && p.Types != nil {
		return p.Types, nil
	}
	if tp := imp.s.imported[path]; tp != nil {
		return tp, nil
	}
	tp, err := imp.s.r.loadTypes(imp.s.fset, path)
	if tp != nil {
		imp.s.imported[path] = tp
	}
	return tp, err
}

func (s *Snapshot) check(g *pkgGraph, p *Package) {
	conf := &types.Config{
		Importer: &snapImporter{s, g, p},
		Error:    func(err error) { p.Errors = append(p.Errors, err) },
	}
	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	tpkg, _ := conf.Check(p.PkgPath, s.fset, p.Syntax(), info)
	p.Types = tpkg
	p.TypesInfo = info
}
