// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	pathpkg "path"
	"sort"
	"strings"
	"testing"

	"github.com/obsoletemigrator/migrator/edit"
	"github.com/obsoletemigrator/migrator/rules"
)

// A program is an in-memory set of packages, keyed by file path
// (import path + "/" + file name), type-checked on demand.
type program struct {
	t     *testing.T
	fset  *token.FileSet
	files map[string]string
	pkgs  map[string]*checked
}

type checked struct {
	pkg   *types.Package
	info  *types.Info
	files []*ast.File
	src   map[*token.File][]byte
	errs  []error
}

func newProgram(t *testing.T, files map[string]string) *program {
	return &program{
		t:     t,
		fset:  token.NewFileSet(),
		files: files,
		pkgs:  make(map[string]*checked),
	}
}

func (p *program) Import(path string) (*types.Package, error) {
	c, err := p.check(path)
	if err != nil {
		return nil, err
	}
	return c.pkg, nil
}

func (p *program) check(path string) (*checked, error) {
	if c, ok := p.pkgs[path]; ok {
		return c, nil
	}
	var names []string
	for name := range p.files {
		if pathpkg.Dir(name) == path {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("package %s not found", path)
	}
	sort.Strings(names)

	c := &checked{src: make(map[*token.File][]byte)}
	for _, name := range names {
		f, err := parser.ParseFile(p.fset, name, p.files[name], parser.ParseComments)
		if err != nil {
			return nil, err
		}
		c.files = append(c.files, f)
		c.src[p.fset.File(f.FileStart)] = []byte(p.files[name])
	}
	c.info = &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	conf := types.Config{
		Importer: p,
		Error:    func(err error) { c.errs = append(c.errs, err) },
	}
	c.pkg, _ = conf.Check(path, p.fset, c.files, c.info)
	p.pkgs[path] = c
	return c, nil
}

// mustCheck type-checks path and fails the test on type errors.
func (p *program) mustCheck(path string) *checked {
	p.t.Helper()
	c, err := p.check(path)
	if err != nil {
		p.t.Fatal(err)
	}
	if len(c.errs) > 0 {
		p.t.Fatalf("type errors in %s:\n%v", path, c.errs)
	}
	return c
}

func (p *program) detect(path string, cfg *rules.Configuration) []Finding {
	p.t.Helper()
	c := p.mustCheck(path)
	d := &Detector{Config: cfg}
	var units []Unit
	for _, f := range c.files {
		units = append(units, Unit{File: f, Resolver: TypesResolver{c.info}})
	}
	list, err := d.DetectFiles(context.Background(), units)
	if err != nil {
		p.t.Fatal(err)
	}
	return list
}

func (p *program) synthesizer(path, prefix string) *Synthesizer {
	c := p.mustCheck(path)
	return &Synthesizer{
		Fset:         p.fset,
		Pkg:          c.pkg,
		Info:         c.info,
		Files:        c.files,
		Source:       func(tf *token.File) []byte { return c.src[tf] },
		HolderPrefix: prefix,
	}
}

// apply applies edits to the package's files, gofmts them,
// and drops the package so the next use re-checks it.
func (p *program) apply(path string, edits []Edit) {
	p.t.Helper()
	bufs := make(map[string]*edit.Buffer)
	for _, e := range edits {
		tf := p.fset.File(e.Pos)
		name := tf.Name()
		if bufs[name] == nil {
			bufs[name] = edit.NewBuffer([]byte(p.files[name]))
		}
		bufs[name].Replace(tf.Offset(e.Pos), tf.Offset(e.End), e.New)
	}
	for name, b := range bufs {
		if err := b.Check(); err != nil {
			p.t.Fatalf("%s: %v", name, err)
		}
		out, err := format.Source(b.Bytes())
		if err != nil {
			p.t.Fatalf("%s: formatting rewritten source: %v\n%s", name, err, b.Bytes())
		}
		p.files[name] = string(out)
	}
	delete(p.pkgs, path)
}

// fixAll rewrites the findings in path one at a time, re-checking
// after each rewrite, until no finding can be rewritten.
// It returns the number of rewrites.
func (p *program) fixAll(path string, cfg *rules.Configuration, prefix string) int {
	p.t.Helper()
	n := 0
	for {
		done := true
		for _, f := range p.detect(path, cfg) {
			edits, err := p.synthesizer(path, prefix).Rewrite(f)
			if err != nil {
				continue
			}
			p.apply(path, edits)
			n++
			done = false
			break
		}
		if done || n > 100 {
			return n
		}
	}
}

func mustConfig(t *testing.T, list ...rules.Rule) *rules.Configuration {
	t.Helper()
	c, err := rules.New(list...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mapping(pairs ...string) []rules.ArgumentMapping {
	var list []rules.ArgumentMapping
	for _, p := range pairs {
		src, dst, _ := strings.Cut(p, "->")
		list = append(list, rules.ArgumentMapping{Source: src, Destination: dst})
	}
	return list
}
