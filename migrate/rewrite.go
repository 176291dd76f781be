// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/obsoletemigrator/migrator/rules"
)

// ErrNoAnchor reports that a finding cannot be rewritten safely.
// The finding stands; only the automatic fix is abandoned.
var ErrNoAnchor = errors.New("no safe rewrite")

func noAnchor(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNoAnchor}, args...)...)
}

// An Edit replaces the text in [Pos, End) with New.
// It is an insertion when Pos == End.
type Edit struct {
	Pos token.Pos
	End token.Pos
	New string
}

// A Synthesizer turns findings in one type-checked package into edits.
//
// Each rewrite is computed from the current syntax and type information.
// After applying the edits of one rewrite, the caller must re-parse and
// re-type-check the package before asking for the next one, so that a
// holder field created by the first rewrite is reused by the second.
type Synthesizer struct {
	Fset  *token.FileSet
	Pkg   *types.Package
	Info  *types.Info
	Files []*ast.File

	// Source returns the text of a file, if available.
	// Without it, copied expressions are reprinted from syntax.
	Source func(*token.File) []byte

	// HolderPrefix is prepended to generated holder field names.
	HolderPrefix string

	Log hclog.Logger
}

func (s *Synthesizer) log() hclog.Logger {
	if s.Log == nil {
		return hclog.NewNullLogger()
	}
	return s.Log
}

// target is the struct type whose method contains a finding.
type target struct {
	file  *ast.File
	decl  *ast.GenDecl
	spec  *ast.TypeSpec
	st    *ast.StructType
	named *types.Named
	recv  string // receiver name at the call
}

// Rewrite returns the edits that replace the call of f with a call of
// the destination method through a holder field of the enclosing type,
// adding the field and its wiring when missing.
// It returns an error wrapping ErrNoAnchor and no edits if the call
// cannot be rewritten safely.
func (s *Synthesizer) Rewrite(f Finding) ([]Edit, error) {
	tgt, err := s.enclosing(f.Call)
	if err != nil {
		return nil, err
	}
	args, err := s.remap(f)
	if err != nil {
		return nil, err
	}

	dst := f.Rule.Destination
	ctor := s.constructor(tgt.named.Obj())
	var edits []Edit
	holder := s.findHolder(tgt, ctor, dst)
	if holder == "" {
		holder, edits, err = s.addHolder(tgt, ctor, dst)
		if err != nil {
			return nil, err
		}
	}

	call := fmt.Sprintf("%s.%s.%s(%s)", tgt.recv, holder, dst.Method, strings.Join(args, ", "))
	edits = append(edits, Edit{f.Call.Pos(), f.Call.End(), call})

	s.log().Debug("rewrite", "pos", s.Fset.Position(f.Call.Pos()), "rule", f.Key(), "holder", holder, "edits", len(edits))
	return edits, nil
}

// enclosing finds the struct type whose method contains call.
func (s *Synthesizer) enclosing(call *ast.CallExpr) (*target, error) {
	file := s.fileOf(call.Pos())
	if file == nil {
		return nil, noAnchor("call is not in the package")
	}
	path, _ := astutil.PathEnclosingInterval(file, call.Pos(), call.End())
	var fd *ast.FuncDecl
	for _, n := range path {
		if d, ok := n.(*ast.FuncDecl); ok {
			fd = d
			break
		}
	}
	if fd == nil || fd.Recv == nil || len(fd.Recv.List) == 0 {
		return nil, noAnchor("call is not inside a method")
	}
	names := fd.Recv.List[0].Names
	if len(names) == 0 || names[0].Name == "_" {
		return nil, noAnchor("method %s has no receiver name", fd.Name.Name)
	}
	recv, ok := s.Info.Defs[names[0]].(*types.Var)
	if !ok {
		return nil, noAnchor("receiver of %s is not type-checked", fd.Name.Name)
	}
	if scope := s.Pkg.Scope().Innermost(call.Pos()); scope != nil {
		if _, obj := scope.LookupParent(recv.Name(), call.Pos()); obj != recv {
			return nil, noAnchor("receiver %s is shadowed at the call", recv.Name())
		}
	}

	t := recv.Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() != s.Pkg {
		return nil, noAnchor("receiver type of %s is not declared in the package", fd.Name.Name)
	}
	if named.TypeParams().Len() > 0 {
		return nil, noAnchor("receiver type %s is generic", named.Obj().Name())
	}
	tgt := &target{named: named, recv: recv.Name()}
	for _, f := range s.Files {
		for _, d := range f.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if s.Info.Defs[ts.Name] == named.Obj() {
					tgt.file, tgt.decl, tgt.spec = f, gd, ts
				}
			}
		}
	}
	if tgt.spec == nil {
		return nil, noAnchor("cannot find declaration of %s", named.Obj().Name())
	}
	st, ok := tgt.spec.Type.(*ast.StructType)
	if !ok || tgt.spec.Assign.IsValid() {
		return nil, noAnchor("%s is not a struct type", named.Obj().Name())
	}
	tgt.st = st
	return tgt, nil
}

// fileOf returns the package file containing pos.
func (s *Synthesizer) fileOf(pos token.Pos) *ast.File {
	for _, f := range s.Files {
		if f.FileStart <= pos && pos <= f.FileEnd {
			return f
		}
	}
	return nil
}

// text returns the source text of n.
func (s *Synthesizer) text(n ast.Node) string {
	if s.Source != nil {
		if tf := s.Fset.File(n.Pos()); tf != nil {
			if src := s.Source(tf); src != nil {
				return string(src[tf.Offset(n.Pos()):tf.Offset(n.End())])
			}
		}
	}
	var buf bytes.Buffer
	format.Node(&buf, s.Fset, n)
	return buf.String()
}

// lookupPackage returns the package with the given path
// among the package and its transitive imports, or nil.
func (s *Synthesizer) lookupPackage(path string) *types.Package {
	seen := make(map[*types.Package]bool)
	var walk func(p *types.Package) *types.Package
	walk = func(p *types.Package) *types.Package {
		if seen[p] {
			return nil
		}
		seen[p] = true
		if p.Path() == path {
			return p
		}
		for _, q := range p.Imports() {
			if r := walk(q); r != nil {
				return r
			}
		}
		return nil
	}
	return walk(s.Pkg)
}

// destinationType returns the text of the holder type for dst,
// qualified by qual.
func (s *Synthesizer) destinationType(dst rules.Endpoint, qual string) string {
	name := dst.Name()
	if qual != "" {
		name = qual + "." + name
	}
	if p := s.lookupPackage(dst.Package()); p != nil {
		if obj, ok := p.Scope().Lookup(dst.Name()).(*types.TypeName); ok && types.IsInterface(obj.Type()) {
			return name
		}
	}
	return "*" + name
}
