// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/obsoletemigrator/migrator/rules"
)

// constructorNames returns the function names accepted as a constructor of typ.
func constructorNames(typ string) []string {
	return []string{"New" + typ, "new" + upperFirst(typ)}
}

// constructor returns the first function declaration that constructs
// obj: a plain function named NewT or newT whose first result is T or *T.
func (s *Synthesizer) constructor(obj *types.TypeName) *ast.FuncDecl {
	names := constructorNames(obj.Name())
	for _, f := range s.Files {
		for _, d := range f.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || fd.Body == nil || fd.Type.TypeParams != nil {
				continue
			}
			if fd.Name.Name != names[0] && fd.Name.Name != names[1] {
				continue
			}
			res := fd.Type.Results
			if res == nil || len(res.List) == 0 {
				continue
			}
			t := s.Info.TypeOf(res.List[0].Type)
			if p, ok := t.(*types.Pointer); ok {
				t = p.Elem()
			}
			if n, ok := t.(*types.Named); ok && n.Obj() == obj {
				return fd
			}
		}
	}
	return nil
}

// findHolder returns the name of an assign-once field of tgt
// holding the destination type, or "" if there is none.
func (s *Synthesizer) findHolder(tgt *target, ctor *ast.FuncDecl, dst rules.Endpoint) string {
	for _, field := range tgt.st.Fields.List {
		for _, id := range field.Names {
			if ast.IsExported(id.Name) || id.Name == "_" {
				continue
			}
			v, ok := s.Info.Defs[id].(*types.Var)
			if !ok || !s.holds(v, field.Type, tgt.file, dst) {
				continue
			}
			if s.mutated(v, ctor) {
				s.log().Debug("field is assigned outside the constructor", "field", id.Name)
				continue
			}
			return id.Name
		}
	}
	return ""
}

// holds reports whether field v, declared with type syntax expr,
// has the destination type or a pointer to it.
// When the type is invalid (its package failed to load),
// holds reads the syntax instead.
func (s *Synthesizer) holds(v *types.Var, expr ast.Expr, file *ast.File, dst rules.Endpoint) bool {
	t := v.Type()
	if b, ok := t.(*types.Basic); !ok || b.Kind() != types.Invalid {
		name, ok := ownerName(t)
		return ok && name == dst.Type
	}

	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return s.Pkg.Path()+"."+e.Name == dst.Type
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		if !ok {
			return false
		}
		if pn, ok := s.Info.Uses[x].(*types.PkgName); ok {
			return pn.Imported().Path()+"."+e.Sel.Name == dst.Type
		}
		for _, imp := range file.Imports {
			if s.importLocalName(imp) == x.Name {
				return importPath(imp)+"."+e.Sel.Name == dst.Type
			}
		}
	}
	return false
}

// mutated reports whether field v is assigned or has its address taken
// anywhere in the package outside the constructor ctor.
func (s *Synthesizer) mutated(v *types.Var, ctor *ast.FuncDecl) bool {
	refers := func(e ast.Expr) bool {
		sel, ok := ast.Unparen(e).(*ast.SelectorExpr)
		if !ok {
			return false
		}
		if x := s.Info.Selections[sel]; x != nil {
			return x.Obj() == v
		}
		return s.Info.Uses[sel.Sel] == v
	}

	found := false
	for _, f := range s.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			if found || (ctor != nil && n == ctor) {
				return false
			}
			switch n := n.(type) {
			case *ast.AssignStmt:
				for _, lhs := range n.Lhs {
					found = found || refers(lhs)
				}
			case *ast.IncDecStmt:
				found = refers(n.X)
			case *ast.UnaryExpr:
				found = n.Op == token.AND && refers(n.X)
			case *ast.RangeStmt:
				if n.Tok == token.ASSIGN {
					found = n.Key != nil && refers(n.Key) || n.Value != nil && refers(n.Value)
				}
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}

// addHolder returns the name of a new holder field for dst in tgt
// and the edits that declare it, import its type, and wire it
// through the constructor.
func (s *Synthesizer) addHolder(tgt *target, ctor *ast.FuncDecl, dst rules.Endpoint) (string, []Edit, error) {
	typeName := tgt.named.Obj().Name()

	// Holder field name.
	base := s.HolderPrefix + lowerCamel(dst.Name())
	if token.IsKeyword(base) {
		base += "_"
	}
	holder := uniquify(base, func(name string) bool {
		obj, _, _ := types.LookupFieldOrMethod(tgt.named, true, s.Pkg, name)
		return obj != nil
	})

	// Constructor parameter name.
	param := strings.TrimPrefix(holder, s.HolderPrefix)
	if param == "" || param == "_" || token.IsKeyword(param) {
		param += "_"
	}
	var taken map[string]bool
	if ctor != nil {
		taken = identsIn(ctor)
	} else {
		taken = make(map[string]bool)
	}
	param = uniquify(param, func(name string) bool { return taken[name] })
	taken[param] = true

	var edits []Edit
	quals := make(map[*ast.File]string)
	qualify := func(file *ast.File) string {
		if q, ok := quals[file]; ok {
			return q
		}
		q, ed := s.qualifier(file, dst.Package())
		quals[file] = q
		edits = append(edits, ed...)
		return q
	}

	// Field.
	fieldType := s.destinationType(dst, qualify(tgt.file))
	fields := tgt.st.Fields
	line := holder + " " + fieldType + "\n"
	if s.line(fields.Opening) == s.line(fields.Closing) {
		line = "\n" + line
	}
	edits = append(edits, Edit{fields.Closing, fields.Closing, line})

	if ctor == nil {
		name := constructorNames(typeName)[0]
		if !ast.IsExported(typeName) {
			name = constructorNames(typeName)[1]
		}
		if s.Pkg.Scope().Lookup(name) != nil {
			return "", nil, noAnchor("cannot add constructor %s: name in use", name)
		}
		v := uniquify(varName(typeName), func(name string) bool { return taken[name] })
		var b strings.Builder
		b.WriteString("\n\n")
		if ast.IsExported(name) {
			fmt.Fprintf(&b, "// %s returns a new %s.\n", name, typeName)
		}
		fmt.Fprintf(&b, "func %s(%s %s) *%s {\n", name, param, fieldType, typeName)
		fmt.Fprintf(&b, "\t%s := &%s{}\n", v, typeName)
		fmt.Fprintf(&b, "\t%s.%s = %s\n", v, holder, param)
		fmt.Fprintf(&b, "\treturn %s\n}", v)
		edits = append(edits, Edit{tgt.decl.End(), tgt.decl.End(), b.String()})
		return holder, edits, nil
	}

	cfile := s.fileOf(ctor.Pos())
	paramType := s.destinationType(dst, qualify(cfile))
	ed, err := s.addParam(ctor, param, paramType)
	if err != nil {
		return "", nil, err
	}
	edits = append(edits, ed)
	ed2, err := s.addAssign(ctor, typeName, holder, param, taken)
	if err != nil {
		return "", nil, err
	}
	edits = append(edits, ed2...)
	return holder, edits, nil
}

// addParam returns the edit appending parameter name of type typ to ctor.
// A new parameter goes before a trailing variadic one.
func (s *Synthesizer) addParam(ctor *ast.FuncDecl, name, typ string) (Edit, error) {
	params := ctor.Type.Params
	if len(params.List) == 0 {
		return Edit{params.Closing, params.Closing, name + " " + typ}, nil
	}
	for _, f := range params.List {
		if len(f.Names) == 0 {
			return Edit{}, noAnchor("constructor %s has unnamed parameters", ctor.Name.Name)
		}
	}
	last := params.List[len(params.List)-1]
	if _, ok := last.Type.(*ast.Ellipsis); ok {
		return Edit{last.Pos(), last.Pos(), name + " " + typ + ", "}, nil
	}
	return Edit{last.End(), last.End(), ", " + name + " " + typ}, nil
}

// addAssign returns the edits that set holder from param in ctor
// before each of its return statements that returns the new value.
// The constructor must end in a return statement.
func (s *Synthesizer) addAssign(ctor *ast.FuncDecl, typeName, holder, param string, taken map[string]bool) ([]Edit, error) {
	body := ctor.Body.List
	if len(body) == 0 {
		return nil, noAnchor("constructor %s has an empty body", ctor.Name.Name)
	}
	if _, ok := body[len(body)-1].(*ast.ReturnStmt); !ok {
		return nil, noAnchor("constructor %s does not end in a return statement", ctor.Name.Name)
	}

	var rets []*ast.ReturnStmt
	ast.Inspect(ctor.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.ReturnStmt:
			rets = append(rets, n)
		}
		return true
	})
	var edits []Edit
	for _, ret := range rets {
		ed, err := s.assignAt(ctor, ret, typeName, holder, param, taken)
		if err != nil {
			return nil, err
		}
		edits = append(edits, ed...)
	}
	return edits, nil
}

// assignAt returns the edits that set holder from param just before ret.
// A return of nil, as on an error path, needs none.
func (s *Synthesizer) assignAt(ctor *ast.FuncDecl, ret *ast.ReturnStmt, typeName, holder, param string, taken map[string]bool) ([]Edit, error) {
	if len(ret.Results) == 0 {
		// Bare return of a named result.
		res := ctor.Type.Results.List[0]
		if len(res.Names) == 0 || res.Names[0].Name == "_" {
			return nil, noAnchor("constructor %s returns nothing", ctor.Name.Name)
		}
		return []Edit{assignBefore(ret, res.Names[0].Name, holder, param)}, nil
	}

	switch r := ast.Unparen(ret.Results[0]).(type) {
	case *ast.Ident:
		switch s.Info.Uses[r].(type) {
		case *types.Nil:
			return nil, nil
		case *types.Var:
			return []Edit{assignBefore(ret, r.Name, holder, param)}, nil
		}
	case *ast.UnaryExpr:
		if _, ok := r.X.(*ast.CompositeLit); ok && r.Op == token.AND {
			return s.splitReturn(ret, r, typeName, holder, param, taken), nil
		}
	case *ast.CompositeLit:
		return s.splitReturn(ret, r, typeName, holder, param, taken), nil
	}
	return nil, noAnchor("cannot find the %s returned by constructor %s at line %d", typeName, ctor.Name.Name, s.line(ret.Pos()))
}

func assignBefore(ret *ast.ReturnStmt, x, holder, param string) Edit {
	return Edit{ret.Pos(), ret.Pos(), fmt.Sprintf("%s.%s = %s\n\t", x, holder, param)}
}

// splitReturn rewrites "return lit" into
//
//	v := lit
//	v.holder = param
//	return v
func (s *Synthesizer) splitReturn(ret *ast.ReturnStmt, lit ast.Expr, typeName, holder, param string, taken map[string]bool) []Edit {
	v := uniquify(varName(typeName), func(name string) bool { return taken[name] })
	return []Edit{
		{ret.Pos(), ret.Pos(), fmt.Sprintf("%s := %s\n\t%s.%s = %s\n\t", v, s.text(lit), v, holder, param)},
		{lit.Pos(), lit.End(), v},
	}
}

func (s *Synthesizer) line(pos token.Pos) int {
	return s.Fset.Position(pos).Line
}

// identsIn returns the set of identifier names used in n.
func identsIn(n ast.Node) map[string]bool {
	m := make(map[string]bool)
	ast.Inspect(n, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			m[id.Name] = true
		}
		return true
	})
	return m
}
