// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import (
	"go/ast"
	"go/types"
)

// A Method is the resolved target of a method call.
type Method struct {
	Owner    string   // full name of the declaring type, importpath.Name
	Name     string   // method name
	Params   []string // parameter names; for a method expression the receiver comes first
	Variadic bool     // final parameter is variadic
	Expr     bool     // called as a method expression T.M(x, ...)
}

// A Resolver resolves the method invoked by a call expression.
// It reports false if the call does not invoke a method
// or the method cannot be determined.
type Resolver interface {
	ResolveCall(call *ast.CallExpr) (*Method, bool)
}

// TypesResolver resolves calls using type-checker results.
type TypesResolver struct {
	Info *types.Info
}

func (r TypesResolver) ResolveCall(call *ast.CallExpr) (*Method, bool) {
	if r.Info == nil {
		return nil, false
	}
	sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr)
	if !ok {
		return nil, false
	}
	s := r.Info.Selections[sel]
	if s == nil {
		// Qualified identifier (pkg.F) or untyped code.
		return nil, false
	}
	if s.Kind() != types.MethodVal && s.Kind() != types.MethodExpr {
		// Call of a func-typed field.
		return nil, false
	}
	fn, ok := s.Obj().(*types.Func)
	if !ok {
		return nil, false
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil, false
	}
	owner, ok := ownerName(sig.Recv().Type())
	if !ok {
		return nil, false
	}

	m := &Method{
		Owner:    owner,
		Name:     fn.Name(),
		Variadic: sig.Variadic(),
		Expr:     s.Kind() == types.MethodExpr,
	}
	if m.Expr {
		m.Params = append(m.Params, sig.Recv().Name())
	}
	for i := 0; i < sig.Params().Len(); i++ {
		m.Params = append(m.Params, sig.Params().At(i).Name())
	}
	return m, true
}

// ownerName returns the full name of the named type t or *t.
// Methods of unnamed types and of predeclared types such as error
// have no owner.
func ownerName(t types.Type) (string, bool) {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	n, ok := t.(*types.Named)
	if !ok {
		return "", false
	}
	obj := n.Origin().Obj()
	if obj.Pkg() == nil {
		return "", false
	}
	return obj.Pkg().Path() + "." + obj.Name(), true
}
