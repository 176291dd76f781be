// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package migrate finds calls of obsolete methods and rewrites them
// to call their replacements through a field of the enclosing type.
package migrate

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/obsoletemigrator/migrator/rules"
)

const (
	// DiagnosticID identifies every finding of the detector.
	DiagnosticID = "MIG001"

	// Category is the diagnostic category of a finding.
	Category = "obsolete"
)

// A Finding is a call of an obsolete method.
// It carries the matched rule and the resolved signature
// so that a rewrite needs no second resolution.
type Finding struct {
	Call   *ast.CallExpr
	Rule   *rules.Rule
	Method *Method
}

func (f Finding) Pos() token.Pos { return f.Call.Pos() }
func (f Finding) End() token.Pos { return f.Call.End() }

// Key returns the key of the matched rule.
func (f Finding) Key() rules.Key {
	return f.Rule.Key()
}

// Message returns the diagnostic text for f.
func (f Finding) Message() string {
	return fmt.Sprintf("call to %v is obsolete; use %v", f.Rule.Source, f.Rule.Destination)
}

// A Detector matches method calls against a rule configuration.
// A Detector with a nil or empty configuration finds nothing.
type Detector struct {
	Config *rules.Configuration
	Fset   *token.FileSet // for log messages; may be nil
	Log    hclog.Logger
}

func (d *Detector) log() hclog.Logger {
	if d.Log == nil {
		return hclog.NewNullLogger()
	}
	return d.Log
}

// Match reports the finding for call, if any.
func (d *Detector) Match(call *ast.CallExpr, res Resolver) (Finding, bool) {
	if d.Config.Len() == 0 {
		return Finding{}, false
	}
	m, ok := res.ResolveCall(call)
	if !ok {
		return Finding{}, false
	}
	r := d.Config.Lookup(m.Owner, m.Name)
	if r == nil {
		return Finding{}, false
	}
	if d.Fset != nil && d.log().IsDebug() {
		d.log().Debug("obsolete call", "pos", d.Fset.Position(call.Pos()), "rule", r.Key())
	}
	return Finding{Call: call, Rule: r, Method: m}, true
}

// DetectFile returns the findings in file, in source order.
func (d *Detector) DetectFile(ctx context.Context, file *ast.File, res Resolver) ([]Finding, error) {
	if d.Config.Len() == 0 {
		return nil, nil
	}
	var (
		list []Finding
		err  error
	)
	in := inspector.New([]*ast.File{file})
	in.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		if err != nil {
			return
		}
		if err = ctx.Err(); err != nil {
			return
		}
		if f, ok := d.Match(n.(*ast.CallExpr), res); ok {
			list = append(list, f)
		}
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// A Unit is a file to scan along with the resolver for its package.
type Unit struct {
	File     *ast.File
	Resolver Resolver
}

// DetectFiles scans the units in parallel and returns
// their findings in unit order.
func (d *Detector) DetectFiles(ctx context.Context, units []Unit) ([]Finding, error) {
	if d.Config.Len() == 0 {
		return nil, nil
	}
	results := make([][]Finding, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			list, err := d.DetectFile(ctx, u.File, u.Resolver)
			results[i] = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []Finding
	for _, list := range results {
		all = append(all, list...)
	}
	return all, nil
}
