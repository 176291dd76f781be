// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/obsoletemigrator/migrator/migrate"
	"github.com/obsoletemigrator/migrator/refactor"
	"github.com/obsoletemigrator/migrator/report"
	"github.com/obsoletemigrator/migrator/rules"
)

// A finding is an obsolete call along with the package containing it.
type finding struct {
	migrate.Finding
	pkg *refactor.Package
}

// detect returns the obsolete calls in the packages of snap,
// except those listed in skip.
func detect(ctx context.Context, snap *refactor.Snapshot, cfg *rules.Configuration, log hclog.Logger, skip map[string]bool) ([]finding, error) {
	det := &migrate.Detector{Config: cfg, Fset: snap.Fset(), Log: log}
	var units []migrate.Unit
	snap.ForEachFile(func(p *refactor.Package, f *refactor.File) {
		if p.TypesInfo == nil || skip[p.PkgPath] {
			return
		}
		units = append(units, migrate.Unit{File: f.Syntax, Resolver: &migrate.TypesResolver{Info: p.TypesInfo}})
	})
	list, err := det.DetectFiles(ctx, units)
	if err != nil {
		return nil, err
	}
	out := make([]finding, 0, len(list))
	for _, f := range list {
		p, _ := snap.FileAt(f.Pos())
		out = append(out, finding{f, p})
	}
	return out, nil
}

// diagnostics returns the diagnostics for list,
// with file names relative to the working directory.
func diagnostics(snap *refactor.Snapshot, list []finding) []report.Diagnostic {
	out := make([]report.Diagnostic, len(list))
	for i, f := range list {
		out[i] = report.Diagnostic{
			ID:       migrate.DiagnosticID,
			Category: migrate.Category,
			Pos:      snap.ShortPosition(f.Pos()),
			End:      snap.ShortPosition(f.End()),
			Message:  f.Message(),
			Rule:     f.Rule,
		}
	}
	return out
}

// broken returns the packages of snap that cannot be rewritten:
// those with load or type errors and those using cgo.
// Their errors are added to snap.Errors.
func broken(snap *refactor.Snapshot, log hclog.Logger) map[string]bool {
	skip := make(map[string]bool)
	for _, p := range snap.Packages() {
		switch {
		case len(p.Errors) > 0:
			for _, err := range p.Errors {
				snap.Errors.Add(err)
			}
			log.Warn("package has errors; not rewriting it", "package", p.PkgPath, "errors", len(p.Errors))
			skip[p.PkgPath] = true
		case p.Cgo:
			log.Warn("package uses cgo; not rewriting it", "package", p.PkgPath)
			skip[p.PkgPath] = true
		}
	}
	return skip
}

// A fixer rewrites obsolete calls one at a time.
type fixer struct {
	cfg          *rules.Configuration
	holderPrefix string
	log          hclog.Logger
	skip         map[string]bool
}

// fixAll rewrites the obsolete calls in snap until none is left that
// can be rewritten. Each round rewrites the first call that can be
// rewritten and then re-checks the edited packages, so that a holder
// added for one call is found and reused by the next.
// It returns the final snapshot and the number of rewritten calls.
func (fx *fixer) fixAll(ctx context.Context, snap *refactor.Snapshot) (*refactor.Snapshot, int, error) {
	initial, err := detect(ctx, snap, fx.cfg, fx.log, fx.skip)
	if err != nil {
		return nil, 0, err
	}
	// Each rewrite removes one call unless the rules rewrite
	// calls into each other.
	limit := len(initial) * fx.cfg.Len()

	fixed := 0
	list := initial
	for {
		var edits []migrate.Edit
		for _, f := range list {
			edits, err = fx.rewrite(snap, f)
			if err != nil {
				if !errors.Is(err, migrate.ErrNoAnchor) {
					return nil, fixed, err
				}
				fx.log.Debug("not rewriting", "pos", snap.Addr(f.Pos()), "reason", err)
				continue
			}
			break
		}
		if len(edits) == 0 {
			return snap, fixed, nil
		}
		if fixed >= limit {
			return nil, fixed, newErrPrecondition("rewriting did not converge after %d calls; do the rules rewrite calls into each other?", fixed)
		}
		for _, e := range edits {
			snap.ReplaceAt(e.Pos, e.End, e.New)
		}
		snap, err = snap.Apply()
		if err != nil {
			return nil, fixed, err
		}
		fixed++

		list, err = detect(ctx, snap, fx.cfg, fx.log, fx.skip)
		if err != nil {
			return nil, fixed, err
		}
	}
}

// whyNot returns the reason the finding f was left alone.
func (fx *fixer) whyNot(snap *refactor.Snapshot, f finding) error {
	if f.pkg != nil && fx.skip[f.pkg.PkgPath] {
		return errors.New("package has errors or uses cgo")
	}
	if _, err := fx.rewrite(snap, f); err != nil {
		return err
	}
	return errors.New("rewrite limit reached")
}

func (fx *fixer) rewrite(snap *refactor.Snapshot, f finding) ([]migrate.Edit, error) {
	if f.pkg == nil || f.pkg.Types == nil {
		return nil, fmt.Errorf("%s: %w: package not loaded", snap.Addr(f.Pos()), migrate.ErrNoAnchor)
	}
	syn := &migrate.Synthesizer{
		Fset:         snap.Fset(),
		Pkg:          f.pkg.Types,
		Info:         f.pkg.TypesInfo,
		Files:        f.pkg.Syntax(),
		Source:       snap.Source,
		HolderPrefix: fx.holderPrefix,
		Log:          fx.log,
	}
	return syn.Rewrite(f.Finding)
}
