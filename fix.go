// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obsoletemigrator/migrator/diff"
	"github.com/obsoletemigrator/migrator/refactor"
)

func newFixCmd(o *options) *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "fix [packages]",
		Short: "Rewrite calls of obsolete methods",
		Long: `Fix rewrites each obsolete call to call the replacement method through
a field of the enclosing type, adding the field, a constructor parameter
and an assignment when the type has no such field yet.

Calls that cannot be rewritten are reported on standard error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.fix(cmd, args, showDiff)
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show diff instead of writing files")
	return cmd
}

func (o *options) fix(cmd *cobra.Command, args []string, showDiff bool) error {
	rf, cfg, err := o.setup()
	if err != nil {
		return err
	}
	if cfg.Len() == 0 {
		return nil
	}
	ctx := cmd.Context()

	snap, err := rf.Load(ctx, patterns(args)...)
	if err != nil {
		return err
	}
	skip := broken(snap, o.log)
	if err := snap.Errors.Err(); err != nil {
		fmt.Fprintf(o.stderr, "%v\n", err)
	}

	fx := &fixer{cfg: cfg, holderPrefix: o.holderPrefix, log: o.log, skip: skip}
	final, fixed, err := fx.fixAll(ctx, snap)
	if err != nil {
		return err
	}
	o.log.Info("fix done", "rewritten", fixed, "files", len(final.Modified()))

	// Rewritten code that no longer type-checks, such as callers
	// of a constructor that gained a parameter.
	var after refactor.ErrorList
	for _, p := range final.Packages() {
		if skip[p.PkgPath] {
			continue
		}
		for _, err := range p.Errors {
			after.Add(err)
		}
	}
	if err := after.Err(); err != nil {
		fmt.Fprintf(o.stderr, "warning: rewritten packages have errors:\n%v\n", err)
	}

	// Calls left behind.
	left, err := detect(ctx, final, cfg, o.log, nil)
	if err != nil {
		return err
	}
	if len(left) > 0 {
		if err := o.reportTo(o.stderr, final, cfg, left); err != nil {
			return err
		}
		var why refactor.ErrorList
		for _, f := range left {
			why.Add(final.ErrorAt(f.Pos(), f.Key(), "%v", fx.whyNot(final, f)))
		}
		fmt.Fprintf(o.stderr, "warning: calls not rewritten:\n%v\n", &why)
	}

	if showDiff {
		diffs, err := final.Diff()
		if err != nil {
			return err
		}
		st := diff.Stat(diffs)
		o.log.Info("diff", "files", len(diffs), "added", st.Added, "changed", st.Changed, "deleted", st.Deleted)
		out, err := diff.Print(diffs)
		if err != nil {
			return err
		}
		_, err = o.stdout.Write(out)
		return err
	}
	return final.Write()
}
