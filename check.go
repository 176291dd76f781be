// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obsoletemigrator/migrator/report"
)

func newCheckCmd(o *options) *cobra.Command {
	var fail bool
	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Report calls of obsolete methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.check(cmd, args, fail)
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with status 3 if any obsolete call is found")
	return cmd
}

func (o *options) check(cmd *cobra.Command, args []string, fail bool) error {
	rf, cfg, err := o.setup()
	if err != nil {
		return err
	}
	sink, err := o.sink(o.stdout, cfg)
	if err != nil {
		return err
	}
	if cfg.Len() == 0 {
		return sink.Close()
	}

	snap, err := rf.Load(cmd.Context(), patterns(args)...)
	if err != nil {
		return err
	}
	for _, p := range snap.Packages() {
		for _, err := range p.Errors {
			snap.Errors.Add(err)
		}
	}
	if err := snap.Errors.Err(); err != nil {
		fmt.Fprintf(o.stderr, "%v\n", err)
	}

	list, err := detect(cmd.Context(), snap, cfg, o.log, nil)
	if err != nil {
		return err
	}
	if err := report.Write(sink, diagnostics(snap, list)); err != nil {
		return err
	}
	o.log.Info("check done", "packages", len(snap.Packages()), "findings", len(list))
	if fail && len(list) > 0 {
		return &errFindings{len(list)}
	}
	return nil
}
