// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Validate the rule file and list its rules",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newErrUsage("rules takes no arguments")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := o.setup()
			if err != nil {
				return err
			}
			for _, r := range cfg.Rules() {
				fmt.Fprintf(o.stdout, "%v\n", r)
			}
			return nil
		},
	}
}
