// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obsoletemigrator/migrator/refactor"
	"github.com/obsoletemigrator/migrator/report"
	"github.com/obsoletemigrator/migrator/rules"
)

// defaultRules is the rule file looked up in the module root
// when --rules is not given.
const defaultRules = "migrator.json"

// options holds the persistent flags shared by all commands.
type options struct {
	stdout io.Writer
	stderr io.Writer
	log    hclog.Logger

	dir          string
	rulesFile    string
	format       string
	holderPrefix string
	tests        bool
	logLevel     string
	verbose      bool
}

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// runMain runs the command line args and returns the exit status.
func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	var (
		usage    *errUsage
		findings *errFindings
		cerr     *rules.ConfigurationError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &findings):
		return 3
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "migrator: %v\n", err)
		fmt.Fprintf(stderr, "Run 'migrator help' for usage.\n")
		return 2
	case errors.As(err, &cerr):
		fmt.Fprintf(stderr, "migrator: %v\n", cerr)
		return 1
	}
	fmt.Fprintf(stderr, "migrator: %v\n", err)
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "migrator",
		Short:         "Migrate calls of obsolete methods to their replacements",
		Long:          "Migrator finds calls of obsolete methods named in a rule file and rewrites them to call the replacement methods.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setupLog()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return newErrUsage("%v", err)
	})

	o.addFlags(root.PersistentFlags())
	root.AddCommand(newCheckCmd(o), newFixCmd(o), newRulesCmd(o))
	return root
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.StringVarP(&o.dir, "chdir", "C", ".", "run as if started in `dir`")
	f.StringVar(&o.rulesFile, "rules", "", "rule `file`, JSON or YAML (default "+defaultRules+" in the module root)")
	f.StringVar(&o.format, "format", "text", "diagnostic format: "+strings.Join(report.Formats, ", "))
	f.StringVar(&o.holderPrefix, "holder-prefix", "", "prefix for generated holder field names")
	f.BoolVar(&o.tests, "tests", false, "include test files")
	f.StringVar(&o.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default $MIGRATOR_LOG_LEVEL or warn)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
}

func (o *options) setupLog() error {
	level := o.logLevel
	if level == "" {
		level = os.Getenv("MIGRATOR_LOG_LEVEL")
	}
	if o.verbose {
		level = "debug"
	}
	lvl := hclog.Warn
	if level != "" {
		lvl = hclog.LevelFromString(level)
		if lvl == hclog.NoLevel {
			return newErrUsage("unknown log level %q", level)
		}
	}
	o.log = hclog.New(&hclog.LoggerOptions{
		Name:        "migrator",
		Level:       lvl,
		Output:      o.stderr,
		DisableTime: true,
	})
	return nil
}

// setup prepares a refactoring of the module around o.dir
// and loads its rule configuration.
func (o *options) setup() (*refactor.Refactor, *rules.Configuration, error) {
	rf, err := refactor.New(o.dir)
	if err != nil {
		return nil, nil, err
	}
	rf.Stderr = o.stderr
	rf.Log = o.log.Named("refactor")
	rf.Tests = o.tests

	file := o.rulesFile
	switch {
	case file == "":
		file = filepath.Join(rf.ModRoot(), defaultRules)
	case !filepath.IsAbs(file):
		file = filepath.Join(rf.Dir(), file)
	}
	cfg, err := rules.LoadFile(file)
	if err != nil {
		var cerr *rules.ConfigurationError
		if errors.As(err, &cerr) {
			if rel, err := filepath.Rel(rf.Dir(), cerr.File); err == nil {
				cerr.File = rel
			}
		}
		return nil, nil, err
	}
	if cfg.Len() == 0 {
		o.log.Info("no rules configured", "file", file)
	} else {
		o.log.Debug("loaded rules", "file", file, "rules", cfg.Len())
	}
	return rf, cfg, nil
}

// sink returns the diagnostic sink for w in the selected format.
func (o *options) sink(w io.Writer, cfg *rules.Configuration) (report.Sink, error) {
	s, err := report.New(o.format, w, report.Options{
		Color:  isTerminal(w),
		Config: cfg,
	})
	if err != nil {
		return nil, newErrUsage("%v", err)
	}
	return s, nil
}

// reportTo writes the diagnostics of list to w in the selected format.
func (o *options) reportTo(w io.Writer, snap *refactor.Snapshot, cfg *rules.Configuration, list []finding) error {
	sink, err := o.sink(w, cfg)
	if err != nil {
		return err
	}
	return report.Write(sink, diagnostics(snap, list))
}

// isTerminal reports whether w is a terminal that accepts colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// patterns returns the package patterns to load, "." by default.
func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
