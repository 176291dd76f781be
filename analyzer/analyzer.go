// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analyzer reports calls of obsolete methods as an analysis pass,
// each with a suggested fix that migrates the call to its replacement.
package analyzer

import (
	"errors"
	"fmt"
	"go/ast"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/obsoletemigrator/migrator/migrate"
	"github.com/obsoletemigrator/migrator/rules"
)

const doc = `report calls of obsolete methods

The obsoletemigrate analyzer reports each call of a method named as the
source of a rule in the rule file given by -rules. The suggested fix
calls the replacement method through a field of the enclosing type,
adding the field and a constructor parameter that sets it when missing.`

// Analyzer reports obsolete calls. Its flags are -rules and -holder-prefix.
var Analyzer = New()

// A runner holds the flag values of one analyzer and the
// configuration loaded from its rule file, shared by all passes.
type runner struct {
	rulesFile    string
	holderPrefix string
	log          hclog.Logger

	mu     sync.Mutex
	loads  int    // number of rule file loads
	loaded string // rule file cfg and err come from
	cfg    *rules.Configuration
	err    error
}

// New returns a new obsoletemigrate analyzer with its own flag values.
func New() *analysis.Analyzer {
	return newRunner().analyzer()
}

func newRunner() *runner {
	return &runner{log: hclog.NewNullLogger()}
}

func (r *runner) analyzer() *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name:     "obsoletemigrate",
		Doc:      doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      r.run,
	}
	a.Flags.StringVar(&r.rulesFile, "rules", "", "rule file (JSON or YAML)")
	a.Flags.StringVar(&r.holderPrefix, "holder-prefix", "", "prefix for generated holder field names")
	return a
}

// config returns the configuration of the rule file named by -rules,
// loading it on first use.
func (r *runner) config() (*rules.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loads == 0 || r.loaded != r.rulesFile {
		r.cfg, r.err = rules.LoadFile(r.rulesFile)
		r.loaded = r.rulesFile
		r.loads++
	}
	return r.cfg, r.err
}

func (r *runner) run(pass *analysis.Pass) (interface{}, error) {
	if r.rulesFile == "" {
		return nil, nil
	}
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	if cfg.Len() == 0 {
		return nil, nil
	}

	det := &migrate.Detector{Config: cfg, Fset: pass.Fset, Log: r.log}
	res := &migrate.TypesResolver{Info: pass.TypesInfo}
	syn := &migrate.Synthesizer{
		Fset:         pass.Fset,
		Pkg:          pass.Pkg,
		Info:         pass.TypesInfo,
		Files:        pass.Files,
		HolderPrefix: r.holderPrefix,
		Log:          r.log,
	}

	in := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	in.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		f, ok := det.Match(n.(*ast.CallExpr), res)
		if !ok {
			return
		}
		d := analysis.Diagnostic{
			Pos:      f.Pos(),
			End:      f.End(),
			Category: migrate.Category,
			Message:  f.Message(),
		}
		if fix, err := suggestedFix(syn, f); err == nil {
			d.SuggestedFixes = []analysis.SuggestedFix{fix}
		} else if !errors.Is(err, migrate.ErrNoAnchor) {
			r.log.Warn("rewrite failed", "pos", pass.Fset.Position(f.Pos()), "error", err)
		}
		pass.Report(d)
	})
	return nil, nil
}

func suggestedFix(syn *migrate.Synthesizer, f migrate.Finding) (analysis.SuggestedFix, error) {
	edits, err := syn.Rewrite(f)
	if err != nil {
		return analysis.SuggestedFix{}, err
	}
	fix := analysis.SuggestedFix{
		Message: fmt.Sprintf("Call %v instead", f.Rule.Destination),
	}
	for _, e := range edits {
		fix.TextEdits = append(fix.TextEdits, analysis.TextEdit{
			Pos:     e.Pos,
			End:     e.End,
			NewText: []byte(e.New),
		})
	}
	return fix, nil
}
