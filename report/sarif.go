// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/obsoletemigrator/migrator/migrate"
	"github.com/obsoletemigrator/migrator/rules"
)

const (
	toolName = "migrator"
	toolURI  = "https://github.com/obsoletemigrator/migrator"
)

type sarifSink struct {
	w   io.Writer
	log *sarif.Report
	run *sarif.Run
}

func newSarifSink(w io.Writer, cfg *rules.Configuration) (*sarifSink, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	run.AddRule(migrate.DiagnosticID).
		WithDescription("call to an obsolete method").
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})
	for _, r := range cfg.Rules() {
		run.AddRule(ruleID(r)).
			WithDescription(r.String()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})
	}
	return &sarifSink{w: w, log: log, run: run}, nil
}

// ruleID names the SARIF rule for a migration rule.
func ruleID(r *rules.Rule) string {
	return migrate.DiagnosticID + "/" + r.Source.String()
}

func (s *sarifSink) Report(d Diagnostic) error {
	id := d.ID
	if d.Rule != nil {
		id = ruleID(d.Rule)
		s.run.AddRule(id).WithDescription(d.Rule.String())
	}
	region := sarif.NewRegion().
		WithStartLine(d.Pos.Line).
		WithStartColumn(d.Pos.Column)
	if d.End.IsValid() {
		region = region.WithEndLine(d.End.Line).WithEndColumn(d.End.Column)
	}
	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(d.Pos.Filename))).
			WithRegion(region),
	)
	result := sarif.NewRuleResult(id).
		WithMessage(sarif.NewTextMessage(d.Message)).
		WithLevel("warning").
		WithLocations([]*sarif.Location{location})
	s.run.AddResult(result)
	return nil
}

func (s *sarifSink) Close() error {
	s.log.AddRun(s.run)
	return s.log.PrettyWrite(s.w)
}
