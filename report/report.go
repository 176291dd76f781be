// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report writes obsolete-call diagnostics
// as text, as a JSON array or as a SARIF log.
package report

import (
	"fmt"
	"go/token"
	"io"
	"sort"
	"strings"

	"github.com/obsoletemigrator/migrator/rules"
)

// A Diagnostic is one obsolete call reported to the user.
type Diagnostic struct {
	ID       string
	Category string
	Pos      token.Position
	End      token.Position
	Message  string
	Rule     *rules.Rule // may be nil
}

// A Sink receives diagnostics. Close flushes the output;
// formats that need the full set of diagnostics write nothing before it.
type Sink interface {
	Report(d Diagnostic) error
	Close() error
}

// Formats lists the names accepted by New.
var Formats = []string{"json", "sarif", "text"}

// Options configures the sinks returned by New.
type Options struct {
	// Color enables colored text output.
	Color bool

	// Config is the configuration the diagnostics come from.
	// The SARIF sink describes each of its rules.
	Config *rules.Configuration
}

// New returns a sink writing diagnostics to w in the named format.
func New(format string, w io.Writer, opts Options) (Sink, error) {
	switch format {
	case "", "text":
		return newTextSink(w, opts.Color), nil
	case "json":
		return &jsonSink{w: w}, nil
	case "sarif":
		return newSarifSink(w, opts.Config)
	}
	return nil, fmt.Errorf("unknown format %q (want %s)", format, strings.Join(Formats, ", "))
}

// Sort sorts diagnostics by file and position.
func Sort(list []Diagnostic) {
	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := list[i].Pos, list[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
}

// Write sorts list, reports each diagnostic to s and closes s.
func Write(s Sink, list []Diagnostic) error {
	Sort(list)
	for _, d := range list {
		if err := s.Report(d); err != nil {
			s.Close()
			return err
		}
	}
	return s.Close()
}
