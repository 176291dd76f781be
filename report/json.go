// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"io"
)

type jsonDiagnostic struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	EndLine     int    `json:"endLine,omitempty"`
	EndColumn   int    `json:"endColumn,omitempty"`
	Message     string `json:"message"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
}

type jsonSink struct {
	w    io.Writer
	list []jsonDiagnostic
}

func (s *jsonSink) Report(d Diagnostic) error {
	jd := jsonDiagnostic{
		ID:        d.ID,
		Category:  d.Category,
		File:      d.Pos.Filename,
		Line:      d.Pos.Line,
		Column:    d.Pos.Column,
		EndLine:   d.End.Line,
		EndColumn: d.End.Column,
		Message:   d.Message,
	}
	if d.Rule != nil {
		jd.Source = d.Rule.Source.String()
		jd.Destination = d.Rule.Destination.String()
	}
	s.list = append(s.list, jd)
	return nil
}

// Close writes the diagnostics as one JSON array, [] if there are none.
func (s *jsonSink) Close() error {
	list := s.list
	if list == nil {
		list = []jsonDiagnostic{}
	}
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "\t")
	return enc.Encode(list)
}
