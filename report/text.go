// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type textSink struct {
	w       io.Writer
	pos     *color.Color
	warning *color.Color
	id      *color.Color
}

func newTextSink(w io.Writer, enable bool) *textSink {
	s := &textSink{
		w:       w,
		pos:     color.New(color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		id:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.pos, s.warning, s.id} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *textSink) Report(d Diagnostic) error {
	_, err := fmt.Fprintf(s.w, "%s: %s %s %s\n",
		s.pos.Sprint(d.Pos), s.warning.Sprint("warning:"), d.Message, s.id.Sprintf("[%s]", d.ID))
	return err
}

func (s *textSink) Close() error { return nil }
