// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"fmt"
	"strings"
)

// A ConfigurationError reports a rule payload that cannot be used.
// It is fatal for the session.
type ConfigurationError struct {
	File string // rule file, if known
	Rule int    // index of the offending rule, or -1
	Err  error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Rule >= 0 {
		fmt.Fprintf(&b, "rules[%d]: ", e.Rule)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
