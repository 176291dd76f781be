// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "fmt"

// errUsage indicates a malformed command line. Usage errors are
// independent of the source code being migrated.
type errUsage struct {
	err string
}

func newErrUsage(f string, args ...interface{}) *errUsage {
	return &errUsage{fmt.Sprintf(f, args...)}
}

func (e *errUsage) Error() string {
	return "usage: " + e.err
}

// errPrecondition indicates that a command was well-formed, but the
// source code did not allow it to complete. For example, rules that
// rewrite calls into each other never stop producing findings.
type errPrecondition struct {
	err string
}

func newErrPrecondition(f string, args ...interface{}) *errPrecondition {
	return &errPrecondition{fmt.Sprintf(f, args...)}
}

func (e *errPrecondition) Error() string {
	return e.err
}

// errFindings reports that check --fail found obsolete calls.
// The diagnostics have already been printed.
type errFindings struct {
	n int
}

func (e *errFindings) Error() string {
	return fmt.Sprintf("%d obsolete calls", e.n)
}
