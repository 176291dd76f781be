// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"fmt"
	"go/scanner"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/obsoletemigrator/migrator/rules"
)

// An Error is a problem at a source position: a load or type error
// in a package, or a call that could not be rewritten.
type Error struct {
	Pos  token.Position
	Msg  string
	Rule rules.Key // rule of an unrewritten call, or zero
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "%s: ", e.Pos)
	}
	b.WriteString(e.Msg)
	if e.Rule != (rules.Key{}) {
		fmt.Fprintf(&b, " (rule %v)", e.Rule)
	}
	return b.String()
}

// ErrorList is a set of Errors, printed in position order.
// It is also an error itself. The zero value is an empty list.
type ErrorList struct {
	errs []*Error
	seen map[Error]bool
}

// Add adds err to l, taking its position from the error when it is
// an Error, a scanner.Error, a types.Error or a packages.Error.
// Lists are merged. An error already in l is dropped.
func (l *ErrorList) Add(err error) {
	var e *Error
	switch err := err.(type) {
	case nil:
		return
	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return
	case scanner.ErrorList:
		for _, e := range err {
			l.Add(e)
		}
		return
	case *Error:
		e = err
	case *scanner.Error:
		e = &Error{Pos: err.Pos, Msg: err.Msg}
	case types.Error:
		e = &Error{Pos: err.Fset.Position(err.Pos), Msg: strings.TrimPrefix(err.Msg, "\t")}
	case packages.Error:
		e = &Error{Pos: parsePos(err.Pos), Msg: err.Msg}
	default:
		e = &Error{Msg: err.Error()}
	}
	if l.seen[*e] {
		return
	}
	if l.seen == nil {
		l.seen = make(map[Error]bool)
	}
	l.seen[*e] = true
	l.errs = append(l.errs, e)
}

// Len returns the number of errors in l.
func (l *ErrorList) Len() int {
	return len(l.errs)
}

// Error returns the errors sorted by position, one per line.
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}
	sort.SliceStable(l.errs, func(i, j int) bool {
		p1, p2 := l.errs[i].Pos, l.errs[j].Pos
		if p1.Filename != p2.Filename {
			return p1.Filename < p2.Filename
		}
		if p1.Line != p2.Line {
			return p1.Line < p2.Line
		}
		return p1.Column < p2.Column
	})
	lines := make([]string, len(l.errs))
	for i, e := range l.errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns l, or nil if l is empty.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// parsePos parses a position of the form file:line:col or file:line,
// as found in packages.Error.
func parsePos(s string) token.Position {
	var pos token.Position
	if s == "" || s == "-" {
		return pos
	}
	pos.Filename = s
	for _, field := range []*int{&pos.Column, &pos.Line} {
		i := strings.LastIndex(pos.Filename, ":")
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(pos.Filename[i+1:])
		if err != nil {
			break
		}
		*field = n
		pos.Filename = pos.Filename[:i]
	}
	if pos.Line == 0 {
		// Only one number: it was the line.
		pos.Line, pos.Column = pos.Column, 0
	}
	return pos
}
