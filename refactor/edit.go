// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"sort"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/obsoletemigrator/migrator/diff"
	"github.com/obsoletemigrator/migrator/edit"
)

func (s *Snapshot) editAt(pos token.Pos) (*fileEdit, *token.File) {
	tf := s.fset.File(pos)
	if tf == nil {
		panic("position not in any file")
	}
	ed := s.edits[tf.Name()]
	if ed != nil {
		return ed, tf
	}
	f := s.files[tf.Name()]
	if f == nil {
		panic("file not found: " + tf.Name())
	}
	ed = &fileEdit{file: f, buf: edit.NewBuffer(f.Text)}
	s.edits[tf.Name()] = ed
	return ed, tf
}

// ReplaceAt queues the replacement of the text in [lo, hi) with repl.
func (s *Snapshot) ReplaceAt(lo, hi token.Pos, repl string) {
	ed, tf := s.editAt(lo)
	if s.fset.File(hi) != tf && hi != token.Pos(tf.Base()+tf.Size()) {
		panic("edit spans files")
	}
	ed.buf.Replace(tf.Offset(lo), tf.Offset(hi), repl)
}

// Source returns the text a file of the snapshot was parsed from.
func (s *Snapshot) Source(tf *token.File) []byte {
	if f := s.files[tf.Name()]; f != nil {
		return f.Text
	}
	return nil
}

// gofmt formats text, the edited version of f,
// deleting imports the edits left unused.
// It returns text unchanged if it does not parse.
func (s *Snapshot) gofmt(f *File, text []byte) []byte {
	text = deleteUnusedImports(text, func(path string) string {
		return s.packageName(f, path)
	})
	out, err := format.Source(text)
	if err != nil {
		return text
	}
	return out
}

// packageName returns the name of the package imported as path by file f.
func (s *Snapshot) packageName(f *File, path string) string {
	for _, p := range s.packages {
		for _, pf := range p.Files {
			if pf != f || p.Types == nil {
				continue
			}
			for _, imp := range p.Types.Imports() {
				if imp.Path() == path || p.ImportMap[path] == imp.Path() {
					return imp.Name()
				}
			}
		}
	}
	for _, p := range s.packages {
		if p.PkgPath == path {
			return p.Name
		}
	}
	if tp := s.imported[path]; tp != nil {
		return tp.Name()
	}
	return ""
}

func (s *Snapshot) currentBytes(name string) []byte {
	if ed := s.edits[name]; ed != nil {
		return ed.buf.Bytes()
	}
	if f := s.files[name]; f != nil {
		return f.Text
	}
	return nil
}

func (s *Snapshot) oldBytes(name string) []byte {
	for s.parent != nil {
		s = s.parent
	}
	if f := s.files[name]; f != nil {
		return f.Text
	}
	return nil
}

// Modified returns the names of the files that differ
// from the files originally loaded, sorted.
func (s *Snapshot) Modified() []string {
	var names []string
	for name := range s.files {
		if !bytes.Equal(s.oldBytes(name), s.currentBytes(name)) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := filepath.Dir(names[i]), filepath.Dir(names[j])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}

// Diff returns the differences of each file changed since the files
// were loaded, named relative to the module root.
func (s *Snapshot) Diff() ([]*godiff.FileDiff, error) {
	var diffs []*godiff.FileDiff
	for _, name := range s.Modified() {
		rel, err := filepath.Rel(s.r.modRoot, name)
		if err != nil {
			return nil, err
		}
		d, err := diff.Diff(filepath.ToSlash(rel), s.oldBytes(name), s.currentBytes(name))
		if err != nil {
			return nil, err
		}
		if d != nil {
			diffs = append(diffs, d)
		}
	}
	return diffs, nil
}

// Write writes all changed files back to disk.
func (s *Snapshot) Write() error {
	failed := false
	for _, name := range s.Modified() {
		if err := os.WriteFile(name, s.currentBytes(name), 0666); err != nil {
			fmt.Fprintf(s.r.Stderr, "%s\n", err)
			failed = true
			continue
		}
		s.r.Log.Debug("wrote file", "file", s.r.shortPath(name))
	}
	if failed {
		return fmt.Errorf("errors writing files")
	}
	return nil
}
