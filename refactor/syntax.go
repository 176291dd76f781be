// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import "go/token"

func (s *Snapshot) Position(pos token.Pos) token.Position {
	return s.fset.Position(pos)
}

// ShortPosition is like Position but names the file relative to
// the working directory when that is shorter.
func (s *Snapshot) ShortPosition(pos token.Pos) token.Position {
	p := s.Position(pos)
	if p.Filename != "" {
		p.Filename = s.r.shortPath(p.Filename)
	}
	return p
}

// Addr returns pos formatted as file:line:col.
func (s *Snapshot) Addr(pos token.Pos) string {
	return s.ShortPosition(pos).String()
}

// FileAt returns the package and file containing pos.
func (s *Snapshot) FileAt(pos token.Pos) (*Package, *File) {
	tf := s.fset.File(pos)
	if tf == nil {
		return nil, nil
	}
	f := s.files[tf.Name()]
	if f == nil {
		return nil, nil
	}
	for _, p := range s.packages {
		for _, pf := range p.Files {
			if pf == f {
				return p, f
			}
		}
	}
	return nil, f
}

// ForEachFile calls f for each file of each package in the snapshot,
// visiting a file shared by several packages only once.
func (s *Snapshot) ForEachFile(f func(pkg *Package, file *File)) {
	seen := make(map[string]bool)
	for _, p := range s.packages {
		for _, file := range p.Files {
			if seen[file.Name] {
				continue
			}
			seen[file.Name] = true
			f(p, file)
		}
	}
}
