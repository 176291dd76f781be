// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"fmt"
	"sort"
)

// A pkgGraph is the import graph of the packages loaded into a snapshot.
// Imports of packages outside the graph are not edges.
type pkgGraph struct {
	pkgByPath map[string]*Package // keyed by Package.PkgPath
}

func newPkgGraph(pkgs []*Package) *pkgGraph {
	g := &pkgGraph{pkgByPath: make(map[string]*Package)}
	for _, p := range pkgs {
		g.add(p)
	}
	return g
}

func (g *pkgGraph) add(p *Package) {
	if o := g.pkgByPath[p.PkgPath]; o != nil {
		panic(fmt.Sprintf("duplicate package path %q in %q and %q", p.PkgPath, p.ID, o.ID))
	}
	g.pkgByPath[p.PkgPath] = p
}

func (g *pkgGraph) byPath(pkgPath string) *Package {
	return g.pkgByPath[pkgPath]
}

func (g *pkgGraph) packages() []*Package {
	var list []*Package
	for _, p := range g.pkgByPath {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].PkgPath < list[j].PkgPath
	})
	return list
}

// importers returns the set of package paths in g that are in roots
// or import a package in roots, directly or indirectly.
func (g *pkgGraph) importers(roots map[string]bool) map[string]bool {
	rdeps := make(map[string][]string)
	for _, p := range g.pkgByPath {
		for _, imp := range p.Imports {
			if g.pkgByPath[imp] != nil {
				rdeps[imp] = append(rdeps[imp], p.PkgPath)
			}
		}
	}
	out := make(map[string]bool)
	var walk func(string)
	walk = func(path string) {
		if out[path] {
			return
		}
		out[path] = true
		for _, q := range rdeps[path] {
			walk(q)
		}
	}
	for path := range roots {
		if g.pkgByPath[path] != nil {
			walk(path)
		}
	}
	return out
}

// findCycle finds some cycle in g. If there is a cycle, it returns a non-nil
// pkgCycle describing it.
func (g *pkgGraph) findCycle() *pkgCycle {
	walked := make(map[*Package]int8)
	var stack []*Package
	var cycle []*Package
	var walk func(*Package) bool
	walk = func(p *Package) bool {
		if walked[p] == 2 {
			return false
		}
		if walked[p] == 1 {
			// Found a cycle.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == p {
					cycle = append(cycle, stack[i:]...)
					break
				}
			}
			return true
		}
		walked[p] = 1
		stack = append(stack, p)
		for _, imp := range p.Imports {
			if p1 := g.pkgByPath[imp]; p1 != nil && walk(p1) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		walked[p] = 2
		return false
	}
	for _, p := range g.packages() {
		if walk(p) {
			return &pkgCycle{pkgs: cycle}
		}
	}
	return nil
}

type pkgCycle struct {
	pkgs []*Package
}

func (c *pkgCycle) String() string {
	if len(c.pkgs) == 0 {
		return "<cycle>"
	}
	var b bytes.Buffer
	for _, pkg := range c.pkgs {
		b.WriteString(pkg.PkgPath)
		b.WriteString(" -> ")
	}
	b.WriteString(c.pkgs[0].PkgPath) // Intentionally repeated
	return b.String()
}

// visitBottomUp calls visit for each package in g,
// after visiting every package in g that it imports.
func (g *pkgGraph) visitBottomUp(visit func(p *Package)) error {
	if c := g.findCycle(); c != nil {
		return fmt.Errorf("import cycle: %s", c)
	}
	done := make(map[*Package]bool)
	var walk func(p *Package)
	walk = func(p *Package) {
		if done[p] {
			return
		}
		done[p] = true
		for _, imp := range p.Imports {
			if p1 := g.pkgByPath[imp]; p1 != nil {
				walk(p1)
			}
		}
		visit(p)
	}
	for _, p := range g.packages() {
		walk(p)
	}
	return nil
}
