// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refactor loads Go packages for rewriting and applies
// position-based edits to them, re-parsing and re-type-checking
// the edited packages after each round of edits.
package refactor

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// A Refactor holds the state for an active refactoring
// of packages in one module.
type Refactor struct {
	Stderr io.Writer
	Log    hclog.Logger

	// Tests includes test files: a package is loaded
	// with its tests and external test packages are loaded too.
	Tests bool

	dir     string
	modRoot string
}

// New returns a new refactoring of the module containing dir.
func New(dir string) (*Refactor, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	dir = filepath.Clean(dir)

	modRoot := dir
	for {
		if fi, err := os.Stat(filepath.Join(modRoot, "go.mod")); err == nil && !fi.IsDir() {
			break
		}
		parent := filepath.Dir(modRoot)
		if parent == modRoot {
			return nil, fmt.Errorf("no module found for %s", dir)
		}
		modRoot = parent
	}
	data, err := os.ReadFile(filepath.Join(modRoot, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("loading module: %v", err)
	}
	if modfile.ModulePath(data) == "" {
		return nil, fmt.Errorf("loading module: %s has no module path", filepath.Join(modRoot, "go.mod"))
	}

	r := &Refactor{
		Stderr:  os.Stderr,
		Log:     hclog.NewNullLogger(),
		dir:     dir,
		modRoot: modRoot,
	}
	return r, nil
}

func (r *Refactor) Dir() string     { return r.dir }
func (r *Refactor) ModRoot() string { return r.modRoot }

// shortPath returns an absolute or relative name for path, whatever is shorter.
func (r *Refactor) shortPath(path string) string {
	if rel, err := filepath.Rel(r.dir, path); err == nil && len(rel) < len(path) {
		return rel
	}
	return path
}

type fileCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (fc *fileCache) cacheRead(name string, src []byte) []byte {
	fc.mu.Lock()
	if fc.data[name] == nil {
		if fc.data == nil {
			fc.data = make(map[string][]byte)
		}
		fc.data[name] = src
	} else {
		src = fc.data[name]
	}
	fc.mu.Unlock()
	return src
}

func (fc *fileCache) ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	const mode = parser.AllErrors | parser.ParseComments
	return parser.ParseFile(fset, filename, fc.cacheRead(filename, src), mode)
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedModule

// Load loads the packages matching patterns (default ".") in the main module,
// with syntax and type information.
// Packages that fail to type-check are still loaded; their errors are
// recorded in Package.Errors.
func (r *Refactor) Load(ctx context.Context, patterns ...string) (*Snapshot, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	s := &Snapshot{
		r:        r,
		fset:     token.NewFileSet(),
		files:    make(map[string]*File),
		edits:    make(map[string]*fileEdit),
		imported: make(map[string]*types.Package),
		Errors:   new(ErrorList),
	}
	var cache fileCache
	cfg := &packages.Config{
		Context:   ctx,
		Mode:      loadMode,
		Dir:       r.dir,
		Tests:     r.Tests,
		Fset:      s.fset,
		ParseFile: cache.ParseFile,
	}
	lpkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}

	// Prefer "p [p.test]" over "p"; drop test mains.
	withTests := make(map[string]bool)
	for _, lp := range lpkgs {
		if isTestVariant(lp) {
			withTests[lp.PkgPath] = true
		}
	}
	seen := make(map[string]bool)
	for _, lp := range lpkgs {
		switch {
		case strings.HasSuffix(lp.ID, ".test"):
			continue
		case lp.Module != nil && !lp.Module.Main:
			r.Log.Debug("skipping package outside the main module", "pkg", lp.PkgPath)
			continue
		case lp.ID == lp.PkgPath && withTests[lp.PkgPath]:
			continue
		case seen[lp.PkgPath]:
			continue
		}
		seen[lp.PkgPath] = true
		s.packages = append(s.packages, s.newPackage(lp, &cache))
	}
	if len(s.packages) == 0 {
		return nil, fmt.Errorf("no packages matching %s", strings.Join(patterns, " "))
	}
	sort.SliceStable(s.packages, func(i, j int) bool {
		return s.packages[i].PkgPath < s.packages[j].PkgPath
	})

	// Remember the type-checked dependencies for later re-checks.
	packages.Visit(lpkgs, nil, func(lp *packages.Package) {
		if lp.Types == nil || strings.HasSuffix(lp.ID, ".test") {
			return
		}
		if old := s.imported[lp.PkgPath]; old == nil || lp.ID == lp.PkgPath {
			s.imported[lp.PkgPath] = lp.Types
		}
	})

	r.Log.Debug("loaded packages", "patterns", patterns, "packages", len(s.packages))
	return s, nil
}

// isTestVariant reports whether lp is package p compiled
// with its own test files, "p [p.test]".
func isTestVariant(lp *packages.Package) bool {
	return lp.ID == testVariantID(lp.PkgPath)
}

func testVariantID(path string) string {
	return path + " [" + path + ".test]"
}

func (s *Snapshot) newPackage(lp *packages.Package, cache *fileCache) *Package {
	p := &Package{
		Name:      lp.Name,
		ID:        lp.ID,
		PkgPath:   lp.PkgPath,
		Types:     lp.Types,
		TypesInfo: lp.TypesInfo,
		ImportMap: make(map[string]string),
		Cgo:       len(lp.CompiledGoFiles) != len(lp.GoFiles),
	}
	for path, imp := range lp.Imports {
		if path != imp.PkgPath {
			p.ImportMap[path] = imp.PkgPath
		}
		p.Imports = append(p.Imports, imp.PkgPath)
	}
	sort.Strings(p.Imports)
	if len(lp.GoFiles) > 0 {
		p.Dir = filepath.Dir(lp.GoFiles[0])
	}
	for _, e := range lp.Errors {
		p.Errors = append(p.Errors, e)
	}
	for _, syntax := range lp.Syntax {
		name := s.fset.File(syntax.FileStart).Name()
		f := &File{
			Name:   name,
			Text:   cache.cacheRead(name, nil),
			Syntax: syntax,
		}
		if f.Text == nil {
			// Not parsed through the cache: the package is cgo-processed.
			p.Cgo = true
			continue
		}
		p.Files = append(p.Files, f)
		s.files[name] = f
	}
	return p
}

// loadTypes loads the type information of a package
// that is not among the snapshot's dependencies.
func (r *Refactor) loadTypes(fset *token.FileSet, path string) (*types.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  r.dir,
		Fset: fset,
	}
	lpkgs, err := packages.Load(cfg, path)
	if err != nil {
		return nil, err
	}
	if len(lpkgs) != 1 || lpkgs[0].Types == nil {
		return nil, fmt.Errorf("cannot load %s", path)
	}
	if len(lpkgs[0].Errors) > 0 {
		return lpkgs[0].Types, errors.New(lpkgs[0].Errors[0].Msg)
	}
	r.Log.Debug("loaded package on demand", "pkg", path)
	return lpkgs[0].Types, nil
}
