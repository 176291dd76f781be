// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"testing"

	godiff "github.com/sourcegraph/go-diff/diff"
)

func TestDiff(t *testing.T) {
	d, err := Diff("a/b.go", []byte("abc\ndef\nghi\n"), []byte("ABC\ndef\nGHI\n"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := Print([]*godiff.FileDiff{d})
	if err != nil {
		t.Fatal(err)
	}
	want := "diff old/a/b.go new/a/b.go\n--- old/a/b.go\n+++ new/a/b.go\n@@ -1,3 +1,3 @@\n-abc\n+ABC\n def\n-ghi\n+GHI\n"
	if string(out) != want {
		t.Errorf("Diff: have:\n%s", out)
		t.Errorf("Diff: want:\n%s", want)
	}
}

func TestDiffIdentical(t *testing.T) {
	d, err := Diff("a.go", []byte("x\n"), []byte("x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if d != nil {
		t.Errorf("Diff of identical inputs = %v, want nil", d)
	}
	if out, err := Print(nil); out != nil || err != nil {
		t.Errorf("Print(nil) = %q, %v, want nil, nil", out, err)
	}
}

func TestStat(t *testing.T) {
	var diffs []*godiff.FileDiff
	for _, name := range []string{"x.go", "y.go"} {
		d, err := Diff(name, []byte("a\nb\n"), []byte("a\nb\nc\n"))
		if err != nil {
			t.Fatal(err)
		}
		diffs = append(diffs, d)
	}
	st := Stat(diffs)
	if st.Added != 2 || st.Deleted != 0 || st.Changed != 0 {
		t.Errorf("Stat = %+v, want 2 added", st)
	}
}
