// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff computes unified diffs of rewritten files
// using the system diff tool.
package diff

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// Diff returns the changes between the old and new text of the file
// with the given slash-separated name, labeled old/name and new/name.
// It returns nil if the texts are identical.
func Diff(name string, old, new []byte) (*godiff.FileDiff, error) {
	if bytes.Equal(old, new) {
		return nil, nil
	}
	oldFile, err := writeTemp(old)
	if err != nil {
		return nil, err
	}
	defer os.Remove(oldFile)
	newFile, err := writeTemp(new)
	if err != nil {
		return nil, err
	}
	defer os.Remove(newFile)

	// diff exits with status 1 when the files differ.
	out, err := exec.Command("diff", "-u", oldFile, newFile).Output()
	var exit *exec.ExitError
	if err != nil && !(errors.As(err, &exit) && exit.ExitCode() == 1) {
		return nil, fmt.Errorf("diff %s: %v", name, err)
	}
	fd, err := godiff.ParseFileDiff(out)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %v", name, err)
	}
	fd.OrigName, fd.OrigTime = "old/"+name, nil
	fd.NewName, fd.NewTime = "new/"+name, nil
	fd.Extended = []string{"diff " + fd.OrigName + " " + fd.NewName}
	return fd, nil
}

// Print returns diffs in unified format.
func Print(diffs []*godiff.FileDiff) ([]byte, error) {
	if len(diffs) == 0 {
		return nil, nil
	}
	return godiff.PrintMultiFileDiff(diffs)
}

// Stat returns the total line counts of diffs.
func Stat(diffs []*godiff.FileDiff) godiff.Stat {
	var st godiff.Stat
	for _, d := range diffs {
		s := d.Stat()
		st.Added += s.Added
		st.Changed += s.Changed
		st.Deleted += s.Deleted
	}
	return st
}

func writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp("", "migrator-diff-*.go")
	if err != nil {
		return "", err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
