// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestRun runs the scripts in testdata/*.txt.
// The comment of each script holds the command line, and optionally
// a line "exit N" giving the expected exit status (default 0).
// The files stdout and stderr hold the expected output, and a file
// want/NAME holds the expected content of NAME after the command.
// All other files are written to a fresh module named m.
func TestRun(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test cases")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			args, wantExit := parseScript(t, string(ar.Comment))

			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module m\n\ngo 1.22\n"), 0666); err != nil {
				t.Fatal(err)
			}
			var wantStdout, wantStderr txtar.File
			var wantFiles []txtar.File
			for _, file := range ar.Files {
				switch {
				case file.Name == "stdout":
					wantStdout = file
					continue
				case file.Name == "stderr":
					wantStderr = file
					continue
				case strings.HasPrefix(file.Name, "want/"):
					wantFiles = append(wantFiles, file)
					continue
				}
				targ := filepath.Join(dir, file.Name)
				if err := os.MkdirAll(filepath.Dir(targ), 0777); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(targ, file.Data, 0666); err != nil {
					t.Fatal(err)
				}
			}

			var stdout, stderr bytes.Buffer
			exit := runMain(context.Background(), append([]string{"-C", dir}, args...), &stdout, &stderr)

			cmp := func(name string, have, want []byte) {
				have = trimSpace(have)
				want = trimSpace(want)
				if !bytes.Equal(have, want) {
					t.Errorf("%s:\n%s", name, have)
					t.Errorf("want:\n%s", want)
				}
			}
			cmp("stderr", stderr.Bytes(), wantStderr.Data)
			cmp("stdout", stdout.Bytes(), wantStdout.Data)
			if exit != wantExit {
				t.Errorf("exit status %d, want %d", exit, wantExit)
			}
			for _, want := range wantFiles {
				name := strings.TrimPrefix(want.Name, "want/")
				have, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					t.Error(err)
					continue
				}
				cmp(name, have, want.Data)
			}
		})
	}
}

func parseScript(t *testing.T, comment string) (args []string, exit int) {
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "exit "):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "exit "))
			if err != nil {
				t.Fatalf("bad exit line %q", line)
			}
			exit = n
		case args == nil:
			args = strings.Fields(line)
		default:
			t.Fatalf("unexpected script line %q", line)
		}
	}
	if args == nil {
		t.Fatal("script has no command line")
	}
	return args, exit
}

func trimSpace(data []byte) []byte {
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " ")
	}
	return bytes.Join(lines, []byte("\n"))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		args []string
		exit int
		want string
	}{
		{[]string{"check", "--no-such-flag"}, 2, "migrator: usage: unknown flag: --no-such-flag\n"},
		{[]string{"rules", "extra"}, 2, "migrator: usage: rules takes no arguments\n"},
		{[]string{"--log-level", "loud", "rules"}, 2, "migrator: usage: unknown log level \"loud\"\n"},
		{[]string{"--format", "xml", "check"}, 2, "migrator: usage: unknown format \"xml\" (want json, sarif, text)\n"},
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module m\n"), 0666); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		exit := runMain(context.Background(), append([]string{"-C", dir}, tt.args...), &stdout, &stderr)
		if exit != tt.exit {
			t.Errorf("%v: exit %d, want %d", tt.args, exit, tt.exit)
		}
		if !strings.HasPrefix(stderr.String(), tt.want) {
			t.Errorf("%v: stderr = %q, want prefix %q", tt.args, stderr.String(), tt.want)
		}
	}
}
