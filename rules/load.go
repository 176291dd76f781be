// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Load parses a JSON rule payload.
// A nil or blank payload means no configuration: Load returns nil, nil.
func Load(payload []byte) (*Configuration, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	var list []Rule
	if err := dec.Decode(&list); err != nil {
		return nil, &ConfigurationError{Rule: -1, Err: xerrors.Errorf("decoding rules: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ConfigurationError{Rule: -1, Err: xerrors.New("unexpected data after rule list")}
	}
	return New(list...)
}

// LoadYAML parses a YAML rule payload.
// A payload holding no document means no configuration.
func LoadYAML(payload []byte) (*Configuration, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(payload))
	dec.KnownFields(true)
	var list []Rule
	if err := dec.Decode(&list); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &ConfigurationError{Rule: -1, Err: xerrors.Errorf("decoding rules: %w", err)}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, &ConfigurationError{Rule: -1, Err: xerrors.New("unexpected document after rule list")}
	}
	return New(list...)
}

// LoadFile reads and parses the named rule file,
// as YAML if its extension is .yaml or .yml and as JSON otherwise.
// A missing file means no configuration.
func LoadFile(name string) (*Configuration, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ConfigurationError{File: name, Rule: -1, Err: err}
	}
	load := Load
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		load = LoadYAML
	}
	c, err := load(data)
	if err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			cerr.File = name
		}
		return nil, err
	}
	return c, nil
}
