// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barRule = `[
	{
		"source": {"classFullName": "m/bar.Bar", "methodName": "ObsoleteMethod"},
		"destination": {"classFullName": "m/newbar.NewBar", "methodName": "NewMethod"},
		"mappings": [{"sourceArgument": "param1", "destinationArgument": "newParam"}]
	}
]`

func TestLoadBlank(t *testing.T) {
	for _, payload := range []string{"", " \n\t ", "\r\n"} {
		c, err := Load([]byte(payload))
		assert.NoError(t, err, "Load(%q)", payload)
		assert.Nil(t, c, "Load(%q)", payload)
		assert.Nil(t, c.Lookup("m/bar.Bar", "ObsoleteMethod"))
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Rules())
	}

	c, err := Load(nil)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestLoadEmptyList(t *testing.T) {
	for _, payload := range []string{"[]", "null"} {
		c, err := Load([]byte(payload))
		require.NoError(t, err, "Load(%q)", payload)
		require.NotNil(t, c)
		assert.Equal(t, 0, c.Len())
		assert.Nil(t, c.Lookup("m/bar.Bar", "ObsoleteMethod"))
	}
}

func TestLoad(t *testing.T) {
	c, err := Load([]byte(barRule))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	r := c.Lookup("m/bar.Bar", "ObsoleteMethod")
	require.NotNil(t, r)
	assert.Equal(t, "m/newbar", r.Destination.Package())
	assert.Equal(t, "NewBar", r.Destination.Name())
	assert.Equal(t, "NewMethod", r.Destination.Method)
	assert.Equal(t, Key{"m/bar.Bar", "ObsoleteMethod"}, r.Key())
	assert.Equal(t, "m/bar.Bar.ObsoleteMethod -> m/newbar.NewBar.NewMethod(param1->newParam)", r.String())

	i, m, ok := r.Mapping("param1")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "newParam", m.Destination)
	_, _, ok = r.Mapping("label")
	assert.False(t, ok)

	assert.Nil(t, c.Lookup("m/bar.Bar", "OtherMethod"))
	assert.Nil(t, c.Lookup("m/other.Bar", "ObsoleteMethod"))
}

func TestLoadYAML(t *testing.T) {
	const payload = `
- source:
    classFullName: m/bar.Bar
    methodName: ObsoleteMethod
  destination:
    classFullName: m/newbar.NewBar
    methodName: NewMethod
  mappings:
    - sourceArgument: param1
      destinationArgument: newParam
`
	c, err := LoadYAML([]byte(payload))
	require.NoError(t, err)
	jc, err := Load([]byte(barRule))
	require.NoError(t, err)
	assert.Equal(t, jc.Rules(), c.Rules())

	c, err = LoadYAML([]byte("\n  \n"))
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		rule    int
		msg     string
	}{
		{"syntax", `[{"source":`, -1, "decoding rules"},
		{"object", `{"source": {}}`, -1, "decoding rules"},
		{"unknown field", `[{"source": {"classFullName": "m/bar.Bar", "methodName": "M", "extra": 1}}]`, -1, "unknown field"},
		{"trailing", `[] []`, -1, "unexpected data"},
		{"missing method", `[{"source": {"classFullName": "m/bar.Bar"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}}]`, 0, "source.methodName is required"},
		{"bad type", `[{"source": {"classFullName": "Bar", "methodName": "M"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}}]`, 0, "not of the form importpath.Type"},
		{"bad argument", `[{"source": {"classFullName": "m/a.A", "methodName": "M"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}, "mappings": [{"sourceArgument": "1x", "destinationArgument": "y"}]}]`, 0, "mappings[0].sourceArgument"},
		{"duplicate source argument", `[{"source": {"classFullName": "m/a.A", "methodName": "M"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}, "mappings": [{"sourceArgument": "x", "destinationArgument": "y"}, {"sourceArgument": "x", "destinationArgument": "z"}]}]`, 0, "duplicate source argument x"},
		{"duplicate destination argument", `[{"source": {"classFullName": "m/a.A", "methodName": "M"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}, "mappings": [{"sourceArgument": "x", "destinationArgument": "y"}, {"sourceArgument": "w", "destinationArgument": "y"}]}]`, 0, "duplicate destination argument y"},
		{"duplicate key", `[
			{"source": {"classFullName": "m/a.A", "methodName": "M"}, "destination": {"classFullName": "m/b.B", "methodName": "N"}},
			{"source": {"classFullName": "m/a.A", "methodName": "M"}, "destination": {"classFullName": "m/c.C", "methodName": "N"}}
		]`, 1, "duplicate source m/a.A.M (also rules[0])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load([]byte(tt.payload))
			assert.Nil(t, c)
			require.Error(t, err)
			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "error %v is not a *ConfigurationError", err)
			assert.Equal(t, tt.rule, cerr.Rule)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.NoError(t, err)
	assert.Nil(t, c)

	name := filepath.Join(dir, "migrator.json")
	require.NoError(t, os.WriteFile(name, []byte(barRule), 0666))
	c, err = LoadFile(name)
	require.NoError(t, err)
	assert.NotNil(t, c.Lookup("m/bar.Bar", "ObsoleteMethod"))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- source: [1, 2]\n"), 0666))
	_, err = LoadFile(bad)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, bad, cerr.File)
	assert.Contains(t, err.Error(), bad+": ")
}

func TestRulesSorted(t *testing.T) {
	c, err := New(
		Rule{Source: Endpoint{"m/b.B", "M"}, Destination: Endpoint{"m/x.X", "N"}},
		Rule{Source: Endpoint{"m/a.A", "Z"}, Destination: Endpoint{"m/x.X", "N"}},
		Rule{Source: Endpoint{"m/a.A", "M"}, Destination: Endpoint{"m/x.X", "N"}},
	)
	require.NoError(t, err)
	var keys []string
	for _, r := range c.Rules() {
		keys = append(keys, r.Key().String())
	}
	assert.Equal(t, []string{"m/a.A.M", "m/a.A.Z", "m/b.B.M"}, keys)
}
