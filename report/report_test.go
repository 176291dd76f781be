// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"encoding/json"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsoletemigrator/migrator/rules"
)

func testConfig(t *testing.T) *rules.Configuration {
	cfg, err := rules.New(rules.Rule{
		Source:      rules.Endpoint{Type: "m/bar.Bar", Method: "ObsoleteMethod"},
		Destination: rules.Endpoint{Type: "m/newbar.NewBar", Method: "NewMethod"},
		Mappings:    []rules.ArgumentMapping{{Source: "param1", Destination: "newParam"}},
	})
	require.NoError(t, err)
	return cfg
}

func testDiagnostic(cfg *rules.Configuration) Diagnostic {
	return Diagnostic{
		ID:       "MIG001",
		Category: "obsolete",
		Pos:      token.Position{Filename: "foo/foo.go", Line: 14, Column: 2},
		End:      token.Position{Filename: "foo/foo.go", Line: 14, Column: 27},
		Message:  "call to m/bar.Bar.ObsoleteMethod is obsolete; use m/newbar.NewBar.NewMethod",
		Rule:     cfg.Lookup("m/bar.Bar", "ObsoleteMethod"),
	}
}

func TestText(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	s, err := New("text", &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Report(testDiagnostic(cfg)))
	require.NoError(t, s.Close())
	assert.Equal(t,
		"foo/foo.go:14:2: warning: call to m/bar.Bar.ObsoleteMethod is obsolete; use m/newbar.NewBar.NewMethod [MIG001]\n",
		buf.String())
}

func TestTextColor(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	s, err := New("text", &buf, Options{Color: true})
	require.NoError(t, err)
	require.NoError(t, s.Report(testDiagnostic(cfg)))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "foo/foo.go:14:2")
}

func TestJSON(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	s, err := New("json", &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Report(testDiagnostic(cfg)))
	require.NoError(t, s.Close())

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "MIG001", got[0]["id"])
	assert.Equal(t, "foo/foo.go", got[0]["file"])
	assert.Equal(t, float64(14), got[0]["line"])
	assert.Equal(t, float64(27), got[0]["endColumn"])
	assert.Equal(t, "m/bar.Bar.ObsoleteMethod", got[0]["source"])
	assert.Equal(t, "m/newbar.NewBar.NewMethod", got[0]["destination"])
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	s, err := New("json", &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestSARIF(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	s, err := New("sarif", &buf, Options{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, s.Report(testDiagnostic(cfg)))
	require.NoError(t, s.Close())

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "migrator", run.Tool.Driver.Name)

	var ids []string
	for _, r := range run.Tool.Driver.Rules {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"MIG001", "MIG001/m/bar.Bar.ObsoleteMethod"}, ids)

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "MIG001/m/bar.Bar.ObsoleteMethod", res.RuleID)
	require.Len(t, res.Locations, 1)
	loc := res.Locations[0].PhysicalLocation
	assert.Equal(t, "foo/foo.go", loc.ArtifactLocation.URI)
	assert.Equal(t, 14, loc.Region.StartLine)
	assert.Equal(t, 2, loc.Region.StartColumn)
}

func TestUnknownFormat(t *testing.T) {
	_, err := New("xml", new(bytes.Buffer), Options{})
	assert.EqualError(t, err, `unknown format "xml" (want json, sarif, text)`)
}

func TestSort(t *testing.T) {
	list := []Diagnostic{
		{Pos: token.Position{Filename: "b.go", Line: 1, Column: 1}},
		{Pos: token.Position{Filename: "a.go", Line: 2, Column: 5}},
		{Pos: token.Position{Filename: "a.go", Line: 2, Column: 1}},
	}
	Sort(list)
	assert.Equal(t, "a.go:2:1", list[0].Pos.String())
	assert.Equal(t, "a.go:2:5", list[1].Pos.String())
	assert.Equal(t, "b.go:1:1", list[2].Pos.String())
}
