// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rules defines migration rules and the configuration index
// that maps an obsolete method to its replacement.
//
// A rule file is a list of records:
//
//	[
//		{
//			"source": {"classFullName": "example.com/bar.Bar", "methodName": "ObsoleteMethod"},
//			"destination": {"classFullName": "example.com/newbar.NewBar", "methodName": "NewMethod"},
//			"mappings": [{"sourceArgument": "param1", "destinationArgument": "newParam"}]
//		}
//	]
//
// A class full name is an import path followed by a dot and a type name.
// The same records may be written in YAML.
package rules

import (
	"fmt"
	"sort"
	"strings"
)

// An Endpoint names a method by its owning type and method name.
type Endpoint struct {
	Type   string `json:"classFullName" yaml:"classFullName" validate:"required,typename"`
	Method string `json:"methodName" yaml:"methodName" validate:"required,goident"`
}

// Package returns the import path of the endpoint's owning type.
func (e Endpoint) Package() string {
	i := strings.LastIndex(e.Type, ".")
	if i < 0 {
		return ""
	}
	return e.Type[:i]
}

// Name returns the short name of the endpoint's owning type.
func (e Endpoint) Name() string {
	return e.Type[strings.LastIndex(e.Type, ".")+1:]
}

func (e Endpoint) String() string {
	return e.Type + "." + e.Method
}

// An ArgumentMapping carries one argument of the obsolete call
// over to the replacement call under a new name.
type ArgumentMapping struct {
	Source      string `json:"sourceArgument" yaml:"sourceArgument" validate:"required,goident"`
	Destination string `json:"destinationArgument" yaml:"destinationArgument" validate:"required,goident"`
}

// A Rule maps calls of Source to calls of Destination.
// Arguments without a mapping are dropped from the rewritten call.
type Rule struct {
	Source      Endpoint          `json:"source" yaml:"source"`
	Destination Endpoint          `json:"destination" yaml:"destination"`
	Mappings    []ArgumentMapping `json:"mappings" yaml:"mappings" validate:"dive"`
}

// A Key identifies a rule by its source method.
type Key struct {
	Type   string
	Method string
}

func (k Key) String() string {
	return k.Type + "." + k.Method
}

// Key returns the key the rule is indexed under.
func (r *Rule) Key() Key {
	return Key{r.Source.Type, r.Source.Method}
}

// Mapping returns the index and the mapping for the source argument name.
func (r *Rule) Mapping(source string) (int, ArgumentMapping, bool) {
	for i, m := range r.Mappings {
		if m.Source == source {
			return i, m, true
		}
	}
	return -1, ArgumentMapping{}, false
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Source.String())
	b.WriteString(" -> ")
	b.WriteString(r.Destination.String())
	b.WriteString("(")
	for i, m := range r.Mappings {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.Source)
		b.WriteString("->")
		b.WriteString(m.Destination)
	}
	b.WriteString(")")
	return b.String()
}

// A Configuration is the indexed rule set of one session.
// It is never modified after construction and is safe for concurrent use.
// A nil *Configuration means no configuration: it holds no rules.
type Configuration struct {
	rules map[Key]*Rule
}

// New validates the rules and indexes them by source method.
func New(list ...Rule) (*Configuration, error) {
	c := &Configuration{rules: make(map[Key]*Rule, len(list))}
	first := make(map[Key]int)
	for i := range list {
		r := &list[i]
		if err := check(r); err != nil {
			return nil, &ConfigurationError{Rule: i, Err: err}
		}
		k := r.Key()
		if j, ok := first[k]; ok {
			return nil, &ConfigurationError{Rule: i, Err: fmt.Errorf("duplicate source %v (also rules[%d])", k, j)}
		}
		first[k] = i
		c.rules[k] = r
	}
	return c, nil
}

// Lookup returns the rule for method of typ, or nil if there is none.
func (c *Configuration) Lookup(typ, method string) *Rule {
	if c == nil {
		return nil
	}
	return c.rules[Key{typ, method}]
}

// Len returns the number of rules.
func (c *Configuration) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Rules returns the rules sorted by key.
func (c *Configuration) Rules() []*Rule {
	if c == nil {
		return nil
	}
	list := make([]*Rule, 0, len(c.rules))
	for _, r := range c.rules {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		ki, kj := list[i].Key(), list[j].Key()
		if ki.Type != kj.Type {
			return ki.Type < kj.Type
		}
		return ki.Method < kj.Method
	})
	return list
}
