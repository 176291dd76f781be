// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	}))
	must(v.RegisterValidation("typename", func(fl validator.FieldLevel) bool {
		return isTypeName(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// isTypeName reports whether s has the form importpath.Name.
func isTypeName(s string) bool {
	i := strings.LastIndex(s, ".")
	if i <= 0 {
		return false
	}
	path, name := s[:i], s[i+1:]
	return token.IsIdentifier(name) && module.CheckImportPath(path) == nil
}

// check validates a single rule.
func check(r *Rule) error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	src := make(map[string]bool)
	dst := make(map[string]bool)
	for _, m := range r.Mappings {
		if src[m.Source] {
			return fmt.Errorf("duplicate source argument %s", m.Source)
		}
		if dst[m.Destination] {
			return fmt.Errorf("duplicate destination argument %s", m.Destination)
		}
		src[m.Source] = true
		dst[m.Destination] = true
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "goident":
		return fmt.Sprintf("%s: %q is not a Go identifier", field, fe.Value())
	case "typename":
		return fmt.Sprintf("%s: %q is not of the form importpath.Type", field, fe.Value())
	}
	return fmt.Sprintf("%s: invalid value %q (%s)", field, fe.Value(), fe.Tag())
}
