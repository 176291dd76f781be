// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Migrator rewrites calls of obsolete methods into calls of their replacements.
//
// Usage:
//
//	migrator [flags] check [--fail] [packages]
//	migrator [flags] fix [--diff] [packages]
//	migrator [flags] rules
//
// Migrator reads a list of rules, each naming an obsolete method, the
// method that replaces it, and how the arguments of the old call carry
// over to the new one. The check command reports every call of an
// obsolete method in the named packages (default "."). The fix command
// rewrites those calls. The rules command validates the rule file and
// lists its rules.
//
// # Rules
//
// By default, migrator reads migrator.json in the root of the current module.
// The --rules flag names another file; a name ending in .yaml or .yml
// is read as YAML. A missing or empty rule file means there is nothing
// to migrate. A rule file is a list of records:
//
//	[
//		{
//			"source": {"classFullName": "example.com/bar.Bar", "methodName": "ObsoleteMethod"},
//			"destination": {"classFullName": "example.com/newbar.NewBar", "methodName": "NewMethod"},
//			"mappings": [{"sourceArgument": "param1", "destinationArgument": "newParam"}]
//		}
//	]
//
// A class full name is a package import path followed by a dot and the
// name of a type. A call matches a rule when it calls the source method on
// a value of the source type or a pointer to it, as resolved by the type
// checker. A call through an interface matches a rule naming the
// interface, not the types implementing it. Calls of function values
// are not matched.
//
// Arguments are known by the names of the parameters they bind to in the
// obsolete method. The rewritten call passes the mapped arguments in the
// order of the mappings and drops the arguments that have no mapping.
// A rule file with an unknown key, a malformed name, or two rules for the
// same source method is an error.
//
// # Check
//
// The check command prints one line per obsolete call:
//
//	foo/foo.go:10:2: warning: call to m/bar.Bar.ObsoleteMethod is obsolete; use m/newbar.NewBar.NewMethod [MIG001]
//
// The --format flag selects json for a JSON array of diagnostics or sarif
// for a SARIF 2.1.0 log. With --fail, check exits with status 3 when it
// finds any obsolete call.
//
// # Fix
//
// The fix command rewrites a call such as
//
//	func (f *Foo) Do() {
//		f.bar.ObsoleteMethod(123, "x")
//	}
//
// to call the replacement through a field of the receiver's type:
//
//	func (f *Foo) Do() {
//		f.newBar.NewMethod(123)
//	}
//
// If the type already has an unexported field of the replacement type
// that is only set by its constructor, fix uses it. Otherwise fix adds the
// field, adds a parameter of the same name to the constructor (NewFoo or
// newFoo), assigns the parameter to the field before the constructor
// returns, and imports the replacement's package. If the type has no
// constructor, fix adds one. The --holder-prefix flag sets a prefix for
// the names of added fields.
//
// Fix rewrites one call at a time and type-checks the edited packages
// again before the next, so all calls in one type share one field.
// Callers of a constructor that gained a parameter no longer compile;
// fix reports them as warnings and leaves them to the user.
//
// Calls that fix cannot rewrite are reported on standard error and left
// alone: calls outside methods, calls in methods with an unnamed receiver,
// and calls in types whose constructor does not end by returning the new
// value. Packages that do not type-check are not rewritten.
//
// By default, fix writes changes back to the disk.
// The --diff flag causes fix to print a diff of the intended changes instead.
//
// # Flags
//
// The flags shared by all commands are:
//
//	-C dir             run as if started in dir
//	--rules file       rule file
//	--format f         diagnostic format: text, json, sarif
//	--holder-prefix p  prefix for added field names
//	--tests            include test files
//	--log-level l      log level; also $MIGRATOR_LOG_LEVEL (default warn)
//	-v                 log at debug level
//
// See also the migratevet command, which runs the same check as a vet tool.
package main
