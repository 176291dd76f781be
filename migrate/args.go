// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package migrate

import "go/types"

// remap projects the arguments of the obsolete call onto the
// destination method. Each argument is known by the name of the
// parameter it binds to in the resolved signature; arguments whose
// name has no mapping are dropped. The result follows the order of
// the rule's mappings, which is the destination's parameter order.
func (s *Synthesizer) remap(f Finding) ([]string, error) {
	call, m := f.Call, f.Method
	if len(call.Args) == 1 {
		if tuple, ok := s.Info.TypeOf(call.Args[0]).(*types.Tuple); ok && tuple.Len() > 1 {
			return nil, noAnchor("call passes the %d results of %s", tuple.Len(), s.text(call.Args[0]))
		}
	}
	required := len(m.Params)
	if m.Variadic {
		required--
	}
	if len(call.Args) < required || !m.Variadic && len(call.Args) > len(m.Params) {
		return nil, noAnchor("cannot match %d arguments to %d parameters", len(call.Args), len(m.Params))
	}

	groups := make([][]string, len(f.Rule.Mappings))
	spread := -1
	for i, arg := range call.Args {
		name := m.Params[min(i, len(m.Params)-1)]
		j, _, ok := f.Rule.Mapping(name)
		if !ok {
			continue
		}
		groups[j] = append(groups[j], s.text(arg))
		if call.Ellipsis.IsValid() && i == len(call.Args)-1 {
			spread = j
		}
	}

	var args []string
	for j, g := range groups {
		if spread >= 0 && j > spread && len(g) > 0 {
			return nil, noAnchor("spread argument ... would not be last")
		}
		args = append(args, g...)
	}
	if spread >= 0 {
		args[len(args)-1] += "..."
	}
	return args, nil
}
