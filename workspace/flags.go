// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workspace

import (
	"github.com/builderer/builderer/conditional"
	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/pathexpand"
	"github.com/builderer/builderer/registry"
)

// Flags is the effective, fully-propagated attribute set a back-end needs
// to invoke a compiler/linker for one target under one baked config
// (spec §4.5).
type Flags struct {
	Includes  []string
	Defines   []string
	CFlags    []string
	CxxFlags  []string
	LinkFlags []string
}

// resolveAndExpand resolves a conditional attribute value to scalar
// strings, then expands any {P:T} cross-target references each string
// contains (spec §4.3), against id's transitive dependency closure.
func (v *View) resolveAndExpand(id label.Label, exprs []conditional.Expr, kind pathexpand.AttrKind, transitive map[label.Label]bool) ([]string, error) {
	values, err := v.Resolve(exprs)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i, val := range values {
		s, ok := val.(string)
		if !ok {
			return nil, errtag.New(errtag.MalformedPathReference, id.String(), "expected string attribute value, got %T", val)
		}
		expanded, err := pathexpand.Expand(s, id, kind, transitive, v.Root)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// EffectiveFlags implements spec §4.5's attribute propagation: a target's
// own private (and, for libraries, public) includes/defines, followed by
// the public includes/defines of every CppLibrary in its all_dependencies
// order, plus link flags collected the same way.
func (v *View) EffectiveFlags(id label.Label) (Flags, error) {
	ref, ok := v.byLabel[id]
	if !ok {
		return Flags{}, errtag.New(errtag.UnknownDependency, id.String(), "target %q not present in this configuration", id)
	}

	transitive := make(map[label.Label]bool)
	for _, d := range v.AllDependencies(id) {
		transitive[d] = true
	}

	var flags Flags

	switch t := ref.Target.(type) {
	case *registry.CppLibrary:
		if err := v.appendAll(&flags.Includes, id, t.PrivateIncludes, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.Includes, id, t.PublicIncludes, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.Defines, id, t.PrivateDefines, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.Defines, id, t.PublicDefines, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.CFlags, id, t.CFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.CxxFlags, id, t.CxxFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.LinkFlags, id, t.LinkFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}

	case *registry.CppBinary:
		if err := v.appendAll(&flags.Includes, id, t.PrivateIncludes, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.Defines, id, t.PrivateDefines, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.CFlags, id, t.CFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.CxxFlags, id, t.CxxFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.LinkFlags, id, t.LinkFlags, pathexpand.KindInclude, transitive); err != nil {
			return Flags{}, err
		}

	default:
		return Flags{}, errtag.New(errtag.UnreferencedPathTarget, id.String(), "target kind %v has no effective flags", ref.Target.Kind())
	}

	for _, dep := range v.AllDependencies(id) {
		depRef, ok := v.byLabel[dep]
		if !ok {
			continue
		}
		lib, ok := depRef.Target.(*registry.CppLibrary)
		if !ok {
			continue
		}
		// A dependency's own {P:T} references are checked against its own
		// transitive closure, not the consumer's, per spec §4.3, §8
		// invariant 6.
		depTransitive := make(map[label.Label]bool)
		for _, d := range v.AllDependencies(dep) {
			depTransitive[d] = true
		}
		if err := v.appendAll(&flags.Includes, dep, lib.PublicIncludes, pathexpand.KindInclude, depTransitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.Defines, dep, lib.PublicDefines, pathexpand.KindInclude, depTransitive); err != nil {
			return Flags{}, err
		}
		if err := v.appendAll(&flags.LinkFlags, dep, lib.LinkFlags, pathexpand.KindInclude, depTransitive); err != nil {
			return Flags{}, err
		}
	}

	return flags, nil
}

func (v *View) appendAll(dst *[]string, id label.Label, exprs []conditional.Expr, kind pathexpand.AttrKind, transitive map[label.Label]bool) error {
	vals, err := v.resolveAndExpand(id, exprs, kind, transitive)
	if err != nil {
		return err
	}
	*dst = append(*dst, vals...)
	return nil
}
