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

// Package workspace implements the Workspace facade (spec §4.8): the
// stable API back-ends use to iterate targets, walk the dependency graph,
// resolve conditional attribute values, enumerate sources, collect
// effective flags, and commit the sandbox, for one baked configuration
// at a time.
package workspace

import (
	"path"
	"sort"

	"github.com/builderer/builderer/conditional"
	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/depgraph"
	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/matrix"
	"github.com/builderer/builderer/registry"
	"github.com/rs/zerolog/log"
)

// Workspace wraps a fully-ingested Registry and the workspace root
// directory its package paths are relative to.
type Workspace struct {
	reg  *registry.Registry
	root string
}

// New builds a Workspace over an ingested registry. root is the absolute
// workspace root directory package paths are relative to.
func New(reg *registry.Registry, root string) *Workspace {
	return &Workspace{reg: reg, root: root}
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string { return w.root }

// BakedConfigs bakes the named matrix config into its ordered list of
// baked configs (spec §4.6), along with the axes that varied.
func (w *Workspace) BakedConfigs(configName string) ([]config.Baked, []string, error) {
	rec, ok := w.reg.Config(configName)
	if !ok {
		return nil, nil, errtag.New(errtag.MissingGenerator, configName, "no config registered under name %q", configName)
	}
	baked, varying := matrix.Bake(rec)
	return baked, varying, nil
}

// Buildtool looks up a registered back-end factory by name, per spec §6.
func (w *Workspace) Buildtool(name string) (registry.BuildtoolFactory, bool) {
	return w.reg.Buildtool(name)
}

// TargetRef pairs a target with the package that declares it.
type TargetRef struct {
	Package *registry.Package
	Target  registry.Target
	ID      label.Label
}

// View is a Workspace configured against one baked config: condition-false
// targets elided, the dependency graph built, ready for resolve/
// enumerate/effective-flags/sandbox-commit calls (spec §3 "configure").
type View struct {
	ws      *Workspace
	baked   config.Baked
	refs    []TargetRef
	byLabel map[label.Label]TargetRef
	graph   *depgraph.Graph
}

// BakedConfig returns this view's baked config, satisfying registry.Facade so a
// buildtool factory can recover it.
func (v *View) BakedConfig() config.Baked { return v.baked }

// Configure elides targets whose condition is false under baked, builds
// the dependency graph over the survivors, and optionally restricts the
// working set to the transitive closure of filterTargetNames (spec §6
// "optional positional arguments Pkg:Tgt … restrict the working set").
func (w *Workspace) Configure(baked config.Baked, filterTargetNames []string) (*View, error) {
	v := &View{ws: w, baked: baked, byLabel: make(map[label.Label]TargetRef)}

	for _, pkg := range w.reg.Packages() {
		var condErr error
		kept := pkg.Filter(func(t registry.Target) bool {
			if condErr != nil {
				return false
			}
			hold, err := conditional.Eval(t.Condition(), baked)
			if err != nil {
				condErr = err
				return false
			}
			if !hold {
				log.Debug().Str("target", pkg.Name()+":"+t.Name()).Msg("elided by false condition")
			}
			return hold
		})
		if condErr != nil {
			return nil, condErr
		}
		if len(kept.Targets()) == 0 {
			continue
		}
		for _, t := range kept.Targets() {
			id := label.Label{PackagePath: pkg.Name(), TargetName: t.Name()}
			ref := TargetRef{Package: pkg, Target: t, ID: id}
			v.refs = append(v.refs, ref)
			v.byLabel[id] = ref
		}
	}

	// Stable order: packages sorted (already, via w.reg.Packages()),
	// targets in declaration order (already, via pkg.Targets()).
	sort.SliceStable(v.refs, func(i, j int) bool {
		return v.refs[i].Package.Name() < v.refs[j].Package.Name()
	})

	specs := make([]depgraph.NodeSpec, 0, len(v.refs))
	for _, ref := range v.refs {
		specs = append(specs, depgraph.NodeSpec{ID: ref.ID, RawDeps: ref.Target.Deps()})
	}
	graph, err := depgraph.Build(specs, func(l label.Label) bool {
		_, ok := v.byLabel[l]
		return ok
	})
	if err != nil {
		return nil, err
	}
	v.graph = graph

	if len(filterTargetNames) > 0 {
		if err := v.restrictTo(filterTargetNames); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (v *View) restrictTo(names []string) error {
	keep := make(map[label.Label]bool)
	for _, n := range names {
		l, err := label.Parse(n, "")
		if err != nil {
			return err
		}
		if _, ok := v.byLabel[l]; !ok {
			return errtag.New(errtag.UnknownDependency, l.String(), "requested target %q does not exist in this configuration", l)
		}
		keep[l] = true
		for _, d := range v.graph.AllDependencies(l) {
			keep[d] = true
		}
	}

	var refs []TargetRef
	byLabel := make(map[label.Label]TargetRef)
	for _, ref := range v.refs {
		if keep[ref.ID] {
			refs = append(refs, ref)
			byLabel[ref.ID] = ref
		}
	}
	v.refs = refs
	v.byLabel = byLabel

	specs := make([]depgraph.NodeSpec, 0, len(refs))
	for _, ref := range refs {
		specs = append(specs, depgraph.NodeSpec{ID: ref.ID, RawDeps: ref.Target.Deps()})
	}
	graph, err := depgraph.Build(specs, func(l label.Label) bool {
		_, ok := byLabel[l]
		return ok
	})
	if err != nil {
		return err
	}
	v.graph = graph
	return nil
}

// IterTargets yields targets in the stable order spec §4.8 requires:
// packages sorted, targets in declaration order.
func (v *View) IterTargets() []TargetRef {
	return append([]TargetRef(nil), v.refs...)
}

// Lookup finds a target by label within this view.
func (v *View) Lookup(id label.Label) (TargetRef, bool) {
	ref, ok := v.byLabel[id]
	return ref, ok
}

// DirectDependencies returns id's unresolved deps as labels, in
// declaration order.
func (v *View) DirectDependencies(id label.Label) []label.Label {
	return v.graph.DirectDependencies(id)
}

// AllDependencies returns id's deterministic transitive post-order
// dependency closure.
func (v *View) AllDependencies(id label.Label) []label.Label {
	return v.graph.AllDependencies(id)
}

// Resolve resolves a conditional expression against this view's baked
// config (spec §4.1).
func (v *View) Resolve(expr []conditional.Expr) ([]config.Scalar, error) {
	return conditional.ResolveAll(v.baked, expr)
}

// PackageDir returns the absolute, workspace-rooted directory of a
// package.
func (v *View) PackageDir(pkgName string) string {
	return path.Join(v.ws.root, pkgName)
}
