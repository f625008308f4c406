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

package registry

import (
	"sort"

	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/errtag"
)

// Facade is the stable API a back-end generator factory receives (spec
// §4.8). It is declared here, rather than in package workspace, purely to
// let BuildtoolFactory reference it without an import cycle; the concrete
// implementation lives in package workspace.
type Facade interface {
	BakedConfig() config.Baked
}

// BuildtoolFactory is the back-end contract of spec §4.8 and §6: a
// generator is a factory taking the workspace facade, from which it reads
// the baked config (Facade.BakedConfig), and performing idempotent writes
// under build_root.
type BuildtoolFactory func(facade Facade) error

// RuleFunc is a user-defined rule wrapper (spec §4.2 add_rule, §9 "Rule
// wrappers"). It always reduces to a builtin target constructor; rule
// wrappers themselves live in the ingestion collaborator, which calls
// AddRule to register the closed set it exposes on a package handle.
type RuleFunc func(pkg *Package, name string) (Target, error)

// Registry is the C2 contract of spec §4.2: add_buildtool, add_config,
// add_package/add_target, add_rule, with uniqueness enforced for each.
type Registry struct {
	buildtools map[string]BuildtoolFactory
	configs    map[string]*config.Record
	configOrd  []string
	rules      map[string]RuleFunc
	packages   map[string]*Package
	pkgOrder   []string
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{
		buildtools: make(map[string]BuildtoolFactory),
		configs:    make(map[string]*config.Record),
		rules:      make(map[string]RuleFunc),
		packages:   make(map[string]*Package),
	}
}

// AddBuildtool registers a back-end factory under a unique name.
func (r *Registry) AddBuildtool(name string, factory BuildtoolFactory) error {
	if _, exists := r.buildtools[name]; exists {
		return errtag.New(errtag.DuplicateConfig, name, "buildtool %q has already been registered", name)
	}
	r.buildtools[name] = factory
	return nil
}

// Buildtool looks up a registered back-end factory.
func (r *Registry) Buildtool(name string) (BuildtoolFactory, bool) {
	f, ok := r.buildtools[name]
	return f, ok
}

// AddConfig registers a named ConfigRecord (matrix or baked). Duplicate
// names are a fatal DuplicateConfig.
func (r *Registry) AddConfig(name string, rec *config.Record) error {
	if _, exists := r.configs[name]; exists {
		return errtag.New(errtag.DuplicateConfig, name, "config %q has already been registered", name)
	}
	r.configs[name] = rec
	r.configOrd = append(r.configOrd, name)
	return nil
}

// Config looks up a registered ConfigRecord by name.
func (r *Registry) Config(name string) (*config.Record, bool) {
	rec, ok := r.configs[name]
	return rec, ok
}

// AddRule registers a user-defined rule wrapper by name. Duplicate names
// are a fatal error, mirroring the original's RulesContext.add_rule.
func (r *Registry) AddRule(name string, fn RuleFunc) error {
	if _, exists := r.rules[name]; exists {
		return errtag.New(errtag.DuplicateConfig, name, "rule %q already registered", name)
	}
	r.rules[name] = fn
	return nil
}

// Rule looks up a registered rule wrapper by name.
func (r *Registry) Rule(name string) (RuleFunc, bool) {
	fn, ok := r.rules[name]
	return fn, ok
}

// AddPackage registers a package handle bound to dir. It is an error for
// name not to equal dir (spec §4.2: "it is an error for the supplied name
// not to match that directory") and an error for the name to already
// exist (DuplicatePackage).
func (r *Registry) AddPackage(name string, dir string) (*Package, error) {
	if name != dir {
		return nil, errtag.New(errtag.DuplicatePackage, name,
			"package name %q does not match directory %q", name, dir)
	}
	if _, exists := r.packages[name]; exists {
		return nil, errtag.New(errtag.DuplicatePackage, name, "package %q already exists", name)
	}
	pkg := NewPackage(name, dir)
	r.packages[name] = pkg
	r.pkgOrder = append(r.pkgOrder, name)
	return pkg, nil
}

// Package looks up a package by name.
func (r *Registry) Package(name string) (*Package, bool) {
	p, ok := r.packages[name]
	return p, ok
}

// Packages returns all registered packages sorted by name, matching the
// stable iteration order the workspace facade's iter_targets promises
// (spec §4.8: "packages sorted, targets in declaration order").
func (r *Registry) Packages() []*Package {
	names := make([]string, 0, len(r.packages))
	for n := range r.packages {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*Package, len(names))
	for i, n := range names {
		out[i] = r.packages[n]
	}
	return out
}
