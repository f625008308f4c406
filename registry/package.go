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

import "github.com/builderer/builderer/errtag"

// Package is {name, dir, targets: ordered map<name, Target>} per spec §3.
// name equals its workspace-relative directory path.
type Package struct {
	name   string
	dir    string
	order  []string
	byName map[string]Target
}

// NewPackage constructs an empty package bound to dir. The caller (the
// registry, on behalf of the ingestion collaborator's add_package) is
// responsible for enforcing that name matches the script's directory.
func NewPackage(name, dir string) *Package {
	return &Package{name: name, dir: dir, byName: make(map[string]Target)}
}

func (p *Package) Name() string { return p.name }
func (p *Package) Dir() string  { return p.dir }

// AddTarget inserts a target, in declaration order. A duplicate name
// within the package is a fatal DuplicateTarget.
func (p *Package) AddTarget(t Target) error {
	if _, exists := p.byName[t.Name()]; exists {
		return errtag.New(errtag.DuplicateTarget, p.name+":"+t.Name(),
			"target %q already exists in package %q", t.Name(), p.name)
	}
	p.order = append(p.order, t.Name())
	p.byName[t.Name()] = t
	return nil
}

// Target looks up a target by name within this package.
func (p *Package) Target(name string) (Target, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// Targets returns targets in declaration order.
func (p *Package) Targets() []Target {
	out := make([]Target, len(p.order))
	for i, n := range p.order {
		out[i] = p.byName[n]
	}
	return out
}

// Filter returns a shallow copy of the package containing only targets for
// which keep returns true.
func (p *Package) Filter(keep func(Target) bool) *Package {
	np := NewPackage(p.name, p.dir)
	for _, n := range p.order {
		t := p.byName[n]
		if keep(t) {
			np.order = append(np.order, n)
			np.byName[n] = t
		}
	}
	return np
}
