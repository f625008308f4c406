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

// Package depgraph implements the dependency graph (spec §4.5): building
// edges from declared deps, cycle detection, and the two canonical walks
// (direct and transitive-post-order) every back-end uses to collect
// effective attributes.
package depgraph

import (
	"strings"

	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
)

// NodeSpec is the input to Build for a single (Package, Target): its
// identity and its raw, unresolved deps list exactly as declared (":x"
// shorthand included).
type NodeSpec struct {
	ID      label.Label
	RawDeps []string
}

// Graph is the constructed dependency graph: nodes plus, per node, its
// resolved direct-dependency edges in declaration order.
type Graph struct {
	order []label.Label
	edges map[label.Label][]label.Label
}

// Build parses every node's raw deps against its own package (for ":x"
// shorthand), validates each resolves to a known node via exists, and
// checks the result is acyclic. Node order is preserved from specs, which
// callers should supply in the stable (sorted-package, declaration-order)
// order spec §4.8 promises for iter_targets.
func Build(specs []NodeSpec, exists func(label.Label) bool) (*Graph, error) {
	g := &Graph{edges: make(map[label.Label][]label.Label, len(specs))}
	for _, s := range specs {
		g.order = append(g.order, s.ID)
	}

	for _, s := range specs {
		var deps []label.Label
		for _, raw := range s.RawDeps {
			l, err := label.Parse(raw, s.ID.PackagePath)
			if err != nil {
				return nil, err
			}
			if !exists(l) {
				return nil, errtag.New(errtag.UnknownDependency, s.ID.String(),
					"%q depends on undefined target %q", s.ID, l)
			}
			deps = append(deps, l)
		}
		g.edges[s.ID] = deps
	}

	if err := g.detectCycle(); err != nil {
		return nil, err
	}
	return g, nil
}

// DirectDependencies returns the unresolved deps list as labels, in
// declaration order (spec §4.5).
func (g *Graph) DirectDependencies(id label.Label) []label.Label {
	return append([]label.Label(nil), g.edges[id]...)
}

// AllDependencies returns the deterministic post-order DFS from id,
// visiting children in the order they appear in deps; the result excludes
// id itself and is duplicate-free (spec §4.5).
func (g *Graph) AllDependencies(id label.Label) []label.Label {
	visited := map[label.Label]bool{id: true}
	var order []label.Label
	var visit func(label.Label)
	visit = func(n label.Label) {
		for _, d := range g.edges[n] {
			if !visited[d] {
				visited[d] = true
				visit(d)
				order = append(order, d)
			}
		}
	}
	visit(id)
	return order
}

const (
	white = iota
	gray
	black
)

func (g *Graph) detectCycle() error {
	color := make(map[label.Label]int, len(g.order))
	var stack []label.Label

	var visit func(label.Label) error
	visit = func(n label.Label) error {
		color[n] = gray
		stack = append(stack, n)
		for _, d := range g.edges[n] {
			switch color[d] {
			case gray:
				cycle := cyclePath(stack, d)
				return errtag.New(errtag.DependencyCycle, formatCycle(cycle),
					"dependency cycle detected: %s", formatCycle(cycle))
			case white:
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		color[n] = black
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, n := range g.order {
		if color[n] == white {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePath extracts the portion of stack from the first occurrence of
// target to the end, then appends target again to show the closed loop.
func cyclePath(stack []label.Label, target label.Label) []label.Label {
	for i, n := range stack {
		if n.Equal(target) {
			cycle := append([]label.Label(nil), stack[i:]...)
			return append(cycle, target)
		}
	}
	return append(append([]label.Label(nil), stack...), target)
}

func formatCycle(cycle []label.Label) string {
	parts := make([]string, len(cycle))
	for i, n := range cycle {
		parts[i] = n.String()
	}
	return strings.Join(parts, " -> ")
}
