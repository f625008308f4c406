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

// Package registry implements the target registry (spec §4.2): packages,
// the target-kind tagged union, and attribute storage, plus uniqueness
// enforcement for packages, targets, configs, and buildtools.
package registry

import "github.com/builderer/builderer/conditional"

// Kind tags which variant of the target union a Target value is.
type Kind int

const (
	KindCppLibrary Kind = iota
	KindCppBinary
	KindGitRepository
	KindGenerateFiles
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindCppLibrary:
		return "cc_library"
	case KindCppBinary:
		return "cc_binary"
	case KindGitRepository:
		return "git_repository"
	case KindGenerateFiles:
		return "generate_files"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Target is the common surface every target kind implements: identity,
// its top-level condition, its declared (unresolved) deps, and whether it
// is sandboxed.
type Target interface {
	Name() string
	Kind() Kind
	Condition() conditional.Condition
	Deps() []string
	Sandbox() bool
}

type base struct {
	NameVal string
	Cond    conditional.Condition
	DepsVal []string
}

func (b *base) Name() string                     { return b.NameVal }
func (b *base) Condition() conditional.Condition { return b.Cond }
func (b *base) Deps() []string                   { return append([]string(nil), b.DepsVal...) }

// CppLibrary is a buildable static/shared library target (spec §3).
type CppLibrary struct {
	base
	Hdrs            []conditional.Expr
	Srcs            []conditional.Expr
	PublicIncludes  []conditional.Expr
	PrivateIncludes []conditional.Expr
	PublicDefines   []conditional.Expr
	PrivateDefines  []conditional.Expr
	CFlags          []conditional.Expr
	CxxFlags        []conditional.Expr
	LinkFlags       []conditional.Expr
	SandboxVal      bool
}

func (t *CppLibrary) Kind() Kind    { return KindCppLibrary }
func (t *CppLibrary) Sandbox() bool { return t.SandboxVal }

// NewCppLibrary builds a CppLibrary target.
func NewCppLibrary(name string, cond conditional.Condition, deps []string, sandbox bool) *CppLibrary {
	return &CppLibrary{base: base{NameVal: name, Cond: cond, DepsVal: deps}, SandboxVal: sandbox}
}

// CppBinary is a buildable executable target (spec §3).
type CppBinary struct {
	base
	Srcs            []conditional.Expr
	PrivateIncludes []conditional.Expr
	PrivateDefines  []conditional.Expr
	CFlags          []conditional.Expr
	CxxFlags        []conditional.Expr
	LinkFlags       []conditional.Expr
	OutputPath      *string
	SandboxVal      bool
}

func (t *CppBinary) Kind() Kind    { return KindCppBinary }
func (t *CppBinary) Sandbox() bool { return t.SandboxVal }

// NewCppBinary builds a CppBinary target.
func NewCppBinary(name string, cond conditional.Condition, deps []string, sandbox bool) *CppBinary {
	return &CppBinary{base: base{NameVal: name, Cond: cond, DepsVal: deps}, SandboxVal: sandbox}
}

// GitRepository is a non-buildable target whose "output" is a checked-out
// source tree materialized by the external VCS fetcher under
// <sandbox_root>/.vcs/<pkg>/<target> (spec §3, §4.3).
type GitRepository struct {
	base
	Remote string
	Sha    string
}

func (t *GitRepository) Kind() Kind    { return KindGitRepository }
func (t *GitRepository) Sandbox() bool { return true }

// NewGitRepository builds a GitRepository target.
func NewGitRepository(name string, cond conditional.Condition, remote, sha string) *GitRepository {
	return &GitRepository{base: base{NameVal: name, Cond: cond}, Remote: remote, Sha: sha}
}

// GenerateFiles is a target whose outputs are produced by an external
// generator script and materialized under the target's sandbox out/
// directory by the back-end (spec §3, SPEC_FULL.md §3).
type GenerateFiles struct {
	base
	Generator string
	Inputs    []conditional.Expr
	Outputs   []conditional.Expr
}

func (t *GenerateFiles) Kind() Kind    { return KindGenerateFiles }
func (t *GenerateFiles) Sandbox() bool { return true }

// NewGenerateFiles builds a GenerateFiles target.
func NewGenerateFiles(name string, cond conditional.Condition, deps []string, generator string) *GenerateFiles {
	return &GenerateFiles{base: base{NameVal: name, Cond: cond, DepsVal: deps}, Generator: generator}
}

// Alias forwards to another target's label; resolved by ingestion rule
// wrappers (spec §4.2, §9 "Rule wrappers"), not by the core.
type Alias struct {
	base
	Actual string
}

func (t *Alias) Kind() Kind    { return KindAlias }
func (t *Alias) Sandbox() bool { return false }

// NewAlias builds an Alias target.
func NewAlias(name string, cond conditional.Condition, actual string) *Alias {
	return &Alias{base: base{NameVal: name, Cond: cond}, Actual: actual}
}
