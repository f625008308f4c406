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
	"strings"

	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/globfs"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/pathexpand"
)

// globBase resolves the (base, tail) pair for a single glob pattern entry,
// per spec §4.4: "resolved relative to the glob's base: the package
// directory by default, or the expanded root when the pattern begins with
// {P:T}." Only a literal leading "{P:T}" prefix is recognized as a base
// switch; any further "{...}" later in the string is not a valid glob
// pattern character and is left for literal (non-matching) comparison.
func (v *View) globBase(pattern string, current label.Label, kind pathexpand.AttrKind, transitiveDeps map[label.Label]bool) (base, tail string, err error) {
	if !strings.HasPrefix(pattern, "{") {
		return v.PackageDir(current.PackagePath), pattern, nil
	}
	end := strings.IndexByte(pattern, '}')
	if end < 0 {
		return "", "", errtag.New(errtag.MalformedPathReference, pattern, "unbalanced '{' in glob pattern %q", pattern)
	}
	inner := pattern[1:end]
	ref, err := label.Parse(inner, current.PackagePath)
	if err != nil {
		return "", "", err
	}
	if !transitiveDeps[ref] {
		return "", "", errtag.New(errtag.UnreferencedPathTarget, ref.String(),
			"%q references %q which is not in its transitive deps", current, ref)
	}
	root, err := v.Root(ref, kind)
	if err != nil {
		return "", "", err
	}
	tail = strings.TrimPrefix(pattern[end+1:], "/")
	return root, tail, nil
}

// EnumerateSources implements spec §4.4 + §4.3 + the workspace facade's
// enumerate_sources (§4.8): it resolves patterns (already flattened to
// scalar strings by the caller via conditional.Resolve), expands any
// leading {P:T} base, globs each against fsys, and returns deduplicated,
// lexicographically-ordered, workspace- (or sandbox-) absolute paths.
func (v *View) EnumerateSources(fsys globfs.FS, id label.Label, patterns []config.Scalar, kind pathexpand.AttrKind) ([]string, error) {
	matches, err := v.EnumerateSourceMatches(fsys, id, patterns, kind)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = joinBaseRel(m.Base, m.Rel)
	}
	return out, nil
}

// EnumerateSourceMatches is EnumerateSources' structured form, preserving
// each match's resolved glob base; the sandbox layer needs this to mirror
// a file at its position beneath its declaring glob's base directory
// (spec §4.7 Layout), which a flattened absolute path would lose whenever
// two patterns in the same attribute resolve to different bases.
func (v *View) EnumerateSourceMatches(fsys globfs.FS, id label.Label, patterns []config.Scalar, kind pathexpand.AttrKind) ([]globfs.Match, error) {
	transitive := make(map[label.Label]bool)
	for _, d := range v.AllDependencies(id) {
		transitive[d] = true
	}

	strPatterns := make([]string, len(patterns))
	for i, p := range patterns {
		s, ok := p.(string)
		if !ok {
			return nil, errtag.New(errtag.MalformedPathReference, id.String(), "glob pattern must be a string, got %T", p)
		}
		strPatterns[i] = s
	}

	resolver := func(pattern string) (string, string, error) {
		return v.globBase(pattern, id, kind, transitive)
	}

	return globfs.EnumerateMatches(fsys, resolver, strPatterns)
}

func joinBaseRel(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return strings.TrimSuffix(base, "/") + "/" + rel
}
