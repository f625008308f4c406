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

// Package globfs implements glob-based source enumeration (spec §4.4):
// include/exclude glob pattern lists evaluated with deterministic,
// case-sensitive matching and lexicographic result ordering.
package globfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FS abstracts filesystem access for testability, grounded on
// google-blueprint's pathtools.Glob, which similarly isolates the actual
// directory walk behind a small seam.
type FS interface {
	// ReadDirNames returns the immediate entries of dir (name only, not
	// full path), or an error. A non-existent dir must return an error
	// satisfying os.IsNotExist.
	ReadDirNames(dir string) ([]fs.DirEntry, error)
}

// OSFS implements FS against the real filesystem.
type OSFS struct{}

func (OSFS) ReadDirNames(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

// Split partitions a pattern list into includes (default) and excludes
// (prefixed with "!"), per spec §4.4.
func Split(patterns []string) (includes, excludes []string) {
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, p[1:])
		} else {
			includes = append(includes, p)
		}
	}
	return includes, excludes
}

// walk enumerates every regular file under root (which may not exist, in
// which case it returns an empty list, not an error, per spec §4.4 ("Missing
// base directories cause an include pattern to produce the empty set").
// Returned paths are root-relative, forward-slash-separated.
func walk(fsys FS, root string) ([]string, error) {
	var out []string
	var rec func(dir, relPrefix string) error
	rec = func(dir, relPrefix string) error {
		entries, err := fsys.ReadDirNames(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			rel := e.Name()
			if relPrefix != "" {
				rel = relPrefix + "/" + rel
			}
			if e.IsDir() {
				if err := rec(filepath.Join(dir, e.Name()), rel); err != nil {
					return err
				}
				continue
			}
			out = append(out, rel)
		}
		return nil
	}
	if err := rec(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// matchSegment matches a single path segment against a pattern segment
// using "*" (any run of non-separator characters, possibly empty) and "?"
// (any single non-separator character). Character classes and braces are
// not supported, per spec §4.4.
func matchSegment(pattern, segment string) bool {
	return matchHere([]rune(pattern), []rune(segment))
}

func matchHere(pat, seg []rune) bool {
	if len(pat) == 0 {
		return len(seg) == 0
	}
	switch pat[0] {
	case '*':
		// Try every possible split point; a classic backtracking match.
		for i := 0; i <= len(seg); i++ {
			if matchHere(pat[1:], seg[i:]) {
				return true
			}
		}
		return false
	case '?':
		if len(seg) == 0 {
			return false
		}
		return matchHere(pat[1:], seg[1:])
	default:
		if len(seg) == 0 || pat[0] != seg[0] {
			return false
		}
		return matchHere(pat[1:], seg[1:])
	}
}

// matchPath matches a full relative path against a "/"-separated pattern,
// where "**" in the pattern matches zero or more entire path segments.
func matchPath(pattern, path string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(path, "/"))
}

func matchSegments(pat, seg []string) bool {
	if len(pat) == 0 {
		return len(seg) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], seg) {
			return true
		}
		if len(seg) > 0 && matchSegments(pat, seg[1:]) {
			return true
		}
		return false
	}
	if len(seg) == 0 {
		return false
	}
	if !matchSegment(pat[0], seg[0]) {
		return false
	}
	return matchSegments(pat[1:], seg[1:])
}

// Glob matches a single pattern against every file under root, returning
// root-relative, forward-slash-separated matches. A non-existent root
// yields an empty (not erroring) result.
func Glob(fsys FS, root, pattern string) ([]string, error) {
	files, err := walk(fsys, root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if matchPath(pattern, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// BaseResolver resolves the (base directory, tail pattern) a single glob
// pattern entry should be evaluated against. FixedBase treats every pattern
// as relative to a single fixed base (the package directory); callers
// whose pattern lists mix {P:T}-prefixed and
// plain patterns (spec §4.3, §4.4) supply a BaseResolver that inspects the
// pattern's prefix instead.
type BaseResolver func(pattern string) (base, tail string, err error)

// FixedBase returns a BaseResolver that always resolves to the same base
// directory, for the common case where none of a target's patterns
// reference another package.
func FixedBase(base string) BaseResolver {
	return func(pattern string) (string, string, error) { return base, pattern, nil }
}

// Enumerate implements the full include/exclude algorithm of spec §4.4:
// the union of matches of all include patterns, minus the union of
// matches of all exclude patterns, deduplicated and returned in
// lexicographic order over each match's workspace-relative path (here,
// the path joined from its resolved base and relative match).
func Enumerate(fsys FS, resolve BaseResolver, patterns []string) ([]string, error) {
	matches, err := EnumerateMatches(fsys, resolve, patterns)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = joinPath(m.Base, m.Rel)
	}
	return out, nil
}

// Match is one surviving include match, keeping its resolved base
// separate from its base-relative path; needed by callers (the sandbox
// layer) that must mirror a file at its position beneath its declaring
// glob's base directory (spec §4.7 Layout).
type Match struct {
	Base string
	Rel  string
}

// EnumerateMatches is Enumerate's structured form: same include-minus-
// exclude algorithm, deduplicated and lexicographically ordered by the
// joined (Base, Rel) path, but preserving each match's base separately.
func EnumerateMatches(fsys FS, resolve BaseResolver, patterns []string) ([]Match, error) {
	includes, excludes := Split(patterns)

	matchSet := func(pats []string) (map[string]Match, error) {
		set := make(map[string]Match)
		for _, p := range pats {
			base, tail, err := resolve(p)
			if err != nil {
				return nil, err
			}
			matches, err := Glob(fsys, base, tail)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				set[joinPath(base, m)] = Match{Base: base, Rel: m}
			}
		}
		return set, nil
	}

	included, err := matchSet(includes)
	if err != nil {
		return nil, err
	}
	excluded, err := matchSet(excludes)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(included))
	for k := range included {
		if _, excl := excluded[k]; !excl {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Match, len(keys))
	for i, k := range keys {
		out[i] = included[k]
	}
	return out, nil
}

func joinPath(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return strings.TrimSuffix(base, "/") + "/" + rel
}
