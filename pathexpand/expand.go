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

// Package pathexpand implements cross-package path reference expansion
// (spec §4.3): the "{Pkg:Tgt}" placeholder embedded in attribute string
// values, resolved to the referenced target's effective source root.
package pathexpand

import (
	"strings"

	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
)

// AttrKind selects which of a referenced target's roots a placeholder
// resolves to, per spec §4.3: "context is determined by the attribute
// being expanded."
type AttrKind int

const (
	// KindInclude is used for public_includes/private_includes/hdrs
	// attribute values, which resolve to a target's hdrs root.
	KindInclude AttrKind = iota
	// KindSource is used for srcs attribute values, which resolve to a
	// target's srcs root.
	KindSource
)

// RootResolver resolves a dependency's effective root for the given
// attribute context. Its behavior per target kind (spec §4.3):
//   - GitRepository: the checked-out tree, regardless of kind.
//   - CppLibrary/CppBinary with sandbox: hdrs root for KindInclude, srcs
//     root for KindSource.
//   - GenerateFiles: the target's sandbox output directory, regardless of
//     kind.
type RootResolver func(target label.Label, kind AttrKind) (string, error)

// Expand scans text left-to-right for "{Pkg:Tgt}" placeholders, replacing
// each with the resolved root of the referenced target. text belongs to
// current, whose declared transitive dependency set is transitiveDeps;
// referencing anything outside that set is a fatal UnreferencedPathTarget
// (spec §4.3, §8 invariant 6). Already-expanded text is never rescanned
// for further placeholders, and unbalanced braces are a fatal
// MalformedPathReference.
func Expand(text string, current label.Label, kind AttrKind, transitiveDeps map[label.Label]bool, resolve RootResolver) (string, error) {
	runes := []rune(text)
	var out strings.Builder
	i := 0
	for i < len(runes) {
		c := runes[i]
		if c == '}' {
			return "", errtag.New(errtag.MalformedPathReference, text, "unbalanced '}' in %q", text)
		}
		if c != '{' {
			out.WriteRune(c)
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] != '}' {
			j++
		}
		if j >= len(runes) {
			return "", errtag.New(errtag.MalformedPathReference, text, "unbalanced '{' in %q", text)
		}
		inner := string(runes[i+1 : j])
		ref, err := label.Parse(inner, current.PackagePath)
		if err != nil {
			return "", err
		}
		if !transitiveDeps[ref] {
			return "", errtag.New(errtag.UnreferencedPathTarget, ref.String(),
				"%q references %q which is not in its transitive deps", current, ref)
		}
		root, err := resolve(ref, kind)
		if err != nil {
			return "", err
		}
		out.WriteString(root)
		i = j + 1
	}
	return out.String(), nil
}
