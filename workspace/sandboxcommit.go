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
	"github.com/builderer/builderer/globfs"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/pathexpand"
	"github.com/builderer/builderer/registry"
	"github.com/builderer/builderer/sandbox"
)

// SourceFS is the filesystem seam SandboxCommit reads the real workspace
// tree through: directory listing for glob enumeration, plus file content
// for materializing sandbox mirrors.
type SourceFS interface {
	globfs.FS
	ReadFile(path string) ([]byte, error)
}

// SandboxFS is the filesystem seam a committed sandbox is written through.
type SandboxFS = sandbox.FS

// SandboxCommit materializes a sandboxed CppLibrary or CppBinary target's
// hdrs/srcs mirrors under its sandbox root, reading real file content from
// src and writing through dst (spec §4.7, §4.8 sandbox_commit). Targets
// that are not sandboxed, or whose kind carries no hdrs/srcs of its own
// (GitRepository, GenerateFiles, Alias), are no-ops: their materialization
// is the external VCS fetcher's or generator's responsibility, per
// SPEC_FULL.md §3.
func (v *View) SandboxCommit(src SourceFS, dst SandboxFS, id label.Label) (sandbox.Result, error) {
	ref, ok := v.byLabel[id]
	if !ok {
		return sandbox.Result{}, errtag.New(errtag.UnknownDependency, id.String(), "target %q not present in this configuration", id)
	}

	var total sandbox.Result

	switch t := ref.Target.(type) {
	case *registry.CppLibrary:
		if !t.SandboxVal {
			return sandbox.Result{}, nil
		}
		if err := v.commitKind(src, dst, id, pathexpand.KindInclude, t.Hdrs, &total); err != nil {
			return total, err
		}
		if err := v.commitKind(src, dst, id, pathexpand.KindSource, t.Srcs, &total); err != nil {
			return total, err
		}

	case *registry.CppBinary:
		if !t.SandboxVal {
			return sandbox.Result{}, nil
		}
		if err := v.commitKind(src, dst, id, pathexpand.KindSource, t.Srcs, &total); err != nil {
			return total, err
		}

	default:
		return sandbox.Result{}, nil
	}

	return total, nil
}

// commitKind resolves exprs for id under kind, enumerates them against
// src, reads their content, and commits them under the kind-appropriate
// sandbox subdirectory (hdrs/ or srcs/), accumulating into total. Files
// are keyed by their path relative to their own glob's resolved base, so
// a target's declared directory structure survives the mirror (spec
// §4.7: "the common ancestor of all matched files is not stripped").
func (v *View) commitKind(src SourceFS, dst SandboxFS, id label.Label, kind pathexpand.AttrKind, exprs []conditional.Expr, total *sandbox.Result) error {
	values, err := v.Resolve(exprs)
	if err != nil {
		return err
	}

	matches, err := v.EnumerateSourceMatches(src, id, values, kind)
	if err != nil {
		return err
	}

	files := make(map[string][]byte, len(matches))
	for _, m := range matches {
		full := joinBaseRel(m.Base, m.Rel)
		content, err := src.ReadFile(full)
		if err != nil {
			return errtag.Wrap(errtag.SandboxIOFailure, full, err)
		}
		files[m.Rel] = content
	}

	root, err := v.Root(id, kind)
	if err != nil {
		return err
	}
	result, err := sandbox.New(root, dst).Commit(files)
	if err != nil {
		return err
	}
	total.Written = append(total.Written, result.Written...)
	total.Removed = append(total.Removed, result.Removed...)
	return nil
}
