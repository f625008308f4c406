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
	"path"

	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/pathexpand"
	"github.com/builderer/builderer/registry"
)

// sandboxRoot reads the sandbox_root axis out of the view's baked config.
func (v *View) sandboxRoot() (string, error) {
	val, ok := v.baked.Get(config.KeySandboxRoot)
	if !ok {
		return "", errtag.New(errtag.UnknownConfigKey, config.KeySandboxRoot, "baked config is missing required %q axis", config.KeySandboxRoot)
	}
	s, _ := val.(string)
	return s, nil
}

// targetSandboxRoot returns <sandbox_root>/<pkg>/<target>, the common
// prefix of every sandboxed target's hdrs/srcs/out directories (spec
// §4.7's layout).
func (v *View) targetSandboxRoot(id label.Label) (string, error) {
	root, err := v.sandboxRoot()
	if err != nil {
		return "", err
	}
	return path.Join(root, id.PackagePath, id.TargetName), nil
}

// Root resolves the effective source root of id for the given attribute
// context, per spec §4.3:
//   - GitRepository: the checked-out tree under sandbox_root/.vcs/...,
//     populated by the external VCS fetcher collaborator, regardless of
//     attribute kind.
//   - GenerateFiles: the target's output directory under sandbox_root,
//     regardless of attribute kind.
//   - CppLibrary/CppBinary with sandbox: the hdrs root for KindInclude,
//     the srcs root for KindSource.
//   - CppLibrary/CppBinary without sandbox: the declaring package's
//     directory, for both contexts.
func (v *View) Root(id label.Label, kind pathexpand.AttrKind) (string, error) {
	ref, ok := v.byLabel[id]
	if !ok {
		return "", errtag.New(errtag.UnknownDependency, id.String(), "target %q not present in this configuration", id)
	}

	switch t := ref.Target.(type) {
	case *registry.GitRepository:
		root, err := v.sandboxRoot()
		if err != nil {
			return "", err
		}
		return path.Join(root, ".vcs", id.PackagePath, id.TargetName), nil

	case *registry.GenerateFiles:
		base, err := v.targetSandboxRoot(id)
		if err != nil {
			return "", err
		}
		return path.Join(base, "out"), nil

	case *registry.CppLibrary:
		if !t.SandboxVal {
			return v.PackageDir(id.PackagePath), nil
		}
		base, err := v.targetSandboxRoot(id)
		if err != nil {
			return "", err
		}
		if kind == pathexpand.KindSource {
			return path.Join(base, "srcs"), nil
		}
		return path.Join(base, "hdrs"), nil

	case *registry.CppBinary:
		if !t.SandboxVal {
			return v.PackageDir(id.PackagePath), nil
		}
		base, err := v.targetSandboxRoot(id)
		if err != nil {
			return "", err
		}
		if kind == pathexpand.KindSource {
			return path.Join(base, "srcs"), nil
		}
		return path.Join(base, "hdrs"), nil

	default:
		return "", errtag.New(errtag.UnreferencedPathTarget, id.String(), "target kind %v has no path root", ref.Target.Kind())
	}
}
