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
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderer/builderer/conditional"
	"github.com/builderer/builderer/config"
	"github.com/builderer/builderer/errtag"
	"github.com/builderer/builderer/label"
	"github.com/builderer/builderer/pathexpand"
	"github.com/builderer/builderer/registry"
)

// memSourceFS implements SourceFS over an in-memory fstest.MapFS, the same
// seam glob_test.go's mapFS uses for globfs alone.
type memSourceFS struct{ inner fstest.MapFS }

func (m memSourceFS) ReadDirNames(dir string) ([]fs.DirEntry, error) {
	if dir == "" {
		dir = "."
	}
	return fs.ReadDir(m.inner, dir)
}

func (m memSourceFS) ReadFile(path string) ([]byte, error) {
	f, ok := m.inner[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return f.Data, nil
}

// memSandboxFS implements SandboxFS in memory, mirroring sandbox_test.go's
// memFS fixture.
type memSandboxFS struct{ files map[string][]byte }

func newMemSandboxFS() *memSandboxFS { return &memSandboxFS{files: map[string][]byte{}} }

func (m *memSandboxFS) ReadFile(path string) ([]byte, error) {
	c, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return c, nil
}

func (m *memSandboxFS) WriteFile(path string, content []byte) error {
	m.files[path] = append([]byte(nil), content...)
	return nil
}

func (m *memSandboxFS) Remove(path string) error {
	delete(m.files, path)
	return nil
}

func (m *memSandboxFS) Walk(root string) ([]string, error) {
	var out []string
	prefix := root + "/"
	for p := range m.files {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			out = append(out, p[len(prefix):])
		}
	}
	return out, nil
}

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	app, err := reg.AddPackage("app", "app")
	require.NoError(t, err)

	util, err := reg.AddPackage("util", "util")
	require.NoError(t, err)

	utilLib := registry.NewCppLibrary("util", conditional.Condition{}, nil, false)
	utilLib.Hdrs = conditional.Literals("util.h")
	utilLib.Srcs = conditional.Literals("util.cpp")
	utilLib.PublicIncludes = conditional.Literals(".")
	utilLib.PublicDefines = conditional.Literals("UTIL_ENABLED")
	require.NoError(t, util.AddTarget(utilLib))

	bin := registry.NewCppBinary("main", conditional.Condition{}, []string{"util:util"}, false)
	bin.Srcs = conditional.Literals("main.cpp")
	bin.PrivateIncludes = conditional.Literals("{util:util}")
	require.NoError(t, app.AddTarget(bin))

	winOnly := registry.NewCppLibrary("win_only", conditional.Condition{config.KeyPlatform: conditional.Val("windows")}, nil, false)
	winOnly.Srcs = conditional.Literals("win.cpp")
	require.NoError(t, app.AddTarget(winOnly))

	rec := config.NewRecord().
		Set(config.KeyPlatform, config.Of("linux")).
		Set(config.KeySandboxRoot, config.Of("/sandbox"))
	require.NoError(t, reg.AddConfig("default", rec))

	return reg
}

func configure(t *testing.T, ws *Workspace) *View {
	t.Helper()
	baked, _, err := ws.BakedConfigs("default")
	require.NoError(t, err)
	require.Len(t, baked, 1)
	v, err := ws.Configure(baked[0], nil)
	require.NoError(t, err)
	return v
}

func TestConfigureElidesFalseConditionTargets(t *testing.T) {
	ws := New(buildRegistry(t), "/ws")
	v := configure(t, ws)

	_, ok := v.Lookup(label.Label{PackagePath: "app", TargetName: "win_only"})
	assert.False(t, ok, "win_only's platform condition is false under linux and must be elided")

	_, ok = v.Lookup(label.Label{PackagePath: "app", TargetName: "main"})
	assert.True(t, ok)
}

func TestIterTargetsStableOrder(t *testing.T) {
	ws := New(buildRegistry(t), "/ws")
	v := configure(t, ws)

	var got []string
	for _, ref := range v.IterTargets() {
		got = append(got, ref.ID.String())
	}
	assert.Equal(t, []string{"app:main", "util:util"}, got)
}

func TestEffectiveFlagsPropagatesPublicFromDependency(t *testing.T) {
	ws := New(buildRegistry(t), "/ws")
	v := configure(t, ws)

	flags, err := v.EffectiveFlags(label.Label{PackagePath: "app", TargetName: "main"})
	require.NoError(t, err)
	assert.Contains(t, flags.Includes, "/ws/util")
	assert.Contains(t, flags.Defines, "UTIL_ENABLED")
}

func TestEnumerateSourcesExpandsCrossPackageReference(t *testing.T) {
	// fstest.MapFS rejects absolute paths, so the workspace root here is
	// relative ("ws") rather than "/ws" as in the other sub-cases.
	ws := New(buildRegistry(t), "ws")
	v := configure(t, ws)

	fsys := memSourceFS{inner: fstest.MapFS{
		"ws/util/util.h":   &fstest.MapFile{},
		"ws/util/util.cpp": &fstest.MapFile{},
	}}

	id := label.Label{PackagePath: "util", TargetName: "util"}
	hdrs, err := v.EnumerateSources(fsys, id, []config.Scalar{"util.h"}, pathexpand.KindInclude)
	require.NoError(t, err)
	assert.Equal(t, []string{"ws/util/util.h"}, hdrs)
}

func TestSandboxCommitMaterializesSandboxedLibrary(t *testing.T) {
	reg := registry.New()
	pkg, err := reg.AddPackage("util", "util")
	require.NoError(t, err)

	lib := registry.NewCppLibrary("util", conditional.Condition{}, nil, true)
	lib.Hdrs = conditional.Literals("util.h")
	lib.Srcs = conditional.Literals("util.cpp")
	require.NoError(t, pkg.AddTarget(lib))

	rec := config.NewRecord().
		Set(config.KeyPlatform, config.Of("linux")).
		Set(config.KeySandboxRoot, config.Of("/sandbox"))
	require.NoError(t, reg.AddConfig("default", rec))

	ws := New(reg, "ws")
	v := configure(t, ws)

	src := memSourceFS{inner: fstest.MapFS{
		"ws/util/util.h":   &fstest.MapFile{Data: []byte("#pragma once")},
		"ws/util/util.cpp": &fstest.MapFile{Data: []byte("int x;")},
	}}
	dst := newMemSandboxFS()

	id := label.Label{PackagePath: "util", TargetName: "util"}
	result, err := v.SandboxCommit(src, dst, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"util.h", "util.cpp"}, result.Written)

	content, err := dst.ReadFile("/sandbox/util/util/hdrs/util.h")
	require.NoError(t, err)
	assert.Equal(t, "#pragma once", string(content))

	// A second commit against unchanged content is a no-op (spec §8
	// invariant 4).
	result, err = v.SandboxCommit(src, dst, id)
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Empty(t, result.Removed)
}

func TestSandboxCommitSkipsUnsandboxedTarget(t *testing.T) {
	reg := registry.New()
	pkg, err := reg.AddPackage("util", "util")
	require.NoError(t, err)
	lib := registry.NewCppLibrary("util", conditional.Condition{}, nil, false)
	require.NoError(t, pkg.AddTarget(lib))
	rec := config.NewRecord().Set(config.KeySandboxRoot, config.Of("/sandbox"))
	require.NoError(t, reg.AddConfig("default", rec))

	ws := New(reg, "ws")
	v := configure(t, ws)

	result, err := v.SandboxCommit(memSourceFS{inner: fstest.MapFS{}}, newMemSandboxFS(), label.Label{PackagePath: "util", TargetName: "util"})
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Empty(t, result.Removed)
}

func TestEffectiveFlagsUnknownTargetIsFatal(t *testing.T) {
	ws := New(buildRegistry(t), "/ws")
	v := configure(t, ws)

	_, err := v.EffectiveFlags(label.Label{PackagePath: "nope", TargetName: "nope"})
	require.Error(t, err)
	assert.True(t, errtag.Is(err, errtag.UnknownDependency))
}
