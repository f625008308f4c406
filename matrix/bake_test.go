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

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderer/builderer/config"
)

func TestBakeCartesianOrder(t *testing.T) {
	r := config.NewRecord().
		Set(config.KeyArchitecture, config.OfSeq("x86-64", "arm64")).
		Set(config.KeyBuildConfig, config.OfSeq("debug", "release"))

	baked, varying := Bake(r)
	require.Len(t, baked, 4)
	assert.Equal(t, []string{config.KeyArchitecture, config.KeyBuildConfig}, varying)

	want := [][2]string{
		{"x86-64", "debug"}, {"x86-64", "release"},
		{"arm64", "debug"}, {"arm64", "release"},
	}
	for i, w := range want {
		arch, _ := baked[i].Get(config.KeyArchitecture)
		bc, _ := baked[i].Get(config.KeyBuildConfig)
		assert.Equal(t, w[0], arch)
		assert.Equal(t, w[1], bc)
	}
}

func TestBakeEmptyAxisYieldsNoConfigs(t *testing.T) {
	r := config.NewRecord().Set(config.KeyArchitecture, config.OfSeq())
	baked, _ := Bake(r)
	assert.Empty(t, baked)
}

func TestBakeAllScalarYieldsOneConfig(t *testing.T) {
	r := config.NewRecord().
		Set(config.KeyPlatform, config.Of("linux")).
		Set(config.KeyArchitecture, config.Of("x86-64"))
	baked, varying := Bake(r)
	require.Len(t, baked, 1)
	assert.Empty(t, varying)
	p, _ := baked[0].Get(config.KeyPlatform)
	assert.Equal(t, "linux", p)
}

func TestBakeProjectsBackOntoDeclaredAxis(t *testing.T) {
	r := config.NewRecord().
		Set(config.KeyArchitecture, config.OfSeq("x86-64", "arm64")).
		Set(config.KeyBuildConfig, config.Of("debug"))
	baked, varying := Bake(r)
	require.Equal(t, []string{config.KeyArchitecture}, varying)

	seen := map[string]bool{}
	for _, b := range baked {
		a, _ := b.Get(config.KeyArchitecture)
		seen[a.(string)] = true
	}
	assert.Equal(t, map[string]bool{"x86-64": true, "arm64": true}, seen)
}

func TestSlugUniqueWithinMatrix(t *testing.T) {
	r := config.NewRecord().
		Set(config.KeyArchitecture, config.OfSeq("x86-64", "arm64")).
		Set(config.KeyBuildConfig, config.OfSeq("debug", "release"))
	baked, varying := Bake(r)
	seen := map[string]bool{}
	for _, b := range baked {
		slug := b.Slug(varying...)
		assert.False(t, seen[slug], "duplicate slug %q", slug)
		seen[slug] = true
	}
}
