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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBakedWhenAllScalar(t *testing.T) {
	r := NewRecord().
		Set(KeyPlatform, Of("linux")).
		Set(KeyArchitecture, Of("x86-64"))
	assert.True(t, r.IsBaked())

	baked, ok := r.ToBaked()
	require.True(t, ok)
	v, ok := baked.Get(KeyPlatform)
	require.True(t, ok)
	assert.Equal(t, "linux", v)
}

func TestRecordNotBakedWithSequenceAxis(t *testing.T) {
	r := NewRecord().
		Set(KeyArchitecture, OfSeq("x86-64", "arm64")).
		Set(KeyBuildConfig, Of("debug"))
	assert.False(t, r.IsBaked())

	_, ok := r.ToBaked()
	assert.False(t, ok)
}

func TestRecordPreservesDeclarationOrder(t *testing.T) {
	r := NewRecord().
		Set(KeyBuildConfig, Of("debug")).
		Set(KeyPlatform, Of("linux")).
		Set(KeyArchitecture, Of("x86-64"))
	assert.Equal(t, []string{KeyBuildConfig, KeyPlatform, KeyArchitecture}, r.Keys())
}

func TestBakedSlugAssembly(t *testing.T) {
	r := NewRecord().
		Set(KeyArchitecture, Of("x86-64")).
		Set(KeyBuildConfig, Of("debug"))
	baked, ok := r.ToBaked()
	require.True(t, ok)
	assert.Equal(t, "x86-64.debug", baked.Slug(KeyArchitecture, KeyBuildConfig))
}

func TestEmptySequenceAxisIsStillSequence(t *testing.T) {
	r := NewRecord().Set(KeyArchitecture, OfSeq())
	v, ok := r.Get(KeyArchitecture)
	require.True(t, ok)
	assert.True(t, v.IsSeq())
	assert.Empty(t, v.Values())
}
