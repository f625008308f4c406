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

package globfs

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFS struct{ inner fstest.MapFS }

func (m mapFS) ReadDirNames(dir string) ([]fs.DirEntry, error) {
	if dir == "" {
		dir = "."
	}
	return fs.ReadDir(m.inner, dir)
}

func newFixture() mapFS {
	return mapFS{inner: fstest.MapFS{
		"src/a.cpp":            &fstest.MapFile{},
		"src/platform/win.cpp": &fstest.MapFile{},
		"src/b_test.cpp":       &fstest.MapFile{},
		"src/c.cpp":            &fstest.MapFile{},
	}}
}

// S4 from spec §8.
func TestEnumerateIncludeExcludeScenarioS4(t *testing.T) {
	fsys := newFixture()
	patterns := []string{"src/**/*.cpp", "!src/platform/**", "!src/**/*_test.cpp"}
	got, err := Enumerate(fsys, FixedBase("."), patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp", "src/c.cpp"}, got)
}

func TestSplitIncludeExclude(t *testing.T) {
	includes, excludes := Split([]string{"a/*.h", "!a/internal/*.h", "b/*.h"})
	assert.Equal(t, []string{"a/*.h", "b/*.h"}, includes)
	assert.Equal(t, []string{"a/internal/*.h"}, excludes)
}

func TestMissingBaseDirProducesEmptySet(t *testing.T) {
	fsys := newFixture()
	got, err := Enumerate(fsys, FixedBase("does/not/exist"), []string{"*.cpp"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExcludeMatchingNothingLeavesIncludesUnchanged(t *testing.T) {
	fsys := newFixture()
	got, err := Enumerate(fsys, FixedBase("."), []string{"src/*.cpp", "!src/nonexistent_*.cpp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp", "src/b_test.cpp", "src/c.cpp"}, got)
}

func TestDoubleStarMatchesZeroSegments(t *testing.T) {
	assert.True(t, matchPath("src/**/*.cpp", "src/a.cpp"))
	assert.True(t, matchPath("src/**/*.cpp", "src/platform/win.cpp"))
	assert.False(t, matchPath("src/**/*.cpp", "src/a.h"))
}

func TestQuestionMarkMatchesSingleChar(t *testing.T) {
	assert.True(t, matchPath("a?.cpp", "ab.cpp"))
	assert.False(t, matchPath("a?.cpp", "abc.cpp"))
}

func TestDeterministicLexicographicOrder(t *testing.T) {
	fsys := newFixture()
	got, err := Enumerate(fsys, FixedBase("."), []string{"src/**/*.cpp"})
	require.NoError(t, err)
	sorted := append([]string(nil), got...)
	assert.ElementsMatch(t, got, sorted) // already sorted; ElementsMatch as a weak sanity check
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}
