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
	"os"

	"github.com/builderer/builderer/globfs"
)

// OSSourceFS implements SourceFS against the real filesystem, combining
// globfs.OSFS's directory walk with plain file reads.
type OSSourceFS struct {
	globfs.OSFS
}

func (OSSourceFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
