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

// Package label implements the Label identifier (spec §3): the
// canonical, fully-qualified identity of a target, "package_path:target_name".
package label

import (
	"regexp"
	"strings"

	"github.com/builderer/builderer/errtag"
)

var targetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Label is a fully-qualified target identifier. Comparison is byte-wise;
// case is preserved.
type Label struct {
	PackagePath string
	TargetName  string
}

func (l Label) String() string {
	return l.PackagePath + ":" + l.TargetName
}

// Equal reports byte-wise equality, per spec §3.
func (l Label) Equal(other Label) bool {
	return l.PackagePath == other.PackagePath && l.TargetName == other.TargetName
}

// Parse parses s, which must be either "pkg/path:target" or the
// current-package shorthand ":target". currentPackage resolves the
// shorthand form; it is ignored for fully-qualified labels.
func Parse(s string, currentPackage string) (Label, error) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return Label{}, errtag.New(errtag.MalformedPathReference, s, "label %q is missing a ':' separator", s)
	}
	pkgPath, targetName := s[:idx], s[idx+1:]
	if pkgPath == "" {
		pkgPath = currentPackage
	}
	if targetName == "" || !targetNamePattern.MatchString(targetName) {
		return Label{}, errtag.New(errtag.MalformedPathReference, s, "invalid target name %q in label %q", targetName, s)
	}
	return Label{PackagePath: pkgPath, TargetName: targetName}, nil
}
