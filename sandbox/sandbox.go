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

// Package sandbox implements the sandboxing substrate (spec §4.7): a
// managed per-target mirror of hdrs/srcs (or generate_files outputs) under
// sandbox_root, written only when content actually changes and reconciled
// (obsolete files removed) on every generate pass.
package sandbox

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/builderer/builderer/errtag"
)

// FS abstracts the filesystem operations a Sandbox needs, grounded on the
// same seam google-blueprint's pathtools uses to keep glob/IO testable
// without touching a real disk.
type FS interface {
	ReadFile(path string) ([]byte, error) // returns an error satisfying os.IsNotExist if absent
	WriteFile(path string, content []byte) error
	Remove(path string) error
	// Walk returns every regular file currently under root, relative to
	// root, forward-slash-separated. A missing root yields an empty list.
	Walk(root string) ([]string, error)
}

// OSFS implements FS against the real filesystem.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFS) WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func (OSFS) Remove(path string) error { return os.Remove(path) }

func (OSFS) Walk(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

// Sandbox manages a single target's mirror directory. Two targets never
// share a Root (spec §4.7).
type Sandbox struct {
	Root string
	fs   FS
}

// New builds a Sandbox rooted at root.
func New(root string, fsys FS) *Sandbox {
	return &Sandbox{Root: root, fs: fsys}
}

// Result reports what a Commit actually did, for callers that want to log
// or test idempotence (spec §8 invariant 4).
type Result struct {
	Written []string
	Removed []string
}

// Commit materializes files (relative path -> content) under the sandbox
// root. A file is written only when its destination content would differ
// from what's already there (byte comparison, mandatory per spec §4.7);
// any file already present under Root that isn't in files is removed.
// Running Commit twice with the same files and no underlying filesystem
// changes performs zero writes on the second call.
func (s *Sandbox) Commit(files map[string][]byte) (Result, error) {
	var result Result
	var errs *multierror.Error

	for rel, content := range files {
		path := filepath.Join(s.Root, filepath.FromSlash(rel))
		existing, err := s.fs.ReadFile(path)
		if err == nil && bytes.Equal(existing, content) {
			continue
		}
		if err != nil && !os.IsNotExist(err) {
			errs = multierror.Append(errs, errtag.Wrap(errtag.SandboxIOFailure, path, err))
			continue
		}
		if err := s.fs.WriteFile(path, content); err != nil {
			errs = multierror.Append(errs, errtag.Wrap(errtag.SandboxIOFailure, path, err))
			continue
		}
		result.Written = append(result.Written, rel)
		log.Debug().Str("sandbox", s.Root).Str("path", rel).Msg("wrote sandbox file")
	}

	present, err := s.fs.Walk(s.Root)
	if err != nil {
		errs = multierror.Append(errs, errtag.Wrap(errtag.SandboxIOFailure, s.Root, err))
		return result, errs.ErrorOrNil()
	}
	for _, rel := range present {
		if _, wanted := files[rel]; wanted {
			continue
		}
		path := filepath.Join(s.Root, filepath.FromSlash(rel))
		if err := s.fs.Remove(path); err != nil {
			errs = multierror.Append(errs, errtag.Wrap(errtag.SandboxIOFailure, path, err))
			continue
		}
		result.Removed = append(result.Removed, rel)
		log.Debug().Str("sandbox", s.Root).Str("path", rel).Msg("removed obsolete sandbox file")
	}

	return result, errs.ErrorOrNil()
}
