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

// Package errtag implements the fatal error taxonomy of the builderer core
// (spec §7). Every condition in the taxonomy is constructed here so that
// callers can branch on Kind without string-matching error messages.
package errtag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one entry of the error taxonomy. Kinds are not Go error
// types; they are a tag carried by Error so a single error value can be
// inspected by kind without a type switch per taxonomy entry.
type Kind string

const (
	DuplicateTarget        Kind = "DuplicateTarget"
	DuplicatePackage       Kind = "DuplicatePackage"
	DuplicateConfig        Kind = "DuplicateConfig"
	UnknownDependency      Kind = "UnknownDependency"
	DependencyCycle        Kind = "DependencyCycle"
	UnknownConfigKey       Kind = "UnknownConfigKey"
	MatrixLeakage          Kind = "MatrixLeakage"
	UnreferencedPathTarget Kind = "UnreferencedPathTarget"
	MalformedPathReference Kind = "MalformedPathReference"
	MissingGenerator       Kind = "MissingGenerator"
	UnsupportedPlatform    Kind = "UnsupportedPlatform"
	SandboxIOFailure       Kind = "SandboxIOFailure"
)

// Error is a fatal, taggable error carrying the (kind, label-or-path,
// message) triple required by spec §7.
type Error struct {
	Kind    Kind
	Subject string // a label, path, or other identifying string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a tagged fatal error with a stack trace attached at the call
// site, matching the rest of the retrieval pack's use of pkg/errors to keep
// a trace back to the ingestion call that triggered the failure.
func New(kind Kind, subject string, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		cause:   errors.Errorf(format, args...),
	}
}

// Wrap attaches a Kind/Subject to an existing error, preserving its stack
// trace (or adding one, if it did not already carry one).
func Wrap(kind Kind, subject string, err error) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		cause:   errors.WithStack(err),
	}
}

// Is reports whether err is a tagged Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
