// Copyright 2024 The Authors (see AUTHORS file)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package engineerr enumerates the error taxonomy from which the migration
// engine's whole-run failures are built, so callers can use errors.Is/As
// instead of matching on message strings.
package engineerr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is against these, not string comparison.
var (
	// ErrWorkingDirExists is a pre-flight conflict: a prior working directory
	// already exists under the project root. Recoverable; the user should
	// resolve or abandon it.
	ErrWorkingDirExists = errors.New("a migration working directory already exists; resolve or abandon it before starting a new one")

	// ErrUnsupportedProjectShape means the project is a module/plugin rather
	// than an app, which this engine does not handle. Recoverable.
	ErrUnsupportedProjectShape = errors.New("this project's shape is not supported for migration")

	// ErrRevisionUnavailable means the fallback chain for some revision was
	// exhausted. Fatal for the run.
	ErrRevisionUnavailable = errors.New("could not materialize any revision in the fallback chain")
)

// RevisionUnavailable wraps ErrRevisionUnavailable with the revisions that
// were tried, in order, and the underlying cause.
func RevisionUnavailable(tried []string, cause error) error {
	return fmt.Errorf("%w (tried in order: %v): %w", ErrRevisionUnavailable, tried, cause)
}

// WorkingDirExists wraps ErrWorkingDirExists with the offending path.
func WorkingDirExists(path string) error {
	return fmt.Errorf("%w: %s", ErrWorkingDirExists, path)
}

// UnsupportedProjectShape wraps ErrUnsupportedProjectShape with a reason.
func UnsupportedProjectShape(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedProjectShape, reason)
}
