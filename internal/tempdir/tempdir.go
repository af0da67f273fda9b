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

// Package tempdir manages the lifecycle of the engine's scratch directories:
// SDK clones, base/target template output, and the working-directory
// staging area.
package tempdir

import (
	"context"

	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/internal/fsutil"
)

// Name parts used to build identifiable temp-directory names, mirroring the
// convention of naming scratch dirs after the stage that created them.
const (
	SDKDirNamePart           = "sdk-"
	BaseTemplateDirNamePart  = "base-template-"
	TargetTemplateDirNamePart = "target-template-"
	GitDiffDirNamePart       = "diff-"
	GitMergeDirNamePart      = "merge-"
	WorkingDirNamePart       = "working-"
)

// Tracker owns a set of scratch directories and releases them on demand
// (or keeps them, for debugging, when keep is set).
type Tracker struct {
	fs       fsutil.FS
	dirs     []string
	keep     bool
}

// NewTracker constructs a Tracker. If keep is true, Release is a no-op that
// only logs the retained paths — useful for debugging a failed run.
func NewTracker(fs fsutil.FS, keep bool) *Tracker {
	return &Tracker{fs: fs, keep: keep}
}

// Track adds dir to the set of directories this Tracker will release.
func (t *Tracker) Track(dir string) {
	if dir == "" {
		return
	}
	t.dirs = append(t.dirs, dir)
}

// MkdirTempTracked creates a new scratch directory under base with the given
// name prefix and tracks it for later release.
func (t *Tracker) MkdirTempTracked(base, pattern string) (string, error) {
	dir, err := t.fs.MkdirTemp(base, pattern)
	if err != nil {
		return "", err
	}
	t.Track(dir)
	return dir, nil
}

// Dirs returns the tracked directories, in the order they were created.
func (t *Tracker) Dirs() []string {
	out := make([]string, len(t.dirs))
	copy(out, t.dirs)
	return out
}

// Release removes every tracked directory, unless keep was set at
// construction time. Errors are logged, not returned — a cleanup failure
// should never mask the run's actual result.
func (t *Tracker) Release(ctx context.Context) {
	logger := logging.FromContext(ctx).With("logger", "tempdir.Tracker.Release")
	if t.keep {
		logger.WarnContext(ctx, "keeping scratch directories", "paths", t.dirs)
		return
	}
	for _, d := range t.dirs {
		if err := t.fs.RemoveAll(d); err != nil {
			logger.WarnContext(ctx, "failed removing scratch directory", "path", d, "error", err)
		}
	}
}
