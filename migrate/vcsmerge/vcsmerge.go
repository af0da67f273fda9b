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

// Package vcsmerge implements the Merge Engine: two-way and three-way file
// merges performed via the external VCS's merge-file tool, with graceful
// degradation for binary (non-UTF-8) files.
package vcsmerge

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/tempdir"
	"github.com/kitforge/migrate/migrate/procexec"
)

// conflictMarkerStart is the marker the VCS merge tool emits at the start of
// an unresolved conflict hunk.
const conflictMarkerStart = "<<<<<<<"

// Engine performs file merges via the external VCS.
type Engine struct {
	Runner  procexec.Runner
	FS      fsutil.FS
	Tracker *tempdir.Tracker

	TempBase string
}

// NewEngine constructs an Engine with the real process runner and
// filesystem.
func NewEngine(tracker *tempdir.Tracker, tempBase string) *Engine {
	return &Engine{
		Runner:   &procexec.RealRunner{},
		FS:       fsutil.RealFS{},
		Tracker:  tracker,
		TempBase: tempBase,
	}
}

// TwoWay merges current and target with no common ancestor.
func (e *Engine) TwoWay(ctx context.Context, localPath model.RelativePath, currentPath, targetPath string) (model.MergeOutcome, error) {
	return e.merge(ctx, localPath, "", currentPath, targetPath, false)
}

// ThreeWay merges current and target using base as the common ancestor.
func (e *Engine) ThreeWay(ctx context.Context, localPath model.RelativePath, basePath, currentPath, targetPath string) (model.MergeOutcome, error) {
	return e.merge(ctx, localPath, basePath, currentPath, targetPath, true)
}

func (e *Engine) merge(ctx context.Context, localPath model.RelativePath, basePath, currentPath, targetPath string, threeWay bool) (model.MergeOutcome, error) {
	logger := logging.FromContext(ctx).With("logger", "vcsmerge.Engine.merge")

	currentBytes, err := e.FS.ReadFile(currentPath)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("ReadFile(%q): %w", currentPath, err)
	}
	targetBytes, err := e.FS.ReadFile(targetPath)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("ReadFile(%q): %w", targetPath, err)
	}

	if !utf8.Valid(currentBytes) || !utf8.Valid(targetBytes) {
		logger.DebugContext(ctx, "file is not valid UTF-8, degrading to take-target", "path", localPath)
		return model.MergeOutcome{
			LocalPath:   localPath,
			Body:        model.BytesBody(targetBytes),
			HasConflict: false,
		}, nil
	}

	scratch, err := e.Tracker.MkdirTempTracked(e.TempBase, tempdir.GitMergeDirNamePart)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("creating merge scratch dir: %w", err)
	}

	// The merge-file tool mutates its first ("current") argument in place,
	// so operate on a scratch copy and never the real project file.
	scratchCurrent := scratch + "/current"
	if err := e.FS.WriteFile(scratchCurrent, currentBytes, fsutil.OwnerRWPerms); err != nil {
		return model.MergeOutcome{}, fmt.Errorf("staging current file for merge: %w", err)
	}

	var args []string
	if threeWay {
		baseBytes, err := e.FS.ReadFile(basePath)
		if err != nil {
			return model.MergeOutcome{}, fmt.Errorf("ReadFile(%q): %w", basePath, err)
		}
		scratchBase := scratch + "/base"
		if err := e.FS.WriteFile(scratchBase, baseBytes, fsutil.OwnerRWPerms); err != nil {
			return model.MergeOutcome{}, fmt.Errorf("staging base file for merge: %w", err)
		}
		args = []string{"merge-file", "--diff3", scratchCurrent, scratchBase, targetPath}
	} else {
		args = []string{"merge-file", scratchCurrent, scratchCurrent, targetPath}
	}

	res, err := e.Runner.Run(ctx, "vcs", args)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("exec of vcs merge-file failed: %w", err)
	}

	merged, err := e.FS.ReadFile(scratchCurrent)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("reading merge result: %w", err)
	}

	hasConflict := res.ExitCode > 0 || strings.Contains(string(merged), conflictMarkerStart)

	return model.MergeOutcome{
		LocalPath:   localPath,
		Body:        model.TextBody(string(merged)),
		HasConflict: hasConflict,
	}, nil
}
