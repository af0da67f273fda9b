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

// Package vcsdiff implements the Diff Engine: given two files, it returns a
// structured model.DiffOutcome using the external VCS's diff tool.
package vcsdiff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/tempdir"
	"github.com/kitforge/migrate/migrate/procexec"
)

// Engine computes DiffOutcomes between pairs of files.
type Engine struct {
	Runner  procexec.Runner
	FS      fsutil.FS
	Tracker *tempdir.Tracker

	// TempBase is the parent directory for the Engine's own scratch dirs
	// (passed to os.MkdirTemp-style calls).
	TempBase string

	// IsIgnored reports whether relPath is covered by the VCS's ignore
	// rules, as queried against repoDir. May be nil, in which case no path
	// is ever considered ignored.
	IsIgnored func(ctx context.Context, repoDir, relPath string) (bool, error)
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

// Diff computes the DiffOutcome for the ordered pair (fileA, fileB), where
// relPath identifies the file for ignore-rule purposes and repoDir is the
// VCS repo root used for that query.
func (e *Engine) Diff(ctx context.Context, fileA, fileB, repoDir, relPath string) (model.DiffOutcome, error) {
	aExists, err := fsutil.Exists(e.FS, fileA)
	if err != nil {
		return nil, fmt.Errorf("Stat(%q): %w", fileA, err)
	}
	bExists, err := fsutil.Exists(e.FS, fileB)
	if err != nil {
		return nil, fmt.Errorf("Stat(%q): %w", fileB, err)
	}

	if !aExists && !bExists {
		return model.DiffEqual{}, nil
	}
	if !aExists {
		return model.DiffAddedOnly{}, nil
	}
	if !bExists {
		return model.DiffDeletedOnly{}, nil
	}

	if e.IsIgnored != nil {
		ignored, err := e.IsIgnored(ctx, repoDir, relPath)
		if err != nil {
			return nil, fmt.Errorf("checking ignore rules for %q: %w", relPath, err)
		}
		if ignored {
			return model.DiffIgnoredByVcs{}, nil
		}
	}

	// Cheap in-process pre-check: if the two files are byte-identical, skip
	// the subprocess entirely. Files that differ in any byte, including a
	// trailing newline, go on to the external diff tool.
	aBytes, err := e.FS.ReadFile(fileA)
	if err != nil {
		return nil, fmt.Errorf("ReadFile(%q): %w", fileA, err)
	}
	bBytes, err := e.FS.ReadFile(fileB)
	if err != nil {
		return nil, fmt.Errorf("ReadFile(%q): %w", fileB, err)
	}
	if quickEqual(aBytes, bBytes) {
		return model.DiffEqual{}, nil
	}

	patch, err := e.runDiff(ctx, fileA, fileB, relPath)
	if err != nil {
		return nil, err
	}
	if patch == "" {
		return model.DiffEqual{}, nil
	}
	return model.DiffChanged{Patch: patch}, nil
}

// quickEqual reports whether a and b are equal, using diffmatchpatch's
// Myers diff to tolerate being handed non-UTF-8 safe input without panicking
// (diffmatchpatch works on strings, so invalid UTF-8 just round-trips as
// bytes; a content-identical comparison is still correct either way).
func quickEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if bytes.Equal(a, b) {
		return true
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(a), string(b), false)
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}
	return true
}

// runDiff shells out to the VCS diff tool and returns the unified patch
// text, or "" if the files are identical.
func (e *Engine) runDiff(ctx context.Context, fileA, fileB, relPath string) (string, error) {
	scratch, err := e.Tracker.MkdirTempTracked(e.TempBase, tempdir.GitDiffDirNamePart)
	if err != nil {
		return "", fmt.Errorf("creating diff scratch dir: %w", err)
	}

	srcRel := filepath.Join("a", relPath)
	dstRel := filepath.Join("b", relPath)
	srcAbs := filepath.Join(scratch, srcRel)
	dstAbs := filepath.Join(scratch, dstRel)

	if err := copyInto(e.FS, fileA, srcAbs); err != nil {
		return "", err
	}
	if err := copyInto(e.FS, fileB, dstAbs); err != nil {
		return "", err
	}

	args := []string{
		"diff", "--no-index",
		"--src-prefix", "",
		"--dst-prefix", "",
		filepath.ToSlash(srcRel),
		filepath.ToSlash(dstRel),
	}
	res, err := e.Runner.Run(ctx, "vcs", args, procexec.WithCwd(scratch))
	if err != nil {
		return "", fmt.Errorf("exec of vcs diff failed: %w", err)
	}

	switch res.ExitCode {
	case 0:
		return "", nil
	case 1:
		return trimMetadata(res.Stdout), nil
	default:
		return "", fmt.Errorf("vcs diff exited %d: %s", res.ExitCode, res.Stderr)
	}
}

func copyInto(f fsutil.FS, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), fsutil.OwnerRWXPerms); err != nil {
		return fmt.Errorf("MkdirAll(%q): %w", filepath.Dir(dst), err)
	}
	exists, err := fsutil.Exists(f, src)
	if err != nil {
		return fmt.Errorf("Stat(%q): %w", src, err)
	}
	if !exists {
		return os.WriteFile(dst, nil, fsutil.OwnerRWPerms)
	}
	buf, err := f.ReadFile(src)
	if err != nil {
		return fmt.Errorf("ReadFile(%q): %w", src, err)
	}
	return os.WriteFile(dst, buf, fsutil.OwnerRWPerms)
}

// trimMetadata strips the diff tool's metadata header lines ("diff --git
// a/x b/x", "index abc123..def456 100644") from the beginning of the patch,
// since they leak scratch-directory paths and blob hashes that are
// meaningless once copied out of the temp dir. Only the first couple of
// lines are ever checked against these prefixes; the rest of the patch body
// is passed through untouched.
func trimMetadata(diffOutput string) string {
	const linesToCheck = 2
	splits := strings.SplitN(diffOutput, "\n", linesToCheck+1)
	prefixesToSkip := []string{"diff --git", "index "}

	out := make([]string, 0, len(splits))
	for i, line := range splits {
		if i == len(splits)-1 && len(splits) > linesToCheck {
			// This last element is "everything else", not a single header
			// line; never filter it.
			out = append(out, line)
			continue
		}
		skip := false
		for _, prefix := range prefixesToSkip {
			if strings.HasPrefix(line, prefix) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
