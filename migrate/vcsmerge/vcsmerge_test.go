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

package vcsmerge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/tempdir"
	"github.com/kitforge/migrate/migrate/procexec"
)

// scriptedMergeRunner simulates the external merge-file tool: it overwrites
// the scratch "current" argument (always the file immediately following
// "merge-file", or after "--diff3") with mergedContents and reports
// exitCode, the way a real merge-file invocation mutates its first operand
// in place.
type scriptedMergeRunner struct {
	mergedContents string
	exitCode       int
}

func (s *scriptedMergeRunner) Run(ctx context.Context, name string, args []string, opts ...procexec.Option) (*procexec.Result, error) {
	scratchCurrent := args[1]
	if scratchCurrent == "--diff3" {
		scratchCurrent = args[2]
	}
	if err := os.WriteFile(scratchCurrent, []byte(s.mergedContents), fsutil.OwnerRWPerms); err != nil {
		return nil, err
	}
	return &procexec.Result{ExitCode: s.exitCode}, nil
}

func newTestEngine(runner procexec.Runner) *Engine {
	return &Engine{
		Runner:   runner,
		FS:       fsutil.RealFS{},
		Tracker:  tempdir.NewTracker(fsutil.RealFS{}, false),
		TempBase: os.TempDir(),
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), fsutil.OwnerRWPerms); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestTwoWay_CleanMerge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	currentPath, targetPath := filepath.Join(dir, "current"), filepath.Join(dir, "target")
	writeFile(t, currentPath, "user edit\n")
	writeFile(t, targetPath, "new template\n")

	e := newTestEngine(&scriptedMergeRunner{mergedContents: "merged clean\n", exitCode: 0})

	out, err := e.TwoWay(context.Background(), "f.txt", currentPath, targetPath)
	if err != nil {
		t.Fatalf("TwoWay() error = %v", err)
	}
	if out.HasConflict {
		t.Errorf("HasConflict = true, want false")
	}
	if out.Body.Text() != "merged clean\n" {
		t.Errorf("Body = %q, want %q", out.Body.Text(), "merged clean\n")
	}
}

func TestTwoWay_Conflict(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	currentPath, targetPath := filepath.Join(dir, "current"), filepath.Join(dir, "target")
	writeFile(t, currentPath, "user edit\n")
	writeFile(t, targetPath, "new template\n")

	conflictBody := "<<<<<<<\nuser edit\n=======\nnew template\n>>>>>>>\n"
	e := newTestEngine(&scriptedMergeRunner{mergedContents: conflictBody, exitCode: 1})

	out, err := e.TwoWay(context.Background(), "f.txt", currentPath, targetPath)
	if err != nil {
		t.Fatalf("TwoWay() error = %v", err)
	}
	if !out.HasConflict {
		t.Errorf("HasConflict = false, want true")
	}
}

func TestThreeWay_CleanMerge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base")
	currentPath, targetPath := filepath.Join(dir, "current"), filepath.Join(dir, "target")
	writeFile(t, basePath, "original\n")
	writeFile(t, currentPath, "user edit\n")
	writeFile(t, targetPath, "new template\n")

	e := newTestEngine(&scriptedMergeRunner{mergedContents: "merged clean\n", exitCode: 0})

	out, err := e.ThreeWay(context.Background(), "f.txt", basePath, currentPath, targetPath)
	if err != nil {
		t.Fatalf("ThreeWay() error = %v", err)
	}
	if out.HasConflict {
		t.Errorf("HasConflict = true, want false")
	}
}

func TestMerge_NonUTF8DegradesToTakeTarget(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	currentPath, targetPath := filepath.Join(dir, "current"), filepath.Join(dir, "target")
	binary := []byte{0xff, 0xfe, 0x00, 0x01}
	if err := os.WriteFile(currentPath, binary, fsutil.OwnerRWPerms); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writeFile(t, targetPath, "new template binary replacement")

	// A runner that would fail the test if actually invoked: non-UTF-8
	// files must short-circuit before any subprocess call.
	e := newTestEngine(&scriptedMergeRunner{exitCode: 99})

	out, err := e.TwoWay(context.Background(), "f.bin", currentPath, targetPath)
	if err != nil {
		t.Fatalf("TwoWay() error = %v", err)
	}
	if out.HasConflict {
		t.Errorf("HasConflict = true, want false for a take-target degradation")
	}
	if !out.Body.IsBytes() {
		t.Errorf("Body.IsBytes() = false, want true")
	}
	if string(out.Body.Bytes()) != "new template binary replacement" {
		t.Errorf("Body = %q, want the target's contents", out.Body.Bytes())
	}
}
