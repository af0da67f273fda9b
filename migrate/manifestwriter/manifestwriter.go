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

// Package manifestwriter implements the Manifest Writer (spec.md §4.9): it
// serializes a model.MigrationResult into an on-disk working directory plus
// a manifest index, the contract the later status/apply phases consume.
package manifestwriter

import (
	"fmt"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
)

// FileName is the name of the manifest index file written at the root of
// the working directory.
const FileName = "manifest"

// Manifest is the on-disk index consumed by the later status/apply phases.
type Manifest struct {
	MergedFiles   []string `yaml:"merged_files"`
	ConflictFiles []string `yaml:"conflict_files"`
	AddedFiles    []string `yaml:"added_files"`
	DeletedFiles  []string `yaml:"deleted_files"`
}

// WriteWorkingDirectory implements spec.md §4.9: it materializes result into
// workingDir (creating it), writing every merge outcome and added file at its
// relative path, then writes the manifest index alongside them.
func WriteWorkingDirectory(f fsutil.FS, result *model.MigrationResult, workingDir string) error {
	if err := f.MkdirAll(workingDir, fsutil.OwnerRWXPerms); err != nil {
		return fmt.Errorf("creating working directory %q: %w", workingDir, err)
	}

	var mergedFiles, conflictFiles, addedFiles, deletedFiles []string

	for _, mo := range result.MergeResults {
		if err := writeBody(f, workingDir, mo.LocalPath, mo.Body); err != nil {
			return err
		}
		if mo.HasConflict {
			conflictFiles = append(conflictFiles, mo.LocalPath.String())
		} else {
			mergedFiles = append(mergedFiles, mo.LocalPath.String())
		}
	}

	for _, added := range result.AddedFiles {
		buf, err := f.ReadFile(added.SourceHandle.AbsPath)
		if err != nil {
			return fmt.Errorf("reading added file %q: %w", added.SourceHandle.AbsPath, err)
		}
		if err := writeBody(f, workingDir, added.LocalPath, model.BytesBody(buf)); err != nil {
			return err
		}
		addedFiles = append(addedFiles, added.LocalPath.String())
	}

	for _, deleted := range result.DeletedFiles {
		deletedFiles = append(deletedFiles, deleted.LocalPath.String())
	}

	sort.Strings(mergedFiles)
	sort.Strings(conflictFiles)
	sort.Strings(addedFiles)
	sort.Strings(deletedFiles)

	manifest := Manifest{
		MergedFiles:   mergedFiles,
		ConflictFiles: conflictFiles,
		AddedFiles:    addedFiles,
		DeletedFiles:  deletedFiles,
	}
	buf, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := f.WriteFile(filepath.Join(workingDir, FileName), buf, fsutil.OwnerRWPerms); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously-written manifest index, for the status and
// apply phases.
func ReadManifest(f fsutil.FS, workingDir string) (*Manifest, error) {
	buf, err := f.ReadFile(filepath.Join(workingDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(buf, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

func writeBody(f fsutil.FS, workingDir string, localPath model.RelativePath, body model.MergedBody) error {
	dest := filepath.Join(workingDir, localPath.String())
	if err := f.MkdirAll(filepath.Dir(dest), fsutil.OwnerRWXPerms); err != nil {
		return fmt.Errorf("creating parent dir for %q: %w", dest, err)
	}
	var buf []byte
	if body.IsBytes() {
		buf = body.Bytes()
	} else {
		buf = []byte(body.Text())
	}
	if err := f.WriteFile(dest, buf, fsutil.OwnerRWPerms); err != nil {
		return fmt.Errorf("writing %q: %w", dest, err)
	}
	return nil
}
