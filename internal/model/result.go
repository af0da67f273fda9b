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

package model

import "time"

// MigrationResult is the top-level output of computing a migration. Every
// file seen by the engine is classified into exactly one of: skipped,
// ignored-by-vcs, unchanged (absent from all the fields below), added,
// deleted, merged-clean, or merged-with-conflict.
type MigrationResult struct {
	// MergeResults holds one entry per file that needed a merge, in stable
	// path order. HasConflict distinguishes merged-clean from
	// merged-with-conflict.
	MergeResults []MergeOutcome

	// AddedFiles are files newly introduced by the target template that
	// don't exist in the project.
	AddedFiles []FilePendingMigration

	// DeletedFiles are files the target template no longer outputs and that
	// the user never modified.
	DeletedFiles []FilePendingMigration

	// BaseTemplateDir and TargetTemplateDir are the roots of the two
	// synthetic reference project trees.
	BaseTemplateDir   string
	TargetTemplateDir string

	// SdkDirs maps each materialized revision to the scratch directory that
	// holds its cloned toolkit SDK.
	SdkDirs map[RevisionId]string

	// TempDirs lists scratch directories that must eventually be released by
	// the caller via a cleanup entry point. Caller-supplied base/target app
	// paths are borrowed, not owned, and are never included here.
	TempDirs []string

	// Platforms is the resolved set of platforms actually used for this run.
	Platforms []PlatformTag

	// StartedAt is stamped from the orchestrator's injected clock.
	StartedAt time.Time
}
