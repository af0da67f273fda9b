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

// Package scaffold implements the Template Materializer: it acquires the
// UI-toolkit SDK at a given revision and uses it to regenerate a template
// project into a scratch directory, applying the §4.3 fallback policy when
// a revision can't be materialized.
package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/internal/engineerr"
	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/tempdir"
	"github.com/kitforge/migrate/migrate/procexec"
)

// ToolkitLocator describes where and how to fetch the toolkit SDK.
type ToolkitLocator struct {
	// Remote is the URL/path passed to the toolkit's clone subcommand.
	Remote string
}

// AppDescriptor carries the application-specific arguments the scaffold
// generator needs: its name, and the per-platform language choices derived
// from the user's existing project (e.g. Kotlin vs Java, Swift vs
// Objective-C).
type AppDescriptor struct {
	AppName         string
	AndroidLanguage string
	IOSLanguage     string
	Org             string
}

// Materializer acquires toolkit SDKs and regenerates template projects from
// them.
type Materializer struct {
	Runner  procexec.Runner
	FS      fsutil.FS
	Toolkit ToolkitLocator
	Tracker *tempdir.Tracker
}

// NewMaterializer constructs a Materializer with the real process runner and
// filesystem.
func NewMaterializer(toolkit ToolkitLocator, tracker *tempdir.Tracker) *Materializer {
	return &Materializer{
		Runner:  &procexec.RealRunner{},
		FS:      fsutil.RealFS{},
		Toolkit: toolkit,
		Tracker: tracker,
	}
}

// Plan is the result of materializing every revision in a resolution: the
// shared base-template directory, the default MergeType per newly-seen
// file, and the scratch SDK directory used for each originally-requested
// revision (which may be a fallback).
type Plan struct {
	BaseTemplateDir   string
	MergeTypeDefaults map[model.RelativePath]model.MergeType
	SdkDirs           map[model.RevisionId]string
}

// MaterializeBase implements spec.md §4.4 across the full ordered revision
// list from the Revision Resolver: root first, successive invocations
// overlay into a single scratch directory.
func (m *Materializer) MaterializeBase(
	ctx context.Context,
	tempBase string,
	app AppDescriptor,
	orderedRevisions []model.RevisionId,
	byRevision map[model.RevisionId][]*model.PlatformConfig,
	fallbackRevision, targetRevision model.RevisionId,
) (*Plan, error) {
	logger := logging.FromContext(ctx).With("logger", "scaffold.Materializer.MaterializeBase")

	baseDir, err := m.Tracker.MkdirTempTracked(tempBase, tempdir.BaseTemplateDirNamePart)
	if err != nil {
		return nil, fmt.Errorf("creating base-template scratch dir: %w", err)
	}

	plan := &Plan{
		BaseTemplateDir:   baseDir,
		MergeTypeDefaults: map[model.RelativePath]model.MergeType{},
		SdkDirs:           map[model.RevisionId]string{},
	}

	actualSDKByRevision := map[model.RevisionId]string{}

	for _, requested := range orderedRevisions {
		actual, sdkDir, err := m.acquireSDK(ctx, tempBase, requested, fallbackRevision, targetRevision, actualSDKByRevision)
		if err != nil {
			return nil, err
		}
		plan.SdkDirs[requested] = sdkDir

		platforms := platformTags(byRevision[requested])
		if len(platforms) == 0 {
			continue
		}

		before, err := snapshot(m.FS, baseDir)
		if err != nil {
			return nil, err
		}

		isTarget := actual == targetRevision
		logger.DebugContext(ctx, "generating scaffold", "requested_revision", requested, "actual_revision", actual, "platforms", platforms, "is_target", isTarget)

		if err := m.generate(ctx, sdkDir, app, platforms, baseDir); err != nil {
			return nil, fmt.Errorf("generating scaffold for revision %q: %w", requested, err)
		}

		after, err := snapshot(m.FS, baseDir)
		if err != nil {
			return nil, err
		}

		mergeType := model.MergeThreeWay
		if isTarget {
			mergeType = model.MergeTwoWay
		}
		for p := range after {
			if before[p] {
				continue
			}
			if _, already := plan.MergeTypeDefaults[p]; already {
				continue
			}
			plan.MergeTypeDefaults[p] = mergeType
		}
	}

	return plan, nil
}

// MaterializeTarget generates the target template at targetRevision into its
// own scratch directory.
func (m *Materializer) MaterializeTarget(
	ctx context.Context,
	tempBase string,
	app AppDescriptor,
	platforms []model.PlatformTag,
	targetRevision model.RevisionId,
) (string, error) {
	targetDir, err := m.Tracker.MkdirTempTracked(tempBase, tempdir.TargetTemplateDirNamePart)
	if err != nil {
		return "", fmt.Errorf("creating target-template scratch dir: %w", err)
	}

	actualSDKByRevision := map[model.RevisionId]string{}
	_, sdkDir, err := m.acquireSDK(ctx, tempBase, targetRevision, targetRevision, targetRevision, actualSDKByRevision)
	if err != nil {
		return "", err
	}

	nonRoot := make([]model.PlatformTag, 0, len(platforms))
	for _, p := range platforms {
		if p != model.PlatformRoot {
			nonRoot = append(nonRoot, p)
		}
	}

	if err := m.generate(ctx, sdkDir, app, nonRoot, targetDir); err != nil {
		return "", fmt.Errorf("generating target scaffold: %w", err)
	}
	return targetDir, nil
}

// acquireSDK implements the §4.3 fallback policy: try requested, then
// fallback, then target, in that order, succeeding with the first that
// clones successfully. Clones are cached by the actual revision used, so two
// requested revisions that fall back to the same actual one share a single
// clone.
func (m *Materializer) acquireSDK(
	ctx context.Context,
	tempBase string,
	requested, fallback, target model.RevisionId,
	cache map[model.RevisionId]string,
) (actual model.RevisionId, dir string, err error) {
	logger := logging.FromContext(ctx).With("logger", "scaffold.Materializer.acquireSDK")

	candidates := dedupNonZero(requested, fallback, target)
	var tried []string
	var lastErr error

	for _, candidate := range candidates {
		if d, ok := cache[candidate]; ok {
			return candidate, d, nil
		}

		tried = append(tried, string(candidate))
		d, err := m.Tracker.MkdirTempTracked(tempBase, tempdir.SDKDirNamePart)
		if err != nil {
			return "", "", fmt.Errorf("creating SDK scratch dir: %w", err)
		}

		if err := m.clone(ctx, candidate, d); err != nil {
			logger.WarnContext(ctx, "failed to materialize revision, trying next fallback", "revision", candidate, "error", err)
			lastErr = err
			continue
		}

		cache[candidate] = d
		return candidate, d, nil
	}

	return "", "", engineerr.RevisionUnavailable(tried, lastErr)
}

func (m *Materializer) clone(ctx context.Context, rev model.RevisionId, outDir string) error {
	tag := normalizeRevision(rev)
	res, err := m.Runner.Run(ctx, "toolkit", []string{"clone", tag, outDir})
	if err != nil {
		return fmt.Errorf("exec of toolkit clone failed: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("toolkit clone exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

func (m *Materializer) generate(ctx context.Context, sdkDir string, app AppDescriptor, platforms []model.PlatformTag, outDir string) error {
	if len(platforms) == 0 {
		return nil
	}
	csv := joinPlatforms(platforms)
	args := []string{
		"create",
		"--template=app",
		"--org", app.Org,
		"--project-name", app.AppName,
		"--android-language", app.AndroidLanguage,
		"--ios-language", app.IOSLanguage,
		"--platforms", csv,
		outDir,
	}
	toolkitBin := filepath.Join(sdkDir, "bin", "toolkit")
	res, err := m.Runner.Run(ctx, toolkitBin, args)
	if err != nil {
		return fmt.Errorf("exec of toolkit create failed: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("toolkit create exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// normalizeRevision prepends "v" to revisions that look like bare semver
// numbers (e.g. "3.1.0" -> "v3.1.0"), since the toolkit's clone subcommand
// expects module-style version tags. Anything else (content hashes, branch
// names) passes through unchanged.
func normalizeRevision(rev model.RevisionId) string {
	s := string(rev)
	if s == "" {
		return s
	}
	if semver.IsValid(s) {
		return s
	}
	if semver.IsValid("v" + s) {
		return "v" + s
	}
	return s
}

func dedupNonZero(revs ...model.RevisionId) []model.RevisionId {
	seen := map[model.RevisionId]bool{}
	out := make([]model.RevisionId, 0, len(revs))
	for _, r := range revs {
		if r.IsZero() || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func platformTags(pcs []*model.PlatformConfig) []model.PlatformTag {
	out := make([]model.PlatformTag, 0, len(pcs))
	for _, pc := range pcs {
		if pc.Platform == model.PlatformRoot {
			continue
		}
		out = append(out, pc.Platform)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinPlatforms(platforms []model.PlatformTag) string {
	s := ""
	for i, p := range platforms {
		if i > 0 {
			s += ","
		}
		s += string(p)
	}
	return s
}

// snapshot returns the set of relative paths present under dir.
func snapshot(f fsutil.FS, dir string) (map[model.RelativePath]bool, error) {
	out := map[model.RelativePath]bool{}
	exists, err := fsutil.Exists(f, dir)
	if err != nil {
		return nil, fmt.Errorf("Stat(%q): %w", dir, err)
	}
	if !exists {
		return out, nil
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rp, err := model.NewRelativePath(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		out[rp] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", dir, err)
	}
	return out, nil
}
