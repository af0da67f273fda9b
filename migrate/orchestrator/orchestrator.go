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

// Package orchestrator implements the Compute Orchestrator (spec.md §4.8):
// the top-level compute_migration algorithm that drives every other
// component end-to-end and assembles the MigrationResult.
package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/benbjohnson/clock"

	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/internal/engineerr"
	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/projectmeta"
	"github.com/kitforge/migrate/internal/tempdir"
	"github.com/kitforge/migrate/migrate/custommerge"
	"github.com/kitforge/migrate/migrate/pathclass"
	"github.com/kitforge/migrate/migrate/procexec"
	"github.com/kitforge/migrate/migrate/revision"
	"github.com/kitforge/migrate/migrate/scaffold"
	"github.com/kitforge/migrate/migrate/vcsdiff"
	"github.com/kitforge/migrate/migrate/vcsmerge"
)

// DefaultWorkingDirName is the conventional name of the staging directory
// created under the project root.
const DefaultWorkingDirName = ".migrate_staging"

// Params carries the arguments to Compute (spec.md §6's compute_migration).
type Params struct {
	Verbose     bool
	ProjectRoot string

	// BaseAppPath and TargetAppPath, if set, are pre-materialized reference
	// trees supplied by the caller; the orchestrator borrows them rather
	// than materializing or owning them.
	BaseAppPath   string
	TargetAppPath string

	BaseRevisionOverride   model.RevisionId
	TargetRevisionOverride model.RevisionId

	// Platforms overrides the set of platforms resolved from project
	// metadata, when non-empty.
	Platforms []model.PlatformTag

	PreferTwoWayMerge bool

	// App describes the project being migrated, for the scaffold
	// generator's benefit. Unused when both BaseAppPath and TargetAppPath
	// are supplied.
	App scaffold.AppDescriptor

	// EntryFileLangExt is the conventional extension of the project's
	// always-user-owned entry file (e.g. "kt"), passed to
	// pathclass.EntryFileName. Empty disables that check.
	EntryFileLangExt string
}

// Orchestrator wires together every other component into the end-to-end
// pipeline.
type Orchestrator struct {
	FS      fsutil.FS
	Runner  procexec.Runner
	Clock   clock.Clock
	Tracker *tempdir.Tracker

	Materializer *scaffold.Materializer
	DiffEngine   *vcsdiff.Engine
	MergeEngine  *vcsmerge.Engine
	CustomMerge  *custommerge.Registry

	TempBase string
	Workers  int

	// InstalledFrameworkRevision reports the toolkit's currently installed
	// framework revision, used as the fallback/target default per spec.md
	// §4.8 step 2.
	InstalledFrameworkRevision func(ctx context.Context) (model.RevisionId, error)

	// VCSInit initializes a version-control repo in dir.
	VCSInit func(ctx context.Context, dir string) error
}

// New constructs an Orchestrator with real subprocess/filesystem/clock
// backends and a toolkit remote of toolkitRemote. keepScratch, when true,
// leaves scratch directories on disk instead of releasing them (for
// debugging a failed run).
func New(toolkitRemote, tempBase string, keepScratch bool, workers int) *Orchestrator {
	runner := &procexec.RealRunner{}
	realFS := fsutil.RealFS{}
	tracker := tempdir.NewTracker(realFS, keepScratch)

	diffEngine := vcsdiff.NewEngine(tracker, tempBase)
	diffEngine.IsIgnored = vcsIsIgnored(runner)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Orchestrator{
		FS:      realFS,
		Runner:  runner,
		Clock:   clock.New(),
		Tracker: tracker,

		Materializer: scaffold.NewMaterializer(scaffold.ToolkitLocator{Remote: toolkitRemote}, tracker),
		DiffEngine:   diffEngine,
		MergeEngine:  vcsmerge.NewEngine(tracker, tempBase),
		CustomMerge:  custommerge.NewRegistry(custommerge.MetadataMerger{}),

		TempBase: tempBase,
		Workers:  workers,

		InstalledFrameworkRevision: installedFrameworkRevision(runner),
		VCSInit:                    vcsInit(runner),
	}
}

// Compute implements spec.md §4.8's compute_migration.
func (o *Orchestrator) Compute(ctx context.Context, p Params) (*model.MigrationResult, error) {
	logger := logging.FromContext(ctx).With("logger", "orchestrator.Orchestrator.Compute")

	// Step 1: pre-flight.
	workingDir := filepath.Join(p.ProjectRoot, DefaultWorkingDirName)
	exists, err := fsutil.Exists(o.FS, workingDir)
	if err != nil {
		return nil, fmt.Errorf("checking for existing working directory: %w", err)
	}
	if exists {
		return nil, engineerr.WorkingDirExists(workingDir)
	}

	// Step 2: load config and fallback/target defaults.
	metaPath := filepath.Join(p.ProjectRoot, projectmeta.FileName)
	meta, err := projectmeta.Load(o.FS, metaPath)
	if err != nil {
		return nil, fmt.Errorf("loading project metadata: %w", err)
	}
	cfg := meta.ToMigrateConfig()

	fallbackRevision := meta.VersionRevision
	if fallbackRevision.IsZero() {
		fallbackRevision, err = o.InstalledFrameworkRevision(ctx)
		if err != nil {
			return nil, fmt.Errorf("determining fallback revision: %w", err)
		}
	}
	targetRevision := p.TargetRevisionOverride
	if targetRevision.IsZero() {
		targetRevision, err = o.InstalledFrameworkRevision(ctx)
		if err != nil {
			return nil, fmt.Errorf("determining target revision: %w", err)
		}
	}

	platforms := p.Platforms
	if len(platforms) == 0 {
		platforms = cfg.OrderedPlatforms()
	}

	// Step 3: resolve revisions.
	resolution := revision.Resolve(cfg, fallbackRevision, p.BaseRevisionOverride)

	result := &model.MigrationResult{
		SdkDirs:   map[model.RevisionId]string{},
		Platforms: platforms,
		StartedAt: o.Clock.Now(),
	}

	// Steps 4-5: materialize base and target templates, unless the caller
	// supplied pre-materialized trees (borrowed, not owned).
	baseDir := p.BaseAppPath
	targetDir := p.TargetAppPath
	mergeTypeDefaults := map[model.RelativePath]model.MergeType{}

	if baseDir == "" {
		plan, err := o.Materializer.MaterializeBase(ctx, o.TempBase, p.App, resolution.Revisions, resolution.ByRevision, fallbackRevision, targetRevision)
		if err != nil {
			return nil, fmt.Errorf("materializing base templates: %w", err)
		}
		baseDir = plan.BaseTemplateDir
		mergeTypeDefaults = plan.MergeTypeDefaults
		result.SdkDirs = plan.SdkDirs
	}
	if targetDir == "" {
		targetDir, err = o.Materializer.MaterializeTarget(ctx, o.TempBase, p.App, platforms, targetRevision)
		if err != nil {
			return nil, fmt.Errorf("materializing target template: %w", err)
		}
	}
	result.BaseTemplateDir = baseDir
	result.TargetTemplateDir = targetDir

	// Step 6: initialize VCS repos.
	for _, dir := range []string{baseDir, targetDir, p.ProjectRoot} {
		if err := o.VCSInit(ctx, dir); err != nil {
			return nil, fmt.Errorf("initializing version control in %q: %w", dir, err)
		}
	}

	// Step 7: classify files (base vs target).
	entryFile := model.RelativePath("")
	if p.EntryFileLangExt != "" {
		entryFile = pathclass.EntryFileName(p.EntryFileLangExt)
	}

	baseFiles, err := listRelPaths(baseDir)
	if err != nil {
		return nil, fmt.Errorf("listing base template: %w", err)
	}
	targetFiles, err := listRelPaths(targetDir)
	if err != nil {
		return nil, fmt.Errorf("listing target template: %w", err)
	}

	diffMap := map[model.RelativePath]model.DiffOutcome{}
	for _, rp := range baseFiles {
		if pathclass.IsStaticallySkipped(rp, entryFile) {
			continue
		}
		outcome, err := o.DiffEngine.Diff(ctx, filepath.Join(baseDir, rp.String()), filepath.Join(targetDir, rp.String()), baseDir, rp.String())
		if err != nil {
			logger.WarnContext(ctx, "base/target diff failed, treating as changed", "path", rp, "error", err)
			outcome = model.DiffChanged{}
		}
		diffMap[rp] = outcome
	}

	var addedFiles []model.FilePendingMigration
	for _, rp := range targetFiles {
		if pathclass.IsStaticallySkipped(rp, entryFile) {
			continue
		}
		if _, ok := diffMap[rp]; ok {
			continue
		}
		// Present in target, absent from base: this is only "added" if the
		// project doesn't already have the path itself. If the user
		// independently created it, step 8's per-file decision owns it
		// instead, so it must not also show up here (spec.md §8's added_files
		// definition; §3's MergeOutcome/added_files mutual exclusivity).
		inProject, err := fsutil.Exists(o.FS, filepath.Join(p.ProjectRoot, rp.String()))
		if err != nil {
			return nil, fmt.Errorf("checking project for %q: %w", rp, err)
		}
		if inProject {
			continue
		}
		diffMap[rp] = model.DiffAddedOnly{}
		addedFiles = append(addedFiles, model.FilePendingMigration{
			LocalPath: rp,
			SourceHandle: model.FileHandle{
				AbsPath:    filepath.Join(targetDir, rp.String()),
				ScratchDir: targetDir,
			},
		})
	}

	// Step 8: per-project-file decision, over a bounded worker pool.
	projectFiles, err := listRelPaths(p.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("listing project: %w", err)
	}

	var candidates []model.RelativePath
	for _, rp := range projectFiles {
		if rp.HasDirPrefix(model.RelativePath(DefaultWorkingDirName)) {
			continue
		}
		if pathclass.IsStaticallySkipped(rp, entryFile) || pathclass.IsSkipMerge(rp) {
			continue
		}
		unmanaged, err := pathclass.IsUnmanaged(rp, cfg)
		if err != nil {
			return nil, fmt.Errorf("evaluating unmanaged rule for %q: %w", rp, err)
		}
		if unmanaged {
			continue
		}
		if o.DiffEngine.IsIgnored != nil {
			ignored, err := o.DiffEngine.IsIgnored(ctx, p.ProjectRoot, rp.String())
			if err != nil {
				return nil, fmt.Errorf("checking ignore rules for %q: %w", rp, err)
			}
			if ignored {
				continue
			}
		}
		candidates = append(candidates, rp)
	}

	emptyFile, err := o.emptyScratchFile()
	if err != nil {
		return nil, err
	}

	decisions := o.decideAll(ctx, p, candidates, baseDir, targetDir, emptyFile, diffMap, mergeTypeDefaults)

	var mergeResults []model.MergeOutcome
	var deletedFiles []model.FilePendingMigration
	for _, d := range decisions {
		switch d.kind {
		case decisionMerge:
			mergeResults = append(mergeResults, d.mergeOutcome)
		case decisionDelete:
			deletedFiles = append(deletedFiles, model.FilePendingMigration{
				LocalPath: d.path,
				SourceHandle: model.FileHandle{
					AbsPath:    filepath.Join(p.ProjectRoot, d.path.String()),
					ScratchDir: "",
				},
			})
		}
	}

	sort.Slice(addedFiles, func(i, j int) bool { return addedFiles[i].LocalPath < addedFiles[j].LocalPath })
	sort.Slice(mergeResults, func(i, j int) bool { return mergeResults[i].LocalPath < mergeResults[j].LocalPath })
	sort.Slice(deletedFiles, func(i, j int) bool { return deletedFiles[i].LocalPath < deletedFiles[j].LocalPath })

	result.MergeResults = mergeResults
	result.AddedFiles = addedFiles
	result.DeletedFiles = deletedFiles

	// Step 9: assemble result. The Tracker only ever tracks directories this
	// package created itself (SDK clones, base/target template output, diff
	// and merge scratch dirs); caller-supplied base/target app paths are
	// borrowed and never passed through MkdirTempTracked, so they never
	// appear here regardless of which materialization steps ran.
	result.TempDirs = o.Tracker.Dirs()

	return result, nil
}

// emptyScratchFile creates (once) a zero-byte file the merge engine can use
// as a stand-in "target" for files the target template no longer outputs.
func (o *Orchestrator) emptyScratchFile() (string, error) {
	dir, err := o.Tracker.MkdirTempTracked(o.TempBase, "empty-")
	if err != nil {
		return "", fmt.Errorf("creating empty-file scratch dir: %w", err)
	}
	path := filepath.Join(dir, "empty")
	if err := o.FS.WriteFile(path, nil, fsutil.OwnerRWPerms); err != nil {
		return "", fmt.Errorf("writing empty scratch file: %w", err)
	}
	return path, nil
}

// Release frees the scratch directories the orchestrator created. The
// caller should invoke this only after the manifest has been written and
// consumed.
func (o *Orchestrator) Release(ctx context.Context) {
	o.Tracker.Release(ctx)
}

type decisionKind int

const (
	decisionSkip decisionKind = iota
	decisionDelete
	decisionMerge
)

type decision struct {
	path         model.RelativePath
	kind         decisionKind
	mergeOutcome model.MergeOutcome
}

// decideAll evaluates spec.md §4.8 step 8 over candidates using a bounded
// worker pool; results are returned in candidates' input order regardless of
// completion order, so callers can post-process deterministically.
//
// Per spec.md §4.8's failure semantics, a single candidate's diff or merge
// failure never aborts the run: decideOne always resolves to some decision
// for every candidate, degrading to take-target or a skip as needed.
func (o *Orchestrator) decideAll(
	ctx context.Context,
	p Params,
	candidates []model.RelativePath,
	baseDir, targetDir, emptyFile string,
	diffMap map[model.RelativePath]model.DiffOutcome,
	mergeTypeDefaults map[model.RelativePath]model.MergeType,
) []decision {
	out := make([]decision, len(candidates))

	workers := o.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers == 0 {
		return out
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, rp := range candidates {
		i, rp := i, rp
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = o.decideOne(ctx, p, rp, baseDir, targetDir, emptyFile, diffMap, mergeTypeDefaults)
		}()
	}
	wg.Wait()

	return out
}

// decideOne evaluates spec.md §4.8 step 8 for a single candidate path.
// Failures reading or diffing or merging the file degrade to taking the
// target's content (or a skip, when even that isn't possible) rather than
// propagating an error: per spec.md §4.8, individual file failures must not
// abort the run.
func (o *Orchestrator) decideOne(
	ctx context.Context,
	p Params,
	rp model.RelativePath,
	baseDir, targetDir, emptyFile string,
	diffMap map[model.RelativePath]model.DiffOutcome,
	mergeTypeDefaults map[model.RelativePath]model.MergeType,
) decision {
	logger := logging.FromContext(ctx).With("logger", "orchestrator.Orchestrator.decideOne")

	currentFile := filepath.Join(p.ProjectRoot, rp.String())
	baseFile := filepath.Join(baseDir, rp.String())
	targetFile := filepath.Join(targetDir, rp.String())

	degradeToTakeTarget := func(reason string, err error) decision {
		logger.WarnContext(ctx, reason, "path", rp, "error", err)
		body, rerr := takeTargetBody(o.FS, targetFile)
		if rerr != nil {
			logger.WarnContext(ctx, "target template also unreadable, skipping", "path", rp, "error", rerr)
			return decision{path: rp, kind: decisionSkip}
		}
		return decision{path: rp, kind: decisionMerge, mergeOutcome: model.MergeOutcome{
			LocalPath: rp,
			Body:      body,
		}}
	}

	userDiff, err := o.DiffEngine.Diff(ctx, currentFile, baseFile, p.ProjectRoot, rp.String())
	if err != nil {
		return degradeToTakeTarget("diffing against base template failed", err)
	}
	targetDiff, err := o.DiffEngine.Diff(ctx, currentFile, targetFile, p.ProjectRoot, rp.String())
	if err != nil {
		return degradeToTakeTarget("diffing against target template failed", err)
	}

	if model.IsEqual(targetDiff) {
		return decision{path: rp, kind: decisionSkip}
	}

	if model.IsEqual(userDiff) {
		switch diffMap[rp].(type) {
		case model.DiffDeletedOnly:
			return decision{path: rp, kind: decisionDelete}
		case model.DiffChanged:
			body, err := takeTargetBody(o.FS, targetFile)
			if err != nil {
				logger.WarnContext(ctx, "reading target template failed, skipping", "path", rp, "error", err)
				return decision{path: rp, kind: decisionSkip}
			}
			return decision{path: rp, kind: decisionMerge, mergeOutcome: model.MergeOutcome{
				LocalPath:   rp,
				Body:        body,
				HasConflict: false,
			}}
		default:
			return decision{path: rp, kind: decisionSkip}
		}
	}

	// The user modified a file the target template no longer outputs: this
	// always surfaces as a conflict, a two-way merge against an empty
	// target, rather than a silent delete.
	if _, deletedInTarget := diffMap[rp].(model.DiffDeletedOnly); deletedInTarget {
		mo, err := o.MergeEngine.TwoWay(ctx, rp, currentFile, emptyFile)
		if err != nil {
			logger.WarnContext(ctx, "forced conflict merge failed, taking current content as a conflict", "path", rp, "error", err)
			current, rerr := o.FS.ReadFile(currentFile)
			if rerr != nil {
				return decision{path: rp, kind: decisionSkip}
			}
			body := model.TextBody(string(current))
			if !utf8.Valid(current) {
				body = model.BytesBody(current)
			}
			return decision{path: rp, kind: decisionMerge, mergeOutcome: model.MergeOutcome{
				LocalPath:   rp,
				Body:        body,
				HasConflict: true,
			}}
		}
		mo.HasConflict = true
		return decision{path: rp, kind: decisionMerge, mergeOutcome: mo}
	}

	// The path is absent from both base and target templates: nothing the
	// engine materialized manages it, so it's a purely user-owned file (e.g.
	// one the user created independently) and produces no output. There is
	// no target content to take, so falling through to a merge below would
	// hand the merge engine a target file that doesn't exist.
	baseExists, errBase := fsutil.Exists(o.FS, baseFile)
	targetExists, errTarget := fsutil.Exists(o.FS, targetFile)
	if errBase != nil || errTarget != nil {
		logger.WarnContext(ctx, "checking template existence failed, skipping", "path", rp)
		return decision{path: rp, kind: decisionSkip}
	}
	if !baseExists && !targetExists {
		return decision{path: rp, kind: decisionSkip}
	}

	// The user changed the file and the template also changed or
	// introduced it: merge.
	if merger := o.CustomMerge.Lookup(rp); merger != nil {
		currentBytes, err := o.FS.ReadFile(currentFile)
		if err != nil {
			return degradeToTakeTarget("reading current file for custom merge failed", err)
		}
		baseBytes, _ := o.FS.ReadFile(baseFile)
		targetBytes, err := o.FS.ReadFile(targetFile)
		if err != nil {
			return degradeToTakeTarget("reading target file for custom merge failed", err)
		}
		mo, err := merger.Merge(ctx, rp, currentBytes, baseBytes, targetBytes)
		if err != nil {
			return degradeToTakeTarget("custom merge failed", err)
		}
		return decision{path: rp, kind: decisionMerge, mergeOutcome: mo}
	}

	// The zero value of mergeTypeDefaults[rp] is MergeTwoWay, which is
	// already the map's documented default for paths with no recorded
	// MergeType.
	mergeType := mergeTypeDefaults[rp]
	if p.PreferTwoWayMerge {
		mergeType = model.MergeTwoWay
	} else if sameHunkBody(userDiff, targetDiff) {
		mergeType = model.MergeTwoWay
	}

	var mo model.MergeOutcome
	if mergeType == model.MergeThreeWay {
		mo, err = o.MergeEngine.ThreeWay(ctx, rp, baseFile, currentFile, targetFile)
	} else {
		mo, err = o.MergeEngine.TwoWay(ctx, rp, currentFile, targetFile)
	}
	if err != nil {
		return degradeToTakeTarget("merging failed", err)
	}
	return decision{path: rp, kind: decisionMerge, mergeOutcome: mo}
}

// sameHunkBody reports whether userDiff and targetDiff are both DiffChanged
// outcomes whose patch bodies, from the first hunk marker onward, are
// identical — meaning the user's edit is exactly the template's own delta
// from base, so a three-way merge would just undo it.
func sameHunkBody(userDiff, targetDiff model.DiffOutcome) bool {
	uc, ok := userDiff.(model.DiffChanged)
	if !ok {
		return false
	}
	tc, ok := targetDiff.(model.DiffChanged)
	if !ok {
		return false
	}
	return hunkBody(uc.Patch) == hunkBody(tc.Patch)
}

// hunkBody returns patch from its first hunk marker ("@@") onward, dropping
// any leading file-header lines. If no marker is found, patch is returned
// unchanged.
func hunkBody(patch string) string {
	idx := strings.Index(patch, "@@")
	if idx < 0 {
		return patch
	}
	return patch[idx:]
}

// takeTargetBody reads targetFile and wraps it as a MergedBody, using raw
// bytes when the content isn't valid UTF-8.
func takeTargetBody(f fsutil.FS, targetFile string) (model.MergedBody, error) {
	buf, err := f.ReadFile(targetFile)
	if err != nil {
		return model.MergedBody{}, fmt.Errorf("ReadFile(%q): %w", targetFile, err)
	}
	if !utf8.Valid(buf) {
		return model.BytesBody(buf), nil
	}
	return model.TextBody(string(buf)), nil
}

// listRelPaths returns every regular file under dir as a sorted slice of
// RelativePaths.
func listRelPaths(dir string) ([]model.RelativePath, error) {
	exists, err := fsutil.Exists(fsutil.RealFS{}, dir)
	if err != nil {
		return nil, fmt.Errorf("Stat(%q): %w", dir, err)
	}
	if !exists {
		return nil, nil
	}
	var out []model.RelativePath
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
		out = append(out, rp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", dir, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// vcsIsIgnored returns the closure wired into vcsdiff.Engine.IsIgnored.
func vcsIsIgnored(runner procexec.Runner) func(ctx context.Context, repoDir, relPath string) (bool, error) {
	return func(ctx context.Context, repoDir, relPath string) (bool, error) {
		res, err := runner.Run(ctx, "vcs", []string{"check-ignore", relPath}, procexec.WithCwd(repoDir))
		if err != nil {
			return false, fmt.Errorf("exec of vcs check-ignore failed: %w", err)
		}
		switch res.ExitCode {
		case 0:
			return true, nil
		case 1:
			return false, nil
		default:
			return false, fmt.Errorf("vcs check-ignore exited %d: %s", res.ExitCode, res.Stderr)
		}
	}
}

// vcsInit returns the closure used to initialize a version-control repo,
// tolerating re-initialization of an already-initialized directory.
func vcsInit(runner procexec.Runner) func(ctx context.Context, dir string) error {
	return func(ctx context.Context, dir string) error {
		_, err := runner.Run(ctx, "vcs", []string{"init"}, procexec.WithCwd(dir))
		if err != nil {
			return fmt.Errorf("exec of vcs init failed: %w", err)
		}
		return nil
	}
}

// installedFrameworkRevision returns the closure used to ask the toolkit
// which framework revision is currently installed.
func installedFrameworkRevision(runner procexec.Runner) func(ctx context.Context) (model.RevisionId, error) {
	return func(ctx context.Context) (model.RevisionId, error) {
		res, err := runner.Run(ctx, "toolkit", []string{"--version"})
		if err != nil {
			return "", fmt.Errorf("exec of toolkit --version failed: %w", err)
		}
		if res.ExitCode != 0 {
			return "", fmt.Errorf("toolkit --version exited %d: %s", res.ExitCode, res.Stderr)
		}
		return model.RevisionId(strings.TrimSpace(res.Stdout)), nil
	}
}
