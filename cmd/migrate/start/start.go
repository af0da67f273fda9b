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

// Package start implements the "start" subcommand: it runs compute_migration
// end to end and writes the resulting working directory.
package start

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/abcxyz/pkg/cli"
	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/migrate/manifestwriter"
	"github.com/kitforge/migrate/migrate/orchestrator"
	"github.com/kitforge/migrate/migrate/scaffold"
)

type Command struct {
	cli.BaseCommand
	flags Flags
}

// Flags holds start's command-line arguments.
type Flags struct {
	ProjectRoot    string
	ToolkitRemote  string
	BaseRevision   string
	TargetRevision string
	Platforms      []string
	PreferTwoWay   bool
	KeepTempDirs   bool
	DeleteTemp     bool
	Workers        int

	AppName         string
	Org             string
	AndroidLanguage string
	IOSLanguage     string
	EntryLangExt    string
}

func (f *Flags) Register(set *cli.FlagSet) {
	s := set.NewSection("MIGRATION OPTIONS")

	s.StringVar(&cli.StringVar{
		Name:    "project",
		Target:  &f.ProjectRoot,
		Default: ".",
		Usage:   "The project directory to migrate.",
	})
	s.StringVar(&cli.StringVar{
		Name:   "toolkit-remote",
		Target: &f.ToolkitRemote,
		Usage:  "Required. The toolkit SDK's remote source, passed to its clone subcommand.",
	})
	s.StringVar(&cli.StringVar{
		Name:   "base-revision",
		Target: &f.BaseRevision,
		Usage:  "Override the resolved base revision for every platform, skipping per-platform fallback.",
	})
	s.StringVar(&cli.StringVar{
		Name:   "target-revision",
		Target: &f.TargetRevision,
		Usage:  "The revision to migrate to. Defaults to the installed toolkit's framework revision.",
	})
	s.StringSliceVar(&cli.StringSliceVar{
		Name:   "platform",
		Target: &f.Platforms,
		Usage:  "Restrict the migration to these platforms; may be repeated. Defaults to every platform in the project's metadata.",
	})
	s.BoolVar(&cli.BoolVar{
		Name:    "prefer-two-way",
		Target:  &f.PreferTwoWay,
		Default: false,
		Usage:   "Force every merge to two-way, even where a three-way ancestor is available.",
	})
	s.BoolVar(&cli.BoolVar{
		Name:    "keep-temp-dirs",
		Target:  &f.KeepTempDirs,
		Default: false,
		Usage:   "Preserve scratch directories instead of releasing them after the run.",
	})
	s.BoolVar(&cli.BoolVar{
		Name:    "delete-temp-directories",
		Target:  &f.DeleteTemp,
		Default: true,
		Usage:   "Release scratch directories once the working directory has been written.",
	})
	s.IntVar(&cli.IntVar{
		Name:    "workers",
		Target:  &f.Workers,
		Default: 0,
		Usage:   "Bound the classification stage's worker pool; 0 uses GOMAXPROCS.",
	})

	s.StringVar(&cli.StringVar{
		Name:   "app-name",
		Target: &f.AppName,
		Usage:  "The application name passed to the scaffold generator.",
	})
	s.StringVar(&cli.StringVar{
		Name:   "org",
		Target: &f.Org,
		Usage:  "The organization identifier passed to the scaffold generator.",
	})
	s.StringVar(&cli.StringVar{
		Name:    "android-language",
		Target:  &f.AndroidLanguage,
		Default: "kotlin",
		Usage:   "The Android language the project was scaffolded with.",
	})
	s.StringVar(&cli.StringVar{
		Name:    "ios-language",
		Target:  &f.IOSLanguage,
		Default: "swift",
		Usage:   "The iOS language the project was scaffolded with.",
	})
	s.StringVar(&cli.StringVar{
		Name:   "entry-file-extension",
		Target: &f.EntryLangExt,
		Usage:  "The resolved extension of the project's always-user-owned entry file (e.g. \"kt\"). Leave empty to disable that check.",
	})
}

// Desc implements cli.Command.
func (c *Command) Desc() string {
	return "compute a migration for a project and write its working directory"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command reconstructs the base and target reference
templates for the project, classifies every file, performs any needed
merges, and writes the result to a working directory under the project
root for inspection before "apply".
`
}

func (c *Command) Flags() *cli.FlagSet {
	set := c.NewFlagSet()
	c.flags.Register(set)
	return set
}

func (c *Command) Run(ctx context.Context, args []string) error {
	if err := c.Flags().Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return c.realRun(ctx)
}

func (c *Command) realRun(ctx context.Context) error {
	logger := logging.FromContext(ctx).With("logger", "start.Command.realRun")

	f := c.flags
	orch := orchestrator.New(f.ToolkitRemote, os.TempDir(), f.KeepTempDirs, f.Workers)

	platforms := make([]model.PlatformTag, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		platforms = append(platforms, model.PlatformTag(p))
	}

	params := orchestrator.Params{
		ProjectRoot:            f.ProjectRoot,
		BaseRevisionOverride:   model.RevisionId(f.BaseRevision),
		TargetRevisionOverride: model.RevisionId(f.TargetRevision),
		Platforms:              platforms,
		PreferTwoWayMerge:      f.PreferTwoWay,
		EntryFileLangExt:       f.EntryLangExt,
		App: scaffold.AppDescriptor{
			AppName:         f.AppName,
			Org:             f.Org,
			AndroidLanguage: f.AndroidLanguage,
			IOSLanguage:     f.IOSLanguage,
		},
	}

	result, err := orch.Compute(ctx, params)
	if err != nil {
		return fmt.Errorf("computing migration: %w", err)
	}

	if f.DeleteTemp {
		defer orch.Release(ctx)
	} else {
		logger.InfoContext(ctx, "keeping scratch directories per --delete-temp-directories=false")
	}

	workingDir := fmt.Sprintf("%s/%s", f.ProjectRoot, orchestrator.DefaultWorkingDirName)
	if err := manifestwriter.WriteWorkingDirectory(fsutil.RealFS{}, result, workingDir); err != nil {
		return fmt.Errorf("writing working directory: %w", err)
	}

	printSummary(c.Stdout(), result)
	return nil
}

// printSummary writes a short, TTY-gated colorized summary of the computed
// migration to w.
func printSummary(w io.Writer, result *model.MigrationResult) {
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	conflicts := 0
	for _, mo := range result.MergeResults {
		if mo.HasConflict {
			conflicts++
		}
	}

	line := fmt.Sprintf("merged=%d (conflicts=%d) added=%d deleted=%d\n",
		len(result.MergeResults), conflicts, len(result.AddedFiles), len(result.DeletedFiles))

	if !useColor {
		fmt.Fprint(w, line)
		return
	}
	if conflicts > 0 {
		fmt.Fprint(w, color.YellowString(line))
		return
	}
	fmt.Fprint(w, color.GreenString(line))
}
