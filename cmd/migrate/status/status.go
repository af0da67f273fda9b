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

// Package status implements the "status" subcommand: it reports the
// manifest of a previously computed, not-yet-applied migration. Out of
// scope for this engine (spec.md §1 Non-goals exclude the outer apply/abandon
// workflow); this is a thin reader over the manifest the Manifest Writer
// already produces.
package status

import (
	"context"
	"fmt"

	"github.com/abcxyz/pkg/cli"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/migrate/manifestwriter"
	"github.com/kitforge/migrate/migrate/orchestrator"
)

type Command struct {
	cli.BaseCommand
	projectRoot string
}

func (c *Command) Desc() string {
	return "print the manifest of a migration working directory"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command prints the manifest index of a working directory
previously produced by "start".
`
}

func (c *Command) Flags() *cli.FlagSet {
	set := c.NewFlagSet()
	s := set.NewSection("OPTIONS")
	s.StringVar(&cli.StringVar{
		Name:    "project",
		Target:  &c.projectRoot,
		Default: ".",
		Usage:   "The project directory holding the working directory.",
	})
	return set
}

func (c *Command) Run(ctx context.Context, args []string) error {
	if err := c.Flags().Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	workingDir := fmt.Sprintf("%s/%s", c.projectRoot, orchestrator.DefaultWorkingDirName)
	m, err := manifestwriter.ReadManifest(fsutil.RealFS{}, workingDir)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	fmt.Fprintf(c.Stdout(), "merged: %v\nconflicts: %v\nadded: %v\ndeleted: %v\n",
		m.MergedFiles, m.ConflictFiles, m.AddedFiles, m.DeletedFiles)
	return nil
}
