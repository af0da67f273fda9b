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

// Package resolveconflicts is a stub for the "resolve-conflicts" subcommand:
// interactively editing conflicted files in a working directory is outside
// the migration computation engine's scope.
package resolveconflicts

import (
	"context"
	"fmt"

	"github.com/abcxyz/pkg/cli"
)

type Command struct {
	cli.BaseCommand
}

func (c *Command) Desc() string {
	return "interactively resolve conflict markers in a working directory (not yet implemented)"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command walks the conflicted files listed in a working
directory's manifest for interactive resolution. Not yet implemented.
`
}

func (c *Command) Flags() *cli.FlagSet {
	return c.NewFlagSet()
}

func (c *Command) Run(ctx context.Context, args []string) error {
	return fmt.Errorf("resolve-conflicts: not yet implemented")
}
