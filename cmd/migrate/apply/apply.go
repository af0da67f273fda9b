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

// Package apply is a stub for the "apply" subcommand: copying a working
// directory's contents back over the project and removing conflict markers
// is outside the migration computation engine's scope.
package apply

import (
	"context"
	"fmt"

	"github.com/abcxyz/pkg/cli"
)

type Command struct {
	cli.BaseCommand
}

func (c *Command) Desc() string {
	return "apply a computed migration's working directory onto the project (not yet implemented)"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command copies a working directory's files back onto the
project and removes the working directory. Not yet implemented.
`
}

func (c *Command) Flags() *cli.FlagSet {
	return c.NewFlagSet()
}

func (c *Command) Run(ctx context.Context, args []string) error {
	return fmt.Errorf("apply: not yet implemented")
}
