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

// Package abandon is a stub for the "abandon" subcommand: removing a
// working directory without applying it is outside the migration
// computation engine's scope.
package abandon

import (
	"context"
	"fmt"

	"github.com/abcxyz/pkg/cli"
)

type Command struct {
	cli.BaseCommand
}

func (c *Command) Desc() string {
	return "discard a computed migration's working directory (not yet implemented)"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command removes a working directory without applying it.
Not yet implemented.
`
}

func (c *Command) Flags() *cli.FlagSet {
	return c.NewFlagSet()
}

func (c *Command) Run(ctx context.Context, args []string) error {
	return fmt.Errorf("abandon: not yet implemented")
}
