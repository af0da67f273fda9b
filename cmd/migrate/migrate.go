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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abcxyz/pkg/cli"
	"github.com/abcxyz/pkg/logging"

	"github.com/kitforge/migrate/cmd/migrate/abandon"
	"github.com/kitforge/migrate/cmd/migrate/apply"
	"github.com/kitforge/migrate/cmd/migrate/resolveconflicts"
	"github.com/kitforge/migrate/cmd/migrate/start"
	"github.com/kitforge/migrate/cmd/migrate/status"
	"github.com/kitforge/migrate/internal/version"
)

const (
	defaultLogLevel  = logging.LevelWarning
	defaultLogFormat = logging.FormatText
)

var rootCmd = func() *cli.RootCommand {
	return &cli.RootCommand{
		Name:    version.Name,
		Version: version.HumanVersion,
		Commands: map[string]cli.CommandFactory{
			"start": func() cli.Command {
				return &start.Command{}
			},
			"status": func() cli.Command {
				return &status.Command{}
			},
			"apply": func() cli.Command {
				return &apply.Command{}
			},
			"abandon": func() cli.Command {
				return &abandon.Command{}
			},
			"resolve-conflicts": func() cli.Command {
				return &resolveconflicts.Command{}
			},
		},
	}
}

func main() {
	ctx, done := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer done()

	setLogEnvVars()
	ctx = logging.WithLogger(ctx, logging.NewFromEnv("MIGRATE_"))

	if err := realMain(ctx); err != nil {
		done()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func setLogEnvVars() {
	if os.Getenv("MIGRATE_LOG_FORMAT") == "" {
		os.Setenv("MIGRATE_LOG_FORMAT", string(defaultLogFormat))
	}
	if os.Getenv("MIGRATE_LOG_LEVEL") == "" {
		os.Setenv("MIGRATE_LOG_LEVEL", defaultLogLevel.String())
	}
}

func realMain(ctx context.Context) error {
	return rootCmd().Run(ctx, os.Args[1:]) //nolint:wrapcheck
}
