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

package procexec

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRealRunner_Stdout(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	res, err := r.Run(context.Background(), "echo", []string{"hello", "world"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != "hello world" {
		t.Errorf("Stdout = %q, want %q", got, "hello world")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestRealRunner_NonzeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	res, err := r.Run(context.Background(), "sh", []string{"-c", "exit 3"})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (nonzero exit is reported via ExitCode)", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRealRunner_CommandNotFound(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	if _, err := r.Run(context.Background(), "definitely-not-a-real-command", nil); err == nil {
		t.Errorf("expected an error for a nonexistent binary, got nil")
	}
}

func TestRealRunner_WithStdin(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	res, err := r.Run(context.Background(), "cat", nil, WithStdin("piped in"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stdout != "piped in" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "piped in")
	}
}

func TestRealRunner_WithCwd(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	res, err := r.Run(context.Background(), "pwd", nil, WithCwd(t.TempDir()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(res.Stdout) == "" {
		t.Errorf("Stdout is empty, want the working directory")
	}
}

func TestRealRunner_ContextTimeout(t *testing.T) {
	t.Parallel()

	r := &RealRunner{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := r.Run(ctx, "sleep", []string{"5"}); err == nil {
		t.Errorf("expected an error when the context deadline is exceeded, got nil")
	}
}
