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

package custommerge

import (
	"context"
	"testing"

	"github.com/kitforge/migrate/internal/model"
)

type fixedMerger struct {
	path model.RelativePath
	name string
}

func (f fixedMerger) Matches(relPath model.RelativePath) bool { return relPath == f.path }

func (f fixedMerger) Merge(ctx context.Context, relPath model.RelativePath, current, base, target []byte) (model.MergeOutcome, error) {
	return model.MergeOutcome{LocalPath: relPath, Body: model.TextBody(f.name)}, nil
}

func TestRegistry_LookupFirstMatchWins(t *testing.T) {
	t.Parallel()

	first := fixedMerger{path: "a.txt", name: "first"}
	second := fixedMerger{path: "a.txt", name: "second"}
	reg := NewRegistry(first, second)

	m := reg.Lookup("a.txt")
	if m == nil {
		t.Fatalf("Lookup() = nil, want a match")
	}
	out, err := m.Merge(context.Background(), "a.txt", nil, nil, nil)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.Body.Text() != "first" {
		t.Errorf("Lookup() returned %q, want the first registered matching merger", out.Body.Text())
	}
}

func TestRegistry_LookupNoMatch(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(fixedMerger{path: "a.txt"})
	if got := reg.Lookup("b.txt"); got != nil {
		t.Errorf("Lookup() = %v, want nil", got)
	}
}

func TestRegistry_Empty(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if got := reg.Lookup("anything"); got != nil {
		t.Errorf("Lookup() on an empty registry = %v, want nil", got)
	}
}
