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

package revision

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kitforge/migrate/internal/model"
)

func cfgFixture() *model.MigrateConfig {
	return &model.MigrateConfig{
		PlatformConfigs: map[model.PlatformTag]*model.PlatformConfig{
			model.PlatformRoot:    {Platform: model.PlatformRoot, BaseRevision: "v1.2.0"},
			model.PlatformAndroid: {Platform: model.PlatformAndroid}, // unset, falls back
			model.PlatformIOS:     {Platform: model.PlatformIOS, BaseRevision: "v1.4.0"},
		},
	}
}

func TestResolve_RootFirst(t *testing.T) {
	t.Parallel()

	res := Resolve(cfgFixture(), "v1.1.0", "")

	want := []model.RevisionId{"v1.2.0", "v1.1.0", "v1.4.0"}
	if diff := cmp.Diff(want, res.Revisions); diff != "" {
		t.Errorf("Revisions mismatch (-want +got):\n%s", diff)
	}

	if got := res.ByRevision["v1.2.0"]; len(got) != 1 {
		t.Errorf("expected only the root platform mapped to v1.2.0, got %d entries", len(got))
	}
	if got := res.ByRevision["v1.1.0"]; len(got) != 1 || got[0].Platform != model.PlatformAndroid {
		t.Errorf("expected the unset android platform mapped to the fallback v1.1.0, got %v", got)
	}
	if got := res.ByRevision["v1.4.0"]; len(got) != 1 {
		t.Errorf("expected exactly one platform mapped to v1.4.0, got %d entries", len(got))
	}
}

func TestResolve_NoRoot(t *testing.T) {
	t.Parallel()

	cfg := &model.MigrateConfig{
		PlatformConfigs: map[model.PlatformTag]*model.PlatformConfig{
			model.PlatformAndroid: {Platform: model.PlatformAndroid, BaseRevision: "v2.0.0"},
			model.PlatformIOS:     {Platform: model.PlatformIOS, BaseRevision: "v1.0.0"},
		},
	}

	res := Resolve(cfg, "", "")

	want := []model.RevisionId{"v1.0.0", "v2.0.0"}
	if diff := cmp.Diff(want, res.Revisions); diff != "" {
		t.Errorf("Revisions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_BaseOverrideSkipsFallback(t *testing.T) {
	t.Parallel()

	res := Resolve(cfgFixture(), "v1.1.0", "v9.9.9")

	want := []model.RevisionId{"v9.9.9"}
	if diff := cmp.Diff(want, res.Revisions); diff != "" {
		t.Errorf("Revisions mismatch (-want +got):\n%s", diff)
	}
	if got := len(res.ByRevision["v9.9.9"]); got != 3 {
		t.Errorf("expected every platform mapped to the override revision, got %d", got)
	}
}

func TestResolve_NonSemverRevisionsSortAfterSemverOnes(t *testing.T) {
	t.Parallel()

	cfg := &model.MigrateConfig{
		PlatformConfigs: map[model.PlatformTag]*model.PlatformConfig{
			model.PlatformAndroid: {Platform: model.PlatformAndroid, BaseRevision: "deadbeef"},
			model.PlatformIOS:     {Platform: model.PlatformIOS, BaseRevision: "v1.0.0"},
		},
	}

	res := Resolve(cfg, "", "")

	want := []model.RevisionId{"v1.0.0", "deadbeef"}
	if diff := cmp.Diff(want, res.Revisions); diff != "" {
		t.Errorf("Revisions mismatch (-want +got):\n%s", diff)
	}
}
