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

package projectmeta

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	f := fsutil.RealFS{}
	path := filepath.Join(t.TempDir(), FileName)

	want := &ProjectMetadata{
		VersionRevision: "v2.0.0",
		Platforms: map[model.PlatformTag]*PlatformEntry{
			model.PlatformAndroid: {BaseRevision: "v1.0.0", CreateRevision: "v1.0.0"},
		},
		UnmanagedFiles: []model.RelativePath{"ios/Runner/Custom/"},
		UnmanagedRule:  `path.endsWith(".g.dart")`,
	}

	if err := Save(f, path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(f, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	f := fsutil.RealFS{}
	if _, err := Load(f, filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Errorf("expected an error loading a nonexistent file, got nil")
	}
}

func TestToMigrateConfigAndBack(t *testing.T) {
	t.Parallel()

	meta := &ProjectMetadata{
		VersionRevision: "v2.0.0",
		Platforms: map[model.PlatformTag]*PlatformEntry{
			model.PlatformRoot:    {BaseRevision: "v1.0.0"},
			model.PlatformAndroid: {BaseRevision: "v1.0.0", CreateRevision: "v1.5.0"},
		},
		UnmanagedFiles: []model.RelativePath{"ios/Runner/Custom/"},
		UnmanagedRule:  `path.endsWith(".g.dart")`,
	}

	cfg := meta.ToMigrateConfig()

	if got, want := len(cfg.PlatformConfigs), len(meta.Platforms); got != want {
		t.Fatalf("PlatformConfigs has %d entries, want %d", got, want)
	}
	android := cfg.PlatformConfigs[model.PlatformAndroid]
	if android == nil {
		t.Fatalf("missing android platform config")
	}
	if android.Platform != model.PlatformAndroid || android.CreateRevision != "v1.5.0" {
		t.Errorf("android platform config = %+v, want Platform set and CreateRevision=v1.5.0", android)
	}

	back := FromMigrateConfig(cfg, "v2.0.0")
	if diff := cmp.Diff(meta, back); diff != "" {
		t.Errorf("round trip through MigrateConfig mismatch (-want +got):\n%s", diff)
	}
}
