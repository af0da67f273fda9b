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

package pathclass

import (
	"testing"

	"github.com/kitforge/migrate/internal/model"
)

func TestIsStaticallySkipped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		p         string
		entryFile string
		want      bool
	}{
		{name: "vcs_metadata_dir", p: ".vcs/config", want: true},
		{name: "build_dir", p: "build/output.apk", want: true},
		{name: "app_source_dir", p: "lib/widgets/button.dart", want: true},
		{name: "test_dir", p: "test/widget_test.dart", want: true},
		{name: "assets_dir", p: "assets/logo.png", want: true},
		{name: "readme", p: "README.md", want: true},
		{name: "entry_file_match", p: "lib/main.dart", entryFile: "lib/main.dart", want: true},
		{name: "entry_file_not_set", p: "lib/main.dart", want: true}, // still under AppSourceDir
		{name: "managed_root_file", p: "pubspec.yaml", want: false},
		{name: "managed_nested_file", p: "android/app/build.gradle", want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rp := model.RelativePath(tc.p)
			entry := model.RelativePath(tc.entryFile)
			if got := IsStaticallySkipped(rp, entry); got != tc.want {
				t.Errorf("IsStaticallySkipped(%q, %q) = %v, want %v", tc.p, tc.entryFile, got, tc.want)
			}
		})
	}
}

func TestEntryFileName(t *testing.T) {
	t.Parallel()

	if got, want := EntryFileName("kt"), model.RelativePath("lib/main.kt"); got != want {
		t.Errorf("EntryFileName(%q) = %q, want %q", "kt", got, want)
	}
}

func TestIsSkipMerge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		p    string
		want bool
	}{
		{p: "assets/logo.PNG", want: true},
		{p: "assets/logo.jpg", want: true},
		{p: "lib/main.dart", want: false},
		{p: "README.md", want: false},
	}

	for _, tc := range cases {
		if got := IsSkipMerge(model.RelativePath(tc.p)); got != tc.want {
			t.Errorf("IsSkipMerge(%q) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestIsUnmanaged(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		got, err := IsUnmanaged("anything", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got {
			t.Errorf("IsUnmanaged with nil config = true, want false")
		}
	})

	t.Run("explicit directory prefix", func(t *testing.T) {
		t.Parallel()
		cfg := &model.MigrateConfig{UnmanagedPaths: []model.RelativePath{"ios/Runner/Custom/"}}
		got, err := IsUnmanaged("ios/Runner/Custom/Thing.swift", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got {
			t.Errorf("IsUnmanaged() = false, want true")
		}
	})

	t.Run("unrelated path", func(t *testing.T) {
		t.Parallel()
		cfg := &model.MigrateConfig{UnmanagedPaths: []model.RelativePath{"ios/Runner/Custom/"}}
		got, err := IsUnmanaged("android/app/src/main/AndroidManifest.xml", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got {
			t.Errorf("IsUnmanaged() = true, want false")
		}
	})

	t.Run("cel rule match", func(t *testing.T) {
		t.Parallel()
		cfg := &model.MigrateConfig{UnmanagedRule: `path.endsWith(".g.dart")`}
		got, err := IsUnmanaged("lib/models/user.g.dart", cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got {
			t.Errorf("IsUnmanaged() = false, want true")
		}
	})

	t.Run("cel rule non-bool result is an error", func(t *testing.T) {
		t.Parallel()
		cfg := &model.MigrateConfig{UnmanagedRule: `path.size()`}
		if _, err := IsUnmanaged("lib/main.dart", cfg); err == nil {
			t.Errorf("expected an error for a non-bool CEL result, got nil")
		}
	})

	t.Run("cel compile error", func(t *testing.T) {
		t.Parallel()
		cfg := &model.MigrateConfig{UnmanagedRule: `path.`}
		if _, err := IsUnmanaged("lib/main.dart", cfg); err == nil {
			t.Errorf("expected a compile error, got nil")
		}
	})
}
