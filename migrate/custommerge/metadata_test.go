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

	"gopkg.in/yaml.v3"

	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/projectmeta"
)

func TestMetadataMerger_Matches(t *testing.T) {
	t.Parallel()

	m := MetadataMerger{}
	if !m.Matches(projectmeta.FileName) {
		t.Errorf("Matches(%q) = false, want true", projectmeta.FileName)
	}
	if m.Matches("some/other/file.yaml") {
		t.Errorf("Matches() matched an unrelated path")
	}
}

func TestMetadataMerger_Merge(t *testing.T) {
	t.Parallel()

	current := &projectmeta.ProjectMetadata{
		VersionRevision: "v1.0.0",
		Platforms: map[model.PlatformTag]*projectmeta.PlatformEntry{
			model.PlatformAndroid: {BaseRevision: "v1.0.0"},
		},
		UnmanagedFiles: []model.RelativePath{"ios/Runner/Custom/"},
		UnmanagedRule:  `path.endsWith(".g.dart")`,
	}
	target := &projectmeta.ProjectMetadata{
		VersionRevision: "v2.0.0",
		Platforms: map[model.PlatformTag]*projectmeta.PlatformEntry{
			model.PlatformAndroid: {BaseRevision: "v2.0.0"},
			model.PlatformIOS:     {BaseRevision: "v2.0.0"},
		},
	}

	currentBytes, err := yaml.Marshal(current)
	if err != nil {
		t.Fatalf("marshaling current fixture: %v", err)
	}
	targetBytes, err := yaml.Marshal(target)
	if err != nil {
		t.Fatalf("marshaling target fixture: %v", err)
	}

	out, err := MetadataMerger{}.Merge(context.Background(), projectmeta.FileName, currentBytes, nil, targetBytes)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if out.HasConflict {
		t.Errorf("Merge() reported a conflict, want none")
	}

	var merged projectmeta.ProjectMetadata
	if err := yaml.Unmarshal(out.Body.Bytes(), &merged); err != nil {
		t.Fatalf("unmarshaling merged output: %v", err)
	}

	if merged.VersionRevision != "v2.0.0" {
		t.Errorf("VersionRevision = %q, want the target's v2.0.0", merged.VersionRevision)
	}
	if len(merged.Platforms) != 2 {
		t.Errorf("Platforms has %d entries, want the target's 2", len(merged.Platforms))
	}
	if got, want := merged.UnmanagedFiles, current.UnmanagedFiles; len(got) != 1 || got[0] != want[0] {
		t.Errorf("UnmanagedFiles = %v, want carried forward from current %v", got, want)
	}
	if merged.UnmanagedRule != current.UnmanagedRule {
		t.Errorf("UnmanagedRule = %q, want carried forward from current %q", merged.UnmanagedRule, current.UnmanagedRule)
	}
}

func TestMetadataMerger_Merge_EmptyCurrent(t *testing.T) {
	t.Parallel()

	target := &projectmeta.ProjectMetadata{VersionRevision: "v2.0.0"}
	targetBytes, err := yaml.Marshal(target)
	if err != nil {
		t.Fatalf("marshaling target fixture: %v", err)
	}

	out, err := MetadataMerger{}.Merge(context.Background(), projectmeta.FileName, nil, nil, targetBytes)
	if err != nil {
		t.Fatalf("Merge() with empty current error = %v", err)
	}

	var merged projectmeta.ProjectMetadata
	if err := yaml.Unmarshal(out.Body.Bytes(), &merged); err != nil {
		t.Fatalf("unmarshaling merged output: %v", err)
	}
	if merged.VersionRevision != "v2.0.0" {
		t.Errorf("VersionRevision = %q, want v2.0.0", merged.VersionRevision)
	}
	if len(merged.UnmanagedFiles) != 0 {
		t.Errorf("UnmanagedFiles = %v, want empty when current is empty", merged.UnmanagedFiles)
	}
}
