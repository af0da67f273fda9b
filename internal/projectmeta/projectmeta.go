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

// Package projectmeta loads and saves the project metadata file (spec.md
// §6: ".project_metadata"), and projects it into the model.MigrateConfig the
// rest of the engine consumes.
package projectmeta

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kitforge/migrate/internal/fsutil"
	"github.com/kitforge/migrate/internal/model"
)

// FileName is the conventional name of the project metadata file, relative
// to the project root.
const FileName = ".project_metadata"

// ProjectMetadata is the on-disk YAML shape of the metadata file, as
// described in spec.md §6.
type ProjectMetadata struct {
	VersionRevision model.RevisionId                    `yaml:"version_revision,omitempty"`
	Platforms       map[model.PlatformTag]*PlatformEntry `yaml:"platforms"`
	UnmanagedFiles  []model.RelativePath                 `yaml:"unmanaged_files,omitempty"`
	UnmanagedRule   string                               `yaml:"unmanaged_rule,omitempty"`
}

// PlatformEntry is one platform's entry in the metadata file.
type PlatformEntry struct {
	BaseRevision   model.RevisionId `yaml:"base_revision,omitempty"`
	CreateRevision model.RevisionId `yaml:"create_revision,omitempty"`
}

// Load reads and parses the metadata file at path.
func Load(f fsutil.FS, path string) (*ProjectMetadata, error) {
	buf, err := f.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project metadata file at %q: %w", path, err)
	}
	var meta ProjectMetadata
	if err := yaml.Unmarshal(buf, &meta); err != nil {
		return nil, fmt.Errorf("failed parsing project metadata file at %q: %w", path, err)
	}
	return &meta, nil
}

// Save serializes meta as YAML and writes it to path.
func Save(f fsutil.FS, path string, meta *ProjectMetadata) error {
	buf, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed marshaling project metadata: %w", err)
	}
	if err := f.WriteFile(path, buf, os.FileMode(fsutil.OwnerRWPerms)); err != nil {
		return fmt.Errorf("WriteFile(%q): %w", path, err)
	}
	return nil
}

// ToMigrateConfig projects the on-disk metadata into the model.MigrateConfig
// the engine's components operate on.
func (m *ProjectMetadata) ToMigrateConfig() *model.MigrateConfig {
	cfg := &model.MigrateConfig{
		PlatformConfigs: make(map[model.PlatformTag]*model.PlatformConfig, len(m.Platforms)),
		UnmanagedPaths:  m.UnmanagedFiles,
		UnmanagedRule:   m.UnmanagedRule,
	}
	for tag, entry := range m.Platforms {
		cfg.PlatformConfigs[tag] = &model.PlatformConfig{
			Platform:       tag,
			BaseRevision:   entry.BaseRevision,
			CreateRevision: entry.CreateRevision,
		}
	}
	return cfg
}

// FromMigrateConfig builds a ProjectMetadata to persist after a migration,
// carrying forward versionRevision as the new pin.
func FromMigrateConfig(cfg *model.MigrateConfig, versionRevision model.RevisionId) *ProjectMetadata {
	out := &ProjectMetadata{
		VersionRevision: versionRevision,
		Platforms:       make(map[model.PlatformTag]*PlatformEntry, len(cfg.PlatformConfigs)),
		UnmanagedFiles:  cfg.UnmanagedPaths,
		UnmanagedRule:   cfg.UnmanagedRule,
	}
	for tag, pc := range cfg.PlatformConfigs {
		out.Platforms[tag] = &PlatformEntry{
			BaseRevision:   pc.BaseRevision,
			CreateRevision: pc.CreateRevision,
		}
	}
	return out
}
