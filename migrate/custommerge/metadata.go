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
	"fmt"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"github.com/kitforge/migrate/internal/model"
	"github.com/kitforge/migrate/internal/projectmeta"
)

// MetadataMerger merges the project metadata file semantically instead of
// textually: the user's unmanaged-path customizations survive untouched,
// while the platform/revision bookkeeping always comes from the newly
// regenerated (target) side, since that's the whole point of a migration.
type MetadataMerger struct{}

// Matches reports whether relPath is the project metadata file.
func (MetadataMerger) Matches(relPath model.RelativePath) bool {
	return relPath.String() == projectmeta.FileName
}

// Merge decodes both sides as ProjectMetadata, copies the new (target)
// document's fields wholesale, then overlays the fields the user owns from
// the current document. base is unused: there's no three-way variant of this
// merge, since the fields we carry forward are always taken from exactly one
// side or the other, never reconciled hunk-by-hunk.
func (MetadataMerger) Merge(ctx context.Context, relPath model.RelativePath, current, base, target []byte) (model.MergeOutcome, error) {
	var currentMeta, targetMeta projectmeta.ProjectMetadata

	if len(current) > 0 {
		if err := yaml.Unmarshal(current, &currentMeta); err != nil {
			return model.MergeOutcome{}, fmt.Errorf("parsing current project metadata: %w", err)
		}
	}
	if err := yaml.Unmarshal(target, &targetMeta); err != nil {
		return model.MergeOutcome{}, fmt.Errorf("parsing target project metadata: %w", err)
	}

	var merged projectmeta.ProjectMetadata
	if err := copier.Copy(&merged, &targetMeta); err != nil {
		return model.MergeOutcome{}, fmt.Errorf("copying target project metadata: %w", err)
	}

	// The user's declared unmanaged paths and matcher rule are theirs to
	// keep; a migration never overwrites them with whatever the scaffold
	// generator happened to emit.
	merged.UnmanagedFiles = currentMeta.UnmanagedFiles
	merged.UnmanagedRule = currentMeta.UnmanagedRule

	out, err := yaml.Marshal(&merged)
	if err != nil {
		return model.MergeOutcome{}, fmt.Errorf("marshaling merged project metadata: %w", err)
	}

	return model.MergeOutcome{
		LocalPath:   relPath,
		Body:        model.TextBody(string(out)),
		HasConflict: false,
	}, nil
}
