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

// Package revision maps a project's recorded per-platform base revisions to
// a deduplicated, ordered list of revisions to materialize, with fallback
// substitution for unset revisions.
package revision

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/exp/maps"

	"github.com/kitforge/migrate/internal/model"
)

// Resolution is the output of Resolve: the ordered revision list to
// materialize, and which platform configs ended up mapped to each one.
type Resolution struct {
	// Revisions is root-first whenever a root revision is defined, per
	// spec.md's invariant; order among the rest is deterministic (sorted)
	// but otherwise unspecified.
	Revisions []model.RevisionId

	// ByRevision maps each resolved revision to the platform configs that
	// will be materialized at it.
	ByRevision map[model.RevisionId][]*model.PlatformConfig
}

// Resolve implements spec.md §4.3.
//
// If baseOverride is non-zero, the resolution is a single revision ([base])
// mapped to every configured platform, skipping the per-platform fallback
// logic entirely.
func Resolve(cfg *model.MigrateConfig, fallback, baseOverride model.RevisionId) *Resolution {
	if !baseOverride.IsZero() {
		all := make([]*model.PlatformConfig, 0, len(cfg.PlatformConfigs))
		for _, p := range cfg.OrderedPlatforms() {
			all = append(all, cfg.PlatformConfigs[p])
		}
		return &Resolution{
			Revisions:  []model.RevisionId{baseOverride},
			ByRevision: map[model.RevisionId][]*model.PlatformConfig{baseOverride: all},
		}
	}

	byRevision := map[model.RevisionId][]*model.PlatformConfig{}
	var rootRevision model.RevisionId
	var haveRoot bool

	for _, p := range cfg.OrderedPlatforms() {
		pc := cfg.PlatformConfigs[p]
		effective := pc.BaseRevision
		if effective.IsZero() {
			effective = fallback
		}
		byRevision[effective] = append(byRevision[effective], pc)
		if p == model.PlatformRoot {
			rootRevision = effective
			haveRoot = true
		}
	}

	revSet := maps.Keys(byRevision)

	rest := make([]model.RevisionId, 0, len(revSet))
	for _, r := range revSet {
		if haveRoot && r == rootRevision {
			continue
		}
		rest = append(rest, r)
	}
	sortRevisions(rest)

	ordered := rest
	if haveRoot {
		ordered = append([]model.RevisionId{rootRevision}, rest...)
	}

	return &Resolution{Revisions: ordered, ByRevision: byRevision}
}

// sortRevisions orders revisions for deterministic test output. Revisions
// that parse as semver are ordered by semver precedence (ascending);
// anything else falls back to a lexical tiebreak, with semver-parseable
// revisions always sorting before non-semver ones so that the common case
// (toolkit revisions are semver tags) produces a meaningful order.
func sortRevisions(revs []model.RevisionId) {
	sort.Slice(revs, func(i, j int) bool {
		vi, ei := semver.NewVersion(string(revs[i]))
		vj, ej := semver.NewVersion(string(revs[j]))
		switch {
		case ei == nil && ej == nil:
			return vi.LessThan(vj)
		case ei == nil && ej != nil:
			return true
		case ei != nil && ej == nil:
			return false
		default:
			return revs[i] < revs[j]
		}
	})
}
