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

// Package custommerge implements the Custom Merge Registry: an ordered list
// of per-path specialized mergers consulted before the generic Merge Engine,
// first match wins.
package custommerge

import (
	"context"

	"github.com/kitforge/migrate/internal/model"
)

// Merger is implemented by specialized per-path merge strategies.
type Merger interface {
	// Matches reports whether this Merger should handle relPath.
	Matches(relPath model.RelativePath) bool

	// Merge performs the merge. base may be empty when the base template has
	// no readable version of the file.
	Merge(ctx context.Context, relPath model.RelativePath, current, base, target []byte) (model.MergeOutcome, error)
}

// Registry is an ordered list of Mergers; the first whose Matches returns
// true handles a given path.
type Registry struct {
	mergers []Merger
}

// NewRegistry constructs a Registry from the given mergers, in priority
// order.
func NewRegistry(mergers ...Merger) *Registry {
	return &Registry{mergers: mergers}
}

// Lookup returns the first Merger that matches relPath, or nil if none do.
func (r *Registry) Lookup(relPath model.RelativePath) Merger {
	for _, m := range r.mergers {
		if m.Matches(relPath) {
			return m
		}
	}
	return nil
}
