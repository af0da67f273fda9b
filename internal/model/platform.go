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

package model

// PlatformTag identifies one of the closed set of platforms a scaffolded
// project may target. PlatformRoot is a pseudo-platform representing
// top-level, platform-agnostic template files.
type PlatformTag string

const (
	PlatformRoot    PlatformTag = "root"
	PlatformAndroid PlatformTag = "android"
	PlatformIOS     PlatformTag = "ios"
	PlatformMacOS   PlatformTag = "macos"
	PlatformLinux   PlatformTag = "linux"
	PlatformWindows PlatformTag = "windows"
	PlatformWeb     PlatformTag = "web"
)

// AllPlatforms is the closed set of recognized platform tags, in a stable
// order used whenever platforms need to be enumerated deterministically.
var AllPlatforms = []PlatformTag{
	PlatformRoot,
	PlatformAndroid,
	PlatformIOS,
	PlatformMacOS,
	PlatformLinux,
	PlatformWindows,
	PlatformWeb,
}

// IsValid reports whether t is one of the recognized platform tags.
func (t PlatformTag) IsValid() bool {
	for _, p := range AllPlatforms {
		if p == t {
			return true
		}
	}
	return false
}

// RevisionId is an opaque identifier of a toolkit version. Equality is
// identity; the zero value means "absent".
type RevisionId string

// IsZero reports whether this RevisionId is the absent/unset value.
func (r RevisionId) IsZero() bool { return r == "" }

// PlatformConfig describes, for one platform, which toolkit revision
// generated the platform's scaffold (BaseRevision) and which revision it was
// last migrated to (CreateRevision). Either may be the zero RevisionId,
// which triggers fallback resolution.
type PlatformConfig struct {
	Platform       PlatformTag `yaml:"platform"`
	BaseRevision   RevisionId  `yaml:"base_revision,omitempty"`
	CreateRevision RevisionId  `yaml:"create_revision,omitempty"`
}

// Clone returns a deep copy of pc.
func (pc *PlatformConfig) Clone() *PlatformConfig {
	if pc == nil {
		return nil
	}
	out := *pc
	return &out
}

// MigrateConfig is the parsed form of a project's recorded migration
// configuration: which revision each platform was scaffolded from, and which
// project paths the engine must never touch.
type MigrateConfig struct {
	PlatformConfigs map[PlatformTag]*PlatformConfig `yaml:"platforms"`

	// UnmanagedPaths may designate files or directories (trailing separator
	// means directory).
	UnmanagedPaths []RelativePath `yaml:"unmanaged_files"`

	// UnmanagedRule is an optional CEL expression, evaluated with a `path`
	// string variable, for advanced unmanaged-path matching beyond plain
	// prefixes. Empty means "no rule".
	UnmanagedRule string `yaml:"unmanaged_rule,omitempty"`
}

// OrderedPlatforms returns the platforms with a configured PlatformConfig, in
// the stable AllPlatforms order.
func (c *MigrateConfig) OrderedPlatforms() []PlatformTag {
	out := make([]PlatformTag, 0, len(c.PlatformConfigs))
	for _, p := range AllPlatforms {
		if _, ok := c.PlatformConfigs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
