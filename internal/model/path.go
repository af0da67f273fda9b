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

// Package model contains the data types shared across the migration engine:
// the project's path and revision vocabulary, its config, and the outcome
// types produced by the diff/merge stages.
package model

import (
	"fmt"
	"path"
	"strings"
)

// RelativePath is a path expressed relative to a project root, using forward
// slashes. It is the canonical key used throughout the engine.
type RelativePath string

// NewRelativePath validates and normalizes p into a RelativePath. It rejects
// absolute paths and paths containing ".." segments.
func NewRelativePath(p string) (RelativePath, error) {
	cleaned := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if path.IsAbs(cleaned) {
		return "", fmt.Errorf("relative path %q must not be absolute", p)
	}
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." {
			return "", fmt.Errorf("relative path %q must not contain a %q segment", p, "..")
		}
	}
	if cleaned == "." {
		cleaned = ""
	}
	return RelativePath(cleaned), nil
}

// String implements fmt.Stringer.
func (r RelativePath) String() string { return string(r) }

// HasDirPrefix reports whether r lies under the directory prefix dir (dir is
// interpreted as a directory, regardless of whether it has a trailing
// slash).
func (r RelativePath) HasDirPrefix(dir RelativePath) bool {
	d := strings.TrimSuffix(string(dir), "/")
	if d == "" {
		return false
	}
	s := string(r)
	return s == d || strings.HasPrefix(s, d+"/")
}
