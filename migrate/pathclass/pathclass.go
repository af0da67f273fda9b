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

// Package pathclass implements the pure path predicates that decide, before
// any subprocess is invoked, whether a file is user-owned, binary-ish, or
// explicitly unmanaged.
package pathclass

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/kitforge/migrate/internal/model"
)

// VCSMetadataDir is the directory name reserved for the version-control
// tool's own metadata (e.g. ".git").
const VCSMetadataDir = ".vcs"

// BuildCacheDir is the toolkit's conventional build/cache output directory.
const BuildCacheDir = "build"

// AppSourceDir and TestDir are the conventional directories that hold
// hand-written application code, which the engine never overwrites
// regardless of config.
const (
	AppSourceDir = "lib"
	TestDir      = "test"
	AssetsDir    = "assets"
)

// ReadmeFile is always user-owned.
const ReadmeFile = "README.md"

// staticSkipDirs are directories that are always skipped, regardless of
// MigrateConfig.
var staticSkipDirs = []model.RelativePath{
	VCSMetadataDir,
	BuildCacheDir,
	AppSourceDir,
	TestDir,
	AssetsDir,
}

// skipMergeExtensions are file extensions considered binary-ish: replaced
// wholesale rather than text-merged.
var skipMergeExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// EntryFileName returns the always-user-owned entry-file path for the given
// language's conventional extension. This parameterizes what was a
// hard-coded single-language path in earlier designs (see DESIGN.md, "Static
// skip list language-specificity"): the caller passes the extension that was
// actually resolved for this project (e.g. "kt", "java", "dart"), so the
// predicate isn't silently wrong for other-language projects.
func EntryFileName(langExt string) model.RelativePath {
	return model.RelativePath(path.Join(AppSourceDir, "main."+langExt))
}

// IsStaticallySkipped returns true if p is one of the fixed set of
// always-user-owned files, or lies under one of the fixed always-skipped
// directories. entryFile is the project's resolved entry-file path (see
// EntryFileName); pass "" if not applicable.
func IsStaticallySkipped(p model.RelativePath, entryFile model.RelativePath) bool {
	if entryFile != "" && p == entryFile {
		return true
	}
	if p == ReadmeFile {
		return true
	}
	for _, dir := range staticSkipDirs {
		if p.HasDirPrefix(dir) {
			return true
		}
	}
	return false
}

// IsSkipMerge returns true for extensions that should be replaced wholesale
// rather than text-merged.
func IsSkipMerge(p model.RelativePath) bool {
	ext := strings.ToLower(path.Ext(string(p)))
	return skipMergeExtensions[ext]
}

// IsUnmanaged returns true if p is explicitly listed in
// config.UnmanagedPaths (directly or by directory prefix), or if
// config.UnmanagedRule is set and evaluates to true for p.
func IsUnmanaged(p model.RelativePath, config *model.MigrateConfig) (bool, error) {
	if config == nil {
		return false, nil
	}
	for _, up := range config.UnmanagedPaths {
		trimmed := strings.TrimSuffix(string(up), "/")
		if string(p) == trimmed || p.HasDirPrefix(model.RelativePath(trimmed)) {
			return true, nil
		}
	}
	if config.UnmanagedRule == "" {
		return false, nil
	}
	return evalUnmanagedRule(config.UnmanagedRule, p)
}

// evalUnmanagedRule compiles and evaluates a CEL expression against a single
// "path" string variable, the same pattern the corpus uses for evaluating
// user-supplied filter expressions against dynamically-typed input.
func evalUnmanagedRule(expr string, p model.RelativePath) (bool, error) {
	env, err := cel.NewEnv(cel.Variable("path", cel.StringType))
	if err != nil {
		return false, fmt.Errorf("internal error: cel.NewEnv(): %w", err)
	}

	ast, issues := env.Compile(expr)
	if err := issues.Err(); err != nil {
		return false, fmt.Errorf("failed compiling unmanaged_rule CEL expression %q: %w", expr, err)
	}

	prog, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("failed constructing CEL program for unmanaged_rule: %w", err)
	}

	out, _, err := prog.Eval(map[string]any{"path": string(p)})
	if err != nil {
		return false, fmt.Errorf("failed evaluating unmanaged_rule against %q: %w", p, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unmanaged_rule must evaluate to a bool, got %T", out.Value())
	}
	return result, nil
}
