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

// DiffOutcome is the tagged result of comparing two files. Each value is
// exactly one of the concrete types below; callers tell them apart with a
// type switch, or with IsEqual for the DiffEqual case.
type DiffOutcome interface {
	isDiffOutcome()
}

// DiffEqual means the two files have identical contents.
type DiffEqual struct{}

func (DiffEqual) isDiffOutcome() {}

// DiffChanged means the two files differ; Patch is the textual patch
// produced by the external diff tool.
type DiffChanged struct {
	Patch string
}

func (DiffChanged) isDiffOutcome() {}

// DiffAddedOnly means the second file exists but the first does not.
type DiffAddedOnly struct{}

func (DiffAddedOnly) isDiffOutcome() {}

// DiffDeletedOnly means the first file exists but the second does not.
type DiffDeletedOnly struct{}

func (DiffDeletedOnly) isDiffOutcome() {}

// DiffIgnoredByVcs means the path is covered by the VCS's ignore rules and
// was not actually diffed.
type DiffIgnoredByVcs struct{}

func (DiffIgnoredByVcs) isDiffOutcome() {}

// IsEqual reports whether o is DiffEqual.
func IsEqual(o DiffOutcome) bool {
	_, ok := o.(DiffEqual)
	return ok
}

// MergeType selects how a per-file merge is performed.
type MergeType int

const (
	MergeTwoWay MergeType = iota
	MergeThreeWay
)

func (t MergeType) String() string {
	switch t {
	case MergeTwoWay:
		return "two_way"
	case MergeThreeWay:
		return "three_way"
	default:
		return "unknown"
	}
}

// MergedBody is the tagged result body of a merge: either text or raw bytes.
// Raw bytes are used when the file is not valid UTF-8.
type MergedBody struct {
	text    string
	bytes   []byte
	isBytes bool
}

// TextBody constructs a MergedBody holding UTF-8 text.
func TextBody(s string) MergedBody {
	return MergedBody{text: s}
}

// BytesBody constructs a MergedBody holding raw (possibly non-UTF-8) bytes.
func BytesBody(b []byte) MergedBody {
	return MergedBody{bytes: b, isBytes: true}
}

// IsBytes reports whether this body holds raw bytes rather than text.
func (b MergedBody) IsBytes() bool { return b.isBytes }

// Bytes returns the body's contents as a byte slice regardless of which
// constructor was used.
func (b MergedBody) Bytes() []byte {
	if b.isBytes {
		return b.bytes
	}
	return []byte(b.text)
}

// Text returns the body's contents as a string. It panics if IsBytes is
// true; callers must check IsBytes first.
func (b MergedBody) Text() string {
	if b.isBytes {
		panic("model: Text() called on a byte-valued MergedBody")
	}
	return b.text
}

// MergeOutcome is the result of merging one file.
type MergeOutcome struct {
	LocalPath   RelativePath
	Body        MergedBody
	HasConflict bool
}

// FileHandle identifies a file within one of the engine's scratch
// directories, so results can be traced back to their origin.
type FileHandle struct {
	// AbsPath is the absolute path to the file.
	AbsPath string
	// ScratchDir is the scratch directory this file lives under (base
	// template, target template, or project root).
	ScratchDir string
}

// FilePendingMigration is an added or deleted file pending commit to the
// working directory.
type FilePendingMigration struct {
	LocalPath    RelativePath
	SourceHandle FileHandle
}
