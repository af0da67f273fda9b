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

// Package fsutil abstracts filesystem operations so the engine's components
// can be exercised in tests without touching the real disk.
package fsutil

import (
	"io/fs"
	"os"
)

// Permission bits used throughout the engine for scratch files/dirs.
const (
	OwnerRWXPerms = 0o700
	OwnerRWPerms  = 0o600
)

// FS abstracts the subset of os/io-fs operations the engine needs.
type FS interface {
	fs.StatFS

	MkdirAll(string, os.FileMode) error
	MkdirTemp(dir, pattern string) (string, error)
	ReadFile(string) ([]byte, error)
	WriteFile(string, []byte, os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(string) error
	RemoveAll(string) error
}

// RealFS is the non-test implementation, delegating to package os.
type RealFS struct{}

var _ FS = (*RealFS)(nil)

func (RealFS) Open(name string) (fs.File, error) { return os.Open(name) }

func (RealFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (RealFS) MkdirAll(name string, perm os.FileMode) error { return os.MkdirAll(name, perm) }

func (RealFS) MkdirTemp(dir, pattern string) (string, error) { return os.MkdirTemp(dir, pattern) }

func (RealFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (RealFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (RealFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (RealFS) Remove(name string) error { return os.Remove(name) }

func (RealFS) RemoveAll(name string) error { return os.RemoveAll(name) }

// Exists reports whether path exists, treating "not exist" specially (false,
// nil error) and surfacing any other Stat error.
func Exists(f FS, path string) (bool, error) {
	_, err := f.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
