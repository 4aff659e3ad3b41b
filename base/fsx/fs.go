// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides file system helpers for user-supplied paths,
// which may start with ~ for the home directory.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/solid/base/errors"
	"github.com/mitchellh/go-homedir"
)

// Expand returns the cleaned path with a leading ~ expanded
// to the home directory.
func Expand(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(p), nil
}

// DirFS returns the given directory, after [Expand], as an os.DirFS.
// It returns an error wrapping [fs.ErrNotExist] if the directory
// does not exist.
func DirFS(dir string) (fs.FS, error) {
	d, err := Expand(dir)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(d)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: d, Err: fs.ErrInvalid}
	}
	return os.DirFS(d), nil
}

// FileExistsFS checks whether given file exists, returning true if so,
// false if not, and error if there is an error in accessing the file.
func FileExistsFS(fsys fs.FS, filePath string) (bool, error) {
	if fsys, ok := fsys.(fs.StatFS); ok {
		fileInfo, err := fsys.Stat(filePath)
		if err == nil {
			return !fileInfo.IsDir(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	fp, err := fsys.Open(filePath)
	if err == nil {
		fp.Close()
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
