// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luawalk discovers *.lua files under a set of root paths, the
// external "directory walker" collaborator spec.md §6 specifies only by
// interface: given a path and a recursion flag, return the file paths to
// format. It is built the way [osutil.Freeze] in the teacher repo walks
// a tree with [filepath.WalkDir], but it never touches the files it
// finds; per-directory config discovery from a found file's location is
// [luafmtconfig.Discover]'s job, not this package's.
package luawalk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Files returns the *.lua files reachable from roots. A root that is
// itself a *.lua file is returned as-is. A root that is a directory
// contributes its immediate *.lua children, plus every *.lua file in
// its subtree when recursive is true. The result is sorted and
// duplicate-free.
func Files(roots []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if isLuaFile(root) {
				add(root)
			}
			continue
		}
		if err := walkDir(root, recursive, add); err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func walkDir(root string, recursive bool, add func(string)) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if isLuaFile(path) {
			add(path)
		}
		return nil
	})
}

func isLuaFile(path string) bool {
	return filepath.Ext(path) == ".lua"
}
