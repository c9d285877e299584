// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawalk

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.lua")
	touch(t, path)

	got, err := Files([]string{path}, false)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 1 || got[0] != path {
		t.Errorf("Files(%q) = %v; want [%q]", path, got, path)
	}
}

func TestFilesNonRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.lua"))
	touch(t, filepath.Join(dir, "ignore.txt"))
	touch(t, filepath.Join(dir, "nested", "deep.lua"))

	got, err := Files([]string{dir}, false)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{filepath.Join(dir, "top.lua")}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Files(%q, false) = %v; want %v", dir, got, want)
	}
}

func TestFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.lua"))
	touch(t, filepath.Join(dir, "nested", "deep.lua"))

	got, err := Files([]string{dir}, true)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Files(%q, true) = %v; want 2 entries", dir, got)
	}
}

func TestFilesDedup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.lua")
	touch(t, path)

	got, err := Files([]string{path, dir}, true)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Files with overlapping roots = %v; want 1 deduped entry", got)
	}
}
