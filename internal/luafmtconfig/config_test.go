// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luafmtconfig

import (
	"os"
	"path/filepath"
	"testing"

	"lua.fmt.dev/pkg/internal/luaconfig"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `{
		// JWCC: comments and trailing commas are both fine here.
		"indentation_string": "  ",
		"max_width": 80,
		"remove_comments": true,
	}`)

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v; want none", warnings)
	}
	if cfg.IndentationString == nil || *cfg.IndentationString != "  " {
		t.Errorf("IndentationString = %v; want \"  \"", cfg.IndentationString)
	}
	if cfg.MaxWidth == nil || *cfg.MaxWidth != 80 {
		t.Errorf("MaxWidth = %v; want 80", cfg.MaxWidth)
	}
	if cfg.RemoveComments == nil || !*cfg.RemoveComments {
		t.Errorf("RemoveComments = %v; want true", cfg.RemoveComments)
	}
}

func TestLoadUnknownFieldWarns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `{"not_a_real_option": true, "max_width": "not a number"}`)

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v; want 2", warnings)
	}
	if cfg.MaxWidth != nil {
		t.Errorf("MaxWidth = %v; want nil (unparseable value should not set the field)", cfg.MaxWidth)
	}
}

func TestDiscoverMergesClosestFirst(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, FileName), `{"max_width": 80, "indentation_string": "\t"}`)
	writeFile(t, filepath.Join(sub, FileName), `{"max_width": 100}`)

	cfg, warnings, err := Discover(filepath.Join(sub, "foo.lua"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v; want none", warnings)
	}
	if cfg.MaxWidth == nil || *cfg.MaxWidth != 100 {
		t.Errorf("MaxWidth = %v; want 100 (nearer file should win)", cfg.MaxWidth)
	}
	if cfg.IndentationString == nil || *cfg.IndentationString != "\t" {
		t.Errorf("IndentationString = %v; want \"\\t\" (inherited from the farther file)", cfg.IndentationString)
	}
}

func TestOverride(t *testing.T) {
	width := 80
	base := &luaconfig.Config{MaxWidth: &width}
	indent := "  "
	overrides := &luaconfig.Config{IndentationString: &indent}

	merged := Override(base, overrides)
	if merged.MaxWidth == nil || *merged.MaxWidth != 80 {
		t.Errorf("MaxWidth = %v; want 80", merged.MaxWidth)
	}
	if merged.IndentationString == nil || *merged.IndentationString != "  " {
		t.Errorf("IndentationString = %v; want \"  \"", merged.IndentationString)
	}

	overrideWidth := 40
	overrides.MaxWidth = &overrideWidth
	merged = Override(base, overrides)
	if *merged.MaxWidth != 40 {
		t.Errorf("MaxWidth = %d; want override (40) to win over base (80)", *merged.MaxWidth)
	}
}
