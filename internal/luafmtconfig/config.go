// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luafmtconfig loads [luaconfig.Config] values from a JWCC
// (JSON-with-comments) file, the same way cmd/zb's global config loader
// reads zb's own config: [hujson.Standardize] strips comments and
// trailing commas, then the result is decoded with
// [github.com/go-json-experiment/json]. Every field name funnels through
// [luaconfig.Config.SetByName] rather than a generated struct tag per
// field, so a config file and a `--set name=value` CLI flag share one parser
// and one set of error messages (spec.md §6's "set-by-name operation").
package luafmtconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"

	"lua.fmt.dev/pkg/internal/luaconfig"
)

// FileName is the config file name [Discover] looks for in each
// directory from a formatted file up to the filesystem root.
const FileName = ".luafmt"

// Load reads and decodes the JWCC config file at path. Unrecognized
// field names and unparseable values are returned as warnings rather
// than errors (spec.md §7 class 2): the caller is expected to log them
// and continue formatting with whatever fields did parse.
func Load(path string) (*luaconfig.Config, []string, error) {
	huJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parse(huJSON, path)
}

func parse(huJSON []byte, path string) (*luaconfig.Config, []string, error) {
	data, err := hujson.Standardize(huJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fields map[string]any
	if err := jsonv2.Unmarshal(data, &fields); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg := &luaconfig.Config{}
	var warnings []string
	for name, value := range fields {
		sval, ok := scalarString(value)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: %s: unsupported value type %T", path, name, value))
			continue
		}
		if err := cfg.SetByName(name, sval); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
		}
	}
	return cfg, warnings, nil
}

// scalarString renders a decoded JSON value as the string
// [luaconfig.Config.SetByName] expects. Objects and arrays have no
// SetByName encoding (field_separator and line_range are both strings),
// so they are reported back to the caller as warnings.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'g', -1, 64), true
	default:
		return "", false
	}
}

// Discover walks upward from the directory containing file, collecting
// every [FileName] found between that directory and the filesystem
// root, and merges them closest-first: a field set by the config file
// nearest to file wins over the same field set by one further up the
// tree.
func Discover(file string) (cfg *luaconfig.Config, warnings []string, err error) {
	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, nil, err
	}

	var paths []string
	for {
		candidate := filepath.Join(dir, FileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			paths = append(paths, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	merged := &luaconfig.Config{}
	for i := len(paths) - 1; i >= 0; i-- {
		fileCfg, warns, loadErr := Load(paths[i])
		if loadErr != nil {
			return nil, warnings, loadErr
		}
		warnings = append(warnings, warns...)
		mergeInto(merged, fileCfg)
	}
	return merged, warnings, nil
}

// Override returns a new Config combining base and overrides, with
// overrides winning wherever it sets a field — the relationship between
// a discovered .luafmt file and the CLI's `--set name=value` flags,
// which always take precedence over the file.
func Override(base, overrides *luaconfig.Config) *luaconfig.Config {
	merged := &luaconfig.Config{}
	if base != nil {
		mergeInto(merged, base)
	}
	if overrides != nil {
		mergeInto(merged, overrides)
	}
	return merged
}

// mergeInto copies every non-nil pointer field of src onto dst,
// letting a nearer config file's fields override a farther one's
// without hand-writing ~35 field assignments.
func mergeInto(dst, src *luaconfig.Config) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for i := 0; i < dv.NumField(); i++ {
		sf := sv.Field(i)
		if sf.Kind() == reflect.Ptr && !sf.IsNil() {
			dv.Field(i).Set(sf)
		}
	}
}
