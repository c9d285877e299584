// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luafmtcli wires the formatter's CLI the way cmd/zb/main.go
// wires zb's: a Cobra root command, a --debug flag switching
// [zombiezen.com/go/log]'s minimum level, and per-file work fanned out
// with [golang.org/x/sync/errgroup]. cmd/luafmt/main.go is a two-line
// shim around [New], exactly like cmd/zb-luac/zb_luac.go is around
// luac.New().
package luafmtcli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"lua.fmt.dev/pkg/internal/luaconfig"
)

// New returns the luafmt root command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "luafmt [flags] [path ...]",
		Short:         "format Lua source files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	showDebug := root.PersistentFlags().Bool("debug", false, "show debugging output")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(*showDebug)
		return nil
	}

	opts := new(options)
	root.Flags().BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs from luafmt's")
	root.Flags().BoolVarP(&opts.write, "write", "w", false, "write result to source file instead of stdout")
	root.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a diff instead of the reformatted source")
	root.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "recurse into directories")
	root.Flags().BoolVar(&opts.stdin, "stdin", false, "read source from stdin and write the result to stdout")
	root.Flags().StringVar(&opts.configPath, "config", "", "`path` to a .luafmt config file (default: discover one per file)")
	root.Flags().StringArrayVar(&opts.sets, "set", nil, "set a config option as `name=value` (repeatable)")
	root.Flags().IntVar(&opts.concurrency, "concurrency", 8, "maximum number of files formatted at once")

	root.Args = cobra.ArbitraryArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		opts.paths = args
		return run(cmd.Context(), opts)
	}

	return root
}

type options struct {
	list        bool
	write       bool
	diff        bool
	recursive   bool
	stdin       bool
	configPath  string
	sets        []string
	concurrency int
	paths       []string
}

// overrideConfig parses opts.sets into a [luaconfig.Config], the same
// SetByName entry point a .luafmt file's fields go through
// (spec.md §6). Malformed entries are warnings, not fatal errors.
func (opts *options) overrideConfig(ctx context.Context) *luaconfig.Config {
	cfg := &luaconfig.Config{}
	for _, kv := range opts.sets {
		name, value, ok := splitSet(kv)
		if !ok {
			log.Warnf(ctx, "--set %q: want name=value", kv)
			continue
		}
		if err := cfg.SetByName(name, value); err != nil {
			log.Warnf(ctx, "--set %q: %v", kv, err)
		}
	}
	return cfg
}

func splitSet(s string) (name, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "luafmt: ", log.StdFlags, nil),
		})
	})
}

// Main runs the luafmt CLI to completion and exits the process with a
// non-zero status on failure, mirroring cmd/zb-luac/zb_luac.go.
func Main() {
	root := New()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "luafmt:", err)
		os.Exit(1)
	}
}
