// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luafmtcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"zombiezen.com/go/log"

	luafmt "lua.fmt.dev/pkg"
	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luafmtconfig"
	"lua.fmt.dev/pkg/internal/luawalk"
	"lua.fmt.dev/pkg/internal/xio"
)

// fileResult is one file's formatting outcome, computed entirely
// within its own goroutine: per spec.md §5, nothing is shared across
// files beyond the read-only options and override config.
type fileResult struct {
	path     string
	original string
	output   string
	differs  bool
}

func run(ctx context.Context, opts *options) error {
	cliCfg := opts.overrideConfig(ctx)

	if opts.stdin {
		return runStdin(ctx, opts, cliCfg)
	}

	paths := opts.paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := luawalk.Files(paths, opts.recursive)
	if err != nil {
		return err
	}

	results := make([]*fileResult, len(files))
	grp, grpCtx := errgroup.WithContext(ctx)
	limit := opts.concurrency
	if limit <= 0 {
		limit = 1
	}
	grp.SetLimit(limit)
	for i, path := range files {
		grp.Go(func() error {
			res, err := formatFile(grpCtx, path, opts, cliCfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	isTerm := stdoutIsTerminal()
	for _, res := range results {
		if err := emit(res, opts, isTerm); err != nil {
			return err
		}
	}
	return nil
}

func runStdin(ctx context.Context, opts *options, cliCfg *luaconfig.Config) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	cfg := cliCfg
	if opts.configPath != "" {
		fileCfg, warns, err := luafmtconfig.Load(opts.configPath)
		if err != nil {
			return err
		}
		logWarnings(ctx, warns)
		cfg = luafmtconfig.Override(fileCfg, cliCfg)
	}
	out, err := luafmt.Format(string(src), cfg)
	if err != nil {
		return err
	}
	res := &fileResult{path: "<stdin>", original: string(src), output: out, differs: out != string(src)}
	return emit(res, opts, stdoutIsTerminal())
}

func formatFile(ctx context.Context, path string, opts *options, cliCfg *luaconfig.Config) (*fileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fileCfg *luaconfig.Config
	var warns []string
	if opts.configPath != "" {
		fileCfg, warns, err = luafmtconfig.Load(opts.configPath)
	} else {
		fileCfg, warns, err = luafmtconfig.Discover(path)
	}
	if err != nil {
		return nil, err
	}
	logWarnings(ctx, warns)

	cfg := luafmtconfig.Override(fileCfg, cliCfg)
	out, err := luafmt.Format(string(data), cfg)
	if err != nil {
		return nil, err
	}
	return &fileResult{
		path:     path,
		original: string(data),
		output:   out,
		differs:  out != string(data),
	}, nil
}

// emit applies the requested output mode (-w, -l, -d, or plain stdout)
// to a single file's result.
func emit(res *fileResult, opts *options, isTerm bool) error {
	switch {
	case opts.write:
		if res.path == "<stdin>" {
			_, err := io.WriteString(os.Stdout, res.output)
			return err
		}
		if !res.differs {
			return nil
		}
		return writeFileAtomically(res.path, res.output)
	case opts.list:
		if res.differs {
			fmt.Println(res.path)
		}
		return nil
	case opts.diff:
		if !res.differs {
			return nil
		}
		return printDiff(os.Stdout, res.path, res.original, res.output, isTerm)
	default:
		_, err := io.WriteString(os.Stdout, res.output)
		return err
	}
}

func logWarnings(ctx context.Context, warnings []string) {
	for _, w := range warnings {
		log.Warnf(ctx, "%s", w)
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// writeFileAtomically replaces path's content with content via a
// temp-file-and-rename, the in-place write behind luafmt's -w flag.
func writeFileAtomically(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".luafmt-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	closer := xio.CloseOnce(tmp)
	defer closer.Close()

	if _, err := tmp.WriteString(content); err != nil {
		return err
	}
	if err := closer.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		os.Chmod(tmp.Name(), info.Mode())
	}
	return os.Rename(tmp.Name(), path)
}
