// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luafmt formats Lua 5.3 source text. It exposes the two entry
// points spec'd for the core — [Format] and [FormatRange] — plus the
// [Config] surface that controls every rewrite they may perform.
//
// Everything else (lexing, parsing, the reconstruction pass, the
// writer, and the layout engine) lives under internal/ and is reached
// only through these two functions: the core never touches a
// filesystem, a terminal, or a config file, matching spec.md §5's "no
// I/O inside the core".
package luafmt

import (
	"fmt"

	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luaparse"
	"lua.fmt.dev/pkg/internal/luarecon"
	"lua.fmt.dev/pkg/internal/luawrite"
)

// Config is re-exported from internal/luaconfig so that callers of this
// package never need to import an internal path: every field is
// optional, and a nil field preserves whatever the source already did.
type (
	Config         = luaconfig.Config
	FormatLevel    = luaconfig.FormatLevel
	FieldSeparator = luaconfig.FieldSeparator
	LineRange      = luaconfig.LineRange
)

const (
	LevelSingleLine    = luaconfig.LevelSingleLine
	LevelIndent        = luaconfig.LevelIndent
	LevelIndentCompact = luaconfig.LevelIndentCompact

	CommaSeparator     = luaconfig.CommaSeparator
	SemicolonSeparator = luaconfig.SemicolonSeparator
)

// FormatError is the error surface from the core (spec.md §6-§7): a
// syntax error from the parser, or an internal writer invariant
// violation. Configuration value parse failures are not a FormatError;
// they're reported to the caller's logging channel as warnings and do
// not stop formatting (see [Config.SetByName]).
type FormatError struct {
	// Kind distinguishes a syntax error from an internal defect.
	Kind    FormatErrorKind
	Message string
	// Line and Column are the best-effort source position for a
	// ParsingError; both are zero for a FormattingError.
	Line, Column int
}

// FormatErrorKind discriminates the two classes of failure the core can
// return, per spec.md §7.
type FormatErrorKind int

const (
	// ParsingError means the source was not syntactically valid Lua.
	// The core never partially formats invalid source.
	ParsingError FormatErrorKind = iota
	// FormattingError means the writer hit an internal invariant
	// violation — a defect in the core, not in the input. Well-formed
	// input should never reach this path.
	FormattingError
)

func (e *FormatError) Error() string {
	switch e.Kind {
	case ParsingError:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	default:
		return "internal formatting error: " + e.Message
	}
}

// Format parses source as a full Lua chunk and returns it re-emitted
// according to cfg. A nil cfg (or a zero Config) reproduces source
// byte-for-byte, per spec.md §8 P1.
func Format(source string, cfg *Config) (string, error) {
	return formatImpl(source, cfg)
}

// FormatRange behaves like [Format], but restricts rewriting to
// statements whose byte span touches the 1-indexed inclusive line range
// [start, end]; every other top-level statement is emitted verbatim. A
// nil lines argument is equivalent to calling [Format].
//
// A statement that only partially intersects the range is never
// truncated: the smallest enclosing statement is always formatted in
// full (spec.md §9).
func FormatRange(source string, cfg *Config, lines *LineRange) (string, error) {
	if lines == nil {
		return formatImpl(source, cfg)
	}
	scoped := *cfgOrZero(cfg)
	scoped.LineRange = lines
	return formatImpl(source, &scoped)
}

func cfgOrZero(cfg *Config) *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

func formatImpl(source string, cfg *Config) (string, error) {
	root, err := luaparse.Parse(source)
	if err != nil {
		pe, ok := err.(*luaparse.Error)
		if !ok {
			return "", &FormatError{Kind: ParsingError, Message: err.Error()}
		}
		return "", &FormatError{
			Kind:    ParsingError,
			Message: pe.Message,
			Line:    pe.Pos.Line,
			Column:  pe.Pos.Column,
		}
	}
	cfg = cfgOrZero(cfg)
	luarecon.Reconstruct(root, cfg)
	out, err := luawrite.Write(root, source, cfg)
	if err != nil {
		return "", &FormatError{Kind: FormattingError, Message: err.Error()}
	}
	return out, nil
}
