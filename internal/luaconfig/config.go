// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luaconfig defines the formatter's configuration surface: a
// struct whose every field is optional, the way [zombiezen.com/go/log]'s
// LevelFilter leaves unset levels to fall through to a default. A nil
// field means "preserve whatever the source already did"; only a
// non-nil field asks the writer to rewrite something.
package luaconfig

// FormatLevel selects one of a construct's fixed layout policies.
// The meaning of each level is construct-specific; see the field doc
// comments below.
type FormatLevel int

const (
	// LevelSingleLine never breaks the construct across lines on its
	// own account (the layout engine may still do so to fit max width).
	LevelSingleLine FormatLevel = 0
	// LevelIndent always inserts a newline and indents the body, then
	// another newline before the construct's closing keyword.
	LevelIndent FormatLevel = 1
	// LevelIndentCompact behaves like LevelIndent, but a body of a
	// single statement is kept on the opening line instead of being
	// pushed to its own indented line.
	LevelIndentCompact FormatLevel = 2
)

// FieldSeparator is the literal Lua uses between table constructor
// fields.
type FieldSeparator string

const (
	CommaSeparator     FieldSeparator = ","
	SemicolonSeparator FieldSeparator = ";"
)

// Config holds every knob the writer and layout engine consult. The
// zero Config (every field nil) asks for byte-for-byte passthrough.
type Config struct {
	// Trivia

	RemoveComments               *bool
	RemoveNewlines                *bool
	RemoveSpacesBetweenTokens     *bool
	ReplaceZeroSpacesWithHint     *bool
	HintBeforeComment             *string
	HintAfterMultilineComment     *string
	HintBeforeOnelineCommentText  *string
	HintBeforeMultilineCommentText *string
	HintAfterMultilineCommentText  *string
	WriteNewlineAtEOF             *bool

	// Indent

	IndentationString     *string
	IndentEveryStatement   *bool
	DoEndIndentFormat      *FormatLevel
	ForIndentFormat        *FormatLevel
	FunctionIndentFormat   *FormatLevel
	IfIndentFormat         *FormatLevel
	WhileDoIndentFormat    *FormatLevel
	RepeatUntilIndentFormat *FormatLevel

	// Layout

	MaxWidth                   *int
	FormatTypeBinaryOp         *FormatLevel
	FormatTypeTable            *FormatLevel
	FormatTypeIf               *FormatLevel
	FormatTypeFunction         *FormatLevel
	FormatTypeMethodCall       *FormatLevel
	FormatTypeTableField       *FormatLevel
	EnableOnelineBinaryOp      *bool
	EnableOnelineTable         *bool
	EnableOnelineIf            *bool
	EnableOnelineMethodCall    *bool
	EnableOnelineTableField    *bool
	EnableOnelineTopLevelFunc  *bool
	EnableOnelineScopedFunc    *bool
	IndentMethodCall           *bool
	IndentTableField           *bool

	// Tables

	FieldSeparator              *FieldSeparator
	WriteTrailingFieldSeparator *bool

	// Strings

	ConvertCharStringToNormalString *bool

	// Scope

	// LineRange restricts formatting to statements whose span touches
	// the given 1-indexed inclusive line range; statements entirely
	// outside it are emitted verbatim.
	LineRange *LineRange
}

// LineRange is an inclusive, 1-indexed line range.
type LineRange struct {
	Start, End int
}

func boolPtr(b bool) *bool               { return &b }
func intPtr(n int) *int                  { return &n }
func strPtr(s string) *string            { return &s }
func levelPtr(l FormatLevel) *FormatLevel { return &l }
func sepPtr(s FieldSeparator) *FieldSeparator { return &s }
