// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luaparse

import (
	"fmt"

	"lua.fmt.dev/pkg/internal/lualex"
)

// Error reports a syntax error encountered while building a CST.
// It corresponds to spec's ParsingError: the core never returns a
// partially-built tree for invalid source.
type Error struct {
	Pos     lualex.Position
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Pos, e.Message)
}

func syntaxErrorf(tok lualex.Token, format string, args ...any) *Error {
	return &Error{Pos: tok.Pos, Offset: tok.Start, Message: fmt.Sprintf(format, args...)}
}
