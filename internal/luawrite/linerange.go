// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// lineIndex maps a byte offset to a 1-indexed line number, the same way
// a compiler's error reporter would, so [luaconfig.Config.LineRange]
// (itself expressed in source line numbers) can be tested against a
// node's byte-offset [luasyntax.Loc].
type lineIndex struct {
	// starts[i] is the byte offset of line i+1.
	starts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) line(offset int) int {
	lo, hi := 0, len(li.starts)
	for lo < hi {
		mid := (lo + hi) / 2
		if li.starts[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// inRange reports whether any part of loc falls on a line touched by r.
func (li *lineIndex) inRange(loc luasyntax.Loc, r *luaconfig.LineRange) bool {
	if r == nil {
		return true
	}
	startLine := li.line(loc.Lo)
	endLine := li.line(loc.Hi)
	if loc.Hi > loc.Lo {
		endLine = li.line(loc.Hi - 1)
	}
	return startLine <= r.End && endLine >= r.Start
}
