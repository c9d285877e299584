// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"strings"

	"lua.fmt.dev/pkg/internal/scratchbuf"
)

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// tryOneLine runs emit against a scratch buffer standing in for the
// real output, restores the real output and column afterward, and
// reports the rendered text plus whether it fits within max_width
// measured from the writer's current column. With no max_width
// configured, everything "fits": the layout engine is opt-in per
// spec §4.6.
//
// Because out is swapped and restored around a single synchronous
// call, nested tryOneLine calls (an outer table trying its fields,
// each field trying its own nested table) nest correctly through the
// Go call stack without needing a pool of buffers.
func (w *writer) tryOneLine(emit func()) (string, bool) {
	savedOut := w.out
	savedCol := w.col
	savedCollapsing := w.collapsing
	buf := scratchbuf.New(nil)
	w.out = buf
	w.collapsing = true
	emit()
	w.out = savedOut
	w.collapsing = savedCollapsing
	rendered := string(buf.Bytes())
	endColumn := w.col
	w.col = savedCol
	maxWidth := intVal(w.cfg.MaxWidth)
	fits := maxWidth <= 0 || !strings.Contains(rendered, "\n") && endColumn <= maxWidth
	return rendered, fits
}

func (w *writer) trackColumn(s string) {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		w.col = len(s) - idx - 1
	} else {
		w.col += len(s)
	}
}
