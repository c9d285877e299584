// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luawrite walks a reconstructed [luasyntax.Node] tree and
// emits Lua source text, interleaving literal lexemes with hint-aware
// trivia renderings and invoking the layout engine for constructs whose
// configuration asks for width-based line breaking.
package luawrite

import (
	"strconv"
	"strings"

	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
	"lua.fmt.dev/pkg/internal/luatrivia"
)

// sink is the subset of *strings.Builder and *scratchbuf.Buffer the
// writer needs: enough to emit text into either the final output or a
// layout engine trial buffer.
type sink interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Len() int
}

// Write formats root, a tree produced by luaparse and already passed
// through luarecon.Reconstruct, back into Lua source text.
func Write(root *luasyntax.Node, src string, cfg *luaconfig.Config) (string, error) {
	if cfg == nil {
		cfg = &luaconfig.Config{}
	}
	var out strings.Builder
	w := &writer{src: src, cfg: cfg, out: &out, lines: newLineIndex(src)}
	w.emitChunk(root)
	result := out.String()
	if boolVal(cfg.WriteNewlineAtEOF) && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result, nil
}

type writer struct {
	src    string
	cfg    *luaconfig.Config
	indent int
	out    sink
	lines  *lineIndex
	col    int
	// collapsing is set while a [writer.tryOneLine] trial is in flight:
	// the single-line policy it trials must actually produce a single
	// line, so trivia is rendered as though remove_newlines were set
	// even when the caller's config leaves it unset.
	collapsing bool
}

// inLineRange reports whether n should be formatted (true) or copied
// verbatim from src (false) under cfg.LineRange.
func (w *writer) inLineRange(n *luasyntax.Node) bool {
	return w.lines.inRange(n.Span, w.cfg.LineRange)
}

func (w *writer) write(s string) {
	w.out.WriteString(s)
	w.trackColumn(s)
}

func (w *writer) writeByte(c byte) {
	w.out.WriteByte(c)
	w.trackColumn(string(c))
}

func (w *writer) indentPrefix() string {
	s := strVal(w.cfg.IndentationString)
	if s == "" {
		return ""
	}
	return strings.Repeat(s, w.indent)
}

// writeTrivia renders loc under hint h and writes it.
func (w *writer) writeTrivia(loc luasyntax.Loc, hint string) {
	cfg := w.cfg
	if w.collapsing && !boolVal(cfg.RemoveNewlines) {
		cfg = forceRemoveNewlines(cfg)
	}
	w.write(renderTrivia(w.src, loc, hint, cfg))
}

// forceRemoveNewlines returns a shallow copy of cfg with RemoveNewlines
// forced on, for rendering trivia inside a single-line layout trial.
func forceRemoveNewlines(cfg *luaconfig.Config) *luaconfig.Config {
	clone := *cfg
	t := true
	clone.RemoveNewlines = &t
	return &clone
}

// forceBreak renders loc's comments (if any) each on their own
// indented line, then guarantees the cursor ends on a fresh line at
// indentLevel regardless of what whitespace the source actually had
// there. This is how a *_indent_format level of 1 or 2 forces a break
// independent of the trivia-rewrite options in §6.
func (w *writer) forceBreak(loc luasyntax.Loc, indentLevel int) {
	if strVal(w.cfg.IndentationString) == "" {
		w.writeTrivia(loc, " ")
		return
	}
	prefix := strings.Repeat(strVal(w.cfg.IndentationString), indentLevel)
	items := luatrivia.Parse(w.src, loc.Lo, loc.Hi)
	w.writeByte('\n')
	for _, it := range items {
		if it.Kind == luatrivia.NewLine {
			continue
		}
		w.write(prefix)
		w.write(renderItem(it, w.cfg))
		w.writeByte('\n')
	}
	w.write(prefix)
}

func (w *writer) fmtInt(n int) string {
	return strconv.Itoa(n)
}
