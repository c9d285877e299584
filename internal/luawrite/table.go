// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// fieldSeparator returns field_separator when set, else the separator
// observed in the source, else ",".
func (w *writer) fieldSeparator(observed string) string {
	if w.cfg.FieldSeparator != nil {
		return string(*w.cfg.FieldSeparator)
	}
	if observed != "" {
		return observed
	}
	return ","
}

// trailingSeparator reports whether a separator follows the last field:
// write_trailing_field_separator when set, else whether the source had one.
func (w *writer) trailingSeparator(last luasyntax.ListItem) bool {
	if w.cfg.WriteTrailingFieldSeparator != nil {
		return *w.cfg.WriteTrailingFieldSeparator
	}
	return last.Separator != ""
}

// emitTableConstructor lays out a table's fields per format_type_table:
// single-line when the level or lack of indentation_string asks for
// it, or, with enable_oneline_table set, when the single-line rendering
// fits max_width; otherwise one field per indented line. The trailing
// separator follows write_trailing_field_separator, or the source when
// that option is unset.
func (w *writer) emitTableConstructor(n *luasyntax.Node) {
	items := n.List.Items
	if len(items) == 0 {
		w.write("{")
		w.writeTrivia(n.Trivia[0], "")
		w.write("}")
		return
	}
	level := levelVal(w.cfg.FormatTypeTable)
	single := func() { w.emitTableSingleLine(n) }
	if level == luaconfig.LevelSingleLine || strVal(w.cfg.IndentationString) == "" {
		single()
		return
	}
	if boolVal(w.cfg.EnableOnelineTable) {
		if rendered, ok := w.tryOneLine(single); ok {
			w.write(rendered)
			return
		}
	}
	w.emitTableBroken(n)
}

func (w *writer) emitTableSingleLine(n *luasyntax.Node) {
	w.write("{")
	items := n.List.Items
	for i, item := range items {
		if i > 0 {
			w.writeTrivia(item.Leading, "")
		} else {
			w.writeTrivia(n.Trivia[0], "")
		}
		w.emitField(item.Node)
		if i < len(items)-1 || w.trailingSeparator(item) {
			w.write(w.fieldSeparator(item.Separator))
		}
	}
	w.writeTrivia(n.Trivia[1], "")
	w.write("}")
}

func (w *writer) emitTableBroken(n *luasyntax.Node) {
	w.write("{")
	w.indent++
	items := n.List.Items
	for i, item := range items {
		leading := item.Leading
		if i == 0 {
			// item[0].Leading is the same span as n.Trivia[0] (the gap
			// right after "{"); use the table's own slot so a comment
			// there isn't rendered twice.
			leading = n.Trivia[0]
		}
		w.forceBreak(leading, w.indent)
		w.emitField(item.Node)
		if i < len(items)-1 || w.trailingSeparator(item) {
			w.write(w.fieldSeparator(item.Separator))
		}
	}
	w.indent--
	w.forceBreak(n.Trivia[1], w.indent)
	w.write("}")
}

func (w *writer) emitField(n *luasyntax.Node) {
	switch n.Kind {
	case luasyntax.KindFieldBracket:
		w.write("[")
		w.writeTrivia(n.Trivia[0], "")
		w.emitExpr(n.Children[0])
		w.writeTrivia(n.Trivia[1], "")
		w.write("]")
		w.writeTrivia(n.Trivia[2], "")
		w.write("=")
		w.writeTrivia(n.Trivia[3], " ")
		w.emitExpr(n.Children[1])
	case luasyntax.KindFieldNamed:
		w.write(n.Name)
		w.writeTrivia(n.Trivia[0], "")
		w.write("=")
		w.writeTrivia(n.Trivia[1], " ")
		w.emitExpr(n.Children[0])
	case luasyntax.KindFieldSequential:
		w.emitExpr(n.Children[0])
	}
}
