// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// chainBreakKind reports which of the two breakable suffix kinds a
// var's suffix chain contains, preferring method calls: a chain mixing
// "obj:m1():m2()" with "obj.field:m()" breaks at the method-call
// boundaries and leaves plain field access glued to its call, same as
// a bracket index or argument list never gets its own line.
func chainBreakKind(items []luasyntax.ListItem) luasyntax.Kind {
	for _, item := range items {
		if item.Node.Kind == luasyntax.KindMethodCall {
			return luasyntax.KindMethodCall
		}
	}
	for _, item := range items {
		if item.Node.Kind == luasyntax.KindTableMember {
			return luasyntax.KindTableMember
		}
	}
	return luasyntax.KindInvalid
}

// emitSuffixChain lays out a KindVar's suffix list (the field/index/
// call/method-call chain hung off a base expression) per
// format_type_method_call and format_type_table_field: single-line
// when the chain has no method-call or field-access suffix to break
// at, when the level or missing indentation_string asks for it, or,
// with the matching enable_oneline_* option set, when the single-line
// rendering fits max_width; otherwise one
// method-call or field access per line, with any immediately following
// call/index suffix glued to the same line, per spec's "break only
// between consecutive accesses, not inside a call's argument list".
func (w *writer) emitSuffixChain(items []luasyntax.ListItem) {
	if len(items) == 0 {
		return
	}
	kind := chainBreakKind(items)
	single := func() {
		for _, item := range items {
			w.writeTrivia(item.Leading, "")
			w.emitSuffix(item.Node)
		}
	}
	if kind == luasyntax.KindInvalid {
		single()
		return
	}

	var level luaconfig.FormatLevel
	var enableOneline, indentChain bool
	switch kind {
	case luasyntax.KindMethodCall:
		level = levelVal(w.cfg.FormatTypeMethodCall)
		enableOneline = boolVal(w.cfg.EnableOnelineMethodCall)
		indentChain = boolVal(w.cfg.IndentMethodCall)
	case luasyntax.KindTableMember:
		level = levelVal(w.cfg.FormatTypeTableField)
		enableOneline = boolVal(w.cfg.EnableOnelineTableField)
		indentChain = boolVal(w.cfg.IndentTableField)
	}
	if level == luaconfig.LevelSingleLine || strVal(w.cfg.IndentationString) == "" {
		single()
		return
	}
	if enableOneline {
		if rendered, ok := w.tryOneLine(single); ok {
			w.write(rendered)
			return
		}
	}
	w.emitChainBroken(items, kind, indentChain)
}

// emitChainBroken breaks before every suffix of kind (the chain's
// breakable kind), keeping any other suffix — a call's argument list or
// a bracket index following a method call or field access — glued to
// the line its owner started.
func (w *writer) emitChainBroken(items []luasyntax.ListItem, kind luasyntax.Kind, indentChain bool) {
	if indentChain {
		w.indent++
	}
	for _, item := range items {
		if item.Node.Kind == kind {
			w.forceBreak(item.Leading, w.indent)
		} else {
			w.writeTrivia(item.Leading, "")
		}
		w.emitSuffix(item.Node)
	}
	if indentChain {
		w.indent--
	}
}
