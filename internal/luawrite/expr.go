// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"strings"

	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/lualex"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

func opText(op int) string {
	return lualex.TokenKind(op).String()
}

func (w *writer) emitExpr(n *luasyntax.Node) {
	switch n.Kind {
	case luasyntax.KindNil:
		w.write("nil")
	case luasyntax.KindTrue:
		w.write("true")
	case luasyntax.KindFalse:
		w.write("false")
	case luasyntax.KindVarArg:
		w.write("...")
	case luasyntax.KindBreak:
		w.write("break")
	case luasyntax.KindNumeral:
		w.write(n.Text)
	case luasyntax.KindName:
		w.write(n.Text)
	case luasyntax.KindShortString:
		w.writeByte(byte(n.Quote))
		w.write(n.Text)
		w.writeByte(byte(n.Quote))
	case luasyntax.KindLongString:
		w.writeLongBracket(n.Text, n.Level)
	case luasyntax.KindUnaryOp:
		w.write(opText(n.Op))
		if isWordOp(n.Op) {
			w.write(" ")
		}
		w.writeTrivia(n.Trivia[0], "")
		w.emitOperand(n.Children[0])
	case luasyntax.KindBinaryOp:
		w.emitBinaryOp(n)
	case luasyntax.KindRoundBrackets:
		w.write("(")
		w.writeTrivia(n.Trivia[0], "")
		w.emitExpr(n.Children[0])
		w.writeTrivia(n.Trivia[1], "")
		w.write(")")
	case luasyntax.KindVar:
		w.emitExpr(n.Children[0])
		w.emitSuffixChain(n.List.Items)
	case luasyntax.KindTableMember, luasyntax.KindTableIndex, luasyntax.KindMethodCall, luasyntax.KindCall:
		w.emitSuffix(n)
	case luasyntax.KindTableConstructor:
		w.emitTableConstructor(n)
	case luasyntax.KindFuncBody:
		w.write("function")
		w.emitFuncBody(n, false)
	}
}

func isWordOp(op int) bool {
	return lualex.TokenKind(op) == lualex.NotToken
}

func (w *writer) writeLongBracket(text string, level int) {
	eq := strings.Repeat("=", level)
	w.write("[")
	w.write(eq)
	w.write("[")
	w.write(text)
	w.write("]")
	w.write(eq)
	w.write("]")
}

func (w *writer) emitSuffix(n *luasyntax.Node) {
	switch n.Kind {
	case luasyntax.KindTableMember:
		w.write(".")
		w.writeTrivia(n.Trivia[0], "")
		w.write(n.Name)
	case luasyntax.KindTableIndex:
		w.write("[")
		w.writeTrivia(n.Trivia[0], "")
		w.emitExpr(n.Children[0])
		w.writeTrivia(n.Trivia[1], "")
		w.write("]")
	case luasyntax.KindMethodCall:
		w.write(":")
		w.writeTrivia(n.Trivia[0], "")
		w.write(n.Name)
		w.writeTrivia(n.Trivia[1], "")
		w.emitArgs(n.Children[0])
	case luasyntax.KindCall:
		w.emitArgs(n.Children[0])
	}
}

func (w *writer) emitArgs(n *luasyntax.Node) {
	switch n.Kind {
	case luasyntax.KindArgsRound:
		w.write("(")
		w.writeTrivia(n.Trivia[0], "")
		w.emitExprListItems(n.List)
		w.writeTrivia(n.Trivia[1], "")
		w.write(")")
	case luasyntax.KindArgsString, luasyntax.KindArgsTable:
		w.emitExpr(n.Children[0])
	}
}

func (w *writer) emitExprListItems(l *luasyntax.List) {
	for i, item := range l.Items {
		if i > 0 {
			w.writeTrivia(item.Leading, "")
		}
		w.emitExpr(item.Node)
		if item.Separator != "" {
			w.write(item.Separator)
		}
	}
}

// emitFuncBody emits a function's parameter list and body. topLevel
// distinguishes a named function declaration (`function foo() … end`,
// governed by enable_oneline_top_level_function) from a local function
// declaration or an anonymous function expression (both governed by
// enable_oneline_scoped_function): spec.md §6 exposes the two as
// separate knobs, so this is the one bit of context a caller must
// supply that the FuncBody node itself doesn't carry.
func (w *writer) emitFuncBody(n *luasyntax.Node, topLevel bool) {
	w.write("(")
	w.writeTrivia(n.Trivia[0], "")
	if n.Params != nil {
		for i, item := range n.Params.Items {
			if i > 0 {
				w.writeTrivia(item.Leading, "")
			}
			if item.Node.Kind == luasyntax.KindVarArg {
				w.write("...")
			} else {
				w.write(item.Node.Text)
			}
			if item.Separator != "" {
				w.write(item.Separator)
			}
		}
	}
	w.writeTrivia(n.Trivia[1], "")
	w.write(")")

	body := n.Children[0]
	after := n.Trivia[2]
	enableOneline := boolVal(w.cfg.EnableOnelineScopedFunc)
	if topLevel {
		enableOneline = boolVal(w.cfg.EnableOnelineTopLevelFunc)
	}
	if levelVal(w.cfg.FormatTypeFunction) != luaconfig.LevelSingleLine && strVal(w.cfg.IndentationString) != "" && enableOneline {
		single := func() {
			w.emitStatementList(body, false)
			w.writeTrivia(after, " ")
		}
		if rendered, ok := w.tryOneLine(single); ok {
			w.write(rendered)
			w.write("end")
			return
		}
	}

	level := levelVal(w.cfg.FunctionIndentFormat)
	w.emitIndentedBody(level, body, after)
	w.write("end")
}

// emitOperand emits a unary operator's operand. Precedence never needs
// to invent parentheses here: the parser already materialized any
// KindRoundBrackets the source wrote, so the CST alone determines
// where grouping is visible.
func (w *writer) emitOperand(n *luasyntax.Node) {
	w.emitExpr(n)
}

// emitBinaryOp emits n single-line whenever format_type_binary_op is
// LevelSingleLine, no indentation_string is configured, or (with
// enable_oneline_binary_op set) the single-line rendering fits
// max_width; otherwise it breaks
// after the operator and indents the right operand one level, per
// spec §4.6's "local, not globally optimal" layout rule.
func (w *writer) emitBinaryOp(n *luasyntax.Node) {
	text := opText(n.Op)
	level := levelVal(w.cfg.FormatTypeBinaryOp)
	single := func() {
		w.emitExpr(n.Children[0])
		w.writeTrivia(n.Trivia[0], " ")
		w.write(text)
		w.writeTrivia(n.Trivia[1], " ")
		w.emitExpr(n.Children[1])
	}
	if level == luaconfig.LevelSingleLine || strVal(w.cfg.IndentationString) == "" {
		single()
		return
	}
	if boolVal(w.cfg.EnableOnelineBinaryOp) {
		if rendered, ok := w.tryOneLine(single); ok {
			w.write(rendered)
			return
		}
	}
	w.emitExpr(n.Children[0])
	w.write(" ")
	w.write(text)
	w.indent++
	w.write("\n")
	w.write(w.indentPrefix())
	w.emitExpr(n.Children[1])
	w.indent--
}
