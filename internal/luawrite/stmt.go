// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
	"lua.fmt.dev/pkg/internal/xslices"
)

func (w *writer) emitChunk(chunk *luasyntax.Node) {
	if chunk.SheBang != nil {
		w.write(chunk.SheBang.Text)
		w.writeByte('\n')
	}
	body := chunk.Children[0]
	if body.List.Len() == 0 {
		// An empty block's pre- and post-body trivia spans are
		// identical (no token was consumed between computing them);
		// writing one covers the whole chunk.
		w.writeTrivia(chunk.Trivia[0], "")
		return
	}
	// item[0].Leading is the same span as chunk.Trivia[0]: the gap
	// between the start of the file and the first statement. Writing it
	// here too would duplicate whatever emitStatementList already
	// renders for the first item.
	w.emitStatementList(body, false)
	w.writeTrivia(chunk.Trivia[1], "")
}

// emitStatementList emits every statement in list. When forceIndent is
// true (the list is the body of an indented block) each statement after
// the first is preceded by a forced newline+indent when
// indent_every_statement asks for it; otherwise statements are joined
// by their own recorded leading trivia. A statement outside
// cfg.LineRange is copied verbatim from source instead of rewritten.
func (w *writer) emitStatementList(list *luasyntax.Node, forceIndent bool) {
	items := list.List.Items
	indentEvery := forceIndent && boolVal(w.cfg.IndentEveryStatement)
	for i, item := range items {
		leadingHandled := false
		switch {
		case i == 0 && forceIndent:
			// The enclosing construct already forced a break and wrote
			// this indent level's prefix (and this item's leading
			// trivia) before calling in.
			leadingHandled = true
		case i > 0 && indentEvery:
			w.writeByte('\n')
			w.write(w.indentPrefix())
			leadingHandled = true
		}
		if !w.inLineRange(item.Node) {
			if leadingHandled {
				w.write(w.src[item.Node.Span.Lo:item.Node.Span.Hi])
			} else {
				w.write(w.src[item.Leading.Lo:item.Node.Span.Hi])
			}
			continue
		}
		if !leadingHandled {
			w.writeTrivia(item.Leading, " ")
		}
		w.emitStatement(item.Node)
	}
}

func (w *writer) emitStatement(n *luasyntax.Node) {
	switch n.Kind {
	case luasyntax.KindSemicolon:
		w.writeByte(';')
	case luasyntax.KindBreak:
		w.write("break")
	case luasyntax.KindGoto:
		w.write("goto")
		w.writeTrivia(n.Trivia[0], " ")
		w.write(n.Name)
	case luasyntax.KindLabel:
		w.write("::")
		w.writeTrivia(n.Trivia[0], "")
		w.write(n.Name)
		w.writeTrivia(n.Trivia[1], "")
		w.write("::")
	case luasyntax.KindReturn:
		w.emitReturn(n)
	case luasyntax.KindDoBlock:
		w.emitDoBlock(n)
	case luasyntax.KindWhile:
		w.emitWhile(n)
	case luasyntax.KindRepeat:
		w.emitRepeat(n)
	case luasyntax.KindIf:
		w.emitIf(n)
	case luasyntax.KindForNumeric:
		w.emitForNumeric(n)
	case luasyntax.KindForIn:
		w.emitForIn(n)
	case luasyntax.KindFuncDecl:
		w.emitFuncDecl(n)
	case luasyntax.KindLocalFunc:
		w.emitLocalFunc(n)
	case luasyntax.KindLocal:
		w.emitLocal(n)
	case luasyntax.KindAssign:
		w.emitAssign(n)
	case luasyntax.KindVar:
		w.emitExpr(n)
	default:
		w.emitExpr(n)
	}
}

func (w *writer) emitReturn(n *luasyntax.Node) {
	w.write("return")
	if n.HasExprs {
		w.emitExprListWithLeading(n.Exprs, " ")
	}
	if n.TrailingComma {
		w.writeByte(',')
	}
}

func (w *writer) emitDoBlock(n *luasyntax.Node) {
	w.write("do")
	level := levelVal(w.cfg.DoEndIndentFormat)
	w.emitIndentedBody(level, n.Children[0], n.Trivia[0])
	w.write("end")
}

func (w *writer) emitWhile(n *luasyntax.Node) {
	w.write("while")
	w.write(" ")
	w.emitExpr(n.Children[0])
	w.writeTrivia(n.Trivia[0], " ")
	w.write("do")
	level := levelVal(w.cfg.WhileDoIndentFormat)
	w.emitIndentedBody(level, n.Children[1], n.Trivia[1])
	w.write("end")
}

func (w *writer) emitRepeat(n *luasyntax.Node) {
	w.write("repeat")
	level := levelVal(w.cfg.RepeatUntilIndentFormat)
	w.emitIndentedBody(level, n.Children[0], n.Trivia[0])
	w.write("until")
	w.writeTrivia(n.Trivia[1], " ")
	w.emitExpr(n.Children[1])
}

// emitIf emits an if statement. Every elseif clause collapses into the
// same node kind the parser already produced (KindIf never nests a
// separate "elseif statement" kind), so this one function handles the
// whole chain. When format_type_if and enable_oneline_if both ask for
// it, the whole chain is first tried as a single line before falling
// back to if_indent_format's per-branch layout.
func (w *writer) emitIf(n *luasyntax.Node) {
	ifLevel := levelVal(w.cfg.FormatTypeIf)
	if ifLevel != luaconfig.LevelSingleLine && strVal(w.cfg.IndentationString) != "" && boolVal(w.cfg.EnableOnelineIf) {
		if rendered, ok := w.tryOneLine(func() { w.emitIfChain(n, false) }); ok {
			w.write(rendered)
			return
		}
	}
	w.emitIfChain(n, true)
}

func (w *writer) emitIfChain(n *luasyntax.Node, allowBranchBreak bool) {
	w.write("if")
	w.write(" ")
	w.emitExpr(n.Children[0])
	w.writeTrivia(n.Trivia[0], " ")
	w.write("then")
	level := levelVal(w.cfg.IfIndentFormat)
	if !allowBranchBreak {
		level = luaconfig.LevelSingleLine
	}
	// The gap before whatever follows a branch body (an elseif's leading
	// trivia, ElseTrivia, or the end-of-chain trivia) is handed to that
	// body's emitIndentedBody as its trailing span, so it is written once
	// and, under a breaking level, through the same forced break.
	follow := func(i int) luasyntax.Loc {
		if i < len(n.List.Items) {
			return n.List.Items[i].Leading
		}
		if n.Else != nil {
			return n.ElseTrivia
		}
		return xslices.Last(n.Trivia)
	}
	w.emitIndentedBody(level, n.Children[1], follow(0))
	for i, clause := range n.List.Items {
		c := clause.Node
		w.write("elseif")
		w.write(" ")
		w.emitExpr(c.Children[0])
		w.writeTrivia(c.Trivia[0], " ")
		w.write("then")
		w.emitIndentedBody(level, c.Children[1], follow(i+1))
	}
	if n.Else != nil {
		w.write("else")
		w.emitIndentedBody(level, n.Else, xslices.Last(n.Trivia))
	}
	w.write("end")
}

func (w *writer) emitForNumeric(n *luasyntax.Node) {
	w.write("for")
	w.writeTrivia(n.Trivia[0], " ")
	w.write(n.Name)
	w.writeTrivia(n.Trivia[1], "")
	w.write("=")
	w.emitExpr(n.Children[0])
	w.writeTrivia(n.Trivia[2], "")
	w.write(",")
	w.emitExpr(n.Children[1])
	if n.HasStep {
		w.writeTrivia(n.Trivia[3], "")
		w.write(",")
		w.emitExpr(n.Children[2])
	}
	beforeDo := n.Trivia[3]
	if n.HasStep {
		beforeDo = n.Trivia[4]
	}
	w.writeTrivia(beforeDo, " ")
	w.write("do")
	level := levelVal(w.cfg.ForIndentFormat)
	body := n.Children[len(n.Children)-1]
	w.emitIndentedBody(level, body, xslices.Last(n.Trivia))
	w.write("end")
}

func (w *writer) emitForIn(n *luasyntax.Node) {
	w.write("for")
	w.writeTrivia(n.Trivia[0], " ")
	w.emitNameList(n.List)
	w.writeTrivia(n.Trivia[1], " ")
	w.write("in")
	w.emitExprListWithLeading(n.Exprs, " ")
	w.writeTrivia(n.Trivia[2], " ")
	w.write("do")
	level := levelVal(w.cfg.ForIndentFormat)
	w.emitIndentedBody(level, n.Children[0], n.Trivia[3])
	w.write("end")
}

func (w *writer) emitFuncDecl(n *luasyntax.Node) {
	w.write("function")
	w.emitFuncName(n.Children[0])
	w.emitFuncBody(n.Children[1], true)
}

func (w *writer) emitFuncName(n *luasyntax.Node) {
	w.writeTrivia(n.Trivia[0], " ")
	for i, item := range n.List.Items {
		if i > 0 {
			w.writeTrivia(item.Leading, "")
		}
		w.write(item.Node.Text)
		if item.Separator != "" {
			w.write(".")
		}
	}
	if n.IsMethod {
		w.write(":")
		w.writeTrivia(n.Trivia[1], "")
		w.write(n.Name)
	}
}

func (w *writer) emitLocalFunc(n *luasyntax.Node) {
	w.write("local function")
	w.writeTrivia(n.Trivia[0], " ")
	w.write(n.Name)
	w.emitFuncBody(n.Children[0], false)
}

func (w *writer) emitLocal(n *luasyntax.Node) {
	w.write("local")
	w.emitNameList(n.List)
	if n.HasExprs {
		last := n.List.Items[len(n.List.Items)-1].Node
		w.writeTrivia(luasyntax.Loc{Lo: last.Span.Hi, Hi: n.Exprs.Items[0].Leading.Lo - 1}, " ")
		w.write("=")
		w.emitExprListWithLeading(n.Exprs, " ")
	}
}

func (w *writer) emitAssign(n *luasyntax.Node) {
	for i, item := range n.List.Items {
		if i > 0 {
			w.writeTrivia(item.Leading, " ")
		}
		w.emitExpr(item.Node)
		if item.Separator != "" {
			w.write(",")
		}
	}
	w.write(" =")
	w.emitExprListWithLeading(n.Exprs, " ")
}

// emitNameList renders every item's own recorded Leading trivia,
// including the first: for a KindLocal name list that span is the real
// gap after "local", not a boundary some other trivia slot already
// covers (contrast a ForIn name list, whose first item carries no
// Leading of its own because emitForIn already renders that gap as
// Trivia[0] before calling in).
func (w *writer) emitNameList(l *luasyntax.List) {
	for _, item := range l.Items {
		w.writeTrivia(item.Leading, "")
		w.write(item.Node.Text)
		if item.Separator != "" {
			w.write(",")
		}
	}
}

// emitExprListWithLeading renders every item's own recorded Leading
// trivia, including the first, using hint as the fallback for a
// genuinely empty gap (e.g. "a=1" has no whitespace after "="). This
// preserves a real, possibly larger or commented, gap exactly as
// written instead of forcing hint's literal text before the first
// expression.
func (w *writer) emitExprListWithLeading(l *luasyntax.List, hint string) {
	for i, item := range l.Items {
		if i == 0 {
			w.writeTrivia(item.Leading, hint)
		} else {
			w.writeTrivia(item.Leading, " ")
		}
		w.emitExpr(item.Node)
		if item.Separator != "" {
			w.write(",")
		}
	}
}

func levelVal(p *luaconfig.FormatLevel) luaconfig.FormatLevel {
	if p == nil {
		return luaconfig.LevelSingleLine
	}
	return *p
}

func singleStatement(body *luasyntax.Node) bool {
	return body.List.Len() == 1
}

// emitIndentedBody writes a block body under level, followed by the
// trivia span that runs from its last statement (or, if empty, from
// the block's opening keyword) to whatever follows. Level
// LevelSingleLine leaves layout entirely to the recorded trivia;
// LevelIndent/LevelIndentCompact force a break (degrading to
// single-line when no indentation_string is set).
func (w *writer) emitIndentedBody(level luaconfig.FormatLevel, body *luasyntax.Node, after luasyntax.Loc) {
	indentStr := strVal(w.cfg.IndentationString)
	if level == luaconfig.LevelSingleLine || indentStr == "" {
		w.emitStatementList(body, false)
		w.writeTrivia(after, " ")
		return
	}
	if level == luaconfig.LevelIndentCompact && singleStatement(body) {
		w.emitStatementList(body, false)
		w.writeTrivia(after, " ")
		return
	}
	bodyGap := after
	if items := body.List.Items; len(items) > 0 {
		bodyGap = items[0].Leading
	}
	w.forceBreak(bodyGap, w.indent+1)
	w.indent++
	w.emitStatementList(body, true)
	w.indent--
	w.forceBreak(after, w.indent)
}
