// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luarecon implements the pre-emission tree rewrite that runs
// exactly once between parsing and writing: it propagates table layout
// flags downward, defaults root tables, and optionally rewrites
// single-quoted string literals to double-quoted form.
package luarecon

import (
	"strings"

	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// Reconstruct mutates root in place. It must run before the writer
// touches the tree and must not run twice on the same tree.
func Reconstruct(root *luasyntax.Node, cfg *luaconfig.Config) {
	r := &reconstructor{convert: cfg != nil && boolVal(cfg.ConvertCharStringToNormalString)}
	r.walk(root)
}

func boolVal(p *bool) bool { return p != nil && *p }

type reconstructor struct {
	convert bool
}

func (r *reconstructor) walk(n *luasyntax.Node) {
	if n == nil {
		return
	}
	if r.convert && n.Kind == luasyntax.KindShortString && n.Quote == luasyntax.SingleQuote {
		n.Text = convertCharString(n.Text)
		n.Quote = luasyntax.DoubleQuote
	}
	if n.Kind == luasyntax.KindTableConstructor {
		r.walkTable(n, true, true)
		return
	}
	for _, c := range n.Children {
		r.walk(c)
	}
	r.walkList(n.List)
	r.walkList(n.Exprs)
	r.walkList(n.Params)
	r.walk(n.Else)
}

func (r *reconstructor) walkList(l *luasyntax.List) {
	if l == nil {
		return
	}
	for i := range l.Items {
		r.walk(l.Items[i].Node)
	}
}

// walkTable applies table-context propagation to tbl, given the flags
// its enclosing context already decided (or the root defaults, true and
// true, when tbl has no such context), then recurses into its fields.
func (r *reconstructor) walkTable(tbl *luasyntax.Node, isSingleChild, childrenOfSingleChild bool) {
	tbl.Flags.IsSingleChild = isSingleChild
	tbl.Flags.ChildrenOfSingleChild = childrenOfSingleChild

	var items []luasyntax.ListItem
	if tbl.List != nil {
		items = tbl.List.Items
	}
	allSequential := len(items) > 0
	for i := range items {
		field := items[i].Node
		if field.Kind != luasyntax.KindFieldSequential {
			allSequential = false
			r.walk(field)
			continue
		}
		value := field.Children[0]
		if value.Kind == luasyntax.KindTableConstructor {
			r.walkTable(value, len(items) == 1, tbl.Flags.IsSingleChild)
		} else {
			r.walk(value)
		}
	}
	tbl.Flags.IsAllSequential = allSequential
	tbl.Flags.HasSingleChild = len(items) == 1
}

// convertCharString rewrites the raw body of a single-quoted string
// literal (quotes already stripped) into the body of an equivalent
// double-quoted literal: a bare '"' is escaped, a '\'' escape is
// unescaped (unnecessary once the delimiter changes), and every other
// byte, including existing escape sequences, passes through unchanged.
func convertCharString(body string) string {
	var b strings.Builder
	b.Grow(len(body) + 2)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			next := body[i+1]
			if next == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			i++
			continue
		}
		if c == '"' {
			b.WriteByte('\\')
			b.WriteByte('"')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
