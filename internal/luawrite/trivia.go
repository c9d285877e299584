// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luawrite

import (
	"strings"

	"lua.fmt.dev/pkg/internal/luaconfig"
	"lua.fmt.dev/pkg/internal/luasyntax"
	"lua.fmt.dev/pkg/internal/luatrivia"
)

func boolVal(p *bool) bool { return p != nil && *p }

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// renderTrivia renders the span [lo, hi) of src under the default hint
// h, following the trivia renderer's decision lattice. With every
// rewrite option unset it returns the span verbatim, which is what
// keeps the all-options-unset configuration byte-for-byte lossless.
func renderTrivia(src string, loc luasyntax.Loc, hint string, cfg *luaconfig.Config) string {
	lo, hi := loc.Lo, loc.Hi
	removeComments := boolVal(cfg.RemoveComments)
	removeNewlines := boolVal(cfg.RemoveNewlines)
	removeSpaces := boolVal(cfg.RemoveSpacesBetweenTokens)
	replaceZero := boolVal(cfg.ReplaceZeroSpacesWithHint)

	if !removeComments && !removeNewlines && !removeSpaces && !replaceZero {
		return src[lo:hi]
	}

	items := luatrivia.Parse(src, lo, hi)
	var out string
	if removeSpaces {
		if removeComments {
			items = withoutComments(items)
		}
		out = renderCompact(items, cfg)
	} else {
		out = renderSpaced(src, lo, hi, items, removeNewlines, removeComments, cfg)
	}
	if out == "" && replaceZero && lo == hi {
		out = hint
	}
	return applyTopLevelHints(out, cfg)
}

func withoutComments(items []luatrivia.Item) []luatrivia.Item {
	kept := items[:0:0]
	for _, it := range items {
		if it.Kind == luatrivia.NewLine {
			kept = append(kept, it)
		}
	}
	return kept
}

// renderSpaced reproduces the original whitespace between trivia items
// and rewrites only the items themselves (dropping newlines or comments
// if asked).
func renderSpaced(src string, lo, hi int, items []luatrivia.Item, removeNewlines, removeComments bool, cfg *luaconfig.Config) string {
	var b strings.Builder
	cursor := lo
	for _, it := range items {
		if it.Kind == luatrivia.NewLine && removeNewlines {
			cursor = it.FullEnd
			continue
		}
		if it.Kind != luatrivia.NewLine && removeComments {
			b.WriteString(src[cursor:it.FullStart])
			cursor = it.FullEnd
			continue
		}
		b.WriteString(src[cursor:it.FullStart])
		b.WriteString(renderItem(it, cfg))
		cursor = it.FullEnd
	}
	b.WriteString(src[cursor:hi])
	return b.String()
}

// renderCompact discards raw whitespace, emitting only the comments and
// (unless removed) newlines found in the span, per spec rule 5's
// inter-comment glue: a single space between two comments when the
// first renders to something ending in ']' and the kind that follows
// begins with '-', which in practice means "between a multi-line
// comment and any following comment".
func renderCompact(items []luatrivia.Item, cfg *luaconfig.Config) string {
	removeNewlines := boolVal(cfg.RemoveNewlines)
	var b strings.Builder
	var prevRendered string
	havePrev := false
	for _, it := range items {
		if it.Kind == luatrivia.NewLine {
			if !removeNewlines {
				b.WriteByte('\n')
			}
			havePrev = false
			continue
		}
		rendered := renderItem(it, cfg)
		if havePrev && strings.HasSuffix(prevRendered, "]") {
			b.WriteByte(' ')
		}
		b.WriteString(rendered)
		prevRendered = rendered
		havePrev = true
	}
	return b.String()
}

func renderItem(it luatrivia.Item, cfg *luaconfig.Config) string {
	switch it.Kind {
	case luatrivia.OneLineComment:
		var b strings.Builder
		b.WriteString("--")
		b.WriteString(strVal(cfg.HintBeforeOnelineCommentText))
		b.WriteString(strings.TrimLeft(it.Text, " \t"))
		return b.String()
	case luatrivia.MultiLineComment:
		eq := strings.Repeat("=", it.Level)
		var b strings.Builder
		b.WriteString("--[")
		b.WriteString(eq)
		b.WriteByte('[')
		b.WriteString(strVal(cfg.HintBeforeMultilineCommentText))
		b.WriteString(it.Text)
		b.WriteString(strVal(cfg.HintAfterMultilineCommentText))
		b.WriteByte(']')
		b.WriteString(eq)
		b.WriteByte(']')
		return b.String()
	case luatrivia.NewLine:
		return "\n"
	default:
		return ""
	}
}

func applyTopLevelHints(s string, cfg *luaconfig.Config) string {
	if hint := cfg.HintBeforeComment; hint != nil {
		if trimmed := strings.TrimLeft(s, " \t\n"); strings.HasPrefix(trimmed, "-") {
			lead := s[:len(s)-len(trimmed)]
			s = lead + *hint + trimmed
		}
	}
	if hint := cfg.HintAfterMultilineComment; hint != nil {
		if trimmed := strings.TrimRight(s, " \t\n"); strings.HasSuffix(trimmed, "]") {
			trail := s[len(trimmed):]
			s = trimmed + *hint + trail
		}
	}
	return s
}
