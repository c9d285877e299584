// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package luaparse

import (
	"lua.fmt.dev/pkg/internal/lualex"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// priority holds the left and right binding power of a binary operator,
// taken from lparser.c's priority table. Right < left makes an operator
// right-associative (^ and ..); equal makes it left-associative.
type priority struct{ left, right int }

var binaryPriority = map[lualex.TokenKind]priority{
	lualex.OrToken:            {1, 1},
	lualex.AndToken:           {2, 2},
	lualex.LessToken:          {3, 3},
	lualex.GreaterToken:       {3, 3},
	lualex.LessEqualToken:     {3, 3},
	lualex.GreaterEqualToken:  {3, 3},
	lualex.NotEqualToken:      {3, 3},
	lualex.EqualToken:         {3, 3},
	lualex.BitOrToken:         {4, 4},
	lualex.BitXorToken:        {5, 5},
	lualex.BitAndToken:        {6, 6},
	lualex.LShiftToken:        {7, 7},
	lualex.RShiftToken:        {7, 7},
	lualex.ConcatToken:        {9, 8},
	lualex.AddToken:           {10, 10},
	lualex.SubToken:           {10, 10},
	lualex.MulToken:           {11, 11},
	lualex.DivToken:           {11, 11},
	lualex.IntDivToken:        {11, 11},
	lualex.ModToken:           {11, 11},
	lualex.PowToken:           {14, 13},
}

const unaryPriority = 12

func isUnaryOp(k lualex.TokenKind) bool {
	switch k {
	case lualex.NotToken, lualex.SubToken, lualex.LenToken, lualex.BitXorToken:
		return true
	default:
		return false
	}
}

// parseExpr parses a full expression at the lowest precedence level.
func (p *parser) parseExpr() *luasyntax.Node {
	return p.parseSubExpr(0)
}

// parseSubExpr implements Lua's operator-precedence climbing: it parses
// one operand, then repeatedly folds in a following binary operator
// whose left binding power exceeds limit.
func (p *parser) parseSubExpr(limit int) *luasyntax.Node {
	var left *luasyntax.Node
	if isUnaryOp(p.curr.Kind) {
		opTok := p.consume()
		gap := p.trivia()
		operand := p.parseSubExpr(unaryPriority)
		left = &luasyntax.Node{
			Kind:     luasyntax.KindUnaryOp,
			Span:     luasyntax.Loc{Lo: opTok.Start, Hi: operand.Span.Hi},
			Op:       int(opTok.Kind),
			Children: []*luasyntax.Node{operand},
			Trivia:   []luasyntax.Loc{gap},
		}
	} else {
		left = p.parseSimpleExpr()
	}
	for {
		pr, ok := binaryPriority[p.curr.Kind]
		if !ok || pr.left <= limit {
			return left
		}
		beforeOp := p.trivia()
		opTok := p.consume()
		afterOp := p.trivia()
		right := p.parseSubExpr(pr.right)
		left = &luasyntax.Node{
			Kind:     luasyntax.KindBinaryOp,
			Span:     luasyntax.Loc{Lo: left.Span.Lo, Hi: right.Span.Hi},
			Op:       int(opTok.Kind),
			Children: []*luasyntax.Node{left, right},
			Trivia:   []luasyntax.Loc{beforeOp, afterOp},
		}
	}
}

// parseSimpleExpr parses a non-operator expression: a literal, a table
// constructor, a function literal, or a suffixed expression.
func (p *parser) parseSimpleExpr() *luasyntax.Node {
	switch p.curr.Kind {
	case lualex.NumeralToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindNumeral, Span: span(tok), Text: p.src[tok.Start:tok.End]}
	case lualex.StringToken:
		return p.parseShortString()
	case lualex.LongStringToken:
		return p.parseLongString()
	case lualex.NilToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindNil, Span: span(tok)}
	case lualex.TrueToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindTrue, Span: span(tok)}
	case lualex.FalseToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindFalse, Span: span(tok)}
	case lualex.VarargToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindVarArg, Span: span(tok)}
	case lualex.LBraceToken:
		return p.parseTableConstructor()
	case lualex.FunctionToken:
		kw := p.consume()
		body := p.parseFuncBody(false)
		body.Span.Lo = kw.Start
		return body
	default:
		return p.parseSuffixedExpr()
	}
}

func (p *parser) parseShortString() *luasyntax.Node {
	tok := p.consume()
	raw := p.src[tok.Start:tok.End]
	quote := luasyntax.DoubleQuote
	if len(raw) > 0 && raw[0] == '\'' {
		quote = luasyntax.SingleQuote
	}
	body := raw
	if len(raw) >= 2 {
		body = raw[1 : len(raw)-1]
	}
	return &luasyntax.Node{Kind: luasyntax.KindShortString, Span: span(tok), Text: body, Quote: quote}
}

func (p *parser) parseLongString() *luasyntax.Node {
	tok := p.consume()
	raw := p.src[tok.Start:tok.End]
	level := longBracketLevel(raw)
	body := longBracketBody(raw, level)
	return &luasyntax.Node{Kind: luasyntax.KindLongString, Span: span(tok), Text: body, Level: level}
}

// longBracketLevel counts the '=' signs in a long-bracket opener
// "[" "="* "[" at the start of raw.
func longBracketLevel(raw string) int {
	n := 0
	for i := 1; i < len(raw) && raw[i] == '='; i++ {
		n++
	}
	return n
}

// longBracketBody strips the opening and closing brackets (and a
// newline immediately following the opener, per Lua's rule that it
// does not count as part of the body) from a long-bracket lexeme.
func longBracketBody(raw string, level int) string {
	open := 2 + level // "[" + "="*level + "["
	if open > len(raw) {
		return ""
	}
	bodyStart := open
	if bodyStart < len(raw) && raw[bodyStart] == '\n' {
		bodyStart++
	}
	closeLen := 2 + level
	bodyEnd := len(raw) - closeLen
	if bodyEnd < bodyStart {
		bodyEnd = bodyStart
	}
	return raw[bodyStart:bodyEnd]
}

// parsePrimaryExpr parses a Name or a parenthesized expression: the
// two possible heads of a suffixed expression chain.
func (p *parser) parsePrimaryExpr() *luasyntax.Node {
	switch p.curr.Kind {
	case lualex.IdentifierToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindName, Span: span(tok), Text: p.src[tok.Start:tok.End]}
	case lualex.LParenToken:
		open := p.consume()
		afterOpen := p.trivia()
		inner := p.parseExpr()
		beforeClose := p.trivia()
		closeTok := p.expect(lualex.RParenToken, "')'")
		return &luasyntax.Node{
			Kind:     luasyntax.KindRoundBrackets,
			Span:     luasyntax.Loc{Lo: open.Start, Hi: closeTok.End},
			Children: []*luasyntax.Node{inner},
			Trivia:   []luasyntax.Loc{afterOpen, beforeClose},
		}
	default:
		p.fail("unexpected symbol near %v", p.curr)
		return nil
	}
}

// parseSuffixedExpr parses a primary expression followed by zero or
// more index/member/call suffixes, wrapping the result in a KindVar
// node only when at least one suffix is present.
func (p *parser) parseSuffixedExpr() *luasyntax.Node {
	head := p.parsePrimaryExpr()
	var items []luasyntax.ListItem
	for {
		leading := p.trivia()
		suffix := p.tryParseSuffix()
		if suffix == nil {
			break
		}
		items = append(items, luasyntax.ListItem{Leading: leading, Node: suffix})
	}
	if len(items) == 0 {
		return head
	}
	return &luasyntax.Node{
		Kind:     luasyntax.KindVar,
		Span:     luasyntax.Loc{Lo: head.Span.Lo, Hi: items[len(items)-1].Node.Span.Hi},
		Children: []*luasyntax.Node{head},
		List:     &luasyntax.List{Items: items},
	}
}

// tryParseSuffix parses one index/member/call suffix at curr, or
// returns nil without consuming anything if curr begins none.
func (p *parser) tryParseSuffix() *luasyntax.Node {
	switch p.curr.Kind {
	case lualex.DotToken:
		p.consume()
		leading := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		return &luasyntax.Node{
			Kind:   luasyntax.KindTableMember,
			Span:   luasyntax.Loc{Lo: n.Start, Hi: n.End},
			Name:   p.src[n.Start:n.End],
			Trivia: []luasyntax.Loc{leading},
		}
	case lualex.LBracketToken:
		open := p.consume()
		afterOpen := p.trivia()
		expr := p.parseExpr()
		beforeClose := p.trivia()
		closeTok := p.expect(lualex.RBracketToken, "']'")
		return &luasyntax.Node{
			Kind:     luasyntax.KindTableIndex,
			Span:     luasyntax.Loc{Lo: open.Start, Hi: closeTok.End},
			Children: []*luasyntax.Node{expr},
			Trivia:   []luasyntax.Loc{afterOpen, beforeClose},
		}
	case lualex.ColonToken:
		colon := p.consume()
		afterColon := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		afterName := p.trivia()
		args := p.parseArgs()
		return &luasyntax.Node{
			Kind:     luasyntax.KindMethodCall,
			Span:     luasyntax.Loc{Lo: colon.Start, Hi: args.Span.Hi},
			Name:     p.src[n.Start:n.End],
			Children: []*luasyntax.Node{args},
			Trivia:   []luasyntax.Loc{afterColon, afterName},
		}
	case lualex.LParenToken, lualex.StringToken, lualex.LongStringToken, lualex.LBraceToken:
		args := p.parseArgs()
		return &luasyntax.Node{
			Kind:     luasyntax.KindCall,
			Span:     args.Span,
			Children: []*luasyntax.Node{args},
		}
	default:
		return nil
	}
}

// parseArgs parses the one of three call-argument forms: a
// parenthesized (possibly empty) expression list, a bare string
// literal, or a bare table constructor.
func (p *parser) parseArgs() *luasyntax.Node {
	switch p.curr.Kind {
	case lualex.LParenToken:
		open := p.consume()
		afterOpen := p.trivia()
		var items []luasyntax.ListItem
		if !p.at(lualex.RParenToken) {
			for {
				leading := p.trivia()
				expr := p.parseExpr()
				items = append(items, luasyntax.ListItem{Leading: leading, Node: expr})
				if !p.at(lualex.CommaToken) {
					break
				}
				sep := p.consume()
				items[len(items)-1].Separator = p.src[sep.Start:sep.End]
			}
		}
		beforeClose := p.trivia()
		closeTok := p.expect(lualex.RParenToken, "')'")
		return &luasyntax.Node{
			Kind:   luasyntax.KindArgsRound,
			Span:   luasyntax.Loc{Lo: open.Start, Hi: closeTok.End},
			List:   &luasyntax.List{Items: items},
			Trivia: []luasyntax.Loc{afterOpen, beforeClose},
		}
	case lualex.StringToken:
		str := p.parseShortString()
		return &luasyntax.Node{Kind: luasyntax.KindArgsString, Span: str.Span, Children: []*luasyntax.Node{str}}
	case lualex.LongStringToken:
		str := p.parseLongString()
		return &luasyntax.Node{Kind: luasyntax.KindArgsString, Span: str.Span, Children: []*luasyntax.Node{str}}
	case lualex.LBraceToken:
		tbl := p.parseTableConstructor()
		return &luasyntax.Node{Kind: luasyntax.KindArgsTable, Span: tbl.Span, Children: []*luasyntax.Node{tbl}}
	default:
		p.fail("function arguments expected near %v", p.curr)
		return nil
	}
}

func (p *parser) parseTableConstructor() *luasyntax.Node {
	open := p.consume()
	afterOpen := p.trivia()
	var items []luasyntax.ListItem
	allSequential := true
	for !p.at(lualex.RBraceToken) {
		leading := p.trivia()
		field := p.parseField()
		if field.Kind != luasyntax.KindFieldSequential {
			allSequential = false
		}
		sep := ""
		if p.at(lualex.CommaToken) || p.at(lualex.SemiToken) {
			tok := p.consume()
			sep = p.src[tok.Start:tok.End]
		}
		items = append(items, luasyntax.ListItem{Leading: leading, Node: field, Separator: sep})
		if sep == "" {
			break
		}
	}
	beforeClose := p.trivia()
	closeTok := p.expect(lualex.RBraceToken, "'}'")
	return &luasyntax.Node{
		Kind:   luasyntax.KindTableConstructor,
		Span:   luasyntax.Loc{Lo: open.Start, Hi: closeTok.End},
		List:   &luasyntax.List{Items: items},
		Trivia: []luasyntax.Loc{afterOpen, beforeClose},
		Flags:  luasyntax.Flags{IsAllSequential: allSequential && len(items) > 0},
	}
}

func (p *parser) parseField() *luasyntax.Node {
	switch {
	case p.at(lualex.LBracketToken):
		open := p.consume()
		afterOpen := p.trivia()
		key := p.parseExpr()
		beforeClose := p.trivia()
		p.expect(lualex.RBracketToken, "']'")
		afterClose := p.trivia()
		p.expect(lualex.AssignToken, "'='")
		afterEquals := p.trivia()
		value := p.parseExpr()
		return &luasyntax.Node{
			Kind:     luasyntax.KindFieldBracket,
			Span:     luasyntax.Loc{Lo: open.Start, Hi: value.Span.Hi},
			Children: []*luasyntax.Node{key, value},
			Trivia:   []luasyntax.Loc{afterOpen, beforeClose, afterClose, afterEquals},
		}
	case p.at(lualex.IdentifierToken) && p.peek().Kind == lualex.AssignToken:
		name := p.consume()
		afterName := p.trivia()
		p.expect(lualex.AssignToken, "'='")
		afterEquals := p.trivia()
		value := p.parseExpr()
		return &luasyntax.Node{
			Kind:     luasyntax.KindFieldNamed,
			Span:     luasyntax.Loc{Lo: name.Start, Hi: value.Span.Hi},
			Name:     p.src[name.Start:name.End],
			Children: []*luasyntax.Node{value},
			Trivia:   []luasyntax.Loc{afterName, afterEquals},
		}
	default:
		value := p.parseExpr()
		return &luasyntax.Node{Kind: luasyntax.KindFieldSequential, Span: value.Span, Children: []*luasyntax.Node{value}}
	}
}
