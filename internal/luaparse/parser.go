// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luaparse builds a lossless [luasyntax.Node] concrete syntax
// tree from Lua 5.3 source text.
//
// The parser is a single-token-lookahead recursive descent parser over
// [lualex.Scanner], in the same curr/peek/advance shape as luacode's
// compiler-facing parser. Unlike that parser, this one never discards a
// byte: every fixed gap between two tokens it consumes is captured as a
// [luasyntax.Loc] trivia span at the point the gap closes, so the writer
// can later reproduce (or deliberately reflow) exactly what stood there.
package luaparse

import (
	"strings"

	"lua.fmt.dev/pkg/internal/lualex"
	"lua.fmt.dev/pkg/internal/luasyntax"
)

// Parse builds a CST for the given Lua source. It returns a non-nil
// *Error and a nil root node for any input that is not a syntactically
// valid Lua 5.3 chunk; it never returns a partially built tree.
func Parse(source string) (*luasyntax.Node, error) {
	p := newParser(source)
	var root *luasyntax.Node
	err := p.run(func() {
		root = p.parseChunk()
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	src     string
	sc      *lualex.Scanner
	curr    lualex.Token
	peeked  *lualex.Token
	lastEnd int
	sheBang *luasyntax.Node
}

// parseAbort unwinds the recursive descent to [parser.run] on the first
// syntax error; Parse never needs a result from a subtree it gave up on.
type parseAbort struct {
	err *Error
}

func newParser(source string) *parser {
	shebang, start := splitShebang(source)
	p := &parser{src: source, sc: lualex.NewScannerAt(source, start), lastEnd: start}
	p.curr = p.scan()
	p.sheBang = shebang
	return p
}

func (p *parser) run(body func()) (err *Error) {
	defer func() {
		if r := recover(); r != nil {
			ab, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			err = ab.err
		}
	}()
	body()
	return nil
}

func (p *parser) scan() lualex.Token {
	tok, scanErr := p.sc.Scan()
	if scanErr != nil {
		panic(parseAbort{&Error{Pos: tok.Pos, Offset: tok.Start, Message: scanErr.Error()}})
	}
	return tok
}

func (p *parser) peek() lualex.Token {
	if p.peeked == nil {
		tok := p.scan()
		p.peeked = &tok
	}
	return *p.peeked
}

// trivia reports the gap between the end of the last consumed token and
// the start of curr: the span the caller is about to step over.
func (p *parser) trivia() luasyntax.Loc {
	return luasyntax.Loc{Lo: p.lastEnd, Hi: p.curr.Start}
}

// consume returns curr and advances past it.
func (p *parser) consume() lualex.Token {
	tok := p.curr
	p.lastEnd = tok.End
	if p.peeked != nil {
		p.curr = *p.peeked
		p.peeked = nil
	} else {
		p.curr = p.scan()
	}
	return tok
}

func (p *parser) at(kind lualex.TokenKind) bool {
	return p.curr.Kind == kind
}

func (p *parser) fail(format string, args ...any) {
	panic(parseAbort{syntaxErrorf(p.curr, format, args...)})
}

// expect consumes curr if it has the given kind, failing otherwise.
func (p *parser) expect(kind lualex.TokenKind, what string) lualex.Token {
	if p.curr.Kind != kind {
		p.fail("%s expected near %v", what, p.curr)
	}
	return p.consume()
}

func splitShebang(source string) (node *luasyntax.Node, bodyStart int) {
	if len(source) == 0 || source[0] != '#' {
		return nil, 0
	}
	end := strings.IndexByte(source, '\n')
	textEnd := len(source)
	if end < 0 {
		end = len(source)
	} else {
		textEnd = end
		end++
	}
	return &luasyntax.Node{
		Kind: luasyntax.KindSheBang,
		Span: luasyntax.Loc{Lo: 0, Hi: end},
		Text: source[0:textEnd],
	}, end
}

func (p *parser) parseChunk() *luasyntax.Node {
	leading := p.trivia()
	body := p.parseBlock()
	tail := p.trivia()
	p.expect(lualex.EOFToken, "<eof>")
	chunk := &luasyntax.Node{
		Kind:     luasyntax.KindChunk,
		Children: []*luasyntax.Node{body},
		Trivia:   []luasyntax.Loc{leading, tail},
		SheBang:  p.sheBang,
	}
	chunk.Span = luasyntax.Loc{Lo: 0, Hi: len(p.src)}
	return chunk
}

// blockEnd reports whether curr closes the enclosing block, so
// parseBlock knows to stop without consuming the closing keyword.
func (p *parser) blockEnd() bool {
	switch p.curr.Kind {
	case lualex.EOFToken, lualex.EndToken, lualex.ElseToken, lualex.ElseifToken, lualex.UntilToken:
		return true
	default:
		return false
	}
}

// parseBlock parses {stat} [retstat] into a KindStatementList node. The
// trivia before the block's closing keyword is left for the caller to
// capture, since only the caller knows which keyword that is.
func (p *parser) parseBlock() *luasyntax.Node {
	lo := p.curr.Start
	var items []luasyntax.ListItem
	for !p.blockEnd() {
		leading := p.trivia()
		stmt := p.parseStatement()
		items = append(items, luasyntax.ListItem{Leading: leading, Node: stmt})
		if stmt.Kind == luasyntax.KindReturn {
			break
		}
	}
	hi := lo
	if n := len(items); n > 0 {
		hi = items[n-1].Node.Span.Hi
	}
	return &luasyntax.Node{
		Kind: luasyntax.KindStatementList,
		Span: luasyntax.Loc{Lo: lo, Hi: hi},
		List: &luasyntax.List{Items: items},
	}
}

func (p *parser) parseStatement() *luasyntax.Node {
	switch p.curr.Kind {
	case lualex.SemiToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindSemicolon, Span: span(tok)}
	case lualex.IfToken:
		return p.parseIf()
	case lualex.WhileToken:
		return p.parseWhile()
	case lualex.DoToken:
		return p.parseDo()
	case lualex.ForToken:
		return p.parseFor()
	case lualex.RepeatToken:
		return p.parseRepeat()
	case lualex.FunctionToken:
		return p.parseFuncDecl()
	case lualex.LocalToken:
		return p.parseLocal()
	case lualex.LabelToken:
		return p.parseLabel()
	case lualex.BreakToken:
		tok := p.consume()
		return &luasyntax.Node{Kind: luasyntax.KindBreak, Span: span(tok)}
	case lualex.GotoToken:
		return p.parseGoto()
	case lualex.ReturnToken:
		return p.parseReturn()
	default:
		return p.parseExprStatement()
	}
}

func (p *parser) parseLabel() *luasyntax.Node {
	open := p.consume() // ::
	leading := p.trivia()
	name := p.expect(lualex.IdentifierToken, "name")
	trailing := p.trivia()
	p.expect(lualex.LabelToken, "'::'")
	return &luasyntax.Node{
		Kind:   luasyntax.KindLabel,
		Span:   luasyntax.Loc{Lo: open.Start, Hi: p.lastEnd},
		Name:   p.src[name.Start:name.End],
		Trivia: []luasyntax.Loc{leading, trailing},
	}
}

func (p *parser) parseGoto() *luasyntax.Node {
	kw := p.consume()
	leading := p.trivia()
	name := p.expect(lualex.IdentifierToken, "name")
	return &luasyntax.Node{
		Kind:   luasyntax.KindGoto,
		Span:   luasyntax.Loc{Lo: kw.Start, Hi: name.End},
		Name:   p.src[name.Start:name.End],
		Trivia: []luasyntax.Loc{leading},
	}
}

func (p *parser) parseReturn() *luasyntax.Node {
	kw := p.consume()
	node := &luasyntax.Node{Kind: luasyntax.KindReturn, Span: span(kw)}
	if !p.blockEnd() && !p.at(lualex.SemiToken) {
		node.HasExprs = true
		node.Exprs = p.parseExprList()
		node.Span.Hi = p.lastEnd
	}
	if p.at(lualex.SemiToken) {
		tok := p.consume()
		node.Span.Hi = tok.End
	}
	return node
}

func (p *parser) parseDo() *luasyntax.Node {
	kw := p.consume()
	body := p.parseBlock()
	before := p.trivia()
	end := p.expect(lualex.EndToken, "'end'")
	return &luasyntax.Node{
		Kind:     luasyntax.KindDoBlock,
		Span:     luasyntax.Loc{Lo: kw.Start, Hi: end.End},
		Children: []*luasyntax.Node{body},
		Trivia:   []luasyntax.Loc{before},
	}
}

func (p *parser) parseWhile() *luasyntax.Node {
	kw := p.consume()
	cond := p.parseExpr()
	beforeDo := p.trivia()
	p.expect(lualex.DoToken, "'do'")
	body := p.parseBlock()
	beforeEnd := p.trivia()
	end := p.expect(lualex.EndToken, "'end'")
	return &luasyntax.Node{
		Kind:     luasyntax.KindWhile,
		Span:     luasyntax.Loc{Lo: kw.Start, Hi: end.End},
		Children: []*luasyntax.Node{cond, body},
		Trivia:   []luasyntax.Loc{beforeDo, beforeEnd},
	}
}

func (p *parser) parseRepeat() *luasyntax.Node {
	kw := p.consume()
	body := p.parseBlock()
	beforeUntil := p.trivia()
	p.expect(lualex.UntilToken, "'until'")
	beforeCond := p.trivia()
	cond := p.parseExpr()
	return &luasyntax.Node{
		Kind:     luasyntax.KindRepeat,
		Span:     luasyntax.Loc{Lo: kw.Start, Hi: cond.Span.Hi},
		Children: []*luasyntax.Node{body, cond},
		Trivia:   []luasyntax.Loc{beforeUntil, beforeCond},
	}
}

func (p *parser) parseIf() *luasyntax.Node {
	kw := p.consume()
	cond := p.parseExpr()
	beforeThen := p.trivia()
	p.expect(lualex.ThenToken, "'then'")
	body := p.parseBlock()
	node := &luasyntax.Node{
		Kind:     luasyntax.KindIf,
		Span:     luasyntax.Loc{Lo: kw.Start},
		Children: []*luasyntax.Node{cond, body},
		Trivia:   []luasyntax.Loc{beforeThen},
	}
	var clauses []luasyntax.ListItem
	for p.at(lualex.ElseifToken) {
		leading := p.trivia()
		ekw := p.consume()
		econd := p.parseExpr()
		ebeforeThen := p.trivia()
		p.expect(lualex.ThenToken, "'then'")
		ebody := p.parseBlock()
		clause := &luasyntax.Node{
			Kind:     luasyntax.KindElseIf,
			Span:     luasyntax.Loc{Lo: ekw.Start, Hi: ebody.Span.Hi},
			Children: []*luasyntax.Node{econd, ebody},
			Trivia:   []luasyntax.Loc{ebeforeThen},
		}
		clauses = append(clauses, luasyntax.ListItem{Leading: leading, Node: clause})
	}
	node.List = &luasyntax.List{Items: clauses}
	node.ElseTrivia = p.trivia()
	if p.at(lualex.ElseToken) {
		p.consume()
		elseBody := p.parseBlock()
		node.Else = elseBody
	}
	beforeEnd := p.trivia()
	node.Trivia = append(node.Trivia, beforeEnd)
	end := p.expect(lualex.EndToken, "'end'")
	node.Span.Hi = end.End
	return node
}

func (p *parser) parseFor() *luasyntax.Node {
	kw := p.consume()
	leadingName := p.trivia()
	name := p.expect(lualex.IdentifierToken, "name")
	if p.at(lualex.AssignToken) {
		return p.parseForNumeric(kw, leadingName, name)
	}
	return p.parseForIn(kw, leadingName, name)
}

func (p *parser) parseForNumeric(kw lualex.Token, leadingName luasyntax.Loc, name lualex.Token) *luasyntax.Node {
	afterName := p.trivia()
	p.expect(lualex.AssignToken, "'='")
	start := p.parseExpr()
	afterStart := p.trivia()
	p.expect(lualex.CommaToken, "','")
	stop := p.parseExpr()
	afterStop := p.trivia()
	node := &luasyntax.Node{
		Kind: luasyntax.KindForNumeric,
		Name: p.src[name.Start:name.End],
		Span: luasyntax.Loc{Lo: kw.Start},
	}
	children := []*luasyntax.Node{start, stop}
	var afterStep luasyntax.Loc
	if p.at(lualex.CommaToken) {
		p.consume()
		step := p.parseExpr()
		children = append(children, step)
		node.HasStep = true
		afterStep = p.trivia()
	} else {
		children = append(children, nil)
	}
	p.expect(lualex.DoToken, "'do'")
	body := p.parseBlock()
	children = append(children, body)
	beforeEnd := p.trivia()
	end := p.expect(lualex.EndToken, "'end'")
	node.Children = children
	node.Trivia = []luasyntax.Loc{leadingName, afterName, afterStart, afterStop, afterStep, beforeEnd}
	node.Span.Hi = end.End
	return node
}

func (p *parser) parseForIn(kw lualex.Token, leadingName luasyntax.Loc, name lualex.Token) *luasyntax.Node {
	names := []luasyntax.ListItem{{Node: &luasyntax.Node{Kind: luasyntax.KindName, Span: span(name), Text: p.src[name.Start:name.End]}}}
	for p.at(lualex.CommaToken) {
		sep := p.consume()
		names[len(names)-1].Separator = p.src[sep.Start:sep.End]
		leading := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		names = append(names, luasyntax.ListItem{Leading: leading, Node: &luasyntax.Node{Kind: luasyntax.KindName, Span: span(n), Text: p.src[n.Start:n.End]}})
	}
	beforeIn := p.trivia()
	p.expect(lualex.InToken, "'in'")
	exprs := p.parseExprList()
	beforeDo := p.trivia()
	p.expect(lualex.DoToken, "'do'")
	body := p.parseBlock()
	beforeEnd := p.trivia()
	end := p.expect(lualex.EndToken, "'end'")
	return &luasyntax.Node{
		Kind:     luasyntax.KindForIn,
		Span:     luasyntax.Loc{Lo: kw.Start, Hi: end.End},
		List:     &luasyntax.List{Items: names},
		Exprs:    exprs,
		Children: []*luasyntax.Node{body},
		Trivia:   []luasyntax.Loc{leadingName, beforeIn, beforeDo, beforeEnd},
	}
}

func (p *parser) parseFuncDecl() *luasyntax.Node {
	kw := p.consume()
	name := p.parseFuncName()
	body := p.parseFuncBody(name.IsMethod)
	return &luasyntax.Node{
		Kind:     luasyntax.KindFuncDecl,
		Span:     luasyntax.Loc{Lo: kw.Start, Hi: body.Span.Hi},
		Children: []*luasyntax.Node{name, body},
	}
}

// parseFuncName parses the dotted-name (optionally method-suffixed)
// target of a function declaration. Trivia[0] is the gap between the
// `function` keyword and the first component, the same boundary
// parseLocal's `local function` case captures directly on its own node;
// Trivia[1], present only when IsMethod, is the gap between the `:` and
// the method name.
func (p *parser) parseFuncName() *luasyntax.Node {
	leading := p.trivia()
	first := p.expect(lualex.IdentifierToken, "name")
	items := []luasyntax.ListItem{{Node: &luasyntax.Node{Kind: luasyntax.KindName, Span: span(first), Text: p.src[first.Start:first.End]}}}
	node := &luasyntax.Node{Kind: luasyntax.KindFuncName, Span: span(first), Trivia: []luasyntax.Loc{leading}}
	for p.at(lualex.DotToken) {
		dot := p.consume()
		items[len(items)-1].Separator = p.src[dot.Start:dot.End]
		itemLeading := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		items = append(items, luasyntax.ListItem{Leading: itemLeading, Node: &luasyntax.Node{Kind: luasyntax.KindName, Span: span(n), Text: p.src[n.Start:n.End]}})
	}
	if p.at(lualex.ColonToken) {
		p.consume()
		methodLeading := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		node.IsMethod = true
		node.Name = p.src[n.Start:n.End]
		node.Trivia = append(node.Trivia, methodLeading)
	}
	node.List = &luasyntax.List{Items: items}
	node.Span.Hi = p.lastEnd
	return node
}

func (p *parser) parseFuncBody(isMethod bool) *luasyntax.Node {
	open := p.expect(lualex.LParenToken, "'('")
	var params []luasyntax.ListItem
	afterOpen := p.trivia()
	if !p.at(lualex.RParenToken) {
		for {
			leading := p.trivia()
			var item *luasyntax.Node
			if p.at(lualex.VarargToken) {
				tok := p.consume()
				item = &luasyntax.Node{Kind: luasyntax.KindVarArg, Span: span(tok)}
			} else {
				n := p.expect(lualex.IdentifierToken, "name")
				item = &luasyntax.Node{Kind: luasyntax.KindName, Span: span(n), Text: p.src[n.Start:n.End]}
			}
			params = append(params, luasyntax.ListItem{Leading: leading, Node: item})
			if item.Kind == luasyntax.KindVarArg || !p.at(lualex.CommaToken) {
				break
			}
			sep := p.consume()
			params[len(params)-1].Separator = p.src[sep.Start:sep.End]
		}
	}
	beforeClose := p.trivia()
	p.expect(lualex.RParenToken, "')'")
	body := p.parseBlock()
	beforeEnd := p.trivia()
	end := p.expect(lualex.EndToken, "'end'")
	return &luasyntax.Node{
		Kind:     luasyntax.KindFuncBody,
		Span:     luasyntax.Loc{Lo: open.Start, Hi: end.End},
		Params:   &luasyntax.List{Items: params},
		Children: []*luasyntax.Node{body},
		Trivia:   []luasyntax.Loc{afterOpen, beforeClose, beforeEnd},
	}
}

func (p *parser) parseLocal() *luasyntax.Node {
	kw := p.consume()
	if p.at(lualex.FunctionToken) {
		p.consume()
		leading := p.trivia()
		name := p.expect(lualex.IdentifierToken, "name")
		body := p.parseFuncBody(false)
		return &luasyntax.Node{
			Kind:     luasyntax.KindLocalFunc,
			Span:     luasyntax.Loc{Lo: kw.Start, Hi: body.Span.Hi},
			Name:     p.src[name.Start:name.End],
			Children: []*luasyntax.Node{body},
			Trivia:   []luasyntax.Loc{leading},
		}
	}
	var names []luasyntax.ListItem
	for {
		leading := p.trivia()
		n := p.expect(lualex.IdentifierToken, "name")
		names = append(names, luasyntax.ListItem{Leading: leading, Node: &luasyntax.Node{Kind: luasyntax.KindName, Span: span(n), Text: p.src[n.Start:n.End]}})
		if !p.at(lualex.CommaToken) {
			break
		}
		sep := p.consume()
		names[len(names)-1].Separator = p.src[sep.Start:sep.End]
	}
	node := &luasyntax.Node{
		Kind: luasyntax.KindLocal,
		Span: luasyntax.Loc{Lo: kw.Start, Hi: p.lastEnd},
		List: &luasyntax.List{Items: names},
	}
	if p.at(lualex.AssignToken) {
		p.consume()
		node.HasExprs = true
		node.Exprs = p.parseExprList()
		node.Span.Hi = p.lastEnd
	}
	return node
}

// parseExprStatement parses either an assignment or a bare function
// call statement: both begin with the same suffixedexp production.
func (p *parser) parseExprStatement() *luasyntax.Node {
	first := p.parseSuffixedExpr()
	if !p.at(lualex.CommaToken) && !p.at(lualex.AssignToken) {
		if !isCallNode(first) {
			p.fail("syntax error near %v", p.curr)
		}
		return first
	}
	targets := []luasyntax.ListItem{{Node: first}}
	for p.at(lualex.CommaToken) {
		sep := p.consume()
		targets[len(targets)-1].Separator = p.src[sep.Start:sep.End]
		leading := p.trivia()
		targets = append(targets, luasyntax.ListItem{Leading: leading, Node: p.parseSuffixedExpr()})
	}
	p.expect(lualex.AssignToken, "'='")
	exprs := p.parseExprList()
	return &luasyntax.Node{
		Kind:  luasyntax.KindAssign,
		Span:  luasyntax.Loc{Lo: first.Span.Lo, Hi: p.lastEnd},
		List:  &luasyntax.List{Items: targets},
		Exprs: exprs,
	}
}

func isCallNode(n *luasyntax.Node) bool {
	switch n.Kind {
	case luasyntax.KindVar:
		last := n.List.Last()
		return last != nil && (last.Kind == luasyntax.KindCall || last.Kind == luasyntax.KindMethodCall)
	default:
		return false
	}
}

func (p *parser) parseExprList() *luasyntax.List {
	var items []luasyntax.ListItem
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
	return &luasyntax.List{Items: items}
}

func span(tok lualex.Token) luasyntax.Loc {
	return luasyntax.Loc{Lo: tok.Start, Hi: tok.End}
}
