// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package luasyntax defines the concrete syntax tree (CST) the parser
// builds and the writer consumes.
//
// Every construct in the Lua grammar is represented by one [Node] type
// tagged with a [Kind], rather than one Go struct per grammar production.
// This collapses what would otherwise be the twelve distinct shapes of an
// if-statement (presence/absence of a then-body, an elseif chain, an else
// clause, and an else-body) into a single KindIf node read through fixed
// accessors — the same way luacode.Instruction reads packed opcode
// arguments through ArgA/ArgB/ArgBx rather than allocating one struct per
// opcode. The CST needs this more than an instruction set does, because
// unlike bytecode it also carries a trivia span for every inter-child
// join; one Node type means one place trivia bookkeeping has to be
// correct instead of forty.
package luasyntax

// Loc is an inclusive-exclusive byte range [Lo, Hi) into the source that
// produced a CST. A Loc stores no parsed content of its own; it is
// recovered by slicing the source buffer. Lo == Hi denotes an empty span.
type Loc struct {
	Lo, Hi int
}

// Empty reports whether the span contains no bytes.
func (l Loc) Empty() bool { return l.Lo >= l.Hi }

// Slice returns the bytes the span covers.
func (l Loc) Slice(source string) string {
	if l.Lo >= l.Hi {
		return ""
	}
	return source[l.Lo:l.Hi]
}

// Kind tags every variant of Lua construct a [Node] can represent.
type Kind int

const (
	KindInvalid Kind = iota

	// Literals

	KindNil
	KindFalse
	KindTrue
	KindVarArg
	KindBreak
	KindNumeral
	// KindShortString covers both of the spec's NormalStringLiteral and
	// CharStringLiteral variants; Quote discriminates which quote
	// character the source used, the same "one node, tagged field"
	// collapse described in the package doc.
	KindShortString
	KindLongString // [=*[ ... ]=*]; Level holds the '=' count

	// Identifiers

	KindName

	// Operators

	KindBinaryOp // Children: [left, right]; Op holds the operator token kind
	KindUnaryOp  // Children: [operand]; Op holds the operator token kind (includes `not`)

	// Primary expression chains

	KindVar           // Children: [head]; List holds the suffix chain
	KindRoundBrackets  // Children: [inner expr]
	KindTableIndex     // Children: [expr]; a `[expr]` suffix
	KindTableMember    // Name holds the member name; a `.name` suffix
	KindMethodCall     // Name holds the method name; Children: [args]; a `:name(args)` suffix
	KindCall           // Children: [args]; a bare `(args)` suffix
	KindArgsRound      // Children: []; List holds the argument expressions (may be empty)
	KindArgsString     // Children: [string literal] used as sole call argument
	KindArgsTable      // Children: [table constructor] used as sole call argument

	// Tables

	KindTableConstructor // List holds Fields items; Flags carries layout flags
	KindFieldBracket     // Children: [key, value]; `[key] = value`
	KindFieldNamed       // Name holds the key; Children: [value]; `name = value`
	KindFieldSequential  // Children: [value]

	// Functions

	KindFuncBody  // Params holds the parameter list (a trailing KindVarArg item marks "..."); Children: [body(StatementList)]
	KindFuncName  // List holds dotted name components; Name holds a trailing method name if IsMethod; Trivia[0] is the gap before the first component, Trivia[1] (if IsMethod) the gap before the method name
	KindFuncDecl  // Children: [name, body]
	KindLocalFunc // Children: [body]; Name holds the local name

	// Statements

	KindStatementList // List holds statements (no separators; Lua statements need none)
	KindDoBlock       // Children: [body(StatementList)]
	KindAssign        // List (Targets) holds lvalues; Exprs holds the right-hand side
	KindLabel         // Name holds the label name
	KindGoto          // Name holds the target label
	KindWhile         // Children: [cond, body]
	KindRepeat        // Children: [body, cond]
	KindForNumeric    // Name holds loop variable; Children: [start, stop, step(optional), body]; HasStep
	KindForIn         // List (Names) holds loop variables; Exprs holds the iterator expressions; Children: [body]
	KindLocal         // List (Names) holds declared names; Exprs holds the initializers (optional); HasExprs
	KindIf            // Children: [cond, thenBody]; List holds ElseIf clauses; Else holds the else body if present
	KindElseIf        // Children: [cond, body]; used only inside an If node's List
	KindReturn        // Exprs holds the returned expressions (optional); HasExprs/TrailingComma record shape
	KindSemicolon

	// Top level

	KindChunk    // Children: [body(StatementList)]
	KindSheBang  // Text holds the shebang line text, without the trailing newline
)

// StringQuote records which quote character a short string literal used,
// so the writer can reproduce it (or convert it) without re-deriving it.
type StringQuote byte

const (
	DoubleQuote StringQuote = '"'
	SingleQuote StringQuote = '\''
)

// Flags holds the layout hints the reconstruction pass computes (spec
// §3.5, §4.3) for table constructors and their field lists.
type Flags struct {
	IsAllSequential        bool
	HasSingleChild         bool
	IsSingleChild          bool
	ChildrenOfSingleChild  bool
}

// Node is a single CST construct, tagged by Kind. Which of its fields are
// meaningful is determined entirely by Kind; see the Kind constants'
// doc comments for the per-kind contract.
type Node struct {
	Kind Kind
	Span Loc

	// Trivia holds one entry per fixed inter-child join defined for this
	// Kind, in the order those joins appear in source. Variadic joins
	// (inside a List) are not here; they live on the List's Items.
	Trivia []Loc

	Children []*Node

	// List holds whichever single separated list this Kind's production
	// needs (arguments, fields, elseif clauses, dotted name components,
	// and so on); see the Kind constants above for the per-kind meaning.
	List *List
	// Exprs holds the second separated list for the handful of
	// productions that need one besides List: the right-hand side of
	// KindAssign, the initializers of KindLocal, and the iterator
	// expressions of KindForIn and KindReturn.
	Exprs *List
	// Params holds the parameter list for KindFuncBody. A trailing item
	// whose Node.Kind is KindVarArg records "..." as the last parameter.
	Params *List

	// Text is the raw source text for leaf kinds (KindNumeral,
	// KindShortString, KindLongString, KindName, KindSheBang): the
	// literal body, with surrounding quotes/brackets stripped; a
	// KindSheBang's Text keeps its leading "#!".
	Text string
	// Name is the identifier payload for kinds that are not pure
	// identifiers but carry one (KindTableMember, KindMethodCall,
	// KindLabel, KindGoto, KindLocalFunc, KindFieldNamed).
	Name string
	// Level is the '=' count for KindLongString. Unused by other kinds.
	Level int
	// Op is the operator token kind for KindBinaryOp and KindUnaryOp.
	Op int
	// Quote records the quote character for KindShortString.
	Quote StringQuote

	// HasStep, HasStep's sibling booleans below record which optional
	// pieces of a variadic-looking production are present, the same
	// role the twelve IfThen* variants play in the spec's sum-type
	// sketch, collapsed onto booleans instead of a type tag.
	HasStep        bool // KindForNumeric
	HasExprs       bool // KindReturn, KindLocal
	TrailingComma  bool // KindReturn: a trailing comma with no further expression
	IsMethod       bool // KindFuncName: trailing `:name`
	IsMethodCall   bool // reserved
	Else           *Node // KindIf: Children of KindDoBlock/KindStatementList shape, or nil
	ElseTrivia     Loc   // KindIf: trivia between the last clause and `else` (or `end` if absent)

	// SheBang holds a KindSheBang node for a chunk whose source starts
	// with "#!", or nil otherwise. It is a KindChunk-only field, kept
	// separate from Children because a shebang line precedes the chunk's
	// trivia entirely rather than participating in it.
	SheBang *Node

	Flags Flags
}

// List represents a variadic CST production: an ordered sequence of
// items, each with its own leading trivia and observed separator literal
// (spec §3.3 "Separated lists"). The parser does not fill
// ListItem.Trailing; the gap before a separator is not recorded.
type List struct {
	Items []ListItem
}

// ListItem is one element of a [List].
type ListItem struct {
	Leading   Loc
	Node      *Node
	Trailing  Loc
	Separator string // "," or ";" or "" (last item, no separator present)
}

// Len reports the number of items in the list. A nil *List has length 0.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Last returns the last item's node, or nil if the list is empty.
func (l *List) Last() *Node {
	if l.Len() == 0 {
		return nil
	}
	return l.Items[len(l.Items)-1].Node
}
