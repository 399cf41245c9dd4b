// Package cst models the parser's output: the concrete syntax tree that
// desugar consumes. The real grammar is out of scope (SPEC_FULL §1); this
// package defines exactly the variants desugar's rewrite catalogue (§4.3)
// dispatches on, with positions carried the way the teacher's antlr4-go
// based parser produces them.
package cst

import (
	"github.com/antlr4-go/antlr/v4"

	"github.com/sobalang/soba/loc"
)

// Node is the closed parse-tree sum. Only types in this package implement
// it; the unexported marker method enforces that closure the way
// frontend/ast.Expr's exprNode() does.
type Node interface {
	cstNode()
	Loc() loc.Loc
}

// FromInterval converts an antlr4-go token interval plus file id into a
// loc.Loc, the bridge between the parser's native position type and this
// module's own.
func FromInterval(file loc.FileRef, iv antlr.Interval) loc.Loc {
	return loc.Loc{File: file, Start: iv.Start, Stop: iv.Stop + 1}
}

type nodeBase struct{ at loc.Loc }

func (n nodeBase) cstNode()     {}
func (n nodeBase) Loc() loc.Loc { return n.at }

// --- literals ---

type LiteralKind uint8

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	SymbolLit
	TrueLit
	FalseLit
	NilLit
	FileLit
	LineLit
)

type Literal struct {
	nodeBase
	Kind LiteralKind
	Text string // raw lexeme, e.g. "1_000", "0x1F", "3.14e2"
}

// --- variables / constants ---

type IdentKind uint8

const (
	LocalVar IdentKind = iota
	InstanceVar
	GlobalVar
	ClassVar
	NthRefVar
)

type Ident struct {
	nodeBase
	Kind IdentKind
	Name string
}

// Const is `scope::Name`; Scope is nil for a bare top-level reference.
type Const struct {
	nodeBase
	Scope Node
	Name  string
}

// Cbase is the leading `::` in `::Foo`.
type Cbase struct{ nodeBase }

type Self struct{ nodeBase }

// --- sends ---

type SendFlag uint8

const (
	FlagNone SendFlag = 0
)

type Arg struct {
	nodeBase
	Value  Node
	Splat  bool // *arg
	Kwarg  bool // key: value or **kwarg
	Block  bool // &blk
	KwName string
}

// Send is `recv.fun(args) { block }`; Recv is nil for an implicit-self call.
type Send struct {
	nodeBase
	Recv  Node
	Fun   string
	Args  []Arg
	Block *BlockNode // nil unless a literal `{}`/`do...end` block is attached
}

// BlockNode is the `{ |args| body }` attached to a Send.
type BlockNode struct {
	nodeBase
	Params []Param
	Body   Node
}

type ParamKind uint8

const (
	ParamPositional ParamKind = iota
	ParamOptional
	ParamRest
	ParamKeyword
	ParamKeywordOptional
	ParamBlock
	ParamShadow
	ParamDestructure
)

type Param struct {
	nodeBase
	Kind    ParamKind
	Name    string
	Default Node          // ParamOptional / ParamKeywordOptional
	Nested  []Param       // ParamDestructure, e.g. `|(a, b)|`
}

// --- binary / logical ---

type LogicalOp uint8

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

type Logical struct {
	nodeBase
	Op       LogicalOp
	Lhs, Rhs Node
}

// SafeSend is `recv&.fun(args)`.
type SafeSend struct {
	nodeBase
	Recv Node
	Fun  string
	Args []Arg
}

// --- assignment ---

type Assign struct {
	nodeBase
	Lhs, Rhs Node
}

type OpAsgnKind uint8

const (
	OpAsgnOp OpAsgnKind = iota // x += y, etc; Op names the method ("+")
	OpAsgnAnd                  // x &&= y
	OpAsgnOr                   // x ||= y
)

type OpAsgn struct {
	nodeBase
	Kind     OpAsgnKind
	Lhs      Node
	Op       string // meaningful only when Kind == OpAsgnOp
	Rhs      Node
}

// Mlhs is the left side of a destructuring assignment: `a, *b, c`.
type Mlhs struct {
	nodeBase
	Items []MlhsItem
}

type MlhsItem struct {
	Node  Node // Ident/Const/Send(index) or nested *Mlhs
	Splat bool
}

type Masgn struct {
	nodeBase
	Lhs Mlhs
	Rhs Node
}

// --- string/symbol construction ---

type DString struct {
	nodeBase
	Parts []Node // Literal(StringLit) or arbitrary Node for #{...}
}

type DSymbol struct {
	nodeBase
	Parts []Node
}

type XString struct {
	nodeBase
	Parts []Node
}

type RegexpOpt uint8

const (
	RegexpIgnoreCase RegexpOpt = 1 << 0
	RegexpExtended   RegexpOpt = 1 << 1
	RegexpMultiline  RegexpOpt = 1 << 2
)

type RegexpLit struct {
	nodeBase
	Parts []Node
	Opts  RegexpOpt
}

// --- collections ---

type ArrayItem struct {
	Node  Node
	Splat bool
}

type ArrayLit struct {
	nodeBase
	Items []ArrayItem
}

type HashPair struct {
	Key, Value Node
	KwSplat    bool // **h
}

type HashLit struct {
	nodeBase
	Pairs []HashPair
}

type Splat struct {
	nodeBase
	Value Node
}

// --- ranges ---

type RangeLit struct {
	nodeBase
	From, To  Node
	Exclusive bool
}

// --- control flow ---

type If struct {
	nodeBase
	Cond, Then, Else Node
}

type While struct {
	nodeBase
	Cond, Body Node
	Until      bool // Until true means this is a desugared "until"
	Post       bool // WhilePost/UntilPost: condition checked after a braced body
}

type For struct {
	nodeBase
	Var  Mlhs
	Iter Node
	Body Node
}

type CaseWhen struct {
	Patterns []Node
	Body     Node
}

type Case struct {
	nodeBase
	Subject Node // may be nil
	Whens   []CaseWhen
	Else    Node
}

type Break struct {
	nodeBase
	Value Node
}
type Next struct {
	nodeBase
	Value Node
}
type Return struct {
	nodeBase
	Value Node
}
type Retry struct{ nodeBase }
type Yield struct {
	nodeBase
	Args []Node
}

// --- sequences ---

type Begin struct {
	nodeBase
	Stmts []Node
}

// --- exceptions ---

type Resbody struct {
	Exceptions []Node
	Splat      bool
	Var        string // "" if no `=> e` clause
	Body       Node
}

type Rescue struct {
	nodeBase
	Body    Node
	Cases   []Resbody
	Else    Node
	Ensure  Node
}

// --- misc ---

type Defined struct {
	nodeBase
	Arg Node
}

type Alias struct {
	nodeBase
	From, To string
}

type Undef struct {
	nodeBase
	Names []string
}

type BlockPass struct {
	nodeBase
	Value Node // nil for bare `&`, Ident/Send for `&x`/`&:sym`
}

// --- defs ---

type MethodDefNode struct {
	nodeBase
	Name       string
	SelfMethod bool
	Params     []Param
	Body       Node // nil for an empty body
}

type ClassDefKind uint8

const (
	ClassKind ClassDefKind = iota
	ModuleKind
	SingletonClassKind
)

type ClassDefNode struct {
	nodeBase
	Kind       ClassDefKind
	Name       Node // Const, or nil for SingletonClassKind
	Superclass Node // nil if absent
	Body       []Node
}
