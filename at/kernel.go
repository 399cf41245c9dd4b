// Package at is the AT kernel: the small, closed sum of node kinds that
// desugar translates the parse tree into, and that the rewriters operate
// on. Every node carries a loc.Loc (SPEC_FULL §3 invariant 1) and supports
// the bottom-up Transform traversal that ConstantMover and the verifier
// build on.
package at

import (
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// Expr is the closed AT sum. Only types in this package may implement it;
// the unexported marker enforces that the way frontend/ast.Expr's
// exprNode() does.
type Expr interface {
	exprNode()
	Loc() loc.Loc
	// Transform applies f to every subexpression bottom-up, then to the
	// node itself, returning a new tree. Nodes are copied, never mutated
	// in place, matching frontend/ast.Expr.Transform's contract.
	Transform(f func(Expr) Expr) Expr
}

type base struct{ at loc.Loc }

func (b base) exprNode()     {}
func (b base) Loc() loc.Loc { return b.at }

// ---- leaves ----

type EmptyTree struct{ base }

func (e *EmptyTree) Transform(f func(Expr) Expr) Expr { return f(&EmptyTree{e.base}) }

type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitSymbol
	LitTrue
	LitFalse
	LitNil
)

type Literal struct {
	base
	Kind LiteralKind
	Name names.NameRef // set for LitString/LitSymbol; zero otherwise
	Int  int64
	Flt  float64
}

func (e *Literal) Transform(f func(Expr) Expr) Expr {
	cp := *e
	return f(&cp)
}

type Local struct {
	base
	Name names.NameRef
}

func (e *Local) Transform(f func(Expr) Expr) Expr {
	cp := *e
	return f(&cp)
}

type IdentKind uint8

const (
	IdentLocal IdentKind = iota
	IdentInstance
	IdentClass
	IdentGlobal
)

type UnresolvedIdent struct {
	base
	Kind IdentKind
	Name names.NameRef
}

func (e *UnresolvedIdent) Transform(f func(Expr) Expr) Expr {
	cp := *e
	return f(&cp)
}

// UnresolvedConstantLit is `Scope::Name`; Scope is EmptyTree for a
// top-level reference, forming a left-linear chain per §3 invariant 3.
type UnresolvedConstantLit struct {
	base
	Scope Expr
	Name  names.NameRef
}

func (e *UnresolvedConstantLit) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Scope = e.Scope.Transform(f)
	return f(&cp)
}

// ConstantLit is a resolved reference to one of the well-known symbols.
type ConstantLit struct {
	base
	Symbol names.NameRef
}

func (e *ConstantLit) Transform(f func(Expr) Expr) Expr {
	cp := *e
	return f(&cp)
}

// Self is the implicit/explicit receiver `self`.
type Self struct{ base }

func (e *Self) Transform(f func(Expr) Expr) Expr { return f(&Self{e.base}) }

type Retry struct{ base }

func (e *Retry) Transform(f func(Expr) Expr) Expr { return f(&Retry{e.base}) }

type ZSuperArgs struct{ base }

func (e *ZSuperArgs) Transform(f func(Expr) Expr) Expr { return f(&ZSuperArgs{e.base}) }

// ---- composite ----

type Assign struct {
	base
	Lhs, Rhs Expr
}

func (e *Assign) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Lhs = e.Lhs.Transform(f)
	cp.Rhs = e.Rhs.Transform(f)
	return f(&cp)
}

type SendFlag uint8

const (
	FlagPrivateOK SendFlag = 1 << 0
)

type Send struct {
	base
	Recv  Expr
	Fun   names.NameRef
	Args  []Expr
	Flags SendFlag
	Block *Block // nil unless this send carries a literal block
}

func (e *Send) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Recv = e.Recv.Transform(f)
	cp.Args = make([]Expr, len(e.Args))
	for i, a := range e.Args {
		cp.Args[i] = a.Transform(f)
	}
	if e.Block != nil {
		b := e.Block.Transform(f).(*Block)
		cp.Block = b
	}
	return f(&cp)
}

// Block is the `{ |args| body }` attached to a Send. It is never a
// free-standing Expr node in practice (§3 invariant 4), but it implements
// Expr so it can participate in Transform uniformly.
type Block struct {
	base
	Args []Expr // Arg/OptionalArg/RestArg/KeywordArg/BlockArg/ShadowArg
	Body Expr
}

func (e *Block) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Args = make([]Expr, len(e.Args))
	for i, a := range e.Args {
		cp.Args[i] = a.Transform(f)
	}
	cp.Body = e.Body.Transform(f)
	return f(&cp)
}

type If struct {
	base
	Cond, Then, Else Expr
}

func (e *If) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Cond = e.Cond.Transform(f)
	cp.Then = e.Then.Transform(f)
	cp.Else = e.Else.Transform(f)
	return f(&cp)
}

type While struct {
	base
	Cond, Body Expr
}

func (e *While) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Cond = e.Cond.Transform(f)
	cp.Body = e.Body.Transform(f)
	return f(&cp)
}

type Break struct {
	base
	Value Expr
}

func (e *Break) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	return f(&cp)
}

type Next struct {
	base
	Value Expr
}

func (e *Next) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	return f(&cp)
}

type Return struct {
	base
	Value Expr
}

func (e *Return) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	return f(&cp)
}

// InsSeq evaluates Stats in order for effect, then Result for value.
type InsSeq struct {
	base
	Stats []Expr
	Result Expr
}

func (e *InsSeq) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Stats = make([]Expr, len(e.Stats))
	for i, s := range e.Stats {
		cp.Stats[i] = s.Transform(f)
	}
	cp.Result = e.Result.Transform(f)
	return f(&cp)
}

type ClassDefKind uint8

const (
	ClassKind ClassDefKind = iota
	ModuleKind
)

type ClassDef struct {
	base
	Kind       ClassDefKind
	Name       Expr // UnresolvedConstantLit or ConstantLit
	Ancestors  []Expr
	Rhs        Expr
	DeclLoc    loc.Loc
}

func (e *ClassDef) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Name = e.Name.Transform(f)
	cp.Ancestors = make([]Expr, len(e.Ancestors))
	for i, a := range e.Ancestors {
		cp.Ancestors[i] = a.Transform(f)
	}
	cp.Rhs = e.Rhs.Transform(f)
	return f(&cp)
}

type MethodDefFlag uint8

const (
	FlagSelfMethod         MethodDefFlag = 1 << 0
	FlagRewriterSynthesized MethodDefFlag = 1 << 1
)

type MethodDef struct {
	base
	Name    names.NameRef
	Args    []Expr // always ends with exactly one BlockArg, per §3 invariant 2
	Body    Expr
	Flags   MethodDefFlag
	DeclLoc loc.Loc
}

func (e *MethodDef) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Args = make([]Expr, len(e.Args))
	for i, a := range e.Args {
		cp.Args[i] = a.Transform(f)
	}
	cp.Body = e.Body.Transform(f)
	return f(&cp)
}

type Array struct {
	base
	Elems []Expr
}

func (e *Array) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Elems = make([]Expr, len(e.Elems))
	for i, el := range e.Elems {
		cp.Elems[i] = el.Transform(f)
	}
	return f(&cp)
}

type Hash struct {
	base
	Keys, Values []Expr
}

func (e *Hash) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Keys = make([]Expr, len(e.Keys))
	cp.Values = make([]Expr, len(e.Values))
	for i := range e.Keys {
		cp.Keys[i] = e.Keys[i].Transform(f)
		cp.Values[i] = e.Values[i].Transform(f)
	}
	return f(&cp)
}

type Splat struct {
	base
	Value Expr
}

func (e *Splat) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	return f(&cp)
}

// ---- argument variants ----

type Arg struct {
	base
	Name names.NameRef
}

func (e *Arg) Transform(f func(Expr) Expr) Expr { cp := *e; return f(&cp) }

type OptionalArg struct {
	base
	Inner   Expr // *Arg
	Default Expr
}

func (e *OptionalArg) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Inner = e.Inner.Transform(f)
	cp.Default = e.Default.Transform(f)
	return f(&cp)
}

type RestArg struct {
	base
	Inner Expr
}

func (e *RestArg) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Inner = e.Inner.Transform(f)
	return f(&cp)
}

type KeywordArg struct {
	base
	Inner   Expr
	Default Expr // nil if required
}

func (e *KeywordArg) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Inner = e.Inner.Transform(f)
	if e.Default != nil {
		cp.Default = e.Default.Transform(f)
	}
	return f(&cp)
}

type BlockArg struct {
	base
	Inner Expr
}

func (e *BlockArg) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Inner = e.Inner.Transform(f)
	return f(&cp)
}

type ShadowArg struct {
	base
	Inner Expr
}

func (e *ShadowArg) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Inner = e.Inner.Transform(f)
	return f(&cp)
}

// ---- exceptions ----

type RescueCase struct {
	base
	Exceptions []Expr
	Var        Expr // Local/UnresolvedIdent, or EmptyTree
	Body       Expr
}

func (e *RescueCase) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Exceptions = make([]Expr, len(e.Exceptions))
	for i, ex := range e.Exceptions {
		cp.Exceptions[i] = ex.Transform(f)
	}
	cp.Var = e.Var.Transform(f)
	cp.Body = e.Body.Transform(f)
	return f(&cp)
}

type Rescue struct {
	base
	Body   Expr
	Cases  []*RescueCase
	Else   Expr
	Ensure Expr
}

func (e *Rescue) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Body = e.Body.Transform(f)
	cp.Cases = make([]*RescueCase, len(e.Cases))
	for i, c := range e.Cases {
		cp.Cases[i] = c.Transform(f).(*RescueCase)
	}
	cp.Else = e.Else.Transform(f)
	cp.Ensure = e.Ensure.Transform(f)
	return f(&cp)
}

// ---- escape hatches ----

// Unsafe wraps a value that must not be re-checked by later analysis;
// used as a hoisted placeholder by ConstantMover (SPEC_FULL §4.4) and as
// the substitution desugar produces for a `yield` with no enclosing block.
type Unsafe struct {
	base
	Value Expr
}

func (e *Unsafe) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	return f(&cp)
}

// Let is a narrow type ascription, `T.let(value, type)`, preserved around
// placeholder values by ConstantMover without needing a full type grammar.
type Let struct {
	base
	Value Expr
	Type  Expr // an Expr shaped as whatever constant/generic syntax names the type
}

func (e *Let) Transform(f func(Expr) Expr) Expr {
	cp := *e
	cp.Value = e.Value.Transform(f)
	cp.Type = e.Type.Transform(f)
	return f(&cp)
}
