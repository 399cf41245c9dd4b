package at

import (
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// MK is a flat namespace of construction helpers, grounded on
// frontend/construct/construct.go's MK-style surface (there: HM types and
// expressions; here: AT kernel nodes). Every constructor sets Loc.

func Empty(l loc.Loc) *EmptyTree { return &EmptyTree{base{l}} }

func Int(l loc.Loc, v int64) *Literal  { return &Literal{base{l}, LitInt, names.NameRef{}, v, 0} }
func Float(l loc.Loc, v float64) *Literal {
	return &Literal{base{l}, LitFloat, names.NameRef{}, 0, v}
}
func String(l loc.Loc, name names.NameRef) *Literal {
	return &Literal{base{l}, LitString, name, 0, 0}
}
func Symbol(l loc.Loc, name names.NameRef) *Literal {
	return &Literal{base{l}, LitSymbol, name, 0, 0}
}
func True(l loc.Loc) *Literal  { return &Literal{base{l}, LitTrue, names.NameRef{}, 0, 0} }
func False(l loc.Loc) *Literal { return &Literal{base{l}, LitFalse, names.NameRef{}, 0, 0} }
func Nil(l loc.Loc) *Literal   { return &Literal{base{l}, LitNil, names.NameRef{}, 0, 0} }

func LocalVar(l loc.Loc, name names.NameRef) *Local { return &Local{base{l}, name} }

func CpRef(e Expr) Expr {
	switch v := e.(type) {
	case *Local:
		cp := *v
		return &cp
	case *UnresolvedIdent:
		cp := *v
		return &cp
	case *UnresolvedConstantLit:
		cp := *v
		return &cp
	case *ConstantLit:
		cp := *v
		return &cp
	default:
		panic("at: CpRef called on a non-reference-shaped node")
	}
}

func SelfNode(l loc.Loc) *Self { return &Self{base{l}} }

func UnresolvedIdentNode(l loc.Loc, kind IdentKind, name names.NameRef) *UnresolvedIdent {
	return &UnresolvedIdent{base{l}, kind, name}
}

func UnresolvedConstant(l loc.Loc, scope Expr, name names.NameRef) *UnresolvedConstantLit {
	if scope == nil {
		scope = Empty(l)
	}
	return &UnresolvedConstantLit{base{l}, scope, name}
}

func Constant(l loc.Loc, symbol names.NameRef) *ConstantLit {
	return &ConstantLit{base{l}, symbol}
}

func Assign_(l loc.Loc, lhs, rhs Expr) *Assign { return &Assign{base{l}, lhs, rhs} }

func send(l loc.Loc, recv Expr, fun names.NameRef, args []Expr, flags SendFlag, block *Block) *Send {
	return &Send{base{l}, recv, fun, args, flags, block}
}

func Send0(l loc.Loc, recv Expr, fun names.NameRef) *Send {
	return send(l, recv, fun, nil, 0, nil)
}
func Send1(l loc.Loc, recv Expr, fun names.NameRef, a0 Expr) *Send {
	return send(l, recv, fun, []Expr{a0}, 0, nil)
}
func Send2(l loc.Loc, recv Expr, fun names.NameRef, a0, a1 Expr) *Send {
	return send(l, recv, fun, []Expr{a0, a1}, 0, nil)
}
func Send3(l loc.Loc, recv Expr, fun names.NameRef, a0, a1, a2 Expr) *Send {
	return send(l, recv, fun, []Expr{a0, a1, a2}, 0, nil)
}
func SendN(l loc.Loc, recv Expr, fun names.NameRef, args []Expr) *Send {
	return send(l, recv, fun, args, 0, nil)
}
func SendWithBlock(l loc.Loc, recv Expr, fun names.NameRef, args []Expr, block *Block) *Send {
	return send(l, recv, fun, args, 0, block)
}

func Block1(l loc.Loc, arg Expr, body Expr) *Block {
	return &Block{base{l}, []Expr{arg}, body}
}
func BlockN(l loc.Loc, args []Expr, body Expr) *Block {
	return &Block{base{l}, args, body}
}

func RetryNode(l loc.Loc) *Retry             { return &Retry{base{l}} }
func ZSuperArgsNode(l loc.Loc) *ZSuperArgs    { return &ZSuperArgs{base{l}} }

func If_(l loc.Loc, cond, then, els Expr) *If { return &If{base{l}, cond, then, els} }
func While_(l loc.Loc, cond, body Expr) *While { return &While{base{l}, cond, body} }
func Break_(l loc.Loc, v Expr) *Break          { return &Break{base{l}, v} }
func Next_(l loc.Loc, v Expr) *Next            { return &Next{base{l}, v} }
func Return_(l loc.Loc, v Expr) *Return        { return &Return{base{l}, v} }

func InsSeqNode(l loc.Loc, stats []Expr, result Expr) Expr {
	if len(stats) == 0 {
		return result
	}
	return &InsSeq{base{l}, stats, result}
}

func InsSeq1(l loc.Loc, stat Expr, result Expr) Expr {
	return InsSeqNode(l, []Expr{stat}, result)
}

func Class(l loc.Loc, declLoc loc.Loc, name Expr, ancestors []Expr, rhs Expr) *ClassDef {
	return &ClassDef{base{l}, ClassKind, name, ancestors, rhs, declLoc}
}

func Module(l loc.Loc, declLoc loc.Loc, name Expr, rhs Expr) *ClassDef {
	return &ClassDef{base{l}, ModuleKind, name, nil, rhs, declLoc}
}

func Method0(l loc.Loc, declLoc loc.Loc, name names.NameRef, body Expr, flags MethodDefFlag) *MethodDef {
	return &MethodDef{base{l}, name, nil, body, flags, declLoc}
}

func MethodWithArgs(l loc.Loc, declLoc loc.Loc, name names.NameRef, args []Expr, body Expr, flags MethodDefFlag) *MethodDef {
	return &MethodDef{base{l}, name, args, body, flags, declLoc}
}

func ArgNode(l loc.Loc, name names.NameRef) *Arg { return &Arg{base{l}, name} }

func OptionalArgNode(l loc.Loc, inner Expr, def Expr) *OptionalArg {
	return &OptionalArg{base{l}, inner, def}
}
func RestArgNode(l loc.Loc, inner Expr) *RestArg { return &RestArg{base{l}, inner} }
func KeywordArgNode(l loc.Loc, inner Expr, def Expr) *KeywordArg {
	return &KeywordArg{base{l}, inner, def}
}
func BlockArgNode(l loc.Loc, inner Expr) *BlockArg   { return &BlockArg{base{l}, inner} }
func ShadowArgNode(l loc.Loc, inner Expr) *ShadowArg { return &ShadowArg{base{l}, inner} }

func ArrayOf(l loc.Loc, elems ...Expr) *Array { return &Array{base{l}, elems} }

func Hash0(l loc.Loc) *Hash { return &Hash{base{l}, nil, nil} }

func HashOf(l loc.Loc, keys, values []Expr) *Hash { return &Hash{base{l}, keys, values} }

func SplatOf(l loc.Loc, v Expr) *Splat { return &Splat{base{l}, v} }

func UnsafeNode(l loc.Loc, v Expr) *Unsafe { return &Unsafe{base{l}, v} }

func LetNode(l loc.Loc, v Expr, typ Expr) *Let { return &Let{base{l}, v, typ} }

func RescueCaseNode(l loc.Loc, exceptions []Expr, v Expr, body Expr) *RescueCase {
	return &RescueCase{base{l}, exceptions, v, body}
}

func RescueNode(l loc.Loc, body Expr, cases []*RescueCase, els Expr, ensure Expr) *Rescue {
	return &Rescue{base{l}, body, cases, els, ensure}
}

// SigVoid builds the nullary `sig { void }` shape used to decorate a
// rewriter-synthesized method, matching ast::MK::SigVoid in Minitest.cc.
func SigVoid(l loc.Loc, sigFun, voidFun names.NameRef) *Send {
	voidCall := Send0(l, Empty(l), voidFun)
	sigBlock := BlockN(l, nil, voidCall)
	s := Send0(l, Empty(l), sigFun)
	s.Block = sigBlock
	return s
}
