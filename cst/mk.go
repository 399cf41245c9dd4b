package cst

import "github.com/sobalang/soba/loc"

// MK is a flat namespace of construction helpers for building parse trees
// without a real parser, mirroring at/mk.go's MK-style surface. It exists
// so the `lower` CLI's fixture decoder (out of scope for a real grammar,
// SPEC_FULL §1) can still produce correctly-Loc'd cst.Node values — the
// unexported nodeBase.at field otherwise makes that impossible from outside
// this package.

func LiteralNode(l loc.Loc, kind LiteralKind, text string) *Literal {
	return &Literal{nodeBase{l}, kind, text}
}

func IdentNode(l loc.Loc, kind IdentKind, name string) *Ident {
	return &Ident{nodeBase{l}, kind, name}
}

func ConstNode(l loc.Loc, scope Node, name string) *Const {
	return &Const{nodeBase{l}, scope, name}
}

func CbaseNode(l loc.Loc) *Cbase { return &Cbase{nodeBase{l}} }

func SelfNode(l loc.Loc) *Self { return &Self{nodeBase{l}} }

func ArgNode(l loc.Loc, value Node, splat, kwarg, block bool, kwName string) Arg {
	return Arg{nodeBase{l}, value, splat, kwarg, block, kwName}
}

func SendNode(l loc.Loc, recv Node, fun string, args []Arg, block *BlockNode) *Send {
	return &Send{nodeBase{l}, recv, fun, args, block}
}

func BlockNodeOf(l loc.Loc, params []Param, body Node) *BlockNode {
	return &BlockNode{nodeBase{l}, params, body}
}

func ParamNode(l loc.Loc, kind ParamKind, name string, def Node, nested []Param) Param {
	return Param{nodeBase{l}, kind, name, def, nested}
}

func LogicalNode(l loc.Loc, op LogicalOp, lhs, rhs Node) *Logical {
	return &Logical{nodeBase{l}, op, lhs, rhs}
}

func SafeSendNode(l loc.Loc, recv Node, fun string, args []Arg) *SafeSend {
	return &SafeSend{nodeBase{l}, recv, fun, args}
}

func AssignNode(l loc.Loc, lhs, rhs Node) *Assign { return &Assign{nodeBase{l}, lhs, rhs} }

func OpAsgnNode(l loc.Loc, kind OpAsgnKind, lhs Node, op string, rhs Node) *OpAsgn {
	return &OpAsgn{nodeBase{l}, kind, lhs, op, rhs}
}

func MlhsItemOf(node Node, splat bool) MlhsItem { return MlhsItem{node, splat} }

func MlhsOf(l loc.Loc, items []MlhsItem) Mlhs { return Mlhs{nodeBase{l}, items} }

func MasgnNode(l loc.Loc, lhs Mlhs, rhs Node) *Masgn { return &Masgn{nodeBase{l}, lhs, rhs} }

func DStringNode(l loc.Loc, parts []Node) *DString { return &DString{nodeBase{l}, parts} }
func DSymbolNode(l loc.Loc, parts []Node) *DSymbol { return &DSymbol{nodeBase{l}, parts} }
func XStringNode(l loc.Loc, parts []Node) *XString { return &XString{nodeBase{l}, parts} }

func RegexpNode(l loc.Loc, parts []Node, opts RegexpOpt) *RegexpLit {
	return &RegexpLit{nodeBase{l}, parts, opts}
}

func ArrayItemOf(node Node, splat bool) ArrayItem { return ArrayItem{node, splat} }

func ArrayNode(l loc.Loc, items []ArrayItem) *ArrayLit { return &ArrayLit{nodeBase{l}, items} }

func HashPairOf(key, value Node, kwSplat bool) HashPair { return HashPair{key, value, kwSplat} }

func HashNode(l loc.Loc, pairs []HashPair) *HashLit { return &HashLit{nodeBase{l}, pairs} }

func SplatNode(l loc.Loc, value Node) *Splat { return &Splat{nodeBase{l}, value} }

func RangeNode(l loc.Loc, from, to Node, exclusive bool) *RangeLit {
	return &RangeLit{nodeBase{l}, from, to, exclusive}
}

func IfNode(l loc.Loc, cond, then, els Node) *If { return &If{nodeBase{l}, cond, then, els} }

func WhileNode(l loc.Loc, cond, body Node, until, post bool) *While {
	return &While{nodeBase{l}, cond, body, until, post}
}

func ForNode(l loc.Loc, v Mlhs, iter, body Node) *For { return &For{nodeBase{l}, v, iter, body} }

func CaseWhenOf(patterns []Node, body Node) CaseWhen { return CaseWhen{patterns, body} }

func CaseNode(l loc.Loc, subject Node, whens []CaseWhen, els Node) *Case {
	return &Case{nodeBase{l}, subject, whens, els}
}

func BreakNode(l loc.Loc, v Node) *Break   { return &Break{nodeBase{l}, v} }
func NextNode(l loc.Loc, v Node) *Next     { return &Next{nodeBase{l}, v} }
func ReturnNode(l loc.Loc, v Node) *Return { return &Return{nodeBase{l}, v} }
func RetryNode(l loc.Loc) *Retry           { return &Retry{nodeBase{l}} }

func YieldNode(l loc.Loc, args []Node) *Yield { return &Yield{nodeBase{l}, args} }

func BeginNode(l loc.Loc, stmts []Node) *Begin { return &Begin{nodeBase{l}, stmts} }

func ResbodyOf(exceptions []Node, splat bool, v string, body Node) Resbody {
	return Resbody{exceptions, splat, v, body}
}

func RescueNode(l loc.Loc, body Node, cases []Resbody, els, ensure Node) *Rescue {
	return &Rescue{nodeBase{l}, body, cases, els, ensure}
}

func DefinedNode(l loc.Loc, arg Node) *Defined { return &Defined{nodeBase{l}, arg} }

func AliasNode(l loc.Loc, from, to string) *Alias { return &Alias{nodeBase{l}, from, to} }

func UndefNode(l loc.Loc, names []string) *Undef { return &Undef{nodeBase{l}, names} }

func BlockPassNode(l loc.Loc, v Node) *BlockPass { return &BlockPass{nodeBase{l}, v} }

func MethodDef(l loc.Loc, name string, selfMethod bool, params []Param, body Node) *MethodDefNode {
	return &MethodDefNode{nodeBase{l}, name, selfMethod, params, body}
}

func ClassDef(l loc.Loc, kind ClassDefKind, name, superclass Node, body []Node) *ClassDefNode {
	return &ClassDefNode{nodeBase{l}, kind, name, superclass, body}
}
