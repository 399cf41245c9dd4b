package desugar

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// desugarSend handles the general Send shape, including the implicit-self
// substitution, splat-argument magic calls, and symbol-block
// materialisation from SPEC_FULL §4.3.
func desugarSend(ctx *Context, n *cst.Send) at.Expr {
	recv, flags := desugarRecv(ctx, n.Recv, n.Loc())

	hasSplat := false
	var blockPass cst.Node
	for _, a := range n.Args {
		if a.Splat {
			hasSplat = true
		}
		if a.Block {
			blockPass = a.Value
		}
	}

	var block *at.Block
	if n.Block != nil {
		block = desugarBlockLit(ctx, n.Block)
	} else if blockPass != nil {
		block = desugarBlockPassAsBlock(ctx, blockPass, n.Loc())
	}

	fun := ctx.Names.InternUTF8(n.Fun)

	if hasSplat {
		return desugarSplatSend(ctx, n, recv, fun, flags, block)
	}

	args := make([]at.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		if a.Block {
			continue
		}
		args = append(args, node2TreeImpl(ctx, a.Value))
	}
	result := at.SendWithBlock(n.Loc(), recv, fun, args, block)
	result.Flags = flags
	return result
}

// desugarRecv implements "If recv desugars to EmptyTree, substitute Self
// and set PRIVATE_OK".
func desugarRecv(ctx *Context, recv cst.Node, sendLoc loc.Loc) (at.Expr, at.SendFlag) {
	if recv == nil {
		return at.SelfNode(loc.ZeroLengthAt(sendLoc)), at.FlagPrivateOK
	}
	return node2TreeImpl(ctx, recv), 0
}

// desugarSplatSend materialises `Magic.callWithSplat(recv, :m, [args…])`
// (or callWithSplatAndBlock when a non-symbol block is also present; a
// materialised `&:name` block stays attached to callWithSplat).
func desugarSplatSend(ctx *Context, n *cst.Send, recv at.Expr, fun names.NameRef, flags at.SendFlag, block *at.Block) at.Expr {
	l := n.Loc()
	symbolBlock := false
	if n.Block == nil {
		for _, a := range n.Args {
			if lit, ok := a.Value.(*cst.Literal); ok && a.Block && lit.Kind == cst.SymbolLit {
				symbolBlock = true
			}
		}
	}
	argsArray := make([]at.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		if a.Block {
			continue
		}
		argsArray = append(argsArray, node2TreeImpl(ctx, a.Value))
	}
	magic := at.Constant(l, ctx.wellKnown("Magic"))
	symName := at.Symbol(l, fun)
	packed := at.ArrayOf(l, argsArray...)

	var result *at.Send
	if block != nil && !symbolBlock {
		result = at.SendWithBlock(l, magic, ctx.Names.InternUTF8("callWithSplatAndBlock"),
			[]at.Expr{recv, symName, packed}, block)
	} else {
		result = at.SendWithBlock(l, magic, ctx.Names.InternUTF8("callWithSplat"), []at.Expr{recv, symName, packed}, block)
	}
	result.Flags = flags
	return result
}

// desugarBlockLit desugars a literal `{ |args| body }`.
func desugarBlockLit(ctx *Context, b *cst.BlockNode) *at.Block {
	args := make([]at.Expr, len(b.Params))
	for i, p := range b.Params {
		args[i] = desugarParam(ctx, p)
	}
	body := node2TreeImpl(ctx, b.Body)
	return at.BlockN(b.Loc(), args, body)
}

// desugarBlockPassAsBlock materialises `&:name` as `Block1{ |$t| $t.name() }`;
// anything else (`&x`) becomes a one-parameter block whose body is
// `x.to_proc`; that parameter is a fresh temp the body does not reference.
func desugarBlockPassAsBlock(ctx *Context, value cst.Node, l loc.Loc) *at.Block {
	if lit, ok := value.(*cst.Literal); ok && lit.Kind == cst.SymbolLit {
		tmp := ctx.fresh(names.TempLocal, "blockPassRecv")
		body := at.Send0(l, at.LocalVar(l, tmp), ctx.Names.InternUTF8(lit.Text))
		return at.Block1(l, at.LocalVar(l, tmp), body)
	}
	tmp := ctx.fresh(names.TempLocal, "blockPassRecv")
	body := at.SendN(l, node2TreeImpl(ctx, value), ctx.Names.InternUTF8("to_proc"), nil)
	return at.Block1(l, at.LocalVar(l, tmp), body)
}

func desugarParam(ctx *Context, p cst.Param) at.Expr {
	l := p.Loc()
	name := ctx.Names.InternUTF8(p.Name)
	switch p.Kind {
	case cst.ParamPositional:
		return at.ArgNode(l, name)
	case cst.ParamOptional:
		return at.OptionalArgNode(l, at.ArgNode(l, name), node2TreeImpl(ctx, p.Default))
	case cst.ParamRest:
		return at.RestArgNode(l, at.ArgNode(l, name))
	case cst.ParamKeyword:
		return at.KeywordArgNode(l, at.ArgNode(l, name), nil)
	case cst.ParamKeywordOptional:
		return at.KeywordArgNode(l, at.ArgNode(l, name), node2TreeImpl(ctx, p.Default))
	case cst.ParamBlock:
		return at.BlockArgNode(l, at.ArgNode(l, name))
	case cst.ParamShadow:
		return at.ShadowArgNode(l, at.ArgNode(l, name))
	default:
		ctx.internalError(l, "unsupported param kind %d", p.Kind)
		return at.Empty(l)
	}
}

// desugarSafeSend desugars `recv&.m(args)` to
// `{ $t = recv; if $t == nil then nil else $t.m(args) }`.
func desugarSafeSend(ctx *Context, n *cst.SafeSend) at.Expr {
	l := n.Loc()
	tmp := ctx.fresh(names.TempLocal, "safeNavRecv")
	assign := at.Assign_(l, at.LocalVar(l, tmp), node2TreeImpl(ctx, n.Recv))

	args := make([]at.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, node2TreeImpl(ctx, a.Value))
	}
	call := at.SendN(l, at.LocalVar(l, tmp), ctx.Names.InternUTF8(n.Fun), args)

	cond := at.Send1(l, at.LocalVar(l, tmp), ctx.Names.InternUTF8("=="), at.Nil(l))
	ifExpr := at.If_(l, cond, at.Nil(l), call)
	return at.InsSeq1(l, assign, ifExpr)
}

// desugarLogical desugars `and`/`or` with short-circuit If, duplicating a
// reference-shaped lhs with CpRef and binding anything else to a temp.
func desugarLogical(ctx *Context, n *cst.Logical) at.Expr {
	l := n.Loc()
	lhs := node2TreeImpl(ctx, n.Lhs)
	rhs := node2TreeImpl(ctx, n.Rhs)

	if isReferenceShaped(lhs) {
		if n.Op == cst.LogicalAnd {
			return at.If_(l, lhs, rhs, at.CpRef(lhs))
		}
		return at.If_(l, lhs, at.CpRef(lhs), rhs)
	}

	tmp := ctx.fresh(names.TempLocal, "andOrLhs")
	assign := at.Assign_(l, at.LocalVar(l, tmp), lhs)
	ref := at.LocalVar(l, tmp)
	var result at.Expr
	if n.Op == cst.LogicalAnd {
		result = at.If_(l, ref, rhs, at.CpRef(ref))
	} else {
		result = at.If_(l, ref, at.CpRef(ref), rhs)
	}
	return at.InsSeq1(l, assign, result)
}

func isReferenceShaped(e at.Expr) bool {
	switch e.(type) {
	case *at.Local, *at.UnresolvedIdent, *at.UnresolvedConstantLit:
		return true
	default:
		return false
	}
}

// desugarOpAsgn handles `x op= y`, `x &&= y`, `x ||= y` across the three
// lhs shapes named in SPEC_FULL §4.3 "Compound assignment".
func desugarOpAsgn(ctx *Context, n *cst.OpAsgn) at.Expr {
	l := n.Loc()

	switch lhs := n.Lhs.(type) {
	case *cst.Send:
		return desugarOpAsgnOnSend(ctx, n, lhs)
	case *cst.SafeSend:
		return desugarOpAsgnOnSafeSend(ctx, n, lhs)
	case *cst.Const:
		if b, ok := ctx.Diags.BeginError(l, diag.DesugarNoConstantReassignment); ok {
			b.SetHeader("constant reassignment is not supported: %s", lhs.Name).Commit()
		}
		return at.Empty(l)
	case *cst.Ident:
		return desugarOpAsgnOnRef(ctx, n, node2TreeImpl(ctx, lhs))
	default:
		ctx.internalError(l, "unsupported op-asgn lhs shape %T", lhs)
		return at.Empty(l)
	}
}

func desugarOpAsgnOnRef(ctx *Context, n *cst.OpAsgn, ref at.Expr) at.Expr {
	l := n.Loc()
	rhs := node2TreeImpl(ctx, n.Rhs)
	switch n.Kind {
	case cst.OpAsgnAnd:
		return at.If_(l, ref, at.Assign_(l, at.CpRef(ref), rhs), at.CpRef(ref))
	case cst.OpAsgnOr:
		return at.If_(l, ref, at.CpRef(ref), at.Assign_(l, at.CpRef(ref), rhs))
	default:
		call := at.Send1(l, at.CpRef(ref), ctx.Names.InternUTF8(n.Op), rhs)
		return at.Assign_(l, at.CpRef(ref), call)
	}
}

// desugarOpAsgnOnSend implements copyArgsForOpAsgn: bind receiver and each
// argument to fresh temps, call fun for read, then fun= for write.
func desugarOpAsgnOnSend(ctx *Context, n *cst.OpAsgn, send *cst.Send) at.Expr {
	l := n.Loc()
	recvTmp := ctx.fresh(names.TempLocal, "opAsgnRecv")
	recvAssign := at.Assign_(l, at.LocalVar(l, recvTmp), node2TreeImpl(ctx, send.Recv))

	argTmps := make([]at.Expr, 0, len(send.Args))
	argAssigns := make([]at.Expr, 0, len(send.Args))
	for _, a := range send.Args {
		tmp := ctx.fresh(names.TempLocal, "opAsgnArg")
		argTmps = append(argTmps, at.LocalVar(l, tmp))
		argAssigns = append(argAssigns, at.Assign_(l, at.LocalVar(l, tmp), node2TreeImpl(ctx, a.Value)))
	}

	fun := ctx.Names.InternUTF8(send.Fun)
	read := at.SendN(l, at.LocalVar(l, recvTmp), fun, argTmps)

	rhs := node2TreeImpl(ctx, n.Rhs)
	var newValue at.Expr
	if n.Kind == cst.OpAsgnOp {
		newValue = at.Send1(l, read, ctx.Names.InternUTF8(n.Op), rhs)
	} else {
		newValue = rhs
	}

	writeArgs := make([]at.Expr, 0, len(argTmps)+1)
	for _, a := range argTmps {
		writeArgs = append(writeArgs, at.CpRef(a))
	}
	writeArgs = append(writeArgs, newValue)
	write := at.SendN(l, at.LocalVar(l, recvTmp), ctx.Names.InternUTF8(send.Fun+"="), writeArgs)

	prelude := append([]at.Expr{recvAssign}, argAssigns...)

	switch n.Kind {
	case cst.OpAsgnAnd, cst.OpAsgnOr:
		tempResult := ctx.fresh(names.TempLocal, "opAsgnRead")
		readAssign := at.Assign_(l, at.LocalVar(l, tempResult), read)
		prelude = append(prelude, readAssign)
		if n.Kind == cst.OpAsgnAnd {
			return at.InsSeqNode(l, prelude, at.If_(l, at.LocalVar(l, tempResult), write, at.LocalVar(l, tempResult)))
		}
		return at.InsSeqNode(l, prelude, at.If_(l, at.LocalVar(l, tempResult), at.LocalVar(l, tempResult), write))
	default:
		return at.InsSeqNode(l, prelude, write)
	}
}

// desugarOpAsgnOnSafeSend splices the write into the else branch of the If
// the safe-nav desugar produced (SPEC_FULL §4.3 and §9 Open Question b).
func desugarOpAsgnOnSafeSend(ctx *Context, n *cst.OpAsgn, safe *cst.SafeSend) at.Expr {
	l := n.Loc()
	desugaredSafe := desugarSafeSend(ctx, safe)
	seq, ok := desugaredSafe.(*at.InsSeq)
	if !ok {
		ctx.internalError(l, "safe-nav desugar did not produce an InsSeq")
		return at.Empty(l)
	}
	ifExpr, ok := seq.Result.(*at.If)
	if !ok {
		ctx.internalError(l, "safe-nav desugar's InsSeq tail was not an If")
		return at.Empty(l)
	}
	elseSend, ok := ifExpr.Else.(*at.Send)
	if !ok {
		// Open Question (b): any other shape here is a programmer-error
		// shaped bug, never a silent runtime fallback.
		ctx.internalError(l, "safe-nav op-asgn else branch was not a Send")
		return at.Empty(l)
	}

	rhs := node2TreeImpl(ctx, n.Rhs)
	var newValue at.Expr = rhs
	if n.Kind == cst.OpAsgnOp {
		newValue = at.Send1(l, elseSend, ctx.Names.InternUTF8(n.Op), rhs)
	}
	// The write is built on a deep copy so it shares no node with the read.
	writeSend := *elseSend.Transform(func(e at.Expr) at.Expr { return e }).(*at.Send)
	writeSend.Fun = ctx.Names.InternUTF8(ctx.Names.Text(elseSend.Fun) + "=")
	writeSend.Args = append(writeSend.Args, newValue)

	var newElse at.Expr = &writeSend
	if n.Kind == cst.OpAsgnAnd || n.Kind == cst.OpAsgnOr {
		tempResult := ctx.fresh(names.TempLocal, "opAsgnRead")
		readAssign := at.Assign_(l, at.LocalVar(l, tempResult), elseSend)
		var branchIf at.Expr
		if n.Kind == cst.OpAsgnAnd {
			branchIf = at.If_(l, at.LocalVar(l, tempResult), &writeSend, at.LocalVar(l, tempResult))
		} else {
			branchIf = at.If_(l, at.LocalVar(l, tempResult), at.LocalVar(l, tempResult), &writeSend)
		}
		newElse = at.InsSeqNode(l, []at.Expr{readAssign}, branchIf)
	}
	newIf := at.If_(l, ifExpr.Cond, ifExpr.Then, newElse)
	return at.InsSeqNode(l, seq.Stats, newIf)
}
