package desugar

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// desugarMethodDef lowers a MethodDefNode per SPEC_FULL §4.3.1: the unique
// counter resets for the method's own scope, each parameter is desugared
// (with a destructuring `|(a, b)|` param rewritten to a fresh positional
// arg plus a prelude assignment), a trailing BlockArg is synthesized when
// the source parameter list has none, and the body is desugared against a
// child context carrying that block-arg name for `yield` to resolve. In an
// RBI file a body other than empty or instance-variable assignments gets a
// CodeInRBI diagnostic (SPEC_FULL §4.3 "RBI validation"), and the method's
// desugared body is always EmptyTree.
func desugarMethodDef(ctx *Context, n *cst.MethodDefNode) at.Expr {
	l := n.Loc()
	methodCtx := ctx.childScope()
	methodCtx.enclosingMethod = l

	args, prelude := desugarParamsList(methodCtx, n.Params)

	blkArgPresent := false
	for _, p := range n.Params {
		if p.Kind == cst.ParamBlock {
			blkArgPresent = true
			break
		}
	}

	var blockArgName names.NameRef
	synthesized := !blkArgPresent
	if blkArgPresent {
		for _, p := range n.Params {
			if p.Kind == cst.ParamBlock {
				blockArgName = methodCtx.Names.InternUTF8(p.Name)
			}
		}
	} else {
		blockArgName = methodCtx.Names.InternUTF8("blkArg")
		args = append(args, at.BlockArgNode(l, at.ArgNode(l, blockArgName)))
	}
	bodyCtx := methodCtx.withBlockArg(blockArgName, synthesized)

	if ctx.rbi {
		if !isRBIAllowedBody(n.Body) {
			if b, ok := ctx.Diags.BeginError(l, diag.DesugarCodeInRBI); ok {
				b.SetHeader("method body not allowed in an RBI file").
					ReplaceWith("delete the method body", l, "").
					Commit()
			}
		}
		flags := at.MethodDefFlag(0)
		if n.SelfMethod {
			flags |= at.FlagSelfMethod
		}
		return at.MethodWithArgs(l, l, methodCtx.Names.InternUTF8(n.Name), args, at.Empty(l), flags)
	}

	body := node2TreeImpl(bodyCtx, n.Body)
	body = at.InsSeqNode(l, prelude, body)

	flags := at.MethodDefFlag(0)
	if n.SelfMethod {
		flags |= at.FlagSelfMethod
	}
	return at.MethodWithArgs(l, l, methodCtx.Names.InternUTF8(n.Name), args, body, flags)
}

// isRBIAllowedBody implements SPEC_FULL §4.3's RBI method-body rule: an
// RBI method body may be empty, a single instance-variable assignment (the
// `@x = T.let(nil, Integer)` sig-only idiom), or a sequence of those.
func isRBIAllowedBody(body cst.Node) bool {
	switch n := body.(type) {
	case nil:
		return true
	case *cst.Begin:
		for _, stmt := range n.Stmts {
			if !isIvarAssign(stmt) {
				return false
			}
		}
		return true
	default:
		return isIvarAssign(body)
	}
}

func isIvarAssign(n cst.Node) bool {
	a, ok := n.(*cst.Assign)
	if !ok {
		return false
	}
	ident, ok := a.Lhs.(*cst.Ident)
	return ok && ident.Kind == cst.InstanceVar
}

// desugarParamsList returns the desugared argument specs plus any prelude
// statements needed to bind destructured `|(a, b)|` parameters.
func desugarParamsList(ctx *Context, params []cst.Param) ([]at.Expr, []at.Expr) {
	args := make([]at.Expr, 0, len(params))
	var prelude []at.Expr
	for _, p := range params {
		if p.Kind == cst.ParamDestructure {
			l := p.Loc()
			tmp := ctx.fresh(names.DestructureTemp, "destructureArg")
			args = append(args, at.ArgNode(l, tmp))
			prelude = append(prelude, desugarDestructureParam(ctx, at.LocalVar(l, tmp), p.Nested, l))
			continue
		}
		args = append(args, desugarParam(ctx, p))
	}
	return args, prelude
}

// desugarDestructureParam mirrors desugarMasgnItems but walks a nested
// []cst.Param shape (block/method parameter destructuring) instead of a
// []cst.MlhsItem, building every index and slot entirely out of at nodes so
// no synthetic cst node with a placeholder Loc is ever constructed.
func desugarDestructureParam(ctx *Context, rhsRef at.Expr, nested []cst.Param, l loc.Loc) at.Expr {
	splatIdx := -1
	for i, p := range nested {
		if p.Kind == cst.ParamRest {
			splatIdx = i
		}
	}
	before := splatIdx
	if before < 0 {
		before = len(nested)
	}
	after := 0
	if splatIdx >= 0 {
		after = len(nested) - splatIdx - 1
	}

	magic := at.Constant(l, ctx.wellKnown("Magic"))
	expandFun := ctx.Names.InternUTF8("expandSplat")
	expTmp := ctx.fresh(names.DestructureTemp, "destructureExpanded")
	expandCall := at.SendN(l, magic, expandFun, []at.Expr{rhsRef, at.Int(l, int64(before)), at.Int(l, int64(after))})
	expandAssign := at.Assign_(l, at.LocalVar(l, expTmp), expandCall)

	indexFun := ctx.Names.InternUTF8("[]")
	rangeClass := at.Constant(l, ctx.wellKnown("Range"))
	rangeNewFun := ctx.Names.InternUTF8("new")

	var assigns []at.Expr
	for i, p := range nested {
		var index at.Expr
		switch {
		case splatIdx < 0, i < splatIdx:
			index = at.Int(l, int64(i))
		case i == splatIdx:
			index = at.Send2(l, rangeClass, rangeNewFun, at.Int(l, int64(before)), at.Int(l, int64(-after-1)))
		default:
			index = at.Int(l, int64(i-len(nested)))
		}
		slotValue := at.Send1(l, at.LocalVar(l, expTmp), indexFun, index)
		if p.Kind == cst.ParamDestructure {
			subTmp := ctx.fresh(names.DestructureTemp, "destructureNested")
			assigns = append(assigns, at.Assign_(l, at.LocalVar(l, subTmp), slotValue))
			assigns = append(assigns, desugarDestructureParam(ctx, at.LocalVar(l, subTmp), p.Nested, l))
			continue
		}
		assigns = append(assigns, at.Assign_(l, at.LocalVar(l, ctx.Names.InternUTF8(p.Name)), slotValue))
	}
	if len(assigns) == 0 {
		return at.InsSeq1(l, expandAssign, at.Empty(l))
	}
	return at.InsSeqNode(l, append([]at.Expr{expandAssign}, assigns[:len(assigns)-1]...), assigns[len(assigns)-1])
}

// desugarClassDef lowers ClassDefNode: SingletonClassKind (`class << self`)
// has no Name and no Superclass; a bare `class Foo` with no explicit
// superclass takes the well-known `todo` placeholder ancestor, matching
// the "unresolved superclass" rule.
func desugarClassDef(ctx *Context, n *cst.ClassDefNode) at.Expr {
	l := n.Loc()
	classCtx := ctx.childScope()
	body := desugarClassBody(classCtx, n.Body, l)

	if n.Kind == cst.SingletonClassKind {
		self := at.SelfNode(l)
		singletonFun := ctx.wellKnown("Singleton")
		return at.Class(l, l, at.Constant(l, singletonFun), []at.Expr{at.UnsafeNode(l, self)}, body)
	}

	name := node2TreeImpl(ctx, n.Name)

	if n.Kind == cst.ModuleKind {
		return at.Module(l, l, name, body)
	}

	var ancestors []at.Expr
	if n.Superclass != nil {
		ancestors = []at.Expr{node2TreeImpl(ctx, n.Superclass)}
	} else {
		ancestors = []at.Expr{at.Constant(l, ctx.wellKnown("todo"))}
	}
	return at.Class(l, l, name, ancestors, body)
}

func desugarClassBody(ctx *Context, stmts []cst.Node, l loc.Loc) at.Expr {
	if len(stmts) == 0 {
		return at.Empty(l)
	}
	items := make([]at.Expr, len(stmts)-1)
	for i := 0; i < len(stmts)-1; i++ {
		items[i] = node2TreeImpl(ctx, stmts[i])
	}
	last := node2TreeImpl(ctx, stmts[len(stmts)-1])
	return at.InsSeqNode(l, items, last)
}
