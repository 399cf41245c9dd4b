package desugar

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// desugarWhile handles While/Until/WhilePost/UntilPost. A *Post variant
// whose body came from a braced block gets the do-until shape (loop
// forever, and at the end break once the loop condition no longer holds:
// on `!cond` for while, on `cond` for until); otherwise — per the
// Open Question decision recorded in DESIGN.md — it desugars to a plain
// negated While, executing the body zero-or-more times, preserved exactly
// as the source behaves rather than "fixed" to at-least-once semantics.
func desugarWhile(ctx *Context, n *cst.While) at.Expr {
	l := n.Loc()
	cond := node2TreeImpl(ctx, n.Cond)
	body := node2TreeImpl(ctx, n.Body)

	if n.Post {
		if _, braced := n.Body.(*cst.Begin); braced {
			breakCond := cond
			if !n.Until {
				breakCond = negate(ctx, cond)
			}
			loopBody := at.InsSeq1(l, body, at.If_(l, breakCond, at.Break_(l, at.Empty(l)), at.Empty(l)))
			return at.While_(l, at.True(l), loopBody)
		}
	}

	if n.Until {
		cond = negate(ctx, cond)
	}
	return at.While_(l, cond, body)
}

func negate(ctx *Context, cond at.Expr) at.Expr {
	return at.Send0(cond.Loc(), cond, ctx.Names.InternUTF8("!"))
}

// desugarFor lowers `for v in e do body` to `e.each { |v| body }`.
func desugarFor(ctx *Context, n *cst.For) at.Expr {
	l := n.Loc()
	iter := node2TreeImpl(ctx, n.Iter)
	eachFun := ctx.Names.InternUTF8("each")

	var blockArg at.Expr
	var prelude []at.Expr
	if len(n.Var.Items) == 1 && !n.Var.Items[0].Splat {
		if ident, ok := n.Var.Items[0].Node.(*cst.Ident); ok {
			blockArg = at.ArgNode(l, ctx.Names.InternUTF8(ident.Name))
		}
	}
	if blockArg == nil {
		tmp := ctx.fresh(names.TempLocal, "forVar")
		blockArg = at.ArgNode(l, tmp)
		destructure := desugarMasgnItems(ctx, n.Var.Items, at.LocalVar(l, tmp), l)
		prelude = []at.Expr{destructure}
	}

	body := node2TreeImpl(ctx, n.Body)
	fullBody := at.InsSeqNode(l, prelude, body)
	block := at.Block1(l, blockArg, fullBody)
	return at.SendWithBlock(l, iter, eachFun, nil, block)
}

// desugarCase lowers `case subj; when a,b then x; when c then y; else z; end`
// to nested If using `===` against an optional temp bound from the
// scrutinee.
func desugarCase(ctx *Context, n *cst.Case) at.Expr {
	l := n.Loc()

	var subjRef at.Expr
	var prelude []at.Expr
	if n.Subject != nil {
		tmp := ctx.fresh(names.TempLocal, "caseSubject")
		prelude = []at.Expr{at.Assign_(l, at.LocalVar(l, tmp), node2TreeImpl(ctx, n.Subject))}
		subjRef = at.LocalVar(l, tmp)
	}

	elseExpr := node2TreeImpl(ctx, n.Else)

	result := elseExpr
	for i := len(n.Whens) - 1; i >= 0; i-- {
		when := n.Whens[i]
		cond := desugarCaseWhenCond(ctx, subjRef, when.Patterns, l)
		body := node2TreeImpl(ctx, when.Body)
		result = at.If_(l, cond, body, result)
	}

	return at.InsSeqNode(l, prelude, result)
}

func desugarCaseWhenCond(ctx *Context, subjRef at.Expr, patterns []cst.Node, l loc.Loc) at.Expr {
	caseEqFun := ctx.Names.InternUTF8("===")
	var cond at.Expr
	for _, p := range patterns {
		pv := node2TreeImpl(ctx, p)
		var test at.Expr
		if subjRef != nil {
			test = at.Send1(pv.Loc(), pv, caseEqFun, subjRef)
		} else {
			test = pv
		}
		if cond == nil {
			cond = test
		} else {
			cond = at.If_(pv.Loc(), cond, at.True(pv.Loc()), test)
		}
	}
	if cond == nil {
		return at.False(l)
	}
	return cond
}

// desugarYield lowers `yield(args)` to `blkArg.call(args)` on the enclosing
// block-arg; when that block-arg was synthesized (the method declared none),
// an UnnamedBlockParameter diagnostic is also emitted at the method. With no
// enclosing block-arg at all, it lowers to `Unsafe(nil).call(args)` plus an
// UnnamedBlockParameter diagnostic at the yield.
func desugarYield(ctx *Context, n *cst.Yield) at.Expr {
	l := n.Loc()
	args := make([]at.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = node2TreeImpl(ctx, a)
	}
	callFun := ctx.Names.InternUTF8("call")
	if ctx.hasBlockArg {
		if ctx.blockArgSynthesized {
			if b, ok := ctx.Diags.BeginError(ctx.enclosingMethod, diag.DesugarUnnamedBlockParameter); ok {
				b.SetHeader("yield used without a named block parameter").Commit()
			}
		}
		return at.SendN(l, at.LocalVar(l, ctx.blockArgName), callFun, args)
	}
	if b, ok := ctx.Diags.BeginError(l, diag.DesugarUnnamedBlockParameter); ok {
		b.SetHeader("yield used without a named block parameter").Commit()
	}
	return at.SendN(l, at.UnsafeNode(l, at.Nil(l)), callFun, args)
}

// desugarRescue builds the Rescue tree: each Resbody collects a possibly
// empty exception list (splicing a splat) and binds the rescue variable,
// freshening a temp if the source omitted one. Ensure attaches to an inner
// Rescue if present, otherwise wraps a bare Rescue with no cases.
func desugarRescue(ctx *Context, n *cst.Rescue) at.Expr {
	l := n.Loc()
	body := node2TreeImpl(ctx, n.Body)

	cases := make([]*at.RescueCase, len(n.Cases))
	for i, c := range n.Cases {
		cases[i] = desugarResbody(ctx, c, l)
	}

	elseExpr := at.Expr(at.Empty(l))
	if n.Else != nil {
		elseExpr = node2TreeImpl(ctx, n.Else)
	}
	ensureExpr := at.Expr(at.Empty(l))
	if n.Ensure != nil {
		ensureExpr = node2TreeImpl(ctx, n.Ensure)
		if inner, ok := body.(*at.Rescue); ok && len(cases) == 0 && n.Else == nil {
			if _, empty := inner.Ensure.(*at.EmptyTree); empty {
				inner.Ensure = ensureExpr
				return inner
			}
		}
	}

	return at.RescueNode(l, body, cases, elseExpr, ensureExpr)
}

func desugarResbody(ctx *Context, r cst.Resbody, l loc.Loc) *at.RescueCase {
	exceptions := make([]at.Expr, len(r.Exceptions))
	for i, e := range r.Exceptions {
		v := node2TreeImpl(ctx, e)
		if r.Splat {
			v = at.SplatOf(v.Loc(), v)
		}
		exceptions[i] = v
	}

	var varExpr at.Expr
	if r.Var != "" {
		varExpr = at.LocalVar(l, ctx.Names.InternUTF8(r.Var))
	} else {
		tmp := ctx.fresh(names.RescueTemp, "exception")
		varExpr = at.LocalVar(l, tmp)
	}

	body := node2TreeImpl(ctx, r.Body)
	return at.RescueCaseNode(l, exceptions, varExpr, body)
}

// desugarDefined lowers `defined?(A::B::C)` to `Magic.defined_p("A","B","C")`
// for a chain of constant references; a non-constant operand clears the
// list, giving a bare `Magic.defined_p()` without desugaring the operand.
func desugarDefined(ctx *Context, n *cst.Defined) at.Expr {
	l := n.Loc()
	var parts []string
	cur := n.Arg
	ok := true
	for cur != nil {
		c, isConst := cur.(*cst.Const)
		if !isConst {
			ok = false
			break
		}
		parts = append([]string{c.Name}, parts...)
		cur = c.Scope
	}
	magic := at.Constant(l, ctx.wellKnown("Magic"))
	definedFun := ctx.Names.InternUTF8("defined_p")
	if !ok {
		return at.SendN(l, magic, definedFun, nil)
	}
	args := make([]at.Expr, len(parts))
	for i, p := range parts {
		args[i] = at.String(l, ctx.Names.InternUTF8(p))
	}
	return at.SendN(l, magic, definedFun, args)
}

func desugarAlias(ctx *Context, n *cst.Alias) at.Expr {
	l := n.Loc()
	aliasFun := ctx.Names.InternUTF8("<alias-method>")
	return at.Send2(l, at.SelfNode(l), aliasFun,
		at.Symbol(l, ctx.Names.InternUTF8(n.From)), at.Symbol(l, ctx.Names.InternUTF8(n.To)))
}

func desugarUndef(ctx *Context, n *cst.Undef) at.Expr {
	l := n.Loc()
	kernel := at.Constant(l, ctx.wellKnown("Kernel"))
	undefFun := ctx.Names.InternUTF8("<undef>")
	args := make([]at.Expr, len(n.Names))
	for i, name := range n.Names {
		if b, ok := ctx.Diags.BeginError(l, diag.DesugarUndefUsage); ok {
			b.SetHeader("undef is discouraged: %s", name).Commit()
		}
		args[i] = at.Symbol(l, ctx.Names.InternUTF8(name))
	}
	return at.SendN(l, kernel, undefFun, args)
}
