package desugar

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// desugarArray splices Splat parts by emitting `.concat` against
// intermediate array literals, matching the "Collection literals" rule.
func desugarArray(ctx *Context, n *cst.ArrayLit) at.Expr {
	l := n.Loc()
	hasSplat := false
	for _, it := range n.Items {
		if it.Splat {
			hasSplat = true
			break
		}
	}
	if !hasSplat {
		elems := make([]at.Expr, len(n.Items))
		for i, it := range n.Items {
			elems[i] = node2TreeImpl(ctx, it.Node)
		}
		return at.ArrayOf(l, elems...)
	}

	concatFun := ctx.Names.InternUTF8("concat")
	toAFun := ctx.Names.InternUTF8("to_a")
	var acc at.Expr
	var pending []at.Expr
	flush := func() {
		if len(pending) == 0 {
			return
		}
		lit := at.ArrayOf(l, pending...)
		if acc == nil {
			acc = lit
		} else {
			acc = at.Send1(l, acc, concatFun, lit)
		}
		pending = nil
	}
	for _, it := range n.Items {
		v := node2TreeImpl(ctx, it.Node)
		if it.Splat {
			flush()
			asArray := at.Send0(l, v, toAFun)
			if acc == nil {
				acc = asArray
			} else {
				acc = at.Send1(l, acc, concatFun, asArray)
			}
			continue
		}
		pending = append(pending, v)
	}
	flush()
	if acc == nil {
		return at.ArrayOf(l)
	}
	return acc
}

// desugarHash splices Kwsplat parts by emitting `.merge`, mirroring Array's
// splice-by-concat rule.
func desugarHash(ctx *Context, n *cst.HashLit) at.Expr {
	l := n.Loc()
	hasSplat := false
	for _, p := range n.Pairs {
		if p.KwSplat {
			hasSplat = true
			break
		}
	}
	if !hasSplat {
		keys := make([]at.Expr, len(n.Pairs))
		values := make([]at.Expr, len(n.Pairs))
		for i, p := range n.Pairs {
			keys[i] = node2TreeImpl(ctx, p.Key)
			values[i] = node2TreeImpl(ctx, p.Value)
		}
		return at.HashOf(l, keys, values)
	}

	mergeFun := ctx.Names.InternUTF8("merge")
	var acc at.Expr
	var pendingKeys, pendingValues []at.Expr
	flush := func() {
		if len(pendingKeys) == 0 {
			return
		}
		lit := at.HashOf(l, pendingKeys, pendingValues)
		if acc == nil {
			acc = lit
		} else {
			acc = at.Send1(l, acc, mergeFun, lit)
		}
		pendingKeys, pendingValues = nil, nil
	}
	for _, p := range n.Pairs {
		if p.KwSplat {
			flush()
			v := node2TreeImpl(ctx, p.Value)
			if acc == nil {
				acc = v
			} else {
				acc = at.Send1(l, acc, mergeFun, v)
			}
			continue
		}
		pendingKeys = append(pendingKeys, node2TreeImpl(ctx, p.Key))
		pendingValues = append(pendingValues, node2TreeImpl(ctx, p.Value))
	}
	flush()
	if acc == nil {
		return at.Hash0(l)
	}
	return acc
}

// desugarDString accumulates consecutive string literals, calls .to_s on
// dynamic parts, and joins with .concat.
func desugarDString(ctx *Context, n *cst.DString, forSymbol bool) at.Expr {
	l := n.Loc()
	toSFun := ctx.Names.InternUTF8("to_s")
	concatFun := ctx.Names.InternUTF8("concat")

	var acc at.Expr
	var pendingText string
	hasPending := false
	flushText := func() {
		if !hasPending {
			return
		}
		lit := at.String(l, ctx.Names.InternUTF8(pendingText))
		if acc == nil {
			acc = lit
		} else {
			acc = at.Send1(l, acc, concatFun, lit)
		}
		pendingText = ""
		hasPending = false
	}
	for _, part := range n.Parts {
		if lit, ok := part.(*cst.Literal); ok && lit.Kind == cst.StringLit {
			pendingText += lit.Text
			hasPending = true
			continue
		}
		flushText()
		dyn := node2TreeImpl(ctx, part)
		asStr := at.Send0(l, dyn, toSFun)
		if acc == nil {
			acc = asStr
		} else {
			acc = at.Send1(l, acc, concatFun, asStr)
		}
	}
	flushText()
	if acc == nil {
		acc = at.String(l, ctx.Names.InternUTF8(""))
	}
	return acc
}

func desugarDSymbolNode(ctx *Context, n *cst.DSymbol) at.Expr {
	l := n.Loc()
	asString := desugarDString(ctx, &cst.DString{Parts: n.Parts}, true)
	return at.Send0(l, asString, ctx.Names.InternUTF8("intern"))
}

func desugarRegexp(ctx *Context, n *cst.RegexpLit) at.Expr {
	l := n.Loc()
	pattern := desugarDString(ctx, &cst.DString{Parts: n.Parts}, false)
	opts := int64(n.Opts)
	regexpClass := at.Constant(l, ctx.wellKnown("Regexp"))
	newFun := ctx.Names.InternUTF8("new")
	return at.Send2(l, regexpClass, newFun, pattern, at.Int(l, opts))
}

func desugarRange(ctx *Context, n *cst.RangeLit) at.Expr {
	l := n.Loc()
	rangeClass := at.Constant(l, ctx.wellKnown("Range"))
	newFun := ctx.Names.InternUTF8("new")
	from := node2TreeImpl(ctx, n.From)
	to := node2TreeImpl(ctx, n.To)
	if n.Exclusive {
		return at.Send3(l, rangeClass, newFun, from, to, at.True(l))
	}
	return at.Send2(l, rangeClass, newFun, from, to)
}

// desugarMasgn implements destructuring assignment: bind rhs to a temp,
// call Magic.expandSplat to get a shaped array, then index/assign each
// slot, recursing into nested Mlhs.
func desugarMasgn(ctx *Context, n *cst.Masgn) at.Expr {
	l := n.Loc()

	splatCount := 0
	for _, it := range n.Lhs.Items {
		if it.Splat {
			splatCount++
		}
	}
	if splatCount > 1 {
		if b, ok := ctx.Diags.BeginError(l, diag.DesugarUnsupportedRestArgsDestructure); ok {
			b.SetHeader("at most one splat is allowed in a destructuring assignment").Commit()
		}
	}

	tmp := ctx.fresh(names.TempLocal, "masgnRhs")
	rhsAssign := at.Assign_(l, at.LocalVar(l, tmp), node2TreeImpl(ctx, n.Rhs))
	body := desugarMasgnItems(ctx, n.Lhs.Items, at.LocalVar(l, tmp), l)
	return at.InsSeq1(l, rhsAssign, at.InsSeq1(l, body, at.LocalVar(l, tmp)))
}

// desugarDestructureTarget assigns one expanded slot to its target. A
// nested Mlhs target (`a, (b, c) = rhs`) recurses through the same
// expand-and-index machinery, treating the slot value as that nested
// pattern's own rhs.
func desugarDestructureTarget(ctx *Context, target cst.Node, value at.Expr, l loc.Loc) at.Expr {
	if nested, ok := target.(*cst.Mlhs); ok {
		tmp := ctx.fresh(names.TempLocal, "masgnNestedRhs")
		assign := at.Assign_(l, at.LocalVar(l, tmp), value)
		inner := desugarMasgnItems(ctx, nested.Items, at.LocalVar(l, tmp), l)
		return at.InsSeq1(l, assign, inner)
	}
	return at.Assign_(l, node2TreeImpl(ctx, target), value)
}

// desugarMasgnItems is the shared core of desugarMasgn, factored out so
// desugarDestructureTarget can recurse into a nested Mlhs without
// re-evaluating the outer rhs.
func desugarMasgnItems(ctx *Context, items []cst.MlhsItem, rhsRef at.Expr, l loc.Loc) at.Expr {
	splatIdx := -1
	for i, it := range items {
		if it.Splat {
			splatIdx = i
		}
	}
	before := splatIdx
	if before < 0 {
		before = len(items)
	}
	after := 0
	if splatIdx >= 0 {
		after = len(items) - splatIdx - 1
	}

	magic := at.Constant(l, ctx.wellKnown("Magic"))
	expandFun := ctx.Names.InternUTF8("expandSplat")
	expTmp := ctx.fresh(names.TempLocal, "masgnExpanded")
	expandCall := at.SendN(l, magic, expandFun, []at.Expr{rhsRef, at.Int(l, int64(before)), at.Int(l, int64(after))})
	expandAssign := at.Assign_(l, at.LocalVar(l, expTmp), expandCall)

	indexFun := ctx.Names.InternUTF8("[]")
	rangeClass := at.Constant(l, ctx.wellKnown("Range"))
	rangeNewFun := ctx.Names.InternUTF8("new")
	var assigns []at.Expr
	for i, it := range items {
		var index at.Expr
		switch {
		case splatIdx < 0, i < splatIdx:
			index = at.Int(l, int64(i))
		case i == splatIdx:
			index = at.Send2(l, rangeClass, rangeNewFun, at.Int(l, int64(before)), at.Int(l, int64(-after-1)))
		default:
			index = at.Int(l, int64(i-len(items)))
		}
		slotValue := at.Send1(l, at.LocalVar(l, expTmp), indexFun, index)
		assigns = append(assigns, desugarDestructureTarget(ctx, it.Node, slotValue, l))
	}
	if len(assigns) == 0 {
		return at.InsSeq1(l, expandAssign, at.Empty(l))
	}
	return at.InsSeqNode(l, append([]at.Expr{expandAssign}, assigns[:len(assigns)-1]...), assigns[len(assigns)-1])
}
