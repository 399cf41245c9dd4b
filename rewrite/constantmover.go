// Package rewrite implements the post-desugar AST rewriters of SPEC_FULL
// §4.4-§4.6: ConstantMover, the test-DSL rewriter, and the T::Enum
// rewriter. All three operate on the at.Expr kernel produced by
// desugar.Node2Tree.
package rewrite

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// ConstantMover hoists constant definitions discovered inside a
// rewriter-synthesised method body out to the enclosing class scope,
// implementing SPEC_FULL §4.4. It is a post-order visitor maintaining
// classDepth, built directly on top of the same per-kind dispatch shape
// at.Expr.Transform uses — a dedicated recursive walk rather than a single
// Transform(f) call, because classDepth needs explicit scope-entry and
// scope-exit hooks that a single post-order callback cannot express.
type ConstantMover struct {
	Names      names.Interner
	classDepth int
}

// Run rewrites e, returning the transformed tree and any constant
// definitions that must be hoisted to whatever scope called Run.
func (m *ConstantMover) Run(e at.Expr) (at.Expr, []at.Expr) {
	if e == nil {
		return e, nil
	}
	switch n := e.(type) {

	case *at.ClassDef:
		m.classDepth++
		rhs, moved := m.Run(n.Rhs)
		m.classDepth--
		cp := *n
		cp.Rhs = AddConstantsToExpression(n.Loc(), rhs, moved)
		if m.classDepth == 0 {
			return at.Empty(n.Loc()), []at.Expr{&cp}
		}
		return &cp, nil

	case *at.Send:
		if isDescribeSend(m.Names, n) {
			m.classDepth++
			body, moved := m.Run(n.Block.Body)
			m.classDepth--
			blockCp := *n.Block
			blockCp.Body = AddConstantsToExpression(n.Loc(), body, moved)
			sendCp := *n
			sendCp.Block = &blockCp
			if m.classDepth == 0 {
				return at.Empty(n.Loc()), []at.Expr{&sendCp}
			}
			return &sendCp, nil
		}
		cp := *n
		cp.Recv, _ = m.Run(n.Recv)
		var moved []at.Expr
		cp.Args = make([]at.Expr, len(n.Args))
		for i, a := range n.Args {
			var am []at.Expr
			cp.Args[i], am = m.Run(a)
			moved = append(moved, am...)
		}
		if n.Block != nil {
			body, bm := m.Run(n.Block.Body)
			blockCp := *n.Block
			blockCp.Body = body
			cp.Block = &blockCp
			moved = append(moved, bm...)
		}
		return &cp, moved

	case *at.Assign:
		if lhs, ok := n.Lhs.(*at.UnresolvedConstantLit); ok {
			return m.handleConstAssign(n, lhs)
		}
		rhs, moved := m.Run(n.Rhs)
		cp := *n
		cp.Rhs = rhs
		return &cp, moved

	case *at.InsSeq:
		cp := *n
		cp.Stats = make([]at.Expr, len(n.Stats))
		var moved []at.Expr
		for i, s := range n.Stats {
			var sm []at.Expr
			cp.Stats[i], sm = m.Run(s)
			moved = append(moved, sm...)
		}
		result, rm := m.Run(n.Result)
		cp.Result = result
		moved = append(moved, rm...)
		return &cp, moved

	case *at.If:
		cp := *n
		var moved []at.Expr
		var m1, m2, m3 []at.Expr
		cp.Cond, m1 = m.Run(n.Cond)
		cp.Then, m2 = m.Run(n.Then)
		cp.Else, m3 = m.Run(n.Else)
		moved = append(moved, m1...)
		moved = append(moved, m2...)
		moved = append(moved, m3...)
		return &cp, moved

	case *at.While:
		cp := *n
		var m1, m2 []at.Expr
		cp.Cond, m1 = m.Run(n.Cond)
		cp.Body, m2 = m.Run(n.Body)
		return &cp, append(m1, m2...)

	case *at.MethodDef:
		cp := *n
		body, moved := m.Run(n.Body)
		cp.Body = body
		return &cp, moved

	case *at.Block:
		cp := *n
		body, moved := m.Run(n.Body)
		cp.Body = body
		return &cp, moved

	case *at.Rescue:
		cp := *n
		var moved []at.Expr
		var bm, em, enm []at.Expr
		cp.Body, bm = m.Run(n.Body)
		cp.Else, em = m.Run(n.Else)
		cp.Ensure, enm = m.Run(n.Ensure)
		moved = append(moved, bm...)
		moved = append(moved, em...)
		moved = append(moved, enm...)
		cp.Cases = make([]*at.RescueCase, len(n.Cases))
		for i, c := range n.Cases {
			caseCp := *c
			var cm []at.Expr
			caseCp.Body, cm = m.Run(c.Body)
			moved = append(moved, cm...)
			cp.Cases[i] = &caseCp
		}
		return &cp, moved

	case *at.Break:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })
	case *at.Next:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })
	case *at.Return:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })
	case *at.Splat:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })
	case *at.Unsafe:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })
	case *at.Let:
		return m.runUnary(n.Value, func(v at.Expr) at.Expr { cp := *n; cp.Value = v; return &cp })

	case *at.Array:
		cp := *n
		cp.Elems = make([]at.Expr, len(n.Elems))
		var moved []at.Expr
		for i, el := range n.Elems {
			var em []at.Expr
			cp.Elems[i], em = m.Run(el)
			moved = append(moved, em...)
		}
		return &cp, moved

	case *at.Hash:
		cp := *n
		cp.Keys = make([]at.Expr, len(n.Keys))
		cp.Values = make([]at.Expr, len(n.Values))
		var moved []at.Expr
		for i := range n.Keys {
			var km, vm []at.Expr
			cp.Keys[i], km = m.Run(n.Keys[i])
			cp.Values[i], vm = m.Run(n.Values[i])
			moved = append(moved, km...)
			moved = append(moved, vm...)
		}
		return &cp, moved

	default:
		return e, nil
	}
}

func (m *ConstantMover) runUnary(v at.Expr, rebuild func(at.Expr) at.Expr) (at.Expr, []at.Expr) {
	nv, moved := m.Run(v)
	return rebuild(nv), moved
}

// handleConstAssign implements the two-way split of §4.4's Assign rule.
func (m *ConstantMover) handleConstAssign(n *at.Assign, lhs *at.UnresolvedConstantLit) (at.Expr, []at.Expr) {
	rhs, moved := m.Run(n.Rhs)

	if _, ok := rhs.(*at.UnresolvedConstantLit); ok {
		full := at.Assign_(n.Loc(), lhs, rhs)
		return at.Empty(n.Loc()), append(moved, full)
	}

	var placeholderRhs at.Expr
	if let, ok := rhs.(*at.Let); ok {
		typeCopy := let.Type.Transform(func(e at.Expr) at.Expr { return e })
		placeholderRhs = at.LetNode(n.Loc(), at.UnsafeNode(n.Loc(), at.Nil(n.Loc())), typeCopy)
	} else {
		placeholderRhs = at.UnsafeNode(n.Loc(), at.Nil(n.Loc()))
	}
	placeholder := at.Assign_(n.Loc(), lhs, placeholderRhs)
	moved = append(moved, placeholder)

	module := at.Constant(n.Loc(), m.wellKnown("Module"))
	constSetFun := m.Names.InternUTF8("const_set")
	symbol := at.Symbol(n.Loc(), lhs.Name)
	setCall := at.SendN(n.Loc(), module, constSetFun, []at.Expr{symbol, rhs})
	return setCall, moved
}

func (m *ConstantMover) wellKnown(name string) names.NameRef {
	ref, ok := m.Names.WellKnown(name)
	if !ok {
		panic("rewrite: unknown well-known symbol " + name)
	}
	return ref
}

func isDescribeSend(interner names.Interner, n *at.Send) bool {
	return n.Block != nil && interner.Text(n.Fun) == "describe"
}

// AddConstantsToExpression prepends moved constant-definition statements
// ahead of expr, matching §4.4's final assembly step.
func AddConstantsToExpression(l loc.Loc, expr at.Expr, moved []at.Expr) at.Expr {
	if len(moved) == 0 {
		return expr
	}
	return at.InsSeqNode(l, moved, expr)
}
