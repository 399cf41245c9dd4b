package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/names"
)

func tEnumAncestor(s *names.Service) at.Expr {
	tRef := s.InternConstant("T")
	return at.UnresolvedConstant(l, at.UnresolvedConstant(l, nil, tRef), s.InternConstant("Enum"))
}

func magicSelfNew(ctx *Context) *at.Send {
	magic := ctx.wellKnown("Magic")
	return at.Send1(l, at.Constant(l, magic), ctx.Names.InternUTF8("<self-new>"), at.SelfNode(l))
}

func TestTEnumRunRewritesEnumValueInsideEnumsDo(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	red := s.InternConstant("RED")
	enumValue := at.Assign_(l, at.UnresolvedConstant(l, nil, red), magicSelfNew(ctx))

	enumsBlock := at.BlockN(l, nil, enumValue)
	enumsSend := at.SendWithBlock(l, at.Empty(l), ctx.Names.InternUTF8("enums"), nil, enumsBlock)

	className := at.Constant(l, s.InternConstant("Color"))
	classDef := at.Class(l, l, className, []at.Expr{tEnumAncestor(s)}, enumsSend)

	rewritten := TEnumRun(ctx, classDef)
	stmts := flattenStmts(rewritten.Rhs)

	require.True(t, len(stmts) >= 5, "extend/abstract!/sealed! prelude plus nested class + assign")

	var sawNestedClass, sawAssign bool
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *at.ClassDef:
			sawNestedClass = true
			require.Len(t, n.Ancestors, 1)
		case *at.Assign:
			if lhs, ok := n.Lhs.(*at.UnresolvedConstantLit); ok && ctx.Names.Text(lhs.Name) == "RED" {
				sawAssign = true
				_, isLet := n.Rhs.(*at.Send)
				require.True(t, isLet)
			}
		}
	}
	require.True(t, sawNestedClass)
	require.True(t, sawAssign)
}

// TestTEnumRunGivesEachNestedClassItsOwnAncestor checks SPEC_FULL §3's
// tree-exclusive-ownership invariant: with more than one enum value, each
// synthesised nested singleton class must get a distinct copy of the
// enclosing class's name, never the same shared node aliased as multiple
// parents.
func TestTEnumRunGivesEachNestedClassItsOwnAncestor(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	red := s.InternConstant("RED")
	blue := s.InternConstant("BLUE")
	redAssign := at.Assign_(l, at.UnresolvedConstant(l, nil, red), magicSelfNew(ctx))
	blueAssign := at.Assign_(l, at.UnresolvedConstant(l, nil, blue), magicSelfNew(ctx))

	enumsBlock := at.BlockN(l, nil, at.InsSeq1(l, redAssign, blueAssign))
	enumsSend := at.SendWithBlock(l, at.Empty(l), ctx.Names.InternUTF8("enums"), nil, enumsBlock)

	className := at.Constant(l, s.InternConstant("Color"))
	classDef := at.Class(l, l, className, []at.Expr{tEnumAncestor(s)}, enumsSend)

	rewritten := TEnumRun(ctx, classDef)
	stmts := flattenStmts(rewritten.Rhs)

	var ancestors []at.Expr
	for _, stmt := range stmts {
		if n, ok := stmt.(*at.ClassDef); ok {
			require.Len(t, n.Ancestors, 1)
			ancestors = append(ancestors, n.Ancestors[0])
		}
	}
	require.Len(t, ancestors, 2, "one nested class per enum value")
	require.NotSame(t, ancestors[0], ancestors[1], "each nested class must own a distinct ancestor node")
}

func TestTEnumRunFlagsValueOutsideEnumsDo(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	red := s.InternConstant("RED")
	enumValue := at.Assign_(l, at.UnresolvedConstant(l, nil, red), magicSelfNew(ctx))

	className := at.Constant(l, s.InternConstant("Color"))
	classDef := at.Class(l, l, className, []at.Expr{tEnumAncestor(s)}, enumValue)

	_ = TEnumRun(ctx, classDef)
	require.True(t, ctx.Diags.HasErrors())
	diags := ctx.Diags.All()
	require.Equal(t, diag.RewriterTEnumOutsideEnumsDo, diags[0].Code())
}

func TestTEnumRunLeavesNonEnumClassUnchanged(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	className := at.Constant(l, s.InternConstant("Plain"))
	classDef := at.Class(l, l, className, nil, at.Empty(l))

	rewritten := TEnumRun(ctx, classDef)
	require.Equal(t, at.Expr(classDef), at.Expr(rewritten))
}
