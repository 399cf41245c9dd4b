package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
	"github.com/sobalang/soba/util"
)

var l = loc.Loc{File: 1, Start: 0, Stop: 1}

func constantNames(e at.Expr, interner names.Interner) util.MSet[string] {
	seen := util.NewEmptySet[string]()
	e.Transform(func(n at.Expr) at.Expr {
		if a, ok := n.(*at.Assign); ok {
			if lhs, ok := a.Lhs.(*at.UnresolvedConstantLit); ok {
				seen.Add(interner.Text(lhs.Name))
			}
		}
		return n
	})
	return seen
}

// TestConstantMoverPreservesConstantMultiset checks SPEC_FULL §8 property 4:
// ConstantMover only relocates constant-definition Assigns, it never drops
// or duplicates the set of constant names a method body defines.
func TestConstantMoverPreservesConstantMultiset(t *testing.T) {
	s := names.NewService()
	foo := s.InternConstant("Foo")
	bar := s.InternConstant("Bar")

	body := at.InsSeqNode(l, []at.Expr{
		at.Assign_(l, at.UnresolvedConstant(l, nil, foo), at.Int(l, 1)),
	}, at.Assign_(l, at.UnresolvedConstant(l, nil, bar), at.UnresolvedConstant(l, nil, s.InternConstant("Baz"))))

	mover := &ConstantMover{Names: s}
	rewritten, moved := mover.Run(body)

	before := constantNames(body, s)
	combined := util.NewEmptySet[string]()
	for _, m := range moved {
		for name := range constantNames(m, s).All() {
			combined.Add(name)
		}
	}
	for name := range constantNames(rewritten, s).All() {
		combined.Add(name)
	}

	require.Equal(t, before.Len(), combined.Len())
	for name := range before.All() {
		require.True(t, combined.Contains(name), name)
	}
}

func TestConstantMoverHoistsNonConstantRhsBehindConstSet(t *testing.T) {
	s := names.NewService()
	foo := s.InternConstant("Foo")
	body := at.Assign_(l, at.UnresolvedConstant(l, nil, foo), at.Int(l, 42))

	mover := &ConstantMover{Names: s}
	site, moved := mover.Run(body)

	setCall, ok := site.(*at.Send)
	require.True(t, ok, "site should become a Module.const_set call")
	require.Equal(t, "const_set", s.Text(setCall.Fun))
	require.Len(t, moved, 1)

	placeholder, ok := moved[0].(*at.Assign)
	require.True(t, ok)
	_, isUnsafe := placeholder.Rhs.(*at.Unsafe)
	require.True(t, isUnsafe, "placeholder rhs should be T.unsafe(nil)")
}

func TestConstantMoverMovesVerbatimConstantAlias(t *testing.T) {
	s := names.NewService()
	foo := s.InternConstant("Foo")
	bar := s.InternConstant("Bar")
	body := at.Assign_(l, at.UnresolvedConstant(l, nil, foo), at.UnresolvedConstant(l, nil, bar))

	mover := &ConstantMover{Names: s}
	site, moved := mover.Run(body)

	_, isEmpty := site.(*at.EmptyTree)
	require.True(t, isEmpty)
	require.Len(t, moved, 1)
	require.Equal(t, body, moved[0])
}
