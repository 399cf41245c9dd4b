package at

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

func TestTransformIsBottomUpAndStructurallyIdempotent(t *testing.T) {
	ns := names.NewService()
	foo := ns.InternUTF8("foo")
	l := loc.Loc{File: 1, Start: 0, Stop: 1}

	tree := Send1(l, SelfNode(l), foo, Int(l, 42))

	var visited []string
	tree.Transform(func(e Expr) Expr {
		switch e.(type) {
		case *Literal:
			visited = append(visited, "Literal")
		case *Self:
			visited = append(visited, "Self")
		case *Send:
			visited = append(visited, "Send")
		}
		return e
	})
	require.Equal(t, []string{"Self", "Literal", "Send"}, visited, "children visited before parent")

	noop := tree.Transform(func(e Expr) Expr { return e })
	require.Equal(t, tree, noop)
}

func TestCpRefOnlyAcceptsReferenceShapedNodes(t *testing.T) {
	ns := names.NewService()
	l := loc.Loc{File: 1, Start: 0, Stop: 1}
	local := LocalVar(l, ns.InternUTF8("x"))

	cp := CpRef(local)
	require.Equal(t, local, cp)
	require.NotSame(t, local, cp)

	require.Panics(t, func() { CpRef(Int(l, 1)) })
}

func TestInsSeqCollapsesWithNoStats(t *testing.T) {
	l := loc.Loc{File: 1, Start: 0, Stop: 1}
	result := Int(l, 1)
	require.Same(t, result, InsSeqNode(l, nil, result))

	withStats := InsSeqNode(l, []Expr{Int(l, 0)}, result)
	require.IsType(t, &InsSeq{}, withStats)
}

func TestMethodDefRoundTripsThroughTransform(t *testing.T) {
	ns := names.NewService()
	l := loc.Loc{File: 1, Start: 0, Stop: 10}
	blkArg := &BlockArg{base{l}, &Arg{base{l}, ns.InternUTF8("blkArg")}}
	m := MethodWithArgs(l, l, ns.InternUTF8("f"), []Expr{blkArg}, Nil(l), FlagSelfMethod)

	out := m.Transform(func(e Expr) Expr { return e }).(*MethodDef)
	require.Len(t, out.Args, 1)
	require.IsType(t, &BlockArg{}, out.Args[0])
}
