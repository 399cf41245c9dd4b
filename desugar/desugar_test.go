package desugar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

var fileLoc = loc.Loc{File: 1, Start: 0, Stop: 1}

func nl() loc.Loc { return loc.Loc{File: 1, Start: 0, Stop: 1} }

func TestNode2TreeWrapsRootInSyntheticClassDef(t *testing.T) {
	s := names.NewService()
	sink := diag.NewSink()
	rootName := s.InternConstant("Main")

	tree, err := Node2Tree(s, sink, rootName, cst.LiteralNode(nl(), cst.IntLit, "1"), fileLoc)
	require.NoError(t, err)

	classDef, ok := tree.(*at.ClassDef)
	require.True(t, ok, "root must be wrapped in a ClassDef per §3 invariant 5")
	require.Equal(t, rootName, nameOf(classDef.Name))
}

func TestNode2TreeDesugarsIfAndLiterals(t *testing.T) {
	s := names.NewService()
	sink := diag.NewSink()
	rootName := s.InternConstant("Main")

	ifNode := cst.IfNode(nl(), cst.LiteralNode(nl(), cst.TrueLit, ""),
		cst.LiteralNode(nl(), cst.IntLit, "1"),
		cst.LiteralNode(nl(), cst.IntLit, "2"))

	tree, err := Node2Tree(s, sink, rootName, ifNode, fileLoc)
	require.NoError(t, err)

	classDef := tree.(*at.ClassDef)
	ifExpr, ok := classDef.Rhs.(*at.If)
	require.True(t, ok)
	require.IsType(t, &at.Literal{}, ifExpr.Cond)
	require.False(t, sink.HasErrors())
}

func TestNode2TreeMethodDefAlwaysEndsInBlockArg(t *testing.T) {
	s := names.NewService()
	sink := diag.NewSink()
	rootName := s.InternConstant("Main")

	def := cst.MethodDef(nl(), "greet", false, nil, cst.LiteralNode(nl(), cst.NilLit, ""))

	tree, err := Node2Tree(s, sink, rootName, def, fileLoc)
	require.NoError(t, err)

	classDef := tree.(*at.ClassDef)
	method, ok := classDef.Rhs.(*at.MethodDef)
	require.True(t, ok)
	require.NotEmpty(t, method.Args)
	_, isBlockArg := method.Args[len(method.Args)-1].(*at.BlockArg)
	require.True(t, isBlockArg)
}

func TestNode2TreeClassDefWithExplicitSuperclass(t *testing.T) {
	s := names.NewService()
	sink := diag.NewSink()
	rootName := s.InternConstant("Main")

	super := cst.ConstNode(nl(), nil, "StandardError")
	classNode := cst.ClassDef(nl(), cst.ClassKind, cst.ConstNode(nl(), nil, "MyError"), super, nil)

	tree, err := Node2Tree(s, sink, rootName, classNode, fileLoc)
	require.NoError(t, err)

	root := tree.(*at.ClassDef)
	nested, ok := root.Rhs.(*at.ClassDef)
	require.True(t, ok)
	require.Len(t, nested.Ancestors, 1)
}

func TestNode2TreeBlockPassOutsideSendIsInternalError(t *testing.T) {
	s := names.NewService()
	sink := diag.NewSink()
	rootName := s.InternConstant("Main")

	_, err := Node2Tree(s, sink, rootName, cst.RetryNode(nl()), fileLoc)
	require.NoError(t, err)
	// Retry is a supported node kind (at.RetryNode) and desugars cleanly. A
	// BlockPass reached outside of a send's argument list is a shape
	// violation: it raises an internal error, which Node2Tree reports as a
	// returned error plus an InternalError diagnostic.
	_, err = Node2Tree(s, sink, rootName, cst.BlockPassNode(nl(), nil), fileLoc)
	require.Error(t, err)
	require.True(t, sink.HasErrors())
}

func nameOf(e at.Expr) names.NameRef {
	switch n := e.(type) {
	case *at.ConstantLit:
		return n.Symbol
	case *at.UnresolvedConstantLit:
		return n.Name
	default:
		panic("nameOf: not a constant node")
	}
}
