package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/names"
)

func newTestContext(s names.Interner) *Context {
	return NewContext(s, diag.NewSink())
}

func TestTestDSLRunDescribeProducesClassDef(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	describeFun := s.InternUTF8("describe")
	arg := at.String(l, s.InternUTF8("widget"))
	block := at.BlockN(l, nil, at.Empty(l))
	send := at.SendWithBlock(l, at.Empty(l), describeFun, []at.Expr{arg}, block)

	out := TestDSLRun(ctx, send)
	require.Len(t, out, 1)
	classDef, ok := out[0].(*at.ClassDef)
	require.True(t, ok)
	require.Contains(t, s.Text(nameOf(classDef.Name)), "widget")
}

func TestTestDSLRunItProducesSigVoidMethod(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	itFun := s.InternUTF8("it")
	arg := at.String(l, s.InternUTF8("does the thing"))
	block := at.BlockN(l, nil, at.Empty(l))
	send := at.SendWithBlock(l, at.Empty(l), itFun, []at.Expr{arg}, block)

	out := TestDSLRun(ctx, send)
	require.Len(t, out, 2, "sig_void statement then the method itself")

	sig, ok := out[0].(*at.Send)
	require.True(t, ok)
	require.Equal(t, "sig", s.Text(sig.Fun))

	method, ok := out[1].(*at.MethodDef)
	require.True(t, ok)
	require.NotZero(t, method.Flags&at.FlagRewriterSynthesized)
}

func TestTestDSLRunBeforeBuildsInitialize(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	beforeFun := s.InternUTF8("before")
	block := at.BlockN(l, nil, at.Empty(l))
	send := at.SendWithBlock(l, at.Empty(l), beforeFun, nil, block)

	out := TestDSLRun(ctx, send)
	require.Len(t, out, 2, "sig_void statement then the method itself")
	method, ok := out[1].(*at.MethodDef)
	require.True(t, ok)
	require.Equal(t, "initialize", s.Text(method.Name))
}

func TestTestDSLRunIgnoresUnmatchedSend(t *testing.T) {
	s := names.NewService()
	ctx := newTestContext(s)

	fun := s.InternUTF8("puts")
	send := at.Send0(l, at.Empty(l), fun)

	out := TestDSLRun(ctx, send)
	require.Len(t, out, 1)
	require.Equal(t, at.Expr(send), out[0])
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
