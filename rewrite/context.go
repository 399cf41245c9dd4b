package rewrite

import (
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/names"
)

// Context carries the collaborators and hygienic-name counter shared by
// the test-DSL and T::Enum rewriters, mirroring desugar.Context's shape.
type Context struct {
	Names names.Interner
	Diags *diag.Sink

	uniqueCounter uint64
}

func NewContext(interner names.Interner, sink *diag.Sink) *Context {
	return &Context{Names: interner, Diags: sink}
}

func (ctx *Context) fresh(kind names.UniqueKind, base string) names.NameRef {
	ctx.uniqueCounter++
	return ctx.Names.FreshUnique(kind, base, ctx.uniqueCounter)
}

func (ctx *Context) wellKnown(name string) names.NameRef {
	ref, ok := ctx.Names.WellKnown(name)
	if !ok {
		panic("rewrite: unknown well-known symbol " + name)
	}
	return ref
}
