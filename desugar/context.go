// Package desugar implements Node2Tree: the translation from the parse
// tree (cst.Node) into the AT kernel (at.Expr), following the rewrite
// catalogue of SPEC_FULL §4.3.
package desugar

import (
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// Context carries the per-scope state desugar needs: the interner and
// diagnostics collaborators, the hygienic-name counter (reset at each
// method/class scope), the enclosing block-arg name (for `yield`), and the
// enclosing method's location/name (for diagnostics about unnamed block
// parameters). It also tracks whether the current file is an RBI file,
// which restricts method bodies (SPEC_FULL §4.3 "RBI validation").
type Context struct {
	Names names.Interner
	Diags *diag.Sink

	uniqueCounter uint64

	blockArgName        names.NameRef
	hasBlockArg         bool
	blockArgSynthesized bool
	enclosingMethod     loc.Loc
	rbi                 bool
}

// NewContext constructs the top-level desugar context for one file.
func NewContext(interner names.Interner, sink *diag.Sink, rbi bool) *Context {
	return &Context{Names: interner, Diags: sink, rbi: rbi}
}

// childScope returns a copy of ctx reset for a new method/class scope: the
// unique counter restarts, but the RBI flag and collaborators carry over.
func (ctx *Context) childScope() *Context {
	cp := *ctx
	cp.uniqueCounter = 0
	return &cp
}

func (ctx *Context) fresh(kind names.UniqueKind, base string) names.NameRef {
	ctx.uniqueCounter++
	return ctx.Names.FreshUnique(kind, base, ctx.uniqueCounter)
}

func (ctx *Context) withBlockArg(name names.NameRef, synthesized bool) *Context {
	cp := *ctx
	cp.blockArgName = name
	cp.hasBlockArg = true
	cp.blockArgSynthesized = synthesized
	return &cp
}

// internalError raises a programmer-error-shaped failure: it emits one
// InternalError diagnostic (deduped per-Sink by diag.Sink.BeginError) and
// panics so Node2Tree's recover can abandon the file, per SPEC_FULL §7.
func (ctx *Context) internalError(l loc.Loc, format string, args ...any) {
	if b, ok := ctx.Diags.BeginError(l, diag.InternalError); ok {
		b.SetHeader(format, args...).Commit()
	}
	panic(internalErrorPanic{loc: l})
}

type internalErrorPanic struct {
	loc loc.Loc
}

// well-known name lookups, cached by the context's interner.
func (ctx *Context) wellKnown(name string) names.NameRef {
	ref, ok := ctx.Names.WellKnown(name)
	if !ok {
		// Every name in names.wellKnownNames is seeded at Service
		// construction; a miss here means a typo in this package, not a
		// user-facing condition.
		panic("desugar: unknown well-known symbol " + name)
	}
	return ref
}
