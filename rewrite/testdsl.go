package rewrite

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/internal/log"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

var logger = log.DefaultLogger.With("section", "rewrite")

// TestDSLRun matches a send against the minitest-style DSL shapes of
// SPEC_FULL §4.5 (before/after/describe/it) and returns its expansion as a
// flat statement list, or a single-element slice containing send unchanged
// if it does not match any of them.
func TestDSLRun(ctx *Context, send *at.Send) []at.Expr {
	if send.Block == nil {
		return []at.Expr{send}
	}
	fun := ctx.Names.Text(send.Fun)
	logger.Debug("rewrite: matching test-DSL send", "fun", fun)
	switch {
	case fun == "before" && len(send.Args) == 0:
		return handleBeforeAfter(ctx, send, true)
	case fun == "after" && len(send.Args) == 0:
		return handleBeforeAfter(ctx, send, false)
	case fun == "describe" && len(send.Args) == 1:
		return handleDescribe(ctx, send)
	case fun == "it" && len(send.Args) == 1:
		return handleIt(ctx, send)
	default:
		return []at.Expr{send}
	}
}

// handleBeforeAfter builds the `initialize`/`<after-angles>` method per
// §4.5's before/after rule: apply ConstantMover to the block body, wrap the
// method in a sig_void signature, flag it RewriterSynthesized.
func handleBeforeAfter(ctx *Context, send *at.Send, isBefore bool) []at.Expr {
	l := send.Loc()
	mover := &ConstantMover{Names: ctx.Names}
	body, moved := mover.Run(send.Block.Body)

	var methodName names.NameRef
	if isBefore {
		methodName = ctx.Names.InternUTF8("initialize")
	} else {
		methodName = ctx.Names.InternUTF8("<after-angles>")
	}

	sig := sigVoidStmt(ctx, l)
	blkArg := at.BlockArgNode(l, at.ArgNode(l, ctx.Names.InternUTF8("blkArg")))
	method := at.MethodWithArgs(l, l, methodName, []at.Expr{blkArg}, body, at.FlagRewriterSynthesized)

	out := append([]at.Expr{}, moved...)
	return append(out, sig, method)
}

// handleDescribe produces the ClassDef named `<describe 'ARG'>` per §4.5.
func handleDescribe(ctx *Context, send *at.Send) []at.Expr {
	l := send.Loc()
	display := displayString(ctx, send.Args[0])
	name := ctx.Names.InternConstant("<describe '" + display + "'>")
	body := PrepareBody(ctx, send.Block.Body)
	classDef := at.Class(l, l, at.Constant(l, name), []at.Expr{at.SelfNode(l)}, body)
	return []at.Expr{classDef}
}

// handleIt produces the MethodDef named `<it 'ARG'>` per §4.5.
func handleIt(ctx *Context, send *at.Send) []at.Expr {
	l := send.Loc()
	display := displayString(ctx, send.Args[0])
	name := ctx.Names.InternUTF8("<it '" + display + "'>")

	mover := &ConstantMover{Names: ctx.Names}
	body, moved := mover.Run(send.Block.Body)

	sig := sigVoidStmt(ctx, l)
	blkArg := at.BlockArgNode(l, at.ArgNode(l, ctx.Names.InternUTF8("blkArg")))
	method := at.MethodWithArgs(l, l, name, []at.Expr{blkArg}, body, at.FlagRewriterSynthesized)

	out := append([]at.Expr{}, moved...)
	return append(out, sig, method)
}

func sigVoidStmt(ctx *Context, l loc.Loc) at.Expr {
	return at.SigVoid(l, ctx.Names.InternUTF8("sig"), ctx.Names.InternUTF8("void"))
}

// displayString renders a describe/it argument as a bare textual form,
// matching §4.5's "string/symbol/constant literals as their textual form;
// anything else via a generic stringify" rule. Non-literal arguments have
// no source text available post-desugar, so they fall back to a fixed
// placeholder rather than fabricating one.
func displayString(ctx *Context, arg at.Expr) string {
	switch n := arg.(type) {
	case *at.Literal:
		if n.Kind == at.LitString || n.Kind == at.LitSymbol {
			return ctx.Names.Text(n.Name)
		}
	case *at.ConstantLit:
		return ctx.Names.Text(n.Symbol)
	case *at.UnresolvedConstantLit:
		return ctx.Names.Text(n.Name)
	}
	return "dynamic"
}

// PrepareBody recurses into body's top-level statements, applying
// TestDSLRun to any send that matches, and flattening the resulting
// splice back into the statement list. Non-matching statements (including
// non-Send expressions) pass through unchanged.
func PrepareBody(ctx *Context, body at.Expr) at.Expr {
	stmts := flattenStmts(body)
	var out []at.Expr
	for _, s := range stmts {
		if send, ok := s.(*at.Send); ok {
			out = append(out, TestDSLRun(ctx, send)...)
			continue
		}
		out = append(out, s)
	}
	l := body.Loc()
	if len(out) == 0 {
		return at.Empty(l)
	}
	return at.InsSeqNode(l, out[:len(out)-1], out[len(out)-1])
}

func flattenStmts(e at.Expr) []at.Expr {
	if seq, ok := e.(*at.InsSeq); ok {
		return append(append([]at.Expr{}, seq.Stats...), seq.Result)
	}
	return []at.Expr{e}
}
