package rewrite

import (
	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
)

// TEnumRun implements SPEC_FULL §4.6: a ClassDef whose first ancestor is
// T::Enum gets `extend T::Helpers; abstract!; sealed!` prepended, and every
// `Name = Magic.<self-new>(self)` (optionally `T.let`-wrapped) statement becomes a
// nested singleton class plus a `T.let`-typed reassignment. classDef is
// returned unchanged if it is not a T::Enum subclass.
func TEnumRun(ctx *Context, classDef *at.ClassDef) *at.ClassDef {
	if len(classDef.Ancestors) == 0 || !isTEnumAncestor(ctx, classDef.Ancestors[0]) {
		return classDef
	}
	l := classDef.Loc()
	logger.Debug("rewrite: T::Enum subclass found", "class", classDef.Name)

	out := []at.Expr{
		at.Send1(l, at.SelfNode(l), ctx.Names.InternUTF8("extend"), at.Constant(l, ctx.wellKnown("T_Helpers"))),
		at.Send0(l, at.SelfNode(l), ctx.Names.InternUTF8("abstract!")),
		at.Send0(l, at.SelfNode(l), ctx.Names.InternUTF8("sealed!")),
	}

	for _, stmt := range flattenStmts(classDef.Rhs) {
		if send, ok := stmt.(*at.Send); ok && ctx.Names.Text(send.Fun) == "enums" && send.Block != nil {
			for _, inner := range flattenStmts(send.Block.Body) {
				out = append(out, rewriteEnumStmt(ctx, classDef, inner, true)...)
			}
			continue
		}
		out = append(out, rewriteEnumStmt(ctx, classDef, stmt, false)...)
	}

	cp := *classDef
	if len(out) == 0 {
		cp.Rhs = at.Empty(l)
	} else {
		cp.Rhs = at.InsSeqNode(l, out[:len(out)-1], out[len(out)-1])
	}
	return &cp
}

func rewriteEnumStmt(ctx *Context, classDef *at.ClassDef, stmt at.Expr, insideEnums bool) []at.Expr {
	name, ok := matchEnumValueAssign(ctx, stmt)
	if !ok {
		if b, okb := ctx.Diags.BeginError(stmt.Loc(), diag.RewriterTEnumConstNotEnumValue); okb {
			b.SetHeader("all constants defined on a T::Enum must be unique instances of the enum").Commit()
		}
		return []at.Expr{stmt}
	}
	if !insideEnums {
		if b, okb := ctx.Diags.BeginError(stmt.Loc(), diag.RewriterTEnumOutsideEnumsDo); okb {
			b.SetHeader("definition of enum value `%s` must be within the `enums do` block", ctx.Names.Text(name)).Commit()
		}
	}
	return buildEnumValueRewrite(ctx, classDef.Name, name, stmt.Loc())
}

// matchEnumValueAssign recognises `Name = Magic.<self-new>(self)` and
// `Name = T.let(Magic.<self-new>(self), Type)`.
func matchEnumValueAssign(ctx *Context, stmt at.Expr) (names.NameRef, bool) {
	assign, ok := stmt.(*at.Assign)
	if !ok {
		return names.NameRef{}, false
	}
	lhs, ok := assign.Lhs.(*at.UnresolvedConstantLit)
	if !ok {
		return names.NameRef{}, false
	}
	rhs := assign.Rhs
	if let, ok := rhs.(*at.Send); ok && isTLet(ctx, let) {
		if isMagicSelfNew(ctx, let.Args[0]) {
			return lhs.Name, true
		}
		return names.NameRef{}, false
	}
	if isMagicSelfNew(ctx, rhs) {
		return lhs.Name, true
	}
	return names.NameRef{}, false
}

func isTLet(ctx *Context, send *at.Send) bool {
	return isWellKnownConstant(ctx, send.Recv, "T") && ctx.Names.Text(send.Fun) == "let" && len(send.Args) == 2
}

func isMagicSelfNew(ctx *Context, e at.Expr) bool {
	send, ok := e.(*at.Send)
	if !ok || !isWellKnownConstant(ctx, send.Recv, "Magic") || ctx.Names.Text(send.Fun) != "<self-new>" || len(send.Args) != 1 {
		return false
	}
	_, isSelf := send.Args[0].(*at.Self)
	return isSelf
}

func isWellKnownConstant(ctx *Context, e at.Expr, name string) bool {
	c, ok := e.(*at.ConstantLit)
	if !ok {
		return false
	}
	want, ok := ctx.Names.WellKnown(name)
	return ok && c.Symbol == want
}

// isTEnumAncestor matches the `T::Enum` constant chain: an UnresolvedConstantLit
// named "Enum" scoped under one named "T", or a resolved ConstantLit
// interned as "Enum".
func isTEnumAncestor(ctx *Context, e at.Expr) bool {
	switch n := e.(type) {
	case *at.UnresolvedConstantLit:
		if ctx.Names.Text(n.Name) != "Enum" {
			return false
		}
		scope, ok := n.Scope.(*at.UnresolvedConstantLit)
		return ok && ctx.Names.Text(scope.Name) == "T"
	case *at.ConstantLit:
		return ctx.Names.Text(n.Symbol) == "Enum"
	default:
		return false
	}
}

// buildEnumValueRewrite implements §4.6 step 4: a nested singleton class
// plus the `T.let`-typed reassignment.
func buildEnumValueRewrite(ctx *Context, enclosing at.Expr, name names.NameRef, l loc.Loc) []at.Expr {
	nestedName := ctx.fresh(names.EnumValueClass, ctx.Names.Text(name))
	body := at.InsSeq1(l,
		at.Send1(l, at.SelfNode(l), ctx.Names.InternUTF8("include"), at.Constant(l, ctx.wellKnown("Singleton"))),
		at.Send0(l, at.SelfNode(l), ctx.Names.InternUTF8("final!")),
	)
	nestedClass := at.Class(l, l, at.Constant(l, nestedName), []at.Expr{at.CpRef(enclosing)}, body)

	instanceCall := at.Send0(l, at.Constant(l, nestedName), ctx.Names.InternUTF8("instance"))
	letCall := at.Send2(l, at.Constant(l, ctx.wellKnown("T")), ctx.Names.InternUTF8("let"), instanceCall, at.Constant(l, nestedName))
	assign := at.Assign_(l, at.UnresolvedConstant(l, at.Empty(l), name), letCall)

	return []at.Expr{nestedClass, assign}
}
