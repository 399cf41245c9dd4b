package desugar

import (
	"math"
	"strconv"
	"strings"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/cst"
	"github.com/sobalang/soba/diag"
)

func desugarLiteral(ctx *Context, n *cst.Literal) at.Expr {
	switch n.Kind {
	case cst.IntLit:
		clean := strings.ReplaceAll(n.Text, "_", "")
		complement := strings.HasPrefix(clean, "~")
		clean = strings.TrimPrefix(clean, "~")
		v, err := strconv.ParseInt(clean, 0, 64)
		if err != nil {
			if b, ok := ctx.Diags.BeginError(n.Loc(), diag.DesugarIntegerOutOfRange); ok {
				b.SetHeader("integer literal out of range: %s", n.Text).Commit()
			}
			return at.Int(n.Loc(), 0)
		}
		if complement {
			v = ^v
		}
		return at.Int(n.Loc(), v)
	case cst.FloatLit:
		v, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			if b, ok := ctx.Diags.BeginError(n.Loc(), diag.DesugarFloatOutOfRange); ok {
				b.SetHeader("float literal out of range: %s", n.Text).Commit()
			}
			return at.Float(n.Loc(), math.NaN())
		}
		return at.Float(n.Loc(), v)
	case cst.StringLit:
		return at.String(n.Loc(), ctx.Names.InternUTF8(n.Text))
	case cst.SymbolLit:
		return at.Symbol(n.Loc(), ctx.Names.InternUTF8(n.Text))
	case cst.TrueLit:
		return at.True(n.Loc())
	case cst.FalseLit:
		return at.False(n.Loc())
	case cst.NilLit:
		return at.Nil(n.Loc())
	case cst.FileLit:
		return at.String(n.Loc(), ctx.Names.InternUTF8(""))
	case cst.LineLit:
		return at.Int(n.Loc(), int64(n.Loc().Start))
	default:
		ctx.internalError(n.Loc(), "unknown literal kind %d", n.Kind)
		return at.Empty(n.Loc())
	}
}

func desugarIdent(ctx *Context, n *cst.Ident) at.Expr {
	ref := ctx.Names.InternUTF8(n.Name)
	if n.Kind == cst.LocalVar {
		return at.LocalVar(n.Loc(), ref)
	}
	var kind at.IdentKind
	switch n.Kind {
	case cst.InstanceVar:
		kind = at.IdentInstance
	case cst.ClassVar:
		kind = at.IdentClass
	case cst.GlobalVar, cst.NthRefVar:
		kind = at.IdentGlobal
	}
	return at.UnresolvedIdentNode(n.Loc(), kind, ref)
}

func desugarConst(ctx *Context, n *cst.Const) at.Expr {
	scope := node2TreeImpl(ctx, n.Scope)
	return at.UnresolvedConstant(n.Loc(), scope, ctx.Names.InternConstant(n.Name))
}
