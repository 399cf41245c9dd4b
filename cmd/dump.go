package cmd

import (
	"fmt"
	"strings"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/names"
)

// dumpExpr renders an AT tree as indented pseudo-Ruby, a debugging aid for
// the `lower` command (SPEC_FULL §4.10) — there is no production consumer
// of this output, so it favours readability over a stable grammar.
func dumpExpr(interner names.Interner, e at.Expr, indent int) string {
	pad := strings.Repeat("  ", indent)
	if e == nil {
		return pad + "<nil>"
	}
	switch n := e.(type) {
	case *at.EmptyTree:
		return pad + "<empty>"
	case *at.Literal:
		return pad + dumpLiteral(interner, n)
	case *at.Local:
		return pad + interner.Text(n.Name)
	case *at.UnresolvedIdent:
		return pad + interner.Text(n.Name)
	case *at.ConstantLit:
		return pad + interner.Text(n.Symbol)
	case *at.UnresolvedConstantLit:
		scope := dumpExpr(interner, n.Scope, 0)
		if _, empty := n.Scope.(*at.EmptyTree); empty {
			return pad + interner.Text(n.Name)
		}
		return pad + scope + "::" + interner.Text(n.Name)
	case *at.Self:
		return pad + "self"
	case *at.Retry:
		return pad + "retry"
	case *at.ZSuperArgs:
		return pad + "<zsuper-args>"

	case *at.Assign:
		return pad + dumpExpr(interner, n.Lhs, 0) + " = " + strings.TrimSpace(dumpExpr(interner, n.Rhs, 0))

	case *at.Send:
		return pad + dumpSend(interner, n)

	case *at.If:
		var b strings.Builder
		fmt.Fprintf(&b, "%sif %s\n", pad, strings.TrimSpace(dumpExpr(interner, n.Cond, 0)))
		b.WriteString(dumpExpr(interner, n.Then, indent+1) + "\n")
		fmt.Fprintf(&b, "%selse\n", pad)
		b.WriteString(dumpExpr(interner, n.Else, indent+1) + "\n")
		fmt.Fprintf(&b, "%send", pad)
		return b.String()

	case *at.While:
		var b strings.Builder
		fmt.Fprintf(&b, "%swhile %s\n", pad, strings.TrimSpace(dumpExpr(interner, n.Cond, 0)))
		b.WriteString(dumpExpr(interner, n.Body, indent+1) + "\n")
		fmt.Fprintf(&b, "%send", pad)
		return b.String()

	case *at.Break:
		return pad + "break " + strings.TrimSpace(dumpExpr(interner, n.Value, 0))
	case *at.Next:
		return pad + "next " + strings.TrimSpace(dumpExpr(interner, n.Value, 0))
	case *at.Return:
		return pad + "return " + strings.TrimSpace(dumpExpr(interner, n.Value, 0))

	case *at.InsSeq:
		lines := make([]string, 0, len(n.Stats)+1)
		for _, s := range n.Stats {
			lines = append(lines, dumpExpr(interner, s, indent))
		}
		lines = append(lines, dumpExpr(interner, n.Result, indent))
		return strings.Join(lines, "\n")

	case *at.ClassDef:
		return pad + dumpClassDef(interner, n, indent)

	case *at.MethodDef:
		return pad + dumpMethodDef(interner, n, indent)

	case *at.Array:
		elems := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = strings.TrimSpace(dumpExpr(interner, el, 0))
		}
		return pad + "[" + strings.Join(elems, ", ") + "]"

	case *at.Hash:
		pairs := make([]string, len(n.Keys))
		for i := range n.Keys {
			pairs[i] = strings.TrimSpace(dumpExpr(interner, n.Keys[i], 0)) + " => " + strings.TrimSpace(dumpExpr(interner, n.Values[i], 0))
		}
		return pad + "{" + strings.Join(pairs, ", ") + "}"

	case *at.Splat:
		return pad + "*" + strings.TrimSpace(dumpExpr(interner, n.Value, 0))

	case *at.Unsafe:
		return pad + "T.unsafe(" + strings.TrimSpace(dumpExpr(interner, n.Value, 0)) + ")"

	case *at.Let:
		return pad + "T.let(" + strings.TrimSpace(dumpExpr(interner, n.Value, 0)) + ", " + strings.TrimSpace(dumpExpr(interner, n.Type, 0)) + ")"

	case *at.Rescue:
		var b strings.Builder
		fmt.Fprintf(&b, "%sbegin\n%s\n", pad, dumpExpr(interner, n.Body, indent+1))
		for _, c := range n.Cases {
			fmt.Fprintf(&b, "%srescue\n%s\n", pad, dumpExpr(interner, c.Body, indent+1))
		}
		fmt.Fprintf(&b, "%send", pad)
		return b.String()

	case *at.Arg:
		return interner.Text(n.Name)
	case *at.BlockArg:
		return "&" + strings.TrimSpace(dumpExpr(interner, n.Inner, 0))
	case *at.RestArg:
		return "*" + strings.TrimSpace(dumpExpr(interner, n.Inner, 0))
	case *at.OptionalArg:
		return strings.TrimSpace(dumpExpr(interner, n.Inner, 0)) + " = " + strings.TrimSpace(dumpExpr(interner, n.Default, 0))
	case *at.KeywordArg:
		return strings.TrimSpace(dumpExpr(interner, n.Inner, 0)) + ":"
	case *at.ShadowArg:
		return ";" + strings.TrimSpace(dumpExpr(interner, n.Inner, 0))

	default:
		return pad + fmt.Sprintf("<%T>", e)
	}
}

func dumpLiteral(interner names.Interner, n *at.Literal) string {
	switch n.Kind {
	case at.LitInt:
		return fmt.Sprintf("%d", n.Int)
	case at.LitFloat:
		return fmt.Sprintf("%g", n.Flt)
	case at.LitString:
		return fmt.Sprintf("%q", interner.Text(n.Name))
	case at.LitSymbol:
		return ":" + interner.Text(n.Name)
	case at.LitTrue:
		return "true"
	case at.LitFalse:
		return "false"
	case at.LitNil:
		return "nil"
	default:
		return "<literal>"
	}
}

func dumpSend(interner names.Interner, n *at.Send) string {
	var b strings.Builder
	if _, empty := n.Recv.(*at.EmptyTree); !empty {
		b.WriteString(strings.TrimSpace(dumpExpr(interner, n.Recv, 0)) + ".")
	}
	b.WriteString(interner.Text(n.Fun))
	if len(n.Args) > 0 {
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = strings.TrimSpace(dumpExpr(interner, a, 0))
		}
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if n.Block != nil {
		b.WriteString(" { ")
		if len(n.Block.Args) > 0 {
			params := make([]string, len(n.Block.Args))
			for i, p := range n.Block.Args {
				params[i] = strings.TrimSpace(dumpExpr(interner, p, 0))
			}
			b.WriteString("|" + strings.Join(params, ", ") + "| ")
		}
		b.WriteString(strings.TrimSpace(dumpExpr(interner, n.Block.Body, 0)) + " }")
	}
	return b.String()
}

func dumpClassDef(interner names.Interner, n *at.ClassDef, indent int) string {
	pad := strings.Repeat("  ", indent)
	kw := "class"
	if n.Kind == at.ModuleKind {
		kw = "module"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", kw, strings.TrimSpace(dumpExpr(interner, n.Name, 0)))
	if len(n.Ancestors) > 0 {
		ancestors := make([]string, len(n.Ancestors))
		for i, a := range n.Ancestors {
			ancestors[i] = strings.TrimSpace(dumpExpr(interner, a, 0))
		}
		fmt.Fprintf(&b, " < %s", strings.Join(ancestors, ", "))
	}
	b.WriteString("\n")
	b.WriteString(dumpExpr(interner, n.Rhs, indent+1))
	fmt.Fprintf(&b, "\n%send", pad)
	return b.String()
}

func dumpMethodDef(interner names.Interner, n *at.MethodDef, indent int) string {
	pad := strings.Repeat("  ", indent)
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = strings.TrimSpace(dumpExpr(interner, a, 0))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(%s)\n", interner.Text(n.Name), strings.Join(args, ", "))
	b.WriteString(dumpExpr(interner, n.Body, indent+1))
	fmt.Fprintf(&b, "\n%send", pad)
	return b.String()
}
