package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sobalang/soba/at"
	"github.com/sobalang/soba/desugar"
	"github.com/sobalang/soba/diag"
	"github.com/sobalang/soba/internal/log"
	"github.com/sobalang/soba/loc"
	"github.com/sobalang/soba/names"
	"github.com/sobalang/soba/rewrite"
)

// LowerCmd is a debugging/demonstration entry point for the desugar+rewrite
// pipeline (SPEC_FULL §4.10), grounded on BuildCmd's shape. It accepts a
// small JSON fixture (see fixture.go) standing in for a real SL parse tree,
// since a real grammar is out of scope, and prints the resulting AT plus
// any diagnostics.
var LowerCmd = &cobra.Command{
	Use:          "lower ./fixture.json",
	Short:        "Lower a fixture parse tree through desugar and the rewriters",
	RunE:         runLower,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var lowerLogLevel *int

func init() {
	lowerLogLevel = LowerCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runLower(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*lowerLogLevel))

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read fixture: %w", err)
	}

	const file = loc.FileRef(1)
	tree, err := decodeFixture(file, data)
	if err != nil {
		return fmt.Errorf("could not decode fixture: %w", err)
	}

	interner := names.NewService()
	sink := diag.NewSink()
	rootName := interner.InternConstant(strings.TrimSuffix(args[0], ".json"))
	fileLoc := loc.Loc{File: file, Start: 0, Stop: len(data)}

	body, err := desugar.Node2Tree(interner, sink, rootName, tree, fileLoc)
	if err != nil {
		printDiagnostics(cmd, sink)
		return fmt.Errorf("desugar failed: %w", err)
	}

	ctx := rewrite.NewContext(interner, sink)
	root, ok := body.(*at.ClassDef)
	if !ok {
		return fmt.Errorf("lower: Node2Tree did not return a root ClassDef, got %T", body)
	}
	rewritten := rewriteTree(ctx, root).(*at.ClassDef)

	fmt.Fprintln(cmd.OutOrStdout(), dumpExpr(interner, rewritten, 0))
	printDiagnostics(cmd, sink)

	if sink.HasErrors() {
		return fmt.Errorf("lower: %d diagnostic(s) emitted", len(sink.All()))
	}
	return nil
}

func printDiagnostics(cmd *cobra.Command, sink *diag.Sink) {
	for _, d := range sink.Sorted() {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatWithCode(d))
	}
}

// rewriteTree drives the two rewriter entry points (§6 "External
// Interfaces") over the desugared tree: TEnumRun on every ClassDef, and
// TestDSLRun on every block-carrying Send found at a statement position,
// splicing its expansion back into the enclosing statement list.
func rewriteTree(ctx *rewrite.Context, e at.Expr) at.Expr {
	switch n := e.(type) {
	case *at.ClassDef:
		enumRewritten := rewrite.TEnumRun(ctx, n)
		cp := *enumRewritten
		cp.Rhs = rewriteStmtList(ctx, cp.Rhs)
		return &cp
	case *at.MethodDef:
		cp := *n
		cp.Body = rewriteStmtList(ctx, cp.Body)
		return &cp
	default:
		return e
	}
}

func flattenStmts(e at.Expr) []at.Expr {
	if seq, ok := e.(*at.InsSeq); ok {
		return append(append([]at.Expr{}, seq.Stats...), seq.Result)
	}
	return []at.Expr{e}
}

func rewriteStmtList(ctx *rewrite.Context, body at.Expr) at.Expr {
	var out []at.Expr
	for _, stmt := range flattenStmts(body) {
		if send, ok := stmt.(*at.Send); ok && send.Block != nil {
			for _, expanded := range rewrite.TestDSLRun(ctx, send) {
				out = append(out, rewriteTree(ctx, expanded))
			}
			continue
		}
		out = append(out, rewriteTree(ctx, stmt))
	}
	l := body.Loc()
	if len(out) == 0 {
		return at.Empty(l)
	}
	return at.InsSeqNode(l, out[:len(out)-1], out[len(out)-1])
}
