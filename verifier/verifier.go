// Package verifier implements the post-desugar/post-rewrite sanity pass
// described in SPEC_FULL §4.7: a runnable check for the §3 structural
// invariants, so a future change to desugar or a rewriter that breaks one
// silently fails loudly instead of producing a tree downstream consumers
// must defend against.
package verifier

import (
	"github.com/pkg/errors"

	"github.com/sobalang/soba/at"
)

// Verify walks tree and returns the first invariant violation found, or
// nil if tree is well-formed. It is invoked once at the end of
// desugar.Node2Tree and may be invoked again after each rewriter pass.
func Verify(tree at.Expr) error {
	if _, ok := tree.(*at.ClassDef); !ok {
		return errors.Errorf("verifier: root node must be a ClassDef, got %T", tree)
	}

	var firstErr error
	tree.Transform(func(e at.Expr) at.Expr {
		if firstErr != nil {
			return e
		}
		if err := checkLoc(e); err != nil {
			firstErr = err
			return e
		}
		if err := checkMethodDefArgs(e); err != nil {
			firstErr = err
			return e
		}
		return e
	})
	return firstErr
}

// checkLoc enforces invariant 1: every node's Loc must either be a real
// range or exist with zero length. EmptyTree is exempt — it is the
// designated "nothing was here" sentinel (an absent else-branch, an
// omitted masgn splat side) and intentionally carries loc.None rather
// than a synthesized position near some enclosing node.
func checkLoc(e at.Expr) error {
	if _, ok := e.(*at.EmptyTree); ok {
		return nil
	}
	l := e.Loc()
	if !l.Exists() {
		return errors.Errorf("verifier: node %T carries a non-existent Loc", e)
	}
	return nil
}

// checkMethodDefArgs enforces invariant: every MethodDef.Args ends in
// exactly one BlockArg, which desugar's method-def lowering guarantees by
// always synthesizing one when the source omitted it.
func checkMethodDefArgs(e at.Expr) error {
	m, ok := e.(*at.MethodDef)
	if !ok {
		return nil
	}
	if len(m.Args) == 0 {
		return errors.Errorf("verifier: MethodDef %v has no trailing BlockArg", m.Name)
	}
	if _, ok := m.Args[len(m.Args)-1].(*at.BlockArg); !ok {
		return errors.Errorf("verifier: MethodDef %v does not end in a BlockArg", m.Name)
	}
	blockCount := 0
	for _, a := range m.Args {
		if _, ok := a.(*at.BlockArg); ok {
			blockCount++
		}
	}
	if blockCount != 1 {
		return errors.Errorf("verifier: MethodDef %v has %d BlockArgs, want exactly 1", m.Name, blockCount)
	}
	return nil
}
