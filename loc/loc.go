// Package loc is the shared source-location type used by the parse tree,
// the AT kernel, and the diagnostics sink. It exists as its own package so
// cst, at, and diag can all depend on it without an import cycle.
package loc

import "fmt"

// FileRef identifies a source file within a batch run. It is opaque outside
// this module's driver, which is the only component that maps FileRef back
// to a path.
type FileRef uint32

// Loc is a half-open byte-offset interval within one file, mirroring the
// antlr4-go Interval shape the teacher's parser produces. The zero value is
// None: Exists reports false for it, and it denotes "no real source
// position," distinct from a genuine zero-length range at offset 0 of a
// real file, which carries File != 0.
type Loc struct {
	File  FileRef
	Start int
	Stop  int
}

// None is the sentinel for synthesised nodes that must not participate in
// editor position mapping.
var None = Loc{}

// Exists reports whether this Loc denotes a real file position.
func (l Loc) Exists() bool { return l.File != 0 }

// ZeroLength reports whether this Loc spans no bytes (still Exists, just at
// a single point) — used for synthesised Self receivers and similar.
func (l Loc) ZeroLength() bool { return l.Start == l.Stop }

// Between returns the smallest Loc spanning both a and b. Both must be in
// the same file; mismatched files panics, since that is always a
// programmer error (constructing a node from locs of two different files).
func Between(a, b Loc) Loc {
	if a.File != b.File {
		panic(fmt.Sprintf("loc: Between across files %v and %v", a.File, b.File))
	}
	start, stop := a.Start, a.Stop
	if b.Start < start {
		start = b.Start
	}
	if b.Stop > stop {
		stop = b.Stop
	}
	return Loc{File: a.File, Start: start, Stop: stop}
}

// ZeroLengthAt returns a zero-length Loc at the start of l, used when
// desugar synthesises a receiver or other filler node at an existing site.
func ZeroLengthAt(l Loc) Loc {
	return Loc{File: l.File, Start: l.Start, Stop: l.Start}
}

func (l Loc) String() string {
	if !l.Exists() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%d:%d-%d", l.File, l.Start, l.Stop)
}

// Positioner is satisfied by anything carrying a Loc, matching the shape of
// frontend/ast.Positioner but over byte offsets rather than go/token.Pos.
type Positioner interface {
	Loc() Loc
}
