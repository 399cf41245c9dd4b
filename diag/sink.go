package diag

import (
	"fmt"
	"sort"

	xtgoset "github.com/xtgo/set"

	"github.com/sobalang/soba/loc"
)

// Sink collects diagnostics emitted during a single file's pass pipeline,
// in traversal order. It has no locking and is not safe for concurrent use:
// each goroutine lowering a file needs its own Sink.
type Sink struct {
	diags []Diagnostic
	// internalSeen dedupes InternalError to one diagnostic per Sink, per
	// SPEC_FULL §7 ("no logging of the same failure twice").
	internalSeen bool
}

// NewSink constructs an empty diagnostics collector.
func NewSink() *Sink { return &Sink{} }

// ErrorBuilder is returned by BeginError and lets the caller attach a
// header, located notes, and a fix-it before the diagnostic is committed.
type ErrorBuilder struct {
	sink *Sink
	diag Diagnostic
	drop bool
}

// SetHeader overrides the diagnostic's rendered message. fmtArgs follow
// fmt.Sprintf conventions; header replaces what Error() would otherwise say
// by wrapping the diagnostic in a headered decorator at commit time.
func (b *ErrorBuilder) SetHeader(format string, args ...any) *ErrorBuilder {
	if b == nil || b.drop {
		return b
	}
	b.diag = &headered{Diagnostic: b.diag, header: sprintf(format, args...)}
	return b
}

// AddErrorLine attaches a secondary located note.
func (b *ErrorBuilder) AddErrorLine(l loc.Loc, format string, args ...any) *ErrorBuilder {
	if b == nil || b.drop {
		return b
	}
	if h, ok := b.diag.(*headered); ok {
		h.notes = append(h.notes, Note{Loc: l, Message: sprintf(format, args...)})
	} else {
		b.diag = &headered{Diagnostic: b.diag, notes: []Note{{Loc: l, Message: sprintf(format, args...)}}}
	}
	return b
}

// ReplaceWith attaches a fix-it suggestion label; rendering is left to the
// caller (a CLI or editor integration), so this only records it as a note.
func (b *ErrorBuilder) ReplaceWith(label string, l loc.Loc, replacement string) *ErrorBuilder {
	return b.AddErrorLine(l, "%s: replace with `%s`", label, replacement)
}

// Commit finalizes the diagnostic into the Sink. Desugar and the rewriters
// must call Commit (directly or via BeginError's caller convention) for
// the diagnostic to actually be collected.
func (b *ErrorBuilder) Commit() {
	if b == nil || b.drop {
		return
	}
	b.sink.diags = append(b.sink.diags, b.diag)
}

type headered struct {
	Diagnostic
	header string
	notes  []Note
}

func (h *headered) Error() string {
	if h.header != "" {
		return h.header
	}
	return h.Diagnostic.Error()
}
func (h *headered) Notes() []Note { return append(h.Diagnostic.Notes(), h.notes...) }

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// BeginError opens a diagnostic for code at l. ok is false when the
// diagnostic is suppressed: no allowlist is configured in this
// implementation, so that happens only for a second InternalError in the
// same Sink, whose builder drops it on Commit (see SPEC_FULL §4.8). Callers
// must still branch on ok.
func (s *Sink) BeginError(l loc.Loc, code Code) (*ErrorBuilder, bool) {
	if code.IsInternal() && s.internalSeen {
		return &ErrorBuilder{sink: s, drop: true}, false
	}
	if code.IsInternal() {
		s.internalSeen = true
	}
	d := newDiagnostic(l, code)
	return &ErrorBuilder{sink: s, diag: d}, true
}

func newDiagnostic(l loc.Loc, code Code) Diagnostic {
	b := base{at: l}
	switch code {
	case DesugarUnsupportedNode:
		return &UnsupportedNode{base: b}
	case DesugarCodeInRBI:
		return &CodeInRBI{base: b}
	case DesugarNoConstantReassignment:
		return &NoConstantReassignment{base: b}
	case DesugarUnsupportedRestArgsDestructure:
		return &UnsupportedRestArgsDestructure{base: b}
	case DesugarInvalidSingletonDef:
		return &InvalidSingletonDef{base: b}
	case DesugarIntegerOutOfRange:
		return &IntegerOutOfRange{base: b}
	case DesugarFloatOutOfRange:
		return &FloatOutOfRange{base: b}
	case DesugarUnnamedBlockParameter:
		return &UnnamedBlockParameter{base: b}
	case DesugarUndefUsage:
		return &UndefUsage{base: b}
	case InternalError:
		return &InternalErrorDiag{base: b}
	case RewriterTEnumConstNotEnumValue:
		return &TEnumConstNotEnumValue{base: b}
	case RewriterTEnumOutsideEnumsDo:
		return &TEnumOutsideEnumsDo{base: b}
	default:
		panic("diag: unknown code")
	}
}

// All returns every committed diagnostic in traversal (emission) order.
func (s *Sink) All() []Diagnostic { return s.diags }

// HasErrors reports whether any diagnostic was committed.
func (s *Sink) HasErrors() bool { return len(s.diags) > 0 }

// sortableDiags adapts a []Diagnostic to sort.Interface, ordering first by
// file, then by start offset, then by code — the order Sorted renders in.
type sortableDiags []Diagnostic

func (d sortableDiags) Len() int { return len(d) }
func (d sortableDiags) Less(i, j int) bool {
	li, lj := d[i].Loc(), d[j].Loc()
	if li.File != lj.File {
		return li.File < lj.File
	}
	if li.Start != lj.Start {
		return li.Start < lj.Start
	}
	return d[i].Code() < d[j].Code()
}
func (d sortableDiags) Swap(i, j int) { d[i], d[j] = d[j], d[i] }

// Sorted returns the committed diagnostics ordered by location and
// deduplicated by (file, start offset, code), using xtgo/set's in-place sorted-slice
// dedup over our own sort.Interface adapter. Traversal order is already
// close to sorted, so the sort.Sort pass here is cheap.
func (s *Sink) Sorted() []Diagnostic {
	cp := make(sortableDiags, len(s.diags))
	copy(cp, s.diags)
	sort.Sort(cp)
	n := xtgoset.Uniq(cp)
	return cp[:n]
}
