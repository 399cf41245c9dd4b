package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sobalang/soba/loc"
)

func TestBeginErrorCommitCollectsDiagnostic(t *testing.T) {
	s := NewSink()
	l := loc.Loc{File: 1, Start: 10, Stop: 12}
	b, ok := s.BeginError(l, DesugarUnsupportedNode)
	require.True(t, ok)
	b.SetHeader("unsupported node: %s", "Foo").Commit()

	require.Len(t, s.All(), 1)
	require.Equal(t, "unsupported node: Foo", s.All()[0].Error())
	require.Equal(t, DesugarUnsupportedNode, s.All()[0].Code())
}

func TestInternalErrorDedupedToOnePerSink(t *testing.T) {
	s := NewSink()
	l := loc.Loc{File: 1, Start: 0, Stop: 1}

	b1, ok1 := s.BeginError(l, InternalError)
	require.True(t, ok1)
	b1.SetHeader("boom").Commit()

	b2, ok2 := s.BeginError(l, InternalError)
	require.False(t, ok2, "second internal error in the same sink must be suppressed")
	b2.Commit()

	require.Len(t, s.All(), 1)
}

func TestSortedOrdersByLocationAndDedupes(t *testing.T) {
	s := NewSink()
	late, _ := s.BeginError(loc.Loc{File: 1, Start: 50, Stop: 51}, DesugarUndefUsage)
	late.Commit()
	early, _ := s.BeginError(loc.Loc{File: 1, Start: 5, Stop: 6}, DesugarUnsupportedNode)
	early.Commit()
	dup, _ := s.BeginError(loc.Loc{File: 1, Start: 5, Stop: 6}, DesugarUnsupportedNode)
	dup.Commit()

	sorted := s.Sorted()
	require.Len(t, sorted, 2)
	require.Equal(t, DesugarUnsupportedNode, sorted[0].Code())
	require.Equal(t, DesugarUndefUsage, sorted[1].Code())
}

func TestFormatWithCodeIncludesNotes(t *testing.T) {
	s := NewSink()
	l := loc.Loc{File: 1, Start: 0, Stop: 1}
	b, _ := s.BeginError(l, DesugarNoConstantReassignment)
	b.SetHeader("cannot reassign").AddErrorLine(l, "defined here").Commit()

	formatted := FormatWithCode(s.All()[0])
	require.Contains(t, formatted, "cannot reassign")
	require.Contains(t, formatted, "defined here")
}
