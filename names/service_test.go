package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternIsIdempotent(t *testing.T) {
	s := NewService()
	a := s.InternUTF8("foo")
	b := s.InternUTF8("foo")
	require.Equal(t, a, b)
	require.Equal(t, "foo", s.Text(a))
}

func TestInternUTF8AndConstantAreDistinctNamespaces(t *testing.T) {
	s := NewService()
	utf8Ref := s.InternUTF8("Foo")
	constRef := s.InternConstant("Foo")
	require.NotEqual(t, utf8Ref, constRef)
}

func TestWellKnownSymbolsAreSeeded(t *testing.T) {
	s := NewService()
	for _, name := range wellKnownNames {
		ref, ok := s.WellKnown(name)
		require.True(t, ok, name)
		require.Equal(t, name, s.Text(ref))
	}
	_, ok := s.WellKnown("NotASymbol")
	require.False(t, ok)
}

func TestFreshUniqueIsDeterministicAndDistinct(t *testing.T) {
	s := NewService()
	a := s.FreshUnique(TempLocal, "recv", 0)
	b := s.FreshUnique(TempLocal, "recv", 0)
	c := s.FreshUnique(TempLocal, "recv", 1)
	require.Equal(t, a, b, "same triple mints the same ref")
	require.NotEqual(t, a, c, "different counter mints a different ref")
}

func TestFreshUniqueNeverCollidesWithReservedNames(t *testing.T) {
	s := NewService()
	s.InternConstant("Foo")
	fresh := s.FreshUnique(TempLocal, "Foo", 0)
	reserved := s.ReservedNames()
	require.False(t, reserved.Contains(s.Text(fresh)))
}

func TestConcurrentInternIsSafe(t *testing.T) {
	s := NewService()
	done := make(chan NameRef, 100)
	for i := 0; i < 100; i++ {
		go func() {
			done <- s.InternUTF8("shared")
		}()
	}
	first := <-done
	for i := 1; i < 100; i++ {
		require.Equal(t, first, <-done)
	}
}
