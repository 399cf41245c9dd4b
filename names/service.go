// Package names provides the process-wide name interner that desugar and
// the rewriters use to look up well-known symbols and to mint hygienic
// fresh names that can never collide with anything written in source.
package names

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-set/v3"

	"github.com/sobalang/soba/util"
)

// Kind distinguishes the namespace a NameRef was interned under. A UTF8
// name and a Constant name with the same text are always distinct refs.
type Kind uint8

const (
	UTF8 Kind = iota
	Constant
	// Unique marks names minted by FreshUnique; these never appear in the
	// UTF8/Constant tables and are never returned by Intern*.
	Unique
)

// UniqueKind tags the provenance of a fresh name, mirroring the small set
// of synthesis sites that call FreshUnique in desugar and the rewriters.
type UniqueKind uint8

const (
	TempLocal UniqueKind = iota
	RescueTemp
	DestructureTemp
	BlockArg
	SingletonClass
	EnumValueClass
	DescribeClass
	ItMethod
)

// NameRef is an opaque, comparable handle. The zero value is never issued
// by a Service and can be used as a sentinel for "no name."
type NameRef struct {
	kind Kind
	id   uint32
}

func (r NameRef) IsZero() bool { return r.kind == UTF8 && r.id == 0 }

// Service is the concrete, thread-safe name interner. All passes depend on
// it through the narrow Interner interface below; Service itself exists
// because every other component in this module needs a concrete collaborator
// to construct in tests.
type Service struct {
	mu sync.Mutex

	byText map[util.Pair[Kind, string]]NameRef
	texts  []string // indexed by NameRef.id, shared across UTF8/Constant

	fresh map[freshKey]NameRef

	reserved *set.Set[string]

	wellKnown map[string]NameRef
}

type freshKey struct {
	kind    UniqueKind
	base    string
	counter uint64
}

// Interner is the collaborator contract desugar and the rewriters depend
// on. Service satisfies it; tests may substitute a fake.
type Interner interface {
	InternUTF8(text string) NameRef
	InternConstant(text string) NameRef
	FreshUnique(kind UniqueKind, base string, counter uint64) NameRef
	Text(ref NameRef) string
	WellKnown(name string) (NameRef, bool)
}

// wellKnownNames is the closed table from SPEC_FULL §4.2.
var wellKnownNames = []string{
	"root", "Module", "T", "T_Helpers", "Magic", "Kernel",
	"Singleton", "Range", "Regexp", "Symbol", "Complex", "Rational", "todo",
}

// NewService constructs a Service with the well-known symbol table seeded.
func NewService() *Service {
	s := &Service{
		byText:    make(map[util.Pair[Kind, string]]NameRef),
		fresh:     make(map[freshKey]NameRef),
		reserved:  set.New[string](len(wellKnownNames)),
		wellKnown: make(map[string]NameRef, len(wellKnownNames)),
	}
	for _, name := range wellKnownNames {
		ref := s.internLocked(Constant, name)
		s.wellKnown[name] = ref
		s.reserved.Insert(name)
	}
	return s
}

func (s *Service) internLocked(kind Kind, text string) NameRef {
	key := util.NewPair(kind, text)
	if ref, ok := s.byText[key]; ok {
		return ref
	}
	id := uint32(len(s.texts))
	s.texts = append(s.texts, text)
	ref := NameRef{kind: kind, id: id}
	s.byText[key] = ref
	s.reserved.Insert(text)
	return ref
}

// InternUTF8 interns an arbitrary user-writable identifier (ivar, gvar,
// method name, ...). Re-interning the same text returns the same NameRef.
func (s *Service) InternUTF8(text string) NameRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internLocked(UTF8, text)
}

// InternConstant interns a constant-shaped name (CamelCase path segment).
func (s *Service) InternConstant(text string) NameRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internLocked(Constant, text)
}

// FreshUnique mints a NameRef guaranteed distinct from any name a user
// could have written, by construction: (kind, base, counter) triples are
// never reused, and the minted ref lives outside the UTF8/Constant tables.
func (s *Service) FreshUnique(kind UniqueKind, base string, counter uint64) NameRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := freshKey{kind: kind, base: base, counter: counter}
	if ref, ok := s.fresh[key]; ok {
		return ref
	}
	text := fmt.Sprintf("$%s_%d", base, counter)
	id := uint32(len(s.texts))
	s.texts = append(s.texts, text)
	ref := NameRef{kind: Unique, id: id}
	s.fresh[key] = ref
	return ref
}

// Text resolves a NameRef back to its textual form. Panics on a foreign
// NameRef (one not minted by this Service), which is always a programmer
// error, never a user-facing failure.
func (s *Service) Text(ref NameRef) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(ref.id) >= len(s.texts) {
		panic(fmt.Sprintf("names: foreign NameRef %+v", ref))
	}
	return s.texts[ref.id]
}

// WellKnown looks up one of the closed set of builtin symbols by name.
func (s *Service) WellKnown(name string) (NameRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.wellKnown[name]
	return ref, ok
}

// ReservedNames returns a copy of the membership set of every well-known
// and interned (UTF8 or constant) text currently known to the service, backing the
// "FreshUnique never collides with a source name" property test.
func (s *Service) ReservedNames() *set.Set[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved.Copy()
}
