package diag

import (
	"fmt"

	"github.com/sobalang/soba/loc"
)

// Diagnostic is the common shape every concrete error in this package
// implements, following frontend/ilerr.IleError's one-struct-per-code
// pattern but keyed on loc.Loc rather than go/token.Pos.
type Diagnostic interface {
	error
	Code() Code
	Loc() loc.Loc
	// Notes are additional located lines attached via ErrorBuilder.AddErrorLine.
	Notes() []Note
}

// Note is a secondary located message attached to a Diagnostic.
type Note struct {
	Loc     loc.Loc
	Message string
}

// base is embedded by every concrete diagnostic type.
type base struct {
	at    loc.Loc
	notes []Note
}

func (b base) Loc() loc.Loc   { return b.at }
func (b base) Notes() []Note { return b.notes }

// FormatWithCode renders a Diagnostic the way the teacher's ilerr package
// does: "(E%03d) message", plus any attached notes.
func FormatWithCode(d Diagnostic) string {
	s := fmt.Sprintf("(E%03d) %s", d.Code(), d.Error())
	for _, n := range d.Notes() {
		s += fmt.Sprintf("\n    %s: %s", n.Loc, n.Message)
	}
	return s
}

type UnsupportedNode struct {
	base
	NodeKind string
}

func (e *UnsupportedNode) Code() Code { return DesugarUnsupportedNode }
func (e *UnsupportedNode) Error() string {
	return fmt.Sprintf("unsupported node: %s", e.NodeKind)
}

type CodeInRBI struct {
	base
}

func (e *CodeInRBI) Code() Code    { return DesugarCodeInRBI }
func (e *CodeInRBI) Error() string { return "method bodies are not allowed in RBI files" }

type NoConstantReassignment struct {
	base
	Name string
}

func (e *NoConstantReassignment) Code() Code { return DesugarNoConstantReassignment }
func (e *NoConstantReassignment) Error() string {
	return fmt.Sprintf("constant reassignment is not supported: %s", e.Name)
}

type UnsupportedRestArgsDestructure struct {
	base
}

func (e *UnsupportedRestArgsDestructure) Code() Code {
	return DesugarUnsupportedRestArgsDestructure
}
func (e *UnsupportedRestArgsDestructure) Error() string {
	return "destructuring a rest argument in this position is not supported"
}

type InvalidSingletonDef struct {
	base
}

func (e *InvalidSingletonDef) Code() Code    { return DesugarInvalidSingletonDef }
func (e *InvalidSingletonDef) Error() string { return "invalid singleton class definition" }

type IntegerOutOfRange struct {
	base
	Literal string
}

func (e *IntegerOutOfRange) Code() Code { return DesugarIntegerOutOfRange }
func (e *IntegerOutOfRange) Error() string {
	return fmt.Sprintf("integer literal out of range: %s", e.Literal)
}

type FloatOutOfRange struct {
	base
	Literal string
}

func (e *FloatOutOfRange) Code() Code { return DesugarFloatOutOfRange }
func (e *FloatOutOfRange) Error() string {
	return fmt.Sprintf("float literal out of range: %s", e.Literal)
}

type UnnamedBlockParameter struct {
	base
}

func (e *UnnamedBlockParameter) Code() Code { return DesugarUnnamedBlockParameter }
func (e *UnnamedBlockParameter) Error() string {
	return "yield used without a named block parameter; a synthetic one was substituted"
}

type UndefUsage struct {
	base
	Name string
}

func (e *UndefUsage) Code() Code { return DesugarUndefUsage }
func (e *UndefUsage) Error() string {
	return fmt.Sprintf("undef is discouraged: %s", e.Name)
}

type InternalErrorDiag struct {
	base
	Message string
}

func (e *InternalErrorDiag) Code() Code    { return InternalError }
func (e *InternalErrorDiag) Error() string { return e.Message }

type TEnumConstNotEnumValue struct {
	base
	Name string
}

func (e *TEnumConstNotEnumValue) Code() Code { return RewriterTEnumConstNotEnumValue }
func (e *TEnumConstNotEnumValue) Error() string {
	return fmt.Sprintf("all constants defined on a T::Enum must be unique instances of the enum, but %s is not", e.Name)
}

type TEnumOutsideEnumsDo struct {
	base
	Name string
}

func (e *TEnumOutsideEnumsDo) Code() Code { return RewriterTEnumOutsideEnumsDo }
func (e *TEnumOutsideEnumsDo) Error() string {
	return fmt.Sprintf("definition of enum value %s must be within the `enums do` block", e.Name)
}
