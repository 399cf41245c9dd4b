package diag

// Code is the diagnostic catalogue from SPEC_FULL §6. Values are an ABI:
// never renumber an existing code, only append.
type Code int

const (
	None Code = iota

	DesugarUnsupportedNode
	DesugarCodeInRBI
	DesugarNoConstantReassignment
	DesugarUnsupportedRestArgsDestructure
	DesugarInvalidSingletonDef
	DesugarIntegerOutOfRange
	DesugarFloatOutOfRange
	DesugarUnnamedBlockParameter
	DesugarUndefUsage

	InternalError

	RewriterTEnumConstNotEnumValue
	RewriterTEnumOutsideEnumsDo
)

func (c Code) String() string {
	switch c {
	case None:
		return "None"
	case DesugarUnsupportedNode:
		return "Desugar.UnsupportedNode"
	case DesugarCodeInRBI:
		return "Desugar.CodeInRBI"
	case DesugarNoConstantReassignment:
		return "Desugar.NoConstantReassignment"
	case DesugarUnsupportedRestArgsDestructure:
		return "Desugar.UnsupportedRestArgsDestructure"
	case DesugarInvalidSingletonDef:
		return "Desugar.InvalidSingletonDef"
	case DesugarIntegerOutOfRange:
		return "Desugar.IntegerOutOfRange"
	case DesugarFloatOutOfRange:
		return "Desugar.FloatOutOfRange"
	case DesugarUnnamedBlockParameter:
		return "Desugar.UnnamedBlockParameter"
	case DesugarUndefUsage:
		return "Desugar.UndefUsage"
	case InternalError:
		return "Internal.InternalError"
	case RewriterTEnumConstNotEnumValue:
		return "Rewriter.TEnumConstNotEnumValue"
	case RewriterTEnumOutsideEnumsDo:
		return "Rewriter.TEnumOutsideEnumsDo"
	default:
		return "Unknown"
	}
}

// IsInternal reports whether a code denotes a programmer-error-shaped
// failure (aborts the file) rather than a user-facing diagnostic (pass
// continues with a conservative substitution). See SPEC_FULL §7.
func (c Code) IsInternal() bool { return c == InternalError }
