// Package gateerr defines the exhaustive set of error kinds raised by the
// gate netlist engine, and the sentinel values used to classify them with
// errors.Is.
//
// Every kind here corresponds 1:1 to a row of the error-kind table: local
// errors leave the subnet builder's invariants untouched (the operation
// either completes fully or is a no-op); EncoderUnsupported is the one
// fatal kind, meaning the caller must abort rather than retry.
package gateerr

import "errors"

// Kind classifies a gate error for programmatic handling.
type Kind int

const (
	// InvalidCell: a negative, reserved, or unsupported cell type was used
	// where a concrete gate type was required.
	InvalidCell Kind = iota
	// BadLink: a link index or output port is out of range.
	BadLink
	// CycleDetected: a replace/addSubnet mapping would introduce a cycle.
	CycleDetected
	// NotRegroupable: addCellTree was called on a non-associative symbol.
	NotRegroupable
	// NotMiterable: checker input subnets have mismatched port counts.
	NotMiterable
	// EncoderUnsupported: the CNF encoder met a symbol it cannot encode.
	// This is the one fatal kind; callers should abort rather than retry.
	EncoderUnsupported
	// SolverTimeout: a budgeted solve() exceeded its conflict/propagation
	// limits before reaching a verdict.
	SolverTimeout
	// LibraryMiss: the techmapper found no library candidate for a cut.
	LibraryMiss
	// NoOutput: make() was called on a builder with an empty output zone.
	NoOutput
)

func (k Kind) String() string {
	switch k {
	case InvalidCell:
		return "InvalidCell"
	case BadLink:
		return "BadLink"
	case CycleDetected:
		return "CycleDetected"
	case NotRegroupable:
		return "NotRegroupable"
	case NotMiterable:
		return "NotMiterable"
	case EncoderUnsupported:
		return "EncoderUnsupported"
	case SolverTimeout:
		return "SolverTimeout"
	case LibraryMiss:
		return "LibraryMiss"
	case NoOutput:
		return "NoOutput"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per Kind, suitable for errors.Is comparisons.
var (
	ErrInvalidCell         = errors.New("gate: invalid cell type")
	ErrBadLink             = errors.New("gate: link index or output port out of range")
	ErrCycleDetected       = errors.New("gate: mapping would introduce a cycle")
	ErrNotRegroupable      = errors.New("gate: symbol is not regroupable")
	ErrNotMiterable        = errors.New("gate: mismatched port counts, not miterable")
	ErrEncoderUnsupported  = errors.New("gate: CNF encoder met an unsupported symbol")
	ErrSolverTimeout       = errors.New("gate: solver exceeded its conflict/propagation budget")
	ErrLibraryMiss         = errors.New("gate: no library candidate for cut")
	ErrNoOutput            = errors.New("gate: builder has no output")
	sentinelByKind         = map[Kind]error{}
)

func init() {
	sentinelByKind[InvalidCell] = ErrInvalidCell
	sentinelByKind[BadLink] = ErrBadLink
	sentinelByKind[CycleDetected] = ErrCycleDetected
	sentinelByKind[NotRegroupable] = ErrNotRegroupable
	sentinelByKind[NotMiterable] = ErrNotMiterable
	sentinelByKind[EncoderUnsupported] = ErrEncoderUnsupported
	sentinelByKind[SolverTimeout] = ErrSolverTimeout
	sentinelByKind[LibraryMiss] = ErrLibraryMiss
	sentinelByKind[NoOutput] = ErrNoOutput
}

// Error wraps a Kind with operation-specific context, while staying
// comparable via errors.Is to the package's sentinel errors.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "gate: " + e.Kind.String()
	}
	return "gate: " + e.Kind.String() + ": " + e.Msg
}

// Unwrap makes errors.Is(err, gateerr.ErrBadLink) etc. work for *Error values.
func (e *Error) Unwrap() error {
	return sentinelByKind[e.Kind]
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
