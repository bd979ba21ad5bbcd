package check

import (
	"github.com/hlimds/gate/cnf"
	"github.com/hlimds/gate/sim"
)

// Backend names a Checker implementation for MakeChecker.
type Backend int

const (
	// BackendSAT asserts the miter output via a SAT solver (exact, both
	// directions: UNSAT proves EQUAL).
	BackendSAT Backend = iota
	// BackendBDD builds a BDD for the miter output (exact, both
	// directions; trades solver search for diagram size).
	BackendBDD
	// BackendSim simulates both sides directly (exact only when the
	// input width is small enough to sweep exhaustively; otherwise can
	// only disprove equivalence or report UNKNOWN).
	BackendSim
)

// Resolver resolves a soft cell type's implementation subnet, shared by
// every backend's encoder/simulator.
type Resolver = cnf.Resolver

// MakeChecker returns the requested equivalence-checking backend. rand, if
// non-nil, seeds BackendSim's random fallback for input widths too wide to
// enumerate exhaustively.
func MakeChecker(backend Backend, resolver Resolver, rand func() uint64) Checker {
	switch backend {
	case BackendBDD:
		return &BDDChecker{Resolver: resolver}
	case BackendSim:
		return &SimChecker{Resolver: sim.Resolver(resolver), Rand: rand}
	default:
		return &SATChecker{Resolver: resolver}
	}
}
