package check

import (
	"github.com/hlimds/gate/cnf"
	"github.com/hlimds/gate/sat"
	"github.com/hlimds/gate/subnet"
)

// Property is a cnf.Lit whose truth corresponds to some semantic fact
// about the subnet a Verifier was built over (encodeEqual returns
// a set of auxiliary clauses and a literal whose truth means the
// equality holds").
type Property struct {
	Lit cnf.Lit
}

// Verifier encodes a subnet once and lets callers lazily assert and test
// properties against it, each wrapped in its own solver push/pop so
// assertions never leak between checks.
type Verifier struct {
	s      *subnet.Subnet
	enc    *cnf.Encoder
	vars   []cnf.Lit
	solver *sat.Solver
}

// NewVerifier encodes s once, ready for repeated checkAlways/checkEventually
// calls. resolver may be nil if s contains no soft multi-bit operators.
func NewVerifier(s *subnet.Subnet, resolver cnf.Resolver) (*Verifier, error) {
	enc := cnf.NewEncoder(resolver)
	vars, err := enc.Encode(s)
	if err != nil {
		return nil, err
	}
	return &Verifier{s: s, enc: enc, vars: vars, solver: sat.New(enc.Formula())}, nil
}

// Equal builds the property "link's value equals constant" (0 or 1),
// adding its defining clauses to the verifier's solver.
func (v *Verifier) Equal(link subnet.Link, constant int) Property {
	p, clauses := v.enc.EncodeEqual(v.vars, link, constant)
	for _, c := range clauses {
		v.solver.AddClause(c)
	}
	return Property{Lit: p}
}

// VarOf exposes the variable assigned to entry i, for checkers that need
// to read back a counterexample's bit at a primary input.
func (v *Verifier) VarOf(i int) cnf.Lit { return v.vars[i] }

// CheckAlways asserts ¬p (or p, if inv) under a solver backup; UNSAT means
// the property always holds.
func (v *Verifier) CheckAlways(p Property, inv bool) (bool, error) {
	lit := -p.Lit
	if inv {
		lit = p.Lit
	}
	v.solver.Push()
	defer v.solver.Pop()
	v.solver.Assert(lit)
	status, _, err := v.solver.Solve()
	if err != nil {
		return false, err
	}
	return status == sat.Unsat, nil
}

// CheckEventually asserts p (or ¬p, if inv) under a solver backup; SAT
// means some assignment makes the property hold.
func (v *Verifier) CheckEventually(p Property, inv bool) (bool, map[int32]bool, error) {
	lit := p.Lit
	if inv {
		lit = -p.Lit
	}
	v.solver.Push()
	defer v.solver.Pop()
	v.solver.Assert(lit)
	status, model, err := v.solver.Solve()
	if err != nil {
		return false, nil, err
	}
	return status == sat.Sat, model, nil
}
