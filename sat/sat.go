// Package sat implements a small DPLL-style solver over cnf.Formula: unit
// propagation, chronological backtracking, and a budgeted solve for the
// verifier's limited-solve cancellation path.
//
// No SAT library exists anywhere in the reference corpus this module was
// grown from; this is accordingly one of the few parts of the module built
// directly on the standard library rather than a third-party dependency —
// see DESIGN.md.
package sat

import (
	"errors"

	"github.com/hlimds/gate/cnf"
	"github.com/hlimds/gate/gateerr"
)

// Status is a solve() verdict.
type Status int

const (
	Unknown Status = iota
	Sat
	Unsat
)

// assignment is 0 (unset), 1 (true) or -1 (false) per 1-based variable.
type Solver struct {
	clauses []cnf.Clause
	assign  []int8
	trail   []cnf.Lit
	marks   []checkpoint

	conflictBudget, propagationBudget int
}

// checkpoint records both the trail length and the clause count at a Push,
// so Pop can undo both an asserted property's clauses and the
// assignments propagation derived from it.
type checkpoint struct {
	trail, clauses int
}

// New returns a solver preloaded with f's clauses.
func New(f *cnf.Formula) *Solver {
	s := &Solver{
		clauses: append([]cnf.Clause(nil), f.Clauses...),
		assign:  make([]int8, f.NVars+1),
	}
	return s
}

// AddClause appends a clause after construction (e.g. a property asserted
// by the verifier).
func (s *Solver) AddClause(c cnf.Clause) {
	for _, l := range c {
		for int(l.Var()) >= len(s.assign) {
			s.assign = append(s.assign, 0)
		}
	}
	s.clauses = append(s.clauses, c)
}

// Push checkpoints the current trail and clause count, so a later Pop can
// undo both everything assigned since and any clause asserted since.
func (s *Solver) Push() {
	s.marks = append(s.marks, checkpoint{trail: len(s.trail), clauses: len(s.clauses)})
}

// Pop rewinds the trail and clause database to the last Push checkpoint.
func (s *Solver) Pop() {
	n := len(s.marks)
	if n == 0 {
		return
	}
	mark := s.marks[n-1]
	s.marks = s.marks[:n-1]
	for i := len(s.trail) - 1; i >= mark.trail; i-- {
		v := s.trail[i].Var()
		s.assign[v] = 0
	}
	s.trail = s.trail[:mark.trail]
	s.clauses = s.clauses[:mark.clauses]
}

// Assert adds a unit clause asserting lit, to be undone by a matching Pop.
func (s *Solver) Assert(lit cnf.Lit) { s.AddClause(cnf.Clause{lit}) }

// SetBudget configures a conflict/propagation budget for Solve; zero means
// unbounded.
func (s *Solver) SetBudget(conflicts, propagations int) {
	s.conflictBudget, s.propagationBudget = conflicts, propagations
}

func (s *Solver) value(l cnf.Lit) int8 {
	v := s.assign[l.Var()]
	if l < 0 {
		return -v
	}
	return v
}

// Solve runs DPLL with unit propagation to a verdict, or returns Unknown
// with state intact if a configured budget is exceeded.
func (s *Solver) Solve() (Status, map[int32]bool, error) {
	trailCheckpoint := len(s.trail)
	markCheckpoint := len(s.marks)
	conflicts, props := 0, 0
	var decide func(depth int) (Status, error)
	var model map[int32]bool

	propagate := func() (bool, error) {
		changed := true
		for changed {
			changed = false
			for _, c := range s.clauses {
				unresolved := cnf.Lit(0)
				nUnresolved := 0
				sat := false
				for _, l := range c {
					v := s.value(l)
					if v == 1 {
						sat = true
						break
					}
					if v == 0 {
						nUnresolved++
						unresolved = l
					}
				}
				if sat {
					continue
				}
				if nUnresolved == 0 {
					conflicts++
					if s.conflictBudget > 0 && conflicts > s.conflictBudget {
						return false, gateerr.New(gateerr.SolverTimeout, "conflict budget exceeded")
					}
					return false, errConflict
				}
				if nUnresolved == 1 {
					props++
					if s.propagationBudget > 0 && props > s.propagationBudget {
						return false, gateerr.New(gateerr.SolverTimeout, "propagation budget exceeded")
					}
					s.assign[unresolved.Var()] = signOf(unresolved)
					s.trail = append(s.trail, unresolved)
					changed = true
				}
			}
		}
		return true, nil
	}

	decide = func(depth int) (Status, error) {
		ok, err := propagate()
		if err == errConflict {
			return Unsat, nil
		}
		if err != nil {
			return Unknown, err
		}
		if !ok {
			return Unsat, nil
		}

		v := s.firstUnassigned()
		if v == 0 {
			model = make(map[int32]bool, len(s.assign))
			for vv := int32(1); vv < int32(len(s.assign)); vv++ {
				if s.assign[vv] != 0 {
					model[vv] = s.assign[vv] == 1
				}
			}
			return Sat, nil
		}

		// Both branches below push before trying a value for v and pop
		// unconditionally once the recursive call returns, regardless of
		// its verdict: decide's own Push/Pop bracket a trial on the shared
		// stack a caller's own Push/Pop also uses (sat.Solver.Push/Pop), so
		// a branch that succeeds must still unwind its trial before
		// returning, or its mark is left stranded for a caller's Pop to
		// consume instead of its own.
		s.Push()
		s.trail = append(s.trail, cnf.Lit(v))
		s.assign[v] = 1
		st, err := decide(depth + 1)
		s.Pop()
		if err != nil {
			return Unknown, err
		}
		if st == Sat {
			return Sat, nil
		}

		s.Push()
		s.trail = append(s.trail, cnf.Lit(-v))
		s.assign[v] = -1
		st, err = decide(depth + 1)
		s.Pop()
		if err != nil {
			return Unknown, err
		}
		return st, nil
	}

	st, err := decide(0)
	if err != nil {
		// Budget exceeded: restore the solver to exactly the state it was
		// in before this Solve call.
		for i := len(s.trail) - 1; i >= trailCheckpoint; i-- {
			s.assign[s.trail[i].Var()] = 0
		}
		s.trail = s.trail[:trailCheckpoint]
		s.marks = s.marks[:markCheckpoint]
		return Unknown, nil, err
	}
	if st != Sat {
		return st, nil, nil
	}
	return Sat, model, nil
}

func (s *Solver) firstUnassigned() int32 {
	for v := int32(1); v < int32(len(s.assign)); v++ {
		if s.assign[v] == 0 {
			return v
		}
	}
	return 0
}

func signOf(l cnf.Lit) int8 {
	if l < 0 {
		return -1
	}
	return 1
}

// errConflict signals a falsified clause during propagation; it never
// escapes Solve, which turns it into an Unsat verdict.
var errConflict = errors.New("sat: propagation conflict")
