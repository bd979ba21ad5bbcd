package check

import (
	"github.com/hlimds/gate/cnf"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/sat"
	"github.com/hlimds/gate/subnet"
)

// SATChecker decides equivalence by asserting the miter's output to 1 and
// asking whether that's satisfiable: UNSAT means the
// circuits agree on every input, SAT yields a witnessing counterexample.
type SATChecker struct {
	Resolver cnf.Resolver // may be nil if neither side uses soft operators
}

func (c *SATChecker) Equivalent(lhs, rhs *subnet.Subnet, inputBinding []int) (Verdict, Counterexample, error) {
	miter, err := BuildMiter(lhs, rhs, inputBinding)
	if err != nil {
		return ErrorVerdict, nil, err
	}

	enc := cnf.NewEncoder(c.Resolver)
	vars, err := enc.Encode(miter)
	if err != nil {
		return ErrorVerdict, nil, err
	}
	if miter.GetOutNum() != 1 {
		return ErrorVerdict, nil, gateerr.New(gateerr.NotMiterable, "sat checker: miter must have exactly one output")
	}

	outEntry := miter.GetOut(0)
	outLink := miter.GetLink(outEntry, 0)
	outLit := vars[outLink.Idx]
	if outLink.Inv {
		outLit = -outLit
	}

	solver := sat.New(enc.Formula())
	solver.Assert(outLit)
	status, model, err := solver.Solve()
	if err != nil {
		return ErrorVerdict, nil, err
	}

	switch status {
	case sat.Unsat:
		return Equal, nil, nil
	case sat.Sat:
		cex := make(Counterexample, lhs.GetInNum())
		for k := 0; k < lhs.GetInNum(); k++ {
			v := vars[miter.GetIn(k)]
			cex[k] = model[v.Var()]
		}
		return NotEqual, cex, nil
	default:
		return Unknown, nil, nil
	}
}
