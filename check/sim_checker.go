package check

import (
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/sim"
	"github.com/hlimds/gate/subnet"
)

// SimChecker decides equivalence by simulating lhs and rhs with the
// bit-parallel simulator and comparing their outputs directly, without
// building a miter. For input widths small enough to
// enumerate exhaustively it proves EQUAL on a clean sweep; otherwise it can
// only ever disprove equivalence or return UNKNOWN.
type SimChecker struct {
	Resolver sim.Resolver // may be nil if neither side uses soft operators
	// Tries bounds the number of random 64-lane batches tried when the
	// input width is too wide to enumerate exhaustively (2^Width > 64 *
	// ExhaustiveBatches). Zero selects a small default.
	Tries int
	// ExhaustiveBatches bounds how many 64-lane batches an exhaustive
	// sweep may run before SimChecker falls back to random sampling.
	ExhaustiveBatches int
	// Rand supplies the random input patterns; required when a random
	// (non-exhaustive) sweep runs.
	Rand func() uint64
}

const defaultTries = 64
const defaultExhaustiveBatches = 1 << 10

func (c *SimChecker) Equivalent(lhs, rhs *subnet.Subnet, inputBinding []int) (Verdict, Counterexample, error) {
	if lhs.GetInNum() != rhs.GetInNum() || lhs.GetOutNum() != rhs.GetOutNum() {
		return ErrorVerdict, nil, gateerr.New(gateerr.NotMiterable, "sim checker: lhs/rhs port counts differ")
	}
	n := lhs.GetInNum()
	if n > 63 {
		return Unknown, nil, nil
	}

	lp := sim.Compile(lhs, c.Resolver)
	rp := sim.Compile(rhs, c.Resolver)

	exhaustiveBatches := c.ExhaustiveBatches
	if exhaustiveBatches == 0 {
		exhaustiveBatches = defaultExhaustiveBatches
	}
	total := uint64(1) << uint(n)
	batches := (total + 63) / 64

	if batches <= uint64(exhaustiveBatches) {
		for batch := uint64(0); batch < batches; batch++ {
			inputs := exhaustiveBatch(n, batch)
			if v, cex, err := compareBatch(lp, rp, inputs, inputBinding); err != nil {
				return ErrorVerdict, nil, err
			} else if v == NotEqual {
				return NotEqual, cex, nil
			}
		}
		return Equal, nil, nil
	}

	tries := c.Tries
	if tries == 0 {
		tries = defaultTries
	}
	if c.Rand == nil {
		return ErrorVerdict, nil, gateerr.New(gateerr.NotMiterable, "sim checker: width too wide for exhaustive sweep and no Rand source configured")
	}
	for try := 0; try < tries; try++ {
		inputs := make([]sim.Word, n)
		for k := range inputs {
			inputs[k] = sim.Word(c.Rand())
		}
		rhsInputs := rebind(inputs, inputBinding)
		lhsOuts, err := lp.Run(inputs)
		if err != nil {
			return ErrorVerdict, nil, err
		}
		rhsOuts, err := rp.Run(rhsInputs)
		if err != nil {
			return ErrorVerdict, nil, err
		}
		if lane, ok := firstMismatchLane(lhsOuts, rhsOuts); ok {
			return NotEqual, counterexampleFromLanes(inputs, lane), nil
		}
	}
	return Unknown, nil, nil
}

// exhaustiveBatch packs the batch-th group of 64 consecutive n-bit input
// vectors into n simulation words, one bit-position (lane) per vector.
func exhaustiveBatch(n int, batch uint64) []sim.Word {
	inputs := make([]sim.Word, n)
	base := batch * 64
	for lane := uint64(0); lane < 64; lane++ {
		pattern := base + lane
		for k := 0; k < n; k++ {
			if pattern&(1<<uint(k)) != 0 {
				inputs[k] |= sim.Word(1) << lane
			}
		}
	}
	return inputs
}

func rebind(lhsInputs []sim.Word, inputBinding []int) []sim.Word {
	out := make([]sim.Word, len(inputBinding))
	for k, rhsIdx := range inputBinding {
		out[rhsIdx] = lhsInputs[k]
	}
	return out
}

func compareBatch(lp, rp *sim.Program, lhsInputs []sim.Word, inputBinding []int) (Verdict, Counterexample, error) {
	rhsInputs := rebind(lhsInputs, inputBinding)
	lhsOuts, err := lp.Run(lhsInputs)
	if err != nil {
		return ErrorVerdict, nil, err
	}
	rhsOuts, err := rp.Run(rhsInputs)
	if err != nil {
		return ErrorVerdict, nil, err
	}
	if lane, ok := firstMismatchLane(lhsOuts, rhsOuts); ok {
		return NotEqual, counterexampleFromLanes(lhsInputs, lane), nil
	}
	return Equal, nil, nil
}

func firstMismatchLane(a, b []sim.Word) (int, bool) {
	for lane := 0; lane < 64; lane++ {
		for k := range a {
			bitA := (a[k] >> uint(lane)) & 1
			bitB := (b[k] >> uint(lane)) & 1
			if bitA != bitB {
				return lane, true
			}
		}
	}
	return 0, false
}

func counterexampleFromLanes(inputs []sim.Word, lane int) Counterexample {
	cex := make(Counterexample, len(inputs))
	for k, w := range inputs {
		cex[k] = (w>>uint(lane))&1 != 0
	}
	return cex
}
