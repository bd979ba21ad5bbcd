package cost

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/sim"
	"github.com/hlimds/gate/subnet"
)

// Estimator produces a Vector for a design, keyed by some handle type T
// (a *subnet.Subnet for the logic estimator below, a mapped netlist for a
// future gate-level estimator).
type Estimator[T any] interface {
	Estimate(design T) (Vector, error)
}

// LogicEstimator is the pre-mapping cost estimator: it
// returns (cellCount, depth, switchingActivitySum) as a Vector, standing
// in for (area, delay, power) before a real cell library is bound.
//
// SwitchingTries bounds how many random 64-lane simulation batches are run
// to approximate switching activity (256 random vectors by default, as
// used by the exact-area-recovery pass); zero selects that
// default. Rand, if nil, disables the switching-activity term (its
// component is left at zero) rather than guessing.
type LogicEstimator struct {
	SwitchingTries int
	Rand           func() uint64
	Resolver       sim.Resolver
}

const defaultSwitchingTries = 256 / 64 // 256 random vectors, 64 lanes per batch

// Estimate walks s once for cellCount/depth and, if Rand is configured,
// simulates SwitchingTries random batches to approximate total switching
// activity across every entry's output.
func (e *LogicEstimator) Estimate(s *subnet.Subnet) (Vector, error) {
	cellCount, depth := logicShape(s)

	var switching float32
	if e.Rand != nil {
		sw, err := e.switchingActivity(s)
		if err != nil {
			return Vector{}, err
		}
		switching = sw
	}
	return Vector{float32(cellCount), float32(depth), switching}, nil
}

// logicShape counts non-port, non-constant cells and the subnet's maximum
// path length in cells, i.e. (cellCount, depth).
func logicShape(s *subnet.Subnet) (cellCount, depth int) {
	for i := 0; i < s.Size(); i++ {
		switch s.Symbol(i) {
		case celltype.IN, celltype.OUT, celltype.ZERO, celltype.ONE:
		default:
			cellCount++
		}
	}
	_, maxDepth := s.GetPathLength()
	return cellCount, maxDepth
}

// switchingActivity runs SwitchingTries random 64-lane batches and sums,
// across every entry, the number of lanes whose value differs from the
// same lane in the previous batch — an approximation of total switching
// activity driven by simulation rather than a true static estimator.
func (e *LogicEstimator) switchingActivity(s *subnet.Subnet) (float32, error) {
	tries := e.SwitchingTries
	if tries == 0 {
		tries = defaultSwitchingTries
	}

	p := sim.Compile(s, e.Resolver)
	var toggles float64
	var prevOuts []sim.Word
	for try := 0; try < tries; try++ {
		inputs := make([]sim.Word, s.GetInNum())
		for k := range inputs {
			inputs[k] = sim.Word(e.Rand())
		}
		outs, err := p.RunAll(inputs)
		if err != nil {
			return 0, err
		}
		if prevOuts != nil {
			for k := range outs {
				toggles += float64(popcount(outs[k] ^ prevOuts[k]))
			}
		}
		prevOuts = outs
	}
	return float32(toggles), nil
}

func popcount(w sim.Word) int {
	count := 0
	for w != 0 {
		w &= w - 1
		count++
	}
	return count
}
