package techmap

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/cut"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/sim"
	"github.com/hlimds/gate/subnet"
)

// Mapper covers a subnet (assumed to be an AND/NOT network restricted to
// the symbols the builder can strash) with instances from lib, honoring
// sdc.
type Mapper struct {
	lib    *library.Library
	sdc    SDC
	cutK   int
	cutL   int
	swVecs int // switching-activity sample count, 256 random vectors by default
	rand   func() uint64

	cellTypeCache map[library.CellID]celltype.ID
}

const defaultSwitchingVectors = 256

// NewMapper returns a mapper bound to lib and sdc, enumerating k-feasible
// cuts (capped at l per node) as its mapping search space.
func NewMapper(lib *library.Library, sdc SDC, cutK, cutL int, rand func() uint64) *Mapper {
	return &Mapper{
		lib: lib, sdc: sdc, cutK: cutK, cutL: cutL,
		swVecs: defaultSwitchingVectors, rand: rand,
		cellTypeCache: make(map[library.CellID]celltype.ID),
	}
}

// Map runs the full mapping pipeline: traditional depth
// pass, global area-flow recovery, local exact area recovery, then writes
// the result back into a builder seeded from s. Sequential cells are
// mapped separately by MapSequential.
func (m *Mapper) Map(s *subnet.Subnet) (*subnet.Subnet, *Statistics, error) {
	cuts := cut.Enumerate(s, m.cutK, m.cutL)
	states := make([]nodeState, s.Size())
	for i := range states {
		states[i].refcount = s.Refcount(i)
	}

	if err := m.depthPass(s, cuts, states); err != nil {
		return nil, nil, err
	}
	m.requiredTimePass(s, states)
	swAct, err := m.switchingActivity(s)
	if err != nil {
		return nil, nil, err
	}
	m.areaFlowPass(s, cuts, states, swAct)
	m.exactAreaPass(s, cuts, states)

	mapped, err := m.rewrite(s, states)
	if err != nil {
		return nil, nil, err
	}
	stats := computeStatistics(mapped)
	return mapped, stats, nil
}

func isBoundary(sym celltype.Symbol) bool {
	switch sym {
	case celltype.IN, celltype.ZERO, celltype.ONE,
		celltype.DFF, celltype.DFFrs, celltype.LATCH, celltype.LATCHrs:
		return true
	}
	return false
}

// depthPass: for each non-primary node, among its cuts, pick the one
// minimizing level = 1 + max(level(leaf)), tie-broken by area then
// pin-power.
func (m *Mapper) depthPass(s *subnet.Subnet, cuts *cut.Set, states []nodeState) error {
	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		if isBoundary(sym) {
			states[i].level = 0
			continue
		}
		if sym == celltype.OUT {
			states[i].level = states[s.GetLink(i, 0).Idx].level
			continue
		}

		best := -1
		var bestCut *cut.Cut
		var bestCell library.CellID
		var bestArea, bestPower float32

		for _, c := range cuts.Cuts(i) {
			if len(c.Leaves) == 1 && int(c.Leaves[0]) == i {
				continue // the trivial self-cut has no library match
			}
			tt, err := coneTruthTable(s, i, c)
			if err != nil {
				continue
			}
			ids := m.lib.GetSubnetIDsByTT(tt)
			if len(ids) == 0 {
				continue
			}
			level := 1 + maxLevel(c.Leaves, states)
			cellID, area, power := m.cheapest(ids)

			switch {
			case best == -1 || level < best:
				best, bestCut, bestCell, bestArea, bestPower = level, c, cellID, area, power
			case level == best && area < bestArea:
				bestCut, bestCell, bestArea, bestPower = c, cellID, area, power
			case level == best && area == bestArea && power < bestPower:
				bestCut, bestCell, bestPower = c, cellID, power
			}
		}
		if best == -1 {
			return gateerr.New(gateerr.LibraryMiss, "techmap: no library cell matches any cut at entry")
		}
		states[i].level, states[i].bestCut, states[i].bestCell, states[i].hasCell = best, bestCut, bestCell, true
	}
	return nil
}

func maxLevel(leaves []int32, states []nodeState) int {
	max := 0
	for _, l := range leaves {
		if states[l].level > max {
			max = states[l].level
		}
	}
	return max
}

// cheapest picks the candidate with minimal area, tie-broken by total
// static pin power, among ids.
func (m *Mapper) cheapest(ids []library.CellID) (library.CellID, float32, float32) {
	best := ids[0]
	bestArea := m.lib.Get(best).Area()
	bestPower := pinPowerSum(m.lib.Get(best))
	for _, id := range ids[1:] {
		area := m.lib.Get(id).Area()
		power := pinPowerSum(m.lib.Get(id))
		if area < bestArea || (area == bestArea && power < bestPower) {
			best, bestArea, bestPower = id, area, power
		}
	}
	return best, bestArea, bestPower
}

func pinPowerSum(e library.Entry) float32 {
	var total float32
	for pin := 0; ; pin++ {
		rise, fall := e.PinPower(pin)
		if rise == 0 && fall == 0 && pin > 0 {
			break
		}
		total += rise + fall
		if pin > 64 {
			break
		}
	}
	return total
}

// requiredTimePass propagates a required-arrival-time budget backward
// from the primary outputs (or sdc.ArrivalTimeMax) to every cut leaf
// requiredTime(leaf) = min over consumers of requiredTime(consumer) - 1.
func (m *Mapper) requiredTimePass(s *subnet.Subnet, states []nodeState) {
	arrival := m.sdc.ArrivalTimeMax
	if arrival == 0 {
		maxLvl := 0
		for k := 0; k < s.GetOutNum(); k++ {
			if lvl := states[s.GetOut(k)].level; lvl > maxLvl {
				maxLvl = lvl
			}
		}
		arrival = float64(maxLvl)
	}
	for i := range states {
		states[i].requiredTime = arrival
	}
	for i := s.Size() - 1; i >= 0; i-- {
		if !states[i].hasCell || states[i].bestCut == nil {
			continue
		}
		for _, leaf := range states[i].bestCut.Leaves {
			candidate := states[i].requiredTime - 1
			if candidate < states[leaf].requiredTime {
				states[leaf].requiredTime = candidate
			}
		}
	}
}

// switchingActivity simulates swVecs random vectors (256 by default) in
// 64-lane batches and returns, per entry, the number of lanes whose value
// differs from the same lane in the previous batch. Returns all-zero if no
// random source was configured.
func (m *Mapper) switchingActivity(s *subnet.Subnet) ([]float32, error) {
	act := make([]float32, s.Size())
	if m.rand == nil {
		return act, nil
	}
	prog := sim.Compile(s, nil)
	var prev []sim.Word
	for try := 0; try < (m.swVecs+63)/64; try++ {
		inputs := make([]sim.Word, s.GetInNum())
		for k := range inputs {
			inputs[k] = sim.Word(m.rand())
		}
		state, err := prog.RunAll(inputs)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			for i := range state {
				act[i] += float32(popcount(state[i] ^ prev[i]))
			}
		}
		prev = state
	}
	return act, nil
}

func popcount(w sim.Word) int {
	count := 0
	for w != 0 {
		w &= w - 1
		count++
	}
	return count
}
