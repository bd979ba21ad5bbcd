package techmap

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/cut"
	"github.com/hlimds/gate/subnet"
)

// exactAreaPass runs the local exact-area recovery pass: for
// nodes with a single fanout (refcount == 1) it tries every candidate cut,
// using ref/deref descent to measure the exact area delta including
// transitive singleton fanins, and commits any cut that strictly
// dominates the current one.
//
// descentRefs is a scratch "currently mapped into the output" counter,
// separate from nodeState.refcount (the structural fanout count used by
// the area-flow pass): it starts at zero everywhere and is bumped/restored
// purely within this pass's ref/deref descents.
func (m *Mapper) exactAreaPass(s *subnet.Subnet, cuts *cut.Set, states []nodeState) {
	descentRefs := make([]int, s.Size())

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		if isBoundary(sym) || sym == celltype.OUT {
			continue
		}
		if states[i].refcount != 1 {
			continue
		}

		current := m.exactAreaRef(states, descentRefs, int32(i))
		m.exactAreaDeref(states, descentRefs, int32(i))

		bestCut, bestCell, bestArea := states[i].bestCut, states[i].bestCell, current
		for _, c := range cuts.Cuts(i) {
			if c == states[i].bestCut || (len(c.Leaves) == 1 && int(c.Leaves[0]) == i) {
				continue
			}
			if 1+maxLevel(c.Leaves, states) > int(states[i].requiredTime) {
				continue
			}
			tt, err := coneTruthTable(s, i, c)
			if err != nil {
				continue
			}
			ids := m.lib.GetSubnetIDsByTT(tt)
			if len(ids) == 0 {
				continue
			}
			cellID, _, _ := m.cheapest(ids)

			savedCut, savedCell := states[i].bestCut, states[i].bestCell
			states[i].bestCut, states[i].bestCell = c, cellID
			trial := m.exactAreaRef(states, descentRefs, int32(i))
			m.exactAreaDeref(states, descentRefs, int32(i))
			states[i].bestCut, states[i].bestCell = savedCut, savedCell

			if trial < bestArea {
				bestArea, bestCut, bestCell = trial, c, cellID
			}
		}

		states[i].bestCut, states[i].bestCell = bestCut, bestCell
		m.exactAreaRef(states, descentRefs, int32(i)) // commit: leave it permanently referenced
	}
}

// exactAreaRef recursively charges idx's cell area the first time it
// becomes referenced (descentRefs[idx] 0 -> 1), and recurses into its cut
// leaves — so a leaf used exclusively within this cone (a transitive
// singleton) contributes its own area exactly once.
func (m *Mapper) exactAreaRef(states []nodeState, descentRefs []int, idx int32) float64 {
	st := &states[idx]
	if !st.hasCell {
		return 0
	}
	descentRefs[idx]++
	if descentRefs[idx] > 1 {
		return 0
	}
	area := float64(m.lib.Get(st.bestCell).Area())
	for _, leaf := range st.bestCut.Leaves {
		area += m.exactAreaRef(states, descentRefs, leaf)
	}
	return area
}

// exactAreaDeref inverts exactAreaRef: decrements idx's reference count
// and, if it drops to zero, recurses to release its leaves too.
func (m *Mapper) exactAreaDeref(states []nodeState, descentRefs []int, idx int32) float64 {
	st := &states[idx]
	if !st.hasCell {
		return 0
	}
	descentRefs[idx]--
	if descentRefs[idx] > 0 {
		return 0
	}
	area := float64(m.lib.Get(st.bestCell).Area())
	for _, leaf := range st.bestCut.Leaves {
		area += m.exactAreaDeref(states, descentRefs, leaf)
	}
	return area
}
