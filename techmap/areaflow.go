package techmap

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/cut"
	"github.com/hlimds/gate/subnet"
)

// areaFlowPass revisits each node with required times fixed, choosing the
// cut minimizing area(cell) + Σ areaFlow(leaf)/refcount(leaf), subject to
// level(cut) <= requiredTime(node); ties break by the same formula over
// switchFlow.
func (m *Mapper) areaFlowPass(s *subnet.Subnet, cuts *cut.Set, states []nodeState, swAct []float32) {
	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		if isBoundary(sym) || sym == celltype.OUT {
			continue
		}

		bestCut := states[i].bestCut
		bestCell := states[i].bestCell
		bestArea := m.lib.Get(bestCell).Area()
		bestFlow := bestArea + flowSum(bestCut, states, refcountAreaFlow)
		bestSwitch := float64(swAct[i]) + flowSum(bestCut, states, refcountSwitchFlow)

		for _, c := range cuts.Cuts(i) {
			if c == bestCut || (len(c.Leaves) == 1 && int(c.Leaves[0]) == i) {
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
			cellID, area, _ := m.cheapest(ids)
			flow := float64(area) + flowSum(c, states, refcountAreaFlow)
			sw := float64(swAct[i]) + flowSum(c, states, refcountSwitchFlow)

			if flow < bestFlow || (flow == bestFlow && sw < bestSwitch) {
				bestCut, bestCell, bestArea, bestFlow, bestSwitch = c, cellID, area, flow, sw
			}
		}

		states[i].bestCut = bestCut
		states[i].bestCell = bestCell
		states[i].areaFlow = bestFlow
		states[i].switchFlow = bestSwitch
		states[i].level = 1 + maxLevel(bestCut.Leaves, states)
	}
}

func refcountAreaFlow(st *nodeState) float64 { return st.areaFlow }
func refcountSwitchFlow(st *nodeState) float64 { return st.switchFlow }

func flowSum(c *cut.Cut, states []nodeState, flowOf func(*nodeState) float64) float64 {
	var total float64
	for _, leaf := range c.Leaves {
		st := &states[leaf]
		rc := st.refcount
		if rc < 1 {
			rc = 1
		}
		total += flowOf(st) / float64(rc)
	}
	return total
}
