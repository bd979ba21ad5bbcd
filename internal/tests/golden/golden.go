// Package golden provides a deliberately naive, bit-at-a-time Boolean
// evaluator over a subnet: independent of sim's bit-parallel kernels,
// cnf's Tseitin encoding, and bdd's Shannon expansion, so it can stand in
// as ground truth when cross-checking any of them: a simple,
// obviously-correct reference implementation, independent of the
// production code paths it checks.
package golden

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

// Eval evaluates s against one assignment of its primary inputs (in
// input-declaration order) and returns one bit per primary output, by
// walking every entry in storage order and applying the textbook
// definition of each symbol — no dispatch table, no batching.
func Eval(s *subnet.Subnet, inputs []bool) []bool {
	state := make([]bool, s.Size())
	inIdx := 0

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		links := s.GetLinks(i)

		switch sym {
		case celltype.IN:
			if inIdx < len(inputs) {
				state[i] = inputs[inIdx]
			}
			inIdx++
		case celltype.ZERO:
			state[i] = false
		case celltype.ONE:
			state[i] = true
		case celltype.OUT, celltype.BUF:
			state[i] = fanin(links, state, 0)
		case celltype.AND:
			v := true
			for k := range links {
				v = v && fanin(links, state, k)
			}
			state[i] = v
		case celltype.OR:
			v := false
			for k := range links {
				v = v || fanin(links, state, k)
			}
			state[i] = v
		case celltype.XOR:
			v := false
			for k := range links {
				v = v != fanin(links, state, k)
			}
			state[i] = v
		case celltype.MAJ:
			a, b, c := fanin(links, state, 0), fanin(links, state, 1), fanin(links, state, 2)
			state[i] = (a && b) || (a && c) || (b && c)
		default:
			// Sequential and soft cells have no combinational-only
			// golden semantics; leave them at their zero value.
		}
	}

	outs := make([]bool, s.GetOutNum())
	for k := range outs {
		outs[k] = state[s.GetOut(k)]
	}
	return outs
}

func fanin(links []subnet.Link, state []bool, i int) bool {
	l := links[i]
	v := state[l.Idx]
	if l.Inv {
		return !v
	}
	return v
}
