package techmap

import (
	"fmt"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/subnet"
)

// cellTypeFor lazily registers reg's celltype.CellType standing in for a
// library cell: rewriting each interior node with a library-cell instance.
// A mapped cell carries no Symbol of its own closed-set meaning — it's
// opaque to the simulator/CNF encoder from here on, identified only by
// name and Attr, the way a technology cell is represented.
func (m *Mapper) cellTypeFor(reg *celltype.Registry, id library.CellID) celltype.ID {
	if ctID, ok := m.cellTypeCache[id]; ok {
		return ctID
	}
	e := m.lib.Get(id)
	if existing, ok := reg.Lookup(e.Name()); ok {
		m.cellTypeCache[id] = existing
		return existing
	}
	ctID, err := reg.Register(celltype.CellType{
		Symbol:   celltype.UNDEF,
		Name:     e.Name(),
		InArity:  celltype.AnyArity,
		OutArity: 1,
		Flags:    celltype.IsHard,
		Attr:     &celltype.Attr{Area: float64(e.Area())},
	})
	if err != nil {
		panic(fmt.Sprintf("techmap: registering library cell %s: %v", e.Name(), err))
	}
	m.cellTypeCache[id] = ctID
	return ctID
}

// rewrite writes the mapping decisions in states back into a fresh
// builder seeded from s: every interior node with a chosen cell becomes a
// single library-cell instance over its cut's leaves; inputs, outputs and
// constants pass through unchanged.
func (m *Mapper) rewrite(s *subnet.Subnet, states []nodeState) (*subnet.Subnet, error) {
	reg := s.Registry()
	b := subnet.FromSubnet(reg, s)

	for i := 0; i < s.Size(); i++ {
		st := &states[i]
		if !st.hasCell {
			continue
		}
		ctID := m.cellTypeFor(reg, st.bestCell)

		rb := subnet.New(reg)
		ins := rb.AddInputs(len(st.bestCut.Leaves))
		cellOut, err := rb.AddCell(ctID, ins)
		if err != nil {
			return nil, err
		}
		if err := rb.AddOutput(cellOut); err != nil {
			return nil, err
		}
		rhs, err := rb.Make()
		if err != nil {
			return nil, err
		}

		rhsToLhs := make(map[int]int32, len(st.bestCut.Leaves)+1)
		for k, leaf := range st.bestCut.Leaves {
			rhsToLhs[rhs.GetIn(k)] = leaf
		}
		rhsToLhs[int(rhs.GetLink(rhs.GetOut(0), 0).Idx)] = int32(i)

		if err := b.Replace(rhs, rhsToLhs, subnet.ReplaceOptions{}); err != nil {
			return nil, err
		}
	}

	return b.Make()
}
