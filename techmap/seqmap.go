package techmap

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/subnet"
)

// Strategy selects which cost dimension the sequential mapper optimizes
// for when several library cells implement the same symbol family.
type Strategy int

const (
	StrategyArea Strategy = iota
	StrategyDelay
)

// MapSequential matches every DFF/DFFrs/LATCH/LATCHrs cell in s against a
// sequential library cell of the same symbol family, picking by strategy.
// It operates independently of Map: sequential cells
// are left untouched by the combinational pass and handled here instead.
func MapSequential(s *subnet.Subnet, lib *library.Library, strategy Strategy) (*subnet.Subnet, error) {
	reg := s.Registry()
	b := subnet.FromSubnet(reg, s)
	cache := make(map[library.CellID]celltype.ID)

	cellTypeFor := func(id library.CellID) (celltype.ID, error) {
		if ctID, ok := cache[id]; ok {
			return ctID, nil
		}
		e := lib.Get(id)
		if existing, ok := reg.Lookup(e.Name()); ok {
			cache[id] = existing
			return existing, nil
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
			return 0, err
		}
		cache[id] = ctID
		return ctID, nil
	}

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		var candidates []library.CellID
		switch sym {
		case celltype.DFF:
			candidates = lib.GetDFF()
		case celltype.DFFrs:
			candidates = lib.GetDFFrs()
		case celltype.LATCH:
			candidates = lib.GetLatch()
		case celltype.LATCHrs:
			candidates = lib.GetLatchrs()
		default:
			continue
		}
		if len(candidates) == 0 {
			return nil, gateerr.New(gateerr.LibraryMiss, "techmap: no sequential library cell for "+sym.String())
		}

		best := pickByStrategy(lib, candidates, strategy)
		ctID, err := cellTypeFor(best)
		if err != nil {
			return nil, err
		}

		links := s.GetLinks(i)
		rb := subnet.New(reg)
		ins := rb.AddInputs(len(links))
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

		rhsToLhs := make(map[int]int32, len(links)+1)
		for k, l := range links {
			rhsToLhs[rhs.GetIn(k)] = int32(l.Idx)
		}
		rhsToLhs[int(rhs.GetLink(rhs.GetOut(0), 0).Idx)] = int32(i)
		if err := b.Replace(rhs, rhsToLhs, subnet.ReplaceOptions{}); err != nil {
			return nil, err
		}
	}

	return b.Make()
}

func pickByStrategy(lib *library.Library, ids []library.CellID, strategy Strategy) library.CellID {
	best := ids[0]
	for _, id := range ids[1:] {
		switch strategy {
		case StrategyDelay:
			if lib.Get(id).Delay(0, 0, 0) < lib.Get(best).Delay(0, 0, 0) {
				best = id
			}
		default: // StrategyArea
			if lib.Get(id).Area() < lib.Get(best).Area() {
				best = id
			}
		}
	}
	return best
}
