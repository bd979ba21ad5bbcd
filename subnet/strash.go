package subnet

import (
	"sort"

	"github.com/hlimds/gate/celltype"
)

// strashable reports whether cells of this symbol may be de-duplicated by
// structural hash: commutative or fixed-input-order operators with no
// side-effecting state. IN, OUT, DFF*, LATCH* and UNDEF are never strashed.
func strashable(sym celltype.Symbol) bool {
	switch sym {
	case celltype.IN, celltype.OUT, celltype.DFF, celltype.DFFrs,
		celltype.LATCH, celltype.LATCHrs, celltype.UNDEF:
		return false
	default:
		return true
	}
}

// strashKey is the normalized structural key: (typeId, sorted(links)) for
// commutative operators, else (typeId, links) in original order.
func strashKey(reg *celltype.Registry, typ celltype.ID, links []Link) string {
	sym := reg.Get(typ).Symbol

	ls := links
	if commutativeSym(sym) {
		ls = append([]Link(nil), links...)
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].Idx != ls[j].Idx {
				return ls[i].Idx < ls[j].Idx
			}
			if ls[i].Out != ls[j].Out {
				return ls[i].Out < ls[j].Out
			}
			return !ls[i].Inv && ls[j].Inv
		})
	}

	buf := make([]byte, 0, 5+6*len(ls))
	buf = appendUint32(buf, uint32(typ))
	for _, l := range ls {
		buf = appendUint32(buf, l.Idx)
		buf = append(buf, l.Out)
		if l.Inv {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return string(buf)
}

func commutativeSym(sym celltype.Symbol) bool {
	switch sym {
	case celltype.AND, celltype.OR, celltype.XOR, celltype.NAND,
		celltype.NOR, celltype.XNOR, celltype.MAJ, celltype.EQ, celltype.NEQ:
		return true
	default:
		return false
	}
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// strashTable maps a normalized key to the live entry that realizes it.
type strashTable struct {
	m map[string]int32
}

func newStrashTable() *strashTable {
	return &strashTable{m: make(map[string]int32)}
}

func (s *strashTable) lookup(key string) (int32, bool) {
	idx, ok := s.m[key]
	return idx, ok
}

func (s *strashTable) insert(key string, idx int32) {
	s.m[key] = idx
}

// erase removes a key, e.g. when its entry is mutated or removed.
func (s *strashTable) erase(key string) {
	delete(s.m, key)
}
