package library

import "github.com/hlimds/gate/celltype"

// CellID indexes a Library's Entries slice.
type CellID int

// Library enumerates cell types available to the technology mapper,
// indexed for its two query shapes: by truth table (order-agnostic
// over input permutation) and by sequential symbol
// family.
type Library struct {
	Entries []Entry
	byTT    map[string][]CellID
	bySeq   map[celltype.Symbol][]CellID
}

// FromEntries builds a Library in memory from already-parsed cell
// entries; parsing an actual vendor (Liberty) format is out of scope —
// callers construct Entry values themselves, e.g. via StaticEntry.
func FromEntries(entries []Entry) *Library {
	l := &Library{
		Entries: entries,
		byTT:    make(map[string][]CellID),
		bySeq:   make(map[celltype.Symbol][]CellID),
	}
	for i, e := range entries {
		id := CellID(i)
		if tt := e.TruthTable(); tt != nil {
			key := tt.canonicalKey()
			l.byTT[key] = append(l.byTT[key], id)
			continue
		}
		if fam := e.Family(); fam != celltype.UNDEF {
			l.bySeq[fam] = append(l.bySeq[fam], id)
		}
	}
	return l
}

// GetSubnetIDsByTT returns every library cell implementing tt, regardless
// of how its inputs happen to be ordered.
func (l *Library) GetSubnetIDsByTT(tt *TruthTable) []CellID {
	return append([]CellID(nil), l.byTT[tt.canonicalKey()]...)
}

// GetDFF returns every library cell implementing a plain D flip-flop.
func (l *Library) GetDFF() []CellID { return l.bySeq[celltype.DFF] }

// GetDFFrs returns every library cell implementing a D flip-flop with
// reset/set.
func (l *Library) GetDFFrs() []CellID { return l.bySeq[celltype.DFFrs] }

// GetLatch returns every library cell implementing a plain latch.
func (l *Library) GetLatch() []CellID { return l.bySeq[celltype.LATCH] }

// GetLatchrs returns every library cell implementing a latch with
// reset/set.
func (l *Library) GetLatchrs() []CellID { return l.bySeq[celltype.LATCHrs] }

// Get returns the entry at id.
func (l *Library) Get(id CellID) Entry { return l.Entries[id] }
