package library

import (
	"testing"

	"github.com/hlimds/gate/celltype"
)

func and2TT() *TruthTable {
	tt := NewTruthTable(2)
	tt.Set(0b11, true) // only both-inputs-high minterm is 1
	return tt
}

func TestCanonicalKeyIsOrderAgnostic(t *testing.T) {
	tt := and2TT()
	// Swap the two input labels; AND is symmetric so the canonical key
	// must match.
	swapped := tt.permuted([]int{1, 0})
	if tt.canonicalKey() != swapped.canonicalKey() {
		t.Fatalf("canonical keys differ for a permutation of a symmetric function")
	}
}

func TestGetSubnetIDsByTTFindsMatch(t *testing.T) {
	entries := []Entry{
		StaticEntry{EntryName: "AND2X1", TT: and2TT(), AreaVal: 1.0},
		StaticEntry{EntryName: "INVX1", TT: func() *TruthTable {
			tt := NewTruthTable(1)
			tt.Set(0, true)
			return tt
		}(), AreaVal: 0.5},
	}
	lib := FromEntries(entries)

	ids := lib.GetSubnetIDsByTT(and2TT())
	if len(ids) != 1 || lib.Get(ids[0]).Name() != "AND2X1" {
		t.Fatalf("GetSubnetIDsByTT(AND2) = %v, want [AND2X1]", ids)
	}

	// A differently-labeled AND (inputs swapped) still matches.
	swapped := and2TT().permuted([]int{1, 0})
	ids2 := lib.GetSubnetIDsByTT(swapped)
	if len(ids2) != 1 || lib.Get(ids2[0]).Name() != "AND2X1" {
		t.Fatalf("GetSubnetIDsByTT(swapped AND2) = %v, want [AND2X1]", ids2)
	}
}

func TestSequentialLookup(t *testing.T) {
	entries := []Entry{
		StaticEntry{EntryName: "DFFX1", Seq: celltype.DFF, AreaVal: 2.0},
		StaticEntry{EntryName: "DFFRSX1", Seq: celltype.DFFrs, AreaVal: 3.0},
	}
	lib := FromEntries(entries)

	dffs := lib.GetDFF()
	if len(dffs) != 1 || lib.Get(dffs[0]).Name() != "DFFX1" {
		t.Fatalf("GetDFF() = %v, want [DFFX1]", dffs)
	}
	rs := lib.GetDFFrs()
	if len(rs) != 1 || lib.Get(rs[0]).Name() != "DFFRSX1" {
		t.Fatalf("GetDFFrs() = %v, want [DFFRSX1]", rs)
	}
}
