package techmap

import (
	"testing"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/subnet"
)

func buildSingleDFF(t *testing.T) *subnet.Subnet {
	t.Helper()
	reg := celltype.Builtins()
	b := subnet.New(reg)
	ins := b.AddInputs(1) // d
	dffID, ok := reg.Lookup("DFF")
	if !ok {
		t.Fatalf("no DFF cell type registered")
	}
	q, err := b.AddCell(dffID, ins)
	if err != nil {
		t.Fatalf("AddCell(DFF): %v", err)
	}
	if err := b.AddOutput(q); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	return s
}

func dffLibrary() *library.Library {
	return library.FromEntries([]library.Entry{
		library.StaticEntry{EntryName: "DFFX2", Seq: celltype.DFF, AreaVal: 4.0},
		library.StaticEntry{EntryName: "DFFX1", Seq: celltype.DFF, AreaVal: 2.0},
	})
}

func TestMapSequentialPicksCheapestByArea(t *testing.T) {
	s := buildSingleDFF(t)
	lib := dffLibrary()

	mapped, err := MapSequential(s, lib, StrategyArea)
	if err != nil {
		t.Fatalf("MapSequential: %v", err)
	}

	found := ""
	for i := 0; i < mapped.Size(); i++ {
		ct := mapped.Registry().Get(mapped.Type(i))
		if ct.Flags&celltype.IsHard != 0 {
			found = ct.Name
		}
	}
	if found != "DFFX1" {
		t.Fatalf("mapped cell = %q, want DFFX1 (smaller area)", found)
	}
}

func TestMapSequentialFailsWithoutCandidate(t *testing.T) {
	s := buildSingleDFF(t)
	emptyLib := library.FromEntries(nil)

	if _, err := MapSequential(s, emptyLib, StrategyArea); err == nil {
		t.Fatalf("MapSequential: want error when no sequential library cell matches")
	}
}
