package subnet

import "testing"

import "github.com/hlimds/gate/celltype"

func newTestBuilder() (*Builder, *celltype.Registry) {
	reg := celltype.Builtins()
	return New(reg), reg
}

func mustID(t *testing.T, reg *celltype.Registry, name string) celltype.ID {
	t.Helper()
	id, ok := reg.Lookup(name)
	if !ok {
		t.Fatalf("registry has no %s cell type", name)
	}
	return id
}

func TestAddInputsAndOutput(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	if len(ins) != 2 {
		t.Fatalf("AddInputs(2) returned %d links", len(ins))
	}

	andID := mustID(t, reg, "AND")
	out, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(out); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	if got := b.NumEntries(); got != 4 {
		t.Fatalf("NumEntries() = %d, want 4 (2 inputs + AND + OUT)", got)
	}
}

func TestAddCellStrashesDuplicates(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")

	l1, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("first AddCell: %v", err)
	}
	l2, err := b.AddCell(andID, []Link{ins[1], ins[0]}) // commutative: reversed order
	if err != nil {
		t.Fatalf("second AddCell: %v", err)
	}
	if l1 != l2 {
		t.Fatalf("commutative AND was not strashed: %v != %v", l1, l2)
	}
	if got := b.entries[l1.Idx].refcnt; got != 0 {
		t.Fatalf("refcnt of un-consumed AND cell = %d, want 0", got)
	}
}

func TestDepthPropagatesThroughChain(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(3)
	andID := mustID(t, reg, "AND")

	l1, err := b.AddCell(andID, ins[:2])
	if err != nil {
		t.Fatalf("AddCell 1: %v", err)
	}
	l2, err := b.AddCell(andID, []Link{l1, ins[2]})
	if err != nil {
		t.Fatalf("AddCell 2: %v", err)
	}
	if d := b.depthOf(int32(l1.Idx)); d != 1 {
		t.Fatalf("depth(l1) = %d, want 1", d)
	}
	if d := b.depthOf(int32(l2.Idx)); d != 2 {
		t.Fatalf("depth(l2) = %d, want 2", d)
	}
}

func TestAddCellTreeRequiresRegroupable(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(4)
	dffID := mustID(t, reg, "DFF")
	if _, err := b.AddCellTree(dffID, ins, 2); err == nil {
		t.Fatal("AddCellTree over a non-regroupable symbol should fail")
	}

	andID := mustID(t, reg, "AND")
	out, err := b.AddCellTree(andID, ins, 2)
	if err != nil {
		t.Fatalf("AddCellTree(AND): %v", err)
	}
	if err := b.AddOutput(out); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	// 4 inputs folded 2-ary: 2 inner ANDs + 1 root AND = 3 new cells.
	if got := b.NumEntries(); got != 4+3+1 {
		t.Fatalf("NumEntries() = %d, want %d", got, 4+3+1)
	}
}

func TestMergeCellsRejectsCycle(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	l1, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	err = b.MergeCells(map[int32][]int32{int32(l1.Idx): {int32(ins[0].Idx)}})
	if err == nil {
		t.Fatal("MergeCells should reject merging a fanin onto its own consumer")
	}
}

func TestReplaceWithZeroMergesFanouts(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	l1, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := b.AddOutput(l1); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	if err := b.ReplaceWithZero([]int32{int32(l1.Idx)}); err != nil {
		t.Fatalf("ReplaceWithZero: %v", err)
	}

	// the AND cell should now be dangling and collected.
	for i := range b.entries {
		if b.entries[i].alive && b.entries[i].typ == andID {
			t.Fatalf("AND cell at %d survived ReplaceWithZero", i)
		}
	}
}

func TestMakeFailsWithoutOutput(t *testing.T) {
	b, _ := newTestBuilder()
	b.AddInputs(1)
	if _, err := b.Make(); err == nil {
		t.Fatal("Make() on a builder with no outputs should fail")
	}
}

func TestMakeRoundTripsThroughFromSubnet(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	l1, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := b.AddOutput(l1); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if s.GetInNum() != 2 || s.GetOutNum() != 1 {
		t.Fatalf("frozen subnet shape = (%d in, %d out), want (2, 1)", s.GetInNum(), s.GetOutNum())
	}

	b2 := FromSubnet(reg, s)
	if b2.NumEntries() != b.NumEntries() {
		t.Fatalf("FromSubnet produced %d entries, want %d", b2.NumEntries(), b.NumEntries())
	}
}

func TestElideSingleFanoutBuf(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(1)
	bufID := mustID(t, reg, "BUF")
	buf, err := b.AddCell(bufID, ins)
	if err != nil {
		t.Fatalf("AddCell(BUF): %v", err)
	}
	if err := b.AddOutput(buf); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	for i := 0; i < s.Size(); i++ {
		if s.Symbol(i) == celltype.BUF {
			t.Fatalf("entry %d is still a BUF after Make() elision", i)
		}
	}
}
