package subnet

import (
	"testing"

	"github.com/hlimds/gate/celltype"
)

func TestReplaceRepointsRootInPlace(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	lAnd, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(lAnd); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	rb := New(reg)
	rins := rb.AddInputs(2)
	orID := mustID(t, reg, "OR")
	lOr, err := rb.AddCell(orID, rins)
	if err != nil {
		t.Fatalf("rhs AddCell(OR): %v", err)
	}
	if err := rb.AddOutput(lOr); err != nil {
		t.Fatalf("rhs AddOutput: %v", err)
	}
	rhs, err := rb.Make()
	if err != nil {
		t.Fatalf("rhs Make: %v", err)
	}

	rootIdx := int(rhs.GetLink(rhs.GetOut(0), 0).Idx)
	rhsToLhs := map[int]int32{
		rhs.GetIn(0): int32(ins[0].Idx),
		rhs.GetIn(1): int32(ins[1].Idx),
		rootIdx:      int32(lAnd.Idx),
	}

	if err := b.Replace(rhs, rhsToLhs, ReplaceOptions{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if sym := b.entries[lAnd.Idx].symbol; sym != celltype.OR {
		t.Fatalf("LHS root symbol = %s, want OR (in-place repoint)", sym)
	}
}

func TestReplaceWrapsInputPassthroughInBuf(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	lAnd, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(lAnd); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	rb := New(reg)
	rin := rb.AddInputs(1)
	if err := rb.AddOutput(rin[0]); err != nil {
		t.Fatalf("rhs AddOutput: %v", err)
	}
	rhs, err := rb.Make()
	if err != nil {
		t.Fatalf("rhs Make: %v", err)
	}

	rootIdx := int(rhs.GetLink(rhs.GetOut(0), 0).Idx) // == rhs.GetIn(0)
	rhsToLhs := map[int]int32{
		rhs.GetIn(0): int32(ins[0].Idx),
		rootIdx:      int32(lAnd.Idx),
	}

	if err := b.Replace(rhs, rhsToLhs, ReplaceOptions{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	e := &b.entries[lAnd.Idx]
	if e.symbol != celltype.BUF {
		t.Fatalf("LHS root symbol = %s, want BUF (input pass-through)", e.symbol)
	}
	if len(e.links) != 1 || e.links[0].Idx != ins[0].Idx {
		t.Fatalf("BUF wrapper links = %v, want a single link to input 0", e.links)
	}
}

func TestReplaceInvokesCallbacks(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	lAnd, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(lAnd); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	rb := New(reg)
	rins := rb.AddInputs(2)
	xorID := mustID(t, reg, "XOR")
	lXor, err := rb.AddCell(xorID, rins)
	if err != nil {
		t.Fatalf("rhs AddCell(XOR): %v", err)
	}
	if err := rb.AddOutput(lXor); err != nil {
		t.Fatalf("rhs AddOutput: %v", err)
	}
	rhs, err := rb.Make()
	if err != nil {
		t.Fatalf("rhs Make: %v", err)
	}

	rootIdx := int(rhs.GetLink(rhs.GetOut(0), 0).Idx)
	rhsToLhs := map[int]int32{
		rhs.GetIn(0): int32(ins[0].Idx),
		rhs.GetIn(1): int32(ins[1].Idx),
		rootIdx:      int32(lAnd.Idx),
	}

	var newCells int
	opts := ReplaceOptions{OnNewCell: func(idx int32) { newCells++ }}
	if err := b.Replace(rhs, rhsToLhs, opts); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if newCells != 1 {
		t.Fatalf("OnNewCell fired %d times, want 1 (root repoint only)", newCells)
	}
}

func TestEvaluateReplaceDoesNotMutate(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)
	andID := mustID(t, reg, "AND")
	lAnd, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(lAnd); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	before := b.NumEntries()

	rb := New(reg)
	rins := rb.AddInputs(2)
	orID := mustID(t, reg, "OR")
	lOr, err := rb.AddCell(orID, rins)
	if err != nil {
		t.Fatalf("rhs AddCell(OR): %v", err)
	}
	if err := rb.AddOutput(lOr); err != nil {
		t.Fatalf("rhs AddOutput: %v", err)
	}
	rhs, err := rb.Make()
	if err != nil {
		t.Fatalf("rhs Make: %v", err)
	}

	rootIdx := int(rhs.GetLink(rhs.GetOut(0), 0).Idx)
	rhsToLhs := map[int]int32{
		rhs.GetIn(0): int32(ins[0].Idx),
		rhs.GetIn(1): int32(ins[1].Idx),
		rootIdx:      int32(lAnd.Idx),
	}

	if _, err := b.EvaluateReplace(rhs, rhsToLhs, ReplaceOptions{}); err != nil {
		t.Fatalf("EvaluateReplace: %v", err)
	}
	if got := b.NumEntries(); got != before {
		t.Fatalf("EvaluateReplace mutated the builder: NumEntries() = %d, want %d", got, before)
	}
	if sym := b.entries[lAnd.Idx].symbol; sym != celltype.AND {
		t.Fatalf("EvaluateReplace mutated the LHS root: symbol = %s, want AND", sym)
	}
}

func TestAddSubnetSplices(t *testing.T) {
	b, reg := newTestBuilder()
	ins := b.AddInputs(2)

	ib := New(reg)
	irins := ib.AddInputs(2)
	andID := mustID(t, reg, "AND")
	lAnd, err := ib.AddCell(andID, irins)
	if err != nil {
		t.Fatalf("inner AddCell: %v", err)
	}
	if err := ib.AddOutput(lAnd); err != nil {
		t.Fatalf("inner AddOutput: %v", err)
	}
	inner, err := ib.Make()
	if err != nil {
		t.Fatalf("inner Make: %v", err)
	}

	outs, err := b.AddSubnet(inner, LinkList{ins[0], ins[1]}, nil)
	if err != nil {
		t.Fatalf("AddSubnet: %v", err)
	}
	if len(outs) != 1 {
		t.Fatalf("AddSubnet returned %d outputs, want 1", len(outs))
	}
	if err := b.AddOutput(outs[0]); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	if b.entries[outs[0].Idx].symbol != celltype.AND {
		t.Fatalf("spliced cell symbol = %s, want AND", b.entries[outs[0].Idx].symbol)
	}
}
