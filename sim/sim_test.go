package sim

import (
	"testing"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

func buildAnd2(t *testing.T) *subnet.Subnet {
	t.Helper()
	reg := celltype.Builtins()
	b := subnet.New(reg)
	ins := b.AddInputs(2)
	andID, _ := reg.Lookup("AND")
	out, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := b.AddOutput(out); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	return s
}

func TestRunAndTruthTable(t *testing.T) {
	s := buildAnd2(t)
	p := Compile(s, nil)

	// lane 0: a=0,b=0 -> 0; lane 1: a=1,b=0 -> 0; lane 2: a=0,b=1 -> 0;
	// lane 3: a=1,b=1 -> 1.
	a := Word(0b1010)
	b := Word(0b1100)
	outs, err := p.Run([]Word{a, b})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := Word(0b1000)
	if outs[0] != want {
		t.Fatalf("AND(%04b,%04b) = %04b, want %04b", a, b, outs[0], want)
	}
}
