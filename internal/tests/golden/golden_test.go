package golden

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

func TestEvalAndTruthTable(t *testing.T) {
	s := buildAnd2(t)
	cases := []struct {
		a, b, want bool
	}{
		{false, false, false},
		{false, true, false},
		{true, false, false},
		{true, true, true},
	}
	for _, c := range cases {
		out := Eval(s, []bool{c.a, c.b})
		if len(out) != 1 || out[0] != c.want {
			t.Errorf("Eval(%v,%v) = %v, want [%v]", c.a, c.b, out, c.want)
		}
	}
}

func TestEvalHandlesInvertedLinks(t *testing.T) {
	reg := celltype.Builtins()
	b := subnet.New(reg)
	ins := b.AddInputs(1)
	orID, _ := reg.Lookup("OR")
	out, err := b.AddCell(orID, subnet.LinkList{ins[0], ins[0].Invert()})
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

	for _, x := range []bool{false, true} {
		out := Eval(s, []bool{x})
		if !out[0] {
			t.Errorf("Eval(x|~x)(%v) = %v, want true (tautology)", x, out)
		}
	}
}
