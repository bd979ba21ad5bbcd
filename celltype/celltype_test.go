package celltype

import "testing"

func TestRegisterRejectsNegativeSymbol(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(CellType{Symbol: NAND, Name: "nand", InArity: AnyArity, OutArity: 1})
	if err == nil {
		t.Fatal("Register should reject a negative symbol")
	}
}

func TestBuiltinsFlagsInferred(t *testing.T) {
	r := Builtins()
	id, ok := r.Lookup("AND")
	if !ok {
		t.Fatal("Builtins() registry has no AND")
	}
	ct := r.Get(id)
	if ct.Flags&Commutative == 0 {
		t.Fatal("AND should be auto-flagged Commutative")
	}
	if ct.Flags&Regroupable == 0 {
		t.Fatal("AND should be auto-flagged Regroupable")
	}
}

func TestBuiltinsSoftArithmeticFamily(t *testing.T) {
	r := Builtins()
	for _, name := range []string{"ADD", "SUB", "MUL", "LT", "LE", "GT", "GE", "EQ", "NEQ", "SHL", "SHR"} {
		id, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("Builtins() registry has no %s", name)
		}
		ct := r.Get(id)
		if ct.Flags&IsSoft == 0 {
			t.Fatalf("%s should be flagged IsSoft", name)
		}
		if ct.ImplSubnet != nil {
			t.Fatalf("%s should start with a nil ImplSubnet", name)
		}
	}
}

func TestIsNegative(t *testing.T) {
	cases := []struct {
		sym  Symbol
		want bool
	}{
		{NOT, true}, {NAND, true}, {NOR, true}, {XNOR, true},
		{AND, false}, {OR, false}, {IN, false}, {OUT, false},
	}
	for _, c := range cases {
		if got := IsNegative(c.sym); got != c.want {
			t.Errorf("IsNegative(%s) = %v, want %v", c.sym, got, c.want)
		}
	}
}
