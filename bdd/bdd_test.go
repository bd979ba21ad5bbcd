package bdd

import "testing"

func TestAndOfVarAndItsNegationIsZero(t *testing.T) {
	m := NewManager()
	x := m.Var(1)
	notX := m.Not(x)
	if got := m.And(x, notX); !m.IsZero(got) {
		t.Fatalf("x & !x = %v, want Zero", got)
	}
}

func TestXorOfEqualVarsIsZero(t *testing.T) {
	m := NewManager()
	x := m.Var(1)
	if got := m.Xor(x, x); !m.IsZero(got) {
		t.Fatalf("x ^ x = %v, want Zero", got)
	}
}

func TestOrOfVarAndNegationIsOne(t *testing.T) {
	m := NewManager()
	x := m.Var(1)
	notX := m.Not(x)
	if got := m.Or(x, notX); got != One {
		t.Fatalf("x | !x = %v, want One", got)
	}
}

func TestDoubleNegationIsIdentity(t *testing.T) {
	m := NewManager()
	x := m.Var(3)
	if got := m.Not(m.Not(x)); got != x {
		t.Fatalf("!!x = %v, want %v", got, x)
	}
}
