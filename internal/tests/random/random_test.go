package random

import (
	"math/rand/v2"
	"testing"

	"github.com/hlimds/gate/celltype"
)

func TestSubnetHasExpectedShape(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))
	reg := celltype.Builtins()

	for range 50 {
		s, err := Subnet(prng, reg, 4, 6)
		if err != nil {
			t.Fatalf("Subnet: %v", err)
		}
		if s.GetInNum() != 4 {
			t.Errorf("GetInNum() = %d, want 4", s.GetInNum())
		}
		if s.GetOutNum() != 1 {
			t.Errorf("GetOutNum() = %d, want 1", s.GetOutNum())
		}
	}
}

func TestSubnetWithZeroGatesIsJustAnInput(t *testing.T) {
	prng := rand.New(rand.NewPCG(1, 1))
	reg := celltype.Builtins()

	s, err := Subnet(prng, reg, 3, 0)
	if err != nil {
		t.Fatalf("Subnet: %v", err)
	}
	if s.GetOutNum() != 1 {
		t.Fatalf("GetOutNum() = %d, want 1", s.GetOutNum())
	}
}

func TestSubnetDeterministicWithSameSeed(t *testing.T) {
	reg := celltype.Builtins()
	prng1 := rand.New(rand.NewPCG(42, 42))
	prng2 := rand.New(rand.NewPCG(42, 42))

	s1, err := Subnet(prng1, reg, 4, 8)
	if err != nil {
		t.Fatalf("Subnet: %v", err)
	}
	s2, err := Subnet(prng2, reg, 4, 8)
	if err != nil {
		t.Fatalf("Subnet: %v", err)
	}
	if s1.Size() != s2.Size() {
		t.Fatalf("same seed produced different sizes: %d vs %d", s1.Size(), s2.Size())
	}
	for i := 0; i < s1.Size(); i++ {
		if s1.Symbol(i) != s2.Symbol(i) {
			t.Fatalf("entry %d symbol differs between same-seed runs", i)
		}
	}
}

func TestVectorsLength(t *testing.T) {
	prng := rand.New(rand.NewPCG(0, 0))
	words := Vectors(prng, 5)
	if len(words) != 5 {
		t.Fatalf("Vectors length = %d, want 5", len(words))
	}
}

func TestBooleansDistribution(t *testing.T) {
	prng := rand.New(rand.NewPCG(7, 7))
	trueCount := 0
	const n = 2000
	for range n {
		bits := Booleans(prng, 1)
		if bits[0] {
			trueCount++
		}
	}
	if trueCount < n*4/10 || trueCount > n*6/10 {
		t.Errorf("Booleans distribution out of expected range: %d/%d true", trueCount, n)
	}
}
