package sim_test

import (
	"math/rand/v2"
	"testing"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/internal/tests/golden"
	"github.com/hlimds/gate/internal/tests/random"
	"github.com/hlimds/gate/sim"
)

// TestRunAgreesWithGoldenEval cross-checks the bit-parallel simulator
// against the naive golden.Eval reference on random netlists, one lane at
// a time: every one of the 64 simulated lanes must match golden's
// per-assignment evaluation of the same inputs.
func TestRunAgreesWithGoldenEval(t *testing.T) {
	prng := rand.New(rand.NewPCG(11, 22))
	reg := celltype.Builtins()

	for trial := 0; trial < 20; trial++ {
		numIns := 2 + prng.IntN(4)
		s, err := random.Subnet(prng, reg, numIns, 8)
		if err != nil {
			t.Fatalf("random.Subnet: %v", err)
		}
		words := random.Vectors(prng, numIns)

		prog := sim.Compile(s, nil)
		outs, err := prog.Run(words)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		for lane := 0; lane < 64; lane++ {
			assignment := make([]bool, numIns)
			for k, w := range words {
				assignment[k] = (uint64(w)>>uint(lane))&1 != 0
			}
			want := golden.Eval(s, assignment)
			got := (uint64(outs[0])>>uint(lane))&1 != 0
			if got != want[0] {
				t.Fatalf("trial %d lane %d: Run bit = %v, golden.Eval = %v (inputs %v)",
					trial, lane, got, want[0], assignment)
			}
		}
	}
}
