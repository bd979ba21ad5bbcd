// Package random generates random netlists and input vectors for fuzz-style
// cross-checking between the simulator, the CNF/SAT path, and the BDD path
// (no single one of them is trusted as ground truth; internal/tests/golden
// is).
package random

import (
	"math/rand/v2"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/sim"
	"github.com/hlimds/gate/subnet"
)

var binaryOps = []string{"AND", "OR", "XOR"}

// Subnet builds a random single-output combinational netlist over numIns
// primary inputs and numGates two-input AND/OR/XOR gates, each consuming
// two links drawn uniformly from the entries already defined (inputs or
// earlier gates), randomly inverted. The last gate (or the sole input, if
// numGates is 0) becomes the primary output.
func Subnet(prng *rand.Rand, reg *celltype.Registry, numIns, numGates int) (*subnet.Subnet, error) {
	if numIns < 1 {
		numIns = 1
	}
	b := subnet.New(reg)
	ins := b.AddInputs(numIns)

	pool := append(subnet.LinkList(nil), ins...)
	last := ins[len(ins)-1]

	for g := 0; g < numGates; g++ {
		opID, _ := reg.Lookup(binaryOps[prng.IntN(len(binaryOps))])
		a := randomLink(prng, pool)
		bl := randomLink(prng, pool)
		out, err := b.AddCell(opID, subnet.LinkList{a, bl})
		if err != nil {
			return nil, err
		}
		pool = append(pool, out)
		last = out
	}

	if err := b.AddOutput(last); err != nil {
		return nil, err
	}
	return b.Make()
}

func randomLink(prng *rand.Rand, pool subnet.LinkList) subnet.Link {
	l := pool[prng.IntN(len(pool))]
	if prng.IntN(2) == 1 {
		l = l.Invert()
	}
	return l
}

// Vectors returns one random 64-lane input batch for numIns primary
// inputs (one word per input), suitable for sim.Program.Run.
func Vectors(prng *rand.Rand, numIns int) []sim.Word {
	words := make([]sim.Word, numIns)
	for i := range words {
		words[i] = sim.Word(prng.Uint64())
	}
	return words
}

// Booleans returns one random assignment, a single bit per primary input,
// for the naive golden evaluator.
func Booleans(prng *rand.Rand, numIns int) []bool {
	bits := make([]bool, numIns)
	for i := range bits {
		bits[i] = prng.IntN(2) == 1
	}
	return bits
}
