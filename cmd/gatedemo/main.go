// gatedemo builds a small netlist, technology-maps it against a toy
// library, proves the mapped result equivalent to the original with the
// SAT checker, and prints a cost estimate and mapping statistics —
// exercising subnet, techmap, check and cost end to end in one run.
package main

import (
	"log"
	"math/rand/v2"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/check"
	"github.com/hlimds/gate/cost"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/subnet"
	"github.com/hlimds/gate/techmap"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	reg := celltype.Builtins()
	s := buildFullAdder(reg)
	log.Printf("built full adder: %d entries, %d inputs, %d outputs", s.Size(), s.GetInNum(), s.GetOutNum())

	lib := toyLibrary()
	prng := rand.New(rand.NewPCG(1, 1))
	mapper := techmap.NewMapper(lib, techmap.SDC{}, 4, 8, prng.Uint64)

	mapped, stats, err := mapper.Map(s)
	if err != nil {
		log.Fatalf("Map: %v", err)
	}
	log.Printf("mapped using %d distinct cell types, total area %.2f, depth %d", len(stats.CellHistogram), stats.TotalArea, stats.Depth)
	for name, n := range stats.CellHistogram {
		log.Printf("  %s x%d", name, n)
	}

	identity := make([]int, s.GetInNum())
	for i := range identity {
		identity[i] = i
	}
	checker := &check.SATChecker{}
	verdict, cex, err := checker.Equivalent(s, mapped, identity)
	if err != nil {
		log.Fatalf("Equivalent: %v", err)
	}
	log.Printf("mapped circuit is %s relative to the original (counterexample: %v)", verdict, cex)

	estimator := cost.LogicEstimator{Resolver: nil, Rand: prng.Uint64}
	vec, err := estimator.Estimate(s)
	if err != nil {
		log.Fatalf("Estimate: %v", err)
	}
	log.Printf("original cost vector: cells=%.0f depth=%.0f switching=%.1f", vec[0], vec[1], vec[2])
}

// buildFullAdder builds sum = a^b^cin, cout = maj(a,b,cin).
func buildFullAdder(reg *celltype.Registry) *subnet.Subnet {
	b := subnet.New(reg)
	ins := b.AddInputs(3)
	a, bIn, cin := ins[0], ins[1], ins[2]

	xorID, _ := reg.Lookup("XOR")
	majID, _ := reg.Lookup("MAJ")

	abXor, err := b.AddCell(xorID, subnet.LinkList{a, bIn})
	must(err)
	sum, err := b.AddCell(xorID, subnet.LinkList{abXor, cin})
	must(err)
	cout, err := b.AddCell(majID, subnet.LinkList{a, bIn, cin})
	must(err)

	must(b.AddOutput(sum))
	must(b.AddOutput(cout))

	s, err := b.Make()
	must(err)
	return s
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func toyLibrary() *library.Library {
	xor2 := library.NewTruthTable(2)
	xor2.Set(0b01, true)
	xor2.Set(0b10, true)

	maj3 := library.NewTruthTable(3)
	for pattern := uint64(0); pattern < 8; pattern++ {
		bits := 0
		for bit := 0; bit < 3; bit++ {
			if pattern&(1<<uint(bit)) != 0 {
				bits++
			}
		}
		if bits >= 2 {
			maj3.Set(pattern, true)
		}
	}

	return library.FromEntries([]library.Entry{
		library.StaticEntry{EntryName: "XOR2X1", TT: xor2, AreaVal: 2.0,
			Pins: []library.StaticPin{{RisePower: 0.1, FallPower: 0.1}, {RisePower: 0.1, FallPower: 0.1}}},
		library.StaticEntry{EntryName: "MAJ3X1", TT: maj3, AreaVal: 3.0,
			Pins: []library.StaticPin{{RisePower: 0.15, FallPower: 0.15}, {RisePower: 0.15, FallPower: 0.15}, {RisePower: 0.15, FallPower: 0.15}}},
	})
}
