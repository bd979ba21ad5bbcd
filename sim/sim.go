// Package sim implements a bit-parallel simulator: each Run walks the
// subnet's entries in order and evaluates every cell with a kernel
// selected from a dispatch table keyed by (symbol, arity); no per-entry
// kernel list is precomputed. Each kernel operates on a 64-bit word, so
// one Run call evaluates 64 independent input vectors at once.
package sim

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/subnet"
)

// Word holds 64 independent simulation lanes, one bit each.
type Word = uint64

// Resolver resolves a soft cell type's inner implementation subnet, mirroring
// cnf.Resolver; soft cells recursively instantiate a nested Program.
type Resolver interface {
	Get(id subnet.ID) *subnet.Subnet
}

type dispatchKey struct {
	sym   celltype.Symbol
	arity int // capped at maxKernelArity; larger arities share the n-ary kernel
}

const maxKernelArity = 3

type kernel func(links []subnet.Link, state []Word) Word

// dispatch selects a kernel by (symbol, capped arity): arities 2 and 3 of
// AND/OR/XOR get the same n-ary kernel here (it's already branch-free per
// lane), while MAJ3 gets its dedicated three-term kernel instead of a
// generic majority-vote loop.
var dispatch = map[dispatchKey]kernel{
	{celltype.AND, 2}: andN, {celltype.AND, 3}: andN, {celltype.AND, maxKernelArity + 1}: andN,
	{celltype.OR, 2}: orN, {celltype.OR, 3}: orN, {celltype.OR, maxKernelArity + 1}: orN,
	{celltype.XOR, 2}: xorN, {celltype.XOR, 3}: xorN, {celltype.XOR, maxKernelArity + 1}: xorN,
	{celltype.MAJ, 3}: maj3,
}

func fanin(links []subnet.Link, state []Word, i int) Word {
	l := links[i]
	v := state[l.Idx]
	if l.Inv {
		return ^v
	}
	return v
}

func andN(links []subnet.Link, state []Word) Word {
	acc := ^Word(0)
	for i := range links {
		acc &= fanin(links, state, i)
	}
	return acc
}

func orN(links []subnet.Link, state []Word) Word {
	var acc Word
	for i := range links {
		acc |= fanin(links, state, i)
	}
	return acc
}

func xorN(links []subnet.Link, state []Word) Word {
	var acc Word
	for i := range links {
		acc ^= fanin(links, state, i)
	}
	return acc
}

func maj3(links []subnet.Link, state []Word) Word {
	a, b, c := fanin(links, state, 0), fanin(links, state, 1), fanin(links, state, 2)
	return (a & b) | (a & c) | (b & c)
}

func kernelFor(sym celltype.Symbol, arity int) (kernel, bool) {
	k := arity
	if k > maxKernelArity {
		k = maxKernelArity + 1 // n-ary fallback bucket
	}
	fn, ok := dispatch[dispatchKey{sym, k}]
	return fn, ok
}

// Program holds a subnet and its resolver; kernels are looked up in the
// dispatch table on every Run rather than stored per entry.
type Program struct {
	s        *subnet.Subnet
	resolver Resolver
}

// Compile prepares s for repeated simulate() calls. resolver may be nil if
// s contains no soft multi-bit operators.
func Compile(s *subnet.Subnet, resolver Resolver) *Program {
	return &Program{s: s, resolver: resolver}
}

// Run evaluates the compiled program against one 64-lane batch of primary
// input vectors (inputs[k] is the k-th primary input's 64 simulated bits)
// and returns the corresponding 64-lane output vectors.
func (p *Program) Run(inputs []Word) ([]Word, error) {
	state, err := p.RunAll(inputs)
	if err != nil {
		return nil, err
	}
	s := p.s
	outs := make([]Word, s.GetOutNum())
	for k := 0; k < s.GetOutNum(); k++ {
		outs[k] = state[s.GetOut(k)]
	}
	return outs, nil
}

// RunAll evaluates the compiled program the same way Run does, but
// returns every entry's 64-lane value instead of just the primary
// outputs — used by callers that need per-node activity, e.g. the
// techmapper's switching-activity estimator.
func (p *Program) RunAll(inputs []Word) ([]Word, error) {
	s := p.s
	state := make([]Word, s.Size())
	inIdx := 0

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		links := s.GetLinks(i)

		switch sym {
		case celltype.IN:
			if inIdx < len(inputs) {
				state[i] = inputs[inIdx]
			}
			inIdx++
		case celltype.ZERO:
			state[i] = 0
		case celltype.ONE:
			state[i] = ^Word(0)
		case celltype.OUT, celltype.BUF:
			state[i] = fanin(links, state, 0)
		case celltype.DFF, celltype.DFFrs, celltype.LATCH, celltype.LATCHrs:
			state[i] = 0 // no sequential depth in a single combinational batch
		case celltype.AND, celltype.OR, celltype.XOR, celltype.MAJ:
			k, ok := kernelFor(sym, len(links))
			if !ok {
				return nil, gateerr.New(gateerr.EncoderUnsupported, "sim: no kernel for "+sym.String())
			}
			state[i] = k(links, state)
		default:
			ct := s.Registry().Get(s.Type(i))
			if ct.Flags&celltype.IsSoft == 0 {
				return nil, gateerr.New(gateerr.EncoderUnsupported, "sim: symbol "+sym.String()+" has no kernel")
			}
			v, err := p.runSoft(ct, links, state)
			if err != nil {
				return nil, err
			}
			state[i] = v
		}
	}

	return state, nil
}

// runSoft recursively instantiates a nested Program for a soft cell's
// inner implementation and binds its interface ports to the outer cell's
// fanin values.
func (p *Program) runSoft(ct celltype.CellType, links []subnet.Link, state []Word) (Word, error) {
	if p.resolver == nil || ct.ImplSubnet == nil {
		return 0, gateerr.New(gateerr.EncoderUnsupported, "sim: soft operator "+ct.Symbol.String()+" has no resolvable implementation")
	}
	id, ok := ct.ImplSubnet.(subnet.ID)
	if !ok {
		return 0, gateerr.New(gateerr.EncoderUnsupported, "sim: malformed ImplSubnet for "+ct.Symbol.String())
	}
	inner := p.resolver.Get(id)
	if inner == nil {
		return 0, gateerr.New(gateerr.EncoderUnsupported, "sim: unresolved implementation subnet for "+ct.Symbol.String())
	}

	innerInputs := make([]Word, len(links))
	for i := range links {
		innerInputs[i] = fanin(links, state, i)
	}
	inner2 := Compile(inner, p.resolver)
	outs, err := inner2.Run(innerInputs)
	if err != nil {
		return 0, err
	}
	if len(outs) != 1 {
		return 0, gateerr.New(gateerr.EncoderUnsupported, "sim: soft operator implementation must be single-output")
	}
	return outs[0], nil
}
