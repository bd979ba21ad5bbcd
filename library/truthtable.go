// Package library implements a technology cell library: cell
// entries carrying truth tables, pin-level area/power, per-pin delay
// lookup tables, and symbol family, queried by truth-table match
// (order-agnostic over input permutations) or by sequential family.
package library

import "github.com/bits-and-blooms/bitset"

// TruthTable is a cell's combinational function over K inputs, one bit
// per minterm, backed by bits-and-blooms/bitset the same way the cut
// package backs leaf-sets with it.
type TruthTable struct {
	K    int
	bits *bitset.BitSet
}

// NewTruthTable returns an all-zero truth table over k inputs (2^k
// minterms).
func NewTruthTable(k int) *TruthTable {
	return &TruthTable{K: k, bits: bitset.New(uint(1) << uint(k))}
}

func (t *TruthTable) Set(minterm uint64, v bool) {
	if v {
		t.bits.Set(uint(minterm))
	} else {
		t.bits.Clear(uint(minterm))
	}
}

func (t *TruthTable) Test(minterm uint64) bool { return t.bits.Test(uint(minterm)) }

// Equal reports whether t and o define the same function over the same
// input count.
func (t *TruthTable) Equal(o *TruthTable) bool {
	return t.K == o.K && t.bits.Equal(o.bits)
}

// permuted returns the truth table obtained by relabeling input i to
// perm[i]: minterm bit b of t moves to the minterm with bit perm[i] set
// wherever b had bit i set.
func (t *TruthTable) permuted(perm []int) *TruthTable {
	out := NewTruthTable(t.K)
	for m := uint64(0); m < uint64(1)<<uint(t.K); m++ {
		if !t.Test(m) {
			continue
		}
		var nm uint64
		for i := 0; i < t.K; i++ {
			if m&(1<<uint(i)) != 0 {
				nm |= 1 << uint(perm[i])
			}
		}
		out.Set(nm, true)
	}
	return out
}

// canonicalKey returns the lexicographically smallest bitstring among all
// input permutations of t, used as a library index key so pattern
// matching by truth table is order-agnostic.
func (t *TruthTable) canonicalKey() string {
	perm := make([]int, t.K)
	for i := range perm {
		perm[i] = i
	}
	best := t.bitstring()
	permute(perm, func(p []int) {
		s := t.permuted(p).bitstring()
		if s < best {
			best = s
		}
	})
	return best
}

func (t *TruthTable) bitstring() string {
	buf := make([]byte, uint64(1)<<uint(t.K))
	for m := range buf {
		if t.Test(uint64(m)) {
			buf[m] = '1'
		} else {
			buf[m] = '0'
		}
	}
	return string(buf)
}

// permute calls visit once per permutation of the elements of perm
// (Heap's algorithm), including the identity permutation.
func permute(perm []int, visit func([]int)) {
	n := len(perm)
	c := make([]int, n)
	visit(append([]int(nil), perm...))
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[c[i]], perm[i] = perm[i], perm[c[i]]
			}
			visit(append([]int(nil), perm...))
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}
