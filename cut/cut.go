// Package cut implements k-feasible cut enumeration and cone extraction
// over a frozen subnet: for each entry, the set of
// leaf sets through which every input-to-entry path passes, and the
// reconstruction of a standalone subnet computing the restriction of an
// entry's function to a chosen cut.
//
// Grounded on github.com/bits-and-blooms/bitset for leaf-set membership
// and dominance tests — the same library that library.TruthTable uses
// for its truth-table bits.
package cut

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Cut is a non-empty set of entry indices (leaves): every input-to-root
// path passes through at least one leaf, and no leaf is redundant given
// the others.
type Cut struct {
	Leaves []int32
	bits   *bitset.BitSet
}

func newCut(leaves []int32) *Cut {
	sorted := append([]int32(nil), leaves...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sorted = dedupSorted(sorted)

	var maxLeaf uint
	for _, l := range sorted {
		if uint(l) > maxLeaf {
			maxLeaf = uint(l)
		}
	}
	bs := bitset.New(maxLeaf + 1)
	for _, l := range sorted {
		bs.Set(uint(l))
	}
	return &Cut{Leaves: sorted, bits: bs}
}

func dedupSorted(s []int32) []int32 {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// key renders the cut's sorted leaf set as a comparable string, for
// deduplication.
func (c *Cut) key() string {
	buf := make([]byte, 0, 4*len(c.Leaves))
	for _, l := range c.Leaves {
		buf = append(buf, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	}
	return string(buf)
}

// dominates reports whether c is a strictly smaller cut whose leaves are a
// subset of o's — meaning o is redundant once c is known (discarding
// cuts dominated by a smaller cut of the same root).
func (c *Cut) dominates(o *Cut) bool {
	if len(c.Leaves) >= len(o.Leaves) {
		return false
	}
	return o.bits.IsSuperSet(c.bits)
}

// Size returns the number of leaves in the cut.
func (c *Cut) Size() int { return len(c.Leaves) }

// Contains reports whether entry idx is one of the cut's leaves.
func (c *Cut) Contains(idx int32) bool {
	return c.bits.Test(uint(idx))
}
