package cut

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

// Set holds, for every entry of a subnet, its list of up-to-L k-feasible
// cuts. Queries return the list by reference: callers must
// not mutate a returned slice.
type Set struct {
	k, l int
	cuts [][]*Cut // indexed by entry
}

// Enumerate computes k-feasible cuts (up to l per entry) for every entry of
// s, bottom-up in storage order: each interior entry's cut-set is the
// Cartesian merge of its fanins' cut-sets, pruned of oversized, dominated,
// and duplicate cuts, always including the trivial cut {i}.
func Enumerate(s *subnet.Subnet, k, l int) *Set {
	cs := &Set{k: k, l: l, cuts: make([][]*Cut, s.Size())}

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		trivial := newCut([]int32{int32(i)})

		if sym == celltype.IN || len(s.GetLinks(i)) == 0 {
			cs.cuts[i] = []*Cut{trivial}
			continue
		}

		links := s.GetLinks(i)
		combos := [][]int32{{}}
		for _, link := range links {
			faninCuts := cs.cuts[link.Idx]
			var next [][]int32
			for _, combo := range combos {
				for _, fc := range faninCuts {
					merged := unionSorted(combo, fc.Leaves)
					if len(merged) > k {
						continue
					}
					next = append(next, merged)
				}
			}
			combos = next
			if len(combos) == 0 {
				break
			}
		}

		seen := make(map[string]bool)
		candidates := []*Cut{trivial}
		seen[trivial.key()] = true
		for _, leaves := range combos {
			c := newCut(leaves)
			if seen[c.key()] {
				continue
			}
			seen[c.key()] = true
			candidates = append(candidates, c)
		}

		cs.cuts[i] = prune(candidates, l)
	}

	return cs
}

// prune removes dominated cuts, then caps the remaining list at l entries,
// keeping the smallest cuts first: discard cuts dominated by a smaller
// cut of the same root, then apply the per-entry limit L.
func prune(cands []*Cut, l int) []*Cut {
	var kept []*Cut
	for _, c := range cands {
		dominated := false
		for _, other := range cands {
			if other == c {
				continue
			}
			if other.dominates(c) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}

	sortBySize(kept)
	if l > 0 && len(kept) > l {
		kept = kept[:l]
	}
	return kept
}

func sortBySize(cuts []*Cut) {
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && len(cuts[j].Leaves) < len(cuts[j-1].Leaves); j-- {
			cuts[j], cuts[j-1] = cuts[j-1], cuts[j]
		}
	}
}

func unionSorted(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Cuts returns entry i's cut list by reference; the trivial cut {i} is
// always the first entry, since the list is stably sorted by size and it
// is never pruned for being dominated (nothing can be a proper subset of a
// single-element set other than the empty set).
func (cs *Set) Cuts(i int) []*Cut { return cs.cuts[i] }

// K returns the target cut size this Set was enumerated with.
func (cs *Set) K() int { return cs.k }
