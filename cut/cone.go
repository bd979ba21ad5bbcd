package cut

import (
	"github.com/hlimds/gate/subnet"
)

// Cone is the result of reconstructing a standalone subnet from a cut:
// the fresh subnet itself, plus a map from the cone's own entry indices
// back to the indices they came from in the original subnet.
type Cone struct {
	Subnet          *subnet.Subnet
	EntryToOriginal []int32
}

// GetCone constructs a fresh subnet whose inputs, in the cut's leaf order,
// equal c's leaves, and whose interior cells replicate root's transitive
// fan-in restricted to those leaves.
func GetCone(s *subnet.Subnet, root int, c *Cut) (*Cone, error) {
	b := subnet.New(s.Registry())
	mapping := make(map[int32]int32, c.Size())
	var entryToOriginal []int32

	for _, leaf := range c.Leaves {
		l := b.AddInput()
		mapping[leaf] = int32(l.Idx)
		entryToOriginal = append(entryToOriginal, leaf)
	}

	var build func(idx int32) (subnet.Link, error)
	build = func(idx int32) (subnet.Link, error) {
		if newIdx, ok := mapping[idx]; ok {
			return subnet.Link{Idx: uint32(newIdx)}, nil
		}
		links := s.GetLinks(int(idx))
		typ := s.Type(int(idx))
		translated := make([]subnet.Link, len(links))
		for j, l := range links {
			sub, err := build(int32(l.Idx))
			if err != nil {
				return subnet.Link{}, err
			}
			translated[j] = subnet.Link{Idx: sub.Idx, Out: l.Out, Inv: l.Inv}
		}
		lk, err := b.AddCell(typ, translated)
		if err != nil {
			return subnet.Link{}, err
		}
		mapping[idx] = int32(lk.Idx)
		entryToOriginal = append(entryToOriginal, idx)
		return lk, nil
	}

	rootLink, err := build(int32(root))
	if err != nil {
		return nil, err
	}
	if err := b.AddOutput(rootLink); err != nil {
		return nil, err
	}
	cone, err := b.Make()
	if err != nil {
		return nil, err
	}
	return &Cone{Subnet: cone, EntryToOriginal: entryToOriginal}, nil
}

// GetMaxCone takes root's whole fan-in DAG as far back as primary
// inputs/constants: the cut is every zero-fanin entry (IN/ZERO/ONE)
// transitively reachable from root.
func GetMaxCone(s *subnet.Subnet, root int) (*Cone, error) {
	seen := make(map[int32]bool)
	var leaves []int32
	var walk func(idx int32)
	walk = func(idx int32) {
		if seen[idx] {
			return
		}
		seen[idx] = true
		links := s.GetLinks(int(idx))
		if len(links) == 0 {
			leaves = append(leaves, idx)
			return
		}
		for _, l := range links {
			walk(int32(l.Idx))
		}
	}
	walk(int32(root))

	c := newCut(leaves)
	return GetCone(s, root, c)
}
