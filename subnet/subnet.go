package subnet

import (
	"sync"
	"sync/atomic"

	"github.com/hlimds/gate/celltype"
)

// ID stably identifies a frozen Subnet within an Intern table.
type ID int64

// frozenEntry is a single read-only arena slot in a frozen Subnet.
type frozenEntry struct {
	typ     celltype.ID
	symbol  celltype.Symbol
	links   []Link
	refcnt  int32
	depth   int32
}

// Subnet is an immutable, contiguously allocated sequence of cells.
// Inputs occupy entries [0, nIn); outputs occupy the last
// nOut entries; every link points strictly backward in storage order.
type Subnet struct {
	id      ID
	reg     *celltype.Registry
	entries []frozenEntry
	nIn     int
	nOut    int
}

func (s *Subnet) ID() ID                       { return s.id }
func (s *Subnet) Registry() *celltype.Registry { return s.reg }
func (s *Subnet) size() int                    { return len(s.entries) }
func (s *Subnet) Size() int                    { return len(s.entries) }
func (s *Subnet) GetInNum() int                { return s.nIn }
func (s *Subnet) GetOutNum() int                { return s.nOut }

// GetIn returns the entry index of the k-th primary input.
func (s *Subnet) GetIn(k int) int { return k }

// GetOut returns the entry index of the k-th primary output (outputs are
// the suffix of the arena).
func (s *Subnet) GetOut(k int) int { return len(s.entries) - s.nOut + k }

// Type returns the cell type of entry i.
func (s *Subnet) Type(i int) celltype.ID { return s.entries[i].typ }

// Symbol returns the cached symbol of entry i.
func (s *Subnet) Symbol(i int) celltype.Symbol { return s.entries[i].symbol }

// Refcount returns the in-degree of entry i.
func (s *Subnet) Refcount(i int) int { return int(s.entries[i].refcnt) }

// Depth returns the depth of entry i (0 for inputs/constants).
func (s *Subnet) Depth(i int) int { return int(s.entries[i].depth) }

// GetLinks returns the link list of entry i.
func (s *Subnet) GetLinks(i int) []Link { return s.entries[i].links }

// GetLink returns the link at the given index of entry i's link list.
func (s *Subnet) GetLink(i, slot int) Link { return s.entries[i].links[slot] }

// GetEntries exposes the full entry index range [0, Size()).
func (s *Subnet) GetEntries() []int {
	idx := make([]int, len(s.entries))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// GetPathLength returns the (min, max) path length in cells over all
// input→output paths.
func (s *Subnet) GetPathLength() (min, max int) {
	if len(s.entries) == 0 {
		return 0, 0
	}
	minD := make([]int, len(s.entries))
	maxD := make([]int, len(s.entries))
	for i := range s.entries {
		e := &s.entries[i]
		if len(e.links) == 0 {
			minD[i], maxD[i] = 0, 0
			continue
		}
		mn, mx := -1, -1
		for _, l := range e.links {
			d := int(l.Idx)
			if mn == -1 || minD[d]+1 < mn {
				mn = minD[d] + 1
			}
			if maxD[d]+1 > mx {
				mx = maxD[d] + 1
			}
		}
		minD[i], maxD[i] = mn, mx
	}

	min, max = -1, -1
	for k := 0; k < s.nOut; k++ {
		o := s.GetOut(k)
		if min == -1 || minD[o] < min {
			min = minD[o]
		}
		if maxD[o] > max {
			max = maxD[o]
		}
	}
	if min == -1 {
		min = 0
	}
	return min, max
}

// Intern is the process-wide ID → *Subnet table, modeled as an explicit
// struct rather than a package-level global, so
// tests and independent pipelines never share hidden mutable state.
// Once published via Publish, a Subnet's entries are never mutated again;
// concurrent reads of a published Subnet are always safe.
type Intern struct {
	mu      sync.RWMutex
	next    atomic.Int64
	subnets map[ID]*Subnet
}

// NewIntern returns a fresh, empty intern table.
func NewIntern() *Intern {
	return &Intern{subnets: make(map[ID]*Subnet)}
}

// Publish assigns a fresh ID to s and stores it; s must not be mutated
// afterward.
func (in *Intern) Publish(s *Subnet) ID {
	id := ID(in.next.Add(1))
	s.id = id
	in.mu.Lock()
	in.subnets[id] = s
	in.mu.Unlock()
	return id
}

// Get returns the published Subnet for id, or nil if unknown.
func (in *Intern) Get(id ID) *Subnet {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.subnets[id]
}
