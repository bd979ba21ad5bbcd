// Package subnet implements the append-only cell arena, structural hashing
// (strashing), fanout indexing, depth tracking and topological ordering:
// the subnet store and builder, the hard core of the netlist engine.
//
// Builder is the mutable working copy; Subnet is its immutable, frozen
// output. Grounded throughout on github.com/gaissmai/bart's node/Table
// split (a mutable trie builder producing an immutable, internable Table),
// adapted from IP prefixes to DAG cells.
package subnet

import (
	"fmt"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
)

// Builder owns the arena, the strash table, the fanout index, depth
// bounds, and the doubly-linked topological order.
type Builder struct {
	reg *celltype.Registry

	entries []cellEntry
	free    []int32 // free-list of deallocated slots, reused before growing the arena

	order  *orderState
	strash *strashTable

	fanout        [][]int32 // nil (disabled) until EnableFanouts
	fanoutEnabled bool

	session uint64

	nIn, nOut int

	pool *entryPool
}

// New returns an empty builder bound to registry reg.
func New(reg *celltype.Registry) *Builder {
	return &Builder{
		reg:    reg,
		order:  newOrderState(),
		strash: newStrashTable(),
		pool:   newEntryPool(),
	}
}

// FromSubnet returns a builder pre-populated with a copy of s's cells, so
// that further mutation (e.g. a rewrite pass) doesn't disturb the frozen
// original: a builder is created empty or from a frozen subnet.
func FromSubnet(reg *celltype.Registry, s *Subnet) *Builder {
	b := New(reg)
	remap := make([]int32, s.size())
	for i := range s.entries {
		se := &s.entries[i]
		links := make([]Link, len(se.links))
		for j, l := range se.links {
			l.Idx = uint32(remap[l.Idx])
			links[j] = l
		}
		var newIdx int32
		switch se.symbol {
		case celltype.IN:
			newIdx = b.addInputRaw()
		case celltype.OUT:
			newIdx = b.addOutputRaw(links[0])
		default:
			lk, err := b.AddCell(se.typ, links)
			if err != nil {
				panic(err) // s was already a valid, frozen subnet
			}
			newIdx = int32(lk.Idx)
		}
		remap[i] = newIdx
	}
	return b
}

// Registry returns the cell-type registry this builder is bound to.
func (b *Builder) Registry() *celltype.Registry { return b.reg }

// NumEntries returns the number of live entries currently in the arena.
func (b *Builder) NumEntries() int {
	n := 0
	for i := range b.entries {
		if b.entries[i].alive {
			n++
		}
	}
	return n
}

func (b *Builder) nextSession() uint64 {
	b.session++
	return b.session
}

// alloc returns a fresh or recycled slot index, initialized with the given
// cell content.
func (b *Builder) alloc(typ celltype.ID, sym celltype.Symbol, links []Link) int32 {
	var idx int32
	if n := len(b.free); n > 0 {
		idx = b.free[n-1]
		b.free = b.free[:n-1]
		b.entries[idx] = cellEntry{}
	} else {
		idx = int32(len(b.entries))
		b.entries = append(b.entries, cellEntry{})
	}

	e := &b.entries[idx]
	e.typ = typ
	e.symbol = sym
	e.links = links
	e.alive = true
	b.pool.onAlloc()

	if b.fanoutEnabled {
		for len(b.fanout) <= int(idx) {
			b.fanout = append(b.fanout, nil)
		}
		b.fanout[idx] = b.fanout[idx][:0]
	}

	return idx
}

// dealloc returns idx to the free list. Callers must have already removed
// idx from the order and decremented any refcounts it was holding.
func (b *Builder) dealloc(idx int32) {
	b.entries[idx] = cellEntry{typ: -1}
	b.free = append(b.free, idx)
	b.pool.onFree()
}

func (b *Builder) checkLink(l Link) error {
	if int(l.Idx) >= len(b.entries) || !b.entries[l.Idx].alive {
		return gateerr.New(gateerr.BadLink, fmt.Sprintf("link index %d out of range", l.Idx))
	}
	ct := b.reg.Get(b.entries[l.Idx].typ)
	if int(l.Out) >= ct.OutArity && ct.OutArity != celltype.AnyArity {
		return gateerr.New(gateerr.BadLink, fmt.Sprintf("output port %d too large for %s", l.Out, ct.Name))
	}
	return nil
}

// addFanout/delFanout mirror every link change into the fanout index when
// it is enabled (the fanout index itself is optional).
func (b *Builder) addFanout(from Link, to int32) {
	if !b.fanoutEnabled {
		return
	}
	for len(b.fanout) <= int(from.Idx) {
		b.fanout = append(b.fanout, nil)
	}
	b.fanout[from.Idx] = append(b.fanout[from.Idx], to)
}

func (b *Builder) delFanout(from Link, to int32) {
	if !b.fanoutEnabled {
		return
	}
	fo := b.fanout[from.Idx]
	for i, v := range fo {
		if v == to {
			b.fanout[from.Idx] = append(fo[:i], fo[i+1:]...)
			return
		}
	}
}

// EnableFanouts rebuilds and enables the fanout index, O(E) in arena size.
func (b *Builder) EnableFanouts() {
	b.fanout = make([][]int32, len(b.entries))
	b.fanoutEnabled = true
	for i := range b.entries {
		if !b.entries[i].alive {
			continue
		}
		for _, l := range b.entries[i].links {
			b.fanout[l.Idx] = append(b.fanout[l.Idx], int32(i))
		}
	}
}

// DisableFanouts drops the fanout index.
func (b *Builder) DisableFanouts() {
	b.fanout = nil
	b.fanoutEnabled = false
}

// FanoutOf returns the entries that consume idx's output, when the fanout
// index is enabled; nil otherwise.
func (b *Builder) FanoutOf(idx int32) []int32 {
	if !b.fanoutEnabled || int(idx) >= len(b.fanout) {
		return nil
	}
	return b.fanout[idx]
}

func (b *Builder) depthOf(idx int32) int32 { return b.entries[idx].depth }

func (b *Builder) computeDepth(links []Link) int32 {
	var d int32
	for _, l := range links {
		if dd := b.depthOf(int32(l.Idx)); dd+1 > d {
			d = dd + 1
		}
	}
	return d
}

// Stats returns entry-pool diagnostics: how many entries have ever been
// allocated, and how many are currently live.
func (b *Builder) Stats() (live, total int64) {
	return b.pool.Stats()
}
