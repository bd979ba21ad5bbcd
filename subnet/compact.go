package subnet

import "github.com/hlimds/gate/celltype"
import "github.com/hlimds/gate/gateerr"

// Make freezes the builder's current live entries into an immutable Subnet,
// in topological order. It first elides single-fanout BUF passthroughs
// (compaction may drop identity buffers with no side effect), then
// compacts the arena, dropping dead slots and remapping
// every link to the new, contiguous indices.
func (b *Builder) Make() (*Subnet, error) {
	if b.nOut == 0 {
		return nil, gateerr.New(gateerr.NoOutput, "builder has no output cells")
	}

	b.elideBufferCells()
	entries, nIn, nOut := b.rearrangeEntries()
	return &Subnet{reg: b.reg, entries: entries, nIn: nIn, nOut: nOut}, nil
}

// elideBufferCells repeatedly collapses BUF cells that have exactly one
// consumer: the consumer is repointed straight at the BUF's own fanin
// (polarity composed), and the now-dangling BUF is deleted. A BUF with zero
// or several consumers carries information (a named tap, a fanout point)
// and is left alone.
func (b *Builder) elideBufferCells() {
	for {
		changed := false
		for i := range b.entries {
			e := &b.entries[i]
			if !e.alive || e.symbol != celltype.BUF || e.refcnt != 1 {
				continue
			}
			fanin := e.links[0]
			b.redirectFanouts(int32(i), fanin)
			b.deleteIfDangling(int32(i))
			changed = true
		}
		if !changed {
			return
		}
	}
}

// rearrangeEntries walks the live topological order front to back, assigning
// each entry a fresh contiguous index and remapping every link accordingly.
// Because the order already places every fanin before its consumers, a
// single forward pass suffices: by the time an entry's links are visited,
// the indices they reference have already been assigned.
func (b *Builder) rearrangeEntries() ([]frozenEntry, int, int) {
	var order []int32
	for idx := b.order.first; idx != sentinelUpper; idx = b.entries[idx].next {
		order = append(order, idx)
	}

	remap := make([]int32, len(b.entries))
	for newIdx, old := range order {
		remap[old] = int32(newIdx)
	}

	frozen := make([]frozenEntry, len(order))
	nIn, nOut := 0, 0
	for newIdx, old := range order {
		e := &b.entries[old]
		links := make([]Link, len(e.links))
		for j, l := range e.links {
			links[j] = Link{Idx: uint32(remap[l.Idx]), Out: l.Out, Inv: l.Inv}
		}
		frozen[newIdx] = frozenEntry{
			typ:    e.typ,
			symbol: e.symbol,
			links:  links,
			refcnt: e.refcnt,
			depth:  e.depth,
		}
		switch e.symbol {
		case celltype.IN:
			nIn++
		case celltype.OUT:
			nOut++
		}
	}
	return frozen, nIn, nOut
}
