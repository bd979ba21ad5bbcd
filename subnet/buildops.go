package subnet

import (
	"fmt"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
)

// addInputRaw allocates a bare IN cell and places it at the end of the
// input zone, ahead of every non-input entry,
// without going through the public, registry-id-resolving AddInput (used
// by FromSubnet while replaying a frozen subnet's own IN cells).
func (b *Builder) addInputRaw() int32 {
	id, ok := b.reg.Lookup("IN")
	if !ok {
		panic("subnet: registry has no IN cell type")
	}
	idx := b.alloc(id, celltype.IN, nil)
	b.order.prepend(b.entries, idx)
	b.nIn++
	return idx
}

func (b *Builder) addOutputRaw(l Link) int32 {
	id, ok := b.reg.Lookup("OUT")
	if !ok {
		panic("subnet: registry has no OUT cell type")
	}
	idx := b.alloc(id, celltype.OUT, []Link{l})
	b.order.append(b.entries, idx)
	b.entries[idx].refcnt = 0
	b.bumpRefcount(l, 1)
	b.addFanout(l, idx)
	b.nOut++
	return idx
}

// AddInput creates a new primary input cell.
func (b *Builder) AddInput() Link {
	idx := b.addInputRaw()
	return Link{Idx: uint32(idx)}
}

// AddInputs creates n new primary input cells and returns their links in
// creation order.
func (b *Builder) AddInputs(n int) LinkList {
	ls := make(LinkList, n)
	for i := 0; i < n; i++ {
		ls[i] = b.AddInput()
	}
	return ls
}

// AddOutput creates a new primary output cell consuming link l.
func (b *Builder) AddOutput(l Link) error {
	if err := b.checkLink(l); err != nil {
		return err
	}
	b.addOutputRaw(l)
	return nil
}

// AddCell creates a new cell of type typ consuming links, applying
// strashing and rejecting negative cell types or bad links.
func (b *Builder) AddCell(typ celltype.ID, links []Link) (Link, error) {
	ct := b.reg.Get(typ)
	if celltype.IsNegative(ct.Symbol) {
		return Link{}, gateerr.New(gateerr.InvalidCell, fmt.Sprintf("cannot add negative cell type %s", ct.Symbol))
	}
	for _, l := range links {
		if err := b.checkLink(l); err != nil {
			return Link{}, err
		}
	}

	if strashable(ct.Symbol) {
		key := strashKey(b.reg, typ, links)
		if existing, ok := b.strash.lookup(key); ok {
			return Link{Idx: uint32(existing)}, nil
		}
		idx := b.insertCell(typ, ct.Symbol, links)
		b.strash.insert(key, idx)
		return Link{Idx: uint32(idx)}, nil
	}

	idx := b.insertCell(typ, ct.Symbol, links)
	return Link{Idx: uint32(idx)}, nil
}

// insertCell does the uniform bookkeeping shared by every cell-creating
// path: allocate, place in topological order at the right depth, bump
// fanin refcounts, mirror the fanout index.
func (b *Builder) insertCell(typ celltype.ID, sym celltype.Symbol, links []Link) int32 {
	ls := append([]Link(nil), links...)
	idx := b.alloc(typ, sym, ls)
	d := b.computeDepth(ls)
	b.entries[idx].depth = d
	b.order.insertAtDepth(b.entries, d, idx)
	for _, l := range ls {
		b.bumpRefcount(l, 1)
		b.addFanout(l, idx)
	}
	return idx
}

func (b *Builder) bumpRefcount(l Link, delta int32) {
	b.entries[l.Idx].refcnt += delta
}

// AddCellTree fans a wide associative, regroupable operator into a
// balanced k-ary tree. Precondition: the type's Regroupable flag is set.
func (b *Builder) AddCellTree(typ celltype.ID, links []Link, k int) (Link, error) {
	ct := b.reg.Get(typ)
	if ct.Flags&celltype.Regroupable == 0 {
		return Link{}, gateerr.New(gateerr.NotRegroupable, fmt.Sprintf("symbol %s is not regroupable", ct.Symbol))
	}
	if k < 2 {
		k = 2
	}
	if len(links) == 0 {
		return Link{}, gateerr.New(gateerr.BadLink, "addCellTree requires at least one link")
	}

	level := append([]Link(nil), links...)
	for len(level) > 1 {
		var next []Link
		for i := 0; i < len(level); i += k {
			end := i + k
			if end > len(level) {
				end = len(level)
			}
			if end-i == 1 {
				next = append(next, level[i])
				continue
			}
			lk, err := b.AddCell(typ, level[i:end])
			if err != nil {
				return Link{}, err
			}
			next = append(next, lk)
		}
		level = next
	}
	return level[0], nil
}

// MergeCells redirects all fanouts of each "other" entry in mergeMap onto
// its "keeper", decrementing/incrementing refcounts and then deleting the
// others. Precondition: keeper must not (transitively) depend on any
// other.
func (b *Builder) MergeCells(mergeMap map[int32][]int32) error {
	for keeper, others := range mergeMap {
		for _, other := range others {
			if other == keeper {
				continue
			}
			if b.dependsOn(keeper, other) {
				return gateerr.New(gateerr.CycleDetected, fmt.Sprintf("keeper %d depends on %d", keeper, other))
			}
		}
	}

	for keeper, others := range mergeMap {
		for _, other := range others {
			if other == keeper {
				continue
			}
			b.redirectFanouts(other, Link{Idx: uint32(keeper)})
			b.deleteIfDangling(other)
		}
	}
	return nil
}

// dependsOn reports whether start's transitive fan-in includes target.
func (b *Builder) dependsOn(start, target int32) bool {
	if start == target {
		return true
	}
	sess := b.nextSession()
	var walk func(i int32) bool
	walk = func(i int32) bool {
		e := &b.entries[i]
		if e.session == sess {
			return false
		}
		e.session = sess
		for _, l := range e.links {
			if int32(l.Idx) == target {
				return true
			}
			if walk(int32(l.Idx)) {
				return true
			}
		}
		return false
	}
	return walk(start)
}

// redirectFanouts rewires every consumer of "from" to consume "to"
// instead, across all output ports (links only ever address port 0 of
// from in this model except where a cell's own arity provides the port,
// so this walks every live entry's link list).
func (b *Builder) redirectFanouts(from int32, to Link) {
	for i := range b.entries {
		if !b.entries[i].alive || int32(i) == from {
			continue
		}
		e := &b.entries[i]
		changed := false
		for j, l := range e.links {
			if int32(l.Idx) == from {
				newLink := Link{Idx: to.Idx, Out: l.Out, Inv: l.Inv != to.Inv}
				b.bumpRefcount(l, -1)
				b.delFanout(l, int32(i))
				e.links[j] = newLink
				b.bumpRefcount(newLink, 1)
				b.addFanout(newLink, int32(i))
				changed = true
			}
		}
		if changed && e.symbol != celltype.OUT {
			d := b.computeDepth(e.links)
			if d != e.depth {
				b.setDepth(int32(i), d)
			}
		}
	}
}

// deleteIfDangling removes idx's own cell record if nothing references it
// anymore, cascading to its own (now possibly dangling) fanins.
func (b *Builder) deleteIfDangling(idx int32) {
	if !b.entries[idx].alive || b.entries[idx].refcnt > 0 {
		return
	}
	if b.entries[idx].symbol == celltype.OUT {
		return // outputs are roots, never dangling by refcount
	}
	fanins := append([]Link(nil), b.entries[idx].links...)
	b.removeEntry(idx)
	for _, l := range fanins {
		b.bumpRefcount(l, -1)
		b.delFanout(l, idx)
		b.deleteIfDangling(int32(l.Idx))
	}
}

// removeEntry takes idx out of the topological order, depth bounds and
// strash table, and returns its slot to the free list.
func (b *Builder) removeEntry(idx int32) {
	e := &b.entries[idx]
	if strashable(e.symbol) {
		b.strash.erase(strashKey(b.reg, e.typ, e.links))
	}
	b.order.removeFromDepth(b.entries, e.depth, idx)
	b.order.unlink(b.entries, idx)
	switch e.symbol {
	case celltype.IN:
		b.nIn--
	case celltype.OUT:
		b.nOut--
	}
	b.dealloc(idx)
}

// ReplaceWithZero inserts a single ZERO cell and merges the set onto it.
func (b *Builder) ReplaceWithZero(set []int32) error {
	return b.replaceWithConst(set, "ZERO")
}

// ReplaceWithOne inserts a single ONE cell and merges the set onto it.
func (b *Builder) ReplaceWithOne(set []int32) error {
	return b.replaceWithConst(set, "ONE")
}

func (b *Builder) replaceWithConst(set []int32, name string) error {
	if len(set) == 0 {
		return nil
	}
	id, ok := b.reg.Lookup(name)
	if !ok {
		return gateerr.New(gateerr.InvalidCell, "registry has no "+name+" cell type")
	}
	lk, err := b.AddCell(id, nil)
	if err != nil {
		return err
	}
	merge := map[int32][]int32{int32(lk.Idx): set}
	return b.MergeCells(merge)
}
