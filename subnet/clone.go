package subnet

// Clone returns a deep, independent copy of the builder: same arena
// contents, free list, strash table, order and fanout index, but sharing
// no backing storage with the original, adapted from a recursive
// tree-clone idiom to a flat
// arena copy since the builder has no recursive node structure.
func (b *Builder) Clone() *Builder {
	nb := &Builder{
		reg:           b.reg,
		entries:       make([]cellEntry, len(b.entries)),
		free:          append([]int32(nil), b.free...),
		order:         b.order.clone(),
		strash:        b.strash.clone(),
		fanoutEnabled: b.fanoutEnabled,
		session:       b.session,
		nIn:           b.nIn,
		nOut:          b.nOut,
		pool:          newEntryPool(),
	}
	for i := range b.entries {
		e := b.entries[i]
		e.links = append([]Link(nil), b.entries[i].links...)
		nb.entries[i] = e
		if e.alive {
			nb.pool.onAlloc()
		}
	}
	if b.fanoutEnabled {
		nb.fanout = make([][]int32, len(b.fanout))
		for i, fo := range b.fanout {
			nb.fanout[i] = append([]int32(nil), fo...)
		}
	}
	return nb
}

func (o *orderState) clone() *orderState {
	no := &orderState{first: o.first, last: o.last}
	no.depthBounds = append([]depthBound(nil), o.depthBounds...)
	return no
}

func (s *strashTable) clone() *strashTable {
	ns := newStrashTable()
	for k, v := range s.m {
		ns.m[k] = v
	}
	return ns
}
