package subnet

import "github.com/hlimds/gate/celltype"

// setDepth moves idx to a new depth bucket in the topological order and
// propagates the change through its transitive fanouts.
func (b *Builder) setDepth(idx int32, newDepth int32) {
	e := &b.entries[idx]
	oldDepth := e.depth
	if oldDepth == newDepth {
		return
	}

	b.order.removeFromDepth(b.entries, oldDepth, idx)
	b.order.unlink(b.entries, idx)
	e.depth = newDepth
	b.order.insertAtDepth(b.entries, newDepth, idx)

	b.recomputeFanoutDepths(idx)
}

// recomputeFanoutDepths walks idx's transitive consumers (via the fanout
// index when enabled, else a full scan) and fixes up any whose depth
// invariant (depth = 1 + max(depth(fanin))) no longer holds. OUT entries
// stay in the output suffix and are not moved.
func (b *Builder) recomputeFanoutDepths(idx int32) {
	queue := []int32{idx}
	sess := b.nextSession()
	b.entries[idx].session = sess

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		consumers := b.consumersOf(cur)
		for _, c := range consumers {
			ce := &b.entries[c]
			if !ce.alive {
				continue
			}
			want := b.computeDepth(ce.links)
			if want != ce.depth && ce.symbol != celltype.OUT {
				b.order.removeFromDepth(b.entries, ce.depth, c)
				b.order.unlink(b.entries, c)
				ce.depth = want
				b.order.insertAtDepth(b.entries, want, c)
			}
			if ce.session != sess {
				ce.session = sess
				queue = append(queue, c)
			}
		}
	}
}

// consumersOf returns the entries that consume idx's output, using the
// fanout index when enabled, else a linear scan (still correct, just not
// O(fanout)).
func (b *Builder) consumersOf(idx int32) []int32 {
	if b.fanoutEnabled {
		return b.FanoutOf(idx)
	}
	var out []int32
	for i := range b.entries {
		if !b.entries[i].alive {
			continue
		}
		for _, l := range b.entries[i].links {
			if int32(l.Idx) == idx {
				out = append(out, int32(i))
				break
			}
		}
	}
	return out
}
