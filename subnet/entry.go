package subnet

import "github.com/hlimds/gate/celltype"

// sentinel markers for the doubly-linked topological order:
// lowerBound and upperBound. No live entry index ever equals
// these.
const (
	sentinelLower int32 = -1
	sentinelUpper int32 = -2
	freeSlot      int32 = -3 // marks a deallocated arena slot
)

// cellEntry is the builder's mutable per-entry descriptor: the cell itself
// (type, links, refcount) plus the bookkeeping needed for depth tracking,
// session-scoped traversal marks, and the doubly-linked topological order.
//
// Unlike a fixed-size in-place link array plus overflow "link slot"
// chain, entries here hold their link list directly as a slice: the
// chained-slot layout is a contiguous-arena
// memory optimization for a systems language, orthogonal to the algorithms
// (strashing, rewriting, depth propagation) this package implements, and a
// Go slice already gives O(1) amortized append with a single allocation per
// cell. See DESIGN.md for the full rationale.
type cellEntry struct {
	typ    celltype.ID
	symbol celltype.Symbol // cached, avoids a registry lookup on every hot-path access
	links  []Link
	refcnt int32
	depth  int32

	// topological order: doubly-linked list over live entries.
	prev, next int32

	// session id last used to mark this entry "visited" by some traversal,
	// avoiding an O(E) clear between calls.
	session uint64

	alive bool
}

func (e *cellEntry) arity() int { return len(e.links) }
