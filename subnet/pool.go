package subnet

import "sync/atomic"

// entryPool tracks allocation statistics for arena slots: how many cell
// entries have ever been allocated, and how many are currently live,
// via a sync.Pool-style wrapper with atomic counters; the arena itself is a plain growable
// slice with a free-list rather than a sync.Pool, since entries must stay
// contiguous and indexable by a stable int32 id, but the "count
// allocations, count live" idiom carries over directly.
type entryPool struct {
	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newEntryPool() *entryPool { return &entryPool{} }

func (p *entryPool) onAlloc() {
	p.totalAllocated.Add(1)
	p.currentLive.Add(1)
}

func (p *entryPool) onFree() {
	p.currentLive.Add(-1)
}

// Stats returns the number of currently live entries and the total number
// of entries ever allocated by this builder.
func (p *entryPool) Stats() (live, total int64) {
	return p.currentLive.Load(), p.totalAllocated.Load()
}
