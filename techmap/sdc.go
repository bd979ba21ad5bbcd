// Package techmap implements a cut-based technology mapper: a
// traditional depth pass, global area-flow recovery, local exact area
// recovery via ref/deref descent, and a sibling sequential mapper,
// writing the result back into a subnet.Builder.
package techmap

// SDC carries the area/arrival-time constraints the mapper takes as
// optional input: zero values mean "unconstrained".
type SDC struct {
	AreaMax        float64
	ArrivalTimeMax float64
}
