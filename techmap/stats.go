package techmap

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

// Statistics summarizes a completed mapping: a cell histogram, total
// area, and critical-path depth.
type Statistics struct {
	CellHistogram map[string]int
	TotalArea     float64
	Depth         int
}

func computeStatistics(mapped *subnet.Subnet) *Statistics {
	hist := make(map[string]int)
	var totalArea float64
	for i := 0; i < mapped.Size(); i++ {
		ct := mapped.Registry().Get(mapped.Type(i))
		if ct.Flags&celltype.IsHard == 0 {
			continue
		}
		hist[ct.Name]++
		if ct.Attr != nil {
			totalArea += ct.Attr.Area
		}
	}

	_, depth := mapped.GetPathLength()
	return &Statistics{CellHistogram: hist, TotalArea: totalArea, Depth: depth}
}
