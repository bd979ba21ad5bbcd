package techmap

import (
	"github.com/hlimds/gate/cut"
	"github.com/hlimds/gate/library"
)

// nodeState is the per-node mapping state carried across passes:
// {level, requiredTime, areaFlow, switchFlow, refcount, bestCut, bestCellId}.
type nodeState struct {
	level        int
	requiredTime float64
	areaFlow     float64
	switchFlow   float64
	refcount     int
	bestCut      *cut.Cut
	bestCell     library.CellID
	hasCell      bool
}
