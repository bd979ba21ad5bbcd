package techmap

import (
	"github.com/hlimds/gate/cut"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/library"
	"github.com/hlimds/gate/sim"
	"github.com/hlimds/gate/subnet"
)

// maxCutWidth bounds the cuts this mapper can turn into a truth table via
// one 64-lane simulation batch (2^maxCutWidth <= 64).
const maxCutWidth = 6

// coneTruthTable computes c's restriction of s's function to a cone
// rooted at root, by exhaustively simulating every input pattern in one
// 64-lane batch.
func coneTruthTable(s *subnet.Subnet, root int, c *cut.Cut) (*library.TruthTable, error) {
	k := len(c.Leaves)
	if k > maxCutWidth {
		return nil, gateerr.New(gateerr.EncoderUnsupported, "techmap: cut too wide to enumerate exhaustively")
	}
	cone, err := cut.GetCone(s, root, c)
	if err != nil {
		return nil, err
	}
	return coneTruthTableFromCone(cone)
}

func coneTruthTableFromCone(cone *cut.Cone) (*library.TruthTable, error) {
	k := cone.Subnet.GetInNum()
	if k > maxCutWidth {
		return nil, gateerr.New(gateerr.EncoderUnsupported, "techmap: cone too wide to enumerate exhaustively")
	}
	prog := sim.Compile(cone.Subnet, nil)
	n := uint64(1) << uint(k)

	inputs := make([]sim.Word, k)
	for bit := 0; bit < k; bit++ {
		var w sim.Word
		for lane := uint64(0); lane < n; lane++ {
			if lane&(1<<uint(bit)) != 0 {
				w |= sim.Word(1) << lane
			}
		}
		inputs[bit] = w
	}
	outs, err := prog.Run(inputs)
	if err != nil {
		return nil, err
	}

	tt := library.NewTruthTable(k)
	for lane := uint64(0); lane < n; lane++ {
		if (outs[0]>>lane)&1 != 0 {
			tt.Set(lane, true)
		}
	}
	return tt, nil
}
