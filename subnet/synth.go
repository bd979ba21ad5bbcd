package subnet

import (
	"fmt"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
)

// Synthesize builds and registers the implementation of a multi-bit soft
// cell type (ADD/SUB/MUL/LT/LE/GT/GE/EQ/NEQ/SHL/SHR) over the given
// operand widths, publishes its implementation subnet into in, and
// registers a fresh CellType in reg carrying that implementation and the
// operand widths. Every width combination of a symbol gets its own
// CellType, mirroring a per-attribute synthesizer cache.
//
// ADD/SUB/MUL are left unsynthesized (returning ErrEncoderUnsupported);
// only the comparison and shift
// family is concretely generated here.
func Synthesize(in *Intern, reg *celltype.Registry, sym celltype.Symbol, widthA, widthB int) (celltype.ID, error) {
	switch sym {
	case celltype.EQ, celltype.NEQ, celltype.LT, celltype.LE, celltype.GT, celltype.GE:
		return synthesizeCompare(in, reg, sym, widthA, widthB)
	case celltype.SHL, celltype.SHR:
		return synthesizeShift(in, reg, sym, widthA, widthB)
	case celltype.ADD, celltype.SUB, celltype.MUL:
		return 0, gateerr.New(gateerr.EncoderUnsupported, "subnet: "+sym.String()+" synthesis is not implemented")
	default:
		return 0, gateerr.New(gateerr.InvalidCell, "subnet: "+sym.String()+" is not a synthesizable soft operator")
	}
}

func lookupBuiltin(reg *celltype.Registry, name string) celltype.ID {
	id, ok := reg.Lookup(name)
	if !ok {
		panic("subnet: builtin cell type " + name + " not registered")
	}
	return id
}

// synthesizeCompare builds an unsigned, zero-extended comparison of a
// widthA-bit operand against a widthB-bit operand (simplified to the
// unsigned case — see DESIGN.md): one
// MSB-to-LSB pass accumulates an equal-so-far prefix and an any-bit-greater
// flag, from which every relational symbol is derived without re-walking
// the bits.
func synthesizeCompare(in *Intern, reg *celltype.Registry, sym celltype.Symbol, widthA, widthB int) (celltype.ID, error) {
	b := New(reg)
	ins := b.AddInputs(widthA + widthB)
	a, bb := ins[:widthA], ins[widthA:]

	eq, gt, err := compareBits(b, reg, a, bb)
	if err != nil {
		return 0, err
	}

	var out Link
	switch sym {
	case celltype.EQ:
		out = eq
	case celltype.NEQ:
		out = eq.Invert()
	case celltype.GT:
		out = gt
	case celltype.GE:
		out, err = orLink(b, reg, gt, eq)
	case celltype.LT:
		ge, gerr := orLink(b, reg, gt, eq)
		if gerr != nil {
			return 0, gerr
		}
		out = ge.Invert()
	case celltype.LE:
		out = gt.Invert()
	}
	if err != nil {
		return 0, err
	}

	if err := b.AddOutput(out); err != nil {
		return 0, err
	}
	impl, err := b.Make()
	if err != nil {
		return 0, err
	}
	implID := in.Publish(impl)

	return reg.Register(celltype.CellType{
		Symbol:   sym,
		Name:     fmt.Sprintf("%s_%d_%d", sym, widthA, widthB),
		InArity:  widthA + widthB,
		OutArity: 1,
		Flags:    celltype.Combinational | celltype.IsSoft,
		ImplSubnet: implID,
		Attr:       &celltype.Attr{PortWidths: []int{widthA, widthB}},
	})
}

// compareBits walks a and bb from the most significant bit down, treating
// the shorter operand as zero-extended, and returns (a==b, a>b).
func compareBits(b *Builder, reg *celltype.Registry, a, bb LinkList) (eq, gt Link, err error) {
	andID := lookupBuiltin(reg, "AND")
	orID := lookupBuiltin(reg, "OR")
	xorID := lookupBuiltin(reg, "XOR")
	zeroID := lookupBuiltin(reg, "ZERO")

	n := len(a)
	if len(bb) > n {
		n = len(bb)
	}
	var zero Link
	if len(a) != len(bb) {
		zero, err = b.AddCell(zeroID, nil)
		if err != nil {
			return Link{}, Link{}, err
		}
	}
	bitAt := func(ll LinkList, i int) Link {
		if i < len(ll) {
			return ll[i]
		}
		return zero
	}

	oneID := lookupBuiltin(reg, "ONE")
	eqPrefix, err := b.AddCell(oneID, nil)
	if err != nil {
		return Link{}, Link{}, err
	}
	gtAcc, err := b.AddCell(zeroID, nil)
	if err != nil {
		return Link{}, Link{}, err
	}

	for i := n - 1; i >= 0; i-- {
		ai, bi := bitAt(a, i), bitAt(bb, i)

		bitGt, err := b.AddCell(andID, LinkList{ai, bi.Invert()})
		if err != nil {
			return Link{}, Link{}, err
		}
		term, err := b.AddCell(andID, LinkList{eqPrefix, bitGt})
		if err != nil {
			return Link{}, Link{}, err
		}
		gtAcc, err = b.AddCell(orID, LinkList{gtAcc, term})
		if err != nil {
			return Link{}, Link{}, err
		}

		bitXor, err := b.AddCell(xorID, LinkList{ai, bi})
		if err != nil {
			return Link{}, Link{}, err
		}
		eqPrefix, err = b.AddCell(andID, LinkList{eqPrefix, bitXor.Invert()})
		if err != nil {
			return Link{}, Link{}, err
		}
	}

	return eqPrefix, gtAcc, nil
}

func orLink(b *Builder, reg *celltype.Registry, x, y Link) (Link, error) {
	orID := lookupBuiltin(reg, "OR")
	return b.AddCell(orID, LinkList{x, y})
}

// synthesizeShift builds a logical (zero-fill) barrel shifter: a
// widthA-bit operand shifted by a widthB-bit amount, producing widthA
// output bits. Any shift amount bit beyond ceil(log2(widthA)) forces the whole result
// to zero, since such a shift always exceeds the operand's width.
func synthesizeShift(in *Intern, reg *celltype.Registry, sym celltype.Symbol, widthA, widthB int) (celltype.ID, error) {
	b := New(reg)
	ins := b.AddInputs(widthA + widthB)
	data, amount := ins[:widthA], ins[widthA:]

	andID := lookupBuiltin(reg, "AND")
	orID := lookupBuiltin(reg, "OR")
	zeroID := lookupBuiltin(reg, "ZERO")

	zero, err := b.AddCell(zeroID, nil)
	if err != nil {
		return 0, err
	}

	stages := 0
	for (1 << uint(stages)) < widthA {
		stages++
	}

	cur := append(LinkList(nil), data...)
	for stage := 0; stage < stages && stage < len(amount); stage++ {
		shiftBy := 1 << uint(stage)
		sel := amount[stage]
		next := make(LinkList, widthA)
		for i := 0; i < widthA; i++ {
			var shifted Link
			if sym == celltype.SHL {
				if i-shiftBy >= 0 {
					shifted = cur[i-shiftBy]
				} else {
					shifted = zero
				}
			} else { // SHR
				if i+shiftBy < widthA {
					shifted = cur[i+shiftBy]
				} else {
					shifted = zero
				}
			}
			mux, err := muxLink(b, andID, orID, sel, shifted, cur[i])
			if err != nil {
				return 0, err
			}
			next[i] = mux
		}
		cur = next
	}

	// Any higher shift-amount bit, if set, means the true shift amount is
	// >= widthA: force every output bit to zero.
	if len(amount) > stages {
		overflow, err := b.AddCellTree(orID, LinkList(amount[stages:]), 2)
		if err != nil {
			return 0, err
		}
		for i := range cur {
			masked, err := b.AddCell(andID, LinkList{cur[i], overflow.Invert()})
			if err != nil {
				return 0, err
			}
			cur[i] = masked
		}
	}

	for _, l := range cur {
		if err := b.AddOutput(l); err != nil {
			return 0, err
		}
	}
	impl, err := b.Make()
	if err != nil {
		return 0, err
	}
	implID := in.Publish(impl)

	return reg.Register(celltype.CellType{
		Symbol:   sym,
		Name:     fmt.Sprintf("%s_%d_%d", sym, widthA, widthB),
		InArity:  widthA + widthB,
		OutArity: widthA,
		Flags:    celltype.Combinational | celltype.IsSoft,
		ImplSubnet: implID,
		Attr:       &celltype.Attr{PortWidths: []int{widthA, widthB}},
	})
}

// muxLink returns (sel AND onTrue) OR (~sel AND onFalse), a 2:1 mux built
// from the two associative gates already in scope (no dedicated MUX
// primitive exists in the closed cell-symbol set).
func muxLink(b *Builder, andID, orID celltype.ID, sel, onTrue, onFalse Link) (Link, error) {
	t, err := b.AddCell(andID, LinkList{sel, onTrue})
	if err != nil {
		return Link{}, err
	}
	f, err := b.AddCell(andID, LinkList{sel.Invert(), onFalse})
	if err != nil {
		return Link{}, err
	}
	return b.AddCell(orID, LinkList{t, f})
}
