package check

import (
	"github.com/hlimds/gate/bdd"
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/subnet"
)

// BDDChecker decides equivalence by building a reduced ordered BDD for the
// miter's output and testing it against the zero terminal.
type BDDChecker struct {
	// Resolver resolves a soft cell type's implementation subnet; may be
	// nil if neither side uses soft operators.
	Resolver interface {
		Get(id subnet.ID) *subnet.Subnet
	}
}

func (c *BDDChecker) Equivalent(lhs, rhs *subnet.Subnet, inputBinding []int) (Verdict, Counterexample, error) {
	miter, err := BuildMiter(lhs, rhs, inputBinding)
	if err != nil {
		return ErrorVerdict, nil, err
	}
	if miter.GetOutNum() != 1 {
		return ErrorVerdict, nil, gateerr.New(gateerr.NotMiterable, "bdd checker: miter must have exactly one output")
	}

	m := bdd.NewManager()
	nodes, err := buildBDD(m, miter, c.Resolver, nil)
	if err != nil {
		return ErrorVerdict, nil, err
	}

	outEntry := miter.GetOut(0)
	outLink := miter.GetLink(outEntry, 0)
	root := nodes[outLink.Idx]
	if outLink.Inv {
		root = m.Not(root)
	}

	if m.IsZero(root) {
		return Equal, nil, nil
	}
	// A non-zero BDD witnesses a satisfying path but this checker does not
	// walk one out into a counterexample; callers that need one should use
	// SATChecker instead.
	return NotEqual, nil, nil
}

// buildBDD compiles s in storage order into one bdd.Node per entry. When
// inputs is nil, it allocates one fresh BDD variable per primary input it
// encounters; otherwise inputs[k] is substituted directly for s's k-th
// primary input, letting a soft operator's implementation splice into its
// caller's BDD without a fresh, unconstrained variable layer.
func buildBDD(m *bdd.Manager, s *subnet.Subnet, resolver interface {
	Get(id subnet.ID) *subnet.Subnet
}, inputs []bdd.Node) ([]bdd.Node, error) {
	nodes := make([]bdd.Node, s.Size())
	inIdx := int32(0)

	fanin := func(links []subnet.Link, i int) bdd.Node {
		l := links[i]
		n := nodes[l.Idx]
		if l.Inv {
			return m.Not(n)
		}
		return n
	}

	for i := 0; i < s.Size(); i++ {
		sym := s.Symbol(i)
		links := s.GetLinks(i)

		switch sym {
		case celltype.IN:
			if inputs != nil {
				nodes[i] = inputs[inIdx]
			} else {
				nodes[i] = m.Var(inIdx)
			}
			inIdx++
		case celltype.ZERO:
			nodes[i] = bdd.Zero
		case celltype.ONE:
			nodes[i] = bdd.One
		case celltype.OUT, celltype.BUF:
			nodes[i] = fanin(links, 0)
		case celltype.DFF, celltype.DFFrs, celltype.LATCH, celltype.LATCHrs:
			nodes[i] = bdd.Zero
		case celltype.AND:
			acc := bdd.One
			for j := range links {
				acc = m.And(acc, fanin(links, j))
			}
			nodes[i] = acc
		case celltype.OR:
			acc := bdd.Zero
			for j := range links {
				acc = m.Or(acc, fanin(links, j))
			}
			nodes[i] = acc
		case celltype.XOR:
			acc := bdd.Zero
			for j := range links {
				acc = m.Xor(acc, fanin(links, j))
			}
			nodes[i] = acc
		case celltype.MAJ:
			if len(links) != 3 {
				return nil, gateerr.New(gateerr.EncoderUnsupported, "bdd: MAJ requires exactly 3 inputs")
			}
			a, b, c := fanin(links, 0), fanin(links, 1), fanin(links, 2)
			nodes[i] = m.Or(m.Or(m.And(a, b), m.And(a, c)), m.And(b, c))
		default:
			ct := s.Registry().Get(s.Type(i))
			if ct.Flags&celltype.IsSoft == 0 {
				return nil, gateerr.New(gateerr.EncoderUnsupported, "bdd: symbol "+sym.String()+" has no encoding")
			}
			n, err := buildSoftBDD(m, resolver, ct, links, fanin)
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
	}
	return nodes, nil
}

func buildSoftBDD(m *bdd.Manager, resolver interface {
	Get(id subnet.ID) *subnet.Subnet
}, ct celltype.CellType, links []subnet.Link, fanin func([]subnet.Link, int) bdd.Node) (bdd.Node, error) {
	if resolver == nil || ct.ImplSubnet == nil {
		return bdd.Zero, gateerr.New(gateerr.EncoderUnsupported, "bdd: soft operator "+ct.Symbol.String()+" has no resolvable implementation")
	}
	id, ok := ct.ImplSubnet.(subnet.ID)
	if !ok {
		return bdd.Zero, gateerr.New(gateerr.EncoderUnsupported, "bdd: malformed ImplSubnet for "+ct.Symbol.String())
	}
	inner := resolver.Get(id)
	if inner == nil {
		return bdd.Zero, gateerr.New(gateerr.EncoderUnsupported, "bdd: unresolved implementation subnet for "+ct.Symbol.String())
	}
	if inner.GetOutNum() != 1 || inner.GetInNum() != len(links) {
		return bdd.Zero, gateerr.New(gateerr.EncoderUnsupported, "bdd: soft operator port mismatch")
	}

	inputs := make([]bdd.Node, len(links))
	for k := range links {
		inputs[k] = fanin(links, k)
	}
	innerNodes, err := buildBDD(m, inner, resolver, inputs)
	if err != nil {
		return bdd.Zero, err
	}
	outEntry := inner.GetOut(0)
	outLink := inner.GetLink(outEntry, 0)
	out := innerNodes[outLink.Idx]
	if outLink.Inv {
		out = m.Not(out)
	}
	return out, nil
}
