// Package check implements the equivalence-checking machinery:
// miter construction, a Verifier with lazily asserted
// properties, and three interchangeable equivalent() backends (SAT, BDD,
// random/exhaustive simulation) behind one Checker interface.
package check

import (
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/subnet"
)

// Verdict is an equivalent() outcome.
type Verdict int

const (
	Unknown Verdict = iota
	Equal
	NotEqual
	ErrorVerdict
)

func (v Verdict) String() string {
	switch v {
	case Equal:
		return "EQUAL"
	case NotEqual:
		return "NOT_EQUAL"
	case ErrorVerdict:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Counterexample is an assignment of primary input values (by input
// index) witnessing a NotEqual verdict.
type Counterexample map[int]bool

// Checker is the shared contract of every equivalence-checking backend.
type Checker interface {
	Equivalent(lhs, rhs *subnet.Subnet, inputBinding []int) (Verdict, Counterexample, error)
}

// BuildMiter combines lhs and rhs's fan-ins under a shared input layer,
// XORs paired outputs, and OR-reduces the XORs into a single miter output.
// inputBinding[k] is the rhs input index fed by lhs's k-th
// primary input; mismatched arities fail with NotMiterable.
func BuildMiter(lhs, rhs *subnet.Subnet, inputBinding []int) (*subnet.Subnet, error) {
	if lhs.GetInNum() != rhs.GetInNum() || lhs.GetOutNum() != rhs.GetOutNum() {
		return nil, gateerr.New(gateerr.NotMiterable, "miter: lhs/rhs port counts differ")
	}
	if len(inputBinding) != lhs.GetInNum() {
		return nil, gateerr.New(gateerr.NotMiterable, "miter: inputBinding length must equal lhs.GetInNum()")
	}

	reg := lhs.Registry()
	b := subnet.New(reg)
	shared := b.AddInputs(lhs.GetInNum())

	lhsOuts, err := b.AddSubnet(lhs, shared, nil)
	if err != nil {
		return nil, err
	}

	rhsIns := make(subnet.LinkList, len(inputBinding))
	for k, rhsIdx := range inputBinding {
		rhsIns[rhsIdx] = shared[k]
	}
	rhsOuts, err := b.AddSubnet(rhs, rhsIns, nil)
	if err != nil {
		return nil, err
	}

	xorID, ok := reg.Lookup("XOR")
	if !ok {
		return nil, gateerr.New(gateerr.InvalidCell, "registry has no XOR cell type")
	}
	xors := make(subnet.LinkList, len(lhsOuts))
	for k := range lhsOuts {
		x, err := b.AddCell(xorID, subnet.LinkList{lhsOuts[k], rhsOuts[k]})
		if err != nil {
			return nil, err
		}
		xors[k] = x
	}

	var miterOut subnet.Link
	if len(xors) == 1 {
		miterOut = xors[0]
	} else {
		orID, ok := reg.Lookup("OR")
		if !ok {
			return nil, gateerr.New(gateerr.InvalidCell, "registry has no OR cell type")
		}
		miterOut, err = b.AddCellTree(orID, xors, 2)
		if err != nil {
			return nil, err
		}
	}
	if err := b.AddOutput(miterOut); err != nil {
		return nil, err
	}
	return b.Make()
}
