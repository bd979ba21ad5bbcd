// Package cnf implements a Tseitin CNF encoder: walking a
// subnet in storage order, allocating one fresh Boolean variable per cell
// output and emitting the clause table for each gate kind.
//
// There is no pure-Go SAT or BDD library available here — cnf, and the
// sat/bdd packages built on top of it, are accordingly the one part of
// this module encoded directly against the standard library rather than
// a third-party dependency. See DESIGN.md.
package cnf

import (
	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
	"github.com/hlimds/gate/subnet"
)

// Lit is a DIMACS-style literal: a positive value asserts the variable,
// negative asserts its complement. Variable 0 is never used.
type Lit int32

func (l Lit) Var() int32 { return int32(l.abs()) }
func (l Lit) Negated() Lit { return -l }
func (l Lit) abs() Lit {
	if l < 0 {
		return -l
	}
	return l
}

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is the growable clause database an encoder writes into.
type Formula struct {
	NVars   int32
	Clauses []Clause
}

func (f *Formula) newVar() Lit {
	f.NVars++
	return Lit(f.NVars)
}

func (f *Formula) add(c Clause) { f.Clauses = append(f.Clauses, c) }

func lit(v Lit, inv bool) Lit {
	if inv {
		return -v
	}
	return v
}

// Resolver resolves a soft cell type's inner implementation subnet,
// looking it up by the subnet.ID stashed in celltype.CellType.ImplSubnet
// (typed as `any` there to avoid an import cycle between subnet and
// celltype). A nil Resolver makes any soft-operator cell unsupported.
type Resolver interface {
	Get(id subnet.ID) *subnet.Subnet
}

// Encoder walks one or more subnets into a shared Formula, remembering the
// output variable assigned to every entry it has already encoded.
type Encoder struct {
	f        *Formula
	resolver Resolver
	varOf    map[key]Lit
}

type key struct {
	subnetPtr *subnet.Subnet
	entry     int
}

// NewEncoder returns an encoder backed by a fresh Formula. resolver may be
// nil if the target subnet contains no soft multi-bit operators.
func NewEncoder(resolver Resolver) *Encoder {
	return &Encoder{f: &Formula{}, resolver: resolver, varOf: make(map[key]Lit)}
}

// Formula returns the encoder's accumulated clause database.
func (e *Encoder) Formula() *Formula { return e.f }

// VarOf returns the variable already assigned to entry i of s, if s has
// been encoded (directly, or as a soft operator's inner implementation).
func (e *Encoder) VarOf(s *subnet.Subnet, i int) (Lit, bool) {
	v, ok := e.varOf[key{s, i}]
	return v, ok
}

// Encode walks s in storage order, allocating a variable per entry and
// emitting its defining clauses, and returns the literal for every entry
// (var, not yet composed with any external edge polarity).
func (e *Encoder) Encode(s *subnet.Subnet) ([]Lit, error) {
	vars := make([]Lit, s.Size())
	for i := 0; i < s.Size(); i++ {
		v := e.f.newVar()
		vars[i] = v
		e.varOf[key{s, i}] = v

		sym := s.Symbol(i)
		links := s.GetLinks(i)
		lits := make([]Lit, len(links))
		for j, l := range links {
			lits[j] = lit(vars[l.Idx], l.Inv)
		}

		switch sym {
		case celltype.IN, celltype.DFF, celltype.DFFrs, celltype.LATCH, celltype.LATCHrs:
			// free variables: no defining clause.
		case celltype.OUT, celltype.BUF:
			x := lits[0]
			e.f.add(Clause{-v, x})
			e.f.add(Clause{v, -x})
		case celltype.ZERO:
			e.f.add(Clause{-v})
		case celltype.ONE:
			e.f.add(Clause{v})
		case celltype.AND:
			for _, x := range lits {
				e.f.add(Clause{-v, x})
			}
			clause := make(Clause, 0, len(lits)+1)
			clause = append(clause, v)
			for _, x := range lits {
				clause = append(clause, -x)
			}
			e.f.add(clause)
		case celltype.OR:
			for _, x := range lits {
				e.f.add(Clause{v, -x})
			}
			clause := make(Clause, 0, len(lits)+1)
			clause = append(clause, -v)
			clause = append(clause, lits...)
			e.f.add(clause)
		case celltype.XOR:
			if err := e.encodeXOR(v, lits); err != nil {
				return nil, err
			}
		case celltype.MAJ:
			if len(lits) != 3 {
				return nil, gateerr.New(gateerr.EncoderUnsupported, "MAJ requires exactly 3 inputs")
			}
			if err := e.encodeMaj3(v, lits); err != nil {
				return nil, err
			}
		default:
			ct := s.Registry().Get(s.Type(i))
			if ct.Flags&celltype.IsSoft != 0 {
				if err := e.encodeSoft(v, ct, lits); err != nil {
					return nil, err
				}
				continue
			}
			return nil, gateerr.New(gateerr.EncoderUnsupported, "cnf: symbol "+sym.String()+" has no encoding")
		}
	}
	return vars, nil
}

// encodeXOR folds an n-ary XOR into a chain of 2-input Tseitin XOR
// variables, one per pair.
func (e *Encoder) encodeXOR(out Lit, lits []Lit) error {
	if len(lits) == 0 {
		return gateerr.New(gateerr.EncoderUnsupported, "XOR requires at least one input")
	}
	acc := lits[0]
	for i := 1; i < len(lits); i++ {
		var y Lit
		if i == len(lits)-1 {
			y = out
		} else {
			y = e.f.newVar()
		}
		e.encodeXor2(y, acc, lits[i])
		acc = y
	}
	if len(lits) == 1 {
		e.f.add(Clause{-out, acc})
		e.f.add(Clause{out, -acc})
	}
	return nil
}

func (e *Encoder) encodeXor2(y, a, b Lit) {
	e.f.add(Clause{-y, -a, -b})
	e.f.add(Clause{-y, a, b})
	e.f.add(Clause{y, -a, b})
	e.f.add(Clause{y, a, -b})
}

// encodeMaj3 builds y <-> MAJ(a,b,c) via three auxiliary pairwise-AND
// variables feeding an OR.
func (e *Encoder) encodeMaj3(y Lit, lits []Lit) error {
	a, b, c := lits[0], lits[1], lits[2]
	p1, p2, p3 := e.f.newVar(), e.f.newVar(), e.f.newVar()
	encodeAnd2 := func(p, x, z Lit) {
		e.f.add(Clause{-p, x})
		e.f.add(Clause{-p, z})
		e.f.add(Clause{p, -x, -z})
	}
	encodeAnd2(p1, a, b)
	encodeAnd2(p2, a, c)
	encodeAnd2(p3, b, c)

	e.f.add(Clause{y, -p1})
	e.f.add(Clause{y, -p2})
	e.f.add(Clause{y, -p3})
	e.f.add(Clause{-y, p1, p2, p3})
	return nil
}

// encodeSoft recursively encodes a soft cell's inner implementation
// subnet, binding its interface ports to the outer cell's own links and
// output variable with equality clauses.
func (e *Encoder) encodeSoft(out Lit, ct celltype.CellType, lits []Lit) error {
	if e.resolver == nil || ct.ImplSubnet == nil {
		return gateerr.New(gateerr.EncoderUnsupported, "cnf: soft operator "+ct.Symbol.String()+" has no resolvable implementation")
	}
	id, ok := ct.ImplSubnet.(subnet.ID)
	if !ok {
		return gateerr.New(gateerr.EncoderUnsupported, "cnf: malformed ImplSubnet for "+ct.Symbol.String())
	}
	inner := e.resolver.Get(id)
	if inner == nil {
		return gateerr.New(gateerr.EncoderUnsupported, "cnf: unresolved implementation subnet for "+ct.Symbol.String())
	}

	innerVars, err := e.Encode(inner)
	if err != nil {
		return err
	}
	if inner.GetInNum() != len(lits) {
		return gateerr.New(gateerr.NotMiterable, "cnf: soft operator arity mismatch")
	}
	for k := 0; k < inner.GetInNum(); k++ {
		e.bindEqual(innerVars[inner.GetIn(k)], lits[k])
	}
	if inner.GetOutNum() != 1 {
		return gateerr.New(gateerr.EncoderUnsupported, "cnf: soft operator implementation must be single-output")
	}
	outEntry := inner.GetOut(0)
	outLink := inner.GetLink(outEntry, 0)
	innerOut := lit(innerVars[outLink.Idx], outLink.Inv)
	e.bindEqual(out, innerOut)
	return nil
}

// bindEqual adds the two clauses asserting a <-> b.
func (e *Encoder) bindEqual(a, b Lit) {
	e.f.add(Clause{-a, b})
	e.f.add(Clause{a, -b})
}

// EncodeEqual returns a property: an auxiliary
// literal whose truth means link equals the given constant, plus the
// clauses defining it, ready to be asserted on demand by a verifier.
func (e *Encoder) EncodeEqual(vars []Lit, link subnet.Link, constant int) (Lit, []Clause) {
	x := lit(vars[link.Idx], link.Inv)
	p := e.f.newVar()
	var aux []Clause
	if constant != 0 {
		aux = []Clause{{-p, x}, {p, -x}}
	} else {
		aux = []Clause{{-p, -x}, {p, x}}
	}
	e.f.Clauses = append(e.f.Clauses, aux...)
	return p, aux
}
