package subnet

import (
	"fmt"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/gateerr"
)

// WeightFn optionally prices a cell type, e.g. for mapping- or
// synthesis-driven rewrite decisions; nil means "every cell costs the
// same".
type WeightFn func(typ celltype.ID) float64

// ReplaceOptions carries replace's three rewrite callbacks plus an
// optional per-cell weight function for cost accounting. The
// callbacks are explicit, user-supplied closures rather than a global
// observer list, so a mapper can invalidate exactly the cached cuts/levels
// it owns without coordinating with other callers.
type ReplaceOptions struct {
	Weight         WeightFn
	OnNewCell      func(idx int32)
	OnEqualDepth   func(idx int32)
	OnGreaterDepth func(idx int32)
}

// Replace performs the central in-place rewrite: rhs is a single-output
// subnet, and rhsToLhs is a partial map, pre-populated by the
// caller, binding every rhs input entry and rhs's root entry to entries
// already present in the builder (the root binds to the LHS entry being
// replaced). Replace extends rhsToLhs in place as it walks rhs, so the
// caller can read back the final mapping afterward.
func (b *Builder) Replace(rhs *Subnet, rhsToLhs map[int]int32, opts ReplaceOptions) error {
	if rhs.GetOutNum() != 1 {
		return gateerr.New(gateerr.NotMiterable, "replace requires a single-output rhs")
	}
	rootLink := rhs.GetLink(rhs.GetOut(0), 0)
	rootIdx := int(rootLink.Idx)
	lhsRoot, ok := rhsToLhs[rootIdx]
	if !ok {
		return gateerr.New(gateerr.BadLink, "rhsToLhs must bind the rhs root")
	}
	oldRootDepth := b.depthOf(lhsRoot)

	// Step 1: destrash the LHS root so the rhs walk can freely reuse or
	// repoint its slot without colliding with its own stale key.
	rootEntry := b.entries[lhsRoot]
	if strashable(rootEntry.symbol) {
		b.strash.erase(strashKey(b.reg, rootEntry.typ, rootEntry.links))
	}

	translate := func(l Link) (Link, error) {
		src, ok := rhsToLhs[int(l.Idx)]
		if !ok {
			return Link{}, gateerr.New(gateerr.BadLink, "replace: unbound rhs link")
		}
		return Link{Idx: uint32(src), Out: l.Out, Inv: l.Inv}, nil
	}

	// Step 2: walk rhs in storage order.
	for i := 0; i < rhs.Size(); i++ {
		sym := rhs.Symbol(i)
		if sym == celltype.IN || sym == celltype.OUT {
			continue
		}

		links := rhs.GetLinks(i)
		translated := make([]Link, len(links))
		for j, l := range links {
			tl, err := translate(l)
			if err != nil {
				return err
			}
			translated[j] = tl
		}
		typ := rhs.Type(i)
		isRoot := i == rootIdx

		if strashable(sym) {
			key := strashKey(b.reg, typ, translated)
			if existing, ok := b.strash.lookup(key); ok && existing != lhsRoot {
				rhsToLhs[i] = existing
				d := b.depthOf(existing)
				switch {
				case d == oldRootDepth && opts.OnEqualDepth != nil:
					opts.OnEqualDepth(existing)
				case d > oldRootDepth && opts.OnGreaterDepth != nil:
					opts.OnGreaterDepth(existing)
				}
				continue
			}
		}

		if isRoot && !rootLink.Inv {
			// No collision, no external inversion: safe to repoint the
			// LHS root's own slot, so its external fanouts stay valid.
			if err := b.replaceCell(lhsRoot, typ, sym, translated); err != nil {
				return err
			}
			rhsToLhs[i] = lhsRoot
			if opts.OnNewCell != nil {
				opts.OnNewCell(lhsRoot)
			}
			continue
		}

		newIdx := b.insertCell(typ, sym, translated)
		if strashable(sym) {
			b.strash.insert(strashKey(b.reg, typ, translated), newIdx)
		}
		rhsToLhs[i] = newIdx
		if opts.OnNewCell != nil {
			opts.OnNewCell(newIdx)
		}
	}

	// Step 3: if the chosen root cell isn't the LHS root's own slot
	// (input pass-through, a strash collision, or simply not yet
	// repointed because the output carries an inversion), wrap it in a
	// BUF so that external fanouts of the LHS root keep seeing a stable
	// index with the correct polarity.
	chosen := rhsToLhs[rootIdx]
	if chosen != lhsRoot || rootLink.Inv {
		bufTyp, ok := b.reg.Lookup("BUF")
		if !ok {
			return gateerr.New(gateerr.InvalidCell, "registry has no BUF cell type")
		}
		finalLink := Link{Idx: uint32(chosen), Inv: rootLink.Inv}
		if err := b.replaceCell(lhsRoot, bufTyp, celltype.BUF, []Link{finalLink}); err != nil {
			return err
		}
	}
	return nil
}

// replaceCell swaps idx's type and links in place: destrash/re-strash,
// mirror the fanout index, cascade-delete old inputs that become dangling,
// bump refcounts of the new inputs, and propagate any depth change through
// idx's transitive fanouts.
func (b *Builder) replaceCell(idx int32, typ celltype.ID, sym celltype.Symbol, newLinks []Link) error {
	e := &b.entries[idx]
	oldLinks := append([]Link(nil), e.links...)

	if strashable(e.symbol) {
		b.strash.erase(strashKey(b.reg, e.typ, e.links))
	}
	for _, l := range oldLinks {
		b.delFanout(l, idx)
	}

	e.typ = typ
	e.symbol = sym
	e.links = append([]Link(nil), newLinks...)
	for _, l := range newLinks {
		b.bumpRefcount(l, 1)
		b.addFanout(l, idx)
	}

	for _, l := range oldLinks {
		b.bumpRefcount(l, -1)
		b.deleteIfDangling(int32(l.Idx))
	}

	newDepth := b.computeDepth(newLinks)
	if newDepth != e.depth {
		b.setDepth(idx, newDepth)
	} else {
		b.recomputeFanoutDepths(idx)
	}

	if strashable(sym) {
		b.strash.insert(strashKey(b.reg, typ, newLinks), idx)
	}
	return nil
}

// AddSubnet splices a frozen subnet into the builder: its inputs are
// rewired to inputBindings (in order) and every interior cell is offset
// into fresh or reused (strash-collapsed) builder entries. Returns the
// link(s) corresponding to inner's outputs, in order.
func (b *Builder) AddSubnet(inner *Subnet, inputBindings LinkList, weight WeightFn) (LinkList, error) {
	if len(inputBindings) != inner.GetInNum() {
		return nil, gateerr.New(gateerr.BadLink, fmt.Sprintf("addSubnet: expected %d input bindings, got %d", inner.GetInNum(), len(inputBindings)))
	}

	remap := make([]int32, inner.Size())
	for k := 0; k < inner.GetInNum(); k++ {
		remap[inner.GetIn(k)] = int32(inputBindings[k].Idx)
	}
	// inputBindings may themselves carry inversion/port selection; fold
	// that into every link that reads directly from an input below by
	// tracking input polarity separately.
	inputLink := make(map[int]Link, inner.GetInNum())
	for k := 0; k < inner.GetInNum(); k++ {
		inputLink[inner.GetIn(k)] = inputBindings[k]
	}

	translate := func(l Link) Link {
		if bound, ok := inputLink[int(l.Idx)]; ok {
			return Link{Idx: bound.Idx, Out: bound.Out, Inv: l.Inv != bound.Inv}
		}
		return Link{Idx: uint32(remap[l.Idx]), Out: l.Out, Inv: l.Inv}
	}

	for i := 0; i < inner.Size(); i++ {
		sym := inner.Symbol(i)
		if sym == celltype.IN || sym == celltype.OUT {
			continue
		}
		links := inner.GetLinks(i)
		translated := make([]Link, len(links))
		for j, l := range links {
			translated[j] = translate(l)
		}
		typ := inner.Type(i)

		if strashable(sym) {
			key := strashKey(b.reg, typ, translated)
			if existing, ok := b.strash.lookup(key); ok {
				// Destrash the duplicate before inserting would be a
				// no-op here (we never allocated it); simply reuse it.
				remap[i] = existing
				continue
			}
			newIdx := b.insertCell(typ, sym, translated)
			b.strash.insert(key, newIdx)
			remap[i] = newIdx
			continue
		}

		remap[i] = b.insertCell(typ, sym, translated)
	}
	_ = weight // reserved for cost-aware splicing decisions; no-op today

	outs := make(LinkList, inner.GetOutNum())
	for k := 0; k < inner.GetOutNum(); k++ {
		outEntry := inner.GetOut(k)
		l := inner.GetLink(outEntry, 0)
		outs[k] = translate(l)
	}
	return outs, nil
}

// Effect is evaluateReplace's dry-run result: the change in live cell
// count, in the replaced root's depth, and in total weight, had the
// corresponding replace actually been applied.
type Effect struct {
	DeltaCells  int
	DeltaDepth  int32
	DeltaWeight float64
}

// EvaluateReplace estimates the effect of Replace without mutating the
// receiver: it runs the rewrite against a throwaway clone and diffs the
// observable state before/after.
func (b *Builder) EvaluateReplace(rhs *Subnet, rhsToLhs map[int]int32, opts ReplaceOptions) (Effect, error) {
	lhsRoot, ok := rhsToLhs[int(rhs.GetLink(rhs.GetOut(0), 0).Idx)]
	if !ok {
		return Effect{}, gateerr.New(gateerr.BadLink, "rhsToLhs must bind the rhs root")
	}

	before := b.NumEntries()
	beforeDepth := b.depthOf(lhsRoot)
	beforeWeight := b.totalWeight(opts.Weight)

	clone := b.Clone()
	mapCopy := make(map[int]int32, len(rhsToLhs))
	for k, v := range rhsToLhs {
		mapCopy[k] = v
	}
	if err := clone.Replace(rhs, mapCopy, ReplaceOptions{Weight: opts.Weight}); err != nil {
		return Effect{}, err
	}

	after := clone.NumEntries()
	afterDepth := clone.depthOf(lhsRoot)
	afterWeight := clone.totalWeight(opts.Weight)

	return Effect{
		DeltaCells:  after - before,
		DeltaDepth:  afterDepth - beforeDepth,
		DeltaWeight: afterWeight - beforeWeight,
	}, nil
}

func (b *Builder) totalWeight(w WeightFn) float64 {
	if w == nil {
		return float64(b.NumEntries())
	}
	var total float64
	for i := range b.entries {
		if b.entries[i].alive {
			total += w(b.entries[i].typ)
		}
	}
	return total
}
