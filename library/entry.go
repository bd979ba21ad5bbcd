package library

import "github.com/hlimds/gate/celltype"

// DelayPoint is one sample of a pin's delay lookup table, indexed by
// input transition slew and output capacitive load.
type DelayPoint struct {
	InputSlew, OutputLoad, Delay float32
}

// PinTiming is one input pin's rise/fall delay tables.
type PinTiming struct {
	Rise, Fall []DelayPoint
}

func (p PinTiming) lookup(table []DelayPoint, inputSlew, outputLoad float32) float32 {
	if len(table) == 0 {
		return 0
	}
	best := table[0]
	bestDist := distance(best, inputSlew, outputLoad)
	for _, pt := range table[1:] {
		d := distance(pt, inputSlew, outputLoad)
		if d < bestDist {
			best, bestDist = pt, d
		}
	}
	return best.Delay
}

func distance(p DelayPoint, inputSlew, outputLoad float32) float32 {
	ds := p.InputSlew - inputSlew
	dl := p.OutputLoad - outputLoad
	return ds*ds + dl*dl
}

// Entry is one cell type in a Library: its function (for combinational
// cells), its symbol family (for sequential cells), and its cost
// attributes. A Library is built from a slice of these (library.FromEntries)
// rather than by parsing a vendor format — Liberty parsing is out of scope.
type Entry interface {
	Name() string
	// TruthTable returns the cell's combinational function, or nil for a
	// sequential cell identified by Family instead.
	TruthTable() *TruthTable
	// Family returns the sequential symbol (DFF, DFFrs, LATCH, LATCHrs)
	// this entry implements, or celltype.UNDEF for a combinational cell.
	Family() celltype.Symbol
	Area() float32
	// PinPower returns the rise/fall switching energy of the given input
	// pin.
	PinPower(pin int) (rise, fall float32)
	// Delay returns the pin's propagation delay for the given input
	// transition slew and output load, interpolated from its lookup
	// table.
	Delay(pin int, inputSlew, outputLoad float32) float32
}

// StaticEntry is a plain in-memory Entry, the shape library.FromEntries
// expects callers (a future Liberty-format reader, or a test) to build.
type StaticEntry struct {
	EntryName string
	TT        *TruthTable
	Seq       celltype.Symbol
	AreaVal   float32
	Pins      []StaticPin
}

// StaticPin is one input pin's power and timing attributes.
type StaticPin struct {
	RisePower, FallPower float32
	Timing               PinTiming
}

func (e StaticEntry) Name() string            { return e.EntryName }
func (e StaticEntry) TruthTable() *TruthTable { return e.TT }
func (e StaticEntry) Family() celltype.Symbol { return e.Seq }
func (e StaticEntry) Area() float32           { return e.AreaVal }

func (e StaticEntry) PinPower(pin int) (rise, fall float32) {
	if pin < 0 || pin >= len(e.Pins) {
		return 0, 0
	}
	p := e.Pins[pin]
	return p.RisePower, p.FallPower
}

func (e StaticEntry) Delay(pin int, inputSlew, outputLoad float32) float32 {
	if pin < 0 || pin >= len(e.Pins) {
		return 0
	}
	t := e.Pins[pin].Timing
	rise := t.lookup(t.Rise, inputSlew, outputLoad)
	fall := t.lookup(t.Fall, inputSlew, outputLoad)
	if rise > fall {
		return rise
	}
	return fall
}
