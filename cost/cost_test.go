package cost

import (
	"math"
	"testing"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

func approxEqual(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}
	if got := a.Add(b); got != (Vector{5, 7, 9}) {
		t.Fatalf("Add = %v, want {5,7,9}", got)
	}
	if got := b.Sub(a); got != (Vector{3, 3, 3}) {
		t.Fatalf("Sub = %v, want {3,3,3}", got)
	}
	if got := a.Scale(2); got != (Vector{2, 4, 6}) {
		t.Fatalf("Scale = %v, want {2,4,6}", got)
	}
}

func TestVectorNormalizeAndTruncate(t *testing.T) {
	v := Vector{5, 5, 5}
	min := Vector{0, 0, 0}
	max := Vector{10, 10, 10}
	got := v.Normalize(min, max)
	for i := range got {
		if !approxEqual(got[i], 0.5) {
			t.Fatalf("Normalize[%d] = %v, want 0.5", i, got[i])
		}
	}
	tr := Vector{-5, 50, 5}.Truncate(0, 10)
	if tr != (Vector{0, 10, 5}) {
		t.Fatalf("Truncate = %v, want {0,10,5}", tr)
	}
}

func TestCriterionEvaluateSatisfiedConstraintsStayCheap(t *testing.T) {
	c := Criterion{
		Objective:   func(v Vector) float32 { return v[Area] },
		Constraints: []Constraint{{Index: Delay, Min: 0, Max: 10}},
		Penalty:     Penalty{Form: FormLinear, Combine: CombineAdditive},
	}
	got := c.Evaluate(Vector{5, 5, 0})
	if !approxEqual(got, 5.001) {
		t.Fatalf("Evaluate = %v, want ~5.001", got)
	}
}

func TestCriterionEvaluatePenalizesViolation(t *testing.T) {
	c := Criterion{
		Objective:   func(v Vector) float32 { return v[Area] },
		Constraints: []Constraint{{Index: Delay, Min: 0, Max: 10}},
		Penalty:     Penalty{Form: FormQuadratic, Combine: CombineAdditive},
	}
	inside := c.Evaluate(Vector{5, 5, 0})
	outside := c.Evaluate(Vector{5, 20, 0})
	if outside <= inside {
		t.Fatalf("violating evaluation %v should exceed satisfying evaluation %v", outside, inside)
	}
}

func TestLogicEstimatorCountsCellsAndDepth(t *testing.T) {
	reg := celltype.Builtins()
	b := subnet.New(reg)
	ins := b.AddInputs(2)
	andID, _ := reg.Lookup("AND")
	mid, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	orID, _ := reg.Lookup("OR")
	out, err := b.AddCell(orID, subnet.LinkList{mid, ins[0]})
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := b.AddOutput(out); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}

	e := &LogicEstimator{}
	v, err := e.Estimate(s)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if v[Area] != 2 {
		t.Fatalf("cellCount = %v, want 2", v[Area])
	}
	if v[Delay] < 1 {
		t.Fatalf("depth = %v, want >= 1", v[Delay])
	}
	if v[Power] != 0 {
		t.Fatalf("switching = %v, want 0 with no Rand configured", v[Power])
	}
}
