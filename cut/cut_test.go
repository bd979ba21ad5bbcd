package cut

import (
	"testing"

	"github.com/hlimds/gate/celltype"
	"github.com/hlimds/gate/subnet"
)

func buildAnd3(t *testing.T) (*subnet.Subnet, subnet.Link) {
	t.Helper()
	reg := celltype.Builtins()
	b := subnet.New(reg)
	ins := b.AddInputs(3)
	andID, ok := reg.Lookup("AND")
	if !ok {
		t.Fatal("registry has no AND")
	}
	root, err := b.AddCell(andID, ins)
	if err != nil {
		t.Fatalf("AddCell(AND): %v", err)
	}
	if err := b.AddOutput(root); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	s, err := b.Make()
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	return s, root
}

func TestEnumerateTrivialCutAlwaysPresent(t *testing.T) {
	s, _ := buildAnd3(t)
	cs := Enumerate(s, 5, 8)
	for i := 0; i < s.Size(); i++ {
		found := false
		for _, c := range cs.Cuts(i) {
			if c.Size() == 1 && c.Leaves[0] == int32(i) {
				found = true
			}
		}
		if !found {
			t.Fatalf("entry %d has no trivial cut {%d}", i, i)
		}
	}
}

func TestEnumerateAnd3ExactlyTwoCuts(t *testing.T) {
	s, root := buildAnd3(t)
	cs := Enumerate(s, 5, 8)

	cuts := cs.Cuts(int(root.Idx))
	if len(cuts) != 2 {
		t.Fatalf("AND(x0,x1,x2) with k=5 has %d cuts at the root, want 2", len(cuts))
	}

	sizes := map[int]bool{}
	for _, c := range cuts {
		sizes[c.Size()] = true
	}
	if !sizes[1] || !sizes[3] {
		t.Fatalf("expected cut sizes {1,3}, got %v", cuts)
	}
}

func TestGetConeReproducesCutShape(t *testing.T) {
	s, root := buildAnd3(t)
	cs := Enumerate(s, 5, 8)

	var full *Cut
	for _, c := range cs.Cuts(int(root.Idx)) {
		if c.Size() == 3 {
			full = c
		}
	}
	if full == nil {
		t.Fatal("expected a 3-leaf cut at the AND root")
	}

	cone, err := GetCone(s, int(root.Idx), full)
	if err != nil {
		t.Fatalf("GetCone: %v", err)
	}
	if cone.Subnet.GetInNum() != 3 || cone.Subnet.GetOutNum() != 1 {
		t.Fatalf("cone shape = (%d in, %d out), want (3, 1)", cone.Subnet.GetInNum(), cone.Subnet.GetOutNum())
	}
}

func TestGetMaxConeReachesAllInputs(t *testing.T) {
	s, root := buildAnd3(t)
	cone, err := GetMaxCone(s, int(root.Idx))
	if err != nil {
		t.Fatalf("GetMaxCone: %v", err)
	}
	if cone.Subnet.GetInNum() != 3 {
		t.Fatalf("max cone has %d inputs, want 3", cone.Subnet.GetInNum())
	}
}
