// Package bdd implements a small reduced-ordered binary decision diagram
// engine with a unique table, used by the BDD equivalence checker:
// build a BDD for the miter output, zero node ⇒ EQUAL.
//
// No pure-Go BDD library is available here, so — like package sat — this
// is built directly on the standard library; see DESIGN.md.
package bdd

// Node is a BDD node id; 0 and 1 are the terminal constants.
type Node int32

const (
	Zero Node = 0
	One  Node = 1
)

type triple struct {
	v         int32 // decision variable; smaller values are tested closer to the root
	low, high Node
}

// Manager owns the unique table (hash-consing every distinct (var, low,
// high) triple to a single node id) and an optional computed-cache for
// apply.
type Manager struct {
	nodes  []triple // indexed by Node; 0 and 1 are terminals with v=0
	unique map[triple]Node
	cache  map[opKey]Node
}

type opKey struct {
	op   byte
	a, b Node
}

// NewManager returns an empty manager with the two terminal nodes
// pre-seeded.
func NewManager() *Manager {
	return &Manager{
		nodes:  []triple{{}, {}}, // placeholders for Zero, One
		unique: make(map[triple]Node),
		cache:  make(map[opKey]Node),
	}
}

// Var returns the BDD representing variable v alone (low=Zero, high=One).
func (m *Manager) Var(v int32) Node {
	return m.makeNode(v, Zero, One)
}

func (m *Manager) makeNode(v int32, low, high Node) Node {
	if low == high {
		return low // reduction rule: redundant test
	}
	key := triple{v: v, low: low, high: high}
	if n, ok := m.unique[key]; ok {
		return n
	}
	n := Node(len(m.nodes))
	m.nodes = append(m.nodes, key)
	m.unique[key] = n
	return n
}

func (m *Manager) at(n Node) triple { return m.nodes[n] }

// Not returns the complement of n, recursing structurally (not via apply,
// to avoid a cycle through ite).
func (m *Manager) Not(n Node) Node {
	if n == Zero {
		return One
	}
	if n == One {
		return Zero
	}
	t := m.at(n)
	return m.makeNode(t.v, m.Not(t.low), m.Not(t.high))
}

// And returns the conjunction of a and b.
func (m *Manager) And(a, b Node) Node { return m.apply('&', a, b) }

// Or returns the disjunction of a and b.
func (m *Manager) Or(a, b Node) Node { return m.apply('|', a, b) }

// Xor returns the exclusive-or of a and b.
func (m *Manager) Xor(a, b Node) Node { return m.apply('^', a, b) }

func (m *Manager) apply(op byte, a, b Node) Node {
	if a <= One && b <= One {
		return applyTerminal(op, a, b)
	}
	key := opKey{op: op, a: a, b: b}
	if n, ok := m.cache[key]; ok {
		return n
	}

	va, ta := m.splitVar(a)
	vb, tb := m.splitVar(b)
	v := va
	if tb != 0 && (ta == 0 || vb < va) {
		v = vb
	}

	lowA, highA := m.cofactor(a, v)
	lowB, highB := m.cofactor(b, v)
	n := m.makeNode(v, m.apply(op, lowA, lowB), m.apply(op, highA, highB))
	m.cache[key] = n
	return n
}

// splitVar returns (var, 1) for an internal node, or (0, 0) for a terminal.
func (m *Manager) splitVar(n Node) (int32, int32) {
	if n <= One {
		return 0, 0
	}
	return m.at(n).v, 1
}

// cofactor returns (low, high) of n with respect to v: n itself on both
// sides if n doesn't test v at its root (because n's own top variable
// comes later in the order than v, or n is terminal).
func (m *Manager) cofactor(n Node, v int32) (low, high Node) {
	if n <= One {
		return n, n
	}
	t := m.at(n)
	if t.v != v {
		return n, n
	}
	return t.low, t.high
}

func applyTerminal(op byte, a, b Node) Node {
	av, bv := a == One, b == One
	switch op {
	case '&':
		return boolNode(av && bv)
	case '|':
		return boolNode(av || bv)
	case '^':
		return boolNode(av != bv)
	}
	return Zero
}

func boolNode(v bool) Node {
	if v {
		return One
	}
	return Zero
}

// IsZero reports whether n is the constant-false terminal.
func (m *Manager) IsZero(n Node) bool { return n == Zero }
