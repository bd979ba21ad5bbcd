// Package iface defines the boundary between the core (subnet, cut, check,
// cost, techmap) and external front-ends/back-ends: a
// translator produces a frozen subnet handle (out of scope, never
// implemented here), and a Printer consumes one to emit some external
// format (also a collaborator, not core).
package iface

import "github.com/hlimds/gate/subnet"

// Printer renders a frozen subnet to some external textual format (e.g.
// Verilog, a dot graph). Implementations are collaborators living outside
// the core; the core only depends on this interface, never
// a concrete printer.
type Printer interface {
	// Print writes s's external representation, naming the emitted
	// module/graph moduleName.
	Print(s *subnet.Subnet, moduleName string) ([]byte, error)
}
