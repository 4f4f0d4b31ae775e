package circuit

import (
	"fmt"
	"strings"
)

// Gate represents a single combinational gate driving one named signal.
// Op is kept as the raw opcode text: the parser accepts any run of
// uppercase letters, and the evaluator is the authority on which opcodes
// are supported.
type Gate struct {
	Output   string   // Name of the driven signal
	Op       string   // Opcode, e.g. "AND"
	Operands []string // Operand signal names, in declaration order
}

// String returns the gate in bench notation, e.g. "n1 = AND(a, b)".
func (g Gate) String() string {
	return fmt.Sprintf("%s = %s(%s)", g.Output, g.Op, strings.Join(g.Operands, ", "))
}

// Netlist represents a combinational circuit: named primary inputs and
// outputs plus an ordered gate list. The gate list is topologically
// sorted by construction; every operand refers to a primary input or to
// the output of an earlier gate. Netlists are treated as immutable once
// built: transformations produce a new Netlist instead of mutating.
type Netlist struct {
	Inputs  []string
	Outputs []string
	Gates   []Gate
}

// Clone returns a deep copy of the netlist.
func (n *Netlist) Clone() *Netlist {
	c := &Netlist{
		Inputs:  append([]string(nil), n.Inputs...),
		Outputs: append([]string(nil), n.Outputs...),
		Gates:   make([]Gate, len(n.Gates)),
	}
	for i, g := range n.Gates {
		c.Gates[i] = Gate{
			Output:   g.Output,
			Op:       g.Op,
			Operands: append([]string(nil), g.Operands...),
		}
	}
	return c
}

// GateOutputs returns the names driven by gates, in declaration order.
func (n *Netlist) GateOutputs() []string {
	names := make([]string, len(n.Gates))
	for i, g := range n.Gates {
		names[i] = g.Output
	}
	return names
}

// Names returns the set of all signal names declared by the netlist:
// primary inputs, primary outputs, and gate outputs.
func (n *Netlist) Names() map[string]bool {
	names := make(map[string]bool, len(n.Inputs)+len(n.Outputs)+len(n.Gates))
	for _, name := range n.Inputs {
		names[name] = true
	}
	for _, name := range n.Outputs {
		names[name] = true
	}
	for _, g := range n.Gates {
		names[g.Output] = true
	}
	return names
}
