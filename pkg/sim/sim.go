// Package sim evaluates combinational netlists over boolean input
// vectors and scores the divergence between an original design and its
// locked counterpart.
package sim

import (
	"fmt"

	"github.com/circuitsec/keylock/pkg/circuit"
)

// MissingInputError reports an input vector that does not cover a
// primary input.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing value for primary input %q", e.Name)
}

// UndefinedSignalError reports a reference to a signal with no computed
// value. This is an invariant violation in the netlist producer (an
// operand used before its defining gate), never a normal runtime
// condition, and the simulation is aborted rather than defaulting the
// value.
type UndefinedSignalError struct {
	Signal string
	Gate   string // Driven output of the referencing gate; empty for a primary output
}

func (e *UndefinedSignalError) Error() string {
	if e.Gate == "" {
		return fmt.Sprintf("primary output %q has no defined value", e.Signal)
	}
	return fmt.Sprintf("gate %q references undefined signal %q", e.Gate, e.Signal)
}

// Simulate evaluates the netlist under the given primary-input
// assignment and returns the output values aligned with n.Outputs.
// Gates are evaluated in listed order, which is assumed topological; the
// simulator does not re-derive topology. Single linear pass over all
// operands.
func Simulate(n *circuit.Netlist, inputs map[string]bool) ([]bool, error) {
	values := make(map[string]bool, len(n.Inputs)+len(n.Gates))
	for _, name := range n.Inputs {
		v, ok := inputs[name]
		if !ok {
			return nil, &MissingInputError{Name: name}
		}
		values[name] = v
	}

	operands := make([]bool, 0, 8)
	for _, g := range n.Gates {
		operands = operands[:0]
		for _, a := range g.Operands {
			v, ok := values[a]
			if !ok {
				return nil, &UndefinedSignalError{Signal: a, Gate: g.Output}
			}
			operands = append(operands, v)
		}
		v, err := circuit.Evaluate(g.Op, operands)
		if err != nil {
			return nil, fmt.Errorf("gate %q: %w", g.Output, err)
		}
		values[g.Output] = v
	}

	out := make([]bool, len(n.Outputs))
	for i, name := range n.Outputs {
		v, ok := values[name]
		if !ok {
			return nil, &UndefinedSignalError{Signal: name}
		}
		out[i] = v
	}
	return out, nil
}
