// Package lock inserts XOR key-gates into a combinational netlist so
// that the design computes its original function only under the all-zero
// key.
package lock

import (
	"fmt"
	"strconv"

	"github.com/circuitsec/keylock/pkg/circuit"
)

// Naming convention for signals introduced by the transform.
const (
	LockedSuffix = "_locked"
	KeyPrefix    = "k"
)

// LockedName derives the name carrying the key-gated value of a node.
func LockedName(node string) string {
	return node + LockedSuffix
}

// KeyName derives the i-th key-input name, k0, k1, ...
func KeyName(i int) string {
	return KeyPrefix + strconv.Itoa(i)
}

// NameCollisionError reports that a derived signal name already exists
// in the netlist. The transform fails fast instead of silently
// overwriting the colliding signal.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("derived signal name %q collides with an existing name", e.Name)
}

// InternalNodes returns the lockable candidates: gate-output names in
// declaration order. Primary inputs are never locked.
func InternalNodes(n *circuit.Netlist) []string {
	return n.GateOutputs()
}

// Insert produces a locked copy of the netlist and the ordered key-input
// names. The first keyWidth entries of ranked are locked; if fewer are
// available, all of them are (degraded but valid, not an error).
//
// For each locked node x with key input ki, the gate x = OP(...) is kept
// and a key-gate x_locked = XOR(x, ki) is appended immediately after it.
// Operands of later gates that name x are rewritten to x_locked, so the
// gate list stays topologically valid in a single forward pass. Declared
// outputs are not rewritten: an output that names a locked node keeps
// reading the pre-lock value.
func Insert(n *circuit.Netlist, ranked []string, keyWidth int) (*circuit.Netlist, []string, error) {
	if keyWidth < 0 {
		return nil, nil, fmt.Errorf("key width must be non-negative, got %d", keyWidth)
	}
	if keyWidth > len(ranked) {
		keyWidth = len(ranked)
	}
	chosen := ranked[:keyWidth]

	gateOutputs := make(map[string]bool, len(n.Gates))
	for _, g := range n.Gates {
		gateOutputs[g.Output] = true
	}
	existing := n.Names()

	type lockEntry struct {
		locked string
		key    string
	}
	lockMap := make(map[string]lockEntry, len(chosen))
	keyNames := make([]string, 0, len(chosen))
	for i, node := range chosen {
		if !gateOutputs[node] {
			return nil, nil, fmt.Errorf("node %q is not a gate output and cannot be locked", node)
		}
		if _, dup := lockMap[node]; dup {
			return nil, nil, fmt.Errorf("node %q selected for locking more than once", node)
		}
		lockedName, keyName := LockedName(node), KeyName(i)
		if existing[lockedName] {
			return nil, nil, &NameCollisionError{Name: lockedName}
		}
		if existing[keyName] {
			return nil, nil, &NameCollisionError{Name: keyName}
		}
		existing[lockedName] = true
		existing[keyName] = true
		lockMap[node] = lockEntry{locked: lockedName, key: keyName}
		keyNames = append(keyNames, keyName)
	}

	out := &circuit.Netlist{
		Inputs:  append(append([]string(nil), n.Inputs...), keyNames...),
		Outputs: append([]string(nil), n.Outputs...),
		Gates:   make([]circuit.Gate, 0, len(n.Gates)+len(chosen)),
	}

	seenLocked := make(map[string]bool, len(chosen))
	for _, g := range n.Gates {
		operands := make([]string, len(g.Operands))
		for i, a := range g.Operands {
			if seenLocked[a] {
				operands[i] = lockMap[a].locked
			} else {
				operands[i] = a
			}
		}
		out.Gates = append(out.Gates, circuit.Gate{Output: g.Output, Op: g.Op, Operands: operands})

		if entry, ok := lockMap[g.Output]; ok {
			out.Gates = append(out.Gates, circuit.Gate{
				Output:   entry.locked,
				Op:       circuit.XOR.String(),
				Operands: []string{g.Output, entry.key},
			})
			seenLocked[g.Output] = true
		}
	}

	return out, keyNames, nil
}
