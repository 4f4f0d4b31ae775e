package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       string
		operands []bool
		want     bool
	}{
		{"and true", "AND", []bool{true, true, true}, true},
		{"and false", "AND", []bool{true, false, true}, false},
		{"or false", "OR", []bool{false, false}, false},
		{"or true", "OR", []bool{false, true}, true},
		{"nand", "NAND", []bool{true, true}, false},
		{"nand single zero", "NAND", []bool{true, false, true}, true},
		{"nor all zero", "NOR", []bool{false, false, false}, true},
		{"nor", "NOR", []bool{false, true}, false},
		{"xor parity even", "XOR", []bool{true, true}, false},
		{"xor parity odd", "XOR", []bool{true, true, true}, true},
		{"xor single", "XOR", []bool{true}, true},
		{"xnor parity odd", "XNOR", []bool{true, true, true}, false},
		{"xnor parity even", "XNOR", []bool{true, false, true}, true},
		{"not", "NOT", []bool{true}, false},
		{"buf", "BUF", []bool{true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.op, tt.operands)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// XNOR must be the complement of the parity fold, not a pairwise
// equality chain: over {1,1,1} a pairwise chain would give 1, the
// parity-fold complement gives 0.
func TestEvaluateXnorIsParityComplement(t *testing.T) {
	t.Parallel()

	got, err := Evaluate("XNOR", []bool{true, true, true})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluateUnsupportedOp(t *testing.T) {
	t.Parallel()

	_, err := Evaluate("MUX", []bool{true, false})
	var opErr *UnsupportedOpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "MUX", opErr.Op)
}

func TestEvaluateArity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op       string
		operands []bool
	}{
		{"NOT", []bool{true, false}},
		{"NOT", nil},
		{"BUF", []bool{true, true}},
		{"AND", nil},
		{"XOR", nil},
	}

	for _, tt := range tests {
		_, err := Evaluate(tt.op, tt.operands)
		var arityErr *ArityError
		require.ErrorAs(t, err, &arityErr, "op %s with %d operands", tt.op, len(tt.operands))
		assert.Equal(t, tt.op, arityErr.Op)
		assert.Equal(t, len(tt.operands), arityErr.Count)
	}
}

func TestParseGateOpRoundTrip(t *testing.T) {
	t.Parallel()

	for op := AND; op <= BUF; op++ {
		parsed, ok := ParseGateOp(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, parsed)
	}

	_, ok := ParseGateOp("DFF")
	assert.False(t, ok)
}

func TestNetlistClone(t *testing.T) {
	t.Parallel()

	n := &Netlist{
		Inputs:  []string{"a", "b"},
		Outputs: []string{"y"},
		Gates:   []Gate{{Output: "y", Op: "AND", Operands: []string{"a", "b"}}},
	}
	c := n.Clone()
	require.Equal(t, n, c)

	c.Gates[0].Operands[0] = "b"
	c.Inputs[0] = "z"
	assert.Equal(t, "a", n.Gates[0].Operands[0])
	assert.Equal(t, "a", n.Inputs[0])
}

func TestGateString(t *testing.T) {
	t.Parallel()

	g := Gate{Output: "n1", Op: "NAND", Operands: []string{"a", "b", "c"}}
	assert.Equal(t, "n1 = NAND(a, b, c)", g.String())
}

func TestErrorsAreComparableByAs(t *testing.T) {
	t.Parallel()

	_, err := Evaluate("FOO", []bool{true})
	assert.True(t, errors.As(err, new(*UnsupportedOpError)))
	assert.False(t, errors.As(err, new(*ArityError)))
}
