package circuit

import "fmt"

// UnsupportedOpError reports an opcode outside the supported gate set.
type UnsupportedOpError struct {
	Op string
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported gate operation %q", e.Op)
}

// ArityError reports a gate evaluated with an invalid operand count.
type ArityError struct {
	Op    string
	Count int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate operation %s cannot take %d operands", e.Op, e.Count)
}

// Evaluate computes the boolean result of applying the named operation to
// the operand values. AND/OR fold across all operands, NAND/NOR are their
// complements, XOR folds parity across all operands and XNOR is the
// complement of that fold (not pairwise). NOT and BUF require exactly one
// operand.
func Evaluate(opcode string, operands []bool) (bool, error) {
	op, ok := ParseGateOp(opcode)
	if !ok {
		return false, &UnsupportedOpError{Op: opcode}
	}

	switch op {
	case NOT, BUF:
		if len(operands) != 1 {
			return false, &ArityError{Op: opcode, Count: len(operands)}
		}
	default:
		if len(operands) == 0 {
			return false, &ArityError{Op: opcode, Count: 0}
		}
	}

	switch op {
	case AND:
		return foldAnd(operands), nil
	case OR:
		return foldOr(operands), nil
	case NAND:
		return !foldAnd(operands), nil
	case NOR:
		return !foldOr(operands), nil
	case XOR:
		return foldXor(operands), nil
	case XNOR:
		return !foldXor(operands), nil
	case NOT:
		return !operands[0], nil
	case BUF:
		return operands[0], nil
	default:
		return false, &UnsupportedOpError{Op: opcode}
	}
}

func foldAnd(operands []bool) bool {
	for _, v := range operands {
		if !v {
			return false
		}
	}
	return true
}

func foldOr(operands []bool) bool {
	for _, v := range operands {
		if v {
			return true
		}
	}
	return false
}

func foldXor(operands []bool) bool {
	parity := false
	for _, v := range operands {
		parity = parity != v
	}
	return parity
}
