package circuit

// GateOp represents the type of logic gate
type GateOp int

const (
	AND GateOp = iota
	OR
	NOT
	NAND
	NOR
	XOR
	XNOR
	BUF // Buffer gate
)

// String returns a string representation of the gate operation
func (op GateOp) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case NAND:
		return "NAND"
	case NOR:
		return "NOR"
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case BUF:
		return "BUF"
	default:
		return "UNKNOWN"
	}
}

// ParseGateOp resolves an opcode string to a GateOp. The second return
// value is false for opcodes outside the supported set; callers that need
// a hard failure should use Evaluate, which reports an UnsupportedOpError.
func ParseGateOp(s string) (GateOp, bool) {
	switch s {
	case "AND":
		return AND, true
	case "OR":
		return OR, true
	case "NOT":
		return NOT, true
	case "NAND":
		return NAND, true
	case "NOR":
		return NOR, true
	case "XOR":
		return XOR, true
	case "XNOR":
		return XNOR, true
	case "BUF":
		return BUF, true
	default:
		return 0, false
	}
}
