package svgexport

// InstructionType tells a path drawing backend which function it has
// to call
type InstructionType int

// These are the instruction types path data is reduced to.
const (
	MoveInstruction InstructionType = iota
	LineInstruction
	CloseInstruction
)

func (k InstructionType) String() string {
	switch k {
	case MoveInstruction:
		return "move"
	case LineInstruction:
		return "line"
	case CloseInstruction:
		return "close"
	}
	return "unknown"
}

// DrawingInstruction contains enough information that a simple drawing
// library can draw the paths of an exported document. M is nil for
// CloseInstruction.
type DrawingInstruction struct {
	Kind InstructionType
	M    *Tuple
}
