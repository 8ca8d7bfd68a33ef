package editor

// Tool selects which authoring state machine pointer events drive.
type Tool int

const (
	ToolSelect Tool = iota // Selection and drag-to-move
	ToolPoint              // Single-click point creation
	ToolLine               // Chained line segments
	ToolCircle             // Press-drag-release circles
	ToolArc                // Three-click arcs
)

// String returns the tool name for display.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "SELECT"
	case ToolPoint:
		return "POINT"
	case ToolLine:
		return "LINE"
	case ToolCircle:
		return "CIRCLE"
	case ToolArc:
		return "ARC"
	default:
		return "UNKNOWN"
	}
}
