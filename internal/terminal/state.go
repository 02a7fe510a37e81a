package terminal

// State says whether the terminal is taking keystrokes.
type State int

const (
	Closed State = iota
	Booting
	AwaitingInput
	Processing
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case AwaitingInput:
		return "awaiting_input"
	case Processing:
		return "processing"
	default:
		return "closed"
	}
}
