package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Debugger controls
	DebuggerEnable Action = iota

	// Emulator features
	EmulatorPauseToggle
	EmulatorQuit

	// Logging controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

func (a Action) String() string {
	switch a {
	case DebuggerEnable:
		return "DebuggerEnable"
	case EmulatorPauseToggle:
		return "EmulatorPauseToggle"
	case EmulatorQuit:
		return "EmulatorQuit"
	case DebugLogLevelIncrease:
		return "DebugLogLevelIncrease"
	case DebugLogLevelDecrease:
		return "DebugLogLevelDecrease"
	default:
		return "Unknown"
	}
}
