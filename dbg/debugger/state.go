package debugger

// State holds the debugger's activation flags. Only the gate, the detector
// and the runner change it; everyone else gets the read-only getters.
type State struct {
	active    bool
	debugging bool
	exitLoop  bool
}

// Active reports whether DBG has run a program. Once set it stays set.
func (s State) Active() bool { return s.active }

// Debugging reports whether the debug loop is installed.
func (s State) Debugging() bool { return s.debugging }

// ExitLoop reports whether the debugger was entered through its callback.
func (s State) ExitLoop() bool { return s.exitLoop }

func (s *State) setActive(v bool)    { s.active = v }
func (s *State) setDebugging(v bool) { s.debugging = v }
func (s *State) setExitLoop(v bool)  { s.exitLoop = v }
