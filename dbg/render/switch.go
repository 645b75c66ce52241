package render

import "fmt"

// Switch saves the caller's current pair, activates another one and puts
// the caller's pair back on Leave. Enter and Leave must be paired; entering
// twice without leaving is rejected with ErrNestedSwitch.
type Switch struct {
	ws      Windowing
	saved   Pair
	entered bool
}

// NewSwitch returns a switch operating on ws.
func NewSwitch(ws Windowing) *Switch {
	return &Switch{ws: ws}
}

// Enter stores the current pair and activates target.
func (s *Switch) Enter(target Pair) error {
	if s.entered {
		return ErrNestedSwitch
	}
	if !target.Valid() {
		return fmt.Errorf("enter %v: %w", target, ErrContextCreation)
	}

	saved := s.ws.CurrentPair()
	if err := s.ws.MakeCurrent(target); err != nil {
		return fmt.Errorf("failed to activate %v: %w", target, err)
	}

	s.saved = saved
	s.entered = true
	return nil
}

// Leave reactivates the pair that was current before Enter.
func (s *Switch) Leave() error {
	if !s.entered {
		return ErrNotEntered
	}

	s.entered = false
	if err := s.ws.MakeCurrent(s.saved); err != nil {
		return fmt.Errorf("failed to restore %v: %w", s.saved, err)
	}
	return nil
}

// Entered reports whether Enter was called without a matching Leave.
func (s *Switch) Entered() bool {
	return s.entered
}

// DrawFrame draws one frame on target, cleared to background, and leaves
// the caller's pair current afterwards.
func DrawFrame(ws Windowing, target Pair, background Color) error {
	sw := NewSwitch(ws)
	if err := sw.Enter(target); err != nil {
		return err
	}

	ws.Clear(background)
	ws.Present(target)

	return sw.Leave()
}
