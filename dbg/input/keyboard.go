package input

// KeyboardBufferSize matches the BIOS type-ahead buffer.
const KeyboardBufferSize = 16

// Keyboard is the emulated keyboard type-ahead buffer.
type Keyboard struct {
	codes []uint8
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		codes: make([]uint8, 0, KeyboardBufferSize),
	}
}

// Push queues a scancode. It returns false when the buffer is full and the
// code was dropped.
func (k *Keyboard) Push(code uint8) bool {
	if len(k.codes) >= KeyboardBufferSize {
		return false
	}
	k.codes = append(k.codes, code)
	return true
}

// Pop removes the oldest scancode.
func (k *Keyboard) Pop() (uint8, bool) {
	if len(k.codes) == 0 {
		return 0, false
	}
	code := k.codes[0]
	k.codes = k.codes[1:]
	return code, true
}

// Len returns the number of buffered scancodes.
func (k *Keyboard) Len() int {
	return len(k.codes)
}

// Clear drops everything buffered.
func (k *Keyboard) Clear() {
	k.codes = k.codes[:0]
}
