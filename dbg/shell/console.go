package shell

import "strings"

// Console receives text a program writes to the DOS console.
type Console interface {
	WriteOut(s string)
}

// BufferConsole collects console output in memory.
type BufferConsole struct {
	sb strings.Builder
}

func (b *BufferConsole) WriteOut(s string) {
	b.sb.WriteString(s)
}

// String returns everything written so far.
func (b *BufferConsole) String() string {
	return b.sb.String()
}

// Reset drops everything written so far.
func (b *BufferConsole) Reset() {
	b.sb.Reset()
}
