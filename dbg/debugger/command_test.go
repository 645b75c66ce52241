package debugger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dbg/dbg/loop"
	"github.com/valerio/go-dbg/dbg/shell"
)

func runDBG(f *fixture, args string) error {
	return f.dbg.command.Run(shell.NewCommandLine("DBG", args), f.console)
}

// /NOMOUSE only clears the mouse vector.
func TestCommand_NoMouse(t *testing.T) {
	tests := []string{"/NOMOUSE", "/nomouse", "GAME.EXE /NOMOUSE"}

	for _, args := range tests {
		t.Run(args, func(t *testing.T) {
			f := newFixture()

			require.NoError(t, runDBG(f, args))

			assert.Equal(t, map[uint32]uint32{0xCC: 0}, f.mem.writes)
			assert.Empty(t, f.ws.created)
			assert.Empty(t, f.sh.executed)
			assert.Equal(t, loop.Normal, f.loops.Mode())
			assert.False(t, f.dbg.State().Active())
		})
	}
}

func TestCommand_NoProgram(t *testing.T) {
	f := newFixture()

	require.NoError(t, runDBG(f, "   "))

	assert.Empty(t, f.sh.executed)
	assert.Empty(t, f.ws.created)
	assert.Empty(t, f.console.String())
	assert.False(t, f.dbg.State().Active())
}

func TestCommand_JoinsArguments(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"no arguments", "GAME.EXE", ""},
		{"single", "GAME.EXE -x", "-x"},
		{"collapses whitespace", "GAME.EXE   a    b  c ", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			require.NoError(t, runDBG(f, tt.line))

			require.Equal(t, []string{"GAME.EXE"}, f.sh.executed)
			assert.Equal(t, tt.expected, f.sh.args[0])
		})
	}
}

func TestCommand_ArgumentsLimit(t *testing.T) {
	fits := strings.Repeat("a", MaxArgsLength)
	f := newFixture()
	require.NoError(t, runDBG(f, "GAME.EXE "+fits))
	assert.Equal(t, []string{fits}, f.sh.args)

	tooLong := strings.Repeat("a", MaxArgsLength-1) + " b"
	f = newFixture()
	err := runDBG(f, "GAME.EXE "+tooLong)
	assert.ErrorIs(t, err, ErrArgumentsTooLong)
	assert.Empty(t, f.sh.executed)
	assert.Equal(t, "Arguments for GAME.EXE are too long.\n", f.console.String())
	assert.False(t, f.dbg.State().Active())
}
