package input

// Set 1 make codes for the keys a terminal can report as runes.
var runeScancodes = map[rune]uint8{
	'1': 0x02, '2': 0x03, '3': 0x04, '4': 0x05, '5': 0x06,
	'6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A, '0': 0x0B,
	'-': 0x0C, '=': 0x0D,
	'q': 0x10, 'w': 0x11, 'e': 0x12, 'r': 0x13, 't': 0x14,
	'y': 0x15, 'u': 0x16, 'i': 0x17, 'o': 0x18, 'p': 0x19,
	'[': 0x1A, ']': 0x1B,
	'a': 0x1E, 's': 0x1F, 'd': 0x20, 'f': 0x21, 'g': 0x22,
	'h': 0x23, 'j': 0x24, 'k': 0x25, 'l': 0x26,
	';': 0x27, '\'': 0x28, '`': 0x29, '\\': 0x2B,
	'z': 0x2C, 'x': 0x2D, 'c': 0x2E, 'v': 0x2F, 'b': 0x30,
	'n': 0x31, 'm': 0x32,
	',': 0x33, '.': 0x34, '/': 0x35,
	' ': 0x39,
}

// Scancodes of keys that aren't runes.
const (
	ScancodeEscape    uint8 = 0x01
	ScancodeBackspace uint8 = 0x0E
	ScancodeTab       uint8 = 0x0F
	ScancodeEnter     uint8 = 0x1C
)

// ScancodeForRune returns the make code of the key that types r. Upper case
// letters share the code of their lower case key.
func ScancodeForRune(r rune) (uint8, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	code, ok := runeScancodes[r]
	return code, ok
}
