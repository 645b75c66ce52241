package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// CombineWords combines two 16 bit values into a single 32 bit value.
func CombineWords(high, low uint16) uint32 {
	return (uint32(high) << 16) | uint32(low)
}

// IsSet16 will check if the bit at the specified index is set to 1 or not.
func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Set16 returns value with the bit at index set to 1.
func Set16(index, value uint16) uint16 {
	return value | (1 << index)
}

// Clear16 returns value with the bit at index set to 0.
func Clear16(index, value uint16) uint16 {
	return value & ^(1 << index)
}

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// LowWord returns the low 16 bits of a 32 bit number.
func LowWord(value uint32) uint16 {
	return uint16(value)
}

// HighWord returns the high 16 bits of a 32 bit number.
func HighWord(value uint32) uint16 {
	return uint16(value >> 16)
}
