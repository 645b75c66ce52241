package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x12, 0x34, 0x1234},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestCombineWords(t *testing.T) {
	tests := []struct {
		high, low uint16
		expected  uint32
	}{
		{0xF000, 0xFFF0, 0xF000FFF0},
		{0x0000, 0x0000, 0x00000000},
		{0x1234, 0x5678, 0x12345678},
	}

	for _, tt := range tests {
		result := CombineWords(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("CombineWords(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
		if HighWord(result) != tt.high || LowWord(result) != tt.low {
			t.Errorf("split of %X = (%X, %X); want (%X, %X)", result, HighWord(result), LowWord(result), tt.high, tt.low)
		}
	}
}

func TestIsSet16(t *testing.T) {
	tests := []struct {
		value    uint16
		index    uint16
		expected bool
	}{
		{0x0200, 9, true},
		{0x0200, 8, false},
		{0xFFFF, 15, true},
		{0x0000, 0, false},
	}

	for _, tt := range tests {
		result := IsSet16(tt.index, tt.value)
		if result != tt.expected {
			t.Errorf("IsSet16(%d, %X) = %v; want %v", tt.index, tt.value, result, tt.expected)
		}
	}
}

func TestSetClear16(t *testing.T) {
	v := Set16(9, 0x0002)
	if v != 0x0202 {
		t.Errorf("Set16(9, 0x0002) = %X; want 0x0202", v)
	}
	v = Clear16(9, v)
	if v != 0x0002 {
		t.Errorf("Clear16(9, 0x0202) = %X; want 0x0002", v)
	}
}

func TestLowHigh(t *testing.T) {
	if Low(0xABCD) != 0xCD {
		t.Errorf("Low(0xABCD) = %X; want 0xCD", Low(0xABCD))
	}
	if High(0xABCD) != 0xAB {
		t.Errorf("High(0xABCD) = %X; want 0xAB", High(0xABCD))
	}
	if !IsSet(7, 0x80) || IsSet(0, 0x80) {
		t.Error("IsSet mismatch for 0x80")
	}
}
