package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhysical(t *testing.T) {
	tests := []struct {
		name     string
		segment  uint16
		offset   uint16
		expected uint32
	}{
		{"zero", 0x0000, 0x0000, 0x00000},
		{"vector table", 0x0000, 0x33 << 2, 0x000CC},
		{"reset vector", 0xF000, 0xFFF0, 0xFFFF0},
		{"high memory area", 0xFFFF, 0x0010, 0x100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Physical(tt.segment, tt.offset))
		})
	}
}

func TestMemoryWordAccess(t *testing.T) {
	t.Run("little endian word", func(t *testing.T) {
		m := New()
		m.WriteW(0x100, 0xBEEF)
		assert.Equal(t, byte(0xEF), m.Read(0x100))
		assert.Equal(t, byte(0xBE), m.Read(0x101))
		assert.Equal(t, uint16(0xBEEF), m.ReadW(0x100))
	})

	t.Run("little endian dword", func(t *testing.T) {
		m := New()
		m.WriteD(0x200, 0xDEADBEEF)
		assert.Equal(t, uint32(0xDEADBEEF), m.ReadD(0x200))
		assert.Equal(t, uint16(0xBEEF), m.ReadW(0x200))
		assert.Equal(t, uint16(0xDEAD), m.ReadW(0x202))
	})

	t.Run("real mode dword", func(t *testing.T) {
		m := New()
		m.RealWriteD(0x1000, 0x0010, 0x12345678)
		assert.Equal(t, uint32(0x12345678), m.ReadD(0x10010))
		assert.Equal(t, uint32(0x12345678), m.RealReadD(0x1000, 0x0010))
	})

	t.Run("addresses wrap at the end of memory", func(t *testing.T) {
		m := New()
		m.Write(Size, 0x42)
		assert.Equal(t, byte(0x42), m.Read(0))
	})
}

func TestVectors(t *testing.T) {
	m := New()
	m.SetVector(0x08, 0xF000, 0xFEA5)

	seg, off := m.Vector(0x08)
	assert.Equal(t, uint16(0xF000), seg)
	assert.Equal(t, uint16(0xFEA5), off)
	assert.Equal(t, uint32(0xF000FEA5), m.ReadD(VectorAddress(0x08)))
}

func TestLoad(t *testing.T) {
	m := New()
	m.Load(0x500, []byte{0x90, 0x90, 0xF4})
	assert.Equal(t, byte(0x90), m.Read(0x500))
	assert.Equal(t, byte(0xF4), m.Read(0x502))
}
