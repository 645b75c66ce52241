package memory

import (
	"github.com/valerio/go-dbg/dbg/bit"
)

const (
	// Size covers the 1MB real-mode address space plus the high memory area.
	Size = 0x110000

	// VectorTableSize is the size of the interrupt vector table at 0000:0000.
	VectorTableSize = 0x400
)

// Physical converts a segment:offset pair into a linear address.
func Physical(segment, offset uint16) uint32 {
	return uint32(segment)<<4 + uint32(offset)
}

// VectorAddress returns the linear address of the interrupt vector for
// interrupt n.
func VectorAddress(n uint8) uint32 {
	return uint32(n) << 2
}

// Memory is the flat real-mode memory of the emulated machine.
type Memory struct {
	data []byte
}

// New returns zeroed memory.
func New() *Memory {
	return &Memory{
		data: make([]byte, Size),
	}
}

func (m *Memory) wrap(address uint32) uint32 {
	return address % Size
}

// Read reads a byte at the linear address.
func (m *Memory) Read(address uint32) byte {
	return m.data[m.wrap(address)]
}

// Write writes a byte at the linear address.
func (m *Memory) Write(address uint32, value byte) {
	m.data[m.wrap(address)] = value
}

// ReadW reads a little-endian word.
func (m *Memory) ReadW(address uint32) uint16 {
	return bit.Combine(m.Read(address+1), m.Read(address))
}

// WriteW writes a little-endian word.
func (m *Memory) WriteW(address uint32, value uint16) {
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}

// ReadD reads a little-endian dword.
func (m *Memory) ReadD(address uint32) uint32 {
	return bit.CombineWords(m.ReadW(address+2), m.ReadW(address))
}

// WriteD writes a little-endian dword.
func (m *Memory) WriteD(address uint32, value uint32) {
	m.WriteW(address, bit.LowWord(value))
	m.WriteW(address+2, bit.HighWord(value))
}

// RealReadD reads a dword at segment:offset.
func (m *Memory) RealReadD(segment, offset uint16) uint32 {
	return m.ReadD(Physical(segment, offset))
}

// RealWriteD writes a dword at segment:offset.
func (m *Memory) RealWriteD(segment, offset uint16, value uint32) {
	m.WriteD(Physical(segment, offset), value)
}

// Load copies data into memory starting at the linear address.
func (m *Memory) Load(address uint32, data []byte) {
	for i, b := range data {
		m.Write(address+uint32(i), b)
	}
}

// Vector returns the segment:offset stored in the interrupt vector table for
// interrupt n.
func (m *Memory) Vector(n uint8) (segment, offset uint16) {
	v := m.ReadD(VectorAddress(n))
	return bit.HighWord(v), bit.LowWord(v)
}

// SetVector stores segment:offset as the handler for interrupt n.
func (m *Memory) SetVector(n uint8, segment, offset uint16) {
	m.WriteD(VectorAddress(n), bit.CombineWords(segment, offset))
}
