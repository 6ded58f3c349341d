// Package mem provides the flat 64 KiB address space backing a 6502 core.
package mem

// A Memory is the CPU's entire addressable range: 65,536 bytes, starting at
// 0x0000, shared by program code, data, and the stack page (0x0100-0x01ff).
// There is no division or mirroring; a real NES/Apple II host would overlay
// PPU/APU/cartridge regions on top of this, but that is a host concern, not
// this core's.
type Memory struct {
	bytes [65536]byte
}

// Read8 returns the byte at addr.
func (m *Memory) Read8(addr uint16) byte {
	return m.bytes[addr]
}

// Write8 stores data at addr.
func (m *Memory) Write8(addr uint16, data byte) {
	m.bytes[addr] = data
}

// Read16 reads a little-endian word at addr: the low byte lives at addr, the
// high byte at addr+1. addr+1 is computed with 16-bit wraparound, so
// Read16(0xFFFF) reads its high byte from 0x0000.
func (m *Memory) Read16(addr uint16) uint16 {
	lo := m.Read8(addr)
	hi := m.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// Write16 stores a little-endian word at addr: low byte at addr, high byte
// at addr+1 (with the same 16-bit wraparound as Read16).
func (m *Memory) Write16(addr uint16, data uint16) {
	m.Write8(addr, byte(data))
	m.Write8(addr+1, byte(data>>8))
}
