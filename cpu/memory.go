package cpu

import (
	"github.com/ezrec/lc3/io"
)

// MEMORY_SIZE is the number of 16-bit cells in memory.
const MEMORY_SIZE = 1 << 16

// Device is a memory mapped device register.
type Device io.Device

// Memory is the flat, word addressed memory.
// Addresses are 16 bits, so address arithmetic wraps by construction.
type Memory struct {
	Cell [MEMORY_SIZE]uint16

	device map[uint16]Device
}

// Read returns the cell at addr, or the device register mapped there.
func (mem *Memory) Read(addr uint16) uint16 {
	if dev, ok := mem.device[addr]; ok {
		return dev.Load(addr)
	}
	return mem.Cell[addr]
}

// Write stores value at addr, or to the device register mapped there.
func (mem *Memory) Write(addr uint16, value uint16) {
	if dev, ok := mem.device[addr]; ok {
		dev.Store(addr, value)
		return
	}
	mem.Cell[addr] = value
}

// Map attaches a device register at addr. A nil device removes the mapping.
func (mem *Memory) Map(addr uint16, dev Device) {
	if dev == nil {
		delete(mem.device, addr)
		return
	}

	if mem.device == nil {
		mem.device = make(map[uint16]Device)
	}
	mem.device[addr] = dev
}

// Mapped returns true if a device register is mapped at addr.
func (mem *Memory) Mapped(addr uint16) (ok bool) {
	_, ok = mem.device[addr]
	return
}

// Reset zero fills memory. Device mappings are kept.
func (mem *Memory) Reset() {
	clear(mem.Cell[:])
}
