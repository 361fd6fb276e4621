package cpu

import (
	"strings"
)

// Cond is the condition flag state, or a set of states in a BR test mask.
type Cond int

const (
	COND_P = Cond(1 << 0) // Positive.
	COND_Z = Cond(1 << 1) // Zero.
	COND_N = Cond(1 << 2) // Negative.
)

// String returns the n/z/p letters of the flags in the mask.
func (cond Cond) String() string {
	var sb strings.Builder
	if cond&COND_N != 0 {
		sb.WriteByte('n')
	}
	if cond&COND_Z != 0 {
		sb.WriteByte('z')
	}
	if cond&COND_P != 0 {
		sb.WriteByte('p')
	}
	return sb.String()
}

// condOf returns the flag state for a result value.
func condOf(value uint16) Cond {
	switch {
	case value == 0:
		return COND_Z
	case value&0x8000 != 0:
		return COND_N
	default:
		return COND_P
	}
}

// Registers is the register file: R0-R7, the program counter, and the
// condition flags.
type Registers struct {
	R    [8]uint16 // General purpose registers.
	pc   uint16
	cond Cond
}

// Get returns general purpose register n.
func (rf *Registers) Get(n int) uint16 {
	return rf.R[n&7]
}

// Set writes general purpose register n. The flags are not changed.
func (rf *Registers) Set(n int, value uint16) {
	rf.R[n&7] = value
}

// Pc returns the program counter.
func (rf *Registers) Pc() uint16 {
	return rf.pc
}

// SetPc sets the program counter.
func (rf *Registers) SetPc(value uint16) {
	rf.pc = value
}

// Flags returns the active condition flag.
func (rf *Registers) Flags() Cond {
	return rf.cond
}

// updateFlags sets the condition flag from the value written to a register.
func (rf *Registers) updateFlags(value uint16) {
	rf.cond = condOf(value)
}

// Reset clears the registers and sets the program counter.
func (rf *Registers) Reset(pc uint16) {
	clear(rf.R[:])
	rf.pc = pc
	rf.cond = COND_Z
}
