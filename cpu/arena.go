package cpu

import (
	"github.com/ezrec/lc3/io"
)

// Memory map regions.
const (
	TRAP_TABLE      = uint16(0x0000)     // Trap vector table.
	INTERRUPT_TABLE = uint16(0x0100)     // Interrupt vector table.
	SYSTEM_SPACE    = uint16(0x0200)     // Operating system and supervisor stack.
	USER_SPACE      = uint16(0x3000)     // User programs.
	DEVICE_SPACE    = uint16(io.MR_KBSR) // Memory mapped device registers.
)

// PC_START is the program counter after a reset.
const PC_START = USER_SPACE
