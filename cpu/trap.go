package cpu

import (
	"errors"
	"fmt"
	"io"

	lc3io "github.com/ezrec/lc3/io"
)

// CodeTrap is a trap vector.
type CodeTrap uint8

//go:generate go tool stringer -linecomment -type=CodeTrap
const (
	TRAP_GETC  = CodeTrap(0x20) // GETC
	TRAP_OUT   = CodeTrap(0x21) // OUT
	TRAP_PUTS  = CodeTrap(0x22) // PUTS
	TRAP_IN    = CodeTrap(0x23) // IN
	TRAP_PUTSP = CodeTrap(0x24) // PUTSP
	TRAP_HALT  = CodeTrap(0x25) // HALT
)

// CHAR_EOF is stored in R0 when a console read finds end of input.
const CHAR_EOF = lc3io.CHAR_EOF

// TrapRoutine is a service routine invoked by the TRAP instruction.
type TrapRoutine func(cpu *Cpu) error

// TrapTable maps trap vectors to their service routines.
type TrapTable map[CodeTrap]TrapRoutine

// NewTrapTable returns the console I/O service routines.
func NewTrapTable() TrapTable {
	return TrapTable{
		TRAP_GETC:  trapGetc,
		TRAP_OUT:   trapOut,
		TRAP_PUTS:  trapPuts,
		TRAP_IN:    trapIn,
		TRAP_PUTSP: trapPutsp,
		TRAP_HALT:  trapHalt,
	}
}

// readChar reads a character from the console.
// End of input, or no console at all, reads as CHAR_EOF.
func (cpu *Cpu) readChar() (ch uint16, err error) {
	if cpu.Console == nil {
		ch = CHAR_EOF
		return
	}

	ch, err = cpu.Console.ReadChar()
	if errors.Is(err, io.EOF) {
		ch = CHAR_EOF
		err = nil
		return
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrConsole, err)
	}

	return
}

// writeChar writes a character to the console, if there is one.
func (cpu *Cpu) writeChar(ch uint16) (err error) {
	if cpu.Console == nil {
		return
	}

	err = cpu.Console.WriteChar(ch)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrConsole, err)
	}

	return
}

// writeString writes a message to the console.
func (cpu *Cpu) writeString(text string) (err error) {
	for _, b := range []byte(text) {
		err = cpu.writeChar(uint16(b))
		if err != nil {
			return
		}
	}
	return
}

// trapGetc reads a character into R0, without echo.
func trapGetc(cpu *Cpu) (err error) {
	ch, err := cpu.readChar()
	if err != nil {
		return
	}

	cpu.Reg.Set(0, ch)
	return
}

// trapOut writes the character in R0.
func trapOut(cpu *Cpu) (err error) {
	return cpu.writeChar(cpu.Reg.Get(0))
}

// trapPuts writes the zero terminated string of one character per word at R0.
func trapPuts(cpu *Cpu) (err error) {
	addr := cpu.Reg.Get(0)
	for range MEMORY_SIZE {
		word := cpu.Memory.Read(addr)
		if word == 0 {
			break
		}
		err = cpu.writeChar(word)
		if err != nil {
			return
		}
		addr++
	}
	return
}

// trapIn prompts for a character, reads it into R0 and echoes it.
func trapIn(cpu *Cpu) (err error) {
	err = cpu.writeString(f("Enter a character: "))
	if err != nil {
		return
	}

	ch, err := cpu.readChar()
	if err != nil {
		return
	}

	cpu.Reg.Set(0, ch)
	if ch == CHAR_EOF {
		return
	}

	return cpu.writeChar(ch)
}

// trapPutsp writes the zero terminated string of two characters per word at
// R0, low byte first.
func trapPutsp(cpu *Cpu) (err error) {
	addr := cpu.Reg.Get(0)
	for range MEMORY_SIZE {
		word := cpu.Memory.Read(addr)
		if word == 0 {
			break
		}
		err = cpu.writeChar(word & 0xff)
		if err != nil {
			return
		}
		if hi := word >> 8; hi != 0 {
			err = cpu.writeChar(hi)
			if err != nil {
				return
			}
		}
		addr++
	}
	return
}

// trapHalt prints the halt notice and stops the machine.
func trapHalt(cpu *Cpu) (err error) {
	err = cpu.writeString(f("Halting...\n"))
	cpu.Halt()
	return
}
