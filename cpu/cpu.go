package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/lc3/io"
)

// Console is the character stream used by the trap routines.
type Console io.Console

var _cpu_defines = map[string]string{
	"TRAP_TABLE":      fmt.Sprintf("0x%04x", TRAP_TABLE),
	"INTERRUPT_TABLE": fmt.Sprintf("0x%04x", INTERRUPT_TABLE),
	"SYSTEM_SPACE":    fmt.Sprintf("0x%04x", SYSTEM_SPACE),
	"USER_SPACE":      fmt.Sprintf("0x%04x", USER_SPACE),
	"DEVICE_SPACE":    fmt.Sprintf("0x%04x", DEVICE_SPACE),
	"PC_START":        fmt.Sprintf("0x%04x", PC_START),
	"TRAP_GETC":       fmt.Sprintf("0x%02x", uint8(TRAP_GETC)),
	"TRAP_OUT":        fmt.Sprintf("0x%02x", uint8(TRAP_OUT)),
	"TRAP_PUTS":       fmt.Sprintf("0x%02x", uint8(TRAP_PUTS)),
	"TRAP_IN":         fmt.Sprintf("0x%02x", uint8(TRAP_IN)),
	"TRAP_PUTSP":      fmt.Sprintf("0x%02x", uint8(TRAP_PUTSP)),
	"TRAP_HALT":       fmt.Sprintf("0x%02x", uint8(TRAP_HALT)),
}

// Cpu is the simulation context for the LC-3 processor and its memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory  Memory    // Main memory.
	Reg     Registers // Register file.
	Console Console   // Console used by the trap routines.
	Traps   TrapTable // Trap service routines.

	Running bool // Cleared by HALT.
	Ticks   int  // Instructions executed since reset.
}

// NewCpu creates a new CPU, reset to start at PC_START.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Traps: NewTrapTable(),
	}

	cpu.Reset(PC_START)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "cond",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Reg.Pc())
		case "cond":
			strval = cpu.Reg.Flags().String()
		default:
			val := cpu.Reg.Get(int(reg[1] - '0'))
			strval = fmt.Sprintf("%04X (%d)", val, int16(val))
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Zero fills memory.
// - Clears the registers, and sets the program counter to pc.
// - Zeros the tick counter.
// - Sets the CPU running.
func (cpu *Cpu) Reset(pc uint16) {
	if cpu.Verbose {
		log.Printf("cpu: reset, pc 0x%04x", pc)
	}

	cpu.Memory.Reset()
	cpu.Reg.Reset(pc)
	cpu.Ticks = 0
	cpu.Running = true
}

// Halt stops the CPU. The current instruction completes.
func (cpu *Cpu) Halt() {
	if cpu.Verbose && cpu.Running {
		log.Printf("cpu: halt at 0x%04x", cpu.Reg.Pc())
	}

	cpu.Running = false
}

// Tick executes a single fetch, decode and execute cycle.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	pc := cpu.Reg.Pc()
	code := Code(cpu.Memory.Read(pc))
	cpu.Reg.SetPc(pc + 1)

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, code)
	}

	err = cpu.Execute(code)
	cpu.Ticks++

	return
}

// setResult writes a register and updates the condition flags from it.
func (cpu *Cpu) setResult(dr int, value uint16) {
	cpu.Reg.Set(dr, value)
	cpu.Reg.updateFlags(value)
}

// Execute executes a single instruction word.
// The program counter must already point past the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc := cpu.Reg.Pc() - 1
	defer func() {
		if err != nil {
			err = &ErrOpcode{Pc: pc, Code: code, Err: err}
		}
	}()

	reg := &cpu.Reg
	mem := &cpu.Memory

	ins := code.Decode()

	switch ins.Opcode {
	case OP_ADD:
		value := ins.Imm5
		if !ins.ImmFlag {
			value = reg.Get(ins.Sr2)
		}
		cpu.setResult(ins.Dr, reg.Get(ins.Sr1)+value)
	case OP_AND:
		value := ins.Imm5
		if !ins.ImmFlag {
			value = reg.Get(ins.Sr2)
		}
		cpu.setResult(ins.Dr, reg.Get(ins.Sr1)&value)
	case OP_NOT:
		cpu.setResult(ins.Dr, ^reg.Get(ins.Sr1))
	case OP_BR:
		if ins.Cond&reg.Flags() != 0 {
			reg.SetPc(reg.Pc() + ins.PcOffset9)
		}
	case OP_JMP:
		reg.SetPc(reg.Get(ins.BaseR))
	case OP_JSR:
		// The target is read before R7 is written, so JSRR R7 works.
		target := reg.Get(ins.BaseR)
		if ins.Long {
			target = reg.Pc() + ins.PcOffset11
		}
		reg.Set(7, reg.Pc())
		reg.SetPc(target)
	case OP_LD:
		cpu.setResult(ins.Dr, mem.Read(reg.Pc()+ins.PcOffset9))
	case OP_LDI:
		cpu.setResult(ins.Dr, mem.Read(mem.Read(reg.Pc()+ins.PcOffset9)))
	case OP_LDR:
		cpu.setResult(ins.Dr, mem.Read(reg.Get(ins.BaseR)+ins.PcOffset6))
	case OP_LEA:
		cpu.setResult(ins.Dr, reg.Pc()+ins.PcOffset9)
	case OP_ST:
		mem.Write(reg.Pc()+ins.PcOffset9, reg.Get(ins.Dr))
	case OP_STI:
		mem.Write(mem.Read(reg.Pc()+ins.PcOffset9), reg.Get(ins.Dr))
	case OP_STR:
		mem.Write(reg.Get(ins.BaseR)+ins.PcOffset6, reg.Get(ins.Dr))
	case OP_TRAP:
		reg.Set(7, reg.Pc())
		err = cpu.trap(ins.TrapVector)
	case OP_RTI, OP_RES:
		err = ErrIllegalOpcode
	default:
		err = ErrIllegalOpcode
	}

	return
}

// trap dispatches to the service routine for vector.
func (cpu *Cpu) trap(vector CodeTrap) (err error) {
	routine, ok := cpu.Traps[vector]
	if !ok {
		return ErrTrapVector
	}

	if cpu.Verbose {
		log.Printf("cpu: trap %v", vector)
	}

	return routine(cpu)
}
