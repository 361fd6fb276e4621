package cpu

import (
	"fmt"
)

// Opcode is the instruction selected by the top 4 bits of a code word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_BR   = Opcode(0)  // BR
	OP_ADD  = Opcode(1)  // ADD
	OP_LD   = Opcode(2)  // LD
	OP_ST   = Opcode(3)  // ST
	OP_JSR  = Opcode(4)  // JSR
	OP_AND  = Opcode(5)  // AND
	OP_LDR  = Opcode(6)  // LDR
	OP_STR  = Opcode(7)  // STR
	OP_RTI  = Opcode(8)  // RTI
	OP_NOT  = Opcode(9)  // NOT
	OP_LDI  = Opcode(10) // LDI
	OP_STI  = Opcode(11) // STI
	OP_JMP  = Opcode(12) // JMP
	OP_RES  = Opcode(13) // RES
	OP_LEA  = Opcode(14) // LEA
	OP_TRAP = Opcode(15) // TRAP
)

// Code is a single 16-bit instruction word.
type Code uint16

// Instruction is a decoded instruction word.
// Only the fields used by the opcode's layout are set.
type Instruction struct {
	Opcode     Opcode
	Dr         int      // Destination register, or source register of ST, STI and STR.
	Sr1        int      // First source register.
	Sr2        int      // Second source register, when ImmFlag is clear.
	BaseR      int      // Base register.
	ImmFlag    bool     // Imm5 is used in place of Sr2.
	Imm5       uint16   // Sign extended 5-bit immediate.
	PcOffset6  uint16   // Sign extended 6-bit base register offset.
	PcOffset9  uint16   // Sign extended 9-bit PC offset.
	PcOffset11 uint16   // Sign extended 11-bit PC offset.
	TrapVector CodeTrap // Trap vector.
	Cond       Cond     // BR n/z/p test mask.
	Long       bool     // JSR with PcOffset11 (set) or JSRR with BaseR (clear).
}

// SignExtend widens the low bitCount bits of x to a 16-bit two's
// complement value.
func SignExtend(x uint16, bitCount int) uint16 {
	x &= (1 << bitCount) - 1
	if (x>>(bitCount-1))&1 != 0 {
		x |= 0xffff << bitCount
	}
	return x
}

// Opcode returns the opcode from the instruction word.
func (code Code) Opcode() Opcode {
	return Opcode(uint16(code) >> 12)
}

// Decode extracts the operand fields of the instruction word.
func (code Code) Decode() (ins Instruction) {
	word := uint16(code)

	dr := int((word >> 9) & 0x7)
	sr1 := int((word >> 6) & 0x7)

	ins.Opcode = code.Opcode()

	switch ins.Opcode {
	case OP_ADD, OP_AND:
		ins.Dr = dr
		ins.Sr1 = sr1
		ins.ImmFlag = (word>>5)&1 != 0
		if ins.ImmFlag {
			ins.Imm5 = SignExtend(word, 5)
		} else {
			ins.Sr2 = int(word & 0x7)
		}
	case OP_NOT:
		ins.Dr = dr
		ins.Sr1 = sr1
	case OP_BR:
		ins.Cond = Cond((word >> 9) & 0x7)
		ins.PcOffset9 = SignExtend(word, 9)
	case OP_JMP:
		ins.BaseR = sr1
	case OP_JSR:
		ins.Long = (word>>11)&1 != 0
		if ins.Long {
			ins.PcOffset11 = SignExtend(word, 11)
		} else {
			ins.BaseR = sr1
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		ins.Dr = dr
		ins.PcOffset9 = SignExtend(word, 9)
	case OP_LDR, OP_STR:
		ins.Dr = dr
		ins.BaseR = sr1
		ins.PcOffset6 = SignExtend(word, 6)
	case OP_TRAP:
		ins.TrapVector = CodeTrap(word & 0xff)
	}

	return
}

// makeCode creates an instruction word from an opcode and its operand bits.
func makeCode(op Opcode, operands uint16) Code {
	return Code((uint16(op) << 12) | (operands & 0x0fff))
}

// field truncates a value to a width bit field.
func field(value int, width int) uint16 {
	return uint16(value) & ((1 << width) - 1)
}

// MakeCodeAdd creates a register mode ADD instruction.
func MakeCodeAdd(dr, sr1, sr2 int) Code {
	return makeCode(OP_ADD, field(dr, 3)<<9|field(sr1, 3)<<6|field(sr2, 3))
}

// MakeCodeAddImm creates an immediate mode ADD instruction.
func MakeCodeAddImm(dr, sr1, imm5 int) Code {
	return makeCode(OP_ADD, field(dr, 3)<<9|field(sr1, 3)<<6|1<<5|field(imm5, 5))
}

// MakeCodeAnd creates a register mode AND instruction.
func MakeCodeAnd(dr, sr1, sr2 int) Code {
	return makeCode(OP_AND, field(dr, 3)<<9|field(sr1, 3)<<6|field(sr2, 3))
}

// MakeCodeAndImm creates an immediate mode AND instruction.
func MakeCodeAndImm(dr, sr1, imm5 int) Code {
	return makeCode(OP_AND, field(dr, 3)<<9|field(sr1, 3)<<6|1<<5|field(imm5, 5))
}

// MakeCodeNot creates a NOT instruction.
func MakeCodeNot(dr, sr int) Code {
	return makeCode(OP_NOT, field(dr, 3)<<9|field(sr, 3)<<6|0x3f)
}

// MakeCodeBr creates a BR instruction testing the flags in cond.
func MakeCodeBr(cond Cond, offset9 int) Code {
	return makeCode(OP_BR, field(int(cond), 3)<<9|field(offset9, 9))
}

// MakeCodeJmp creates a JMP instruction.
func MakeCodeJmp(baseR int) Code {
	return makeCode(OP_JMP, field(baseR, 3)<<6)
}

// MakeCodeRet creates a RET (JMP R7) instruction.
func MakeCodeRet() Code {
	return MakeCodeJmp(7)
}

// MakeCodeJsr creates a PC relative JSR instruction.
func MakeCodeJsr(offset11 int) Code {
	return makeCode(OP_JSR, 1<<11|field(offset11, 11))
}

// MakeCodeJsrr creates a base register JSRR instruction.
func MakeCodeJsrr(baseR int) Code {
	return makeCode(OP_JSR, field(baseR, 3)<<6)
}

// MakeCodeLd creates an LD instruction.
func MakeCodeLd(dr, offset9 int) Code {
	return makeCode(OP_LD, field(dr, 3)<<9|field(offset9, 9))
}

// MakeCodeLdi creates an LDI instruction.
func MakeCodeLdi(dr, offset9 int) Code {
	return makeCode(OP_LDI, field(dr, 3)<<9|field(offset9, 9))
}

// MakeCodeLdr creates an LDR instruction.
func MakeCodeLdr(dr, baseR, offset6 int) Code {
	return makeCode(OP_LDR, field(dr, 3)<<9|field(baseR, 3)<<6|field(offset6, 6))
}

// MakeCodeLea creates an LEA instruction.
func MakeCodeLea(dr, offset9 int) Code {
	return makeCode(OP_LEA, field(dr, 3)<<9|field(offset9, 9))
}

// MakeCodeSt creates an ST instruction.
func MakeCodeSt(sr, offset9 int) Code {
	return makeCode(OP_ST, field(sr, 3)<<9|field(offset9, 9))
}

// MakeCodeSti creates an STI instruction.
func MakeCodeSti(sr, offset9 int) Code {
	return makeCode(OP_STI, field(sr, 3)<<9|field(offset9, 9))
}

// MakeCodeStr creates an STR instruction.
func MakeCodeStr(sr, baseR, offset6 int) Code {
	return makeCode(OP_STR, field(sr, 3)<<9|field(baseR, 3)<<6|field(offset6, 6))
}

// MakeCodeTrap creates a TRAP instruction.
func MakeCodeTrap(vector CodeTrap) Code {
	return makeCode(OP_TRAP, uint16(vector)&0xff)
}

// MakeCodeRti creates an RTI instruction.
func MakeCodeRti() Code {
	return makeCode(OP_RTI, 0)
}

// signed returns a sign extended field as a signed value for display.
func signed(value uint16) int16 {
	return int16(value)
}

// String returns the mnemonic of this instruction, for execution traces.
func (code Code) String() (out string) {
	ins := code.Decode()

	switch ins.Opcode {
	case OP_ADD, OP_AND:
		if ins.ImmFlag {
			out = fmt.Sprintf("%v R%d, R%d, #%d", ins.Opcode, ins.Dr, ins.Sr1, signed(ins.Imm5))
		} else {
			out = fmt.Sprintf("%v R%d, R%d, R%d", ins.Opcode, ins.Dr, ins.Sr1, ins.Sr2)
		}
	case OP_NOT:
		out = fmt.Sprintf("%v R%d, R%d", ins.Opcode, ins.Dr, ins.Sr1)
	case OP_BR:
		out = fmt.Sprintf("%v%v #%d", ins.Opcode, ins.Cond, signed(ins.PcOffset9))
	case OP_JMP:
		if ins.BaseR == 7 {
			out = "RET"
		} else {
			out = fmt.Sprintf("%v R%d", ins.Opcode, ins.BaseR)
		}
	case OP_JSR:
		if ins.Long {
			out = fmt.Sprintf("%v #%d", ins.Opcode, signed(ins.PcOffset11))
		} else {
			out = fmt.Sprintf("JSRR R%d", ins.BaseR)
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		out = fmt.Sprintf("%v R%d, #%d", ins.Opcode, ins.Dr, signed(ins.PcOffset9))
	case OP_LDR, OP_STR:
		out = fmt.Sprintf("%v R%d, R%d, #%d", ins.Opcode, ins.Dr, ins.BaseR, signed(ins.PcOffset6))
	case OP_TRAP:
		out = fmt.Sprintf("%v x%02X", ins.Opcode, uint8(ins.TrapVector))
	default:
		out = fmt.Sprintf("%v x%04X", ins.Opcode, uint16(code))
	}

	return
}
