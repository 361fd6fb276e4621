package cpu

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3/io"
)

func FuzzCpu(f *testing.F) {
	for op := range 16 {
		f.Add(uint16(op<<12), uint16(0x3000), uint16(0), "")
		f.Add(uint16(op<<12|0x0fff), uint16(0xffff), uint16(0x8000), "x")
	}
	f.Add(uint16(MakeCodeTrap(TRAP_PUTSP)), uint16(0x4000), uint16(0x3000), "")
	f.Add(uint16(MakeCodeTrap(TRAP_IN)), uint16(0x0000), uint16(0x0001), "q")

	f.Fuzz(func(t *testing.T, word uint16, pc uint16, seed uint16, input string) {
		assert := assert.New(t)

		code := Code(word)
		ins := code.Decode()

		cpu := NewCpu()
		output := &bytes.Buffer{}
		cpu.Console = &io.Tape{
			Input:  bytes.NewReader([]byte(input)),
			Output: output,
		}

		for n := range 8 {
			cpu.Reg.Set(n, seed*uint16(n+1)+uint16(n))
		}
		for n := range 64 {
			cpu.Memory.Write(pc+uint16(n)-32, seed+uint16(n))
		}
		cpu.Memory.Write(pc, word)
		cpu.Reg.SetPc(pc)
		cpu.Reg.updateFlags(seed)

		pre := cpu.Reg
		pre_flags := cpu.Reg.Flags()

		err := cpu.Tick()

		code_str := fmt.Sprintf("0x%04x (%v) pc:0x%04x seed:0x%04x input:%q\ncpu:%v",
			word, code, pc, seed, input, cpu.String())

		if err != nil {
			var eo *ErrOpcode
			if assert.ErrorAs(err, &eo, code_str) {
				assert.Equal(pc, eo.Pc, code_str)
				assert.Equal(code, eo.Code, code_str)
			}
			switch {
			case errors.Is(err, ErrIllegalOpcode):
				assert.Contains([]Opcode{OP_RTI, OP_RES}, ins.Opcode, code_str)
			case errors.Is(err, ErrTrapVector):
				assert.Equal(OP_TRAP, ins.Opcode, code_str)
				assert.NotContains(cpu.Traps, ins.TrapVector, code_str)
			default:
				assert.NoError(err, code_str)
			}
			return
		}

		assert.Equal(1, cpu.Ticks, code_str)

		// Exactly one flag is ever set.
		assert.Contains([]Cond{COND_N, COND_Z, COND_P}, cpu.Reg.Flags(), code_str)

		next_pc := pc + 1

		switch ins.Opcode {
		case OP_ADD, OP_AND, OP_NOT, OP_LD, OP_LDI, OP_LDR, OP_LEA:
			value := cpu.Reg.Get(ins.Dr)
			assert.Equal(condOf(value), cpu.Reg.Flags(), code_str)
			switch ins.Opcode {
			case OP_ADD:
				arg := ins.Imm5
				if !ins.ImmFlag {
					arg = pre.Get(ins.Sr2)
				}
				assert.Equal(pre.Get(ins.Sr1)+arg, value, code_str)
			case OP_AND:
				arg := ins.Imm5
				if !ins.ImmFlag {
					arg = pre.Get(ins.Sr2)
				}
				assert.Equal(pre.Get(ins.Sr1)&arg, value, code_str)
			case OP_NOT:
				assert.Equal(^pre.Get(ins.Sr1), value, code_str)
			case OP_LEA:
				assert.Equal(next_pc+ins.PcOffset9, value, code_str)
			}
		default:
			assert.Equal(pre_flags, cpu.Reg.Flags(), code_str)
		}

		switch ins.Opcode {
		case OP_BR:
			if ins.Cond&pre_flags != 0 {
				next_pc += ins.PcOffset9
			}
		case OP_JMP:
			next_pc = pre.Get(ins.BaseR)
		case OP_JSR:
			assert.Equal(pc+1, cpu.Reg.Get(7), code_str)
			if ins.Long {
				next_pc += ins.PcOffset11
			} else {
				next_pc = pre.Get(ins.BaseR)
			}
		case OP_TRAP:
			assert.Equal(pc+1, cpu.Reg.Get(7), code_str)
			assert.Equal(ins.TrapVector != TRAP_HALT, cpu.Running, code_str)
		}

		assert.Equal(next_pc, cpu.Reg.Pc(), code_str)
	})
}
