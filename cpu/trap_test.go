package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3/io"
)

func TestTrap_Getc(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("A", MakeCodeTrap(TRAP_GETC), MakeCodeTrap(TRAP_GETC))
	cpu.Reg.updateFlags(0x8000)

	assert.NoError(cpu.Tick())
	assert.Equal(uint16('A'), cpu.Reg.Get(0))
	assert.Equal(uint16(0x3001), cpu.Reg.Get(7))
	assert.Equal(COND_N, cpu.Reg.Flags())
	assert.Equal("", output.String())

	// End of input.
	assert.NoError(cpu.Tick())
	assert.Equal(CHAR_EOF, cpu.Reg.Get(0))
	assert.Equal(COND_N, cpu.Reg.Flags())
	assert.True(cpu.Running)
}

func TestTrap_Out(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("", MakeCodeTrap(TRAP_OUT))
	cpu.Reg.Set(0, 'x')

	assert.NoError(cpu.Tick())
	assert.Equal("x", output.String())
	assert.Equal(uint16(0x3001), cpu.Reg.Pc())
}

func TestTrap_Puts(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("", MakeCodeTrap(TRAP_PUTS))
	cpu.Reg.Set(0, 0x4000)
	for n, ch := range "Hi!" {
		cpu.Memory.Write(0x4000+uint16(n), uint16(ch))
	}

	assert.NoError(cpu.Tick())
	assert.Equal("Hi!", output.String())
	assert.Equal(uint16(0x4000), cpu.Reg.Get(0))

	// An empty string writes nothing.
	cpu, output = newTestCpu("", MakeCodeTrap(TRAP_PUTS))
	cpu.Reg.Set(0, 0x4000)
	assert.NoError(cpu.Tick())
	assert.Equal("", output.String())
}

func TestTrap_Putsp(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("", MakeCodeTrap(TRAP_PUTSP))
	cpu.Reg.Set(0, 0x4000)
	cpu.Memory.Write(0x4000, 0x6548) // 'H', 'e'
	cpu.Memory.Write(0x4001, 0x0079) // 'y'
	cpu.Memory.Write(0x4002, 0x2121) // not reached

	assert.NoError(cpu.Tick())
	assert.Equal("Hey", output.String())
}

func TestTrap_In(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("x", MakeCodeTrap(TRAP_IN), MakeCodeTrap(TRAP_IN))

	assert.NoError(cpu.Tick())
	assert.Equal(uint16('x'), cpu.Reg.Get(0))
	assert.Equal("Enter a character: x", output.String())

	// End of input is not echoed.
	output.Reset()
	assert.NoError(cpu.Tick())
	assert.Equal(CHAR_EOF, cpu.Reg.Get(0))
	assert.Equal("Enter a character: ", output.String())
}

func TestTrap_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu, output := newTestCpu("", MakeCodeTrap(TRAP_HALT))
	cpu.Reg.updateFlags(1)

	assert.NoError(cpu.Tick())
	assert.False(cpu.Running)
	assert.Equal("Halting...\n", output.String())
	assert.Equal(COND_P, cpu.Reg.Flags())
}

func TestTrap_Vector(t *testing.T) {
	assert := assert.New(t)

	for _, vector := range []CodeTrap{0x00, 0x1f, 0x26, 0xff} {
		cpu, output := newTestCpu("", MakeCodeTrap(vector))

		err := cpu.Tick()
		assert.ErrorIs(err, ErrTrapVector, vector)

		var eo *ErrOpcode
		if assert.ErrorAs(err, &eo) {
			assert.Equal(PC_START, eo.Pc)
		}

		assert.Equal("", output.String())
		assert.Equal(uint16(0x3001), cpu.Reg.Get(7))
	}
}

func TestTrap_NoConsole(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Memory.Write(PC_START, uint16(MakeCodeTrap(TRAP_GETC)))
	cpu.Memory.Write(PC_START+1, uint16(MakeCodeTrap(TRAP_HALT)))

	assert.NoError(cpu.Tick())
	assert.Equal(CHAR_EOF, cpu.Reg.Get(0))

	assert.NoError(cpu.Tick())
	assert.False(cpu.Running)
}

func TestTrap_ConsoleError(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Console = &io.Tape{
		Input:  strings.NewReader(""),
		Output: &failWriter{},
	}
	cpu.Memory.Write(PC_START, uint16(MakeCodeTrap(TRAP_OUT)))
	cpu.Reg.Set(0, 'a')

	err := cpu.Tick()
	assert.ErrorIs(err, ErrConsole)
	assert.ErrorIs(err, errWrite)

	var eo *ErrOpcode
	if assert.ErrorAs(err, &eo) {
		assert.Equal(PC_START, eo.Pc)
	}
}

func TestTrap_Custom(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("", MakeCodeTrap(0x30))
	cpu.Traps[0x30] = func(cpu *Cpu) error {
		cpu.Reg.Set(1, 0x1111)
		return nil
	}

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0x1111), cpu.Reg.Get(1))
}

func TestTrap_PutsBounded(t *testing.T) {
	assert := assert.New(t)

	// A string with no terminator stops after one pass over memory.
	cpu := NewCpu()
	output := &bytes.Buffer{}
	cpu.Console = &io.Tape{Output: output}
	for addr := range MEMORY_SIZE {
		cpu.Memory.Cell[addr] = 'a'
	}
	cpu.Reg.Set(0, 0x8000)

	assert.NoError(trapPuts(cpu))
	assert.Equal(MEMORY_SIZE, output.Len())
}
