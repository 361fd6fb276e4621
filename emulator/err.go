package emulator

import (
	"errors"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Emulator errors
	ErrNoImage     = errors.New(f("no image loaded"))
	ErrTickLimit   = errors.New(f("instruction limit reached"))
	ErrInterrupted = errors.New(f("interrupted"))
)

// ErrRuntime indicates the program counter of a runtime error.
type ErrRuntime struct {
	Pc  uint16
	Err error
}

func (err *ErrRuntime) Error() string {
	// Opcode faults already carry their address.
	var eo *cpu.ErrOpcode
	if errors.As(err.Err, &eo) && eo.Pc == err.Pc {
		return eo.Error()
	}

	return f("pc 0x%04x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
