package cpu

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("halted"))
	ErrIllegalOpcode = errors.New(f("illegal opcode"))
	ErrTrapVector    = errors.New(f("trap vector unknown"))
	ErrConsole       = errors.New(f("console"))

	// Image errors
	ErrImage      = errors.New(f("image load"))
	ErrImageShort = errors.New(f("image too short for origin"))
)

// ErrOpcode is a fault while executing the instruction at Pc.
type ErrOpcode struct {
	Pc   uint16
	Code Code
	Err  error
}

func (eo *ErrOpcode) Error() string {
	return f("pc 0x%04x %v 0x%04x %v", eo.Pc, eo.Err, uint16(eo.Code), eo.Code.Opcode())
}

func (eo *ErrOpcode) Unwrap() error {
	return eo.Err
}

// ErrLoad indicates an image that could not be loaded.
type ErrLoad struct {
	Path string
	Err  error
}

func (el *ErrLoad) Error() string {
	return f("%v: %v", el.Path, el.Err)
}

func (el *ErrLoad) Unwrap() error {
	return el.Err
}

func (el *ErrLoad) Is(err error) bool {
	return err == ErrImage
}
