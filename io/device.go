package io

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

// Device register addresses.
const (
	MR_KBSR = uint16(0xfe00) // Keyboard status.
	MR_KBDR = uint16(0xfe02) // Keyboard data.
	MR_DSR  = uint16(0xfe04) // Display status.
	MR_DDR  = uint16(0xfe06) // Display data.
	MR_MCR  = uint16(0xfffe) // Machine control.
)

// STATUS_BIT is the ready bit of a status register, and the clock enable
// bit of the machine control register.
const STATUS_BIT = uint16(1 << 15)

// CHAR_EOF is read from the keyboard data register at end of input.
const CHAR_EOF = uint16(0xffff)

var _device_defines = map[string]string{
	"MR_KBSR":    fmt.Sprintf("0x%04x", MR_KBSR),
	"MR_KBDR":    fmt.Sprintf("0x%04x", MR_KBDR),
	"MR_DSR":     fmt.Sprintf("0x%04x", MR_DSR),
	"MR_DDR":     fmt.Sprintf("0x%04x", MR_DDR),
	"MR_MCR":     fmt.Sprintf("0x%04x", MR_MCR),
	"STATUS_BIT": fmt.Sprintf("0x%04x", STATUS_BIT),
	"CHAR_EOF":   fmt.Sprintf("0x%04x", CHAR_EOF),
}

// Device defines a memory mapped device register.
type Device interface {
	// Load returns the value of the register at addr.
	Load(addr uint16) uint16
	// Store writes value to the register at addr.
	Store(addr uint16, value uint16)
}

// Defines returns an iter of defines for the device registers.
func Defines() iter.Seq2[string, string] {
	return maps.All(_device_defines)
}

// Keyboard is the KBSR/KBDR device pair.
type Keyboard struct {
	Console Console
}

var _ Device = (*Keyboard)(nil)

// ready polls the console, if it can be polled.
// Consoles that cannot be polled are always ready, and block on read.
// At end of input the data register reads CHAR_EOF.
func (kb *Keyboard) ready() bool {
	if kb.Console == nil {
		return false
	}

	poller, ok := kb.Console.(Poller)
	if !ok {
		return true
	}

	return poller.Ready()
}

// Load reads the keyboard status or data register.
func (kb *Keyboard) Load(addr uint16) (value uint16) {
	switch addr {
	case MR_KBSR:
		if kb.ready() {
			value = STATUS_BIT
		}
	case MR_KBDR:
		if !kb.ready() {
			return
		}
		ch, err := kb.Console.ReadChar()
		if errors.Is(err, io.EOF) {
			value = CHAR_EOF
		} else if err == nil {
			value = ch
		}
	}

	return
}

// Store is ignored; the keyboard registers are read only.
func (kb *Keyboard) Store(addr uint16, value uint16) {
}

// Display is the DSR/DDR device pair.
type Display struct {
	Console Console
}

var _ Device = (*Display)(nil)

// Load returns the display status. The display is always ready.
func (dp *Display) Load(addr uint16) (value uint16) {
	if addr == MR_DSR {
		value = STATUS_BIT
	}
	return
}

// Store writes a character to the display data register.
// Write errors are kept by the console.
func (dp *Display) Store(addr uint16, value uint16) {
	if addr != MR_DDR || dp.Console == nil {
		return
	}

	dp.Console.WriteChar(value & 0xff)
}

// MachineControl is the MCR device.
// Bit 15 is the clock enable; clearing it halts the machine.
type MachineControl struct {
	Running func() bool // Reports the machine run state.
	Halt    func()      // Stops the machine.
}

var _ Device = (*MachineControl)(nil)

// Load returns the clock enable state.
func (mc *MachineControl) Load(addr uint16) (value uint16) {
	if mc.Running != nil && mc.Running() {
		value = STATUS_BIT
	}
	return
}

// Store halts the machine if the clock enable bit is cleared.
func (mc *MachineControl) Store(addr uint16, value uint16) {
	if value&STATUS_BIT == 0 && mc.Halt != nil {
		mc.Halt()
	}
}
