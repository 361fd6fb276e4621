// Package io provides the console and memory mapped devices of the LC-3
// machine. It includes a byte stream console (Tape), the keyboard, display
// and machine control device registers, and terminal setup for an
// interactive standard input (Tty).
package io

// Console defines the character stream used by the trap routines and the
// memory mapped devices.
type Console interface {
	// ReadChar blocks until the next input character is available.
	// At end of input it returns io.EOF.
	ReadChar() (ch uint16, err error)
	// WriteChar writes the low 8 bits of ch.
	WriteChar(ch uint16) error
}

// Poller is implemented by inputs that can tell if a read would block.
type Poller interface {
	// Ready returns true if a character can be read without blocking.
	Ready() bool
}
