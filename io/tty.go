package io

import (
	"os"

	"golang.org/x/term"
)

// Tty is an interactive standard input with line buffering and echo
// disabled, so that the machine sees each key as it is typed.
type Tty struct {
	*os.File
	fd    int
	state *term.State
}

var _ Poller = (*Tty)(nil)

// OpenTty disables line buffering and echo on file.
// Call Restore to return the terminal to its prior state.
func OpenTty(file *os.File) (tty *Tty, err error) {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	state, err := term.GetState(fd)
	if err != nil {
		return
	}

	err = disableBuffering(fd)
	if err != nil {
		return
	}

	tty = &Tty{
		File:  file,
		fd:    fd,
		state: state,
	}

	return
}

// Ready returns true if a key is waiting.
func (tty *Tty) Ready() bool {
	return pollInput(tty.fd)
}

// Restore returns the terminal to the state saved by OpenTty.
func (tty *Tty) Restore() (err error) {
	if tty.state == nil {
		return
	}

	err = term.Restore(tty.fd, tty.state)
	tty.state = nil
	return
}
