//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package io

import (
	"golang.org/x/term"
)

// disableBuffering falls back to full raw mode.
func disableBuffering(fd int) (err error) {
	_, err = term.MakeRaw(fd)
	return
}

// pollInput cannot poll here; reads block until a key arrives.
func pollInput(fd int) bool {
	return true
}
