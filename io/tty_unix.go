//go:build linux || darwin || freebsd || netbsd || openbsd

package io

import (
	"golang.org/x/sys/unix"
)

// disableBuffering clears canonical mode and echo, leaving signals and
// output processing alone.
func disableBuffering(fd int) (err error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	termios.Lflag &^= unix.ICANON | unix.ECHO
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
}

// pollInput checks for pending input without waiting.
func pollInput(fd int) bool {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		n, err := unix.Poll(fds, 0)
		if err == unix.EINTR {
			continue
		}
		return err == nil && n > 0 && (fds[0].Revents&unix.POLLIN) != 0
	}
}
