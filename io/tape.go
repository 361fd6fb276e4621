package io

import (
	"bufio"
	"io"
)

// Tape provides the console as sequential byte streams.
// It wraps an io.Reader for input and io.Writer for output, converting
// between LC-3 character words and bytes.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
	err    error
}

var _ Console = (*Tape)(nil)
var _ Poller = (*Tape)(nil)

// input returns the buffered reader for the current Input.
func (tc *Tape) input() *bufio.Reader {
	if tc.Input == nil {
		return nil
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}

	return tc.reader
}

// ReadChar reads one byte from the input stream.
// Pending output is flushed first, so that prompts are visible.
func (tc *Tape) ReadChar() (ch uint16, err error) {
	tc.Flush()

	in := tc.input()
	if in == nil {
		err = io.EOF
		return
	}

	b, err := in.ReadByte()
	if err != nil {
		return
	}

	ch = uint16(b)
	return
}

// Ready returns false only when the input is a Poller with no character
// waiting. Other inputs cannot be checked without blocking, so they are
// always ready, and ReadChar waits for data or end of input.
func (tc *Tape) Ready() bool {
	in := tc.input()
	if in != nil && in.Buffered() > 0 {
		return true
	}

	if poller, ok := tc.Input.(Poller); ok {
		tc.Flush()
		return poller.Ready()
	}

	return true
}

// WriteChar writes the low byte of ch to the output stream.
// Once a write has failed, all further writes fail with the same error.
func (tc *Tape) WriteChar(ch uint16) (err error) {
	if tc.err != nil {
		return tc.err
	}

	if tc.Output == nil {
		return
	}

	_, err = tc.Output.Write([]byte{byte(ch)})
	if err != nil {
		tc.err = err
	}

	return
}

// Flush pushes buffered output, if the output is buffered.
func (tc *Tape) Flush() (err error) {
	if tc.err != nil {
		return tc.err
	}

	flusher, ok := tc.Output.(interface{ Flush() error })
	if !ok {
		return
	}

	err = flusher.Flush()
	if err != nil {
		tc.err = err
	}

	return
}

// Err returns the first output error, if any.
func (tc *Tape) Err() error {
	return tc.err
}

// Rewind clears the output error and any buffered input.
func (tc *Tape) Rewind() {
	tc.err = nil
	tc.reader = nil
	tc.source = nil
}
