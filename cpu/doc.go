// Package cpu implements the LC-3 processor.
//
// The CPU consists of a 64K word memory, eight 16-bit general-purpose
// registers (R0-R7), a program counter, and a condition flag register that
// records whether the last value loaded into a register was negative, zero or
// positive. Instructions are fetched from memory, decoded and executed one
// per Tick. Console I/O is provided by trap service routines, and by
// memory mapped device registers.
//
// Program images are loaded with ReadImage or LoadImageFile, and copied into
// memory with Memory.LoadImage.
package cpu
