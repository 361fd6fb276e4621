// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"sync/atomic"

	"github.com/ezrec/lc3/config"
	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", cpu.MEMORY_SIZE),
}

// Emulator state. CPU + console + memory mapped devices + program images.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Images   []*cpu.Image // Program images, loaded in order on reset.

	Start uint16            // Program counter after reset.
	Limit int               // Instruction limit per reset; 0 for no limit.
	Patch map[uint16]uint16 // Words stored after the images are loaded.

	Tape     io.Tape           // Console stream.
	Keyboard io.Keyboard       // KBSR/KBDR device.
	Display  io.Display        // DSR/DDR device.
	Control  io.MachineControl // MCR device.

	interrupt atomic.Bool
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:   cpu.NewCpu(),
		Start: cpu.PC_START,
	}

	emu.Cpu.Console = &emu.Tape
	emu.Keyboard.Console = &emu.Tape
	emu.Display.Console = &emu.Tape
	emu.Control.Running = func() bool { return emu.Cpu.Running }
	emu.Control.Halt = func() { emu.Cpu.Halt() }

	mem := &emu.Cpu.Memory
	mem.Map(io.MR_KBSR, &emu.Keyboard)
	mem.Map(io.MR_KBDR, &emu.Keyboard)
	mem.Map(io.MR_DSR, &emu.Display)
	mem.Map(io.MR_DDR, &emu.Display)
	mem.Map(io.MR_MCR, &emu.Control)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		io.Defines(),
	)
}

// Codes returns an iterator over the address and code of every image word.
func (emu *Emulator) Codes() iter.Seq2[uint16, cpu.Code] {
	seqs := make([]iter.Seq2[uint16, cpu.Code], len(emu.Images))
	for n, img := range emu.Images {
		seqs[n] = img.Codes()
	}
	return internal.IterSeq2Concat(seqs...)
}

// Load adds a program image.
func (emu *Emulator) Load(img *cpu.Image) {
	emu.Images = append(emu.Images, img)
}

// LoadFile reads and adds a program image file.
func (emu *Emulator) LoadFile(path string) (err error) {
	img, err := cpu.LoadImageFile(path)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v: %d words at 0x%04x", path, len(img.Words), img.Origin)
	}

	emu.Load(img)
	return
}

// Apply a run configuration. Console files are left to the caller.
func (emu *Emulator) Apply(cfg *config.Config) (err error) {
	emu.Verbose = cfg.Verbose
	emu.Start = cfg.Pc
	emu.Limit = cfg.Limit

	if len(cfg.Memory) != 0 {
		if emu.Patch == nil {
			emu.Patch = make(map[uint16]uint16, len(cfg.Memory))
		}
		maps.Copy(emu.Patch, cfg.Memory)
	}

	for _, path := range cfg.Images {
		err = emu.LoadFile(path)
		if err != nil {
			return
		}
	}

	return
}

// Close flushes the console.
func (emu *Emulator) Close() (err error) {
	return emu.Tape.Flush()
}

// Reset the machine state.
// - Rewinds the console, clearing any output error.
// - Clears memory and registers, and sets the program counter to Start.
// - Loads the images, in order, then the patches.
func (emu *Emulator) Reset() (err error) {
	if len(emu.Images) == 0 {
		err = ErrNoImage
		return
	}

	emu.Tape.Rewind()
	emu.interrupt.Store(false)

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(emu.Start)

	for _, img := range emu.Images {
		count := emu.Cpu.Memory.LoadImage(img)
		if emu.Verbose && count < len(img.Words) {
			log.Printf("emulator: image at 0x%04x truncated to %d words", img.Origin, count)
		}
	}

	for addr, word := range emu.Patch {
		emu.Cpu.Memory.Cell[addr] = word
	}

	return
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Reg.Pc()
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() cpu.Code {
	return cpu.Code(emu.Cpu.Memory.Cell[emu.Pc()])
}

// Interrupt stops the emulator before its next instruction.
// It is safe to call from another goroutine.
func (emu *Emulator) Interrupt() {
	emu.interrupt.Store(true)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		done = true
		return
	}

	pc := emu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Err: err}
		}
	}()

	if emu.interrupt.Load() {
		err = ErrInterrupted
		return
	}

	if emu.Limit > 0 && emu.Cpu.Ticks >= emu.Limit {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	// Device register writes keep their console errors.
	if terr := emu.Tape.Err(); terr != nil {
		err = fmt.Errorf("%w: %w", cpu.ErrConsole, terr)
		return
	}

	done = !emu.Cpu.Running
	return
}

// Run ticks the emulator until it halts or fails.
func (emu *Emulator) Run() (err error) {
	defer func() {
		ferr := emu.Close()
		if err == nil && ferr != nil {
			err = fmt.Errorf("%w: %w", cpu.ErrConsole, ferr)
		}
	}()

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
