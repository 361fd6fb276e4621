// Package config reads run configuration files.
//
// A configuration file is a Starlark program. The machine's defines
// (PC_START, TRAP_HALT, MR_KBSR, ...) are predeclared as integers, and the
// following globals are read once the program has run:
//
//	images  = ["boot.obj", "game.obj"]  # image files, loaded in order
//	pc      = PC_START                  # program counter after reset
//	verbose = False                     # trace each instruction
//	limit   = 0                         # instruction limit, 0 for none
//	input   = "-"                       # console input file, "-" for stdin
//	output  = "-"                       # console output file, "-" for stdout
//	memory  = {0x4000: 42}              # words stored after loading images
//
// All other globals are ignored, so they may be used as helpers.
package config

import (
	"iter"
	"log"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Config is a run configuration.
type Config struct {
	Images  []string          // Image files to load, in order.
	Pc      uint16            // Program counter after reset.
	Verbose bool              // Trace each instruction.
	Limit   int               // Instruction limit; 0 for no limit.
	Input   string            // Console input file; "-" for standard input.
	Output  string            // Console output file; "-" for standard output.
	Memory  map[uint16]uint16 // Words to store after the images are loaded.
}

// New returns the default configuration.
func New(pc uint16) (cfg *Config) {
	cfg = &Config{
		Pc:     pc,
		Input:  "-",
		Output: "-",
	}
	return
}

// predeclare converts the defines to Starlark integers.
// Defines that are not integers are skipped.
func predeclare(defines iter.Seq2[string, string]) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	if defines == nil {
		return
	}

	for key, str := range defines {
		value, err := strconv.ParseUint(str, 0, 64)
		if err != nil {
			continue
		}
		pred[key] = starlark.MakeUint64(value)
	}
	return
}

// Parse runs the configuration program in src (a string, []byte, or
// io.Reader; or nil to read filename), and updates the configuration from its
// globals.
func (cfg *Config) Parse(filename string, src any, defines iter.Seq2[string, string]) (err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{Path: filename, Err: err}
		}
	}()

	thread := &starlark.Thread{
		Name:  filename,
		Print: func(_ *starlark.Thread, msg string) { log.Printf("%v: %v", filename, msg) },
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, predeclare(defines))
	if err != nil {
		return
	}

	for _, key := range globals.Keys() {
		value := globals[key]
		switch key {
		case "images":
			err = cfg.setImages(value)
		case "pc":
			cfg.Pc, err = asWord(value)
		case "verbose":
			cfg.Verbose = bool(value.Truth())
		case "limit":
			cfg.Limit, err = starlark.AsInt32(value)
			if err == nil && cfg.Limit < 0 {
				err = ErrValueRange
			}
		case "input":
			cfg.Input, err = asString(value)
		case "output":
			cfg.Output, err = asString(value)
		case "memory":
			err = cfg.setMemory(value)
		}
		if err != nil {
			err = &ErrKey{Key: key, Err: err}
			return
		}
	}

	return
}

// asWord converts a Starlark integer to a 16-bit word.
func asWord(value starlark.Value) (word uint16, err error) {
	n, err := starlark.AsInt32(value)
	if err != nil {
		return
	}

	if n < -0x8000 || n > 0xffff {
		err = ErrValueRange
		return
	}

	word = uint16(n)
	return
}

// asString converts a Starlark string.
func asString(value starlark.Value) (str string, err error) {
	str, ok := starlark.AsString(value)
	if !ok {
		err = ErrValueType
	}
	return
}

// setImages appends the image paths from a Starlark list or tuple.
func (cfg *Config) setImages(value starlark.Value) (err error) {
	iterable, ok := value.(starlark.Iterable)
	if !ok {
		return ErrValueType
	}

	it := iterable.Iterate()
	defer it.Done()

	var item starlark.Value
	for it.Next(&item) {
		var path string
		path, err = asString(item)
		if err != nil {
			return
		}
		cfg.Images = append(cfg.Images, path)
	}

	return
}

// setMemory reads an address to word dictionary.
func (cfg *Config) setMemory(value starlark.Value) (err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		return ErrValueType
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[uint16]uint16, dict.Len())
	}

	for _, item := range dict.Items() {
		var addr, word uint16
		addr, err = asWord(item[0])
		if err != nil {
			return
		}
		word, err = asWord(item[1])
		if err != nil {
			return
		}
		cfg.Memory[addr] = word
	}

	return
}
