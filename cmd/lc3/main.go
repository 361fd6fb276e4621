// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ezrec/lc3/config"
	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/emulator"
	"github.com/ezrec/lc3/io"
	"github.com/ezrec/lc3/translate"
)

func main() {
	var script string
	var input string
	var output string
	var verbose bool
	var limit int
	var pc string

	flag.StringVar(&script, "c", "", ".star run configuration file")
	flag.StringVar(&input, "i", "", "Console input (default stdin)")
	flag.StringVar(&output, "o", "", "Console output (default stdout)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "n", 0, "Instruction limit (0 for none)")
	flag.StringVar(&pc, "pc", "", "Start address (default 0x3000)")

	flag.Usage = func() {
		translate.Fprintf(flag.CommandLine.Output(), "usage: %v [options] image.obj [image.obj...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	emu := emulator.NewEmulator()

	cfg := config.New(cpu.PC_START)
	if len(script) != 0 {
		err := cfg.Parse(script, nil, emu.Defines())
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	// Flags override the run configuration.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "i":
			cfg.Input = input
		case "o":
			cfg.Output = output
		case "v":
			cfg.Verbose = verbose
		case "n":
			cfg.Limit = limit
		case "pc":
			value, err := strconv.ParseUint(pc, 0, 16)
			if err != nil {
				log.Fatalf("-pc %v: %v", pc, err)
			}
			cfg.Pc = uint16(value)
		}
	})

	cfg.Images = append(cfg.Images, flag.Args()...)
	if len(cfg.Images) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	err := emu.Apply(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Output == "-" {
		ouf := bufio.NewWriter(os.Stdout)
		emu.Tape.Output = ouf
	} else {
		ouf, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = bufio.NewWriter(ouf)
	}

	if cfg.Input == "-" {
		emu.Tape.Input = os.Stdin
		tty, err := io.OpenTty(os.Stdin)
		if err == nil {
			emu.Tape.Input = tty
			ttys = append(ttys, tty)
			defer tty.Restore()
		} else if cfg.Verbose {
			log.Printf("stdin: %v", err)
		}
	} else {
		inf, err := os.Open(cfg.Input)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	interruptOnSignal(emu)

	err = emu.Run()
	if errors.Is(err, emulator.ErrInterrupted) {
		fmt.Fprintln(os.Stderr)
		exit(2)
	}
	if err != nil {
		if cfg.Verbose {
			fmt.Fprint(os.Stderr, emu.Cpu.String())
		}
		log.Printf("%v", err)
		exit(1)
	}
}

// ttys restored by exit.
var ttys []*io.Tty

// exit restores the terminal, then exits; deferred calls do not run.
func exit(code int) {
	for _, tty := range ttys {
		tty.Restore()
	}
	os.Exit(code)
}

// interruptGrace is how long an interrupted run has to stop on its own.
const interruptGrace = time.Second

// interruptOnSignal stops the emulator when interrupted, so that its output
// is flushed. A run blocked on console input has nothing buffered, and exits
// once interruptGrace has passed.
func interruptOnSignal(emu *emulator.Emulator) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		emu.Interrupt()
		time.Sleep(interruptGrace)
		fmt.Fprintln(os.Stderr)
		exit(2)
	}()
}
