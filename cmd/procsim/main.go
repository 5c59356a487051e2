// Package main is the driver: it reads a processor/hardware
// description and an assembly program, runs the simulation, and prints
// the cycle-by-cycle utilization table.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/procsim/loader"
	"github.com/sarchlab/procsim/procdesc"
	"github.com/sarchlab/procsim/regaccess"
	"github.com/sarchlab/procsim/timing/pipeline"
)

var (
	processorPath = flag.String("processor", "", "Path to the hardware description (microarch + ISA)")
	verbose       = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Parse()

	if *processorPath == "" || flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: procsim --processor HARDWAREFILE PROGRAMFILE")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := run(*processorPath, flag.Arg(0), log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(processorPath, programPath string, log *logrus.Logger) error {
	rawProc, isa, err := loader.LoadHardwareFile(processorPath)
	if err != nil {
		return fmt.Errorf("loading hardware description: %w", err)
	}

	desc, err := procdesc.Build(rawProc, procdesc.WithLogger(log))
	if err != nil {
		return fmt.Errorf("validating processor description: %w", err)
	}

	lines, err := loader.LoadProgramFile(programPath)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	compiled, err := loader.Compile(lines, isa)
	if err != nil {
		return fmt.Errorf("compiling program: %w", err)
	}

	planner := regaccess.NewPlanner(compiled)
	engine := pipeline.NewEngine(desc, compiled, planner, pipeline.WithLogger(log))

	table, err := engine.Run()
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	printTable(os.Stdout, table, len(compiled))
	return nil
}

func printTable(w io.Writer, table pipeline.Table, numInstructions int) {
	var header strings.Builder
	for c := 1; c <= len(table); c++ {
		header.WriteByte('\t')
		fmt.Fprintf(&header, "%d", c)
	}
	fmt.Fprintln(w, header.String())

	for i := 0; i < numInstructions; i++ {
		var row strings.Builder
		fmt.Fprintf(&row, "I%d", i+1)
		for _, snap := range table {
			row.WriteByte('\t')
			if cell, ok := findInstr(snap, i); ok {
				row.WriteString(cell)
			}
		}
		fmt.Fprintln(w, row.String())
	}
}

func findInstr(snap pipeline.Snapshot, instr int) (string, bool) {
	for unit, states := range snap {
		for _, s := range states {
			if s.Instr == instr {
				return s.Stalled.Letter() + ":" + unit, true
			}
		}
	}
	return "", false
}
