// Command benchmark runs the simulator over a batch of
// processor/program file pairs and reports cycle counts and stall
// statistics for each, either as a human-readable table or as CSV.
//
// Usage:
//
//	benchmark [-csv] PAIR...
//
// Each PAIR is "HARDWAREFILE:PROGRAMFILE". Results can be redirected
// to a file and compared run-to-run to catch timing-model
// regressions.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/procsim/loader"
	"github.com/sarchlab/procsim/procdesc"
	"github.com/sarchlab/procsim/regaccess"
	"github.com/sarchlab/procsim/timing/pipeline"
)

func main() {
	csvOutput := flag.Bool("csv", false, "output results as CSV")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: benchmark [-csv] HARDWAREFILE:PROGRAMFILE...")
		os.Exit(1)
	}

	results := make([]result, 0, flag.NArg())
	for _, pair := range flag.Args() {
		r := runPair(pair)
		results = append(results, r)
	}

	if *csvOutput {
		printCSV(os.Stdout, results)
	} else {
		printHuman(os.Stdout, results)
	}
}

type result struct {
	Name  string
	Stats pipeline.Stats
	Err   error
}

func runPair(pair string) result {
	hw, prog, ok := strings.Cut(pair, ":")
	if !ok {
		return result{Name: pair, Err: fmt.Errorf("expected HARDWAREFILE:PROGRAMFILE, got %q", pair)}
	}

	rawProc, isa, err := loader.LoadHardwareFile(hw)
	if err != nil {
		return result{Name: pair, Err: fmt.Errorf("loading hardware description: %w", err)}
	}

	desc, err := procdesc.Build(rawProc)
	if err != nil {
		return result{Name: pair, Err: fmt.Errorf("validating processor description: %w", err)}
	}

	lines, err := loader.LoadProgramFile(prog)
	if err != nil {
		return result{Name: pair, Err: fmt.Errorf("reading program: %w", err)}
	}

	compiled, err := loader.Compile(lines, isa)
	if err != nil {
		return result{Name: pair, Err: fmt.Errorf("compiling program: %w", err)}
	}

	planner := regaccess.NewPlanner(compiled)
	engine := pipeline.NewEngine(desc, compiled, planner)

	if _, err := engine.Run(); err != nil {
		return result{Name: pair, Err: fmt.Errorf("simulating: %w", err)}
	}

	return result{Name: pair, Stats: engine.Stats()}
}

func printHuman(w *os.File, results []result) {
	fmt.Fprintln(w, "Simulation Benchmark")
	fmt.Fprintln(w, "====================")
	for _, r := range results {
		fmt.Fprintf(w, "\n%s\n", r.Name)
		if r.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "  cycles:           %d\n", r.Stats.Cycles)
		fmt.Fprintf(w, "  entered/exited:   %d/%d\n", r.Stats.Entered, r.Stats.Exited)
		fmt.Fprintf(w, "  structural stalls: %d\n", r.Stats.StructuralStalls)
		fmt.Fprintf(w, "  data stalls:       %d\n", r.Stats.DataStalls)
	}
}

func printCSV(w *os.File, results []result) {
	fmt.Fprintln(w, "pair,cycles,entered,exited,structural_stalls,data_stalls,error")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s,,,,,,%s\n", r.Name, csvEscape(r.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,\n",
			r.Name, r.Stats.Cycles, r.Stats.Entered, r.Stats.Exited,
			r.Stats.StructuralStalls, r.Stats.DataStalls)
	}
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
