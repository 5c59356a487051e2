// Command speclint validates a processor description's well-formedness
// without running any simulation. It is the description-only
// counterpart to procsim: point it at a
// hardware file and it reports BadWidth/DupElem/BadEdge/UndefElem/
// NotDAG/EmptyProc/DeadInput/BlockedCap/PathLock errors, or prints a
// short summary of the partitioned processor on success.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/procsim/loader"
	"github.com/sarchlab/procsim/procdesc"
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: speclint HARDWAREFILE")
		os.Exit(1)
	}

	if err := lint(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}
}

func lint(path string) error {
	rawProc, _, err := loader.LoadHardwareFile(path)
	if err != nil {
		return fmt.Errorf("loading hardware description: %w", err)
	}

	desc, err := procdesc.Build(rawProc)
	if err != nil {
		return err
	}

	fmt.Printf("ok: %d input port(s), %d output port(s), %d internal unit(s)\n",
		len(desc.InPorts)+len(desc.InOutPorts),
		len(desc.OutPorts)+len(desc.InOutPorts),
		len(desc.InternalUnits))

	return nil
}
