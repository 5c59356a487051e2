// Command roundtrip_validation checks round-trip idempotence: building
// a ProcessorDesc, serializing it back with ToRaw, and rebuilding from
// that serialization must yield an equivalent ProcessorDesc. It is a
// batch, file-driven counterpart to the in-package round-trip test.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/loader"
	"github.com/sarchlab/procsim/procdesc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: roundtrip_validation HARDWAREFILE...")
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := validate(path); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("ok %s\n", path)
	}

	if failed {
		os.Exit(1)
	}
}

func validate(path string) error {
	rawProc, _, err := loader.LoadHardwareFile(path)
	if err != nil {
		return fmt.Errorf("loading hardware description: %w", err)
	}

	first, err := procdesc.Build(rawProc)
	if err != nil {
		return fmt.Errorf("building first pass: %w", err)
	}

	second, err := procdesc.Build(first.ToRaw())
	if err != nil {
		return fmt.Errorf("building second pass from serialized description: %w", err)
	}

	return compare(first, second)
}

// compare reports a mismatch if the two descriptions partition units
// into different port classes, by name, after round-tripping through
// ToRaw.
func compare(a, b *procdesc.ProcessorDesc) error {
	aNames := portNames(a)
	bNames := portNames(b)

	if len(aNames) != len(bNames) {
		return fmt.Errorf("unit count changed: %d -> %d", len(aNames), len(bNames))
	}
	for name, aKind := range aNames {
		bKind, ok := bNames[name]
		if !ok {
			return fmt.Errorf("unit %q missing after round-trip", name)
		}
		if aKind != bKind {
			return fmt.Errorf("unit %q changed class: %s -> %s", name, aKind, bKind)
		}
	}

	return nil
}

func portNames(d *procdesc.ProcessorDesc) map[string]string {
	names := make(map[string]string)
	for _, m := range d.InPorts {
		names[key(m.Name)] = "in"
	}
	for _, m := range d.InOutPorts {
		names[key(m.Name)] = "inout"
	}
	for _, fu := range d.OutPorts {
		names[key(fu.Model.Name)] = "out"
	}
	for _, fu := range d.InternalUnits {
		names[key(fu.Model.Name)] = "internal"
	}
	return names
}

func key(id ident.ID) string { return id.Lower() }
