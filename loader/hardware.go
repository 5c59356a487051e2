package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/procdesc"
)

// ISATable maps a lower-cased mnemonic to the capability a functional
// unit must support to execute it.
type ISATable map[string]ident.ID

// lookup resolves mnemonic (any case) to its capability.
func (t ISATable) lookup(mnemonic string) (ident.ID, bool) {
	c, ok := t[ident.New(mnemonic).Lower()]
	return c, ok
}

// LoadHardwareISAFromMap builds an ISATable directly from a
// mnemonic-to-capability map, for callers that already have the ISA
// section decoded (and for tests).
func LoadHardwareISAFromMap(raw map[string]string) (ISATable, error) {
	return newISATable(raw)
}

func newISATable(raw map[string]string) (ISATable, error) {
	table := make(ISATable, len(raw))
	seen := make(map[string]string, len(raw))

	for mnemonic, capability := range raw {
		key := ident.New(mnemonic).Lower()
		if prev, ok := seen[key]; ok && prev != mnemonic {
			return nil, &Error{Kind: DupElem, Text: mnemonic}
		}
		seen[key] = mnemonic
		table[key] = ident.New(capability)
	}

	return table, nil
}

type hardwareYAML struct {
	Microarch processorYAML     `yaml:"microarch"`
	ISA       map[string]string `yaml:"ISA"`
}

// LoadHardware reads a hardware description (microarchitecture plus
// ISA table) from r.
func LoadHardware(r io.Reader) (procdesc.RawProcessor, ISATable, error) {
	var doc hardwareYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return procdesc.RawProcessor{}, nil, fmt.Errorf("decoding hardware description: %w", err)
	}

	isa, err := newISATable(doc.ISA)
	if err != nil {
		return procdesc.RawProcessor{}, nil, err
	}

	return doc.Microarch.toRaw(), isa, nil
}

// LoadHardwareFile opens path and loads it as a hardware description.
func LoadHardwareFile(path string) (procdesc.RawProcessor, ISATable, error) {
	f, err := os.Open(path)
	if err != nil {
		return procdesc.RawProcessor{}, nil, fmt.Errorf("opening hardware description: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadHardware(f)
}
