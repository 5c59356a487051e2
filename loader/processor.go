// Package loader reads processor/hardware descriptions and assembly
// program text from external files, turning them into the plain
// structures procdesc.Build and the pipeline engine consume.
package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/procsim/procdesc"
)

// capabilityEntry decodes either the current shape (a bare capability
// name) or the legacy shape (a record with a memoryAccess bool),
// detected structurally from the YAML node kind.
type capabilityEntry struct {
	Name         string
	MemoryAccess bool
}

func (c *capabilityEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Name = node.Value
		return nil
	}

	var legacy struct {
		Name         string `yaml:"name"`
		MemoryAccess bool   `yaml:"memoryAccess"`
	}
	if err := node.Decode(&legacy); err != nil {
		return fmt.Errorf("decoding legacy capability record: %w", err)
	}
	c.Name = legacy.Name
	c.MemoryAccess = legacy.MemoryAccess
	return nil
}

type unitYAML struct {
	Name         string            `yaml:"name"`
	Width        int               `yaml:"width"`
	Capabilities []capabilityEntry `yaml:"capabilities"`
	ReadLock     bool              `yaml:"readLock"`
	WriteLock    bool              `yaml:"writeLock"`
	MemoryAccess []string          `yaml:"memoryAccess"`
}

// processorYAML is the decoded shape of the `units`/`dataPath`
// document, embeddable under a hardware description's `microarch` key.
type processorYAML struct {
	Units    []unitYAML `yaml:"units"`
	DataPath [][]string `yaml:"dataPath"`
}

func (p processorYAML) toRaw() procdesc.RawProcessor {
	raw := procdesc.RawProcessor{}

	for _, u := range p.Units {
		ru := procdesc.RawUnit{
			Name:         u.Name,
			Width:        u.Width,
			ReadLock:     u.ReadLock,
			WriteLock:    u.WriteLock,
			MemoryAccess: append([]string(nil), u.MemoryAccess...),
		}
		for _, c := range u.Capabilities {
			ru.Capabilities = append(ru.Capabilities, c.Name)
			if c.MemoryAccess {
				ru.MemoryAccess = append(ru.MemoryAccess, c.Name)
			}
		}
		raw.Units = append(raw.Units, ru)
	}

	for _, edge := range p.DataPath {
		raw.DataPath = append(raw.DataPath, procdesc.RawEdge(edge))
	}

	return raw
}

// LoadProcessor reads a standalone processor description document from
// r and returns the RawProcessor ready for procdesc.Build.
func LoadProcessor(r io.Reader) (procdesc.RawProcessor, error) {
	var doc processorYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return procdesc.RawProcessor{}, fmt.Errorf("decoding processor description: %w", err)
	}
	return doc.toRaw(), nil
}

// LoadProcessorFile opens path and loads it as a processor description.
func LoadProcessorFile(path string) (procdesc.RawProcessor, error) {
	f, err := os.Open(path)
	if err != nil {
		return procdesc.RawProcessor{}, fmt.Errorf("opening processor description: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadProcessor(f)
}
