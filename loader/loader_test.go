package loader_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/loader"
)

var _ = Describe("LoadProcessor", func() {
	It("decodes the current capability shape", func() {
		yamlText := `
units:
  - name: fullSys
    width: 1
    capabilities: [ALU, MEM]
    memoryAccess: [MEM]
dataPath: []
`
		raw, err := loader.LoadProcessor(strings.NewReader(yamlText))
		Expect(err).NotTo(HaveOccurred())
		Expect(raw.Units).To(HaveLen(1))
		Expect(raw.Units[0].Capabilities).To(ConsistOf("ALU", "MEM"))
		Expect(raw.Units[0].MemoryAccess).To(ConsistOf("MEM"))
	})

	It("normalizes the legacy record-shaped capability form", func() {
		yamlText := `
units:
  - name: fullSys
    width: 1
    capabilities:
      - name: ALU
        memoryAccess: false
      - name: MEM
        memoryAccess: true
`
		raw, err := loader.LoadProcessor(strings.NewReader(yamlText))
		Expect(err).NotTo(HaveOccurred())
		Expect(raw.Units[0].Capabilities).To(ConsistOf("ALU", "MEM"))
		Expect(raw.Units[0].MemoryAccess).To(ConsistOf("MEM"))
	})
})

var _ = Describe("LoadHardware", func() {
	It("decodes the microarch and ISA sections", func() {
		yamlText := `
microarch:
  units:
    - name: fullSys
      width: 1
      capabilities: [ALU]
ISA:
  ADD: ALU
  SUB: ALU
`
		raw, isa, err := loader.LoadHardware(strings.NewReader(yamlText))
		Expect(err).NotTo(HaveOccurred())
		Expect(raw.Units).To(HaveLen(1))
		Expect(isa).To(HaveLen(2))
	})
})

var _ = Describe("LoadProgram and Compile", func() {
	It("parses destination and sources and canonicalizes register case", func() {
		text := "ADD r1, R2, r3\nSUB R1, r4\n"
		lines, err := loader.LoadProgram(strings.NewReader(text))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(2))

		isa := map[string]string{"ADD": "ALU", "SUB": "ALU"}
		table, err := loader.LoadHardwareISAFromMap(isa)
		Expect(err).NotTo(HaveOccurred())

		prog, err := loader.Compile(lines, table)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog).To(HaveLen(2))
		Expect(prog[0].Destination.String()).To(Equal("r1"))
		Expect(prog[1].Destination.String()).To(Equal("r1"))
	})

	It("reports CodeError for an empty operand", func() {
		text := "ADD R1,, R3\n"
		_, err := loader.LoadProgram(strings.NewReader(text))
		Expect(err).To(HaveOccurred())
		Expect(err.(*loader.Error).Kind).To(Equal(loader.CodeError))
	})

	It("reports UndefElem for an unmapped mnemonic", func() {
		lines := []loader.Line{{Mnemonic: "XYZZY", Dest: "R1"}}
		table, err := loader.LoadHardwareISAFromMap(map[string]string{"ADD": "ALU"})
		Expect(err).NotTo(HaveOccurred())

		_, err = loader.Compile(lines, table)
		Expect(err).To(HaveOccurred())
		Expect(err.(*loader.Error).Kind).To(Equal(loader.UndefElem))
	})
})
