package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/procdesc"
	"github.com/sarchlab/procsim/program"
	"github.com/sarchlab/procsim/regaccess"
	"github.com/sarchlab/procsim/timing/pipeline"
)

func mustBuild(raw procdesc.RawProcessor) *procdesc.ProcessorDesc {
	desc, err := procdesc.Build(raw)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return desc
}

func nonEmpty(states []program.InstrState) bool {
	return len(states) > 0
}

var _ = Describe("Engine", func() {
	Describe("a single-unit trivial processor", func() {
		It("runs the one instruction through in one cycle", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "fullSys", Width: 1, Capabilities: []string{"ALU"}, ReadLock: true, WriteLock: true},
				},
			}
			desc := mustBuild(raw)

			prog := []program.HwInstruction{
				{Sources: []ident.ID{ident.New("R11"), ident.New("R15")}, Destination: ident.New("R14"), Categ: ident.New("ALU")},
			}

			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			table, err := engine.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(table).To(HaveLen(1))
			Expect(table[0]["fullSys"]).To(Equal([]program.InstrState{{Instr: 0, Stalled: program.NoStall}}))
		})
	})

	Describe("a dual-core ALU processor", func() {
		It("issues in parallel and drains the third instruction next cycle", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "core1", Width: 1, Capabilities: []string{"ALU"}},
					{Name: "core2", Width: 1, Capabilities: []string{"ALU"}},
				},
			}
			desc := mustBuild(raw)

			var prog []program.HwInstruction
			for i := 0; i < 3; i++ {
				prog = append(prog, program.HwInstruction{Categ: ident.New("ALU")})
			}

			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			table, err := engine.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(table).To(HaveLen(2))

			Expect(table[0]["core1"]).To(Equal([]program.InstrState{{Instr: 0, Stalled: program.NoStall}}))
			Expect(table[0]["core2"]).To(Equal([]program.InstrState{{Instr: 1, Stalled: program.NoStall}}))

			Expect(table[1]["core1"]).To(Equal([]program.InstrState{{Instr: 2, Stalled: program.NoStall}}))
			Expect(nonEmpty(table[1]["core2"])).To(BeFalse())
		})
	})

	Describe("a three-stage pipeline with a RAW hazard", func() {
		It("stalls the dependent instruction at the lock unit", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "input", Width: 1, Capabilities: []string{"ALU"}},
					{Name: "middle", Width: 1, Capabilities: []string{"ALU"}, ReadLock: true},
					{Name: "output", Width: 1, Capabilities: []string{"ALU"}, WriteLock: true},
				},
				DataPath: []procdesc.RawEdge{{"input", "middle"}, {"middle", "output"}},
			}
			desc := mustBuild(raw)

			prog := []program.HwInstruction{
				{Destination: ident.New("R1"), Categ: ident.New("ALU")},
				{Sources: []ident.ID{ident.New("R1")}, Destination: ident.New("R2"), Categ: ident.New("ALU")},
			}

			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			table, err := engine.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(table).To(HaveLen(5))

			Expect(table[0]["input"]).To(Equal([]program.InstrState{{Instr: 0, Stalled: program.NoStall}}))

			Expect(table[1]["input"]).To(Equal([]program.InstrState{{Instr: 1, Stalled: program.NoStall}}))
			Expect(table[1]["middle"]).To(Equal([]program.InstrState{{Instr: 0, Stalled: program.NoStall}}))

			Expect(nonEmpty(table[2]["input"])).To(BeFalse())
			Expect(table[2]["middle"]).To(Equal([]program.InstrState{{Instr: 1, Stalled: program.Data}}))
			Expect(table[2]["output"]).To(Equal([]program.InstrState{{Instr: 0, Stalled: program.NoStall}}))

			Expect(nonEmpty(table[3]["output"])).To(BeFalse())
			Expect(table[3]["middle"]).To(Equal([]program.InstrState{{Instr: 1, Stalled: program.NoStall}}))

			Expect(table[4]["output"]).To(Equal([]program.InstrState{{Instr: 1, Stalled: program.NoStall}}))
		})
	})

	Describe("memory exclusivity", func() {
		It("lets two ALU instructions issue in parallel despite a shared memory-using output", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "in1", Width: 1, Capabilities: []string{"ALU", "MEM"}, MemoryAccess: []string{"ALU", "MEM"}, ReadLock: true},
					{Name: "in2", Width: 1, Capabilities: []string{"ALU", "MEM"}, MemoryAccess: []string{"ALU", "MEM"}, ReadLock: true},
					{Name: "out", Width: 1, Capabilities: []string{"ALU", "MEM"}, MemoryAccess: []string{"MEM"}, WriteLock: true},
				},
				DataPath: []procdesc.RawEdge{{"in1", "out"}, {"in2", "out"}},
			}
			desc := mustBuild(raw)

			prog := []program.HwInstruction{
				{Categ: ident.New("ALU")},
				{Categ: ident.New("ALU")},
			}

			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			table, err := engine.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(table[0]["in1"]).To(HaveLen(1))
			Expect(table[0]["in2"]).To(HaveLen(1))
		})
	})

	Describe("boundary behaviors", func() {
		It("produces an empty table for an empty program", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{{Name: "fullSys", Width: 1, Capabilities: []string{"ALU"}}},
			}
			desc := mustBuild(raw)

			var prog []program.HwInstruction
			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			table, err := engine.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(table).To(BeEmpty())
		})

		It("fails with Stall when the first instruction has no capable input unit", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{{Name: "fullSys", Width: 1, Capabilities: []string{"ALU"}}},
			}
			desc := mustBuild(raw)

			prog := []program.HwInstruction{{Categ: ident.New("MEM")}}
			engine := pipeline.NewEngine(desc, prog, regaccess.NewPlanner(prog))
			_, err := engine.Run()

			Expect(err).To(HaveOccurred())
			perr, ok := err.(*pipeline.Error)
			Expect(ok).To(BeTrue())
			Expect(perr.Kind).To(Equal(pipeline.Stall))
		})
	})
})
