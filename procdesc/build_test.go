package procdesc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/procdesc"
)

func unit(name string, width int, caps ...string) procdesc.RawUnit {
	return procdesc.RawUnit{Name: name, Width: width, Capabilities: caps}
}

var _ = Describe("Build", func() {
	Describe("a single-unit trivial processor", func() {
		It("classifies the lone unit as an in-out port", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{unit("core", 1, "ALU")},
			}

			desc, err := procdesc.Build(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(desc.InPorts).To(BeEmpty())
			Expect(desc.OutPorts).To(BeEmpty())
			Expect(desc.InternalUnits).To(BeEmpty())
			Expect(desc.InOutPorts).To(HaveLen(1))
			Expect(desc.InOutPorts[0].Name.String()).To(Equal("core"))
		})
	})

	Describe("a dual-core ALU processor", func() {
		It("classifies each core as its own in-out port", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					unit("core0", 1, "ALU"),
					unit("core1", 1, "ALU"),
				},
			}

			desc, err := procdesc.Build(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(desc.InOutPorts).To(HaveLen(2))
		})
	})

	Describe("a fetch-to-execute pipeline", func() {
		It("partitions fetch as in-port and execute as out-port", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					unit("fetch", 2, "ALU"),
					unit("execute", 1, "ALU"),
				},
				DataPath: []procdesc.RawEdge{{"fetch", "execute"}},
			}

			desc, err := procdesc.Build(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(desc.InPorts).To(HaveLen(1))
			Expect(desc.InPorts[0].Name.String()).To(Equal("fetch"))
			Expect(desc.OutPorts).To(HaveLen(1))
			Expect(desc.OutPorts[0].Model.Name.String()).To(Equal("execute"))
			Expect(desc.OutPorts[0].Predecessors).To(HaveLen(1))
			Expect(desc.OutPorts[0].Predecessors[0].Name.String()).To(Equal("fetch"))

			// execute's capability set narrows to what fetch can supply.
			Expect(desc.OutPorts[0].Model.Capabilities).To(HaveLen(1))
			Expect(desc.OutPorts[0].Model.Capabilities[0].String()).To(Equal("ALU"))
		})
	})

	Describe("rejecting malformed descriptions", func() {
		It("reports BadWidth for a non-positive width", func() {
			raw := procdesc.RawProcessor{Units: []procdesc.RawUnit{unit("core", 0, "ALU")}}
			_, err := procdesc.Build(raw)

			var perr *procdesc.Error
			Expect(err).To(BeAssignableToTypeOf(perr))
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.BadWidth))
		})

		It("reports DupElem for a case-variant duplicate unit name", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{unit("Core", 1, "ALU"), unit("core", 1, "ALU")},
			}
			_, err := procdesc.Build(raw)
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.DupElem))
		})

		It("reports BadEdge for an edge without two endpoints", func() {
			raw := procdesc.RawProcessor{
				Units:    []procdesc.RawUnit{unit("core", 1, "ALU")},
				DataPath: []procdesc.RawEdge{{"core"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.BadEdge))
		})

		It("reports UndefElem for an edge naming an unregistered unit", func() {
			raw := procdesc.RawProcessor{
				Units:    []procdesc.RawUnit{unit("core", 1, "ALU")},
				DataPath: []procdesc.RawEdge{{"core", "ghost"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.UndefElem))
		})

		It("reports NotDAG for a cyclic data path", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{unit("a", 1, "ALU"), unit("b", 1, "ALU")},
				DataPath: []procdesc.RawEdge{
					{"a", "b"}, {"b", "a"},
				},
			}
			_, err := procdesc.Build(raw)
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.NotDAG))
		})

		It("reports DeadInput when the input port's only successor vanishes under optimization", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					unit("fetch", 1, "ALU"),
					unit("execute", 1, "MEM"),
				},
				DataPath: []procdesc.RawEdge{{"fetch", "execute"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err).To(HaveOccurred())
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.DeadInput))
		})

		It("reports BlockedCap when a capability cannot reach any output", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					unit("fetch", 1, "ALU", "MEM"),
					unit("alu_only", 1, "ALU"),
				},
				DataPath: []procdesc.RawEdge{{"fetch", "alu_only"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err).To(HaveOccurred())
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.BlockedCap))
		})
	})

	Describe("lock-path validation", func() {
		It("accepts an input port that carries exactly one read lock", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "fetch", Width: 1, Capabilities: []string{"ALU"}, ReadLock: true},
					unit("execute", 1, "ALU"),
				},
				DataPath: []procdesc.RawEdge{{"fetch", "execute"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a path carrying two write locks for the same capability", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					{Name: "fetch", Width: 1, Capabilities: []string{"ALU"}, WriteLock: true},
					{Name: "execute", Width: 1, Capabilities: []string{"ALU"}, WriteLock: true},
				},
				DataPath: []procdesc.RawEdge{{"fetch", "execute"}},
			}
			_, err := procdesc.Build(raw)
			Expect(err).To(HaveOccurred())
			Expect(err.(*procdesc.Error).Kind).To(Equal(procdesc.PathLock))
		})
	})

	Describe("round-trip idempotence", func() {
		It("reloads its own serialized form to an equivalent description", func() {
			raw := procdesc.RawProcessor{
				Units: []procdesc.RawUnit{
					unit("fetch", 2, "ALU"),
					unit("execute", 1, "ALU"),
				},
				DataPath: []procdesc.RawEdge{{"fetch", "execute"}},
			}

			first, err := procdesc.Build(raw)
			Expect(err).NotTo(HaveOccurred())

			second, err := procdesc.Build(first.ToRaw())
			Expect(err).NotTo(HaveOccurred())

			Expect(second.InPorts).To(HaveLen(len(first.InPorts)))
			Expect(second.OutPorts).To(HaveLen(len(first.OutPorts)))
		})
	})
})
