package pipeline

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/procdesc"
	"github.com/sarchlab/procsim/program"
	"github.com/sarchlab/procsim/regaccess"
)

// Table is a utilization table: one Snapshot per clock pulse, in
// cycle order.
type Table []Snapshot

// Engine advances a compiled program through desc one clock pulse at a
// time, honoring width, capability, memory-exclusivity, and
// register-access ordering.
type Engine struct {
	log *logrus.Entry

	desc    *procdesc.ProcessorDesc
	prog    []program.HwInstruction
	planner *regaccess.Planner

	downstream  []*procdesc.FuncUnit
	inputUnits  []*procdesc.UnitModel
	outputUnits []*procdesc.UnitModel
	allUnits    []*procdesc.UnitModel
	categoryMap map[string][]*procdesc.UnitModel

	current Snapshot
	table   Table
	entered int
	exited  int
}

// NewEngine builds an engine ready to simulate prog against desc, using
// planner as the register-access plan; the engine dequeues granted
// requests from planner as the simulation advances.
func NewEngine(desc *procdesc.ProcessorDesc, prog []program.HwInstruction, planner *regaccess.Planner, opts ...Option) *Engine {
	e := &Engine{
		log:         logrus.NewEntry(logrus.StandardLogger()),
		desc:        desc,
		prog:        prog,
		planner:     planner,
		downstream:  desc.DownstreamOrder(),
		inputUnits:  desc.InputUnits(),
		outputUnits: desc.OutputUnits(),
		categoryMap: desc.CategoryMap(),
		current:     make(Snapshot),
	}

	e.allUnits = append(e.allUnits, desc.InPorts...)
	e.allUnits = append(e.allUnits, desc.InOutPorts...)
	for _, fu := range desc.OutPorts {
		e.allUnits = append(e.allUnits, fu.Model)
	}
	for _, fu := range desc.InternalUnits {
		e.allUnits = append(e.allUnits, fu.Model)
	}

	for _, o := range opts {
		o(e)
	}

	return e
}

// Run advances the engine until every instruction has entered and
// exited, returning the full utilization table.
func (e *Engine) Run() (Table, error) {
	for e.entered < len(e.prog) || e.exited < e.entered {
		if err := e.Tick(); err != nil {
			return e.table, err
		}
	}
	return e.table, nil
}

// Tick advances the simulation by one clock pulse: flush retiring
// instructions out of the output boundary, sweep candidates downstream
// (sinks toward sources), fill input ports with fresh instructions,
// and annotate each in-flight instruction's stall state.
func (e *Engine) Tick() error {
	prev := e.current
	cur := prev.Clone()

	e.flushOutputs(cur)
	memBusy := e.sweepDownstream(cur)
	e.fillInputs(cur, memBusy)
	e.annotateHazards(prev, cur)

	if cur.Equal(prev) {
		cycle := len(e.table) + 1
		e.log.WithFields(logrus.Fields{
			"cycle":   cycle,
			"entered": e.entered,
			"exited":  e.exited,
		}).Warn("cycle produced no change; simulation deadlocked")
		return &Error{Kind: Stall, Cycle: cycle}
	}

	e.countExits(cur)
	e.table = append(e.table, cur)
	e.current = cur

	return nil
}

func (e *Engine) flushOutputs(cur Snapshot) {
	for _, u := range e.outputUnits {
		key := unitKey(u.Name)
		var kept []program.InstrState
		for _, s := range cur[key] {
			if s.Stalled != program.NoStall {
				kept = append(kept, s)
			}
		}
		cur[key] = kept
	}
}

type candidate struct {
	predKey   string
	predIndex int
	state     program.InstrState
}

func (e *Engine) sweepDownstream(cur Snapshot) bool {
	memBusy := false

	for _, fu := range e.downstream {
		destKey := unitKey(fu.Model.Name)

		var candidates []candidate
		for _, pred := range fu.Predecessors {
			predKey := unitKey(pred.Name)
			for i, s := range cur[predKey] {
				if s.Stalled == program.Data {
					continue
				}
				categ := e.prog[s.Instr].Categ
				if !fu.Model.HasCapability(categ) {
					continue
				}
				candidates = append(candidates, candidate{predKey, i, s})
			}
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].state.Instr < candidates[j].state.Instr
		})

		room := fu.Model.Width - len(cur[destKey])
		removals := make(map[string][]int)

		for _, c := range candidates {
			if room <= 0 {
				break
			}
			categ := e.prog[c.state.Instr].Categ
			memAccess := fu.Model.RequiresMemory(categ)
			if memBusy && memAccess {
				continue
			}

			cur[destKey] = append(cur[destKey], program.InstrState{Instr: c.state.Instr, Stalled: program.NoStall})
			removals[c.predKey] = append(removals[c.predKey], c.predIndex)
			room--
			if memAccess {
				memBusy = true
			}
		}

		for predKey, idxs := range removals {
			sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
			list := cur[predKey]
			for _, idx := range idxs {
				list = append(list[:idx], list[idx+1:]...)
			}
			cur[predKey] = list
		}
	}

	return memBusy
}

func (e *Engine) fillInputs(cur Snapshot, memBusy bool) {
	for e.entered < len(e.prog) {
		categ := e.prog[e.entered].Categ
		units := e.categoryMap[categ.Lower()]

		accepted := false
		for _, u := range units {
			key := unitKey(u.Name)
			if len(cur[key]) == u.Width {
				continue
			}
			memAccess := u.RequiresMemory(categ)
			if memBusy && memAccess {
				continue
			}

			cur[key] = append(cur[key], program.InstrState{Instr: e.entered, Stalled: program.NoStall})
			if memAccess {
				memBusy = true
			}
			e.entered++
			accepted = true
			break
		}

		if !accepted {
			break
		}
	}
}

type regRequest struct {
	reg   ident.ID
	instr int
}

func (e *Engine) annotateHazards(prev, cur Snapshot) {
	var toDequeue []regRequest

	for _, u := range e.allUnits {
		key := unitKey(u.Name)
		for i, s := range cur[key] {
			if wasStructural(prev[key], s.Instr) {
				cur[key][i] = program.InstrState{Instr: s.Instr, Stalled: program.Structural}
				continue
			}

			instr := e.prog[s.Instr]
			stalled := program.NoStall

			if u.Lock.ReadLock {
				for _, src := range instr.Sources {
					if !e.planner.CanAccess(src, regaccess.Read, s.Instr) {
						stalled = program.Data
						break
					}
				}
			}
			if stalled == program.NoStall && u.Lock.WriteLock && instr.HasDestination() {
				if !e.planner.CanAccess(instr.Destination, regaccess.Write, s.Instr) {
					stalled = program.Data
				}
			}

			cur[key][i] = program.InstrState{Instr: s.Instr, Stalled: stalled}

			if stalled == program.NoStall {
				if u.Lock.ReadLock {
					for _, src := range instr.Sources {
						toDequeue = append(toDequeue, regRequest{src, s.Instr})
					}
				}
				if u.Lock.WriteLock && instr.HasDestination() {
					toDequeue = append(toDequeue, regRequest{instr.Destination, s.Instr})
				}
			}
		}
	}

	for _, r := range toDequeue {
		e.planner.Dequeue(r.reg, r.instr)
	}
}

func wasStructural(prevList []program.InstrState, instr int) bool {
	for _, s := range prevList {
		if s.Instr == instr && s.Stalled != program.Data {
			return true
		}
	}
	return false
}

func (e *Engine) countExits(cur Snapshot) {
	for _, u := range e.outputUnits {
		key := unitKey(u.Name)
		for _, s := range cur[key] {
			if s.Stalled == program.NoStall {
				e.exited++
			}
		}
	}
}

// Entered returns the count of instructions issued so far.
func (e *Engine) Entered() int { return e.entered }

// Exited returns the count of instructions retired so far.
func (e *Engine) Exited() int { return e.exited }
