// Package procdesc loads a raw processor description into a validated
// ProcessorDesc: the unit graph, with width/capability/lock/memory-ACL
// invariants enforced and all capability-flow and register-lock paths
// checked.
//
// The unit graph is represented as an arena: unit models are stored
// once in a slice, and edges are tracked as index lists (forward and
// reverse) rather than as node references, so FuncUnit predecessor
// identity reduces to pointer equality on arena elements.
package procdesc

import "github.com/sarchlab/procsim/ident"

// Capability names a kind of instruction a unit can execute.
type Capability = ident.ID

// LockInfo declares whether instructions passing through a unit must
// acquire register-access tokens before leaving it.
type LockInfo struct {
	ReadLock  bool
	WriteLock bool
}

// UnitModel is one functional unit: its name, capacity, the
// capabilities it supports, its lock attributes, and the subset of its
// capabilities that require the shared memory resource.
type UnitModel struct {
	Name         ident.ID
	Width        int
	Capabilities []Capability
	Lock         LockInfo
	MemACL       []Capability
}

// HasCapability reports whether this unit supports c.
func (u *UnitModel) HasCapability(c Capability) bool {
	for _, have := range u.Capabilities {
		if have.Equal(c) {
			return true
		}
	}
	return false
}

// RequiresMemory reports whether executing capability c on this unit
// requires the shared memory resource.
func (u *UnitModel) RequiresMemory(c Capability) bool {
	for _, have := range u.MemACL {
		if have.Equal(c) {
			return true
		}
	}
	return false
}

// FuncUnit pairs a unit model with its predecessors, sorted by model
// name for determinism. Two FuncUnits are equal iff their models are
// the same object and their predecessor sequences match element-wise
// by identity, not value.
type FuncUnit struct {
	Model        *UnitModel
	Predecessors []*UnitModel
}

// Equal reports whether f and o share the same model and predecessor
// sequence by identity.
func (f *FuncUnit) Equal(o *FuncUnit) bool {
	if f.Model != o.Model {
		return false
	}
	if len(f.Predecessors) != len(o.Predecessors) {
		return false
	}
	for i := range f.Predecessors {
		if f.Predecessors[i] != o.Predecessors[i] {
			return false
		}
	}
	return true
}

// ProcessorDesc is the validated, optimized unit graph, partitioned by
// boundary role.
type ProcessorDesc struct {
	InPorts       []*UnitModel
	OutPorts      []*FuncUnit
	InOutPorts    []*UnitModel
	InternalUnits []*FuncUnit
}

// InputUnits returns every unit that accepts fresh instructions from
// the program stream (in-ports and in-out-ports), sorted by name.
func (p *ProcessorDesc) InputUnits() []*UnitModel {
	out := make([]*UnitModel, 0, len(p.InPorts)+len(p.InOutPorts))
	out = append(out, p.InPorts...)
	out = append(out, p.InOutPorts...)
	sortUnitModels(out)
	return out
}

// OutputUnits returns every unit instructions retire from (out-ports
// and in-out-ports).
func (p *ProcessorDesc) OutputUnits() []*UnitModel {
	out := make([]*UnitModel, 0, len(p.OutPorts)+len(p.InOutPorts))
	for _, fu := range p.OutPorts {
		out = append(out, fu.Model)
	}
	out = append(out, p.InOutPorts...)
	return out
}

// DownstreamOrder returns the order the pipeline engine sweeps
// destinations in each cycle: out-ports first, then internal units in
// reverse topological order.
func (p *ProcessorDesc) DownstreamOrder() []*FuncUnit {
	out := make([]*FuncUnit, 0, len(p.OutPorts)+len(p.InternalUnits))
	out = append(out, p.OutPorts...)
	out = append(out, p.InternalUnits...)
	return out
}

// CategoryMap groups input units by the capabilities they support,
// each group sorted by unit name.
func (p *ProcessorDesc) CategoryMap() map[string][]*UnitModel {
	m := make(map[string][]*UnitModel)
	for _, u := range p.InputUnits() {
		for _, c := range u.Capabilities {
			m[c.Lower()] = append(m[c.Lower()], u)
		}
	}
	for _, list := range m {
		sortUnitModels(list)
	}
	return m
}

func sortUnitModels(units []*UnitModel) {
	for i := 1; i < len(units); i++ {
		for j := i; j > 0 && units[j].Name.Less(units[j-1].Name); j-- {
			units[j], units[j-1] = units[j-1], units[j]
		}
	}
}
