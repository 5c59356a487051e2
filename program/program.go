// Package program holds the compiled-program data model shared between
// the register access planner and the pipeline engine: a hardware
// instruction (the output of compiling assembly text through the ISA
// table) and the per-cycle state of an instruction in flight.
package program

import "github.com/sarchlab/procsim/ident"

// HwInstruction is a single compiled program instruction: the
// registers it reads from, the register it writes to, and the
// capability (instruction category) it requires.
type HwInstruction struct {
	// Sources is the sorted, duplicate-free set of registers this
	// instruction reads.
	Sources []ident.ID
	// Destination is the register this instruction writes, or the
	// zero ID if it writes nothing.
	Destination ident.ID
	// Categ is the capability a functional unit must support to
	// execute this instruction.
	Categ ident.ID
}

// HasDestination reports whether this instruction writes a register.
func (h HwInstruction) HasDestination() bool {
	return !h.Destination.IsZero()
}

// StallKind classifies why an in-flight instruction is not advancing.
type StallKind int

const (
	// NoStall means the instruction advanced normally this cycle.
	NoStall StallKind = iota
	// Structural means a downstream unit did not have room.
	Structural
	// Data means a pending register access blocks this instruction.
	Data
)

// String names the stall kind.
func (s StallKind) String() string {
	switch s {
	case NoStall:
		return "NO_STALL"
	case Structural:
		return "STRUCTURAL"
	case Data:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// Letter is the single-letter code used in the tab-separated
// utilization table (U, S, D).
func (s StallKind) Letter() string {
	switch s {
	case NoStall:
		return "U"
	case Structural:
		return "S"
	case Data:
		return "D"
	default:
		return "?"
	}
}

// InstrState is the state of one in-flight instruction occupying a
// unit: which program instruction it is, and whether it is stalled.
type InstrState struct {
	Instr   int
	Stalled StallKind
}
