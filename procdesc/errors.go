package procdesc

import "fmt"

// Kind identifies why loading a processor description failed (spec
// §7).
type Kind int

const (
	// BadWidth: a unit's declared width is not positive.
	BadWidth Kind = iota
	// BadEdge: a data-path entry does not have exactly two endpoints.
	BadEdge
	// UndefElem: an edge or memory-ACL entry names an unregistered
	// unit or capability.
	UndefElem
	// DupElem: a unit name is a case-variant duplicate of another.
	DupElem
	// NotDAG: the unit graph contains a cycle.
	NotDAG
	// EmptyProc: no input ports remain after optimization.
	EmptyProc
	// DeadInput: an originally-defined input port lost every outgoing
	// edge during optimization.
	DeadInput
	// BlockedCap: a capability cannot flow from some input port to any
	// output port.
	BlockedCap
	// PathLock: a capability path carries more than one lock of a
	// kind, sibling paths disagree on lock count, or an input port
	// does not carry exactly one lock of a kind it advertises.
	PathLock
)

func (k Kind) String() string {
	switch k {
	case BadWidth:
		return "BadWidth"
	case BadEdge:
		return "BadEdge"
	case UndefElem:
		return "UndefElem"
	case DupElem:
		return "DupElem"
	case NotDAG:
		return "NotDAG"
	case EmptyProc:
		return "EmptyProc"
	case DeadInput:
		return "DeadInput"
	case BlockedCap:
		return "BlockedCap"
	case PathLock:
		return "PathLock"
	default:
		return "Unknown"
	}
}

// Error is a loader failure: one of the Kinds above, with whichever of
// Unit/Capability/Edge/Width/LockKind/Start apply to that kind.
type Error struct {
	Kind       Kind
	Unit       string
	Capability string
	Edge       [2]string
	Width      int
	LockKind   string
	Start      string
	Cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case BadWidth:
		return fmt.Sprintf("%s: unit %q has non-positive width %d", e.Kind, e.Unit, e.Width)
	case BadEdge:
		return fmt.Sprintf("%s: edge %v does not have exactly two endpoints", e.Kind, e.Edge)
	case UndefElem:
		return fmt.Sprintf("%s: %q is not a registered unit or capability", e.Kind, e.Unit)
	case DupElem:
		return fmt.Sprintf("%s: %q is a case-variant duplicate", e.Kind, e.Unit)
	case NotDAG:
		return fmt.Sprintf("%s: the unit graph contains a cycle", e.Kind)
	case EmptyProc:
		return fmt.Sprintf("%s: no input ports remain after optimization", e.Kind)
	case DeadInput:
		return fmt.Sprintf("%s: input port %q has no path to any output port after optimization", e.Kind, e.Unit)
	case BlockedCap:
		return fmt.Sprintf("%s: capability %q cannot flow from input port %q to any output port", e.Kind, e.Capability, e.Unit)
	case PathLock:
		return fmt.Sprintf("%s: capability %q: %s-lock path starting at %q violates the exactly-one-lock contract", e.Kind, e.Capability, e.LockKind, e.Start)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Unit)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}
