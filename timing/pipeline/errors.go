package pipeline

import "fmt"

// Kind identifies why the engine aborted a simulation run.
type Kind int

const (
	// Stall means a cycle reproduced the previous snapshot exactly
	// while instructions remained to issue or stay in flight: the
	// processor made no progress and will not without external change.
	Stall Kind = iota
)

func (k Kind) String() string {
	return "Stall"
}

// Error is a simulation failure.
type Error struct {
	Kind  Kind
	Cycle int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: no progress at cycle %d", e.Kind, e.Cycle)
}
