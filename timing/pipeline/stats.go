package pipeline

import "github.com/sarchlab/procsim/program"

// Stats summarizes a completed (or in-progress) simulation run, for
// the benchmark driver's comparison output.
type Stats struct {
	Cycles           int
	Entered          int
	Exited           int
	StructuralStalls int
	DataStalls       int
}

// Stats computes summary statistics over the table accumulated so far.
func (e *Engine) Stats() Stats {
	s := Stats{
		Cycles:  len(e.table),
		Entered: e.entered,
		Exited:  e.exited,
	}
	for _, snap := range e.table {
		for _, states := range snap {
			for _, st := range states {
				switch st.Stalled {
				case program.Structural:
					s.StructuralStalls++
				case program.Data:
					s.DataStalls++
				}
			}
		}
	}
	return s
}
