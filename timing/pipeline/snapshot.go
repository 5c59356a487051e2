// Package pipeline advances a compiled program through a validated
// ProcessorDesc one clock pulse at a time, producing the cycle-by-cycle
// utilization table.
package pipeline

import (
	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/program"
)

// Snapshot is a utilization mapping: unit name to the InstrStates
// currently occupying it. Equality ignores empty value lists and is
// insensitive to within-unit ordering.
type Snapshot map[string][]program.InstrState

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = append([]program.InstrState(nil), v...)
	}
	return out
}

// Equal reports whether s and o describe the same occupancy, ignoring
// empty entries and within-unit order.
func (s Snapshot) Equal(o Snapshot) bool {
	if !s.coversSameKeys(o) {
		return false
	}
	for k, v := range s {
		ov := o[k]
		if len(v) != len(ov) {
			return false
		}
		if !sameMultiset(v, ov) {
			return false
		}
	}
	return true
}

func (s Snapshot) coversSameKeys(o Snapshot) bool {
	for k, v := range s {
		if len(v) == 0 {
			continue
		}
		if len(o[k]) == 0 {
			return false
		}
	}
	for k, v := range o {
		if len(v) == 0 {
			continue
		}
		if len(s[k]) == 0 {
			return false
		}
	}
	return true
}

func sameMultiset(a, b []program.InstrState) bool {
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for i, y := range b {
			if used[i] {
				continue
			}
			if x == y {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func unitKey(id ident.ID) string {
	return id.String()
}
