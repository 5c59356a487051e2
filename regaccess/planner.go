// Package regaccess builds, per register, the static queue of grouped
// read/write requests implied by a compiled program, and answers
// whether a given instruction may access a given register for read or
// write right now.
//
// Requests are coalesced into groups rather than tracked one at a
// time: consecutive reads of the same register merge into a single
// group, while writes never coalesce. The pipeline engine only ever
// needs to know the head group of a register's queue to decide
// whether an instruction may proceed.
package regaccess

import (
	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/program"
)

// AccessType distinguishes a read request from a write request.
type AccessType int

const (
	// Read is a source-register access.
	Read AccessType = iota
	// Write is a destination-register access.
	Write
)

func (a AccessType) String() string {
	if a == Read {
		return "READ"
	}
	return "WRITE"
}

// group is one coalesced run of same-type requests: consecutive reads
// merge into a single group, writes never coalesce.
type group struct {
	kind   AccessType
	owners []int
}

func (g *group) hasOwner(instr int) bool {
	for _, o := range g.owners {
		if o == instr {
			return true
		}
	}
	return false
}

// Planner is the built register access plan for one program: an
// ordered queue of groups per register, consumed head-first as
// instructions complete their accesses.
type Planner struct {
	queues map[string][]*group
	names  map[string]ident.ID
}

// NewPlanner builds the register access plan for prog, walking the
// program in order and enqueueing each instruction's source and
// destination register accesses.
func NewPlanner(prog []program.HwInstruction) *Planner {
	p := &Planner{
		queues: make(map[string][]*group),
		names:  make(map[string]ident.ID),
	}

	for i, instr := range prog {
		for _, src := range instr.Sources {
			p.enqueue(src, Read, i)
		}
		if instr.HasDestination() {
			p.enqueue(instr.Destination, Write, i)
		}
	}

	return p
}

func (p *Planner) enqueue(reg ident.ID, kind AccessType, instr int) {
	key := reg.Lower()
	p.names[key] = reg

	q := p.queues[key]
	if kind == Read && len(q) > 0 && q[len(q)-1].kind == Read {
		q[len(q)-1].owners = append(q[len(q)-1].owners, instr)
		return
	}

	p.queues[key] = append(q, &group{kind: kind, owners: []int{instr}})
}

// CanAccess reports whether instr may access reg for kind right now:
// the head group of reg's queue must exist, match kind, and list instr
// among its owners.
func (p *Planner) CanAccess(reg ident.ID, kind AccessType, instr int) bool {
	q := p.queues[reg.Lower()]
	if len(q) == 0 {
		return false
	}

	head := q[0]
	return head.kind == kind && head.hasOwner(instr)
}

// Dequeue removes instr from the head group of reg's queue. When the
// head group becomes empty, it is popped and the next group becomes
// eligible.
func (p *Planner) Dequeue(reg ident.ID, instr int) {
	key := reg.Lower()
	q := p.queues[key]
	if len(q) == 0 {
		return
	}

	head := q[0]
	for i, o := range head.owners {
		if o == instr {
			head.owners = append(head.owners[:i], head.owners[i+1:]...)
			break
		}
	}

	if len(head.owners) == 0 {
		p.queues[key] = q[1:]
	}
}
