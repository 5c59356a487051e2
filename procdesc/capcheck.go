package procdesc

// checkCapabilities validates, for every registered capability, that
// no path carries more than one lock of a kind (with sibling branches
// required to agree), that every input port carries exactly one lock
// of each kind it advertises, and — once the processor has more than
// one unit — that the capability can flow at positive rate from every
// input port that offers it to some output port.
func (b *builder) checkCapabilities(desc *ProcessorDesc) error {
	caps := b.capsGlobal.Values()

	inputs := desc.InputUnits()
	inputIdx := make(map[string]int, len(inputs))
	for _, u := range inputs {
		inputIdx[u.Name.Lower()] = b.unitIdx[u.Name.Lower()]
	}

	multiUnit := len(b.g.arena) > 1

	for _, cap := range caps {
		nodes := b.subgraphFor(cap)
		if len(nodes) == 0 {
			continue
		}

		if err := b.checkLockPaths(cap, nodes, inputs); err != nil {
			return err
		}

		if !multiUnit {
			continue
		}

		for _, u := range inputs {
			if !u.HasCapability(cap) {
				continue
			}
			idx := inputIdx[u.Name.Lower()]
			if !nodes[idx] {
				continue
			}
			if b.maxFlow(cap, nodes, idx) == 0 {
				return &Error{Kind: BlockedCap, Unit: u.Name.String(), Capability: cap.String()}
			}
		}
	}

	return nil
}

// subgraphFor returns the set of non-removed arena indices whose unit
// supports cap.
func (b *builder) subgraphFor(cap Capability) map[int]bool {
	nodes := make(map[int]bool)
	for i, u := range b.g.arena {
		if !b.g.removed[i] && u.HasCapability(cap) {
			nodes[i] = true
		}
	}
	return nodes
}

func (b *builder) subgraphSuccessors(nodes map[int]bool, i int) []int {
	var out []int
	for _, s := range b.g.fwd[i] {
		if nodes[s] {
			out = append(out, s)
		}
	}
	return out
}

// checkLockPaths propagates read/write lock counts from sinks to
// sources within the capability subgraph, failing on any node whose
// count exceeds one, on sibling branches that disagree, or on an
// input port whose count doesn't match the kinds it advertises.
func (b *builder) checkLockPaths(cap Capability, nodes map[int]bool, inputs []*UnitModel) error {
	order, ok := reverseTopoSort(b.g)
	if !ok {
		return &Error{Kind: NotDAG}
	}

	readCount := make(map[int]int)
	writeCount := make(map[int]int)

	for _, i := range order {
		if !nodes[i] {
			continue
		}
		succ := b.subgraphSuccessors(nodes, i)

		rBase, err := b.agreedCount(cap, i, succ, readCount, "read")
		if err != nil {
			return err
		}
		wBase, err := b.agreedCount(cap, i, succ, writeCount, "write")
		if err != nil {
			return err
		}

		unit := b.g.arena[i]
		r := rBase
		if unit.Lock.ReadLock {
			r++
		}
		w := wBase
		if unit.Lock.WriteLock {
			w++
		}
		if r > 1 {
			return &Error{Kind: PathLock, Capability: cap.String(), LockKind: "read", Start: unit.Name.String()}
		}
		if w > 1 {
			return &Error{Kind: PathLock, Capability: cap.String(), LockKind: "write", Start: unit.Name.String()}
		}
		readCount[i] = r
		writeCount[i] = w
	}

	for _, u := range inputs {
		idx, ok := b.unitIdx[u.Name.Lower()]
		if !ok || !nodes[idx] {
			continue
		}
		if u.Lock.ReadLock && readCount[idx] != 1 {
			return &Error{Kind: PathLock, Capability: cap.String(), LockKind: "read", Start: u.Name.String()}
		}
		if u.Lock.WriteLock && writeCount[idx] != 1 {
			return &Error{Kind: PathLock, Capability: cap.String(), LockKind: "write", Start: u.Name.String()}
		}
	}

	return nil
}

func (b *builder) agreedCount(cap Capability, i int, succ []int, counts map[int]int, kind string) (int, error) {
	if len(succ) == 0 {
		return 0, nil
	}
	base := counts[succ[0]]
	for _, s := range succ[1:] {
		if counts[s] != base {
			return 0, &Error{Kind: PathLock, Capability: cap.String(), LockKind: kind, Start: b.g.arena[i].Name.String()}
		}
	}
	return base, nil
}

const infiniteCapacity = 1 << 30

// maxFlow computes the max flow from source's split node through the
// capability subgraph to the virtual sink formed by unifying every
// subgraph node that is itself a processor output (no successors in
// the full graph, not merely within the subgraph), respecting each
// unit's width as the capacity of its in/out split edge.
func (b *builder) maxFlow(cap Capability, nodes map[int]bool, source int) int {
	var list []int
	for i := range nodes {
		list = append(list, i)
	}
	sortIndicesByName(b.g, list)

	pos := make(map[int]int, len(list))
	for k, i := range list {
		pos[i] = k
	}

	n := len(list)
	sink := 2 * n
	size := sink + 1
	capacity := make([]map[int]int, size)
	for i := range capacity {
		capacity[i] = make(map[int]int)
	}

	for k, i := range list {
		inNode, outNode := 2*k, 2*k+1
		capacity[inNode][outNode] = b.g.arena[i].Width

		succ := b.subgraphSuccessors(nodes, i)
		if _, out := b.g.degrees(i); out == 0 {
			capacity[outNode][sink] = infiniteCapacity
		}
		for _, s := range succ {
			capacity[outNode][2*pos[s]] += infiniteCapacity
		}
	}

	src := 2*pos[source] + 0
	return edmondsKarp(capacity, size, src, sink)
}

func edmondsKarp(capacity []map[int]int, size, src, sink int) int {
	flow := 0
	for {
		parent := make([]int, size)
		for i := range parent {
			parent[i] = -1
		}
		parent[src] = src

		queue := []int{src}
		for len(queue) > 0 && parent[sink] == -1 {
			u := queue[0]
			queue = queue[1:]
			for v, c := range capacity[u] {
				if c > 0 && parent[v] == -1 {
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}

		if parent[sink] == -1 {
			return flow
		}

		bottleneck := infiniteCapacity
		for v := sink; v != src; {
			u := parent[v]
			if capacity[u][v] < bottleneck {
				bottleneck = capacity[u][v]
			}
			v = u
		}

		for v := sink; v != src; {
			u := parent[v]
			capacity[u][v] -= bottleneck
			capacity[v][u] += bottleneck
			v = u
		}

		flow += bottleneck
	}
}
