package procdesc

// topoSort returns the indices of the non-removed nodes of g in
// topological order (sources before sinks), breaking ties by unit name
// for a deterministic total order. ok is false if the graph is cyclic.
func topoSort(g *graph) (order []int, ok bool) {
	indeg := make([]int, len(g.arena))
	for i := range g.arena {
		if g.removed[i] {
			continue
		}
		for _, p := range g.rev[i] {
			if !g.removed[p] {
				indeg[i]++
			}
		}
	}

	var ready []int
	for i := range g.arena {
		if !g.removed[i] && indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	visited := 0
	total := 0
	for i := range g.arena {
		if !g.removed[i] {
			total++
		}
	}

	for len(ready) > 0 {
		sortIndicesByName(g, ready)
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		visited++

		for _, s := range g.fwd[n] {
			if g.removed[s] {
				continue
			}
			indeg[s]--
			if indeg[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	return order, visited == total
}

func sortIndicesByName(g *graph, idx []int) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && g.arena[idx[j]].Name.Less(g.arena[idx[j-1]].Name); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// reverseTopoSort is topoSort's order reversed: sinks before sources,
// the order internal units are stored in so the pipeline sweep can
// visit consumers before their predecessors.
func reverseTopoSort(g *graph) (order []int, ok bool) {
	fwdOrder, ok := topoSort(g)
	if !ok {
		return nil, false
	}

	order = make([]int, len(fwdOrder))
	for i, v := range fwdOrder {
		order[len(fwdOrder)-1-i] = v
	}

	return order, true
}
