package procdesc

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/procsim/container"
	"github.com/sarchlab/procsim/ident"
)

// graph is the arena representation of the unit graph while it is
// being built and optimized: unit models stored once, edges tracked as
// index lists so FuncUnit predecessor identity reduces to pointer
// equality on arena elements.
type graph struct {
	arena   []*UnitModel
	fwd     [][]int
	rev     [][]int
	removed []bool

	// wasInputPort records, for every arena index, whether the unit
	// was originally an input port (in-degree 0, out-degree > 0) right
	// after edges were registered, before optimization trims anything.
	wasInputPort []bool
}

func (g *graph) degrees(i int) (in, out int) {
	for _, p := range g.rev[i] {
		if !g.removed[p] {
			in++
		}
	}
	for _, s := range g.fwd[i] {
		if !g.removed[s] {
			out++
		}
	}
	return in, out
}

func (g *graph) removeEdge(u, v int) {
	g.fwd[u] = removeInt(g.fwd[u], v)
	g.rev[v] = removeInt(g.rev[v], u)
}

func (g *graph) removeNode(i int) {
	g.removed[i] = true
	for _, s := range append([]int(nil), g.fwd[i]...) {
		g.removeEdge(i, s)
	}
	for _, p := range append([]int(nil), g.rev[i]...) {
		g.removeEdge(p, i)
	}
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// builder holds the mutable state accumulated across Build's steps.
type builder struct {
	log *logrus.Entry

	names   *container.IndexedSet[ident.ID, string]
	unitIdx map[string]int

	capsGlobal *container.IndexedSet[ident.ID, string]

	g *graph
}

// Build validates and optimizes raw into a ProcessorDesc, running every
// registration, optimization, and capability check in order. Each step
// may fail; the first failure aborts loading.
func Build(raw RawProcessor, opts ...Option) (*ProcessorDesc, error) {
	b := &builder{
		log:        logrus.NewEntry(logrus.StandardLogger()),
		names:      container.New(func(i ident.ID) string { return i.Lower() }),
		unitIdx:    make(map[string]int),
		capsGlobal: container.New(func(i ident.ID) string { return i.Lower() }),
		g:          &graph{},
	}
	for _, o := range opts {
		o(b)
	}

	if err := b.registerUnits(raw.Units); err != nil {
		return nil, err
	}
	b.registerCapabilities(raw.Units)
	if err := b.registerMemACL(raw.Units); err != nil {
		return nil, err
	}
	if err := b.registerEdges(raw.DataPath); err != nil {
		return nil, err
	}

	b.recordOriginalInputPorts()

	if _, ok := topoSort(b.g); !ok {
		return nil, &Error{Kind: NotDAG}
	}

	if err := b.optimize(); err != nil {
		return nil, err
	}

	desc, err := b.partition()
	if err != nil {
		return nil, err
	}

	if len(desc.InPorts) == 0 && len(desc.InOutPorts) == 0 {
		return nil, &Error{Kind: EmptyProc}
	}

	if err := b.checkCapabilities(desc); err != nil {
		return nil, err
	}

	return desc, nil
}

// step 1 + part of step 4: register unit names and widths, default
// lock attributes.
func (b *builder) registerUnits(units []RawUnit) error {
	for _, u := range units {
		if u.Width < 1 {
			return &Error{Kind: BadWidth, Unit: u.Name, Width: u.Width}
		}

		id := ident.New(u.Name)
		if _, exists := b.names.Get(id); exists {
			return &Error{Kind: DupElem, Unit: u.Name}
		}
		b.names.Add(id)

		model := &UnitModel{
			Name:  id,
			Width: u.Width,
			Lock:  LockInfo{ReadLock: u.ReadLock, WriteLock: u.WriteLock},
		}

		idx := len(b.g.arena)
		b.g.arena = append(b.g.arena, model)
		b.g.fwd = append(b.g.fwd, nil)
		b.g.rev = append(b.g.rev, nil)
		b.g.removed = append(b.g.removed, false)
		b.unitIdx[id.Lower()] = idx
	}

	return nil
}

// step 2: per-unit capability registration, deduplicating within a
// unit and canonicalizing case-variant spellings globally.
func (b *builder) registerCapabilities(units []RawUnit) {
	for _, u := range units {
		idx := b.unitIdx[ident.New(u.Name).Lower()]
		model := b.g.arena[idx]

		seen := mapset.NewThreadUnsafeSet[string]()
		var caps []Capability
		for _, cname := range u.Capabilities {
			cid := ident.New(cname)
			if seen.Contains(cid.Lower()) {
				b.log.WithFields(logrus.Fields{"unit": u.Name, "capability": cname}).
					Warn("duplicate capability within unit dropped")
				continue
			}
			seen.Add(cid.Lower())

			canon := b.capsGlobal.GetOrInsert(cid)
			if canon.String() != cid.String() {
				b.log.WithFields(logrus.Fields{"unit": u.Name, "spelling": cname, "canonical": canon.String()}).
					Warn("case-variant capability spelling normalized")
			}
			caps = append(caps, canon)
		}
		model.Capabilities = caps
	}
}

// step 3: memory ACL, each entry must already be a registered
// capability; an entry the unit itself does not support is dropped
// with a warning.
func (b *builder) registerMemACL(units []RawUnit) error {
	for _, u := range units {
		idx := b.unitIdx[ident.New(u.Name).Lower()]
		model := b.g.arena[idx]

		for _, aname := range u.MemoryAccess {
			aid := ident.New(aname)
			canon, ok := b.capsGlobal.Get(aid)
			if !ok {
				return &Error{Kind: UndefElem, Unit: aname, Capability: aname}
			}
			if canon.String() != aid.String() {
				b.log.WithFields(logrus.Fields{"unit": u.Name, "spelling": aname, "canonical": canon.String()}).
					Warn("case-variant memory-access spelling normalized")
			}
			if !model.HasCapability(canon) {
				b.log.WithFields(logrus.Fields{"unit": u.Name, "capability": canon.String()}).
					Warn("memory-access capability not in unit's own capability set, dropped")
				continue
			}
			model.MemACL = append(model.MemACL, canon)
		}
	}

	return nil
}

// step 5: edges, each a 2-tuple of registered unit names; duplicates
// dropped with a warning.
func (b *builder) registerEdges(edges []RawEdge) error {
	seen := mapset.NewThreadUnsafeSet[string]()

	for _, e := range edges {
		if len(e) != 2 {
			var arr [2]string
			copy(arr[:], e)
			return &Error{Kind: BadEdge, Edge: arr}
		}

		srcID, dstID := ident.New(e[0]), ident.New(e[1])
		srcIdx, ok := b.unitIdx[srcID.Lower()]
		if !ok {
			return &Error{Kind: UndefElem, Unit: e[0]}
		}
		dstIdx, ok := b.unitIdx[dstID.Lower()]
		if !ok {
			return &Error{Kind: UndefElem, Unit: e[1]}
		}

		key := srcID.Lower() + "\x00" + dstID.Lower()
		if seen.Contains(key) {
			b.log.WithFields(logrus.Fields{"from": e[0], "to": e[1]}).Warn("duplicate edge dropped")
			continue
		}
		seen.Add(key)

		b.g.fwd[srcIdx] = append(b.g.fwd[srcIdx], dstIdx)
		b.g.rev[dstIdx] = append(b.g.rev[dstIdx], srcIdx)
	}

	return nil
}

func (b *builder) recordOriginalInputPorts() {
	b.g.wasInputPort = make([]bool, len(b.g.arena))
	for i := range b.g.arena {
		in, out := b.g.degrees(i)
		b.g.wasInputPort[i] = in == 0 && out > 0
	}
}

// sortedModelIndices returns idx sorted by unit name, for determinism.
func (b *builder) sortedModelIndices(idx []int) []int {
	out := append([]int(nil), idx...)
	sort.Slice(out, func(i, j int) bool {
		return b.g.arena[out[i]].Name.Less(b.g.arena[out[j]].Name)
	})
	return out
}
