package procdesc

import "github.com/sirupsen/logrus"

// optimize restricts each unit's capability set to the intersection
// with the union of its predecessors' capabilities (input ports are
// left untouched since they have no predecessors), drops edges that no
// longer carry a shared capability, removes units left with no
// capability at all, and reports DeadInput for any originally-declared
// input port that lost every outgoing edge along the way.
func (b *builder) optimize() error {
	order, _ := topoSort(b.g)

	final := make([][]Capability, len(b.g.arena))
	for _, i := range order {
		model := b.g.arena[i]

		var preds []int
		for _, p := range b.g.rev[i] {
			if !b.g.removed[p] {
				preds = append(preds, p)
			}
		}

		if len(preds) == 0 {
			final[i] = model.Capabilities
			continue
		}

		var union []Capability
		for _, p := range preds {
			union = unionCaps(union, final[p])
		}

		kept := intersectCaps(model.Capabilities, union)
		if len(kept) < len(model.Capabilities) {
			b.log.WithFields(logrus.Fields{"unit": model.Name.String()}).
				Warn("capability set restricted to what predecessors can supply")
		}
		final[i] = kept
	}

	for _, i := range order {
		b.g.arena[i].Capabilities = final[i]
	}

	for _, i := range order {
		if b.g.removed[i] {
			continue
		}
		if len(b.g.arena[i].Capabilities) == 0 {
			b.log.WithFields(logrus.Fields{"unit": b.g.arena[i].Name.String()}).
				Warn("unit removed: no capability survives predecessor restriction")
			b.g.removeNode(i)
		}
	}

	for _, i := range order {
		if b.g.removed[i] {
			continue
		}
		for _, s := range append([]int(nil), b.g.fwd[i]...) {
			if b.g.removed[s] {
				continue
			}
			if !sharesCapability(b.g.arena[i], b.g.arena[s]) {
				b.log.WithFields(logrus.Fields{
					"from": b.g.arena[i].Name.String(),
					"to":   b.g.arena[s].Name.String(),
				}).Warn("edge removed: endpoints share no capability")
				b.g.removeEdge(i, s)
			}
		}
	}

	for i, wasInput := range b.g.wasInputPort {
		if !wasInput {
			continue
		}
		if b.g.removed[i] {
			return &Error{Kind: DeadInput, Unit: b.g.arena[i].Name.String()}
		}
		if _, out := b.g.degrees(i); out == 0 {
			return &Error{Kind: DeadInput, Unit: b.g.arena[i].Name.String()}
		}
	}

	return nil
}

func unionCaps(a, b []Capability) []Capability {
	out := append([]Capability(nil), a...)
	for _, c := range b {
		found := false
		for _, have := range out {
			if have.Equal(c) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, c)
		}
	}
	return out
}

func intersectCaps(a, union []Capability) []Capability {
	var out []Capability
	for _, c := range a {
		for _, u := range union {
			if c.Equal(u) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func sharesCapability(a, b *UnitModel) bool {
	for _, c := range a.Capabilities {
		if b.HasCapability(c) {
			return true
		}
	}
	return false
}
