package procdesc

// ToRaw serializes desc back into a RawProcessor in canonical
// (normalized-case) form: loading ToRaw's output must reproduce an
// equivalent ProcessorDesc, which the roundtrip_validation tool checks.
func (p *ProcessorDesc) ToRaw() RawProcessor {
	var raw RawProcessor

	emit := func(m *UnitModel) {
		u := RawUnit{
			Name:      m.Name.String(),
			Width:     m.Width,
			ReadLock:  m.Lock.ReadLock,
			WriteLock: m.Lock.WriteLock,
		}
		for _, c := range m.Capabilities {
			u.Capabilities = append(u.Capabilities, c.String())
		}
		for _, a := range m.MemACL {
			u.MemoryAccess = append(u.MemoryAccess, a.String())
		}
		raw.Units = append(raw.Units, u)
	}

	seen := make(map[string]bool)
	edge := func(from, to *UnitModel) {
		key := from.Name.Lower() + "\x00" + to.Name.Lower()
		if seen[key] {
			return
		}
		seen[key] = true
		raw.DataPath = append(raw.DataPath, RawEdge{from.Name.String(), to.Name.String()})
	}

	for _, m := range p.InPorts {
		emit(m)
	}
	for _, m := range p.InOutPorts {
		emit(m)
	}
	for _, fu := range p.InternalUnits {
		emit(fu.Model)
	}
	for _, fu := range p.OutPorts {
		emit(fu.Model)
	}

	for _, fu := range p.InternalUnits {
		for _, pred := range fu.Predecessors {
			edge(pred, fu.Model)
		}
	}
	for _, fu := range p.OutPorts {
		for _, pred := range fu.Predecessors {
			edge(pred, fu.Model)
		}
	}

	return raw
}
