package procdesc

// partition classifies each surviving unit by its final in/out degree
// into InPorts, OutPorts, InOutPorts and InternalUnits, building
// FuncUnit predecessor lists (sorted by name) for every unit that has
// any.
func (b *builder) partition() (*ProcessorDesc, error) {
	desc := &ProcessorDesc{}

	internalOrder, ok := reverseTopoSort(b.g)
	if !ok {
		return nil, &Error{Kind: NotDAG}
	}

	var inPorts, inOutPorts []*UnitModel
	var outPorts, internal []*FuncUnit

	for i := range b.g.arena {
		if b.g.removed[i] {
			continue
		}
		in, out := b.g.degrees(i)
		model := b.g.arena[i]

		switch {
		case in == 0 && out == 0:
			inOutPorts = append(inOutPorts, model)
		case in == 0:
			inPorts = append(inPorts, model)
		case out == 0:
			outPorts = append(outPorts, &FuncUnit{Model: model, Predecessors: b.predecessorsOf(i)})
		}
	}

	for _, i := range internalOrder {
		if b.g.removed[i] {
			continue
		}
		in, out := b.g.degrees(i)
		if in > 0 && out > 0 {
			internal = append(internal, &FuncUnit{Model: b.g.arena[i], Predecessors: b.predecessorsOf(i)})
		}
	}

	sortUnitModels(inPorts)
	sortUnitModels(inOutPorts)
	sortFuncUnits(outPorts)

	desc.InPorts = inPorts
	desc.OutPorts = outPorts
	desc.InOutPorts = inOutPorts
	desc.InternalUnits = internal

	return desc, nil
}

func (b *builder) predecessorsOf(i int) []*UnitModel {
	var preds []*UnitModel
	for _, p := range b.g.rev[i] {
		if !b.g.removed[p] {
			preds = append(preds, b.g.arena[p])
		}
	}
	sortUnitModels(preds)
	return preds
}

func sortFuncUnits(units []*FuncUnit) {
	for i := 1; i < len(units); i++ {
		for j := i; j > 0 && units[j].Model.Name.Less(units[j-1].Model.Name); j-- {
			units[j], units[j-1] = units[j-1], units[j]
		}
	}
}
