package bytecode

import "strconv"

// Cases resolves every arm of t against the switch instruction at pc.
// Dense tables yield keys Low..High in ascending order; sparse tables keep
// their declared order. A table with Keys is sparse even when Lookup is
// unset.
func (t *SwitchTable) Cases(pc int) []Case {
	if t.Lookup || t.Keys != nil {
		cases := make([]Case, 0, len(t.Keys))
		for i, key := range t.Keys {
			if i >= len(t.Offsets) {
				break
			}
			cases = append(cases, Case{Key: key, Target: Target(pc, t.Offsets[i])})
		}
		return cases
	}
	cases := make([]Case, 0, len(t.Offsets))
	for i, off := range t.Offsets {
		key := int64(t.Low) + int64(i)
		if key > int64(t.High) {
			break
		}
		cases = append(cases, Case{Key: int32(key), Target: Target(pc, off)})
	}
	return cases
}

// renderSwitch writes the header of a tableswitch or lookupswitch followed
// by one line per arm.
func renderSwitch(e *Emitter, inst Instruction) {
	if inst.Switch == nil {
		e.Emit(inst.PC, inst.Op.String(), "")
		return
	}
	table := *inst.Switch
	if inst.Op == Lookupswitch {
		table.Lookup = true
	}
	def := Target(inst.PC, table.Default)
	e.Emit(inst.PC, inst.Op.String(), "default: "+strconv.Itoa(def))
	for _, c := range table.Cases(inst.PC) {
		e.EmitSwitchCase(c.Key, c.Target)
	}
}
