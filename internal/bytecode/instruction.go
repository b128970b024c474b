package bytecode

// Instruction is one decoded instruction with its operands already extracted.
// Which fields are meaningful depends on Op.Shape().
type Instruction struct {
	Op Opcode
	PC int

	// Index is the local variable index (load, store, ret, iinc) or the
	// constant pool index (ldc, field and method refs, class refs).
	Index int

	// Value is the signed immediate of bipush/sipush, the iinc delta, the
	// newarray type tag, the multianewarray dimension count or the
	// invokeinterface argument count.
	Value int

	// Offset is the relative branch offset of if*, goto, jsr and their wide forms.
	Offset int32

	// Switch is set for tableswitch and lookupswitch.
	Switch *SwitchTable

	// Widened is the opcode following a wide prefix.
	Widened Opcode
}

// SwitchTable holds the operands of tableswitch and lookupswitch. For the
// dense form Low..High are set and Offsets has High-Low+1 entries; for the
// sparse form Lookup is set and Keys and Offsets are parallel slices in
// declared order. Build tables with Dense and Sparse.
type SwitchTable struct {
	Lookup  bool
	Default int32
	Low     int32
	High    int32
	Keys    []int32
	Offsets []int32
}

// Case is one resolved switch arm.
type Case struct {
	Key    int32
	Target int
}

// Dense builds the table of a tableswitch.
func Dense(def, low int32, offsets ...int32) *SwitchTable {
	return &SwitchTable{
		Default: def,
		Low:     low,
		High:    low + int32(len(offsets)) - 1,
		Offsets: offsets,
	}
}

// Sparse builds the table of a lookupswitch from (key, offset) pairs.
func Sparse(def int32, pairs ...[2]int32) *SwitchTable {
	t := &SwitchTable{Lookup: true, Default: def, Keys: []int32{}, Offsets: []int32{}}
	for _, p := range pairs {
		t.Keys = append(t.Keys, p[0])
		t.Offsets = append(t.Offsets, p[1])
	}
	return t
}
