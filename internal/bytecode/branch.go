package bytecode

// Target returns the absolute address of a branch. Offsets of goto and
// goto_w are handled the same way; the sum is never wrapped or clamped.
func Target(originPC int, offset int32) int {
	return originPC + int(offset)
}
