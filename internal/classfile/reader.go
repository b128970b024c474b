package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"

	"jdisasm/internal/bytecode"
)

var (
	// ErrTruncated is returned when an instruction runs past the end of the code.
	ErrTruncated = errors.New("truncated bytecode")
	// ErrUnknownOpcode is returned for bytes that are not a defined opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrMalformed is returned for operands that cannot be valid, such as an
	// inverted tableswitch range.
	ErrMalformed = errors.New("malformed bytecode")
	// ErrNotClassFile is returned when the input does not start with the class file magic.
	ErrNotClassFile = errors.New("not a class file")
)

// maxSwitchCases bounds tableswitch ranges so a corrupt low/high pair
// cannot force a huge allocation.
const maxSwitchCases = 1 << 16

// codeReader holds a cursor over a method's code array and moves it on
// every read.
type codeReader struct {
	data   []byte
	offset int
}

func (r *codeReader) need(n int) error {
	if r.offset+n > len(r.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.offset, len(r.data)-r.offset)
	}
	return nil
}

func (r *codeReader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *codeReader) s8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *codeReader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

func (r *codeReader) s16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *codeReader) s32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return int32(v), nil
}

// align skips the padding that puts switch operands on a four byte
// boundary relative to the start of the code array.
func (r *codeReader) align() error {
	pad := (4 - r.offset%4) % 4
	if err := r.need(pad); err != nil {
		return err
	}
	r.offset += pad
	return nil
}

// Decode splits a code attribute into instructions. On error it returns
// the instructions decoded before the failing one.
func Decode(code []byte) ([]bytecode.Instruction, error) {
	r := &codeReader{data: code}
	var insts []bytecode.Instruction
	for r.offset < len(code) {
		inst, err := r.next()
		if err != nil {
			return insts, fmt.Errorf("failed to decode instruction at pc %d: %w", inst.PC, err)
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

func (r *codeReader) next() (bytecode.Instruction, error) {
	inst := bytecode.Instruction{PC: r.offset}
	b, err := r.u8()
	if err != nil {
		return inst, err
	}
	op := bytecode.Opcode(b)
	inst.Op = op
	if !op.Valid() {
		return inst, fmt.Errorf("%w: %#02x", ErrUnknownOpcode, b)
	}

	switch op.Shape() {
	case bytecode.ShapeLocal:
		v, err := r.u8()
		inst.Index = int(v)
		return inst, err
	case bytecode.ShapeImmediate:
		if op == bytecode.Bipush {
			v, err := r.s8()
			inst.Value = int(v)
			return inst, err
		}
		v, err := r.s16()
		inst.Value = int(v)
		return inst, err
	case bytecode.ShapeBranch:
		if op == bytecode.GotoW || op == bytecode.JsrW {
			inst.Offset, err = r.s32()
			return inst, err
		}
		v, err := r.s16()
		inst.Offset = int32(v)
		return inst, err
	case bytecode.ShapeConstant:
		if op == bytecode.Ldc {
			v, err := r.u8()
			inst.Index = int(v)
			return inst, err
		}
		v, err := r.u16()
		inst.Index = int(v)
		return inst, err
	case bytecode.ShapeConstant2, bytecode.ShapeField, bytecode.ShapeMethod, bytecode.ShapeClass:
		v, err := r.u16()
		inst.Index = int(v)
		return inst, err
	case bytecode.ShapeInterfaceMethod:
		v, err := r.u16()
		if err != nil {
			return inst, err
		}
		inst.Index = int(v)
		n, err := r.u8()
		if err != nil {
			return inst, err
		}
		inst.Value = int(n)
		_, err = r.u8()
		return inst, err
	case bytecode.ShapeDynamic:
		v, err := r.u16()
		if err != nil {
			return inst, err
		}
		inst.Index = int(v)
		_, err = r.u16()
		return inst, err
	case bytecode.ShapeMultiArray:
		v, err := r.u16()
		if err != nil {
			return inst, err
		}
		inst.Index = int(v)
		dims, err := r.u8()
		inst.Value = int(dims)
		return inst, err
	case bytecode.ShapeNewArray:
		v, err := r.u8()
		inst.Value = int(v)
		return inst, err
	case bytecode.ShapeIinc:
		idx, err := r.u8()
		if err != nil {
			return inst, err
		}
		inst.Index = int(idx)
		delta, err := r.s8()
		inst.Value = int(delta)
		return inst, err
	case bytecode.ShapeSwitch:
		inst.Switch, err = r.switchTable(op)
		return inst, err
	case bytecode.ShapeWide:
		return r.wide(inst)
	}
	return inst, nil
}

func (r *codeReader) switchTable(op bytecode.Opcode) (*bytecode.SwitchTable, error) {
	if err := r.align(); err != nil {
		return nil, err
	}
	def, err := r.s32()
	if err != nil {
		return nil, err
	}
	if op == bytecode.Tableswitch {
		low, err := r.s32()
		if err != nil {
			return nil, err
		}
		high, err := r.s32()
		if err != nil {
			return nil, err
		}
		n := int64(high) - int64(low) + 1
		if n < 0 || n > maxSwitchCases {
			return nil, fmt.Errorf("%w: tableswitch range %d..%d", ErrMalformed, low, high)
		}
		offsets := make([]int32, n)
		for i := range offsets {
			if offsets[i], err = r.s32(); err != nil {
				return nil, err
			}
		}
		return bytecode.Dense(def, low, offsets...), nil
	}

	npairs, err := r.s32()
	if err != nil {
		return nil, err
	}
	if npairs < 0 || npairs > maxSwitchCases {
		return nil, fmt.Errorf("%w: lookupswitch with %d pairs", ErrMalformed, npairs)
	}
	pairs := make([][2]int32, npairs)
	for i := range pairs {
		if pairs[i][0], err = r.s32(); err != nil {
			return nil, err
		}
		if pairs[i][1], err = r.s32(); err != nil {
			return nil, err
		}
	}
	return bytecode.Sparse(def, pairs...), nil
}

// wide reads the opcode following a wide prefix and its 16-bit operands.
// A prefix in front of an opcode that cannot be widened is kept with
// only the inner opcode recorded.
func (r *codeReader) wide(inst bytecode.Instruction) (bytecode.Instruction, error) {
	b, err := r.u8()
	if err != nil {
		return inst, err
	}
	inst.Widened = bytecode.Opcode(b)
	if !inst.Widened.Widenable() {
		return inst, nil
	}
	idx, err := r.u16()
	if err != nil {
		return inst, err
	}
	inst.Index = int(idx)
	if inst.Widened == bytecode.Iinc {
		delta, err := r.s16()
		inst.Value = int(delta)
		return inst, err
	}
	return inst, nil
}
