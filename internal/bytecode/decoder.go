package bytecode

import (
	"fmt"
	"strconv"
)

// newarray element type tags.
var arrayTypes = map[int]string{
	4:  "boolean",
	5:  "char",
	6:  "float",
	7:  "double",
	8:  "byte",
	9:  "short",
	10: "int",
	11: "long",
}

// Decoder renders decoded instructions through an Emitter, resolving
// constant pool operands against pool.
type Decoder struct {
	pool     ConstantPool
	resolver Resolver
	emitter  *Emitter
}

// NewDecoder returns a decoder writing to e. Class names are shortened
// when e's context is compact.
func NewDecoder(pool ConstantPool, e *Emitter) *Decoder {
	return &Decoder{
		pool:     pool,
		resolver: Resolver{Compact: e.Context().Compact()},
		emitter:  e,
	}
}

// RenderAll renders a method body in order. Instructions are expected to
// be sorted by pc.
func (d *Decoder) RenderAll(insts []Instruction) {
	for _, inst := range insts {
		d.Render(inst)
	}
}

// Render writes the line, or lines, for one instruction.
func (d *Decoder) Render(inst Instruction) {
	switch inst.Op.Shape() {
	case ShapeLocal:
		d.emit(inst, strconv.Itoa(inst.Index))
	case ShapeImmediate:
		d.emit(inst, strconv.Itoa(inst.Value))
	case ShapeBranch:
		d.emit(inst, strconv.Itoa(Target(inst.PC, inst.Offset)))
	case ShapeConstant, ShapeConstant2:
		d.renderConstant(inst)
	case ShapeField:
		d.emit(inst, d.resolver.FieldSignature(d.pool.Entry(inst.Index)))
	case ShapeMethod:
		d.emit(inst, d.resolver.MethodSignature(d.pool.Entry(inst.Index)))
	case ShapeInterfaceMethod:
		sig := d.resolver.MethodSignature(d.pool.Entry(inst.Index))
		d.emit(inst, fmt.Sprintf("%s [nargs: %d]", sig, inst.Value))
	case ShapeDynamic:
		e := d.pool.Entry(inst.Index)
		d.emit(inst, fmt.Sprintf("#%d: %s", e.BootstrapIndex, d.resolver.DynamicSignature(e)))
	case ShapeClass:
		d.emit(inst, d.resolver.ClassName(d.pool.Entry(inst.Index)))
	case ShapeMultiArray:
		class := d.resolver.ClassName(d.pool.Entry(inst.Index))
		d.emit(inst, fmt.Sprintf("%s [%d]", class, inst.Value))
	case ShapeNewArray:
		name, ok := arrayTypes[inst.Value]
		if !ok {
			d.emit(inst, "")
			return
		}
		d.emit(inst, fmt.Sprintf("%s [%d]", name, inst.Value))
	case ShapeIinc:
		d.emit(inst, fmt.Sprintf("%d %d", inst.Index, inst.Value))
	case ShapeSwitch:
		renderSwitch(d.emitter, inst)
	case ShapeWide:
		d.renderWide(inst)
	default:
		// no operands, implicit locals, reserved and undefined opcodes
		d.emit(inst, "")
	}
}

func (d *Decoder) emit(inst Instruction, operand string) {
	d.emitter.Emit(inst.PC, inst.Op.String(), operand)
}

// renderConstant handles ldc, ldc_w and ldc2_w. Entries of a kind the
// opcode cannot load produce the bare mnemonic.
func (d *Decoder) renderConstant(inst Instruction) {
	e := d.pool.Entry(inst.Index)
	var allowed bool
	if inst.Op == Ldc2W {
		allowed = e.Kind == KindLong || e.Kind == KindDouble
	} else {
		allowed = e.Kind == KindInteger || e.Kind == KindFloat ||
			e.Kind == KindString || e.Kind == KindClass
	}
	if !allowed {
		d.emit(inst, "")
		return
	}
	if e.Kind == KindClass {
		d.emit(inst, "<Class "+d.resolver.ClassName(e)+">")
		return
	}
	lit, _ := d.resolver.Literal(e)
	d.emit(inst, "<"+e.Kind.String()+" "+lit+">")
}

// renderWide writes the wide marker and then the widened instruction one
// byte later. Opcodes that cannot be widened only get the marker.
func (d *Decoder) renderWide(inst Instruction) {
	d.emit(inst, "")
	if !inst.Widened.Widenable() {
		return
	}
	d.Render(Instruction{
		Op:    inst.Widened,
		PC:    inst.PC + 1,
		Index: inst.Index,
		Value: inst.Value,
	})
}
