// Package bytecode renders decoded JVM instructions as aligned text.
//
// The package does not read class files. Callers hand it instructions whose
// operands are already extracted, plus a constant pool to resolve symbolic
// references against, and get back one or more lines per instruction.
package bytecode

import "fmt"

// Opcode is a JVM instruction opcode.
type Opcode uint8

const (
	Nop             Opcode = 0x00
	AconstNull      Opcode = 0x01
	IconstM1        Opcode = 0x02
	Iconst0         Opcode = 0x03
	Iconst1         Opcode = 0x04
	Iconst2         Opcode = 0x05
	Iconst3         Opcode = 0x06
	Iconst4         Opcode = 0x07
	Iconst5         Opcode = 0x08
	Lconst0         Opcode = 0x09
	Lconst1         Opcode = 0x0a
	Fconst0         Opcode = 0x0b
	Fconst1         Opcode = 0x0c
	Fconst2         Opcode = 0x0d
	Dconst0         Opcode = 0x0e
	Dconst1         Opcode = 0x0f
	Bipush          Opcode = 0x10
	Sipush          Opcode = 0x11
	Ldc             Opcode = 0x12
	LdcW            Opcode = 0x13
	Ldc2W           Opcode = 0x14
	Iload           Opcode = 0x15
	Lload           Opcode = 0x16
	Fload           Opcode = 0x17
	Dload           Opcode = 0x18
	Aload           Opcode = 0x19
	Iload0          Opcode = 0x1a
	Aload0          Opcode = 0x2a
	Aload3          Opcode = 0x2d
	Iaload          Opcode = 0x2e
	Saload          Opcode = 0x35
	Istore          Opcode = 0x36
	Lstore          Opcode = 0x37
	Fstore          Opcode = 0x38
	Dstore          Opcode = 0x39
	Astore          Opcode = 0x3a
	Istore0         Opcode = 0x3b
	Astore3         Opcode = 0x4e
	Iastore         Opcode = 0x4f
	Lxor            Opcode = 0x83
	Iinc            Opcode = 0x84
	I2l             Opcode = 0x85
	Dcmpg           Opcode = 0x98
	Ifeq            Opcode = 0x99
	Ifne            Opcode = 0x9a
	Iflt            Opcode = 0x9b
	Ifge            Opcode = 0x9c
	Ifgt            Opcode = 0x9d
	Ifle            Opcode = 0x9e
	IfIcmpeq        Opcode = 0x9f
	IfIcmpne        Opcode = 0xa0
	IfIcmplt        Opcode = 0xa1
	IfIcmpge        Opcode = 0xa2
	IfIcmpgt        Opcode = 0xa3
	IfIcmple        Opcode = 0xa4
	IfAcmpeq        Opcode = 0xa5
	IfAcmpne        Opcode = 0xa6
	Goto            Opcode = 0xa7
	Jsr             Opcode = 0xa8
	Ret             Opcode = 0xa9
	Tableswitch     Opcode = 0xaa
	Lookupswitch    Opcode = 0xab
	Ireturn         Opcode = 0xac
	Areturn         Opcode = 0xb0
	Return          Opcode = 0xb1
	Getstatic       Opcode = 0xb2
	Putstatic       Opcode = 0xb3
	Getfield        Opcode = 0xb4
	Putfield        Opcode = 0xb5
	Invokevirtual   Opcode = 0xb6
	Invokespecial   Opcode = 0xb7
	Invokestatic    Opcode = 0xb8
	Invokeinterface Opcode = 0xb9
	Invokedynamic   Opcode = 0xba
	New             Opcode = 0xbb
	Newarray        Opcode = 0xbc
	Anewarray       Opcode = 0xbd
	Arraylength     Opcode = 0xbe
	Athrow          Opcode = 0xbf
	Checkcast       Opcode = 0xc0
	Instanceof      Opcode = 0xc1
	Monitorenter    Opcode = 0xc2
	Monitorexit     Opcode = 0xc3
	Wide            Opcode = 0xc4
	Multianewarray  Opcode = 0xc5
	Ifnull          Opcode = 0xc6
	Ifnonnull       Opcode = 0xc7
	GotoW           Opcode = 0xc8
	JsrW            Opcode = 0xc9
	Breakpoint      Opcode = 0xca
	Impdep1         Opcode = 0xfe
	Impdep2         Opcode = 0xff
)

// Shape describes how an opcode's operands are laid out and rendered.
type Shape uint8

const (
	ShapeInvalid         Shape = iota // not a defined opcode
	ShapeNone                         // no operands
	ShapeImplicitLocal                // local index encoded in the opcode (iload_0 ...)
	ShapeLocal                        // one local variable index
	ShapeImmediate                    // signed immediate (bipush, sipush)
	ShapeBranch                       // relative branch offset
	ShapeConstant                     // ldc, ldc_w
	ShapeConstant2                    // ldc2_w
	ShapeField                        // field reference
	ShapeMethod                       // method reference
	ShapeInterfaceMethod              // invokeinterface
	ShapeDynamic                      // invokedynamic
	ShapeClass                        // class reference
	ShapeMultiArray                   // multianewarray
	ShapeNewArray                     // primitive array type tag
	ShapeIinc                         // local index plus delta
	ShapeSwitch                       // tableswitch, lookupswitch
	ShapeWide                         // wide prefix
	ShapeReserved                     // breakpoint, impdep1, impdep2
)

type opcodeInfo struct {
	name  string
	shape Shape
}

var opcodes [256]opcodeInfo

func def(shape Shape, first Opcode, names ...string) {
	for i, n := range names {
		opcodes[int(first)+i] = opcodeInfo{name: n, shape: shape}
	}
}

func init() {
	def(ShapeNone, Nop, "nop", "aconst_null", "iconst_m1", "iconst_0", "iconst_1",
		"iconst_2", "iconst_3", "iconst_4", "iconst_5", "lconst_0", "lconst_1",
		"fconst_0", "fconst_1", "fconst_2", "dconst_0", "dconst_1")
	def(ShapeImmediate, Bipush, "bipush", "sipush")
	def(ShapeConstant, Ldc, "ldc", "ldc_w")
	def(ShapeConstant2, Ldc2W, "ldc2_w")
	def(ShapeLocal, Iload, "iload", "lload", "fload", "dload", "aload")
	def(ShapeImplicitLocal, Iload0, "iload_0", "iload_1", "iload_2", "iload_3",
		"lload_0", "lload_1", "lload_2", "lload_3", "fload_0", "fload_1", "fload_2",
		"fload_3", "dload_0", "dload_1", "dload_2", "dload_3", "aload_0", "aload_1",
		"aload_2", "aload_3")
	def(ShapeNone, Iaload, "iaload", "laload", "faload", "daload", "aaload",
		"baload", "caload", "saload")
	def(ShapeLocal, Istore, "istore", "lstore", "fstore", "dstore", "astore")
	def(ShapeImplicitLocal, Istore0, "istore_0", "istore_1", "istore_2", "istore_3",
		"lstore_0", "lstore_1", "lstore_2", "lstore_3", "fstore_0", "fstore_1",
		"fstore_2", "fstore_3", "dstore_0", "dstore_1", "dstore_2", "dstore_3",
		"astore_0", "astore_1", "astore_2", "astore_3")
	def(ShapeNone, Iastore, "iastore", "lastore", "fastore", "dastore", "aastore",
		"bastore", "castore", "sastore", "pop", "pop2", "dup", "dup_x1", "dup_x2",
		"dup2", "dup2_x1", "dup2_x2", "swap", "iadd", "ladd", "fadd", "dadd", "isub",
		"lsub", "fsub", "dsub", "imul", "lmul", "fmul", "dmul", "idiv", "ldiv",
		"fdiv", "ddiv", "irem", "lrem", "frem", "drem", "ineg", "lneg", "fneg",
		"dneg", "ishl", "lshl", "ishr", "lshr", "iushr", "lushr", "iand", "land",
		"ior", "lor", "ixor", "lxor")
	def(ShapeIinc, Iinc, "iinc")
	def(ShapeNone, I2l, "i2l", "i2f", "i2d", "l2i", "l2f", "l2d", "f2i", "f2l",
		"f2d", "d2i", "d2l", "d2f", "i2b", "i2c", "i2s", "lcmp", "fcmpl", "fcmpg",
		"dcmpl", "dcmpg")
	def(ShapeBranch, Ifeq, "ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle",
		"if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple",
		"if_acmpeq", "if_acmpne", "goto", "jsr")
	def(ShapeLocal, Ret, "ret")
	def(ShapeSwitch, Tableswitch, "tableswitch", "lookupswitch")
	def(ShapeNone, Ireturn, "ireturn", "lreturn", "freturn", "dreturn", "areturn", "return")
	def(ShapeField, Getstatic, "getstatic", "putstatic", "getfield", "putfield")
	def(ShapeMethod, Invokevirtual, "invokevirtual", "invokespecial", "invokestatic")
	def(ShapeInterfaceMethod, Invokeinterface, "invokeinterface")
	def(ShapeDynamic, Invokedynamic, "invokedynamic")
	def(ShapeClass, New, "new")
	def(ShapeNewArray, Newarray, "newarray")
	def(ShapeClass, Anewarray, "anewarray")
	def(ShapeNone, Arraylength, "arraylength", "athrow")
	def(ShapeClass, Checkcast, "checkcast", "instanceof")
	def(ShapeNone, Monitorenter, "monitorenter", "monitorexit")
	def(ShapeWide, Wide, "wide")
	def(ShapeMultiArray, Multianewarray, "multianewarray")
	def(ShapeBranch, Ifnull, "ifnull", "ifnonnull", "goto_w", "jsr_w")
	def(ShapeReserved, Breakpoint, "breakpoint")
	def(ShapeReserved, Impdep1, "impdep1", "impdep2")
}

// String returns the mnemonic, or a hex placeholder for undefined opcodes.
func (op Opcode) String() string {
	if n := opcodes[op].name; n != "" {
		return n
	}
	return fmt.Sprintf("0x%02x", uint8(op))
}

// Shape returns the operand shape of op.
func (op Opcode) Shape() Shape {
	return opcodes[op].shape
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	return opcodes[op].shape != ShapeInvalid
}

// Widenable reports whether op may follow a wide prefix.
func (op Opcode) Widenable() bool {
	return op == Iinc || op.Shape() == ShapeLocal
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Opcode, bool) {
	for i, info := range opcodes {
		if info.name == name {
			return Opcode(i), true
		}
	}
	return 0, false
}
