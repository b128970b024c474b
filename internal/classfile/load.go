// Package classfile loads JVM class files and jar archives and turns their
// method bodies into rendered disassembly.
package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	parser "github.com/wreulicke/classfile-parser"

	"jdisasm/internal/bytecode"
	"jdisasm/internal/logging"
)

const classMagic = 0xcafebabe

// Class is a loaded class with its constant pool already resolved.
type Class struct {
	Name         string   `json:"name"`
	SuperName    string   `json:"superName,omitempty"`
	Interfaces   []string `json:"interfaces,omitempty"`
	AccessFlags  []string `json:"accessFlags"`
	SourceFile   string   `json:"sourceFile,omitempty"`
	MajorVersion int      `json:"majorVersion"`
	MinorVersion int      `json:"minorVersion"`
	Methods      []Method `json:"methods"`

	// Origin is the file or archive entry the class was read from.
	Origin string `json:"origin,omitempty"`

	Pool bytecode.Pool `json:"-"`
}

// Method is one method declaration. Code is nil for abstract and native methods.
type Method struct {
	Name        string   `json:"name"`
	Descriptor  string   `json:"descriptor"`
	AccessFlags []string `json:"accessFlags"`
	MaxStack    int      `json:"maxStack"`
	MaxLocals   int      `json:"maxLocals"`
	Code        []byte   `json:"-"`
}

// JavaVersion returns the Java release that introduced the class file version.
func (c *Class) JavaVersion() string {
	switch {
	case c.MajorVersion >= 49:
		return fmt.Sprint(c.MajorVersion - 44)
	case c.MajorVersion >= 45:
		return fmt.Sprintf("1.%d", c.MajorVersion-44)
	}
	return fmt.Sprintf("unknown (%d)", c.MajorVersion)
}

// Load reads one class file.
func Load(r io.Reader) (*Class, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return Parse(data)
}

// Parse decodes class file bytes.
func Parse(data []byte) (*Class, error) {
	if len(data) < 4 || binary.BigEndian.Uint32(data) != classMagic {
		return nil, ErrNotClassFile
	}

	cf, err := parser.New(bytes.NewReader(data)).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse class file: %w", err)
	}
	cp := cf.ConstantPool

	c := &Class{
		AccessFlags:  classAccessFlags(cf.AccessFlags),
		MajorVersion: int(cf.MajorVersion),
		MinorVersion: int(cf.MinorVersion),
		Pool:         convertPool(cp),
	}
	if c.Name, err = cf.ThisClassName(); err != nil {
		return nil, fmt.Errorf("failed to resolve class name: %w", err)
	}
	if cf.SuperClass != 0 {
		if sc, err := cf.SuperClassName(); err == nil {
			c.SuperName = sc
		}
	}
	for _, idx := range cf.Interfaces {
		if name, err := cp.GetClassName(idx); err == nil {
			c.Interfaces = append(c.Interfaces, name)
		}
	}
	if sf := cf.SourceFile(); sf != nil {
		if utf8 := cp.LookupUtf8(sf.SourcefileIndex); utf8 != nil {
			c.SourceFile = utf8.String()
		}
	}

	c.Methods = make([]Method, 0, len(cf.Methods))
	for _, m := range cf.Methods {
		name, err := m.Name(cp)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve method name: %w", err)
		}
		desc, err := m.Descriptor(cp)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve descriptor of %s: %w", name, err)
		}
		method := Method{
			Name:        name,
			Descriptor:  desc,
			AccessFlags: methodAccessFlags(m.AccessFlags),
		}
		if code := m.Code(); code != nil {
			method.MaxStack = int(code.MaxStack)
			method.MaxLocals = int(code.MaxLocals)
			method.Code = code.Codes
		}
		c.Methods = append(c.Methods, method)
	}

	if logging.IsDebug() {
		lg := logging.NewLogger()
		defer lg.Close()
		lg.Debug("loaded class",
			"name", c.Name,
			"methods", len(c.Methods),
			"constants", len(c.Pool)-1,
			"version", c.JavaVersion())
	}
	return c, nil
}

// convertPool resolves every constant the renderer can display. Index 0
// and the second slot of wide constants stay empty.
func convertPool(cp *parser.ConstantPool) bytecode.Pool {
	pool := make(bytecode.Pool, len(cp.Constants)+1)
	for i := range cp.Constants {
		if cp.Constants[i] == nil {
			continue
		}
		pool[i+1] = convertConstant(cp, uint16(i+1))
	}
	return pool
}

func convertConstant(cp *parser.ConstantPool, index uint16) bytecode.ConstantPoolEntry {
	switch v := cp.Constants[index-1].(type) {
	case *parser.ConstantClass:
		return bytecode.ClassEntry(utf8(cp, v.NameIndex))
	case *parser.ConstantString:
		return bytecode.StringEntry(utf8(cp, v.StringIndex))
	case *parser.ConstantInteger:
		return bytecode.IntegerEntry(int32(v.Bytes))
	case *parser.ConstantFloat:
		return bytecode.FloatEntry(math.Float32frombits(v.Bytes))
	case *parser.ConstantLong:
		return bytecode.LongEntry(int64(uint64(v.HighBytes)<<32 | uint64(v.LowBytes)))
	case *parser.ConstantDouble:
		return bytecode.DoubleEntry(math.Float64frombits(uint64(v.HighBytes)<<32 | uint64(v.LowBytes)))
	case *parser.ConstantFieldref:
		e := memberRef(cp, v.ClassIndex, v.NameAndTypeIndex)
		e.Kind = bytecode.KindFieldref
		return e
	case *parser.ConstantMethodref:
		e := memberRef(cp, v.ClassIndex, v.NameAndTypeIndex)
		e.Kind = bytecode.KindMethodref
		return e
	case *parser.ConstantInterfaceMethodref:
		e := memberRef(cp, v.ClassIndex, v.NameAndTypeIndex)
		e.Kind = bytecode.KindInterfaceMethodref
		return e
	case *parser.ConstantNameAndType:
		return bytecode.ConstantPoolEntry{
			Kind:       bytecode.KindNameAndType,
			MemberName: utf8(cp, v.NameIndex),
			Descriptor: utf8(cp, v.DescriptorIndex),
		}
	case *parser.ConstantInvokeDynamic:
		name, desc := nameAndType(cp, v.NameAndTypeIndex)
		return bytecode.ConstantPoolEntry{
			Kind:           bytecode.KindInvokeDynamic,
			BootstrapIndex: int(v.BootstrapMethodAttrIndex),
			MemberName:     name,
			Descriptor:     desc,
		}
	}
	return bytecode.ConstantPoolEntry{}
}

func memberRef(cp *parser.ConstantPool, classIndex, natIndex uint16) bytecode.ConstantPoolEntry {
	class, err := cp.GetClassName(classIndex)
	if err != nil {
		class = ""
	}
	name, desc := nameAndType(cp, natIndex)
	return bytecode.ConstantPoolEntry{ClassName: class, MemberName: name, Descriptor: desc}
}

func nameAndType(cp *parser.ConstantPool, index uint16) (name, desc string) {
	if index == 0 || int(index) > len(cp.Constants) {
		return "", ""
	}
	nat, ok := cp.Constants[index-1].(*parser.ConstantNameAndType)
	if !ok {
		return "", ""
	}
	return utf8(cp, nat.NameIndex), utf8(cp, nat.DescriptorIndex)
}

func utf8(cp *parser.ConstantPool, index uint16) string {
	if index == 0 || int(index) > len(cp.Constants) {
		return ""
	}
	if s, ok := cp.Constants[index-1].(*parser.ConstantUtf8); ok {
		return decodeModifiedUTF8(s.Bytes)
	}
	return ""
}

// accInterface is not exported by the parser.
const accInterface = 0x0200

func classAccessFlags(flags parser.AccessFlags) []string {
	var out []string
	if flags.Is(parser.ACC_PUBLIC) {
		out = append(out, "public")
	}
	if flags.Is(parser.ACC_FINAL) {
		out = append(out, "final")
	}
	if flags.Is(parser.ACC_ABSTRACT) && !flags.Is(accInterface) {
		out = append(out, "abstract")
	}
	if flags.Is(parser.ACC_SYNTHETIC) {
		out = append(out, "synthetic")
	}
	switch {
	case flags.Is(parser.ACC_ANNOTATION):
		out = append(out, "@interface")
	case flags.Is(parser.ACC_ENUM):
		out = append(out, "enum")
	case flags.Is(accInterface):
		out = append(out, "interface")
	default:
		out = append(out, "class")
	}
	return out
}

func methodAccessFlags(flags parser.AccessFlags) []string {
	var out []string
	if flags.Is(parser.ACC_PUBLIC) {
		out = append(out, "public")
	}
	if flags.Is(parser.ACC_PRIVATE) {
		out = append(out, "private")
	}
	if flags.Is(parser.ACC_PROTECTED) {
		out = append(out, "protected")
	}
	if flags.Is(parser.ACC_STATIC) {
		out = append(out, "static")
	}
	if flags.Is(parser.ACC_FINAL) {
		out = append(out, "final")
	}
	if flags.Is(parser.ACC_SYNCHRONIZED) {
		out = append(out, "synchronized")
	}
	if flags.Is(parser.ACC_BRIDGE) {
		out = append(out, "bridge")
	}
	if flags.Is(parser.ACC_VARARGS) {
		out = append(out, "varargs")
	}
	if flags.Is(parser.ACC_NATIVE) {
		out = append(out, "native")
	}
	if flags.Is(parser.ACC_ABSTRACT) {
		out = append(out, "abstract")
	}
	if flags.Is(parser.ACC_STRICT) {
		out = append(out, "strictfp")
	}
	if flags.Is(parser.ACC_SYNTHETIC) {
		out = append(out, "synthetic")
	}
	return out
}
