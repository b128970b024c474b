package bytecode

// Kind identifies the variant held by a ConstantPoolEntry.
type Kind uint8

const (
	KindNone Kind = iota
	KindClass
	KindFieldref
	KindMethodref
	KindInterfaceMethodref
	KindString
	KindInteger
	KindFloat
	KindLong
	KindDouble
	KindNameAndType
	KindInvokeDynamic
)

var kindNames = [...]string{
	KindNone:               "None",
	KindClass:              "Class",
	KindFieldref:           "Fieldref",
	KindMethodref:          "Methodref",
	KindInterfaceMethodref: "InterfaceMethodref",
	KindString:             "String",
	KindInteger:            "Integer",
	KindFloat:              "Float",
	KindLong:               "Long",
	KindDouble:             "Double",
	KindNameAndType:        "NameAndType",
	KindInvokeDynamic:      "InvokeDynamic",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// ConstantPoolEntry is a resolved constant pool slot. Names are kept in
// internal form (java/lang/String) and converted only when rendered.
type ConstantPoolEntry struct {
	Kind Kind

	// ClassInfoName is the name of a Class entry. It may be an array
	// descriptor such as [Ljava/lang/String;.
	ClassInfoName string

	// ClassName, MemberName and Descriptor describe Fieldref, Methodref and
	// InterfaceMethodref entries. MemberName and Descriptor also describe
	// NameAndType and InvokeDynamic entries.
	ClassName  string
	MemberName string
	Descriptor string

	// BootstrapIndex is the bootstrap method attribute index of an
	// InvokeDynamic entry.
	BootstrapIndex int

	StringValue string
	IntValue    int32
	FloatValue  float32
	LongValue   int64
	DoubleValue float64
}

// ConstantPool looks up entries by their constant pool index.
type ConstantPool interface {
	Entry(index int) ConstantPoolEntry
}

// Pool is a ConstantPool backed by a slice indexed by constant pool index.
// Slot 0 and the slot after each Long or Double are unused.
type Pool []ConstantPoolEntry

// Entry returns the entry at index, or the zero entry when out of range.
func (p Pool) Entry(index int) ConstantPoolEntry {
	if index <= 0 || index >= len(p) {
		return ConstantPoolEntry{}
	}
	return p[index]
}

// ClassEntry returns a Class entry.
func ClassEntry(name string) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindClass, ClassInfoName: name}
}

// FieldEntry returns a Fieldref entry.
func FieldEntry(class, name, descriptor string) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindFieldref, ClassName: class, MemberName: name, Descriptor: descriptor}
}

// MethodEntry returns a Methodref entry.
func MethodEntry(class, name, descriptor string) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindMethodref, ClassName: class, MemberName: name, Descriptor: descriptor}
}

// InterfaceMethodEntry returns an InterfaceMethodref entry.
func InterfaceMethodEntry(class, name, descriptor string) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindInterfaceMethodref, ClassName: class, MemberName: name, Descriptor: descriptor}
}

// StringEntry returns a String entry.
func StringEntry(s string) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindString, StringValue: s}
}

// IntegerEntry returns an Integer entry.
func IntegerEntry(v int32) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindInteger, IntValue: v}
}

// FloatEntry returns a Float entry.
func FloatEntry(v float32) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindFloat, FloatValue: v}
}

// LongEntry returns a Long entry.
func LongEntry(v int64) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindLong, LongValue: v}
}

// DoubleEntry returns a Double entry.
func DoubleEntry(v float64) ConstantPoolEntry {
	return ConstantPoolEntry{Kind: KindDouble, DoubleValue: v}
}
