package bytecode

import (
	"strconv"
	"strings"
)

// EmptyClassName stands in for a Class entry whose name is unset.
const EmptyClassName = `""`

// Resolver turns constant pool entries into display text.
type Resolver struct {
	// Compact shortens class names to their simple name.
	Compact bool
}

// ClassName renders the name of a Class entry. Array classes are expanded
// from their descriptor form, so [[Ljava/lang/String; becomes
// java.lang.String[][].
func (r Resolver) ClassName(e ConstantPoolEntry) string {
	name := e.ClassInfoName
	if name == "" {
		return EmptyClassName
	}
	if name[0] == '[' {
		t, err := ParseFieldType(name)
		if err != nil {
			return r.QualifiedName(name)
		}
		return r.TypeName(t)
	}
	return r.QualifiedName(name)
}

// QualifiedName converts an internal class name to dotted form, or to its
// last segment in compact mode.
func (r Resolver) QualifiedName(name string) string {
	if name == "" {
		return EmptyClassName
	}
	if r.Compact {
		if i := strings.LastIndexAny(name, "/."); i >= 0 {
			return name[i+1:]
		}
		return name
	}
	return strings.ReplaceAll(name, "/", ".")
}

// TypeName renders a parsed descriptor type.
func (r Resolver) TypeName(t Type) string {
	name := t.Name
	if !t.Primitive {
		name = r.QualifiedName(name)
	}
	return name + strings.Repeat("[]", t.Dims)
}

// FieldType renders a field descriptor, falling back to the raw text when
// it cannot be parsed.
func (r Resolver) FieldType(desc string) string {
	t, err := ParseFieldType(desc)
	if err != nil {
		return desc
	}
	return r.TypeName(t)
}

// FieldSignature renders a field reference as Class.name : type.
func (r Resolver) FieldSignature(e ConstantPoolEntry) string {
	return r.QualifiedName(e.ClassName) + "." + e.MemberName + " : " + r.FieldType(e.Descriptor)
}

// MethodSignature renders a method reference as Class.name(params) : return.
func (r Resolver) MethodSignature(e ConstantPoolEntry) string {
	return r.QualifiedName(e.ClassName) + "." + r.memberSignature(e.MemberName, e.Descriptor)
}

// DynamicSignature renders the call site of an invokedynamic entry, which
// has no declaring class.
func (r Resolver) DynamicSignature(e ConstantPoolEntry) string {
	return r.memberSignature(e.MemberName, e.Descriptor)
}

// MethodHeader renders a method declared in the class being disassembled.
func (r Resolver) MethodHeader(name, desc string) string {
	return r.memberSignature(name, desc)
}

func (r Resolver) memberSignature(name, desc string) string {
	mt, err := ParseMethodDescriptor(desc)
	if err != nil {
		return name + desc
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range mt.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.TypeName(p))
	}
	b.WriteString(") : ")
	b.WriteString(r.TypeName(mt.Return))
	return b.String()
}

// Literal renders the value of a String, Integer, Float, Long or Double
// entry. ok is false for every other kind.
func (r Resolver) Literal(e ConstantPoolEntry) (text string, ok bool) {
	switch e.Kind {
	case KindString:
		return `"` + EscapeString(e.StringValue) + `"`, true
	case KindInteger:
		return strconv.FormatInt(int64(e.IntValue), 10), true
	case KindFloat:
		return FormatFloat(float64(e.FloatValue), 32), true
	case KindLong:
		return strconv.FormatInt(e.LongValue, 10), true
	case KindDouble:
		return FormatFloat(e.DoubleValue, 64), true
	}
	return "", false
}
