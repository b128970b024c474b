package bytecode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadDescriptor is returned for descriptors that do not follow the JVM grammar.
var ErrBadDescriptor = errors.New("malformed descriptor")

// Type is a parsed field type. Name is either a primitive keyword (int,
// boolean, ...) or a class name in internal form; Dims counts array levels.
type Type struct {
	Name      string
	Dims      int
	Primitive bool
}

// MethodType is a parsed method descriptor.
type MethodType struct {
	Params []Type
	Return Type
}

var primitives = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// ParseFieldType parses a single field descriptor such as I, [[J or
// Ljava/util/Map$Entry;. Nested class separators are kept as they are.
func ParseFieldType(desc string) (Type, error) {
	t, n, err := parseType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if n != len(desc) {
		return Type{}, fmt.Errorf("%w: trailing data in %q", ErrBadDescriptor, desc)
	}
	return t, nil
}

// ParseMethodDescriptor parses a descriptor such as (ILjava/lang/String;)V.
func ParseMethodDescriptor(desc string) (MethodType, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodType{}, fmt.Errorf("%w: %q does not start with '('", ErrBadDescriptor, desc)
	}
	var mt MethodType
	pos := 1
	for {
		if pos >= len(desc) {
			return MethodType{}, fmt.Errorf("%w: unterminated parameter list in %q", ErrBadDescriptor, desc)
		}
		if desc[pos] == ')' {
			pos++
			break
		}
		t, next, err := parseType(desc, pos)
		if err != nil {
			return MethodType{}, err
		}
		mt.Params = append(mt.Params, t)
		pos = next
	}
	ret, next, err := parseType(desc, pos)
	if err != nil {
		return MethodType{}, err
	}
	if next != len(desc) {
		return MethodType{}, fmt.Errorf("%w: trailing data in %q", ErrBadDescriptor, desc)
	}
	mt.Return = ret
	return mt, nil
}

func parseType(desc string, pos int) (Type, int, error) {
	var t Type
	for pos < len(desc) && desc[pos] == '[' {
		t.Dims++
		pos++
	}
	if pos >= len(desc) {
		return Type{}, pos, fmt.Errorf("%w: missing element type in %q", ErrBadDescriptor, desc)
	}
	c := desc[pos]
	if name, ok := primitives[c]; ok {
		if c == 'V' && t.Dims > 0 {
			return Type{}, pos, fmt.Errorf("%w: array of void in %q", ErrBadDescriptor, desc)
		}
		t.Name = name
		t.Primitive = true
		return t, pos + 1, nil
	}
	if c != 'L' {
		return Type{}, pos, fmt.Errorf("%w: unexpected %q at %d in %q", ErrBadDescriptor, c, pos, desc)
	}
	end := strings.IndexByte(desc[pos:], ';')
	if end <= 1 {
		return Type{}, pos, fmt.Errorf("%w: unterminated class name in %q", ErrBadDescriptor, desc)
	}
	t.Name = desc[pos+1 : pos+end]
	return t, pos + end + 1, nil
}
