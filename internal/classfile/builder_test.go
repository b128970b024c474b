package classfile

import (
	"bytes"
	"encoding/binary"
	"math"
)

// classBuilder assembles class file bytes for tests. Every constant is
// appended in call order; long and double take two slots.
type classBuilder struct {
	pool    bytes.Buffer
	next    uint16
	utf8s   map[string]uint16
	this    uint16
	super   uint16
	code    uint16
	methods []builtMethod
}

type builtMethod struct {
	flags      uint16
	name, desc uint16
	code       []byte
}

func newClassBuilder(this, super string) *classBuilder {
	b := &classBuilder{next: 1, utf8s: map[string]uint16{}}
	b.this = b.class(this)
	if super != "" {
		b.super = b.class(super)
	}
	b.code = b.utf8("Code")
	return b
}

func (b *classBuilder) entry(tag byte, payload ...any) uint16 {
	b.pool.WriteByte(tag)
	for _, p := range payload {
		_ = binary.Write(&b.pool, binary.BigEndian, p)
	}
	idx := b.next
	b.next++
	return idx
}

func (b *classBuilder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	idx := b.entry(1, uint16(len(s)), []byte(s))
	b.utf8s[s] = idx
	return idx
}

func (b *classBuilder) class(name string) uint16 {
	n := b.utf8(name)
	return b.entry(7, n)
}

func (b *classBuilder) str(s string) uint16 {
	n := b.utf8(s)
	return b.entry(8, n)
}

func (b *classBuilder) integer(v int32) uint16 { return b.entry(3, v) }

func (b *classBuilder) float(v float32) uint16 { return b.entry(4, math.Float32bits(v)) }

func (b *classBuilder) long(v int64) uint16 {
	idx := b.entry(5, v)
	b.next++
	return idx
}

func (b *classBuilder) double(v float64) uint16 {
	idx := b.entry(6, math.Float64bits(v))
	b.next++
	return idx
}

func (b *classBuilder) nameAndType(name, desc string) uint16 {
	n, d := b.utf8(name), b.utf8(desc)
	return b.entry(12, n, d)
}

func (b *classBuilder) ref(tag byte, class, name, desc string) uint16 {
	c := b.class(class)
	nt := b.nameAndType(name, desc)
	return b.entry(tag, c, nt)
}

func (b *classBuilder) fieldref(class, name, desc string) uint16 {
	return b.ref(9, class, name, desc)
}

func (b *classBuilder) methodref(class, name, desc string) uint16 {
	return b.ref(10, class, name, desc)
}

// method adds a method. A nil code slice produces a method without a Code
// attribute.
func (b *classBuilder) method(flags uint16, name, desc string, code []byte) {
	b.methods = append(b.methods, builtMethod{
		flags: flags,
		name:  b.utf8(name),
		desc:  b.utf8(desc),
		code:  code,
	})
}

func (b *classBuilder) bytes() []byte {
	var out bytes.Buffer
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }

	w(uint32(classMagic))
	w(uint16(0))  // minor
	w(uint16(52)) // major
	w(b.next)
	out.Write(b.pool.Bytes())
	w(uint16(0x0021)) // public super
	w(b.this)
	w(b.super)
	w(uint16(0)) // interfaces
	w(uint16(0)) // fields
	w(uint16(len(b.methods)))
	for _, m := range b.methods {
		w(m.flags)
		w(m.name)
		w(m.desc)
		if m.code == nil {
			w(uint16(0))
			continue
		}
		w(uint16(1))
		w(b.code)
		w(uint32(2 + 2 + 4 + len(m.code) + 2 + 2))
		w(uint16(4)) // max stack
		w(uint16(2)) // max locals
		w(uint32(len(m.code)))
		out.Write(m.code)
		w(uint16(0)) // exception table
		w(uint16(0)) // attributes
	}
	w(uint16(0)) // class attributes
	return out.Bytes()
}
