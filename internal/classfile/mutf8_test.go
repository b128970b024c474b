package classfile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jdisasm/internal/bytecode"
)

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"empty", nil, ""},
		{"nul", []byte{'a', 0xc0, 0x80, 'b'}, "a\x00b"},
		{"two byte", []byte{0xc3, 0xa9}, "é"},
		{"three byte", []byte{0xe2, 0x82, 0xac}, "€"},
		{"surrogate pair", []byte{0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}, "😀"},
		{"lone surrogate", []byte{0xed, 0xa0, 0xbd, 'x'}, "�x"},
		{"truncated", []byte{'x', 0xe2, 0x82}, "x��"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, decodeModifiedUTF8(tt.in))
		})
	}
}

func TestLoadModifiedUTF8String(t *testing.T) {
	b := newClassBuilder("demo/Text", "java/lang/Object")
	s := b.str(string([]byte{'a', 0xc0, 0x80, 'b', 0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}))

	c, err := Parse(b.bytes())
	require.NoError(t, err)

	e := c.Pool.Entry(int(s))
	require.Equal(t, "a\x00b😀", e.StringValue)

	text, ok := bytecode.Resolver{}.Literal(e)
	require.True(t, ok)
	require.Equal(t, `"a\0b😀"`, text)
}
