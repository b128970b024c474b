package classfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrings(t *testing.T) {
	b := newClassBuilder("demo/Strings", "java/lang/Object")
	short := b.str("a")
	tab := b.str("x\ty")
	b.utf8("not a String entry")
	c, err := Parse(b.bytes())
	require.NoError(t, err)

	got := Strings(c, 0)
	require.Equal(t, []StringConstant{
		{Index: int(short), Value: "a"},
		{Index: int(tab), Value: "x\ty"},
	}, got)
	require.Equal(t, `"x\ty"`, got[1].Quoted())

	require.Len(t, Strings(c, 2), 1)
	require.Empty(t, Strings(c, 10))
}
