package classfile

import "jdisasm/internal/bytecode"

// StringConstant is a String entry of a class constant pool.
type StringConstant struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Quoted returns the value escaped and wrapped in double quotes, as ldc
// operands show it.
func (s StringConstant) Quoted() string {
	return `"` + bytecode.EscapeString(s.Value) + `"`
}

// Strings returns the String constants of c in pool order. Entries shorter
// than minLen runes are skipped.
func Strings(c *Class, minLen int) []StringConstant {
	var out []StringConstant
	for i, e := range c.Pool {
		if e.Kind != bytecode.KindString {
			continue
		}
		if len([]rune(e.StringValue)) < minLen {
			continue
		}
		out = append(out, StringConstant{Index: i, Value: e.StringValue})
	}
	return out
}
