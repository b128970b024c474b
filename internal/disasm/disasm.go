// Package disasm defines the structured line representation shared by the
// bytecode renderer, the JSON output and the interactive viewer.
package disasm

// Line is one emitted disassembly line.
type Line struct {
	PC       int    `json:"pc"`                // program counter, meaningless when HasPC is false
	HasPC    bool   `json:"hasPc"`             // false for switch case lines
	Mnemonic string `json:"mnemonic"`          // opcode name, or "case" for switch entries
	Operand  string `json:"operand,omitempty"` // resolved operand text
	Indent   int    `json:"indent"`            // indentation units preceding the line
	Text     string `json:"text"`              // the rendered line without its terminator
}

// Stream is a linear sequence of lines for one method body.
type Stream []Line

// Mnemonics returns the mnemonic of every line that carries a pc.
func (s Stream) Mnemonics() []string {
	out := make([]string, 0, len(s))
	for _, l := range s {
		if l.HasPC {
			out = append(out, l.Mnemonic)
		}
	}
	return out
}
