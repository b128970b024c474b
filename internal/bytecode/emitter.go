package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"jdisasm/internal/disasm"
)

// caseIndent is the number of indentation units added to switch case lines.
const caseIndent = 3

// RenderContext is the fixed configuration of one method body rendering.
// Build a new one for every method; it is never modified once created.
type RenderContext struct {
	lineSeparator string
	indent        string
	level         int
	codeLength    int
	pcWidth       int
	compact       bool
}

// Option configures a RenderContext.
type Option func(*RenderContext)

// WithLineSeparator sets the line terminator. The default is "\n".
func WithLineSeparator(sep string) Option {
	return func(c *RenderContext) { c.lineSeparator = sep }
}

// WithIndent sets the indentation unit. The default is two spaces.
func WithIndent(unit string) Option {
	return func(c *RenderContext) { c.indent = unit }
}

// WithLevel sets how many indentation units precede every line.
func WithLevel(level int) Option {
	return func(c *RenderContext) {
		if level >= 0 {
			c.level = level
		}
	}
}

// WithCompact enables simple class names.
func WithCompact(compact bool) Option {
	return func(c *RenderContext) { c.compact = compact }
}

// NewRenderContext returns the context for a method whose code attribute
// is codeLength bytes long.
func NewRenderContext(codeLength int, opts ...Option) RenderContext {
	c := RenderContext{
		lineSeparator: "\n",
		indent:        "  ",
		codeLength:    codeLength,
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.pcWidth = len(strconv.Itoa(codeLength))
	return c
}

func (c RenderContext) LineSeparator() string { return c.lineSeparator }
func (c RenderContext) Indent() string        { return c.indent }
func (c RenderContext) Level() int            { return c.level }
func (c RenderContext) CodeLength() int       { return c.codeLength }
func (c RenderContext) Compact() bool         { return c.compact }

// PCWidth is the digit count of the code length, the width of the pc column.
func (c RenderContext) PCWidth() int { return c.pcWidth }

// Emitter appends formatted lines to a caller-owned buffer. It is not safe
// for concurrent use.
type Emitter struct {
	ctx   RenderContext
	out   *strings.Builder
	lines disasm.Stream
}

// NewEmitter returns an emitter writing to out.
func NewEmitter(ctx RenderContext, out *strings.Builder) *Emitter {
	return &Emitter{ctx: ctx, out: out}
}

// Context returns the render context.
func (e *Emitter) Context() RenderContext { return e.ctx }

// Lines returns every line emitted so far.
func (e *Emitter) Lines() disasm.Stream { return e.lines }

// Emit appends one instruction line. An empty operand is omitted along
// with its leading space.
func (e *Emitter) Emit(pc int, mnemonic, operand string) {
	var b strings.Builder
	b.WriteString(strings.Repeat(e.ctx.indent, e.ctx.level))
	fmt.Fprintf(&b, "%*d", e.ctx.pcWidth, pc)
	b.WriteString(e.ctx.indent)
	b.WriteString(mnemonic)
	if operand != "" {
		b.WriteByte(' ')
		b.WriteString(operand)
	}
	e.write(disasm.Line{
		PC:       pc,
		HasPC:    true,
		Mnemonic: mnemonic,
		Operand:  operand,
		Indent:   e.ctx.level,
		Text:     b.String(),
	})
}

// EmitSwitchCase appends one switch arm, indented three units past the
// base level and without a pc column.
func (e *Emitter) EmitSwitchCase(key int32, target int) {
	level := e.ctx.level + caseIndent
	operand := fmt.Sprintf("%d: %d", key, target)
	e.write(disasm.Line{
		Mnemonic: "case",
		Operand:  operand,
		Indent:   level,
		Text:     strings.Repeat(e.ctx.indent, level) + "case " + operand,
	})
}

func (e *Emitter) write(l disasm.Line) {
	e.out.WriteString(l.Text)
	e.out.WriteString(e.ctx.lineSeparator)
	e.lines = append(e.lines, l)
}
