package classfile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"jdisasm/internal/bytecode"
	"jdisasm/internal/disasm"
	"jdisasm/internal/logging"
)

// ErrNoMethod is returned when a method filter matches nothing.
var ErrNoMethod = errors.New("no matching method")

// Options controls how method bodies are rendered.
type Options struct {
	Compact  bool
	Indent   string
	TabLevel int
	CRLF     bool
	// Methods limits output to methods with these names. Empty means all.
	Methods []string
}

// DefaultOptions returns the settings used when no flags are given.
func DefaultOptions() Options {
	return Options{Indent: "  ", TabLevel: 1}
}

// LineSeparator returns the configured line terminator.
func (o Options) LineSeparator() string {
	if o.CRLF {
		return "\r\n"
	}
	return "\n"
}

func (o Options) renderContext(codeLength int) bytecode.RenderContext {
	opts := []bytecode.Option{
		bytecode.WithLineSeparator(o.LineSeparator()),
		bytecode.WithLevel(o.TabLevel),
		bytecode.WithCompact(o.Compact),
	}
	if o.Indent != "" {
		opts = append(opts, bytecode.WithIndent(o.Indent))
	}
	return bytecode.NewRenderContext(codeLength, opts...)
}

// MethodListing is the rendered body of one method.
type MethodListing struct {
	Name        string        `json:"name"`
	Descriptor  string        `json:"descriptor"`
	Header      string        `json:"header"`
	AccessFlags []string      `json:"accessFlags"`
	MaxStack    int           `json:"maxStack"`
	MaxLocals   int           `json:"maxLocals"`
	CodeLength  int           `json:"codeLength"`
	Text        string        `json:"-"`
	Lines       disasm.Stream `json:"lines"`

	// Error is set when the code could only be decoded partially.
	Error string `json:"error,omitempty"`
}

// Disassemble renders every method of c that passes the filter. A method
// whose code is malformed is rendered up to the failing instruction and
// has its Error set.
func Disassemble(c *Class, opts Options) ([]MethodListing, error) {
	resolver := bytecode.Resolver{Compact: opts.Compact}

	var listings []MethodListing
	for _, m := range c.Methods {
		if len(opts.Methods) > 0 && !slices.Contains(opts.Methods, m.Name) {
			continue
		}
		listing := MethodListing{
			Name:        m.Name,
			Descriptor:  m.Descriptor,
			Header:      methodHeader(resolver, m),
			AccessFlags: m.AccessFlags,
			MaxStack:    m.MaxStack,
			MaxLocals:   m.MaxLocals,
			CodeLength:  len(m.Code),
		}
		if m.Code != nil {
			listing.Text, listing.Lines, listing.Error = renderCode(c.Pool, m.Code, opts)
			if listing.Error != "" && logging.IsDebug() {
				lg := logging.NewLogger()
				lg.Debug("partial method body",
					"class", c.Name,
					"method", m.Name,
					"error", listing.Error)
				lg.Close()
			}
		}
		listings = append(listings, listing)
	}
	if len(opts.Methods) > 0 && len(listings) == 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrNoMethod, c.Name, strings.Join(opts.Methods, ", "))
	}
	return listings, nil
}

func renderCode(pool bytecode.ConstantPool, code []byte, opts Options) (string, disasm.Stream, string) {
	insts, err := Decode(code)

	var b strings.Builder
	e := bytecode.NewEmitter(opts.renderContext(len(code)), &b)
	bytecode.NewDecoder(pool, e).RenderAll(insts)

	if err != nil {
		return b.String(), e.Lines(), err.Error()
	}
	return b.String(), e.Lines(), ""
}

func methodHeader(r bytecode.Resolver, m Method) string {
	sig := r.MethodHeader(m.Name, m.Descriptor)
	if len(m.AccessFlags) == 0 {
		return sig
	}
	return strings.Join(m.AccessFlags, " ") + " " + sig
}

// ClassHeader renders the declaration line of c, for example
// "public class com.example.Foo extends java.lang.Object".
func ClassHeader(c *Class, compact bool) string {
	r := bytecode.Resolver{Compact: compact}
	var b strings.Builder
	b.WriteString(strings.Join(c.AccessFlags, " "))
	b.WriteByte(' ')
	b.WriteString(r.QualifiedName(c.Name))
	if c.SuperName != "" {
		b.WriteString(" extends ")
		b.WriteString(r.QualifiedName(c.SuperName))
	}
	if len(c.Interfaces) > 0 {
		names := make([]string, len(c.Interfaces))
		for i, n := range c.Interfaces {
			names[i] = r.QualifiedName(n)
		}
		b.WriteString(" implements ")
		b.WriteString(strings.Join(names, ", "))
	}
	return strings.TrimSpace(b.String())
}

// Format renders a whole class listing as plain text.
func Format(c *Class, listings []MethodListing, opts Options) string {
	sep := opts.LineSeparator()
	var b strings.Builder
	b.WriteString(ClassHeader(c, opts.Compact))
	b.WriteString(sep)
	if c.SourceFile != "" {
		fmt.Fprintf(&b, "  // compiled from %s%s", c.SourceFile, sep)
	}
	fmt.Fprintf(&b, "  // version %d.%d (Java %s)%s", c.MajorVersion, c.MinorVersion, c.JavaVersion(), sep)
	for _, l := range listings {
		b.WriteString(sep)
		b.WriteString(l.Header)
		b.WriteString(sep)
		if l.Text == "" && l.Error == "" {
			continue
		}
		fmt.Fprintf(&b, "  // max stack %d, max locals %d, code length %d%s", l.MaxStack, l.MaxLocals, l.CodeLength, sep)
		b.WriteString(l.Text)
		if l.Error != "" {
			fmt.Fprintf(&b, "  // error: %s%s", l.Error, sep)
		}
	}
	return b.String()
}
