package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"jdisasm/internal/classfile"
	"jdisasm/internal/jdisasm/styles"
	"jdisasm/internal/ui/colorize"
)

// JSONOutput is the machine readable listing of one class.
type JSONOutput struct {
	Origin  string                    `json:"origin"`
	Class   *classfile.Class          `json:"class"`
	Header  string                    `json:"header"`
	Methods []classfile.MethodListing `json:"methods"`
}

// sanitizeForJSON cleans a string to be valid UTF-8 and safe for JSON encoding
func sanitizeForJSON(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

// disassembleAll loads path and renders every class in it. A method filter
// that matches nothing in one class of an archive is only an error when it
// matches nothing anywhere.
func disassembleAll(path string, cfg Config) ([]*classfile.Class, [][]classfile.MethodListing, error) {
	classes, err := classfile.LoadPath(path)
	if err != nil {
		return nil, nil, err
	}
	opts := cfg.Options()

	var (
		kept     []*classfile.Class
		listings [][]classfile.MethodListing
		lastErr  error
	)
	for _, c := range classes {
		ls, err := classfile.Disassemble(c, opts)
		if err != nil {
			if errors.Is(err, classfile.ErrNoMethod) && len(classes) > 1 {
				lastErr = err
				continue
			}
			return nil, nil, err
		}
		kept = append(kept, c)
		listings = append(listings, ls)
	}
	if len(kept) == 0 && lastErr != nil {
		return nil, nil, fmt.Errorf("%w in %s: %s", classfile.ErrNoMethod, path, strings.Join(opts.Methods, ", "))
	}
	slog.Debug("Disassembled", "path", path, "classes", len(kept))
	return kept, listings, nil
}

func runJSON(w io.Writer, path string, cfg Config) error {
	classes, listings, err := disassembleAll(path, cfg)
	if err != nil {
		return err
	}

	out := make([]JSONOutput, len(classes))
	for i, c := range classes {
		ls := listings[i]
		for j := range ls {
			ls[j].Header = sanitizeForJSON(ls[j].Header)
			for k := range ls[j].Lines {
				ls[j].Lines[k].Operand = sanitizeForJSON(ls[j].Lines[k].Operand)
				ls[j].Lines[k].Text = sanitizeForJSON(ls[j].Lines[k].Text)
			}
		}
		out[i] = JSONOutput{
			Origin:  c.Origin,
			Class:   c,
			Header:  classfile.ClassHeader(c, cfg.Compact),
			Methods: ls,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func runNoTUI(w io.Writer, path string, cfg Config) error {
	classes, listings, err := disassembleAll(path, cfg)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	sep := opts.LineSeparator()

	for i, c := range classes {
		if i > 0 {
			fmt.Fprint(w, sep)
		}
		if len(classes) > 1 {
			fmt.Fprintf(w, "// %s%s", c.Origin, sep)
		}
		text := classfile.Format(c, listings[i], opts)
		highlighted, err := colorize.Highlight(text)
		if err != nil {
			slog.Debug("Highlight failed", "error", err)
			highlighted = text
		}
		fmt.Fprint(w, highlighted)
	}
	return nil
}

func runMarkdown(w io.Writer, path string, cfg Config) error {
	classes, listings, err := disassembleAll(path, cfg)
	if err != nil {
		return err
	}

	var md strings.Builder
	for i, c := range classes {
		md.WriteString(classMarkdown(c, listings[i], cfg))
		md.WriteString("\n")
	}

	if !colorize.Enabled() {
		fmt.Fprint(w, md.String())
		return nil
	}

	renderer, err := styles.GetMarkdownRenderer(100, cfg.Theme)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(md.String())
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Fprint(w, rendered)
	return nil
}

// classMarkdown renders a class summary followed by one fenced listing per
// method. Fences are tagged with the bytecode lexer name so glamour
// highlights them.
func classMarkdown(c *classfile.Class, listings []classfile.MethodListing, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeBackticks(classfile.ClassHeader(c, cfg.Compact)))
	if c.Origin != "" {
		fmt.Fprintf(&b, "- **origin:** `%s`\n", escapeBackticks(c.Origin))
	}
	if c.SourceFile != "" {
		fmt.Fprintf(&b, "- **source:** `%s`\n", escapeBackticks(c.SourceFile))
	}
	fmt.Fprintf(&b, "- **version:** %d.%d (Java %s)\n", c.MajorVersion, c.MinorVersion, c.JavaVersion())
	fmt.Fprintf(&b, "- **methods:** %d\n", len(c.Methods))

	for _, l := range listings {
		fmt.Fprintf(&b, "\n## `%s`\n\n", escapeBackticks(l.Header))
		if l.Text == "" && l.Error == "" {
			b.WriteString("_no code_\n")
			continue
		}
		fmt.Fprintf(&b, "max stack %d, max locals %d, code length %d\n\n", l.MaxStack, l.MaxLocals, l.CodeLength)
		fmt.Fprintf(&b, "```%s\n", colorize.LexerName)
		b.WriteString(strings.ReplaceAll(l.Text, "\r\n", "\n"))
		b.WriteString("```\n")
		if l.Error != "" {
			fmt.Fprintf(&b, "\n**error:** %s\n", l.Error)
		}
	}
	return b.String()
}

func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
