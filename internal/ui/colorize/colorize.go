// Package colorize highlights bytecode listings for the terminal.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

// Enabled reports whether color output is allowed. Setting JDISASM_NO_COLOR
// to any value disables it.
func Enabled() bool {
	return os.Getenv("JDISASM_NO_COLOR") == ""
}

// getStyle returns the bytecode style with fallbacks
func getStyle() *chroma.Style {
	for _, name := range []string{StyleName, "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Highlight colors a full listing. The input is returned unchanged when
// colors are disabled.
func Highlight(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	iterator, err := JVMBytecode.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// HighlightLine colors a single line, falling back to plain text on error.
func HighlightLine(line string) string {
	out, err := Highlight(line)
	if err != nil {
		return line
	}
	return strings.TrimSuffix(out, "\n")
}

// Tokens returns the token stream of code, mostly useful to inspect how a
// listing is classified.
func Tokens(code string) ([]chroma.Token, error) {
	iterator, err := JVMBytecode.Tokenise(nil, code)
	if err != nil {
		return nil, err
	}
	return iterator.Tokens(), nil
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
