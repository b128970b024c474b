package cmd

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// emptyClass returns the bytes of a class with a single constructor
// running aload_0; return.
func emptyClass(name string) []byte {
	var out bytes.Buffer
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }
	utf8 := func(s string) {
		w(uint8(1))
		w(uint16(len(s)))
		out.WriteString(s)
	}

	w(uint32(0xcafebabe))
	w(uint16(0))  // minor
	w(uint16(52)) // major
	w(uint16(8))  // pool count

	// #1 this name, #2 this, #3 super name, #4 super
	utf8(name)
	w(uint8(7))
	w(uint16(1))
	utf8("java/lang/Object")
	w(uint8(7))
	w(uint16(3))
	// #5..#7
	utf8("Code")
	utf8("<init>")
	utf8("()V")

	w(uint16(0x0021)) // public super
	w(uint16(2))      // this
	w(uint16(4))      // super
	w(uint16(0))      // interfaces
	w(uint16(0))      // fields
	w(uint16(1))      // methods
	w(uint16(0x0001))
	w(uint16(6))
	w(uint16(7))
	w(uint16(1)) // attributes
	w(uint16(5))
	w(uint32(2 + 2 + 4 + 2 + 2 + 2))
	w(uint16(1)) // max stack
	w(uint16(1)) // max locals
	w(uint32(2))
	out.Write([]byte{0x2a, 0xb1})
	w(uint16(0)) // exception table
	w(uint16(0)) // attributes
	w(uint16(0)) // class attributes
	return out.Bytes()
}

func writeClass(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.Base(name)+".class")
	require.NoError(t, os.WriteFile(path, emptyClass(name), 0o644))
	return path
}

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRenderFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestConfigFromFlags(t *testing.T) {
	cfg, err := configFromFlags(newFlagCommand(t))
	require.NoError(t, err)
	require.Equal(t, Config{Indent: "  ", TabLevel: 1, Theme: "dark", Methods: []string{}}, normalize(cfg))

	cfg, err = configFromFlags(newFlagCommand(t, "-c", "--indent", "\t", "--tab-level", "0", "--crlf", "-m", "main", "-m", "<init>", "--theme", "charm"))
	require.NoError(t, err)
	require.Equal(t, Config{
		Compact:  true,
		Indent:   "\t",
		TabLevel: 0,
		CRLF:     true,
		Methods:  []string{"main", "<init>"},
		Theme:    "charm",
	}, cfg)

	opts := cfg.Options()
	require.Equal(t, "\r\n", opts.LineSeparator())
	require.Equal(t, []string{"main", "<init>"}, opts.Methods)

	_, err = configFromFlags(newFlagCommand(t, "--tab-level=-1"))
	require.ErrorContains(t, err, "must not be negative")

	_, err = configFromFlags(newFlagCommand(t, "--theme", "solarized"))
	require.ErrorContains(t, err, `unknown theme "solarized"`)
}

func normalize(cfg Config) Config {
	if cfg.Methods == nil {
		cfg.Methods = []string{}
	}
	return cfg
}

// captureStdout runs fn with os.Stdout redirected to a pipe.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), runErr
}

func TestRunNoTUI(t *testing.T) {
	t.Setenv("JDISASM_NO_COLOR", "1")
	path := writeClass(t, t.TempDir(), "demo/Empty")

	cfg := Config{Indent: "  ", TabLevel: 1, Theme: "dark"}
	out, err := captureStdout(t, func() error { return runNoTUI(os.Stdout, path, cfg) })
	require.NoError(t, err)

	want := strings.Join([]string{
		"public class demo.Empty extends java.lang.Object",
		"  // version 52.0 (Java 8)",
		"",
		"public <init>() : void",
		"  // max stack 1, max locals 1, code length 2",
		"  0  aload_0",
		"  1  return",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNoTUIMethodFilter(t *testing.T) {
	t.Setenv("JDISASM_NO_COLOR", "1")
	path := writeClass(t, t.TempDir(), "demo/Empty")

	cfg := Config{Indent: "  ", TabLevel: 1, Methods: []string{"main"}}
	var buf bytes.Buffer
	err := runNoTUI(&buf, path, cfg)
	require.ErrorContains(t, err, "no matching method")
	require.Empty(t, buf.String())
}

func TestRunJSON(t *testing.T) {
	path := writeClass(t, t.TempDir(), "demo/Empty")

	var buf bytes.Buffer
	require.NoError(t, runJSON(&buf, path, Config{Indent: "  ", TabLevel: 0, Compact: true}))

	var out []JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "public class Empty extends Object", out[0].Header)
	require.Equal(t, "demo/Empty", out[0].Class.Name)
	require.Len(t, out[0].Methods, 1)

	m := out[0].Methods[0]
	require.Equal(t, "<init>", m.Name)
	require.Equal(t, []string{"aload_0", "return"}, m.Lines.Mnemonics())
	require.Equal(t, "0  aload_0", m.Lines[0].Text)
	require.Empty(t, m.Text)
}

func TestRunMarkdownPlain(t *testing.T) {
	t.Setenv("JDISASM_NO_COLOR", "1")
	path := writeClass(t, t.TempDir(), "demo/Empty")

	var buf bytes.Buffer
	require.NoError(t, runMarkdown(&buf, path, Config{Indent: "  ", TabLevel: 1, Theme: "dark"}))
	out := buf.String()
	require.Contains(t, out, "# public class demo.Empty extends java.lang.Object")
	require.Contains(t, out, "## `public <init>() : void`")
	require.Contains(t, out, "```jvm-bytecode\n  0  aload_0\n  1  return\n```")
}

func TestRunFiles(t *testing.T) {
	t.Setenv("JDISASM_NO_COLOR", "1")
	dir := t.TempDir()
	a := writeClass(t, dir, "demo/A")
	b := writeClass(t, dir, "demo/B")
	missing := filepath.Join(dir, "Missing.class")

	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "run"}
	cmd.SetOut(&buf)

	err := runFiles(cmd, []string{a, missing, b}, Config{Indent: "  ", TabLevel: 1}, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), missing)
	require.Equal(t, 2, strings.Count(buf.String(), "  0  aload_0\n"))
	require.NotContains(t, buf.String(), "// file")
}

func TestConfigSchema(t *testing.T) {
	bts, err := configSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(bts, &schema))
	require.Contains(t, string(bts), `"tabLevel"`)
	require.Contains(t, string(bts), `"compact"`)
	require.Contains(t, string(bts), `"Tab Level"`)
}

func TestRunStrings(t *testing.T) {
	path := writeClass(t, t.TempDir(), "demo/Empty")

	var buf bytes.Buffer
	require.NoError(t, runStrings(&buf, path, 0, false))
	require.Empty(t, buf.String())

	buf.Reset()
	require.NoError(t, runStrings(&buf, path, 0, true))
	require.JSONEq(t, `[{"class": "demo/Empty", "strings": null}]`, buf.String())
}
