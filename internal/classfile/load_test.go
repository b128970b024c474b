package classfile

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"jdisasm/internal/bytecode"
)

// helloClass builds a class with a main method printing "hi" and a method
// returning a long constant.
func helloClass(name string) []byte {
	b := newClassBuilder(name, "java/lang/Object")
	out := b.fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	hi := b.str("hi")
	printlnRef := b.methodref("java/io/PrintStream", "println", "(Ljava/lang/String;)V")
	b.utf8("main")
	b.utf8("([Ljava/lang/String;)V")
	b.utf8("answer")
	b.utf8("()J")
	b.utf8("run")
	b.utf8("()V")
	answer := b.long(42)

	b.method(0x0009, "main", "([Ljava/lang/String;)V", []byte{
		0xb2, byte(out >> 8), byte(out),
		0x12, byte(hi),
		0xb6, byte(printlnRef >> 8), byte(printlnRef),
		0xb1,
	})
	b.method(0x0002, "answer", "()J", []byte{
		0x14, byte(answer >> 8), byte(answer),
		0xad,
	})
	b.method(0x0401, "run", "()V", nil)
	return b.bytes()
}

func TestLoad(t *testing.T) {
	c, err := Load(bytes.NewReader(helloClass("com/example/Hello")))
	require.NoError(t, err)

	require.Equal(t, "com/example/Hello", c.Name)
	require.Equal(t, "java/lang/Object", c.SuperName)
	require.Equal(t, []string{"public", "class"}, c.AccessFlags)
	require.Equal(t, 52, c.MajorVersion)
	require.Equal(t, "8", c.JavaVersion())
	require.Len(t, c.Methods, 3)

	main := c.Methods[0]
	require.Equal(t, "main", main.Name)
	require.Equal(t, []string{"public", "static"}, main.AccessFlags)
	require.Equal(t, 4, main.MaxStack)
	require.Len(t, main.Code, 9)

	require.Nil(t, c.Methods[2].Code)
	require.Equal(t, []string{"public", "abstract"}, c.Methods[2].AccessFlags)
}

func TestLoadResolvesPool(t *testing.T) {
	b := newClassBuilder("A", "java/lang/Object")
	s := b.str("x")
	i := b.integer(-7)
	f := b.float(1.5)
	m := b.methodref("java/util/Map$Entry", "getKey", "()Ljava/lang/Object;")
	d := b.double(2.5)

	c, err := Parse(b.bytes())
	require.NoError(t, err)

	require.Equal(t, bytecode.StringEntry("x"), c.Pool.Entry(int(s)))
	require.Equal(t, bytecode.IntegerEntry(-7), c.Pool.Entry(int(i)))
	require.Equal(t, bytecode.FloatEntry(1.5), c.Pool.Entry(int(f)))
	require.Equal(t, bytecode.MethodEntry("java/util/Map$Entry", "getKey", "()Ljava/lang/Object;"), c.Pool.Entry(int(m)))
	require.Equal(t, bytecode.DoubleEntry(2.5), c.Pool.Entry(int(d)))
	require.Equal(t, bytecode.ClassEntry("A"), c.Pool.Entry(2))
}

func TestLoadRejectsNonClass(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0xca, 0xfe}},
		{"zip", []byte("PK\x03\x04rest")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrNotClassFile)
		})
	}
}

func TestDisassemble(t *testing.T) {
	c, err := Parse(helloClass("Hello"))
	require.NoError(t, err)

	listings, err := Disassemble(c, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, listings, 3)

	main := listings[0]
	require.Equal(t, "public static main(java.lang.String[]) : void", main.Header)
	want := strings.Join([]string{
		"  0  getstatic java.lang.System.out : java.io.PrintStream",
		`  3  ldc <String "hi">`,
		"  5  invokevirtual java.io.PrintStream.println(java.lang.String) : void",
		"  8  return",
		"",
	}, "\n")
	if diff := cmp.Diff(want, main.Text); diff != "" {
		t.Errorf("main mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"getstatic", "ldc", "invokevirtual", "return"}, main.Lines.Mnemonics())

	require.Equal(t, "  0  ldc2_w <Long 42>\n  3  lreturn\n", listings[1].Text)
	require.Empty(t, listings[2].Text)
}

func TestDisassembleOptions(t *testing.T) {
	c, err := Parse(helloClass("Hello"))
	require.NoError(t, err)

	opts := Options{Compact: true, Indent: "\t", TabLevel: 0, CRLF: true, Methods: []string{"main"}}
	listings, err := Disassemble(c, opts)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, "public static main(String[]) : void", listings[0].Header)
	require.True(t, strings.HasPrefix(listings[0].Text, "0\tgetstatic System.out : PrintStream\r\n"))

	_, err = Disassemble(c, Options{Methods: []string{"missing"}})
	require.ErrorIs(t, err, ErrNoMethod)
}

func TestDisassemblePartialBody(t *testing.T) {
	b := newClassBuilder("Broken", "java/lang/Object")
	b.method(0x0008, "bad", "()V", []byte{0x00, 0xcb, 0xb1})
	c, err := Parse(b.bytes())
	require.NoError(t, err)

	listings, err := Disassemble(c, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "  0  nop\n", listings[0].Text)
	require.Contains(t, listings[0].Error, "unknown opcode")
}

func TestFormat(t *testing.T) {
	b := newClassBuilder("demo/Empty", "java/lang/Object")
	b.method(0x0001, "<init>", "()V", []byte{0x2a, 0xb1})
	c, err := Parse(b.bytes())
	require.NoError(t, err)

	opts := DefaultOptions()
	listings, err := Disassemble(c, opts)
	require.NoError(t, err)

	want := strings.Join([]string{
		"public class demo.Empty extends java.lang.Object",
		"  // version 52.0 (Java 8)",
		"",
		"public <init>() : void",
		"  // max stack 4, max locals 2, code length 2",
		"  0  aload_0",
		"  1  return",
		"",
	}, "\n")
	if diff := cmp.Diff(want, Format(c, listings, opts)); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}
}

func writeJar(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadArchive(t *testing.T) {
	jar := writeJar(t, map[string][]byte{
		"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\n"),
		"b/B.class":            helloClass("b/B"),
		"a/A.class":            helloClass("a/A"),
		"broken.class":         []byte("nope"),
	})

	classes, err := ReadArchive(jar)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.Equal(t, "a/A.class", classes[0].Origin)
	require.Equal(t, "b/B", classes[1].Name)

	_, err = ReadArchive(writeJar(t, map[string][]byte{"README": []byte("x")}))
	require.ErrorIs(t, err, ErrNoClasses)
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	classPath := filepath.Join(dir, "Hello.class")
	require.NoError(t, os.WriteFile(classPath, helloClass("Hello"), 0o644))
	jarPath := filepath.Join(dir, "app.jar")
	require.NoError(t, os.WriteFile(jarPath, writeJar(t, map[string][]byte{"Hello.class": helloClass("Hello")}), 0o644))

	classes, err := LoadPath(classPath)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, classPath, classes[0].Origin)

	classes, err = LoadPath(jarPath)
	require.NoError(t, err)
	require.Equal(t, "Hello.class", classes[0].Origin)

	_, err = LoadPath(filepath.Join(dir, "missing.class"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
