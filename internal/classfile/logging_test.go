package classfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	return len(entries)
}

func TestDebugLogFilesAreClosed(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JDISASM_LOG_LEVEL", "debug")
	t.Setenv("JDISASM_LOG_TO_FILE", "1")

	b := newClassBuilder("demo/Broken", "java/lang/Object")
	b.method(0x0001, "bad", "()V", []byte{0x00, 0xcb})
	data := b.bytes()

	before := openFiles(t)
	for range 20 {
		c, err := Parse(data)
		require.NoError(t, err)
		listings, err := Disassemble(c, DefaultOptions())
		require.NoError(t, err)
		require.NotEmpty(t, listings[0].Error)
	}
	require.LessOrEqual(t, openFiles(t), before)

	logs, err := filepath.Glob("jdisasm-*-debug.log")
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	var content string
	for _, name := range logs {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		content += string(data)
	}
	require.Contains(t, content, "loaded class")
	require.Contains(t, content, "partial method body")
}
