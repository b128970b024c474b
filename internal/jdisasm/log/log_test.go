package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupAndRecover(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "jdisasm.log")
	Setup(logFile, true)
	if !Initialized() {
		t.Fatal("Initialized() = false after Setup")
	}

	cleaned := false
	func() {
		defer RecoverPanic("worker", func() { cleaned = true })
		panic("boom")
	}()
	if !cleaned {
		t.Error("cleanup did not run")
	}

	slog.Debug("after panic")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Panic in worker") || !strings.Contains(out, "after panic") {
		t.Errorf("unexpected log contents:\n%s", out)
	}
}
