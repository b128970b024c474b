package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof" // profiling

	"jdisasm/internal/jdisasm/cmd"
	"jdisasm/internal/jdisasm/log"
)

const defaultProfileAddr = "localhost:6060"

// profileAddr reads JDISASM_PROFILE. Any value enables the pprof server; a
// value containing a colon is used as its listen address.
func profileAddr() (string, bool) {
	v := os.Getenv("JDISASM_PROFILE")
	if v == "" {
		return "", false
	}
	if strings.Contains(v, ":") {
		return v, true
	}
	return defaultProfileAddr, true
}

func main() {
	defer log.RecoverPanic("jdisasm", func() {
		slog.Error("jdisasm terminated due to unhandled panic")
		os.Exit(2)
	})

	if addr, ok := profileAddr(); ok {
		go func() {
			slog.Info("Serving jdisasm pprof", "addr", addr)
			if httpErr := http.ListenAndServe(addr, nil); httpErr != nil {
				slog.Error("Failed to start jdisasm pprof server", "addr", addr, "error", httpErr)
			}
		}()
	}

	cmd.Execute()
}
