//go:build js && wasm

package logging

import (
	"log/slog"
	"strings"
	"syscall/js"
)

// consoleWriter forwards each log line to the browser console.
type consoleWriter struct {
	console js.Value
}

func (w consoleWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	method := "log"
	switch {
	case strings.Contains(line, "level=ERROR"):
		method = "error"
	case strings.Contains(line, "level=WARN"):
		method = "warn"
	case strings.Contains(line, "level=DEBUG"):
		method = "debug"
	}
	w.console.Call(method, "[marginalia] "+line)
	return len(p), nil
}

// NewConsole creates a logger that writes to the browser console.
func NewConsole(level slog.Level) *slog.Logger {
	return NewWithWriter(consoleWriter{console: js.Global().Get("console")}, level)
}
