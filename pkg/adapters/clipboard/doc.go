// Package clipboard provides ports.Clipboard implementations for the CLI and
// server surfaces: an in-memory recorder, the system clipboard and the
// terminal OSC 52 escape sequence.
package clipboard
