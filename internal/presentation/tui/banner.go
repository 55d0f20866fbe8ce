package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the application banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _ __ ___   __ _ _ __ __ _(_)_ __ (_) __ _ | (_) __ _", "#818cf8"},
		{"| '_ ` _ \\ / _` | '__/ _` | | '_ \\| |/ _` || | |/ _` |", "#a78bfa"},
		{"| | | | | | (_| | | | (_| | | | | | | (_| || | | (_| |", "#c084fc"},
		{"|_| |_| |_|\\__,_|_|  \\__, |_|_| |_|_|\\__,_||_|_|\\__,_|", "#e879f9"},
		{"                     |___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Status formats a short colored status word, e.g. "copied" in green.
func Status(w io.Writer, ok bool, word string) string {
	out := termenv.NewOutput(w)
	color := "#22c55e"
	if !ok {
		color = "#ef4444"
	}
	return out.String(word).Foreground(out.Color(color)).Bold().String()
}
