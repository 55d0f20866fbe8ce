package transcode

import "strings"

// CleanCell trims surrounding whitespace and escapes pipe characters.
func CleanCell(text string) string {
	return EscapePipes(strings.TrimSpace(text))
}

// EscapePipes replaces every "|" with "\|".
func EscapePipes(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}

// UnescapePipes is the exact inverse of EscapePipes.
// Every "\|" in an escaped string originates from one "|" of the source, so
// replacing left to right restores it even when the source held backslashes.
func UnescapePipes(text string) string {
	return strings.ReplaceAll(text, `\|`, "|")
}

// PadRow right-pads cells with empty strings up to n.
// Rows already at least n wide are returned unchanged, never truncated.
func PadRow(cells []string, n int) []string {
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells
}
