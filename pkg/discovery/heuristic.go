package discovery

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/marginalia/pkg/ports"
)

// HeuristicName is the name of the fallback strategy.
const HeuristicName = "heuristic"

// HeuristicConfig tunes the fallback strategy.
type HeuristicConfig struct {
	// Candidates selects the elements considered.
	Candidates string
	// MinRunes and MaxRunes are exclusive bounds on the trimmed text length.
	MinRunes int
	MaxRunes int
	// Excluded tokens disqualify a text that contains any of them (case-sensitive).
	Excluded []string
	// Containers selects plausible conversation containers.
	Containers string
	// ClassHints qualify an element outside a container by class name substring.
	ClassHints []string
}

// DefaultHeuristic returns the tuning the fallback ships with.
func DefaultHeuristic() HeuristicConfig {
	return HeuristicConfig{
		Candidates: "p, div, span",
		MinRunes:   10,
		MaxRunes:   1000,
		Excluded:   []string{"Gemini", "Google", "AI"},
		Containers: `[role="main"], .conversation, .chat, main`,
		ClassHints: []string{"user", "prompt", "query"},
	}
}

// HeuristicStrategy matches short leaf texts inside a conversation container,
// or carrying a user/prompt/query class hint, that do not mention a product token.
func HeuristicStrategy(cfg HeuristicConfig) Strategy {
	return Strategy{
		Name: HeuristicName,
		Find: func(root ports.Node) []Turn {
			var turns []Turn
			for _, n := range root.QueryAll(cfg.Candidates) {
				if len(n.Children()) > 0 || owned(n) {
					continue
				}
				text := strings.TrimSpace(n.Text())
				if !cfg.plausible(text) {
					continue
				}
				if n.Closest(cfg.Containers) == nil && !cfg.hinted(n.ClassName()) {
					continue
				}
				turns = append(turns, Turn{Node: n, Text: text, Strategy: HeuristicName})
			}
			return turns
		},
	}
}

func (cfg HeuristicConfig) plausible(text string) bool {
	n := utf8.RuneCountInString(text)
	if text == "" || n <= cfg.MinRunes || n >= cfg.MaxRunes {
		return false
	}
	for _, tok := range cfg.Excluded {
		if tok != "" && strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

func (cfg HeuristicConfig) hinted(className string) bool {
	for _, hint := range cfg.ClassHints {
		if hint != "" && strings.Contains(className, hint) {
			return true
		}
	}
	return false
}
