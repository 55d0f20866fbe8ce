package discovery

// Built-in selector strategies, highest priority first.
var builtinSelectors = []struct {
	name     string
	selector string
}{
	{"query-text-line", "p.query-text-line.ng-star-inserted"},
	{"query-text", `p[class*="query-text"]`},
	{"author-role", `[data-message-author-role="user"]`},
	{"user-message", ".user-message"},
	{"role-user", `[role="user"]`},
	{"message-user", ".message.user"},
	{"test-id-user", `div[data-test-id*="user"]`},
	{"test-id-prompt", `div[data-test-id*="prompt"]`},
	{"prompt-content", ".prompt-content"},
	{"user-input", ".user-input"},
	{"user-message-class", `[class*="user"][class*="message"]`},
}

// Builtin returns the built-in selector strategies followed by the heuristic fallback.
func Builtin(heuristic HeuristicConfig) []Strategy {
	out := make([]Strategy, 0, len(builtinSelectors)+1)
	for _, b := range builtinSelectors {
		out = append(out, SelectorStrategy(b.name, b.selector))
	}
	return append(out, HeuristicStrategy(heuristic))
}

// Default returns the cascade with the built-in strategies and default heuristic.
func Default() *Cascade {
	return NewCascade(Builtin(DefaultHeuristic())...)
}
