package config

import (
	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/pkg/discovery"
)

// Heuristic returns the fallback discovery tuning.
func (c *Config) Heuristic() discovery.HeuristicConfig {
	h := discovery.DefaultHeuristic()
	if len(c.Discovery.ExcludedTokens) > 0 {
		h.Excluded = append([]string(nil), c.Discovery.ExcludedTokens...)
	}
	return h
}

// Strategies returns the configured selector strategies.
func (c *Config) Strategies() []discovery.Strategy {
	out := make([]discovery.Strategy, 0, len(c.Discovery.Strategies))
	for _, s := range c.Discovery.Strategies {
		out = append(out, discovery.SelectorStrategy(s.Name, s.Selector))
	}
	return out
}

// Cascade builds the discovery cascade: configured strategies first.
func (c *Config) Cascade() *discovery.Cascade {
	return discovery.NewCascade(discovery.Builtin(c.Heuristic())...).Prepend(c.Strategies()...)
}

// EngineOptions translates the configuration into engine options.
func (c *Config) EngineOptions() []marginalia.Option {
	return []marginalia.Option{
		marginalia.WithDebounce(c.Debounce),
		marginalia.WithInitialDelay(c.InitialDelay),
		marginalia.WithCopyReset(c.CopyReset),
		marginalia.WithHighlight(c.Highlight),
		marginalia.WithPanelText(c.Panel.Title, c.Panel.Placeholder),
		marginalia.WithTruncate(c.Panel.Truncate),
		marginalia.WithHeuristic(c.Heuristic()),
		marginalia.WithStrategies(c.Strategies()...),
	}
}
