package config

import (
	"time"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
)

// Config is the application configuration.
type Config struct {
	Debounce     time.Duration `mapstructure:"debounce" validate:"gt=0"`
	InitialDelay time.Duration `mapstructure:"initial_delay" validate:"gte=0"`
	CopyReset    time.Duration `mapstructure:"copy_reset" validate:"gt=0"`
	Highlight    time.Duration `mapstructure:"highlight" validate:"gt=0"`

	Panel     PanelConfig     `mapstructure:"panel"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	HTTP      HTTPConfig      `mapstructure:"http"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// PanelConfig configures the index panel.
type PanelConfig struct {
	Title       string `mapstructure:"title" validate:"required"`
	Placeholder string `mapstructure:"placeholder" validate:"required"`
	Truncate    int    `mapstructure:"truncate" validate:"gt=0"`
}

// DiscoveryConfig tunes turn discovery.
type DiscoveryConfig struct {
	// ExcludedTokens replace the heuristic's product tokens when set.
	ExcludedTokens []string `mapstructure:"excluded_tokens"`
	// Strategies run ahead of the built-in ones, in order.
	Strategies []StrategyConfig `mapstructure:"strategies" validate:"dive"`
}

// StrategyConfig is a named selector strategy.
type StrategyConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Selector string `mapstructure:"selector" validate:"required"`
}

// ClipboardConfig selects where copied tables go.
type ClipboardConfig struct {
	Backend string      `mapstructure:"backend" validate:"oneof=memory system osc52 redis"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the shared clipboard.
type RedisConfig struct {
	Addr string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Key  string        `mapstructure:"key"`
	TTL  time.Duration `mapstructure:"ttl" validate:"gte=0"`
	// Enabled is derived from the backend choice.
	Enabled bool `mapstructure:"-"`
}

// HTTPConfig configures the serve and mcp commands.
type HTTPConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Debounce:     domain.DefaultDebounce,
		InitialDelay: domain.DefaultInitialDelay,
		CopyReset:    domain.DefaultCopyReset,
		Highlight:    domain.DefaultHighlight,
		Panel: PanelConfig{
			Title:       panel.DefaultTitle,
			Placeholder: panel.DefaultPlaceholder,
			Truncate:    domain.DefaultTruncateLength,
		},
		Clipboard: ClipboardConfig{
			Backend: "system",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "marginalia:clipboard",
				TTL:  24 * time.Hour,
			},
		},
		HTTP:     HTTPConfig{Port: 8080},
		LogLevel: "info",
	}
}
