package panel

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// Option defines a functional option for configuring the Panel.
type Option func(*Panel)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) {
		p.logger = logger
	}
}

// WithClock replaces the wall clock used for highlight timers.
func WithClock(c clock.Clock) Option {
	return func(p *Panel) {
		p.clock = c
	}
}

// WithTitle sets the heading text.
func WithTitle(title string) Option {
	return func(p *Panel) {
		p.title = title
	}
}

// WithPlaceholder sets the text shown when no turn was found.
func WithPlaceholder(text string) Option {
	return func(p *Panel) {
		p.placeholder = text
	}
}

// WithTruncate sets the maximum item text length in runes.
func WithTruncate(n int) Option {
	return func(p *Panel) {
		p.truncate = n
	}
}

// WithHighlight sets how long a navigated-to turn stays highlighted.
func WithHighlight(d time.Duration) Option {
	return func(p *Panel) {
		p.highlight = d
	}
}
