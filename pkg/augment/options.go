package augment

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/benbjohnson/clock"
)

// Option defines a functional option for configuring the Augmentor.
type Option func(*Augmentor)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Augmentor) {
		a.logger = logger
	}
}

// WithClock replaces the wall clock used for label reset timers.
func WithClock(c clock.Clock) Option {
	return func(a *Augmentor) {
		a.clock = c
	}
}

// WithResetAfter sets how long a success/failure label stays visible.
func WithResetAfter(d time.Duration) Option {
	return func(a *Augmentor) {
		a.resetAfter = d
	}
}

// WithCopyTimeout bounds a single clipboard call.
func WithCopyTimeout(d time.Duration) Option {
	return func(a *Augmentor) {
		a.copyTimeout = d
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Augmentor) {
		a.hooks = hooks
	}
}

// WithContext sets the parent context of clipboard calls.
func WithContext(ctx context.Context) Option {
	return func(a *Augmentor) {
		a.ctx = ctx
	}
}
