package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/marginalia/pkg/domain"
)

// LogHooks returns hooks that log every lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.DebugContext(ctx, "mutation", "added", e.Added)
		},
		OnAugment: func(ctx context.Context, e *domain.AugmentEvent) {
			logger.DebugContext(ctx, "augment", "tag", e.Tag)
		},
		OnPass: func(ctx context.Context, e *domain.PassEvent) {
			logger.InfoContext(ctx, "rescan",
				"pass", e.Pass,
				"tables", e.Tables,
				"augmented", e.Augmented,
				"turns", e.Turns,
				"strategy", e.Strategy,
				"duration", e.Duration,
			)
		},
		OnCopy: func(ctx context.Context, e *domain.CopyEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "copy", "tag", e.Tag, "state", e.State.String(), "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "copy", "tag", e.Tag, "state", e.State.String(), "bytes", e.Bytes)
		},
	}
}

// Combine returns hooks that call each of the given hooks in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		out.OnMutation = chain(out.OnMutation, h.OnMutation)
		out.OnAugment = chain(out.OnAugment, h.OnAugment)
		out.OnPass = chain(out.OnPass, h.OnPass)
		out.OnCopy = chain(out.OnCopy, h.OnCopy)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
