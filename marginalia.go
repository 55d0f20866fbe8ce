package marginalia

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/marginalia/internal/runtime"
	"github.com/aretw0/marginalia/pkg/augment"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
)

// Engine is the high-level entry point of the library.
// It wires the augmentor, the discovery cascade, the index panel and the
// reconciliation loop over one document and one execution sequence.
type Engine struct {
	doc       ports.Document
	clipboard ports.Clipboard
	exec      ports.Executor

	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	clock        clock.Clock
	ctx          context.Context
	debounce     time.Duration
	initialDelay time.Duration
	copyReset    time.Duration
	highlight    time.Duration
	title        string
	placeholder  string
	truncate     int
	heuristic    discovery.HeuristicConfig
	strategies   []discovery.Strategy

	augmentor *augment.Augmentor
	cascade   *discovery.Cascade
	panel     *panel.Panel
	loop      *runtime.Loop
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock replaces the wall clock behind every timer.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithContext sets the context handed to hooks and clipboard calls.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		e.ctx = ctx
	}
}

// WithDebounce sets the quiet period before a full rescan (default 500ms).
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithInitialDelay sets when the first index build runs (default 1s).
func WithInitialDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.initialDelay = d
	}
}

// WithCopyReset sets how long the copy outcome label stays (default 2s).
func WithCopyReset(d time.Duration) Option {
	return func(e *Engine) {
		e.copyReset = d
	}
}

// WithHighlight sets how long a navigated-to turn stays highlighted (default 2s).
func WithHighlight(d time.Duration) Option {
	return func(e *Engine) {
		e.highlight = d
	}
}

// WithPanelText sets the panel title and the empty-index placeholder.
func WithPanelText(title, placeholder string) Option {
	return func(e *Engine) {
		e.title = title
		e.placeholder = placeholder
	}
}

// WithTruncate sets the maximum index item length in runes.
func WithTruncate(n int) Option {
	return func(e *Engine) {
		e.truncate = n
	}
}

// WithHeuristic tunes the fallback discovery strategy.
func WithHeuristic(cfg discovery.HeuristicConfig) Option {
	return func(e *Engine) {
		e.heuristic = cfg
	}
}

// WithStrategies adds discovery strategies ahead of the built-in ones.
func WithStrategies(strategies ...discovery.Strategy) Option {
	return func(e *Engine) {
		e.strategies = append(e.strategies, strategies...)
	}
}

// New builds an Engine over doc. Nothing touches the document until Start.
func New(doc ports.Document, clipboard ports.Clipboard, exec ports.Executor, opts ...Option) *Engine {
	e := &Engine{
		doc:          doc,
		clipboard:    clipboard,
		exec:         exec,
		clock:        clock.New(),
		ctx:          context.Background(),
		debounce:     domain.DefaultDebounce,
		initialDelay: domain.DefaultInitialDelay,
		copyReset:    domain.DefaultCopyReset,
		highlight:    domain.DefaultHighlight,
		title:        panel.DefaultTitle,
		placeholder:  panel.DefaultPlaceholder,
		truncate:     domain.DefaultTruncateLength,
		heuristic:    discovery.DefaultHeuristic(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	e.augmentor = augment.New(doc, clipboard, exec,
		augment.WithLogger(e.logger),
		augment.WithClock(e.clock),
		augment.WithResetAfter(e.copyReset),
		augment.WithLifecycleHooks(e.hooks),
		augment.WithContext(e.ctx),
	)
	e.cascade = discovery.NewCascade(discovery.Builtin(e.heuristic)...).Prepend(e.strategies...)
	e.panel = panel.New(doc, exec,
		panel.WithLogger(e.logger),
		panel.WithClock(e.clock),
		panel.WithTitle(e.title),
		panel.WithPlaceholder(e.placeholder),
		panel.WithTruncate(e.truncate),
		panel.WithHighlight(e.highlight),
	)
	e.loop = runtime.NewLoop(doc, exec, e.augmentor, e.cascade, e.panel,
		runtime.WithLoopLogger(e.logger),
		runtime.WithLoopClock(e.clock),
		runtime.WithLoopHooks(e.hooks),
		runtime.WithDebounce(e.debounce),
		runtime.WithInitialDelay(e.initialDelay),
		runtime.WithLoopContext(e.ctx),
	)
	return e
}

// Start subscribes to the document and schedules the initial passes.
func (e *Engine) Start() {
	e.logger.Info("Engine started", "version", strings.TrimSpace(Version))
	e.loop.Start()
}

// Stop unsubscribes from the document and cancels a pending rescan. The
// returned channel is closed once that has run on the executor; wait on it
// before shutting the executor down.
func (e *Engine) Stop() <-chan struct{} {
	done := make(chan struct{})
	e.exec.Post(func() {
		e.loop.Stop()
		close(done)
	})
	return done
}

// Rescan requests an immediate full pass.
func (e *Engine) Rescan() {
	e.loop.Rescan()
}

// Augmentor returns the table augmentor. Use it on the Executor only.
func (e *Engine) Augmentor() *augment.Augmentor {
	return e.augmentor
}

// Cascade returns the discovery cascade in effect.
func (e *Engine) Cascade() *discovery.Cascade {
	return e.cascade
}

// Panel returns the index panel. Use it on the Executor only.
func (e *Engine) Panel() *panel.Panel {
	return e.panel
}

// Loop returns the reconciliation loop. Use it on the Executor only.
func (e *Engine) Loop() *runtime.Loop {
	return e.loop
}

// Dispatcher is the default executor: one goroutine draining posted tasks.
type Dispatcher = runtime.Dispatcher

// NewDispatcher creates a Dispatcher. Nothing runs until Run is called.
func NewDispatcher() *Dispatcher {
	return runtime.NewDispatcher()
}
