package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/marginalia/pkg/augment"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
)

// State is the reconciliation loop state.
type State int

const (
	StateIdle State = iota
	StatePendingRescan
)

func (s State) String() string {
	if s == StatePendingRescan {
		return "pending_rescan"
	}
	return "idle"
}

var panelSelector = "[" + domain.AttrOwned + "=" + domain.RolePanel + "]"

// Loop keeps the document augmented and the index current while the host
// keeps changing the tree.
//
// Change notifications are posted onto the Executor. Tables in added
// subtrees are decorated right away; the full pass (every table, discovery,
// panel) waits until notifications have been quiet for the debounce delay.
type Loop struct {
	doc     ports.Document
	exec    ports.Executor
	aug     *augment.Augmentor
	cascade *discovery.Cascade
	panel   *panel.Panel

	clock        clock.Clock
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	debounce     time.Duration
	initialDelay time.Duration
	ctx          context.Context

	state  State
	gen    int
	timer  *clock.Timer
	passes int
	last   discovery.Result
	stop   func()
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger configures the structured logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithLoopClock replaces the wall clock used for the debounce timer.
func WithLoopClock(c clock.Clock) LoopOption {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithLoopHooks registers observability hooks.
func WithLoopHooks(hooks domain.LifecycleHooks) LoopOption {
	return func(l *Loop) {
		l.hooks = hooks
	}
}

// WithDebounce sets the quiet period before a full pass.
func WithDebounce(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.debounce = d
	}
}

// WithInitialDelay sets when the first index build runs after Start.
func WithInitialDelay(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.initialDelay = d
	}
}

// WithLoopContext sets the context handed to hooks.
func WithLoopContext(ctx context.Context) LoopOption {
	return func(l *Loop) {
		l.ctx = ctx
	}
}

// NewLoop wires the loop over its components.
func NewLoop(doc ports.Document, exec ports.Executor, aug *augment.Augmentor, cascade *discovery.Cascade, p *panel.Panel, opts ...LoopOption) *Loop {
	l := &Loop{
		doc:          doc,
		exec:         exec,
		aug:          aug,
		cascade:      cascade,
		panel:        p,
		clock:        clock.New(),
		debounce:     domain.DefaultDebounce,
		initialDelay: domain.DefaultInitialDelay,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// Start subscribes to change notifications and posts the initial table pass.
// The first index build follows after the initial delay.
func (l *Loop) Start() {
	l.stop = l.doc.Observe(func(batch ports.MutationBatch) {
		l.exec.Post(func() { l.handle(batch) })
	})
	l.exec.Post(func() {
		tables, augmented := l.aug.AugmentAll()
		l.panel.Mount()
		l.logger.Debug("Initial table pass", "tables", tables, "augmented", augmented)
		l.arm(l.initialDelay)
	})
}

// Stop unsubscribes from notifications and cancels a pending pass.
// Must run on the Executor.
func (l *Loop) Stop() {
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	l.gen++
	if l.timer != nil {
		l.timer.Stop()
	}
	l.state = StateIdle
}

// Rescan posts an immediate full pass, replacing a pending one.
func (l *Loop) Rescan() {
	l.exec.Post(func() {
		l.gen++
		if l.timer != nil {
			l.timer.Stop()
		}
		l.Flush()
	})
}

// Flush runs one full pass now. Must run on the Executor.
func (l *Loop) Flush() {
	l.state = StateIdle
	l.passes++
	start := l.clock.Now()

	tables, augmented := l.aug.AugmentAll()
	res := l.cascade.Discover(l.doc.Body())
	l.panel.Render(res.Turns)
	l.last = res

	l.logger.Debug("Rescan complete",
		"pass", l.passes,
		"tables", tables,
		"augmented", augmented,
		"turns", len(res.Turns),
		"strategy", res.Strategy,
	)
	if l.hooks.OnPass != nil {
		l.hooks.OnPass(l.ctx, &domain.PassEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRescan},
			Pass:      l.passes,
			Tables:    tables,
			Augmented: augmented,
			Turns:     len(res.Turns),
			Strategy:  res.Strategy,
			Duration:  l.clock.Since(start),
		})
	}
}

// State returns the current loop state. Must run on the Executor.
func (l *Loop) State() State {
	return l.state
}

// Passes returns how many full passes ran. Must run on the Executor.
func (l *Loop) Passes() int {
	return l.passes
}

// Last returns the discovery result of the latest pass. Must run on the Executor.
func (l *Loop) Last() discovery.Result {
	return l.last
}

func (l *Loop) handle(batch ports.MutationBatch) {
	if l.stop == nil {
		return
	}
	added := make([]ports.Node, 0, len(batch.Added))
	for _, n := range batch.Added {
		if n != nil && !l.ours(n) {
			added = append(added, n)
		}
	}
	if len(added) == 0 {
		return
	}

	if l.hooks.OnMutation != nil {
		l.hooks.OnMutation(l.ctx, &domain.MutationEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMutation},
			Added:     len(added),
		})
	}

	for _, n := range added {
		for _, tag := range l.aug.AugmentWithin(n) {
			l.logger.Debug("Table augmented on arrival", "tag", tag)
			if l.hooks.OnAugment != nil {
				l.hooks.OnAugment(l.ctx, &domain.AugmentEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAugment},
					Tag:       tag,
				})
			}
		}
	}

	l.arm(l.debounce)
}

// ours reports whether n is the engine's own write: an owned element, panel
// content, or a decorated table moved into its wrapper.
func (l *Loop) ours(n ports.Node) bool {
	if _, ok := n.Attr(domain.AttrOwned); ok {
		return true
	}
	if n.Closest(panelSelector) != nil {
		return true
	}
	return n.Tag() == "table" && l.aug.Marked(n)
}

// arm (re)starts the debounce timer. Only the latest timer may flush.
func (l *Loop) arm(d time.Duration) {
	l.state = StatePendingRescan
	l.gen++
	gen := l.gen
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = l.clock.AfterFunc(d, func() {
		l.exec.Post(func() {
			if gen != l.gen {
				return
			}
			l.Flush()
		})
	})
}
