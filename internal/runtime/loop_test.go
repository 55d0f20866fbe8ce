package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/marginalia/internal/runtime"
	"github.com/aretw0/marginalia/internal/testutils"
	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/augment"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<main class="conversation">
	<p class="query-text-line ng-star-inserted">Show me a table of primes</p>
	<div class="answer"><table><tr><th>n</th><th>prime</th></tr><tr><td>1</td><td>2</td></tr></table></div>
</main>`

type loopHarness struct {
	doc    *htmldom.Document
	q      *testutils.Queue
	mock   *clock.Mock
	aug    *augment.Augmentor
	panel  *panel.Panel
	loop   *runtime.Loop
	passes []*domain.PassEvent
	muts   int
}

func newLoopHarness(t *testing.T, body string) *loopHarness {
	t.Helper()
	h := &loopHarness{
		doc:  testutils.ParseBody(t, body),
		q:    &testutils.Queue{},
		mock: clock.NewMock(),
	}
	h.aug = augment.New(h.doc, ports.ClipboardFunc(func(_ context.Context, _ string) error { return nil }), h.q, augment.WithClock(h.mock))
	h.panel = panel.New(h.doc, h.q, panel.WithClock(h.mock))
	hooks := domain.LifecycleHooks{
		OnPass:     func(_ context.Context, e *domain.PassEvent) { h.passes = append(h.passes, e) },
		OnMutation: func(_ context.Context, _ *domain.MutationEvent) { h.muts++ },
	}
	h.loop = runtime.NewLoop(h.doc, h.q, h.aug, discovery.Default(), h.panel,
		runtime.WithLoopClock(h.mock),
		runtime.WithLoopHooks(hooks),
	)
	return h
}

// advance moves the mock clock and runs whatever the timers posted.
func (h *loopHarness) advance(d time.Duration) {
	h.mock.Add(d)
	time.Sleep(10 * time.Millisecond)
	h.q.Drain()
}

// waitPasses drains until n passes have completed.
func (h *loopHarness) waitPasses(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		h.q.Drain()
		return len(h.passes) >= n
	}, time.Second, 5*time.Millisecond)
}

func (h *loopHarness) start(t *testing.T) {
	t.Helper()
	h.loop.Start()
	h.q.Drain()
	h.mock.Add(domain.DefaultInitialDelay)
	h.waitPasses(t, 1)
}

func (h *loopHarness) addParagraph(text string) ports.Node {
	p := h.doc.CreateElement("p")
	p.SetAttr("class", "query-text-line ng-star-inserted")
	p.SetText(text)
	h.doc.QueryAll("main")[0].AppendChild(p)
	return p
}

func TestLoop_StartAugmentsThenIndexesAfterDelay(t *testing.T) {
	h := newLoopHarness(t, page)
	h.loop.Start()
	h.q.Drain()

	assert.Len(t, h.doc.QueryAll("."+domain.ClassAffordance), 1, "tables are decorated immediately")
	assert.Equal(t, runtime.StatePendingRescan, h.loop.State())
	assert.Empty(t, h.passes)

	h.mock.Add(domain.DefaultInitialDelay)
	h.waitPasses(t, 1)

	assert.Equal(t, runtime.StateIdle, h.loop.State())
	assert.Equal(t, []string{"1. Show me a table of primes"}, h.panel.Labels())
	assert.Equal(t, "query-text-line", h.passes[0].Strategy)
	assert.Equal(t, 0, h.muts, "engine writes must not count as host mutations")
}

func TestLoop_DebounceCollapsesNotifications(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	for i := 0; i < 5; i++ {
		h.addParagraph("Follow-up question number")
		h.q.Drain()
		h.advance(100 * time.Millisecond)
	}
	assert.Equal(t, 5, h.muts)
	assert.Len(t, h.passes, 1, "no pass while notifications keep arriving")
	assert.Equal(t, runtime.StatePendingRescan, h.loop.State())

	h.mock.Add(domain.DefaultDebounce)
	h.waitPasses(t, 2)

	h.advance(10 * domain.DefaultDebounce)
	assert.Len(t, h.passes, 2)
	assert.Len(t, h.panel.Labels(), 6)
}

func TestLoop_OwnWritesDoNotRetrigger(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	h.loop.Rescan()
	h.q.Drain()
	require.Len(t, h.passes, 2)

	h.advance(10 * domain.DefaultDebounce)
	assert.Len(t, h.passes, 2)
	assert.Equal(t, runtime.StateIdle, h.loop.State())
	assert.Equal(t, 0, h.muts)
}

func TestLoop_FastPathDecoratesArrivingTables(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	fresh, err := htmldom.ParseString(`<html><body><div><table id="late"><tr><th>x</th></tr></table></div></body></html>`)
	require.NoError(t, err)
	block := fresh.QueryAll("div")[0]
	h.doc.Body().AppendChild(block)
	h.q.Drain()

	late := h.doc.QueryAll("#late")[0]
	assert.True(t, h.aug.Marked(late), "decorated before the debounced pass")
	assert.NotNil(t, h.aug.Affordance(late))
	assert.Len(t, h.passes, 1)
}

func TestLoop_AtMostOnceAcrossPasses(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	for i := 0; i < 10; i++ {
		h.loop.Rescan()
		h.q.Drain()
	}
	assert.Len(t, h.passes, 11)
	assert.Len(t, h.doc.QueryAll("."+domain.ClassAffordance), 1)
	assert.Len(t, h.doc.QueryAll("."+domain.ClassWrapper), 1)
	assert.Len(t, h.doc.QueryAll("#"+domain.PanelID), 1)
	for _, p := range h.passes[1:] {
		assert.Equal(t, 0, p.Augmented)
	}
}

func TestLoop_HostReRender(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	next, err := htmldom.ParseString(`<html><body>` + page + `
		<main><p class="query-text-line ng-star-inserted">Second prompt</p>
		<table><tr><th>a</th></tr></table></main></body></html>`)
	require.NoError(t, err)
	h.doc.ReplaceBody(next)
	h.q.Drain()

	assert.Len(t, h.doc.QueryAll("."+domain.ClassAffordance), 2, "new tables decorated on arrival")
	assert.Equal(t, 1, h.muts, "one re-render is one notification")

	h.mock.Add(domain.DefaultDebounce)
	h.waitPasses(t, 2)

	assert.Equal(t, []string{"1. Show me a table of primes", "2. Second prompt"}, h.panel.Labels())
	assert.True(t, h.panel.Root().Connected(), "panel re-attached after the host dropped it")
	for _, table := range h.doc.QueryAll("table") {
		assert.True(t, h.aug.Marked(table))
	}
}

func TestLoop_StopIgnoresLaterChanges(t *testing.T) {
	h := newLoopHarness(t, page)
	h.start(t)

	h.loop.Stop()
	h.addParagraph("After stop question")
	h.q.Drain()
	h.advance(10 * domain.DefaultDebounce)

	assert.Equal(t, 0, h.muts)
	assert.Len(t, h.passes, 1)
}
