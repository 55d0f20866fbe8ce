package marginalia_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/internal/testutils"
	"github.com/aretw0/marginalia/pkg/adapters/clipboard"
	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EndToEnd(t *testing.T) {
	doc := testutils.ParseBody(t, `<main>
		<article class="bubble">Compare Go and Rust error handling</article>
		<table><tr><th>Lang</th><th>Errors</th></tr><tr><td>Go</td><td>values | wrapping</td></tr></table>
	</main>`)
	q := &testutils.Queue{}
	mock := clock.NewMock()

	copied := make(chan string, 1)
	clip := ports.ClipboardFunc(func(_ context.Context, text string) error {
		copied <- text
		return nil
	})

	var passes []*domain.PassEvent
	eng := marginalia.New(doc, clip, q,
		marginalia.WithClock(mock),
		marginalia.WithDebounce(200*time.Millisecond),
		marginalia.WithInitialDelay(300*time.Millisecond),
		marginalia.WithPanelText("Index", "Nothing here"),
		marginalia.WithStrategies(discovery.SelectorStrategy("bubble", "article.bubble")),
		marginalia.WithLifecycleHooks(domain.LifecycleHooks{
			OnPass: func(_ context.Context, e *domain.PassEvent) { passes = append(passes, e) },
		}),
	)
	assert.Equal(t, "bubble", eng.Cascade().Strategies()[0])

	eng.Start()
	q.Drain()
	mock.Add(300 * time.Millisecond)
	require.Eventually(t, func() bool {
		q.Drain()
		return len(passes) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "bubble", passes[0].Strategy)
	assert.Equal(t, []string{"1. Compare Go and Rust error..."}, eng.Panel().Labels())
	assert.Equal(t, "Index", eng.Panel().Root().Children()[0].Text())

	table := doc.QueryAll("table")[0]
	aff := eng.Augmentor().Affordance(table)
	require.NotNil(t, aff)
	require.True(t, doc.Click(aff.Button()))
	q.Drain()

	select {
	case text := <-copied:
		assert.Equal(t, "| Lang | Errors |\n| --- | --- |\n| Go | values \\| wrapping |\n", text)
	case <-time.After(time.Second):
		t.Fatal("clipboard was not called")
	}
	require.Eventually(t, func() bool {
		q.Drain()
		return aff.State() == domain.CopySuccess
	}, time.Second, 5*time.Millisecond)

	eng.Stop()
	q.Drain()
}

// countOn runs a count of decorated tables on the dispatcher and returns it,
// or -1 when the dispatcher did not get to it in time.
func countOn(disp *marginalia.Dispatcher, doc *htmldom.Document) int {
	result := make(chan int, 1)
	disp.Post(func() { result <- len(doc.QueryAll("." + domain.ClassAffordance)) })
	select {
	case n := <-result:
		return n
	case <-time.After(time.Second):
		return -1
	}
}

func TestEngine_ManyTablesOnDispatcher(t *testing.T) {
	const tables = 200
	var b strings.Builder
	b.WriteString("<main>")
	for i := 0; i < tables; i++ {
		b.WriteString("<table><tr><th>k</th></tr><tr><td>v</td></tr></table>")
	}
	b.WriteString("</main>")
	doc := testutils.ParseBody(t, b.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	disp := marginalia.NewDispatcher()
	go func() { _ = disp.Run(ctx) }()

	eng := marginalia.New(doc, clipboard.NewMemory(), disp,
		marginalia.WithContext(ctx),
		marginalia.WithInitialDelay(10*time.Millisecond),
		marginalia.WithDebounce(20*time.Millisecond),
	)
	disp.Post(eng.Start)

	// Every insertion notifies the observer, which posts from inside the
	// running task. The dispatcher must keep accepting work throughout.
	require.Eventually(t, func() bool {
		return countOn(disp, doc) == tables
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case <-eng.Stop():
	case <-time.After(time.Second):
		t.Fatal("stop did not run")
	}
}

func TestEngine_StopCompletesBeforeShutdown(t *testing.T) {
	doc := testutils.ParseBody(t, `<main><table><tr><th>a</th></tr></table></main>`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	disp := marginalia.NewDispatcher()
	go func() { _ = disp.Run(ctx) }()

	eng := marginalia.New(doc, clipboard.NewMemory(), disp,
		marginalia.WithContext(ctx),
		marginalia.WithInitialDelay(5*time.Millisecond),
		marginalia.WithDebounce(10*time.Millisecond),
	)
	disp.Post(eng.Start)
	require.Eventually(t, func() bool {
		return countOn(disp, doc) == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Waiting on Stop means the engine is detached before the dispatcher
	// goes away, so cancelling right after cannot drop it.
	select {
	case <-eng.Stop():
	case <-time.After(time.Second):
		t.Fatal("stop did not run")
	}

	disp.Post(func() {
		conv := doc.QueryAll("main")[0]
		conv.AppendChild(doc.CreateElement("table"))
	})
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, countOn(disp, doc), "a detached engine must not decorate new tables")

	cancel()
	select {
	case <-disp.Done():
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, marginalia.Version)
}
