package panel_test

import (
	"testing"
	"time"

	"github.com/aretw0/marginalia/internal/testutils"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conversation = `<main>
	<p class="query-text-line ng-star-inserted">How do I parse HTML in Go without a browser?</p>
	<div>Use golang.org/x/net/html.</div>
	<p class="query-text-line ng-star-inserted" style="background-color: white">Thanks</p>
</main>`

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 25, "short"},
		{"exactly twenty-five runes", 25, "exactly twenty-five runes"},
		{"How do I parse HTML in Go without a browser?", 25, "How do I parse HTML in Go..."},
		{"日本語のテキストです", 3, "日本語..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, panel.Truncate(tt.in, tt.max), tt.in)
	}
}

func TestPanel_RenderItems(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	p := panel.New(doc, &testutils.Queue{})

	res := discovery.Default().Discover(doc.Body())
	p.Render(res.Turns)

	root := p.Root()
	require.NotNil(t, root)
	assert.True(t, root.Connected())
	id, _ := root.Attr("id")
	assert.Equal(t, domain.PanelID, id)
	assert.Equal(t, panel.OpacityRest, root.Style("opacity"))

	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "h3", children[0].Tag())
	assert.Equal(t, "TOC", children[0].Text())
	assert.Equal(t, "1. How do I parse HTML in Go...", children[1].Text())
	assert.Equal(t, "2. Thanks", children[2].Text())
	assert.Equal(t, domain.ClassPanelItem, children[1].ClassName())
	assert.Equal(t, []string{"1. How do I parse HTML in Go...", "2. Thanks"}, p.Labels())
}

func TestPanel_RenderIsWholesaleAndStable(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	p := panel.New(doc, &testutils.Queue{})
	cascade := discovery.Default()

	p.Render(cascade.Discover(doc.Body()).Turns)
	first := p.Labels()
	p.Render(cascade.Discover(doc.Body()).Turns)

	assert.Equal(t, first, p.Labels())
	assert.Len(t, p.Root().Children(), 3)
	assert.Len(t, doc.QueryAll("#"+domain.PanelID), 1)
}

func TestPanel_Placeholder(t *testing.T) {
	doc := testutils.ParseBody(t, `<p>nothing</p>`)
	p := panel.New(doc, &testutils.Queue{}, panel.WithTitle("Index"), panel.WithPlaceholder("Empty"))

	p.Render(nil)

	children := p.Root().Children()
	require.Len(t, children, 2)
	assert.Equal(t, "Index", children[0].Text())
	assert.Equal(t, "Empty", children[1].Text())
	assert.Empty(t, p.Labels())
}

func TestPanel_RemountsAfterHostRemoval(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	p := panel.New(doc, &testutils.Queue{})
	p.Render(nil)

	doc.Body().RemoveChildren(func(n ports.Node) bool { return false })
	require.False(t, p.Root().Connected())

	p.Render(nil)
	assert.True(t, p.Root().Connected())
}

func TestPanel_HoverOpacity(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	q := &testutils.Queue{}
	p := panel.New(doc, q)
	p.Render(nil)

	require.True(t, doc.Dispatch(p.Root(), "mouseenter"))
	q.Drain()
	assert.Equal(t, panel.OpacityHover, p.Root().Style("opacity"))

	require.True(t, doc.Dispatch(p.Root(), "mouseleave"))
	q.Drain()
	assert.Equal(t, panel.OpacityRest, p.Root().Style("opacity"))
}

func TestPanel_ClickScrollsAndHighlights(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	q := &testutils.Queue{}
	mock := clock.NewMock()
	p := panel.New(doc, q, panel.WithClock(mock))

	turns := discovery.Default().Discover(doc.Body()).Turns
	require.Len(t, turns, 2)
	p.Render(turns)
	target := turns[1].Node

	require.True(t, doc.Click(p.Root().Children()[2]))
	q.Drain()

	scrolled := doc.Scrolled()
	require.Len(t, scrolled, 1)
	assert.True(t, scrolled[0].Same(target))
	assert.True(t, p.Highlighted(target))
	assert.NotEqual(t, "white", target.Style("background-color"))

	// A second click while lit re-arms the timer and keeps the original
	// background to restore.
	mock.Add(time.Second)
	require.True(t, doc.Click(p.Root().Children()[2]))
	q.Drain()
	mock.Add(1500 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	q.Drain()
	assert.True(t, p.Highlighted(target), "first timer must not restore early")

	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		q.Drain()
		return !p.Highlighted(target)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "white", target.Style("background-color"))
}

func TestPanel_StaleClickIsNoop(t *testing.T) {
	doc := testutils.ParseBody(t, conversation)
	q := &testutils.Queue{}
	p := panel.New(doc, q)

	turns := discovery.Default().Discover(doc.Body()).Turns
	p.Render(turns)

	main := doc.QueryAll("main")[0]
	main.RemoveChildren(nil)
	require.False(t, turns[0].Node.Connected())

	require.True(t, doc.Click(p.Root().Children()[1]))
	q.Drain()
	assert.Empty(t, doc.Scrolled())
	assert.False(t, p.Highlighted(turns[0].Node))
}
