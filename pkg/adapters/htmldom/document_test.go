package htmldom_test

import (
	"testing"

	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, body string) ports.Document {
	t.Helper()
	doc, err := htmldom.ParseString("<html><body>" + body + "</body></html>")
	require.NoError(t, err)
	return doc
}

func TestDocument_Contract(t *testing.T) {
	tests.DocumentContractTest(t, newDoc)
}

func TestDocument_BatchCoalescesAdditions(t *testing.T) {
	doc := htmldom.New()
	var batches []ports.MutationBatch
	stop := doc.Observe(func(b ports.MutationBatch) { batches = append(batches, b) })
	defer stop()

	doc.Batch(func() {
		doc.Body().AppendChild(doc.CreateElement("div"))
		doc.Body().AppendChild(doc.CreateElement("p"))
	})

	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Added, 2)
}

func TestDocument_DetachedInsertIsSilent(t *testing.T) {
	doc := htmldom.New()
	calls := 0
	stop := doc.Observe(func(ports.MutationBatch) { calls++ })
	defer stop()

	detached := doc.CreateElement("div")
	detached.AppendChild(doc.CreateElement("span"))
	assert.Equal(t, 0, calls)

	stop()
	doc.Body().AppendChild(detached)
	assert.Equal(t, 0, calls, "stopped observers must not be called")
}

func TestDocument_ReplaceBody(t *testing.T) {
	doc, err := htmldom.ParseString(`<body><p id="old">old</p></body>`)
	require.NoError(t, err)
	old := doc.QueryAll("#old")[0]

	next, err := htmldom.ParseString(`<body><p id="a">a</p><p id="b">b</p></body>`)
	require.NoError(t, err)

	var added int
	doc.Observe(func(b ports.MutationBatch) { added += len(b.Added) })
	doc.ReplaceBody(next)

	assert.False(t, old.Connected())
	assert.Equal(t, 2, added)
	assert.Len(t, doc.QueryAll("p"), 2)
}

func TestNode_Style(t *testing.T) {
	doc := htmldom.New()
	el := doc.CreateElement("div")
	el.SetStyle("opacity", "0.3")
	el.SetStyle("background-color", "red")
	el.SetStyle("opacity", "1.0")

	assert.Equal(t, "1.0", el.Style("opacity"))
	assert.Equal(t, "red", el.Style("background-color"))

	el.SetStyle("background-color", "")
	assert.Equal(t, "", el.Style("background-color"))
	v, _ := el.Attr("style")
	assert.Equal(t, "opacity: 1.0", v)
}

func TestNode_ListenersAndScroll(t *testing.T) {
	doc := htmldom.New()
	el := doc.CreateElement("button")
	doc.Body().AppendChild(el)

	clicks := 0
	release := el.On("click", func() { clicks++ })
	assert.True(t, doc.Click(el))
	release()
	assert.False(t, doc.Click(el))
	assert.Equal(t, 1, clicks)

	el.ScrollIntoView()
	scrolled := doc.Scrolled()
	require.Len(t, scrolled, 1)
	assert.True(t, scrolled[0].Same(el))
}

func TestNode_TextConcatenatesDescendants(t *testing.T) {
	doc := newDoc(t, `<div id="x"> a <b>b</b> <!-- c --> d </div>`)
	x := doc.QueryAll("#x")[0]
	assert.Equal(t, " a b  d ", x.Text())
}
