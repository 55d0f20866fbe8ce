package tests

import (
	"testing"

	"github.com/aretw0/marginalia/pkg/ports"
)

// DocumentFactory builds a Document whose body holds the given HTML fragment.
type DocumentFactory func(t *testing.T, body string) ports.Document

// DocumentContractTest is a reusable test suite that verifies if an adapter complies with ports.Document.
func DocumentContractTest(t *testing.T, newDoc DocumentFactory) {
	t.Helper()

	const fixture = `<main role="main">` +
		`<p class="query-text-line">first</p>` +
		`<div class="chat"><table><tr><th>A</th></tr><tr><td>1</td></tr></table></div>` +
		`<p class="query-text-line">second</p>` +
		`</main>`

	t.Run("QueryAll_DocumentOrder", func(t *testing.T) {
		doc := newDoc(t, fixture)
		nodes := doc.QueryAll("p.query-text-line")
		if len(nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(nodes))
		}
		if nodes[0].Text() != "first" || nodes[1].Text() != "second" {
			t.Errorf("unexpected order: %q, %q", nodes[0].Text(), nodes[1].Text())
		}
	})

	t.Run("QueryAll_InvalidSelector", func(t *testing.T) {
		doc := newDoc(t, fixture)
		if got := doc.QueryAll("p[[["); len(got) != 0 {
			t.Errorf("expected no matches for invalid selector, got %d", len(got))
		}
	})

	t.Run("Closest_IncludesSelf", func(t *testing.T) {
		doc := newDoc(t, fixture)
		table := doc.QueryAll("table")[0]
		if table.Closest("table") == nil || !table.Closest("table").Same(table) {
			t.Error("Closest should match the node itself")
		}
		if table.Closest(".chat") == nil {
			t.Error("Closest should find the .chat ancestor")
		}
		if table.Closest(".missing") != nil {
			t.Error("Closest should return nil when nothing matches")
		}
	})

	t.Run("Wrap_PreservesIdentity", func(t *testing.T) {
		doc := newDoc(t, fixture)
		table := doc.QueryAll("table")[0]
		wrapper := doc.CreateElement("div")
		wrapper.SetAttr("class", "wrap")
		table.InsertBefore(wrapper)
		wrapper.AppendChild(table)

		parent := table.Parent()
		if parent == nil || !parent.Same(wrapper) {
			t.Fatal("table should now be a child of the wrapper")
		}
		again := doc.QueryAll(".wrap table")
		if len(again) != 1 || !again[0].Same(table) {
			t.Error("the same table node should be found inside the wrapper")
		}
	})

	t.Run("Connected_AfterRemoval", func(t *testing.T) {
		doc := newDoc(t, fixture)
		p := doc.QueryAll("p.query-text-line")[0]
		if !p.Connected() {
			t.Fatal("fresh node should be connected")
		}
		main := doc.QueryAll("main")[0]
		main.RemoveChildren(func(n ports.Node) bool { return false })
		if p.Connected() {
			t.Error("removed node should report disconnected")
		}
		if got := p.QueryAll("*"); len(got) != 0 {
			t.Errorf("detached leaf should have no descendants, got %d", len(got))
		}
	})

	t.Run("Observe_ReportsAdditions", func(t *testing.T) {
		doc := newDoc(t, fixture)
		batches := make(chan ports.MutationBatch, 4)
		stop := doc.Observe(func(b ports.MutationBatch) { batches <- b })
		defer stop()

		el := doc.CreateElement("section")
		doc.Body().AppendChild(el)

		b := <-batches
		if len(b.Added) != 1 || !b.Added[0].Same(el) {
			t.Errorf("expected the appended section in the batch, got %d nodes", len(b.Added))
		}
	})
}
