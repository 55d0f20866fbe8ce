//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/aretw0/marginalia/pkg/ports"
)

// elementNode is the DOM nodeType of elements.
const elementNode = 1

// Document wraps the browser document.
type Document struct {
	v js.Value
}

// Ensure Document implements ports.Document
var _ ports.Document = (*Document)(nil)

// New wraps the global document.
func New() *Document {
	return &Document{v: js.Global().Get("document")}
}

func (d *Document) Body() ports.Node {
	return wrap(d.v.Get("body"))
}

func (d *Document) CreateElement(tag string) ports.Node {
	return wrap(d.v.Call("createElement", tag))
}

func (d *Document) QueryAll(selector string) []ports.Node {
	var out []ports.Node
	safely(func() {
		out = collect(d.v.Call("querySelectorAll", selector))
	})
	return out
}

// Observe watches the body subtree for added elements. Text and comment
// additions are dropped; records without elements produce no callback.
func (d *Document) Observe(fn func(ports.MutationBatch)) (stop func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		records := args[0]
		var batch ports.MutationBatch
		for i := 0; i < records.Length(); i++ {
			added := records.Index(i).Get("addedNodes")
			for j := 0; j < added.Length(); j++ {
				node := added.Index(j)
				if node.Get("nodeType").Int() != elementNode {
					continue
				}
				batch.Added = append(batch.Added, &Node{v: node})
			}
		}
		if len(batch.Added) > 0 {
			fn(batch)
		}
		return nil
	})

	observer := js.Global().Get("MutationObserver").New(cb)
	observer.Call("observe", d.v.Get("body"), map[string]any{
		"childList": true,
		"subtree":   true,
	})

	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		observer.Call("disconnect")
		cb.Release()
	}
}
