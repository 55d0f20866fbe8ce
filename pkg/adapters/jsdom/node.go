//go:build js && wasm

package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/aretw0/marginalia/pkg/ports"
)

// Node wraps a DOM element.
type Node struct {
	v js.Value
}

// Ensure Node implements ports.Node
var _ ports.Node = (*Node)(nil)

func wrap(v js.Value) ports.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Node{v: v}
}

// Value returns the underlying DOM element.
func (n *Node) Value() js.Value {
	return n.v
}

func (n *Node) Tag() string {
	return strings.ToLower(n.v.Get("tagName").String())
}

func (n *Node) Text() string {
	t := n.v.Get("textContent")
	if t.IsNull() {
		return ""
	}
	return t.String()
}

func (n *Node) Attr(name string) (string, bool) {
	v := n.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (n *Node) SetAttr(name, value string) {
	n.v.Call("setAttribute", name, value)
}

// ClassName reads the attribute; className is an object on SVG elements.
func (n *Node) ClassName() string {
	c, _ := n.Attr("class")
	return c
}

func (n *Node) Children() []ports.Node {
	return collect(n.v.Get("children"))
}

func (n *Node) Parent() ports.Node {
	return wrap(n.v.Get("parentElement"))
}

func (n *Node) QueryAll(selector string) []ports.Node {
	var out []ports.Node
	safely(func() {
		out = collect(n.v.Call("querySelectorAll", selector))
	})
	return out
}

func (n *Node) Closest(selector string) ports.Node {
	var out ports.Node
	safely(func() {
		out = wrap(n.v.Call("closest", selector))
	})
	return out
}

func (n *Node) Matches(selector string) bool {
	var ok bool
	safely(func() {
		ok = n.v.Call("matches", selector).Bool()
	})
	return ok
}

func (n *Node) Connected() bool {
	return n.v.Get("isConnected").Bool()
}

func (n *Node) Same(other ports.Node) bool {
	o, ok := other.(*Node)
	return ok && o != nil && n.v.Equal(o.v)
}

func (n *Node) AppendChild(child ports.Node) {
	if c, ok := child.(*Node); ok {
		n.v.Call("appendChild", c.v)
	}
}

func (n *Node) InsertBefore(child ports.Node) {
	c, ok := child.(*Node)
	parent := n.v.Get("parentNode")
	if !ok || parent.IsNull() {
		return
	}
	parent.Call("insertBefore", c.v, n.v)
}

func (n *Node) RemoveChildren(keep func(ports.Node) bool) {
	for _, c := range n.Children() {
		if keep != nil && keep(c) {
			continue
		}
		c.(*Node).v.Call("remove")
	}
}

func (n *Node) SetText(text string) {
	n.v.Set("textContent", text)
}

func (n *Node) Style(property string) string {
	return n.v.Get("style").Call("getPropertyValue", property).String()
}

func (n *Node) SetStyle(property, value string) {
	n.v.Get("style").Call("setProperty", property, value)
}

func (n *Node) ScrollIntoView() {
	n.v.Call("scrollIntoView", map[string]any{"behavior": "smooth", "block": "center"})
}

// On registers a DOM listener. Clicks are not propagated to host handlers.
func (n *Node) On(event string, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if event == "click" && len(args) > 0 {
			args[0].Call("stopPropagation")
			args[0].Call("preventDefault")
		}
		fn()
		return nil
	})
	n.v.Call("addEventListener", event, cb)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		n.v.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

func collect(list js.Value) []ports.Node {
	size := list.Length()
	out := make([]ports.Node, 0, size)
	for i := 0; i < size; i++ {
		if node := wrap(list.Index(i)); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// safely runs fn, treating a thrown DOMException (an invalid selector) as no match.
func safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(js.Error); !ok {
				panic(r)
			}
		}
	}()
	fn()
}
