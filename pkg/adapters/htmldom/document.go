package htmldom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/aretw0/marginalia/pkg/ports"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document implements ports.Document over a parsed golang.org/x/net/html tree.
//
// The tree itself is not safe for concurrent use: drive every read and write
// from one execution sequence (the engine's Executor). Observer registration
// and event listeners are guarded so adapters may subscribe from anywhere.
type Document struct {
	root *html.Node
	body *html.Node

	mu        sync.Mutex
	observers map[int]func(ports.MutationBatch)
	nextObs   int
	listeners map[*html.Node]map[string][]*listener
	scrolls   []*html.Node
	batching  int
	pending   []ports.Node

	selectors sync.Map // string -> cascadia.SelectorGroup (nil for invalid)
}

type listener struct {
	fn func()
}

// Ensure Document implements ports.Document
var _ ports.Document = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	doc, _ := ParseString("")
	return doc
}

// Parse reads an HTML document. Fragments are accepted: the parser
// synthesizes the html/head/body skeleton as a browser would.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	body := findBody(root)
	if body == nil {
		return nil, fmt.Errorf("failed to parse html: document has no body")
	}
	return &Document{
		root:      root,
		body:      body,
		observers: make(map[int]func(ports.MutationBatch)),
		listeners: make(map[*html.Node]map[string][]*listener),
	}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Body returns the body element.
func (d *Document) Body() ports.Node {
	return d.wrap(d.body)
}

// CreateElement builds a detached element.
func (d *Document) CreateElement(tag string) ports.Node {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// QueryAll matches selector against the whole document.
func (d *Document) QueryAll(selector string) []ports.Node {
	return d.queryAll(d.root, selector)
}

// Observe subscribes fn to node additions under the body.
// Notifications are delivered synchronously from the goroutine performing the
// insertion, one batch per insertion or per Batch call.
func (d *Document) Observe(fn func(ports.MutationBatch)) (stop func()) {
	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
}

// Batch runs fn and reports every node it added under the body as a single
// notification, the way a browser coalesces the mutations of one render.
func (d *Document) Batch(fn func()) {
	d.mu.Lock()
	d.batching++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.batching--
		var added []ports.Node
		if d.batching == 0 {
			added, d.pending = d.pending, nil
		}
		d.mu.Unlock()
		if len(added) > 0 {
			d.notify(ports.MutationBatch{Added: added})
		}
	}()

	fn()
}

// ReplaceBody swaps the body's content for the body of src in one batch.
// It models a host re-render: every previous node is detached and the new
// top-level nodes are reported as added.
func (d *Document) ReplaceBody(src *Document) {
	d.Batch(func() {
		for c := d.body.FirstChild; c != nil; {
			next := c.NextSibling
			d.body.RemoveChild(c)
			c = next
		}
		for c := src.body.FirstChild; c != nil; {
			next := c.NextSibling
			src.body.RemoveChild(c)
			d.insert(d.body, c, nil)
			c = next
		}
	})
}

// Dispatch fires the listeners registered for event on n.
// It returns false when no listener was registered.
func (d *Document) Dispatch(n ports.Node, event string) bool {
	hn := unwrap(n)
	if hn == nil {
		return false
	}
	d.mu.Lock()
	ls := append([]*listener(nil), d.listeners[hn][event]...)
	d.mu.Unlock()

	for _, l := range ls {
		l.fn()
	}
	return len(ls) > 0
}

// Click is Dispatch(n, "click").
func (d *Document) Click(n ports.Node) bool {
	return d.Dispatch(n, "click")
}

// Scrolled returns the nodes ScrollIntoView was called on, oldest first.
func (d *Document) Scrolled() []ports.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ports.Node, 0, len(d.scrolls))
	for _, n := range d.scrolls {
		out = append(out, d.wrap(n))
	}
	return out
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) wrap(n *html.Node) ports.Node {
	if n == nil {
		return nil
	}
	return &Node{doc: d, n: n}
}

func (d *Document) compile(selector string) cascadia.SelectorGroup {
	if v, ok := d.selectors.Load(selector); ok {
		return v.(cascadia.SelectorGroup)
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		group = nil
	}
	d.selectors.Store(selector, group)
	return group
}

func (d *Document) queryAll(n *html.Node, selector string) []ports.Node {
	group := d.compile(selector)
	if group == nil || n == nil {
		return nil
	}
	matches := cascadia.QueryAll(n, group)
	out := make([]ports.Node, 0, len(matches))
	for _, m := range matches {
		out = append(out, d.wrap(m))
	}
	return out
}

// insert attaches child under parent (before ref when non-nil) and reports
// the addition when it lands inside the body.
func (d *Document) insert(parent, child, ref *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if ref != nil {
		parent.InsertBefore(child, ref)
	} else {
		parent.AppendChild(child)
	}
	if child.Type != html.ElementNode || !d.connected(parent) {
		return
	}
	added := d.wrap(child)

	d.mu.Lock()
	if d.batching > 0 {
		d.pending = append(d.pending, added)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.notify(ports.MutationBatch{Added: []ports.Node{added}})
}

func (d *Document) notify(batch ports.MutationBatch) {
	d.mu.Lock()
	fns := make([]func(ports.MutationBatch), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(batch)
	}
}

func (d *Document) connected(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func (d *Document) addListener(n *html.Node, event string, fn func()) func() {
	l := &listener{fn: fn}
	d.mu.Lock()
	byEvent, ok := d.listeners[n]
	if !ok {
		byEvent = make(map[string][]*listener)
		d.listeners[n] = byEvent
	}
	byEvent[event] = append(byEvent[event], l)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		ls := d.listeners[n][event]
		for i, x := range ls {
			if x == l {
				d.listeners[n][event] = append(ls[:i], ls[i+1:]...)
				break
			}
		}
	}
}

func (d *Document) recordScroll(n *html.Node) {
	d.mu.Lock()
	d.scrolls = append(d.scrolls, n)
	d.mu.Unlock()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
