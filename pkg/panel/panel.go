package panel

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
)

const (
	DefaultTitle       = "TOC"
	DefaultPlaceholder = "No content yet"
)

// Panel is a floating list of links to discovered turns.
// All methods must run on the engine's Executor.
type Panel struct {
	doc  ports.Document
	exec ports.Executor

	clock       clock.Clock
	logger      *slog.Logger
	title       string
	placeholder string
	truncate    int
	highlight   time.Duration

	root     ports.Node
	heading  ports.Node
	labels   []string
	releases []func()
	lit      []*highlight
}

// highlight tracks one turn element whose background is temporarily changed.
type highlight struct {
	node ports.Node
	prev string
	gen  int
}

// New creates a Panel. The panel element is created on the first Mount or Render.
func New(doc ports.Document, exec ports.Executor, opts ...Option) *Panel {
	p := &Panel{
		doc:         doc,
		exec:        exec,
		clock:       clock.New(),
		title:       DefaultTitle,
		placeholder: DefaultPlaceholder,
		truncate:    domain.DefaultTruncateLength,
		highlight:   domain.DefaultHighlight,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// Mount attaches the panel to the body, creating it on first use.
// A panel removed by the host is attached again.
func (p *Panel) Mount() ports.Node {
	if p.root == nil {
		p.build()
	}
	if !p.root.Connected() {
		p.doc.Body().AppendChild(p.root)
	}
	return p.root
}

// Root returns the panel element, or nil before the first Mount.
func (p *Panel) Root() ports.Node {
	return p.root
}

// Labels returns the item labels of the last Render.
func (p *Panel) Labels() []string {
	return append([]string(nil), p.labels...)
}

// Render replaces the panel's items with one entry per turn, or with the
// placeholder when turns is empty. The title is kept.
func (p *Panel) Render(turns []discovery.Turn) {
	root := p.Mount()

	for _, release := range p.releases {
		release()
	}
	p.releases = p.releases[:0]
	root.RemoveChildren(func(n ports.Node) bool { return n.Same(p.heading) })
	p.labels = p.labels[:0]

	if len(turns) == 0 {
		empty := p.element("div", domain.RolePlaceholder)
		apply(empty, placeholderStyle)
		empty.SetText(p.placeholder)
		root.AppendChild(empty)
		return
	}

	for i, turn := range turns {
		label := fmt.Sprintf("%d. %s", i+1, Truncate(turn.Text, p.truncate))
		p.labels = append(p.labels, label)

		item := p.element("div", domain.RoleItem)
		item.SetAttr("class", domain.ClassPanelItem)
		apply(item, itemStyle)
		text := p.doc.CreateElement("span")
		text.SetText(label)
		item.AppendChild(text)

		target := turn.Node
		p.listen(item, "mouseenter", func() { item.SetStyle("background-color", itemHoverBackground) })
		p.listen(item, "mouseleave", func() { item.SetStyle("background-color", itemBackground) })
		p.listen(item, "click", func() { p.Navigate(target) })
		root.AppendChild(item)
	}
}

// Navigate scrolls target into view and highlights it for a while.
// A target the host has removed is ignored.
func (p *Panel) Navigate(target ports.Node) {
	if target == nil || !target.Connected() {
		p.logger.Debug("Index target no longer present")
		return
	}
	target.ScrollIntoView()

	h := p.lookup(target)
	if h == nil {
		h = &highlight{node: target, prev: target.Style("background-color")}
		p.lit = append(p.lit, h)
	}
	h.gen++
	gen := h.gen
	target.SetStyle("background-color", highlightBackground)

	p.clock.AfterFunc(p.highlight, func() {
		p.exec.Post(func() {
			if h.gen != gen {
				return
			}
			h.node.SetStyle("background-color", h.prev)
			p.forget(h)
		})
	})
}

// Highlighted reports whether target currently carries the highlight.
func (p *Panel) Highlighted(target ports.Node) bool {
	return p.lookup(target) != nil
}

func (p *Panel) build() {
	p.root = p.element("div", domain.RolePanel)
	p.root.SetAttr("id", domain.PanelID)
	apply(p.root, panelStyle)

	p.heading = p.element("h3", domain.RoleTitle)
	apply(p.heading, titleStyle)
	p.heading.SetText(p.title)
	p.root.AppendChild(p.heading)

	root := p.root
	root.On("mouseenter", func() { p.exec.Post(func() { root.SetStyle("opacity", OpacityHover) }) })
	root.On("mouseleave", func() { p.exec.Post(func() { root.SetStyle("opacity", OpacityRest) }) })
}

func (p *Panel) element(tag, role string) ports.Node {
	n := p.doc.CreateElement(tag)
	n.SetAttr(domain.AttrOwned, role)
	return n
}

// listen registers fn for event on n, run on the executor. The registration
// is released on the next Render.
func (p *Panel) listen(n ports.Node, event string, fn func()) {
	p.releases = append(p.releases, n.On(event, func() { p.exec.Post(fn) }))
}

func (p *Panel) lookup(n ports.Node) *highlight {
	for _, h := range p.lit {
		if h.node.Same(n) {
			return h
		}
	}
	return nil
}

func (p *Panel) forget(h *highlight) {
	for i, x := range p.lit {
		if x == h {
			p.lit = append(p.lit[:i], p.lit[i+1:]...)
			return
		}
	}
}

// Truncate shortens text to max runes followed by "...".
// Text of at most max runes is returned unchanged.
func Truncate(text string, max int) string {
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
