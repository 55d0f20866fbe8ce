package augment

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// DefaultCopyTimeout bounds a clipboard call when no WithCopyTimeout is given.
const DefaultCopyTimeout = 5 * time.Second

var wrapperSelector = "[" + domain.AttrOwned + "=" + domain.RoleWrapper + "]"

// Augmentor attaches export affordances to tables.
// All methods must run on the engine's Executor.
type Augmentor struct {
	doc       ports.Document
	clipboard ports.Clipboard
	exec      ports.Executor

	clock       clock.Clock
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	resetAfter  time.Duration
	copyTimeout time.Duration
	ctx         context.Context

	// marked is the membership set of decorated tables, by opaque tag.
	// Entries for tables the host removed stay behind harmlessly: a detached
	// node can never be matched again.
	marked map[string]*Affordance
}

// New creates an Augmentor over doc.
func New(doc ports.Document, clipboard ports.Clipboard, exec ports.Executor, opts ...Option) *Augmentor {
	a := &Augmentor{
		doc:         doc,
		clipboard:   clipboard,
		exec:        exec,
		clock:       clock.New(),
		resetAfter:  domain.DefaultCopyReset,
		copyTimeout: DefaultCopyTimeout,
		ctx:         context.Background(),
		marked:      make(map[string]*Affordance),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// Augment decorates table unless it already is. It reports whether a new
// affordance was attached by this call.
func (a *Augmentor) Augment(table ports.Node) bool {
	if table == nil || table.Tag() != "table" || !table.Connected() {
		return false
	}
	if a.Marked(table) {
		return false
	}

	tag := uuid.NewString()
	table.SetAttr(domain.AttrTag, tag)

	// A table inside another decorated table's wrapper is covered by that
	// wrapper's affordance.
	if table.Closest(wrapperSelector) != nil {
		a.marked[tag] = &Affordance{table: table, tag: tag}
		return false
	}

	wrapper := a.doc.CreateElement("div")
	wrapper.SetAttr("class", domain.ClassWrapper)
	wrapper.SetAttr(domain.AttrOwned, domain.RoleWrapper)
	wrapper.SetStyle("position", "relative")

	// Record membership before touching the tree: relocating the table
	// raises a notification that must already see it as decorated.
	aff := &Affordance{a: a, table: table, tag: tag}
	a.marked[tag] = aff

	table.InsertBefore(wrapper)
	wrapper.AppendChild(table)

	button := a.doc.CreateElement("button")
	button.SetAttr("class", domain.ClassAffordance)
	button.SetAttr(domain.AttrOwned, domain.RoleAffordance)
	button.SetAttr("type", "button")
	button.SetText(domain.CopyIdle.Label())
	aff.button = button
	button.On("click", func() {
		a.exec.Post(aff.Activate)
	})
	wrapper.AppendChild(button)

	a.logger.Debug("Table augmented", "tag", tag)
	return true
}

// AugmentAll decorates every table of the document.
// It returns how many tables were seen and how many were decorated now.
func (a *Augmentor) AugmentAll() (tables, augmented int) {
	for _, table := range a.doc.QueryAll("table") {
		tables++
		if a.Augment(table) {
			augmented++
		}
	}
	return tables, augmented
}

// AugmentWithin decorates node when it is a table and every table it contains.
func (a *Augmentor) AugmentWithin(node ports.Node) (augmented []string) {
	if node == nil {
		return nil
	}
	candidates := node.QueryAll("table")
	if node.Tag() == "table" {
		candidates = append([]ports.Node{node}, candidates...)
	}
	for _, table := range candidates {
		if a.Augment(table) {
			augmented = append(augmented, a.TagOf(table))
		}
	}
	return augmented
}

// Marked reports whether table is in the membership set.
// A copy of a decorated table carries the tag but is a different node, and
// is not considered marked.
func (a *Augmentor) Marked(table ports.Node) bool {
	tag, ok := table.Attr(domain.AttrTag)
	if !ok {
		return false
	}
	aff, ok := a.marked[tag]
	return ok && aff.table.Same(table)
}

// TagOf returns the opaque tag of a decorated table, or "".
func (a *Augmentor) TagOf(table ports.Node) string {
	if !a.Marked(table) {
		return ""
	}
	tag, _ := table.Attr(domain.AttrTag)
	return tag
}

// Affordance returns the affordance attached to table, or nil.
func (a *Augmentor) Affordance(table ports.Node) *Affordance {
	if !a.Marked(table) {
		return nil
	}
	tag, _ := table.Attr(domain.AttrTag)
	aff := a.marked[tag]
	if aff.button == nil {
		return nil
	}
	return aff
}

// Len returns the size of the membership set, stale entries included.
func (a *Augmentor) Len() int {
	return len(a.marked)
}
