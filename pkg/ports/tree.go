package ports

// Node is an element of the host document tree.
//
// Implementations must tolerate the node having been detached by the host at
// any time: queries on a detached node return empty results, never errors.
// A nil Node is always the untyped nil interface.
type Node interface {
	// Tag returns the lower-case element name (e.g. "table").
	Tag() string

	// Text returns the concatenated text content of the node and its descendants.
	Text() string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	SetAttr(name, value string)

	// ClassName returns the raw class attribute.
	ClassName() string

	// Children returns the element children in document order.
	Children() []Node

	// Parent returns the parent element, or nil.
	Parent() Node

	// QueryAll returns the descendants matching a CSS selector, in document order.
	// An invalid selector yields no matches.
	QueryAll(selector string) []Node

	// Closest returns the nearest inclusive ancestor matching selector, or nil.
	Closest(selector string) Node

	// Matches reports whether the node itself matches selector.
	Matches(selector string) bool

	// Connected reports whether the node is still attached to its document.
	Connected() bool

	// Same reports whether other refers to the same host element.
	Same(other Node) bool

	AppendChild(child Node)

	// InsertBefore inserts child as a sibling immediately before the receiver.
	InsertBefore(child Node)

	// RemoveChildren detaches every child except those for which keep returns true.
	RemoveChildren(keep func(Node) bool)

	SetText(text string)

	Style(property string) string
	SetStyle(property, value string)

	// ScrollIntoView asks the host to bring the node into the viewport.
	ScrollIntoView()

	// On registers fn for a host event ("click", "mouseenter", "mouseleave").
	// The returned function releases the listener.
	On(event string, fn func()) (release func())
}

// MutationBatch reports the nodes added to the tree by one host change.
type MutationBatch struct {
	Added []Node
}

// Document is the host document tree.
type Document interface {
	// Body returns the root element under which the engine observes and renders.
	Body() Node

	// CreateElement builds a detached element owned by the document.
	CreateElement(tag string) Node

	// QueryAll matches selector against the whole document, in document order.
	QueryAll(selector string) []Node

	// Observe subscribes to batched node-addition notifications anywhere under Body.
	// Callbacks may arrive on any goroutine; callers re-sequence them.
	Observe(fn func(MutationBatch)) (stop func())
}
