package htmldom

import (
	"strings"

	"github.com/aretw0/marginalia/pkg/ports"
	"golang.org/x/net/html"
)

// Node implements ports.Node over an *html.Node.
type Node struct {
	doc *Document
	n   *html.Node
}

// Ensure Node implements ports.Node
var _ ports.Node = (*Node)(nil)

// HTML returns the underlying parser node.
func (n *Node) HTML() *html.Node {
	return n.n
}

func (n *Node) Tag() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

func (n *Node) Text() string {
	var b strings.Builder
	collectText(&b, n.n)
	return b.String()
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.n.Attr[i].Val = value
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: name, Val: value})
}

func (n *Node) ClassName() string {
	v, _ := n.Attr("class")
	return v
}

func (n *Node) Children() []ports.Node {
	var out []ports.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, n.doc.wrap(c))
		}
	}
	return out
}

func (n *Node) Parent() ports.Node {
	p := n.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return n.doc.wrap(p)
}

func (n *Node) QueryAll(selector string) []ports.Node {
	return n.doc.queryAll(n.n, selector)
}

func (n *Node) Closest(selector string) ports.Node {
	group := n.doc.compile(selector)
	if group == nil {
		return nil
	}
	for p := n.n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && group.Match(p) {
			return n.doc.wrap(p)
		}
	}
	return nil
}

func (n *Node) Matches(selector string) bool {
	group := n.doc.compile(selector)
	return group != nil && n.n.Type == html.ElementNode && group.Match(n.n)
}

func (n *Node) Connected() bool {
	return n.doc.connected(n.n)
}

func (n *Node) Same(other ports.Node) bool {
	o := unwrap(other)
	return o != nil && o == n.n
}

func (n *Node) AppendChild(child ports.Node) {
	c := unwrap(child)
	if c == nil {
		return
	}
	n.doc.insert(n.n, c, nil)
}

func (n *Node) InsertBefore(child ports.Node) {
	c := unwrap(child)
	if c == nil || n.n.Parent == nil {
		return
	}
	n.doc.insert(n.n.Parent, c, n.n)
}

func (n *Node) RemoveChildren(keep func(ports.Node) bool) {
	for c := n.n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.ElementNode || keep == nil || !keep(n.doc.wrap(c)) {
			n.n.RemoveChild(c)
		}
		c = next
	}
}

func (n *Node) SetText(text string) {
	for c := n.n.FirstChild; c != nil; {
		next := c.NextSibling
		n.n.RemoveChild(c)
		c = next
	}
	n.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (n *Node) Style(property string) string {
	raw, _ := n.Attr("style")
	for _, decl := range parseStyle(raw) {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

func (n *Node) SetStyle(property, value string) {
	raw, _ := n.Attr("style")
	decls := parseStyle(raw)
	found := false
	out := decls[:0]
	for _, decl := range decls {
		if decl[0] == property {
			found = true
			if value == "" {
				continue
			}
			decl[1] = value
		}
		out = append(out, decl)
	}
	if !found && value != "" {
		out = append(out, [2]string{property, value})
	}
	n.SetAttr("style", formatStyle(out))
}

func (n *Node) ScrollIntoView() {
	n.doc.recordScroll(n.n)
}

func (n *Node) On(event string, fn func()) func() {
	return n.doc.addListener(n.n, event, fn)
}

func unwrap(n ports.Node) *html.Node {
	hn, ok := n.(*Node)
	if !ok || hn == nil {
		return nil
	}
	return hn.n
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func parseStyle(raw string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" {
			out = append(out, [2]string{k, v})
		}
	}
	return out
}

func formatStyle(decls [][2]string) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d[0]+": "+d[1])
	}
	return strings.Join(parts, "; ")
}
