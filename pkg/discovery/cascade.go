package discovery

import (
	"strings"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
)

// Turn is a discovered conversational turn.
// Node is a weak back-reference: the host may remove it at any time.
type Turn struct {
	Node     ports.Node
	Text     string
	Strategy string
}

// Strategy is a named, side-effect-free turn finder.
type Strategy struct {
	Name string
	Find func(root ports.Node) []Turn
}

// Result is the outcome of one cascade run.
type Result struct {
	Turns []Turn
	// Strategy names the winning strategy, or "" when nothing matched.
	Strategy string
}

// Cascade evaluates strategies in priority order.
type Cascade struct {
	strategies []Strategy
}

// NewCascade creates a cascade over strategies, highest priority first.
func NewCascade(strategies ...Strategy) *Cascade {
	return &Cascade{strategies: strategies}
}

// Discover runs the strategies until one yields a turn.
func (c *Cascade) Discover(root ports.Node) Result {
	if root == nil {
		return Result{}
	}
	for _, s := range c.strategies {
		turns := s.Find(root)
		if len(turns) > 0 {
			return Result{Turns: turns, Strategy: s.Name}
		}
	}
	return Result{}
}

// Strategies returns the strategy names in priority order.
func (c *Cascade) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name)
	}
	return names
}

// Prepend returns a new cascade with strategies ahead of the current ones.
func (c *Cascade) Prepend(strategies ...Strategy) *Cascade {
	all := make([]Strategy, 0, len(strategies)+len(c.strategies))
	all = append(all, strategies...)
	all = append(all, c.strategies...)
	return NewCascade(all...)
}

// SelectorStrategy matches every element for selector and keeps those with text.
func SelectorStrategy(name, selector string) Strategy {
	return Strategy{
		Name: name,
		Find: func(root ports.Node) []Turn {
			var turns []Turn
			for _, n := range root.QueryAll(selector) {
				if owned(n) {
					continue
				}
				if text := strings.TrimSpace(n.Text()); text != "" {
					turns = append(turns, Turn{Node: n, Text: text, Strategy: name})
				}
			}
			return turns
		},
	}
}

var panelSelector = "[" + domain.AttrOwned + "=" + domain.RolePanel + "]"

// owned reports whether n was created by the engine or lives in its panel.
func owned(n ports.Node) bool {
	if _, ok := n.Attr(domain.AttrOwned); ok {
		return true
	}
	return n.Closest(panelSelector) != nil
}
