package route

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// A Node is one vertex of a router's route tree.
//
// A Node owns its children; its parent and router are back-references.
// A Node holding at least one Handler is a valid resolution target.
type Node struct {
	selector Selector
	parent   *Node
	router   *Router
	children []*Node
	handlers []Handler
	adapters []Adapter

	mu    sync.Mutex
	chain Handler
	dirty bool
}

func newNode(sel Selector, parent *Node, r *Router) *Node {
	return &Node{selector: sel, parent: parent, router: r, dirty: true}
}

// Selector returns the Selector leading to n from its parent.
func (n *Node) Selector() Selector { return n.selector }

// Parent returns the Node n hangs off of, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Router returns the Router whose handlers n runs.
// For a Node mirrored into a parent router's tree, that is the child router.
func (n *Node) Router() *Router { return n.router }

// Children returns n's children in registration order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// HasHandlers reports whether n is a valid resolution target.
func (n *Node) HasHandlers() bool { return len(n.handlers) > 0 }

// CreateChild returns the child of n with a Selector the same as sel,
// appending a new child if none exists.
func (n *Node) CreateChild(sel Selector) *Node {
	for _, c := range n.children {
		if SameSelector(c.selector, sel) {
			return c
		}
	}

	c := newNode(sel, n, n.router)
	n.children = append(n.children, c)
	return c
}

// Route walks pattern from n, creating the Nodes it needs, and returns the last one.
// See ParsePattern for the pattern syntax.
func (n *Node) Route(pattern string) (*Node, error) {
	sels, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	cur := n
	for _, sel := range sels {
		cur = cur.CreateChild(sel)
	}
	return cur, nil
}

// Regex returns the child of n matching the remaining destination against pattern.
func (n *Node) Regex(pattern string) (*Node, error) {
	sel, err := NewRegexSelector(pattern)
	if err != nil {
		return nil, err
	}
	return n.CreateChild(sel), nil
}

// Method returns the child of n matching calls made with m.
func (n *Node) Method(m Method) *Node {
	return n.CreateChild(MethodSelector{Method: m})
}

// Named registers n under name in its router.
func (n *Node) Named(name string) error {
	if n.router == nil {
		return fmt.Errorf("%w: node %s has no router", ErrRouteNotFound, n)
	}
	return n.router.RegisterNamed(name, n)
}

// Handle appends h to the handlers run when a destination resolves to n.
func (n *Node) Handle(h Handler) *Node {
	n.mu.Lock()
	n.handlers = append(n.handlers, h)
	n.dirty = true
	n.mu.Unlock()
	return n
}

// HandleFunc appends f to the handlers run when a destination resolves to n.
func (n *Node) HandleFunc(f func(ctx context.Context, c *Call) error) *Node {
	return n.Handle(HandlerFunc(f))
}

// Use wraps the handlers of n and of every descendant of n with adapters.
func (n *Node) Use(adapters ...Adapter) *Node {
	n.mu.Lock()
	n.adapters = append(n.adapters, adapters...)
	n.mu.Unlock()
	n.invalidate()
	return n
}

// String renders every Selector from the root to n, method selectors included.
func (n *Node) String() string {
	var b strings.Builder
	for _, sel := range n.selectors() {
		b.WriteString(sel.String())
	}

	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Path renders the canonical path pattern of n.
func (n *Node) Path() string {
	var b strings.Builder
	for _, sel := range n.selectors() {
		if _, ok := sel.(MethodSelector); ok {
			continue
		}

		s := sel.String()
		if strings.HasSuffix(b.String(), "/") {
			s = strings.TrimPrefix(s, "/")
		}
		b.WriteString(s)
	}

	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// selectors returns the Selectors from the root to n.
func (n *Node) selectors() []Selector {
	var sels []Selector
	for cur := n; cur != nil; cur = cur.parent {
		sels = append([]Selector{cur.selector}, sels...)
	}
	return sels
}

// handler returns the chain of n's handlers wrapped by the adapters of n and its ancestors,
// assembling it again only after a change invalidated it.
func (n *Node) handler() Handler {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.dirty && n.chain != nil {
		return n.chain
	}

	var adapters []Adapter
	for cur := n; cur != nil; cur = cur.parent {
		adapters = append(append([]Adapter(nil), cur.adapters...), adapters...)
	}

	n.chain = Chain(append(sequence(nil), n.handlers...), adapters...)
	n.dirty = false
	return n.chain
}

func (n *Node) invalidate() {
	n.mu.Lock()
	n.dirty = true
	n.mu.Unlock()

	for _, c := range n.children {
		c.invalidate()
	}
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// replaceChild swaps old for c in place, appending c when old is not a child of n.
func (n *Node) replaceChild(old, c *Node) {
	c.parent = n
	for i, child := range n.children {
		if child == old {
			n.children[i] = c
			old.parent = nil
			return
		}
	}
	n.children = append(n.children, c)
}

// mirror deep copies n and its descendants, giving the copy of n the Selector sel.
// Copies keep the router of the Node they copy.
func (n *Node) mirror(sel Selector) *Node {
	m := newNode(sel, nil, n.router)
	m.handlers = append([]Handler(nil), n.handlers...)
	m.adapters = append([]Adapter(nil), n.adapters...)
	for _, c := range n.children {
		cm := c.mirror(c.selector)
		cm.parent = m
		m.children = append(m.children, cm)
	}
	return m
}

// clear drops n's children, handlers and adapters.
func (n *Node) clear() {
	n.mu.Lock()
	n.children = nil
	n.handlers = nil
	n.adapters = nil
	n.chain = nil
	n.dirty = true
	n.mu.Unlock()
}

// contains reports whether c is n or one of its descendants.
func (n *Node) contains(c *Node) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}
