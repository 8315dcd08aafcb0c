package htmltree

import "strings"

// Node is a cheap value-typed view of one arena entry. The zero Node is
// invalid and stands for "no element".
type Node struct {
	tree *Tree
	id   int
}

func (n Node) raw() *node {
	return &n.tree.nodes[n.id]
}

// Valid reports whether n refers to a node.
func (n Node) Valid() bool {
	return n.tree != nil
}

// IsElement reports whether n is an element.
func (n Node) IsElement() bool {
	return n.Valid() && n.raw().kind == ElementNode
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool {
	return n.Valid() && n.raw().kind == TextNode
}

// Tag returns the lower-cased tag name, or "" for text nodes and the document.
func (n Node) Tag() string {
	if !n.Valid() {
		return ""
	}
	return n.raw().tag
}

// Is reports whether n is an element with one of the given tags.
func (n Node) Is(tags ...string) bool {
	tag := n.Tag()
	if tag == "" {
		return false
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Data returns the raw text of a text node.
func (n Node) Data() string {
	if !n.IsText() {
		return ""
	}
	return n.raw().text
}

// Attr returns an attribute value and whether it was present.
func (n Node) Attr(name string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	for _, a := range n.raw().attrs {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when absent.
func (n Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Attrs returns a copy of the attribute map.
func (n Node) Attrs() map[string]string {
	if !n.IsElement() {
		return nil
	}
	m := make(map[string]string, len(n.raw().attrs))
	for _, a := range n.raw().attrs {
		m[a.Key] = a.Val
	}
	return m
}

// AttrKeys returns attribute names in source order.
func (n Node) AttrKeys() []string {
	if !n.IsElement() {
		return nil
	}
	keys := make([]string, 0, len(n.raw().attrs))
	for _, a := range n.raw().attrs {
		keys = append(keys, a.Key)
	}
	return keys
}

// Classes returns the whitespace-separated class list.
func (n Node) Classes() []string {
	return strings.Fields(n.AttrOr("class", ""))
}

// ID returns the id attribute.
func (n Node) ID() string {
	return n.AttrOr("id", "")
}

// Parent returns the parent node. The result is invalid at the root.
func (n Node) Parent() Node {
	if !n.Valid() {
		return Node{}
	}
	p := n.raw().parent
	if p == noParent {
		return Node{}
	}
	return Node{tree: n.tree, id: p}
}

// Children returns element and text children in document order.
func (n Node) Children() []Node {
	if !n.Valid() {
		return nil
	}
	ids := n.raw().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// ElementChildren returns only the element children.
func (n Node) ElementChildren() []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// FirstElement returns the first element child with one of the given tags.
func (n Node) FirstElement(tags ...string) Node {
	for _, c := range n.Children() {
		if c.Is(tags...) {
			return c
		}
	}
	return Node{}
}

// HasDescendant reports whether any element below n has one of the tags.
func (n Node) HasDescendant(tags ...string) bool {
	found := false
	for _, c := range n.Children() {
		c.Walk(func(d Node) WalkAction {
			if d.Is(tags...) {
				found = true
				return Stop
			}
			return Continue
		})
		if found {
			return true
		}
	}
	return false
}

// CountAncestors counts ancestors whose tag is one of tags.
func (n Node) CountAncestors(tags ...string) int {
	count := 0
	for p := n.Parent(); p.Valid(); p = p.Parent() {
		if p.Is(tags...) {
			count++
		}
	}
	return count
}

// HasAncestor reports whether any ancestor has one of the tags.
func (n Node) HasAncestor(tags ...string) bool {
	for p := n.Parent(); p.Valid(); p = p.Parent() {
		if p.Is(tags...) {
			return true
		}
	}
	return false
}

// PrecedingSiblings counts earlier siblings with one of the given tags.
func (n Node) PrecedingSiblings(tags ...string) int {
	parent := n.Parent()
	if !parent.Valid() {
		return 0
	}
	count := 0
	siblings := parent.raw().children
	for _, id := range siblings[:n.raw().pos] {
		if (Node{tree: n.tree, id: id}).Is(tags...) {
			count++
		}
	}
	return count
}

// Text returns the concatenated text of n and all its descendants.
func (n Node) Text() string {
	if !n.Valid() {
		return ""
	}
	if n.IsText() {
		return n.raw().text
	}
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n Node) appendText(sb *strings.Builder) {
	for _, c := range n.Children() {
		if c.IsText() {
			sb.WriteString(c.raw().text)
			continue
		}
		c.appendText(sb)
	}
}

// WalkAction tells Walk how to continue after visiting a node.
type WalkAction int

const (
	// Continue descends into the node's children.
	Continue WalkAction = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
	// Stop ends the walk.
	Stop
)

// Walk visits n and its descendants in document order.
func (n Node) Walk(fn func(Node) WalkAction) {
	if n.Valid() {
		n.walk(fn)
	}
}

func (n Node) walk(fn func(Node) WalkAction) bool {
	switch fn(n) {
	case Stop:
		return false
	case SkipChildren:
		return true
	}
	for _, c := range n.Children() {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
