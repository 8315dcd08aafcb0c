// Package htmltree provides a read-only arena view over a parsed HTML document.
//
// Nodes live in a single slice owned by the Tree. Parent links are indexes
// into that slice, so a Node never owns its parent or its children and the
// whole structure can be shared freely once built.
package htmltree

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind distinguishes element nodes from text nodes.
type Kind uint8

const (
	ElementNode Kind = iota + 1
	TextNode
)

// noParent marks the root of the arena.
const noParent = -1

type node struct {
	kind     Kind
	tag      string
	text     string
	attrs    []html.Attribute
	parent   int
	children []int
	// index among the parent's children
	pos int
}

// Tree is an immutable arena of HTML nodes.
type Tree struct {
	nodes  []node
	source map[*html.Node]int
	root   int
}

// Parse parses HTML and builds an arena from the resulting document.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromNode(doc), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// FromNode copies an x/net/html tree into a new arena. Comments, doctypes
// and other non-content nodes are dropped.
func FromNode(n *html.Node) *Tree {
	t := &Tree{source: make(map[*html.Node]int)}
	t.root = t.add(n, noParent)
	return t
}

func (t *Tree) add(n *html.Node, parent int) int {
	id := len(t.nodes)
	nd := node{parent: parent}
	switch n.Type {
	case html.ElementNode:
		nd.kind = ElementNode
		nd.tag = strings.ToLower(n.Data)
		nd.attrs = n.Attr
	case html.TextNode:
		nd.kind = TextNode
		nd.text = n.Data
	default:
		// documents act as anonymous elements so their children stay reachable
		nd.kind = ElementNode
	}
	t.nodes = append(t.nodes, nd)
	t.source[n] = id

	if nd.kind == TextNode {
		return id
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode && c.Type != html.TextNode {
			continue
		}
		child := t.add(c, id)
		t.nodes[child].pos = len(t.nodes[id].children)
		t.nodes[id].children = append(t.nodes[id].children, child)
	}
	return id
}

// Root returns the top of the arena.
func (t *Tree) Root() Node {
	return Node{tree: t, id: t.root}
}

// Len reports how many nodes the arena holds.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Lookup returns the arena view of a node from the source tree.
func (t *Tree) Lookup(n *html.Node) (Node, bool) {
	id, ok := t.source[n]
	if !ok {
		return Node{}, false
	}
	return Node{tree: t, id: id}, true
}
