package hunter

import (
	"strconv"
	"strings"

	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

var listTags = []string{"ul", "ol"}

// ListDepth counts the list containers above el. Items of a top-level list
// have depth 1.
func ListDepth(el htmltree.Node) int {
	return el.CountAncestors(listTags...)
}

// ListMarker returns "-" for unordered items and "<n>." for ordered ones,
// where n is the item's 1-based position among its sibling items.
func ListMarker(item htmltree.Node) string {
	if item.Parent().Is("ol") {
		return strconv.Itoa(item.PrecedingSiblings("li")+1) + "."
	}
	return "-"
}

// listItem is the assembled content of one <li>.
type listItem struct {
	inline inlineBuilder
	blocks []string
	nested []htmltree.Node
}

// formatList renders every item of list, nested lists included, as lines.
func (c *Cleaner) formatList(list htmltree.Node) []string {
	var lines []string
	for _, item := range list.ElementChildren() {
		if !item.Is("li") {
			// stray markup directly inside a list still gets its lists rendered
			for _, nested := range nestedLists(item) {
				lines = append(lines, c.formatList(nested)...)
			}
			continue
		}
		lines = append(lines, c.formatListItem(item)...)
	}
	return lines
}

func (c *Cleaner) formatListItem(item htmltree.Node) []string {
	depth := ListDepth(item)
	if depth < 1 {
		depth = 1
	}
	indent := strings.Repeat(c.config.IndentUnit, depth-1)

	var li listItem
	c.collectItem(item, &li)

	content := li.inline.String()
	lines := []string{strings.TrimRight(indent+ListMarker(item)+" "+content, " ")}

	for _, block := range li.blocks {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		if content != "" {
			lines = append(lines, "")
		}
		for _, l := range strings.Split(block, "\n") {
			if l == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, indent+l)
		}
		if content != "" {
			lines = append(lines, "")
		}
	}

	for _, nested := range li.nested {
		lines = append(lines, c.formatList(nested)...)
	}
	return lines
}

// collectItem walks the children of a list item (or an inline wrapper inside
// one) and sorts them into inline content, code blocks and nested lists.
func (c *Cleaner) collectItem(n htmltree.Node, li *listItem) {
	for _, child := range n.Children() {
		switch {
		case child.IsText():
			li.inline.addText(child.Data())
		case child.Is("ul", "ol"):
			li.nested = append(li.nested, child)
		case child.Is("code", "pre"):
			cls := c.classifyCode(child)
			if cls.Block {
				if block := c.render(cls); block != "" {
					li.blocks = append(li.blocks, block)
				}
				continue
			}
			li.inline.add(inlineCode, c.render(cls))
		case child.Is("a"):
			if link := FormatLink(child); strings.TrimSpace(link) != "" {
				li.inline.add(inlineLink, link)
			} else {
				c.collectItem(child, li)
			}
		case child.Is("img"):
			li.inline.add(inlineImage, FormatImage(child))
		case child.Is("br"):
			if !li.inline.empty() {
				li.inline.parts[len(li.inline.parts)-1].spaceAfter = true
			}
		default:
			c.collectItem(child, li)
		}
	}
}

// nestedLists finds the outermost lists below n.
func nestedLists(n htmltree.Node) []htmltree.Node {
	var out []htmltree.Node
	for _, child := range n.ElementChildren() {
		child.Walk(func(d htmltree.Node) htmltree.WalkAction {
			if d.Is(listTags...) {
				out = append(out, d)
				return htmltree.SkipChildren
			}
			return htmltree.Continue
		})
	}
	return out
}
