package hunter

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Removal reasons recorded in Stats.
const (
	reasonTag    = "tag"
	reasonChrome = "chrome_tag"
	reasonClass  = "chrome_class"
	reasonID     = "chrome_id"
)

// prune removes non-content subtrees from doc in place.
func (c *Cleaner) prune(doc *goquery.Document, stats *Stats) {
	root := doc.Nodes[0]

	removeTags := func(tags []string, reason string, keepCode bool) {
		for _, tag := range tags {
			doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
				if detached(s.Nodes[0], root) {
					return
				}
				if keepCode {
					rescueCode(s, stats)
				}
				stats.RecordRemoval(tag, reason)
				s.Remove()
			})
		}
	}

	removeTags(c.config.RemoveTags, reasonTag, false)
	removeTags(c.config.SkipTags, reasonChrome, true)

	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		if detached(node, root) || slices.Contains(c.config.KeepTags, node.Data) || insideCode(node, nil) {
			return
		}
		reason := c.chromeReason(s)
		if reason == "" {
			return
		}
		rescueCode(s, stats)
		stats.RecordRemoval(node.Data, reason)
		s.Remove()
	})
}

// rescueCode moves the outermost pre and code elements of s in front of it,
// so removing s as chrome keeps them in place.
func rescueCode(s *goquery.Selection, stats *Stats) {
	self := s.Nodes[0]
	if self.Parent == nil {
		return
	}
	s.Find("pre, code").Each(func(_ int, cs *goquery.Selection) {
		n := cs.Nodes[0]
		if insideCode(n, self) {
			return
		}
		n.Parent.RemoveChild(n)
		self.Parent.InsertBefore(n, self)
		stats.RescuedCode++
	})
}

// insideCode reports whether n has a pre or code ancestor below stop.
func insideCode(n, stop *html.Node) bool {
	for p := n.Parent; p != nil && p != stop; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "pre" || p.Data == "code") {
			return true
		}
	}
	return false
}

// chromeReason reports why s looks like navigation chrome, or "".
func (c *Cleaner) chromeReason(s *goquery.Selection) string {
	if class, ok := s.Attr("class"); ok {
		joined := strings.Join(strings.Fields(class), " ")
		for _, term := range c.config.SkipClasses {
			if term != "" && strings.Contains(joined, term) {
				return reasonClass
			}
		}
	}
	if id, ok := s.Attr("id"); ok {
		for _, term := range c.config.SkipIDs {
			if term != "" && strings.Contains(id, term) {
				return reasonID
			}
		}
	}
	return ""
}

// detached reports whether n was cut out of the tree rooted at root.
func detached(n, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return false
		}
	}
	return true
}

// narrow returns the main content container, or the document itself.
func (c *Cleaner) narrow(doc *goquery.Document, stats *Stats) *html.Node {
	root := doc.Nodes[0]
	for i, sel := range c.selectors.mainContent {
		if n := sel.MatchFirst(root); n != nil {
			stats.MainContent = c.selectors.sources[i]
			return n
		}
	}
	stats.MainContent = "document"
	return root
}
