package hunter

import (
	"strings"

	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

// elementKind is the dispatch class of a visited element, listed in
// precedence order.
type elementKind int

const (
	kindOther elementKind = iota
	kindHeading
	kindCode
	kindList
	kindLink
	kindImage
	kindParagraph
)

func kindOf(n htmltree.Node) elementKind {
	switch n.Tag() {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return kindHeading
	case "pre", "code":
		return kindCode
	case "ul", "ol", "li":
		return kindList
	case "a":
		return kindLink
	case "img":
		return kindImage
	case "p":
		return kindParagraph
	default:
		return kindOther
	}
}

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// walker produces the ordered fragment sequence for one document.
type walker struct {
	c           *Cleaner
	stats       *Stats
	fragments   []Fragment
	lastHeading string
}

func (w *walker) emit(f Fragment) {
	if strings.TrimSpace(f.Content) == "" {
		return
	}
	w.fragments = append(w.fragments, f)
	w.stats.RecordFragment(f.Type)
}

// visit dispatches one node. Elements that produce a fragment own their
// subtree, so their descendants are never emitted twice.
func (w *walker) visit(n htmltree.Node) htmltree.WalkAction {
	if !n.IsElement() {
		return htmltree.Continue
	}
	kind := kindOf(n)
	if kind == kindOther {
		return htmltree.Continue
	}
	if kind != kindImage && strings.TrimSpace(n.Text()) == "" {
		w.stats.EmptyElements++
		return htmltree.Continue
	}
	if kind == kindLink && n.HasDescendant(headingTags...) {
		// a heading inside an anchor is still a heading
		return htmltree.Continue
	}

	switch kind {
	case kindHeading:
		w.heading(n)
	case kindCode:
		w.code(n)
	case kindList:
		w.list(n)
	case kindLink:
		w.link(n)
	case kindImage:
		w.image(n)
	case kindParagraph:
		w.paragraph(n)
	}
	return htmltree.SkipChildren
}

func (w *walker) heading(n htmltree.Node) {
	text := Clean(n.Text(), false)
	if text == "" {
		return
	}
	// compared with the previous heading only
	if text == w.lastHeading {
		w.stats.DuplicateHeadings++
		return
	}
	w.lastHeading = text
	level := int(n.Tag()[1] - '0')
	w.emit(Fragment{
		Type:    FragmentHeading,
		Content: strings.Repeat("#", level) + " " + text,
		Meta:    Meta{Level: level},
	})
}

func (w *walker) code(n htmltree.Node) {
	w.emitCode(w.c.classifyCode(n))
}

func (w *walker) emitCode(cls Classification) {
	if !cls.Block {
		w.emit(Fragment{Type: FragmentParagraph, Content: w.c.render(cls)})
		return
	}
	w.emit(Fragment{
		Type:    FragmentCodeBlock,
		Content: strings.Trim(w.c.render(cls), "\n"),
		Meta:    Meta{Language: w.c.NormalizeLanguage(cls.Language)},
	})
}

func (w *walker) list(n htmltree.Node) {
	if n.Is("li") {
		// an item with no list around it renders as a one-item bullet list
		w.emit(Fragment{
			Type:    FragmentList,
			Content: strings.Join(w.c.formatListItem(n), "\n"),
			Meta:    Meta{ListDepth: 1, ListKind: ListUnordered},
		})
		return
	}
	kind := ListUnordered
	if n.Is("ol") {
		kind = ListOrdered
	}
	w.emit(Fragment{
		Type:    FragmentList,
		Content: strings.Join(w.c.formatList(n), "\n"),
		Meta:    Meta{ListDepth: ListDepth(n) + 1, ListKind: kind},
	})
}

func (w *walker) link(n htmltree.Node) {
	w.emit(Fragment{
		Type:    FragmentLink,
		Content: strings.TrimSpace(FormatLink(n)),
		Meta:    Meta{URL: n.AttrOr("href", "")},
	})
}

func (w *walker) image(n htmltree.Node) {
	w.emit(Fragment{
		Type:    FragmentImage,
		Content: strings.TrimSpace(FormatImage(n)),
		Meta:    Meta{URL: n.AttrOr("src", "")},
	})
}

// paragraph interleaves inline content with blocks found inside it: inline
// text gathered before a block is flushed as its own paragraph first.
func (w *walker) paragraph(p htmltree.Node) {
	var b inlineBuilder
	flush := func() {
		if !b.empty() {
			w.emit(Fragment{Type: FragmentParagraph, Content: b.String()})
			b.reset()
		}
	}

	var collect func(n htmltree.Node)
	collect = func(n htmltree.Node) {
		for _, child := range n.Children() {
			switch {
			case child.IsText():
				b.addText(child.Data())
			case child.Is("code", "pre"):
				cls := w.c.classifyCode(child)
				if cls.Block {
					flush()
					w.emitCode(cls)
					continue
				}
				b.add(inlineCode, w.c.render(cls))
			case child.Is("a"):
				if link := FormatLink(child); strings.TrimSpace(link) != "" {
					b.add(inlineLink, link)
				} else {
					collect(child)
				}
			case child.Is("img"):
				flush()
				w.image(child)
			case child.Is("ul", "ol"):
				flush()
				w.list(child)
			case child.Is("br"):
				if !b.empty() {
					b.parts[len(b.parts)-1].spaceAfter = true
				}
			default:
				collect(child)
			}
		}
	}

	collect(p)
	flush()
}
