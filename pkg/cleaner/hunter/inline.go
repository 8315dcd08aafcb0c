package hunter

import (
	"strings"

	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

// FormatLink renders an anchor as " [text](href) ". Anchors missing either
// part degrade to their cleaned text.
func FormatLink(el htmltree.Node) string {
	href := strings.TrimSpace(el.AttrOr("href", ""))
	text := Clean(el.Text(), false)
	if href != "" && text != "" {
		return " [" + text + "](" + href + ") "
	}
	return text
}

// FormatImage renders an image on its own line. Images without a src are
// dropped.
func FormatImage(el htmltree.Node) string {
	src := strings.TrimSpace(el.AttrOr("src", ""))
	if src == "" {
		return ""
	}
	alt := Clean(el.AttrOr("alt", ""), false)
	if title := Clean(el.AttrOr("title", ""), false); title != "" {
		return "\n![" + alt + "](" + src + " \"" + title + "\")\n"
	}
	return "\n![" + alt + "](" + src + ")\n"
}

// inlineKind tags a part of inline content.
type inlineKind int

const (
	inlineText inlineKind = iota
	inlineCode
	inlineLink
	inlineImage
)

type inlinePart struct {
	kind inlineKind
	text string
	// whitespace surrounded the raw text
	spaceBefore, spaceAfter bool
}

// inlineBuilder accumulates inline parts and joins them with single spaces
// wherever the source had whitespace or a code/link boundary.
type inlineBuilder struct {
	parts []inlinePart
}

func (b *inlineBuilder) addText(raw string) {
	text := Clean(raw, false)
	if text == "" {
		if raw != "" && len(b.parts) > 0 {
			b.parts[len(b.parts)-1].spaceAfter = true
		}
		return
	}
	b.parts = append(b.parts, inlinePart{
		kind:        inlineText,
		text:        text,
		spaceBefore: startsWithSpace(raw),
		spaceAfter:  endsWithSpace(raw),
	})
}

func (b *inlineBuilder) add(kind inlineKind, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.parts = append(b.parts, inlinePart{kind: kind, text: text, spaceBefore: true, spaceAfter: true})
}

func (b *inlineBuilder) empty() bool {
	return len(b.parts) == 0
}

func (b *inlineBuilder) reset() {
	b.parts = b.parts[:0]
}

// String joins the parts.
func (b *inlineBuilder) String() string {
	var sb strings.Builder
	for i, p := range b.parts {
		if i > 0 {
			prev := b.parts[i-1]
			if prev.spaceAfter || p.spaceBefore {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(p.text)
	}
	return collapseSpace(sb.String())
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
