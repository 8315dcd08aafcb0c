package hunter

import "strings"

// FragmentType is the closed set of output fragment kinds.
type FragmentType string

const (
	FragmentHeading   FragmentType = "heading"
	FragmentCodeBlock FragmentType = "code_block"
	FragmentList      FragmentType = "list"
	FragmentParagraph FragmentType = "paragraph"
	FragmentLink      FragmentType = "link"
	FragmentImage     FragmentType = "image"
)

// ListKind distinguishes ordered from unordered lists.
type ListKind string

const (
	ListOrdered   ListKind = "ordered"
	ListUnordered ListKind = "unordered"
)

// Meta carries type-specific fragment data.
type Meta struct {
	Level     int      `json:"level,omitempty" yaml:"level,omitempty"`
	Language  string   `json:"language,omitempty" yaml:"language,omitempty"`
	ListDepth int      `json:"list_depth,omitempty" yaml:"list_depth,omitempty"`
	ListKind  ListKind `json:"list_kind,omitempty" yaml:"list_kind,omitempty"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Fragment is one formatted piece of Markdown produced from one element.
type Fragment struct {
	Type    FragmentType `json:"type" yaml:"type"`
	Content string       `json:"content" yaml:"content"`
	Meta    Meta         `json:"metadata" yaml:"metadata"`
}

// Assemble joins fragments in order, one blank line apart, before
// normalization.
func Assemble(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f.Content != "" {
			parts = append(parts, f.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
