package cleaner

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
)

// MarkdownCleaner converts HTML to Markdown using the general-purpose
// html-to-markdown converter. It serves as the "generic" engine the compare
// command measures the documentation-tuned hunter cleaner against, so its
// output goes through the same normalizer.
type MarkdownCleaner struct {
	cfg markdownConfig
}

// MarkdownOption configures the markdown cleaner.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	// StripLinks removes link URLs, keeping only the link text
	StripLinks bool
	// StripImages removes images entirely
	StripImages bool
}

// WithStripLinks configures the cleaner to remove link URLs.
func WithStripLinks(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripLinks = strip
	}
}

// WithStripImages configures the cleaner to remove images.
func WithStripImages(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripImages = strip
	}
}

// NewMarkdown creates a new Markdown cleaner.
func NewMarkdown(opts ...MarkdownOption) *MarkdownCleaner {
	c := &MarkdownCleaner{}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(html string) (string, error) {
	if c.cfg.StripLinks || c.cfg.StripImages {
		stripped, err := c.strip(html)
		if err != nil {
			return "", err
		}
		html = stripped
	}

	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", err
	}
	return hunter.Normalize(markdown), nil
}

// strip drops images and unwraps anchors before conversion.
func (c *MarkdownCleaner) strip(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	if c.cfg.StripImages {
		doc.Find("img").Remove()
	}
	if c.cfg.StripLinks {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithSelection(s.Contents())
		})
	}
	return doc.Html()
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}
