package cleaner

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Toggle specifies include/exclude behavior.
type Toggle int

const (
	// Default uses the default behavior for the field.
	Default Toggle = iota
	// Include explicitly includes the content.
	Include
	// Exclude explicitly excludes the content.
	Exclude
)

// TrafilaturaConfig configures the Trafilatura cleaner. Everything a
// documentation page needs (tables, links, images) is kept by default.
type TrafilaturaConfig struct {
	// Output format: OutputHTML (default) or OutputText
	Output OutputFormat
	// Comments: default Exclude
	Comments Toggle
	// Tables: default Include
	Tables Toggle
	// Links: default Include
	Links Toggle
	// Images: default Include
	Images Toggle
	// Fallback to Readability/DomDistiller: default Include
	Fallback Toggle
}

// TrafilaturaCleaner isolates the main content with go-trafilatura. It is an
// alternative to ReadabilityCleaner as the pre-stage for pages whose markup
// has no usable main container.
type TrafilaturaCleaner struct {
	opts   trafilatura.Options
	output OutputFormat
}

// NewTrafilatura creates a new Trafilatura cleaner.
// Pass nil for default configuration.
func NewTrafilatura(cfg *TrafilaturaConfig) *TrafilaturaCleaner {
	if cfg == nil {
		cfg = &TrafilaturaConfig{}
	}
	return &TrafilaturaCleaner{
		opts: trafilatura.Options{
			ExcludeComments: cfg.Comments != Include,
			ExcludeTables:   cfg.Tables == Exclude,
			IncludeLinks:    cfg.Links != Exclude,
			IncludeImages:   cfg.Images != Exclude,
			EnableFallback:  cfg.Fallback != Exclude,
		},
		output: cfg.Output,
	}
}

// Clean extracts the main content. When nothing is extracted the input is
// returned unchanged so a following stage still sees the page.
func (c *TrafilaturaCleaner) Clean(htmlContent string) (string, error) {
	result, err := trafilatura.Extract(strings.NewReader(htmlContent), c.opts)
	if err != nil {
		return "", err
	}
	if result == nil {
		return htmlContent, nil
	}

	if c.output == OutputText {
		if result.ContentText == "" {
			return htmlContent, nil
		}
		return result.ContentText, nil
	}

	if result.ContentNode == nil {
		return htmlContent, nil
	}
	// rendered as is: reformatting would re-indent <pre> blocks
	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil || buf.Len() == 0 {
		return htmlContent, nil
	}
	return buf.String(), nil
}

// Name returns the cleaner type.
func (c *TrafilaturaCleaner) Name() string {
	return "trafilatura"
}
