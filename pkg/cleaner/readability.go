package cleaner

import (
	"bytes"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"golang.org/x/net/html"
)

// OutputFormat specifies the Readability output format.
type OutputFormat int

const (
	// OutputHTML outputs the isolated article as HTML (default, for chaining
	// with a Markdown cleaner).
	OutputHTML OutputFormat = iota
	// OutputText outputs plain text directly.
	OutputText
)

// ReadabilityConfig configures the Readability cleaner.
type ReadabilityConfig struct {
	// Output format: OutputHTML (default) or OutputText
	Output OutputFormat
	// MaxElemsToParse limits the number of nodes to parse (0 = no limit).
	MaxElemsToParse int
	// NTopCandidates is the number of top candidates to consider (default: 5).
	NTopCandidates int
	// CharThreshold is the minimum character count for valid content (default: 500).
	CharThreshold int
	// ClassesToPreserve lists extra classes to keep. Classes are always kept
	// so code language markers survive into the Markdown stage.
	ClassesToPreserve []string
	// BaseURL is used for resolving relative URLs. If empty, URLs remain relative.
	BaseURL string
}

// ReadabilityCleaner isolates the main article of a page using go-readability
// before Markdown conversion. It helps on pages without semantic containers
// such as <article> or <main>.
type ReadabilityCleaner struct {
	cfg    ReadabilityConfig
	parser readability.Parser
}

// NewReadability creates a new Readability cleaner.
// Pass nil for default configuration.
func NewReadability(cfg *ReadabilityConfig) *ReadabilityCleaner {
	if cfg == nil {
		cfg = &ReadabilityConfig{}
	}

	parser := readability.NewParser()
	parser.KeepClasses = true

	if cfg.MaxElemsToParse > 0 {
		parser.MaxElemsToParse = cfg.MaxElemsToParse
	}
	if cfg.NTopCandidates > 0 {
		parser.NTopCandidates = cfg.NTopCandidates
	}
	if cfg.CharThreshold > 0 {
		parser.CharThresholds = cfg.CharThreshold
	}
	if len(cfg.ClassesToPreserve) > 0 {
		parser.ClassesToPreserve = cfg.ClassesToPreserve
	}

	return &ReadabilityCleaner{
		cfg:    *cfg,
		parser: parser,
	}
}

// Clean extracts the main content from HTML using Readability.
// When nothing can be isolated the input is returned unchanged.
func (c *ReadabilityCleaner) Clean(htmlContent string) (string, error) {
	var baseURL *url.URL
	if c.cfg.BaseURL != "" {
		// an unparsable base leaves URLs relative
		baseURL, _ = url.Parse(c.cfg.BaseURL)
	}

	article, err := c.parser.Parse(strings.NewReader(htmlContent), baseURL)
	if err != nil {
		return "", err
	}
	if article.Node == nil {
		return htmlContent, nil
	}

	var buf bytes.Buffer
	switch c.cfg.Output {
	case OutputText:
		if err := article.RenderText(&buf); err != nil || buf.Len() == 0 {
			return htmlContent, nil
		}
	default:
		if err := article.RenderHTML(&buf); err != nil {
			buf.Reset()
			if err := html.Render(&buf, article.Node); err != nil {
				return htmlContent, nil
			}
		}
		if buf.Len() == 0 {
			return htmlContent, nil
		}
	}
	return buf.String(), nil
}

// Name returns the cleaner type.
func (c *ReadabilityCleaner) Name() string {
	return "readability"
}
