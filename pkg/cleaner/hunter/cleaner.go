package hunter

import (
	"bytes"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

// Cleaner converts HTML documents into Markdown.
// It implements the cleaner.Cleaner interface.
//
// A Cleaner holds no per-document state and may be shared between
// goroutines.
type Cleaner struct {
	config     *Config
	selectors  *compiled
	compileErr error
}

// New creates a new Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used. Selectors that fail to compile
// are reported as a warning on every result and narrowing is skipped.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	c := &Cleaner{config: config}
	c.selectors, c.compileErr = config.compile()
	if c.compileErr != nil {
		c.selectors = &compiled{}
	}
	return c
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "hunter"
}

// Config returns the configuration the cleaner was built with.
func (c *Cleaner) Config() *Config {
	return c.config
}

// Clean converts html to Markdown.
// This method implements the cleaner.Cleaner interface and never fails:
// input that cannot be parsed yields an empty document.
func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanWithStats(html).Content, nil
}

// ExtractMarkdown converts html to normalized Markdown.
func (c *Cleaner) ExtractMarkdown(html string) string {
	return c.CleanWithStats(html).Content
}

// Extract returns the ordered fragment sequence for html without
// assembling it.
func (c *Cleaner) Extract(html string) []Fragment {
	return c.CleanWithStats(html).Fragments
}

// CleanWithStats runs the full pipeline and returns detailed stats.
func (c *Cleaner) CleanWithStats(html string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(html)
	if c.compileErr != nil {
		result.AddWarning("config", "main content selectors ignored", c.compileErr.Error())
	}

	parseStart := time.Now()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		result.Error = err
		result.AddWarning("parse", "HTML parse failed, returning empty document", err.Error())
		result.Stats.TotalDuration = time.Since(startTime)
		return result
	}

	pruneStart := time.Now()
	c.prune(doc, result.Stats)
	root := c.narrow(doc, result.Stats)
	result.Stats.PruneDuration = time.Since(pruneStart)

	walkStart := time.Now()
	tree := htmltree.FromNode(root)
	w := &walker{c: c, stats: result.Stats}
	tree.Root().Walk(w.visit)
	result.Fragments = w.fragments
	result.Stats.WalkDuration = time.Since(walkStart)

	normalizeStart := time.Now()
	result.Content = normalize(Assemble(result.Fragments), c.config.MaxBlankLines)
	result.Stats.NormalizeDuration = time.Since(normalizeStart)

	result.Stats.OutputBytes = len(result.Content)
	result.Stats.TotalDuration = time.Since(startTime)

	logger.Debug("extracted markdown",
		"main_content", result.Stats.MainContent,
		"removed", result.Stats.TotalElementsRemoved(),
		"fragments", result.Stats.TotalFragments(),
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes,
		"duration", result.Stats.TotalDuration)

	return result
}

// PrunedHTML renders the subtree the walker would visit after pruning and
// narrowing. It is meant for tuning the configuration tables.
func (c *Cleaner) PrunedHTML(src string) (string, *Stats, error) {
	stats := NewStats()
	stats.InputBytes = len(src)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", stats, err
	}
	c.prune(doc, stats)
	root := c.narrow(doc, stats)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", stats, err
	}
	stats.OutputBytes = buf.Len()
	return buf.String(), stats, nil
}

// ExtractMarkdown converts html to Markdown using the default configuration.
func ExtractMarkdown(html string) string {
	return New(nil).ExtractMarkdown(html)
}
