package hunter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/pkg/cleaner"
	hunterclean "github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
	"github.com/joenandez/codename-hunter/pkg/enhancer"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

var (
	// ErrNoContent is returned when extraction yields no Markdown. Pages
	// rendered by JavaScript usually need the dynamic fetcher.
	ErrNoContent = errors.New("no content extracted")
	// ErrContentTooLarge is returned when a page exceeds MaxContentSize.
	ErrContentTooLarge = errors.New("content too large")
)

// FetchError reports a failure to retrieve a page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result represents one converted page.
type Result struct {
	URL       string                 `json:"url" yaml:"url"`
	Title     string                 `json:"title,omitempty" yaml:"title,omitempty"`
	FetchedAt time.Time              `json:"fetched_at" yaml:"fetched_at"`
	Markdown  string                 `json:"markdown" yaml:"markdown"`
	Fragments []hunterclean.Fragment `json:"fragments" yaml:"fragments"`
	Stats     *hunterclean.Stats     `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings  []hunterclean.Warning  `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Enhancement *enhancer.Result `json:"enhancement,omitempty" yaml:"enhancement,omitempty"`
	EnhanceErr  error            `json:"-" yaml:"-"`

	FetchDuration   time.Duration `json:"fetch_duration" yaml:"fetch_duration"`
	ConvertDuration time.Duration `json:"convert_duration" yaml:"convert_duration"`
	EnhanceDuration time.Duration `json:"enhance_duration" yaml:"enhance_duration"`

	// Error is set by ConvertMany when the page failed.
	Error error `json:"-" yaml:"-"`
}

// MarkdownContent returns the final Markdown document.
func (r *Result) MarkdownContent() string {
	return r.Markdown
}

// Client converts documentation pages to Markdown.
type Client struct {
	fetcher  fetcher.Fetcher
	cleaner  cleaner.Cleaner
	core     *hunterclean.Cleaner
	enhancer enhancer.Enhancer
	config   Config
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Extraction != nil {
		if err := cfg.Extraction.Validate(); err != nil {
			return nil, fmt.Errorf("invalid extraction config: %w", err)
		}
	}

	f := cfg.Fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	}

	return &Client{
		fetcher:  f,
		cleaner:  cfg.Cleaner,
		core:     hunterclean.New(cfg.Extraction),
		enhancer: cfg.Enhancer,
		config:   cfg,
	}, nil
}

// Convert fetches url and converts it to Markdown. Fetch failures are
// returned as *FetchError. Enhancement failures are not fatal: the result
// keeps the unenhanced Markdown and records the error in EnhanceErr.
func (c *Client) Convert(ctx context.Context, url string) (*Result, error) {
	fetchStart := time.Now()
	content, err := c.fetcher.Fetch(ctx, url, fetcher.Options{
		UserAgent: c.config.UserAgent,
		Timeout:   c.config.Timeout,
		Headers:   c.config.Headers,
		Cookies:   c.config.Cookies,
	})
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	logger.Debug("page fetched",
		"url", content.URL,
		"fetcher", c.fetcher.Type(),
		"size", humanize.Bytes(uint64(len(content.HTML))),
		"duration", fetchDuration)

	result, err := c.ConvertHTML(ctx, content.HTML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	result.URL = url
	result.Title = content.Title
	result.FetchedAt = content.FetchedAt
	result.FetchDuration = fetchDuration
	return result, nil
}

// ConvertHTML converts an already retrieved document.
func (c *Client) ConvertHTML(ctx context.Context, html string) (*Result, error) {
	if limit := c.config.MaxContentSize; limit > 0 && uint64(len(html)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrContentTooLarge,
			humanize.Bytes(uint64(len(html))), humanize.Bytes(limit))
	}

	result := &Result{FetchedAt: time.Now()}
	convertStart := time.Now()

	input := html
	if c.cleaner != nil {
		cleaned, err := c.cleaner.Clean(html)
		if err != nil {
			// Fall back to the raw document if the pre-cleaner fails
			logger.Debug("pre-cleaner failed, using raw html", "cleaner", c.cleaner.Name(), "error", err)
			result.Warnings = append(result.Warnings, hunterclean.Warning{
				Phase:   "clean",
				Message: c.cleaner.Name() + " failed, using raw HTML",
				Context: err.Error(),
			})
		} else {
			input = cleaned
		}
	}

	extracted := c.core.CleanWithStats(input)
	result.Markdown = extracted.Content
	result.Fragments = extracted.Fragments
	result.Stats = extracted.Stats
	result.Warnings = append(result.Warnings, extracted.Warnings...)
	result.ConvertDuration = time.Since(convertStart)

	if strings.TrimSpace(result.Markdown) == "" {
		return nil, ErrNoContent
	}

	if c.enhancer != nil {
		c.enhance(ctx, result)
	}
	return result, nil
}

func (c *Client) enhance(ctx context.Context, result *Result) {
	start := time.Now()
	enhanced, err := c.enhancer.Enhance(ctx, result.Markdown)
	result.EnhanceDuration = time.Since(start)
	result.Enhancement = &enhanced
	if err != nil {
		logger.Warn("enhancement skipped", "url", result.URL, "error", err)
		result.EnhanceErr = err
		return
	}
	result.Markdown = enhanced.Markdown
}

// ConvertMany converts several URLs concurrently. Failed pages are reported
// with Result.Error set. A concurrency below 1 uses the configured default.
func (c *Client) ConvertMany(ctx context.Context, urls []string, concurrency int) <-chan *Result {
	if concurrency < 1 {
		concurrency = c.config.Concurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan *Result, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, url := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := c.Convert(ctx, u)
			if err != nil {
				results <- &Result{URL: u, Error: err}
				return
			}
			results <- result
		}(url)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Close releases all resources.
func (c *Client) Close() error {
	if c.fetcher != nil {
		return c.fetcher.Close()
	}
	return nil
}

// Fetcher returns the fetcher type in use.
func (c *Client) Fetcher() string {
	return c.fetcher.Type()
}

// ExtractMarkdown converts an HTML document with the default tables.
func ExtractMarkdown(html string) string {
	return hunterclean.ExtractMarkdown(html)
}
