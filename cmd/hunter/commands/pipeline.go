package commands

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	clifetcher "github.com/joenandez/codename-hunter/cmd/hunter/fetcher"
	"github.com/joenandez/codename-hunter/internal/config"
	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/internal/output"
	"github.com/joenandez/codename-hunter/pkg/cleaner"
	"github.com/joenandez/codename-hunter/pkg/enhancer"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
	"github.com/joenandez/codename-hunter/pkg/hunter"
)

// addConvertFlags registers the flags shared by url and file.
func addConvertFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "", "output format: markdown, json, jsonl, yaml (default from config: markdown)")
	flags.Bool("no-copy", false, "do not copy the Markdown to the clipboard")
	flags.Bool("stats", false, "print extraction statistics to stderr")

	// Enhancement settings
	flags.Bool("no-enhance", false, "skip the LLM formatting pass")
	flags.StringP("provider", "p", "", "LLM provider: together, openai, anthropic (auto-detects from stored keys)")
	flags.StringP("model", "m", "", "model name (provider-specific)")

	// Extraction settings
	flags.String("narrow", "", "isolate the main content before extraction: readability, trafilatura")
	flags.Bool("readability", false, "shorthand for --narrow readability")
	flags.String("max-size", "", "max input HTML size (e.g., 5MB, 0=unlimited)")
}

// applyConvertFlags overrides cfg with the flags the user set explicitly.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		format, err := output.ParseFormat(v)
		if err != nil {
			return err
		}
		cfg.Output.Format = string(format)
	}
	if flags.Changed("no-copy") {
		v, _ := flags.GetBool("no-copy")
		cfg.Output.Copy = !v
	}
	if flags.Changed("stats") {
		cfg.Output.Stats, _ = flags.GetBool("stats")
	}
	if flags.Changed("no-enhance") {
		v, _ := flags.GetBool("no-enhance")
		cfg.Output.Enhance = !v
	}
	if flags.Changed("provider") {
		v, _ := flags.GetString("provider")
		if !enhancer.IsRegistered(v) {
			return fmt.Errorf("unknown provider %q (available: %s)", v, strings.Join(enhancer.AvailableProviders(), ", "))
		}
		cfg.API.Provider = v
	}
	if flags.Changed("model") {
		cfg.API.Model, _ = flags.GetString("model")
	}
	if flags.Changed("readability") {
		if v, _ := flags.GetBool("readability"); v {
			cfg.Fetch.Narrow = "readability"
		}
	}
	if flags.Changed("narrow") {
		v, _ := flags.GetString("narrow")
		if _, err := newNarrower(v); err != nil {
			return err
		}
		cfg.Fetch.Narrow = v
	}
	if flags.Changed("max-size") {
		cfg.Fetch.MaxSize, _ = flags.GetString("max-size")
	}
	return nil
}

// parseMaxSize converts a human size to bytes. Empty or "0" means unlimited.
func parseMaxSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max size %q: %w", s, err)
	}
	return n, nil
}

// newNarrower returns the main-content isolation stage named by name.
func newNarrower(name string) (cleaner.Cleaner, error) {
	switch name {
	case "readability":
		return cleaner.NewReadability(&cleaner.ReadabilityConfig{Output: cleaner.OutputHTML}), nil
	case "trafilatura":
		return cleaner.NewTrafilatura(&cleaner.TrafilaturaConfig{Output: cleaner.OutputHTML}), nil
	default:
		return nil, fmt.Errorf("unknown narrowing stage %q (use 'readability' or 'trafilatura')", name)
	}
}

// newFetcher creates the fetcher selected by cfg.Fetch.Mode.
func newFetcher(cfg *config.Config) (fetcher.Fetcher, error) {
	timeout := time.Duration(cfg.Fetch.TimeoutSec) * time.Second

	switch cfg.Fetch.Mode {
	case "dynamic":
		f, err := clifetcher.NewDynamicFetcher(clifetcher.Config{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    timeout,
			ChromePath: cfg.Fetch.ChromePath,
		})
		if err != nil {
			return nil, fmt.Errorf("create dynamic fetcher: %w", err)
		}
		return f, nil
	case "static", "":
		return fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static' or 'dynamic')", cfg.Fetch.Mode)
	}
}

// newEnhancer builds the LLM enhancer from cfg. It returns
// enhancer.ErrNoAPIKey when the resolved provider has no key.
func newEnhancer(cfg *config.Config) (*enhancer.LLM, error) {
	name, key := cfg.ResolveProvider()
	if key == "" {
		return nil, fmt.Errorf("%s: %w", name, enhancer.ErrNoAPIKey)
	}

	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	provider, err := enhancer.NewProvider(name, enhancer.ProviderConfig{
		APIKey:  key,
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.API.Model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("enhancer ready", "provider", provider.Name(), "model", provider.Model())

	return enhancer.NewLLM(provider,
		enhancer.WithMaxTokens(cfg.API.MaxTokens),
		enhancer.WithTemperature(cfg.API.Temperature),
		enhancer.WithTimeout(timeout),
		enhancer.WithPricePerMillion(cfg.API.PricePerMillion),
	), nil
}

// clientOptions translates cfg into hunter.Client options. A missing API key
// disables enhancement with a warning instead of failing the command.
func clientOptions(cfg *config.Config) ([]hunter.Option, error) {
	maxSize, err := parseMaxSize(cfg.Fetch.MaxSize)
	if err != nil {
		return nil, err
	}

	opts := []hunter.Option{
		hunter.WithTimeout(time.Duration(cfg.Fetch.TimeoutSec) * time.Second),
		hunter.WithMaxContentSize(maxSize),
		hunter.WithConcurrency(cfg.Fetch.Concurrency),
	}
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, hunter.WithUserAgent(cfg.Fetch.UserAgent))
	}

	if cfg.Fetch.Narrow != "" {
		pre, err := newNarrower(cfg.Fetch.Narrow)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hunter.WithCleaner(pre))
		logger.Debug("pre-cleaner enabled", "cleaner", pre.Name())
	}

	if cfg.Output.Enhance {
		e, err := newEnhancer(cfg)
		switch {
		case errors.Is(err, enhancer.ErrNoAPIKey):
			logger.Warn("enhancement disabled: no API key (run 'hunter config --set-api-key' or use --no-enhance)")
		case err != nil:
			return nil, err
		default:
			opts = append(opts, hunter.WithEnhancer(e))
		}
	}
	return opts, nil
}

// openOutput returns stdout or the file named by --output.
func openOutput(cmd *cobra.Command) (*os.File, func(), error) {
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// emit writes results in order, reports per-page details on stderr and
// copies the combined Markdown to the clipboard when enabled.
func emit(cmd *cobra.Command, cfg *config.Config, results []*hunter.Result) error {
	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	writer, err := output.NewWriter(out, output.Format(cfg.Output.Format))
	if err != nil {
		return err
	}

	var docs []string
	for _, r := range results {
		if err := writer.Write(r); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		docs = append(docs, r.Markdown)
		report(cfg, r)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if cfg.Output.Copy && len(docs) > 0 {
		copyToClipboard(strings.Join(docs, output.DefaultSeparator))
	}
	return nil
}

// report prints enhancement and stats details for one page.
func report(cfg *config.Config, r *hunter.Result) {
	label := r.URL
	if label == "" {
		label = "input"
	}

	if e := r.Enhancement; e != nil {
		switch {
		case r.EnhanceErr != nil:
			logInfo("%s: enhancement skipped (%v), using extracted Markdown", label, r.EnhanceErr)
		case e.Enhanced:
			logInfo("%s: enhanced with %s/%s, %d tokens (%d remaining), cost $%.6f (estimated $%.6f)",
				label, e.Provider, e.Model, e.Tokens.Total, e.Tokens.Remaining, e.Cost, e.EstimatedCost)
		}
	}

	if cfg.Output.Stats && r.Stats != nil {
		logInfo("%s\n%s", label, strings.TrimRight(r.Stats.String(), "\n"))
		for _, w := range r.Warnings {
			logInfo("  warning: %s", w)
		}
	}
}

func copyToClipboard(text string) {
	if clipboard.Unsupported {
		logger.Debug("clipboard not available, skipping copy")
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warn("clipboard copy failed", "error", err)
		return
	}
	logInfo("Copied %s of Markdown to clipboard", humanize.Bytes(uint64(len(text))))
}

// orderResults sorts results by the position of their URL in urls.
func orderResults(urls []string, results []*hunter.Result) {
	slices.SortStableFunc(results, func(a, b *hunter.Result) int {
		return slices.Index(urls, a.URL) - slices.Index(urls, b.URL)
	})
}
