package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joenandez/codename-hunter/internal/config"
	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
	"github.com/joenandez/codename-hunter/pkg/hunter"
)

var urlCmd = &cobra.Command{
	Use:   "url <URL>...",
	Short: "Convert documentation pages to Markdown",
	Long: `Fetch one or more pages and convert them to Markdown.

Unless --no-enhance is given, the Markdown is passed through an LLM that
tidies formatting without dropping content. If no API key is configured
the extracted Markdown is used as is. The result is printed (or written
with --output) and copied to the clipboard.

Examples:
  hunter url https://react.dev/reference/react/useState
  hunter url https://a.dev/x https://b.dev/y -c 2 --format json
  hunter url https://example.com/app --fetch-mode dynamic --wait-for "#docs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)

	addConvertFlags(urlCmd)
	addFetchFlags(urlCmd)
}

// addFetchFlags registers the flags that only apply to fetched pages.
func addFetchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("fetch-mode", "", "fetch mode: static, dynamic (default from config: static)")
	flags.Duration("timeout", 0, "request timeout (default from config: 30s)")
	flags.String("user-agent", "", "override the User-Agent header")
	flags.StringArray("header", nil, "extra request header as 'Name: value' (can be repeated)")
	flags.String("wait-for", "", "CSS selector to wait for (dynamic fetch mode)")
	flags.IntP("concurrency", "c", 0, "concurrent requests (default from config: 4)")
}

func runURL(cmd *cobra.Command, args []string) error {
	setupLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("url command starting", "count", len(args), "urls", args)

	for _, u := range args {
		if !isURL(u) {
			return fmt.Errorf("not an http(s) URL: %s", u)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyConvertFlags(cmd, cfg); err != nil {
		return err
	}
	if err := applyFetchFlags(cmd, cfg); err != nil {
		return err
	}

	headers, err := parseHeaders(mustStringArray(cmd, "header"))
	if err != nil {
		return err
	}
	waitFor, _ := cmd.Flags().GetString("wait-for")

	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	if waitFor != "" {
		f = waitingFetcher{Fetcher: f, selector: waitFor}
	}
	// Note: fetcher is closed by client.Close()

	opts, err := clientOptions(cfg)
	if err != nil {
		_ = f.Close()
		return err
	}
	opts = append(opts, hunter.WithFetcher(f))
	if len(headers) > 0 {
		opts = append(opts, hunter.WithHeaders(headers))
	}

	client, err := hunter.New(opts...)
	if err != nil {
		_ = f.Close()
		return err
	}
	defer func() { _ = client.Close() }()

	logger.Info("starting conversion",
		"urls", len(args),
		"fetcher", client.Fetcher(),
		"concurrency", cfg.Fetch.Concurrency,
		"enhance", cfg.Output.Enhance)

	start := time.Now()
	var converted []*hunter.Result
	errorCount := 0
	for result := range client.ConvertMany(ctx, args, cfg.Fetch.Concurrency) {
		if result.Error != nil {
			errorCount++
			logger.Error("conversion failed", "url", result.URL, "error", result.Error)
			continue
		}
		converted = append(converted, result)
	}
	orderResults(args, converted)

	logger.Info("conversion complete",
		"converted", len(converted),
		"errors", errorCount,
		"duration", time.Since(start).Round(time.Millisecond))

	if len(converted) == 0 {
		return fmt.Errorf("no pages converted (%d failed)", errorCount)
	}
	return emit(cmd, cfg, converted)
}

// applyFetchFlags overrides cfg.Fetch with the url-only flags.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("fetch-mode") {
		v, _ := flags.GetString("fetch-mode")
		if v != "static" && v != "dynamic" {
			return fmt.Errorf("unknown fetch mode: %s (use 'static' or 'dynamic')", v)
		}
		cfg.Fetch.Mode = v
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		if d < time.Second {
			return fmt.Errorf("timeout must be at least 1s, got %v", d)
		}
		cfg.Fetch.TimeoutSec = int(d.Round(time.Second) / time.Second)
	}
	if flags.Changed("user-agent") {
		cfg.Fetch.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		cfg.Fetch.Concurrency = n
	}
	return nil
}

// parseHeaders turns "Name: value" pairs into a header map.
func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func mustStringArray(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}

// waitingFetcher adds a wait selector to every fetch.
type waitingFetcher struct {
	fetcher.Fetcher
	selector string
}

func (w waitingFetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error) {
	opts.WaitForSelector = w.selector
	return w.Fetcher.Fetch(ctx, url, opts)
}
