package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joenandez/codename-hunter/pkg/cleaner"
	hunterclean "github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

var compareCmd = &cobra.Command{
	Use:   "compare <URL|PATH|->",
	Short: "Compare extraction engines on the same page",
	Long: `Run the hunter engine, a generic HTML-to-Markdown converter and
readability/trafilatura variants over one document and print output size,
reduction and time for each.

Examples:
  hunter compare https://go.dev/doc/effective_go
  hunter compare saved-page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Duration("timeout", 30*time.Second, "request timeout when fetching a URL")
}

// compareEntry is one row of the comparison table.
type compareEntry struct {
	name    string
	cleaner cleaner.Cleaner
}

func defaultCompareEntries() []compareEntry {
	return []compareEntry{
		{"noop", cleaner.NewNoop()},
		{"hunter", hunterclean.New(nil)},
		{"generic markdown", cleaner.NewMarkdown()},
		{"readability (text)", cleaner.NewReadability(&cleaner.ReadabilityConfig{
			Output: cleaner.OutputText,
		})},
		// Chains
		{"readability -> hunter", cleaner.NewChain(
			cleaner.NewReadability(&cleaner.ReadabilityConfig{Output: cleaner.OutputHTML}),
			hunterclean.New(nil),
		)},
		{"readability -> markdown", cleaner.NewChain(
			cleaner.NewReadability(&cleaner.ReadabilityConfig{Output: cleaner.OutputHTML}),
			cleaner.NewMarkdown(),
		)},
		{"trafilatura -> hunter", cleaner.NewChain(
			cleaner.NewTrafilatura(&cleaner.TrafilaturaConfig{Output: cleaner.OutputHTML}),
			hunterclean.New(nil),
		)},
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	setupLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	input := args[0]
	var html string
	if isURL(input) {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		f := fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout})
		defer func() { _ = f.Close() }()

		content, err := f.Fetch(ctx, input, fetcher.Options{})
		if err != nil {
			return err
		}
		html = content.HTML
	} else {
		data, err := readInput(input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		html = data
	}

	compareCleaners(cmd.OutOrStdout(), html, defaultCompareEntries())
	return nil
}

// compareCleaners runs every entry over html and prints the table to w.
func compareCleaners(w io.Writer, html string, entries []compareEntry) {
	fmt.Fprintf(w, "Input: %s\n\n", humanize.Bytes(uint64(len(html))))
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "Cleaner", "Output", "Reduce%", "Time")
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "-------", "------", "-------", "----")

	for _, e := range entries {
		start := time.Now()
		out, err := e.cleaner.Clean(html)
		duration := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%-25s %10s %8s %10v (error: %v)\n",
				e.name, "ERROR", "-", duration.Round(time.Millisecond), err)
			continue
		}

		reduction := 0.0
		if len(html) > 0 {
			reduction = float64(len(html)-len(out)) / float64(len(html)) * 100
		}
		fmt.Fprintf(w, "%-25s %10s %7.1f%% %10v\n",
			e.name, humanize.Bytes(uint64(len(out))), reduction, duration.Round(time.Millisecond))
	}
}
