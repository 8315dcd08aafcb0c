package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yosssi/gohtml"

	hunterclean "github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <URL|PATH|->",
	Short: "Show what the extractor keeps and removes",
	Long: `Inspect runs the extraction pipeline on one document and reports what
happened: which elements were pruned and why, which container was chosen
as main content, and the fragment outline. Use it to tune selectors and
skip lists for a site.

Examples:
  # Stats and fragment outline
  hunter inspect https://go.dev/doc/effective_go

  # The pruned HTML the walker sees, indented
  hunter inspect page.html --html

  # Machine-readable stats
  hunter inspect page.html --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	flags := inspectCmd.Flags()
	flags.Bool("html", false, "print the pruned HTML instead of the outline")
	flags.Bool("json", false, "print stats, warnings and fragments as JSON")
	flags.Duration("timeout", 30*time.Second, "request timeout when fetching a URL")
}

// inspectReport is the --json payload.
type inspectReport struct {
	Source    string                 `json:"source"`
	Stats     *hunterclean.Stats     `json:"stats"`
	Warnings  []hunterclean.Warning  `json:"warnings,omitempty"`
	Fragments []hunterclean.Fragment `json:"fragments"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	setupLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source := args[0]
	var html string
	if isURL(source) {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		f := fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout})
		defer func() { _ = f.Close() }()

		content, err := f.Fetch(ctx, source, fetcher.Options{})
		if err != nil {
			return err
		}
		html = content.HTML
	} else {
		data, err := readInput(source, cmd.InOrStdin())
		if err != nil {
			return err
		}
		html = data
	}
	if strings.TrimSpace(html) == "" {
		return fmt.Errorf("%s: empty input", source)
	}

	c := hunterclean.New(nil)
	w := cmd.OutOrStdout()

	if showHTML, _ := cmd.Flags().GetBool("html"); showHTML {
		pruned, stats, err := c.PrunedHTML(html)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, gohtml.Format(pruned))
		logInfo("main content: %s, %d elements removed", stats.MainContent, stats.TotalElementsRemoved())
		return nil
	}

	result := c.CleanWithStats(html)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inspectReport{
			Source:    source,
			Stats:     result.Stats,
			Warnings:  result.Warnings,
			Fragments: result.Fragments,
		})
	}

	writeInspection(w, source, result)
	return nil
}

// writeInspection prints stats, warnings and a one-line-per-fragment outline.
func writeInspection(w io.Writer, source string, result *hunterclean.Result) {
	fmt.Fprintf(w, "=== %s ===\n", source)
	fmt.Fprint(w, result.Stats.String())

	if result.HasWarnings() {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}

	fmt.Fprintln(w, "\nOutline:")
	for i, f := range result.Fragments {
		fmt.Fprintf(w, "%4d  %-10s %s\n", i+1, f.Type, outlineLabel(f))
	}
}

const outlineWidth = 60

func outlineLabel(f hunterclean.Fragment) string {
	switch f.Type {
	case hunterclean.FragmentCodeBlock:
		lang := f.Meta.Language
		if lang == "" {
			lang = "plain"
		}
		return fmt.Sprintf("[%s] %d lines", lang, strings.Count(f.Content, "\n")-1)
	case hunterclean.FragmentList:
		return fmt.Sprintf("%d items", strings.Count(f.Content, "\n")+1)
	}
	line, _, _ := strings.Cut(f.Content, "\n")
	if r := []rune(line); len(r) > outlineWidth {
		line = string(r[:outlineWidth]) + "..."
	}
	return line
}
