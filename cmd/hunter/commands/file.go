package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/pkg/hunter"
)

var fileCmd = &cobra.Command{
	Use:   "file <PATH|->",
	Short: "Convert a local HTML file (or stdin) to Markdown",
	Long: `Convert a saved HTML document to Markdown. Use "-" to read from stdin.

Examples:
  hunter file page.html --no-enhance
  curl -s https://example.com/docs | hunter file - -o docs.md`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	addConvertFlags(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	setupLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	html, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debug("input read", "source", args[0], "bytes", len(html))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyConvertFlags(cmd, cfg); err != nil {
		return err
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}
	client, err := hunter.New(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := client.ConvertHTML(ctx, html)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return emit(cmd, cfg, []*hunter.Result{result})
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads user-specified file
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
