// Package commands implements the CLI commands for hunter.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joenandez/codename-hunter/internal/config"
	"github.com/joenandez/codename-hunter/internal/logger"
	"github.com/joenandez/codename-hunter/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hunter",
	Short: "Turn documentation pages into clean Markdown",
	Long: `Hunter fetches documentation pages and converts them into clean,
LLM-friendly Markdown. Navigation, ads and page chrome are removed, code
blocks keep their language, and the result can optionally be polished by
an LLM before it is copied to the clipboard.

Examples:
  # Convert a page (a bare URL is the same as "hunter url")
  hunter https://react.dev/reference/react/useState

  # Skip the LLM pass and write to a file
  hunter url https://go.dev/doc/effective_go --no-enhance -o effective_go.md

  # Render JavaScript-heavy docs in headless Chrome
  hunter url https://example.com/docs --fetch-mode dynamic

  # Convert a saved page or stdin
  curl -s https://example.com/docs | hunter file -

  # Store an API key for enhancement
  hunter config --set-api-key`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("hunter {{.Version}}\n")

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.config/hunter/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// initConfig loads .env before any command reads the environment.
func initConfig() {
	if err := config.LoadDotEnv(); err != nil {
		logError("%v", err)
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SetArgs(rewriteArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// rewriteArgs routes "hunter <URL> ..." to the url command.
func rewriteArgs(args []string) []string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if !isURL(arg) {
			return args
		}
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "url")
		return append(out, args[i:]...)
	}
	return args
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// setupLogger initializes logging from the global flags.
func setupLogger() {
	if err := logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	}); err != nil {
		logError("%v", err)
	}
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "provider", cfg.API.Provider, "format", cfg.Output.Format, "fetch_mode", cfg.Fetch.Mode)
	return cfg, nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
