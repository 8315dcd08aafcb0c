package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joenandez/codename-hunter/internal/config"
	"github.com/joenandez/codename-hunter/pkg/enhancer"
)

// promptForKey is the --set-api-key value when no key follows the flag.
const promptForKey = "\x00prompt"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change hunter settings",
	Long: `Manage the hunter configuration file (~/.config/hunter/config.yaml).

Examples:
  # Prompt for a Together AI key and store it
  hunter config --set-api-key

  # Store a key for another provider and make it the default
  hunter config --set-api-key sk-... --provider openai

  # Show the effective configuration with masked keys
  hunter config --show`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	flags := configCmd.Flags()
	flags.String("set-api-key", "", "store an API key (prompts when no value is given)")
	flags.Lookup("set-api-key").NoOptDefVal = promptForKey
	flags.StringP("provider", "p", "", "provider the key belongs to: together, openai, anthropic")
	flags.Bool("show", false, "show the current configuration")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	setupLogger()

	setKey := cmd.Flags().Changed("set-api-key")
	show, _ := cmd.Flags().GetBool("show")
	if !setKey && !show {
		return cmd.Help()
	}

	path := viper.GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if setKey {
		key, _ := cmd.Flags().GetString("set-api-key")
		provider, _ := cmd.Flags().GetString("provider")
		if err := setAPIKey(cmd, path, provider, key); err != nil {
			return err
		}
	}

	if show {
		// effective values, environment included
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), path, cfg)
	}
	return nil
}

// setAPIKey stores key for provider in the file at path, prompting on the
// command's input when key is promptForKey.
func setAPIKey(cmd *cobra.Command, path, provider, key string) error {
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}

	if provider == "" {
		provider = cfg.API.Provider
	}
	if provider == "" {
		provider = enhancer.DefaultProvider
	}

	if key == promptForKey {
		fmt.Fprintf(cmd.OutOrStderr(), "Enter your %s API key: ", providerLabel(provider))
		key, err = readLine(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}

	if err := cfg.SetAPIKey(provider, key); err != nil {
		return err
	}
	if cmd.Flags().Changed("provider") {
		cfg.API.Provider = provider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	logInfo("✓ %s API key saved to %s (%s)", providerLabel(provider), path, config.Mask(key))
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "Configuration (%s):\n\n", path)

	provider, key := cfg.ResolveProvider()
	if key != "" {
		fmt.Fprintf(w, "  ✓ API key configured (%s): %s\n", provider, config.Mask(key))
	} else {
		fmt.Fprintf(w, "  ⚠ No API key configured\n")
		fmt.Fprintf(w, "    Tip: set it using 'hunter config --set-api-key'\n")
	}

	model := cfg.API.Model
	if model == "" {
		model = enhancer.GetDefaultModel(provider)
	}
	fmt.Fprintf(w, "\n  provider:     %s\n", provider)
	fmt.Fprintf(w, "  model:        %s\n", model)
	fmt.Fprintf(w, "  max tokens:   %d\n", cfg.API.MaxTokens)
	fmt.Fprintf(w, "  temperature:  %.2f\n", cfg.API.Temperature)
	fmt.Fprintf(w, "  format:       %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  enhance:      %t\n", cfg.Output.Enhance)
	fmt.Fprintf(w, "  copy:         %t\n", cfg.Output.Copy)
	fmt.Fprintf(w, "  fetch mode:   %s\n", cfg.Fetch.Mode)
	fmt.Fprintf(w, "  timeout:      %ds\n", cfg.Fetch.TimeoutSec)
	fmt.Fprintf(w, "  concurrency:  %d\n", cfg.Fetch.Concurrency)
}

func providerLabel(provider string) string {
	switch provider {
	case "together":
		return "Together"
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	}
	return provider
}
