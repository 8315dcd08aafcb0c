// Package config loads and saves hunter's CLI configuration.
//
// Precedence: flags > environment > config file > defaults. Environment
// variables are named HUNTER_<SECTION>_<KEY>; provider keys also honour
// TOGETHER_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Fetch  FetchConfig  `mapstructure:"fetch" yaml:"fetch"`
}

// APIConfig configures the enhancement provider.
type APIConfig struct {
	Provider        string  `mapstructure:"provider" yaml:"provider,omitempty" validate:"omitempty,oneof=together openai anthropic"`
	TogetherAPIKey  string  `mapstructure:"together_api_key" yaml:"together_api_key,omitempty"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key" yaml:"openai_api_key,omitempty"`
	AnthropicAPIKey string  `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key,omitempty"`
	Model           string  `mapstructure:"model" yaml:"model,omitempty"`
	BaseURL         string  `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
	MaxTokens       int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=1,lte=200000"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSec      int     `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1"`
	PricePerMillion float64 `mapstructure:"price_per_million" yaml:"price_per_million" validate:"gte=0"`
}

// OutputConfig configures what the CLI does with results.
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format" validate:"oneof=markdown json jsonl yaml"`
	Enhance bool   `mapstructure:"enhance" yaml:"enhance"`
	Copy    bool   `mapstructure:"copy" yaml:"copy"`
	Stats   bool   `mapstructure:"stats" yaml:"stats"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	Mode        string `mapstructure:"mode" yaml:"mode" validate:"oneof=static dynamic"`
	UserAgent   string `mapstructure:"user_agent" yaml:"user_agent,omitempty"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1"`
	Narrow      string `mapstructure:"narrow" yaml:"narrow,omitempty" validate:"omitempty,oneof=readability trafilatura"`
	MaxSize     string `mapstructure:"max_size" yaml:"max_size,omitempty"` // e.g. "20 MB"
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1,lte=64"`
	ChromePath  string `mapstructure:"chrome_path" yaml:"chrome_path,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			MaxTokens:       4000,
			Temperature:     0.1,
			TimeoutSec:      30,
			PricePerMillion: 0.2,
		},
		Output: OutputConfig{
			Format:  "markdown",
			Enhance: true,
			Copy:    true,
		},
		Fetch: FetchConfig{
			Mode:        "static",
			TimeoutSec:  30,
			Concurrency: 4,
		},
	}
}

// providerKeys lists providers in detection order with their key fields.
var providerKeys = []struct {
	name string
	env  string
	key  func(*APIConfig) *string
}{
	{"together", "TOGETHER_API_KEY", func(a *APIConfig) *string { return &a.TogetherAPIKey }},
	{"anthropic", "ANTHROPIC_API_KEY", func(a *APIConfig) *string { return &a.AnthropicAPIKey }},
	{"openai", "OPENAI_API_KEY", func(a *APIConfig) *string { return &a.OpenAIAPIKey }},
}

// ErrUnknownProvider is returned for provider names hunter does not support.
var ErrUnknownProvider = errors.New("unknown provider")

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// APIKey returns the stored key for provider.
func (c *Config) APIKey(provider string) string {
	for _, p := range providerKeys {
		if p.name == provider {
			return *p.key(&c.API)
		}
	}
	return ""
}

// SetAPIKey stores key for provider.
func (c *Config) SetAPIKey(provider, key string) error {
	for _, p := range providerKeys {
		if p.name == provider {
			*p.key(&c.API) = key
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
}

// ResolveProvider returns the configured provider, or the first provider
// with a key, or "together". The key may be empty.
func (c *Config) ResolveProvider() (provider, apiKey string) {
	if c.API.Provider != "" {
		return c.API.Provider, c.APIKey(c.API.Provider)
	}
	for _, p := range providerKeys {
		if key := *p.key(&c.API); key != "" {
			return p.name, key
		}
	}
	return "together", ""
}

// Dir returns the user configuration directory (~/.config/hunter).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "hunter"), nil
}

// DefaultPath returns the user configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from cfgFile (or ~/.config/hunter/config.yaml,
// then ./config.yaml), the environment and defaults.
func Load(cfgFile string) (*Config, error) {
	v := newViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newViper returns a viper instance carrying defaults and environment
// bindings. Every key needs a default for AutomaticEnv to reach Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("HUNTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("api.provider", d.API.Provider)
	v.SetDefault("api.model", d.API.Model)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.max_tokens", d.API.MaxTokens)
	v.SetDefault("api.temperature", d.API.Temperature)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("api.price_per_million", d.API.PricePerMillion)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.enhance", d.Output.Enhance)
	v.SetDefault("output.copy", d.Output.Copy)
	v.SetDefault("output.stats", d.Output.Stats)
	v.SetDefault("fetch.mode", d.Fetch.Mode)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.timeout_sec", d.Fetch.TimeoutSec)
	v.SetDefault("fetch.narrow", d.Fetch.Narrow)
	v.SetDefault("fetch.max_size", d.Fetch.MaxSize)
	v.SetDefault("fetch.concurrency", d.Fetch.Concurrency)
	v.SetDefault("fetch.chrome_path", d.Fetch.ChromePath)

	for _, p := range providerKeys {
		key := "api." + p.name + "_api_key"
		_ = v.BindEnv(key, "HUNTER_API_"+strings.ToUpper(p.name)+"_API_KEY", p.env)
	}
	return v
}

// ReadFile reads only the YAML file at path over the defaults, ignoring the
// environment. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Save writes c to path (or DefaultPath when empty). The directory is
// created with 0700 and the file with 0600 since it may hold API keys.
func Save(c *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		return fmt.Errorf("secure config dir: %w", err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("secure config: %w", err)
	}
	return nil
}

// Mask hides all but the first and last four characters of a key.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
