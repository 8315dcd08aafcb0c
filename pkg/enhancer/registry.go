package enhancer

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ProviderFactory creates providers from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// DefaultProvider is used when no provider is configured explicitly.
const DefaultProvider = "together"

// DefaultModels maps provider names to their default models.
var DefaultModels = map[string]string{
	"together":  "mistralai/Mistral-7B-Instruct-v0.2",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-20250514",
}

var registry = map[string]ProviderFactory{}

func init() {
	RegisterProvider("together", func(cfg ProviderConfig) (Provider, error) {
		return NewTogetherProvider(cfg)
	})
	RegisterProvider("openai", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenAIProvider(cfg)
	})
	RegisterProvider("anthropic", func(cfg ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
}

// NewProvider creates a provider by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(AvailableProviders(), ", "))
	}
	return factory(cfg)
}

// RegisterProvider adds a custom provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	registry[name] = factory
}

// AvailableProviders returns the registered provider names, sorted.
func AvailableProviders() []string {
	providers := make([]string, 0, len(registry))
	for name := range registry {
		providers = append(providers, name)
	}
	slices.Sort(providers)
	return providers
}

// IsRegistered returns true if a provider is registered.
func IsRegistered(name string) bool {
	_, ok := registry[name]
	return ok
}

// GetDefaultModel returns the default model for a provider.
func GetDefaultModel(provider string) string {
	return DefaultModels[provider]
}

// providerEnvKeys maps provider names to their API key environment variables,
// in detection priority order.
var providerEnvKeys = []struct {
	provider string
	env      string
}{
	{"together", "TOGETHER_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
}

// EnvKey returns the API key environment variable for a provider.
func EnvKey(provider string) string {
	for _, k := range providerEnvKeys {
		if k.provider == provider {
			return k.env
		}
	}
	return ""
}

// DetectProvider picks a provider from the API keys present in the
// environment. Priority: TOGETHER_API_KEY > ANTHROPIC_API_KEY > OPENAI_API_KEY.
// Both results are empty when no key is set.
func DetectProvider() (provider string, apiKey string) {
	for _, k := range providerEnvKeys {
		if key := os.Getenv(k.env); key != "" {
			return k.provider, key
		}
	}
	return "", ""
}
