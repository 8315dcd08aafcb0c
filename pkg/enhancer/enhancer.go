package enhancer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joenandez/codename-hunter/internal/logger"
)

// Defaults for an enhancement call.
const (
	DefaultMaxTokens       = 4000
	DefaultTemperature     = 0.1
	DefaultTimeout         = 30 * time.Second
	DefaultPricePerMillion = 0.2 // USD per million tokens
)

const systemPrompt = `You are a markdown formatting expert. Your task is to improve the formatting while preserving all information and links. Focus on:
1. Consistent spacing between sections
2. Beautiful list formatting
3. Proper code block presentation
4. Clear section hierarchy
5. Clean link and inline code formatting

Important!!!: Return ONLY the raw markdown content. Do not add any explanations. The users is saving this output directly to a markdown file.`

const userPromptPrefix = "Here is the markdown content to improve. Remember to return only the raw markdown without any wrapper markers:\n\n"

// Enhancer improves the formatting of extracted Markdown.
type Enhancer interface {
	Enhance(ctx context.Context, md string) (Result, error)
}

// TokenInfo summarizes token usage of one call against the configured limit.
type TokenInfo struct {
	Total     int `json:"total" yaml:"total"`
	Content   int `json:"content" yaml:"content"` // completion tokens
	Remaining int `json:"remaining" yaml:"remaining"`
}

// Result is the outcome of an enhancement. On error, Markdown holds the
// unenhanced input so callers can always use it.
type Result struct {
	Markdown      string        `json:"-" yaml:"-"`
	Enhanced      bool          `json:"enhanced" yaml:"enhanced"`
	Provider      string        `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model         string        `json:"model,omitempty" yaml:"model,omitempty"`
	Tokens        TokenInfo     `json:"tokens" yaml:"tokens"`
	EstimatedCost float64       `json:"estimated_cost" yaml:"estimated_cost"`
	Cost          float64       `json:"cost" yaml:"cost"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// Option configures an LLM enhancer.
type Option func(*LLM)

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) Option {
	return func(e *LLM) { e.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(e *LLM) { e.temperature = t }
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(e *LLM) { e.timeout = d }
}

// WithPricePerMillion sets the USD price per million tokens used for cost
// reporting.
func WithPricePerMillion(p float64) Option {
	return func(e *LLM) { e.pricePerMillion = p }
}

// WithLinkCheck enables or disables rejecting answers that lose links.
func WithLinkCheck(enabled bool) Option {
	return func(e *LLM) { e.checkLinks = enabled }
}

// LLM is an Enhancer backed by a chat-completion Provider.
type LLM struct {
	provider        Provider
	maxTokens       int
	temperature     float64
	timeout         time.Duration
	pricePerMillion float64
	checkLinks      bool
}

// NewLLM creates an enhancer. A nil provider yields ErrNoAPIKey on every call.
func NewLLM(provider Provider, opts ...Option) *LLM {
	e := &LLM{
		provider:        provider,
		maxTokens:       DefaultMaxTokens,
		temperature:     DefaultTemperature,
		timeout:         DefaultTimeout,
		pricePerMillion: DefaultPricePerMillion,
		checkLinks:      true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EstimateCost approximates the USD cost of sending md, at four characters
// per token.
func (e *LLM) EstimateCost(md string) float64 {
	return e.cost(len(md) / 4)
}

func (e *LLM) cost(tokens int) float64 {
	return float64(tokens) * e.pricePerMillion / 1_000_000
}

// Enhance sends md to the provider and post-processes the answer.
func (e *LLM) Enhance(ctx context.Context, md string) (Result, error) {
	result := Result{Markdown: md, EstimatedCost: e.EstimateCost(md)}

	if e.provider == nil {
		return result, ErrNoAPIKey
	}
	result.Provider = e.provider.Name()
	result.Model = e.provider.Model()

	if strings.TrimSpace(md) == "" {
		return result, nil
	}

	logger.Debug("enhancing markdown",
		"provider", result.Provider,
		"model", result.Model,
		"input_bytes", len(md),
		"estimated_cost", fmt.Sprintf("$%.4f", result.EstimatedCost))

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.provider.Execute(callCtx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPromptPrefix + md},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		logger.Warn("enhancement failed, keeping input", "provider", result.Provider, "error", err)
		return result, err
	}

	result.Duration = resp.Duration
	if resp.Model != "" {
		result.Model = resp.Model
	}
	result.Tokens = TokenInfo{
		Total:     resp.Usage.Total(),
		Content:   resp.Usage.OutputTokens,
		Remaining: e.maxTokens - resp.Usage.Total(),
	}
	result.Cost = e.cost(resp.Usage.Total())

	enhanced := Postprocess(resp.Content)
	if enhanced == "" {
		return result, ErrEmptyResponse
	}

	if e.checkLinks {
		if missing := MissingLinks(md, enhanced); len(missing) > 0 {
			logger.Warn("enhanced output dropped links, keeping input", "missing", len(missing))
			return result, fmt.Errorf("%w: %s", ErrLinksDropped, strings.Join(missing, ", "))
		}
	}

	result.Markdown = enhanced
	result.Enhanced = true
	logger.Debug("enhancement complete",
		"tokens", result.Tokens.Total,
		"remaining", result.Tokens.Remaining,
		"duration", result.Duration)
	return result, nil
}
