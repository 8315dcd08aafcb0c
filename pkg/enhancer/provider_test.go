package enhancer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletion = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "mistralai/Mistral-7B-Instruct-v0.2",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "# Done"}}],
  "usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
}`

func TestTogetherProvider_Execute(t *testing.T) {
	var body map[string]any
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion))
	}))
	defer srv.Close()

	p, err := NewTogetherProvider(ProviderConfig{APIKey: "tg-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	assert.Equal(t, "together", p.Name())
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", p.Model())

	resp, err := p.Execute(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "md"},
		},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)

	assert.Equal(t, "# Done", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 8}, resp.Usage)

	assert.Equal(t, "Bearer tg-key", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", body["model"])
	assert.EqualValues(t, 4000, body["max_tokens"])
	assert.InDelta(t, 0.1, body["temperature"], 1e-9)
	require.Len(t, body["messages"], 2)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "7"},
			check: func(t *testing.T, err error) {
				var rl *RateLimitError
				require.ErrorAs(t, err, &rl)
				assert.Equal(t, 7*time.Second, rl.RetryAfter)
				assert.Contains(t, rl.Error(), "wait about 7s")
			},
		},
		{
			name:   "bad key",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var auth *AuthError
				require.ErrorAs(t, err, &auth)
				assert.Equal(t, "openai", auth.Provider)
			},
		},
		{
			name:   "server failure",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var se *ServerError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusBadGateway, se.StatusCode)
			},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "boom", apiErr.Message)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "error", "code": "x", "param": ""}}`))
			}))
			defer srv.Close()

			p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = p.Execute(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEnhance)
			tt.check(t, err)
		})
	}
}

func TestAnthropicProvider_Execute(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "an-key", r.Header.Get("X-Api-Key"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-20250514",
  "content": [{"type": "text", "text": "# Polished"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 12, "output_tokens": 3}
}`))
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "an-key", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Execute(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "md"},
		},
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)

	assert.Equal(t, "# Polished", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.Total())
	assert.EqualValues(t, DefaultMaxTokens, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestAnthropicProvider_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var auth *AuthError
	require.ErrorAs(t, err, &auth)
	assert.Equal(t, "anthropic", auth.Provider)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider("together", ProviderConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = NewProvider("nope", ProviderConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic, openai, together")

	p, err := NewProvider("openai", ProviderConfig{APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.Model())
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"anthropic", "openai", "together"}, AvailableProviders())
	assert.True(t, IsRegistered("together"))
	assert.False(t, IsRegistered("ollama"))
	assert.Equal(t, "TOGETHER_API_KEY", EnvKey("together"))
	assert.Empty(t, EnvKey("unknown"))
	assert.Equal(t, "gpt-4o-mini", GetDefaultModel("openai"))
}

func TestDetectProvider(t *testing.T) {
	t.Setenv("TOGETHER_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	name, key := DetectProvider()
	assert.Empty(t, name)
	assert.Empty(t, key)

	t.Setenv("OPENAI_API_KEY", "oa")
	name, key = DetectProvider()
	assert.Equal(t, "openai", name)
	assert.Equal(t, "oa", key)

	t.Setenv("TOGETHER_API_KEY", "tg")
	name, key = DetectProvider()
	assert.Equal(t, "together", name)
	assert.Equal(t, "tg", key)
}
