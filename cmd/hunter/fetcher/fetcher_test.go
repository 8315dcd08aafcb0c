package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

func TestCookieParams(t *testing.T) {
	params, err := cookieParams("https://docs.example.com:8443/guide", []fetcher.Cookie{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2", Domain: ".example.com"},
	})
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "docs.example.com", params[0].Domain)
	assert.Equal(t, ".example.com", params[1].Domain)
	assert.True(t, params[0].Secure)
	assert.Equal(t, "/", params[1].Path)
}

func TestCookieParams_InvalidURL(t *testing.T) {
	_, err := cookieParams("://bad", []fetcher.Cookie{{Name: "a"}})
	assert.Error(t, err)
}

func TestFindChrome(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "chromium" {
			return "/usr/bin/chromium", nil
		}
		return "", errors.New("not found")
	}

	assert.Equal(t, "/usr/bin/chromium", findChrome([]string{"google-chrome", "chromium"}, lookPath))
	assert.Equal(t, "", findChrome([]string{"google-chrome"}, lookPath))
}

func TestDynamicFetcher_Defaults(t *testing.T) {
	f, err := NewDynamicFetcher(Config{ChromePath: "/nonexistent/chrome"})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, fetcher.DefaultUserAgent, f.config.UserAgent)
	assert.Equal(t, DefaultConfig().Timeout, f.config.Timeout)
	assert.Equal(t, "dynamic", f.Type())
}

func TestDynamicFetcher_InvalidURL(t *testing.T) {
	f, err := NewDynamicFetcher(Config{ChromePath: "/nonexistent/chrome"})
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Fetch(context.Background(), "not a url", fetcher.Options{})
	assert.ErrorContains(t, err, "invalid URL")
}
