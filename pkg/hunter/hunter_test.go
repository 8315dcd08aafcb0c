package hunter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joenandez/codename-hunter/pkg/cleaner"
	hunterclean "github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
	"github.com/joenandez/codename-hunter/pkg/enhancer"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

const page = `<html><head><title>Hooks</title></head><body>
<nav><a href="/">Home</a></nav>
<main><h1>Hooks</h1><p>Hooks let you use state.</p>
<pre><code class="language-js">const [a, setA] = useState(0);</code></pre></main>
<footer>© 2024</footer></body></html>`

const pageMarkdown = "# Hooks\n\nHooks let you use state.\n\n```javascript\nconst [a, setA] = useState(0);\n```"

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	err    error
	opts   fetcher.Options
	closed bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, opts fetcher.Options) (fetcher.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = opts
	if f.err != nil {
		return fetcher.Content{URL: url}, f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return fetcher.Content{URL: url}, &fetcher.StatusError{URL: url, StatusCode: http.StatusNotFound}
	}
	return fetcher.Content{URL: url, HTML: html, Title: "Hooks", StatusCode: 200, FetchedAt: time.Now()}, nil
}

func (f *fakeFetcher) Close() error { f.closed = true; return nil }
func (f *fakeFetcher) Type() string { return "fake" }

type fakeEnhancer struct {
	prefix string
	err    error
}

func (e *fakeEnhancer) Enhance(_ context.Context, md string) (enhancer.Result, error) {
	if e.err != nil {
		return enhancer.Result{Markdown: md}, e.err
	}
	return enhancer.Result{Markdown: e.prefix + md, Enhanced: true}, nil
}

func newClient(t *testing.T, opts ...Option) (*Client, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{pages: map[string]string{"https://docs.dev/hooks": page}}
	c, err := New(append([]Option{WithFetcher(f)}, opts...)...)
	require.NoError(t, err)
	return c, f
}

func TestClient_Convert(t *testing.T) {
	c, f := newClient(t,
		WithUserAgent("hunter-test"),
		WithHeaders(map[string]string{"Accept-Language": "en"}),
	)

	res, err := c.Convert(context.Background(), "https://docs.dev/hooks")
	require.NoError(t, err)

	assert.Equal(t, pageMarkdown, res.Markdown)
	assert.Equal(t, "https://docs.dev/hooks", res.URL)
	assert.Equal(t, "Hooks", res.Title)
	assert.Nil(t, res.Enhancement)
	assert.NoError(t, res.EnhanceErr)
	require.Len(t, res.Fragments, 3)
	assert.Equal(t, hunterclean.FragmentHeading, res.Fragments[0].Type)
	assert.Equal(t, "main", res.Stats.MainContent)

	assert.Equal(t, "hunter-test", f.opts.UserAgent)
	assert.Equal(t, "en", f.opts.Headers["Accept-Language"])
}

func TestClient_Convert_FetchError(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.Convert(context.Background(), "https://docs.dev/missing")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "https://docs.dev/missing", fe.URL)
	assert.ErrorIs(t, err, fetcher.ErrNetwork)

	var se *fetcher.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClient_Convert_Enhanced(t *testing.T) {
	c, _ := newClient(t, WithEnhancer(&fakeEnhancer{prefix: "<!-- polished -->\n"}))

	res, err := c.Convert(context.Background(), "https://docs.dev/hooks")
	require.NoError(t, err)
	assert.Equal(t, "<!-- polished -->\n"+pageMarkdown, res.Markdown)
	require.NotNil(t, res.Enhancement)
	assert.True(t, res.Enhancement.Enhanced)
}

func TestClient_Convert_EnhanceFailureIsNotFatal(t *testing.T) {
	rate := &enhancer.RateLimitError{APIError: &enhancer.APIError{Provider: "together", StatusCode: 429}}
	c, _ := newClient(t, WithEnhancer(&fakeEnhancer{err: rate}))

	res, err := c.Convert(context.Background(), "https://docs.dev/hooks")
	require.NoError(t, err)
	assert.Equal(t, pageMarkdown, res.Markdown)
	assert.ErrorIs(t, res.EnhanceErr, enhancer.ErrEnhance)

	var rl *enhancer.RateLimitError
	assert.ErrorAs(t, res.EnhanceErr, &rl)
}

func TestClient_ConvertHTML_NoContent(t *testing.T) {
	c, _ := newClient(t)
	_, err := c.ConvertHTML(context.Background(), "<html><body><nav>menu</nav></body></html>")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestClient_ConvertHTML_MaxSize(t *testing.T) {
	c, _ := newClient(t, WithMaxContentSize(10))
	_, err := c.ConvertHTML(context.Background(), page)
	require.ErrorIs(t, err, ErrContentTooLarge)
	assert.Contains(t, err.Error(), "10 B")
}

type failingCleaner struct{}

func (failingCleaner) Clean(string) (string, error) { return "", errors.New("boom") }
func (failingCleaner) Name() string                 { return "failing" }

func TestClient_ConvertHTML_PreCleaner(t *testing.T) {
	c, _ := newClient(t, WithCleaner(failingCleaner{}))
	res, err := c.ConvertHTML(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, pageMarkdown, res.Markdown)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "clean", res.Warnings[0].Phase)

	c, _ = newClient(t, WithCleaner(cleaner.NewNoop()))
	res, err = c.ConvertHTML(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, pageMarkdown, res.Markdown)
	assert.Empty(t, res.Warnings)
}

func TestClient_ExtractionConfig(t *testing.T) {
	cfg := hunterclean.DefaultConfig()
	cfg.MaxBlankLines = 0
	_, err := New(WithExtractionConfig(cfg))
	assert.Error(t, err)
}

func TestClient_ConvertMany(t *testing.T) {
	c, _ := newClient(t)
	urls := []string{"https://docs.dev/hooks", "https://docs.dev/missing", "https://docs.dev/hooks"}

	var ok, failed []string
	for res := range c.ConvertMany(context.Background(), urls, 2) {
		if res.Error != nil {
			failed = append(failed, res.URL)
			continue
		}
		assert.Equal(t, pageMarkdown, res.Markdown)
		ok = append(ok, res.URL)
	}
	sort.Strings(ok)
	assert.Equal(t, []string{"https://docs.dev/hooks", "https://docs.dev/hooks"}, ok)
	assert.Equal(t, []string{"https://docs.dev/missing"}, failed)
}

func TestClient_DefaultStaticFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	c, err := New()
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "static", c.Fetcher())

	res, err := c.Convert(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, pageMarkdown, res.Markdown)
	assert.True(t, strings.HasPrefix(res.URL, "http://"))
}

func TestClient_Close(t *testing.T) {
	c, f := newClient(t)
	require.NoError(t, c.Close())
	assert.True(t, f.closed)
}

func TestExtractMarkdown(t *testing.T) {
	assert.Equal(t, pageMarkdown, ExtractMarkdown(page))
	assert.Empty(t, ExtractMarkdown(""))
}
