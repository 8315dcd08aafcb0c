package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input string
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"markdown", "# Title\n\n- item"},
		{"whitespace", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	c := NewNoop()
	if got := c.Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_SingleCleaner(t *testing.T) {
	c := NewChain(NewNoop())

	input := "test content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_HunterStage(t *testing.T) {
	c := NewChain(NewNoop(), hunter.New(nil))

	got, err := c.Clean(`<h1>Title</h1><p>Content</p>`)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "# Title\n\nContent" {
		t.Errorf("Clean() = %q", got)
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(html string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, NewMarkdown())

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	if !strings.Contains(err.Error(), "error: test error") {
		t.Errorf("expected error naming the stage, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"readability", []Cleaner{NewReadability(nil), hunter.New(nil)}, "chain(readability->hunter)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
			if len(c.Cleaners()) != len(tt.cleaners) {
				t.Errorf("Cleaners() has %d stages, want %d", len(c.Cleaners()), len(tt.cleaners))
			}
		})
	}
}

// --- ReadabilityCleaner Tests ---

const articleHTML = `<html><head><title>Guide</title></head><body>
<nav><a href="/">Home</a> <a href="/docs">Docs</a></nav>
<div id="content">
<h1>Getting started</h1>
<p>This guide walks through installing the tool, configuring it for your project and running it against a real documentation site. Each step builds on the previous one, so read them in order.</p>
<p>Before you begin, make sure a recent toolchain is installed and available on your path. The installer checks for it and stops early with a clear message when it is missing.</p>
<pre><code class="language-bash">npm install --global hunter</code></pre>
<p>Once installed, point it at any page and it prints clean Markdown to standard output, copying it to the clipboard as well unless told otherwise.</p>
</div>
</body></html>`

func TestReadabilityCleaner_Clean(t *testing.T) {
	c := NewReadability(nil)

	got, err := c.Clean(articleHTML)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "walks through installing") {
		t.Errorf("expected article text in output, got %q", got)
	}
	if !strings.Contains(got, "language-bash") {
		t.Errorf("expected code classes to be kept, got %q", got)
	}
}

func TestReadabilityCleaner_Text(t *testing.T) {
	c := NewReadability(&ReadabilityConfig{Output: OutputText})

	got, err := c.Clean(articleHTML)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("expected plain text, got %q", got)
	}
}

func TestReadabilityCleaner_Name(t *testing.T) {
	if got := NewReadability(nil).Name(); got != "readability" {
		t.Errorf("Name() = %q, want %q", got, "readability")
	}
}

// --- TrafilaturaCleaner Tests ---

func TestTrafilaturaCleaner_Clean(t *testing.T) {
	c := NewTrafilatura(nil)

	got, err := c.Clean(articleHTML)
	if err != nil {
		t.Skipf("trafilatura rejected the sample: %v", err)
	}
	// trafilatura may keep the whole page when it finds no article
	if !strings.Contains(got, "walks through installing") {
		t.Errorf("expected article text in output, got %q", got)
	}
}

func TestTrafilaturaCleaner_Options(t *testing.T) {
	c := NewTrafilatura(&TrafilaturaConfig{Tables: Exclude, Comments: Include, Images: Exclude})
	if !c.opts.ExcludeTables || c.opts.ExcludeComments || c.opts.IncludeImages {
		t.Errorf("toggles not applied: %+v", c.opts)
	}
	if !c.opts.IncludeLinks || !c.opts.EnableFallback {
		t.Errorf("defaults not applied: %+v", c.opts)
	}
	if c.Name() != "trafilatura" {
		t.Errorf("Name() = %q", c.Name())
	}
}
