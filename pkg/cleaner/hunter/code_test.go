package hunter

import (
	"strings"
	"testing"

	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

func TestIsCodeBlock_Content(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"short prose", "hello world", false},
		{"newline", "a\nb", true},
		{"trailing newline only", "hello\n", false},
		{"many words", "one two three four five six seven eight nine ten eleven", true},
		{"ten words", "one two three four five six seven eight nine ten", false},
		{"syntax token", "const x = 1", true},
		{"arrow", "x => y", true},
		{"brace", "{a}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsCodeBlock(tt.text, htmltree.Node{}); got != tt.want {
				t.Errorf("IsCodeBlock(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsCodeBlock_Element(t *testing.T) {
	c := New(nil)

	t.Run("parent pre", func(t *testing.T) {
		el := element(t, `<pre><code>x</code></pre>`, "code")
		if !c.IsCodeBlock("x", el) {
			t.Error("expected code under <pre> to be a block")
		}
	})

	t.Run("highlighter class", func(t *testing.T) {
		el := element(t, `<p><code class="hljs">x</code></p>`, "code")
		if !c.IsCodeBlock("x", el) {
			t.Error("expected hljs class to mark a block")
		}
	})

	t.Run("plain inline", func(t *testing.T) {
		el := element(t, `<p><code>x</code></p>`, "code")
		if c.IsCodeBlock("x", el) {
			t.Error("expected plain short code to be inline")
		}
	})
}

func TestDetectLanguage(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"language class wins over content", `<code class="language-python">import os</code>`, "python"},
		{"lang class", `<code class="x lang-rust">fn main() {}</code>`, "rust"},
		{"data-lang attribute", `<code data-language="go">x</code>`, "go"},
		{"empty data-lang ignored", `<code data-lang="">npm install</code>`, "bash"},
		{"content hint", `<code>npm install react</code>`, "bash"},
		{"hint declaration order", `<code>yarn add useState</code>`, "bash"},
		{"vue template", `<code>&lt;template&gt;&lt;/template&gt;</code>`, "vue"},
		{"unknown", `<code>hello</code>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := element(t, tt.markup, "code")
			if got := c.DetectLanguage(el); got != tt.want {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectLanguage_PythonClassAlwaysWins(t *testing.T) {
	c := New(nil)
	bodies := []string{"", "import React from 'react'", "npm install", "const x = useState()"}
	for _, body := range bodies {
		el := element(t, `<code class="highlight language-python">`+body+`</code>`, "code")
		if got := c.DetectLanguage(el); got != "python" {
			t.Errorf("DetectLanguage(%q) = %q, want python", body, got)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	c := New(nil)
	tests := map[string]string{
		"js":    "javascript",
		"ts":    "typescript",
		"sh":    "bash",
		"shell": "bash",
		"py":    "python",
		"rust":  "rust",
		"":      "",
	}
	for in, want := range tests {
		if got := c.NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCodeBlock(t *testing.T) {
	c := New(nil)

	t.Run("dedents and tags", func(t *testing.T) {
		got := c.FormatCodeBlock("\n    x = 1\n    y = 2\n", "py")
		want := "\n```python\nx = 1\ny = 2\n```\n"
		if got != want {
			t.Errorf("FormatCodeBlock() = %q, want %q", got, want)
		}
	})

	t.Run("no language", func(t *testing.T) {
		got := c.FormatCodeBlock("echo hi", "")
		want := "\n```\necho hi\n```\n"
		if got != want {
			t.Errorf("FormatCodeBlock() = %q, want %q", got, want)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		if got := c.FormatCodeBlock(" \n\t\n", "go"); got != "" {
			t.Errorf("FormatCodeBlock() = %q, want empty", got)
		}
	})
}

func TestClassifyCode(t *testing.T) {
	c := New(nil)

	t.Run("pre takes language from inner code", func(t *testing.T) {
		el := element(t, `<pre><code class="language-js">let a = 1</code></pre>`, "pre")
		cls := c.classifyCode(el)
		if !cls.Block || cls.Language != "js" {
			t.Errorf("classifyCode() = %+v, want block js", cls)
		}
	})

	t.Run("pre class beats inner code", func(t *testing.T) {
		el := element(t, `<pre class="lang-go"><code class="language-js">x</code></pre>`, "pre")
		if cls := c.classifyCode(el); cls.Language != "go" {
			t.Errorf("Language = %q, want go", cls.Language)
		}
	})

	t.Run("short inline code", func(t *testing.T) {
		el := element(t, `<p>run <code> go vet </code></p>`, "code")
		cls := c.classifyCode(el)
		if cls.Block {
			t.Error("expected inline classification")
		}
		if got := c.render(cls); got != "`go vet`" {
			t.Errorf("render() = %q, want %q", got, "`go vet`")
		}
	})

	t.Run("pre without code is still a block", func(t *testing.T) {
		el := element(t, "<pre>plain</pre>", "pre")
		cls := c.classifyCode(el)
		if !cls.Block {
			t.Error("expected block")
		}
		if got := c.render(cls); !strings.Contains(got, "```\nplain\n```") {
			t.Errorf("render() = %q", got)
		}
	})
}
