package hunter

import "testing"

func TestFormatLink(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"text and href", `<a href="https://example.com">Test Link</a>`, " [Test Link](https://example.com) "},
		{"cleans text", `<a href="/a">  Intro_3 #</a>`, " [Intro](/a) "},
		{"no href", `<a>Just text</a>`, "Just text"},
		{"no text", `<a href="/x"></a>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLink(element(t, tt.markup, "a")); got != tt.want {
				t.Errorf("FormatLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatImage(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"no src", `<img alt="Missing">`, ""},
		{"blank src", `<img src="  " alt="Missing">`, ""},
		{"alt only", `<img src="a.png" alt="Diagram">`, "\n![Diagram](a.png)\n"},
		{"with title", `<img src="a.png" alt="Diagram" title="Flow">`, "\n![Diagram](a.png \"Flow\")\n"},
		{"no alt", `<img src="a.png">`, "\n![](a.png)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatImage(element(t, tt.markup, "img")); got != tt.want {
				t.Errorf("FormatImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInlineBuilder(t *testing.T) {
	t.Run("keeps glued markup glued", func(t *testing.T) {
		var b inlineBuilder
		b.addText("foo")
		b.addText("bar ")
		b.addText("baz")
		if got := b.String(); got != "foobar baz" {
			t.Errorf("String() = %q, want %q", got, "foobar baz")
		}
	})

	t.Run("spaces around code and links", func(t *testing.T) {
		var b inlineBuilder
		b.addText("Use")
		b.add(inlineCode, "`go`")
		b.addText("or")
		b.add(inlineLink, " [docs](/d) ")
		if got := b.String(); got != "Use `go` or [docs](/d)" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("whitespace-only text marks a boundary", func(t *testing.T) {
		var b inlineBuilder
		b.addText("a")
		b.addText("   ")
		b.addText("b")
		if got := b.String(); got != "a b" {
			t.Errorf("String() = %q, want %q", got, "a b")
		}
	})

	t.Run("reset", func(t *testing.T) {
		var b inlineBuilder
		b.addText("a")
		b.reset()
		if !b.empty() {
			t.Error("expected empty builder after reset")
		}
	})
}
