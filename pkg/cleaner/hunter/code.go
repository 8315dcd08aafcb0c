package hunter

import (
	"strings"

	"github.com/joenandez/codename-hunter/pkg/htmltree"
)

// Classification is the single decision made about a code-bearing element.
// It is computed once and handed to the formatter.
type Classification struct {
	Block    bool
	Language string
	Text     string
}

// IsCodeBlock decides whether text (optionally from el) is a code block
// rather than an inline span. First match wins:
// a <pre> parent, a code-block class marker, then content heuristics.
func (c *Cleaner) IsCodeBlock(text string, el htmltree.Node) bool {
	if el.Valid() {
		if el.Parent().Is("pre") {
			return true
		}
		classes := strings.Join(el.Classes(), " ")
		for _, marker := range c.config.CodeBlockClasses {
			if marker != "" && strings.Contains(classes, marker) {
				return true
			}
		}
	}

	if strings.Contains(strings.TrimSpace(text), "\n") {
		return true
	}
	if len(strings.Fields(text)) > c.config.MaxInlineWords {
		return true
	}
	for _, token := range c.config.CodeTokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

// DetectLanguage infers the fence language for el, or "" when unknown.
func (c *Cleaner) DetectLanguage(el htmltree.Node) string {
	if !el.Valid() {
		return ""
	}
	if lang := declaredLanguage(el); lang != "" {
		return lang
	}
	return c.hintLanguage(el.Text())
}

// declaredLanguage reads a language from class or data-lang* markup.
func declaredLanguage(el htmltree.Node) string {
	for _, class := range el.Classes() {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(class, "lang-"); ok {
			return lang
		}
	}
	for _, key := range el.AttrKeys() {
		if strings.HasPrefix(key, "data-lang") {
			if v, _ := el.Attr(key); v != "" {
				return v
			}
		}
	}
	return ""
}

func (c *Cleaner) hintLanguage(text string) string {
	for _, hint := range c.config.LanguageHints {
		if strings.Contains(text, hint.Substring) {
			return hint.Language
		}
	}
	return ""
}

// NormalizeLanguage maps short aliases like "js" to their canonical name.
func (c *Cleaner) NormalizeLanguage(lang string) string {
	if canonical, ok := c.config.LanguageAliases[lang]; ok {
		return canonical
	}
	return lang
}

// classifyCode runs block detection and language inference for a code
// element. A <pre> is always a block; its language may come from the
// <code> it wraps.
func (c *Cleaner) classifyCode(el htmltree.Node) Classification {
	text := el.Text()
	if el.Is("pre") {
		lang := declaredLanguage(el)
		if inner := el.FirstElement("code"); lang == "" && inner.Valid() {
			lang = declaredLanguage(inner)
		}
		if lang == "" {
			lang = c.hintLanguage(text)
		}
		return Classification{Block: true, Language: lang, Text: text}
	}

	cls := Classification{Text: text}
	// inline spans are judged on their trimmed text
	if c.IsCodeBlock(strings.TrimSpace(text), el) {
		cls.Block = true
		cls.Language = c.DetectLanguage(el)
	}
	return cls
}

// FormatCodeBlock renders a fenced block, or "" when the code is empty.
func (c *Cleaner) FormatCodeBlock(code, language string) string {
	code = dedent(Clean(code, true))
	if strings.TrimSpace(code) == "" {
		return ""
	}
	lang := ""
	if language != "" {
		lang = c.NormalizeLanguage(language)
	}
	return "\n```" + lang + "\n" + code + "\n```\n"
}

// formatInlineCode renders an inline code span.
func formatInlineCode(text string) string {
	text = collapseSpace(text)
	if text == "" {
		return ""
	}
	return "`" + text + "`"
}

// render turns a classification into Markdown.
func (c *Cleaner) render(cls Classification) string {
	if cls.Block {
		return c.FormatCodeBlock(cls.Text, cls.Language)
	}
	return formatInlineCode(cls.Text)
}
