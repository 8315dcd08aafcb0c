// Package hunter converts documentation-style HTML into clean Markdown.
//
// The pipeline prunes page chrome, narrows the document to its main content
// container, walks the remaining elements in document order producing typed
// fragments, and finally normalizes the assembled Markdown. Every heuristic
// table the pipeline consults lives on Config so callers can swap them out.
package hunter

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// LanguageHint maps a content substring to a fence language.
type LanguageHint struct {
	Substring string `json:"substring" yaml:"substring"`
	Language  string `json:"language" yaml:"language"`
}

// Config holds the heuristic tables used by the extraction pipeline.
type Config struct {
	// === Pruning ===

	// RemoveTags are always removed along with their subtree.
	RemoveTags []string `json:"remove_tags" yaml:"remove_tags"`

	// SkipTags are page chrome tags (nav, header, footer) removed before the walk.
	SkipTags []string `json:"skip_tags" yaml:"skip_tags"`

	// SkipClasses are substrings which, found in an element's class list,
	// mark it as chrome.
	SkipClasses []string `json:"skip_classes" yaml:"skip_classes"`

	// SkipIDs are substrings which, found in an element's id, mark it as chrome.
	SkipIDs []string `json:"skip_ids" yaml:"skip_ids"`

	// KeepTags are never pruned by the class/id rules.
	KeepTags []string `json:"keep_tags" yaml:"keep_tags"`

	// === Narrowing ===

	// MainContentSelectors are tried in order; the first selector matching
	// anything becomes the walk root. A selector may be a group ("a, b").
	MainContentSelectors []string `json:"main_content_selectors" yaml:"main_content_selectors"`

	// === Code detection ===

	// CodeBlockClasses mark an element as a code block when any appears
	// as a substring of its joined class list.
	CodeBlockClasses []string `json:"code_block_classes" yaml:"code_block_classes"`

	// CodeTokens are raw substrings that make text look like code.
	CodeTokens []string `json:"code_tokens" yaml:"code_tokens"`

	// MaxInlineWords is the word count above which text is treated as a block.
	MaxInlineWords int `json:"max_inline_words" yaml:"max_inline_words"`

	// LanguageHints are scanned in declaration order.
	LanguageHints []LanguageHint `json:"language_hints" yaml:"language_hints"`

	// LanguageAliases normalize short fence tags.
	LanguageAliases map[string]string `json:"language_aliases" yaml:"language_aliases"`

	// === Output ===

	// IndentUnit is repeated once per nesting level below the first.
	IndentUnit string `json:"indent_unit" yaml:"indent_unit"`

	// MaxBlankLines caps consecutive blank lines in the output.
	MaxBlankLines int `json:"max_blank_lines" yaml:"max_blank_lines"`
}

// DefaultConfig returns the tables tuned for documentation sites.
func DefaultConfig() *Config {
	return &Config{
		RemoveTags:  []string{"script", "style", "noscript", "iframe"},
		SkipTags:    []string{"nav", "header", "footer"},
		SkipClasses: []string{"sidebar", "nav", "menu", "footer", "header", "search"},
		SkipIDs:     []string{"nav", "sidebar", "menu", "footer", "header", "search"},
		KeepTags:    []string{"html", "body", "code", "pre"},

		MainContentSelectors: []string{
			"article",
			"main",
			".docs-content, .article-content, .main-content",
			"[role='main']",
		},

		CodeBlockClasses: []string{"block", "language-", "hljs", "syntax", "code-block"},
		CodeTokens: []string{
			"function", "import", "class", "const", "return", "async", "await",
			"{", "};", "=>", "interface", "type", "export",
		},
		MaxInlineWords: 10,
		LanguageHints: []LanguageHint{
			{"import", "typescript"},
			{"function", "typescript"},
			{"const", "typescript"},
			{"export", "typescript"},
			{"interface", "typescript"},
			{"type", "typescript"},
			{"npm", "bash"},
			{"yarn", "bash"},
			{"apt-get", "bash"},
			{"<template>", "vue"},
			{"useState", "jsx"},
			{"NextResponse", "typescript"},
			{"supabase.auth", "typescript"},
		},
		LanguageAliases: map[string]string{
			"js":    "javascript",
			"ts":    "typescript",
			"jsx":   "javascript",
			"tsx":   "typescript",
			"shell": "bash",
			"sh":    "bash",
			"json":  "json",
			"py":    "python",
		},

		IndentUnit:    "  ",
		MaxBlankLines: 3,
	}
}

// Validate checks that every selector compiles and that numeric limits make sense.
func (c *Config) Validate() error {
	for _, sel := range c.MainContentSelectors {
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("invalid main content selector %q: %w", sel, err)
		}
	}
	if c.MaxInlineWords < 0 {
		return fmt.Errorf("max inline words must not be negative, got %d", c.MaxInlineWords)
	}
	if c.MaxBlankLines < 1 {
		return fmt.Errorf("max blank lines must be at least 1, got %d", c.MaxBlankLines)
	}
	return nil
}

// Merge merges another config into this one.
// Non-empty tables from other replace this config's tables, except
// LanguageAliases which are overlaid key by key.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c

	if len(other.RemoveTags) > 0 {
		merged.RemoveTags = other.RemoveTags
	}
	if len(other.SkipTags) > 0 {
		merged.SkipTags = other.SkipTags
	}
	if len(other.SkipClasses) > 0 {
		merged.SkipClasses = other.SkipClasses
	}
	if len(other.SkipIDs) > 0 {
		merged.SkipIDs = other.SkipIDs
	}
	if len(other.KeepTags) > 0 {
		merged.KeepTags = other.KeepTags
	}
	if len(other.MainContentSelectors) > 0 {
		merged.MainContentSelectors = other.MainContentSelectors
	}
	if len(other.CodeBlockClasses) > 0 {
		merged.CodeBlockClasses = other.CodeBlockClasses
	}
	if len(other.CodeTokens) > 0 {
		merged.CodeTokens = other.CodeTokens
	}
	if other.MaxInlineWords > 0 {
		merged.MaxInlineWords = other.MaxInlineWords
	}
	if len(other.LanguageHints) > 0 {
		merged.LanguageHints = other.LanguageHints
	}
	if len(other.LanguageAliases) > 0 {
		aliases := make(map[string]string, len(c.LanguageAliases)+len(other.LanguageAliases))
		for k, v := range c.LanguageAliases {
			aliases[k] = v
		}
		for k, v := range other.LanguageAliases {
			aliases[k] = v
		}
		merged.LanguageAliases = aliases
	}
	if other.IndentUnit != "" {
		merged.IndentUnit = other.IndentUnit
	}
	if other.MaxBlankLines > 0 {
		merged.MaxBlankLines = other.MaxBlankLines
	}

	return &merged
}

// compiled holds selectors compiled once per Cleaner.
type compiled struct {
	mainContent []cascadia.Selector
	sources     []string
}

func (c *Config) compile() (*compiled, error) {
	out := &compiled{}
	for _, sel := range c.MainContentSelectors {
		s, err := cascadia.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("invalid main content selector %q: %w", sel, err)
		}
		out.mainContent = append(out.mainContent, s)
		out.sources = append(out.sources, sel)
	}
	return out, nil
}
