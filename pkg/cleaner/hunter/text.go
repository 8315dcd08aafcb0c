package hunter

import (
	"regexp"
	"strings"
)

var (
	// numbered id suffixes left behind by markup de-duplication, e.g. "Intro_12"
	numberedSuffixRegex = regexp.MustCompile(`_\d+`)
	// in code only suffixes ending a token are stripped
	trailingSuffixRegex = regexp.MustCompile(`_\d+\b`)
	trailingHashRegex   = regexp.MustCompile(`#$`)
	backtickAfterRegex  = regexp.MustCompile("`(\\S)")
	backtickBeforeRegex = regexp.MustCompile("(\\S)`")
)

// Clean normalizes a raw text fragment.
//
// In prose mode it strips numbered id suffixes and anchor-link "#" markers,
// collapses whitespace, and pads inline-code backticks with a space. In
// structural mode, used for code, it only strips id suffixes, right-trims
// lines and drops leading and trailing blank lines.
func Clean(text string, preserveStructure bool) string {
	if preserveStructure {
		return cleanStructural(text)
	}

	text = numberedSuffixRegex.ReplaceAllString(text, "")
	text = trailingHashRegex.ReplaceAllString(strings.TrimSpace(text), "")

	// a lone "#" is a heading anchor that lost its link
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if w != "#" {
			kept = append(kept, w)
		}
	}
	text = strings.Join(kept, " ")

	text = backtickAfterRegex.ReplaceAllString(text, "` $1")
	text = backtickBeforeRegex.ReplaceAllString(text, "$1 `")
	return strings.TrimSpace(text)
}

func cleanStructural(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		lines[i] = trailingSuffixRegex.ReplaceAllString(line, "")
	}

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// dedent removes the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return text
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// collapseSpace joins whitespace-separated words with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
