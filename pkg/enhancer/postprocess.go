package enhancer

import (
	"regexp"
	"strings"
)

const fence = "```"

var (
	leadingFenceRegex  = regexp.MustCompile("^```\\s*\n")
	trailingFenceRegex = regexp.MustCompile("\n\\s*```$")
	headingRegex       = regexp.MustCompile(`^#{1,6}(\s|$)`)
)

// Postprocess cleans a model answer so it can be saved as a Markdown file.
// It removes a wrapper fence around the whole answer, strips stray
// unbalanced fences at either end, drops repeated heading lines outside code
// blocks and closes a trailing unclosed code block.
func Postprocess(content string) string {
	content = stripWrapper(strings.TrimSpace(content))

	if countFences(content)%2 == 1 {
		content = leadingFenceRegex.ReplaceAllString(content, "")
		content = trailingFenceRegex.ReplaceAllString(content, "")
	}

	content = dedupeHeadings(content)

	if countFences(content)%2 == 1 {
		content += "\n" + fence
	}
	return content
}

// stripWrapper removes a ``` / ```markdown / ```md fence that encloses the
// entire answer. Fences with an info string open nested blocks, bare fences
// close the innermost one; the wrapper is only removed when its close is the
// last line.
func stripWrapper(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	switch strings.ToLower(strings.TrimSpace(lines[0])) {
	case fence, fence + "markdown", fence + "md":
	default:
		return s
	}

	depth := 1
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, fence) {
			continue
		}
		if line == fence {
			depth--
		} else {
			depth++
		}
		if depth == 0 {
			if i != len(lines)-1 {
				return s
			}
			return strings.TrimSpace(strings.Join(lines[1:i], "\n"))
		}
	}
	return s
}

func countFences(s string) int {
	n := 0
	for line := range strings.SplitSeq(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			n++
		}
	}
	return n
}

// dedupeHeadings keeps the first occurrence of each heading line.
func dedupeHeadings(s string) string {
	lines := strings.Split(s, "\n")
	seen := make(map[string]struct{})
	out := lines[:0]
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			inFence = !inFence
		}
		if !inFence && headingRegex.MatchString(line) {
			key := strings.TrimSpace(line)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
