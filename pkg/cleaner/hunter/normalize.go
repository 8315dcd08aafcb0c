package hunter

import (
	"regexp"
	"strings"
)

var (
	headingLineRegex  = regexp.MustCompile(`^#{1,6}( |$)`)
	listItemLineRegex = regexp.MustCompile(`^\s*(-|\d+\.)(\s|$)`)
)

// DefaultMaxBlankLines is the blank-line ceiling used by Normalize.
const DefaultMaxBlankLines = 3

type unitKind int

const (
	unitContent unitKind = iota
	unitHeading
	unitList
	unitCode
)

// unit is one line of Markdown, or one whole fenced code block.
type unit struct {
	kind   unitKind
	lines  []string
	blanks int // blank lines preceding the unit in the input
	empty  bool
}

// Normalize enforces the global spacing rules on an assembled Markdown
// document. It is idempotent.
func Normalize(md string) string {
	return normalize(md, DefaultMaxBlankLines)
}

func normalize(md string, maxBlank int) string {
	units := splitUnits(md)
	if len(units) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, u := range units {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("\n", blankLinesBetween(units[i-1], u, maxBlank)))
		}
		sb.WriteString(strings.Join(u.lines, "\n"))
	}
	return strings.TrimSpace(sb.String())
}

// blankLinesBetween decides the separation of two adjacent units.
func blankLinesBetween(prev, next unit, maxBlank int) int {
	preserved := min(next.blanks, maxBlank)
	switch {
	case prev.kind == unitHeading && next.kind == unitHeading:
		return preserved
	case prev.kind == unitHeading || next.kind == unitHeading:
		return 1
	case prev.kind == unitCode && next.kind == unitCode && prev.empty && next.empty:
		return 0
	case prev.kind == unitCode || next.kind == unitCode:
		return 1
	case prev.kind != next.kind:
		return 1
	default:
		return preserved
	}
}

func splitUnits(md string) []unit {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")

	var units []unit
	blanks := 0
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			blanks++
			continue
		}

		if isFence(line) {
			end := i + 1
			for end < len(lines) && !isFence(lines[end]) {
				end++
			}
			u := fencedUnit(lines, i, end)
			u.blanks = blanks
			units = append(units, u)
			blanks = 0
			i = end
			continue
		}

		line = spaceBackticks(line)
		kind := unitContent
		switch {
		case headingLineRegex.MatchString(line):
			kind = unitHeading
		case listItemLineRegex.MatchString(line):
			kind = unitList
		}
		units = append(units, unit{kind: kind, lines: []string{line}, blanks: blanks})
		blanks = 0
	}
	return units
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

// fencedUnit builds a code unit from lines[open:end]; end may be past the
// last line for an unterminated fence. Bodies are kept verbatim.
func fencedUnit(lines []string, open, end int) unit {
	u := unit{kind: unitCode, empty: true}
	u.lines = append(u.lines, strings.TrimRight(lines[open], " \t"))

	bodyEnd := min(end, len(lines))
	body := lines[open+1 : bodyEnd]
	for _, l := range body {
		if strings.TrimSpace(l) != "" {
			u.empty = false
			break
		}
	}
	if !u.empty {
		u.lines = append(u.lines, body...)
	}
	if end < len(lines) {
		u.lines = append(u.lines, strings.TrimRight(lines[end], " \t"))
	}
	return u
}

// spaceBackticks right-trims a line and leaves exactly one space on each
// side of every backtick run, except at the start and end of the text.
func spaceBackticks(line string) string {
	line = strings.TrimRight(line, " \t")
	body := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(body)]
	if !strings.Contains(body, "`") {
		return line
	}

	var sb strings.Builder
	i := 0
	for i < len(body) {
		if body[i] != '`' {
			sb.WriteByte(body[i])
			i++
			continue
		}
		j := i
		for j < len(body) && body[j] == '`' {
			j++
		}
		out := strings.TrimRight(sb.String(), " \t")
		sb.Reset()
		sb.WriteString(out)
		if out != "" {
			sb.WriteByte(' ')
		}
		sb.WriteString(body[i:j])
		k := j
		for k < len(body) && (body[k] == ' ' || body[k] == '\t') {
			k++
		}
		if k < len(body) {
			sb.WriteByte(' ')
		}
		i = k
	}
	return indent + sb.String()
}
