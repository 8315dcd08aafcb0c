package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain answer",
			in:   "  # Title\n\nBody  \n",
			want: "# Title\n\nBody",
		},
		{
			name: "bare wrapper",
			in:   "```\n# Title\n\nBody\n```",
			want: "# Title\n\nBody",
		},
		{
			name: "markdown wrapper",
			in:   "```markdown\n# Title\n\nBody\n```",
			want: "# Title\n\nBody",
		},
		{
			name: "md wrapper with nested code",
			in:   "```md\n# Title\n\n```go\nx := 1\n```\n```",
			want: "# Title\n\n```go\nx := 1\n```",
		},
		{
			name: "leading and trailing code blocks are not a wrapper",
			in:   "```\na\n```\n\ntext\n\n```\nb\n```",
			want: "```\na\n```\n\ntext\n\n```\nb\n```",
		},
		{
			name: "code language wrapper is kept",
			in:   "```python\nprint(1)\n```",
			want: "```python\nprint(1)\n```",
		},
		{
			name: "stray leading fence",
			in:   "```\n# Title\n\nBody",
			want: "# Title\n\nBody",
		},
		{
			name: "duplicate headings",
			in:   "# Title\n\nA\n\n## Part\n\n# Title\n\n## Part\n\nB",
			want: "# Title\n\nA\n\n## Part\n\n\n\nB",
		},
		{
			name: "comments inside code are not headings",
			in:   "# Run\n\n```bash\n# Run\nmake\n```",
			want: "# Run\n\n```bash\n# Run\nmake\n```",
		},
		{
			name: "unclosed fence is closed",
			in:   "# Title\n\nText\n\n```go\nx := 1",
			want: "# Title\n\nText\n\n```go\nx := 1\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Postprocess(tt.in))
		})
	}
}

func TestMissingLinks(t *testing.T) {
	before := "[a](https://a.dev) ![img](/logo.png) <https://auto.dev> [b](https://b.dev)"

	assert.Empty(t, MissingLinks(before, before))
	assert.Equal(t,
		[]string{"/logo.png", "https://b.dev"},
		MissingLinks(before, "[a](https://a.dev) <https://auto.dev>"))
	assert.Empty(t, MissingLinks("no links here", "still none"))
}
