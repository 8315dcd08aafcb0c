package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultSeparator divides documents in a multi-page Markdown stream.
const DefaultSeparator = "\n\n---\n\n"

// Markdowner is implemented by results that render as a Markdown document.
type Markdowner interface {
	MarkdownContent() string
}

// MarkdownWriter streams Markdown documents. It accepts strings and
// Markdowner values.
type MarkdownWriter struct {
	w         *bufio.Writer
	separator string
	written   int
}

// NewMarkdownWriter creates a Markdown writer.
func NewMarkdownWriter(w io.Writer, separator string) *MarkdownWriter {
	return &MarkdownWriter{
		w:         bufio.NewWriter(w),
		separator: separator,
	}
}

// Write writes one document, preceded by the separator after the first.
func (w *MarkdownWriter) Write(data any) error {
	var doc string
	switch v := data.(type) {
	case string:
		doc = v
	case Markdowner:
		doc = v.MarkdownContent()
	default:
		return fmt.Errorf("markdown writer: unsupported value %T", data)
	}

	if w.written > 0 {
		if _, err := w.w.WriteString(w.separator); err != nil {
			return err
		}
	}
	if _, err := w.w.WriteString(strings.TrimRight(doc, "\n")); err != nil {
		return err
	}
	w.written++
	return nil
}

// WriteAll writes several documents.
func (w *MarkdownWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush terminates the stream with a newline and flushes the buffer.
func (w *MarkdownWriter) Flush() error {
	if w.written > 0 && w.w.Buffered() > 0 {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *MarkdownWriter) Close() error {
	return w.Flush()
}
