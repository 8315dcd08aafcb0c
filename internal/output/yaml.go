package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes every page of a run as one YAML document when flushed.
// Multi-line Markdown and fragment content come out as literal blocks.
type YAMLWriter struct {
	w *bufio.Writer
	batch
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Write buffers one page.
func (w *YAMLWriter) Write(data any) error {
	w.add(data)
	return nil
}

// WriteAll buffers several pages.
func (w *YAMLWriter) WriteAll(data []any) error {
	w.add(data...)
	return nil
}

// Flush encodes the pages buffered since the last Flush.
func (w *YAMLWriter) Flush() error {
	if doc, ok := w.take(); ok {
		enc := yaml.NewEncoder(w.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
