package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// batch holds the pages of one run for formats that emit a single
// document. One page is written as itself, several as a list.
type batch struct {
	pages   []any
	pending bool
}

func (b *batch) add(pages ...any) {
	b.pages = append(b.pages, pages...)
	b.pending = true
}

// take hands over the buffered pages and empties the batch.
func (b *batch) take() (any, bool) {
	if !b.pending {
		return nil, false
	}
	var doc any = b.pages
	if len(b.pages) == 1 {
		doc = b.pages[0]
	}
	b.pages = nil
	b.pending = false
	return doc, true
}

// newJSONEncoder leaves <, > and & alone: Markdown and code samples are
// full of them.
func newJSONEncoder(w io.Writer, indent string) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}

// JSONWriter writes every page of a run as one JSON document when flushed.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	batch
}

// NewJSONWriter creates a JSON writer. With pretty unset, or an empty
// indent, output is compact.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	if !pretty {
		indent = ""
	}
	return &JSONWriter{w: bufio.NewWriter(w), indent: indent}
}

// Write buffers one page.
func (w *JSONWriter) Write(data any) error {
	w.add(data)
	return nil
}

// WriteAll buffers several pages.
func (w *JSONWriter) WriteAll(data []any) error {
	w.add(data...)
	return nil
}

// Flush encodes the pages buffered since the last Flush.
func (w *JSONWriter) Flush() error {
	if doc, ok := w.take(); ok {
		if err := newJSONEncoder(w.w, w.indent).Encode(doc); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter streams one compact JSON line per page, so batch conversions
// can be consumed while later pages are still being fetched.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: newJSONEncoder(bw, "")}
}

// Write emits data as one line and flushes it.
func (w *JSONLWriter) Write(data any) error {
	if err := w.enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll emits each page on its own line.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
