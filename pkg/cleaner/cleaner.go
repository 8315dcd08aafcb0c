// Package cleaner provides interfaces and implementations for turning fetched
// HTML into Markdown. Cleaners can be chained, so a content-isolation stage
// such as Readability can feed the Markdown converter.
package cleaner

// Cleaner transforms HTML content into a cleaner format.
// The primary implementation is hunter.Cleaner, which produces Markdown.
type Cleaner interface {
	// Clean transforms the input HTML.
	// The output format depends on the implementation (markdown, HTML, text).
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
