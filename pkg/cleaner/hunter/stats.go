package hunter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures metrics about one extraction.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Pruning
	ElementsRemoved map[string]int `json:"elements_removed" yaml:"elements_removed"` // tag -> count
	RemovalReasons  map[string]int `json:"removal_reasons" yaml:"removal_reasons"`   // reason -> count

	// RescuedCode counts pre/code elements lifted out of removed chrome.
	RescuedCode int `json:"rescued_code,omitempty" yaml:"rescued_code,omitempty"`

	// MainContent is the selector that narrowed the walk, or "document".
	MainContent string `json:"main_content" yaml:"main_content"`

	// Walk
	Fragments         map[FragmentType]int `json:"fragments" yaml:"fragments"`
	DuplicateHeadings int                  `json:"duplicate_headings" yaml:"duplicate_headings"`
	EmptyElements     int                  `json:"empty_elements" yaml:"empty_elements"`

	// Timing
	ParseDuration     time.Duration `json:"parse_duration_ms" yaml:"parse_duration_ms"`
	PruneDuration     time.Duration `json:"prune_duration_ms" yaml:"prune_duration_ms"`
	WalkDuration      time.Duration `json:"walk_duration_ms" yaml:"walk_duration_ms"`
	NormalizeDuration time.Duration `json:"normalize_duration_ms" yaml:"normalize_duration_ms"`
	TotalDuration     time.Duration `json:"total_duration_ms" yaml:"total_duration_ms"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
		RemovalReasons:  make(map[string]int),
		Fragments:       make(map[FragmentType]int),
	}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// TotalFragments returns the number of fragments emitted.
func (s *Stats) TotalFragments() int {
	total := 0
	for _, count := range s.Fragments {
		total += count
	}
	return total
}

// RecordRemoval records that an element was pruned and why.
func (s *Stats) RecordRemoval(tag, reason string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
	s.RemovalReasons[reason]++
}

// RecordFragment records an emitted fragment.
func (s *Stats) RecordFragment(t FragmentType) {
	s.Fragments[t]++
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	sb.WriteString(fmt.Sprintf("Elements removed: %d, main content: %s\n",
		s.TotalElementsRemoved(), s.MainContent))

	if len(s.ElementsRemoved) > 0 {
		sb.WriteString("Removed by tag: ")
		sb.WriteString(joinCounts(s.ElementsRemoved))
		sb.WriteString("\n")
	}

	if s.RescuedCode > 0 {
		sb.WriteString(fmt.Sprintf("Code kept from removed chrome: %d\n", s.RescuedCode))
	}

	if len(s.Fragments) > 0 {
		counts := make(map[string]int, len(s.Fragments))
		for t, n := range s.Fragments {
			counts[string(t)] = n
		}
		sb.WriteString(fmt.Sprintf("Fragments: %d (%s)\n", s.TotalFragments(), joinCounts(counts)))
	}

	if s.DuplicateHeadings > 0 {
		sb.WriteString(fmt.Sprintf("Duplicate headings dropped: %d\n", s.DuplicateHeadings))
	}

	sb.WriteString(fmt.Sprintf("Timing: parse=%v, prune=%v, walk=%v, normalize=%v, total=%v\n",
		s.ParseDuration.Round(time.Microsecond),
		s.PruneDuration.Round(time.Microsecond),
		s.WalkDuration.Round(time.Microsecond),
		s.NormalizeDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

func joinCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

// Warning represents a non-fatal issue encountered during extraction.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`     // "parse", "config"
	Message string `json:"message" yaml:"message"` // Human-readable description
	Context string `json:"context" yaml:"context"` // Error text or selector that caused the issue
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of an extraction.
type Result struct {
	// Content is the normalized Markdown. Empty when extraction could not proceed.
	Content string `json:"content" yaml:"content"`

	// Fragments is the ordered walk output the content was assembled from.
	Fragments []Fragment `json:"fragments" yaml:"fragments"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error is set when extraction could not proceed at all.
	Error error `json:"-" yaml:"-"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
