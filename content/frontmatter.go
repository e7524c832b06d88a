// Package content builds the publication index from authored content items and
// holds it in a store that many request handlers read concurrently.
package content

import (
	"strings"
	"time"
)

// marker opens and closes a frontmatter block.
const marker = "---"

// Frontmatter is the metadata embedded at the top of a content item.
type Frontmatter struct {
	Description string
	Preview     string
	Slug        string
	Title       string
	PublishedAt *time.Time
	RevisedAt   *time.Time
}

// Draft reports whether the item lacks a publish timestamp.
func (f Frontmatter) Draft() bool {
	return f.PublishedAt == nil
}

// Extract parses the frontmatter block at the start of text.
func Extract(text string) (Frontmatter, error) {
	block, _, _ := split(text)
	return ParseBlock(block)
}

// Strip returns text without its frontmatter block. Text with no complete
// block is returned unchanged, so stripping an already stripped body is a
// no-op unless that body itself opens with a marker line.
func Strip(text string) string {
	_, body, _ := split(text)
	return body
}

// Block returns the raw lines between the two markers, markers excluded.
func Block(text string) (string, bool) {
	block, _, ok := split(text)
	return block, ok
}

// ParseBlock parses an isolated frontmatter block of "key: value" lines.
func ParseBlock(block string) (Frontmatter, error) {
	attrs := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	var fm Frontmatter
	required := []struct {
		name string
		dst  *string
	}{
		{"description", &fm.Description},
		{"preview", &fm.Preview},
		{"slug", &fm.Slug},
		{"title", &fm.Title},
	}
	for _, r := range required {
		v, ok := attrs[r.name]
		if !ok {
			return Frontmatter{}, &ValidationError{Field: r.name, Reason: "is missing"}
		}
		*r.dst = v
	}
	fm.PublishedAt = parseTimestamp(attrs["published_at"])
	fm.RevisedAt = parseTimestamp(attrs["revised_at"])
	return fm, nil
}

// parseTimestamp returns nil for empty or non-RFC3339 values.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// split locates the frontmatter block. The opening marker must be the first
// line and the block ends at the next line equal to the marker. Extract and
// Strip both go through here so they always agree on the boundaries.
func split(text string) (block, body string, ok bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimSuffix(first, "\r") != marker {
		return "", text, false
	}
	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimSuffix(line, "\r") == marker {
			return rest[:offset], next, true
		}
		if !more {
			return "", text, false
		}
		offset += len(line) + 1
	}
}
