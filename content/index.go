package content

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Item is a raw content unit as held by the backing source.
type Item struct {
	Locator string
	Text    string
}

// Source enumerates and reads raw content items.
type Source interface {
	List(ctx context.Context) ([]Item, error)
	Read(ctx context.Context, locator string) (string, error)
}

// PublishedItem is an indexed item. PublishedAt is the effective sort key,
// which depends on the SortPolicy the index was built with.
type PublishedItem struct {
	Frontmatter
	Locator     string
	PublishedAt time.Time
}

// LastModified is revised_at when present, else published_at.
func (p PublishedItem) LastModified() (time.Time, bool) {
	switch {
	case p.RevisedAt != nil:
		return *p.RevisedAt, true
	case p.Frontmatter.PublishedAt != nil:
		return *p.Frontmatter.PublishedAt, true
	}
	return time.Time{}, false
}

// Index is an immutable sequence of published items, most recent first. Only
// Builder.Build produces a non-empty Index, so every item has a publish time.
type Index struct {
	items []PublishedItem
}

// Len returns the number of published items.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.items)
}

// At returns the item at position i.
func (x *Index) At(i int) PublishedItem {
	return x.items[i]
}

// Items returns a copy of the ordered items.
func (x *Index) Items() []PublishedItem {
	if x == nil {
		return nil
	}
	return slices.Clone(x.items)
}

// FindBySlug returns the first item whose slug matches.
func (x *Index) FindBySlug(slug string) (PublishedItem, bool) {
	if x == nil {
		return PublishedItem{}, false
	}
	for _, it := range x.items {
		if it.Slug == slug {
			return it, true
		}
	}
	return PublishedItem{}, false
}

// SortPolicy selects the timestamp an item is ordered by.
type SortPolicy int

const (
	// SortByPublished orders by published_at alone.
	SortByPublished SortPolicy = iota
	// SortByLatest orders by the later of revised_at and published_at.
	SortByLatest
)

// ParseSortPolicy maps a config value to a SortPolicy.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "published":
		return SortByPublished, nil
	case "latest":
		return SortByLatest, nil
	}
	return 0, fmt.Errorf("unknown sort policy %q", s)
}

func (p SortPolicy) String() string {
	if p == SortByLatest {
		return "latest"
	}
	return "published"
}

func (p SortPolicy) key(fm Frontmatter) time.Time {
	t := *fm.PublishedAt
	if p == SortByLatest && fm.RevisedAt != nil && fm.RevisedAt.After(t) {
		return *fm.RevisedAt
	}
	return t
}

// Builder produces a publication index from a source.
type Builder struct {
	source Source
	policy SortPolicy
	log    zerolog.Logger
}

// NewBuilder creates a Builder reading from src.
func NewBuilder(src Source, policy SortPolicy, log zerolog.Logger) *Builder {
	return &Builder{source: src, policy: policy, log: log}
}

// Build scans the whole source and returns a complete index. Any failing item
// aborts the build; drafts are skipped.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	items, err := b.source.List(ctx)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return nil, err
		}
		return nil, &IOError{Op: "list", Err: err}
	}
	slices.SortFunc(items, func(a, b Item) int {
		return strings.Compare(a.Locator, b.Locator)
	})

	published := make([]PublishedItem, 0, len(items))
	seen := make(map[string]string, len(items))
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fm, err := Extract(it.Text)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Locator = it.Locator
			}
			return nil, err
		}
		if fm.Draft() {
			b.log.Debug().Str("locator", it.Locator).Msg("skipping draft")
			continue
		}
		if other, dup := seen[fm.Slug]; dup {
			return nil, &ValidationError{
				Locator: it.Locator,
				Field:   "slug",
				Reason:  fmt.Sprintf("%q duplicates %s", fm.Slug, other),
			}
		}
		seen[fm.Slug] = it.Locator
		published = append(published, PublishedItem{
			Frontmatter: fm,
			Locator:     it.Locator,
			PublishedAt: b.policy.key(fm),
		})
	}

	slices.SortStableFunc(published, func(a, b PublishedItem) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return &Index{items: published}, nil
}
