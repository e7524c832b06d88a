package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source keyed by locator.
type memSource struct {
	mu      sync.Mutex
	items   map[string]string
	listErr error
	lists   int
}

func newMemSource(items map[string]string) *memSource {
	return &memSource{items: items}
}

func (m *memSource) List(_ context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Item, 0, len(m.items))
	for loc, text := range m.items {
		out = append(out, Item{Locator: loc, Text: text})
	}
	return out, nil
}

func (m *memSource) Read(_ context.Context, locator string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.items[locator]
	if !ok {
		return "", &IOError{Op: "read", Locator: locator, Err: errors.New("no such item")}
	}
	return text, nil
}

func (m *memSource) set(locator, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[locator] = text
}

func (m *memSource) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func page(slug, published, revised string) string {
	s := fmt.Sprintf("---\ndescription: about %[1]s\npreview: preview of %[1]s\nslug: %[1]s\ntitle: %[1]s\n", slug)
	if published != "" {
		s += "published_at: " + published + "\n"
	}
	if revised != "" {
		s += "revised_at: " + revised + "\n"
	}
	return s + "---\n# " + slug + "\n"
}

func slugs(x *Index) []string {
	var out []string
	for _, it := range x.Items() {
		out = append(out, it.Slug)
	}
	return out
}

func TestBuildOrdersAndSkipsDrafts(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md":     page("old", "2021-01-01T00:00:00Z", ""),
		"b.md":     page("new", "2023-01-01T00:00:00Z", ""),
		"c.md":     page("draft", "", ""),
		"d.md":     page("mid", "2022-01-01T00:00:00Z", ""),
		"e.md":     page("undated", "not-a-date", ""),
		"notes.md": page("revised", "2020-01-01T00:00:00Z", "2024-01-01T00:00:00Z"),
	})
	x, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"new", "mid", "old", "revised"}, slugs(x))
	assert.Equal(t, "b.md", x.At(0).Locator)
	_, ok := x.FindBySlug("draft")
	assert.False(t, ok)
}

func TestBuildSortByLatest(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("a", "2021-01-01T00:00:00Z", ""),
		"b.md": page("b", "2020-01-01T00:00:00Z", "2024-01-01T00:00:00Z"),
		"c.md": page("c", "2022-01-01T00:00:00Z", "2019-01-01T00:00:00Z"),
	})
	x, err := NewBuilder(src, SortByLatest, zerolog.Nop()).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "a"}, slugs(x))
	first := x.At(0)
	assert.Equal(t, 2024, first.PublishedAt.Year(), "effective key uses revised_at")
	assert.Equal(t, 2020, first.Frontmatter.PublishedAt.Year())
}

func TestBuildTiesBreakByLocator(t *testing.T) {
	src := newMemSource(map[string]string{
		"z.md": page("z", "2022-01-01T00:00:00Z", ""),
		"m.md": page("m", "2022-01-01T00:00:00Z", ""),
		"a.md": page("a", "2022-01-01T00:00:00Z", ""),
	})
	for range 5 {
		x, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "m", "z"}, slugs(x))
	}
}

func TestBuildRejectsDuplicateSlug(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("same", "2022-01-01T00:00:00Z", ""),
		"b.md": page("same", "2023-01-01T00:00:00Z", ""),
	})
	_, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)
	assert.Equal(t, "b.md", ve.Locator)
}

func TestBuildFailsFast(t *testing.T) {
	src := newMemSource(map[string]string{
		"good.md":   page("good", "2022-01-01T00:00:00Z", ""),
		"broken.md": "---\ndescription: d\npreview: p\ntitle: t\n---\n",
	})
	x, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
	assert.Nil(t, x)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "broken.md", ve.Locator)
	assert.Equal(t, "slug", ve.Field)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestBuildDraftStillValidated(t *testing.T) {
	src := newMemSource(map[string]string{
		"draft.md": "---\ndescription: d\nslug: s\ntitle: t\n---\n",
	})
	_, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "preview", ve.Field)
}

func TestBuildListFailure(t *testing.T) {
	src := newMemSource(map[string]string{})
	src.fail(errors.New("disk gone"))

	_, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "list", ioErr.Op)
	assert.EqualError(t, errors.Unwrap(err), "disk gone")
}

func TestBuildCancelled(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("a", "2022-01-01T00:00:00Z", ""),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildEmpty(t *testing.T) {
	x, err := NewBuilder(newMemSource(map[string]string{}), SortByPublished, zerolog.Nop()).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, x.Len())
}

func TestLastModified(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("a", "2021-01-01T00:00:00Z", "2021-06-01T00:00:00Z"),
		"b.md": page("b", "2022-01-01T00:00:00Z", ""),
	})
	x, err := NewBuilder(src, SortByPublished, zerolog.Nop()).Build(context.Background())
	require.NoError(t, err)

	b, ok := x.At(0).LastModified()
	require.True(t, ok)
	assert.Equal(t, 2022, b.Year())

	a, ok := x.At(1).LastModified()
	require.True(t, ok)
	assert.Equal(t, 6, int(a.Month()))
}

func TestParseSortPolicy(t *testing.T) {
	for in, want := range map[string]SortPolicy{
		"":          SortByPublished,
		"published": SortByPublished,
		"Latest":    SortByLatest,
		" latest ":  SortByLatest,
	} {
		got, err := ParseSortPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortPolicy("alphabetical")
	assert.Error(t, err)
	assert.Equal(t, "latest", SortByLatest.String())
}

func TestNilIndex(t *testing.T) {
	var x *Index
	assert.Equal(t, 0, x.Len())
	assert.Nil(t, x.Items())
	_, ok := x.FindBySlug("a")
	assert.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("home: %w", &NotFoundError{Kind: ErrNoPublishedContent})
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrNoPublishedContent)
	assert.NotErrorIs(t, err, ErrPageNotFound)

	miss := &NotFoundError{Slug: "x", Kind: ErrPageNotFound}
	assert.Equal(t, `page not found: "x"`, miss.Error())
}
