package pagepress

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pagepress/content"
	"github.com/eringen/pagepress/markdown"
)

type brokenRenderer struct{}

func (brokenRenderer) Render(context.Context, string) (string, error) {
	return "", errors.New("renderer exploded")
}

func newTestSite(t *testing.T, files fstest.MapFS, policy content.SortPolicy, r markdown.Renderer) *Site {
	t.Helper()
	store := content.NewSnapshotStore(content.NewFSSource(files), policy, zerolog.Nop())
	_, err := store.Rebuild(context.Background())
	require.NoError(t, err)
	return NewSite(store, r, SiteConfig{Name: "Notes"}, zerolog.Nop())
}

func TestSitePage(t *testing.T) {
	site := newTestSite(t, blog, content.SortByPublished, markdown.New())

	data, err := site.Page(context.Background(), "older")
	require.NoError(t, err)
	a := data.Article
	assert.Equal(t, "Older - Notes", a.Title)
	assert.Equal(t, "Older", a.Heading)
	assert.Equal(t, "about older", a.Description)
	assert.Contains(t, a.HTML, "<p>Body of older.</p>")
	require.NotNil(t, a.RevisedAt)
	assert.Equal(t, time.July, a.RevisedAt.Month())

	_, err = site.Page(context.Background(), "draft")
	assert.ErrorIs(t, err, content.ErrPageNotFound)
	assert.True(t, content.IsNotFound(err))
}

func TestSiteLatestPolicyKeepsPublishedDate(t *testing.T) {
	files := fstest.MapFS{
		"a.md": {Data: []byte(doc("a", "A", "2023-01-01T00:00:00Z", ""))},
		"b.md": {Data: []byte(doc("b", "B", "2020-01-01T00:00:00Z", "2024-01-01T00:00:00Z"))},
	}
	site := newTestSite(t, files, content.SortByLatest, markdown.New())

	home, err := site.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", home.Homepage.Slug)
	assert.Equal(t, 2020, home.Homepage.PublishedAt.Year())
	require.Len(t, home.Others, 1)
	assert.Equal(t, "a", home.Others[0].Slug)
}

func TestSiteRenderFailure(t *testing.T) {
	site := newTestSite(t, blog, content.SortByPublished, brokenRenderer{})

	_, err := site.Home(context.Background())
	var re *content.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "hello.md", re.Locator)
	assert.False(t, content.IsNotFound(err))
}

func TestSiteSitemapUsesPreviousSnapshot(t *testing.T) {
	files := fstest.MapFS{
		"a.md": {Data: []byte(doc("a", "A", "2023-01-01T00:00:00Z", ""))},
	}
	store := content.NewSnapshotStore(content.NewFSSource(files), content.SortByPublished, zerolog.Nop())
	_, err := store.Rebuild(context.Background())
	require.NoError(t, err)
	site := NewSite(store, markdown.New(), SiteConfig{URL: "https://example.com"}, zerolog.Nop())

	before, err := site.Sitemap(context.Background())
	require.NoError(t, err)

	files["b.md"] = &fstest.MapFile{Data: []byte("not frontmatter")}
	_, err = store.Rebuild(context.Background())
	require.Error(t, err)

	after, err := site.Sitemap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSiteHelloPage(t *testing.T) {
	files := fstest.MapFS{
		"hello.md": {Data: []byte("---\ntitle: Hello\nslug: hello\ndescription: d\npreview: p\npublished_at: 2023-01-01T00:00:00Z\n---\n# Hi\n")},
	}
	site := newTestSite(t, files, content.SortByPublished, markdown.New())

	data, err := site.Page(context.Background(), "hello")
	require.NoError(t, err)
	assert.Contains(t, data.Article.HTML, "Hi")
	assert.Equal(t, "Hello - Notes", data.Article.Title)
	assert.True(t, data.Article.PublishedAt.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
}
