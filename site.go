package pagepress

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/pagepress/content"
	"github.com/eringen/pagepress/markdown"
	"github.com/eringen/pagepress/views"
)

// Site derives the public views from the store's current index. It keeps no
// state of its own; every call reads whatever snapshot the store serves.
type Site struct {
	store    content.Store
	renderer markdown.Renderer
	cfg      SiteConfig
	now      func() time.Time
	log      zerolog.Logger
}

// NewSite creates a Site. cfg defaults are applied.
func NewSite(store content.Store, renderer markdown.Renderer, cfg SiteConfig, log zerolog.Logger) *Site {
	cfg.setDefaults()
	return &Site{store: store, renderer: renderer, cfg: cfg, now: time.Now, log: log}
}

// Home returns the most recent item rendered in full plus a navigation list of
// the remaining items.
func (s *Site) Home(ctx context.Context) (views.HomeData, error) {
	index, err := s.store.Fetch(ctx)
	if err != nil {
		return views.HomeData{}, err
	}
	if index.Len() == 0 {
		return views.HomeData{}, &content.NotFoundError{Kind: content.ErrNoPublishedContent}
	}

	items := index.Items()
	article, err := s.article(ctx, items[0])
	if err != nil {
		return views.HomeData{}, err
	}
	others := make([]views.NavItem, 0, len(items)-1)
	for _, it := range items[1:] {
		others = append(others, views.NavItem{Title: it.Title, Slug: it.Slug})
	}
	return views.HomeData{Homepage: article, Others: others}, nil
}

// Page returns the item published under slug.
func (s *Site) Page(ctx context.Context, slug string) (views.PageData, error) {
	index, err := s.store.Fetch(ctx)
	if err != nil {
		return views.PageData{}, err
	}
	item, ok := index.FindBySlug(slug)
	if !ok {
		return views.PageData{}, &content.NotFoundError{Slug: slug, Kind: content.ErrPageNotFound}
	}
	article, err := s.article(ctx, item)
	if err != nil {
		return views.PageData{}, err
	}
	return views.PageData{Article: article}, nil
}

// article reads, strips and renders one item.
func (s *Site) article(ctx context.Context, item content.PublishedItem) (views.Article, error) {
	text, err := s.store.Read(ctx, item.Locator)
	if err != nil {
		return views.Article{}, err
	}
	html, err := s.renderer.Render(ctx, content.Strip(text))
	if err != nil {
		return views.Article{}, &content.RenderError{Locator: item.Locator, Err: err}
	}
	return views.Article{
		Slug:        item.Slug,
		Title:       item.Title + s.cfg.TitleSuffix,
		Heading:     item.Title,
		Description: item.Description,
		Preview:     item.Preview,
		HTML:        html,
		PublishedAt: *item.Frontmatter.PublishedAt,
		RevisedAt:   item.RevisedAt,
	}, nil
}
