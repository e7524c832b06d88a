package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Home renders the site root: the most recent article in full followed by a
// list of every other article.
func Home(cfg SiteConfig, data HomeData) templ.Component {
	meta := PageMeta{
		Title:       data.Homepage.Title,
		Description: data.Homepage.Description,
		URL:         cfg.URL,
		OGType:      "website",
	}
	return layout(cfg, meta, WebsiteJsonLD(cfg), func(w io.Writer) error {
		if err := writeArticle(w, data.Homepage); err != nil {
			return err
		}
		if len(data.Others) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<nav class="posts"><ul>`)
		for _, item := range data.Others {
			fmt.Fprintf(&b, `<li><a href="/post/%s">%s</a></li>`,
				templ.EscapeString(PathEscape(item.Slug)), templ.EscapeString(item.Title))
		}
		b.WriteString(`</ul></nav>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Page renders a single article.
func Page(cfg SiteConfig, data PageData) templ.Component {
	meta := PageMeta{
		Title:       data.Article.Title,
		Description: data.Article.Description,
		URL:         PostURL(cfg.URL, data.Article.Slug),
		OGType:      "article",
	}
	return layout(cfg, meta, BlogPostingJsonLD(cfg, data.Article), func(w io.Writer) error {
		return writeArticle(w, data.Article)
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Not found - " + cfg.Name, URL: cfg.URL, OGType: "website"}
	return layout(cfg, meta, "", func(w io.Writer) error {
		_, err := io.WriteString(w, `<main><h1>Not found</h1><p><a href="/">Back home</a></p></main>`)
		return err
	})
}

// ServerError renders the generic error page.
func ServerError(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Error - " + cfg.Name, URL: cfg.URL, OGType: "website"}
	return layout(cfg, meta, "", func(w io.Writer) error {
		_, err := io.WriteString(w, `<main><h1>Something has gone wrong.</h1></main>`)
		return err
	})
}

func writeArticle(w io.Writer, a Article) error {
	var b strings.Builder
	b.WriteString(`<main><article>`)
	fmt.Fprintf(&b, `<h1>%s</h1>`, templ.EscapeString(a.Heading))
	fmt.Fprintf(&b, `<p class="dates"><time datetime="%s">%s</time>`,
		a.PublishedAt.Format("2006-01-02T15:04:05Z07:00"), FormatDate(a.PublishedAt))
	if a.RevisedAt != nil {
		fmt.Fprintf(&b, ` &middot; revised <time datetime="%s">%s</time>`,
			a.RevisedAt.Format("2006-01-02T15:04:05Z07:00"), FormatDate(*a.RevisedAt))
	}
	b.WriteString(`</p><div class="prose">`)
	b.WriteString(a.HTML)
	b.WriteString(`</div></article></main>`)
	_, err := io.WriteString(w, b.String())
	return err
}

func layout(cfg SiteConfig, meta PageMeta, jsonLD string, body func(io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s</title>`, templ.EscapeString(meta.Title))
		if meta.Description != "" {
			fmt.Fprintf(&b, `<meta name="description" content="%s">`, templ.EscapeString(meta.Description))
			fmt.Fprintf(&b, `<meta property="og:description" content="%s">`, templ.EscapeString(meta.Description))
		}
		fmt.Fprintf(&b, `<meta property="og:title" content="%s">`, templ.EscapeString(meta.Title))
		fmt.Fprintf(&b, `<meta property="og:type" content="%s">`, templ.EscapeString(meta.OGType))
		fmt.Fprintf(&b, `<meta property="og:url" content="%s">`, templ.EscapeString(meta.URL))
		fmt.Fprintf(&b, `<link rel="canonical" href="%s">`, templ.EscapeString(meta.URL))
		b.WriteString(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		b.WriteString(`<link rel="stylesheet" href="/assets/app.css">`)
		if jsonLD != "" {
			b.WriteString(`<script type="application/ld+json">` + jsonLD + `</script>`)
		}
		fmt.Fprintf(&b, `</head><body><header><a href="/">%s</a></header>`, templ.EscapeString(cfg.Name))
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
