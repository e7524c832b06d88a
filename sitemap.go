package pagepress

import (
	"bytes"
	"context"
	"encoding/xml"
	"time"

	"github.com/eringen/pagepress/views"
)

const (
	sitemapHeader    = `<?xml version="1.1" encoding="UTF-8"?>` + "\n"
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// Sitemap renders the index as a sitemap document. The first item is served at
// the site root, every other item under /post/{slug}. An empty index still
// yields a valid, empty urlset.
func (s *Site) Sitemap(ctx context.Context) ([]byte, error) {
	index, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	set := sitemapURLSet{
		XMLNS: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, index.Len()),
	}
	for i, item := range index.Items() {
		loc := s.cfg.URL
		if i > 0 {
			loc = views.PostURL(s.cfg.URL, item.Slug)
		}
		lastMod, ok := item.LastModified()
		if !ok {
			lastMod = s.now()
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     loc,
			LastMod: lastMod.Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(sitemapHeader)
	if err := xml.NewEncoder(&buf).Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
