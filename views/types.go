package views

import "time"

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// NavItem is an entry of the home page's secondary list.
type NavItem struct {
	Title string
	Slug  string
}

// Article is a rendered content item ready for a template.
type Article struct {
	Slug        string
	Title       string // composed with the site suffix
	Heading     string // frontmatter title as written
	Description string
	Preview     string
	HTML        string
	PublishedAt time.Time
	RevisedAt   *time.Time
}

// HomeData is what the home page template receives.
type HomeData struct {
	Homepage Article
	Others   []NavItem
}

// PageData is what a single page template receives.
type PageData struct {
	Article Article
}
