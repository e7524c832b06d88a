package views

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// PostURL returns the absolute URL of a post.
func PostURL(base, slug string) string {
	return strings.TrimRight(base, "/") + "/post/" + url.PathEscape(slug)
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FormatDate renders a timestamp the way pages display it.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      cfg.URL,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an article.
func BlogPostingJsonLD(cfg SiteConfig, a Article) string {
	postURL := PostURL(cfg.URL, a.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.Heading,
		"description":   a.Description,
		"datePublished": a.PublishedAt.Format(time.RFC3339),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if a.RevisedAt != nil {
		data["dateModified"] = a.RevisedAt.Format(time.RFC3339)
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
