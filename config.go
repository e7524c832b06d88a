package pagepress

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/pagepress/content"
	"github.com/eringen/pagepress/content/sqltable"
	"github.com/eringen/pagepress/views"
)

// SiteConfig holds all configuration for a pagepress site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`         // Site name (default "Blog")
	URL         string `mapstructure:"url"`          // Canonical root URL (default "http://localhost:8000")
	Description string `mapstructure:"description"`  // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`       // Author name for JSON-LD
	TitleSuffix string `mapstructure:"title_suffix"` // Appended to page titles (default " - " + Name)

	Addr      string `mapstructure:"addr"`       // Listen address (default ":8000")
	StaticDir string `mapstructure:"static_dir"` // Served under /assets and /images (default "static")

	Source       string `mapstructure:"source"`        // "dir" or "sqlite" (default "dir")
	ContentDir   string `mapstructure:"content_dir"`   // Directory source path (default "content")
	DatabasePath string `mapstructure:"database_path"` // SQLite source path (default "data/pages.db")
	Mode         string `mapstructure:"mode"`          // "snapshot" or "ondemand" (default "snapshot")
	SortBy       string `mapstructure:"sort_by"`       // "published" or "latest" (default "published")

	RenderCacheSize int `mapstructure:"render_cache_size"` // Rendered bodies kept in memory (default 256)

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // Graceful shutdown budget (default 10s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.TitleSuffix == "" {
		c.TitleSuffix = " - " + c.Name
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.Source == "" {
		c.Source = "dir"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.Mode == "" {
		c.Mode = "snapshot"
	}
	if c.RenderCacheSize <= 0 {
		c.RenderCacheSize = 256
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate reports configuration values that cannot be used.
func (c *SiteConfig) Validate() error {
	if _, err := content.ParseSortPolicy(c.SortBy); err != nil {
		return fmt.Errorf("pagepress: sort_by: %w", err)
	}
	switch c.Source {
	case "dir", "sqlite":
	default:
		return fmt.Errorf("pagepress: unknown source %q", c.Source)
	}
	switch c.Mode {
	case "snapshot", "ondemand":
	default:
		return fmt.Errorf("pagepress: unknown mode %q", c.Mode)
	}
	return nil
}

func (c SiteConfig) views() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
	}
}

// OpenSource opens the backing source named by the config. The returned close
// func releases it.
func (c SiteConfig) OpenSource() (content.Source, func() error, error) {
	switch c.Source {
	case "sqlite":
		t, err := sqltable.Open(c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("pagepress: open %s: %w", c.DatabasePath, err)
		}
		return t, t.Close, nil
	default:
		return content.NewDirSource(c.ContentDir), func() error { return nil }, nil
	}
}

// NewStore builds the content store flavor named by the config.
func (c SiteConfig) NewStore(src content.Source, log zerolog.Logger, opts ...content.StoreOption) (content.Store, error) {
	policy, err := content.ParseSortPolicy(c.SortBy)
	if err != nil {
		return nil, err
	}
	if c.Mode == "ondemand" {
		return content.NewOnDemandStore(src, policy, log, opts...), nil
	}
	return content.NewSnapshotStore(src, policy, log, opts...), nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStore replaces the store built from the config.
func WithStore(s content.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithLogger sets the logger used by the app and its store.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithViews overrides the default templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithClock overrides the time source used for sitemap fallbacks.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
