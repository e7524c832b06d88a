// Package pagepress is a personal publishing engine built with Go, Echo, and
// templ. It turns a directory (or SQLite table) of markdown files carrying a
// frontmatter block into a home page, one page per item, a sitemap, and a feed.
//
// The publication index is built once at startup and replaced only by an
// explicit rebuild (SIGHUP or App.Rebuild); readers always see one complete
// snapshot.
package pagepress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/pagepress/content"
	"github.com/eringen/pagepress/markdown"
	"github.com/eringen/pagepress/views"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. Nil fields fall back to the components in the views package.
type ViewFuncs struct {
	Home        func(cfg views.SiteConfig, data views.HomeData) templ.Component
	Page        func(cfg views.SiteConfig, data views.PageData) templ.Component
	NotFound    func(cfg views.SiteConfig) templ.Component
	ServerError func(cfg views.SiteConfig) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.Home
	}
	if v.Page == nil {
		v.Page = views.Page
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = views.ServerError
	}
}

// App wires together the content store, view derivation, handlers and
// middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   content.Store
	Site    *Site
	Views   ViewFuncs
	Metrics *Metrics

	log          zerolog.Logger
	now          func() time.Time
	customRoutes []func(*App)
	closers      []func() error
}

// New creates an App. The store is created empty; Start (or Rebuild) must
// populate it before requests are served.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Views.setDefaults()
	a.Metrics = NewMetrics()

	if a.Store == nil {
		src, closeSource, err := cfg.OpenSource()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closeSource)
		store, err := cfg.NewStore(src, a.log, content.WithObserver(a.Metrics))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
	}

	renderer, err := markdown.NewCached(markdown.New(), cfg.RenderCacheSize)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("pagepress: render cache: %w", err)
	}
	a.Site = NewSite(a.Store, renderer, cfg, a.log)
	a.Site.now = a.now

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/assets", a.Config.StaticDir)
	e.Static("/images", a.Config.StaticDir+"/images")

	e.GET("/healthcheck", handleHealthcheck)
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/post/:slug", a.handlePost)
	e.GET("/post/:slug/", handlePostRedirect)
}

// Rebuild refreshes the store's index. A failure leaves the previous index in
// place.
func (a *App) Rebuild(ctx context.Context) (int, error) {
	n, err := a.Store.Rebuild(ctx)
	if err != nil {
		logFailure(a.log.Error(), err).Int("serving", n).Msg("rebuild failed")
		return n, err
	}
	return n, nil
}

// Start performs the mandatory initial rebuild and serves until ctx is done.
// SIGHUP triggers a rebuild while serving.
func (a *App) Start(ctx context.Context) error {
	n, err := a.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("pagepress: initial rebuild: %w", err)
	}
	a.log.Info().Int("items", n).Str("addr", a.Config.Addr).Msg("serving")

	errCh := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return a.shutdown()
		case err := <-errCh:
			return err
		case <-hup:
			a.log.Info().Msg("SIGHUP received, rebuilding")
			_, _ = a.Rebuild(ctx)
		}
	}
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	a.log.Info().Msg("shutting down")
	return a.Echo.Shutdown(ctx)
}

// Close releases the backing source. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
