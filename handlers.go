package pagepress

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/pagepress/content"
)

func (a *App) handleHome(c echo.Context) error {
	data, err := a.Site.Home(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.Config.views(), data))
}

func (a *App) handlePost(c echo.Context) error {
	data, err := a.Site.Page(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(a.Config.views(), data))
}

func handlePostRedirect(c echo.Context) error {
	return c.Redirect(http.StatusPermanentRedirect, "/post/"+url.PathEscape(c.Param("slug")))
}

func (a *App) handleSitemap(c echo.Context) error {
	doc, err := a.Site.Sitemap(c.Request().Context())
	if err != nil {
		return err
	}
	return writeBody(c, http.StatusOK, "application/xml; charset=utf-8", doc)
}

func (a *App) handleFeed(c echo.Context) error {
	doc, err := a.Site.Feed(c.Request().Context())
	if err != nil {
		return err
	}
	return writeBody(c, http.StatusOK, "application/rss+xml; charset=utf-8", doc)
}

func handleHealthcheck(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	cfg := a.Config.views()
	if content.IsNotFound(err) {
		a.log.Debug().Err(err).Str("uri", c.Request().RequestURI).Msg("not found")
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(cfg))
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(cfg))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		logFailure(a.log.Error(), err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(cfg))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// logFailure attaches the failure kind and offending locator to ev.
func logFailure(ev *zerolog.Event, err error) *zerolog.Event {
	var (
		ve *content.ValidationError
		ie *content.IOError
		re *content.RenderError
	)
	switch {
	case errors.As(err, &ve):
		ev = ev.Str("kind", "validation").Str("locator", ve.Locator).Str("field", ve.Field)
	case errors.As(err, &ie):
		ev = ev.Str("kind", "io").Str("locator", ie.Locator)
	case errors.As(err, &re):
		ev = ev.Str("kind", "render").Str("locator", re.Locator)
	}
	return ev.Err(err)
}
