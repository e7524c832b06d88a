package pagepress

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/cespare/xxhash/v2"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// The component is rendered into memory first so a failing template never
// leaves a half-written response.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return writeBody(c, code, echo.MIMETextHTMLCharsetUTF8, buf.Bytes())
}

// writeBody sends body with an ETag on successful responses and answers a
// matching If-None-Match with 304.
func writeBody(c echo.Context, code int, contentType string, body []byte) error {
	if code == http.StatusOK {
		etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
		c.Response().Header().Set("ETag", etag)
		if c.Request().Header.Get("If-None-Match") == etag {
			return c.NoContent(http.StatusNotModified)
		}
	}
	return c.Blob(code, contentType, body)
}
