// Package markdown renders markdown bodies to HTML with goldmark and exposes
// the result as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer converts a markdown body into HTML.
type Renderer interface {
	Render(ctx context.Context, body string) (string, error)
}

// Goldmark is a Renderer backed by a single goldmark instance. It holds no
// per-call state and is safe for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

type options struct {
	code      CodeFormatter
	hardWraps bool
}

// Option configures the Goldmark renderer.
type Option func(*options)

// WithCodeFormatter sets the policy used to write code blocks.
func WithCodeFormatter(f CodeFormatter) Option {
	return func(o *options) {
		o.code = f
	}
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps() Option {
	return func(o *options) {
		o.hardWraps = true
	}
}

// New builds a Goldmark renderer with GFM and heading IDs enabled.
func New(opts ...Option) *Goldmark {
	o := options{code: PlainCode{}}
	for _, opt := range opts {
		opt(&o)
	}

	rendererOptions := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{format: o.code}, 100)),
	}
	if o.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Render converts body to HTML.
func (g *Goldmark) Render(ctx context.Context, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// Component returns a templ.Component that writes already rendered HTML.
func Component(rendered string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}
