package markdown

import (
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// CodeFormatter writes a code block. lang is empty when the fence carries no
// info string.
type CodeFormatter interface {
	FormatCode(w io.Writer, lang, code string) error
}

// CodeFormatterFunc adapts a function to CodeFormatter.
type CodeFormatterFunc func(w io.Writer, lang, code string) error

func (f CodeFormatterFunc) FormatCode(w io.Writer, lang, code string) error {
	return f(w, lang, code)
}

// PlainCode writes code verbatim, without highlighting, as
// <pre class="not-prose" lang="go"><code class="language-go">.
type PlainCode struct{}

func (PlainCode) FormatCode(w io.Writer, lang, code string) error {
	var b strings.Builder
	if lang != "" {
		l := html.EscapeString(lang)
		b.WriteString(`<pre class="not-prose" lang="` + l + `"><code class="language-` + l + `">`)
	} else {
		b.WriteString(`<pre class="not-prose"><code>`)
	}
	b.WriteString(html.EscapeString(code))
	b.WriteString("</code></pre>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// codeBlockRenderer replaces goldmark's default code block output with the
// configured CodeFormatter.
type codeBlockRenderer struct {
	format CodeFormatter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(source))
	}
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}
	if err := r.format.FormatCode(w, lang, code.String()); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}
