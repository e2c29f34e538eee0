package renderer

import (
	"strings"

	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// AlertAttribute is set on blockquotes that carry a GitHub alert marker.
const AlertAttribute = "gh-alert-type"

// CustomBlockType is the class of a rendered custom block.
type CustomBlockType int

const (
	Info CustomBlockType = iota
	Tip
	Warning
	Danger
	Details
)

func (t CustomBlockType) String() string {
	return []string{"info", "tip", "warning", "danger", "details"}[t]
}

// ParseCustomBlockType maps GitHub alert and admonition kinds onto the
// custom block classes. Unknown kinds render as info blocks.
func ParseCustomBlockType(kind string) CustomBlockType {
	switch strings.ToLower(kind) {
	case "tip", "hint", "success":
		return Tip
	case "warning", "important", "attention":
		return Warning
	case "caution", "danger", "error", "failure", "bug":
		return Danger
	case "details":
		return Details
	default:
		return Info
	}
}

func writeCustomBlockOpen(w util.BufWriter, class string, title string) {
	_, _ = w.WriteString(`<div class="`)
	_, _ = w.WriteString(class)
	_, _ = w.WriteString(` custom-block"><p class="custom-block-title">`)
	_, _ = w.Write(util.EscapeHTML([]byte(title)))
	_, _ = w.WriteString("</p>\n")
}

// CustomBlockQuoteRenderer renders blockquotes marked by the GitHub alerts
// transformer as custom blocks.
type CustomBlockQuoteRenderer struct {
	html.Config

	fallback renderer.NodeRendererFunc
}

func NewCustomBlockQuoteRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &CustomBlockQuoteRenderer{
		Config:   html.NewConfig(),
		fallback: DefaultFunc(html.NewRenderer(opts...), ast.KindBlockquote),
	}

	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *CustomBlockQuoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindBlockquote, r.renderBlockQuote)
}

func (r *CustomBlockQuoteRenderer) renderBlockQuote(writer util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	value, ok := node.AttributeString(AlertAttribute)
	if !ok {
		return r.fallback(writer, source, node, entering)
	}

	alert, ok := value.([]byte)
	if !ok {
		return r.fallback(writer, source, node, entering)
	}

	if entering {
		class := ParseCustomBlockType(string(alert)).String() + " github-alert"
		writeCustomBlockOpen(writer, class, strings.ToUpper(string(alert)))
	} else {
		_, _ = writer.WriteString("</div>\n")
	}

	return ast.WalkContinue, nil
}

// AdmonitionRenderer renders mkdocs style admonitions as custom blocks.
type AdmonitionRenderer struct {
	html.Config
}

func NewAdmonitionRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &AdmonitionRenderer{
		Config: html.NewConfig(),
	}

	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs.
func (r *AdmonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(admonitions.KindAdmonition, r.renderAdmonition)
}

func (r *AdmonitionRenderer) renderAdmonition(writer util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*admonitions.Admonition)

	if !entering {
		_, _ = writer.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	class := string(n.AdmonitionClass)
	title := string(n.Title)
	if title == "" {
		title = strings.ToUpper(class)
	}

	writeCustomBlockOpen(writer, ParseCustomBlockType(class).String(), title)

	return ast.WalkContinue, nil
}
