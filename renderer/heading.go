package renderer

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// HeadingAnchorRenderer renders headings with a permalink anchor when they
// carry an id.
type HeadingAnchorRenderer struct {
	html.Config
}

func NewHeadingAnchorRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HeadingAnchorRenderer{
		Config: html.NewConfig(),
	}

	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *HeadingAnchorRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (r *HeadingAnchorRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)

	id, hasID := n.AttributeString("id")

	if entering {
		_, _ = w.WriteString("<h")
		_ = w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, node, html.HeadingAttributeFilter)
		}
		if hasID {
			_, _ = w.WriteString(` tabindex="-1"`)
		}
		_ = w.WriteByte('>')

		return ast.WalkContinue, nil
	}

	if hasID {
		_, _ = w.WriteString(` <a class="header-anchor" href="#`)
		_, _ = w.Write(util.EscapeHTML(attributeBytes(id)))
		_, _ = w.WriteString(`" aria-label="Permalink to &quot;`)
		_, _ = w.Write(util.EscapeHTML(headingText(n, source)))
		_, _ = w.WriteString(`&quot;">&#8203;</a>`)
	}

	_, _ = w.WriteString("</h")
	_ = w.WriteByte("0123456"[n.Level])
	_, _ = w.WriteString(">\n")

	return ast.WalkContinue, nil
}

func attributeBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

func headingText(node ast.Node, source []byte) []byte {
	var text []byte

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			text = append(text, n.Segment.Value(source)...)
			if n.SoftLineBreak() {
				text = append(text, ' ')
			}
		case *ast.String:
			text = append(text, n.Value...)
		}

		return ast.WalkContinue, nil
	})

	return text
}
