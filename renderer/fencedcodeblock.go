package renderer

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Diagram maps a fence info string to the custom element that replaces the
// code block. The element carries the percent-encoded block content in a
// single attribute.
type Diagram struct {
	Tag       string
	Element   string
	Attribute string
}

var (
	Mermaid = Diagram{Tag: "mermaid", Element: "Mermaid", Attribute: "graph"}
	D2      = Diagram{Tag: "d2", Element: "D2", Attribute: "code"}
)

// DiagramFencedCodeBlockRenderer replaces diagram fences with custom
// elements and hands every other fence to the default renderer untouched.
type DiagramFencedCodeBlockRenderer struct {
	html.Config
	Diagrams map[string]Diagram

	fallback renderer.NodeRendererFunc
}

// NewDiagramFencedCodeBlockRenderer wraps the fenced code block func of
// fallback, which is usually the syntax highlighting renderer.
func NewDiagramFencedCodeBlockRenderer(fallback renderer.NodeRenderer, diagrams ...Diagram) renderer.NodeRenderer {
	r := &DiagramFencedCodeBlockRenderer{
		Config:   html.NewConfig(),
		Diagrams: map[string]Diagram{},
		fallback: DefaultFunc(fallback, ast.KindFencedCodeBlock),
	}

	for _, diagram := range diagrams {
		r.Diagrams[diagram.Tag] = diagram
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *DiagramFencedCodeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *DiagramFencedCodeBlockRenderer) renderFencedCodeBlock(writer util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	var info []byte
	nodeFencedCodeBlock := node.(*ast.FencedCodeBlock)
	if nodeFencedCodeBlock.Info != nil {
		segment := nodeFencedCodeBlock.Info.Segment
		info = segment.Value(source)
	}

	diagram, ok := r.Diagrams[string(info)]
	if !ok {
		return r.fallback(writer, source, node, entering)
	}

	if !entering {
		return ast.WalkContinue, nil
	}

	var lval []byte

	lines := node.Lines().Len()
	for i := 0; i < lines; i++ {
		line := node.Lines().At(i)
		lval = append(lval, line.Value(source)...)
	}

	_, _ = writer.WriteString(diagram.Render(string(lval)))

	return ast.WalkContinue, nil
}

// Render returns the self-closing element for the given diagram source.
func (d Diagram) Render(source string) string {
	return "<" + d.Element + " " + d.Attribute + `="` +
		EncodeURIComponent(strings.TrimSpace(source)) + `" />` + "\n"
}

// EncodeURIComponent percent-encodes s so that decodeURIComponent (or
// url.PathUnescape) returns it unchanged. Quotes, angle brackets and
// newlines are always encoded, so the result is safe in an attribute.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type registeredFuncs map[ast.NodeKind]renderer.NodeRendererFunc

func (f registeredFuncs) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	f[kind] = fn
}

// DefaultFunc returns the func that r registers for kind, or a no-op when r
// does not handle kind.
func DefaultFunc(r renderer.NodeRenderer, kind ast.NodeKind) renderer.NodeRendererFunc {
	funcs := registeredFuncs{}
	r.RegisterFuncs(funcs)

	fn, ok := funcs[kind]
	if !ok {
		return func(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
			return ast.WalkContinue, nil
		}
	}

	return fn
}
