package markdown

import (
	"bytes"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/reconquest/docsite/renderer"
	"github.com/reconquest/docsite/transformer"
	"github.com/reconquest/docsite/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldrenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const (
	FeatureD2          = "d2"
	FeatureAdmonitions = "admonitions"
	FeatureAlerts      = "alerts"

	// HighlightNone disables syntax highlighting of code blocks.
	HighlightNone = "none"
)

// DocsiteExtension hooks the diagram fence interceptor and custom blocks
// into goldmark.
type DocsiteExtension struct {
	RenderConfig types.RenderConfig
}

func NewDocsiteExtension(cfg types.RenderConfig) *DocsiteExtension {
	return &DocsiteExtension{
		RenderConfig: cfg,
	}
}

// CodeBlockRenderer returns the renderer used for fences that are not
// diagrams.
func CodeBlockRenderer(cfg types.RenderConfig) goldrenderer.NodeRenderer {
	if cfg.HighlightStyle == HighlightNone {
		return html.NewRenderer()
	}

	return highlighting.NewHTMLRenderer(HighlightingOptions(cfg)...)
}

func HighlightingOptions(cfg types.RenderConfig) []highlighting.Option {
	style := cfg.HighlightStyle
	if style == "" {
		style = "github"
	}

	return []highlighting.Option{
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
		),
	}
}

// Diagrams lists the fence tags rewritten into custom elements.
func Diagrams(cfg types.RenderConfig) []renderer.Diagram {
	diagrams := []renderer.Diagram{renderer.Mermaid}

	if slices.Contains(cfg.Features, FeatureD2) {
		diagrams = append(diagrams, renderer.D2)
	}

	return diagrams
}

func (e *DocsiteExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(goldrenderer.WithNodeRenderers(
		util.Prioritized(
			renderer.NewDiagramFencedCodeBlockRenderer(
				CodeBlockRenderer(e.RenderConfig),
				Diagrams(e.RenderConfig)...,
			),
			100,
		),
		util.Prioritized(renderer.NewHeadingAnchorRenderer(), 100),
	))

	if slices.Contains(e.RenderConfig.Features, FeatureAlerts) {
		m.Parser().AddOptions(parser.WithASTTransformers(
			util.Prioritized(transformer.NewGHAlertsTransformer(), 100),
		))

		m.Renderer().AddOptions(goldrenderer.WithNodeRenderers(
			util.Prioritized(renderer.NewCustomBlockQuoteRenderer(), 100),
		))
	}

	if slices.Contains(e.RenderConfig.Features, FeatureAdmonitions) {
		m.Parser().AddOptions(
			parser.WithBlockParsers(
				util.Prioritized(admonitions.NewAdmonitionParser(), 100),
			),
		)

		m.Renderer().AddOptions(goldrenderer.WithNodeRenderers(
			util.Prioritized(renderer.NewAdmonitionRenderer(), 100),
		))
	}
}

// New returns the goldmark converter used for every page.
func New(cfg types.RenderConfig) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Footnote,
			extension.DefinitionList,
			extension.GFM,
			NewDocsiteExtension(cfg),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			html.WithXHTML(),
		))
}

func CompileMarkdown(markdown []byte, path string, cfg types.RenderConfig) (string, error) {
	log.Tracef(nil, "rendering markdown:\n%s", string(markdown))

	var buf bytes.Buffer
	err := New(cfg).Convert(markdown, &buf)
	if err != nil {
		return "", karma.Format(err, "unable to render markdown %q", path)
	}

	html := buf.String()

	log.Tracef(nil, "rendered markdown to html:\n%s", html)

	return html, nil
}
