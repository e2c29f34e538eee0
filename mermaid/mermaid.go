package mermaid

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"time"

	mermaid "github.com/dreampuf/mermaid.go"
	"github.com/reconquest/docsite/asset"
	"github.com/reconquest/docsite/renderer"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

const (
	ProviderClient    = "client"
	ProviderMermaidGo = "mermaid-go"

	ClientScript = `<script type="module">` +
		`import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";` +
		`mermaid.initialize({ startOnLoad: true });` +
		`</script>`
)

var renderTimeout = 90 * time.Second

// RenderFunc renders a diagram to PNG.
type RenderFunc func(source []byte, scale float64) (asset.Asset, error)

// Component resolves <Mermaid graph="..." /> elements.
type Component struct {
	Provider string
	Scale    float64
	Assets   asset.Attacher

	render RenderFunc
}

func NewComponent(provider string, scale float64, assets asset.Attacher) (*Component, error) {
	switch provider {
	case "", ProviderClient:
		provider = ProviderClient
	case ProviderMermaidGo:
	default:
		return nil, fmt.Errorf("unknown mermaid provider: %s", provider)
	}

	return &Component{
		Provider: provider,
		Scale:    scale,
		Assets:   assets,
		render:   ProcessMermaidLocally,
	}, nil
}

// Source decodes the diagram source carried by the element.
func Source(attrs map[string]string) (string, error) {
	attribute := renderer.Mermaid.Attribute

	source, err := url.PathUnescape(attrs[attribute])
	if err != nil {
		return "", karma.Describe("attribute", attribute).Format(
			err,
			"unable to decode mermaid diagram",
		)
	}

	return source, nil
}

func (c *Component) Render(w io.Writer, attrs map[string]string) error {
	source, err := Source(attrs)
	if err != nil {
		return err
	}

	if c.Provider == ProviderMermaidGo {
		return c.renderLocally(w, source)
	}

	_, err = fmt.Fprintf(
		w,
		`<div class="mermaid-diagram"><pre class="mermaid">%s</pre></div>`,
		html.EscapeString(source),
	)

	return err
}

func (c *Component) renderLocally(w io.Writer, source string) error {
	attachment, err := c.render([]byte(source), c.Scale)
	if err != nil {
		return karma.Format(err, "unable to render mermaid diagram")
	}

	link := c.Assets.Attach(attachment)

	_, err = fmt.Fprintf(
		w,
		`<div class="mermaid-diagram"><img src="%s" width="%s" height="%s" alt="mermaid diagram" /></div>`,
		html.EscapeString(link),
		attachment.Width,
		attachment.Height,
	)

	return err
}

// Head loads mermaid in the browser when diagrams are rendered client side.
func (c *Component) Head() string {
	if c.Provider != ProviderClient {
		return ""
	}

	return ClientScript
}

func ProcessMermaidLocally(mermaidDiagram []byte, scale float64) (asset.Asset, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	defer cancel()

	log.Debugf(nil, "setting up mermaid renderer")
	engine, err := mermaid.NewRenderEngine(ctx)
	if err != nil {
		return asset.Asset{}, err
	}

	pngBytes, boxModel, err := engine.RenderAsScaledPng(string(mermaidDiagram), scale)
	if err != nil {
		return asset.Asset{}, err
	}

	attachment, err := asset.New(
		mermaidDiagram,
		".png",
		pngBytes,
		strconv.FormatInt(boxModel.Width, 10),
		strconv.FormatInt(boxModel.Height, 10),
	)
	if err != nil {
		return asset.Asset{}, err
	}

	log.Debugf(nil, "rendered mermaid diagram: %s", attachment.Filename)

	return attachment, nil
}
