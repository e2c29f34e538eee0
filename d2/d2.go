package d2

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/reconquest/docsite/asset"
	"github.com/reconquest/docsite/renderer"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
	"oss.terrastruct.com/util-go/go2"
)

const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

var renderTimeout = 120 * time.Second

// Component resolves <D2 code="..." /> elements, either inlining the SVG or
// attaching a PNG screenshot of it.
type Component struct {
	Format string
	Scale  float64
	Assets asset.Attacher
}

func NewComponent(format string, scale float64, assets asset.Attacher) (*Component, error) {
	switch format {
	case "", FormatSVG:
		format = FormatSVG
	case FormatPNG:
	default:
		return nil, fmt.Errorf("unknown d2 format: %s", format)
	}

	return &Component{
		Format: format,
		Scale:  scale,
		Assets: assets,
	}, nil
}

func (c *Component) Render(w io.Writer, attrs map[string]string) error {
	attribute := renderer.D2.Attribute

	source, err := url.PathUnescape(attrs[attribute])
	if err != nil {
		return karma.Describe("attribute", attribute).Format(
			err,
			"unable to decode d2 diagram",
		)
	}

	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	ctx = d2log.WithDefault(ctx)
	defer cancel()

	svg, err := RenderSVG(ctx, source)
	if err != nil {
		return karma.Format(err, "unable to render d2 diagram")
	}

	if c.Format == FormatSVG {
		_, err = fmt.Fprintf(w, `<div class="d2-diagram">%s</div>`, svg)
		return err
	}

	pngBytes, boxModel, err := convertSVGtoPNG(ctx, svg, c.Scale)
	if err != nil {
		return karma.Format(err, "unable to convert d2 diagram to png")
	}

	attachment, err := asset.New(
		[]byte(source),
		".png",
		pngBytes,
		strconv.FormatInt(boxModel.Width, 10),
		strconv.FormatInt(boxModel.Height, 10),
	)
	if err != nil {
		return err
	}

	link := c.Assets.Attach(attachment)

	_, err = fmt.Fprintf(
		w,
		`<div class="d2-diagram"><img src="%s" width="%s" height="%s" alt="d2 diagram" /></div>`,
		html.EscapeString(link),
		attachment.Width,
		attachment.Height,
	)

	return err
}

// RenderSVG compiles a d2 diagram with the dagre layout.
func RenderSVG(ctx context.Context, d2Diagram string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, err
	}
	layoutResolver := func(engine string) (d2graph.LayoutGraph, error) {
		return d2dagrelayout.DefaultLayout, nil
	}
	renderOpts := &d2svg.RenderOpts{
		Pad:     go2.Pointer(int64(5)),
		ThemeID: &d2themescatalog.GrapeSoda.ID,
	}
	compileOpts := &d2lib.CompileOptions{
		LayoutResolver: layoutResolver,
		Ruler:          ruler,
	}

	diagram, _, err := d2lib.Compile(ctx, d2Diagram, compileOpts, renderOpts)
	if err != nil {
		return nil, err
	}

	log.Debugf(nil, "rendering d2 diagram")

	return d2svg.Render(diagram, renderOpts)
}

func convertSVGtoPNG(ctx context.Context, svg []byte, scale float64) (png []byte, m *dom.BoxModel, err error) {
	var (
		result []byte
		model  *dom.BoxModel
	)
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err = chromedp.Run(ctx,
		chromedp.Navigate(fmt.Sprintf("data:image/svg+xml;base64,%s", base64.StdEncoding.EncodeToString(svg))),
		chromedp.ScreenshotScale(`document.querySelector("svg > svg")`, scale, &result, chromedp.ByJSPath),
		chromedp.Dimensions(`document.querySelector("svg > svg")`, &model, chromedp.ByJSPath),
	)
	if err != nil {
		return nil, nil, err
	}
	return result, model, err
}
