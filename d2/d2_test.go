package d2

import (
	"bytes"
	"context"
	"testing"

	d2log "oss.terrastruct.com/d2/lib/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var diagram = `
user: {
  shape: person
}

user -> api server: request
api server -> storage: persist
storage: {shape: cylinder}
`

func TestNewComponent(t *testing.T) {
	c, err := NewComponent("", 1.0, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, c.Format)

	c, err = NewComponent(FormatPNG, 1.0, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, c.Format)

	_, err = NewComponent("gif", 1.0, nil)
	assert.EqualError(t, err, "unknown d2 format: gif")
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(d2log.WithDefault(context.Background()), diagram)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestRenderInline(t *testing.T) {
	c, err := NewComponent(FormatSVG, 1.0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = c.Render(&buf, map[string]string{"code": "a%20-%3E%20b"})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(`<div class="d2-diagram"><?xml`)) ||
		bytes.HasPrefix(buf.Bytes(), []byte(`<div class="d2-diagram"><svg`)), buf.String())
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("</div>")))
}

func TestRenderInvalid(t *testing.T) {
	c, err := NewComponent(FormatSVG, 1.0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer

	err = c.Render(&buf, map[string]string{"code": "%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode d2 diagram")

	err = c.Render(&buf, map[string]string{"code": "a -> {"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to render d2 diagram")
}
