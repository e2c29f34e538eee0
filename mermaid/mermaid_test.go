package mermaid

import (
	"bytes"
	"errors"
	"testing"

	"github.com/reconquest/docsite/asset"
	"github.com/reconquest/docsite/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComponent(t *testing.T) {
	c, err := NewComponent("", 1.0, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderClient, c.Provider)

	c, err = NewComponent(ProviderMermaidGo, 2.0, asset.NewStore(""))
	require.NoError(t, err)
	assert.Equal(t, ProviderMermaidGo, c.Provider)

	_, err = NewComponent("cloudscript", 1.0, nil)
	assert.EqualError(t, err, "unknown mermaid provider: cloudscript")
}

func TestSourceRoundTrip(t *testing.T) {
	for _, source := range []string{
		"",
		"graph TD;\nA-->B;",
		"A[\"<b>bold</b>\"] --> B & C",
		"100% + 50%",
	} {
		element := renderer.Mermaid.Render(source)

		attrs := map[string]string{
			"graph": element[len(`<Mermaid graph="`) : len(element)-len("\" />\n")],
		}

		decoded, err := Source(attrs)
		require.NoError(t, err)
		assert.Equal(t, source, decoded)
	}
}

func TestSourceInvalidEncoding(t *testing.T) {
	_, err := Source(map[string]string{"graph": "%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode mermaid diagram")
}

func TestClientRender(t *testing.T) {
	c, err := NewComponent(ProviderClient, 1.0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = c.Render(&buf, map[string]string{"graph": "graph%20TD%3B%0AA--%3EB%3B"})
	require.NoError(t, err)

	assert.Equal(t,
		`<div class="mermaid-diagram"><pre class="mermaid">graph TD;`+"\n"+`A--&gt;B;</pre></div>`,
		buf.String(),
	)
	assert.Equal(t, ClientScript, c.Head())
}

func TestLocalRender(t *testing.T) {
	store := asset.NewStore("")

	c, err := NewComponent(ProviderMermaidGo, 1.5, store)
	require.NoError(t, err)

	var gotScale float64
	c.render = func(source []byte, scale float64) (asset.Asset, error) {
		gotScale = scale
		return asset.New(source, ".png", []byte{0x89, 0x50, 0x4e, 0x47}, "120", "80")
	}

	var buf bytes.Buffer
	err = c.Render(&buf, map[string]string{"graph": "graph%20LR"})
	require.NoError(t, err)

	require.Len(t, store.Assets, 1)
	filename := store.Assets[0].Filename

	assert.Equal(t, 1.5, gotScale)
	assert.Equal(t,
		`<div class="mermaid-diagram"><img src="/assets/diagrams/`+filename+
			`" width="120" height="80" alt="mermaid diagram" /></div>`,
		buf.String(),
	)
	assert.Empty(t, c.Head())
}

func TestLocalRenderError(t *testing.T) {
	c, err := NewComponent(ProviderMermaidGo, 1.0, asset.NewStore(""))
	require.NoError(t, err)

	c.render = func([]byte, float64) (asset.Asset, error) {
		return asset.Asset{}, errors.New("chrome not found")
	}

	var buf bytes.Buffer
	err = c.Render(&buf, map[string]string{"graph": "graph%20LR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
	assert.Empty(t, buf.String())
}
