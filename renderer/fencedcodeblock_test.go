package renderer

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var reGraphAttribute = regexp.MustCompile(`<Mermaid graph="([^"]*)" />`)

func newDiagramMarkdown(diagrams ...Diagram) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(NewDiagramFencedCodeBlockRenderer(html.NewRenderer(), diagrams...), 100),
			),
		),
	)
}

func convert(t *testing.T, md goldmark.Markdown, source string) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(source), &buf))

	return buf.String()
}

func decodeGraph(t *testing.T, output string) string {
	t.Helper()

	groups := reGraphAttribute.FindStringSubmatch(output)
	require.Len(t, groups, 2, output)

	decoded, err := url.PathUnescape(groups[1])
	require.NoError(t, err)

	return decoded
}

func TestMermaidFence(t *testing.T) {
	md := newDiagramMarkdown(Mermaid)

	t.Run("exact output", func(t *testing.T) {
		output := convert(t, md, "```mermaid\ngraph TD;\nA-->B;\n```\n")
		assert.Equal(t, `<Mermaid graph="graph%20TD%3B%0AA--%3EB%3B" />`+"\n", output)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		output := convert(t, md, "```mermaid\n\n   graph TD;\nA-->B;   \n\n```\n")
		assert.Equal(t, "graph TD;\nA-->B;", decodeGraph(t, output))
	})

	t.Run("empty block", func(t *testing.T) {
		output := convert(t, md, "```mermaid\n```\n")
		assert.Equal(t, `<Mermaid graph="" />`+"\n", output)
	})

	t.Run("attribute unsafe characters", func(t *testing.T) {
		source := "A[\"quoted\"] --> B<br>C & 'D'\n%20 + done"
		output := convert(t, md, "```mermaid\n"+source+"\n```\n")

		groups := reGraphAttribute.FindStringSubmatch(output)
		require.Len(t, groups, 2, output)

		encoded := groups[1]
		for _, forbidden := range []string{`"`, "<", ">", "\n"} {
			assert.NotContains(t, encoded, forbidden)
		}

		assert.Equal(t, source, decodeGraph(t, output))
	})

	t.Run("repeated rendering is stable", func(t *testing.T) {
		source := "```mermaid\nsequenceDiagram\nA->>B: hi\n```\n"
		assert.Equal(t, convert(t, md, source), convert(t, md, source))
	})
}

func TestNonDiagramFencesPassThrough(t *testing.T) {
	md := newDiagramMarkdown(Mermaid)
	reference := goldmark.New()

	tests := map[string]string{
		"no info":        "```\ngraph TD;\n```\n",
		"js":             "```js\nconsole.log(\"<b>\")\n```\n",
		"uppercase":      "```MERMAID\ngraph TD;\n```\n",
		"title suffix":   "```mermaid title\ngraph TD;\n```\n",
		"python":         "```python\nprint(1)\n```\n",
		"tilde fence":    "~~~ruby\nputs 1\n~~~\n",
		"d2 not enabled": "```d2\na -> b\n```\n",
	}

	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, convert(t, reference, source), convert(t, md, source))
		})
	}
}

func TestD2Fence(t *testing.T) {
	md := newDiagramMarkdown(Mermaid, D2)

	output := convert(t, md, "```d2\na -> b\n```\n")
	assert.Equal(t, `<D2 code="a%20-%3E%20b" />`+"\n", output)
}

func TestMermaidFenceConcurrent(t *testing.T) {
	shared := NewDiagramFencedCodeBlockRenderer(html.NewRenderer(), Mermaid)

	var wg sync.WaitGroup
	outputs := make([]string, 16)

	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			md := goldmark.New(
				goldmark.WithRendererOptions(
					renderer.WithNodeRenderers(util.Prioritized(shared, 100)),
				),
			)

			var buf bytes.Buffer
			source := "```mermaid\ngraph LR;\nA-->B" + strings.Repeat("-->C", i) + "\n```\n"
			if err := md.Convert([]byte(source), &buf); err == nil {
				outputs[i] = buf.String()
			}
		}(i)
	}

	wg.Wait()

	for i, output := range outputs {
		assert.Equal(t, "graph LR;\nA-->B"+strings.Repeat("-->C", i), decodeGraph(t, output))
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"empty":    {"", ""},
		"plain":    {"abc-_.~", "abc-_.~"},
		"space":    {"a b", "a%20b"},
		"plus":     {"a+b", "a%2Bb"},
		"quotes":   {`"'`, "%22%27"},
		"brackets": {"<>", "%3C%3E"},
		"newline":  {"a\nb", "a%0Ab"},
		"percent":  {"100%", "100%25"},
		"unicode":  {"é", "%C3%A9"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			encoded := EncodeURIComponent(tt.input)
			assert.Equal(t, tt.want, encoded)

			decoded, err := url.PathUnescape(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestParseCustomBlockType(t *testing.T) {
	assert.Equal(t, Info, ParseCustomBlockType("note"))
	assert.Equal(t, Tip, ParseCustomBlockType("TIP"))
	assert.Equal(t, Warning, ParseCustomBlockType("important"))
	assert.Equal(t, Danger, ParseCustomBlockType("caution"))
	assert.Equal(t, Details, ParseCustomBlockType("details"))
	assert.Equal(t, Info, ParseCustomBlockType("whatever"))
	assert.Equal(t, "danger", Danger.String())
}
