package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMeta(t *testing.T) {
	t.Run("frontmatter", func(t *testing.T) {
		data := []byte("---\ntitle: Getting Started\ndescription: First steps\nlastUpdated: false\n---\n# Heading\n\nbody\n")

		meta, body, err := ExtractMeta(data, "guide/getting-started.md")
		require.NoError(t, err)

		assert.Equal(t, "Getting Started", meta.Title)
		assert.Equal(t, "First steps", meta.Description)
		assert.Equal(t, LayoutDoc, meta.Layout)
		assert.False(t, meta.ShowLastUpdated())
		assert.True(t, meta.ShowSidebar())
		assert.Contains(t, string(body), "# Heading")
		assert.NotContains(t, string(body), "title:")
	})

	t.Run("title from leading h1", func(t *testing.T) {
		meta, body, err := ExtractMeta([]byte("<!-- draft -->\n\n# Rendering Pipeline  \n\ntext\n"), "rendering.md")
		require.NoError(t, err)

		assert.Equal(t, "Rendering Pipeline", meta.Title)
		assert.True(t, meta.ShowLastUpdated())
		assert.Equal(t, "<!-- draft -->\n\n# Rendering Pipeline  \n\ntext\n", string(body))
	})

	t.Run("comment in code block is not a title", func(t *testing.T) {
		data := []byte("Intro text.\n\n```bash\n# install the tool\nmake install\n```\n")

		meta, _, err := ExtractMeta(data, "guide/setup-notes.md")
		require.NoError(t, err)

		assert.Equal(t, "Setup Notes", meta.Title)
	})

	t.Run("h1 after content is not a title", func(t *testing.T) {
		meta, _, err := ExtractMeta([]byte("Intro text.\n\n# Appendix\n"), "reference.md")
		require.NoError(t, err)

		assert.Equal(t, "Reference", meta.Title)
	})

	t.Run("title from filename", func(t *testing.T) {
		meta, _, err := ExtractMeta([]byte("no headings here\n"), "/docs/writing_pages-guide.md")
		require.NoError(t, err)

		assert.Equal(t, "Writing Pages Guide", meta.Title)
	})

	t.Run("home layout hides sidebar", func(t *testing.T) {
		meta, _, err := ExtractMeta([]byte("---\nlayout: home\n---\n"), "index.md")
		require.NoError(t, err)

		assert.Equal(t, LayoutHome, meta.Layout)
		assert.False(t, meta.ShowSidebar())
	})

	t.Run("explicit sidebar", func(t *testing.T) {
		meta, _, err := ExtractMeta([]byte("---\nlayout: home\nsidebar: true\n---\n"), "index.md")
		require.NoError(t, err)

		assert.True(t, meta.ShowSidebar())
	})

	t.Run("broken frontmatter", func(t *testing.T) {
		_, _, err := ExtractMeta([]byte("---\ntitle: [unterminated\n---\n"), "broken.md")
		assert.Error(t, err)
	})
}

func TestExtractDocumentLeadingH1(t *testing.T) {
	tests := map[string]string{
		"# a\n":                   "a",
		"# The `docsite` CLI\n":   "The docsite CLI",
		"Title\n=====\n":          "Title",
		"<!-- note -->\n# b\n":    "b",
		"## sub\n# b\n":           "",
		"#hashtag\n":              "",
		"text\n":                  "",
		"```sh\n# comment\n```\n": "",
		"    # indented code\n":   "",
		"> # quoted\n":            "",
		"":                        "",
	}

	for markdown, want := range tests {
		t.Run(markdown, func(t *testing.T) {
			assert.Equal(t, want, ExtractDocumentLeadingH1([]byte(markdown)))
		})
	}
}

func TestSetTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"/path/to/test.md":                       "Test",
		"/path/to/test_with_underscores.md":      "Test With Underscores",
		"/path/to/test-with-dashes.md":           "Test With Dashes",
		"/path/to/test_with-mixed_separators.md": "Test With Mixed Separators",
		"/path/to/Already-Title-Cased.md":        "Already Title Cased",
	}

	for filename, want := range tests {
		t.Run(filename, func(t *testing.T) {
			meta := &Meta{}
			setTitleFromFilename(meta, filename)
			assert.Equal(t, want, meta.Title)
		})
	}
}
