package search

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/reconquest/karma-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const IndexFilename = "search-index.json"

// Document is one page in the local search index.
type Document struct {
	ID       int      `json:"id"`
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Headings []string `json:"headings,omitempty"`
	Text     string   `json:"text"`
}

type Index struct {
	Documents []Document `json:"documents"`
}

// Add extracts headings and plain text from a markdown body. Diagram and
// code fences are skipped.
func (i *Index) Add(path, title string, markdown []byte) {
	root := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var (
		headings []string
		words    []string
	)

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			headings = append(headings, plainText(n, markdown))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			words = append(words, string(n.Segment.Value(markdown)))
		}

		return ast.WalkContinue, nil
	})

	i.Documents = append(i.Documents, Document{
		ID:       len(i.Documents),
		Path:     path,
		Title:    title,
		Headings: headings,
		Text:     strings.Join(strings.Fields(strings.Join(words, " ")), " "),
	})
}

func plainText(node ast.Node, source []byte) string {
	var parts []string

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if text, ok := n.(*ast.Text); ok && entering {
			parts = append(parts, string(text.Segment.Value(source)))
		}

		return ast.WalkContinue, nil
	})

	return strings.Join(parts, "")
}

func (i *Index) Write(path string) error {
	data, err := json.Marshal(i)
	if err != nil {
		return karma.Format(err, "unable to encode search index")
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return karma.Format(err, "unable to write search index %q", path)
	}

	return nil
}
