package transformer

import (
	"strings"

	"github.com/reconquest/docsite/renderer"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// GHAlertsTransformer marks blockquotes that start with GitHub alert syntax
// ([!NOTE], [!TIP], ...) and strips the marker from their first paragraph.
type GHAlertsTransformer struct{}

func NewGHAlertsTransformer() *GHAlertsTransformer {
	return &GHAlertsTransformer{}
}

// Transform implements the parser.ASTTransformer interface
func (t *GHAlertsTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var quotes []*ast.Blockquote

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if blockquote, ok := node.(*ast.Blockquote); ok {
			quotes = append(quotes, blockquote)
		}

		return ast.WalkContinue, nil
	})

	// modifying the tree while walking it skips siblings
	for _, blockquote := range quotes {
		alertType := t.extractAlertType(blockquote, reader.Source())
		if alertType == "" {
			continue
		}

		t.transformBlockquote(blockquote, alertType)
	}
}

// extractAlertType returns the lowercased alert type or an empty string.
// goldmark splits "[!NOTE]" into the three text nodes "[", "!NOTE" and "]".
func (t *GHAlertsTransformer) extractAlertType(blockquote *ast.Blockquote, source []byte) string {
	paragraph := blockquote.FirstChild()
	if paragraph == nil || paragraph.Kind() != ast.KindParagraph {
		return ""
	}

	nodes := markerNodes(paragraph)
	if len(nodes) < 3 {
		return ""
	}

	left := string(nodes[0].Segment.Value(source))
	middle := string(nodes[1].Segment.Value(source))
	right := string(nodes[2].Segment.Value(source))

	if left != "[" || right != "]" || !strings.HasPrefix(middle, "!") {
		return ""
	}

	alertType := strings.ToLower(strings.TrimPrefix(middle, "!"))

	switch alertType {
	case "note", "tip", "important", "warning", "caution":
		return alertType
	}

	return ""
}

func (t *GHAlertsTransformer) transformBlockquote(blockquote *ast.Blockquote, alertType string) {
	blockquote.SetAttributeString(renderer.AlertAttribute, []byte(alertType))

	paragraph := blockquote.FirstChild()
	for _, node := range markerNodes(paragraph) {
		paragraph.RemoveChild(paragraph, node)
	}

	if paragraph.ChildCount() == 0 {
		blockquote.RemoveChild(blockquote, paragraph)
	}
}

func markerNodes(paragraph ast.Node) []*ast.Text {
	var nodes []*ast.Text

	current := paragraph.FirstChild()
	for i := 0; i < 3 && current != nil; i++ {
		text, ok := current.(*ast.Text)
		if !ok {
			break
		}

		nodes = append(nodes, text)
		current = current.NextSibling()
	}

	return nodes
}
