package metadata

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/reconquest/karma-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	LayoutDoc  = "doc"
	LayoutHome = "home"
	LayoutPage = "page"
)

type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Layout      string `yaml:"layout"`
	LastUpdated *bool  `yaml:"lastUpdated"`
	Sidebar     *bool  `yaml:"sidebar"`
}

// ShowLastUpdated reports whether the page footer carries a timestamp.
func (m *Meta) ShowLastUpdated() bool {
	return m.LastUpdated == nil || *m.LastUpdated
}

func (m *Meta) ShowSidebar() bool {
	if m.Sidebar != nil {
		return *m.Sidebar
	}

	return m.Layout != LayoutHome
}

// ExtractMeta splits YAML frontmatter from the markdown body. Pages without a
// title get the leading H1, then a title derived from the filename.
func ExtractMeta(data []byte, filename string) (*Meta, []byte, error) {
	meta := &Meta{}

	body, err := frontmatter.Parse(bytes.NewReader(data), meta)
	if err != nil {
		return nil, nil, karma.Format(err, "unable to parse frontmatter of %q", filename)
	}

	if meta.Layout == "" {
		meta.Layout = LayoutDoc
	}

	meta.Title = strings.TrimSpace(meta.Title)

	if meta.Title == "" {
		meta.Title = ExtractDocumentLeadingH1(body)
	}

	if meta.Title == "" && filename != "" {
		setTitleFromFilename(meta, filename)
	}

	return meta, body, nil
}

func setTitleFromFilename(meta *Meta, filename string) {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")
	meta.Title = cases.Title(language.English).String(title)
}

// ExtractDocumentLeadingH1 returns the text of the H1 that opens the
// document. Only HTML blocks such as comments may precede it.
func ExtractDocumentLeadingH1(markdown []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(markdown))

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.HTMLBlock:
			continue
		case *ast.Heading:
			if n.Level != 1 {
				return ""
			}

			return strings.TrimSpace(headingText(n, markdown))
		default:
			return ""
		}
	}

	return ""
}

func headingText(node ast.Node, source []byte) string {
	var buffer bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			buffer.Write(n.Segment.Value(source))
		case *ast.String:
			buffer.Write(n.Value)
		}

		return ast.WalkContinue, nil
	})

	return buffer.String()
}
