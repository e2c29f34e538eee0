package theme

import (
	"bytes"
	"io"
	"strings"

	"github.com/reconquest/karma-go"
	"golang.org/x/net/html"
)

type Resolution struct {
	HTML string

	// Used lists registered names of components found on the page, in order
	// of first appearance.
	Used []string

	// Head holds the head markup contributed by used components.
	Head []string
}

// Resolve replaces every registered custom element in page with the output
// of its component. Unregistered markup is copied byte for byte.
func (r *Registry) Resolve(page string) (Resolution, error) {
	var (
		out        bytes.Buffer
		resolution Resolution
		seen       = map[string]bool{}
	)

	tokenizer := html.NewTokenizer(strings.NewReader(page))

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				resolution.HTML = out.String()
				return resolution, nil
			}

			return Resolution{}, karma.Format(tokenizer.Err(), "unable to tokenize page")

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := append([]byte(nil), tokenizer.Raw()...)

			name, hasAttr := tokenizer.TagName()
			key := string(name)

			component, ok := r.components[key]
			if !ok {
				out.Write(raw)
				continue
			}

			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = tokenizer.TagAttr()
				attrs[string(k)] = string(v)
			}

			if tokenType == html.StartTagToken {
				skipElement(tokenizer, key)
			}

			err := component.Render(&out, attrs)
			if err != nil {
				return Resolution{}, karma.
					Describe("component", r.names[key]).
					Format(err, "unable to render component")
			}

			if !seen[key] {
				seen[key] = true
				resolution.Used = append(resolution.Used, r.names[key])

				if contributor, ok := component.(HeadContributor); ok {
					if head := contributor.Head(); head != "" {
						resolution.Head = append(resolution.Head, head)
					}
				}
			}

		default:
			out.Write(tokenizer.Raw())
		}
	}
}

// skipElement consumes tokens up to and including the end tag closing the
// element named name.
func skipElement(tokenizer *html.Tokenizer, name string) {
	depth := 1

	for depth > 0 {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken:
			if tag, _ := tokenizer.TagName(); string(tag) == name {
				depth++
			}
		case html.EndTagToken:
			if tag, _ := tokenizer.TagName(); string(tag) == name {
				depth--
			}
		}
	}
}
