package theme

import (
	"fmt"
	"html"
	"io"

	"github.com/reconquest/docsite/renderer"
)

// Default is the base theme every site extends.
var Default = &Theme{
	Name: "default",
	EnhanceApp: func(registry *Registry) {
		registry.Component("Badge", ComponentFunc(renderBadge))
	},
}

// New returns the docsite theme: Default plus the diagram components. A nil
// d2 component leaves D2 elements unresolved.
func New(mermaid Component, d2 Component) *Theme {
	return &Theme{
		Name:    "docsite",
		Extends: Default,
		EnhanceApp: func(registry *Registry) {
			registry.Component(renderer.Mermaid.Element, mermaid)

			if d2 != nil {
				registry.Component(renderer.D2.Element, d2)
			}
		},
	}
}

// renderBadge renders <Badge type="tip" text="beta" />.
func renderBadge(w io.Writer, attrs map[string]string) error {
	kind := attrs["type"]
	if kind == "" {
		kind = "tip"
	}

	_, err := fmt.Fprintf(
		w,
		`<span class="VPBadge %s">%s</span>`,
		html.EscapeString(kind),
		html.EscapeString(attrs["text"]),
	)

	return err
}
