package theme

import (
	"io"
	"sort"
	"strings"

	"github.com/reconquest/pkg/log"
)

// Component renders the custom element it is registered for. attrs holds
// the element's attributes with entities already decoded.
type Component interface {
	Render(w io.Writer, attrs map[string]string) error
}

// HeadContributor is implemented by components that need markup in the
// <head> of every page they appear on.
type HeadContributor interface {
	Head() string
}

type ComponentFunc func(w io.Writer, attrs map[string]string) error

func (f ComponentFunc) Render(w io.Writer, attrs map[string]string) error {
	return f(w, attrs)
}

// Registry maps element names to components. Names are matched without
// regard to case, since HTML tokenizers fold tag names to lower case.
type Registry struct {
	components map[string]Component
	names      map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		components: map[string]Component{},
		names:      map[string]string{},
	}
}

// Component registers c under name, replacing any component already
// registered under the same name.
func (r *Registry) Component(name string, c Component) {
	key := strings.ToLower(name)

	if _, ok := r.components[key]; ok {
		log.Debugf(nil, "component %q re-registered", name)
	}

	r.components[key] = c
	r.names[key] = name
}

func (r *Registry) Lookup(name string) (Component, bool) {
	c, ok := r.components[strings.ToLower(name)]
	return c, ok
}

// Names returns registered names as they were given, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for _, name := range r.names {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

type Theme struct {
	Name       string
	Extends    *Theme
	EnhanceApp func(registry *Registry)
}

// Install runs EnhanceApp for every theme in the Extends chain, parents
// first, against registry.
func Install(t *Theme, registry *Registry) {
	if t == nil {
		return
	}

	Install(t.Extends, registry)

	if t.EnhanceApp != nil {
		log.Debugf(nil, "installing theme %q", t.Name)
		t.EnhanceApp(registry)
	}
}
