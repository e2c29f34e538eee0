package stdlib

import (
	"html/template"
	"io"
	"strings"

	"github.com/reconquest/docsite/search"
	"github.com/reconquest/docsite/site"
	"github.com/reconquest/karma-go"
)

type Lib struct {
	Site      site.Config
	Templates *template.Template
}

// Page is everything the layout needs to know about a single rendered page.
type Page struct {
	// Path is the clean URL of the page, e.g. /guide/diagrams.
	Path        string
	Title       string
	Description string
	Layout      string
	Sidebar     bool
	Head        []string
	Body        string

	// LastUpdated is the formatted timestamp; empty hides the footer.
	LastUpdated string
}

func New(config site.Config) (*Lib, error) {
	templates, err := templates()
	if err != nil {
		return nil, err
	}

	return &Lib{
		Site:      config,
		Templates: templates,
	}, nil
}

// Render executes the page layout for page.
func (lib *Lib) Render(w io.Writer, page Page) error {
	var searchIndex string
	if lib.Site.Search.Provider == site.SearchLocal {
		searchIndex = "/" + search.IndexFilename
	}

	err := lib.Templates.ExecuteTemplate(w, "page", struct {
		Site   site.Config
		Page   Page
		Search string
	}{
		Site:   lib.Site,
		Page:   page,
		Search: searchIndex,
	})
	if err != nil {
		return karma.Describe("page", page.Path).Format(err, "unable to execute layout template")
	}

	return nil
}

func templates() (*template.Template, error) {
	text := func(line ...string) string {
		return strings.Join(line, ``)
	}

	templates := template.New(`stdlib`).Funcs(
		template.FuncMap{
			// Component output and head snippets are already HTML.
			"raw": func(data string) template.HTML {
				return template.HTML(data)
			},

			"active": func(link string, current string) bool {
				return cleanPath(link) == cleanPath(current)
			},
		},
	)

	var err error

	for name, body := range map[string]string{
		`page`: text(
			`<!DOCTYPE html>{{printf "\n"}}`,
			`<html lang="en">{{printf "\n"}}`,
			`<head>{{printf "\n"}}`,
			/**/ `<meta charset="utf-8">{{printf "\n"}}`,
			/**/ `<meta name="viewport" content="width=device-width, initial-scale=1">{{printf "\n"}}`,
			/**/ `<title>{{ .Page.Title }}{{ if .Site.Title }} | {{ .Site.Title }}{{ end }}</title>{{printf "\n"}}`,
			/**/ `{{ with .Page.Description }}<meta name="description" content="{{ . }}">{{printf "\n"}}{{ end }}`,
			/**/ `{{ range .Page.Head }}{{ raw . }}{{printf "\n"}}{{ end }}`,
			`</head>{{printf "\n"}}`,
			`<body class="layout-{{ .Page.Layout }}">{{printf "\n"}}`,
			/**/ `<header class="VPNav">`,
			/**/ `<a class="title" href="/">{{ .Site.Title }}</a>`,
			/**/ `{{ template "nav" . }}{{ template "search" . }}{{ template "social" . }}`,
			/**/ `</header>{{printf "\n"}}`,
			/**/ `{{ if .Page.Sidebar }}{{ template "sidebar" . }}{{printf "\n"}}{{ end }}`,
			/**/ `<main class="VPDoc">{{printf "\n"}}{{ raw .Page.Body }}</main>{{printf "\n"}}`,
			/**/ `{{ with .Page.LastUpdated }}`,
			/**/ `<footer class="VPDocFooter"><p class="last-updated">`,
			/**/ `{{ $.Site.LastUpdated.Text }}: <time>{{ . }}</time>`,
			/**/ `</p></footer>{{printf "\n"}}`,
			/**/ `{{ end }}`,
			`</body>{{printf "\n"}}`,
			`</html>{{printf "\n"}}`,
		),

		`nav`: text(
			`<nav class="VPNavBarMenu">`,
			`{{ range .Site.Nav }}`,
			/**/ `<a href="{{ .Link }}"{{ if active .Link $.Page.Path }} class="active"{{ end }}>{{ .Text }}</a>`,
			`{{ end }}`,
			`</nav>`,
		),

		`sidebar`: text(
			`<aside class="VPSidebar">`,
			`{{ range .Site.Sidebar }}`,
			/**/ `<details class="group"{{ if not .Collapsed }} open{{ end }}>`,
			/**/ `<summary>{{ .Text }}</summary>`,
			/**/ `<ul>{{ range .Items }}`,
			/**/ `<li><a href="{{ .Link }}"{{ if active .Link $.Page.Path }} class="active"{{ end }}>{{ .Text }}</a></li>`,
			/**/ `{{ end }}</ul>`,
			/**/ `</details>`,
			`{{ end }}`,
			`</aside>`,
		),

		`social`: text(
			`{{ with .Site.SocialLinks }}<div class="VPSocialLinks">`,
			`{{ range . }}`,
			/**/ `<a class="VPSocialLink {{ .Icon }}" href="{{ .Link }}" aria-label="{{ .Icon }}" target="_blank" rel="noopener">{{ .Icon }}</a>`,
			`{{ end }}`,
			`</div>{{ end }}`,
		),

		`search`: text(
			`{{ with .Search }}`,
			`<div class="VPLocalSearch" data-index="{{ . }}">`,
			/**/ `<input type="search" placeholder="Search" aria-label="Search">`,
			/**/ `<ul class="results"></ul>`,
			`</div>`,
			`<script>`,
			/**/ `(function () {`,
			/**/ `var box = document.querySelector(".VPLocalSearch");`,
			/**/ `var input = box.querySelector("input");`,
			/**/ `var results = box.querySelector(".results");`,
			/**/ `var docs = null;`,
			/**/ `input.addEventListener("input", function () {`,
			/**/ `var query = input.value.trim().toLowerCase();`,
			/**/ `var show = function () {`,
			/**/ `results.innerHTML = "";`,
			/**/ `if (!query) { return; }`,
			/**/ `docs.filter(function (doc) {`,
			/**/ `return (doc.title + " " + (doc.headings || []).join(" ") + " " + doc.text).toLowerCase().indexOf(query) >= 0;`,
			/**/ `}).slice(0, 10).forEach(function (doc) {`,
			/**/ `var item = document.createElement("li");`,
			/**/ `var link = document.createElement("a");`,
			/**/ `link.href = doc.path;`,
			/**/ `link.textContent = doc.title;`,
			/**/ `item.appendChild(link);`,
			/**/ `results.appendChild(item);`,
			/**/ `});`,
			/**/ `};`,
			/**/ `if (docs) { show(); return; }`,
			/**/ `fetch(box.dataset.index).then(function (r) { return r.json(); }).then(function (index) {`,
			/**/ `docs = index.documents || [];`,
			/**/ `show();`,
			/**/ `});`,
			/**/ `});`,
			/**/ `})();`,
			`</script>`,
			`{{ end }}`,
		),
	} {
		templates, err = templates.New(name).Parse(body)
		if err != nil {
			return nil, karma.
				Describe("template", body).
				Format(
					err,
					"unable to parse template",
				)
		}
	}

	return templates, nil
}

func cleanPath(link string) string {
	link = strings.TrimSuffix(link, ".html")
	if link != "/" {
		link = strings.TrimSuffix(link, "/")
	}

	return link
}
