package site

import (
	"os"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"gopkg.in/yaml.v3"
)

type SearchProvider string

const (
	SearchLocal SearchProvider = "local"
	SearchNone  SearchProvider = "none"
)

type Config struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Nav         []NavItem      `yaml:"nav"`
	Sidebar     []SidebarGroup `yaml:"sidebar"`
	SocialLinks []SocialLink   `yaml:"socialLinks"`
	Search      Search         `yaml:"search"`
	LastUpdated LastUpdated    `yaml:"lastUpdated"`
}

type NavItem struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

type SidebarGroup struct {
	Text      string        `yaml:"text"`
	Collapsed bool          `yaml:"collapsed"`
	Items     []SidebarItem `yaml:"items"`
}

type SidebarItem struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

type SocialLink struct {
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

type Search struct {
	Provider SearchProvider `yaml:"provider"`
}

// Link is a labelled target found anywhere in the configuration.
type Link struct {
	Label  string
	Target string
}

// Default returns the configuration used when no site config file exists.
func Default() Config {
	return Config{
		Title:       "docsite",
		Description: "Static documentation with diagrams rendered from markdown",
		Nav: []NavItem{
			{Text: "Home", Link: "/"},
			{Text: "Guide", Link: "/guide/getting-started"},
			{Text: "Architecture", Link: "/architecture/overview"},
		},
		Sidebar: []SidebarGroup{
			{
				Text: "Developer Guide",
				Items: []SidebarItem{
					{Text: "Getting Started", Link: "/guide/getting-started"},
					{Text: "Configuration", Link: "/guide/configuration"},
					{Text: "Writing Pages", Link: "/guide/writing-pages"},
					{Text: "Diagrams", Link: "/guide/diagrams"},
				},
			},
			{
				Text: "Architecture",
				Items: []SidebarItem{
					{Text: "Overview", Link: "/architecture/overview"},
					{Text: "Rendering Pipeline", Link: "/architecture/rendering"},
					{Text: "Themes and Components", Link: "/architecture/themes"},
				},
			},
		},
		SocialLinks: []SocialLink{
			{Icon: "github", Link: "https://github.com/reconquest/docsite"},
		},
		Search: Search{Provider: SearchLocal},
		LastUpdated: LastUpdated{
			Text:      "Last updated",
			DateStyle: StyleShort,
			TimeStyle: StyleMedium,
		},
	}
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf(nil, "site config %q not found, using defaults", path)
			return config, nil
		}

		return Config{}, karma.Format(err, "unable to read site config %q", path)
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, karma.Format(err, "unable to decode site config %q", path)
	}

	return config, nil
}

// Links lists nav, sidebar and social targets in declaration order.
func (c Config) Links() []Link {
	var links []Link

	for _, item := range c.Nav {
		links = append(links, Link{Label: item.Text, Target: item.Link})
	}

	for _, group := range c.Sidebar {
		for _, item := range group.Items {
			links = append(links, Link{Label: item.Text, Target: item.Link})
		}
	}

	for _, social := range c.SocialLinks {
		links = append(links, Link{Label: social.Icon, Target: social.Link})
	}

	return links
}
