package util

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/docsite/asset"
	"github.com/reconquest/docsite/d2"
	"github.com/reconquest/docsite/includes"
	"github.com/reconquest/docsite/markdown"
	"github.com/reconquest/docsite/mermaid"
	"github.com/reconquest/docsite/metadata"
	"github.com/reconquest/docsite/search"
	"github.com/reconquest/docsite/site"
	"github.com/reconquest/docsite/stdlib"
	"github.com/reconquest/docsite/theme"
	"github.com/reconquest/docsite/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

const SiteConfigFilename = "docsite.yaml"

// Options controls a single build of the site.
type Options struct {
	Docs            string
	Files           string
	Out             string
	SiteConfig      string
	ContinueOnError bool
	Render          types.RenderConfig
}

func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Docs:            cmd.String("docs"),
		Files:           cmd.String("files"),
		Out:             cmd.String("out"),
		SiteConfig:      cmd.String("site-config"),
		ContinueOnError: cmd.Bool("continue-on-error"),
		Render: types.RenderConfig{
			MermaidProvider: cmd.String("mermaid-provider"),
			MermaidScale:    cmd.Float("mermaid-scale"),
			D2Scale:         cmd.Float("d2-scale"),
			D2Format:        cmd.String("d2-format"),
			HighlightStyle:  cmd.String("highlight-style"),
			Features:        cmd.StringSlice("features"),
		},
	}
}

func RunBuild(ctx context.Context, cmd *cli.Command) error {
	if err := setupLogging(cmd); err != nil {
		return err
	}

	logConfig(cmd)

	report, err := Build(ctx, OptionsFromCommand(cmd))
	if err != nil {
		return err
	}

	log.Infof(
		nil,
		"site built: %d pages, %d assets, %d failed -> %s",
		report.Pages,
		report.Assets,
		report.Failed,
		cmd.String("out"),
	)

	return nil
}

// Report summarizes a finished build.
type Report struct {
	Pages  int
	Assets int
	Failed int
}

// Build renders every matched markdown file below opts.Docs into a static
// site under opts.Out.
func Build(ctx context.Context, opts Options) (*Report, error) {
	siteConfigPath := opts.SiteConfig
	if siteConfigPath == "" {
		siteConfigPath = filepath.Join(opts.Docs, SiteConfigFilename)
	}

	config, err := site.Load(siteConfigPath)
	if err != nil {
		return nil, err
	}

	lib, err := stdlib.New(config)
	if err != nil {
		return nil, karma.Format(err, "unable to retrieve standard library")
	}

	assets := asset.NewStore("")

	registry, err := NewRegistry(opts.Render, assets)
	if err != nil {
		return nil, err
	}

	log.Debugf(nil, "registered components: %s", strings.Join(registry.Names(), ", "))

	files, err := doublestar.Glob(os.DirFS(opts.Docs), opts.Files)
	if err != nil {
		return nil, karma.Format(err, "unable to match %q in %q", opts.Files, opts.Docs)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files matched %q in %q", opts.Files, opts.Docs)
	}

	err = os.MkdirAll(opts.Out, 0o755)
	if err != nil {
		return nil, karma.Format(err, "unable to create output directory %q", opts.Out)
	}

	var (
		handler = NewErrorHandler(opts.ContinueOnError)
		index   search.Index
		report  Report
		written = map[string]bool{}
	)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Infof(nil, "processing %s", file)

		err := processFile(opts, file, lib, registry, &index)
		if err != nil {
			err = handler.Handle(err, "unable to build %q", file)
			if err != nil {
				return nil, err
			}

			continue
		}

		written[OutputPath(file)] = true
		report.Pages++
	}

	err = removeStalePages(opts.Out, written)
	if err != nil {
		return nil, err
	}

	if config.Search.Provider == site.SearchLocal {
		err = index.Write(filepath.Join(opts.Out, search.IndexFilename))
		if err != nil {
			return nil, err
		}
	}

	err = assets.Write(opts.Out)
	if err != nil {
		return nil, err
	}

	report.Assets = len(assets.Assets)
	report.Failed = handler.Failed

	return &report, nil
}

// removeStalePages deletes pages below out that the current build did not
// write.
func removeStalePages(out string, written map[string]bool) error {
	pages, err := doublestar.Glob(os.DirFS(out), "**/*.html")
	if err != nil {
		return karma.Format(err, "unable to list pages in %q", out)
	}

	for _, page := range pages {
		if written[page] {
			continue
		}

		err := os.Remove(filepath.Join(out, filepath.FromSlash(page)))
		if err != nil && !os.IsNotExist(err) {
			return karma.Format(err, "unable to remove stale page %q", page)
		}

		log.Debugf(nil, "stale page removed: %s", page)
	}

	return nil
}

// NewRegistry installs the docsite theme, with the diagram components
// configured by cfg, into a fresh registry.
func NewRegistry(cfg types.RenderConfig, assets asset.Attacher) (*theme.Registry, error) {
	mermaidComponent, err := mermaid.NewComponent(cfg.MermaidProvider, cfg.MermaidScale, assets)
	if err != nil {
		return nil, err
	}

	var d2Component theme.Component
	if slices.Contains(cfg.Features, markdown.FeatureD2) {
		component, err := d2.NewComponent(cfg.D2Format, cfg.D2Scale, assets)
		if err != nil {
			return nil, err
		}

		d2Component = component
	}

	registry := theme.NewRegistry()
	theme.Install(theme.New(mermaidComponent, d2Component), registry)

	return registry, nil
}

func processFile(
	opts Options,
	file string,
	lib *stdlib.Lib,
	registry *theme.Registry,
	index *search.Index,
) error {
	source := filepath.Join(opts.Docs, filepath.FromSlash(file))

	data, err := os.ReadFile(source)
	if err != nil {
		return karma.Format(err, "unable to read file %q", source)
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	meta, body, err := metadata.ExtractMeta(data, file)
	if err != nil {
		return err
	}

	body, err = includes.ProcessIncludes(opts.Docs, source, body)
	if err != nil {
		return err
	}

	html, err := markdown.CompileMarkdown(body, file, opts.Render)
	if err != nil {
		return err
	}

	resolution, err := registry.Resolve(html)
	if err != nil {
		return karma.Describe("file", file).Format(err, "unable to resolve components")
	}

	log.Debugf(nil, "%s uses components: %v", file, resolution.Used)

	page := stdlib.Page{
		Path:        PagePath(file),
		Title:       meta.Title,
		Description: meta.Description,
		Layout:      meta.Layout,
		Sidebar:     meta.ShowSidebar(),
		Head:        resolution.Head,
		Body:        resolution.HTML,
	}

	if meta.ShowLastUpdated() {
		stat, err := os.Stat(source)
		if err != nil {
			return karma.Format(err, "unable to stat file %q", source)
		}

		page.LastUpdated = lib.Site.LastUpdated.Format(stat.ModTime())
	}

	var buffer bytes.Buffer

	err = lib.Render(&buffer, page)
	if err != nil {
		return err
	}

	target := filepath.Join(opts.Out, filepath.FromSlash(OutputPath(file)))

	err = os.MkdirAll(filepath.Dir(target), 0o755)
	if err != nil {
		return karma.Format(err, "unable to create directory for %q", target)
	}

	err = os.WriteFile(target, buffer.Bytes(), 0o644)
	if err != nil {
		return karma.Format(err, "unable to write page %q", target)
	}

	index.Add(page.Path, meta.Title, body)

	log.Debugf(nil, "page written: %s -> %s", file, target)

	return nil
}

// PagePath returns the clean URL a markdown file is served under:
// guide/x.md is /guide/x and guide/index.md is /guide/.
func PagePath(file string) string {
	file = strings.TrimSuffix(filepath.ToSlash(file), ".md")

	dir, base := path.Split(file)
	if base == "index" {
		return "/" + dir
	}

	return "/" + file
}

// OutputPath returns the slash separated output file of a markdown file.
func OutputPath(file string) string {
	return strings.TrimSuffix(filepath.ToSlash(file), ".md") + ".html"
}

func setupLogging(cmd *cli.Command) error {
	if err := SetLogLevel(cmd); err != nil {
		return err
	}

	if cmd.String("color") == "never" {
		log.GetLogger().SetFormat(
			lorg.NewFormat(
				`${time:2006-01-02 15:04:05.000} ${level:%s:left:true} ${prefix}%s`,
			),
		)
		log.GetLogger().SetOutput(os.Stderr)
	}

	return nil
}

func logConfig(cmd *cli.Command) {
	log.Debug("config:")
	for _, f := range cmd.Flags {
		flag := f.Names()
		log.Debugf(nil, "%20s: %v", flag[0], cmd.Value(flag[0]))
	}
}

func ConfigFilePath() string {
	fp, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(fp, "docsite.toml")
}

func SetLogLevel(cmd *cli.Command) error {
	logLevel := cmd.String("log-level")
	switch strings.ToUpper(logLevel) {
	case lorg.LevelTrace.String():
		log.SetLevel(lorg.LevelTrace)
	case lorg.LevelDebug.String():
		log.SetLevel(lorg.LevelDebug)
	case lorg.LevelInfo.String():
		log.SetLevel(lorg.LevelInfo)
	case lorg.LevelWarning.String():
		log.SetLevel(lorg.LevelWarning)
	case lorg.LevelError.String():
		log.SetLevel(lorg.LevelError)
	case lorg.LevelFatal.String():
		log.SetLevel(lorg.LevelFatal)
	default:
		return fmt.Errorf("unknown log level: %s", logLevel)
	}

	return nil
}
