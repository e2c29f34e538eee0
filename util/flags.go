package util

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	altsrctoml "github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var filename string

var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:      "docs",
		Aliases:   []string{"d"},
		Value:     "docs",
		Usage:     "directory containing markdown sources.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DOCSITE_DOCS"), altsrctoml.TOML("docs", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "files",
		Aliases: []string{"f"},
		Value:   "**/*.md",
		Usage:   "glob pattern, relative to the docs directory, selecting markdown files to build (needs to be quoted).",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_FILES"), altsrctoml.TOML("files", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "out",
		Aliases:   []string{"o"},
		Value:     "dist",
		Usage:     "directory the static site is written to.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DOCSITE_OUT"), altsrctoml.TOML("out", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "site-config",
		Value:     "",
		Usage:     "site configuration YAML file (default: <docs>/docsite.yaml).",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DOCSITE_SITE_CONFIG"), altsrctoml.TOML("site-config", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "continue-on-error",
		Value:   false,
		Usage:   "don't exit if an error occurs while processing a file, continue processing remaining files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_CONTINUE_ON_ERROR"), altsrctoml.TOML("continue-on-error", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:  "color",
		Value: "auto",
		Usage: "display logs in color. Possible values: auto, never.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_COLOR"),
			altsrctoml.TOML("color", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "set the log level. Possible values: TRACE, DEBUG, INFO, WARNING, ERROR, FATAL.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_LOG_LEVEL"), altsrctoml.TOML("log-level", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       ConfigFilePath(),
		Usage:       "use the specified configuration file.",
		TakesFile:   true,
		Sources:     cli.NewValueSourceChain(cli.EnvVar("DOCSITE_CONFIG")),
		Destination: &filename,
	},
	&cli.StringFlag{
		Name:    "mermaid-provider",
		Value:   "client",
		Usage:   "defines the mermaid provider to use. Supported options are: client, mermaid-go.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_MERMAID_PROVIDER"), altsrctoml.TOML("mermaid-provider", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.FloatFlag{
		Name:    "mermaid-scale",
		Value:   1.0,
		Usage:   "defines the scaling factor for mermaid renderings.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_MERMAID_SCALE"), altsrctoml.TOML("mermaid-scale", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.FloatFlag{
		Name:    "d2-scale",
		Value:   1.0,
		Usage:   "defines the scaling factor for d2 renderings.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_D2_SCALE"), altsrctoml.TOML("d2-scale", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "d2-format",
		Value:   "svg",
		Usage:   "defines how d2 diagrams are embedded. Supported options are: svg, png.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_D2_FORMAT"), altsrctoml.TOML("d2-format", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "highlight-style",
		Value:   "github",
		Usage:   "chroma style used for code blocks, or none to disable highlighting.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_HIGHLIGHT_STYLE"), altsrctoml.TOML("highlight-style", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringSliceFlag{
		Name:    "features",
		Value:   []string{"alerts"},
		Usage:   "Enables optional features. Current features: d2, admonitions, alerts. Mermaid diagrams are always enabled.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_FEATURES"), altsrctoml.TOML("features", altsrc.NewStringPtrSourcer(&filename))),
	},
}

var ServeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "listen",
		Aliases: []string{"l"},
		Value:   "127.0.0.1:5173",
		Usage:   "address the preview server listens on.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DOCSITE_LISTEN"), altsrctoml.TOML("listen", altsrc.NewStringPtrSourcer(&filename))),
	},
}
