package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reconquest/docsite/util"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
)

const (
	usage       = "A static documentation site generator with diagrams rendered from markdown."
	description = `docsite builds a static documentation site from a directory of markdown files. Mermaid and D2 fences become diagrams, the navigation, sidebar and search come from docsite.yaml.`
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "docsite",
		Usage:                 usage,
		Description:           description,
		Version:               fmt.Sprintf("%s@%s", version, commit),
		Flags:                 util.Flags,
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Action:                util.RunBuild,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "render the site into the output directory.",
				Action: util.RunBuild,
			},
			{
				Name:   "serve",
				Usage:  "build the site, serve it and rebuild on changes.",
				Flags:  util.ServeFlags,
				Action: util.RunServe,
			},
		},
	}
}

func main() {
	cmd := newCommand()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
