package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reconquest/docsite/util"
	"github.com/reconquest/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func Test_setLogLevel(t *testing.T) {
	tests := map[string]struct {
		lvl         string
		want        log.Level
		expectedErr string
	}{
		"invalid":    {lvl: "INVALID", want: log.LevelInfo, expectedErr: "unknown log level: INVALID"},
		"empty":      {lvl: "", want: log.LevelInfo, expectedErr: "unknown log level: "},
		"info":       {lvl: log.LevelInfo.String(), want: log.LevelInfo},
		"debug":      {lvl: log.LevelDebug.String(), want: log.LevelDebug},
		"trace":      {lvl: log.LevelTrace.String(), want: log.LevelTrace},
		"warning":    {lvl: log.LevelWarning.String(), want: log.LevelWarning},
		"error":      {lvl: log.LevelError.String(), want: log.LevelError},
		"fatal":      {lvl: log.LevelFatal.String(), want: log.LevelFatal},
		"lower case": {lvl: "debug", want: log.LevelDebug},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := &cli.Command{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "log-level",
						Value: tt.lvl,
					},
				},
			}
			err := util.SetLogLevel(cmd)
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, log.GetLevel())
			}
		})
	}

	log.SetLevel(log.LevelInfo)
}

func TestBuildCommand(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	out := filepath.Join(root, "public")

	require.NoError(t, os.MkdirAll(filepath.Join(docs, "guide"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(docs, "guide", "diagrams.md"),
		[]byte("# Diagrams\n\n```mermaid\ngraph TD;\nA-->B;\n```\n"),
		0o644,
	))

	err := newCommand().Run(context.Background(), []string{
		"docsite", "build",
		"--config", filepath.Join(root, "docsite.toml"),
		"--docs", docs,
		"--out", out,
		"--color", "never",
	})
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "guide", "diagrams.html"))
	require.NoError(t, err)

	assert.Contains(t, string(page), `<pre class="mermaid">graph TD;`)
	assert.FileExists(t, filepath.Join(out, "search-index.json"))
}
