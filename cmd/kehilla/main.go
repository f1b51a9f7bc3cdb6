// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/kehilla/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kehilla",
		Usage: "Find synagogues, schools, Hillels and community centers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML, TOML or JSON config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log output format (text, json)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Path to a JSON institution document (default: bundled sample)",
			},
			&cli.StringFlag{
				Name:  "ai-provider",
				Usage: "Chat backend (openai, langchain)",
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "OpenAI-compatible API base URL",
			},
			&cli.StringFlag{
				Name:  "ai-model",
				Usage: "Chat model name",
			},
			&cli.StringFlag{
				Name:  "ai-key",
				Usage: "API key (default: $KEHILLA_AI_API_KEY or $OPENAI_API_KEY)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Deadline for each model call",
			},
			&cli.BoolFlag{
				Name:  "rules-only",
				Usage: "Use the metro rule table for proximity instead of the model",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Load a JSON institution document into the database",
				Action:    importCommand,
				ArgsUsage: " ",
			},
			{
				Name:   "export",
				Usage:  "Write the database contents as a JSON institution document",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default: stdout)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run an AI-assisted search",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Skip the model and run the keyword scan only",
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Run every query in a file, one per line",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Query file; blank lines and lines starting with # are skipped",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of queries run concurrently",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:      "zip",
				Usage:     "List institutions in or near a postal code",
				ArgsUsage: "<zip>",
				Action:    zipCommand,
			},
			{
				Name:      "category",
				Usage:     "List institutions in a category (" + categoryNames() + ")",
				ArgsUsage: "<category>",
				Action:    categoryCommand,
			},
			{
				Name:      "affiliation",
				Usage:     "List institutions by denomination",
				ArgsUsage: "<affiliation>",
				Action:    affiliationCommand,
			},
			{
				Name:   "recommend",
				Usage:  "Suggest institutions for your interests",
				Action: recommendCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "pref",
						Usage: "Interest: family, youth or education (repeatable)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
					},
				},
			},
		},
	}
}

// setup loads the configuration, applies global flag overrides and installs
// the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	stringOverrides := []struct {
		flag   string
		target *string
	}{
		{"log-level", &cfg.Log.Level},
		{"log-format", &cfg.Log.Format},
		{"db", &cfg.Data.DB},
		{"data", &cfg.Data.Document},
		{"ai-provider", &cfg.AI.Provider},
		{"ai-host", &cfg.AI.Host},
		{"ai-model", &cfg.AI.Model},
		{"ai-key", &cfg.AI.APIKey},
	}
	for _, o := range stringOverrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}
	if c.IsSet("timeout") {
		cfg.AI.Timeout = c.Duration("timeout")
	}
	if c.Bool("rules-only") {
		cfg.Search.ModelProximity = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(c.App.ErrWriter, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	levelStr := strings.ToLower(cfg.Level)
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func loadedConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
