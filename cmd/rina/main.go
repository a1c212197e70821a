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
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/rina"
	"github.com/poiesic/rina/ai"
	"github.com/urfave/cli/v2"
)

// logLevel is shared by the text handler and the JSON handler installed by serve.
var logLevel = new(slog.LevelVar)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rina",
		Usage: "Housing-search assistant for students in Nairobi",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./rina_db",
				EnvVars: []string{"RINA_DB"},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "OpenAI-compatible API base URL",
				Value:   "https://api.openai.com/v1",
				EnvVars: []string{"OPENAI_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the model provider",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Chat completion model name",
				Value:   "gpt-4o-mini",
				EnvVars: []string{"OPENAI_MODEL_NAME"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-3-small",
				EnvVars: []string{"EMBEDDING_MODEL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP timeout for provider calls",
				Value: 30 * time.Second,
			},
			&cli.StringFlag{
				Name:    "trace-dir",
				Usage:   "Directory for traces.jsonl (empty disables the file log)",
				EnvVars: []string{"RINA_TRACE_DIR"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			chatCommand(),
			searchCommand(),
			ingestCommand(),
			reembedCommand(),
			serveCommand(),
		},
	}
}

// aiConfig builds the provider configuration from the global flags.
func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("base-url")),
		ai.WithCompletionModel(c.String("model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(c.String("api-key")),
		ai.WithTimeout(c.Duration("timeout")),
	)
}

// openAssistant opens the database named by --db with the global provider settings.
func openAssistant(c *cli.Context, extra ...rina.Option) (*rina.Assistant, error) {
	cfg := aiConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []rina.Option{
		rina.WithAIConfig(cfg),
		rina.WithTraceDir(c.String("trace-dir")),
		rina.WithLogger(slog.Default()),
	}
	a, err := rina.Open(c.String("db"), append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return a, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logLevel.Set(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	return nil
}
