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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/vaultqa"
	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/ingest"
)

func main() {
	app := &cli.App{
		Name:  "vaultqa",
		Usage: "Multi-tenant conversational Q&A over private document vaults",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document into a (tenant, user) vault scope",
				Action:    ingestCommand,
				ArgsUsage: "[file]",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label stored with the chunks (defaults to the file name)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters",
						Value: 400,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
						Value: 80,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Run one query through the full pipeline",
				Action:    askCommand,
				ArgsUsage: "<query>",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session identifier",
						Value: "cli",
					},
					&cli.StringFlag{
						Name:  "locale",
						Usage: "Query locale",
						Value: "en",
					},
				),
			},
			{
				Name:      "retrieve",
				Usage:     "Run retrieval only and print scored chunks (debug)",
				Action:    retrieveCommand,
				ArgsUsage: "<query>",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to return",
						Value: 4,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "policies",
			Aliases:  []string{"p"},
			Usage:    "Path to the tenant policy YAML file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "tenant",
			Usage:    "Tenant identifier",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "user",
			Usage:    "User identifier",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "AI service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Classifier and generator model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openAssistant(c *cli.Context) (*vaultqa.Assistant, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithClassifierModel(c.String("model")),
		ai.WithGeneratorModel(c.String("model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	assistant, err := vaultqa.NewAssistant(c.String("db"), c.String("policies"),
		vaultqa.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open assistant: %w", err)
	}
	return assistant, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	var (
		text   string
		source = c.String("source")
	)
	if c.Args().Len() > 0 {
		path := c.Args().First()
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		text = string(data)
		if source == "" {
			source = path
		}
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
		if source == "" {
			source = "stdin"
		}
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	count, err := assistant.Ingest(ctx, c.String("tenant"), c.String("user"), source, text,
		ingestOptions(c)...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d chunks from %s for tenant=%s user=%s\n",
		count, source, c.String("tenant"), c.String("user"))
	return nil
}

// ingestOptions maps the ingest command's chunking flags to pipeline options.
func ingestOptions(c *cli.Context) []ingest.Option {
	return []ingest.Option{
		ingest.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")),
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	resp, err := assistant.Ask(ctx, &core.Request{
		TenantID:  c.String("tenant"),
		UserID:    c.String("user"),
		SessionID: c.String("session"),
		Query:     query,
		Locale:    c.String("locale"),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	fmt.Printf("Route: %s\n", resp.Route)
	if resp.Refusal != "" {
		fmt.Printf("Refusal: %s\n", resp.Refusal)
	}
	fmt.Printf("\n%s\n", resp.Answer)

	if len(resp.Citations) > 0 {
		fmt.Println("\nCitations:")
		for _, citation := range resp.Citations {
			fmt.Printf("  [%s] %s (confidence %.2f)\n",
				citation.Type, citation.Ref, citation.Confidence)
		}
	}
	if resp.Meta.RetrievalError != "" {
		fmt.Fprintf(os.Stderr, "retrieval degraded: %s\n", resp.Meta.RetrievalError)
	}
	if resp.Meta.GenerationError != "" {
		fmt.Fprintf(os.Stderr, "generation degraded: %s\n", resp.Meta.GenerationError)
	}
	fmt.Fprintf(os.Stderr, "latency=%dms tokens=%d\n",
		resp.Meta.LatencyMs, resp.Meta.TokenUsage.Total)
	return nil
}

func retrieveCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	result, err := assistant.Retrieve(ctx, c.String("tenant"), c.String("user"), query, c.Int("top-k"))
	if err != nil {
		if result != nil && len(result.Chunks) == 0 {
			fmt.Fprintf(os.Stderr, "no chunks indexed for this scope: %v\n", err)
			return nil
		}
		return fmt.Errorf("retrieval failed: %w", err)
	}

	fmt.Printf("Average confidence: %.3f\n\n", result.AvgConfidence)
	for i, scored := range result.Chunks {
		fmt.Printf("%d. [%s] %s (confidence %.3f)\n", i+1,
			scored.Method, scored.Chunk.ChunkID, scored.Confidence)
		fmt.Printf("   %s\n", firstLine(scored.Chunk.Text))
	}
	return nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return text
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
