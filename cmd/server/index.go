package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lcampanari/gamebook-api/internal/bookstore"
	"github.com/lcampanari/gamebook-api/internal/clients/gemini"
	"github.com/lcampanari/gamebook-api/internal/config"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
)

var indexCmd = &cobra.Command{
	Use:   "index [book.yaml ...]",
	Short: "Index gamebook YAML files into the book store",
	Long:  `Parse one or more gamebook YAML files and write their sections into Redis. With a Gemini API key configured each section is also embedded for semantic retrieval.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	client, err := redisclient.NewClient(cfg.Redis.Address, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() { _ = client.Close() }()

	store, err := bookstore.NewRedisStore(&bookstore.Config{Client: client})
	if err != nil {
		return fmt.Errorf("failed to create book store: %w", err)
	}

	var embedder bookstore.Embedder
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(cmd.Context(), &gemini.Config{
			APIKey:         cfg.Gemini.APIKey,
			EmbeddingModel: cfg.Gemini.EmbeddingModel,
		})
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer func() { _ = geminiClient.Close() }()
		embedder = geminiClient
	} else {
		slog.Warn("indexing without embeddings, semantic retrieval will be unavailable")
	}

	for _, path := range args {
		book, err := bookstore.LoadBookFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		if err := bookstore.IndexBook(cmd.Context(), store, book, embedder); err != nil {
			return fmt.Errorf("failed to index %s: %w", book.ID, err)
		}

		slog.Info("book indexed",
			"book_id", book.ID,
			"title", book.Title,
			"sections", len(book.Sections),
		)
	}
	return nil
}
