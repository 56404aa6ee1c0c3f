package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"

	"github.com/lcampanari/gamebook-api/internal/bookstore"
	"github.com/lcampanari/gamebook-api/internal/cache"
	"github.com/lcampanari/gamebook-api/internal/clients/gemini"
	"github.com/lcampanari/gamebook-api/internal/config"
	"github.com/lcampanari/gamebook-api/internal/dice"
	"github.com/lcampanari/gamebook-api/internal/handlers/httpapi"
	"github.com/lcampanari/gamebook-api/internal/mechanics"
	"github.com/lcampanari/gamebook-api/internal/narrative"
	game "github.com/lcampanari/gamebook-api/internal/orchestrators/game"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	"github.com/lcampanari/gamebook-api/internal/pkg/idgen"
	"github.com/lcampanari/gamebook-api/internal/ratelimit"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
	sessionrepo "github.com/lcampanari/gamebook-api/internal/repositories/session"
	"github.com/lcampanari/gamebook-api/internal/retriever"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP game server",
	Long:  `Start the gamebook API server with all configured services.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	deps, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	h := server.Default(server.WithHostPorts(addr))
	deps.handler.RegisterRoutes(h)

	slog.Info("gamebook server listening", "addr", addr)
	h.Spin()
	return nil
}

type dependencies struct {
	handler *httpapi.Handler
	redis   redisclient.Client
	gemini  gemini.Client
}

func (d *dependencies) close() {
	if d.gemini != nil {
		if err := d.gemini.Close(); err != nil {
			slog.Warn("failed to close Gemini client", "error", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
}

func buildDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	client, err := redisclient.NewClient(cfg.Redis.Address, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	clk := clock.New()

	retrievalCache, err := cache.NewRedisCache(&cache.Config{
		Client: client,
		Clock:  clk,
		TTL:    cfg.Cache.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieval cache: %w", err)
	}

	store, err := bookstore.NewRedisStore(&bookstore.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create book store: %w", err)
	}

	var (
		geminiClient gemini.Client
		generator    narrative.Generator
		embedder     retriever.Embedder
	)
	if cfg.Gemini.APIKey != "" {
		geminiClient, err = gemini.NewClient(ctx, &gemini.Config{
			APIKey:         cfg.Gemini.APIKey,
			Model:          cfg.Gemini.Model,
			EmbeddingModel: cfg.Gemini.EmbeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}

		inner, err := narrative.NewGeminiGenerator(&narrative.GeminiConfig{Client: geminiClient})
		if err != nil {
			return nil, fmt.Errorf("failed to create narrative generator: %w", err)
		}

		limiter, err := ratelimit.New(&ratelimit.Config{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      cfg.RateLimit.Window,
			Clock:       clk,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}

		generator, err = narrative.NewRateLimited(inner, limiter)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap narrative generator: %w", err)
		}
		embedder = geminiClient
	} else {
		slog.Warn("no Gemini API key configured, narration will use canned text only")
		generator = narrative.NewStatic()
	}

	tiered, err := retriever.New(&retriever.Config{
		Cache:    retrievalCache,
		Store:    store,
		Embedder: embedder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	repo, err := sessionrepo.NewRedisRepository(&sessionrepo.Config{
		Client: client,
		Clock:  clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	engine, err := mechanics.NewEngine(&mechanics.Config{Roller: dice.NewToolkitRoller()})
	if err != nil {
		return nil, fmt.Errorf("failed to create mechanics engine: %w", err)
	}

	orchestrator, err := game.New(&game.Config{
		SessionRepo:      repo,
		Retriever:        tiered,
		Engine:           engine,
		Generator:        generator,
		Clock:            clk,
		IDGen:            idgen.NewUUID("sess"),
		CharIDGen:        idgen.NewUUID("char"),
		NarrationTimeout: cfg.Narration.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	handler, err := httpapi.New(&httpapi.Config{GameService: orchestrator})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP handler: %w", err)
	}

	return &dependencies{
		handler: handler,
		redis:   client,
		gemini:  geminiClient,
	}, nil
}
