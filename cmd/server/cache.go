package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lcampanari/gamebook-api/internal/cache"
	"github.com/lcampanari/gamebook-api/internal/config"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Retrieval cache maintenance",
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Remove expired retrieval cache entries",
	RunE:  runCacheEvict,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the entire retrieval cache",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheEvictCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func buildCache() (cache.Cache, redisclient.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	client, err := redisclient.NewClient(cfg.Redis.Address, &redisclient.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	retrievalCache, err := cache.NewRedisCache(&cache.Config{
		Client: client,
		Clock:  clock.New(),
		TTL:    cfg.Cache.TTL,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to create retrieval cache: %w", err)
	}
	return retrievalCache, client, nil
}

func runCacheEvict(cmd *cobra.Command, _ []string) error {
	retrievalCache, client, err := buildCache()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	removed, err := retrievalCache.EvictExpired(cmd.Context())
	if err != nil {
		return err
	}
	slog.Info("expired cache entries removed", "count", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	retrievalCache, client, err := buildCache()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	removed, err := retrievalCache.Clear(cmd.Context())
	if err != nil {
		return err
	}
	slog.Info("retrieval cache cleared", "count", removed)
	return nil
}
