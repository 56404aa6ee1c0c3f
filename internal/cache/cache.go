// Package cache provides the TTL-bounded retrieval cache sitting in
// front of the narrative store. Entries carry their own expiry so a
// read never returns stale context even if the backing store kept the
// key around.
package cache

import (
	"context"
	"strconv"
)

//go:generate mockgen -destination=mock/mock_cache.go -package=cachemock github.com/lcampanari/gamebook-api/internal/cache Cache

// Cache stores retrieved section context keyed by (book, section)
type Cache interface {
	// Get returns the cached value, or a NotFound error on miss or
	// expired entry.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts the value under the configured TTL
	Set(ctx context.Context, key string, value []byte) error

	// Clear drops every cache entry and returns how many were removed
	Clear(ctx context.Context) (int, error)

	// EvictExpired removes entries past their TTL and returns the count
	EvictExpired(ctx context.Context) (int, error)
}

// Key builds the canonical cache key for a book section
func Key(bookID string, sectionNumber int) string {
	return bookID + ":" + strconv.Itoa(sectionNumber)
}
