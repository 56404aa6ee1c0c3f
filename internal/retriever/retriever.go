// Package retriever resolves section context through tiers of
// increasing cost: cache, exact lookup, marker scan, then semantic
// search as the last resort since it spends an embedding call and may
// mismatch. Every successful resolution is written back to the cache.
package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lcampanari/gamebook-api/internal/bookstore"
	"github.com/lcampanari/gamebook-api/internal/cache"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock_retriever.go -package=retrievermock github.com/lcampanari/gamebook-api/internal/retriever Retriever

// Retriever resolves a section into its authoritative context
type Retriever interface {
	// GetSection returns the section context, or NotFound when no tier
	// can resolve it. Callers degrade to improvisation on NotFound.
	GetSection(ctx context.Context, bookID string, sectionNumber int) (*entities.SectionContext, error)
}

// Embedder produces the query embedding for the semantic tier
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds the dependencies for the tiered retriever
type Config struct {
	Cache    cache.Cache
	Store    bookstore.Store
	Embedder Embedder // optional; without it the semantic tier is skipped
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	return vb.Build()
}

type tiered struct {
	cache    cache.Cache
	store    bookstore.Store
	embedder Embedder
}

// New creates the tiered retriever
func New(cfg *Config) (Retriever, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &tiered{
		cache:    cfg.Cache,
		store:    cfg.Store,
		embedder: cfg.Embedder,
	}, nil
}

var _ Retriever = (*tiered)(nil)

func (t *tiered) GetSection(ctx context.Context, bookID string, sectionNumber int) (*entities.SectionContext, error) {
	if bookID == "" {
		return nil, errors.InvalidArgument("book ID cannot be empty")
	}

	key := cache.Key(bookID, sectionNumber)

	if cached, err := t.cache.Get(ctx, key); err == nil {
		var section entities.SectionContext
		if err := json.Unmarshal(cached, &section); err == nil {
			return &section, nil
		}
		slog.Warn("dropping corrupt cache entry", "key", key)
	}

	// A failing tier is treated as a miss so the next tier still gets a
	// chance to resolve the section. The error is kept only to surface
	// when no tier resolves anything at all.
	var tierErr error

	if out, err := t.store.GetSection(ctx, &bookstore.GetSectionInput{
		BookID:        bookID,
		SectionNumber: sectionNumber,
	}); err == nil {
		t.writeThrough(ctx, key, out.Section)
		return out.Section, nil
	} else if !errors.IsNotFound(err) {
		slog.Warn("exact lookup failed, trying marker scan", "key", key, "error", err)
		tierErr = err
	}

	if out, err := t.store.SearchMarker(ctx, &bookstore.SearchMarkerInput{
		BookID:        bookID,
		SectionNumber: sectionNumber,
	}); err == nil {
		t.writeThrough(ctx, key, out.Section)
		return out.Section, nil
	} else if !errors.IsNotFound(err) {
		slog.Warn("marker scan failed, trying semantic search", "key", key, "error", err)
		tierErr = err
	}

	if section, err := t.semantic(ctx, bookID, sectionNumber); err == nil {
		t.writeThrough(ctx, key, section)
		return section, nil
	} else if !errors.IsNotFound(err) {
		slog.Warn("semantic search failed", "key", key, "error", err)
		tierErr = err
	}

	if tierErr != nil {
		return nil, errors.Wrapf(tierErr, "section %d of %s could not be resolved", sectionNumber, bookID)
	}
	return nil, errors.NotFoundf("section %d of %s could not be resolved", sectionNumber, bookID)
}

func (t *tiered) semantic(ctx context.Context, bookID string, sectionNumber int) (*entities.SectionContext, error) {
	if t.embedder == nil {
		return nil, errors.NotFound("no embedder configured")
	}

	embedding, err := t.embedder.Embed(ctx, fmt.Sprintf("seção %d", sectionNumber))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to embed query for section %d", sectionNumber)
	}

	out, err := t.store.SearchSemantic(ctx, &bookstore.SearchSemanticInput{
		BookID:    bookID,
		Embedding: embedding,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("section resolved semantically",
		"book_id", bookID,
		"section", sectionNumber,
		"matched", out.Section.Number,
		"similarity", out.Similarity,
	)
	return out.Section, nil
}

// writeThrough caches a resolved section. Cache failures only cost the
// next lookup, so they are logged and swallowed.
func (t *tiered) writeThrough(ctx context.Context, key string, section *entities.SectionContext) {
	data, err := json.Marshal(section)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, key, data); err != nil {
		slog.Warn("failed to cache section", "key", key, "error", err)
	}
}
