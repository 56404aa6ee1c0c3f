// Package bookstore is the narrative store: the indexed gamebook text
// every retrieval resolves against. Sections are stored structured, so
// exact lookup is cheap; marker and semantic search exist for books
// whose section numbering is incomplete.
package bookstore

import (
	"context"

	"github.com/lcampanari/gamebook-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_store.go -package=bookstoremock github.com/lcampanari/gamebook-api/internal/bookstore Store

// Store indexes gamebook sections for retrieval
type Store interface {
	// GetSection looks up a section by its structured number.
	// Returns NotFound when the book or section is not indexed.
	GetSection(ctx context.Context, input *GetSectionInput) (*GetSectionOutput, error)

	// SearchMarker scans the book text for a literal section marker,
	// preferring sections whose text begins with it.
	SearchMarker(ctx context.Context, input *SearchMarkerInput) (*SearchMarkerOutput, error)

	// SearchSemantic finds the section closest to the query embedding
	SearchSemantic(ctx context.Context, input *SearchSemanticInput) (*SearchSemanticOutput, error)

	// PutSection indexes a section, with an optional embedding
	PutSection(ctx context.Context, input *PutSectionInput) (*PutSectionOutput, error)
}

// GetSectionInput identifies a section by book and number
type GetSectionInput struct {
	BookID        string
	SectionNumber int
}

// GetSectionOutput contains the retrieved section
type GetSectionOutput struct {
	Section *entities.SectionContext
}

// SearchMarkerInput identifies the marker to scan for
type SearchMarkerInput struct {
	BookID        string
	SectionNumber int
}

// SearchMarkerOutput contains the best marker match
type SearchMarkerOutput struct {
	Section *entities.SectionContext
}

// SearchSemanticInput carries the query embedding
type SearchSemanticInput struct {
	BookID    string
	Embedding []float32
}

// SearchSemanticOutput contains the closest section and its score
type SearchSemanticOutput struct {
	Section    *entities.SectionContext
	Similarity float64
}

// PutSectionInput carries the section to index
type PutSectionInput struct {
	Section   *entities.SectionContext
	Embedding []float32 // optional, enables semantic search
}

// PutSectionOutput is empty; it exists for interface symmetry
type PutSectionOutput struct{}
