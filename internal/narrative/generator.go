// Package narrative renders resolved turn outcomes into prose. The
// generator is fed only validated facts; it narrates, it never decides.
package narrative

import (
	"context"

	"github.com/lcampanari/gamebook-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_generator.go -package=narrativemock github.com/lcampanari/gamebook-api/internal/narrative Generator

// Generator turns a resolved outcome into player-facing prose
type Generator interface {
	Generate(ctx context.Context, request *Request) (*Response, error)
}

// Request carries everything the narrator may draw on. Section is nil
// when retrieval failed; the narrator then improvises without
// introducing new facts.
type Request struct {
	BookTitle string
	Section   *entities.SectionContext
	Action    *entities.Action
	Facts     []string
	Stats     entities.StatSnapshot
}

// Response is the rendered narration
type Response struct {
	Narrative  string
	Improvised bool
}
