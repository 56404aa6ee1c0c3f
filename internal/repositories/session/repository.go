// Package session persists game sessions together with their
// characters. A turn's delta touches both, so the repository commits
// them as one unit: either the whole snapshot lands or none of it.
package session

import (
	"context"

	"github.com/lcampanari/gamebook-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/lcampanari/gamebook-api/internal/repositories/session Repository

// Repository stores session snapshots
type Repository interface {
	// Create stores a brand-new session and character.
	// Fails with AlreadyExists when the session ID is taken.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get loads the session and its character
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save commits the session and character atomically. The session's
	// Version must match the stored one; on mismatch the save fails
	// with Aborted and nothing is written.
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// CreateInput carries the initial snapshot
type CreateInput struct {
	Session   *entities.Session
	Character *entities.Character
}

// CreateOutput contains the stored snapshot
type CreateOutput struct {
	Session *entities.Session
}

// GetInput identifies the session
type GetInput struct {
	SessionID string
}

// GetOutput contains the loaded snapshot
type GetOutput struct {
	Session   *entities.Session
	Character *entities.Character
}

// SaveInput carries the updated snapshot
type SaveInput struct {
	Session   *entities.Session
	Character *entities.Character
}

// SaveOutput reports the committed version
type SaveOutput struct {
	Version int64
}
