// Package game defines the turn-processing service boundary: the sole
// public entry points a transport layer may call.
package game

import (
	"context"

	"github.com/lcampanari/gamebook-api/internal/audio"
	"github.com/lcampanari/gamebook-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/lcampanari/gamebook-api/internal/services/game Service

// Service processes gamebook turns
type Service interface {
	// StartGame rolls a fresh character and opens a session at the
	// book's first section.
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ProcessTurn runs one full turn for the session. It is safe to
	// retry only when the returned turn did not commit; a committed
	// turn advances the turn count and consumes randomness.
	ProcessTurn(ctx context.Context, input *ProcessTurnInput) (*ProcessTurnOutput, error)

	// GetSession returns the current session snapshot
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

// StartGameInput identifies the player and the book to play
type StartGameInput struct {
	UserID        string
	BookID        string
	BookTitle     string
	CharacterName string

	// FinalSection is the book's victory section. Zero falls back to
	// the orchestrator default.
	FinalSection int
}

// StartGameOutput contains the fresh session and rolled character
type StartGameOutput struct {
	Session   *entities.Session
	Character *entities.Character
}

// ProcessTurnInput carries one raw player action
type ProcessTurnInput struct {
	SessionID  string
	UserID     string
	ActionText string
}

// ProcessTurnOutput is the structured result of a turn
type ProcessTurnOutput struct {
	SessionID  string
	TurnNumber int

	// Success reports whether the turn committed. A rejected action
	// still returns normally with Success false and Reason set.
	Success bool
	Reason  string

	Action     *entities.Action
	Narrative  string
	Improvised bool

	Stats          entities.StatSnapshot
	Inventory      []string
	CurrentSection int
	InCombat       bool
	Combat         *entities.CombatEncounter

	GameOver bool
	Victory  bool

	UnlockedAchievements []string
	AudioCues            []audio.Cue
}

// GetSessionInput identifies the session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the loaded snapshot
type GetSessionOutput struct {
	Session   *entities.Session
	Character *entities.Character
}
