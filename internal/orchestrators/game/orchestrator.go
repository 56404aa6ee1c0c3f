// Package game implements the turn-processing orchestrator: the state
// machine that ties classification, validation, mechanics, retrieval,
// narration and persistence into one serialized turn per session.
package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/items"
	"github.com/lcampanari/gamebook-api/internal/mechanics"
	"github.com/lcampanari/gamebook-api/internal/narrative"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	"github.com/lcampanari/gamebook-api/internal/pkg/idgen"
	sessionrepo "github.com/lcampanari/gamebook-api/internal/repositories/session"
	"github.com/lcampanari/gamebook-api/internal/retriever"
	gamesvc "github.com/lcampanari/gamebook-api/internal/services/game"
)

const (
	startingSection     = 1
	defaultFinalSection = 400
	startingProvisions  = 10

	defaultNarrationTimeout = 30 * time.Second
)

// Config holds the dependencies for the game orchestrator
type Config struct {
	SessionRepo sessionrepo.Repository
	Retriever   retriever.Retriever
	Engine      *mechanics.Engine
	Generator   narrative.Generator
	Fallback    narrative.Generator // used when the main generator fails
	Clock       clock.Clock
	IDGen       idgen.Generator
	CharIDGen   idgen.Generator

	// NarrationTimeout bounds each narration call. Zero means the
	// default of 30 seconds.
	NarrationTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Retriever == nil {
		vb.RequiredField("Retriever")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}
	if c.CharIDGen == nil {
		vb.RequiredField("CharIDGen")
	}

	return vb.Build()
}

// Orchestrator implements the game.Service interface
type Orchestrator struct {
	sessionRepo      sessionrepo.Repository
	retriever        retriever.Retriever
	engine           *mechanics.Engine
	generator        narrative.Generator
	fallback         narrative.Generator
	clock            clock.Clock
	idGen            idgen.Generator
	charIDGen        idgen.Generator
	narrationTimeout time.Duration

	// locks serializes turns per session
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a new game orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	fallback := cfg.Fallback
	if fallback == nil {
		fallback = narrative.NewStatic()
	}
	timeout := cfg.NarrationTimeout
	if timeout == 0 {
		timeout = defaultNarrationTimeout
	}

	return &Orchestrator{
		sessionRepo:      cfg.SessionRepo,
		retriever:        cfg.Retriever,
		engine:           cfg.Engine,
		generator:        cfg.Generator,
		fallback:         fallback,
		clock:            cfg.Clock,
		idGen:            cfg.IDGen,
		charIDGen:        cfg.CharIDGen,
		narrationTimeout: timeout,
		locks:            make(map[string]*sync.Mutex),
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ gamesvc.Service = (*Orchestrator)(nil)

// StartGame rolls a character with the standard attribute dice and
// opens the session at the book's first section.
func (o *Orchestrator) StartGame(ctx context.Context, input *gamesvc.StartGameInput) (*gamesvc.StartGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.UserID == "" {
		vb.RequiredField("UserID")
	}
	if input.BookID == "" {
		vb.RequiredField("BookID")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	skill, err := o.engine.RollDice("1d6+6")
	if err != nil {
		return nil, err
	}
	stamina, err := o.engine.RollDice("2d6+12")
	if err != nil {
		return nil, err
	}
	luck, err := o.engine.RollDice("1d6+6")
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	character := &entities.Character{
		ID:             o.charIDGen.Generate(),
		UserID:         input.UserID,
		Name:           input.CharacterName,
		Skill:          skill.Total,
		Stamina:        stamina.Total,
		Luck:           luck.Total,
		InitialSkill:   skill.Total,
		InitialStamina: stamina.Total,
		InitialLuck:    luck.Total,
		Provisions:     startingProvisions,
		Equipment:      append([]string{}, items.BaseItems...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	finalSection := input.FinalSection
	if finalSection == 0 {
		finalSection = defaultFinalSection
	}

	inventory := append([]string{}, items.BaseItems...)
	inventory = append(inventory, "PROVISÕES")

	session := &entities.Session{
		ID:              o.idGen.Generate(),
		UserID:          input.UserID,
		AdventureID:     input.BookTitle,
		CharacterID:     character.ID,
		BookID:          input.BookID,
		CurrentSection:  startingSection,
		FinalSection:    finalSection,
		VisitedSections: []int{startingSection},
		Inventory:       inventory,
		Flags:           map[string]any{},
		Status:          entities.StatusActive,
	}

	out, err := o.sessionRepo.Create(ctx, sessionrepo.CreateInput{
		Session:   session,
		Character: character,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("game started",
		"session_id", out.Session.ID,
		"user_id", input.UserID,
		"book_id", input.BookID,
		"skill", character.Skill,
		"stamina", character.Stamina,
		"luck", character.Luck,
	)

	return &gamesvc.StartGameOutput{
		Session:   out.Session,
		Character: character,
	}, nil
}

// GetSession returns the current session snapshot
func (o *Orchestrator) GetSession(ctx context.Context, input *gamesvc.GetSessionInput) (*gamesvc.GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	return &gamesvc.GetSessionOutput{
		Session:   out.Session,
		Character: out.Character,
	}, nil
}

// sessionLock returns the mutex serializing turns for one session
func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()

	mu, ok := o.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		o.locks[sessionID] = mu
	}
	return mu
}

// dropSessionLock removes the mutex of a session that accepts no more
// turns, so the lock table does not grow with every finished game.
// Late callers racing the drop get a fresh mutex, which is safe since
// terminal sessions are rejected before any state is touched.
func (o *Orchestrator) dropSessionLock(sessionID string) {
	o.locksMu.Lock()
	delete(o.locks, sessionID)
	o.locksMu.Unlock()
}
