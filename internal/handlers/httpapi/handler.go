// Package httpapi exposes the game service over HTTP. Handlers are
// transport only: decode, call the service, encode. No game logic.
package httpapi

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lcampanari/gamebook-api/internal/audio"
	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
	gamesvc "github.com/lcampanari/gamebook-api/internal/services/game"
)

// Config holds the dependencies for the HTTP handler
type Config struct {
	GameService gamesvc.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.GameService == nil {
		vb.RequiredField("GameService")
	}
	return vb.Build()
}

// Handler serves the game API
type Handler struct {
	game gamesvc.Service
}

// New creates the HTTP handler
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Handler{game: cfg.GameService}, nil
}

// RegisterRoutes mounts the API on the hertz server
func (h *Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api/v1")
	api.POST("/games", h.startGame)
	api.GET("/games/:id", h.getSession)
	api.POST("/games/:id/turns", h.processTurn)

	s.GET("/healthz", h.health)
}

type startGameRequest struct {
	UserID        string `json:"user_id"`
	BookID        string `json:"book_id"`
	BookTitle     string `json:"book_title"`
	CharacterName string `json:"character_name"`
	FinalSection  int    `json:"final_section,omitempty"`
}

type startGameResponse struct {
	SessionID      string                `json:"session_id"`
	CharacterID    string                `json:"character_id"`
	CharacterName  string                `json:"character_name"`
	Stats          entities.StatSnapshot `json:"stats"`
	CurrentSection int                   `json:"current_section"`
	Inventory      []string              `json:"inventory"`
}

type turnRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

type turnResponse struct {
	SessionID      string                    `json:"session_id"`
	TurnNumber     int                       `json:"turn_number"`
	Success        bool                      `json:"success"`
	Reason         string                    `json:"reason,omitempty"`
	ActionType     string                    `json:"action_type"`
	Target         string                    `json:"target,omitempty"`
	Narrative      string                    `json:"narrative"`
	Improvised     bool                      `json:"improvised"`
	Stats          entities.StatSnapshot     `json:"stats"`
	Inventory      []string                  `json:"inventory"`
	CurrentSection int                       `json:"current_section"`
	InCombat       bool                      `json:"in_combat"`
	Combat         *entities.CombatEncounter `json:"combat,omitempty"`
	GameOver       bool                      `json:"game_over"`
	Victory        bool                      `json:"victory"`
	Achievements   []string                  `json:"unlocked_achievements,omitempty"`
	AudioCues      []audio.Cue               `json:"audio_cues,omitempty"`
}

type sessionResponse struct {
	Session *entities.Session     `json:"session"`
	Stats   entities.StatSnapshot `json:"stats"`
}

func (h *Handler) startGame(c context.Context, ctx *app.RequestContext) {
	var body startGameRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, errors.InvalidArgument("invalid JSON body"))
		return
	}

	out, err := h.game.StartGame(c, &gamesvc.StartGameInput{
		UserID:        body.UserID,
		BookID:        body.BookID,
		BookTitle:     body.BookTitle,
		CharacterName: body.CharacterName,
		FinalSection:  body.FinalSection,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusCreated, startGameResponse{
		SessionID:      out.Session.ID,
		CharacterID:    out.Character.ID,
		CharacterName:  out.Character.Name,
		Stats:          out.Character.Snapshot(),
		CurrentSection: out.Session.CurrentSection,
		Inventory:      out.Session.Inventory,
	})
}

func (h *Handler) processTurn(c context.Context, ctx *app.RequestContext) {
	sessionID := ctx.Param("id")
	if sessionID == "" {
		writeError(ctx, errors.InvalidArgument("session ID is required"))
		return
	}

	var body turnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, errors.InvalidArgument("invalid JSON body"))
		return
	}

	out, err := h.game.ProcessTurn(c, &gamesvc.ProcessTurnInput{
		SessionID:  sessionID,
		UserID:     body.UserID,
		ActionText: body.Action,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp := turnResponse{
		SessionID:      out.SessionID,
		TurnNumber:     out.TurnNumber,
		Success:        out.Success,
		Reason:         out.Reason,
		Narrative:      out.Narrative,
		Improvised:     out.Improvised,
		Stats:          out.Stats,
		Inventory:      out.Inventory,
		CurrentSection: out.CurrentSection,
		InCombat:       out.InCombat,
		Combat:         out.Combat,
		GameOver:       out.GameOver,
		Victory:        out.Victory,
		Achievements:   out.UnlockedAchievements,
		AudioCues:      out.AudioCues,
	}
	if out.Action != nil {
		resp.ActionType = string(out.Action.Type)
		resp.Target = out.Action.Target
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h *Handler) getSession(c context.Context, ctx *app.RequestContext) {
	sessionID := ctx.Param("id")
	if sessionID == "" {
		writeError(ctx, errors.InvalidArgument("session ID is required"))
		return
	}

	out, err := h.game.GetSession(c, &gamesvc.GetSessionInput{SessionID: sessionID})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, sessionResponse{
		Session: out.Session,
		Stats:   out.Character.Snapshot(),
	})
}

func (h *Handler) health(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(ctx *app.RequestContext, err error) {
	code := errors.GetCode(err)
	ctx.JSON(code.HTTPStatus(), errorResponse{
		Code:    code.String(),
		Message: err.Error(),
	})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
