package narrative

import (
	"context"
	"strings"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

// staticNarratives are canned fallbacks per action type, used when the
// external narrator is unreachable. They echo the resolved facts so the
// player still learns what happened.
var staticNarratives = map[entities.ActionType]string{
	entities.ActionPickup:      "Você guarda o que encontrou e segue em frente.",
	entities.ActionUseItem:     "Você faz uso do que carrega.",
	entities.ActionTalk:        "A conversa é breve, mas você retém o essencial.",
	entities.ActionCombat:      "O aço encontra o aço. A luta segue seu curso.",
	entities.ActionNavigation:  "Você avança pelo caminho escolhido.",
	entities.ActionTestLuck:    "Você apela à sorte e aguarda o destino.",
	entities.ActionTestSkill:   "Você põe sua habilidade à prova.",
	entities.ActionExamine:     "Você observa com atenção os detalhes ao redor.",
	entities.ActionExploration: "Você explora os arredores com cautela.",
}

// Static is the no-model narrator: deterministic canned prose plus the
// resolved facts.
type Static struct{}

// NewStatic creates the fallback narrator
func NewStatic() *Static {
	return &Static{}
}

var _ Generator = (*Static)(nil)

// Generate renders the canned line for the action type
func (s *Static) Generate(_ context.Context, request *Request) (*Response, error) {
	if request == nil || request.Action == nil {
		return nil, errors.InvalidArgument("request and action are required")
	}

	parts := []string{staticNarratives[request.Action.Type]}
	if parts[0] == "" {
		parts[0] = staticNarratives[entities.ActionExploration]
	}
	parts = append(parts, request.Facts...)

	return &Response{
		Narrative:  strings.Join(parts, " "),
		Improvised: request.Section == nil,
	}, nil
}
