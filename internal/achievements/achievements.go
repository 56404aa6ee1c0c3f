// Package achievements evaluates unlock conditions against the session
// snapshot. Evaluation is pure; the orchestrator stores new unlocks in
// the same save as the rest of the turn delta.
package achievements

import (
	"github.com/lcampanari/gamebook-api/internal/entities"
)

// Category groups achievements for display
type Category string

// Achievement categories
const (
	CategoryCombat      Category = "combat"
	CategoryExploration Category = "exploration"
	CategorySurvival    Category = "survival"
	CategoryCollection  Category = "collection"
	CategoryStory       Category = "story"
)

// Achievement is one unlockable condition
type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Points      int      `json:"points"`
	Hidden      bool     `json:"hidden"`

	unlocked func(*entities.Session, *entities.Character) bool
}

// All is the achievement table, evaluated in order
var All = []Achievement{
	{
		ID:          "first_blood",
		Name:        "Primeiro Sangue",
		Description: "Vença seu primeiro combate",
		Category:    CategoryCombat,
		Points:      10,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return s.CombatVictories() >= 1
		},
	},
	{
		ID:          "warrior",
		Name:        "Guerreiro",
		Description: "Vença 10 combates",
		Category:    CategoryCombat,
		Points:      30,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return s.CombatVictories() >= 10
		},
	},
	{
		ID:          "undefeated",
		Name:        "Invicto",
		Description: "Complete uma aventura sem morrer",
		Category:    CategoryCombat,
		Points:      50,
		unlocked: func(s *entities.Session, c *entities.Character) bool {
			return s.Status == entities.StatusCompleted && c.Stamina > 0
		},
	},
	{
		ID:          "lucky_survivor",
		Name:        "Sobrevivente Sortudo",
		Description: "Sobreviva a um combate com 1 de ENERGIA",
		Category:    CategorySurvival,
		Points:      25,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			for _, h := range s.History {
				if h.Stats.Stamina == 1 {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "explorer",
		Name:        "Explorador",
		Description: "Visite 20 seções diferentes",
		Category:    CategoryExploration,
		Points:      20,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return uniqueSections(s) >= 20
		},
	},
	{
		ID:          "completionist",
		Name:        "Completista",
		Description: "Visite 50 seções diferentes",
		Category:    CategoryExploration,
		Points:      40,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return uniqueSections(s) >= 50
		},
	},
	{
		ID:          "fast_runner",
		Name:        "Corredor",
		Description: "Complete uma aventura em menos de 30 turnos",
		Category:    CategoryExploration,
		Points:      35,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return s.Status == entities.StatusCompleted && len(s.History) < 30
		},
	},
	{
		ID:          "speedrunner",
		Name:        "Velocista",
		Description: "Complete uma aventura em menos de 15 turnos",
		Category:    CategoryExploration,
		Points:      60,
		Hidden:      true,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return s.Status == entities.StatusCompleted && len(s.History) < 15
		},
	},
	{
		ID:          "hoarder",
		Name:        "Acumulador",
		Description: "Tenha 10 itens no inventário",
		Category:    CategoryCollection,
		Points:      15,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return len(s.Inventory) >= 10
		},
	},
	{
		ID:          "rich",
		Name:        "Rico",
		Description: "Acumule 50 moedas de ouro",
		Category:    CategoryCollection,
		Points:      25,
		unlocked: func(_ *entities.Session, c *entities.Character) bool {
			return c.Gold >= 50
		},
	},
	{
		ID:          "first_adventure",
		Name:        "Primeira Aventura",
		Description: "Complete sua primeira aventura",
		Category:    CategoryStory,
		Points:      30,
		unlocked: func(s *entities.Session, _ *entities.Character) bool {
			return s.Status == entities.StatusCompleted
		},
	},
	{
		ID:          "iron_man",
		Name:        "Homem de Ferro",
		Description: "Complete uma aventura sem usar provisões",
		Category:    CategorySurvival,
		Points:      45,
		Hidden:      true,
		unlocked: func(s *entities.Session, c *entities.Character) bool {
			return s.Status == entities.StatusCompleted && countByType(s, "use_item") == 0
		},
	},
}

// Evaluate returns the IDs newly unlocked this turn, skipping anything
// already recorded on the session.
func Evaluate(session *entities.Session, character *entities.Character) []string {
	held := make(map[string]bool, len(session.Achievements))
	for _, id := range session.Achievements {
		held[id] = true
	}

	var unlocked []string
	for _, a := range All {
		if held[a.ID] {
			continue
		}
		if a.unlocked != nil && a.unlocked(session, character) {
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}

// ByID looks up an achievement definition
func ByID(id string) (Achievement, bool) {
	for _, a := range All {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func countByType(s *entities.Session, actionType string) int {
	count := 0
	for _, h := range s.History {
		if h.ActionType == actionType {
			count++
		}
	}
	return count
}

func uniqueSections(s *entities.Session) int {
	seen := make(map[int]bool, len(s.VisitedSections))
	for _, v := range s.VisitedSections {
		seen[v] = true
	}
	return len(seen)
}
