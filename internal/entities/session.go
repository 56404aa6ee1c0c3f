package entities

import "time"

// Status is the lifecycle state of a game session
type Status string

// Session statuses. Transitions are one-directional: active may move to
// paused, completed or dead; nothing moves back to active except paused.
const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusDead      Status = "dead"
)

// Session is one playthrough of a gamebook adventure. It is mutated only by
// the persisting stage of the turn state machine.
type Session struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	AdventureID     string           `json:"adventure_id"`
	CharacterID     string           `json:"character_id"`
	BookID          string           `json:"book_id"`
	CurrentSection  int              `json:"current_section"`
	FinalSection    int              `json:"final_section"`
	VisitedSections []int            `json:"visited_sections"`
	Inventory       []string         `json:"inventory"`
	Flags           map[string]any   `json:"flags"`
	History         []TurnRecord     `json:"history"`
	Status          Status           `json:"status"`
	Combat          *CombatEncounter `json:"combat,omitempty"`
	TurnNumber      int              `json:"turn_number"`
	Achievements    []string         `json:"achievements"`

	// Version is bumped on every save; the repository rejects saves whose
	// version does not match the stored one.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CombatEncounter exists only while a fight is in progress
type CombatEncounter struct {
	EnemyName    string `json:"enemy_name"`
	EnemySkill   int    `json:"enemy_skill"`
	EnemyStamina int    `json:"enemy_stamina"`
	RoundCount   int    `json:"round_count"`
}

// TurnRecord is an immutable history entry, appended once per committed turn
type TurnRecord struct {
	Turn       int          `json:"turn"`
	Action     string       `json:"action"`
	ActionType string       `json:"action_type"`
	Narrative  string       `json:"narrative"`
	Section    int          `json:"section"`
	Stats      StatSnapshot `json:"stats"`
	Timestamp  time.Time    `json:"timestamp"`
}

// InCombat reports whether the session has a live encounter
func (s *Session) InCombat() bool {
	return s.Combat != nil && s.Combat.EnemyStamina > 0
}

// Terminal reports whether the session can accept further turns
func (s *Session) Terminal() bool {
	return s.Status != StatusActive
}

// HasItem reports whether the inventory holds the normalized item
func (s *Session) HasItem(item string) bool {
	for _, held := range s.Inventory {
		if held == item {
			return true
		}
	}
	return false
}

// HasVisited reports whether the section was ever entered
func (s *Session) HasVisited(section int) bool {
	for _, v := range s.VisitedSections {
		if v == section {
			return true
		}
	}
	return false
}

// flagCombatVictories counts encounters the player actually won
const flagCombatVictories = "combat_victories"

// CombatVictories returns the number of encounters won so far. The
// flag value is a float64 after a JSON round trip, so both numeric
// forms are accepted.
func (s *Session) CombatVictories() int {
	switch v := s.Flags[flagCombatVictories].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// RecordCombatVictory bumps the victory counter
func (s *Session) RecordCombatVictory() {
	if s.Flags == nil {
		s.Flags = make(map[string]any)
	}
	s.Flags[flagCombatVictories] = s.CombatVictories() + 1
}

// CanTransition reports whether the status change is allowed
func (s *Session) CanTransition(to Status) bool {
	switch s.Status {
	case StatusActive:
		return to == StatusPaused || to == StatusCompleted || to == StatusDead
	case StatusPaused:
		return to == StatusActive
	default:
		return false
	}
}
