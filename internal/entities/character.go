package entities

import "time"

// Character holds the Fighting Fantasy style attribute block. Current values
// never go negative and never exceed their initial ceilings.
type Character struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Skill          int       `json:"skill"`
	Stamina        int       `json:"stamina"`
	Luck           int       `json:"luck"`
	InitialSkill   int       `json:"initial_skill"`
	InitialStamina int       `json:"initial_stamina"`
	InitialLuck    int       `json:"initial_luck"`
	Gold           int       `json:"gold"`
	Provisions     int       `json:"provisions"`
	Equipment      []string  `json:"equipment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StatSnapshot is the per-turn view of the character attributes
type StatSnapshot struct {
	Skill      int `json:"skill"`
	Stamina    int `json:"stamina"`
	Luck       int `json:"luck"`
	Gold       int `json:"gold"`
	Provisions int `json:"provisions"`
}

// Snapshot captures the current attribute values
func (c *Character) Snapshot() StatSnapshot {
	return StatSnapshot{
		Skill:      c.Skill,
		Stamina:    c.Stamina,
		Luck:       c.Luck,
		Gold:       c.Gold,
		Provisions: c.Provisions,
	}
}

// ApplyDelta adjusts a stat by delta, flooring at zero and capping current
// skill/stamina/luck at their initial ceilings.
func (c *Character) ApplyDelta(stat string, delta int) {
	clamp := func(v, ceiling int) int {
		if v < 0 {
			return 0
		}
		if ceiling > 0 && v > ceiling {
			return ceiling
		}
		return v
	}

	switch stat {
	case "skill":
		c.Skill = clamp(c.Skill+delta, c.InitialSkill)
	case "stamina":
		c.Stamina = clamp(c.Stamina+delta, c.InitialStamina)
	case "luck":
		c.Luck = clamp(c.Luck+delta, c.InitialLuck)
	case "gold":
		c.Gold = clamp(c.Gold+delta, 0)
	case "provisions":
		c.Provisions = clamp(c.Provisions+delta, 0)
	}
}
