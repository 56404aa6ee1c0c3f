package entities

// SectionContext is the authoritative ground truth for one gamebook
// section, retrieved from the book store. The narrator may only be fed
// facts that appear here.
type SectionContext struct {
	BookID        string      `json:"book_id"`
	Number        int         `json:"number"`
	Text          string      `json:"text"`
	Exits         []int       `json:"exits"`
	NPCs          []string    `json:"npcs"`
	Items         []string    `json:"items"`
	RequiredItems []string    `json:"required_items,omitempty"`
	Combat        *CombatSpec `json:"combat,omitempty"`
	Test          *TestSpec   `json:"test,omitempty"`
}

// CombatSpec declares the enemy waiting at a section
type CombatSpec struct {
	EnemyName    string `json:"enemy_name"`
	EnemySkill   int    `json:"enemy_skill"`
	EnemyStamina int    `json:"enemy_stamina"`
}

// TestSpec declares a luck or skill test attached to a section
type TestSpec struct {
	Kind     string `json:"kind"` // "luck" or "skill"
	Modifier int    `json:"modifier"`
	Required bool   `json:"required"`
}

// HasExit reports whether the section connects to the target
func (s *SectionContext) HasExit(target int) bool {
	for _, e := range s.Exits {
		if e == target {
			return true
		}
	}
	return false
}
