package entities

// ActionType classifies a player action
type ActionType string

// Action types, in classifier priority order
const (
	ActionPickup      ActionType = "pickup"
	ActionUseItem     ActionType = "use_item"
	ActionTalk        ActionType = "talk"
	ActionCombat      ActionType = "combat"
	ActionNavigation  ActionType = "navigation"
	ActionTestLuck    ActionType = "test_luck"
	ActionTestSkill   ActionType = "test_skill"
	ActionExamine     ActionType = "examine"
	ActionExploration ActionType = "exploration"
)

// Action is a classified player action
type Action struct {
	Raw        string     `json:"raw"`
	Type       ActionType `json:"type"`
	Target     string     `json:"target,omitempty"`
	Confidence float64    `json:"confidence"`
}
