package mechanics

import (
	"strings"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

// ConsumableKind classifies an edible or drinkable item
type ConsumableKind string

// Consumable kinds
const (
	KindProvision     ConsumableKind = "provision"
	KindPotionLuck    ConsumableKind = "potion_luck"
	KindPotionSkill   ConsumableKind = "potion_skill"
	KindPotionStamina ConsumableKind = "potion_stamina"
)

// Consumable stat effects: provisions restore 4 stamina, potions restore
// 1 luck/skill or 4 stamina, always capped at the initial ceiling.
const (
	ProvisionStamina = 4
	PotionStatBonus  = 1
	PotionStamina    = 4
)

// ClassifyConsumable maps a normalized item name to its consumable kind.
// The second return is false for non-consumables (weapons, keys, ...).
func ClassifyConsumable(item string) (ConsumableKind, bool) {
	name := strings.ToUpper(strings.TrimSpace(item))

	switch {
	case strings.HasPrefix(name, "PROVIS"):
		return KindProvision, true
	case !strings.Contains(name, "POÇÃO") && !strings.Contains(name, "POCAO") && !strings.Contains(name, "ELIXIR"):
		return "", false
	case strings.Contains(name, "SORTE"):
		return KindPotionLuck, true
	case strings.Contains(name, "HABILIDADE"):
		return KindPotionSkill, true
	default:
		// Healing and strength draughts all restore stamina
		return KindPotionStamina, true
	}
}

// ConsumeResult describes the effect of consuming an item. The state
// machine applies it; nothing here mutates the character.
type ConsumeResult struct {
	Item            string
	Kind            ConsumableKind
	Stat            string
	Delta           int // already capped against the initial ceiling
	RemoveItem      bool
	ProvisionsDelta int
}

// Consume computes the effect of a consumable against the character's
// current stats. Potions are single-use and removed after consumption;
// eating provisions decrements the provision count instead.
func Consume(item string, c *entities.Character) (*ConsumeResult, error) {
	kind, ok := ClassifyConsumable(item)
	if !ok {
		return nil, errors.InvalidArgumentf("%s is not consumable", item)
	}

	capped := func(current, bonus, ceiling int) int {
		if current+bonus > ceiling {
			return ceiling - current
		}
		return bonus
	}

	result := &ConsumeResult{Item: item, Kind: kind}

	switch kind {
	case KindProvision:
		if c.Provisions <= 0 {
			return nil, errors.FailedPrecondition("no provisions left")
		}
		result.Stat = "stamina"
		result.Delta = capped(c.Stamina, ProvisionStamina, c.InitialStamina)
		result.ProvisionsDelta = -1
		result.RemoveItem = c.Provisions == 1
	case KindPotionLuck:
		result.Stat = "luck"
		result.Delta = capped(c.Luck, PotionStatBonus, c.InitialLuck)
		result.RemoveItem = true
	case KindPotionSkill:
		result.Stat = "skill"
		result.Delta = capped(c.Skill, PotionStatBonus, c.InitialSkill)
		result.RemoveItem = true
	case KindPotionStamina:
		result.Stat = "stamina"
		result.Delta = capped(c.Stamina, PotionStamina, c.InitialStamina)
		result.RemoveItem = true
	}

	return result, nil
}
