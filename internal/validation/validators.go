// Package validation contains one pure function per action intent. Each
// validator looks at the session, the character and the retrieved
// section and answers with a result carrying a machine-readable reason.
// Nothing in this package mutates state.
package validation

import (
	"strings"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/items"
)

// Reason codes returned on rejection (and the two advisory ones)
const (
	ReasonOK                    = "ok"
	ReasonItemNotAvailable      = "item_not_available"
	ReasonInventoryFull         = "inventory_full"
	ReasonAlreadyHaveItem       = "already_have_item"
	ReasonItemNotInInventory    = "item_not_in_inventory"
	ReasonItemNotUsableInCombat = "item_not_usable_in_combat"
	ReasonNoTarget              = "no_target"
	ReasonInvalidExit           = "invalid_exit"
	ReasonBackwardTooFar        = "backward_too_far"
	ReasonNPCNotPresent         = "npc_not_present"
	ReasonNotInCombat           = "not_in_combat"
	ReasonEnemyAlreadyDefeated  = "enemy_already_defeated"
	ReasonMissingRequiredItem   = "missing_required_item"
	ReasonNoLuckRemaining       = "no_luck_remaining"
	ReasonNoSkill               = "no_skill"
	ReasonOptionalTest          = "optional_test"
)

// BackwardWindow is how many sections behind the current one a player
// may still navigate to.
const BackwardWindow = 20

// Result is the outcome of validating a single action
type Result struct {
	Valid   bool
	Reason  string
	Message string // player-facing, in the book's language
}

func valid() Result {
	return Result{Valid: true, Reason: ReasonOK}
}

func invalid(reason, message string) Result {
	return Result{Valid: false, Reason: reason, Message: message}
}

// Pickup checks the target against the section whitelist plus global
// items, then inventory capacity and duplicates.
func Pickup(target string, section *entities.SectionContext, inventory []string) Result {
	item := items.Normalize(target)
	if !containsFold(items.Allowed(section.Items), item) {
		return invalid(ReasonItemNotAvailable, "Você não vê nenhum(a) "+target+" aqui.")
	}
	if len(inventory) >= items.MaxInventorySize {
		return invalid(ReasonInventoryFull, "Seu inventário está cheio! Solte algo primeiro.")
	}
	if containsFold(inventory, item) {
		return invalid(ReasonAlreadyHaveItem, "Você já tem "+target+".")
	}
	return valid()
}

// combatUsable are the item categories allowed mid-fight
var combatUsable = []string{"POÇÃO", "POCAO", "ELIXIR", "ESPADA", "ESCUDO", "ARCO", "FLECHA"}

// UseItem checks possession, and in combat restricts usage to potions
// and weapons.
func UseItem(target string, inventory []string, inCombat bool) Result {
	item := items.Normalize(target)
	if !containsFold(inventory, item) {
		return invalid(ReasonItemNotInInventory, "Você não tem "+target+".")
	}
	if inCombat && !containsAnySubstring(item, combatUsable) {
		return invalid(ReasonItemNotUsableInCombat, "Você não pode usar "+target+" durante o combate.")
	}
	return valid()
}

// Navigation checks the target section against the current exits and
// the backward window.
func Navigation(target int, hasTarget bool, section *entities.SectionContext, currentSection int) Result {
	if !hasTarget {
		return invalid(ReasonNoTarget, "Para onde você quer ir?")
	}
	if !section.HasExit(target) {
		return invalid(ReasonInvalidExit, "Não há caminho para lá daqui.")
	}
	if target < currentSection-BackwardWindow {
		return invalid(ReasonBackwardTooFar, "Você não pode voltar tanto na história.")
	}
	return valid()
}

// RequiredItems checks a target section's entry requirements against
// the inventory. Base gear always counts as held.
func RequiredItems(target *entities.SectionContext, inventory []string) Result {
	for _, required := range target.RequiredItems {
		item := items.Normalize(required)
		if items.IsBase(item) || containsFold(inventory, item) {
			continue
		}
		return invalid(ReasonMissingRequiredItem, "Você precisa de "+required+" para seguir por aqui.")
	}
	return valid()
}

// Talk checks the target against the NPCs present in the section
func Talk(target string, section *entities.SectionContext) Result {
	for _, npc := range section.NPCs {
		if strings.EqualFold(npc, target) {
			return valid()
		}
	}
	return invalid(ReasonNPCNotPresent, "Não há ninguém chamado "+target+" aqui.")
}

// Combat requires an active encounter with a living enemy
func Combat(encounter *entities.CombatEncounter) Result {
	if encounter == nil {
		return invalid(ReasonNotInCombat, "Não há ninguém para atacar aqui.")
	}
	if encounter.EnemyStamina <= 0 {
		return invalid(ReasonEnemyAlreadyDefeated, "O inimigo já foi derrotado.")
	}
	return valid()
}

// TestLuck requires luck above zero. When the section does not require
// the test the action is still valid, flagged optional_test.
func TestLuck(character *entities.Character, section *entities.SectionContext) Result {
	if character.Luck <= 0 {
		return invalid(ReasonNoLuckRemaining, "Sua SORTE está zerada! Você não pode testar sorte.")
	}
	if !testRequired(section, "luck") {
		return Result{Valid: true, Reason: ReasonOptionalTest, Message: "Você pode testar sua sorte, mas não é obrigatório aqui."}
	}
	return valid()
}

// TestSkill requires skill above zero, optional_test flagged the same way
func TestSkill(character *entities.Character, section *entities.SectionContext) Result {
	if character.Skill <= 0 {
		return invalid(ReasonNoSkill, "Sua HABILIDADE está zerada!")
	}
	if !testRequired(section, "skill") {
		return Result{Valid: true, Reason: ReasonOptionalTest, Message: ""}
	}
	return valid()
}

func testRequired(section *entities.SectionContext, kind string) bool {
	return section.Test != nil && section.Test.Kind == kind && section.Test.Required
}

func containsFold(list []string, item string) bool {
	for _, v := range list {
		if strings.EqualFold(v, item) {
			return true
		}
	}
	return false
}

func containsAnySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
