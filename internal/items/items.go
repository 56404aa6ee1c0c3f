// Package items holds the item whitelist rules. The narrative generator
// can only hand out items the whitelist allows for the current section,
// which keeps invented loot out of the game state.
package items

import "strings"

// BaseItems are the character's starting gear. They are always
// considered available and can never be dropped.
var BaseItems = []string{"ESPADA", "MOCHILA", "LANTERNA"}

// GlobalItems can appear in any section regardless of the whitelist
var GlobalItems = []string{"MOEDAS_OURO", "PROVISÕES", "TOCHA", "CORDA"}

// MaxInventorySize bounds how many items a character can carry
const MaxInventorySize = 12

// Normalize converts a free-text item name to canonical form:
// upper case with underscores, e.g. "chave bronze" -> "CHAVE_BRONZE".
func Normalize(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// IsBase reports whether the item is starting gear
func IsBase(item string) bool {
	return contains(BaseItems, Normalize(item))
}

// Allowed merges a section's whitelist with the global items and
// returns the full set of items obtainable there, normalized.
func Allowed(sectionItems []string) []string {
	seen := make(map[string]bool, len(sectionItems)+len(GlobalItems))
	allowed := make([]string, 0, len(sectionItems)+len(GlobalItems))

	for _, item := range sectionItems {
		normalized := Normalize(item)
		if !seen[normalized] {
			seen[normalized] = true
			allowed = append(allowed, normalized)
		}
	}
	for _, item := range GlobalItems {
		if !seen[item] {
			seen[item] = true
			allowed = append(allowed, item)
		}
	}
	return allowed
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
