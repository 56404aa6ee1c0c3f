package items_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcampanari/gamebook-api/internal/items"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "CHAVE_BRONZE", items.Normalize("chave bronze"))
	assert.Equal(t, "ESPADA", items.Normalize("  espada "))
	assert.Equal(t, "POÇÃO_CURA", items.Normalize("poção cura"))
}

func TestAllowed(t *testing.T) {
	allowed := items.Allowed([]string{"chave bronze", "TOCHA"})

	assert.Contains(t, allowed, "CHAVE_BRONZE")
	assert.Contains(t, allowed, "MOEDAS_OURO")
	assert.Contains(t, allowed, "PROVISÕES")

	count := 0
	for _, item := range allowed {
		if item == "TOCHA" {
			count++
		}
	}
	assert.Equal(t, 1, count, "section item overlapping a global item is not duplicated")
}

func TestIsBase(t *testing.T) {
	assert.True(t, items.IsBase("espada"))
	assert.False(t, items.IsBase("ADAGA"))
}
