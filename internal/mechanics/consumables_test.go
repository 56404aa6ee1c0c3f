package mechanics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcampanari/gamebook-api/internal/entities"
	"github.com/lcampanari/gamebook-api/internal/errors"
)

func testCharacter() *entities.Character {
	return &entities.Character{
		Skill:          7,
		Stamina:        10,
		Luck:           9,
		InitialSkill:   9,
		InitialStamina: 20,
		InitialLuck:    10,
		Provisions:     3,
	}
}

func TestClassifyConsumable(t *testing.T) {
	testCases := []struct {
		item string
		kind ConsumableKind
		ok   bool
	}{
		{item: "PROVISÕES", kind: KindProvision, ok: true},
		{item: "POÇÃO_SORTE", kind: KindPotionLuck, ok: true},
		{item: "POÇÃO_HABILIDADE", kind: KindPotionSkill, ok: true},
		{item: "POÇÃO_CURA", kind: KindPotionStamina, ok: true},
		{item: "POÇÃO_FORÇA", kind: KindPotionStamina, ok: true},
		{item: "ESPADA", ok: false},
		{item: "CHAVE_BRONZE", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.item, func(t *testing.T) {
			kind, ok := ClassifyConsumable(tc.item)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.kind, kind)
			}
		})
	}
}

func TestConsume_Provision(t *testing.T) {
	c := testCharacter()

	result, err := Consume("PROVISÕES", c)
	require.NoError(t, err)

	assert.Equal(t, "stamina", result.Stat)
	assert.Equal(t, ProvisionStamina, result.Delta)
	assert.Equal(t, -1, result.ProvisionsDelta)
	assert.False(t, result.RemoveItem, "item stays while provisions remain")
}

func TestConsume_LastProvisionRemovesItem(t *testing.T) {
	c := testCharacter()
	c.Provisions = 1

	result, err := Consume("PROVISÕES", c)
	require.NoError(t, err)
	assert.True(t, result.RemoveItem)
}

func TestConsume_NoProvisionsLeft(t *testing.T) {
	c := testCharacter()
	c.Provisions = 0

	_, err := Consume("PROVISÕES", c)
	assert.True(t, errors.IsFailedPrecondition(err))
}

func TestConsume_StaminaCappedAtInitial(t *testing.T) {
	c := testCharacter()
	c.Stamina = 18 // ceiling 20, only 2 points of headroom

	result, err := Consume("POÇÃO_CURA", c)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Delta)
	assert.True(t, result.RemoveItem, "potions are single-use")
}

func TestConsume_LuckPotionCapped(t *testing.T) {
	c := testCharacter()
	c.Luck = 10 // already at ceiling

	result, err := Consume("POÇÃO_SORTE", c)
	require.NoError(t, err)

	assert.Equal(t, "luck", result.Stat)
	assert.Equal(t, 0, result.Delta)
}

func TestConsume_NonConsumable(t *testing.T) {
	_, err := Consume("ESPADA", testCharacter())
	assert.True(t, errors.IsInvalidArgument(err))
}
