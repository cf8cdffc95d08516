package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_HasCard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,4d"))
	assert.True(t, hand.HasCard(CardFromString("3c")))
	assert.False(t, hand.HasCard(CardFromString("3s")))
}

func TestHand_HasDuplicates(t *testing.T) {
	assert.False(t, Hand(CardsFromString("2c,3c,4d")).HasDuplicates())
	assert.True(t, Hand(CardsFromString("2c,3c,2c")).HasDuplicates())
}

func TestHand_AddCard(t *testing.T) {
	h := make(Hand, 0)
	h.AddCard(CardFromString("14s"))
	h.AddCard(CardFromString("3c"))
	assert.Equal(t, "14s,3c", h.String())
}

func TestHand_Sort(t *testing.T) {
	h := Hand(CardsFromString("3c,14s,3d,10h"))
	sort.Sort(h)
	assert.Equal(t, "14s,10h,3c,3d", h.String())
}

func TestHand_Clone(t *testing.T) {
	h := Hand(CardsFromString("3c,14s"))
	c := h.Clone()
	c[0] = CardFromString("2d")
	assert.Equal(t, "3c,14s", h.String())
}
