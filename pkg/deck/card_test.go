package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_constants(t *testing.T) {
	assert.Equal(t, 11, Jack)
	assert.Equal(t, 12, Queen)
	assert.Equal(t, 13, King)
	assert.Equal(t, 14, Ace)
}

func TestCard_String(t *testing.T) {
	assert.Equal(t, "2♡", Card{Rank: 2, Suit: Hearts}.String())
	assert.Equal(t, "10♣", Card{Rank: 10, Suit: Clubs}.String())
	assert.Equal(t, "J♣", Card{Rank: 11, Suit: Clubs}.String())
	assert.Equal(t, "Q♢", Card{Rank: 12, Suit: Diamonds}.String())
	assert.Equal(t, "K♠", Card{Rank: 13, Suit: Spades}.String())
	assert.Equal(t, "A♠", Card{Rank: 14, Suit: Spades}.String())
}

func TestCard_Equality(t *testing.T) {
	a := assert.New(t)
	a.True(CardFromString("14s") == Card{Rank: Ace, Suit: Spades})
	a.False(CardFromString("14s") == CardFromString("14h"))
	a.False(CardFromString("13s") == CardFromString("14s"))
}

func TestCard_Color(t *testing.T) {
	a := assert.New(t)
	a.Equal(Red, CardFromString("2h").Color())
	a.Equal(Red, CardFromString("2d").Color())
	a.Equal(Black, CardFromString("2c").Color())
	a.Equal(Black, CardFromString("2s").Color())
}

func TestCard_AceLowRank(t *testing.T) {
	assert.Equal(t, 1, CardFromString("14c").AceLowRank())
	assert.Equal(t, 13, CardFromString("13c").AceLowRank())
}

func TestCard_IsValid(t *testing.T) {
	a := assert.New(t)
	a.True(CardFromString("2c").IsValid())
	a.False(Card{Rank: 1, Suit: Clubs}.IsValid())
	a.False(Card{Rank: 15, Suit: Clubs}.IsValid())
	a.False(Card{Rank: 5, Suit: "stars"}.IsValid())
}

func TestCardFromString(t *testing.T) {
	a := assert.New(t)
	a.Equal(Card{Rank: 10, Suit: Hearts}, CardFromString("10H"))
	a.PanicsWithValue("could not parse card: 1c", func() {
		CardFromString("1c")
	})
	a.PanicsWithValue("could not parse card: 5x", func() {
		CardFromString("5x")
	})

	a.Equal("14s,2c,10d", CardsToString(CardsFromString("14s, 2c,10d")))
	a.Equal([]Card{}, CardsFromString(""))
}
