package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"holdem-server/internal/rng"
)

// ErrDeckExhausted is an error when Draw() is attempted and there are no more cards
// A correctly bounded hand never exhausts the deck, so callers treat this as an invariant violation
var ErrDeckExhausted = errors.New("deck exhausted")

// Size is the number of cards in a fresh deck
const Size = 52

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
	rng   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		rng: rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// SetGenerator will set the random generator used by Shuffle()
// This should only be used by tests and simulations that need a reproducible deal
func (d *Deck) SetGenerator(generator rng.Generator) {
	d.rng = generator
}

// SetSeed is a shortcut for SetGenerator(rng.Seeded(seed))
func (d *Deck) SetSeed(seed int64) {
	d.SetGenerator(rng.Seeded(seed))
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle rebuilds the full deck and performs a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	// we always want to shuffle from a complete deck
	d.buildDeck()

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw will draw the next card
// If there are no more cards, an ErrDeckExhausted is returned along with a zero card.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Burn discards the top card
func (d *Deck) Burn() error {
	_, err := d.Draw()
	return err
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
