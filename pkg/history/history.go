package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/texasholdem"
)

// Hand is a finished hand as stored in the history
type Hand struct {
	ID         uuid.UUID   `json:"id"`
	HandNumber int         `json:"handNumber"`
	Winner     int         `json:"winner"`
	Amount     int         `json:"amount"`
	Hand       string      `json:"hand"`
	BestFive   []deck.Card `json:"bestFive"`
	Community  []deck.Card `json:"community"`
	ByDefault  bool        `json:"byDefault"`
	Seats      []Seat      `json:"seats"`
	Created    time.Time   `json:"created"`
}

// Seat is how a seat finished a stored hand
type Seat struct {
	Seat        int         `json:"seat"`
	Name        string      `json:"name"`
	Cards       []deck.Card `json:"cards"`
	Hand        string      `json:"hand"`
	Folded      bool        `json:"folded"`
	Contributed int         `json:"contributed"`
	Won         int         `json:"won"`
	Chips       int         `json:"chips"`
}

// Store persists finished hands
type Store interface {
	SaveHand(ctx context.Context, hand *Hand) error
	RecentHands(ctx context.Context, limit int) ([]*Hand, error)
}

// NewHand converts a HandWon event into a stored hand
func NewHand(event texasholdem.HandWon) *Hand {
	meta := event.Metadata()
	h := &Hand{
		ID:         meta.ID,
		HandNumber: meta.HandNumber,
		Winner:     event.Seat,
		Amount:     event.Amount,
		Hand:       event.Hand,
		BestFive:   event.BestFive.Clone(),
		Community:  event.Community.Clone(),
		ByDefault:  event.ByDefault,
		Seats:      make([]Seat, len(event.Results)),
		Created:    meta.Time,
	}

	for i, result := range event.Results {
		h.Seats[i] = Seat{
			Seat:        result.Seat,
			Name:        result.Name,
			Cards:       result.Cards.Clone(),
			Hand:        result.Hand,
			Folded:      result.Folded,
			Contributed: result.Contributed,
			Won:         result.Won,
			Chips:       result.Chips,
		}
	}

	return h
}
