package texasholdem

import (
	"time"

	"github.com/google/uuid"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
)

// Meta is attached to every event
type Meta struct {
	ID         uuid.UUID `json:"id"`
	Time       time.Time `json:"time"`
	HandNumber int       `json:"handNumber"`
}

// Event is something that happened at the table
// Subscribers switch on the concrete type
type Event interface {
	Metadata() Meta
	Name() string
}

// EventHandler receives events in the order they happened
type EventHandler func(event Event)

// Metadata returns the event metadata
func (m Meta) Metadata() Meta {
	return m
}

// HandStarted is sent after the blinds are posted and the hole cards are dealt
type HandStarted struct {
	Meta
	Dealer     int   `json:"dealer"`
	SmallBlind int   `json:"smallBlind"`
	BigBlind   int   `json:"bigBlind"`
	Seats      []int `json:"seats"`
}

// SeatTurnChanged is sent when a new seat is on the clock
type SeatTurnChanged struct {
	Meta
	Seat     int    `json:"seat"`
	TurnID   uint64 `json:"turnId"`
	IsBot    bool   `json:"isBot"`
	Owed     int    `json:"owed"`
	MinRaise int    `json:"minRaise"`
}

// BetPlaced is sent after an action is applied
// Amount is what the seat has in play for the round after the action
type BetPlaced struct {
	Meta
	Seat   int           `json:"seat"`
	Action action.Action `json:"action"`
	Amount int           `json:"amount"`
	Pot    int           `json:"pot"`
}

// PhaseAdvanced is sent after community cards are revealed
type PhaseAdvanced struct {
	Meta
	Phase     poker.Phase `json:"phase"`
	Community deck.Hand   `json:"community"`
}

// SeatResult is how a single seat finished a hand
type SeatResult struct {
	Seat        int       `json:"seat"`
	Name        string    `json:"name"`
	Cards       deck.Hand `json:"cards"`
	Hand        string    `json:"hand"`
	Folded      bool      `json:"folded"`
	Contributed int       `json:"contributed"`
	Won         int       `json:"won"`
	Chips       int       `json:"chips"`
}

// HandWon is sent when the pot is awarded
// ByDefault is true when everybody else folded and nothing was shown
type HandWon struct {
	Meta
	Seat      int          `json:"seat"`
	Amount    int          `json:"amount"`
	Hand      string       `json:"hand"`
	BestFive  deck.Hand    `json:"bestFive"`
	ByDefault bool         `json:"byDefault"`
	Community deck.Hand    `json:"community"`
	Results   []SeatResult `json:"results"`
}

// HandAborted is sent when a hand cannot continue
type HandAborted struct {
	Meta
	Reason  string      `json:"reason"`
	Refunds map[int]int `json:"refunds"`
}

// PlayerEliminated is sent when a seat runs out of chips
type PlayerEliminated struct {
	Meta
	Seat int `json:"seat"`
}

// TournamentEnded is sent when fewer than two seats have chips
// Winner is -1 if no seat has chips
type TournamentEnded struct {
	Meta
	Winner int `json:"winner"`
}

// Name returns the event name
func (HandStarted) Name() string { return "handStarted" }

// Name returns the event name
func (SeatTurnChanged) Name() string { return "seatTurnChanged" }

// Name returns the event name
func (BetPlaced) Name() string { return "betPlaced" }

// Name returns the event name
func (PhaseAdvanced) Name() string { return "phaseAdvanced" }

// Name returns the event name
func (HandWon) Name() string { return "handWon" }

// Name returns the event name
func (HandAborted) Name() string { return "handAborted" }

// Name returns the event name
func (PlayerEliminated) Name() string { return "playerEliminated" }

// Name returns the event name
func (TournamentEnded) Name() string { return "tournamentEnded" }

// Subscribe registers a handler for every future event
// Handlers run synchronously on the goroutine that drives the game and must not call back into it
func (g *Game) Subscribe(handler EventHandler) {
	g.subscribers = append(g.subscribers, handler)
}

func (g *Game) newMeta() Meta {
	return Meta{
		ID:         uuid.New(),
		Time:       time.Now(),
		HandNumber: g.handNumber,
	}
}

func (g *Game) emit(event Event) {
	for _, handler := range g.subscribers {
		handler(event)
	}
}
