package poker

import (
	"fmt"

	"holdem-server/pkg/deck"
)

// Phase is the street a hand is on
// A hand only ever moves forward through the phases
type Phase int

// phase constants
const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	panic(fmt.Sprintf("unknown phase: %d", p))
}

// MarshalText renders the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// CommunityCards is the number of community cards showing once the phase has been dealt
func (p Phase) CommunityCards() int {
	switch p {
	case PhasePreFlop:
		return 0
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	}

	return 5
}

// Status is where a seat stands in the current hand
type Status int

// status constants
const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusOut:
		return "out"
	}

	panic(fmt.Sprintf("unknown status: %d", s))
}

// MarshalText renders the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InHand returns true if the seat can still win the pot
func (s Status) InHand() bool {
	return s == StatusActive || s == StatusAllIn
}

// CanAct returns true if the seat can still make decisions this hand
func (s Status) CanAct() bool {
	return s == StatusActive
}

// State provides the current state data for common poker values
type State struct {
	Phase      Phase     `json:"phase"`
	Pot        int       `json:"pot"`
	CurrentBet int       `json:"currentBet"`
	MinRaise   int       `json:"minRaise"`
	BigBlind   int       `json:"bigBlind"`
	SmallBlind int       `json:"smallBlind"`
	Community  deck.Hand `json:"community"`
}
