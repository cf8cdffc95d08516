package texasholdem

import (
	"encoding/json"
	"time"

	"holdem-server/pkg/playable/poker"
)

// DealerState represents the state of the game
type DealerState int

// constants for DealerState
// The order matters: every betting round is followed by the state that deals the next street
const (
	DealerStateStart DealerState = iota
	DealerStatePreFlopBettingRound
	DealerStateDealFlop
	DealerStateFlopBettingRound
	DealerStateDealTurn
	DealerStateTurnBettingRound
	DealerStateDealRiver
	DealerStateFinalBettingRound
	DealerStateRevealWinner
	DealerStateEnd
	DealerStateTournamentOver
	DealerStateWaiting
)

type pendingDealerState struct {
	NextState DealerState
	After     time.Time
}

func (g *Game) setPendingDealerState(nextState DealerState, after time.Duration) {
	if g.pendingDealerState != nil {
		panic("cannot set pending dealer state if one is already present")
	}

	g.dealerState = DealerStateWaiting
	g.pendingDealerState = &pendingDealerState{
		NextState: nextState,
		After:     time.Now().Add(after),
	}
}

// IsBettingRound returns true if seats are expected to act in this state
func (d DealerState) IsBettingRound() bool {
	switch d {
	case DealerStatePreFlopBettingRound, DealerStateFlopBettingRound, DealerStateTurnBettingRound, DealerStateFinalBettingRound:
		return true
	}

	return false
}

// phase returns the street a dealing state produces
func (d DealerState) phase() poker.Phase {
	switch d {
	case DealerStateDealFlop:
		return poker.PhaseFlop
	case DealerStateDealTurn:
		return poker.PhaseTurn
	case DealerStateDealRiver:
		return poker.PhaseRiver
	}

	return poker.PhasePreFlop
}

func (d DealerState) String() string {
	switch d {
	case DealerStateStart:
		return "start"
	case DealerStatePreFlopBettingRound:
		return "pre-flop-betting-round"
	case DealerStateDealFlop:
		return "deal-flop"
	case DealerStateFlopBettingRound:
		return "flop-betting-round"
	case DealerStateDealTurn:
		return "deal-turn"
	case DealerStateTurnBettingRound:
		return "turn-betting-round"
	case DealerStateDealRiver:
		return "deal-river"
	case DealerStateFinalBettingRound:
		return "final-betting-round"
	case DealerStateRevealWinner:
		return "reveal-winner"
	case DealerStateEnd:
		return "end"
	case DealerStateTournamentOver:
		return "tournament-over"
	case DealerStateWaiting:
		return "waiting"
	}

	return ""
}

// MarshalJSON encodes JSON
func (d DealerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(d),
		Name: d.String(),
	})
}
