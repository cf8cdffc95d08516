package texasholdem

import (
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
)

// ParticipantState represents the state of the table as seen from a seat
type ParticipantState struct {
	Actions      []action.Action  `json:"actions"`
	Participant  *participantJSON `json:"participant"`
	HandStrength string           `json:"handStrength"`
	GameState    *GameState       `json:"gameState"`
	PokerState   *poker.State     `json:"pokerState"`
}

// GameState represents the public state of the game
type GameState struct {
	Name         string             `json:"name"`
	HandNumber   int                `json:"handNumber"`
	DealerState  DealerState        `json:"dealerState"`
	Dealer       int                `json:"dealer"`
	Participants []*participantJSON `json:"participants"`
	CurrentTurn  int                `json:"currentTurn"`
	TurnID       uint64             `json:"turnId"`
	LastAction   *lastAction        `json:"lastAction"`
}

func (g *Game) getGameState() *GameState {
	p := make([]*participantJSON, len(g.participants))
	for i, pt := range g.participants {
		p[i] = pt.participantJSON(g, false)
	}

	currentTurn := -1
	if turn := g.CurrentTurn(); turn != nil {
		currentTurn = turn.Seat
	}

	return &GameState{
		Name:         g.Name(),
		HandNumber:   g.handNumber,
		DealerState:  g.dealerState,
		Dealer:       g.dealerIndex,
		Participants: p,
		CurrentTurn:  currentTurn,
		TurnID:       g.turnID,
		LastAction:   g.lastAction,
	}
}

// State returns the table as seen from viewerSeat
// Hole cards are only visible to their owner until they are shown down. Use a negative seat for a spectator
func (g *Game) State(viewerSeat int) *ParticipantState {
	var pjson *participantJSON
	var actions []action.Action
	var strength string
	if p, ok := g.Participant(viewerSeat); ok {
		// force reveal because it's for the current seat
		pjson = p.participantJSON(g, true)
		actions = g.ActionsForParticipant(viewerSeat)
		if hand, ok := g.HandStrength(viewerSeat); ok {
			strength = hand.String()
		}
	}

	return &ParticipantState{
		Actions:      actions,
		Participant:  pjson,
		HandStrength: strength,
		GameState:    g.getGameState(),
		PokerState:   g.getPokerState(),
	}
}

func (g *Game) getPokerState() *poker.State {
	return &poker.State{
		Phase:      g.phase,
		Pot:        g.potManager.Pot(),
		CurrentBet: g.potManager.GetBet(),
		MinRaise:   g.potManager.GetMinRaise(),
		BigBlind:   g.options.BigBlind,
		SmallBlind: g.options.SmallBlind,
		Community:  g.Community(),
	}
}
