package texasholdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/handanalyzer"
)

type result string

const (
	resultPending result = ""
	resultFolded  result = "folded"
	resultLost    result = "lost"
	resultWon     result = "won"
)

// Seat configures a seat at the table
type Seat struct {
	Name  string `yaml:"name"`
	Bot   bool   `yaml:"bot"`
	Chips int    `yaml:"chips"`
}

// Participant represents an individual seat in Texas Hold'em
// A participant stays at the table for the whole tournament, even after they are eliminated
type Participant struct {
	Seat  int
	Name  string
	IsBot bool

	chips  int
	cards  deck.Hand
	status poker.Status

	// roundBet and handBet mirror the pot manager's bookkeeping
	roundBet int
	handBet  int

	reveal   bool
	result   result
	winnings int

	handAnalyzer         *handanalyzer.HandAnalyzer
	handAnalyzerCacheKey string
}

type participantJSON struct {
	Seat     int          `json:"seat"`
	Name     string       `json:"name"`
	IsBot    bool         `json:"isBot"`
	Chips    int          `json:"chips"`
	Cards    deck.Hand    `json:"cards"`
	Status   poker.Status `json:"status"`
	Bet      int          `json:"currentBet"`
	HandBet  int          `json:"handBet"`
	Hand     string       `json:"hand"`
	Result   result       `json:"result"`
	Winnings int          `json:"winnings"`
}

func newParticipant(seat int, cfg Seat) *Participant {
	status := poker.StatusActive
	if cfg.Chips <= 0 {
		status = poker.StatusOut
	}

	return &Participant{
		Seat:   seat,
		Name:   cfg.Name,
		IsBot:  cfg.Bot,
		chips:  cfg.Chips,
		cards:  make(deck.Hand, 0, 2),
		status: status,
	}
}

// Chips returns the participant's stack
func (p *Participant) Chips() int {
	return p.chips
}

// Cards returns the hole cards
func (p *Participant) Cards() deck.Hand {
	return p.cards.Clone()
}

// newHand resets the participant for a new hand
func (p *Participant) newHand() {
	p.cards = make(deck.Hand, 0, 2)
	p.roundBet = 0
	p.handBet = 0
	p.reveal = false
	p.result = resultPending
	p.winnings = 0
	p.handAnalyzer = nil
	p.handAnalyzerCacheKey = ""

	if p.chips <= 0 {
		p.status = poker.StatusOut
	} else {
		p.status = poker.StatusActive
	}
}

// getHandAnalyzer returns the analysis of the hole cards with the community cards
// Returns nil if the participant has no cards
func (p *Participant) getHandAnalyzer(community deck.Hand) *handanalyzer.HandAnalyzer {
	if len(p.cards) == 0 {
		return nil
	}

	hand := make([]deck.Card, 0, len(p.cards)+len(community))
	hand = append(hand, p.cards...)
	hand = append(hand, community...)

	key := deck.CardsToString(hand)
	if p.handAnalyzerCacheKey != key {
		ha, err := handanalyzer.New(hand)
		if err != nil {
			return nil
		}

		p.handAnalyzer = ha
		p.handAnalyzerCacheKey = key
	}

	return p.handAnalyzer
}

func (p *Participant) participantJSON(game *Game, forceReveal bool) *participantJSON {
	var cards deck.Hand
	var hand string
	if forceReveal || (p.reveal && p.status.InHand()) {
		cards = p.cards

		if ha := p.getHandAnalyzer(game.community); ha != nil {
			hand = ha.GetHand().String()
		}
	}

	return &participantJSON{
		Seat:     p.Seat,
		Name:     p.Name,
		IsBot:    p.IsBot,
		Chips:    p.chips,
		Cards:    cards,
		Status:   p.status,
		Bet:      p.roundBet,
		HandBet:  p.handBet,
		Hand:     hand,
		Result:   p.result,
		Winnings: p.winnings,
	}
}

// ActionsForParticipant return the actions the seat can take if they are on the clock
func (g *Game) ActionsForParticipant(seat int) []action.Action {
	turn := g.CurrentTurn()
	if turn == nil || turn.Seat != seat {
		return nil
	}

	owed := g.potManager.GetAmountOwed(turn)
	actions := make([]action.Action, 0, 4)
	if owed == 0 {
		actions = append(actions, action.Check)
	} else if turn.chips > owed {
		actions = append(actions, action.Call)
	}

	if turn.chips > owed && g.potManager.GetCanActParticipantCount() > 1 {
		actions = append(actions, action.Raise)
	}

	actions = append(actions, action.AllIn)
	if owed > 0 {
		actions = append(actions, action.Fold)
	}

	return actions
}

// potmanager.Participant interface

// ID returns the seat
func (p *Participant) ID() int {
	return p.Seat
}

// Balance returns the chips behind
func (p *Participant) Balance() int {
	return p.chips
}

// AdjustBalance moves chips into or out of the stack
func (p *Participant) AdjustBalance(amount int) {
	p.chips += amount
}

// Status returns the hand status
func (p *Participant) Status() poker.Status {
	return p.status
}

// SetStatus sets the hand status
func (p *Participant) SetStatus(status poker.Status) {
	p.status = status
}

// SetAmountInPlay mirrors the contributions for the round and the hand
func (p *Participant) SetAmountInPlay(round, hand int) {
	p.roundBet = round
	p.handBet = hand
}
