// Package bot chooses actions for computer-controlled seats
//
// A bot only ever sees a View of the table and returns a Decision. The game applies the decision
// through the same path as a human action, including normalization.
package bot

import (
	"math"
	"time"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/handanalyzer"
)

// View is what a bot can see when it is asked to act
type View struct {
	Hole       deck.Hand
	Community  deck.Hand
	Phase      poker.Phase
	CurrentBet int
	Owed       int
	Pot        int
	Chips      int
	MinRaise   int
	BigBlind   int
}

// Decision is the action a bot intends to take
// Amount is the raise-to amount and is ignored for every other action
type Decision struct {
	Action action.Action `json:"action"`
	Amount int           `json:"amount"`
}

// Policy decides what a bot does
type Policy interface {
	Decide(view View) Decision
}

// RuleBot plays a fixed strategy: a Chen score before the flop and the made hand after it
type RuleBot struct {
	rng rng.Generator
}

// NewRuleBot returns a RuleBot that draws its randomness from generator
func NewRuleBot(generator rng.Generator) *RuleBot {
	if generator == nil {
		generator = rng.Crypto{}
	}

	return &RuleBot{rng: generator}
}

// percent chances
const (
	preFlopBluffChance  = 5
	postFlopBluffChance = 10
)

// Decide implements Policy
func (b *RuleBot) Decide(view View) Decision {
	if len(view.Hole) != 2 {
		return b.decision(view, action.Check)
	}

	if view.Phase == poker.PhasePreFlop {
		return b.decision(view, b.decidePreFlop(view))
	}

	return b.decision(view, b.decidePostFlop(view))
}

func (b *RuleBot) decidePreFlop(view View) action.Action {
	score := Chen(view.Hole[0], view.Hole[1])

	switch {
	case score >= 10:
		return action.Raise
	case score >= 8:
		if view.Owed > view.BigBlind*3 {
			return action.Call
		}

		return action.Raise
	case score >= 6:
		return action.Call
	}

	if view.Owed == 0 {
		return action.Check
	}

	if b.chance(preFlopBluffChance) {
		return action.Raise
	}

	return action.Fold
}

func (b *RuleBot) decidePostFlop(view View) action.Action {
	cards := make([]deck.Card, 0, len(view.Hole)+len(view.Community))
	cards = append(cards, view.Hole...)
	cards = append(cards, view.Community...)

	ha, err := handanalyzer.New(cards)
	if err != nil {
		// the game never shows a bot an impossible board
		return action.Fold
	}

	switch hand := ha.GetHand(); {
	case hand >= handanalyzer.TwoPair:
		return action.Raise
	case hand == handanalyzer.OnePair:
		if view.Owed*2 > view.Pot {
			return action.Call
		}

		return action.Raise
	}

	if view.Owed == 0 {
		return action.Check
	}

	if b.chance(postFlopBluffChance) {
		return action.Raise
	}

	if view.Owed*10 < view.Pot {
		return action.Call
	}

	return action.Fold
}

// decision finalizes the intent
// a check that is not free becomes a fold and a call that is free becomes a check
func (b *RuleBot) decision(view View, a action.Action) Decision {
	switch a {
	case action.Check:
		if view.Owed > 0 {
			a = action.Fold
		}
	case action.Call:
		if view.Owed == 0 {
			a = action.Check
		}
	case action.Raise:
		return Decision{Action: a, Amount: view.CurrentBet + b.raiseSize(view)}
	}

	return Decision{Action: a}
}

// raiseSize is the larger of the minimum raise and two and a half big blinds, plus up to one big blind
func (b *RuleBot) raiseSize(view View) int {
	size := view.MinRaise - view.CurrentBet
	if standard := view.BigBlind * 5 / 2; standard > size {
		size = standard
	}

	if view.BigBlind > 0 {
		size += b.rng.Intn(view.BigBlind)
	}

	return size
}

func (b *RuleBot) chance(percent int) bool {
	return b.rng.Intn(100) < percent
}

// Chen scores two hole cards with the Chen formula
// The strongest hand (a pair of aces) scores 20, the weakest scores -1
func Chen(c1, c2 deck.Card) int {
	high, low := c1, c2
	if low.Rank > high.Rank {
		high, low = low, high
	}

	score := chenCardValue(high.Rank)
	if high.Rank == low.Rank {
		score *= 2
		if score < 5 {
			score = 5
		}

		return int(math.Ceil(score))
	}

	if high.Suit == low.Suit {
		score += 2
	}

	gap := high.Rank - low.Rank - 1
	switch {
	case gap == 1:
		score--
	case gap == 2:
		score -= 2
	case gap == 3:
		score -= 4
	case gap >= 4:
		score -= 5
	}

	if gap <= 1 && high.Rank < deck.Queen {
		score++
	}

	return int(math.Ceil(score))
}

func chenCardValue(rank int) float64 {
	switch rank {
	case deck.Ace:
		return 10
	case deck.King:
		return 8
	case deck.Queen:
		return 7
	case deck.Jack:
		return 6
	}

	return float64(rank) / 2
}

// ThinkTime picks a delay between min and max for a bot to appear to think
func ThinkTime(generator rng.Generator, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}

	return min + time.Duration(generator.Intn(int(max-min)))
}
