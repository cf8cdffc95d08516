package texasholdem

import (
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/bot"
	"holdem-server/pkg/playable/poker/handanalyzer"
)

// Action applies an action for the seat on the clock
// Actions that are not legal but have an obvious intent are normalized, i.e., a check while facing a bet is a fold
// amount is the raise-to amount and is ignored for every action except bet and raise
func (g *Game) Action(seat int, a action.Action, amount int) error {
	turn := g.CurrentTurn()
	if turn == nil {
		return ErrNoActionPending
	}

	if turn.Seat != seat {
		return ErrNotYourTurn
	}

	normalized, raiseTo, err := g.potManager.NormalizeAction(turn, a, amount)
	if err != nil {
		return err
	}

	switch normalized {
	case action.Fold:
		err = g.potManager.ParticipantFolds(turn)
	case action.Check:
		err = g.potManager.ParticipantChecks(turn)
	case action.Call:
		err = g.potManager.ParticipantCalls(turn)
	case action.Raise:
		err = g.potManager.ParticipantBetsOrRaises(turn, raiseTo)
	case action.AllIn:
		err = g.potManager.ParticipantGoesAllIn(turn)
	}

	if err != nil {
		return err
	}

	if err := g.checkInvariants(); err != nil {
		return err
	}

	g.turnID++
	g.lastAction = &lastAction{
		Action: normalized.String(),
		Seat:   seat,
		Amount: turn.roundBet,
	}

	g.log(seat, "{} %s", normalized.LogMessage(turn.roundBet))
	g.emit(BetPlaced{
		Meta:   g.newMeta(),
		Seat:   seat,
		Action: normalized,
		Amount: turn.roundBet,
		Pot:    g.potManager.Pot(),
	})

	g.afterAction()
	return nil
}

// Timeout forces an action for a seat that ran out of time
// The seat checks if it can, otherwise it folds. A turnID from an earlier turn is rejected with ErrStaleTurn
func (g *Game) Timeout(seat int, turnID uint64) error {
	if turnID != g.turnID {
		return ErrStaleTurn
	}

	turn := g.CurrentTurn()
	if turn == nil {
		return ErrStaleTurn
	}

	if turn.Seat != seat {
		return ErrNotYourTurn
	}

	g.logger.WithField("seat", seat).Info("seat timed out")
	if g.potManager.GetAmountOwed(turn) == 0 {
		return g.Action(seat, action.Check, 0)
	}

	return g.Action(seat, action.Fold, 0)
}

// BotDecision returns what the bot policy would do for the seat on the clock
// It does not change the game
func (g *Game) BotDecision(seat int) (bot.Decision, error) {
	turn := g.CurrentTurn()
	if turn == nil {
		return bot.Decision{}, ErrNoActionPending
	}

	if turn.Seat != seat {
		return bot.Decision{}, ErrNotYourTurn
	}

	return g.policy.Decide(g.botView(turn)), nil
}

// PlayBotTurn lets the bot policy act for whoever is on the clock
func (g *Game) PlayBotTurn() error {
	turn := g.CurrentTurn()
	if turn == nil {
		return ErrNoActionPending
	}

	decision, err := g.BotDecision(turn.Seat)
	if err != nil {
		return err
	}

	return g.Action(turn.Seat, decision.Action, decision.Amount)
}

func (g *Game) botView(p *Participant) bot.View {
	return bot.View{
		Hole:       p.cards.Clone(),
		Community:  g.community.Clone(),
		Phase:      g.phase,
		CurrentBet: g.potManager.GetBet(),
		Owed:       g.potManager.GetAmountOwed(p),
		Pot:        g.potManager.Pot(),
		Chips:      p.chips,
		MinRaise:   g.potManager.GetMinRaise(),
		BigBlind:   g.options.BigBlind,
	}
}

// HandStrength returns the best hand the seat can make with the cards showing
// The second value is false if the seat has no cards
func (g *Game) HandStrength(seat int) (handanalyzer.Hand, bool) {
	p, ok := g.Participant(seat)
	if !ok {
		return handanalyzer.HighCard, false
	}

	ha := p.getHandAnalyzer(g.community)
	if ha == nil {
		return handanalyzer.HighCard, false
	}

	return ha.GetHand(), true
}
