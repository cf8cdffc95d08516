package potmanager

import "holdem-server/pkg/playable/poker"

// Participant provides an interface for retrieving and adjusting a participants balance
type Participant interface {
	ID() int
	Balance() int
	AdjustBalance(amount int)
	Status() poker.Status
	SetStatus(status poker.Status)
	// SetAmountInPlay mirrors what the participant has wagered this round and this hand
	SetAmountInPlay(round, hand int)
}

// participantInPot is a participant in a pot
type participantInPot struct {
	Participant
	// tableIndex is where the player is seated at the table
	tableIndex int
	// amountInPlay keeps track of how much the player is risking on the current betting round
	amountInPlay int
	// amountInHand is everything the player has put in the pot this hand
	amountInHand int
}

// reset is called when the betting round is complete
func (p *participantInPot) reset() {
	p.amountInPlay = 0
	p.SetAmountInPlay(0, p.amountInHand)
}

func (p *participantInPot) adjustAmountInPlay(amount int) {
	p.amountInPlay += amount
	p.amountInHand += amount
	p.Participant.SetAmountInPlay(p.amountInPlay, p.amountInHand)
}

// canAct returns true if the participant can check, call, bet, raise, fold
func (p *participantInPot) canAct() bool {
	return p.Status().CanAct()
}

// inHand returns true if the participant can still win the pot
func (p *participantInPot) inHand() bool {
	return p.Status().InHand()
}
