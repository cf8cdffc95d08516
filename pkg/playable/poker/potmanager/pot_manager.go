package potmanager

import (
	"errors"
	"fmt"

	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
)

// ParticipantError is an error that happened because of a participant error
type ParticipantError string

func (p ParticipantError) Error() string {
	return string(p)
}

func newParticipantError(format string, a ...interface{}) ParticipantError {
	return ParticipantError(fmt.Sprintf(format, a...))
}

// ErrRoundOver is an error when the round is over
var ErrRoundOver = errors.New("round is over")

// ErrRoundNotOver is an error when the next round is requested while participants still owe an action
var ErrRoundNotOver = errors.New("round is not over")

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// ErrParticipantCannotAct is an error when the participant cannot act
var ErrParticipantCannotAct = ParticipantError("it is not your turn")

// ErrInvalidAmount is an error when a negative amount is wagered
var ErrInvalidAmount = ParticipantError("amount cannot be negative")

// PotManager keeps track of a single pot and the betting round currently in progress
//
// Round closure is tracked with an explicit set of seats that still owe an action. The set is
// refilled when a round opens and on every bet increase, and it shrinks as each seat acts. The
// round is over when the set is empty.
type PotManager struct {
	participants map[int]*participantInPot
	tableOrder   []*participantInPot
	bigBlind     int
	pot          int

	// currentBet is the highest amount committed this round
	currentBet int
	// raiseIncrement is the size of the last full bet or raise this round
	raiseIncrement int
	// owes holds the table indexes of participants who still need to act
	owes map[int]bool
	// actionAtIndex is who is currently making a decision, -1 if nobody is
	actionAtIndex int
}

// New instantiates a new PotManager
func New(bigBlind int) *PotManager {
	return &PotManager{
		participants:   make(map[int]*participantInPot),
		tableOrder:     make([]*participantInPot, 0),
		bigBlind:       bigBlind,
		raiseIncrement: bigBlind,
		owes:           make(map[int]bool),
		actionAtIndex:  -1,
	}
}

// SeatParticipant adds a participant to the table in the order called
// This method must be called in order of the players
func (p *PotManager) SeatParticipant(pt Participant) error {
	if pt.Balance() <= 0 {
		return errors.New("cannot seat participant without a balance")
	}

	if _, ok := p.participants[pt.ID()]; ok {
		return fmt.Errorf("participant %d is already seated", pt.ID())
	}

	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)
	pip.SetAmountInPlay(0, 0)

	return nil
}

// PostBlind puts a forced bet in for the participant
// A blind never counts as the participant's action for the round. A participant who cannot cover
// the blind is all-in for what they have
func (p *PotManager) PostBlind(pt Participant, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	pip, ok := p.participants[pt.ID()]
	if !ok {
		return ErrParticipantNotFound
	}

	if !pip.canAct() {
		return fmt.Errorf("participant %d cannot post a blind", pt.ID())
	}

	p.adjustParticipant(pip, pip.amountInPlay+amount)
	if amount > p.currentBet {
		p.currentBet = amount
	}

	return nil
}

// OpenRound starts the action on the first participant at or after pt who still owes an action
// Every participant who can act owes an action when a round opens
func (p *PotManager) OpenRound(pt Participant) error {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return ErrParticipantNotFound
	}

	p.owes = make(map[int]bool)
	for _, other := range p.tableOrder {
		if other.canAct() {
			p.owes[other.tableIndex] = true
		}
	}

	p.actionAtIndex = -1
	p.advanceFrom(pip.tableIndex)
	return nil
}

// ParticipantFolds handles a fold
func (p *PotManager) ParticipantFolds(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	pip.SetStatus(poker.StatusFolded)
	p.completeTurn(pip)
	return nil
}

// ParticipantChecks handles a check
func (p *PotManager) ParticipantChecks(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if pip.amountInPlay != p.currentBet {
		return newParticipantError("you cannot check with an active bet")
	}

	p.completeTurn(pip)
	return nil
}

// ParticipantCalls handles a call
// A participant who cannot cover the call is all-in for what they have
func (p *PotManager) ParticipantCalls(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if p.currentBet <= pip.amountInPlay {
		return newParticipantError("you cannot call without an active bet")
	}

	p.adjustParticipant(pip, p.currentBet)
	p.completeTurn(pip)
	return nil
}

// ParticipantBetsOrRaises will place a bet or a raise for a participant
// newBetOrRaise is the total amount the participant will have in play this round
func (p *PotManager) ParticipantBetsOrRaises(pt Participant, newBetOrRaise int) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if newBetOrRaise <= p.currentBet {
		return newParticipantError("your raise of ${%d} must be greater than the previous bet of ${%d}", newBetOrRaise, p.currentBet)
	}

	total := pip.amountInPlay + pip.Balance()
	if newBetOrRaise > total {
		return newParticipantError("your raise of ${%d} exceeds your stack of ${%d}", newBetOrRaise, total)
	}

	if minRaise := p.GetMinRaise(); newBetOrRaise < minRaise && newBetOrRaise != total {
		return newParticipantError("your raise must be at least ${%d}", minRaise)
	}

	p.raiseTo(pip, newBetOrRaise)
	p.completeTurn(pip)
	return nil
}

// ParticipantGoesAllIn puts the participant's entire balance in play
// This is a raise when it exceeds the current bet, otherwise a (possibly partial) call
func (p *PotManager) ParticipantGoesAllIn(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	total := pip.amountInPlay + pip.Balance()
	if total > p.currentBet {
		p.raiseTo(pip, total)
	} else {
		p.adjustParticipant(pip, total)
	}

	p.completeTurn(pip)
	return nil
}

func (p *PotManager) raiseTo(pip *participantInPot, amount int) {
	if increment := amount - p.currentBet; increment >= p.raiseIncrement {
		p.raiseIncrement = increment
	}

	p.currentBet = amount
	p.adjustParticipant(pip, amount)

	// a bet increase reopens the action for everybody else who can still act
	p.owes = make(map[int]bool)
	for _, other := range p.tableOrder {
		if other != pip && other.canAct() {
			p.owes[other.tableIndex] = true
		}
	}
}

// adjustParticipant moves chips into play until the participant has {target} in play this round
func (p *PotManager) adjustParticipant(pip *participantInPot, target int) {
	adjustment := target - pip.amountInPlay
	if adjustment >= pip.Balance() {
		adjustment = pip.Balance()
		pip.SetStatus(poker.StatusAllIn)
	}

	p.pot += adjustment
	pip.Participant.AdjustBalance(-1 * adjustment)
	pip.adjustAmountInPlay(adjustment)
}

// completeTurn must be called after a participant bets, raises, checks, calls, or folds
func (p *PotManager) completeTurn(pip *participantInPot) {
	delete(p.owes, pip.tableIndex)

	// a single participant left in the hand has nobody to act against
	if p.GetLiveParticipantCount() < 2 {
		p.owes = make(map[int]bool)
	}

	p.advanceFrom(pip.tableIndex + 1)
}

// advanceFrom moves the action to the first owing participant at or clockwise of index
func (p *PotManager) advanceFrom(index int) {
	p.actionAtIndex = -1
	n := len(p.tableOrder)
	for i := 0; i < n; i++ {
		check := (index + i) % n
		if p.owes[check] && p.tableOrder[check].canAct() {
			p.actionAtIndex = check
			return
		}

		// the participant can no longer act, so they no longer owe anything
		delete(p.owes, check)
	}
}

// NormalizeAction maps an intended action to the nearest legal action for the participant
//
//   - bet is treated as a raise
//   - fold with nothing owed becomes check, check with something owed becomes fold
//   - raise when nobody else can act, or to an amount at or under the current bet, becomes call
//   - raise under the minimum raise is increased to the minimum raise
//   - raise the participant cannot cover becomes all-in
//   - all-in when nobody else can act becomes call
//   - call with nothing owed becomes check, call the participant cannot cover becomes all-in
//
// The returned amount is the raise-to amount for a raise and zero otherwise
func (p *PotManager) NormalizeAction(pt Participant, a action.Action, amount int) (action.Action, int, error) {
	if amount < 0 {
		return a, 0, ErrInvalidAmount
	}

	pip, ok := p.participants[pt.ID()]
	if !ok {
		return a, 0, ErrParticipantNotFound
	}

	if !a.IsValid() {
		return a, 0, newParticipantError("unknown action: %s", string(a))
	}

	owed := p.currentBet - pip.amountInPlay
	total := pip.amountInPlay + pip.Balance()
	othersCanAct := p.GetCanActParticipantCount()
	if pip.canAct() {
		othersCanAct--
	}

	if a == action.Bet {
		a = action.Raise
	}

	if a == action.AllIn && othersCanAct == 0 && total > p.currentBet {
		a = action.Call
	}

	if a == action.Raise {
		switch {
		case othersCanAct == 0, amount <= p.currentBet:
			a = action.Call
		default:
			if minRaise := p.GetMinRaise(); amount < minRaise {
				amount = minRaise
			}

			if amount >= total {
				a = action.AllIn
			}
		}
	}

	switch a {
	case action.Fold:
		if owed <= 0 {
			a = action.Check
		}
	case action.Check:
		if owed > 0 {
			a = action.Fold
		}
	case action.Call:
		if owed <= 0 {
			a = action.Check
		} else if pip.Balance() <= owed {
			a = action.AllIn
		}
	}

	if a != action.Raise {
		amount = 0
	}

	return a, amount, nil
}

// GetBet returns the current bet
func (p *PotManager) GetBet() int {
	return p.currentBet
}

// GetMinRaise returns the smallest legal raise-to amount
func (p *PotManager) GetMinRaise() int {
	return p.currentBet + p.raiseIncrement
}

// GetBigBlind returns the big blind the round is sized by
func (p *PotManager) GetBigBlind() int {
	return p.bigBlind
}

// GetAmountOwed returns how much the participant must add to call
func (p *PotManager) GetAmountOwed(pt Participant) int {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0
	}

	owed := p.currentBet - pip.amountInPlay
	if owed < 0 {
		return 0
	}

	return owed
}

// GetAmountInPlay returns the amount the participant has in play this round
func (p *PotManager) GetAmountInPlay(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.amountInPlay
	}

	return 0
}

// GetAmountInHand returns the amount the participant has put in the pot this hand
func (p *PotManager) GetAmountInHand(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.amountInHand
	}

	return 0
}

// Pot returns the size of the pot, including the bets of the current round
func (p *PotManager) Pot() int {
	return p.pot
}

// IsRoundOver returns true if no participant owes an action
func (p *PotManager) IsRoundOver() bool {
	return p.actionAtIndex < 0
}

// IsParticipantYetToAct returns true if the participant still owes an action this round
func (p *PotManager) IsParticipantYetToAct(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return false
	}

	return p.owes[pip.tableIndex]
}

// GetOwingCount returns the number of participants who still owe an action
func (p *PotManager) GetOwingCount() int {
	return len(p.owes)
}

// GetInTurnParticipant returns the participant who is to act next
// Returns nil if the round is over
func (p *PotManager) GetInTurnParticipant() Participant {
	if p.IsRoundOver() {
		return nil
	}

	return p.tableOrder[p.actionAtIndex].Participant
}

// GetCanActParticipantCount returns the number of participants in the hand who didn't fold or go all-in
func (p *PotManager) GetCanActParticipantCount() int {
	count := 0
	for _, pt := range p.tableOrder {
		if pt.canAct() {
			count++
		}
	}

	return count
}

// GetLiveParticipantCount returns the number of participants who have not folded
func (p *PotManager) GetLiveParticipantCount() int {
	count := 0
	for _, pt := range p.tableOrder {
		if pt.inHand() {
			count++
		}
	}

	return count
}

// GetLiveParticipants returns the participants who have not folded, in table order
func (p *PotManager) GetLiveParticipants() []Participant {
	live := make([]Participant, 0, len(p.tableOrder))
	for _, pt := range p.tableOrder {
		if pt.inHand() {
			live = append(live, pt.Participant)
		}
	}

	return live
}

// NextRound advances to the next round
func (p *PotManager) NextRound() error {
	if !p.IsRoundOver() {
		return ErrRoundNotOver
	}

	for _, pip := range p.tableOrder {
		pip.reset()
	}

	p.currentBet = 0
	p.raiseIncrement = p.bigBlind
	p.owes = make(map[int]bool)
	p.actionAtIndex = -1
	return nil
}

// PayWinner awards the entire pot to the winner and returns the amount paid
func (p *PotManager) PayWinner(pt Participant) (int, error) {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0, ErrParticipantNotFound
	}

	if !pip.inHand() {
		return 0, fmt.Errorf("participant %d folded and cannot win the pot", pt.ID())
	}

	amount := p.pot
	pip.AdjustBalance(amount)
	p.pot = 0
	p.endHand()

	return amount, nil
}

// Refund returns every participant's contribution for the hand and empties the pot
func (p *PotManager) Refund() map[int]int {
	refunds := make(map[int]int)
	for _, pip := range p.tableOrder {
		if pip.amountInHand == 0 {
			continue
		}

		pip.AdjustBalance(pip.amountInHand)
		refunds[pip.ID()] = pip.amountInHand
	}

	p.pot = 0
	p.endHand()
	return refunds
}

func (p *PotManager) endHand() {
	for _, pip := range p.tableOrder {
		pip.amountInPlay = 0
		pip.amountInHand = 0
		pip.SetAmountInPlay(0, 0)
	}

	p.owes = make(map[int]bool)
	p.actionAtIndex = -1
}

// CheckInvariants verifies the pot accounting
// The pot must equal the sum of every participant's contribution and no balance may be negative
func (p *PotManager) CheckInvariants() error {
	if p.pot < 0 {
		return fmt.Errorf("pot is negative: %d", p.pot)
	}

	sum := 0
	for _, pip := range p.tableOrder {
		if pip.Balance() < 0 {
			return fmt.Errorf("participant %d has a negative balance: %d", pip.ID(), pip.Balance())
		}

		if pip.amountInPlay > pip.amountInHand {
			return fmt.Errorf("participant %d has %d in play but only %d in the hand", pip.ID(), pip.amountInPlay, pip.amountInHand)
		}

		sum += pip.amountInHand
	}

	if sum != p.pot {
		return fmt.Errorf("pot of %d does not match contributions of %d", p.pot, sum)
	}

	return nil
}

// getActiveParticipantInPot returns the participantInPot if the participant is on the clock, otherwise
// an error if the participant cannot act
func (p *PotManager) getActiveParticipantInPot(pt Participant) (*participantInPot, error) {
	pit := p.GetInTurnParticipant()
	if pit == nil {
		return nil, ErrRoundOver
	}

	if pit.ID() != pt.ID() {
		return nil, ErrParticipantCannotAct
	}

	pip, ok := p.participants[pt.ID()]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	return pip, nil
}
