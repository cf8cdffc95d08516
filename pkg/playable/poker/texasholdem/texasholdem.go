package texasholdem

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/bot"
	"holdem-server/pkg/playable/poker/potmanager"
)

// MaxSeats is the most seats a table can have
const MaxSeats = 10

// Game is a No-Limit Texas Hold'em tournament played one hand at a time
// Game is not safe for concurrent use. A single goroutine must drive it
type Game struct {
	logger       logrus.FieldLogger
	options      Options
	deck         *deck.Deck
	policy       bot.Policy
	participants []*Participant
	potManager   *potmanager.PotManager
	community    deck.Hand

	dealerIndex        int
	smallBlindIndex    int
	bigBlindIndex      int
	handNumber         int
	phase              poker.Phase
	dealerState        DealerState
	pendingDealerState *pendingDealerState
	tournamentOver     bool

	// turnID changes every time a turn begins or ends
	turnID     uint64
	lastAction *lastAction
	logs       []*playable.LogMessage

	subscribers []EventHandler
}

// Options configures how Texas Hold'em is played
type Options struct {
	SmallBlind int `yaml:"smallBlind"`
	BigBlind   int `yaml:"bigBlind"`

	// ActionPause is the wait between a betting round closing and the next street
	ActionPause time.Duration `yaml:"actionPause"`
	// RevealPause is the wait between streets when the board is run out
	RevealPause time.Duration `yaml:"revealPause"`
	// ShowdownPause is the wait between awarding the pot and the end of the hand
	ShowdownPause time.Duration `yaml:"showdownPause"`
}

type lastAction struct {
	Action string `json:"action"`
	Seat   int    `json:"seat"`
	Amount int    `json:"amount"`
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind:    10,
		BigBlind:      20,
		ActionPause:   time.Second,
		RevealPause:   time.Second * 2,
		ShowdownPause: time.Second * 5,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be greater than zero")
	}

	if opts.SmallBlind > opts.BigBlind {
		return errors.New("small blind cannot exceed the big blind")
	}

	if opts.ActionPause < 0 || opts.RevealPause < 0 || opts.ShowdownPause < 0 {
		return errors.New("pauses cannot be negative")
	}

	return nil
}

// NewGame returns a new game of Texas Hold'em
// Seats are numbered in the order provided, clockwise
func NewGame(logger logrus.FieldLogger, seats []Seat, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(seats) < 2 {
		return nil, errors.New("there must be at least two seats")
	}

	if len(seats) > MaxSeats {
		return nil, fmt.Errorf("there cannot be more than %d seats", MaxSeats)
	}

	participants := make([]*Participant, len(seats))
	for i, seat := range seats {
		if seat.Chips < 0 {
			return nil, fmt.Errorf("seat %d cannot start with negative chips", i)
		}

		participants[i] = newParticipant(i, seat)
	}

	d := deck.New()
	d.Shuffle()

	return &Game{
		logger:          logger,
		options:         opts,
		deck:            d,
		policy:          bot.NewRuleBot(nil),
		participants:    participants,
		potManager:      potmanager.New(opts.BigBlind),
		community:       make(deck.Hand, 0, 5),
		dealerIndex:     -1,
		smallBlindIndex: -1,
		bigBlindIndex:   -1,
		phase:           poker.PhasePreFlop,
		dealerState:     DealerStateStart,
		logs:            make([]*playable.LogMessage, 0),
	}, nil
}

// SetGenerator replaces the randomness used for shuffling and by the default bot policy
func (g *Game) SetGenerator(generator rng.Generator) {
	g.deck.SetGenerator(generator)
	g.policy = bot.NewRuleBot(generator)
}

// SetPolicy replaces the policy used for bot-controlled seats
func (g *Game) SetPolicy(policy bot.Policy) {
	g.policy = policy
}

// StartHand resets the table, moves the button, posts the blinds, and deals the hole cards
func (g *Game) StartHand() error {
	if g.tournamentOver {
		return ErrTournamentOver
	}

	if g.dealerState != DealerStateStart && g.dealerState != DealerStateEnd {
		return ErrHandInProgress
	}

	for _, p := range g.participants {
		p.newHand()
	}

	inPlay := g.seatsInPlay()
	if len(inPlay) < 2 {
		g.endTournament()
		return ErrTournamentOver
	}

	g.handNumber++
	g.community = make(deck.Hand, 0, 5)
	g.phase = poker.PhasePreFlop
	g.lastAction = nil
	g.logs = make([]*playable.LogMessage, 0)
	g.potManager = potmanager.New(g.options.BigBlind)
	for _, p := range inPlay {
		if err := g.potManager.SeatParticipant(p); err != nil {
			return err
		}
	}

	g.dealerIndex = g.nextSeatInPlay(g.dealerIndex)
	if len(inPlay) == 2 {
		g.smallBlindIndex = g.dealerIndex
	} else {
		g.smallBlindIndex = g.nextSeatInPlay(g.dealerIndex)
	}
	g.bigBlindIndex = g.nextSeatInPlay(g.smallBlindIndex)

	sb := g.participants[g.smallBlindIndex]
	bb := g.participants[g.bigBlindIndex]
	if err := g.potManager.PostBlind(sb, g.options.SmallBlind); err != nil {
		return g.abort(err)
	}

	if err := g.potManager.PostBlind(bb, g.options.BigBlind); err != nil {
		return g.abort(err)
	}

	g.deck.Shuffle()
	if err := g.dealHoleCards(); err != nil {
		return g.abort(err)
	}

	seats := make([]int, len(inPlay))
	for i, p := range inPlay {
		seats[i] = p.Seat
	}

	g.log(-1, "hand #%d started, seat %d has the button", g.handNumber, g.dealerIndex)
	g.log(sb.Seat, "{} posted the small blind of ${%d}", sb.roundBet)
	g.log(bb.Seat, "{} posted the big blind of ${%d}", bb.roundBet)

	g.logger.WithFields(logrus.Fields{
		"hand":   g.handNumber,
		"dealer": g.dealerIndex,
	}).Debug("hand started")

	g.emit(HandStarted{
		Meta:       g.newMeta(),
		Dealer:     g.dealerIndex,
		SmallBlind: g.smallBlindIndex,
		BigBlind:   g.bigBlindIndex,
		Seats:      seats,
	})

	g.dealerState = DealerStatePreFlopBettingRound
	if err := g.potManager.OpenRound(g.participants[g.nextSeatInPlay(g.bigBlindIndex)]); err != nil {
		return g.abort(err)
	}

	g.afterAction()
	return nil
}

// dealHoleCards deals one card at a time, starting left of the button
func (g *Game) dealHoleCards() error {
	for i := 0; i < 2; i++ {
		seat := g.dealerIndex
		for range g.potManager.GetLiveParticipants() {
			seat = g.nextSeatInPlay(seat)
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			g.participants[seat].cards.AddCard(card)
		}
	}

	return nil
}

// seatsInPlay returns every participant who is not out, in seat order
func (g *Game) seatsInPlay() []*Participant {
	inPlay := make([]*Participant, 0, len(g.participants))
	for _, p := range g.participants {
		if p.status != poker.StatusOut {
			inPlay = append(inPlay, p)
		}
	}

	return inPlay
}

// nextSeatInPlay returns the first seat clockwise of seat that is not out
func (g *Game) nextSeatInPlay(seat int) int {
	n := len(g.participants)
	for i := 1; i <= n; i++ {
		check := ((seat+i)%n + n) % n
		if g.participants[check].status != poker.StatusOut {
			return check
		}
	}

	return seat
}

// CurrentTurn returns the participant on the clock, nil if nobody is
func (g *Game) CurrentTurn() *Participant {
	if !g.dealerState.IsBettingRound() {
		return nil
	}

	pt := g.potManager.GetInTurnParticipant()
	if pt == nil {
		return nil
	}

	return g.participants[pt.ID()]
}

// InBettingRound returns true if a seat is expected to act
func (g *Game) InBettingRound() bool {
	return g.CurrentTurn() != nil
}

// afterAction decides what happens after the betting round changed
func (g *Game) afterAction() {
	if g.potManager.GetLiveParticipantCount() < 2 {
		g.setPendingDealerState(DealerStateRevealWinner, g.options.ActionPause)
		return
	}

	if g.potManager.IsRoundOver() {
		g.setPendingDealerState(g.dealerState+1, g.options.ActionPause)
		return
	}

	turn := g.CurrentTurn()
	g.turnID++
	g.emit(SeatTurnChanged{
		Meta:     g.newMeta(),
		Seat:     turn.Seat,
		TurnID:   g.turnID,
		IsBot:    turn.IsBot,
		Owed:     g.potManager.GetAmountOwed(turn),
		MinRaise: g.potManager.GetMinRaise(),
	})
}

// dealStreet burns and reveals the community cards for the street dealt in the current state
// If fewer than two seats can still act, the betting round is skipped
func (g *Game) dealStreet() error {
	phase := g.dealerState.phase()
	if err := g.potManager.NextRound(); err != nil {
		return g.abort(err)
	}

	if err := g.deck.Burn(); err != nil {
		return g.abort(err)
	}

	for len(g.community) < phase.CommunityCards() {
		card, err := g.deck.Draw()
		if err != nil {
			return g.abort(err)
		}

		g.community.AddCard(card)
	}

	g.phase = phase
	g.log(-1, "dealt the %s", phase)
	g.emit(PhaseAdvanced{
		Meta:      g.newMeta(),
		Phase:     phase,
		Community: g.Community(),
	})

	bettingRound := g.dealerState + 1
	if g.potManager.GetCanActParticipantCount() < 2 {
		g.setPendingDealerState(bettingRound+1, g.options.RevealPause)
		return nil
	}

	g.dealerState = bettingRound
	if err := g.potManager.OpenRound(g.participants[g.nextSeatInPlay(g.dealerIndex)]); err != nil {
		return g.abort(err)
	}

	g.afterAction()
	return nil
}

// abort refunds every contribution and ends the hand
func (g *Game) abort(cause error) error {
	err := &InvariantError{HandNumber: g.handNumber, Err: cause}
	g.logger.WithError(err).WithField("hand", g.handNumber).Error("aborting hand")

	refunds := g.potManager.Refund()
	g.pendingDealerState = nil
	g.dealerState = DealerStateEnd
	g.turnID++

	g.log(-1, "hand #%d was aborted and all bets were returned", g.handNumber)
	g.emit(HandAborted{
		Meta:    g.newMeta(),
		Reason:  cause.Error(),
		Refunds: refunds,
	})

	return err
}

// checkInvariants aborts the hand if the chips no longer add up
func (g *Game) checkInvariants() error {
	if err := g.potManager.CheckInvariants(); err != nil {
		return g.abort(err)
	}

	return nil
}

func (g *Game) endTournament() {
	if g.tournamentOver {
		return
	}

	g.tournamentOver = true
	winner := -1
	for _, p := range g.participants {
		if p.chips > 0 {
			winner = p.Seat
		}
	}

	g.logger.WithField("winner", winner).Info("tournament ended")
	g.emit(TournamentEnded{
		Meta:   g.newMeta(),
		Winner: winner,
	})
}

// Phase returns the street, PhaseShowdown once hands were compared
func (g *Game) Phase() poker.Phase {
	return g.phase
}

// Pot returns the size of the pot
func (g *Game) Pot() int {
	return g.potManager.Pot()
}

// Community returns a copy of the community cards
func (g *Game) Community() deck.Hand {
	return g.community.Clone()
}

// DealerState returns the dealer state
func (g *Game) DealerState() DealerState {
	return g.dealerState
}

// TurnID identifies the current turn
// A timer armed for one turn must present the same ID when it fires
func (g *Game) TurnID() uint64 {
	return g.turnID
}

// HandNumber returns the number of hands started
func (g *Game) HandNumber() int {
	return g.handNumber
}

// Dealer returns the seat with the button, -1 before the first hand
func (g *Game) Dealer() int {
	return g.dealerIndex
}

// IsTournamentOver returns true once fewer than two seats have chips
func (g *Game) IsTournamentOver() bool {
	return g.tournamentOver
}

// Participant returns the participant in seat
func (g *Game) Participant(seat int) (*Participant, bool) {
	if seat < 0 || seat >= len(g.participants) {
		return nil, false
	}

	return g.participants[seat], true
}

// Participants returns every participant in seat order
func (g *Game) Participants() []*Participant {
	participants := make([]*Participant, len(g.participants))
	copy(participants, g.participants)
	return participants
}
