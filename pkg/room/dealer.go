package room

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"holdem-server/internal/rng"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/bot"
	"holdem-server/pkg/playable/poker/texasholdem"
)

// ErrDealerClosed is returned when the dealer's shift has ended
var ErrDealerClosed = errors.New("dealer is closed")

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
)

// spectatorSeat is the key used for the state without hole cards
const spectatorSeat = -1

// Timing controls how the dealer paces the table
type Timing struct {
	// TurnTimeout is how long a human seat has to act, zero disables the timer
	TurnTimeout time.Duration
	BotThinkMin time.Duration
	BotThinkMax time.Duration
	// HandPause is the wait between the end of a hand and the next
	HandPause time.Duration
	// AutoDeal starts the next hand automatically
	AutoDeal bool
}

// Dealer is responsible for running a table
// The dealer's run loop is the only goroutine that touches the game. Everybody else submits work to the
// run loop or reads the published state
type Dealer struct {
	logger    logrus.FieldLogger
	game      *texasholdem.Game
	playable  playable.Playable
	tickable  playable.Tickable
	timing    Timing
	generator rng.Generator

	clients     map[*Client]bool
	lock        sync.RWMutex
	states      map[int]*texasholdem.ParticipantState
	logMessages []*playable.LogMessage
	subscribers []texasholdem.EventHandler

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
	closeOnce     sync.Once

	// only touched in the run loop
	armedTurnID   uint64
	turnTimer     *time.Timer
	scheduledHand int
	logHand       int
	logCursor     int
}

// NewDealer creates a new dealer object for the game
// This is called from a blocking state, so it needs to return quickly
func NewDealer(logger logrus.FieldLogger, game *texasholdem.Game, timing Timing) *Dealer {
	d := &Dealer{
		logger:        logger,
		game:          game,
		playable:      game.AsPlayable(),
		tickable:      game,
		timing:        timing,
		generator:     rng.Crypto{},
		clients:       make(map[*Client]bool),
		states:        make(map[int]*texasholdem.ParticipantState),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}

	game.Subscribe(d.handleEvent)
	d.publish()
	return d
}

// SetGenerator replaces the randomness used for bot think times
// Must be called before StartShift
func (d *Dealer) SetGenerator(generator rng.Generator) {
	d.generator = generator
}

// Subscribe registers a handler for game events
// Handlers run in the dealer's run loop and must return quickly. Must be called before StartShift
func (d *Dealer) Subscribe(handler texasholdem.EventHandler) {
	d.subscribers = append(d.subscribers, handler)
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")

	ticker := time.NewTicker(d.tickable.Delay())
	defer ticker.Stop()

	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendClientState()
			case stateGameEvent:
				d.sendGameData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-ticker.C:
			d.tick()
		case <-d.close:
			d.disarmTimer()
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// exec runs fn in the run loop and waits for its result
func (d *Dealer) exec(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	select {
	case d.execInRunLoop <- func() { result <- fn() }:
	case <-d.close:
		return ErrDealerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-d.close:
		return ErrDealerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn for the run loop without waiting
func (d *Dealer) post(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
	}
}

// notify asks the run loop to send updates to the clients
// Updates are dropped when the run loop is behind, the next one carries the latest state
func (d *Dealer) notify(s state) {
	select {
	case d.stateChanged <- s:
	default:
	}
}

// StartHand deals the next hand
func (d *Dealer) StartHand(ctx context.Context) error {
	return d.exec(ctx, d.startHand)
}

// ApplyAction applies an action for a seat in order with every other action at the table
func (d *Dealer) ApplyAction(ctx context.Context, seat int, a action.Action, amount int) error {
	return d.exec(ctx, func() error {
		err := d.game.Action(seat, a, amount)
		d.afterChange()
		return err
	})
}

// State returns the last published state of the table as seen from seat
// Any seat that isn't at the table gets the spectator view
func (d *Dealer) State(seat int) *texasholdem.ParticipantState {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if s, ok := d.states[seat]; ok {
		return s
	}

	return d.states[spectatorSeat]
}

// IsSeated returns true if seat is one of the seats at the table
func (d *Dealer) IsSeated(seat int) bool {
	if seat < 0 {
		return false
	}

	d.lock.RLock()
	defer d.lock.RUnlock()

	_, ok := d.states[seat]
	return ok
}

// IsBot returns true if a bot plays the seat
func (d *Dealer) IsBot(seat int) bool {
	if seat < 0 {
		return false
	}

	d.lock.RLock()
	defer d.lock.RUnlock()

	s, ok := d.states[seat]
	return ok && s.Participant != nil && s.Participant.IsBot
}

// NOTE: must only be called from the run loop
func (d *Dealer) startHand() error {
	if err := d.game.StartHand(); err != nil {
		d.afterChange()
		return err
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		d.logger.WithField("state", litter.Sdump(d.game.State(spectatorSeat).GameState)).Debug("hand started")
	}

	d.afterChange()
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) tick() {
	update, err := d.tickable.Tick()
	if err != nil {
		d.logger.WithError(err).Error("could not advance the game")
	}

	if update || err != nil {
		d.afterChange()
	}

	d.scheduleNextHand()
}

// scheduleNextHand starts the next hand after the hand pause once the current hand ended
// NOTE: must only be called from the run loop
func (d *Dealer) scheduleNextHand() {
	if !d.timing.AutoDeal || d.game.DealerState() != texasholdem.DealerStateEnd {
		return
	}

	hand := d.game.HandNumber()
	if d.scheduledHand == hand {
		return
	}

	d.scheduledHand = hand
	time.AfterFunc(d.timing.HandPause, func() {
		d.post(func() {
			if d.game.HandNumber() != hand {
				return
			}

			if err := d.startHand(); err != nil && !errors.Is(err, texasholdem.ErrTournamentOver) {
				d.logger.WithError(err).Error("could not start the next hand")
			}
		})
	})
}

// afterChange publishes the new state and puts the next seat on the clock
// NOTE: must only be called from the run loop
func (d *Dealer) afterChange() {
	d.publish()
	d.notify(stateGameEvent)

	turn := d.game.CurrentTurn()
	if turn == nil {
		d.disarmTimer()
		return
	}

	turnID := d.game.TurnID()
	if turnID == d.armedTurnID {
		return
	}

	d.disarmTimer()
	d.armedTurnID = turnID
	if turn.IsBot {
		d.think(turn.Seat, turnID)
		return
	}

	if d.timing.TurnTimeout > 0 {
		seat := turn.Seat
		d.turnTimer = time.AfterFunc(d.timing.TurnTimeout, func() {
			d.post(func() {
				if err := d.game.Timeout(seat, turnID); err != nil {
					if errors.Is(err, texasholdem.ErrStaleTurn) {
						return
					}

					d.logger.WithError(err).WithField("seat", seat).Error("could not time out seat")
				}

				d.afterChange()
			})
		})
	}
}

// think decides for a bot now and applies the decision after the think time
// NOTE: must only be called from the run loop
func (d *Dealer) think(seat int, turnID uint64) {
	decision, err := d.game.BotDecision(seat)
	if err != nil {
		d.logger.WithError(err).WithField("seat", seat).Error("bot could not decide")
		return
	}

	delay := bot.ThinkTime(d.generator, d.timing.BotThinkMin, d.timing.BotThinkMax)
	go func() {
		select {
		case <-time.After(delay):
		case <-d.close:
			return
		}

		d.post(func() {
			if d.game.TurnID() != turnID {
				return
			}

			if err := d.game.Action(seat, decision.Action, decision.Amount); err != nil {
				d.logger.WithError(err).WithField("seat", seat).Error("bot could not act")
			}

			d.afterChange()
		})
	}()
}

func (d *Dealer) disarmTimer() {
	if d.turnTimer != nil {
		d.turnTimer.Stop()
		d.turnTimer = nil
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleEvent(event texasholdem.Event) {
	for _, handler := range d.subscribers {
		handler(event)
	}

	for _, client := range d.Clients() {
		client.Send(newEventResponse(event))
	}
}

// publish stores the state for every seat and the spectator
// NOTE: must only be called from the run loop
func (d *Dealer) publish() {
	states := make(map[int]*texasholdem.ParticipantState)
	states[spectatorSeat] = d.game.State(spectatorSeat)
	for _, p := range d.game.Participants() {
		states[p.Seat] = d.game.State(p.Seat)
	}

	d.lock.Lock()
	d.states = states
	d.lock.Unlock()

	if messages := d.collectLogMessages(); len(messages) > 0 {
		for _, client := range d.Clients() {
			client.Send(&playable.Response{Key: "logs", Data: messages})
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.notify(stateClientEvent)
	client.Send(d.response(client.seat))
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.notify(stateClientEvent)
		return false
	}

	return true
}

func (d *Dealer) response(seat int) *playable.Response {
	return &playable.Response{
		Key:   "game",
		Value: d.game.Key(),
		Data:  d.State(seat),
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		client.Send(d.response(client.seat))
	}
}

func (d *Dealer) sendClientState() {
	cs := &clientState{ConnectedSeats: make([]int, 0)}
	for _, client := range d.Clients() {
		if client.seat < 0 {
			cs.Spectators++
			continue
		}

		cs.ConnectedSeats = append(cs.ConnectedSeats, client.seat)
	}

	sort.Ints(cs.ConnectedSeats)
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: cs,
		})
	}
}

// ReceivedMessage is called when a remote seat sends a message
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	if c.seat < 0 {
		c.Send(newErrorResponse(msg.Context, errors.New("spectators cannot act")))
		return
	}

	d.post(func() {
		resp, updateState, err := d.playable.Action(c.seat, msg)
		if err != nil {
			d.logger.WithError(err).WithField("client", c.String()).Warn("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		if resp != nil {
			c.Send(resp)
		}

		if updateState {
			d.afterChange()
		}
	})
}
