package texasholdem

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/action"
)

// testOptions are blinds of 10/20 without any pauses
func testOptions() Options {
	return Options{
		SmallBlind: 10,
		BigBlind:   20,
	}
}

func setupSeats(chips ...int) []Seat {
	seats := make([]Seat, len(chips))
	for i, c := range chips {
		seats[i] = Seat{
			Name:  fmt.Sprintf("seat %d", i),
			Chips: c,
		}
	}

	return seats
}

func setupNewGame(opts Options, chips ...int) *Game {
	game, err := NewGame(logrus.StandardLogger(), setupSeats(chips...), opts)
	if err != nil {
		panic(err)
	}

	game.SetGenerator(rng.Seeded(1))
	return game
}

type eventRecorder struct {
	events []Event
}

func (e *eventRecorder) record(event Event) {
	e.events = append(e.events, event)
}

func (e *eventRecorder) names() []string {
	names := make([]string, len(e.events))
	for i, event := range e.events {
		names[i] = event.Name()
	}

	return names
}

func recordEvents(game *Game) *eventRecorder {
	recorder := &eventRecorder{}
	game.Subscribe(recorder.record)
	return recorder
}

func assertAction(t *testing.T, game *Game, seat int, a action.Action, msgAndArgs ...interface{}) {
	t.Helper()
	assertActionAndAmount(t, game, seat, a, 0, msgAndArgs...)
}

func assertActionAndAmount(t *testing.T, game *Game, seat int, a action.Action, amount int, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NoError(t, game.Action(seat, a, amount), msgAndArgs...)
}

func assertTurn(t *testing.T, game *Game, seat int, msgAndArgs ...interface{}) {
	t.Helper()
	turn := game.CurrentTurn()
	if assert.NotNil(t, turn, msgAndArgs...) {
		assert.Equal(t, seat, turn.Seat, msgAndArgs...)
	}
}

// assertTickFromWaiting expires the pending state and ticks into it
func assertTickFromWaiting(t *testing.T, game *Game, nextState DealerState, msgAndArgs ...interface{}) {
	t.Helper()

	assert.Equal(t, DealerStateWaiting, game.dealerState, msgAndArgs...)
	require.NotNil(t, game.pendingDealerState, msgAndArgs...)
	game.pendingDealerState.After = time.Now()

	assertTick(t, game, msgAndArgs...)
	assert.Equal(t, nextState, game.dealerState, msgAndArgs...)
}

func assertTick(t *testing.T, game *Game, msgAndArgs ...interface{}) {
	t.Helper()
	update, err := game.Tick()
	assert.NoError(t, err, msgAndArgs...)
	assert.True(t, update, msgAndArgs...)
}

// settle ticks until a seat is on the clock or the hand is over
func settle(t *testing.T, game *Game) {
	t.Helper()

	for i := 0; i < 50; i++ {
		if game.InBettingRound() {
			return
		}

		if game.pendingDealerState == nil && (game.dealerState == DealerStateEnd || game.dealerState == DealerStateTournamentOver) {
			return
		}

		if game.pendingDealerState != nil {
			game.pendingDealerState.After = time.Now()
		}

		_, err := game.Tick()
		require.NoError(t, err)
	}

	t.Fatal("game did not settle")
}

// checkDown checks every remaining betting round
func checkDown(t *testing.T, game *Game) {
	t.Helper()

	settle(t, game)
	for game.InBettingRound() {
		require.NoError(t, game.Action(game.CurrentTurn().Seat, action.Check, 0))
		settle(t, game)
	}
}

// stackDeck replaces the hole cards and the rest of the deck
// board is burn, flop, flop, flop, burn, turn, burn, river
func stackDeck(game *Game, holeCards []string, board string) {
	for seat, cards := range holeCards {
		if cards == "" {
			continue
		}

		game.participants[seat].cards = deck.CardsFromString(cards)
	}

	game.deck.Cards = deck.CardsFromString(board)
}

func totalChips(game *Game) int {
	total := game.Pot()
	for _, p := range game.participants {
		total += p.chips
	}

	return total
}
