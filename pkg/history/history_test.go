package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/texasholdem"
)

func handWon(handNumber int) texasholdem.HandWon {
	return texasholdem.HandWon{
		Meta: texasholdem.Meta{
			ID:         uuid.New(),
			Time:       time.Now(),
			HandNumber: handNumber,
		},
		Seat:      1,
		Amount:    40,
		Hand:      "Pair",
		BestFive:  deck.CardsFromString("14c,14d,10h,8s,3c"),
		Community: deck.CardsFromString("14d,10h,8s,3c,2d"),
		Results: []texasholdem.SeatResult{
			{Seat: 0, Name: "Alice", Cards: deck.CardsFromString("5c,4c"), Hand: "High card", Contributed: 20, Chips: 980},
			{Seat: 1, Name: "Bob", Cards: deck.CardsFromString("14c,2c"), Hand: "Pair", Contributed: 20, Won: 40, Chips: 1020},
		},
	}
}

func TestNewHand(t *testing.T) {
	a := assert.New(t)

	event := handWon(3)
	hand := NewHand(event)
	a.Equal(event.Metadata().ID, hand.ID)
	a.Equal(3, hand.HandNumber)
	a.Equal(1, hand.Winner)
	a.Equal(40, hand.Amount)
	a.Equal("Pair", hand.Hand)
	a.Equal("14c,14d,10h,8s,3c", deck.CardsToString(hand.BestFive))
	a.Equal("14d,10h,8s,3c,2d", deck.CardsToString(hand.Community))
	a.False(hand.ByDefault)
	a.Len(hand.Seats, 2)
	a.Equal("Bob", hand.Seats[1].Name)
	a.Equal(40, hand.Seats[1].Won)
	a.Equal(980, hand.Seats[0].Chips)

	// the stored hand does not share cards with the event
	event.Results[0].Cards[0] = deck.CardFromString("2h")
	a.Equal("5c,4c", deck.CardsToString(hand.Seats[0].Cards))
}

func TestMemoryStore(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	store := NewMemoryStore(2)
	for i := 1; i <= 3; i++ {
		a.NoError(store.SaveHand(ctx, NewHand(handWon(i))))
	}

	hands, err := store.RecentHands(ctx, 10)
	a.NoError(err)
	if a.Len(hands, 2) {
		a.Equal(3, hands[0].HandNumber)
		a.Equal(2, hands[1].HandNumber)
	}

	hands, err = store.RecentHands(ctx, 1)
	a.NoError(err)
	a.Len(hands, 1)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	a.ErrorIs(store.SaveHand(canceled, NewHand(handWon(4))), context.Canceled)
}

type failingStore struct {
	calls int
}

func (f *failingStore) SaveHand(context.Context, *Hand) error {
	f.calls++
	return errors.New("database is down")
}

func (f *failingStore) RecentHands(context.Context, int) ([]*Hand, error) {
	return nil, errors.New("database is down")
}

func TestRecorder(t *testing.T) {
	a := assert.New(t)

	store := NewMemoryStore(10)
	recorder := NewRecorder(logrus.StandardLogger(), store, 10)
	go recorder.Run(context.Background())

	recorder.HandleEvent(texasholdem.TournamentEnded{Winner: 1})
	recorder.HandleEvent(handWon(1))
	recorder.HandleEvent(handWon(2))
	recorder.Close()

	hands, err := store.RecentHands(context.Background(), 10)
	a.NoError(err)
	if a.Len(hands, 2) {
		a.Equal(2, hands[0].HandNumber)
	}
}

func TestRecorder_storeErrors(t *testing.T) {
	store := &failingStore{}
	recorder := NewRecorder(logrus.StandardLogger(), store, 10)
	go recorder.Run(context.Background())

	recorder.HandleEvent(handWon(1))
	recorder.HandleEvent(handWon(2))
	recorder.Close()

	assert.Equal(t, 2, store.calls)
}

func TestRecorder_fullQueue(t *testing.T) {
	store := NewMemoryStore(10)
	recorder := NewRecorder(logrus.StandardLogger(), store, 1)

	// nothing is draining the queue yet
	recorder.HandleEvent(handWon(1))
	recorder.HandleEvent(handWon(2))

	go recorder.Run(context.Background())
	recorder.Close()

	hands, _ := store.RecentHands(context.Background(), 10)
	if assert.Len(t, hands, 1) {
		assert.Equal(t, 1, hands[0].HandNumber)
	}
}

func TestRecorder_game(t *testing.T) {
	a := assert.New(t)

	game, err := texasholdem.NewGame(logrus.StandardLogger(), []texasholdem.Seat{
		{Name: "Alice", Chips: 1000},
		{Name: "Bob", Chips: 1000},
	}, texasholdem.Options{SmallBlind: 10, BigBlind: 20})
	require.NoError(t, err)
	game.SetGenerator(rng.Seeded(1))

	store := NewMemoryStore(10)
	recorder := NewRecorder(logrus.StandardLogger(), store, 10)
	game.Subscribe(recorder.HandleEvent)
	go recorder.Run(context.Background())

	require.NoError(t, game.StartHand())
	turn := game.CurrentTurn()
	require.NotNil(t, turn)
	folder := turn.Seat
	require.NoError(t, game.Action(folder, action.Fold, 0))

	for i := 0; i < 10 && game.DealerState() != texasholdem.DealerStateEnd; i++ {
		_, err := game.Tick()
		require.NoError(t, err)
	}

	recorder.Close()

	hands, err := store.RecentHands(context.Background(), 10)
	a.NoError(err)
	if a.Len(hands, 1) {
		a.Equal(1, hands[0].HandNumber)
		a.True(hands[0].ByDefault)
		a.NotEqual(folder, hands[0].Winner)
		a.Len(hands[0].Seats, 2)
	}
}

func TestRecorder_afterClose(t *testing.T) {
	store := NewMemoryStore(10)
	recorder := NewRecorder(logrus.StandardLogger(), store, 10)
	go recorder.Run(context.Background())
	recorder.Close()
	recorder.Close()

	assert.NotPanics(t, func() {
		recorder.HandleEvent(handWon(1))
	})

	hands, _ := store.RecentHands(context.Background(), 10)
	assert.Len(t, hands, 0)
}
