package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
)

// fixedGenerator always returns the same number, capped to the range
type fixedGenerator int

func (f fixedGenerator) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}

	return int(f)
}

// never triggers a bluff and adds the largest jitter
const noBluff = fixedGenerator(99)

// always triggers a bluff and adds no jitter
const alwaysBluff = fixedGenerator(0)

func preFlopView(hole string, owed int) View {
	return View{
		Hole:       deck.CardsFromString(hole),
		Phase:      poker.PhasePreFlop,
		CurrentBet: 20,
		Owed:       owed,
		Pot:        30,
		Chips:      1000,
		MinRaise:   40,
		BigBlind:   20,
	}
}

func postFlopView(hole, community string, owed, pot int) View {
	return View{
		Hole:       deck.CardsFromString(hole),
		Community:  deck.CardsFromString(community),
		Phase:      poker.PhaseFlop,
		CurrentBet: owed,
		Owed:       owed,
		Pot:        pot,
		Chips:      1000,
		MinRaise:   owed + 20,
		BigBlind:   20,
	}
}

func TestChen(t *testing.T) {
	tests := []struct {
		hole string
		want int
	}{
		{"14s,14h", 20},
		{"13s,13h", 16},
		{"2s,2h", 5},
		{"5s,5h", 5},
		{"14s,13s", 12},
		{"14s,13h", 10},
		{"13s,12h", 8},
		{"12s,11s", 9},
		{"11s,10s", 9},
		{"10s,9h", 6},
		{"7s,2h", -1},
	}

	for _, tt := range tests {
		t.Run(tt.hole, func(t *testing.T) {
			cards := deck.CardsFromString(tt.hole)
			assert.Equal(t, tt.want, Chen(cards[0], cards[1]))
			assert.Equal(t, tt.want, Chen(cards[1], cards[0]))
		})
	}
}

func TestRuleBot_preFlop(t *testing.T) {
	a := assert.New(t)
	b := NewRuleBot(alwaysBluff)

	// raise size is max(min raise increment, 2.5 BB) on top of the current bet
	a.Equal(Decision{Action: action.Raise, Amount: 70}, b.Decide(preFlopView("14s,14h", 20)))
	a.Equal(Decision{Action: action.Raise, Amount: 70}, b.Decide(preFlopView("13s,12h", 20)))
	a.Equal(Decision{Action: action.Call}, b.Decide(preFlopView("13s,12h", 100)))
	a.Equal(Decision{Action: action.Call}, b.Decide(preFlopView("10s,9h", 20)))
	a.Equal(Decision{Action: action.Check}, b.Decide(preFlopView("10s,9h", 0)))
	a.Equal(Decision{Action: action.Check}, b.Decide(preFlopView("7s,2h", 0)))
	a.Equal(Decision{Action: action.Raise, Amount: 70}, b.Decide(preFlopView("7s,2h", 20)), "bluff")

	b = NewRuleBot(noBluff)
	a.Equal(Decision{Action: action.Fold}, b.Decide(preFlopView("7s,2h", 20)))
	a.Equal(Decision{Action: action.Raise, Amount: 89}, b.Decide(preFlopView("14s,14h", 20)))
}

func TestRuleBot_postFlop(t *testing.T) {
	a := assert.New(t)
	b := NewRuleBot(noBluff)

	// trips
	a.Equal(action.Raise, b.Decide(postFlopView("2s,2h", "2c,9d,13h", 0, 100)).Action)
	// two pair
	a.Equal(action.Raise, b.Decide(postFlopView("9s,13s", "9c,13d,4h", 50, 100)).Action)
	// pair facing a big bet
	a.Equal(Decision{Action: action.Call}, b.Decide(postFlopView("9s,3s", "9c,13d,4h", 60, 100)))
	// pair facing a small bet
	a.Equal(action.Raise, b.Decide(postFlopView("9s,3s", "9c,13d,4h", 20, 100)).Action)
	// nothing
	a.Equal(Decision{Action: action.Check}, b.Decide(postFlopView("2s,3d", "9c,13d,14h", 0, 100)))
	a.Equal(Decision{Action: action.Call}, b.Decide(postFlopView("2s,3d", "9c,13d,14h", 5, 100)))
	a.Equal(Decision{Action: action.Fold}, b.Decide(postFlopView("2s,3d", "9c,13d,14h", 50, 100)))

	b = NewRuleBot(alwaysBluff)
	a.Equal(Decision{Action: action.Raise, Amount: 100}, b.Decide(postFlopView("2s,3d", "9c,13d,14h", 50, 100)))
}

func TestRuleBot_noHoleCards(t *testing.T) {
	b := NewRuleBot(nil)
	assert.Equal(t, Decision{Action: action.Fold}, b.Decide(View{Owed: 10}))
	assert.Equal(t, Decision{Action: action.Check}, b.Decide(View{}))
}

func TestThinkTime(t *testing.T) {
	a := assert.New(t)
	a.Equal(time.Second, ThinkTime(noBluff, time.Second, time.Second))
	a.Equal(time.Second, ThinkTime(alwaysBluff, time.Second, 3*time.Second))
	a.Equal(3*time.Second-1, ThinkTime(fixedGenerator(1<<62), time.Second, 3*time.Second))
}
