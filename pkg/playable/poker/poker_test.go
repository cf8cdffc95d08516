package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase(t *testing.T) {
	a := assert.New(t)
	a.Equal("pre-flop", PhasePreFlop.String())
	a.Equal("showdown", PhaseShowdown.String())
	a.Equal(0, PhasePreFlop.CommunityCards())
	a.Equal(3, PhaseFlop.CommunityCards())
	a.Equal(4, PhaseTurn.CommunityCards())
	a.Equal(5, PhaseRiver.CommunityCards())
	a.Equal(5, PhaseShowdown.CommunityCards())
	a.Panics(func() {
		_ = Phase(99).String()
	})
}

func TestStatus(t *testing.T) {
	a := assert.New(t)
	a.True(StatusActive.InHand())
	a.True(StatusAllIn.InHand())
	a.False(StatusFolded.InHand())
	a.False(StatusOut.InHand())
	a.True(StatusActive.CanAct())
	a.False(StatusAllIn.CanAct())
}

func TestState_json(t *testing.T) {
	b, err := json.Marshal(State{Phase: PhaseTurn, Pot: 40, Community: nil})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"phase":"turn","pot":40,"currentBet":0,"minRaise":0,"bigBlind":0,"smallBlind":0,"community":null}`, string(b))
}
