package texasholdem

import (
	"fmt"

	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
)

// PlayableGame adapts a Game to the playable.Playable contract used by remote seats
type PlayableGame struct {
	*Game
}

// AsPlayable returns the playable.Playable view of the game
func (g *Game) AsPlayable() *PlayableGame {
	return &PlayableGame{Game: g}
}

// Action performs a seat action from a remote payload
func (p *PlayableGame) Action(seat int, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	anAction, err := action.FromString(message.Action)
	if err != nil {
		return nil, false, err
	}

	amount, _ := message.AdditionalData.GetInt("amount")
	if err := p.Game.Action(seat, anAction, amount); err != nil {
		return nil, false, err
	}

	return playable.OK(message.Context), true, nil
}

// GetPlayerState returns the current state for the seat
func (p *PlayableGame) GetPlayerState(seat int) (*playable.Response, error) {
	return &playable.Response{
		Key:   "game",
		Value: p.Key(),
		Data:  p.State(seat),
	}, nil
}

// Name returns the name
func (g *Game) Name() string {
	return NameFromOptions(g.options)
}

// NameFromOptions returns the name from the provided options
func NameFromOptions(opts Options) string {
	if err := validateOptions(opts); err != nil {
		return ""
	}

	return fmt.Sprintf("No-Limit Texas Hold'em (${%d}/${%d})", opts.SmallBlind, opts.BigBlind)
}

// Key returns the key
func (g *Game) Key() string {
	return "texas-hold-em"
}
