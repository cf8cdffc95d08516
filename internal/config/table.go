package config

import (
	"fmt"

	"holdem-server/internal/util"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

// Seats returns the seats for a new tournament
// Unnamed bots get a random name and unnamed humans are named after their seat
func (c Config) Seats() []texasholdem.Seat {
	seats := make([]texasholdem.Seat, len(c.Table.Seats))
	for i, seat := range c.Table.Seats {
		name := seat.Name
		if name == "" {
			if seat.Bot {
				name = util.GetRandomName()
			} else {
				name = fmt.Sprintf("Seat %d", i+1)
			}
		}

		seats[i] = texasholdem.Seat{
			Name:  name,
			Bot:   seat.Bot,
			Chips: c.Table.StartingStack,
		}
	}

	return seats
}

// RemoteSeats returns the seats that can be claimed over the relay
func (c Config) RemoteSeats() []int {
	seats := make([]int, 0, len(c.Table.Seats))
	for i, seat := range c.Table.Seats {
		if seat.Remote && !seat.Bot {
			seats = append(seats, i)
		}
	}

	return seats
}

// GameOptions returns the options for the game
func (c Config) GameOptions() texasholdem.Options {
	return texasholdem.Options{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		ActionPause:   c.Timing.ActionPause,
		RevealPause:   c.Timing.RevealPause,
		ShowdownPause: c.Timing.ShowdownPause,
	}
}

// DealerTiming returns how the dealer paces the table
func (c Config) DealerTiming() room.Timing {
	return room.Timing{
		TurnTimeout: c.Timing.TurnTimeout,
		BotThinkMin: c.Timing.BotThinkMin,
		BotThinkMax: c.Timing.BotThinkMax,
		HandPause:   c.Timing.HandPause,
		AutoDeal:    true,
	}
}
