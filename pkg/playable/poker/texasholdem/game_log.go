package texasholdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
)

// log records a message for the current hand
// A negative seat is a general statement
func (g *Game) log(seat int, format string, a ...interface{}) {
	g.logs = append(g.logs, playable.SimpleLogMessage(seat, format, a...))
}

func (g *Game) logCards(seat int, cards []deck.Card, format string, a ...interface{}) {
	g.logs = append(g.logs, playable.CardsLogMessage(seat, cards, format, a...))
}

// LogMessages returns the messages logged since the hand started
func (g *Game) LogMessages() []*playable.LogMessage {
	logs := make([]*playable.LogMessage, len(g.logs))
	copy(logs, g.logs)
	return logs
}

// LogMessagesSince returns the messages logged after the first n
func (g *Game) LogMessagesSince(n int) []*playable.LogMessage {
	if n >= len(g.logs) {
		return nil
	}

	if n < 0 {
		n = 0
	}

	logs := make([]*playable.LogMessage, len(g.logs)-n)
	copy(logs, g.logs[n:])
	return logs
}
