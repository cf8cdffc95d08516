package room

import (
	"holdem-server/pkg/playable"
)

const logMessageLimit = 25

// collectLogMessages picks up the messages the game logged since the last call
// Note: this must only be called from within the run loop
func (d *Dealer) collectLogMessages() []*playable.LogMessage {
	if hand := d.game.HandNumber(); hand != d.logHand {
		d.logHand = hand
		d.logCursor = 0
	}

	messages := d.game.LogMessagesSince(d.logCursor)
	d.logCursor += len(messages)
	if len(messages) > 0 {
		d.addLogMessages(messages)
	}

	return messages
}

// addLogMessages adds log messages, keeping the most recent
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := make([]*playable.LogMessage, 0, len(d.logMessages)+len(messages))
	m = append(m, d.logMessages...)
	m = append(m, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.lock.Lock()
	d.logMessages = m
	d.lock.Unlock()
}

// LogMessages returns the most recent log messages
func (d *Dealer) LogMessages() []*playable.LogMessage {
	d.lock.RLock()
	defer d.lock.RUnlock()

	messages := make([]*playable.LogMessage, len(d.logMessages))
	copy(messages, d.logMessages)
	return messages
}
