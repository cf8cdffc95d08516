package texasholdem

import (
	"errors"
	"fmt"
)

// ErrNotYourTurn is returned when a seat acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrNoActionPending is returned when an action arrives while nobody is on the clock
var ErrNoActionPending = errors.New("no action is pending")

// ErrStaleTurn is returned when a timer fires for a turn that already ended
var ErrStaleTurn = errors.New("turn has already ended")

// ErrTournamentOver is returned when a hand is requested after the tournament ended
var ErrTournamentOver = errors.New("tournament is over")

// ErrHandInProgress is returned when a new hand is requested before the current hand ended
var ErrHandInProgress = errors.New("a hand is already in progress")

// InvariantError is a broken internal guarantee
// The hand it happened in is aborted and every contribution is refunded
type InvariantError struct {
	HandNumber int
	Err        error
}

func (i *InvariantError) Error() string {
	return fmt.Sprintf("hand %d aborted: %s", i.HandNumber, i.Err)
}

func (i *InvariantError) Unwrap() error {
	return i.Err
}
