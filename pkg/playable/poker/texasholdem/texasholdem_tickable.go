package texasholdem

import "time"

// Delay returns how often Tick() should be called
func (g *Game) Delay() time.Duration {
	return time.Millisecond * 100
}

// Tick tries to advance the game
func (g *Game) Tick() (bool, error) {
	if g.pendingDealerState != nil {
		if !time.Now().Before(g.pendingDealerState.After) {
			g.dealerState = g.pendingDealerState.NextState
			g.pendingDealerState = nil
			return true, nil
		}

		return false, nil
	}

	switch g.dealerState {
	case DealerStateDealFlop, DealerStateDealTurn, DealerStateDealRiver:
		if err := g.dealStreet(); err != nil {
			return false, err
		}

		return true, nil
	case DealerStateRevealWinner:
		if err := g.revealWinner(); err != nil {
			return false, err
		}

		return true, nil
	}

	return false, nil
}

// NextPendingState returns the state the game is waiting to move to and when
// The second value is false if nothing is pending
func (g *Game) NextPendingState() (DealerState, time.Time, bool) {
	if g.pendingDealerState == nil {
		return g.dealerState, time.Time{}, false
	}

	return g.pendingDealerState.NextState, g.pendingDealerState.After, true
}
