package texasholdem

import (
	"errors"

	"github.com/sirupsen/logrus"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/potmanager"
)

// revealWinner awards the whole pot to a single winner
// The last live seat wins by default. Otherwise every live hand is shown and the strongest wins, with ties
// going to the first tied seat clockwise of the button
func (g *Game) revealWinner() error {
	live := g.potManager.GetLiveParticipants()
	if len(live) == 0 {
		return g.abort(errors.New("no participant is left in the hand"))
	}

	contributions := make(map[int]int, len(g.participants))
	for _, p := range g.participants {
		contributions[p.Seat] = p.handBet
	}

	var winner *Participant
	byDefault := len(live) == 1
	if byDefault {
		winner = g.participants[live[0].ID()]
	} else {
		g.phase = poker.PhaseShowdown
		wm := potmanager.NewWinManager()
		seat := g.dealerIndex
		for i := 0; i < len(g.participants); i++ {
			seat = (seat + 1) % len(g.participants)
			p := g.participants[seat]
			if !p.status.InHand() {
				continue
			}

			ha := p.getHandAnalyzer(g.community)
			if ha == nil {
				return g.abort(errors.New("a live participant has no cards"))
			}

			p.reveal = true
			wm.AddParticipant(p, ha.GetStrength())
		}

		pt, _ := wm.GetWinner()
		winner = g.participants[pt.ID()]
	}

	amount, err := g.potManager.PayWinner(winner)
	if err != nil {
		return g.abort(err)
	}

	winner.result = resultWon
	winner.winnings = amount

	var handName string
	var bestFive deck.Hand
	results := make([]SeatResult, 0, len(g.participants))
	for _, p := range g.participants {
		if len(p.cards) == 0 {
			continue
		}

		r := SeatResult{
			Seat:        p.Seat,
			Name:        p.Name,
			Folded:      p.status == poker.StatusFolded,
			Contributed: contributions[p.Seat],
			Chips:       p.chips,
		}

		if p == winner {
			r.Won = amount
		} else if r.Folded {
			p.result = resultFolded
		} else {
			p.result = resultLost
		}

		if p.reveal {
			r.Cards = p.cards.Clone()
			if ha := p.getHandAnalyzer(g.community); ha != nil {
				r.Hand = ha.GetHand().String()
				if p == winner {
					handName = r.Hand
					bestFive = ha.BestFive()
				}
			}
		}

		results = append(results, r)
	}

	if byDefault {
		g.log(winner.Seat, "{} won ${%d}", amount)
	} else {
		g.logCards(winner.Seat, bestFive, "{} won ${%d} with a %s", amount, handName)
	}

	g.logger.WithFields(logrus.Fields{
		"hand":   g.handNumber,
		"winner": winner.Seat,
		"amount": amount,
	}).Debug("pot awarded")

	g.emit(HandWon{
		Meta:      g.newMeta(),
		Seat:      winner.Seat,
		Amount:    amount,
		Hand:      handName,
		BestFive:  bestFive,
		ByDefault: byDefault,
		Community: g.Community(),
		Results:   results,
	})

	g.eliminate()

	if len(g.seatsWithChips()) < 2 {
		g.endTournament()
		g.setPendingDealerState(DealerStateTournamentOver, g.options.ShowdownPause)
		return nil
	}

	g.setPendingDealerState(DealerStateEnd, g.options.ShowdownPause)
	return nil
}

// eliminate marks every seat without chips as out
func (g *Game) eliminate() {
	for _, p := range g.participants {
		if p.chips > 0 || p.status == poker.StatusOut {
			continue
		}

		p.status = poker.StatusOut
		g.log(p.Seat, "{} was eliminated")
		g.emit(PlayerEliminated{
			Meta: g.newMeta(),
			Seat: p.Seat,
		})
	}
}

func (g *Game) seatsWithChips() []*Participant {
	seats := make([]*Participant, 0, len(g.participants))
	for _, p := range g.participants {
		if p.chips > 0 {
			seats = append(seats, p)
		}
	}

	return seats
}
