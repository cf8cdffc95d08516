package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/texasholdem"
)

func seatName(state *texasholdem.ParticipantState, seat int) string {
	for _, p := range state.GameState.Participants {
		if p.Seat == seat {
			return p.Name
		}
	}

	return fmt.Sprintf("seat %d", seat)
}

func cards(hand deck.Hand) string {
	if len(hand) == 0 {
		return "-"
	}

	s := make([]string, len(hand))
	for i, card := range hand {
		if card.Color() == deck.Red {
			s[i] = pterm.LightRed(card.String())
		} else {
			s[i] = pterm.LightWhite(card.String())
		}
	}

	return strings.Join(s, " ")
}

func printEvent(state *texasholdem.ParticipantState, event texasholdem.Event) {
	switch e := event.(type) {
	case texasholdem.HandStarted:
		pterm.DefaultSection.Printfln("Hand #%d", e.Metadata().HandNumber)
		pterm.Info.Printfln("%s has the button, blinds %d/%d", seatName(state, e.Dealer), e.SmallBlind, e.BigBlind)
	case texasholdem.BetPlaced:
		pterm.Printfln("%s %s (%d), pot %d", pterm.LightCyan(seatName(state, e.Seat)), e.Action.String(), e.Amount, e.Pot)
	case texasholdem.PhaseAdvanced:
		pterm.Info.Printfln("%s: %s", e.Phase.String(), cards(e.Community))
	case texasholdem.HandWon:
		printHandWon(e)
	case texasholdem.HandAborted:
		pterm.Error.Printfln("hand aborted: %s", e.Reason)
	case texasholdem.PlayerEliminated:
		pterm.Warning.Printfln("%s is out", seatName(state, e.Seat))
	case texasholdem.TournamentEnded:
		if e.Winner < 0 {
			pterm.Warning.Println("the tournament ended without a winner")
			return
		}

		pterm.Success.Printfln("%s wins the tournament", seatName(state, e.Winner))
	}
}

func printHandWon(e texasholdem.HandWon) {
	winner := ""
	for _, result := range e.Results {
		if result.Seat == e.Seat {
			winner = result.Name
		}
	}

	if e.ByDefault {
		pterm.Success.Printfln("%s takes down %d", winner, e.Amount)
		return
	}

	data := pterm.TableData{{"Seat", "Cards", "Hand", "Won", "Chips"}}
	for _, result := range e.Results {
		if result.Folded {
			continue
		}

		data = append(data, []string{
			result.Name,
			cards(result.Cards),
			result.Hand,
			fmt.Sprintf("%d", result.Won),
			fmt.Sprintf("%d", result.Chips),
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Success.Printfln("%s wins %d with %s (%s)", winner, e.Amount, e.Hand, cards(e.BestFive))
}

func printTable(state *texasholdem.ParticipantState) {
	gs := state.GameState
	ps := state.PokerState

	var panels []pterm.Panel
	for _, p := range gs.Participants {
		title := p.Name
		if p.Seat == gs.Dealer {
			title += " (D)"
		}

		body := fmt.Sprintf("%s\nChips: %d\nBet: %d", p.Status.String(), p.Chips, p.Bet)
		panels = append(panels, pterm.Panel{
			Data: pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Sprint(body),
		})
	}

	board := fmt.Sprintf("%s\nPot: %d   Current bet: %d", cards(ps.Community), ps.Pot, ps.CurrentBet)
	rows := [][]pterm.Panel{
		panels,
		{{Data: pterm.DefaultBox.WithTitle(ps.Phase.String()).WithTitleTopCenter().Sprint(board)}},
	}

	if me := state.Participant; me != nil {
		mine := fmt.Sprintf("%s\n%s", cards(me.Cards), state.HandStrength)
		rows = append(rows, []pterm.Panel{
			{Data: pterm.DefaultBox.WithTitle(pterm.LightYellow("You")).WithTitleTopCenter().Sprint(mine)},
		})
	}

	_ = pterm.DefaultPanel.WithPanels(rows).Render()
}
