package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"holdem-server/internal/config"
	"holdem-server/internal/rng"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

var seed = flag.Int64("seed", 0, "seeds the deck and the bots, zero uses crypto randomness")
var watch = flag.Bool("watch", false, "every seat is played by a bot")
var dump = flag.Bool("dump", false, "dump the final table state")
var verbose = flag.Bool("v", false, "write game logs to stderr")

const statePollInterval = time.Millisecond * 10

func main() {
	flag.Parse()

	cfg := config.Instance()
	setupLogger(cfg)

	seats := cfg.Seats()
	humanSeat := -1
	for i := range seats {
		if *watch {
			seats[i].Bot = true
		}

		if !seats[i].Bot && humanSeat < 0 {
			humanSeat = i
		}
	}

	game, err := texasholdem.NewGame(logrus.StandardLogger(), seats, cfg.GameOptions())
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	timing := cfg.DealerTiming()
	// nobody else can see a local table, so the human is never on a clock
	timing.TurnTimeout = 0

	dealer := room.NewDealer(logrus.StandardLogger(), game, timing)
	if *seed != 0 {
		game.SetGenerator(rng.Seeded(*seed))
		dealer.SetGenerator(rng.Seeded(*seed + 1))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	events := make(chan texasholdem.Event, 1024)
	left := make(chan struct{})
	dealer.Subscribe(forwardEvents(ctx, left, events))

	dealer.StartShift()
	defer dealer.EndShift()

	pterm.DefaultHeader.WithFullWidth().Println(game.Name())
	if err := dealer.StartHand(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	p := &prompter{
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		reader:      bufio.NewReader(os.Stdin),
	}

	play(ctx, dealer, events, humanSeat, p)
	close(left)

	if *dump {
		litter.Dump(dealer.State(humanSeat))
	}
}

// forwardEvents hands every event to the terminal
// The run loop waits for the terminal rather than dropping events, until the player leaves
func forwardEvents(ctx context.Context, left <-chan struct{}, events chan<- texasholdem.Event) texasholdem.EventHandler {
	return func(event texasholdem.Event) {
		select {
		case events <- event:
		case <-ctx.Done():
		case <-left:
		}
	}
}

func play(ctx context.Context, dealer *room.Dealer, events <-chan texasholdem.Event, humanSeat int, p *prompter) {
	for {
		select {
		case <-ctx.Done():
			pterm.Warning.Println("leaving the table")
			return
		case event := <-events:
			printEvent(dealer.State(humanSeat), event)

			switch e := event.(type) {
			case texasholdem.TournamentEnded:
				return
			case texasholdem.SeatTurnChanged:
				if e.Seat != humanSeat || e.IsBot {
					continue
				}

				if !awaitState(ctx, dealer, humanSeat, e.TurnID) {
					return
				}

				printTable(dealer.State(humanSeat))
				if !takeTurn(ctx, dealer, humanSeat, p) {
					return
				}
			}
		}
	}
}

// awaitState waits until the published state has caught up with turnID
// The game emits an event before the dealer publishes the state it produced
func awaitState(ctx context.Context, dealer *room.Dealer, seat int, turnID uint64) bool {
	ticker := time.NewTicker(statePollInterval)
	defer ticker.Stop()

	for dealer.State(seat).GameState.TurnID < turnID {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}

	return true
}

// takeTurn prompts until the dealer accepts an action
// Returns false when the player leaves
func takeTurn(ctx context.Context, dealer *room.Dealer, seat int, p *prompter) bool {
	for {
		state := dealer.State(seat)
		if len(state.Actions) == 0 {
			return true
		}

		a, amount, err := p.ask(state)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false
			}

			pterm.Error.Println(err)
			continue
		}

		err = dealer.ApplyAction(ctx, seat, a, amount)
		switch {
		case err == nil:
			return true
		case errors.Is(err, texasholdem.ErrNotYourTurn), errors.Is(err, texasholdem.ErrNoActionPending):
			return true
		case errors.Is(err, context.Canceled), errors.Is(err, room.ErrDealerClosed):
			return false
		}

		pterm.Error.Println(err)
	}
}

type prompter struct {
	interactive bool
	reader      *bufio.Reader
}

func (p *prompter) ask(state *texasholdem.ParticipantState) (action.Action, int, error) {
	a, err := p.askAction(state.Actions)
	if err != nil {
		return "", 0, err
	}

	if a != action.Bet && a != action.Raise {
		return a, 0, nil
	}

	minRaise := state.PokerState.MinRaise
	amount, err := p.askLine(fmt.Sprintf("Raise to (minimum %d)", minRaise), strconv.Itoa(minRaise))
	if err != nil {
		return "", 0, err
	}

	to, err := strconv.Atoi(strings.TrimSpace(amount))
	if err != nil {
		return "", 0, fmt.Errorf("invalid amount: %s", amount)
	}

	return a, to, nil
}

func (p *prompter) askAction(actions []action.Action) (action.Action, error) {
	options := make([]string, len(actions))
	for i, a := range actions {
		options[i] = string(a)
	}

	if p.interactive {
		selected, err := pterm.DefaultInteractiveSelect.WithOptions(options).WithDefaultText("Your action").Show()
		if err != nil {
			return "", err
		}

		return action.FromString(selected)
	}

	answer, err := p.askLine("Your action ["+strings.Join(options, "/")+"]", "")
	if err != nil {
		return "", err
	}

	return action.FromString(strings.TrimSpace(answer))
}

func (p *prompter) askLine(text, defaultValue string) (string, error) {
	if p.interactive {
		return pterm.DefaultInteractiveTextInput.WithDefaultText(text).WithDefaultValue(defaultValue).Show()
	}

	fmt.Printf("%s: ", text)
	line, err := p.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return defaultValue, nil
	}

	return line, nil
}

func setupLogger(cfg config.Config) {
	level := logrus.WarnLevel
	if lvl := cfg.Log.Level; *verbose && lvl != "" {
		parsed, err := logrus.ParseLevel(lvl)
		if err != nil {
			pterm.Error.Printfln("could not parse level: %v", err)
			os.Exit(1)
		}

		level = parsed
	}

	logrus.SetLevel(level)
	if !*verbose {
		logrus.SetOutput(io.Discard)
	}
}
