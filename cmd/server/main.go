package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"holdem-server/internal/config"
	"holdem-server/internal/jwt"
	"holdem-server/internal/mux"
	"holdem-server/pkg/db"
	"holdem-server/pkg/history"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// memoryHistorySize is how many hands are kept when the database is disabled
const memoryHistorySize = 100

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configuration")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	if *addr == "" {
		*addr = cfg.Relay.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := texasholdem.NewGame(logrus.StandardLogger(), cfg.Seats(), cfg.GameOptions())
	if err != nil {
		logrus.WithError(err).Fatal("could not create the game")
	}

	dealer := room.NewDealer(logrus.StandardLogger(), game, cfg.DealerTiming())

	store := historyStore(cfg)
	recorder := history.NewRecorder(logrus.StandardLogger(), store, memoryHistorySize)
	dealer.Subscribe(recorder.HandleEvent)
	go recorder.Run(context.Background())

	// the game belongs to the dealer once the shift starts
	signer := jwt.LoadSigner()
	logSeatTokens(signer, cfg, game)

	dealer.StartShift()
	if err := dealer.StartHand(ctx); err != nil {
		logrus.WithError(err).Fatal("could not start the first hand")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Relay.AllowedOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	m := mux.NewMux(Version, dealer, mux.Options{
		History:        store,
		Signer:         signer,
		RemoteSeats:    cfg.RemoteSeats(),
		AllowedOrigins: cfg.Relay.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(m)),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("could not shut down the server")
		}
	}()

	logrus.WithField("addr", srv.Addr).WithField("table", game.Name()).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server stopped")
	}

	dealer.EndShift()
	recorder.Close()
}

// logSeatTokens logs a join token for every remote seat
// The host hands each token to the player who takes that seat
func logSeatTokens(signer *jwt.Signer, cfg config.Config, game *texasholdem.Game) {
	for _, seat := range cfg.RemoteSeats() {
		token, err := signer.Sign(seat)
		if err != nil {
			logrus.WithError(err).WithField("seat", seat).Fatal("could not sign a seat token")
		}

		entry := logrus.WithField("seat", seat).WithField("token", token)
		if p, ok := game.Participant(seat); ok {
			entry = entry.WithField("name", p.Name)
		}

		entry.Info("remote seat token")
	}
}

// historyStore returns the Postgres store when history is enabled, otherwise hands are kept in memory
func historyStore(cfg config.Config) history.Store {
	if !cfg.History.Enabled {
		return history.NewMemoryStore(memoryHistorySize)
	}

	// run the db migrations
	db.Migrate()
	return history.NewPostgresStore(db.Instance())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
