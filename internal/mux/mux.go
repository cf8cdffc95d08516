package mux

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"holdem-server/internal/jwt"
	"holdem-server/pkg/history"
	"holdem-server/pkg/room"
)

type ctxKey int

const (
	ctxSeatKey ctxKey = iota
)

// Options configures the relay
type Options struct {
	// History may be nil when hand history is disabled
	History history.Store

	// Signer validates seat tokens. Without one every seat token is rejected
	Signer *jwt.Signer

	// RemoteSeats are the seats a token can claim
	RemoteSeats []int

	// AllowedOrigins may open a WebSocket from another host. "*" allows any origin
	AllowedOrigins []string
}

// Mux handles HTTP requests for remote seats and spectators
type Mux struct {
	*gmux.Router
	version        string
	dealer         *room.Dealer
	history        history.Store
	signer         *jwt.Signer
	remoteSeats    map[int]bool
	allowedOrigins []string

	// store for testing purposes
	seatRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, dealer *room.Dealer, opts Options) *Mux {
	remoteSeats := make(map[int]bool, len(opts.RemoteSeats))
	for _, seat := range opts.RemoteSeats {
		remoteSeats[seat] = true
	}

	this := &Mux{
		Router:         gmux.NewRouter(),
		version:        version,
		dealer:         dealer,
		history:        opts.History,
		signer:         opts.Signer,
		remoteSeats:    remoteSeats,
		allowedOrigins: opts.AllowedOrigins,
	}

	this.seatRouter = this.Router.NewRoute().Subrouter()
	this.seatRouter.Use(this.seatMiddleware)

	// no seat required
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/history").Handler(this.getHistory())
	}

	// a request without a seat token is a spectator
	{
		r := this.seatRouter
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodGet).Path("/table/ws").Handler(this.getTableWS())
		r.Methods(http.MethodPost).Path("/table/action").Handler(this.postTableAction())
	}

	return this
}

var (
	errUnknownSeat       = errors.New("seat is not at the table")
	errSeatTokenRequired = errors.New("a seat token is required")
	errInvalidSeatToken  = errors.New("invalid seat token")
	errSeatMismatch      = errors.New("seat token does not match the seat")
	errBotSeat           = errors.New("bot seats cannot be claimed")
	errLocalSeat         = errors.New("seat is not open to remote players")
)

// seatMiddleware resolves the seat from a signed seat token
// The token is read from the access_token parameter or an Authorization bearer header. Requests without one are
// spectators. A seat parameter is optional, but must match the token when present
func (m *Mux) seatMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seat := spectatorSeat
		seatStr := r.FormValue("seat")

		token := accessToken(r)
		if token == "" {
			if seatStr != "" {
				writeJSONError(w, http.StatusUnauthorized, errSeatTokenRequired)
				return
			}

			newCtx := context.WithValue(r.Context(), ctxSeatKey, seat)
			next.ServeHTTP(w, r.WithContext(newCtx))
			return
		}

		if m.signer == nil {
			writeJSONError(w, http.StatusUnauthorized, errInvalidSeatToken)
			return
		}

		seat, err := m.signer.ValidSeat(token)
		if err != nil {
			logrus.WithError(err).WithField("remoteAddr", remoteAddr(r)).Debug("rejected seat token")
			writeJSONError(w, http.StatusUnauthorized, errInvalidSeatToken)
			return
		}

		if seatStr != "" {
			val, err := strconv.Atoi(seatStr)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			if val != seat {
				writeJSONError(w, http.StatusForbidden, errSeatMismatch)
				return
			}
		}

		if !m.dealer.IsSeated(seat) {
			writeJSONError(w, http.StatusNotFound, errUnknownSeat)
			return
		}

		if m.dealer.IsBot(seat) {
			writeJSONError(w, http.StatusForbidden, errBotSeat)
			return
		}

		if !m.remoteSeats[seat] {
			writeJSONError(w, http.StatusForbidden, errLocalSeat)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSeatKey, seat)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// accessToken returns the seat token from the request, if any
func accessToken(r *http.Request) string {
	if token := r.FormValue("access_token"); token != "" {
		return token
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}

// checkOrigin allows WebSocket upgrades from the same host and from the allowed origins
// Clients that send no Origin header are not browsers and are allowed
func (m *Mux) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range m.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return strings.EqualFold(u.Host, r.Host)
}

const spectatorSeat = -1

func seatFromContext(ctx context.Context) int {
	if seat, ok := ctx.Value(ctxSeatKey).(int); ok {
		return seat
	}

	return spectatorSeat
}
