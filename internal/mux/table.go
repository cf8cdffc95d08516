package mux

import (
	"context"
	"errors"
	"net/http"

	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

var errSpectatorAction = errors.New("spectators cannot act")

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.dealer.State(seatFromContext(r.Context())))
	}
}

type postTableActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (m *Mux) postTableAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat := seatFromContext(r.Context())
		if seat < 0 {
			writeJSONError(w, http.StatusForbidden, errSpectatorAction)
			return
		}

		var payload postTableActionPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		a, err := action.FromString(payload.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		if err := m.dealer.ApplyAction(r.Context(), seat, a, payload.Amount); err != nil {
			writeJSONError(w, actionErrorStatus(err), err)
			return
		}

		writeJSON(w, http.StatusOK, m.dealer.State(seat))
	}
}

// actionErrorStatus maps an error from the table to a status code
func actionErrorStatus(err error) int {
	var invariantErr *texasholdem.InvariantError
	switch {
	case errors.Is(err, texasholdem.ErrNotYourTurn),
		errors.Is(err, texasholdem.ErrNoActionPending),
		errors.Is(err, texasholdem.ErrStaleTurn):
		return http.StatusConflict
	case errors.As(err, &invariantErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, room.ErrDealerClosed):
		return http.StatusServiceUnavailable
	}

	return http.StatusBadRequest
}
