package mux

import (
	"errors"
	"net/http"

	"holdem-server/pkg/history"
)

var errHistoryDisabled = errors.New("hand history is disabled")

func (m *Mux) getHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.history == nil {
			writeJSONError(w, http.StatusNotFound, errHistoryDisabled)
			return
		}

		rows, err := parseRowsOption(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		hands, err := m.history.RecentHands(r.Context(), rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		if hands == nil {
			hands = make([]*history.Hand, 0)
		}

		writeJSON(w, http.StatusOK, hands)
	}
}
