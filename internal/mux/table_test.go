package mux

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holdem-server/internal/jwt"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/history"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

type tableResponse struct {
	Actions     []map[string]string    `json:"actions"`
	Participant map[string]interface{} `json:"participant"`
	GameState   struct {
		HandNumber  int    `json:"handNumber"`
		CurrentTurn int    `json:"currentTurn"`
		TurnID      uint64 `json:"turnId"`
	} `json:"gameState"`
}

func currentTurn(t *testing.T, dealer interface {
	State(int) *texasholdem.ParticipantState
}) (int, int) {
	t.Helper()

	turn := dealer.State(-1).GameState.CurrentTurn
	require.True(t, turn >= 0)
	return turn, 1 - turn
}

func Test_getTable(t *testing.T) {
	a := assert.New(t)
	ts, dealer := setupServer(t, nil)

	var spectator tableResponse
	assertGet(t, ts, "/table", &spectator, 200)
	a.Equal(1, spectator.GameState.HandNumber)
	a.Nil(spectator.Participant)
	a.Len(spectator.Actions, 0)

	turn, _ := currentTurn(t, dealer)

	var seat tableResponse
	assertGet(t, ts, asSeat(t, "/table", turn), &seat, 200)
	a.NotNil(seat.Participant)
	a.Equal(turn, seat.GameState.CurrentTurn)
	a.NotEmpty(seat.Actions)

	// the token alone is enough
	seat = tableResponse{}
	assertGet(t, ts, "/table?access_token="+seatToken(t, turn), &seat, 200)
	a.NotNil(seat.Participant)

	var errResp errorResponse
	assertGet(t, ts, asSeat(t, "/table", 5), &errResp, 404)
	a.Equal("seat is not at the table", errResp.Message)

	assertGet(t, ts, "/table?seat=abc&access_token="+seatToken(t, turn), &errResp, 400)

	assertGet(t, ts, "/table?seat="+itoa(turn), &errResp, 401)
	a.Equal("a seat token is required", errResp.Message)
}

// setupMixedServer seats a remote human, a bot, a second remote human and a local human
func setupMixedServer(t *testing.T) (*httptest.Server, *room.Dealer) {
	t.Helper()

	dealer, _ := setupDealer(t,
		texasholdem.Seat{Name: "Alice", Chips: 1000},
		texasholdem.Seat{Name: "Robo", Bot: true, Chips: 1000},
		texasholdem.Seat{Name: "Carol", Chips: 1000},
		texasholdem.Seat{Name: "Dave", Chips: 1000},
	)

	ts := httptest.NewServer(NewMux("v1.2.3", dealer, Options{
		Signer:      testSigner,
		RemoteSeats: []int{0, 2},
	}))
	t.Cleanup(ts.Close)
	return ts, dealer
}

func Test_getTable_seatAuthorization(t *testing.T) {
	a := assert.New(t)
	ts, _ := setupMixedServer(t)

	var errResp errorResponse
	assertGet(t, ts, "/table?seat=1", &errResp, 401)
	a.Equal("a seat token is required", errResp.Message)

	// a correctly signed token still cannot claim a bot
	assertGet(t, ts, asSeat(t, "/table", 1), &errResp, 403)
	a.Equal("bot seats cannot be claimed", errResp.Message)

	assertGet(t, ts, asSeat(t, "/table", 3), &errResp, 403)
	a.Equal("seat is not open to remote players", errResp.Message)

	assertGet(t, ts, "/table?seat=1&access_token="+seatToken(t, 0), &errResp, 403)
	a.Equal("seat token does not match the seat", errResp.Message)

	forged, err := jwt.NewSigner([]byte("forged"), time.Hour).Sign(0)
	require.NoError(t, err)
	assertGet(t, ts, "/table?access_token="+forged, &errResp, 401)
	a.Equal("invalid seat token", errResp.Message)

	var state tableResponse
	assertGet(t, ts, asSeat(t, "/table", 0), &state, 200)
	a.Equal("Alice", state.Participant["name"])

	// spectators see no hole cards
	state = tableResponse{}
	assertGet(t, ts, "/table", &state, 200)
	a.Nil(state.Participant)
}

func Test_postTableAction_seatAuthorization(t *testing.T) {
	a := assert.New(t)
	ts, dealer := setupMixedServer(t)

	turnID := dealer.State(-1).GameState.TurnID

	var errResp errorResponse
	assertPost(t, ts, "/table/action?seat=0", postTableActionPayload{Action: "fold"}, &errResp, 401)
	a.Equal("a seat token is required", errResp.Message)

	assertPost(t, ts, "/table/action?seat=0&access_token="+seatToken(t, 2), postTableActionPayload{Action: "fold"}, &errResp, 403)
	a.Equal("seat token does not match the seat", errResp.Message)

	assertPost(t, ts, asSeat(t, "/table/action", 1), postTableActionPayload{Action: "fold"}, &errResp, 403)
	a.Equal("bot seats cannot be claimed", errResp.Message)

	assertPost(t, ts, asSeat(t, "/table/action", 3), postTableActionPayload{Action: "fold"}, &errResp, 403)
	a.Equal("seat is not open to remote players", errResp.Message)

	// nothing was applied
	a.Equal(turnID, dealer.State(-1).GameState.TurnID)
	for _, p := range dealer.State(-1).GameState.Participants {
		a.Equal(poker.StatusActive, p.Status)
	}
}

func Test_postTableAction(t *testing.T) {
	a := assert.New(t)
	ts, dealer := setupServer(t, nil)

	turn, other := currentTurn(t, dealer)

	var errResp errorResponse
	assertPost(t, ts, "/table/action", postTableActionPayload{Action: "call"}, &errResp, 403)
	a.Equal("spectators cannot act", errResp.Message)

	assertPost(t, ts, asSeat(t, "/table/action", other), postTableActionPayload{Action: "call"}, &errResp, 409)
	a.Equal("it is not your turn", errResp.Message)

	assertPost(t, ts, asSeat(t, "/table/action", turn), postTableActionPayload{Action: "dance"}, &errResp, 400)
	a.Equal("unknown action for identifier: dance", errResp.Message)

	turnID := dealer.State(-1).GameState.TurnID

	var state tableResponse
	assertPost(t, ts, asSeat(t, "/table/action", turn), postTableActionPayload{Action: "call"}, &state, 200)
	a.Equal(other, state.GameState.CurrentTurn)
	a.True(state.GameState.TurnID > turnID)
}

func Test_getHistory(t *testing.T) {
	a := assert.New(t)

	ts, _ := setupServer(t, nil)
	var errResp errorResponse
	assertGet(t, ts, "/history", &errResp, 404)
	a.Equal("hand history is disabled", errResp.Message)

	store := history.NewMemoryStore(10)
	for i := 1; i <= 3; i++ {
		a.NoError(store.SaveHand(cbg, &history.Hand{
			ID:         uuid.New(),
			HandNumber: i,
			Winner:     0,
			Amount:     40,
			Hand:       "Pair",
			BestFive:   deck.CardsFromString("14c,14d,10h,8s,3c"),
			Created:    time.Now(),
		}))
	}

	ts, _ = setupServer(t, store)

	var hands []*history.Hand
	assertGet(t, ts, "/history", &hands, 200)
	if a.Len(hands, 3) {
		a.Equal(3, hands[0].HandNumber)
		a.Equal("14c,14d,10h,8s,3c", deck.CardsToString(hands[0].BestFive))
	}

	assertGet(t, ts, "/history?rows=1", &hands, 200)
	a.Len(hands, 1)

	assertGet(t, ts, "/history?rows=0", &errResp, 400)
	a.Equal("rows must be greater than zero", errResp.Message)
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// readUntil reads messages until one has the key
func readUntil(t *testing.T, conn *websocket.Conn, key string) playable.Response {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second*5)))
	for {
		var resp playable.Response
		require.NoError(t, conn.ReadJSON(&resp))
		if resp.Key == key {
			return resp
		}
	}
}

func Test_getTableWS(t *testing.T) {
	a := assert.New(t)
	ts, dealer := setupServer(t, nil)

	turn, other := currentTurn(t, dealer)

	spectator := dial(t, ts.URL+"/table/ws")
	resp := readUntil(t, spectator, "game")
	a.Equal("texas-hold-em", resp.Value)

	require.NoError(t, spectator.WriteJSON(playable.PayloadIn{Action: "call", Context: "abc"}))
	resp = readUntil(t, spectator, "error")
	a.Equal("spectators cannot act", resp.Value)
	a.Equal("abc", resp.Context)

	player := dial(t, ts.URL+asSeat(t, "/table/ws", turn))
	readUntil(t, player, "game")

	waitFor(t, func() bool {
		return len(dealer.Clients()) == 2
	})

	require.NoError(t, player.WriteJSON(playable.PayloadIn{Action: "call", Context: "xyz"}))
	resp = readUntil(t, player, "status")
	a.Equal("xyz", resp.Context)

	waitFor(t, func() bool {
		return dealer.State(-1).GameState.CurrentTurn == other
	})

	// the spectator sees the bet
	for resp = readUntil(t, spectator, "event"); resp.Value != "betPlaced"; resp = readUntil(t, spectator, "event") {
	}
	a.Equal("event", resp.Key)
}

func Test_getTableWS_origin(t *testing.T) {
	a := assert.New(t)
	dealer, _ := setupDealer(t)
	ts := httptest.NewServer(NewMux("v1.2.3", dealer, Options{
		Signer:         testSigner,
		RemoteSeats:    []int{0, 1},
		AllowedOrigins: []string{"https://poker.example.com"},
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/table/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"https://poker.example.com"}})
	if a.NoError(err) {
		_ = conn.Close()
	}

	conn, _, err = websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{ts.URL}})
	if a.NoError(err) {
		_ = conn.Close()
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"https://evil.example.com"}})
	a.Equal(websocket.ErrBadHandshake, err)
	if a.NotNil(resp) {
		a.Equal(http.StatusForbidden, resp.StatusCode)
	}

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?seat=0", nil)
	a.Equal(websocket.ErrBadHandshake, err)
	if a.NotNil(resp) {
		a.Equal(http.StatusUnauthorized, resp.StatusCode)
	}
}
