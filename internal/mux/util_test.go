package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holdem-server/internal/jwt"
	"holdem-server/internal/rng"
	"holdem-server/pkg/history"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

var cbg = context.Background()

func Test_remoteAddr(t *testing.T) {
	r := &http.Request{RemoteAddr: "127.0.0.1:5000"}
	assert.Equal(t, "127.0.0.1", remoteAddr(r))

	r.RemoteAddr = "[::1]:5000"
	assert.Equal(t, "[::1]", remoteAddr(r))
}

func Test_parseRowsOption(t *testing.T) {
	req := func(queryString string) *http.Request {
		req, _ := http.NewRequest(http.MethodGet, "https://example.domain/"+queryString, nil)
		return req
	}

	rows, err := parseRowsOption(req(""))
	assert.NoError(t, err)
	assert.Equal(t, defaultRows, rows)

	rows, err = parseRowsOption(req("?rows=10"))
	assert.NoError(t, err)
	assert.Equal(t, 10, rows)

	rows, err = parseRowsOption(req("?rows=0"))
	assert.EqualError(t, err, "rows must be greater than zero")
	assert.Equal(t, 0, rows)

	rows, err = parseRowsOption(req(fmt.Sprintf("?rows=%d", maxRows+1)))
	assert.EqualError(t, err, fmt.Sprintf("rows cannot be greater than %d", maxRows))
	assert.Equal(t, 0, rows)
}

var testSigner = jwt.NewSigner([]byte("test-secret"), time.Hour)

// setupDealer returns a running dealer with a hand in progress
// Without seats, Alice and Bob sit down
func setupDealer(t *testing.T, seats ...texasholdem.Seat) (*room.Dealer, *texasholdem.Game) {
	t.Helper()

	if len(seats) == 0 {
		seats = []texasholdem.Seat{
			{Name: "Alice", Chips: 1000},
			{Name: "Bob", Chips: 1000},
		}
	}

	game, err := texasholdem.NewGame(logrus.StandardLogger(), seats, texasholdem.Options{SmallBlind: 10, BigBlind: 20})
	require.NoError(t, err)
	game.SetGenerator(rng.Seeded(3))

	dealer := room.NewDealer(logrus.StandardLogger(), game, room.Timing{})
	dealer.SetGenerator(rng.Seeded(3))
	dealer.StartShift()
	t.Cleanup(dealer.EndShift)

	require.NoError(t, dealer.StartHand(cbg))
	return dealer, game
}

// setupServer returns a relay for Alice and Bob, both remote
func setupServer(t *testing.T, store history.Store) (*httptest.Server, *room.Dealer) {
	t.Helper()

	dealer, _ := setupDealer(t)
	ts := httptest.NewServer(NewMux("v1.2.3", dealer, Options{
		History:     store,
		Signer:      testSigner,
		RemoteSeats: []int{0, 1},
	}))
	t.Cleanup(ts.Close)
	return ts, dealer
}

// seatToken signs a token for the seat
func seatToken(t *testing.T, seat int) string {
	t.Helper()

	token, err := testSigner.Sign(seat)
	require.NoError(t, err)
	return token
}

// asSeat adds the seat and a token for it to path
func asSeat(t *testing.T, path string, seat int) string {
	t.Helper()
	return path + "?seat=" + itoa(seat) + "&access_token=" + seatToken(t, seat)
}

// waitFor polls fn until it returns true
func waitFor(t *testing.T, fn func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second * 5)
	for !fn() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}

		time.Sleep(time.Millisecond * 10)
	}
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := ioutil.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()
	if resp := assertGetWithResp(t, ts, path, respObj, statusCode); resp != nil {
		_ = resp.Body.Close()
	}
}

func assertPostWithResp(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	return assertDo(t, req, respObj, statusCode)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int) {
	t.Helper()
	if resp := assertPostWithResp(t, ts, path, payload, respObj, statusCode); resp != nil {
		_ = resp.Body.Close()
	}
}

func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
