package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_seatRouter(t *testing.T) {
	dealer, _ := setupDealer(t)
	m := NewMux("", dealer, Options{Signer: testSigner, RemoteSeats: []int{1}})

	m.seatRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, seatFromContext(r.Context()))
	})

	ts := httptest.NewServer(m)
	defer ts.Close()

	var seat int
	assertGet(t, ts, "/test", &seat, 200)
	assert.Equal(t, -1, seat)

	assertGet(t, ts, asSeat(t, "/test", 1), &seat, 200)
	assert.Equal(t, 1, seat)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/test", nil)
	req.Header.Set("Authorization", "Bearer "+seatToken(t, 1))
	seat = -1
	assertDo(t, req, &seat, 200)
	assert.Equal(t, 1, seat)

	var errObj errorResponse
	assertGet(t, ts, asSeat(t, "/test", 2), &errObj, 404)
	assert.Equal(t, "seat is not at the table", errObj.Message)

	assertGet(t, ts, asSeat(t, "/test", 0), &errObj, 403)
	assert.Equal(t, "seat is not open to remote players", errObj.Message)

	assertGet(t, ts, "/test?seat=-1", &errObj, 401)
	assertGet(t, ts, "/test?access_token=not-a-token", &errObj, 401)
	assert.Equal(t, "invalid seat token", errObj.Message)
}

func Test_seatRouter_withoutSigner(t *testing.T) {
	dealer, _ := setupDealer(t)
	m := NewMux("", dealer, Options{RemoteSeats: []int{0, 1}})

	ts := httptest.NewServer(m)
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, asSeat(t, "/table", 0), &errObj, 401)
	assert.Equal(t, "invalid seat token", errObj.Message)
}

func TestMux_checkOrigin(t *testing.T) {
	a := assert.New(t)
	m := &Mux{allowedOrigins: []string{"https://poker.example.com"}}

	req := func(origin string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "http://table.example.com/table/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	a.True(m.checkOrigin(req("")))
	a.True(m.checkOrigin(req("https://poker.example.com")))
	a.True(m.checkOrigin(req("http://table.example.com")))
	a.False(m.checkOrigin(req("https://evil.example.com")))
	a.False(m.checkOrigin(req("://bad")))

	m.allowedOrigins = []string{"*"}
	a.True(m.checkOrigin(req("https://evil.example.com")))
}
