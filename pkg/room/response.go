package room

import (
	"holdem-server/pkg/playable"
)

type clientState struct {
	ConnectedSeats []int `json:"connectedSeats"`
	Spectators     int   `json:"spectators"`
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

func newEventResponse(event interface{ Name() string }) *playable.Response {
	return &playable.Response{
		Key:   "event",
		Value: event.Name(),
		Data:  event,
	}
}
