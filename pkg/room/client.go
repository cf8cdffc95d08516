package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"holdem-server/pkg/playable"
)

// Client is a remote seat connected to the host via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	// seat is the seat the client plays, negative for a spectator
	seat int
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, seat int) *Client {
	return &Client{
		send:  make(chan interface{}, 256),
		Close: make(chan string),
		Conn:  conn,
		seat:  seat,
	}
}

// Seat returns the seat the client plays
func (c *Client) Seat() int {
	return c.seat
}

// Send send a message to the web client
// The message is dropped if the client is not keeping up
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	if c.seat < 0 {
		return "spectator"
	}

	return fmt.Sprintf("seat-%d", c.seat)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
