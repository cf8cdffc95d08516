package history

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"holdem-server/pkg/playable/poker/texasholdem"
)

// saveTimeout bounds how long a single hand can take to save
const saveTimeout = time.Second * 10

// Recorder saves finished hands to a store without blocking the table
type Recorder struct {
	logger logrus.FieldLogger
	store  Store

	lock   sync.Mutex
	closed bool
	queue  chan *Hand
	done   chan bool
}

// NewRecorder creates a recorder that buffers up to size hands
func NewRecorder(logger logrus.FieldLogger, store Store, size int) *Recorder {
	return &Recorder{
		logger: logger,
		store:  store,
		queue:  make(chan *Hand, size),
		done:   make(chan bool),
	}
}

// HandleEvent queues HandWon events for saving
// It never blocks, a full queue drops the hand and so does a closed recorder
func (r *Recorder) HandleEvent(event texasholdem.Event) {
	won, ok := event.(texasholdem.HandWon)
	if !ok {
		return
	}

	hand := NewHand(won)

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return
	}

	select {
	case r.queue <- hand:
	default:
		r.logger.WithField("handNumber", hand.HandNumber).Warn("history queue is full, dropping hand")
	}
}

// Run saves queued hands until Close is called or ctx is canceled
// Hands already queued are saved before Run returns
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	for {
		select {
		case hand, ok := <-r.queue:
			if !ok {
				return
			}

			r.save(ctx, hand)
		case <-ctx.Done():
			return
		}
	}
}

// Close stops accepting hands and waits for Run to drain the queue
func (r *Recorder) Close() {
	r.lock.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.lock.Unlock()

	<-r.done
}

func (r *Recorder) save(ctx context.Context, hand *Hand) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := r.store.SaveHand(ctx, hand); err != nil {
		r.logger.WithError(err).WithField("handNumber", hand.HandNumber).Error("could not save hand")
		return
	}

	r.logger.WithField("handNumber", hand.HandNumber).Debug("saved hand")
}
