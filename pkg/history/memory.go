package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the most recent hands in memory
// It is used when no database is configured
type MemoryStore struct {
	lock  sync.RWMutex
	hands []*Hand
	limit int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore keeps up to limit hands
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

// SaveHand stores the hand, evicting the oldest when full
func (m *MemoryStore) SaveHand(ctx context.Context, hand *Hand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.hands = append(m.hands, hand)
	if len(m.hands) > m.limit {
		m.hands = append([]*Hand(nil), m.hands[len(m.hands)-m.limit:]...)
	}

	return nil
}

// RecentHands returns the most recent hands, newest first
func (m *MemoryStore) RecentHands(ctx context.Context, limit int) ([]*Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	hands := make([]*Hand, 0, limit)
	for i := len(m.hands) - 1; i >= 0 && len(hands) < limit; i-- {
		hands = append(hands, m.hands[i])
	}

	return hands, nil
}
