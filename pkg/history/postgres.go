package history

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"holdem-server/pkg/db"
	"holdem-server/pkg/deck"
)

const handColumns = `
hands.id,
hands.hand_number,
hands.winner_seat,
hands.amount,
hands.hand,
hands.best_five,
hands.community,
hands.by_default,
hands.created`

const seatColumns = `
hand_seats.seat,
hand_seats.name,
hand_seats.cards,
hand_seats.hand,
hand_seats.folded,
hand_seats.contributed,
hand_seats.won,
hand_seats.chips`

// PostgresStore stores hands in the hands and hand_seats tables
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore returns a store backed by the database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveHand saves the hand and every seat in a single transaction
func (p *PostgresStore) SaveHand(ctx context.Context, hand *Hand) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const handQuery = `
INSERT INTO hands (id, hand_number, winner_seat, amount, hand, best_five, community, by_default, created)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := tx.ExecContext(ctx, handQuery, hand.ID, hand.HandNumber, hand.Winner, hand.Amount, hand.Hand,
		pq.Array(cardStrings(hand.BestFive)), pq.Array(cardStrings(hand.Community)), hand.ByDefault, hand.Created); err != nil {
		_ = tx.Rollback()
		return err
	}

	const seatQuery = `
INSERT INTO hand_seats (hand_id, seat, name, cards, hand, folded, contributed, won, chips)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, seat := range hand.Seats {
		if _, err := tx.ExecContext(ctx, seatQuery, hand.ID, seat.Seat, seat.Name, pq.Array(cardStrings(seat.Cards)),
			seat.Hand, seat.Folded, seat.Contributed, seat.Won, seat.Chips); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// RecentHands returns the most recent hands, newest first
func (p *PostgresStore) RecentHands(ctx context.Context, limit int) ([]*Hand, error) {
	const query = `
SELECT ` + handColumns + `
FROM hands
ORDER BY created DESC, hand_number DESC
LIMIT $1`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	hands := make([]*Hand, 0, limit)
	for rows.Next() {
		hand, err := getHandByRow(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}

		hands = append(hands, hand)
	}

	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	for _, hand := range hands {
		if hand.Seats, err = p.getSeats(ctx, hand); err != nil {
			return nil, err
		}
	}

	return hands, nil
}

func (p *PostgresStore) getSeats(ctx context.Context, hand *Hand) ([]Seat, error) {
	const query = `
SELECT ` + seatColumns + `
FROM hand_seats
WHERE hand_id = $1
ORDER BY seat`

	rows, err := p.db.QueryContext(ctx, query, hand.ID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	seats := make([]Seat, 0)
	for rows.Next() {
		seat, err := getSeatByRow(rows)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func getHandByRow(row db.Scanner) (*Hand, error) {
	var hand Hand
	var bestFive, community []string
	if err := row.Scan(&hand.ID, &hand.HandNumber, &hand.Winner, &hand.Amount, &hand.Hand,
		pq.Array(&bestFive), pq.Array(&community), &hand.ByDefault, &hand.Created); err != nil {
		return nil, err
	}

	hand.BestFive = cardsFromStrings(bestFive)
	hand.Community = cardsFromStrings(community)
	return &hand, nil
}

func getSeatByRow(row db.Scanner) (Seat, error) {
	var seat Seat
	var cards []string
	if err := row.Scan(&seat.Seat, &seat.Name, pq.Array(&cards), &seat.Hand, &seat.Folded,
		&seat.Contributed, &seat.Won, &seat.Chips); err != nil {
		return Seat{}, err
	}

	seat.Cards = cardsFromStrings(cards)
	return seat, nil
}

func cardStrings(cards []deck.Card) []string {
	s := make([]string, len(cards))
	for i, card := range cards {
		s[i] = deck.CardToString(card)
	}

	return s
}

func cardsFromStrings(s []string) []deck.Card {
	cards := make([]deck.Card, len(s))
	for i, str := range s {
		cards[i] = deck.CardFromString(str)
	}

	return cards
}
