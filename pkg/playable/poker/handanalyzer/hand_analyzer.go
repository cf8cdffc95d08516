package handanalyzer

import (
	"errors"
	"sort"

	"holdem-server/pkg/deck"
)

// ErrInvalidCardCount is returned when the analyzer is given fewer than two or more than seven cards
var ErrInvalidCardCount = errors.New("hand analyzer requires between 2 and 7 cards")

// ErrDuplicateCard is returned when the same card appears more than once
var ErrDuplicateCard = errors.New("hand analyzer received a duplicate card")

// ErrInvalidCard is returned when a card has an unknown suit or rank
var ErrInvalidCard = errors.New("hand analyzer received an invalid card")

// MinCards and MaxCards bound the input size
// Anything under five cards is informational only and can never make a straight or a flush
const (
	MinCards = 2
	MaxCards = 7
	handSize = 5
)

// HandAnalyzer can analyze a hand
// It is immutable once constructed and safe to share
type HandAnalyzer struct {
	cards         deck.Hand
	flushSuit     deck.Suit
	flush         []int
	quads         []int
	trips         []int
	pairs         []int
	straightFlush int
	straight      int

	hand     Hand
	strength int
	best     deck.Hand
}

// New will return a new HandAnalyzer instance
// The result does not depend on the order of the cards
func New(cards []deck.Card) (*HandAnalyzer, error) {
	if len(cards) < MinCards || len(cards) > MaxCards {
		return nil, ErrInvalidCardCount
	}

	// clone to prevent modifying original
	sortedCards := make(deck.Hand, len(cards))
	copy(sortedCards, cards)
	for _, card := range sortedCards {
		if !card.IsValid() {
			return nil, ErrInvalidCard
		}
	}

	if sortedCards.HasDuplicates() {
		return nil, ErrDuplicateCard
	}

	sort.Sort(sortedCards)

	h := &HandAnalyzer{
		cards: sortedCards,
	}

	h.analyzeHand()
	h.calculateHand()
	h.strength = h.calculateStrength()
	h.best = h.calculateBestFive()

	return h, nil
}

// MustNew is like New but panics on invalid input
// Callers must only use this with cards they dealt themselves
func MustNew(cards []deck.Card) *HandAnalyzer {
	h, err := New(cards)
	if err != nil {
		panic(err)
	}

	return h
}

// analyzeHand will loop through the cards once and record the various combinations
func (h *HandAnalyzer) analyzeHand() {
	suitCounts := make(map[deck.Suit][]int)
	suitMasks := make(map[deck.Suit]rankMask)
	var mask rankMask

	for i := 0; i < len(h.cards); {
		rank := h.cards[i].Rank
		j := i
		for j < len(h.cards) && h.cards[j].Rank == rank {
			card := h.cards[j]
			suitCounts[card.Suit] = append(suitCounts[card.Suit], card.Rank)

			suitMask := suitMasks[card.Suit]
			suitMask.add(card.Rank)
			suitMasks[card.Suit] = suitMask

			j++
		}

		mask.add(rank)

		// cards are sorted by rank descending, so each list is sorted as well
		switch j - i {
		case 4:
			h.quads = append(h.quads, rank)
		case 3:
			h.trips = append(h.trips, rank)
		case 2:
			h.pairs = append(h.pairs, rank)
		}

		i = j
	}

	if len(h.cards) < handSize {
		return
	}

	h.straight = mask.highestStraight()

	// with at most seven cards only one suit can reach five
	for _, suit := range deck.Suits {
		ranks := suitCounts[suit]
		if len(ranks) < handSize {
			continue
		}

		h.flushSuit = suit
		h.flush = ranks[0:handSize]

		// the straight must be made of cards from this one suit
		h.straightFlush = suitMasks[suit].highestStraight()
	}
}

// GetHand will return the best possible hand the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.hand
}

// GetStrength returns the strength of the hand
// A stronger hand always has a strictly greater value, equal hands have equal values
func (h *HandAnalyzer) GetStrength() int {
	return h.strength
}

// BestFive returns the cards that make up the hand, strongest first
// Fewer than five cards are returned when fewer than five were analyzed
func (h *HandAnalyzer) BestFive() deck.Hand {
	return h.best.Clone()
}

// Cards returns the analyzed cards sorted by rank
func (h *HandAnalyzer) Cards() deck.Hand {
	return h.cards.Clone()
}

// GetRoyalFlush will return true if there's a royal flush
func (h *HandAnalyzer) GetRoyalFlush() bool {
	return h.straightFlush == deck.Ace
}

// GetStraightFlush will return the best straight flush, if possible
func (h *HandAnalyzer) GetStraightFlush() (int, bool) {
	if h.straightFlush > 0 {
		return h.straightFlush, true
	}

	return 0, false
}

// GetFourOfAKind will return the best four of a kind, if possible
func (h *HandAnalyzer) GetFourOfAKind() (int, bool) {
	if len(h.quads) > 0 {
		return h.quads[0], true
	}

	return 0, false
}

// GetFullHouse will return the best full house, if possible
func (h *HandAnalyzer) GetFullHouse() ([]int, bool) {
	if len(h.trips) == 0 {
		return nil, false
	}

	trips := h.trips[0]

	pair, ok := h.GetPair()
	if !ok {
		if len(h.trips) == 1 {
			// could not find a pair from a second set of trips
			return nil, false
		}

		pair = h.trips[1]
	} else if len(h.trips) >= 2 && h.trips[1] > pair {
		// two sets of trips and a separate pair, the better pair comes from the trips
		pair = h.trips[1]
	}

	return []int{trips, pair}, true
}

// GetFlush will return the best possible flush, if possible
func (h *HandAnalyzer) GetFlush() ([]int, bool) {
	if h.flush != nil {
		return h.flush, true
	}

	return nil, false
}

// GetStraight will return the best straight, if possible
func (h *HandAnalyzer) GetStraight() (int, bool) {
	if h.straight > 0 {
		return h.straight, true
	}

	return 0, false
}

// GetThreeOfAKind will return the best three of a kind, if possible
func (h *HandAnalyzer) GetThreeOfAKind() (int, bool) {
	if len(h.trips) > 0 {
		return h.trips[0], true
	}

	return 0, false
}

// GetTwoPair will return the best two pairs, if possible
func (h *HandAnalyzer) GetTwoPair() ([]int, bool) {
	if len(h.pairs) >= 2 {
		return h.pairs[0:2], true
	}

	return nil, false
}

// GetPair will return the best pair, if possible
func (h *HandAnalyzer) GetPair() (int, bool) {
	if len(h.pairs) > 0 {
		return h.pairs[0], true
	}

	return 0, false
}

// GetHighCard will return up to five of the highest ranks
func (h *HandAnalyzer) GetHighCard() ([]int, bool) {
	return h.kickers(handSize), true
}

// kickers returns up to n ranks from the highest cards not in the excluded ranks
func (h *HandAnalyzer) kickers(n int, exclude ...int) []int {
	hc := make([]int, 0, n)
	for _, card := range h.cards {
		if len(hc) == n {
			break
		}

		if containsRank(exclude, card.Rank) {
			continue
		}

		hc = append(hc, card.Rank)
	}

	return hc
}

func containsRank(ranks []int, rank int) bool {
	for _, r := range ranks {
		if r == rank {
			return true
		}
	}

	return false
}

// strengthBase is the base of the kicker digits. Ranks never exceed 14
const strengthBase = 15

// calculateStrength encodes the hand as hand*15^5 plus up to five ranks as base-15 digits
func calculateStrength(hand Hand, ranks []int) int {
	strength := int(hand)
	for i := 0; i < handSize; i++ {
		val := 0
		if i < len(ranks) {
			val = ranks[i]
		}

		strength = strength*strengthBase + val
	}

	return strength
}

func (h *HandAnalyzer) calculateStrength() int {
	hand := h.GetHand()

	switch hand {
	case HighCard:
		c, _ := h.GetHighCard()
		return calculateStrength(hand, c)
	case OnePair:
		pair, _ := h.GetPair()
		return calculateStrength(hand, append([]int{pair}, h.kickers(3, pair)...))
	case TwoPair:
		twoPair, _ := h.GetTwoPair()
		return calculateStrength(hand, append([]int{twoPair[0], twoPair[1]}, h.kickers(1, twoPair...)...))
	case ThreeOfAKind:
		trips, _ := h.GetThreeOfAKind()
		return calculateStrength(hand, append([]int{trips}, h.kickers(2, trips)...))
	case Straight:
		s, _ := h.GetStraight()
		return calculateStrength(hand, []int{s})
	case Flush:
		f, _ := h.GetFlush()
		return calculateStrength(hand, f)
	case FullHouse:
		fh, _ := h.GetFullHouse()
		return calculateStrength(hand, fh)
	case FourOfAKind:
		fk, _ := h.GetFourOfAKind()
		return calculateStrength(hand, append([]int{fk}, h.kickers(1, fk)...))
	case StraightFlush:
		s, _ := h.GetStraightFlush()
		return calculateStrength(hand, []int{s})
	case RoyalFlush:
		return calculateStrength(hand, []int{})
	}

	panic("unknown hand")
}

// calculateHand will determine the best hand
// This must be called after analyzeHand() has been called
func (h *HandAnalyzer) calculateHand() {
	if h.GetRoyalFlush() {
		h.hand = RoyalFlush
	} else if _, ok := h.GetStraightFlush(); ok {
		h.hand = StraightFlush
	} else if _, ok := h.GetFourOfAKind(); ok {
		h.hand = FourOfAKind
	} else if _, ok := h.GetFullHouse(); ok && len(h.cards) >= handSize {
		h.hand = FullHouse
	} else if _, ok := h.GetFlush(); ok {
		h.hand = Flush
	} else if _, ok := h.GetStraight(); ok {
		h.hand = Straight
	} else if _, ok := h.GetThreeOfAKind(); ok {
		h.hand = ThreeOfAKind
	} else if _, ok := h.GetTwoPair(); ok {
		h.hand = TwoPair
	} else if _, ok := h.GetPair(); ok {
		h.hand = OnePair
	} else {
		h.hand = HighCard
	}
}

// calculateBestFive picks the actual cards behind the hand
func (h *HandAnalyzer) calculateBestFive() deck.Hand {
	p := picker{cards: h.cards, used: make(map[deck.Card]bool)}

	switch h.hand {
	case RoyalFlush, StraightFlush:
		for _, rank := range straightRanks(h.straightFlush) {
			p.pick(rank, 1, h.flushSuit)
		}

		return p.best
	case Straight:
		for _, rank := range straightRanks(h.straight) {
			p.pick(rank, 1, "")
		}

		return p.best
	case Flush:
		for _, rank := range h.flush {
			p.pick(rank, 1, h.flushSuit)
		}

		return p.best
	case FourOfAKind:
		p.pick(h.quads[0], 4, "")
	case FullHouse:
		fh, _ := h.GetFullHouse()
		p.pick(fh[0], 3, "")
		p.pick(fh[1], 2, "")
	case ThreeOfAKind:
		p.pick(h.trips[0], 3, "")
	case TwoPair:
		p.pick(h.pairs[0], 2, "")
		p.pick(h.pairs[1], 2, "")
	case OnePair:
		p.pick(h.pairs[0], 2, "")
	}

	p.fill(handSize)
	return p.best
}

type picker struct {
	cards deck.Hand
	used  map[deck.Card]bool
	best  deck.Hand
}

// pick takes up to n unused cards of the rank, restricted to the suit when one is given
func (p *picker) pick(rank, n int, suit deck.Suit) {
	for _, card := range p.cards {
		if n == 0 {
			return
		}

		if card.Rank != rank || p.used[card] || (suit != "" && card.Suit != suit) {
			continue
		}

		p.used[card] = true
		p.best = append(p.best, card)
		n--
	}
}

// fill tops the hand up with the highest unused cards
func (p *picker) fill(size int) {
	for _, card := range p.cards {
		if len(p.best) >= size {
			return
		}

		if p.used[card] {
			continue
		}

		p.used[card] = true
		p.best = append(p.best, card)
	}
}
