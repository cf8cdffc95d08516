package handanalyzer

import "holdem-server/pkg/deck"

// rankMask is a bitmask of the ranks present in a set of cards
// Bit n is set when a card of rank n is present. An Ace sets both bit 14 and bit 1
type rankMask uint16

const fiveInARow rankMask = 0x1f

func (r *rankMask) add(rank int) {
	*r |= 1 << uint(rank)
	if rank == deck.Ace {
		*r |= 1 << deck.LowAce
	}
}

// highestStraight returns the high card of the best straight the mask contains, or zero
// The wheel (A-2-3-4-5) is a 5-high straight
func (r rankMask) highestStraight() int {
	for high := deck.Ace; high >= 5; high-- {
		want := fiveInARow << uint(high-4)
		if r&want == want {
			return high
		}
	}

	return 0
}

// straightRanks returns the five ranks of a straight with the given high card
// An Ace in a wheel is reported as deck.Ace
func straightRanks(high int) []int {
	ranks := make([]int, 5)
	for i := range ranks {
		rank := high - i
		if rank == deck.LowAce {
			rank = deck.Ace
		}

		ranks[i] = rank
	}

	return ranks
}
