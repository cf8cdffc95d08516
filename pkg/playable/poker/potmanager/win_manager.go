package potmanager

import (
	"sort"
)

type tier struct {
	strength     int
	participants []Participant
}

// WinManager groups participants by hand strength
// Within a tier, participants keep the order they were added in
type WinManager map[int]*tier

// NewWinManager returns an empty WinManager
func NewWinManager() WinManager {
	return make(WinManager)
}

// AddParticipant adds a participant with their hand strength
func (w WinManager) AddParticipant(p Participant, handStrength int) {
	t, ok := w[handStrength]
	if !ok {
		t = &tier{
			strength:     handStrength,
			participants: make([]Participant, 0),
		}
	}

	t.participants = append(t.participants, p)
	w[handStrength] = t
}

// GetSortedTiers returns the participants grouped by strength, strongest first
func (w WinManager) GetSortedTiers() [][]Participant {
	tiers := make([]*tier, 0, len(w))
	for _, tier := range w {
		tiers = append(tiers, tier)
	}

	sort.Sort(sort.Reverse(sortByStrength(tiers)))

	tieredParticipants := make([][]Participant, len(tiers))
	for i, t := range tiers {
		tieredParticipants[i] = t.participants
	}

	return tieredParticipants
}

// GetWinner returns the first participant of the strongest tier
// Add participants clockwise from the dealer to award ties to the first seat left of the button
func (w WinManager) GetWinner() (Participant, bool) {
	tiers := w.GetSortedTiers()
	if len(tiers) == 0 {
		return nil, false
	}

	return tiers[0][0], true
}

type sortByStrength []*tier

func (s sortByStrength) Len() int {
	return len(s)
}

func (s sortByStrength) Less(i, j int) bool {
	return s[i].strength < s[j].strength
}

func (s sortByStrength) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
