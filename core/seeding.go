package core

import "slices"

// Returns a shuffled copy of the slice. The shuffle is driven by
// the tournament rng for the given label so a seeded tournament
// always draws the same order.
func SeededShuffle[S ~[]E, E any](slice S, seed *int64, label string) S {
	shuffled := slices.Clone(slice)
	shuffle(shuffled, NewRng(seed, label))
	return shuffled
}

// Fisher-Yates from the back of the slice
func shuffle[S ~[]E, E any](slice S, rng Rng) {
	for i := len(slice) - 1; i > 0; i -= 1 {
		j := int(rng() * float64(i+1))
		slice[i], slice[j] = slice[j], slice[i]
	}
}

func participantIds(participants []Participant) []string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.Id
	}
	return ids
}
