package core

// The two participant ids of a fixture. The first one is
// the home side.
type Pairing [2]string

func (p Pairing) Reversed() Pairing {
	return Pairing{p[1], p[0]}
}

// Creates the rounds of a single round robin over the given ids
// with the circle method. Odd sized lists get a ghost entry and
// every pairing with the ghost is left out, which means one
// participant sits out each round.
func RoundRobinPairings(ids []string) [][]Pairing {
	if len(ids) < 2 {
		return nil
	}

	numEntries := len(ids)
	ghost := -1
	if numEntries%2 != 0 {
		ghost = numEntries
		numEntries += 1
	}

	numRounds := numEntries - 1
	rounds := make([][]Pairing, 0, numRounds)
	for roundI := range numRounds {
		round := createRound(ids, numEntries, ghost, roundI)
		rounds = append(rounds, round)
	}

	return rounds
}

// Creates the rounds of one or two round robin passes. The second
// pass repeats the first one with home and away sides switched.
func RoundRobinPasses(ids []string, faceOpponentsTwice bool) [][]Pairing {
	rounds := RoundRobinPairings(ids)
	if !faceOpponentsTwice {
		return rounds
	}

	numRounds := len(rounds)
	for i := range numRounds {
		reversed := make([]Pairing, len(rounds[i]))
		for j, p := range rounds[i] {
			reversed[j] = p.Reversed()
		}
		rounds = append(rounds, reversed)
	}
	return rounds
}

func createRound(ids []string, numEntries, ghost, roundI int) []Pairing {
	numMatches := numEntries / 2
	round := make([]Pairing, 0, numMatches)

	for matchI := range numMatches {
		i1 := roundRobinCircleIndex(matchI, numEntries, roundI)
		i2 := roundRobinCircleIndex(numEntries-1-matchI, numEntries, roundI)
		if i1 == ghost || i2 == ghost {
			continue
		}
		round = append(round, Pairing{ids[i1], ids[i2]})
	}

	return round
}

// Rotates the given index according to https://en.wikipedia.org/wiki/Round-robin_tournament#Circle_method
func roundRobinCircleIndex(index, length, round int) int {
	if index == 0 {
		return 0
	}
	index -= 1
	index -= round
	index += length - 1
	index %= length - 1
	index += 1
	return index
}

// Creates all matches of a league. Every round is generated
// upfront since no pairing depends on a result.
func LeagueMatches(participants []Participant, faceOpponentsTwice bool) []Match {
	rounds := RoundRobinPasses(participantIds(participants), faceOpponentsTwice)

	matches := make([]Match, 0, len(rounds)*len(participants)/2)
	for roundI, pairings := range rounds {
		round := roundI + 1
		for i, p := range pairings {
			match := NewMatch(
				leagueMatchId(round, i),
				NewPlayerSlot(p[0]),
				NewPlayerSlot(p[1]),
				round,
				StageLeague,
			)
			matches = append(matches, match)
		}
	}

	return matches
}
