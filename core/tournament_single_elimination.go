package core

// Creates the first knockout round.
//
// The participants are shuffled with the knockout seed and the
// bracket is filled up with byes to the next power of two. The
// matches are numbered with the given round so a knockout stage can
// follow a group stage.
func KnockoutRoundOne(participants []Participant, seed *int64, round int) []Match {
	if len(participants) < 2 {
		return nil
	}

	shuffled := SeededShuffle(participantIds(participants), seed, knockoutSeedLabel)

	bracketSize := nextPowerOfTwo(len(shuffled))
	slots := make([]Slot, 0, bracketSize)
	for _, id := range shuffled {
		slots = append(slots, NewPlayerSlot(id))
	}
	for len(slots) < bracketSize {
		slots = append(slots, NewByeSlot())
	}

	return CreatePairedMatches(slots, round)
}

// Creates knockout matches with the slots taken pair-wise from
// the entrySlots. The entrySlots need to have an even length.
func CreatePairedMatches(entrySlots []Slot, round int) []Match {
	matches := make([]Match, 0, len(entrySlots)/2)
	for i := 0; i < len(entrySlots); i += 2 {
		id := knockoutMatchId(round, i/2)
		match := NewMatch(id, entrySlots[i], entrySlots[i+1], round, StageKnockout)
		matches = append(matches, match)
	}

	return matches
}

// Generates the next knockout round once the latest one is fully
// played.
//
// The winners advance in match order. A single remaining winner
// completes the tournament. Drawn matches have no winner and send
// nobody through, so a round without any winner stalls the bracket.
func AdvanceKnockout(t Tournament) Tournament {
	koMatches := matchList(t.StageMatches(StageKnockout))
	if len(koMatches) == 0 {
		return t
	}

	maxRound := koMatches.MaxRound()
	currentRound := koMatches.InRound(maxRound)
	if !currentRound.MatchesComplete() {
		return t
	}

	winners := make([]Slot, 0, len(currentRound))
	for _, m := range currentRound {
		if m.Winner != "" {
			winners = append(winners, NewPlayerSlot(m.Winner))
		}
	}

	if len(winners) == 0 {
		return t
	}
	if len(winners) == 1 {
		next := t.Clone()
		next.Status = StatusCompleted
		return next
	}

	if len(winners)%2 != 0 {
		winners = append(winners, NewByeSlot())
	}

	next := t.Clone()
	next.Matches = append(next.Matches, CreatePairedMatches(winners, maxRound+1)...)
	return next
}

func nextPowerOfTwo(v int) int {
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}
