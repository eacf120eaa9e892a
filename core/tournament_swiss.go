package core

import "slices"

// Generates the next swiss round when the latest one is fully played
// and completes the tournament once the configured number of rounds
// has been played.
func NextSwissRound(t Tournament) Tournament {
	if t.Format != FormatSwiss || len(t.Participants) < 2 {
		return t
	}

	swissMatches := matchList(t.StageMatches(StageSwiss))
	if !swissMatches.MatchesComplete() {
		return t
	}

	lastRound := swissMatches.MaxRound()
	if lastRound >= t.Settings.SwissRounds() {
		next := t.Clone()
		next.Status = StatusCompleted
		return next
	}

	standings := BuildStandings(t.Participants, swissMatches)
	ranked := RankByBuchholz(t.ActiveParticipants(), standings)
	round := SwissRound(ranked, swissMatches, t.Settings.MaxMeetings(), lastRound+1)

	next := t.Clone()
	next.Matches = append(next.Matches, round...)
	next.Standings = standings
	return next
}

// Pairs the ranked participants for one swiss round.
//
// With an odd count the lowest ranked participant who has not had a
// bye yet gets one (the lowest ranked overall if everyone had one).
// The rest are paired top down: the best remaining participant meets
// the first remaining participant they have met less than maxMeetings
// times, or simply the next one when there is no such opponent.
func SwissRound(ranked []Participant, previous []Match, maxMeetings, round int) []Match {
	meetings := make(map[pairKey]int, len(previous))
	hadBye := make(map[string]bool)
	for _, m := range previous {
		switch {
		case m.Slot1.IsBye() && m.Slot2.IsBye():
		case m.Slot1.IsBye():
			hadBye[m.Slot2.ParticipantId] = true
		case m.Slot2.IsBye():
			hadBye[m.Slot1.ParticipantId] = true
		default:
			meetings[newPairKey(m.Slot1.ParticipantId, m.Slot2.ParticipantId)] += 1
		}
	}

	pool := participantIds(ranked)
	matches := make([]Match, 0, len(pool)/2+1)

	if len(pool)%2 != 0 {
		byeIndex := len(pool) - 1
		for i := len(pool) - 1; i >= 0; i -= 1 {
			if !hadBye[pool[i]] {
				byeIndex = i
				break
			}
		}
		byeMatch := NewMatch(
			swissMatchId(round, len(matches)),
			NewPlayerSlot(pool[byeIndex]),
			NewByeSlot(),
			round,
			StageSwiss,
		)
		matches = append(matches, byeMatch)
		pool = slices.Delete(pool, byeIndex, byeIndex+1)
	}

	for len(pool) > 1 {
		a := pool[0]
		pool = pool[1:]

		opponentIndex := slices.IndexFunc(pool, func(b string) bool {
			return meetings[newPairKey(a, b)] < maxMeetings
		})
		if opponentIndex == -1 {
			opponentIndex = 0
		}
		b := pool[opponentIndex]
		pool = slices.Delete(pool, opponentIndex, opponentIndex+1)

		meetings[newPairKey(a, b)] += 1
		match := NewMatch(
			swissMatchId(round, len(matches)),
			NewPlayerSlot(a),
			NewPlayerSlot(b),
			round,
			StageSwiss,
		)
		matches = append(matches, match)
	}

	return matches
}

// Order independent key of two participant ids
type pairKey struct {
	low, high string
}

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}
