package core

import "testing"

func TestRoundRobinPairings(t *testing.T) {
	for n := 2; n <= 11; n += 1 {
		for _, twice := range []bool{false, true} {
			ids := participantIds(ParticipantSlice(n))
			rounds := RoundRobinPasses(ids, twice)

			expectedRounds := n - 1
			if n%2 != 0 {
				expectedRounds = n
			}
			meetings := 1
			if twice {
				expectedRounds *= 2
				meetings = 2
			}
			if len(rounds) != expectedRounds {
				t.Fatalf("%d entries produced %d rounds instead of %d", n, len(rounds), expectedRounds)
			}

			pairCount := make(map[pairKey]int)
			for _, round := range rounds {
				inRound := make(map[string]bool)
				for _, p := range round {
					eq1 := inRound[p[0]]
					eq2 := inRound[p[1]]
					if eq1 || eq2 || p[0] == p[1] {
						t.Fatalf("A participant plays twice in one round with %d entries", n)
					}
					inRound[p[0]] = true
					inRound[p[1]] = true
					pairCount[newPairKey(p[0], p[1])] += 1
				}
			}

			if len(pairCount) != n*(n-1)/2 {
				t.Fatalf("Not every pair of %d entries meets", n)
			}
			for key, count := range pairCount {
				if count != meetings {
					t.Fatalf("%s and %s meet %d times instead of %d", key.low, key.high, count, meetings)
				}
			}
		}
	}
}

func TestRoundRobinSecondPassIsReversed(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	rounds := RoundRobinPasses(ids, true)

	for i := range 3 {
		for j, p := range rounds[i] {
			if rounds[i+3][j] != p.Reversed() {
				t.Fatal("The second pass does not switch home and away sides")
			}
		}
	}
}

func TestLeagueMatches(t *testing.T) {
	participants := ParticipantSlice(5)
	matches := LeagueMatches(participants, false)

	eq1 := len(matches) == 10
	eq2 := matchList(matches).MaxRound() == 5
	if !eq1 || !eq2 {
		t.Fatal("A five participant league does not have 10 matches in 5 rounds")
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		if seen[m.Id] {
			t.Fatalf("The match id %s is not unique", m.Id)
		}
		seen[m.Id] = true
		if m.Stage != StageLeague || m.HasBye() {
			t.Fatal("A league match has the wrong stage or a bye")
		}
	}
}
