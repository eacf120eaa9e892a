package core

import "slices"

// Upper bound of simulated rounds in SimulateAll
const simulationGuard = 1000

// Runs the stage transitions of the tournament's format and then
// the generic completion rule.
//
// Pending byes and walkovers are played first and the transitions repeat
// until nothing changes, so a freshly generated round that contains
// a bye is resolved right away. Finally the standings are rebuilt
// from all matches and a tournament whose matches are all played is
// COMPLETED regardless of its format.
func Progress(t Tournament) Tournament {
	next := t.Clone()

	for {
		resolved := resolvePending(next.Matches, next.Withdrawn)
		numMatches := len(next.Matches)

		switch next.Format {
		case FormatGroupKnockout:
			next = AdvanceKnockout(StartKnockoutAfterGroups(next))
		case FormatKnockout:
			next = AdvanceKnockout(next)
		case FormatSwiss:
			next = NextSwissRound(next)
		}

		if resolved == 0 && len(next.Matches) == numMatches {
			break
		}
	}

	next.Standings = BuildStandings(next.Participants, next.Matches)
	if next.AllPlayed() {
		next.Status = StatusCompleted
	}

	return next
}

// Plays every unplayed match that has a bye or a withdrawn side and
// returns how many were played
func resolvePending(matches []Match, withdrawn []string) int {
	resolved := 0
	for i, m := range matches {
		if m.Played {
			continue
		}
		outcome, ok := ResolveWalkover(m, withdrawn)
		if !ok {
			outcome, ok = ResolveBye(m)
		}
		if ok {
			matches[i] = outcome.applyTo(m)
			resolved += 1
		}
	}
	return resolved
}

// Creates the first stage of the tournament. Existing matches,
// groups and withdrawals are replaced.
func GenerateFixtures(t Tournament) Tournament {
	next := t.Clone()
	next.Matches = []Match{}
	next.Groups = nil
	next.Withdrawn = nil

	seed := t.Settings.RandomSeed
	twice := t.Settings.FaceOpponentsTwice

	switch t.Format {
	case FormatKnockout:
		next.Matches = append(next.Matches, KnockoutRoundOne(t.Participants, seed, 1)...)
	case FormatGroupKnockout:
		next.Groups = CreateBalancedGroups(t.Participants, t.Settings.Groups(), seed)
		next.Matches = GroupStageMatches(next.Groups, twice)
	case FormatSwiss:
		next = NextSwissRound(next)
	case FormatLeague:
		next.Matches = LeagueMatches(t.Participants, twice)
	}

	if len(next.Matches) > 0 {
		next.Status = StatusInProgress
	} else {
		next.Status = StatusNotStarted
	}

	return Progress(next)
}

// Simulates the given matches and progresses the tournament.
//
// Ids of unknown or already played matches are skipped. When
// nothing is left to simulate the input is returned unchanged.
func SimulateMatches(t Tournament, matchIds []string) (Tournament, error) {
	pending := make(map[string]bool, len(matchIds))
	for _, id := range matchIds {
		pending[id] = true
	}

	next := t.Clone()
	simulated := 0
	for i, m := range next.Matches {
		if m.Played || !pending[m.Id] {
			continue
		}
		outcome, err := SimulateMatchResult(t, m)
		if err != nil {
			return t, err
		}
		next.Matches[i] = outcome.applyTo(m)
		simulated += 1
	}

	if simulated == 0 {
		return t, nil
	}

	next.Status = StatusInProgress
	return Progress(next), nil
}

// Simulates every unplayed match of the given round in all stages
func SimulateRound(t Tournament, round int) (Tournament, error) {
	return SimulateMatches(t, unplayedMatchIds(t.Matches, round))
}

// Simulates the tournament round by round until it is completed or
// no unplayed match is left.
func SimulateAll(t Tournament) (Tournament, error) {
	current := t
	for range simulationGuard {
		i := slices.IndexFunc(current.Matches, func(m Match) bool { return !m.Played })
		if i == -1 {
			break
		}

		next, err := SimulateRound(current, current.Matches[i].Round)
		if err != nil {
			return t, err
		}
		current = next

		if current.Status == StatusCompleted {
			break
		}
	}
	return current, nil
}

func unplayedMatchIds(matches []Match, round int) []string {
	ids := make([]string, 0, 8)
	for _, m := range matches {
		if !m.Played && m.Round == round {
			ids = append(ids, m.Id)
		}
	}
	return ids
}
