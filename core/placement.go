package core

// The final placement of a completed tournament
type Placement struct {
	ChampionId string `json:"championId"`
	RunnerUpId string `json:"runnerUpId,omitempty"`
}

// Returns the champion and the runner-up of a completed tournament.
//
// Knockout based formats are decided by the first decided match of the
// last knockout round that has a winner. The runner-up is the loser
// of that match. Standings based formats are decided by RankByBuchholz.
// The second return value is false when the tournament is not completed
// or no champion can be found.
func ResolvePlacement(t Tournament) (Placement, bool) {
	if t.Status != StatusCompleted {
		return Placement{}, false
	}

	switch t.Format {
	case FormatKnockout, FormatGroupKnockout:
		return placementFromKnockout(t)
	default:
		return placementFromStandings(t)
	}
}

func placementFromKnockout(t Tournament) (Placement, bool) {
	decided := matchList(filterMatches(t.Matches, func(m Match) bool {
		return m.Stage == StageKnockout && m.Played && m.Winner != ""
	}))
	if len(decided) == 0 {
		return Placement{}, false
	}

	final := decided.InRound(decided.MaxRound())[0]
	runnerUp, _ := final.Loser()

	return Placement{ChampionId: final.Winner, RunnerUpId: runnerUp}, true
}

func placementFromStandings(t Tournament) (Placement, bool) {
	standings := BuildStandings(t.Participants, t.Matches)
	ranked := RankByBuchholz(t.Participants, standings)
	if len(ranked) == 0 {
		return Placement{}, false
	}

	placement := Placement{ChampionId: ranked[0].Id}
	if len(ranked) > 1 {
		placement.RunnerUpId = ranked[1].Id
	}
	return placement, true
}

// Returns the id of the finalists of a knockout based tournament.
// Those are the two sides of the decisive match if it was played
// without a bye.
func Finalists(t Tournament) []string {
	placement, ok := ResolvePlacement(t)
	if !ok || placement.RunnerUpId == "" {
		return nil
	}
	if t.Format != FormatKnockout && t.Format != FormatGroupKnockout {
		return nil
	}
	return []string{placement.ChampionId, placement.RunnerUpId}
}
