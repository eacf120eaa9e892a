package core

// Returns the qualifiers of a completed group stage.
//
// Each group is ranked by RankByBuchholz over its own matches with a
// head-to-head correction for the top two places. The best
// advancePerGroup participants of every group qualify, in group id
// order.
func GroupQualifiers(t Tournament) []Participant {
	advancing := t.Settings.Advancing()

	byId := make(map[string]Participant, len(t.Participants))
	for _, p := range t.Participants {
		byId[p.Id] = p
	}

	qualifiers := make([]Participant, 0, advancing*len(t.Groups))
	for _, g := range t.Groups {
		members := make([]Participant, 0, len(g.ParticipantIds))
		for _, id := range g.ParticipantIds {
			if p, ok := byId[id]; ok {
				members = append(members, p)
			}
		}

		matches := groupMatches(t.Matches, g.Id)
		standings := BuildStandings(members, matches)
		ranked := RankByBuchholz(members, standings)
		ranked = applyHeadToHeadTieBreak(ranked, standings, matches)

		qualifiers = append(qualifiers, ranked[:min(advancing, len(ranked))]...)
	}

	return qualifiers
}

// Swaps the top two of a group when they are level on points and
// the second placed won their direct meeting. Only the first two
// places are looked at.
func applyHeadToHeadTieBreak(ordered []Participant, standings Standings, matches []Match) []Participant {
	if len(ordered) < 2 {
		return ordered
	}

	a := ordered[0]
	b := ordered[1]
	if standings[a.Id].Points != standings[b.Id].Points {
		return ordered
	}

	for _, m := range matches {
		if !m.Played || !m.Pairs(a.Id, b.Id) {
			continue
		}
		if m.Winner == b.Id {
			ordered[0], ordered[1] = b, a
		}
		break
	}

	return ordered
}

// Starts the knockout stage of a GROUP_KO tournament once every
// group match is played. The knockout rounds continue the round
// numbering of the group stage.
func StartKnockoutAfterGroups(t Tournament) Tournament {
	if t.Format != FormatGroupKnockout {
		return t
	}

	groupStage := matchList(t.StageMatches(StageGroup))
	knockoutExists := len(t.StageMatches(StageKnockout)) > 0
	if len(groupStage) == 0 || !groupStage.MatchesComplete() || knockoutExists {
		return t
	}

	qualifiers := GroupQualifiers(t)
	koMatches := KnockoutRoundOne(qualifiers, t.Settings.RandomSeed, groupStage.MaxRound()+1)
	if len(koMatches) == 0 {
		return t
	}

	next := t.Clone()
	next.Matches = append(next.Matches, koMatches...)
	return next
}
