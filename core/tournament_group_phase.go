package core

// Deals the participants into groupCount groups.
//
// The participants are shuffled with the group seed and then
// dealt one by one into the groups A, B, C, ... so the group
// sizes differ by at most one.
func CreateBalancedGroups(participants []Participant, groupCount int, seed *int64) []Group {
	groupCount = max(1, groupCount)
	groups := make([]Group, groupCount)
	for i := range groupCount {
		groups[i] = Group{
			Id:             groupName(i),
			ParticipantIds: make([]string, 0, len(participants)/groupCount+1),
		}
	}

	shuffled := SeededShuffle(participantIds(participants), seed, groupsSeedLabel)
	for i, id := range shuffled {
		g := &groups[i%groupCount]
		g.ParticipantIds = append(g.ParticipantIds, id)
	}

	return groups
}

func groupName(index int) string {
	return string(rune('A' + index))
}

// Creates the round robin matches of every group. The round numbers
// are shared across the groups so round n of the group stage is
// round n in each group.
func GroupStageMatches(groups []Group, faceOpponentsTwice bool) []Match {
	matches := make([]Match, 0, 16)
	for _, g := range groups {
		rounds := RoundRobinPasses(g.ParticipantIds, faceOpponentsTwice)
		for roundI, pairings := range rounds {
			round := roundI + 1
			for i, p := range pairings {
				match := NewMatch(
					groupMatchId(g.Id, round, i),
					NewPlayerSlot(p[0]),
					NewPlayerSlot(p[1]),
					round,
					StageGroup,
				)
				match.GroupId = g.Id
				matches = append(matches, match)
			}
		}
	}
	return matches
}

func groupMatches(matches []Match, groupId string) []Match {
	return filterMatches(matches, func(m Match) bool {
		return m.Stage == StageGroup && m.GroupId == groupId
	})
}
