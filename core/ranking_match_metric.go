package core

import (
	"cmp"
	"slices"
)

// Ranks the participants by points, then Buchholz score, then rating.
//
// This is the ranking that decides things: swiss pairings, group
// qualifiers and the winner of a standings based tournament.
func RankByBuchholz(participants []Participant, standings Standings) []Participant {
	return rankByMetric(participants, standings, func(s Standing) int { return s.Buchholz })
}

// Ranks the participants by points, then wins, then rating.
//
// This is the order of the displayed standings tables.
func RankByWins(participants []Participant, standings Standings) []Participant {
	return rankByMetric(participants, standings, func(s Standing) int { return s.Wins })
}

// Sorts a copy of the participants descending by points and the
// tie-break metric returned by the getter. Rating is the final
// criterion and remaining ties keep their input order.
func rankByMetric(
	participants []Participant,
	standings Standings,
	tieBreak func(s Standing) int,
) []Participant {
	ranked := slices.Clone(participants)
	slices.SortStableFunc(ranked, func(a, b Participant) int {
		sa := standings[a.Id]
		sb := standings[b.Id]
		return cmp.Or(
			cmp.Compare(sb.Points, sa.Points),
			cmp.Compare(tieBreak(sb), tieBreak(sa)),
			cmp.Compare(b.Rating, a.Rating),
		)
	})
	return ranked
}
