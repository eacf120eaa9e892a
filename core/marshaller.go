package core

import (
	"encoding/json"
	"maps"
)

// A read-only presentation of a tournament. It marshals into the
// tournament itself plus the derived data a client needs to render
// it: standings tables, rounds, editable matches and the placement.
type TournamentView struct {
	Tournament
}

func (v TournamentView) MarshalJSON() ([]byte, error) {
	anymap := marshalTournamentView(v.Tournament)
	return json.Marshal(anymap)
}

func marshalTournamentView(t Tournament) map[string]any {
	result := map[string]any{
		"id":            t.Id,
		"name":          t.Name,
		"format":        t.Format,
		"status":        t.Status,
		"settings":      t.Settings,
		"participants":  t.Participants,
		"schemaVersion": t.SchemaVersion,
		"editable":      marshalEditable(t),
	}

	switch t.Format {
	case FormatGroupKnockout:
		maps.Copy(result, marshalGroupKnockout(t))
	case FormatKnockout:
		result["koPhase"] = marshalRounds(t.StageMatches(StageKnockout))
	case FormatSwiss:
		maps.Copy(result, marshalStandingsStage(t, StageSwiss))
	case FormatLeague:
		maps.Copy(result, marshalStandingsStage(t, StageLeague))
	}

	if len(t.Withdrawn) > 0 {
		result["withdrawn"] = t.Withdrawn
	}

	if placement, ok := ResolvePlacement(t); ok {
		result["placement"] = placement
	}

	return result
}

func marshalGroupKnockout(t Tournament) map[string]any {
	groups := make([]map[string]any, 0, len(t.Groups))
	for _, g := range t.Groups {
		members := make([]Participant, 0, len(g.ParticipantIds))
		for _, id := range g.ParticipantIds {
			if p, ok := t.Participant(id); ok {
				members = append(members, p)
			}
		}
		matches := groupMatches(t.Matches, g.Id)
		standings := BuildStandings(members, matches)

		groups = append(groups, map[string]any{
			"id":        g.Id,
			"rounds":    marshalRounds(matches),
			"standings": marshalStandings(RankByWins(members, standings), standings),
		})
	}

	return map[string]any{
		"groupPhase": groups,
		"koPhase":    marshalRounds(t.StageMatches(StageKnockout)),
	}
}

func marshalStandingsStage(t Tournament, stage Stage) map[string]any {
	matches := t.StageMatches(stage)
	standings := BuildStandings(t.Participants, matches)

	return map[string]any{
		"rounds":    marshalRounds(matches),
		"standings": marshalStandings(RankByWins(t.Participants, standings), standings),
	}
}

// Groups the matches by round in ascending round order
func marshalRounds(matches []Match) [][]Match {
	rounds := roundNumbers(matches)
	result := make([][]Match, len(rounds))
	for i, round := range rounds {
		result[i] = matchList(matches).InRound(round)
	}
	return result
}

func marshalStandings(ranked []Participant, standings Standings) []map[string]any {
	rows := make([]map[string]any, len(ranked))
	for i, p := range ranked {
		s := standings[p.Id]
		rows[i] = map[string]any{
			"rank":     i + 1,
			"id":       p.Id,
			"name":     p.Name,
			"played":   s.Played,
			"wins":     s.Wins,
			"losses":   s.Losses,
			"draws":    s.Draws,
			"points":   s.Points,
			"buchholz": s.Buchholz,
		}
	}
	return rows
}

func marshalEditable(t Tournament) []string {
	editable := EditableMatches(t)
	ids := make([]string, len(editable))
	for i, m := range editable {
		ids[i] = m.Id
	}
	return ids
}
