package core

const (
	winPoints  = 3
	drawPoints = 1
)

// The record of one participant over a set of matches
type Standing struct {
	Played   int `json:"played"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Draws    int `json:"draws"`
	Points   int `json:"points"`
	Buchholz int `json:"buchholz"`
}

// Standings keyed by participant id
type Standings map[string]Standing

// Computes the standings of the participants from scratch.
//
// Only played matches between two of the given participants count.
// Matches against a bye or against someone outside of the list are
// skipped and so are walkovers without a winner. After points are
// known each participant's Buchholz score is the sum of the points
// of every opponent they played.
func BuildStandings(participants []Participant, matches []Match) Standings {
	table := make(map[string]*Standing, len(participants))
	for _, p := range participants {
		table[p.Id] = &Standing{}
	}

	counted := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.Played || m.HasBye() || (m.Walkover && m.Winner == "") {
			continue
		}
		a, okA := table[m.Slot1.ParticipantId]
		b, okB := table[m.Slot2.ParticipantId]
		if !okA || !okB {
			continue
		}
		counted = append(counted, m)

		a.Played += 1
		b.Played += 1

		switch m.Winner {
		case "":
			a.Draws += 1
			b.Draws += 1
			a.Points += drawPoints
			b.Points += drawPoints
		case m.Slot1.ParticipantId:
			a.Wins += 1
			b.Losses += 1
			a.Points += winPoints
		case m.Slot2.ParticipantId:
			b.Wins += 1
			a.Losses += 1
			b.Points += winPoints
		}
	}

	for _, m := range counted {
		a := table[m.Slot1.ParticipantId]
		b := table[m.Slot2.ParticipantId]
		a.Buchholz += b.Points
		b.Buchholz += a.Points
	}

	standings := make(Standings, len(table))
	for id, s := range table {
		standings[id] = *s
	}
	return standings
}
