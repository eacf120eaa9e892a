package core

import (
	"fmt"
	"slices"
	"strings"
)

type Stage string

const (
	StageGroup    Stage = "GROUP"
	StageSwiss    Stage = "SWISS"
	StageLeague   Stage = "LEAGUE"
	StageKnockout Stage = "KNOCKOUT"
)

// A match with two slots for the opponents.
//
// A played match without a winner is a draw. It is never
// an undecided match.
type Match struct {
	Id string `json:"id"`

	// The first opponent slot
	Slot1 Slot `json:"playerA"`
	// The second opponent slot
	Slot2 Slot `json:"playerB"`

	// Participant id of the winner or empty for
	// unplayed and drawn matches
	Winner string `json:"winner,omitempty"`
	Played bool   `json:"played"`
	// Set when the match was decided because a side withdrew
	Walkover bool `json:"walkover,omitempty"`

	// 1-based round number inside the stage
	Round   int    `json:"round"`
	Stage   Stage  `json:"stage"`
	GroupId string `json:"groupId,omitempty"`
}

func (m *Match) HasBye() bool {
	return m.Slot1.IsBye() || m.Slot2.IsBye()
}

func (m *Match) IsDraw() bool {
	return m.Played && m.Winner == "" && !m.Walkover
}

// Returns true when the match was played out between two
// participants and not resolved by a bye or a walkover
func (m *Match) Contested() bool {
	return m.Played && !m.HasBye() && !m.Walkover
}

func (m *Match) ContainsPlayer(participantId string) bool {
	return m.Slot1.Is(participantId) || m.Slot2.Is(participantId)
}

// Returns the slot facing the given participant. The second
// return value is false when the participant is not in the match.
func (m *Match) Opponent(participantId string) (Slot, bool) {
	if m.Slot1.Is(participantId) {
		return m.Slot2, true
	}
	if m.Slot2.Is(participantId) {
		return m.Slot1, true
	}
	return Slot{}, false
}

// Returns the participant id of the loser of a decided match
func (m *Match) Loser() (string, bool) {
	if !m.Played || m.Winner == "" {
		return "", false
	}
	other, ok := m.Opponent(m.Winner)
	if !ok || other.IsBye() {
		return "", false
	}
	return other.ParticipantId, true
}

// Returns true when the match has the same two participants
// as a and b, in any order
func (m *Match) Pairs(a, b string) bool {
	return (m.Slot1.Is(a) && m.Slot2.Is(b)) || (m.Slot1.Is(b) && m.Slot2.Is(a))
}

func (m *Match) String() string {
	var sb strings.Builder
	sb.WriteString(m.Slot1.String())
	sb.WriteString(" vs. ")
	sb.WriteString(m.Slot2.String())

	if m.Played {
		sb.WriteRune('\t')
		if m.Winner == "" {
			sb.WriteString("draw")
		} else {
			sb.WriteString("winner ")
			sb.WriteString(m.Winner)
		}
	}

	return sb.String()
}

func NewMatch(id string, slot1, slot2 Slot, round int, stage Stage) Match {
	return Match{
		Id:    id,
		Slot1: slot1,
		Slot2: slot2,
		Round: round,
		Stage: stage,
	}
}

// Match ids are derived from the position of the match so that the
// same seeded tournament always produces the same ids and with
// them the same simulated results.
func knockoutMatchId(round, index int) string {
	return fmt.Sprintf("ko-r%d-m%d", round, index+1)
}

func groupMatchId(groupId string, round, index int) string {
	return fmt.Sprintf("grp-%s-r%d-m%d", groupId, round, index+1)
}

func swissMatchId(round, index int) string {
	return fmt.Sprintf("sw-r%d-m%d", round, index+1)
}

func leagueMatchId(round, index int) string {
	return fmt.Sprintf("lg-r%d-m%d", round, index+1)
}

// A slice of matches with some helper queries
type matchList []Match

// Returns true when all matches in the list are played
func (l matchList) MatchesComplete() bool {
	for _, m := range l {
		if !m.Played {
			return false
		}
	}
	return true
}

// Returns true when any of the matches has been played
func (l matchList) MatchesStarted() bool {
	return slices.ContainsFunc(l, func(m Match) bool { return m.Played })
}

// Returns the highest round number or 0 for an empty list
func (l matchList) MaxRound() int {
	maxRound := 0
	for _, m := range l {
		maxRound = max(maxRound, m.Round)
	}
	return maxRound
}

func (l matchList) InRound(round int) matchList {
	return filterMatches(l, func(m Match) bool { return m.Round == round })
}

func filterMatches(matches []Match, keep func(m Match) bool) []Match {
	filtered := make([]Match, 0, len(matches))
	for _, m := range matches {
		if keep(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
