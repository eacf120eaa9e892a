// Package history derives the career statistics of participants
// from the match history of all tournaments.
//
// Participants are identified across tournaments by their trimmed,
// lower-cased name. The statistics are a projection and can always be
// derived again from the tournaments.
package history

import (
	"maps"
	"slices"
	"strings"

	"github.com/ezBadminton/tourneymgr/core"
)

// The record of a participant against one opponent
type HeadToHead struct {
	OpponentName string `json:"opponentName"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Draws        int    `json:"draws"`
	Played       int    `json:"played"`
}

type StagePerformance struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

type StageStats struct {
	Group    StagePerformance `json:"group"`
	Knockout StagePerformance `json:"knockout"`
	Swiss    StagePerformance `json:"swiss"`
	League   StagePerformance `json:"league"`
}

func (s *StageStats) forStage(stage core.Stage) *StagePerformance {
	switch stage {
	case core.StageGroup:
		return &s.Group
	case core.StageKnockout:
		return &s.Knockout
	case core.StageSwiss:
		return &s.Swiss
	default:
		return &s.League
	}
}

// The career statistics of one participant
type Entry struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Played int    `json:"played"`

	Tournaments          int `json:"tournaments"`
	CompletedTournaments int `json:"completedTournaments"`
	Championships        int `json:"championships"`
	RunnerUps            int `json:"runnerUps"`
	Finals               int `json:"finals"`

	StageStats StageStats            `json:"stageStats"`
	Opponents  map[string]HeadToHead `json:"opponents"`
}

// Career statistics keyed by Key(name)
type History map[string]Entry

// Returns the key under which a participant name is recorded
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (h History) Get(name string) (Entry, bool) {
	entry, ok := h[Key(name)]
	return entry, ok
}

type builder map[string]*Entry

func (b builder) entry(name string) *Entry {
	name = strings.TrimSpace(name)
	key := Key(name)
	if e, ok := b[key]; ok {
		e.Name = name
		return e
	}
	e := &Entry{Name: name, Opponents: make(map[string]HeadToHead)}
	b[key] = e
	return e
}

func (b builder) history() History {
	h := make(History, len(b))
	for key, e := range b {
		h[key] = *e
	}
	return h
}

// Derives the career statistics from scratch.
//
// Every participant with a name counts one tournament per tournament
// entered. Played matches between two known participants count
// towards the overall, the per stage and the head-to-head records.
// Completed tournaments add their champion, runner-up and finalists.
func Derive(tournaments []core.Tournament) History {
	stats := make(builder)
	for _, t := range tournaments {
		deriveTournament(stats, t)
	}
	return stats.history()
}

func deriveTournament(stats builder, t core.Tournament) {
	names := make(map[string]string, len(t.Participants))
	entered := make(map[string]bool, len(t.Participants))
	for _, p := range t.Participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		names[p.Id] = name
		if entered[Key(name)] {
			continue
		}
		entered[Key(name)] = true

		e := stats.entry(name)
		e.Tournaments += 1
		if t.Status == core.StatusCompleted {
			e.CompletedTournaments += 1
		}
	}

	for _, m := range t.Matches {
		if !m.Contested() {
			continue
		}
		nameA, okA := names[m.Slot1.ParticipantId]
		nameB, okB := names[m.Slot2.ParticipantId]
		if !okA || !okB {
			continue
		}

		recordMatch(stats.entry(nameA), stats.entry(nameB), m)
	}

	placement, ok := core.ResolvePlacement(t)
	if !ok {
		return
	}
	if name, ok := names[placement.ChampionId]; ok {
		stats.entry(name).Championships += 1
	}
	if name, ok := names[placement.RunnerUpId]; ok {
		stats.entry(name).RunnerUps += 1
	}
	for _, id := range core.Finalists(t) {
		if name, ok := names[id]; ok {
			stats.entry(name).Finals += 1
		}
	}
}

func recordMatch(a, b *Entry, m core.Match) {
	aVs := a.Opponents[Key(b.Name)]
	bVs := b.Opponents[Key(a.Name)]
	aVs.OpponentName = b.Name
	bVs.OpponentName = a.Name

	aStage := a.StageStats.forStage(m.Stage)
	bStage := b.StageStats.forStage(m.Stage)

	a.Played += 1
	b.Played += 1
	aVs.Played += 1
	bVs.Played += 1
	aStage.Played += 1
	bStage.Played += 1

	switch m.Winner {
	case "":
		a.Draws += 1
		b.Draws += 1
		aVs.Draws += 1
		bVs.Draws += 1
		aStage.Draws += 1
		bStage.Draws += 1
	case m.Slot1.ParticipantId:
		a.Wins += 1
		b.Losses += 1
		aVs.Wins += 1
		bVs.Losses += 1
		aStage.Wins += 1
		bStage.Losses += 1
	case m.Slot2.ParticipantId:
		b.Wins += 1
		a.Losses += 1
		bVs.Wins += 1
		aVs.Losses += 1
		bStage.Wins += 1
		aStage.Losses += 1
	}

	a.Opponents[Key(b.Name)] = aVs
	b.Opponents[Key(a.Name)] = bVs
}

// Merges stored entries whose names map to the same key and keys
// every entry and head-to-head record by its normalized name.
// Entries without a name are dropped.
func Normalize(h History) History {
	stats := make(builder)
	for _, key := range slices.Sorted(maps.Keys(h)) {
		value := h[key]
		if Key(value.Name) == "" {
			continue
		}

		e := stats.entry(value.Name)
		e.Wins += value.Wins
		e.Losses += value.Losses
		e.Draws += value.Draws
		e.Played += value.Played
		e.Tournaments += value.Tournaments
		e.CompletedTournaments += value.CompletedTournaments
		e.Championships += value.Championships
		e.RunnerUps += value.RunnerUps
		e.Finals += value.Finals
		e.StageStats.Group = addPerformance(e.StageStats.Group, value.StageStats.Group)
		e.StageStats.Knockout = addPerformance(e.StageStats.Knockout, value.StageStats.Knockout)
		e.StageStats.Swiss = addPerformance(e.StageStats.Swiss, value.StageStats.Swiss)
		e.StageStats.League = addPerformance(e.StageStats.League, value.StageStats.League)

		for _, opponentKey := range slices.Sorted(maps.Keys(value.Opponents)) {
			opponent := value.Opponents[opponentKey]
			key := Key(opponent.OpponentName)
			if key == "" {
				continue
			}
			current := e.Opponents[key]
			e.Opponents[key] = HeadToHead{
				OpponentName: strings.TrimSpace(opponent.OpponentName),
				Wins:         current.Wins + opponent.Wins,
				Losses:       current.Losses + opponent.Losses,
				Draws:        current.Draws + opponent.Draws,
				Played:       current.Played + opponent.Played,
			}
		}
	}
	return stats.history()
}

func addPerformance(a, b StagePerformance) StagePerformance {
	return StagePerformance{
		Played: a.Played + b.Played,
		Wins:   a.Wins + b.Wins,
		Losses: a.Losses + b.Losses,
		Draws:  a.Draws + b.Draws,
	}
}
