package core

import (
	"errors"
	"slices"
)

const SchemaVersion = 1

var ErrUnknownParticipant = errors.New("cannot simulate match with unknown participants")

type Format string

const (
	FormatGroupKnockout Format = "GROUP_KO"
	FormatKnockout      Format = "KNOCKOUT"
	FormatSwiss         Format = "SWISS"
	FormatLeague        Format = "LEAGUE"
)

func (f Format) Valid() bool {
	switch f {
	case FormatGroupKnockout, FormatKnockout, FormatSwiss, FormatLeague:
		return true
	}
	return false
}

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

const (
	DefaultGroupCount      = 2
	DefaultAdvancePerGroup = 2
	DefaultSwissRounds     = 5
)

// A Participant is a person or team taking part in a tournament.
type Participant struct {
	Id     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type Settings struct {
	GroupCount         int    `json:"groupCount,omitempty"`
	AdvancePerGroup    int    `json:"advancePerGroup,omitempty"`
	Rounds             int    `json:"rounds,omitempty"`
	RandomSeed         *int64 `json:"randomSeed,omitempty"`
	AllowDraws         bool   `json:"allowDraws,omitempty"`
	FaceOpponentsTwice bool   `json:"faceOpponentsTwice,omitempty"`
}

// Number of groups in a GROUP_KO tournament. Never less than 2.
func (s Settings) Groups() int {
	return max(DefaultGroupCount, s.GroupCount)
}

func (s Settings) Advancing() int {
	if s.AdvancePerGroup <= 0 {
		return DefaultAdvancePerGroup
	}
	return s.AdvancePerGroup
}

func (s Settings) SwissRounds() int {
	if s.Rounds <= 0 {
		return DefaultSwissRounds
	}
	return s.Rounds
}

// How often two participants may meet in a round robin or swiss stage
func (s Settings) MaxMeetings() int {
	if s.FaceOpponentsTwice {
		return 2
	}
	return 1
}

// A Group is a fixed partition of the participants in the
// group stage of a GROUP_KO tournament.
type Group struct {
	Id             string   `json:"id"`
	ParticipantIds []string `json:"participantIds"`
}

// A Tournament is an immutable snapshot. Every operation in this
// package that changes a tournament returns a new value and leaves
// its input untouched.
type Tournament struct {
	Id            string        `json:"id"`
	Name          string        `json:"name"`
	Format        Format        `json:"format"`
	Participants  []Participant `json:"participants"`
	Matches       []Match       `json:"matches"`
	Standings     Standings     `json:"standings,omitempty"`
	Settings      Settings      `json:"settings"`
	Status        Status        `json:"status"`
	Groups        []Group       `json:"groups,omitempty"`
	Withdrawn     []string      `json:"withdrawn,omitempty"`
	SchemaVersion int           `json:"schemaVersion"`
}

// Returns a deep copy of the tournament
func (t Tournament) Clone() Tournament {
	clone := t
	clone.Participants = slices.Clone(t.Participants)
	clone.Matches = slices.Clone(t.Matches)
	if t.Standings != nil {
		clone.Standings = make(Standings, len(t.Standings))
		for k, v := range t.Standings {
			clone.Standings[k] = v
		}
	}
	clone.Withdrawn = slices.Clone(t.Withdrawn)
	if t.Groups != nil {
		clone.Groups = make([]Group, len(t.Groups))
		for i, g := range t.Groups {
			clone.Groups[i] = Group{Id: g.Id, ParticipantIds: slices.Clone(g.ParticipantIds)}
		}
	}
	if t.Settings.RandomSeed != nil {
		seed := *t.Settings.RandomSeed
		clone.Settings.RandomSeed = &seed
	}
	return clone
}

func (t *Tournament) Participant(id string) (Participant, bool) {
	for _, p := range t.Participants {
		if p.Id == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (t *Tournament) MatchIndex(matchId string) int {
	return slices.IndexFunc(t.Matches, func(m Match) bool { return m.Id == matchId })
}

// Returns the matches of the given stage in their stored order
func (t *Tournament) StageMatches(stage Stage) []Match {
	return filterMatches(t.Matches, func(m Match) bool { return m.Stage == stage })
}

// Returns true when at least one match exists and all of them
// have been played
func (t *Tournament) AllPlayed() bool {
	return len(t.Matches) > 0 && matchList(t.Matches).MatchesComplete()
}

// Reset clears all matches, groups, standings and withdrawals and
// returns the tournament to NOT_STARTED. Participants and settings
// are kept.
func Reset(t Tournament) Tournament {
	next := t.Clone()
	next.Matches = []Match{}
	next.Groups = nil
	next.Withdrawn = nil
	next.Standings = nil
	next.Status = StatusNotStarted
	return next
}
