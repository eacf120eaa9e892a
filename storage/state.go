package storage

import (
	"slices"

	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/history"
)

// The complete persisted application state. It is always read and
// written as a whole.
type State struct {
	SchemaVersion       int               `json:"schemaVersion"`
	Tournaments         []core.Tournament `json:"tournaments"`
	ParticipantHistory  history.History   `json:"participantHistory"`
	CurrentTournamentId string            `json:"currentTournamentId"`
}

// The state of a fresh installation
func EmptyState() State {
	return State{
		SchemaVersion:      core.SchemaVersion,
		Tournaments:        []core.Tournament{},
		ParticipantHistory: history.History{},
	}
}

// Returns the index of the tournament or -1
func (s State) TournamentIndex(id string) int {
	return slices.IndexFunc(s.Tournaments, func(t core.Tournament) bool { return t.Id == id })
}

// Repairs a loaded or imported state.
//
// Tournaments without a schema version get the current one. The
// participant history is derived from the tournaments and only when
// that yields nothing the stored history is kept in normalized form.
// A current tournament id that points nowhere moves to the first
// tournament.
func (s State) Hydrate() State {
	hydrated := State{
		SchemaVersion: core.SchemaVersion,
		Tournaments:   make([]core.Tournament, len(s.Tournaments)),
	}

	for i, t := range s.Tournaments {
		if t.SchemaVersion == 0 {
			t.SchemaVersion = core.SchemaVersion
		}
		if t.Matches == nil {
			t.Matches = []core.Match{}
		}
		hydrated.Tournaments[i] = t
	}

	hydrated.ParticipantHistory = history.Derive(hydrated.Tournaments)
	if len(hydrated.ParticipantHistory) == 0 {
		hydrated.ParticipantHistory = history.Normalize(s.ParticipantHistory)
	}

	hydrated.CurrentTournamentId = s.CurrentTournamentId
	if hydrated.TournamentIndex(s.CurrentTournamentId) == -1 {
		hydrated.CurrentTournamentId = ""
		if len(hydrated.Tournaments) > 0 {
			hydrated.CurrentTournamentId = hydrated.Tournaments[0].Id
		}
	}

	return hydrated
}
