// Package transfer exports the application state into a versioned
// transfer file and imports such files back.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/history"
	"github.com/ezBadminton/tourneymgr/storage"
)

var (
	ErrNotObject         = errors.New("transfer file is not a JSON object")
	ErrTournamentsList   = errors.New("tournaments is not a list")
	ErrHistoryMap        = errors.New("participantHistory is not a keyed map")
	ErrCurrentTournament = errors.New("currentTournamentId is not a string or null")
	ErrTournamentShape   = errors.New("tournament has an invalid shape")
)

// The transfer file
type File struct {
	SchemaVersion       int               `json:"schemaVersion"`
	ExportedAt          time.Time         `json:"exportedAt"`
	Tournaments         []core.Tournament `json:"tournaments"`
	ParticipantHistory  history.History   `json:"participantHistory"`
	CurrentTournamentId *string           `json:"currentTournamentId"`
}

// The outcome of an import. State is only set when Ok is true.
type Result struct {
	Ok    bool          `json:"ok"`
	Error string        `json:"error,omitempty"`
	State storage.State `json:"-"`
}

func Export(state storage.State, exportedAt time.Time) File {
	file := File{
		SchemaVersion:      core.SchemaVersion,
		ExportedAt:         exportedAt.UTC(),
		Tournaments:        state.Tournaments,
		ParticipantHistory: state.ParticipantHistory,
	}
	if file.Tournaments == nil {
		file.Tournaments = []core.Tournament{}
	}
	if file.ParticipantHistory == nil {
		file.ParticipantHistory = history.History{}
	}
	if state.CurrentTournamentId != "" {
		id := state.CurrentTournamentId
		file.CurrentTournamentId = &id
	}
	return file
}

// Import validates the shape of a transfer file and returns the
// hydrated state it contains.
//
// The participant history is derived from the imported tournaments
// whenever they contain any participant. Otherwise the transferred
// history is used.
func Import(data []byte) Result {
	state, err := decode(data)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Ok: true, State: state.Hydrate()}
}

func decode(data []byte) (storage.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return storage.State{}, ErrNotObject
	}

	state := storage.EmptyState()

	var tournaments []json.RawMessage
	raw, ok := fields["tournaments"]
	if !ok || !isKind(raw, '[') {
		return state, ErrTournamentsList
	}
	if err := json.Unmarshal(raw, &tournaments); err != nil {
		return state, ErrTournamentsList
	}

	for i, rawTournament := range tournaments {
		var t core.Tournament
		if err := json.Unmarshal(rawTournament, &t); err != nil {
			return state, fmt.Errorf("%w: tournament %d: %v", ErrTournamentShape, i, err)
		}
		if t.Id == "" || !t.Format.Valid() {
			return state, fmt.Errorf("%w: tournament %d has no id or an unknown format", ErrTournamentShape, i)
		}
		state.Tournaments = append(state.Tournaments, t)
	}

	raw, ok = fields["participantHistory"]
	if !ok || !isKind(raw, '{') {
		return state, ErrHistoryMap
	}
	if err := json.Unmarshal(raw, &state.ParticipantHistory); err != nil {
		return state, fmt.Errorf("%w: %v", ErrHistoryMap, err)
	}

	if raw, ok := fields["currentTournamentId"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &state.CurrentTournamentId); err != nil {
			return state, ErrCurrentTournament
		}
	}

	return state, nil
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
