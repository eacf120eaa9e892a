// Package app holds the application state and applies the user
// actions to it.
//
// Every action produces a new immutable snapshot. Snapshots are
// published to the subscribers and handed to a background persister
// that only keeps the newest pending one. Persistence failures are
// logged and never reach the caller.
package app

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/history"
	"github.com/ezBadminton/tourneymgr/rating"
	"github.com/ezBadminton/tourneymgr/storage"
	"github.com/ezBadminton/tourneymgr/transfer"
	"github.com/google/uuid"
)

const (
	DefaultTournamentName = "Untitled Tournament"
	saveTimeout           = 10 * time.Second
)

var (
	ErrInvalidFormat = errors.New("unknown tournament format")
	ErrClosed        = errors.New("manager is closed")
)

// The input of CreateTournament
type NewTournament struct {
	Name         string             `json:"name"`
	Format       core.Format        `json:"format"`
	Participants []core.Participant `json:"participants"`
	Settings     core.Settings      `json:"settings"`
}

// Subscribers receive every new snapshot. They are called while the
// manager is locked and must not call back into it.
type Subscriber func(state storage.State)

type Manager struct {
	mu       sync.Mutex
	state    storage.State
	hydrated bool
	closed   bool

	subscribers map[int]Subscriber
	nextSubId   int

	store   storage.Store
	pending chan storage.State
	done    chan struct{}

	logger *slog.Logger
	now    func() time.Time
}

func NewManager(store storage.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		state:       storage.EmptyState(),
		subscribers: make(map[int]Subscriber),
		store:       store,
		pending:     make(chan storage.State, 1),
		done:        make(chan struct{}),
		logger:      logger,
		now:         time.Now,
	}
	go m.runPersister()
	return m
}

func (m *Manager) runPersister() {
	defer close(m.done)
	for state := range m.pending {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := m.store.SaveState(ctx, state)
		cancel()
		if err != nil {
			m.logger.Error("failed to save state", slog.Any("error", err))
		}
	}
}

// Waits for the pending snapshot to be saved and stops the persister.
// Actions after Close are rejected.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.pending)
	m.mu.Unlock()
	<-m.done
}

// Loads the stored state once. A state that cannot be loaded
// degrades to the empty state.
func (m *Manager) Hydrate(ctx context.Context) {
	loaded, err := m.store.LoadState(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hydrated || m.closed {
		return
	}
	m.hydrated = true

	if err != nil {
		m.logger.Error("failed to load state, starting empty", slog.Any("error", err))
		m.state = storage.EmptyState()
		m.publish()
		return
	}

	m.state = loaded.Hydrate()
	m.logger.Info("state loaded",
		slog.Int("tournaments", len(m.state.Tournaments)),
		slog.String("currentTournamentId", m.state.CurrentTournamentId),
	)
	m.publish()
	m.persist()
}

// Returns the current snapshot
func (m *Manager) State() storage.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Tournament(id string) (core.Tournament, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.state.TournamentIndex(id)
	if i == -1 {
		return core.Tournament{}, false
	}
	return m.state.Tournaments[i], true
}

// Registers a subscriber and returns the function that removes it
func (m *Manager) Subscribe(s Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubId
	m.nextSubId += 1
	m.subscribers[id] = s
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *Manager) CreateTournament(input NewTournament) (core.Tournament, error) {
	if !input.Format.Valid() {
		m.logger.Warn("rejected tournament", slog.String("format", string(input.Format)))
		return core.Tournament{}, ErrInvalidFormat
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultTournamentName
	}

	t := core.Tournament{
		Id:            uuid.New().String(),
		Name:          name,
		Format:        input.Format,
		Participants:  ValidateParticipants(input.Participants),
		Matches:       []core.Match{},
		Settings:      input.Settings,
		Status:        core.StatusNotStarted,
		SchemaVersion: core.SchemaVersion,
	}

	err := m.update("create_tournament", func(state storage.State) (storage.State, error) {
		state.Tournaments = slices.Insert(slices.Clone(state.Tournaments), 0, t)
		state.CurrentTournamentId = t.Id
		return state, nil
	})
	if err != nil {
		return core.Tournament{}, err
	}
	return t, nil
}

// Trims the names, drops unnamed participants and duplicate names,
// gives missing ids a fresh one and moves the ratings into the
// rating range with a missing rating becoming the default.
func ValidateParticipants(participants []core.Participant) []core.Participant {
	seen := make(map[string]bool, len(participants))
	valid := make([]core.Participant, 0, len(participants))
	for _, p := range participants {
		p.Name = strings.TrimSpace(p.Name)
		key := history.Key(p.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if p.Id == "" {
			p.Id = uuid.New().String()
		}
		if p.Rating == 0 || math.IsNaN(p.Rating) {
			p.Rating = rating.DefaultRating
		}
		p.Rating = rating.DefaultSettings().Clamp(p.Rating)
		valid = append(valid, p)
	}
	return valid
}

// Deletes the tournament. When it was selected the first remaining
// tournament is selected.
func (m *Manager) DeleteTournament(id string) error {
	return m.update("delete_tournament", func(state storage.State) (storage.State, error) {
		i := state.TournamentIndex(id)
		if i == -1 {
			return state, nil
		}
		state.Tournaments = slices.Delete(slices.Clone(state.Tournaments), i, i+1)
		if state.CurrentTournamentId == id {
			state.CurrentTournamentId = ""
			if len(state.Tournaments) > 0 {
				state.CurrentTournamentId = state.Tournaments[0].Id
			}
		}
		return state, nil
	})
}

func (m *Manager) UpdateParticipantRating(tournamentId, participantId string, value float64) error {
	return m.updateTournament("update_participant_rating", tournamentId, func(t core.Tournament) (core.Tournament, error) {
		next := t.Clone()
		for i, p := range next.Participants {
			if p.Id == participantId {
				next.Participants[i].Rating = rating.DefaultSettings().Clamp(value)
			}
		}
		return next, nil
	})
}

func (m *Manager) GenerateFixtures(id string) error {
	return m.updateTournament("generate_fixtures", id, func(t core.Tournament) (core.Tournament, error) {
		return core.GenerateFixtures(t), nil
	})
}

func (m *Manager) SimulateMatch(id, matchId string) error {
	return m.updateTournament("simulate_match", id, func(t core.Tournament) (core.Tournament, error) {
		return core.SimulateMatches(t, []string{matchId})
	})
}

func (m *Manager) SetMatchResult(id, matchId, winnerId string) error {
	return m.updateTournament("set_match_result", id, func(t core.Tournament) (core.Tournament, error) {
		return core.SetMatchResult(t, matchId, winnerId), nil
	})
}

func (m *Manager) SimulateRound(id string, round int) error {
	return m.updateTournament("simulate_round", id, func(t core.Tournament) (core.Tournament, error) {
		return core.SimulateRound(t, round)
	})
}

func (m *Manager) SimulateAll(id string) error {
	return m.updateTournament("simulate_all", id, core.SimulateAll)
}

func (m *Manager) WithdrawParticipant(id, participantId string) error {
	return m.updateTournament("withdraw_participant", id, func(t core.Tournament) (core.Tournament, error) {
		return core.WithdrawParticipant(t, participantId), nil
	})
}

func (m *Manager) ReenterParticipant(id, participantId string) error {
	return m.updateTournament("reenter_participant", id, func(t core.Tournament) (core.Tournament, error) {
		return core.ReenterParticipant(t, participantId), nil
	})
}

func (m *Manager) ResetTournament(id string) error {
	return m.updateTournament("reset_tournament", id, func(t core.Tournament) (core.Tournament, error) {
		return core.Reset(t), nil
	})
}

// Replays the played matches of the tournament through the rating
// system and writes the resulting ratings back to its participants.
// Matches of the other tournaments count as rating experience.
func (m *Manager) ApplyRatings(id string) error {
	return m.update("apply_ratings", func(state storage.State) (storage.State, error) {
		i := state.TournamentIndex(id)
		if i == -1 {
			return state, nil
		}
		t := state.Tournaments[i]

		others := slices.Delete(slices.Clone(state.Tournaments), i, i+1)
		experience := history.Derive(others)
		played := make(map[string]int, len(t.Participants))
		for _, p := range t.Participants {
			entry, _ := experience.Get(p.Name)
			played[p.Id] = entry.Played
		}

		ratings := rating.Replay(rating.DefaultSettings(), t, played)
		next := t.Clone()
		for j, p := range next.Participants {
			next.Participants[j].Rating = ratings[p.Id]
		}

		state.Tournaments = slices.Clone(state.Tournaments)
		state.Tournaments[i] = next
		return state, nil
	})
}

// Selects an existing tournament
func (m *Manager) SelectTournament(id string) error {
	return m.update("select_tournament", func(state storage.State) (storage.State, error) {
		if state.TournamentIndex(id) != -1 {
			state.CurrentTournamentId = id
		}
		return state, nil
	})
}

func (m *Manager) ClearAll() error {
	return m.update("clear_all", func(storage.State) (storage.State, error) {
		return storage.EmptyState(), nil
	})
}

func (m *Manager) Export() transfer.File {
	return transfer.Export(m.State(), m.now())
}

// Replaces the whole state with the content of a transfer file. The
// state is left untouched when the file is rejected.
func (m *Manager) Import(data []byte) transfer.Result {
	result := transfer.Import(data)
	if !result.Ok {
		m.logger.Warn("rejected import", slog.String("error", result.Error))
		return result
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return transfer.Result{Error: ErrClosed.Error()}
	}
	m.state = result.State
	m.logger.Info("state imported", slog.Int("tournaments", len(m.state.Tournaments)))
	m.publish()
	m.persist()
	return result
}

func (m *Manager) updateTournament(
	action, id string,
	apply func(t core.Tournament) (core.Tournament, error),
) error {
	return m.update(action, func(state storage.State) (storage.State, error) {
		i := state.TournamentIndex(id)
		if i == -1 {
			m.logger.Debug("unknown tournament", slog.String("action", action), slog.String("tournamentId", id))
			return state, nil
		}

		next, err := apply(state.Tournaments[i])
		if err != nil {
			return state, err
		}

		state.Tournaments = slices.Clone(state.Tournaments)
		state.Tournaments[i] = next
		return state, nil
	})
}

// Applies an action to the current state. The participant history is
// derived again from the resulting tournaments. A failing action
// leaves the state unchanged.
func (m *Manager) update(action string, apply func(state storage.State) (storage.State, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	next, err := apply(m.state)
	if err != nil {
		m.logger.Error("action failed", slog.String("action", action), slog.Any("error", err))
		return err
	}

	next.SchemaVersion = core.SchemaVersion
	next.ParticipantHistory = history.Derive(next.Tournaments)
	m.state = next
	m.logger.Debug("action applied", slog.String("action", action))

	m.publish()
	m.persist()
	return nil
}

func (m *Manager) publish() {
	for _, s := range m.subscribers {
		s(m.state)
	}
}

// Queues the current state for saving and replaces a snapshot that
// is still waiting
func (m *Manager) persist() {
	for {
		select {
		case m.pending <- m.state:
			return
		default:
		}
		select {
		case <-m.pending:
		default:
		}
	}
}
