package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// The key under which the state is stored
const StateKey = "state"

var ErrClosed = errors.New("store is closed")

// Store persists the application state as a whole
type Store interface {
	// Returns the stored state or EmptyState when
	// nothing has been stored yet
	LoadState(ctx context.Context) (State, error)
	SaveState(ctx context.Context, state State) error
	Close() error
}

func encodeState(state State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (State, error) {
	state := EmptyState()
	if err := json.Unmarshal(data, &state); err != nil {
		return EmptyState(), fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state, nil
}

// MemoryStore keeps the encoded state in memory. It is used when
// persistence is disabled and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	saves  int
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadState(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return EmptyState(), ErrClosed
	}
	if s.data == nil {
		return EmptyState(), nil
	}
	return decodeState(s.data)
}

func (s *MemoryStore) SaveState(ctx context.Context, state State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data = data
	s.saves += 1
	return nil
}

// Returns how often the state was saved
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
