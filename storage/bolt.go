package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

// BoltDB bucket name for the application state
const AppStateBucket = "app_state"

// BoltStore implements Store using BoltDB for persistence
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens or creates the BoltDB file at dbPath
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(AppStateBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) LoadState(ctx context.Context) (State, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AppStateBucket))
		if bucket == nil {
			return nil
		}
		// The value is only valid during the transaction
		if v := bucket.Get([]byte(StateKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return EmptyState(), fmt.Errorf("failed to get key %s: %w", StateKey, err)
	}

	if data == nil {
		return EmptyState(), nil
	}
	return decodeState(data)
}

func (s *BoltStore) SaveState(ctx context.Context, state State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AppStateBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %s does not exist", AppStateBucket)
		}
		return bucket.Put([]byte(StateKey), data)
	})
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
