package storage

import "fmt"

// Supported store drivers
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var Drivers = []string{DriverBolt, DriverSQLite, DriverMemory}

// Opens the store of the given driver. The path is the database
// file for bolt and sqlite and is ignored by the memory store.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverBolt:
		store, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverSQLite:
		store, err := NewSQLStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
